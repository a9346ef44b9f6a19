package types

// Superblock Constants
//
// A volume's superblock is split across two files next to the volume
// data, named by appending a fixed suffix to the volume base path.
// The first file is plain text and holds just enough to rebuild the
// cipher configuration; the second is a single encrypted sector
// holding the volume metadata proper.

const (
	// HeaderFileSuffix is appended to the base path to form the name
	// of the plaintext superblock file.
	HeaderFileSuffix = ".sb1"

	// RecordFileSuffix is appended to the base path to form the name
	// of the encrypted superblock file.
	RecordFileSuffix = ".sb2"
)

const (
	// SectorSize is the fixed size of an encrypted sector.
	SectorSize = 512

	// SectorRandomSize is the length of the random prefix at the start
	// of each sector. It is regenerated on every write so that two
	// encryptions of the same payload never produce the same
	// ciphertext.
	SectorRandomSize = 4

	// SectorPayloadSize is the number of usable payload bytes in a
	// sector.
	SectorPayloadSize = SectorSize - SectorRandomSize
)

// SuperblockMagic identifies a valid decrypted superblock record.
const SuperblockMagic uint32 = 0x41454653

// VersionCurrent is the current superblock format version. Records
// with a higher version are rejected; writing always stamps this
// value.
const VersionCurrent uint32 = 1

// Field widths inside the encrypted record payload. All integers are
// little-endian. The label and description are null-terminated within
// their fixed-width fields.
const (
	LabelSize       = 128
	DescriptionSize = 256
)

// Byte offsets of the record fields within the sector payload.
const (
	RecordMagicOffset       = 0
	RecordVersionOffset     = 4
	RecordFlagsOffset       = 8
	RecordRootIDOffset      = 12
	RecordLabelOffset       = 16
	RecordDescriptionOffset = RecordLabelOffset + LabelSize
	RecordEndOffset         = RecordDescriptionOffset + DescriptionSize
)

const (
	// MaxKeySize is the largest raw key, in bytes, any registered
	// cipher may require.
	MaxKeySize = 64

	// MaxBasePathLen bounds the volume base path. Longer paths are
	// rejected as invalid parameters rather than silently truncated.
	MaxBasePathLen = 1024
)
