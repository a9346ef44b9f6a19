package superblock

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-aefs/internal/crypto"
	"github.com/deploymenttheory/go-aefs/internal/types"
)

// readRecord reads and decrypts the encrypted superblock file into
// the in-memory superblock.
//
// The string fields are truncated at their first null byte (or the
// field width) no matter what the decryption produced, so garbage on
// disk can never escape the field bounds. Decryption itself cannot
// detect a wrong key or corrupted ciphertext; the fields are
// populated either way and magic/version validation is left to the
// caller.
func (sb *SuperBlock) readRecord() error {
	path := sb.basePath + types.RecordFileSuffix

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", types.ErrStorage, path, err)
	}

	raw := make([]byte, types.SectorSize)
	if _, err := io.ReadFull(file, raw); err != nil {
		file.Close()
		return fmt.Errorf("%w: read %s: %v", types.ErrStorage, path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", types.ErrStorage, path, err)
	}

	plain := make([]byte, types.SectorSize)
	defer crypto.Wipe(plain)

	decErr := crypto.DecryptSector(plain, raw, sb.key, sb.parms.CryptoFlags)

	endian := binary.LittleEndian
	payload := plain[types.SectorRandomSize:]

	sb.Magic = endian.Uint32(payload[types.RecordMagicOffset:])
	sb.Version = endian.Uint32(payload[types.RecordVersionOffset:])
	sb.Flags = endian.Uint32(payload[types.RecordFlagsOffset:])
	sb.RootID = endian.Uint32(payload[types.RecordRootIDOffset:])
	sb.Label = cString(payload[types.RecordLabelOffset : types.RecordLabelOffset+types.LabelSize])
	sb.Description = cString(payload[types.RecordDescriptionOffset : types.RecordDescriptionOffset+types.DescriptionSize])

	return decErr
}

// writeRecord serializes, encrypts and persists the superblock
// record. The current magic and version are always stamped, so a
// write doubles as a format upgrade for records carrying an older
// version. The random prefix and tail padding are refreshed from the
// system RNG so two writes of identical metadata never produce the
// same ciphertext.
func (sb *SuperBlock) writeRecord() error {
	path := sb.basePath + types.RecordFileSuffix

	plain := make([]byte, types.SectorSize)
	defer crypto.Wipe(plain)

	if _, err := rand.Read(plain[:types.SectorRandomSize]); err != nil {
		return fmt.Errorf("%w: %v", types.ErrCipher, err)
	}

	endian := binary.LittleEndian
	payload := plain[types.SectorRandomSize:]

	endian.PutUint32(payload[types.RecordMagicOffset:], types.SuperblockMagic)
	endian.PutUint32(payload[types.RecordVersionOffset:], types.VersionCurrent)
	endian.PutUint32(payload[types.RecordFlagsOffset:], sb.Flags)
	endian.PutUint32(payload[types.RecordRootIDOffset:], sb.RootID)
	putCString(payload[types.RecordLabelOffset:types.RecordLabelOffset+types.LabelSize], sb.Label)
	putCString(payload[types.RecordDescriptionOffset:types.RecordDescriptionOffset+types.DescriptionSize], sb.Description)

	if _, err := rand.Read(payload[types.RecordEndOffset:]); err != nil {
		return fmt.Errorf("%w: %v", types.ErrCipher, err)
	}

	enc := make([]byte, types.SectorSize)
	if err := crypto.EncryptSector(enc, plain, sb.key, sb.parms.CryptoFlags); err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", types.ErrStorage, path, err)
	}
	if _, err := file.Write(enc); err != nil {
		file.Close()
		return fmt.Errorf("%w: write %s: %v", types.ErrStorage, path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", types.ErrStorage, path, err)
	}
	return nil
}

// cString returns the string up to the first null byte. The last
// field byte is reserved as a forced terminator, so even a field full
// of garbage yields at most len(field)-1 characters.
func cString(field []byte) string {
	field = field[:len(field)-1]
	if idx := bytes.IndexByte(field, 0); idx >= 0 {
		return string(field[:idx])
	}
	return string(field)
}

// putCString copies s into a fixed-width field, truncating so that at
// least one null terminator always fits.
func putCString(field []byte, s string) {
	n := copy(field[:len(field)-1], s)
	for i := n; i < len(field); i++ {
		field[i] = 0
	}
}
