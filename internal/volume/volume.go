package volume

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-aefs/internal/cipher"
	"github.com/deploymenttheory/go-aefs/internal/crypto"
	"github.com/deploymenttheory/go-aefs/internal/types"
)

// DataFileSuffix is appended to the base path to form the name of the
// encrypted data file backing a volume.
const DataFileSuffix = ".dat"

// Parms configures a volume. It is passed by value; operations never
// mutate a caller's copy.
type Parms struct {
	CryptoFlags types.CryptoFlags
	ReadOnly    bool
}

// Volume is the block-addressed encrypted store underneath a
// superblock. The superblock layer only needs identity, parameters
// and teardown; sector I/O is provided for the layers above.
type Volume interface {
	// ID returns the instance identifier assigned when the volume was
	// opened. Purely diagnostic; not persisted.
	ID() uuid.UUID

	// BasePath returns the base path the volume was opened with.
	BasePath() string

	// Parms returns the parameters the volume was opened with.
	Parms() Parms

	// ReadSector reads and decrypts the sector at the given index
	// into dst (types.SectorSize bytes).
	ReadSector(index uint32, dst []byte) error

	// WriteSector encrypts and writes one sector at the given index.
	WriteSector(index uint32, src []byte) error

	// Close releases the volume. The key is owned by the superblock
	// and is not destroyed here.
	Close() error
}

// fileVolume is a single-file Volume implementation. Sectors are
// stored at index * types.SectorSize within the data file, encrypted
// under the volume key.
type fileVolume struct {
	id    uuid.UUID
	base  string
	file  *os.File
	key   *cipher.Key
	parms Parms
}

// Open opens (or, for writable volumes, creates) the data file for
// basePath and returns the volume handle.
func Open(basePath string, key *cipher.Key, parms Parms) (Volume, error) {
	path := basePath + DataFileSuffix

	mode := os.O_RDWR | os.O_CREATE
	if parms.ReadOnly {
		mode = os.O_RDONLY
	}
	file, err := os.OpenFile(path, mode, 0600)
	if err != nil {
		return nil, fmt.Errorf("%w: open volume data %s: %v", types.ErrStorage, path, err)
	}

	return &fileVolume{
		id:    uuid.New(),
		base:  basePath,
		file:  file,
		key:   key,
		parms: parms,
	}, nil
}

func (v *fileVolume) ID() uuid.UUID    { return v.id }
func (v *fileVolume) BasePath() string { return v.base }
func (v *fileVolume) Parms() Parms     { return v.parms }

func (v *fileVolume) ReadSector(index uint32, dst []byte) error {
	if len(dst) != types.SectorSize {
		return fmt.Errorf("%w: sector buffer must be %d bytes",
			types.ErrInvalidParameter, types.SectorSize)
	}

	raw := make([]byte, types.SectorSize)
	if _, err := v.file.ReadAt(raw, int64(index)*types.SectorSize); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: sector %d out of range", types.ErrStorage, index)
		}
		return fmt.Errorf("%w: read sector %d: %v", types.ErrStorage, index, err)
	}

	return crypto.DecryptSector(dst, raw, v.key, v.parms.CryptoFlags)
}

func (v *fileVolume) WriteSector(index uint32, src []byte) error {
	if v.parms.ReadOnly {
		return types.ErrReadOnly
	}
	if len(src) != types.SectorSize {
		return fmt.Errorf("%w: sector buffer must be %d bytes",
			types.ErrInvalidParameter, types.SectorSize)
	}

	enc := make([]byte, types.SectorSize)
	if err := crypto.EncryptSector(enc, src, v.key, v.parms.CryptoFlags); err != nil {
		return err
	}
	if _, err := v.file.WriteAt(enc, int64(index)*types.SectorSize); err != nil {
		return fmt.Errorf("%w: write sector %d: %v", types.ErrStorage, index, err)
	}
	return nil
}

func (v *fileVolume) Close() error {
	if v.file == nil {
		return nil
	}
	err := v.file.Close()
	v.file = nil
	if err != nil {
		return fmt.Errorf("%w: close volume data: %v", types.ErrStorage, err)
	}
	return nil
}
