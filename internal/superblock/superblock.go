package superblock

import (
	"fmt"

	"github.com/deploymenttheory/go-aefs/internal/cipher"
	"github.com/deploymenttheory/go-aefs/internal/crypto"
	"github.com/deploymenttheory/go-aefs/internal/types"
	"github.com/deploymenttheory/go-aefs/internal/volume"
)

// SuperBlock is the in-memory superblock of a mounted volume. It
// exclusively owns the derived key handle and the underlying volume;
// both are released by Drop.
//
// The metadata fields are exported so that callers (notably repair
// tools) can inspect and rewrite them before calling Write.
type SuperBlock struct {
	basePath string
	key      *cipher.Key
	vol      volume.Volume
	parms    volume.Parms

	Magic       uint32
	Version     uint32
	Flags       uint32
	RootID      uint32
	Label       string
	Description string
}

// WriteOptions controls what Write persists.
type WriteOptions struct {
	// SkipHeader suppresses rewriting the plaintext superblock file.
	// Useful when only the encrypted record changed.
	SkipHeader bool
}

// CreateOptions configures a freshly created volume. Zero values fall
// back to AES with a 256-bit key and 128-bit blocks.
type CreateOptions struct {
	CipherID    string
	KeySize     int // bytes
	BlockSize   int // bytes
	RootID      uint32
	Label       string
	Description string
}

// Open reads the superblock pair for basePath and opens the
// underlying volume.
//
// Opening is two-phase. The plaintext header, cipher resolution, key
// construction and the volume itself are all required: any failure
// there returns a nil superblock. The encrypted record is read
// best-effort; if it is missing, corrupt, carries the wrong magic or
// a too-new version, Open still returns the superblock (with the
// volume open) together with the specific error, so repair tooling
// can inspect and rewrite the record. Callers must therefore check
// the superblock for nil independently of the error.
func Open(basePath, passphrase string, registry cipher.Registry, parms volume.Parms) (*SuperBlock, error) {
	if len(basePath) > types.MaxBasePathLen {
		return nil, fmt.Errorf("%w: base path longer than %d bytes",
			types.ErrInvalidParameter, types.MaxBasePathLen)
	}

	sb := &SuperBlock{basePath: basePath}

	info, err := readHeader(basePath+types.HeaderFileSuffix, parms.CryptoFlags.UseCBC())
	if err != nil {
		return nil, err
	}

	c, err := cipher.Resolve(info.cipherID, registry)
	if err != nil {
		return nil, err
	}
	if info.keySize > types.MaxKeySize {
		return nil, fmt.Errorf("%w: key size %d exceeds maximum %d",
			types.ErrInvalidParameter, info.keySize, types.MaxKeySize)
	}

	raw := crypto.DeriveKey(passphrase, info.keySize)
	key, err := cipher.NewKey(c, info.blockSize, info.keySize, raw)
	crypto.Wipe(raw)
	if err != nil {
		return nil, err
	}
	sb.key = key
	sb.parms = parms
	sb.parms.CryptoFlags = parms.CryptoFlags.WithCBC(info.useCBC)

	// Not fatal if the encrypted record cannot be read; remembered so
	// the caller still learns about it after the volume is up.
	recErr := sb.readRecord()

	vol, err := volume.Open(basePath, key, sb.parms)
	if err != nil {
		key.Destroy()
		sb.key = nil
		return nil, err
	}
	sb.vol = vol

	if recErr != nil {
		return sb, recErr
	}
	if sb.Magic != types.SuperblockMagic {
		return sb, fmt.Errorf("%w: magic 0x%08X, want 0x%08X",
			types.ErrBadSuperblock, sb.Magic, types.SuperblockMagic)
	}
	if sb.Version > types.VersionCurrent {
		return sb, fmt.Errorf("%w: version %d, current is %d",
			types.ErrBadVersion, sb.Version, types.VersionCurrent)
	}
	return sb, nil
}

// Create initializes a new volume at basePath: derives the key for
// the chosen cipher, opens the data file and writes both superblock
// files.
func Create(basePath, passphrase string, registry cipher.Registry, parms volume.Parms, opts CreateOptions) (*SuperBlock, error) {
	if len(basePath) > types.MaxBasePathLen {
		return nil, fmt.Errorf("%w: base path longer than %d bytes",
			types.ErrInvalidParameter, types.MaxBasePathLen)
	}
	if parms.ReadOnly {
		return nil, types.ErrReadOnly
	}

	if opts.CipherID == "" {
		opts.CipherID = "aes"
	}
	if opts.KeySize == 0 {
		opts.KeySize = 32
	}
	if opts.BlockSize == 0 {
		opts.BlockSize = 16
	}
	if opts.KeySize > types.MaxKeySize {
		return nil, fmt.Errorf("%w: key size %d exceeds maximum %d",
			types.ErrInvalidParameter, opts.KeySize, types.MaxKeySize)
	}

	c, err := cipher.Resolve(opts.CipherID, registry)
	if err != nil {
		return nil, err
	}

	raw := crypto.DeriveKey(passphrase, opts.KeySize)
	key, err := cipher.NewKey(c, opts.BlockSize, opts.KeySize, raw)
	crypto.Wipe(raw)
	if err != nil {
		return nil, err
	}

	sb := &SuperBlock{
		basePath:    basePath,
		key:         key,
		parms:       parms,
		Flags:       0,
		RootID:      opts.RootID,
		Label:       opts.Label,
		Description: opts.Description,
	}

	vol, err := volume.Open(basePath, key, parms)
	if err != nil {
		key.Destroy()
		return nil, err
	}
	sb.vol = vol

	if err := sb.Write(WriteOptions{}); err != nil {
		vol.Close()
		key.Destroy()
		return nil, err
	}
	return sb, nil
}

// Write persists the superblock: the plaintext header (unless
// suppressed) followed by the encrypted record. On success the
// in-memory magic and version are refreshed to the current constants,
// mirroring the stamp written to disk.
func (sb *SuperBlock) Write(opts WriteOptions) error {
	parms := sb.vol.Parms()
	if parms.ReadOnly {
		return types.ErrReadOnly
	}

	if !opts.SkipHeader {
		info := headerInfo{
			cipherID:  sb.key.Cipher().ID(),
			keySize:   sb.key.KeySize(),
			blockSize: sb.key.BlockSize(),
			useCBC:    sb.parms.CryptoFlags.UseCBC(),
		}
		if err := writeHeader(sb.basePath+types.HeaderFileSuffix, info); err != nil {
			return err
		}
	}

	if err := sb.writeRecord(); err != nil {
		return err
	}

	sb.Magic = types.SuperblockMagic
	sb.Version = types.VersionCurrent
	return nil
}

// Drop releases the superblock: the volume first (its error aborts
// the teardown), then the key handle, then the metadata fields, which
// are cleared since label and description may be sensitive.
func (sb *SuperBlock) Drop() error {
	if sb.vol != nil {
		if err := sb.vol.Close(); err != nil {
			return err
		}
		sb.vol = nil
	}
	if sb.key != nil {
		sb.key.Destroy()
		sb.key = nil
	}

	sb.Magic = 0
	sb.Version = 0
	sb.Flags = 0
	sb.RootID = 0
	sb.Label = ""
	sb.Description = ""
	return nil
}

// BasePath returns the base path the superblock is bound to.
func (sb *SuperBlock) BasePath() string { return sb.basePath }

// Key returns the key handle owned by the superblock.
func (sb *SuperBlock) Key() *cipher.Key { return sb.key }

// Volume returns the underlying volume handle.
func (sb *SuperBlock) Volume() volume.Volume { return sb.vol }

// Parms returns the effective volume parameters, including the CBC
// flag recovered from the plaintext header.
func (sb *SuperBlock) Parms() volume.Parms { return sb.parms }
