package cipher

import (
	"fmt"

	"github.com/awnumar/memguard"

	"github.com/deploymenttheory/go-aefs/internal/types"
)

// Cipher describes a block cipher implementation that the superblock
// layer can bind a derived key to. Implementations are stateless;
// expanded keys live in BlockKey values produced by NewKey.
type Cipher interface {
	// ID returns the identifier used for registry lookup and stored
	// in the plaintext superblock file.
	ID() string

	// KeySizes returns the supported key sizes in bytes.
	KeySizes() []int

	// BlockSizes returns the supported block sizes in bytes.
	BlockSizes() []int

	// NewKey expands raw key bytes into a usable block key. The raw
	// bytes are copied; the caller remains responsible for wiping its
	// own buffer.
	NewKey(blockSize, keySize int, key []byte) (BlockKey, error)
}

// BlockKey is an expanded key bound to a concrete cipher. Encrypt and
// decrypt operate on exactly one block.
type BlockKey interface {
	EncryptBlock(dst, src []byte)
	DecryptBlock(dst, src []byte)

	// Destroy discards the expanded key schedule.
	Destroy()
}

// Key binds a cipher, its geometry and an expanded block key. It is
// the key handle owned by a superblock for the lifetime of the mount.
type Key struct {
	cipher    Cipher
	blockSize int
	keySize   int
	block     BlockKey
}

// NewKey constructs a key handle for the given cipher and geometry.
// The raw key length must equal keySize. Failures are already
// translated into the core result set.
func NewKey(c Cipher, blockSize, keySize int, raw []byte) (*Key, error) {
	if len(raw) != keySize {
		return nil, fmt.Errorf("%w: key is %d bytes, cipher %q expects %d",
			types.ErrInvalidParameter, len(raw), c.ID(), keySize)
	}
	if !contains(c.KeySizes(), keySize) {
		return nil, fmt.Errorf("%w: cipher %q does not support %d-byte keys",
			types.ErrCipher, c.ID(), keySize)
	}
	if !contains(c.BlockSizes(), blockSize) {
		return nil, fmt.Errorf("%w: cipher %q does not support %d-byte blocks",
			types.ErrCipher, c.ID(), blockSize)
	}

	bk, err := c.NewKey(blockSize, keySize, raw)
	if err != nil {
		return nil, TranslateError(err)
	}

	return &Key{
		cipher:    c,
		blockSize: blockSize,
		keySize:   keySize,
		block:     bk,
	}, nil
}

// Cipher returns the cipher this key is bound to.
func (k *Key) Cipher() Cipher { return k.cipher }

// BlockSize returns the cipher block size in bytes.
func (k *Key) BlockSize() int { return k.blockSize }

// KeySize returns the raw key size in bytes.
func (k *Key) KeySize() int { return k.keySize }

// EncryptBlock encrypts a single block.
func (k *Key) EncryptBlock(dst, src []byte) { k.block.EncryptBlock(dst, src) }

// DecryptBlock decrypts a single block.
func (k *Key) DecryptBlock(dst, src []byte) { k.block.DecryptBlock(dst, src) }

// Destroy discards the expanded key schedule. The handle must not be
// used afterwards.
func (k *Key) Destroy() {
	if k.block != nil {
		k.block.Destroy()
		k.block = nil
	}
}

// rawBlockKey is the common BlockKey implementation for ciphers whose
// expanded schedule is held in a raw byte copy plus a stdlib-style
// block interface.
type rawBlockKey struct {
	raw []byte
	enc func(dst, src []byte)
	dec func(dst, src []byte)
}

func (b *rawBlockKey) EncryptBlock(dst, src []byte) { b.enc(dst, src) }
func (b *rawBlockKey) DecryptBlock(dst, src []byte) { b.dec(dst, src) }

func (b *rawBlockKey) Destroy() {
	memguard.WipeBytes(b.raw)
	b.enc = nil
	b.dec = nil
}

func contains(sizes []int, n int) bool {
	for _, s := range sizes {
		if s == n {
			return true
		}
	}
	return false
}
