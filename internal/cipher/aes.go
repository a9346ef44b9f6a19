package cipher

import (
	"crypto/aes"
	"fmt"

	"github.com/deploymenttheory/go-aefs/internal/types"
)

// aesCipher exposes AES through the registry interface.
type aesCipher struct{}

// NewAES returns the AES registry entry.
func NewAES() Cipher { return aesCipher{} }

func (aesCipher) ID() string        { return "aes" }
func (aesCipher) KeySizes() []int   { return []int{16, 24, 32} }
func (aesCipher) BlockSizes() []int { return []int{aes.BlockSize} }

func (c aesCipher) NewKey(blockSize, keySize int, key []byte) (BlockKey, error) {
	if blockSize != aes.BlockSize {
		return nil, fmt.Errorf("%w: aes block size must be %d, got %d",
			types.ErrCipher, aes.BlockSize, blockSize)
	}

	raw := make([]byte, len(key))
	copy(raw, key)

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCipher, err)
	}

	return &rawBlockKey{
		raw: raw,
		enc: block.Encrypt,
		dec: block.Decrypt,
	}, nil
}
