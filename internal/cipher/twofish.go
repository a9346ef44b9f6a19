package cipher

import (
	"fmt"

	"golang.org/x/crypto/twofish"

	"github.com/deploymenttheory/go-aefs/internal/types"
)

// twofishCipher exposes Twofish through the registry interface. It is
// kept alongside AES because existing volumes were commonly created
// with it.
type twofishCipher struct{}

// NewTwofish returns the Twofish registry entry.
func NewTwofish() Cipher { return twofishCipher{} }

func (twofishCipher) ID() string        { return "twofish" }
func (twofishCipher) KeySizes() []int   { return []int{16, 24, 32} }
func (twofishCipher) BlockSizes() []int { return []int{twofish.BlockSize} }

func (c twofishCipher) NewKey(blockSize, keySize int, key []byte) (BlockKey, error) {
	if blockSize != twofish.BlockSize {
		return nil, fmt.Errorf("%w: twofish block size must be %d, got %d",
			types.ErrCipher, twofish.BlockSize, blockSize)
	}

	raw := make([]byte, len(key))
	copy(raw, key)

	block, err := twofish.NewCipher(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrCipher, err)
	}

	return &rawBlockKey{
		raw: raw,
		enc: block.Encrypt,
		dec: block.Decrypt,
	}, nil
}
