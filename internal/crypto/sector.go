package crypto

import (
	"fmt"

	"github.com/deploymenttheory/go-aefs/internal/cipher"
	"github.com/deploymenttheory/go-aefs/internal/types"
)

// EncryptSector encrypts one plaintext sector into dst. Both buffers
// must be exactly types.SectorSize bytes. With FlagUseCBC the blocks
// are chained (zero IV; the random sector prefix makes the first
// block unique), otherwise each block is encrypted independently.
func EncryptSector(dst, src []byte, key *cipher.Key, flags types.CryptoFlags) error {
	bs, err := checkSectorArgs(dst, src, key)
	if err != nil {
		return err
	}

	if !flags.UseCBC() {
		for off := 0; off < types.SectorSize; off += bs {
			key.EncryptBlock(dst[off:off+bs], src[off:off+bs])
		}
		return nil
	}

	prev := make([]byte, bs)
	tmp := make([]byte, bs)
	defer Wipe(tmp)

	for off := 0; off < types.SectorSize; off += bs {
		for i := 0; i < bs; i++ {
			tmp[i] = src[off+i] ^ prev[i]
		}
		key.EncryptBlock(dst[off:off+bs], tmp)
		copy(prev, dst[off:off+bs])
	}
	return nil
}

// DecryptSector decrypts one encrypted sector into dst. It is the
// inverse of EncryptSector and is safe when dst and src alias.
func DecryptSector(dst, src []byte, key *cipher.Key, flags types.CryptoFlags) error {
	bs, err := checkSectorArgs(dst, src, key)
	if err != nil {
		return err
	}

	if !flags.UseCBC() {
		tmp := make([]byte, bs)
		defer Wipe(tmp)
		for off := 0; off < types.SectorSize; off += bs {
			key.DecryptBlock(tmp, src[off:off+bs])
			copy(dst[off:off+bs], tmp)
		}
		return nil
	}

	prev := make([]byte, bs)
	cur := make([]byte, bs)
	tmp := make([]byte, bs)
	defer Wipe(tmp)

	for off := 0; off < types.SectorSize; off += bs {
		copy(cur, src[off:off+bs])
		key.DecryptBlock(tmp, cur)
		for i := 0; i < bs; i++ {
			dst[off+i] = tmp[i] ^ prev[i]
		}
		prev, cur = cur, prev
	}
	return nil
}

func checkSectorArgs(dst, src []byte, key *cipher.Key) (int, error) {
	if len(dst) != types.SectorSize || len(src) != types.SectorSize {
		return 0, fmt.Errorf("%w: sector buffers must be %d bytes",
			types.ErrInvalidParameter, types.SectorSize)
	}
	bs := key.BlockSize()
	if bs <= 0 || types.SectorSize%bs != 0 {
		return 0, fmt.Errorf("%w: block size %d does not divide sector size %d",
			types.ErrCipher, bs, types.SectorSize)
	}
	return bs, nil
}
