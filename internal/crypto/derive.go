package crypto

import (
	"crypto/sha1"

	"github.com/awnumar/memguard"
)

// DeriveKey stretches a variable-length passphrase into a keyLen-byte
// key.
//
// The key starts as all zero bytes. The passphrase is consumed in
// chunks of at most one digest length; for each chunk the digest of
// (current key || chunk) is XORed cyclically into the key, continuing
// from where the previous chunk's XOR ended. Hashing the current key
// state into every chunk keeps repetitions in the passphrase from
// carrying over into the key, and the cyclic XOR lets every key byte
// receive entropy regardless of the relative lengths involved.
//
// An empty passphrase yields an all-zero key. A passphrase shorter
// than keyLen leaves the tail of the key zero (only the first
// len(passphrase) bytes, rounded up to a digest length, are touched).
// That behavior is part of the on-disk format: existing volumes were
// keyed with it, so it must not change.
func DeriveKey(passphrase string, keyLen int) []byte {
	key := make([]byte, keyLen)
	if keyLen <= 0 || len(passphrase) == 0 {
		return key
	}

	buf := []byte(passphrase)
	defer memguard.WipeBytes(buf)

	pos := 0
	for len(buf) > 0 {
		n := sha1.Size
		if len(buf) < n {
			n = len(buf)
		}

		h := sha1.New()
		h.Write(key)
		h.Write(buf[:n])
		digest := h.Sum(nil)

		for i := 0; i < sha1.Size; i++ {
			key[pos] ^= digest[i]
			pos++
			if pos == keyLen {
				pos = 0
			}
		}

		memguard.WipeBytes(digest)
		buf = buf[n:]
	}

	return key
}
