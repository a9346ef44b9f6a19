package crypto

import "github.com/awnumar/memguard"

// Wipe overwrites b with zero bytes. Used on every buffer that held
// key material or decrypted metadata before it goes out of scope,
// including error paths.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
