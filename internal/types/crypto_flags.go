package types

// CryptoFlags selects how sector payloads are encrypted. It is
// recorded in the plaintext superblock file and passed, by value, to
// every operation that touches encrypted sectors.
type CryptoFlags uint32

const (
	// FlagUseCBC selects CBC chaining across the blocks of a sector.
	// When clear, each block is encrypted independently.
	FlagUseCBC CryptoFlags = 1 << 0
)

// UseCBC reports whether CBC chaining is enabled.
func (f CryptoFlags) UseCBC() bool { return f&FlagUseCBC != 0 }

// WithCBC returns a copy of the flags with the CBC bit set or
// cleared.
func (f CryptoFlags) WithCBC(on bool) CryptoFlags {
	if on {
		return f | FlagUseCBC
	}
	return f &^ FlagUseCBC
}
