package types

import "errors"

// Result kinds surfaced by the superblock layer. The set is closed:
// every failure a caller can observe wraps exactly one of these, so
// callers dispatch with errors.Is instead of inspecting strings.
var (
	// ErrNotEnoughMemory reports an allocation failure in the cipher
	// layer.
	ErrNotEnoughMemory = errors.New("not enough memory")

	// ErrUnknownCipher reports a cipher identifier with no matching
	// entry in the supplied registry.
	ErrUnknownCipher = errors.New("unknown cipher")

	// ErrCipher collapses all other cipher-layer failures.
	ErrCipher = errors.New("cipher error")

	// ErrStorage reports any I/O failure: open, read, write or close.
	ErrStorage = errors.New("storage error")

	// ErrInvalidParameter reports arguments that would overflow a
	// fixed bound, such as an over-long base path.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrReadOnly reports a write attempt on a volume opened with
	// read-only parameters.
	ErrReadOnly = errors.New("volume is read-only")

	// ErrBadSuperblock reports a decrypted record whose magic field
	// does not match SuperblockMagic. Usually a wrong passphrase or a
	// corrupted record file.
	ErrBadSuperblock = errors.New("bad superblock")

	// ErrBadVersion reports a decrypted record whose version exceeds
	// VersionCurrent. Distinct from ErrBadSuperblock because repair
	// tools treat the two differently.
	ErrBadVersion = errors.New("superblock version not supported")
)
