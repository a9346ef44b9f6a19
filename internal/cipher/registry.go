package cipher

import (
	"fmt"

	"github.com/deploymenttheory/go-aefs/internal/types"
)

// Registry is an ordered collection of ciphers available when opening
// or creating a volume. The caller supplies it; nothing here is
// global.
type Registry []Cipher

// DefaultRegistry returns the ciphers compiled into this build.
func DefaultRegistry() Registry {
	return Registry{NewAES(), NewTwofish()}
}

// Resolve finds the cipher with the given identifier. Matching is an
// exact byte comparison over the registry in order; the first match
// wins. A missing identifier yields ErrUnknownCipher.
func Resolve(id string, registry Registry) (Cipher, error) {
	for _, c := range registry {
		if c.ID() == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", types.ErrUnknownCipher, id)
}
