package cipher

import (
	"errors"
	"fmt"

	"github.com/deploymenttheory/go-aefs/internal/types"
)

// TranslateError maps an error from the cipher subsystem into the
// core result set. Allocation failures and unknown-cipher conditions
// pass through distinctly; everything else collapses into the generic
// cipher error, so callers never depend on cipher internals.
func TranslateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrNotEnoughMemory):
		return err
	case errors.Is(err, types.ErrUnknownCipher):
		return err
	case errors.Is(err, types.ErrCipher):
		return err
	default:
		return fmt.Errorf("%w: %v", types.ErrCipher, err)
	}
}
