// Package error defines domain-specific errors for the Pantry Ledger application.
package error

import "errors"

// ErrConcurrentModification is returned when a conditional write finds that the
// stored version changed since it was read.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// IsRetryable reports whether the operation may succeed when attempted again.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
