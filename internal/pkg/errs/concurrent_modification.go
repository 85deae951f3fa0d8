package errs

import (
	"errors"
	"fmt"
)

// ErrConcurrentModification is the sentinel wrapped by every ConcurrentModificationError.
var ErrConcurrentModification = errors.New("object was modified concurrently")

// ConcurrentModificationError reports that a conditional write lost a race:
// the stored state no longer matched the state the write was computed from.
type ConcurrentModificationError struct {
	ParamName string
	ID        any
}

// NewConcurrentModificationError creates a ConcurrentModificationError.
func NewConcurrentModificationError(paramName string, id any) *ConcurrentModificationError {
	return &ConcurrentModificationError{
		ParamName: paramName,
		ID:        id,
	}
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrConcurrentModification, e.ParamName, sanitize(e.ID))
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}
