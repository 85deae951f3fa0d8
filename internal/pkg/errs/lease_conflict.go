package errs

import (
	"errors"
	"fmt"
)

// ErrLeaseConflict is the sentinel wrapped by every LeaseConflictError.
// A conflict is an expected outcome of claiming a lease someone else holds;
// callers must not retry it automatically.
var ErrLeaseConflict = errors.New("lease is held by another worker")

// LeaseConflictError carries the identity of the current holder so the caller
// can render "claimed by X" without a second lookup.
type LeaseConflictError struct {
	OrderID string
	Kind    string
	Holder  string
	Status  string
}

// NewLeaseConflictError creates a LeaseConflictError for the given lease.
func NewLeaseConflictError(orderID, kind, holder, status string) *LeaseConflictError {
	return &LeaseConflictError{
		OrderID: orderID,
		Kind:    kind,
		Holder:  holder,
		Status:  status,
	}
}

func (e *LeaseConflictError) Error() string {
	return fmt.Sprintf("%s: %s lease of order %s is %s by %s",
		ErrLeaseConflict, e.Kind, e.OrderID, e.Status, sanitize(e.Holder))
}

func (e *LeaseConflictError) Unwrap() error {
	return ErrLeaseConflict
}
