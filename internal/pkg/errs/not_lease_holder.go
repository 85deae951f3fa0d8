package errs

import (
	"errors"
	"fmt"
)

// ErrNotLeaseHolder is the sentinel wrapped by every NotLeaseHolderError.
// It is an authorization failure and is kept distinct from ErrLeaseConflict.
var ErrNotLeaseHolder = errors.New("caller does not hold the lease")

// NotLeaseHolderError reports a lease-gated action attempted by a worker that
// does not currently hold the lease.
type NotLeaseHolderError struct {
	OrderID  string
	Kind     string
	WorkerID string
	Holder   string
}

// NewNotLeaseHolderError creates a NotLeaseHolderError. Holder may be empty
// when nobody holds the lease.
func NewNotLeaseHolderError(orderID, kind, workerID, holder string) *NotLeaseHolderError {
	return &NotLeaseHolderError{
		OrderID:  orderID,
		Kind:     kind,
		WorkerID: workerID,
		Holder:   holder,
	}
}

func (e *NotLeaseHolderError) Error() string {
	if e.Holder == "" {
		return fmt.Sprintf("%s: %s is not holding the %s lease of order %s (lease is free)",
			ErrNotLeaseHolder, sanitize(e.WorkerID), e.Kind, e.OrderID)
	}
	return fmt.Sprintf("%s: %s is not holding the %s lease of order %s (held by %s)",
		ErrNotLeaseHolder, sanitize(e.WorkerID), e.Kind, e.OrderID, sanitize(e.Holder))
}

func (e *NotLeaseHolderError) Unwrap() error {
	return ErrNotLeaseHolder
}
