package kernel

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// maxWorkerIDLength bounds worker identities so they fit the claimed_by columns.
const maxWorkerIDLength = 128

var (
	// ErrWorkerIDIsNotConstructed indicates a zero-value WorkerID.
	ErrWorkerIDIsNotConstructed = errs.NewValueIsRequiredError("WorkerID must be created via NewWorkerID")

	errWorkerIDIsSentinel = errors.New("placeholder identities cannot hold a lease")
	errWorkerIDTooLong    = errors.New("identity is longer than 128 characters")
)

// sentinelWorkerIDs are placeholder values a client sends before a worker
// identity has been chosen.
var sentinelWorkerIDs = map[string]struct{}{
	"-":         {},
	"none":      {},
	"null":      {},
	"nil":       {},
	"undefined": {},
	"anonymous": {},
	"unknown":   {},
}

// WorkerID is the identity of a warehouse worker as chosen on the client
// ("Santiago", "Mauro"). It is compared exactly after trimming surrounding
// whitespace.
type WorkerID struct {
	value string
}

// NewWorkerID validates and builds a WorkerID. Empty, whitespace-only and
// placeholder identities are rejected so they can never be recorded as a
// lease holder.
func NewWorkerID(value string) (WorkerID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return WorkerID{}, errs.NewValueIsRequiredError("workerId")
	}
	if _, ok := sentinelWorkerIDs[strings.ToLower(trimmed)]; ok {
		return WorkerID{}, errs.NewValueIsInvalidErrorWithCause("workerId", errWorkerIDIsSentinel)
	}
	if len(trimmed) > maxWorkerIDLength {
		return WorkerID{}, errs.NewValueIsInvalidErrorWithCause("workerId", errWorkerIDTooLong)
	}
	return WorkerID{value: trimmed}, nil
}

func (w WorkerID) String() string {
	return w.value
}

// IsEqual reports whether both identities are the same worker.
func (w WorkerID) IsEqual(other WorkerID) bool {
	return w.value == other.value
}

// Validate returns ErrWorkerIDIsNotConstructed for the zero value.
func (w WorkerID) Validate() error {
	if w.value == "" {
		return ErrWorkerIDIsNotConstructed
	}
	return nil
}
