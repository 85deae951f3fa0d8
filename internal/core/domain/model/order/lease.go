package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// LeaseStatus is the lifecycle state of a Lease.
//
//	idle ──claim──> in_progress ──markReady──> ready
//	  ^                  │
//	  └────release───────┘
type LeaseStatus string

const (
	LeaseIdle       LeaseStatus = "idle"
	LeaseInProgress LeaseStatus = "in_progress"
	LeaseReady      LeaseStatus = "ready"
)

// Validate accepts the three lifecycle states.
func (s LeaseStatus) Validate() error {
	switch s {
	case LeaseIdle, LeaseInProgress, LeaseReady:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("leaseStatus", fmt.Errorf("%q is not a lease status", string(s)))
	}
}

func (s LeaseStatus) String() string {
	return string(s)
}

// Lease is an exclusive, time-bounded work claim over one kind of work on an
// order. It is a value object: methods return modified copies.
//
// Invariants:
//   - idle leases have no holder
//   - in_progress and ready leases have a holder
//   - ready is terminal; release never touches it
type Lease struct {
	kind        LeaseKind
	status      LeaseStatus
	claimedBy   kernel.WorkerID
	claimedAt   time.Time
	heartbeatAt time.Time
	releasedAt  *time.Time
	reason      string
}

// NewIdleLease returns the initial lease of a freshly placed order.
func NewIdleLease(kind LeaseKind) Lease {
	return Lease{kind: kind, status: LeaseIdle}
}

// RestoreLease rebuilds a lease from persisted columns and checks the
// holder invariant.
func RestoreLease(
	kind LeaseKind,
	status LeaseStatus,
	claimedBy string,
	claimedAt time.Time,
	heartbeatAt time.Time,
	releasedAt *time.Time,
	reason string,
) (Lease, error) {
	if err := kind.Validate(); err != nil {
		return Lease{}, err
	}
	if err := status.Validate(); err != nil {
		return Lease{}, err
	}

	lease := Lease{
		kind:        kind,
		status:      status,
		claimedAt:   claimedAt,
		heartbeatAt: heartbeatAt,
		releasedAt:  releasedAt,
		reason:      reason,
	}

	if status == LeaseIdle {
		if claimedBy != "" {
			return Lease{}, errs.NewValueIsInvalidErrorWithCause(
				"claimedBy", fmt.Errorf("idle %s lease cannot be held by %q", kind, claimedBy))
		}
		return lease, nil
	}

	holder, err := kernel.NewWorkerID(claimedBy)
	if err != nil {
		return Lease{}, errs.NewValueIsInvalidErrorWithCause(
			"claimedBy", fmt.Errorf("%s %s lease needs a holder: %w", status, kind, err))
	}
	lease.claimedBy = holder
	return lease, nil
}

func (l Lease) Kind() LeaseKind { return l.kind }
func (l Lease) Status() LeaseStatus { return l.status }
func (l Lease) ClaimedBy() kernel.WorkerID { return l.claimedBy }
func (l Lease) ClaimedAt() time.Time { return l.claimedAt }
func (l Lease) HeartbeatAt() time.Time { return l.heartbeatAt }
func (l Lease) ReleasedAt() *time.Time { return l.releasedAt }
func (l Lease) Reason() string { return l.reason }
func (l Lease) IsHeld() bool { return l.status == LeaseInProgress }

// IsHeldBy reports whether worker currently holds the lease in progress.
func (l Lease) IsHeldBy(worker kernel.WorkerID) bool {
	return l.status == LeaseInProgress && l.claimedBy.IsEqual(worker)
}

// IsStale reports whether an in-progress lease went without a heartbeat for
// staleAfter. A zero staleAfter disables the bound.
func (l Lease) IsStale(now time.Time, staleAfter time.Duration) bool {
	if l.status != LeaseInProgress || staleAfter <= 0 {
		return false
	}
	return !now.Before(l.heartbeatAt.Add(staleAfter))
}

// ClaimableBy mirrors the store's claim predicate: the lease is idle, already
// held by worker, or held by someone whose heartbeat is stale.
func (l Lease) ClaimableBy(worker kernel.WorkerID, now time.Time, staleAfter time.Duration) bool {
	switch l.status {
	case LeaseIdle:
		return true
	case LeaseInProgress:
		return l.claimedBy.IsEqual(worker) || l.IsStale(now, staleAfter)
	default:
		return false
	}
}

// CompletedBy reports whether worker performed the work recorded by a ready lease.
func (l Lease) CompletedBy(worker kernel.WorkerID) bool {
	return l.status == LeaseReady && l.claimedBy.IsEqual(worker)
}

// AdmitsTransition reports whether worker passes a transition gated on this
// lease: holding it in progress with a heartbeat newer than staleAfter, or,
// when acceptsReady, having completed it. A zero staleAfter disables the bound.
func (l Lease) AdmitsTransition(worker kernel.WorkerID, acceptsReady bool, now time.Time, staleAfter time.Duration) bool {
	if l.IsHeldBy(worker) {
		return !l.IsStale(now, staleAfter)
	}
	return acceptsReady && l.CompletedBy(worker)
}

// ConflictError describes this lease as an obstacle to a claim.
func (l Lease) ConflictError(orderID kernel.UUID) error {
	return errs.NewLeaseConflictError(orderID.String(), l.kind.String(), l.claimedBy.String(), l.status.String())
}

// NotHolderError describes this lease as an obstacle to a holder-only action by worker.
func (l Lease) NotHolderError(orderID kernel.UUID, worker kernel.WorkerID) error {
	return errs.NewNotLeaseHolderError(orderID.String(), l.kind.String(), worker.String(), l.claimedBy.String())
}

// markReady freezes the lease with its current holder.
func (l Lease) markReady(now time.Time) Lease {
	if l.status == LeaseReady {
		return l
	}
	l.status = LeaseReady
	l.heartbeatAt = now
	return l
}
