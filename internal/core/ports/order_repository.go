// Package ports defines the contracts between the fulfillment core and its
// infrastructure: persistence, the stock catalog and stage notifications.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// LeaseWrite is the outcome of a conditional lease write. Lease is the state
// stored after the attempt: the new lease when Applied, otherwise the lease
// that made the condition fail.
type LeaseWrite struct {
	Lease   order.Lease
	Applied bool
}

// OrderRepository defines the persistence contract for order aggregates.
//
// Lease methods are single conditional writes evaluated by the store; two
// callers racing on the same lease can never both see Applied. None of them
// return an error for a failed condition, only for a missing order
// (errs.ObjectNotFoundError) or a storage failure.
type OrderRepository interface {
	// Add persists a newly placed order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with both leases.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ClaimLease moves the lease to in_progress for worker when it is idle,
	// already held by worker, or held with a heartbeat older than staleAfter.
	ClaimLease(
		ctx context.Context,
		id kernel.UUID,
		kind order.LeaseKind,
		worker kernel.WorkerID,
		now time.Time,
		staleAfter time.Duration,
	) (LeaseWrite, error)

	// ReleaseLease returns an in_progress lease held by worker to idle and
	// records when and why. Ready leases are never touched.
	ReleaseLease(
		ctx context.Context,
		id kernel.UUID,
		kind order.LeaseKind,
		worker kernel.WorkerID,
		reason string,
		now time.Time,
	) (LeaseWrite, error)

	// MarkLeaseReady freezes a lease held by worker. A lease already made
	// ready by worker counts as applied.
	MarkLeaseReady(
		ctx context.Context,
		id kernel.UUID,
		kind order.LeaseKind,
		worker kernel.WorkerID,
		now time.Time,
	) (LeaseWrite, error)

	// HeartbeatLease refreshes the heartbeat of a lease held by worker.
	HeartbeatLease(
		ctx context.Context,
		id kernel.UUID,
		kind order.LeaseKind,
		worker kernel.WorkerID,
		now time.Time,
	) (LeaseWrite, error)

	// ApplyTransition persists a status change when the order is still in
	// transition.From() and, for gated edges, the worker still holds the gate
	// lease. Returns false when either condition no longer holds.
	ApplyTransition(ctx context.Context, transition order.Transition) (bool, error)

	// ReleaseStaleLeases releases every lease of kind whose heartbeat is older
	// than staleAfter and returns how many were released.
	ReleaseStaleLeases(
		ctx context.Context,
		kind order.LeaseKind,
		staleAfter time.Duration,
		reason string,
		now time.Time,
	) (int64, error)
}
