package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the fulfillment workflow. It carries the
// order status and one lease per kind of work.
//
// Order follows these invariants:
//   - Must have a valid unique identifier
//   - Status is always a known value and only moves along the transition table
//   - Gated transitions require the caller to hold the matching lease
//   - Packing and delivery leases are independent of each other
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// status represents the current state in the order lifecycle
	status Status

	// packing is the warehouse work claim
	packing Lease

	// delivery is the driver work claim
	delivery Lease

	placedAt  time.Time
	updatedAt time.Time

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a freshly placed order with both leases idle.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), clock.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id kernel.UUID, placedAt time.Time) (*Order, error) {
	o := &Order{
		status:        Placed,
		packing:       NewIdleLease(PackingLease),
		delivery:      NewIdleLease(DeliveryLease),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTimes(placedAt, placedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order from storage. It validates the same
// invariants as NewOrder plus the kinds of the supplied leases.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	packing Lease,
	delivery Lease,
	placedAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setStatus(status),
		o.setLease(PackingLease, packing),
		o.setLease(DeliveryLease, delivery),
		o.setTimes(placedAt, updatedAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate checks that the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	if o == nil || other == nil {
		return false
	}
	return o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PackingLease() Lease {
	return o.packing
}

func (o *Order) DeliveryLease() Lease {
	return o.delivery
}

func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Lease returns the lease of the given kind.
func (o *Order) Lease(kind LeaseKind) (Lease, error) {
	switch kind {
	case PackingLease:
		return o.packing, nil
	case DeliveryLease:
		return o.delivery, nil
	default:
		return Lease{}, kind.Validate()
	}
}

// TransitionTo moves the order to next on behalf of worker and returns the
// change for the repository to persist.
//
// Business rules:
//   - The edge must exist in the transition table
//   - Gated edges require worker to hold the gate lease in progress with a
//     heartbeat newer than staleAfter, or to have completed it when the edge
//     accepts a ready lease
//   - Edges that complete a lease freeze it as ready with its holder
//
// worker may be the zero WorkerID for ungated edges.
//
// Returns:
//   - validation error wrapping ErrTransitionNotAllowed for an illegal edge
//   - errs.NotLeaseHolderError when worker does not hold the gate lease, or
//     holds it with a stale heartbeat (reported as a free lease)
func (o *Order) TransitionTo(
	next Status,
	worker kernel.WorkerID,
	now time.Time,
	staleAfter time.Duration,
) (Transition, error) {
	if err := o.Validate(); err != nil {
		return Transition{}, err
	}

	rule, err := o.status.RuleTo(next)
	if err != nil {
		return Transition{}, err
	}

	t := Transition{
		orderID: o.id,
		from:    o.status,
		to:      next,
		rule:    rule,
		worker:  worker,
		at:      now,

		staleAfter: staleAfter,
	}

	if rule.Gate != NoLease {
		if err := worker.Validate(); err != nil {
			return Transition{}, errs.NewValueIsRequiredError("workerId")
		}

		lease, _ := o.Lease(rule.Gate)
		if !lease.AdmitsTransition(worker, rule.AcceptsReady, now, staleAfter) {
			if lease.IsHeldBy(worker) {
				// stale: anyone may take it over now
				return Transition{}, errs.NewNotLeaseHolderError(o.id.String(), rule.Gate.String(), worker.String(), "")
			}
			return Transition{}, lease.NotHolderError(o.id, worker)
		}

		if rule.CompletesLease {
			_ = o.setLease(rule.Gate, lease.markReady(now))
		}
	}

	o.status = next
	o.updatedAt = now
	return t, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setLease(kind LeaseKind, lease Lease) error {
	if lease.Kind() != kind {
		return errs.NewValueIsInvalidErrorWithCause(
			kind.String()+"Lease",
			fmt.Errorf("got a %s lease", lease.Kind()),
		)
	}
	if kind == PackingLease {
		o.packing = lease
	} else {
		o.delivery = lease
	}
	return nil
}

func (o *Order) setTimes(placedAt, updatedAt time.Time) error {
	if placedAt.IsZero() {
		return errs.NewValueIsRequiredError("placedAt")
	}
	if updatedAt.Before(placedAt) {
		return errs.NewValueIsInvalidErrorWithCause("updatedAt", fmt.Errorf("%s is before placedAt", updatedAt))
	}
	o.placedAt = placedAt
	o.updatedAt = updatedAt
	return nil
}
