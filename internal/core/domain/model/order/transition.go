package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Transition is a status change already validated against the aggregate.
// The repository persists it conditionally on From and, for gated edges, on
// the holder still owning the gate lease.
type Transition struct {
	orderID kernel.UUID
	from    Status
	to      Status
	rule    Rule
	worker  kernel.WorkerID
	at      time.Time

	staleAfter time.Duration
}

func (t Transition) OrderID() kernel.UUID { return t.orderID }
func (t Transition) From() Status { return t.from }
func (t Transition) To() Status { return t.to }
func (t Transition) Gate() LeaseKind { return t.rule.Gate }
func (t Transition) AcceptsReady() bool { return t.rule.AcceptsReady }
func (t Transition) CompletesLease() bool { return t.rule.CompletesLease }
func (t Transition) ConfirmsHold() bool { return t.rule.ConfirmsHold }
func (t Transition) Worker() kernel.WorkerID { return t.worker }
func (t Transition) At() time.Time { return t.at }

// StaleAfter is the heartbeat bound the gate lease was checked against.
func (t Transition) StaleAfter() time.Duration { return t.staleAfter }

// IsGated reports whether the edge requires a lease holder.
func (t Transition) IsGated() bool {
	return t.rule.Gate != NoLease
}
