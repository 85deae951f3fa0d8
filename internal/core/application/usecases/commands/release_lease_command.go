package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

// Release reasons recorded on the lease.
const (
	ReasonManual = "manual"
	ReasonUnload = "unload"
	ReasonStale  = "stale"
)

var ErrReleaseLeaseCommandIsNotConstructed = errors.New(
	"ReleaseLeaseCommand must be created via NewReleaseLeaseCommand constructor",
)

// ReleaseLeaseCommand gives up a held lease. It is safe to send from a page
// unload handler: releasing a lease the worker no longer holds is a no-op.
type ReleaseLeaseCommand struct {
	leaseTarget
	reason string

	guard guard.ConstructorGuard
}

// NewReleaseLeaseCommand validates the target. An empty reason is recorded as "manual".
func NewReleaseLeaseCommand(
	orderID kernel.UUID,
	kind order.LeaseKind,
	worker kernel.WorkerID,
	reason string,
) (ReleaseLeaseCommand, error) {
	target, err := newLeaseTarget(orderID, kind, worker)
	if err != nil {
		return ReleaseLeaseCommand{}, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = ReasonManual
	}

	return ReleaseLeaseCommand{
		leaseTarget: target,
		reason:      reason,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReleaseLeaseCommand) Validate() error {
	return c.guard.Validate(ErrReleaseLeaseCommandIsNotConstructed)
}

// Reason returns why the lease is released.
func (c ReleaseLeaseCommand) Reason() string {
	return c.reason
}
