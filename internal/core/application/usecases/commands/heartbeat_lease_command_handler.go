package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
)

// HeartbeatLeaseCommandHandler refreshes the heartbeat of held leases.
type HeartbeatLeaseCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

func NewHeartbeatLeaseCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) HeartbeatLeaseCommandHandler {
	return HeartbeatLeaseCommandHandler{uowFactory: uowFactory, clock: clk}
}

// Handle returns errs.NotLeaseHolderError when the worker lost the lease,
// for example after a stale takeover.
func (h HeartbeatLeaseCommandHandler) Handle(ctx context.Context, cmd HeartbeatLeaseCommand) (order.Lease, error) {
	if err := cmd.Validate(); err != nil {
		return order.Lease{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Lease{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	write, err := uow.OrderRepository().HeartbeatLease(ctx, cmd.OrderID(), cmd.Kind(), cmd.Worker(), h.clock.Now())
	if err != nil {
		return order.Lease{}, err
	}

	if !write.Applied {
		return order.Lease{}, write.Lease.NotHolderError(cmd.OrderID(), cmd.Worker())
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Lease{}, err
	}

	return write.Lease, nil
}
