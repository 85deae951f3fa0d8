package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
)

// MarkLeaseReadyCommandHandler freezes leases as ready.
type MarkLeaseReadyCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

func NewMarkLeaseReadyCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) MarkLeaseReadyCommandHandler {
	return MarkLeaseReadyCommandHandler{uowFactory: uowFactory, clock: clk}
}

// Handle marks the lease ready. Repeating it as the same worker succeeds;
// anyone else gets errs.NotLeaseHolderError.
func (h MarkLeaseReadyCommandHandler) Handle(ctx context.Context, cmd MarkLeaseReadyCommand) (order.Lease, error) {
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

	write, err := uow.OrderRepository().MarkLeaseReady(ctx, cmd.OrderID(), cmd.Kind(), cmd.Worker(), h.clock.Now())
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
