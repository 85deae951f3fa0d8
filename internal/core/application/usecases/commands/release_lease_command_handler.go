package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
)

// ReleaseLeaseCommandHandler returns leases to idle.
type ReleaseLeaseCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

// NewReleaseLeaseCommandHandler creates a handler.
func NewReleaseLeaseCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock, logger *slog.Logger) ReleaseLeaseCommandHandler {
	return ReleaseLeaseCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger.With("component", "release-lease"),
	}
}

// Handle releases the lease when the worker holds it in progress. Any other
// state leaves the lease untouched and still succeeds; the returned write
// tells the two apart.
func (h ReleaseLeaseCommandHandler) Handle(ctx context.Context, cmd ReleaseLeaseCommand) (ports.LeaseWrite, error) {
	if err := cmd.Validate(); err != nil {
		return ports.LeaseWrite{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ports.LeaseWrite{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	write, err := uow.OrderRepository().ReleaseLease(
		ctx, cmd.OrderID(), cmd.Kind(), cmd.Worker(), cmd.Reason(), h.clock.Now(),
	)
	if err != nil {
		return ports.LeaseWrite{}, err
	}

	if !write.Applied {
		h.logger.InfoContext(ctx, "release ignored",
			"order_id", cmd.OrderID().String(),
			"kind", cmd.Kind().String(),
			"worker", cmd.Worker().String(),
			"reason", cmd.Reason(),
			"lease_status", write.Lease.Status().String(),
		)
		return write, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return ports.LeaseWrite{}, err
	}

	return write, nil
}
