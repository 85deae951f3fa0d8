package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
)

// ReapStaleLeasesCommandHandler releases stale leases of every kind with
// reason "stale", leaving an audit trail on the lease.
type ReapStaleLeasesCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
}

func NewReapStaleLeasesCommandHandler(uowFactory OrderUoWFactory, clk clock.Clock) ReapStaleLeasesCommandHandler {
	return ReapStaleLeasesCommandHandler{uowFactory: uowFactory, clock: clk}
}

// Handle returns the number of released leases across kinds.
func (h ReapStaleLeasesCommandHandler) Handle(ctx context.Context, cmd ReapStaleLeasesCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	repo := uow.OrderRepository()

	var released int64
	for _, kind := range order.LeaseKinds() {
		n, err := repo.ReleaseStaleLeases(ctx, kind, cmd.StaleAfter(), ReasonStale, now)
		if err != nil {
			return 0, err
		}
		released += n
	}

	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	return released, nil
}
