package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
)

// ConfirmHoldCommandHandler confirms stock holds outside of a status
// transition, e.g. when an administrator re-runs payment confirmation.
type ConfirmHoldCommandHandler struct {
	uowFactory HoldUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

func NewConfirmHoldCommandHandler(uowFactory HoldUoWFactory, clk clock.Clock, logger *slog.Logger) ConfirmHoldCommandHandler {
	return ConfirmHoldCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger.With("component", "confirm-hold"),
	}
}

// Handle returns how many holds were confirmed. Zero is a valid outcome:
// the reservation lapsed before payment was verified.
func (h ConfirmHoldCommandHandler) Handle(ctx context.Context, cmd ConfirmHoldCommand) (int64, error) {
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

	confirmed, err := confirmLiveHolds(ctx, uow.HoldRepository(), cmd.OrderID(), h.clock.Now(), h.logger)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return confirmed, nil
}

func confirmLiveHolds(
	ctx context.Context,
	repo ports.HoldRepository,
	orderID kernel.UUID,
	now time.Time,
	logger *slog.Logger,
) (int64, error) {
	confirmed, err := repo.ConfirmLive(ctx, orderID, now)
	if err != nil {
		return 0, err
	}

	if confirmed == 0 {
		logger.WarnContext(ctx, "no live stock hold to confirm, reservation lapsed",
			"order_id", orderID.String(),
		)
	}
	return confirmed, nil
}
