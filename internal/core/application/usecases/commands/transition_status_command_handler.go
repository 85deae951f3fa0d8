package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// TransitionStatusCommandHandler drives the order state machine.
//
// The status change, the completion of the gate lease and (on payment
// verification) the hold confirmation commit together. The stage signal is
// published after commit and its failure never fails the transition.
type TransitionStatusCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.StageNotifier
	clock      clock.Clock
	staleAfter time.Duration
	logger     *slog.Logger
}

// NewTransitionStatusCommandHandler creates a handler. A gate lease without a
// heartbeat for staleAfter no longer admits its holder; zero disables the bound.
func NewTransitionStatusCommandHandler(
	uowFactory UoWFactory,
	notifier ports.StageNotifier,
	clk clock.Clock,
	staleAfter time.Duration,
	logger *slog.Logger,
) TransitionStatusCommandHandler {
	return TransitionStatusCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		staleAfter: staleAfter,
		logger:     logger.With("component", "transition-status"),
	}
}

// Handle applies the transition and returns the updated order.
//
// Returns:
//   - validation error for an edge outside the transition table
//   - errs.NotLeaseHolderError when the worker does not hold the gate lease
//   - errs.ConcurrentModificationError when another request changed the
//     order first
func (h TransitionStatusCommandHandler) Handle(ctx context.Context, cmd TransitionStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	now := h.clock.Now()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	transition, err := o.TransitionTo(cmd.To(), cmd.Worker(), now, h.staleAfter)
	if err != nil {
		if errors.Is(err, errs.ErrNotLeaseHolder) {
			h.logger.WarnContext(ctx, "gated transition by non-holder",
				"order_id", cmd.OrderID().String(),
				"to", cmd.To().String(),
				"worker", cmd.Worker().String(),
			)
		}
		return nil, err
	}

	applied, err := orderRepo.ApplyTransition(ctx, transition)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, h.explainLostRace(ctx, orderRepo, cmd, transition)
	}

	if transition.ConfirmsHold() {
		if _, err = confirmLiveHolds(ctx, uow.HoldRepository(), cmd.OrderID(), now, h.logger); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if err = h.notifier.NotifyStage(ctx, cmd.OrderID(), transition.To()); err != nil {
		h.logger.WarnContext(ctx, "stage signal not delivered",
			"order_id", cmd.OrderID().String(),
			"stage", transition.To().String(),
			"error", err,
		)
	}

	return o, nil
}

// explainLostRace re-reads the order after a failed conditional write so a
// worker who lost the gate lease meanwhile gets an authorization error.
func (h TransitionStatusCommandHandler) explainLostRace(
	ctx context.Context,
	repo ports.OrderRepository,
	cmd TransitionStatusCommand,
	transition order.Transition,
) error {
	lostRace := errs.NewConcurrentModificationError("order", cmd.OrderID().String())
	if !transition.IsGated() {
		return lostRace
	}

	current, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return lostRace
	}
	lease, _ := current.Lease(transition.Gate())
	if lease.AdmitsTransition(cmd.Worker(), transition.AcceptsReady(), transition.At(), transition.StaleAfter()) {
		return lostRace
	}
	return lease.NotHolderError(cmd.OrderID(), cmd.Worker())
}
