package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// maxClaimAttempts bounds retries when the lease was released between the
// failed conditional write and the read that explains it.
const maxClaimAttempts = 3

// ClaimLeaseCommandHandler grants leases through the repository's
// conditional write. A conflict is returned to the caller immediately, it is
// never waited on or retried.
type ClaimLeaseCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      clock.Clock
	staleAfter time.Duration
}

// NewClaimLeaseCommandHandler creates a handler. Leases without a heartbeat
// for staleAfter can be taken over by another worker; zero disables takeover.
func NewClaimLeaseCommandHandler(
	uowFactory OrderUoWFactory,
	clk clock.Clock,
	staleAfter time.Duration,
) ClaimLeaseCommandHandler {
	return ClaimLeaseCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		staleAfter: staleAfter,
	}
}

// Handle claims the lease for the command's worker.
//
// Returns:
//   - the lease now held by the worker (re-claims by the holder succeed)
//   - errs.LeaseConflictError carrying the holder and the lease status when
//     someone else holds it or it is already ready
//   - errs.ObjectNotFoundError for an unknown order
func (h ClaimLeaseCommandHandler) Handle(ctx context.Context, cmd ClaimLeaseCommand) (order.Lease, error) {
	if err := cmd.Validate(); err != nil {
		return order.Lease{}, err
	}

	for range maxClaimAttempts {
		lease, retry, err := h.claim(ctx, cmd)
		if !retry {
			return lease, err
		}
	}

	return order.Lease{}, errs.NewConcurrentModificationError("order", cmd.OrderID().String())
}

func (h ClaimLeaseCommandHandler) claim(ctx context.Context, cmd ClaimLeaseCommand) (order.Lease, bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Lease{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	write, err := uow.OrderRepository().ClaimLease(ctx, cmd.OrderID(), cmd.Kind(), cmd.Worker(), now, h.staleAfter)
	if err != nil {
		return order.Lease{}, false, err
	}

	if !write.Applied {
		if write.Lease.ClaimableBy(cmd.Worker(), now, h.staleAfter) {
			return order.Lease{}, true, nil
		}
		return order.Lease{}, false, write.Lease.ConflictError(cmd.OrderID())
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Lease{}, false, err
	}

	return write.Lease, false, nil
}
