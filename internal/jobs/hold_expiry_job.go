package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

type ExpireHoldsHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireHoldsCommand) (int64, error)
}

// HoldExpiryJob removes lapsed unconfirmed holds.
type HoldExpiryJob struct {
	scheduledJob
	handler ExpireHoldsHandler
}

func NewHoldExpiryJob(handler ExpireHoldsHandler, schedule string, logger *slog.Logger) *HoldExpiryJob {
	j := &HoldExpiryJob{handler: handler}
	j.scheduledJob = newScheduledJob("hold_expiry_job", schedule, logger, j.Run)
	return j
}

// Run performs one sweep.
func (j *HoldExpiryJob) Run(ctx context.Context) {
	deleted, err := j.handler.Handle(ctx, commands.NewExpireHoldsCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Hold expiry failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.InfoContext(ctx, "Expired stock holds removed", "count", deleted)
	}
}
