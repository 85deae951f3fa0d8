package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
)

type ReapStaleLeasesHandler interface {
	Handle(ctx context.Context, cmd commands.ReapStaleLeasesCommand) (int64, error)
}

// StaleLeaseReaperJob releases leases whose holder stopped sending heartbeats,
// typically because a browser tab closed without its unload release arriving.
type StaleLeaseReaperJob struct {
	scheduledJob
	handler    ReapStaleLeasesHandler
	staleAfter time.Duration
}

func NewStaleLeaseReaperJob(
	handler ReapStaleLeasesHandler,
	staleAfter time.Duration,
	schedule string,
	logger *slog.Logger,
) *StaleLeaseReaperJob {
	j := &StaleLeaseReaperJob{handler: handler, staleAfter: staleAfter}
	j.scheduledJob = newScheduledJob("stale_lease_reaper_job", schedule, logger, j.Run)
	return j
}

// Run performs one sweep.
func (j *StaleLeaseReaperJob) Run(ctx context.Context) {
	cmd, err := commands.NewReapStaleLeasesCommand(j.staleAfter)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale lease reaper misconfigured", "error", err)
		return
	}

	released, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale lease reaper failed", "error", err)
		return
	}
	if released > 0 {
		j.logger.WarnContext(ctx, "Stale leases released", "count", released, "staleAfter", j.staleAfter.String())
	}
}
