package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// scheduledJob runs one task on a cron schedule.
type scheduledJob struct {
	name     string
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
	task     func(ctx context.Context)
}

func newScheduledJob(name, schedule string, logger *slog.Logger, task func(ctx context.Context)) scheduledJob {
	return scheduledJob{
		name:     name,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", name),
		task:     task,
	}
}

func (j *scheduledJob) Name() string {
	return j.name
}

func (j *scheduledJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.task(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running task to finish.
func (j *scheduledJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "job stopped")
}
