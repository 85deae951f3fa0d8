package jobs

import (
	"context"
	"log/slog"
)

type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// CatalogReloadJob refreshes the in-memory catalog snapshot.
type CatalogReloadJob struct {
	scheduledJob
	catalog CatalogReloader
}

func NewCatalogReloadJob(catalog CatalogReloader, schedule string, logger *slog.Logger) *CatalogReloadJob {
	j := &CatalogReloadJob{catalog: catalog}
	j.scheduledJob = newScheduledJob("catalog_reload_job", schedule, logger, j.Run)
	return j
}

// Run reloads once. A failed reload keeps serving the previous snapshot.
func (j *CatalogReloadJob) Run(ctx context.Context) {
	if err := j.catalog.Reload(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Catalog reload failed, keeping previous snapshot", "error", err)
	}
}
