// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// (six-field expressions, seconds first).
//
// # Available Jobs
//
// 1. HoldExpiryJob - deletes unconfirmed stock holds whose expiresAt has passed
// 2. StaleLeaseReaperJob - releases in-progress leases without a recent heartbeat, reason "stale"
// 3. CatalogReloadJob - re-reads the catalog CSV so availability sees new nominal stock
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewHoldExpiryJob(expireHandler, "*/30 * * * * *", logger),
//		jobs.NewStaleLeaseReaperJob(reapHandler, 30*time.Minute, "0 * * * * *", logger),
//	)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Jobs log failures and wait for the next tick. Reads filter lapsed holds and
// claims take over stale leases on their own, so a missed sweep only delays
// cleanup. Failed job starts stop any already running jobs.
package jobs
