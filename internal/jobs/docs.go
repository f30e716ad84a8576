// Package jobs provides scheduled background tasks for the tracking service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-resolution schedules.
//
// # Available Jobs
//
// ReputationReconciliationJob recomputes the rating of every driver that has
// rated deliveries. Ratings are folded into the driver's reputation when they
// are submitted; the reconciliation repairs drivers whose update was lost.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(recomputeHandler, cfg.ReconciliationSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. Overlapping runs are skipped.
package jobs
