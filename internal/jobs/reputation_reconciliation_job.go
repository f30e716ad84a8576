package jobs

import (
	"context"
	"log/slog"

	"parceltrack/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReconciliationSchedule runs the reconciliation at the top of every hour.
const DefaultReconciliationSchedule = "0 0 * * * *"

// ReputationRecomputer is the command handler the job drives.
type ReputationRecomputer interface {
	Handle(ctx context.Context, cmd commands.RecomputeReputationsCommand) (int, error)
}

// ReputationReconciliationJob periodically recomputes every rated driver's reputation
// from the stored delivery ratings, repairing any drift left by failed updates.
type ReputationReconciliationJob struct {
	handler  ReputationRecomputer
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewReputationReconciliationJob creates the job. An empty schedule falls back to
// DefaultReconciliationSchedule. Schedules use the six-field cron format with seconds.
func NewReputationReconciliationJob(handler ReputationRecomputer, schedule string, logger *slog.Logger) *ReputationReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconciliationSchedule
	}
	return &ReputationReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "reputation_reconciliation_job"),
	}
}

// Start registers the job and starts the scheduler.
func (j *ReputationReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reputation reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running reconciliation to finish.
func (j *ReputationReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Reputation reconciliation job stopped")
}

func (j *ReputationReconciliationJob) run() {
	ctx := context.Background()

	updated, err := j.handler.Handle(ctx, commands.NewRecomputeReputationsCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Reputation reconciliation failed", "error", err, "updated", updated)
		return
	}
	j.logger.DebugContext(ctx, "Reputation reconciliation finished", "updated", updated)
}
