package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	reputationJob *ReputationReconciliationJob
}

// NewJobManager creates a job manager wired to the reputation reconciliation handler.
func NewJobManager(recomputer ReputationRecomputer, reconciliationSchedule string, logger *slog.Logger) *JobManager {
	return &JobManager{
		reputationJob: NewReputationReconciliationJob(recomputer, reconciliationSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.reputationJob.Start(); err != nil {
		return fmt.Errorf("failed to start reputation reconciliation job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reputationJob.Stop()
}
