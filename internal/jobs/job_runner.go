package jobs

import (
	"context"
	"time"

	"fleetmaster/internal/logger"
	"fleetmaster/internal/repository"
)

// JobRunner holds the dependencies of the scheduled maintenance jobs.
type JobRunner struct {
	resets  repository.PasswordResetRepository
	now     func() time.Time
	timeout time.Duration
}

func NewJobRunner(resets repository.PasswordResetRepository) *JobRunner {
	return &JobRunner{
		resets:  resets,
		now:     func() time.Time { return time.Now().UTC() },
		timeout: time.Minute,
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Debug("Starting job", "job", jobName)
	jobFunc()
	logger.Debug("Job completed", "job", jobName)
}

// PurgeResetTokens deletes reset codes that are expired or already used.
func (jr *JobRunner) PurgeResetTokens() {
	jr.runWithRecovery("PurgeResetTokens", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
		defer cancel()

		n, err := jr.resets.DeleteExpired(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to purge reset tokens", "error", err)
			return
		}
		if n > 0 {
			logger.Info("Purged reset tokens", "count", n)
		}
	})
}
