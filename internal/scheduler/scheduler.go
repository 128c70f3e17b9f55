package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"fleetmaster/internal/jobs"
	"fleetmaster/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler registers the maintenance jobs. tokenCleanup is a cron spec
// with seconds or a descriptor such as "@every 1h".
func NewScheduler(jobRunner *jobs.JobRunner, tokenCleanup string) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if _, err := s.cron.AddFunc(tokenCleanup, s.jobs.PurgeResetTokens); err != nil {
		return nil, fmt.Errorf("invalid token cleanup schedule %q: %w", tokenCleanup, err)
	}
	logger.Info("Cron jobs registered", "token_cleanup", tokenCleanup)
	return s, nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Cron scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
