package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetmaster/internal/jobs"
)

func TestNewSchedulerRegistersCleanup(t *testing.T) {
	s, err := NewScheduler(jobs.NewJobRunner(nil), "@every 1h")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Entries())

	s.Start()
	s.Stop()
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(jobs.NewJobRunner(nil), "every hour")
	assert.Error(t, err)

	// Five-field specs lack the seconds column.
	_, err = NewScheduler(jobs.NewJobRunner(nil), "0 * * * *")
	assert.Error(t, err)
}
