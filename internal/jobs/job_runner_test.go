package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleetmaster/internal/models"
)

type stubResets struct {
	calledWith time.Time
	deleted    int64
	err        error
	panic      bool
}

func (s *stubResets) Replace(context.Context, *models.PasswordResetToken) error { return nil }
func (s *stubResets) GetUnused(context.Context, string, string) (*models.PasswordResetToken, error) {
	return nil, nil
}
func (s *stubResets) Redeem(context.Context, string, string, string, time.Time) error { return nil }
func (s *stubResets) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if s.panic {
		panic("boom")
	}
	s.calledWith = now
	return s.deleted, s.err
}

func TestPurgeResetTokensUsesClock(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubResets{deleted: 3}
	jr := NewJobRunner(stub)
	jr.now = func() time.Time { return now }

	jr.PurgeResetTokens()
	assert.Equal(t, now, stub.calledWith)
}

func TestPurgeResetTokensSurvivesFailures(t *testing.T) {
	assert.NotPanics(t, func() {
		NewJobRunner(&stubResets{err: errors.New("db down")}).PurgeResetTokens()
		NewJobRunner(&stubResets{panic: true}).PurgeResetTokens()
	})
}
