package services

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetLimiter throttles password reset requests per email address.
type ResetLimiter interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// RedisResetLimiter counts requests in a fixed window that starts with the
// first request for an address.
type RedisResetLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisResetLimiter(client *redis.Client, limit int, window time.Duration) *RedisResetLimiter {
	return &RedisResetLimiter{client: client, limit: limit, window: window}
}

func resetLimitKey(email string) string {
	return "reset:" + strings.ToLower(strings.TrimSpace(email))
}

func (l *RedisResetLimiter) Allow(ctx context.Context, email string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	key := resetLimitKey(email)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.limit), nil
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// NoopResetLimiter allows every request. Used when Redis is not configured.
func NoopResetLimiter() ResetLimiter { return noopLimiter{} }
