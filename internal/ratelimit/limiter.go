package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-tracker/internal/config"
)

// Counter is the slice of Redis the limiter needs. *redis.Client
// satisfies it; tests substitute a fake.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter applies a fixed-window counter to auth endpoints. Redis being
// unreachable fails open: limiting is protective, never load-bearing.
type Limiter struct {
	counter Counter
	logger  *zap.Logger
	window  time.Duration
	max     int
	enabled bool
}

// NewLimiter builds a limiter over the given counter.
func NewLimiter(counter Counter, logger *zap.Logger, cfg config.RateLimitConfig) *Limiter {
	window := time.Duration(cfg.WindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	max := cfg.MaxAttempts
	if max <= 0 {
		max = 10
	}
	return &Limiter{
		counter: counter,
		logger:  logger,
		window:  window,
		max:     max,
		enabled: cfg.Enabled && counter != nil,
	}
}

// Allow reports whether another attempt is permitted for the key within
// the current window.
func (l *Limiter) Allow(ctx context.Context, scope, key string) bool {
	if l == nil || !l.enabled {
		return true
	}

	bucket := fmt.Sprintf("ratelimit:%s:%s:%d", scope, key, time.Now().Unix()/int64(l.window.Seconds()))
	count, err := l.counter.Incr(ctx, bucket).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable; allowing request", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.counter.Expire(ctx, bucket, l.window).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.max)
}
