package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-tracker/internal/config"
)

type fakeCounter struct {
	counts  map[string]int64
	incrErr error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int64)}
}

func (f *fakeCounter) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.incrErr != nil {
		cmd.SetErr(f.incrErr)
		return cmd
	}
	f.counts[key]++
	cmd.SetVal(f.counts[key])
	return cmd
}

func (f *fakeCounter) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func TestLimiterAllowsUpToMax(t *testing.T) {
	limiter := NewLimiter(newFakeCounter(), zap.NewNop(), config.RateLimitConfig{
		Enabled:       true,
		WindowSeconds: 60,
		MaxAttempts:   3,
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "login", "1.2.3.4"), "attempt %d", i+1)
	}
	assert.False(t, limiter.Allow(ctx, "login", "1.2.3.4"))

	// Another client is counted independently.
	assert.True(t, limiter.Allow(ctx, "login", "5.6.7.8"))
}

func TestLimiterFailsOpenWhenRedisDown(t *testing.T) {
	counter := newFakeCounter()
	counter.incrErr = errors.New("connection refused")

	limiter := NewLimiter(counter, zap.NewNop(), config.RateLimitConfig{
		Enabled:       true,
		WindowSeconds: 60,
		MaxAttempts:   1,
	})

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(context.Background(), "login", "1.2.3.4"))
	}
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(newFakeCounter(), zap.NewNop(), config.RateLimitConfig{
		Enabled:       false,
		WindowSeconds: 60,
		MaxAttempts:   1,
	})

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(context.Background(), "login", "1.2.3.4"))
	}

	var nilLimiter *Limiter
	assert.True(t, nilLimiter.Allow(context.Background(), "login", "1.2.3.4"))
}
