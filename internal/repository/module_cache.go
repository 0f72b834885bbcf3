package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const onboardingCountKey = "modules:onboarding:active_count"

// CachedModuleCounter keeps the onboarding module count in Redis for a short
// TTL. Redis failures fall through to the wrapped counter.
type CachedModuleCounter struct {
	next   ModuleCounter
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedModuleCounter wraps next. A nil client or zero ttl disables caching.
func NewCachedModuleCounter(next ModuleCounter, client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) ModuleCounter {
	if client == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedModuleCounter{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedModuleCounter) CountActiveOnboarding(ctx context.Context) (int, error) {
	cached, err := c.client.Get(ctx, onboardingCountKey).Result()
	switch {
	case err == nil:
		if count, convErr := strconv.Atoi(cached); convErr == nil {
			return count, nil
		}
		c.logger.Warn("discarding malformed cached onboarding count", zap.String("value", cached))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("onboarding count cache read failed", zap.Error(err))
	}

	count, err := c.next.CountActiveOnboarding(ctx)
	if err != nil {
		return 0, err
	}
	if err := c.client.Set(ctx, onboardingCountKey, count, c.ttl).Err(); err != nil {
		c.logger.Warn("onboarding count cache write failed", zap.Error(err))
	}
	return count, nil
}

// Invalidate drops the cached count.
func (c *CachedModuleCounter) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, onboardingCountKey).Err()
}
