package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	cfgpkg "github.com/riahunter/backend/pkg/config"
)

const keySearchUser = "search:user:%s"

// SearchLimiter throttles directory searches per user. When redis is not
// configured the limiter is disabled and every request is allowed.
type SearchLimiter struct {
	enabled bool
	bucket  *TokenBucket
	rate    float64
	burst   int
}

func NewSearchLimiter(cfg *cfgpkg.Config, client *redis.Client) *SearchLimiter {
	if !cfg.RateLimit.Enabled || client == nil {
		return &SearchLimiter{}
	}
	return &SearchLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    cfg.RateLimit.SearchRate,
		burst:   cfg.RateLimit.SearchBurst,
	}
}

func (l *SearchLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *SearchLimiter) Allow(ctx context.Context, userID string) (bool, time.Duration, error) {
	if !l.Enabled() {
		return true, 0, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keySearchUser, userID), l.rate, l.burst)
}
