// Package cache provides an optional short-TTL Redis cache for insight
// responses at the HTTP edge. The TTL sits far below the 7-day refresh
// window, so staleness decisions always stay with the insight service.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"careerly/internal/core"
)

// DefaultTTL bounds how long a cached insight response may be served.
const DefaultTTL = 15 * time.Minute

// InsightCache caches serialized insights by industry.
type InsightCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New parses redisURL, verifies connectivity, and returns an InsightCache.
func New(ctx context.Context, redisURL string, ttl time.Duration) (*InsightCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InsightCache{rdb: client, ttl: ttl}, nil
}

func key(industry string) string {
	return "insight:" + industry
}

// Get returns the cached insight for an industry, or (nil, nil) on a miss.
func (c *InsightCache) Get(ctx context.Context, industry string) (*core.IndustryInsight, error) {
	data, err := c.rdb.Get(ctx, key(industry)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var insight core.IndustryInsight
	if err := json.Unmarshal(data, &insight); err != nil {
		return nil, err
	}
	return &insight, nil
}

// Set stores an insight under its industry key with the configured TTL.
func (c *InsightCache) Set(ctx context.Context, insight *core.IndustryInsight) error {
	data, err := json.Marshal(insight)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(insight.Industry), data, c.ttl).Err()
}

// Invalidate drops the cached entry for an industry, used after profile
// updates change which industry a user reads.
func (c *InsightCache) Invalidate(ctx context.Context, industry string) error {
	return c.rdb.Del(ctx, key(industry)).Err()
}

// Close releases the underlying Redis connection.
func (c *InsightCache) Close() error {
	return c.rdb.Close()
}
