package redis

import (
	"context"
	"encoding/json"
	"time"

	"tiered-subscription-service/internal/usecase"
)

var _ usecase.StatsCache = (*StatsCache)(nil)

const statsKey = "entitlement:usage_stats"

// StatsCache keeps the latest usage snapshot in Redis with a short TTL.
// Usage stats are explicitly snapshot-consistent, so a stale read within
// the TTL is acceptable.
type StatsCache struct {
	client *Client
	ttl    time.Duration
}

func NewStatsCache(client *Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) Get(ctx context.Context) (*usecase.UsageStats, error) {
	data, found, err := c.client.Get(ctx, statsKey)
	if err != nil || !found {
		return nil, err
	}
	var stats usecase.UsageStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, stats *usecase.UsageStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, data, c.ttl)
}
