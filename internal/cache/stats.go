package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"sovereign/api/internal/repository"
)

const (
	statsKey = "admin:stats"
	statsTTL = 10 * time.Minute
)

var ErrStatsMiss = errors.New("stats snapshot missing")

// StatsCache holds the most recent dashboard counter snapshot so the
// stats endpoint does not hit the store on every request. The scheduler
// refreshes it; a miss falls back to a direct count.
type StatsCache struct {
	client *redis.Client
}

func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

func (c *StatsCache) Get(ctx context.Context) (repository.Stats, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return repository.Stats{}, ErrStatsMiss
		}
		return repository.Stats{}, err
	}

	var stats repository.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return repository.Stats{}, err
	}
	return stats, nil
}

func (c *StatsCache) Set(ctx context.Context, stats repository.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, raw, statsTTL).Err()
}
