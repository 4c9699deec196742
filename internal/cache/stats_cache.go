// Package cache holds the Redis-backed stats cache. The stats endpoint
// runs two aggregation pipelines per request; a short TTL absorbs
// dashboard polling without letting stale numbers linger.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsTTL = 60 * time.Second

type StatsCache struct {
	client *redis.Client
}

func NewStatsCache(addr, password string) *StatsCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Error connecting to Redis: %s", err)
	}
	return &StatsCache{client: client}
}

func statsKey(userID string) string {
	return fmt.Sprintf("kanji:stats:%s", userID)
}

// Get unmarshals the cached stats into model. Returns false on miss.
func (c *StatsCache) Get(ctx context.Context, userID string, model any) (bool, error) {
	raw, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading stats cache: %s", err)
	}
	return true, json.Unmarshal(raw, model)
}

// Set stores the stats snapshot under the user's key.
func (c *StatsCache) Set(ctx context.Context, userID string, model any) error {
	val, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("error caching stats: %s", err)
	}
	return c.client.Set(ctx, statsKey(userID), val, statsTTL).Err()
}

// Invalidate drops the user's snapshot after a write to mastery state.
func (c *StatsCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, statsKey(userID)).Err()
}
