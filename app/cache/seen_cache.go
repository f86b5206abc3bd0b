// Package cache provides a Redis-backed fast path for duplicate
// scholarship checks, cutting database round trips on repeat scrapes.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenTTL keeps seen markers around long enough to cover the longest
// scrape interval.
const SeenTTL = 48 * time.Hour

// SeenCache remembers scholarship IDs observed on recent scrapes.
// A cache miss is not authoritative; the database unique constraint
// remains the source of truth.
type SeenCache struct {
	client *redis.Client
}

// NewSeenCache connects to Redis and verifies the connection
func NewSeenCache(addr string) (*SeenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", addr)

	return &SeenCache{client: client}, nil
}

func key(scholarshipID string) string {
	return "seen:" + scholarshipID
}

// IsSeen reports whether a scholarship ID was marked on a recent
// scrape. Errors degrade to a miss so the pipeline falls through to
// the database.
func (c *SeenCache) IsSeen(ctx context.Context, scholarshipID string) bool {
	count, err := c.client.Exists(ctx, key(scholarshipID)).Result()
	if err != nil {
		slog.Debug("Seen cache lookup failed", "error", err)
		return false
	}
	return count > 0
}

// MarkSeen records a scholarship ID with the standard TTL
func (c *SeenCache) MarkSeen(ctx context.Context, scholarshipID string) {
	if err := c.client.Set(ctx, key(scholarshipID), "1", SeenTTL).Err(); err != nil {
		slog.Debug("Seen cache mark failed", "error", err)
	}
}

// Close closes the Redis connection
func (c *SeenCache) Close() error {
	return c.client.Close()
}
