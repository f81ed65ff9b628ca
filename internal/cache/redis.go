// Package cache manages the Redis client used for vote sets and rate limits.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect creates a Redis client for the given address. Returns nil when
// Redis is unreachable; callers fall back to in-memory stores.
func Connect(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, using in-memory stores", "addr", addr, "error", err)
		return nil
	}
	slog.Info("redis connected", "addr", addr)
	return client
}
