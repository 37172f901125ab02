// Package redisconn builds the process-wide Redis client shared by the
// cache layer, the notification queue, and the live-update pub/sub bridge.
//
// Redis is treated as an optional dependency: an empty address yields a nil
// client, and an unreachable server at startup is logged rather than fatal.
// Every consumer of the client degrades on its own (cache miss, skipped
// notification, local-only fan-out) instead of failing requests.
package redisconn

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskpulse/taskpulse-api/internal/config"
)

// DefaultTimeout bounds individual cache and queue operations when the
// configured timeout is zero.
const DefaultTimeout = 2 * time.Second

// New creates a Redis client from the given configuration and probes it
// with a single PING. Returns nil when no address is configured. A failed
// probe is logged at warn level and the client is still returned, since the
// server may become reachable later.
func New(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) *redis.Client {
	if cfg.Addr == "" {
		log.Warn("redis address not configured, running degraded",
			"cache", "disabled",
			"notifications", "disabled",
			"fanout", "local only")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, OpTimeout(cfg))
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable at startup, continuing degraded",
			"error", err,
			"addr", cfg.Addr)
		return client
	}

	log.Info("redis connection established", "addr", cfg.Addr)
	return client
}

// OpTimeout returns the per-operation timeout for cache and queue calls.
func OpTimeout(cfg config.RedisConfig) time.Duration {
	if cfg.Timeout <= 0 {
		return DefaultTimeout
	}
	return time.Duration(cfg.Timeout) * time.Millisecond
}
