// Package cache provides the Redis-backed query cache fronting task list
// reads. Entries are grouped into per-owner namespaces so a single mutation
// can invalidate every cached query result for that owner, not just the key
// it touched.
//
// The cache is deliberately fail-open: read errors count as misses, write
// errors are logged and swallowed, and a nil Redis client degrades to a
// no-op cache. Cache health never affects whether a request succeeds.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DomainTasks is the key namespace grouping cached task list queries.
const DomainTasks = "tasks"

// QueryCache is the interface the mutation orchestrator and list reads
// depend on.
type QueryCache interface {
	// Get returns the cached value for key, or false on a miss. Any error
	// talking to the backing store is treated as a miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the cache's TTL. Best-effort: errors
	// are logged and swallowed.
	Set(ctx context.Context, key string, value []byte)

	// InvalidateNamespace deletes every entry under <domain>:<owner>:*.
	// Invalidating an empty namespace is a no-op and returns nil.
	InvalidateNamespace(ctx context.Context, domain string, owner uuid.UUID) error
}

// Key builds a cache key from the query domain, the owning user, and a
// canonical serialization of the query parameters.
func Key(domain string, owner uuid.UUID, qualifier string) string {
	return fmt.Sprintf("%s:%s:%s", domain, owner, qualifier)
}

func namespacePattern(domain string, owner uuid.UUID) string {
	return fmt.Sprintf("%s:%s:*", domain, owner)
}

// RedisCache implements QueryCache on a Redis client.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a QueryCache backed by the given Redis client. A nil client
// yields a no-op cache so the rest of the process can run without Redis.
func New(client *redis.Client, ttl, timeout time.Duration, logger *slog.Logger) QueryCache {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		return NoopCache{}
	}

	return &RedisCache{
		client:  client,
		ttl:     ttl,
		timeout: timeout,
		logger:  logger.With(slog.String("component", "query_cache")),
	}
}

// Ensure RedisCache implements QueryCache
var _ QueryCache = (*RedisCache)(nil)

// Get implements QueryCache.Get
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed, treating as miss",
				"error", err,
				"key", key)
		}
		return nil, false
	}
	return data, true
}

// Set implements QueryCache.Set
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if c.ttl == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed",
			"error", err,
			"key", key)
	}
}

// InvalidateNamespace implements QueryCache.InvalidateNamespace
// It walks the namespace with SCAN and deletes matches in batches.
func (c *RedisCache) InvalidateNamespace(ctx context.Context, domain string, owner uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pattern := namespacePattern(domain, owner)

	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.logger.Warn("cache invalidation scan failed",
				"error", err,
				"pattern", pattern)
			return err
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.logger.Warn("cache invalidation delete failed",
					"error", err,
					"pattern", pattern)
				return err
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	c.logger.Debug("cache namespace invalidated",
		"pattern", pattern,
		"deleted", deleted)
	return nil
}

// NoopCache is the degraded cache used when Redis is not configured.
// Every read misses and writes and invalidations do nothing.
type NoopCache struct{}

var _ QueryCache = NoopCache{}

func (NoopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }

func (NoopCache) Set(context.Context, string, []byte) {}

func (NoopCache) InvalidateNamespace(context.Context, string, uuid.UUID) error { return nil }
