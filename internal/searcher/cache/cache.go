// Package cache provides a Redis-backed result cache for top-5 queries.
// Concurrent identical queries are collapsed with singleflight, and a
// circuit breaker keeps a failing Redis from slowing every query down.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/karthikg/litesearch/pkg/metrics"
	"github.com/karthikg/litesearch/pkg/redis"
	"github.com/karthikg/litesearch/pkg/resilience"
)

const keyPrefix = "search:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache caches successful top-5 results keyed by the ordered keyword
// pair. The pair is not sorted: keyword order determines tie-breaking, so
// (a,b) and (b,a) are distinct queries.
type QueryCache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	breaker *resilience.Breaker
	metrics *metrics.Metrics
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

// New creates a QueryCache with the given TTL. Metrics are optional; nil
// disables them.
func New(store Store, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:   store,
		ttl:     ttl,
		breaker: resilience.NewBreaker("query-cache", 0, 0),
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

// GetOrCompute returns the cached result for the keyword pair, or runs
// compute, caches its result, and returns it. The second return value
// reports whether the result came from the cache. Errors from compute are
// never cached.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	kw1, kw2 string,
	compute func() ([]string, error),
) ([]string, bool, error) {
	key := buildKey(kw1, kw2)

	if docs, ok := c.get(ctx, key); ok {
		return docs, true, nil
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if docs, ok := c.get(ctx, key); ok {
			return docs, nil
		}
		docs, err := compute()
		if err != nil {
			return nil, err
		}
		c.set(ctx, key, docs)
		return docs, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.([]string), false, nil
}

// Invalidate removes every cached query result.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating query cache: %w", err)
	}
	c.logger.Info("query cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats returns the hit and miss counters.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) get(ctx context.Context, key string) ([]string, bool) {
	// A key miss is a normal outcome; only transport errors count against
	// the breaker.
	var data string
	var missed bool
	err := c.breaker.Do(func() error {
		d, getErr := c.store.Get(ctx, key)
		if getErr != nil {
			if redis.IsNilError(getErr) {
				missed = true
				return nil
			}
			return getErr
		}
		data = d
		return nil
	})
	if err != nil {
		c.logger.Error("cache get failed", "key", key, "error", err)
		c.recordMiss()
		return nil, false
	}
	if missed {
		c.recordMiss()
		return nil, false
	}
	var docs []string
	if err := json.Unmarshal([]byte(data), &docs); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.recordMiss()
		return nil, false
	}
	c.recordHit()
	return docs, true
}

func (c *QueryCache) set(ctx context.Context, key string, docs []string) {
	data, err := json.Marshal(docs)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.breaker.Do(func() error {
		return c.store.Set(ctx, key, data, c.ttl)
	})
	if err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

func (c *QueryCache) recordHit() {
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
}

func (c *QueryCache) recordMiss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

func buildKey(kw1, kw2 string) string {
	hash := sha256.Sum256([]byte(kw1 + "|" + kw2))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}
