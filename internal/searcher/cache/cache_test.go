package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karthikg/litesearch/pkg/metrics"
)

// One registry per test binary; prometheus.MustRegister panics on a second
// metrics.New in the same process.
var testMetrics = metrics.New()

// fakeStore is an in-memory Store. Injected errors simulate a broken Redis;
// forgetful drops writes so every Get stays a miss.
type fakeStore struct {
	data      map[string]string
	getErr    error
	setErr    error
	forgetful bool
	flushed   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	if f.forgetful {
		return nil
	}
	f.data[key] = string(value.([]byte))
	return nil
}

func (f *fakeStore) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	f.flushed = append(f.flushed, pattern)
	n := int64(len(f.data))
	f.data = make(map[string]string)
	return n, nil
}

func TestBuildKeyOrderSensitive(t *testing.T) {
	// Keyword order decides tie-breaking, so (a,b) and (b,a) are distinct
	// cache entries.
	assert.NotEqual(t, buildKey("whale", "krill"), buildKey("krill", "whale"))
	assert.Equal(t, buildKey("whale", "krill"), buildKey("whale", "krill"))
	assert.True(t, strings.HasPrefix(buildKey("whale", "krill"), keyPrefix))
	assert.NotEqual(t, buildKey("whale", ""), buildKey("", "whale"))
}

func TestGetOrComputeMissThenHit(t *testing.T) {
	c := New(newFakeStore(), time.Minute, testMetrics)

	hitsBefore := testutil.ToFloat64(testMetrics.CacheHitsTotal)
	missesBefore := testutil.ToFloat64(testMetrics.CacheMissesTotal)

	computed := 0
	compute := func() ([]string, error) {
		computed++
		return []string{"docA", "docB"}, nil
	}

	docs, cached, err := c.GetOrCompute(context.Background(), "whale", "krill", compute)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"docA", "docB"}, docs)
	assert.Equal(t, 1, computed)

	docs, cached, err = c.GetOrCompute(context.Background(), "whale", "krill", compute)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, []string{"docA", "docB"}, docs)
	assert.Equal(t, 1, computed, "cached result must not recompute")

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.GreaterOrEqual(t, misses, int64(1))

	assert.Equal(t, float64(hits), testutil.ToFloat64(testMetrics.CacheHitsTotal)-hitsBefore)
	assert.Equal(t, float64(misses), testutil.ToFloat64(testMetrics.CacheMissesTotal)-missesBefore)
}

func TestComputeErrorsNotCached(t *testing.T) {
	c := New(newFakeStore(), time.Minute, nil)

	boom := errors.New("boom")
	_, _, err := c.GetOrCompute(context.Background(), "whale", "krill", func() ([]string, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	docs, cached, err := c.GetOrCompute(context.Background(), "whale", "krill", func() ([]string, error) {
		return []string{"docA"}, nil
	})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"docA"}, docs)
}

func TestKeyMissesDoNotTripBreaker(t *testing.T) {
	store := newFakeStore()
	store.forgetful = true
	c := New(store, time.Minute, nil)

	for i := 0; i < 10; i++ {
		docs, cached, err := c.GetOrCompute(context.Background(), "whale", "krill", func() ([]string, error) {
			return []string{"docA"}, nil
		})
		require.NoError(t, err)
		assert.False(t, cached)
		assert.Equal(t, []string{"docA"}, docs)
	}
	assert.False(t, c.breaker.Open(), "key misses are not failures")
}

func TestTransportErrorsTripBreakerButQueriesSurvive(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	c := New(store, time.Minute, nil)

	for i := 0; i < 5; i++ {
		docs, cached, err := c.GetOrCompute(context.Background(), "whale", "krill", func() ([]string, error) {
			return []string{"docA"}, nil
		})
		require.NoError(t, err, "a broken cache must not fail the query")
		assert.False(t, cached)
		assert.Equal(t, []string{"docA"}, docs)
	}
	assert.True(t, c.breaker.Open())
}

func TestInvalidateFlushesOnlyCacheKeys(t *testing.T) {
	store := newFakeStore()
	c := New(store, time.Minute, nil)

	_, _, err := c.GetOrCompute(context.Background(), "whale", "krill", func() ([]string, error) {
		return []string{"docA"}, nil
	})
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(context.Background()))
	require.Len(t, store.flushed, 1)
	assert.Equal(t, keyPrefix+"*", store.flushed[0])
}
