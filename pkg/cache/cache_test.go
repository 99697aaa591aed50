package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func newRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc, err := NewRedisCache(WithRedisAddr(mr.Addr()), WithRedisPrefix("test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "a", Values: []float64{1, 2}}, time.Minute))

	got, err := GetTyped[payload](ctx, mc, "k")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, []float64{1, 2}, got.Values)

	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, mc.Delete(ctx, "k"))
	_, err = GetTyped[payload](ctx, mc, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
}

func TestMemoryCacheCleanupSweepsExpired(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryCleanup(5 * time.Millisecond))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Millisecond))
	assert.Eventually(t, func() bool { return mc.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRedisCachePoolOptions(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := NewRedisCache(WithRedisAddr(mr.Addr()), WithRedisPool(4, 1, time.Second))
	require.NoError(t, err)
	defer rc.Close()

	opts := rc.Client().Options()
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 1, opts.MinIdleConns)
	assert.Equal(t, time.Second, opts.PoolTimeout)
}

func TestMemoryCacheEvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	assert.Equal(t, 2, mc.Len())
	var s string
	require.NoError(t, mc.Get(ctx, "c", &s))
	assert.Equal(t, "3", s)
}

func TestMemoryCacheCloseIdempotent(t *testing.T) {
	mc := NewMemoryCache()
	require.NoError(t, mc.Close())
	require.NoError(t, mc.Close())
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	rc, mr := newRedis(t)

	require.NoError(t, rc.Set(ctx, "k", payload{Name: "b"}, time.Minute))
	assert.True(t, mr.Exists("test:k"))

	got, err := GetTyped[payload](ctx, rc, "k")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)

	require.NoError(t, rc.Delete(ctx, "k"))
	ok, err := rc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	var s string
	assert.ErrorIs(t, rc.Get(ctx, "k", &s), ErrCacheMiss)
}

func TestLayeredCachePromotesFromRedis(t *testing.T) {
	ctx := context.Background()
	rc, _ := newRedis(t)
	require.NoError(t, rc.Set(ctx, "k", payload{Name: "c"}, time.Minute))

	lc := NewLayeredCache(rc)
	defer lc.memCache.Close()

	got, err := GetTyped[payload](ctx, lc, "k")
	require.NoError(t, err)
	assert.Equal(t, "c", got.Name)

	ok, err := lc.memCache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLayeredCacheWriteThrough(t *testing.T) {
	ctx := context.Background()
	rc, mr := newRedis(t)
	lc := NewLayeredCache(rc)
	defer lc.memCache.Close()

	require.NoError(t, lc.Set(ctx, "k", payload{Name: "d"}, time.Minute))
	assert.True(t, mr.Exists("test:k"))

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.False(t, mr.Exists("test:k"))
	ok, err := lc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashBytes(t *testing.T) {
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", HashBytes([]byte("abc")))
	assert.Equal(t, "csv:history:x", GenerateKeyWithParams("csv", "history", "x"))
}
