package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "search:pizza", []byte("hits"), time.Minute))
	require.NoError(t, c.Set(ctx, "recipe:1", []byte("forever"), 0))

	v, ok, err := c.Get(ctx, "search:pizza")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("hits"), v)

	now = now.Add(2 * time.Minute)

	_, ok, err = c.Get(ctx, "search:pizza")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, _ = c.Get(ctx, "recipe:1")
	assert.True(t, ok)
}

func TestMemoryCache_Cleanup(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Second))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))

	now = now.Add(time.Minute)
	c.Cleanup()

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Len(t, c.entries, 1)
	assert.Contains(t, c.entries, "b")
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := DialRedis(ctx, mr.Addr(), WithPrefix("forkify-test:"))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "recipe:42", []byte(`{"id":"42"}`), time.Minute))
	assert.True(t, mr.Exists("forkify-test:recipe:42"))
	assert.Equal(t, time.Minute, mr.TTL("forkify-test:recipe:42"))

	v, ok, err := c.Get(ctx, "recipe:42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"id":"42"}`, string(v))

	_, ok, err = c.Get(ctx, "recipe:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "recipe:42")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_NegativeTTLNeverExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "search:pizza", []byte("hits"), -time.Second))
	assert.True(t, mr.Exists("forkify:search:pizza"))
	assert.Equal(t, time.Duration(0), mr.TTL("forkify:search:pizza"))

	mr.FastForward(time.Hour)
	v, ok, err := c.Get(ctx, "search:pizza")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("hits"), v)
}

func TestRedisCache_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}), WithPrefix(""))
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.True(t, mr.Exists("k"))

	mr.Close()
	_, ok, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "k", []byte("v"), 0))
}

func TestDialRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := DialRedis(context.Background(), addr)
	assert.Error(t, err)
}
