package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, GenerateKey("tscode", "300722"), "300722.SZ", 0))

	var got string
	require.NoError(t, mc.Get(ctx, "tscode:300722", &got))
	assert.Equal(t, "300722.SZ", got)

	err := mc.Get(ctx, "tscode:000001", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheJSONValues(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "names", map[string]string{"300722": "Xinyu"}, time.Minute))

	var got map[string]string
	require.NoError(t, mc.Get(ctx, "names", &got))
	assert.Equal(t, map[string]string{"300722": "Xinyu"}, got)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got string
	assert.ErrorIs(t, mc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestMemoryCacheMSetMGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.MSet(ctx, map[string]interface{}{"a": "1", "b": "2"}, 0))

	got, err := mc.MGet(ctx, "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", "1", 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "b", "2", 0))
	time.Sleep(time.Millisecond)

	var v string
	require.NoError(t, mc.Get(ctx, "a", &v))
	time.Sleep(time.Millisecond)
	require.NoError(t, mc.Set(ctx, "c", "3", 0))

	assert.Equal(t, 2, mc.Len())
	assert.ErrorIs(t, mc.Get(ctx, "b", &v), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &v))
}

func TestOptionsKeepDefaultsForZeroValues(t *testing.T) {
	rc := &RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10}
	WithRedisAddr("", 0)(rc)
	WithRedisPool(0, 0, 0)(rc)
	assert.Equal(t, "localhost:6379", rc.Addr())
	assert.Equal(t, 10, rc.PoolSize)

	WithRedisAddr("cache", 6380)(rc)
	assert.Equal(t, "cache:6380", rc.Addr())

	lc := &LayeredConfig{MemoryMaxSize: 5, MemoryTTL: time.Minute}
	WithLayeredMemory(0, 0)(lc)
	assert.Equal(t, 5, lc.MemoryMaxSize)
	assert.Equal(t, time.Minute, lc.MemoryTTL)
}
