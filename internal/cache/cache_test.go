package cache

import (
	"context"
	"testing"
	"time"

	"tunepost-go/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(16)
	require.NoError(t, err)

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	assert.True(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)
	assert.True(t, m.Exists(ctx, "k"))

	assert.True(t, m.Delete(ctx, "k"))
	assert.False(t, m.Exists(ctx, "k"))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(16)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.Set(ctx, "short", []byte("1"), time.Second)
	m.Set(ctx, "forever", []byte("2"), 0)

	now = now.Add(2 * time.Second)
	_, ok := m.Get(ctx, "short")
	assert.False(t, ok)
	_, ok = m.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(2)
	require.NoError(t, err)

	m.Set(ctx, "a", []byte("1"), 0)
	m.Set(ctx, "b", []byte("2"), 0)
	_, _ = m.Get(ctx, "a")
	m.Set(ctx, "c", []byte("3"), 0)

	assert.Equal(t, 2, m.Len())
	assert.True(t, m.Exists(ctx, "a"))
	assert.False(t, m.Exists(ctx, "b"))
	assert.True(t, m.Exists(ctx, "c"))
}

func TestMemoryIncrement(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(16)
	require.NoError(t, err)

	n, ok := m.Increment(ctx, "counter")
	require.True(t, ok)
	assert.Equal(t, int64(1), n)
	n, _ = m.Increment(ctx, "counter")
	assert.Equal(t, int64(2), n)

	m.Set(ctx, "text", []byte("abc"), 0)
	_, ok = m.Increment(ctx, "text")
	assert.False(t, ok)
}

func TestNopNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNop()
	assert.False(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	_, ok = c.Increment(ctx, "k")
	assert.False(t, ok)
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(16)
	require.NoError(t, err)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.True(t, SetJSON(ctx, m, "p", payload{Name: "a", Count: 2}, time.Minute))
	var got payload
	require.True(t, GetJSON(ctx, m, "p", &got))
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	// 脏数据被当作未命中并清除
	m.Set(ctx, "bad", []byte("{not json"), time.Minute)
	assert.False(t, GetJSON(ctx, m, "bad", &got))
	assert.False(t, m.Exists(ctx, "bad"))
}

func TestGenerationBump(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemory(16)
	require.NoError(t, err)

	assert.Equal(t, int64(0), Generation(ctx, m, NamespaceTrending))
	before := TrendingKey(Generation(ctx, m, NamespaceTrending), "week", "all", 20, 0)

	Bump(ctx, m, NamespaceTrending, NamespaceRankings)
	assert.Equal(t, int64(1), Generation(ctx, m, NamespaceTrending))
	assert.Equal(t, int64(1), Generation(ctx, m, NamespaceRankings))

	after := TrendingKey(Generation(ctx, m, NamespaceTrending), "week", "all", 20, 0)
	assert.NotEqual(t, before, after)
}

// 127.0.0.1:1 上没有服务，用来模拟缓存宕机
func unreachableRedis(t *testing.T) *Redis {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	r := NewRedis(client, RedisOptions{
		OpTimeout:         50 * time.Millisecond,
		ReconnectAttempts: 1,
		ReconnectInterval: time.Hour,
	})
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedisUnavailableIsFailSoft(t *testing.T) {
	ctx := context.Background()
	r := unreachableRedis(t)
	assert.False(t, r.Connected())

	start := time.Now()
	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	assert.False(t, r.Set(ctx, "k", []byte("v"), time.Minute))
	assert.False(t, r.Delete(ctx, "k"))
	assert.False(t, r.Exists(ctx, "k"))
	n, ok := r.Increment(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, n)

	// 断开状态下不应再等待网络超时
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestOpenSelectsImplementation(t *testing.T) {
	c, closeFn, err := Open(&config.CacheConfig{Driver: "none"})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)
	assert.NoError(t, closeFn())

	c, _, err = Open(&config.CacheConfig{Driver: "memory", MemorySize: 8})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, _, err = Open(&config.CacheConfig{URL: "not-a-url://"})
	assert.Error(t, err)
}
