package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		validateFunc func(t *testing.T, mc *MemoryCache, clock *time.Time)
	}{
		{
			name: "set then get",
			validateFunc: func(t *testing.T, mc *MemoryCache, _ *time.Time) {
				require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
				got, ok := mc.Get(ctx, "k")
				assert.True(t, ok)
				assert.Equal(t, []byte("v"), got)
			},
		},
		{
			name: "expired entries are misses",
			validateFunc: func(t *testing.T, mc *MemoryCache, clock *time.Time) {
				require.NoError(t, mc.Set(ctx, "k", []byte("v"), time.Minute))
				*clock = clock.Add(2 * time.Minute)
				_, ok := mc.Get(ctx, "k")
				assert.False(t, ok)

				mc.removeExpired()
				assert.Equal(t, int64(0), mc.Stats().Entries)
				assert.Equal(t, int64(1), mc.Stats().Evictions)
			},
		},
		{
			name: "delete",
			validateFunc: func(t *testing.T, mc *MemoryCache, _ *time.Time) {
				require.NoError(t, mc.Set(ctx, "k", []byte("v"), 0))
				require.NoError(t, mc.Delete(ctx, "k"))
				_, ok := mc.Get(ctx, "k")
				assert.False(t, ok)
			},
		},
		{
			name: "stored value is a copy",
			validateFunc: func(t *testing.T, mc *MemoryCache, _ *time.Time) {
				buf := []byte("abc")
				require.NoError(t, mc.Set(ctx, "k", buf, time.Minute))
				buf[0] = 'z'
				got, _ := mc.Get(ctx, "k")
				assert.Equal(t, "abc", string(got))
			},
		},
		{
			name: "stats",
			validateFunc: func(t *testing.T, mc *MemoryCache, _ *time.Time) {
				_ = mc.Set(ctx, "k", []byte("v"), time.Minute)
				mc.Get(ctx, "k")
				mc.Get(ctx, "missing")
				s := mc.Stats()
				assert.Equal(t, int64(1), s.Hits)
				assert.Equal(t, int64(1), s.Misses)
				assert.Equal(t, int64(1), s.Sets)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			mc := NewMemoryCache(0)
			mc.now = func() time.Time { return clock }
			defer mc.Close()
			tt.validateFunc(t, mc, &clock)
		})
	}
}

func TestMemoryCacheCloseTwice(t *testing.T) {
	mc := NewMemoryCache(time.Millisecond)
	assert.NoError(t, mc.Close())
	assert.NoError(t, mc.Close())
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(0)
	defer mc.Close()

	type payload struct {
		Title string `json:"title"`
	}
	require.NoError(t, SetJSON(ctx, mc, "p", []payload{{Title: "a"}}, time.Minute))

	var out []payload
	assert.True(t, GetJSON(ctx, mc, "p", &out))
	assert.Equal(t, "a", out[0].Title)

	require.NoError(t, mc.Set(ctx, "bad", []byte("{"), time.Minute))
	assert.False(t, GetJSON(ctx, mc, "bad", &out))
	assert.False(t, GetJSON(ctx, mc, "missing", &out))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, config.CacheConfig{Backend: "memory"}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)
	_ = c.Close()

	_, err = New(ctx, config.CacheConfig{Backend: "memcached"}, logger.Nop())
	assert.Error(t, err)

	_, err = New(ctx, config.CacheConfig{Backend: "redis"}, logger.Nop())
	assert.Error(t, err)
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"}, logger.Nop())
	assert.Error(t, err)
}
