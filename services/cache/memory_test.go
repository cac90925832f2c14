package cachesvc

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/tests"
)

type item struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	var got item
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := item{Name: "courses", Items: []string{"1", "2"}}
	require.NoError(t, c.Set(ctx, "ttl", want, time.Minute))
	require.NoError(t, c.Set(ctx, "forever", want, 0))

	// readers get their own copy
	want.Items[0] = "changed"

	found, err = c.Get(ctx, "ttl", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, item{Name: "courses", Items: []string{"1", "2"}}, got)

	now = now.Add(time.Minute)
	found, err = c.Get(ctx, "ttl", &got)
	require.NoError(t, err)
	assert.False(t, found, "expired entries are not served")
	assert.NotContains(t, c.entries, "ttl")

	now = now.Add(24 * time.Hour)
	found, err = c.Get(ctx, "forever", &got)
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, c.Delete(ctx, "forever", "missing"))
	found, err = c.Get(ctx, "forever", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_errors(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	assert.Error(t, c.Set(ctx, "chan", make(chan int), 0))

	require.NoError(t, c.Set(ctx, "str", "lol", 0))
	var n int
	found, err := c.Get(ctx, "str", &n)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestNewCache(t *testing.T) {
	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)

	conf.Cache.RedisAddress = ""
	assert.IsType(t, &MemoryCache{}, NewCache(conf, logger))

	srv := miniredis.RunT(t)
	conf.Cache.RedisAddress = srv.Addr()
	cache := NewCache(conf, logger)
	require.IsType(t, &RedisCache{}, cache)
	assert.NoError(t, cache.Close())

	// unreachable server
	gone := miniredis.NewMiniRedis()
	require.NoError(t, gone.Start())
	conf.Cache.RedisAddress = gone.Addr()
	gone.Close()
	cache = NewCache(conf, logger)
	assert.IsType(t, &MemoryCache{}, cache)
	assert.NoError(t, cache.Close())
}
