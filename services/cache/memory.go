package cachesvc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
)

const pingTimeout = 5 * time.Second

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero: never
}

// MemoryCache is an in-process Cache. Values are stored JSON-encoded so that readers never share memory with writers.
type MemoryCache struct {
	mutex   sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ core.Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()

	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		c.mutex.Lock()
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mutex.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, errors.Wrap(err, "decoding cached value")
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, val interface{}, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return errors.Wrap(err, "encoding value")
	}
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mutex.Lock()
	c.entries[key] = entry
	c.mutex.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// NewCache returns a redis cache when an address is configured and the server answers, an in-process cache otherwise.
func NewCache(conf *core.Config, logger core.Logger) core.Cache {
	if conf.Cache.RedisAddress == "" {
		return NewMemoryCache()
	}

	cache := NewRedisCache(NewRedisClient(conf), "lms:")
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		logger.Error(fmt.Sprintf("connecting to redis at %s, falling back to the in-process cache", conf.Cache.RedisAddress), err)
		_ = cache.Close()
		return NewMemoryCache()
	}
	logger.Info(fmt.Sprintf("connected to redis at %s", conf.Cache.RedisAddress))
	return cache
}
