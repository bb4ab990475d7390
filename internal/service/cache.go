package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache memoizes provider responses for a fixed TTL. There is no
// single-flight coordination: concurrent misses on the same key may race
// to populate it, which only costs a redundant provider call.
type Cache interface {
	// Get unmarshals the cached value for key into dest and reports
	// whether the key was present and fresh.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// ============================================================================
// REDIS CACHE
// ============================================================================

// RedisCache shares memoized responses across instances.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// Cache miss
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get error: %v", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("json unmarshal error: %v", err)
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal error: %v", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// ============================================================================
// IN-MEMORY CACHE
// ============================================================================

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is the default per-process memoization used when Redis is
// not configured. Values are stored as JSON so both implementations behave
// identically.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expires) {
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("json unmarshal error: %v", err)
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal error: %v", err)
	}

	c.mu.Lock()
	c.entries[key] = memoryEntry{data: data, expires: c.now().Add(ttl)}
	// Expired entries are dropped opportunistically on write.
	for k, e := range c.entries {
		if c.now().After(e.expires) {
			delete(c.entries, k)
		}
	}
	c.mu.Unlock()
	return nil
}
