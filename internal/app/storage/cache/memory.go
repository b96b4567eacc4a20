package cache

import (
	"context"
	"sync"
)

// MemoryCache is an in-process cache used when no Redis is configured
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string][]float32
}

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string][]float32)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]float32, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, vector []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := make([]float32, len(vector))
	copy(v, vector)
	c.items[key] = v
	return nil
}

// Len returns the number of cached vectors
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
