package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value      []byte
	expiryTime time.Time
}

// MemoryCache is the in-process Store used when Redis is not configured.
type MemoryCache struct {
	entries map[string]memoryEntry
	mutex   sync.RWMutex
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errEmptyKey
	}

	c.mutex.RLock()
	entry, found := c.entries[key]
	c.mutex.RUnlock()

	if found && c.now().Before(entry.expiryTime) {
		return entry.value, nil
	}

	return nil, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errEmptyKey
	}

	c.mutex.Lock()
	c.entries[key] = memoryEntry{
		value:      value,
		expiryTime: c.now().Add(ttl),
	}
	c.mutex.Unlock()

	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mutex.Lock()
	delete(c.entries, key)
	c.mutex.Unlock()
	return nil
}

// Prune removes expired entries.
func (c *MemoryCache) Prune() {
	c.mutex.Lock()
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiryTime) {
			delete(c.entries, key)
		}
	}
	c.mutex.Unlock()
}

func (c *MemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}
