package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process cache. Values are stored JSON encoded so a
// caller never shares memory with what it stored, matching the redis cache.
type MemoryCache struct {
	mu           sync.RWMutex
	entries      map[string]memoryEntry
	timeProvider core.TimeProvider
}

// NewMemoryCache creates a new in-process cache
func NewMemoryCache(timeProvider core.TimeProvider) *MemoryCache {
	return &MemoryCache{
		entries:      make(map[string]memoryEntry),
		timeProvider: timeProvider,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !entry.expiresAt.IsZero() && !c.timeProvider.Now().Before(entry.expiresAt) {
		c.mu.Lock()
		// another writer may have replaced it meanwhile
		if current, still := c.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(entry.data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = c.timeProvider.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}
