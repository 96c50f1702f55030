package repository

import (
	"context"
	"sync"
	"time"
)

// MemoryRoomsCache is the in-process fallback cache.
type MemoryRoomsCache struct {
	mu        sync.RWMutex
	payload   []byte
	expiresAt time.Time
}

func NewMemoryRoomsCache() *MemoryRoomsCache {
	return &MemoryRoomsCache{}
}

func (c *MemoryRoomsCache) Get(ctx context.Context) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.payload == nil || time.Now().After(c.expiresAt) {
		return nil, nil
	}
	out := make([]byte, len(c.payload))
	copy(out, c.payload)
	return out, nil
}

func (c *MemoryRoomsCache) Set(ctx context.Context, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = append([]byte(nil), payload...)
	c.expiresAt = time.Now().Add(ttl)
	return nil
}

func (c *MemoryRoomsCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payload = nil
	return nil
}
