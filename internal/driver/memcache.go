package driver

import (
	"sync"
)

// memCache keeps payloads of this process by cache key, so identical
// scripts inside one batch are analyzed once.
type memCache struct {
	mu    sync.RWMutex
	byKey map[Digest]*DiskPayload
}

func newMemCache(capHint int) *memCache {
	return &memCache{byKey: make(map[Digest]*DiskPayload, capHint)}
}

func (c *memCache) get(key Digest) (*DiskPayload, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byKey[key]
	return p, ok
}

func (c *memCache) put(key Digest, p *DiskPayload) {
	c.mu.Lock()
	c.byKey[key] = p
	c.mu.Unlock()
}
