// Package cache memoizes computed structure views keyed by a hash of the
// document content, so unchanged files are never re-parsed.
package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/rbmap/rbmap/internal/types"
)

// Key hashes document content into a cache key.
func Key(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// ResultCache is a bounded, concurrency-safe view cache with FIFO eviction.
type ResultCache struct {
	mu       sync.RWMutex
	capacity int
	entries  map[uint64]*types.StructureView
	order    []uint64
}

// New creates a cache holding at most capacity entries. A capacity of zero
// disables caching.
func New(capacity int) *ResultCache {
	return &ResultCache{
		capacity: capacity,
		entries:  make(map[uint64]*types.StructureView),
	}
}

// Get returns the cached view for key, if any.
func (c *ResultCache) Get(key uint64) (*types.StructureView, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	view, ok := c.entries[key]
	return view, ok
}

// Put stores a view, evicting the oldest entry when full.
func (c *ResultCache) Put(key uint64, view *types.StructureView) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = view
		return
	}
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = view
	c.order = append(c.order, key)
}

// Invalidate removes one entry, typically after a watched file changed.
func (c *ResultCache) Invalidate(key uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len reports the current number of cached views.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
