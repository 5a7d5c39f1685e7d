// Package cache provides the ID-to-slice-index lookup used when
// pointer events resolve annotation references. Hit resolution runs on
// every pointer move, so lookups must not rescan the lists.
package cache

import "sync"

// IndexCache maps annotation IDs to their position in the owning slice.
// The owner rebuilds it after any mutation that reorders or removes
// entries.
type IndexCache struct {
	mu  sync.RWMutex
	idx map[uint]int
}

// NewIndexCache creates an empty IndexCache.
func NewIndexCache() *IndexCache {
	return &IndexCache{idx: make(map[uint]int)}
}

// Get retrieves the slice index for an annotation ID.
func (c *IndexCache) Get(id uint) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.idx[id]
	return i, ok
}

// Set stores the slice index for an annotation ID.
func (c *IndexCache) Set(id uint, i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idx[id] = i
}

// Delete removes an annotation ID.
func (c *IndexCache) Delete(id uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.idx, id)
}

// Reset clears all entries.
func (c *IndexCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idx = make(map[uint]int)
}

// Len returns the number of cached entries.
func (c *IndexCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.idx)
}
