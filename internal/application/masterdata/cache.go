package masterdata

import (
	"sync"
	"time"

	"github.com/modelfactory/mes/internal/domain/masterdata"
	"github.com/modelfactory/mes/internal/domain/shared"
)

// bomCache memoizes direct BOM edge lookups with a TTL. Master data is
// read-mostly, so stale entries are tolerated for the TTL window and no
// invalidation is attempted.
type bomCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   shared.Clock
	entries map[shared.ItemRef]bomCacheEntry
}

type bomCacheEntry struct {
	edges     []masterdata.BOMEdge
	expiresAt time.Time
}

func newBOMCache(ttl time.Duration, clock shared.Clock) *bomCache {
	return &bomCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[shared.ItemRef]bomCacheEntry),
	}
}

func (c *bomCache) get(parent shared.ItemRef) ([]masterdata.BOMEdge, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[parent]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.edges, true
}

func (c *bomCache) put(parent shared.ItemRef, edges []masterdata.BOMEdge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[parent] = bomCacheEntry{edges: edges, expiresAt: c.clock.Now().Add(c.ttl)}
}

func (c *bomCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[shared.ItemRef]bomCacheEntry)
}
