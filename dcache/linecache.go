package dcache

import (
	"container/list"
	"sync"
)

// lineEntry is one resident cache line.
type lineEntry struct {
	addr       uint64
	prefetched bool
}

// SetAssocLineCache is a reference LineCache: a capacity-bounded LRU
// over resident line addresses, a map to *list.Element over a
// container/list LRU. It exists only so this module's tests and
// cmd/smsdemo have a concrete LineCache to drive the core against —
// the real one is an external black box owned by a host simulator.
type SetAssocLineCache struct {
	mu        sync.Mutex
	capacity  int
	index     map[uint64]*list.Element
	lru       *list.List
	evictions uint64
}

// NewSetAssocLineCache creates a reference line cache of the given
// capacity.
func NewSetAssocLineCache(capacity int) *SetAssocLineCache {
	return &SetAssocLineCache{
		capacity: capacity,
		index:    make(map[uint64]*list.Element),
		lru:      list.New(),
	}
}

// Access reports whether addr is resident, refreshing its recency if
// updateLRU is set.
func (c *SetAssocLineCache) Access(addr uint64, updateLRU bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[addr]
	if !ok {
		return false
	}
	if updateLRU {
		c.lru.MoveToFront(elem)
	}
	return true
}

// Insert installs addr, evicting the LRU line if the cache is full.
func (c *SetAssocLineCache) Insert(addr uint64, prefetched bool) (evictedAddr uint64, evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[addr]; ok {
		elem.Value.(*lineEntry).prefetched = prefetched
		c.lru.MoveToFront(elem)
		return 0, false
	}

	elem := c.lru.PushFront(&lineEntry{addr: addr, prefetched: prefetched})
	c.index[addr] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		entry := oldest.Value.(*lineEntry)
		c.lru.Remove(oldest)
		delete(c.index, entry.addr)
		c.evictions++
		return entry.addr, true
	}
	return 0, false
}

// Invalidate removes addr, no-op if absent.
func (c *SetAssocLineCache) Invalidate(addr uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[addr]; ok {
		c.lru.Remove(elem)
		delete(c.index, addr)
	}
}

// Evictions reports the number of lines evicted over the cache's
// lifetime, for tests and the demo harness.
func (c *SetAssocLineCache) Evictions() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictions
}
