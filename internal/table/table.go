// Package table provides the uniform check/insert/invalidate table
// primitive shared by the Filter Table and Accumulation Table. Both
// are fixed-capacity, LRU-replaced, and keyed by region base, which is
// exactly what github.com/elastic/go-freelru gives us without the
// allocation pressure of a map+list LRU on the per-access hot path.
package table

import (
	"github.com/elastic/go-freelru"

	"github.com/nmxmxh/smsprefetch/internal/region"
)

// InsertResult classifies what happened to a full table on insert.
// This is diagnostic only: the evicted pattern is always discarded for
// FT/AT, the PHT is the only long-term store.
type InsertResult int

const (
	NoEviction InsertResult = iota
	EvictedSame
	EvictedDifferent
)

// Table is a fixed-capacity, LRU-replaced store of region base ->
// AccessPattern.
type Table struct {
	lru         *freelru.LRU[uint64, *region.AccessPattern]
	lastEvicted *region.AccessPattern
	evicted     bool
}

// New creates a table with the given capacity.
func New(capacity uint32) *Table {
	t := &Table{}
	lru, err := freelru.New[uint64, *region.AccessPattern](capacity, hashUint64)
	if err != nil {
		// capacity is always a positive compile-time constant from
		// Config; the only failure mode here is programmer error.
		panic(err)
	}
	lru.SetOnEvict(func(key uint64, value *region.AccessPattern) {
		t.lastEvicted = value
		t.evicted = true
	})
	t.lru = lru
	return t
}

// Check returns the stored pattern for key, if present, and refreshes
// its recency. A nil, false result means key is not tracked.
func (t *Table) Check(key uint64) (*region.AccessPattern, bool) {
	return t.lru.Get(key)
}

// Insert stores pattern at key, evicting the LRU entry if the table is
// full. Callers in FT/AT only ever insert a key that is not already
// present.
func (t *Table) Insert(key uint64, pattern *region.AccessPattern) InsertResult {
	t.evicted = false
	t.lastEvicted = nil
	t.lru.Add(key, pattern)
	if !t.evicted {
		return NoEviction
	}
	if t.lastEvicted != nil && t.lastEvicted.Equal(pattern) {
		return EvictedSame
	}
	return EvictedDifferent
}

// Invalidate removes key, no-op if absent.
func (t *Table) Invalidate(key uint64) {
	t.lru.Remove(key)
}

// Len reports the number of valid entries, for tests.
func (t *Table) Len() int {
	return t.lru.Len()
}

// hashUint64 maps a region-base key to a 32-bit hash using the
// MurmurHash3 fmix64 finalizer, truncated to its low 32 bits. It is the
// key hash of every Table (FT and AT); the PHT does not use it.
func hashUint64(key uint64) uint32 {
	h := key
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return uint32(h)
}
