// Package dcache declares the host collaborators the SMS core treats
// as black-box ADTs: the data cache handle and the underlying
// set-associative line container it wraps. Neither is implemented by
// the core — a host cycle-level simulator owns the real data cache.
// This package also ships one reference implementation of LineCache,
// SetAssocLineCache, used by this module's own tests and by
// cmd/smsdemo.
package dcache

// AccessOp carries the per-access metadata the host simulator passes
// alongside a dcache access. PC is the triggering program counter —
// unused by the region-base variant this module implements, but
// required for an alternative PC⊕offset indexing scheme.
type AccessOp struct {
	PC uint64
}

// LineCache is the set-associative data cache container the SMS core
// calls into: check whether a line is resident, insert a line
// (possibly evicting another), and invalidate a line.
type LineCache interface {
	// Access reports whether the line at addr is resident, refreshing
	// its recency if updateLRU is set.
	Access(addr uint64, updateLRU bool) bool

	// Insert installs the line at addr, marking it hardware-prefetched
	// if prefetched is set. If the insert evicted another line,
	// evicted is true and evictedAddr names it.
	Insert(addr uint64, prefetched bool) (evictedAddr uint64, evicted bool)

	// Invalidate removes the line at addr, no-op if absent.
	Invalidate(addr uint64)
}

// Handle bundles the geometry constants and the line container the
// core needs: line_size, offset_mask, and the cache container.
type Handle struct {
	LineSize   uint64
	OffsetMask uint64
	Lines      LineCache
}
