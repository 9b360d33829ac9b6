// Package agt implements the Active Generation Table: the Filter
// Table (regions seen exactly once this generation), the Accumulation
// Table (regions seen at least twice), and the façade that unifies
// them.
package agt

import (
	"github.com/nmxmxh/smsprefetch/internal/region"
	"github.com/nmxmxh/smsprefetch/internal/table"
)

// FilterTable tracks regions touched exactly once in the current
// generation. Capacity 32, LRU-replaced.
type FilterTable struct {
	t *table.Table
}

// NewFilterTable creates a Filter Table of the given capacity.
func NewFilterTable(capacity uint32) *FilterTable {
	return &FilterTable{t: table.New(capacity)}
}

// Check returns the stored pattern for key, if tracked.
func (f *FilterTable) Check(key uint64) (*region.AccessPattern, bool) {
	return f.t.Check(key)
}

// Insert records the first touch of a region — unconditional, the
// caller has already verified key is not present in FT or AT.
func (f *FilterTable) Insert(key uint64, pattern *region.AccessPattern) table.InsertResult {
	return f.t.Insert(key, pattern)
}

// Invalidate removes key from FT, no-op if absent.
func (f *FilterTable) Invalidate(key uint64) {
	f.t.Invalidate(key)
}

// Update implements ft_update: given the block index just touched and
// the region's current (single-block) pattern, it reports the merged
// pattern and whether a new, distinct block was touched. A repeat
// access to the same block leaves the region in FT untouched
// (promote == false); a new block promotes the region to AT.
func (f *FilterTable) Update(block uint, current *region.AccessPattern) (merged *region.AccessPattern, promote bool) {
	merged = current.Clone()
	merged.SetBlock(block)
	return merged, merged.PopCount() != current.PopCount()
}
