package agt

import (
	"github.com/nmxmxh/smsprefetch/internal/pht"
	"github.com/nmxmxh/smsprefetch/internal/region"
	"github.com/nmxmxh/smsprefetch/internal/table"
)

// AccumulationTable tracks regions touched at least twice in the
// current generation, accumulating the generation's bitmap. Capacity
// 64, LRU-replaced.
type AccumulationTable struct {
	t *table.Table
}

// NewAccumulationTable creates an Accumulation Table of the given
// capacity.
func NewAccumulationTable(capacity uint32) *AccumulationTable {
	return &AccumulationTable{t: table.New(capacity)}
}

// Check returns the stored pattern for key, if tracked.
func (a *AccumulationTable) Check(key uint64) (*region.AccessPattern, bool) {
	return a.t.Check(key)
}

// Insert is called only from FT promotion, with pattern already
// carrying the bit that triggered promotion merged in.
func (a *AccumulationTable) Insert(key uint64, pattern *region.AccessPattern) table.InsertResult {
	return a.t.Insert(key, pattern)
}

// Update implements at_update: sets block in key's stored pattern in
// place — the table stores a pointer, so callers that already hold a
// pattern from Check see the update without a second lookup — and
// reports whether a new, distinct block was touched.
func (a *AccumulationTable) Update(key uint64, block uint) (changed bool) {
	pattern, ok := a.t.Check(key)
	if !ok {
		return false
	}
	before := pattern.PopCount()
	pattern.SetBlock(block)
	return pattern.PopCount() != before
}

// Transfer implements at_transfer: if key is present, its pattern is
// written through to the PHT under the same region-base key and the
// AT entry is invalidated. Returns whether a transfer occurred, and
// the PHT's eviction diagnostic for that write-through.
func (a *AccumulationTable) Transfer(key uint64, p *pht.PHT) (transferred bool, phtResult table.InsertResult) {
	pattern, ok := a.t.Check(key)
	if !ok {
		return false, table.NoEviction
	}
	phtResult = p.Insert(key, pattern)
	a.t.Invalidate(key)
	return true, phtResult
}
