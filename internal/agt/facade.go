package agt

import (
	"encoding/binary"

	bloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/nmxmxh/smsprefetch/internal/pht"
	"github.com/nmxmxh/smsprefetch/internal/region"
	"github.com/nmxmxh/smsprefetch/internal/table"
)

// Location reports which of the two AGT tables, if any, holds a key.
type Location int

const (
	NotTracked Location = iota
	InFilter
	InAccumulation
)

// AGT is the façade over the Active Generation Table: a unified
// check/delete over FT ∪ AT. It also maintains a bloom-filter fast path
// over the union of keys ever inserted into FT or AT, so agt_check can skip
// both table probes on a negative. Bloom filters never produce false
// negatives, so a positive always falls through to the real check;
// only the savings on true negatives are approximate, and the filter
// is sized generously up front rather than rebuilt, since nothing in
// FT/AT exposes its live key set to rebuild from.
type AGT struct {
	ft   *FilterTable
	at   *AccumulationTable
	seen *bloom.BloomFilter
}

// New creates the façade over an already-constructed FT and AT.
func New(ft *FilterTable, at *AccumulationTable) *AGT {
	return &AGT{
		ft:   ft,
		at:   at,
		seen: bloom.NewWithEstimates(1<<20, 0.01),
	}
}

func keyBytes(key uint64) [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], key)
	return b
}

func (g *AGT) markTracked(key uint64) {
	b := keyBytes(key)
	g.seen.Add(b[:])
}

// Check is agt_check: does key belong to FT or AT, and if so what is
// its current pattern.
func (g *AGT) Check(key uint64) (Location, *region.AccessPattern) {
	b := keyBytes(key)
	if !g.seen.Test(b[:]) {
		return NotTracked, nil
	}
	if p, ok := g.at.Check(key); ok {
		return InAccumulation, p
	}
	if p, ok := g.ft.Check(key); ok {
		return InFilter, p
	}
	return NotTracked, nil
}

// TrackFirstTouch records key's first-touch pattern into FT and marks
// it tracked for the bloom fast path. This is ft_access.
func (g *AGT) TrackFirstTouch(key uint64, pattern *region.AccessPattern) {
	g.ft.Insert(key, pattern)
	g.markTracked(key)
}

// Promote moves key from FT to AT with the merged pattern — the
// transfer half of ft_update.
func (g *AGT) Promote(key uint64, merged *region.AccessPattern) {
	g.at.Insert(key, merged)
	g.ft.Invalidate(key)
}

// Delete is agt_delete: the operation that ends a generation. If key
// is in AT, its pattern is written through to the PHT and the AT entry
// invalidated; otherwise any FT entry for key is simply invalidated.
// Reports whether an AT entry was found (the
// accumulation_table_transfer_{succeeded,failed} diagnostic) and, when
// it was, the PHT's eviction diagnostic for that write-through.
func (g *AGT) Delete(key uint64, p *pht.PHT) (atTransferSucceeded bool, phtResult table.InsertResult) {
	if transferred, r := g.at.Transfer(key, p); transferred {
		return true, r
	}
	g.ft.Invalidate(key)
	return false, table.NoEviction
}
