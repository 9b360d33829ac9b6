package obs

import "sync/atomic"

// Counters implements the diagnostic event families as plain atomic
// counters, returned as a point-in-time snapshot.
type Counters struct {
	blockIndexOverLimit uint64

	phtSameEntryEvicted      uint64
	phtDifferentEntryEvicted uint64
	phtNoEntryEvicted        uint64

	accumulationTransferSucceeded uint64
	accumulationTransferFailed    uint64
}

// CountersSnapshot is an immutable point-in-time read of Counters.
type CountersSnapshot struct {
	BlockIndexOverLimit uint64

	PHTSameEntryEvicted      uint64
	PHTDifferentEntryEvicted uint64
	PHTNoEntryEvicted        uint64

	AccumulationTransferSucceeded uint64
	AccumulationTransferFailed    uint64
}

// NewCounters creates a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

// IncBlockIndexOverLimit records
// access_pattern_block_index_over_spatial_pattern_limit — a block
// index computed at or beyond B, indicating a configuration error.
func (c *Counters) IncBlockIndexOverLimit() {
	atomic.AddUint64(&c.blockIndexOverLimit, 1)
}

// InsertResult mirrors table.InsertResult without importing the table
// package, to keep obs free of a dependency on the table it instruments.
type InsertResult int

const (
	NoEviction InsertResult = iota
	EvictedSame
	EvictedDifferent
)

// IncPHTEviction records pattern_history_table_{same,different,no}_entry_evicted.
func (c *Counters) IncPHTEviction(r InsertResult) {
	switch r {
	case NoEviction:
		atomic.AddUint64(&c.phtNoEntryEvicted, 1)
	case EvictedSame:
		atomic.AddUint64(&c.phtSameEntryEvicted, 1)
	case EvictedDifferent:
		atomic.AddUint64(&c.phtDifferentEntryEvicted, 1)
	}
}

// IncAccumulationTransfer records
// accumulation_table_transfer_{succeeded,failed} — whether an eviction
// found an AT entry to write through to the PHT.
func (c *Counters) IncAccumulationTransfer(succeeded bool) {
	if succeeded {
		atomic.AddUint64(&c.accumulationTransferSucceeded, 1)
		return
	}
	atomic.AddUint64(&c.accumulationTransferFailed, 1)
}

// Snapshot returns a point-in-time read of every counter.
func (c *Counters) Snapshot() CountersSnapshot {
	return CountersSnapshot{
		BlockIndexOverLimit:           atomic.LoadUint64(&c.blockIndexOverLimit),
		PHTSameEntryEvicted:           atomic.LoadUint64(&c.phtSameEntryEvicted),
		PHTDifferentEntryEvicted:      atomic.LoadUint64(&c.phtDifferentEntryEvicted),
		PHTNoEntryEvicted:             atomic.LoadUint64(&c.phtNoEntryEvicted),
		AccumulationTransferSucceeded: atomic.LoadUint64(&c.accumulationTransferSucceeded),
		AccumulationTransferFailed:    atomic.LoadUint64(&c.accumulationTransferFailed),
	}
}
