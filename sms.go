// Package smsprefetch implements the core of a Spatial Memory
// Streaming data prefetcher: the Filter Table / Accumulation Table /
// Pattern History Table state machine that learns per-region access
// patterns from L1 data-cache activity and streams prefetches back
// into the cache on the next trigger access to a learned region.
//
// The package is a single-threaded, synchronous library — every call
// into OnDCacheAccess or OnDCacheInsert runs to completion before
// returning, with no goroutines, no reentrancy beyond the one bounded
// level of recursion the prefetch emitter uses to propagate evictions
// its own prefetches cause. One SMS instance serves one proc_id; a
// multi-core host instantiates one SMS per core.
package smsprefetch

import (
	"github.com/nmxmxh/smsprefetch/dcache"
	"github.com/nmxmxh/smsprefetch/internal/agt"
	"github.com/nmxmxh/smsprefetch/internal/obs"
	"github.com/nmxmxh/smsprefetch/internal/pht"
	"github.com/nmxmxh/smsprefetch/internal/prefetch"
	"github.com/nmxmxh/smsprefetch/internal/region"
	"github.com/nmxmxh/smsprefetch/internal/table"
)

// Config holds the compile/init-time constants of one SMS instance.
type Config struct {
	RegionSize            uint64
	DCacheLineSize        uint64
	FilterTableSize       uint32
	AccumulationTableSize uint32
	PHTEntries            uint32
	PHTAssoc              uint32
}

// DefaultConfig returns the reference sizing: a 2048-byte region over
// 64-byte dcache lines, FT capacity 32, AT capacity 64, and a
// 16384-entry 4-way PHT.
func DefaultConfig() Config {
	return Config{
		RegionSize:            2048,
		DCacheLineSize:        64,
		FilterTableSize:       32,
		AccumulationTableSize: 64,
		PHTEntries:            16384,
		PHTAssoc:              4,
	}
}

// SMS is one instance of the prefetcher core, serving a single
// proc_id's accesses against one data cache handle.
type SMS struct {
	cfg      Config
	region   region.Config
	dcache   dcache.Handle
	ft       *agt.FilterTable
	at       *agt.AccumulationTable
	pht      *pht.PHT
	agt      *agt.AGT
	emitter  *prefetch.Emitter
	counters *obs.Counters
	log      *obs.Logger
}

// New constructs an SMS instance over handle, the host-provided dcache
// handle it will learn from and prefetch into. Every subsystem is
// constructed up front; there is no lazy initialization.
func New(handle dcache.Handle, cfg Config) *SMS {
	ft := agt.NewFilterTable(cfg.FilterTableSize)
	at := agt.NewAccumulationTable(cfg.AccumulationTableSize)
	return &SMS{
		cfg:      cfg,
		region:   region.Config{RegionSize: cfg.RegionSize, LineSize: cfg.DCacheLineSize},
		dcache:   handle,
		ft:       ft,
		at:       at,
		pht:      pht.New(cfg.PHTEntries, cfg.PHTAssoc, cfg.RegionSize),
		agt:      agt.New(ft, at),
		emitter:  prefetch.New(cfg.DCacheLineSize),
		counters: obs.NewCounters(),
		log:      obs.DefaultLogger("sms"),
	}
}

// Counters returns a point-in-time snapshot of the diagnostic events.
func (s *SMS) Counters() obs.CountersSnapshot {
	return s.counters.Snapshot()
}

// OnDCacheAccess is invoked on every L1D access. op carries the
// triggering program counter, unused by the region-base keying this
// module implements (an alternative PC-keyed scheme is possible but
// not implemented here).
func (s *SMS) OnDCacheAccess(op dcache.AccessOp, procID uint32, lineAddr uint64) {
	key := s.region.TableKey(lineAddr)
	block, ok := s.region.BlockIndex(lineAddr)
	if !ok {
		s.counters.IncBlockIndexOverLimit()
		s.log.Warn("block index beyond spatial pattern limit", obs.Uint64("addr", lineAddr))
		return
	}

	loc, pattern := s.agt.Check(key)
	switch loc {
	case agt.InAccumulation:
		s.at.Update(key, block)
		return
	case agt.InFilter:
		merged, promote := s.ft.Update(block, pattern)
		if promote {
			s.agt.Promote(key, merged)
		}
		return
	}

	// Trigger access: a new generation for this region begins here.
	if m := s.pht.Lookup(key); m != nil && !m.IsZero() {
		regionBase := s.region.RegionBase(lineAddr)
		s.emitter.Emit(regionBase, m, s.prefetchInsert, s.handleEviction)
	}

	first := region.NewAccessPattern(s.region.BlockCount())
	first.SetBlock(block)
	s.agt.TrackFirstTouch(key, first)
}

// OnDCacheInsert is invoked after every L1D insert. replLineAddr is
// the address evicted to make room for the new line, or 0 if nothing
// was evicted. Generation-end semantics key off the evicted address,
// never the newly inserted one.
func (s *SMS) OnDCacheInsert(procID uint32, lineAddr, replLineAddr uint64) {
	if replLineAddr == 0 {
		return
	}
	s.handleEviction(replLineAddr)
}

// handleEviction ends the generation of whatever region replLineAddr
// belonged to, if that region was tracked in the AGT. It never emits
// prefetches itself, which bounds the emitter's recursion to depth 1:
// a prefetch insert may evict a tracked region, which calls back in
// here, but this function's own inserts — none — can cause no further
// eviction.
func (s *SMS) handleEviction(replLineAddr uint64) {
	key := s.region.RegionBase(replLineAddr)
	loc, _ := s.agt.Check(key)
	if loc == agt.NotTracked {
		return
	}
	succeeded, phtResult := s.agt.Delete(key, s.pht)
	s.counters.IncAccumulationTransfer(succeeded)
	if succeeded {
		s.counters.IncPHTEviction(obsResult(phtResult))
	}
}

// prefetchInsert wraps the dcache handle's Insert as a
// prefetch.Inserter, marking every emitted line hardware-prefetched.
func (s *SMS) prefetchInsert(addr uint64) (evictedAddr uint64, evicted bool) {
	return s.dcache.Lines.Insert(addr, true)
}

func obsResult(r table.InsertResult) obs.InsertResult {
	switch r {
	case table.EvictedSame:
		return obs.EvictedSame
	case table.EvictedDifferent:
		return obs.EvictedDifferent
	default:
		return obs.NoEviction
	}
}
