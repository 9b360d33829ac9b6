// Package pht implements the Pattern History Table: the long-term,
// set-associative store of learned per-region access patterns. 16384
// entries, 4-way, 4096 sets, LRU replacement.
//
// Each set is its own github.com/hashicorp/golang-lru/v2 cache of
// capacity = ways, keyed by tag. That maps the "4-way set-associative"
// structure onto the library directly — a single flat capacity-16384
// cache would evict by global recency instead of per-set recency,
// which breaks the set-conflict invariant that 5 keys mapping to one
// set must leave exactly 4 valid entries, not whichever 4 of the
// 16384 were least recently used overall.
package pht

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nmxmxh/smsprefetch/internal/region"
	"github.com/nmxmxh/smsprefetch/internal/table"
)

// PHT is the Pattern History Table.
type PHT struct {
	sets           []*lru.Cache[uint64, *region.AccessPattern]
	setsLog2       uint
	regionSizeLog2 uint

	lastEvicted *region.AccessPattern
	evicted     bool
}

// New creates a PHT with entries total capacity, assoc ways per set,
// and regionSize bytes per region (the set index and tag are derived
// from regionSize the same way a hardware set-associative cache
// would).
func New(entries, assoc uint32, regionSize uint64) *PHT {
	numSets := entries / assoc
	if numSets == 0 || numSets&(numSets-1) != 0 {
		panic("pht: entries/assoc must be a power of two number of sets")
	}
	p := &PHT{
		sets:           make([]*lru.Cache[uint64, *region.AccessPattern], numSets),
		setsLog2:       log2(uint64(numSets)),
		regionSizeLog2: log2(regionSize),
	}
	for i := range p.sets {
		c, err := lru.NewWithEvict[uint64, *region.AccessPattern](int(assoc), func(tag uint64, value *region.AccessPattern) {
			p.lastEvicted = value
			p.evicted = true
		})
		if err != nil {
			panic(err)
		}
		p.sets[i] = c
	}
	return p
}

// indices splits a region-base key into its set index and tag, the
// standard index function of a set-associative cache: low bits of
// key>>log2(region_size) select the set, the remaining high bits are
// the tag.
func (p *PHT) indices(key uint64) (setIdx uint64, tag uint64) {
	shifted := key >> p.regionSizeLog2
	setIdx = shifted & (uint64(len(p.sets)) - 1)
	tag = shifted >> p.setsLog2
	return setIdx, tag
}

// Check reports whether key is present, refreshing its recency.
func (p *PHT) Check(key uint64) bool {
	setIdx, tag := p.indices(key)
	_, ok := p.sets[setIdx].Get(tag)
	return ok
}

// Lookup returns the OR of patterns across every valid way in key's
// set whose tag matches. Under the region-base keying scheme this
// module implements, a set's map is keyed directly by tag, so at most
// one way can ever match — the OR is a defensive generalization for a
// PC-keyed variant this module does not implement. Returns nil if no
// way matches.
func (p *PHT) Lookup(key uint64) *region.AccessPattern {
	setIdx, tag := p.indices(key)
	pattern, ok := p.sets[setIdx].Get(tag)
	if !ok {
		return nil
	}
	return pattern.Clone()
}

// Insert stores pattern at key's (set, tag), evicting the set's LRU
// way if full.
func (p *PHT) Insert(key uint64, pattern *region.AccessPattern) table.InsertResult {
	setIdx, tag := p.indices(key)
	p.evicted = false
	p.lastEvicted = nil
	p.sets[setIdx].Add(tag, pattern.Clone())
	if !p.evicted {
		return table.NoEviction
	}
	if p.lastEvicted != nil && p.lastEvicted.Equal(pattern) {
		return table.EvictedSame
	}
	return table.EvictedDifferent
}

func log2(n uint64) uint {
	var l uint
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}
