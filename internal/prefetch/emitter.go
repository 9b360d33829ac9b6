// Package prefetch implements the prefetch emitter: it decomposes a
// merged access pattern into block addresses and injects each as a
// prefetch insert into the data cache.
package prefetch

import "github.com/nmxmxh/smsprefetch/internal/region"

// Inserter is the one dcache operation the emitter needs: inject a
// hardware-prefetched line and report whether that insert evicted
// another line, and its address.
type Inserter func(addr uint64) (evictedAddr uint64, evicted bool)

// EvictionSink is notified of a line evicted by a prefetch insert, so
// generation-end semantics propagate the same way they would for a
// genuine demand-miss eviction. It must not itself emit further
// prefetches — recursion is bounded to depth 1.
type EvictionSink func(evictedAddr uint64)

// Emitter turns a region base and merged bitmap into a burst of
// prefetch inserts, in ascending block order.
type Emitter struct {
	lineSize uint64
}

// New creates an emitter for the given dcache line size.
func New(lineSize uint64) *Emitter {
	return &Emitter{lineSize: lineSize}
}

// Emit issues one prefetch insert per set bit of pattern, in ascending
// block order, against regionBase. insert performs the actual dcache
// injection; onEvict is called synchronously for every eviction a
// prefetch insert causes, except one reported with evicted address 0,
// which is treated as no eviction. There is no queuing or credit logic: a
// single trigger access may emit up to pattern's full width of
// prefetch inserts back-to-back.
func (e *Emitter) Emit(regionBase uint64, pattern *region.AccessPattern, insert Inserter, onEvict EvictionSink) {
	for k, ok := pattern.NextSet(0); ok; k, ok = pattern.NextSet(k + 1) {
		addr := regionBase + uint64(k)*e.lineSize
		evictedAddr, evicted := insert(addr)
		if evicted && evictedAddr != 0 {
			onEvict(evictedAddr)
		}
	}
}
