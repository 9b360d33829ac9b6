// Package region implements the spatial-region and access-pattern
// arithmetic at the base of the prefetcher: deriving a region's base
// address, a line's block index within that region, and the bitmap
// representation of which blocks of a region have been touched during
// one generation.
package region

import "github.com/bits-and-blooms/bitset"

// Config holds the address-decomposition constants for one SMS
// instance. RegionSize must be a power of two and an integer multiple
// of LineSize.
type Config struct {
	RegionSize uint64
	LineSize   uint64
}

// offsetMask is the low-bit mask selecting the offset within a region.
func (c Config) offsetMask() uint64 {
	return c.RegionSize - 1
}

// BlockCount returns B, the number of dcache lines per region.
func (c Config) BlockCount() uint {
	return uint(c.RegionSize / c.LineSize)
}

// RegionBase returns the region-aligned base address for addr.
func (c Config) RegionBase(addr uint64) uint64 {
	return addr &^ c.offsetMask()
}

// BlockIndex returns the index of the dcache line that addr falls in,
// relative to the start of its region. ok is false when the computed
// index is at or beyond BlockCount() (which happens only when
// RegionSize is not a multiple of LineSize, so the tail of the region
// falls past the last whole line) — a configuration error, counted by
// the caller rather than failing loudly.
func (c Config) BlockIndex(addr uint64) (idx uint, ok bool) {
	idx = uint((addr & c.offsetMask()) / c.LineSize)
	return idx, idx < c.BlockCount()
}

// TableKey returns the key used by FT, AT, and PHT for addr. This
// module keys every table by region base; an alternative PC-keyed
// scheme is possible but intentionally not implemented here.
func (c Config) TableKey(addr uint64) uint64 {
	return c.RegionBase(addr)
}

// AccessPattern is the bitmap of blocks touched within a region during
// one generation. Bit k set means block k has been touched.
type AccessPattern struct {
	bits *bitset.BitSet
}

// NewAccessPattern allocates a pattern wide enough for width blocks.
func NewAccessPattern(width uint) *AccessPattern {
	return &AccessPattern{bits: bitset.New(width)}
}

// SetBlock marks block k as touched.
func (p *AccessPattern) SetBlock(k uint) {
	p.bits.Set(k)
}

// Test reports whether block k has been touched.
func (p *AccessPattern) Test(k uint) bool {
	return p.bits.Test(k)
}

// IsZero reports whether no block has been touched.
func (p *AccessPattern) IsZero() bool {
	return p.bits.None()
}

// PopCount returns the number of distinct blocks touched.
func (p *AccessPattern) PopCount() uint {
	return p.bits.Count()
}

// Clone returns an independent copy of the pattern.
func (p *AccessPattern) Clone() *AccessPattern {
	return &AccessPattern{bits: p.bits.Clone()}
}

// Merge ORs other into p in place and reports whether p changed —
// i.e. whether other carried any bit p did not already have.
func (p *AccessPattern) Merge(other *AccessPattern) (changed bool) {
	before := p.bits.Count()
	p.bits.InPlaceUnion(other.bits)
	return p.bits.Count() != before
}

// Equal reports whether p and other have exactly the same bits set.
func (p *AccessPattern) Equal(other *AccessPattern) bool {
	return p.bits.Equal(other.bits)
}

// NextSet returns the index of the first set bit at or after i, and
// false once no more bits are set. Used by the prefetch emitter to
// walk a merged pattern in ascending block order without allocating.
func (p *AccessPattern) NextSet(i uint) (uint, bool) {
	return p.bits.NextSet(i)
}
