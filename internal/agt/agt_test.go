package agt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/smsprefetch/internal/pht"
	"github.com/nmxmxh/smsprefetch/internal/region"
)

func pattern(bits ...uint) *region.AccessPattern {
	p := region.NewAccessPattern(32)
	for _, b := range bits {
		p.SetBlock(b)
	}
	return p
}

func TestFilterTableUpdatePromotesOnNewBlock(t *testing.T) {
	ft := NewFilterTable(32)
	current := pattern(1)

	// Repeat access to the same block: no promotion.
	merged, promote := ft.Update(1, current)
	assert.False(t, promote)
	assert.Equal(t, uint(1), merged.PopCount())

	// A new block in the region: promotion.
	merged, promote = ft.Update(3, current)
	assert.True(t, promote)
	assert.True(t, merged.Test(1))
	assert.True(t, merged.Test(3))
}

func TestAccumulationTableUpdateInPlace(t *testing.T) {
	at := NewAccumulationTable(64)
	at.Insert(0x1000, pattern(1, 3))

	changed := at.Update(0x1000, 5)
	assert.True(t, changed)

	stored, ok := at.Check(0x1000)
	require.True(t, ok)
	assert.True(t, stored.Test(1))
	assert.True(t, stored.Test(3))
	assert.True(t, stored.Test(5))

	// Re-touching an already-set block changes nothing.
	changed = at.Update(0x1000, 5)
	assert.False(t, changed)
}

func TestAccumulationTableTransferWritesThroughToPHT(t *testing.T) {
	at := NewAccumulationTable(64)
	p := pht.New(16384, 4, 2048)

	at.Insert(0x1000, pattern(1, 3))
	transferred, _ := at.Transfer(0x1000, p)
	assert.True(t, transferred)

	_, ok := at.Check(0x1000)
	assert.False(t, ok)

	got := p.Lookup(0x1000)
	require.NotNil(t, got)
	assert.True(t, got.Test(1))
	assert.True(t, got.Test(3))

	// Transferring an absent key is a no-op that reports failure.
	transferred, _ = at.Transfer(0x1000, p)
	assert.False(t, transferred)
}

func TestAGTKeyDisjointness(t *testing.T) {
	ft := NewFilterTable(32)
	at := NewAccumulationTable(64)
	g := New(ft, at)

	g.TrackFirstTouch(0x1000, pattern(1))
	loc, _ := g.Check(0x1000)
	assert.Equal(t, InFilter, loc)

	merged := pattern(1, 3)
	g.Promote(0x1000, merged)

	loc, p := g.Check(0x1000)
	assert.Equal(t, InAccumulation, loc)
	assert.True(t, p.Test(3))

	// Never present in both at once.
	_, ftOK := ft.Check(0x1000)
	_, atOK := at.Check(0x1000)
	assert.False(t, ftOK && atOK)
	assert.True(t, atOK)
}

func TestAGTDeleteEndsGeneration(t *testing.T) {
	ft := NewFilterTable(32)
	at := NewAccumulationTable(64)
	g := New(ft, at)
	p := pht.New(16384, 4, 2048)

	g.TrackFirstTouch(0x1000, pattern(1))
	g.Promote(0x1000, pattern(1, 3))

	succeeded, _ := g.Delete(0x1000, p)
	assert.True(t, succeeded)

	loc, _ := g.Check(0x1000)
	assert.Equal(t, NotTracked, loc)
	assert.True(t, p.Check(0x1000))
}

func TestAGTDeleteFromFilterOnly(t *testing.T) {
	ft := NewFilterTable(32)
	at := NewAccumulationTable(64)
	g := New(ft, at)
	p := pht.New(16384, 4, 2048)

	g.TrackFirstTouch(0x2000, pattern(0))

	succeeded, _ := g.Delete(0x2000, p)
	assert.False(t, succeeded, "no AT entry existed, so the transfer diagnostic reports failure")

	loc, _ := g.Check(0x2000)
	assert.Equal(t, NotTracked, loc)
	assert.False(t, p.Check(0x2000), "a region that never reached AT leaves no PHT trace")
}
