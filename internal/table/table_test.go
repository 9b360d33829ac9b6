package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmxmxh/smsprefetch/internal/region"
)

func pattern(bits ...uint) *region.AccessPattern {
	p := region.NewAccessPattern(32)
	for _, b := range bits {
		p.SetBlock(b)
	}
	return p
}

func TestTableCheckInsertInvalidate(t *testing.T) {
	tbl := New(4)

	_, ok := tbl.Check(0x1000)
	assert.False(t, ok)

	res := tbl.Insert(0x1000, pattern(1))
	assert.Equal(t, NoEviction, res)

	got, ok := tbl.Check(0x1000)
	require.True(t, ok)
	assert.True(t, got.Test(1))

	tbl.Invalidate(0x1000)
	_, ok = tbl.Check(0x1000)
	assert.False(t, ok)

	// Invalidating an absent key is a no-op.
	tbl.Invalidate(0x1000)
}

func TestTableCapacityEvictsLRU(t *testing.T) {
	tbl := New(2)

	tbl.Insert(0x1000, pattern(0))
	tbl.Insert(0x2000, pattern(1))
	// 0x1000 is now LRU; inserting a third key evicts it.
	res := tbl.Insert(0x3000, pattern(2))
	assert.Equal(t, EvictedDifferent, res)

	_, ok := tbl.Check(0x1000)
	assert.False(t, ok, "evicted key should restart tracking on next access")

	_, ok = tbl.Check(0x2000)
	assert.True(t, ok)
	_, ok = tbl.Check(0x3000)
	assert.True(t, ok)
}

func TestTableEvictedSameDiagnostic(t *testing.T) {
	tbl := New(1)

	tbl.Insert(0x1000, pattern(0))
	res := tbl.Insert(0x2000, pattern(0))
	assert.Equal(t, EvictedSame, res)
}
