package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig() Config {
	return Config{RegionSize: 2048, LineSize: 64}
}

func TestRegionBaseAndBlockIndex(t *testing.T) {
	c := testConfig()

	assert.Equal(t, uint64(0x1000), c.RegionBase(0x1040))
	block, ok := c.BlockIndex(0x1040)
	assert.True(t, ok)
	assert.Equal(t, uint(1), block)

	block, ok = c.BlockIndex(0x10C0)
	assert.True(t, ok)
	assert.Equal(t, uint(3), block)

	assert.Equal(t, uint(32), c.BlockCount())
}

func TestBlockIndexBoundary(t *testing.T) {
	c := testConfig()

	// First block of a region.
	block, ok := c.BlockIndex(0x1000)
	assert.True(t, ok)
	assert.Equal(t, uint(0), block)

	// Last block of a region.
	block, ok = c.BlockIndex(0x1000 + 31*64)
	assert.True(t, ok)
	assert.Equal(t, uint(31), block)
}

func TestTableKeyIsRegionBase(t *testing.T) {
	c := testConfig()
	assert.Equal(t, c.RegionBase(0x1040), c.TableKey(0x1040))
}

func TestAccessPatternSetAndMerge(t *testing.T) {
	p := NewAccessPattern(32)
	assert.True(t, p.IsZero())

	p.SetBlock(1)
	assert.True(t, p.Test(1))
	assert.False(t, p.Test(3))
	assert.Equal(t, uint(1), p.PopCount())

	q := NewAccessPattern(32)
	q.SetBlock(3)

	changed := p.Merge(q)
	assert.True(t, changed)
	assert.True(t, p.Test(1))
	assert.True(t, p.Test(3))
	assert.Equal(t, uint(2), p.PopCount())

	// Merging the same bits again changes nothing.
	changed = p.Merge(q)
	assert.False(t, changed)
}

func TestAccessPatternNextSetAscending(t *testing.T) {
	p := NewAccessPattern(32)
	p.SetBlock(1)
	p.SetBlock(3)

	var blocks []uint
	for k, ok := p.NextSet(0); ok; k, ok = p.NextSet(k + 1) {
		blocks = append(blocks, k)
	}
	assert.Equal(t, []uint{1, 3}, blocks)
}

func TestAccessPatternEqualAndClone(t *testing.T) {
	p := NewAccessPattern(32)
	p.SetBlock(5)

	clone := p.Clone()
	assert.True(t, p.Equal(clone))

	clone.SetBlock(6)
	assert.False(t, p.Equal(clone))
	assert.False(t, p.Test(6))
}
