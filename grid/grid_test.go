package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotationCounts(t *testing.T) {
	cases := map[Kind]int{O: 1, I: 2, S: 2, Z: 2, J: 4, L: 4, T: 4}
	for k, want := range cases {
		assert.Equal(t, want, RotationCount(k), k.String())
	}
}

func TestRotateWraps(t *testing.T) {
	for _, k := range Kinds {
		b := NewBlock(k, 0, 0)
		n := RotationCount(k)
		cur := b
		for i := 0; i < n; i++ {
			cur = cur.Rotate()
		}
		assert.Equal(t, b.Rotation, cur.Rotation, "rotating %s RotationCount times returns to start", k)
	}
}

func TestIdentifierUniquePerRowPossibility(t *testing.T) {
	seen := map[int]bool{}
	for col := 0; col < 5; col++ {
		for rot := 0; rot < RotationCount(T); rot++ {
			b := Block{Kind: T, Rotation: rot, Col: col}
			id := b.Identifier()
			require.False(t, seen[id], "duplicate identifier %d", id)
			seen[id] = true
		}
	}
}

func TestWithShapeSolidifiedDoesNotAliasOriginal(t *testing.T) {
	g := New(4, 4)
	shape := ShapeFor(O, 0)
	g2 := g.WithShapeSolidified(O, shape, 2, 1)

	assert.Equal(t, Empty, g.At(2, 1), "original grid must be untouched")
	assert.Equal(t, O, g2.At(2, 1))
	assert.Equal(t, O, g2.At(2, 2))
	assert.Equal(t, O, g2.At(3, 1))
	assert.Equal(t, O, g2.At(3, 2))
}

func TestClearFullRows(t *testing.T) {
	g := New(3, 2)
	for c := 0; c < 2; c++ {
		g = g.WithShapeSolidified(I, newShape(1, 1, [][2]int{{0, 0}}), 2, c)
	}
	require.True(t, g.RowFull(2))

	cleared, n := g.ClearFullRows()
	assert.Equal(t, 1, n)
	assert.True(t, cleared.RowEmpty(2))
	assert.Equal(t, 3, cleared.Rows())
}

func TestFirstOccupiedRowEmptyGrid(t *testing.T) {
	g := New(5, 5)
	assert.Equal(t, 5, g.FirstOccupiedRow())
}
