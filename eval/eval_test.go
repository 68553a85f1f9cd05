package eval

import (
	"testing"

	"github.com/stacktetris/tetrisai/grid"
	"github.com/stacktetris/tetrisai/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalancedPrefersFewerHoles(t *testing.T) {
	e := NewBalanced()

	clean := state.New(10, 6)
	withHole := clean
	withHole.Grid = clean.Grid.WithShapeSolidified(grid.T, grid.ShapeFor(grid.T, 0), 7, 0)
	withHole.FirstOccupiedRow = withHole.Grid.FirstOccupiedRow()

	assert.Greater(t, e.Evaluate(clean), e.Evaluate(withHole))
}

func TestEvaluatorCloneIsIndependent(t *testing.T) {
	e := NewCustom(Weights{Height: -1}, 3, 3)
	clone := e.Clone()
	require.NotSame(t, e, clone)
}

func TestMakeTetrisesRewardsWell(t *testing.T) {
	e := NewMakeTetrises()
	rows, cols := 10, 4
	oShape := grid.ShapeFor(grid.O, 0)

	withWell := state.New(rows, cols)
	withWell.Grid = withWell.Grid.WithShapeSolidified(grid.O, oShape, 8, 1)
	withWell.Grid = withWell.Grid.WithShapeSolidified(grid.O, oShape, 8, 3)
	withWell.FirstOccupiedRow = withWell.Grid.FirstOccupiedRow()

	noWell := state.New(rows, cols)
	noWell.Grid = noWell.Grid.WithShapeSolidified(grid.O, oShape, 8, 0)
	noWell.Grid = noWell.Grid.WithShapeSolidified(grid.O, oShape, 8, 2)
	noWell.FirstOccupiedRow = noWell.Grid.FirstOccupiedRow()

	assert.Greater(t, e.Evaluate(withWell), e.Evaluate(noWell))
}

func TestCachedEvaluatorMatchesInner(t *testing.T) {
	inner := NewBalanced()
	cached, err := NewCached(inner)
	require.NoError(t, err)
	defer cached.Close()

	s := state.New(12, 8)
	want := inner.Evaluate(s)
	assert.Equal(t, want, cached.Evaluate(s))
	assert.Equal(t, want, cached.Evaluate(s), "second read should hit cache and agree")
}
