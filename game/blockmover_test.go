package game

import (
	"log"
	"testing"

	"github.com/stacktetris/tetrisai/grid"
	"github.com/stacktetris/tetrisai/pieces"
	"github.com/stacktetris/tetrisai/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlockMover(t *testing.T, behavior MoveDownBehavior) (*Game, *PrecomputedMoves, *BlockMover) {
	t.Helper()
	stream := pieces.New(fixedSource(3), 2)
	g := New(20, 10, stream, 0, log.New(log.Writer(), "", 0))
	moves := NewPrecomputedMoves()
	bm := &BlockMover{g: g, moves: moves, behavior: int32(behavior)}
	return g, moves, bm
}

func TestBlockMoverStepsTowardTargetColumn(t *testing.T) {
	g, _, bm := newTestBlockMover(t, MoveDownStep)
	active := g.ActiveBlock()
	target := active
	target.Col = active.Col - 1

	bm.step(target)
	assert.Equal(t, active.Col-1, g.ActiveBlock().Col)
}

func TestBlockMoverRotatesBeforeSteering(t *testing.T) {
	g, _, bm := newTestBlockMover(t, MoveDownStep)
	active := g.ActiveBlock()
	if grid.RotationCount(active.Kind) < 2 {
		t.Skip("active kind has no alternate rotation")
	}
	target := active
	target.Rotation = (active.Rotation + 1) % grid.RotationCount(active.Kind)

	bm.step(target)
	assert.Equal(t, target.Rotation, g.ActiveBlock().Rotation)
	assert.Equal(t, active.Col, g.ActiveBlock().Col)
}

func TestBlockMoverDropsWhenAlignedAndBehaviorIsDrop(t *testing.T) {
	g, _, bm := newTestBlockMover(t, MoveDownDrop)
	active := g.ActiveBlock()
	beforeID := g.CurrentState().ID

	bm.step(active)
	assert.Equal(t, beforeID+1, g.CurrentState().ID)
}

func TestBlockMoverTickPopsMoveOnProgress(t *testing.T) {
	g, moves, bm := newTestBlockMover(t, MoveDownDrop)
	active := g.ActiveBlock()
	moves.Replace([]state.GameState{{OriginalBlock: active, ID: g.CurrentState().ID + 1}})

	bm.tick()
	require.Equal(t, 0, moves.Len())
}

func TestBlockMoverTickSkipsWhenPaused(t *testing.T) {
	g, moves, bm := newTestBlockMover(t, MoveDownDrop)
	g.SetPaused(true)
	moves.Replace([]state.GameState{{OriginalBlock: g.ActiveBlock(), ID: g.CurrentState().ID + 1}})

	bm.tick()
	assert.Equal(t, 1, moves.Len())
}
