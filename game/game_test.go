package game

import (
	"log"
	"testing"

	"github.com/stacktetris/tetrisai/pieces"
	"github.com/stacktetris/tetrisai/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource uint64

func (f fixedSource) Uint64() uint64 { return uint64(f) }

func newTestGame(t *testing.T) *Game {
	t.Helper()
	stream := pieces.New(fixedSource(99), 2)
	return New(20, 10, stream, 0, log.New(log.Writer(), "", 0))
}

func TestNewGameSpawnsActiveBlockAtRowZero(t *testing.T) {
	g := newTestGame(t)
	assert.Equal(t, 0, g.ActiveBlock().Row)
	assert.False(t, g.IsGameOver())
}

func TestFutureBlocksDoesNotConsumeQueue(t *testing.T) {
	g := newTestGame(t)
	first := g.FutureBlocks(3)
	second := g.FutureBlocks(3)
	assert.Equal(t, first, second)
}

func TestMoveLeftThenRightReturnsToSameColumn(t *testing.T) {
	g := newTestGame(t)
	startCol := g.ActiveBlock().Col
	if g.CanMove(Left) && g.CanMove(Right) {
		require.Equal(t, Moved, g.Move(Left))
		require.Equal(t, Moved, g.Move(Right))
		assert.Equal(t, startCol, g.ActiveBlock().Col)
	}
}

func TestDropAndCommitAdvancesStateID(t *testing.T) {
	g := newTestGame(t)
	before := g.CurrentState().ID
	g.DropAndCommit()
	assert.Equal(t, before+1, g.CurrentState().ID)
}

func TestLevelProgressesWithLinesCleared(t *testing.T) {
	g := newTestGame(t)
	assert.Equal(t, 0, g.Level())

	// Three tetrises clear 12 lines: one level above the starting level.
	g.current.Stats = state.Stats{Tetrises: 3}
	assert.Equal(t, 1, g.Level())
}

func TestApplyLinePenaltyRejectsNonPositiveCount(t *testing.T) {
	g := newTestGame(t)
	err := g.ApplyLinePenalty(0, nil)
	assert.Error(t, err)
}
