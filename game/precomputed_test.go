package game

import (
	"testing"

	"github.com/stacktetris/tetrisai/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrecomputedMovesReplaceOverwritesQueue(t *testing.T) {
	p := NewPrecomputedMoves()
	p.Replace([]state.GameState{{ID: 1}, {ID: 2}})
	p.Replace([]state.GameState{{ID: 5}})

	assert.Equal(t, 1, p.Len())
	head, ok := p.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(5), head.ID)
}

func TestPrecomputedMovesPeekDoesNotConsume(t *testing.T) {
	p := NewPrecomputedMoves()
	p.Replace([]state.GameState{{ID: 1}})

	p.Peek()
	p.Peek()
	assert.Equal(t, 1, p.Len())
}

func TestPrecomputedMovesPopRemovesHead(t *testing.T) {
	p := NewPrecomputedMoves()
	p.Replace([]state.GameState{{ID: 1}, {ID: 2}})

	head, ok := p.Pop()
	require.True(t, ok)
	assert.Equal(t, int64(1), head.ID)
	assert.Equal(t, 1, p.Len())
}

func TestPrecomputedMovesPopOnEmptyReturnsFalse(t *testing.T) {
	p := NewPrecomputedMoves()
	_, ok := p.Pop()
	assert.False(t, ok)
}

func TestPrecomputedMovesDiscardsStaleHeads(t *testing.T) {
	p := NewPrecomputedMoves()
	p.Replace([]state.GameState{{ID: 1}, {ID: 2}, {ID: 3}})

	p.DiscardStaleHeads(2)
	head, ok := p.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(3), head.ID)
}

func TestPrecomputedMovesDiscardAllWhenNothingMatches(t *testing.T) {
	p := NewPrecomputedMoves()
	p.Replace([]state.GameState{{ID: 1}, {ID: 2}})

	p.DiscardStaleHeads(99)
	assert.Equal(t, 0, p.Len())
}
