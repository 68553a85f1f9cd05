package game

import (
	"testing"

	"github.com/stacktetris/tetrisai/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelObserverForwardsStateChanged(t *testing.T) {
	o := NewChannelObserver(1)
	o.OnGameStateChanged(state.GameState{ID: 42})

	select {
	case s := <-o.StateChanged:
		assert.Equal(t, int64(42), s.ID)
	default:
		t.Fatal("expected a buffered state-changed notification")
	}
}

func TestChannelObserverForwardsLinesCleared(t *testing.T) {
	o := NewChannelObserver(1)
	o.OnLinesCleared(state.GameState{ID: 7}, 2)

	select {
	case e := <-o.LinesCleared:
		assert.Equal(t, int64(7), e.State.ID)
		assert.Equal(t, 2, e.Lines)
	default:
		t.Fatal("expected a buffered lines-cleared notification")
	}
}

func TestChannelObserverDropsWhenFull(t *testing.T) {
	o := NewChannelObserver(1)
	o.OnGameStateChanged(state.GameState{ID: 1})
	o.OnGameStateChanged(state.GameState{ID: 2})

	require.Len(t, o.StateChanged, 1)
	s := <-o.StateChanged
	assert.Equal(t, int64(1), s.ID)
}
