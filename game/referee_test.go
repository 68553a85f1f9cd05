package game

import (
	"log"
	"math/rand"
	"testing"
	"time"

	"github.com/stacktetris/tetrisai/pieces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRefereeGame(t *testing.T, seed uint64) *Game {
	t.Helper()
	stream := pieces.New(fixedSource(seed), 2)
	return New(20, 10, stream, 0, log.New(log.Writer(), "", 0))
}

func TestRefereeBroadcastsPenaltyToOtherPlayers(t *testing.T) {
	r := NewReferee()
	a := newRefereeGame(t, 1)
	b := newRefereeGame(t, 2)
	r.Join(a, rand.New(rand.NewSource(1)))
	r.Join(b, rand.New(rand.NewSource(2)))

	beforeRowsA := a.CurrentState().Grid.Rows()
	r.broadcastPenalty(a, 4)

	require.Eventually(t, func() bool {
		return b.CurrentState().Tainted
	}, time.Second, time.Millisecond)
	assert.False(t, a.CurrentState().Tainted)
	assert.Equal(t, beforeRowsA, a.CurrentState().Grid.Rows())
}

func TestRefereeSingleLineSendsNoPenalty(t *testing.T) {
	r := NewReferee()
	a := newRefereeGame(t, 1)
	b := newRefereeGame(t, 2)
	r.Join(a, rand.New(rand.NewSource(1)))
	r.Join(b, rand.New(rand.NewSource(2)))

	r.broadcastPenalty(a, 1)
	time.Sleep(10 * time.Millisecond)
	assert.False(t, b.CurrentState().Tainted)
}

func TestRefereeLeaveStopsFurtherPenalties(t *testing.T) {
	r := NewReferee()
	a := newRefereeGame(t, 1)
	b := newRefereeGame(t, 2)
	r.Join(a, rand.New(rand.NewSource(1)))
	r.Join(b, rand.New(rand.NewSource(2)))
	r.Leave(b)

	r.broadcastPenalty(a, 4)
	time.Sleep(10 * time.Millisecond)
	assert.False(t, b.CurrentState().Tainted)
}
