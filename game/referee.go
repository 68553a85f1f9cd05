package game

import (
	"math/rand"
	"sync"

	"github.com/stacktetris/tetrisai/state"
)

// penaltyTable converts a player's own line-clear count into the number
// of garbage rows sent to every opponent — the standard competitive
// tetris convention (single sends nothing, a tetris sends four),
// supplementing spec.md's single-player scope with the multiplayer
// penalty wiring original_source's MultiplayerGame/Referee implement.
var penaltyTable = map[int]int{1: 0, 2: 1, 3: 2, 4: 4}

// Referee watches a set of joined Games as an Observer and forwards each
// player's line clears to every other player as a penalty, grounded on
// original_source/Tetris/src/MultiplayerGame.cpp's join/leave roster plus
// Referee.cpp's thin wrapper around it.
type Referee struct {
	mu      sync.Mutex
	players map[*Game]*rand.Rand
}

// NewReferee returns a Referee with no players joined yet.
func NewReferee() *Referee {
	return &Referee{players: make(map[*Game]*rand.Rand)}
}

// Join registers g with the referee: g's own line clears will be applied
// as penalties to every other joined Game, and vice versa. rng seeds that
// player's garbage-column randomness (spec §9, "no hidden globals" — each
// Game's penalty draws come from a source the caller controls).
func (r *Referee) Join(g *Game, rng *rand.Rand) {
	r.mu.Lock()
	r.players[g] = rng
	g.AddObserver(&refereeObserver{referee: r, self: g})
	r.mu.Unlock()
}

// Leave removes g from the roster; it no longer sends or receives
// penalties.
func (r *Referee) Leave(g *Game) {
	r.mu.Lock()
	delete(r.players, g)
	r.mu.Unlock()
}

func (r *Referee) broadcastPenalty(from *Game, lines int) {
	n := penaltyTable[lines]
	if n == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for g, rng := range r.players {
		if g == from {
			continue
		}
		g.ApplyLinePenalty(n, rng)
	}
}

// refereeObserver adapts Game's Observer callbacks into Referee
// notifications, keyed to the specific Game that fired them.
type refereeObserver struct {
	referee *Referee
	self    *Game
}

func (o *refereeObserver) OnGameStateChanged(state.GameState) {}

func (o *refereeObserver) OnLinesCleared(_ state.GameState, n int) {
	o.referee.broadcastPenalty(o.self, n)
}
