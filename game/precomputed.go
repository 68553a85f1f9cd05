package game

import (
	"sync"

	"github.com/stacktetris/tetrisai/state"
)

// PrecomputedMoves is the FIFO the NodeCalculator publishes its best line
// into and BlockMover drains, one GameState per committed piece (spec §2,
// "Data flow"; §3, "PrecomputedMoves").
type PrecomputedMoves struct {
	mu    sync.Mutex
	queue []state.GameState
}

// NewPrecomputedMoves returns an empty buffer.
func NewPrecomputedMoves() *PrecomputedMoves {
	return &PrecomputedMoves{}
}

// Replace atomically discards whatever was queued and installs line as
// the new best path — called whenever the NodeCalculator publishes a
// fresher result().
func (p *PrecomputedMoves) Replace(line []state.GameState) {
	p.mu.Lock()
	p.queue = append([]state.GameState(nil), line...)
	p.mu.Unlock()
}

// Peek returns the head of the queue without removing it.
func (p *PrecomputedMoves) Peek() (state.GameState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return state.GameState{}, false
	}
	return p.queue[0], true
}

// Pop removes and returns the head of the queue.
func (p *PrecomputedMoves) Pop() (state.GameState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return state.GameState{}, false
	}
	head := p.queue[0]
	p.queue = p.queue[1:]
	return head, true
}

// DiscardStaleHeads drops queued entries whose ID no longer immediately
// follows currentID — the snapshot guard against a precomputed line that
// was calculated against a board the game has since diverged from (e.g. a
// human move interleaved with AI search, or a multiplayer penalty row).
func (p *PrecomputedMoves) DiscardStaleHeads(currentID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) > 0 && p.queue[0].ID != currentID+1 {
		p.queue = p.queue[1:]
	}
}

// Len reports the number of queued states.
func (p *PrecomputedMoves) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}
