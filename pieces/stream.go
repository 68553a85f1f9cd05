// Package pieces generates the deterministic bag-shuffle sequence of piece
// kinds fed to Game and, via its public queue, to the AI's look-ahead
// (spec §4.3).
package pieces

import (
	"sync"

	xrand "golang.org/x/exp/rand"

	"github.com/stacktetris/tetrisai/grid"
)

// Source abstracts the clock-seeded entropy source the factory is built
// from (spec §1: "the random-seed source used by the piece factory" is an
// external collaborator, consumed only through this interface).
type Source interface {
	Uint64() uint64
}

// Stream produces an unbounded sequence of piece kinds using an N-bag
// policy: a permutation holding bagSize copies of each of the seven kinds,
// reshuffled whenever exhausted. Next is atomic with respect to concurrent
// callers, guarded by a single mutex the way the teacher guards mcts.MCTS's
// shared search state.
type Stream struct {
	mu      sync.Mutex
	rng     *xrand.Rand
	bagSize int
	bag     []grid.Kind
	index   int
}

// New returns a Stream seeded from src with the given bag size (must be >=1).
func New(src Source, bagSize int) *Stream {
	if bagSize < 1 {
		bagSize = 1
	}
	s := &Stream{
		rng:     xrand.New(xrand.NewSource(src.Uint64())),
		bagSize: bagSize,
	}
	s.refill()
	return s
}

func (s *Stream) refill() {
	bag := make([]grid.Kind, 0, s.bagSize*len(grid.Kinds))
	for i := 0; i < s.bagSize; i++ {
		bag = append(bag, grid.Kinds[:]...)
	}
	s.rng.Shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })
	s.bag = bag
	s.index = 0
}

// Next returns the next piece kind in the sequence, reshuffling a fresh bag
// on exhaustion.
func (s *Stream) Next() grid.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index >= len(s.bag) {
		s.refill()
	}
	k := s.bag[s.index]
	s.index++
	return k
}

