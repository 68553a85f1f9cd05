package search

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/stacktetris/tetrisai/eval"
	"github.com/stacktetris/tetrisai/grid"
	"github.com/stacktetris/tetrisai/shared"
	"github.com/stacktetris/tetrisai/state"
	"github.com/stacktetris/tetrisai/worker"
)

// CalculatorStatus is the NodeCalculator's lifecycle state machine (spec
// §4.6): Initial -> Started -> Working -> {Finished | Stopped | Error}.
// Stopped and Error are absorbing.
type CalculatorStatus int

const (
	StatusInitial CalculatorStatus = iota
	StatusStarted
	StatusWorking
	StatusFinished
	StatusStopped
	StatusError
)

func (s CalculatorStatus) String() string {
	switch s {
	case StatusInitial:
		return "Initial"
	case StatusStarted:
		return "Started"
	case StatusWorking:
		return "Working"
	case StatusFinished:
		return "Finished"
	case StatusStopped:
		return "Stopped"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// levelInfo is one entry of the levels registry (spec §4.6, "Levels
// registry"): the best node seen at that depth, its score, how many
// candidates were registered, and whether the depth is fully searched.
type levelInfo struct {
	bestNode  NodeID
	bestScore int32
	nodeCount int
	finished  bool
}

// Calculator is the NodeCalculator: an iterative-deepening, bounded-width
// search that fans work for each depth out across a WorkerPool, tracked
// through a SharedCell-backed level registry, and carves the tree down to
// the single best path once the search concludes (spec §4.6).
//
// Grounded on the teacher's mcts.MCTS.Search: a goroutine fan-out per
// iteration, a shared cancellation signal, and a final best-move
// readout — generalized here into explicit per-depth barriers, since
// iterative deepening needs one where MCTS's continuous playout loop does
// not.
type Calculator struct {
	arena     *Arena
	evaluator eval.Evaluator
	pieces    []grid.Kind
	widths    []int
	spawnCol  int

	main *worker.Worker
	pool *worker.Pool

	status *shared.Cell[CalculatorStatus]
	levels *shared.Cell[[]levelInfo]

	resultMu sync.Mutex
	result   []state.GameState

	errMu sync.Mutex
	err   error

	quit     chan struct{}
	quitOnce sync.Once
}

// NewCalculator validates its inputs and returns a Calculator ready to
// Start. Construction errors (spec §4.6, "Failure semantics"): an empty
// piece list, mismatched piece/width lengths, or any non-positive width.
func NewCalculator(
	root state.GameState,
	pieceKinds []grid.Kind,
	widths []int,
	evaluator eval.Evaluator,
	spawnCol int,
	main *worker.Worker,
	pool *worker.Pool,
) (*Calculator, error) {
	if len(pieceKinds) == 0 {
		return nil, errors.New("search: piece list must not be empty")
	}
	if len(pieceKinds) != len(widths) {
		return nil, errors.Errorf("search: %d pieces but %d widths", len(pieceKinds), len(widths))
	}
	for i, w := range widths {
		if w <= 0 {
			return nil, errors.Errorf("search: width at depth %d must be > 0, got %d", i, w)
		}
	}

	return &Calculator{
		arena:     NewArena(root),
		evaluator: evaluator,
		pieces:    append([]grid.Kind(nil), pieceKinds...),
		widths:    append([]int(nil), widths...),
		spawnCol:  spawnCol,
		main:      main,
		pool:      pool,
		status:    shared.NewCell(StatusInitial),
		levels:    shared.NewCell([]levelInfo(nil)),
		quit:      make(chan struct{}),
	}, nil
}

// Start schedules the search on the main worker and returns immediately.
func (c *Calculator) Start() {
	c.status.Write(StatusStarted)
	c.main.Schedule(func(done <-chan struct{}) {
		c.run()
	})
}

// Status reports the calculator's current lifecycle state.
func (c *Calculator) Status() CalculatorStatus {
	return c.status.Read()
}

// Stop requests cancellation. Status transitions to Stopped once the
// running depth's tasks quiesce.
func (c *Calculator) Stop() {
	c.quitOnce.Do(func() {
		switch c.status.Read() {
		case StatusStarted, StatusWorking:
			close(c.quit)
			c.pool.InterruptAndClearQueue()
			c.status.Mutate(func(s CalculatorStatus) CalculatorStatus {
				if s == StatusStarted || s == StatusWorking {
					return StatusStopped
				}
				return s
			})
		}
	})
}

// Result returns the best path found so far: a flat copy of GameState
// values from the best leaf's depth-1 ancestor (the root itself excluded)
// down to the deepest confirmed best leaf. It may be empty if the search was stopped before depth 1 finished.
func (c *Calculator) Result() []state.GameState {
	c.resultMu.Lock()
	defer c.resultMu.Unlock()
	out := make([]state.GameState, len(c.result))
	copy(out, c.result)
	return out
}

// Err returns the first error observed by a worker task, if status is
// Error.
func (c *Calculator) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// GetCurrentSearchDepth returns the greatest depth whose level has been
// marked finished. It is non-decreasing while the search runs.
func (c *Calculator) GetCurrentSearchDepth() int {
	depth := 0
	for _, l := range c.levels.Read() {
		if l.finished {
			depth++
		}
	}
	return depth
}

// GetMaxSearchDepth returns the configured look-ahead depth D.
func (c *Calculator) GetMaxSearchDepth() int {
	return len(c.pieces)
}

// run is the body scheduled onto the main worker by Start.
func (c *Calculator) run() {
	c.status.Mutate(func(s CalculatorStatus) CalculatorStatus {
		if s == StatusStarted {
			return StatusWorking
		}
		return s
	})

	leaves := []NodeID{c.arena.Root()}
	for d := 1; d <= len(c.pieces); d++ {
		if c.cancelled() {
			c.status.Write(StatusStopped)
			return
		}

		newLeaves, err := c.expandLevel(leaves, d)
		if err != nil {
			c.setErr(err)
			c.status.Write(StatusError)
			return
		}

		if c.cancelled() {
			c.status.Write(StatusStopped)
			return
		}

		if len(newLeaves) == 0 {
			// Every leaf at this depth was already a terminal (game-over)
			// node with nothing further to expand; the search bottoms out
			// early rather than treating this as an error (spec §7,
			// "game-over is data, not an error").
			break
		}

		c.finishLevel(newLeaves)
		leaves = newLeaves
	}

	c.carveBestPath()
	c.status.Mutate(func(s CalculatorStatus) CalculatorStatus {
		if s == StatusWorking {
			return StatusFinished
		}
		return s
	})
}

func (c *Calculator) cancelled() bool {
	select {
	case <-c.quit:
		return true
	default:
		return false
	}
}

// expandLevel dispatches one offspring-generation task per current leaf
// onto the pool, waits for all of them, and returns the union of kept
// children (spec §4.6 steps 1-3). Each task clones the evaluator so no
// mutable state is shared across workers (spec §5).
func (c *Calculator) expandLevel(leaves []NodeID, depth int) ([]NodeID, error) {
	kind := c.pieces[depth-1]
	width := c.widths[depth-1]

	var wg sync.WaitGroup
	var mu sync.Mutex
	var newLeaves []NodeID
	var errs *multierror.Error

	for _, leaf := range leaves {
		leaf := leaf
		wg.Add(1)
		c.pool.Schedule(func(done <-chan struct{}) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs = multierror.Append(errs, fmt.Errorf("search: task panic at depth %d: %v", depth, r))
					mu.Unlock()
				}
			}()

			select {
			case <-done:
				return
			default:
			}

			gen := NewGenerator(c.evaluator.Clone())
			parentState := c.arena.State(leaf)
			if parentState.GameOver {
				return
			}
			children := gen.ExpandWithCancel(parentState, kind, c.spawnCol, done)
			if len(children) == 0 {
				return
			}
			if len(children) > width {
				children = children[:width]
			}

			mu.Lock()
			for _, child := range children {
				id := c.arena.AddChild(leaf, child.result, child.score)
				newLeaves = append(newLeaves, id)
			}
			mu.Unlock()
		})
	}
	wg.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return newLeaves, nil
}

// finishLevel registers the depth's best-scoring leaf into the levels
// registry, marks the level finished, and republishes result() as the
// path from root to that leaf (spec §4.6 step 4).
func (c *Calculator) finishLevel(leaves []NodeID) {
	best := leaves[0]
	bestScore := c.arena.Score(best)
	for _, id := range leaves[1:] {
		if s := c.arena.Score(id); s > bestScore {
			bestScore = s
			best = id
		}
	}

	c.levels.Mutate(func(levels []levelInfo) []levelInfo {
		out := append([]levelInfo(nil), levels...)
		return append(out, levelInfo{
			bestNode:  best,
			bestScore: bestScore,
			nodeCount: len(leaves),
			finished:  true,
		})
	})

	path := c.arena.Path(best)
	c.resultMu.Lock()
	c.result = path
	c.resultMu.Unlock()
}

// carveBestPath reclaims memory for every subtree off the final best
// path (spec §4.6 step 5). Per-depth pruning during the loop would
// collapse the beam to width 1 after the first depth, defeating the
// caller's configured widths, so the carve happens once, after the whole
// search (or the last depth it actually reached) concludes — the same
// point at which the original engine's node tree would otherwise be
// discarded wholesale.
func (c *Calculator) carveBestPath() {
	levels := c.levels.Read()
	if len(levels) == 0 {
		return
	}
	best := levels[len(levels)-1].bestNode

	var chain []NodeID
	for cur := best; cur != c.arena.Root(); cur = c.arena.Parent(cur) {
		chain = append(chain, cur)
	}
	for i := len(chain) - 1; i >= 0; i-- {
		node := chain[i]
		c.arena.KeepOnly(c.arena.Parent(node), node)
	}
}

func (c *Calculator) setErr(err error) {
	c.errMu.Lock()
	c.err = err
	c.errMu.Unlock()
}
