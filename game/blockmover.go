package game

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/stacktetris/tetrisai/grid"
)

// MoveDownBehavior picks how BlockMover finishes an aligned piece: a soft
// single-row step, or an immediate hard drop (spec §4.9).
type MoveDownBehavior int

const (
	MoveDownStep MoveDownBehavior = iota
	MoveDownDrop
)

// BlockMover periodically steers the active piece toward the AI's current
// target placement, read from the head of a PrecomputedMoves buffer (spec
// §4.9). It owns no board state itself; every mutation goes through Game.
type BlockMover struct {
	g     *Game
	moves *PrecomputedMoves

	movesPerSecond int64 // atomic, accessed via SetSpeed/interval
	behavior       int32 // atomic MoveDownBehavior

	stopCh chan struct{}
	done   chan struct{}
	mu     sync.Mutex
	timer  *time.Timer
}

// NewBlockMover starts a BlockMover driving g from moves at
// movesPerSecond ticks/sec.
func NewBlockMover(g *Game, moves *PrecomputedMoves, movesPerSecond int, behavior MoveDownBehavior) *BlockMover {
	bm := &BlockMover{
		g:      g,
		moves:  moves,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	atomic.StoreInt64(&bm.movesPerSecond, int64(movesPerSecond))
	atomic.StoreInt32(&bm.behavior, int32(behavior))
	bm.timer = time.NewTimer(bm.interval())
	go bm.run()
	return bm
}

func (bm *BlockMover) interval() time.Duration {
	mps := atomic.LoadInt64(&bm.movesPerSecond)
	if mps <= 0 {
		mps = 1
	}
	return time.Second / time.Duration(mps)
}

// SetSpeed adjusts the tick frequency at runtime (spec §4.9, "Speed is
// adjustable at runtime").
func (bm *BlockMover) SetSpeed(movesPerSecond int) {
	atomic.StoreInt64(&bm.movesPerSecond, int64(movesPerSecond))
}

// SetBehavior adjusts the final-descent policy at runtime.
func (bm *BlockMover) SetBehavior(b MoveDownBehavior) {
	atomic.StoreInt32(&bm.behavior, int32(b))
}

func (bm *BlockMover) run() {
	defer close(bm.done)
	for {
		select {
		case <-bm.stopCh:
			bm.timer.Stop()
			return
		case <-bm.timer.C:
			bm.tick()
			bm.timer.Reset(bm.interval())
		}
	}
}

func (bm *BlockMover) tick() {
	if bm.g.Paused() || bm.g.IsGameOver() {
		return
	}

	current := bm.g.CurrentState()
	bm.moves.DiscardStaleHeads(current.ID)
	target, ok := bm.moves.Peek()
	if !ok {
		return
	}

	beforeID := bm.g.CurrentState().ID
	bm.step(target.OriginalBlock)
	if bm.g.CurrentState().ID != beforeID {
		bm.moves.Pop()
	}
}

func (bm *BlockMover) step(target grid.Block) {
	active := bm.g.ActiveBlock()

	if active.Rotation != target.Rotation {
		if bm.g.Rotate() == NotMoved {
			bm.g.DropAndCommit()
		}
		return
	}
	if active.Col < target.Col {
		if bm.g.Move(Right) == NotMoved {
			bm.g.DropAndCommit()
		}
		return
	}
	if active.Col > target.Col {
		if bm.g.Move(Left) == NotMoved {
			bm.g.DropAndCommit()
		}
		return
	}

	if atomic.LoadInt32(&bm.behavior) == int32(MoveDownDrop) {
		bm.g.DropAndCommit()
		return
	}
	bm.g.Move(Down)
}

// Stop halts the timer goroutine permanently.
func (bm *BlockMover) Stop() {
	close(bm.stopCh)
	<-bm.done
}
