// Package game implements the stateful Game façade and its satellite
// timers (BlockMover, Gravity) that drive a single playfield: the active
// Block, the forward piece queue, level progression, and observer
// publication (spec §4.8-§4.10). Grounded on the teacher's arena.go
// Arena.Play loop (a logger-carrying driver that mutates game state and
// reports side effects as it runs) and agent.go's channel hookup for
// observer delivery.
package game

import (
	"log"
	"math/rand"
	"sync"

	"github.com/pkg/errors"

	"github.com/stacktetris/tetrisai/grid"
	"github.com/stacktetris/tetrisai/pieces"
	"github.com/stacktetris/tetrisai/state"
)

// Direction is a move request (spec §4.8, "canMove(dir)").
type Direction int

const (
	Left Direction = iota
	Right
	Down
)

// MoveResult reports what Game.Move actually did.
type MoveResult int

const (
	NotMoved MoveResult = iota
	Moved
	Committed
)

// maxLevel caps the starting-level-plus-lines-cleared formula (spec §4.8,
// "Level"); the index of the last entry of Gravity's interval table.
const maxLevel = 20

// Game owns the active Block, the forward piece queue, the committed
// GameState, and the registered observers for one playfield. It is the
// single mutator of the active block and queue (spec §5): Gravity and
// BlockMover never touch the board directly, they only call into Game.
type Game struct {
	mu sync.Mutex

	rows, cols int
	stream     *pieces.Stream

	current       state.GameState
	active        grid.Block
	queue         []grid.Kind
	startingLevel int

	paused bool

	observers []Observer
	logger    *log.Logger
}

// futureBlocksWindow is how many upcoming kinds Game keeps pre-drawn from
// the stream, available to New's caller via FutureBlocks — the AI reads
// this queue rather than calling the stream itself (spec's look-ahead
// Open Question, resolved in DESIGN.md: the AI never advances the
// shared PieceStream).
const futureBlocksWindow = 6

// New returns a Game on an empty rows x cols board, with the active block
// and a pre-filled look-ahead queue both drawn from stream.
func New(rows, cols int, stream *pieces.Stream, startingLevel int, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.New(log.Writer(), "game: ", log.LstdFlags)
	}
	g := &Game{
		rows:          rows,
		cols:          cols,
		stream:        stream,
		current:       state.New(rows, cols),
		startingLevel: startingLevel,
		logger:        logger,
	}
	for i := 0; i < futureBlocksWindow; i++ {
		g.queue = append(g.queue, stream.Next())
	}
	g.active = g.spawnFrom(g.popQueue())
	return g
}

func (g *Game) spawnFrom(kind grid.Kind) grid.Block {
	return grid.NewBlock(kind, 0, g.cols/2-1)
}

// popQueue removes and returns the queue's head, refilling it by one draw
// from the stream so the queue's length stays constant.
func (g *Game) popQueue() grid.Kind {
	kind := g.queue[0]
	g.queue = append(g.queue[1:], g.stream.Next())
	return kind
}

// AddObserver registers o to receive future state-changed/lines-cleared
// notifications.
func (g *Game) AddObserver(o Observer) {
	g.mu.Lock()
	g.observers = append(g.observers, o)
	g.mu.Unlock()
}

// SetPaused toggles whether Gravity and BlockMover should act on this Game.
func (g *Game) SetPaused(p bool) {
	g.mu.Lock()
	g.paused = p
	g.mu.Unlock()
}

// Paused reports the current pause state.
func (g *Game) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// IsGameOver reports whether the current committed state is terminal.
func (g *Game) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current.GameOver
}

// ActiveBlock returns a copy of the live piece position.
func (g *Game) ActiveBlock() grid.Block {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// CurrentState returns a copy of the last committed GameState.
func (g *Game) CurrentState() state.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// FutureBlocks returns up to n upcoming piece kinds already drawn into the
// queue, for the AI's look-ahead. It never consumes the PieceStream
// itself — only Game does that, via popQueue.
func (g *Game) FutureBlocks(n int) []grid.Kind {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n > len(g.queue) {
		n = len(g.queue)
	}
	out := make([]grid.Kind, n)
	copy(out, g.queue[:n])
	return out
}

// Level returns startingLevel + totalLinesCleared/10, capped at maxLevel
// (spec §4.8, "Level").
func (g *Game) Level() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.levelLocked()
}

func (g *Game) levelLocked() int {
	level := g.startingLevel + g.current.Stats.Lines()/10
	if level > maxLevel {
		level = maxLevel
	}
	return level
}

func delta(dir Direction) (int, int) {
	switch dir {
	case Left:
		return 0, -1
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	default:
		return 0, 0
	}
}

// CanMove reports whether the active block could legally move in dir from
// its current position (spec §4.8, "canMove(dir)").
func (g *Game) CanMove(dir Direction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	dr, dc := delta(dir)
	moved := g.active.MovedBy(dr, dc)
	return g.current.CheckPositionValid(moved, moved.Row, moved.Col)
}

// Move attempts to move the active block in dir. A blocked Down commits
// the block into the board, advances to the next piece, and notifies
// observers (spec §4.8, "move(dir)").
func (g *Game) Move(dir Direction) MoveResult {
	g.mu.Lock()
	dr, dc := delta(dir)
	moved := g.active.MovedBy(dr, dc)
	if g.current.CheckPositionValid(moved, moved.Row, moved.Col) {
		g.active = moved
		g.mu.Unlock()
		return Moved
	}
	if dir != Down {
		g.mu.Unlock()
		return NotMoved
	}
	g.commitLocked()
	g.mu.Unlock()
	return Committed
}

// Rotate behaves like Move but advances the active block's rotation
// instead of its position (spec §4.8, "rotate()").
func (g *Game) Rotate() MoveResult {
	g.mu.Lock()
	rotated := g.active.Rotate()
	if g.current.CheckPositionValid(rotated, rotated.Row, rotated.Col) {
		g.active = rotated
		g.mu.Unlock()
		return Moved
	}
	g.mu.Unlock()
	return NotMoved
}

// DropWithoutCommit repeatedly moves the active block down while valid,
// without committing it (spec §4.8, "dropWithoutCommit()").
func (g *Game) DropWithoutCommit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		moved := g.active.MovedBy(1, 0)
		if !g.current.CheckPositionValid(moved, moved.Row, moved.Col) {
			return
		}
		g.active = moved
	}
}

// DropAndCommit hard-drops the active block and commits it immediately
// (spec §4.8, "dropAndCommit()").
func (g *Game) DropAndCommit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		moved := g.active.MovedBy(1, 0)
		if !g.current.CheckPositionValid(moved, moved.Row, moved.Col) {
			break
		}
		g.active = moved
	}
	g.commitLocked()
}

// commitLocked solidifies g.active into g.current, pops the next piece,
// and fires observer callbacks. Caller must hold g.mu.
func (g *Game) commitLocked() {
	before := g.current.Stats.Lines()
	g.current = g.current.Commit(g.active)
	cleared := g.current.Stats.Lines() - before

	observers := append([]Observer(nil), g.observers...)
	current := g.current
	go func() {
		for _, o := range observers {
			o.OnGameStateChanged(current)
			if cleared > 0 {
				o.OnLinesCleared(current, cleared)
			}
		}
	}()

	if g.current.GameOver {
		return
	}
	g.active = g.spawnFrom(g.popQueue())
}

// ApplyLinePenalty inserts n rows of debris at the bottom of the grid, one
// random empty column per row, and marks the state tainted (spec §4.8,
// "applyLinePenalty(n)"). A rand.Rand is taken explicitly rather than
// using a package-level source, per the "no hidden globals" design note
// (spec §9).
func (g *Game) ApplyLinePenalty(n int, rng *rand.Rand) error {
	if n <= 0 {
		return errors.Errorf("game: penalty line count must be > 0, got %d", n)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([][]grid.Kind, n)
	for i := range rows {
		gap := rng.Intn(g.cols)
		row := make([]grid.Kind, g.cols)
		for c := range row {
			if c != gap {
				row[c] = grid.Garbage
			}
		}
		rows[i] = row
	}
	g.current = g.current.SetGrid(g.current.Grid.WithRowsInserted(rows))
	if g.current.GameOver {
		return nil
	}
	if !g.current.CheckPositionValid(g.active, g.active.Row, g.active.Col) {
		g.current.GameOver = true
	}
	return nil
}
