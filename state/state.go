// Package state implements GameState, the committed-playing-field value
// object at the heart of the engine, and its pure commit/validate
// operations (spec §3, §4.2).
package state

import (
	"github.com/stacktetris/tetrisai/grid"
)

// GameState is a committed playing field plus statistics. It is a value
// object: every operation returns a new GameState rather than mutating the
// receiver, mirroring the teacher's game.State.Apply contract.
type GameState struct {
	Grid             grid.Grid
	OriginalBlock    grid.Block
	GameOver         bool
	FirstOccupiedRow int
	Stats            Stats
	ID               int64
	Tainted          bool
}

// New returns an empty rows x cols GameState: empty grid, zero stats, not
// game-over, id 0.
func New(rows, cols int) GameState {
	g := grid.New(rows, cols)
	return GameState{
		Grid:             g,
		FirstOccupiedRow: rows,
		ID:               0,
	}
}

// CheckPositionValid reports whether block's shape, placed with its
// top-left bounding-box corner at (row, col), fits entirely on the board
// and overlaps no occupied cell. Fast path (spec §4.2): if the shape's
// bounding box sits entirely above the first occupied row, it cannot
// collide and the board need not be scanned.
func (s GameState) CheckPositionValid(block grid.Block, row, col int) bool {
	shape := block.Shape()
	aboveStack := row+shape.Rows() < s.FirstOccupiedRow
	for r := 0; r < shape.Rows(); r++ {
		for c := 0; c < shape.Cols(); c++ {
			if !shape.Occupied(r, c) {
				continue
			}
			gr, gc := row+r, col+c
			if gr < 0 || gr >= s.Grid.Rows() || gc < 0 || gc >= s.Grid.Cols() {
				return false
			}
			if !aboveStack && s.Grid.At(gr, gc) != grid.Empty {
				return false
			}
		}
	}
	return true
}

// Commit solidifies block into the grid, clears full rows, and returns the
// resulting GameState. It never fails: an invalid placement at row 0
// produces a game-over state instead of an error (spec §4.2, §7).
//
// Commit is a pure function: equal inputs produce equal outputs and it has
// no observable side effect on s.
func (s GameState) Commit(block grid.Block) GameState {
	if block.Row == 0 && !s.CheckPositionValid(block, block.Row, block.Col) {
		return GameState{
			Grid:             s.Grid,
			OriginalBlock:    block,
			GameOver:         true,
			FirstOccupiedRow: s.FirstOccupiedRow,
			Stats:            s.Stats,
			ID:               s.ID + 1,
			Tainted:          s.Tainted,
		}
	}

	solidified := s.Grid.WithShapeSolidified(block.Kind, block.Shape(), block.Row, block.Col)
	cleared, n := solidified.ClearFullRows()

	return GameState{
		Grid:             cleared,
		OriginalBlock:    block,
		GameOver:         false,
		FirstOccupiedRow: cleared.FirstOccupiedRow(),
		Stats:            s.Stats.WithCleared(n),
		ID:               s.ID + 1,
		Tainted:          s.Tainted,
	}
}

// SetGrid replaces the grid wholesale — used for multiplayer penalty rows —
// marking the result Tainted. Stats and ID are left untouched (spec §4.2).
func (s GameState) SetGrid(g grid.Grid) GameState {
	out := s
	out.Grid = g
	out.Tainted = true
	out.FirstOccupiedRow = g.FirstOccupiedRow()
	return out
}

// Score returns the weighted line-clear score for s's stats (spec §4.2).
func (s GameState) Score() int {
	return s.Stats.Score()
}
