package search

import (
	"github.com/stacktetris/tetrisai/eval"
	"github.com/stacktetris/tetrisai/grid"
	"github.com/stacktetris/tetrisai/state"
)

// Generator expands one SearchNode into its legal children for a given
// piece kind, ordered by descending evaluator score (spec §4.5,
// "OffspringGenerator"). It holds no state of its own beyond the evaluator
// it scores with, so a Generator can be reused, one per worker, across an
// entire search (mirroring the teacher's per-worker-cloned Inferencer).
type Generator struct {
	evaluator eval.Evaluator
}

// NewGenerator returns a Generator that scores children with evaluator.
func NewGenerator(evaluator eval.Evaluator) *Generator {
	return &Generator{evaluator: evaluator}
}

// offspring is one candidate child before it is inserted into the arena:
// the committed state it resolves to, and the score the generator's
// evaluator assigned it.
type offspring struct {
	result state.GameState
	score  int32
}

// Expand enumerates every legal (column, rotation) placement of kind on
// parent, drops the piece as far as it will fall, commits it, and returns
// the results ordered by descending score (ties broken by the lower
// placement identifier, spec §3). If the piece cannot even be placed at
// row 0 in its spawn column, Expand returns a single game-over child and
// stops, matching spec §4.5 step 1.
func (g *Generator) Expand(parent state.GameState, kind grid.Kind, spawnCol int) []offspring {
	return g.ExpandWithCancel(parent, kind, spawnCol, nil)
}

// ExpandWithCancel is Expand with an additional cooperative-cancellation
// channel, checked once per (rotation, column) candidate — the "child
// enumeration boundary" yield point spec §5 requires long-running
// generators to respond to. A nil done behaves like Expand. If cancelled
// mid-enumeration, ExpandWithCancel returns whatever candidates it had
// already found, ordered as usual; the caller decides whether a partial
// result is still useful.
func (g *Generator) ExpandWithCancel(parent state.GameState, kind grid.Kind, spawnCol int, done <-chan struct{}) []offspring {
	rotations := grid.RotationCount(kind)
	spawn := grid.NewBlock(kind, 0, spawnCol)
	if !parent.CheckPositionValid(spawn, 0, spawnCol) {
		result := parent.Commit(spawn)
		return []offspring{{result: result, score: g.evaluator.Evaluate(result)}}
	}

	candidates := make([]offspring, 0, rotations*parent.Grid.Cols())
	for rotation := 0; rotation < rotations; rotation++ {
		shape := grid.ShapeFor(kind, rotation)
		for col := 0; col <= parent.Grid.Cols()-shape.Cols(); col++ {
			select {
			case <-done:
				sortDescending(candidates)
				return candidates
			default:
			}
			block := grid.Block{Kind: kind, Rotation: rotation, Row: 0, Col: col}
			if !parent.CheckPositionValid(block, 0, col) {
				continue
			}
			row := 0
			for parent.CheckPositionValid(block, row+1, col) {
				row++
			}
			block.Row = row
			result := parent.Commit(block)
			candidates = append(candidates, offspring{
				result: result,
				score:  g.evaluator.Evaluate(result),
			})
		}
	}

	sortDescending(candidates)
	return candidates
}

// sortDescending orders candidates by descending score, breaking ties by
// the lower placement identifier of the committed block — an insertion
// sort since the candidate count per expansion is always small (at most
// 4 rotations x board width).
func sortDescending(candidates []offspring) {
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && before(candidates[j], candidates[j-1]); j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}
}

// before reports whether x should sort ahead of y: higher score first,
// lower placement identifier breaking ties.
func before(x, y offspring) bool {
	if x.score != y.score {
		return x.score > y.score
	}
	return x.result.OriginalBlock.Identifier() < y.result.OriginalBlock.Identifier()
}
