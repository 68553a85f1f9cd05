// Command play runs a self-contained demo of the engine: a piece stream,
// a Game driven by Gravity and BlockMover, and a NodeCalculator that keeps
// republishing its best line into a PrecomputedMoves buffer for BlockMover
// to steer toward. Grounded on cmd/infer/main.go's flag-driven, synchronous
// top level.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/stacktetris/tetrisai/eval"
	"github.com/stacktetris/tetrisai/game"
	"github.com/stacktetris/tetrisai/grid"
	"github.com/stacktetris/tetrisai/pieces"
	"github.com/stacktetris/tetrisai/search"
	"github.com/stacktetris/tetrisai/worker"
)

var (
	rows        = flag.Int("rows", 20, "board rows")
	cols        = flag.Int("cols", 10, "board cols")
	level       = flag.Int("level", 0, "starting level")
	variant     = flag.String("evaluator", "balanced", "balanced|survival|tetrises|multiplayer|depressed")
	depth       = flag.Int("depth", 3, "search look-ahead depth")
	width       = flag.Int("width", 5, "per-depth beam width")
	numWorkers  = flag.Int("workers", 4, "search worker pool size")
	movesPerSec = flag.Int("moves_per_second", 10, "BlockMover steering rate")
	renderMS    = flag.Int("render_interval_ms", 500, "board render interval")
)

// entropySource adapts math/rand to pieces.Source.
type entropySource struct{ r *rand.Rand }

func (e entropySource) Uint64() uint64 { return e.r.Uint64() }

func newEvaluator() (eval.Evaluator, error) {
	switch *variant {
	case "balanced":
		return eval.NewBalanced(), nil
	case "survival":
		return eval.NewSurvival(), nil
	case "tetrises":
		return eval.NewMakeTetrises(), nil
	case "multiplayer":
		return eval.NewMultiplayer(), nil
	case "depressed":
		return eval.NewDepressed(), nil
	default:
		return nil, fmt.Errorf("play: unknown evaluator %q", *variant)
	}
}

func render(g *game.Game) {
	s := g.CurrentState()
	fmt.Print("\x1b[H\x1b[2J")
	for r := 0; r < s.Grid.Rows(); r++ {
		for c := 0; c < s.Grid.Cols(); c++ {
			if s.Grid.At(r, c) == grid.Empty {
				fmt.Print(".")
			} else {
				fmt.Print("#")
			}
		}
		fmt.Println()
	}
	fmt.Printf("score %d  level %d  lines %d\n", s.Score(), g.Level(), s.Stats.Lines())
}

func main() {
	flag.Parse()
	logger := log.New(os.Stderr, "play: ", log.Ltime)

	ev, err := newEvaluator()
	if err != nil {
		log.Fatal(err)
	}

	stream := pieces.New(entropySource{rand.New(rand.NewSource(time.Now().UnixNano()))}, 2)
	g := game.New(*rows, *cols, stream, *level, logger)

	moves := game.NewPrecomputedMoves()
	mainWorker := worker.NewWorker()
	pool := worker.NewPool(*numWorkers)
	defer mainWorker.Stop()

	bm := game.NewBlockMover(g, moves, *movesPerSec, game.MoveDownStep)
	defer bm.Stop()
	gr := game.NewGravity(g)
	defer gr.Stop()

	spawnCol := *cols/2 - 1

	for !g.IsGameOver() {
		lookAhead := g.FutureBlocks(*depth)
		if len(lookAhead) == 0 {
			break
		}
		widths := make([]int, len(lookAhead))
		for i := range widths {
			widths[i] = *width
		}

		calc, err := search.NewCalculator(g.CurrentState(), lookAhead, widths, ev, spawnCol, mainWorker, pool)
		if err != nil {
			logger.Printf("calculator rejected: %v", err)
			break
		}
		calc.Start()
		for s := calc.Status(); s == search.StatusStarted || s == search.StatusWorking; s = calc.Status() {
			time.Sleep(time.Millisecond)
		}
		if calc.Status() == search.StatusError {
			logger.Printf("search error: %v", calc.Err())
			break
		}
		moves.Replace(calc.Result())

		render(g)
		time.Sleep(time.Duration(*renderMS) * time.Millisecond)
	}

	render(g)
	fmt.Println("game over")
}
