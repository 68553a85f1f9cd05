// Package eval scores GameStates by weighted features, as interchangeable
// strategies (spec §4.4). Evaluator is implemented as a single sum type —
// a Variant tag plus its Weights — rather than an inheritance hierarchy,
// per the teacher's "Inferencer" single-method-interface idiom and the
// design note in spec §9 ("no inheritance").
package eval

import (
	"github.com/chewxy/math32"

	"github.com/stacktetris/tetrisai/grid"
	"github.com/stacktetris/tetrisai/state"
)

// Evaluator scores a GameState and can be cloned so that each search worker
// gets its own copy, guaranteeing the purity the search package relies on
// (spec §5, "Evaluators must be pure; the system clones them per-worker").
type Evaluator interface {
	Evaluate(s state.GameState) int32
	Clone() Evaluator
	SearchDepth() int
	SearchWidth() int
}

// Variant names the built-in strategies.
type Variant int

const (
	Balanced Variant = iota
	Survival
	MakeTetrises
	Multiplayer
	Depressed
	Custom
)

// Weights are the integer coefficients applied to each feature (spec §4.4).
type Weights struct {
	Height          int32
	LastBlockHeight int32
	Holes           int32
	Singles         int32
	Doubles         int32
	Triples         int32
	Tetrises        int32
}

// weighted is the one concrete Evaluator implementation; every named
// variant is a preset Weights value plus recommended search parameters.
type weighted struct {
	variant       Variant
	weights       Weights
	searchDepth   int
	searchWidth   int
	tetrisColumns int // MakeTetrises: the column index kept empty
}

// presets mirrors the teacher's DefaultConf(...)-style named configuration
// constructors (dualnet.DefaultConf).
var presets = map[Variant]weighted{
	Balanced: {
		variant:     Balanced,
		weights:     Weights{Height: -5, LastBlockHeight: -1, Holes: -8, Singles: 1, Doubles: 3, Triples: 6, Tetrises: 12},
		searchDepth: 4, searchWidth: 6,
	},
	Survival: {
		variant:     Survival,
		weights:     Weights{Height: -10, LastBlockHeight: -2, Holes: -20, Singles: 1, Doubles: 2, Triples: 3, Tetrises: 4},
		searchDepth: 5, searchWidth: 8,
	},
	MakeTetrises: {
		variant:       MakeTetrises,
		weights:       Weights{Height: -4, LastBlockHeight: -1, Holes: -15, Singles: -5, Doubles: -2, Triples: -1, Tetrises: 40},
		searchDepth:   5, searchWidth: 8,
		tetrisColumns: 0,
	},
	Multiplayer: {
		variant:     Multiplayer,
		weights:     Weights{Height: -6, LastBlockHeight: -1, Holes: -8, Singles: -2, Doubles: 4, Triples: 10, Tetrises: 24},
		searchDepth: 4, searchWidth: 6,
	},
	Depressed: {
		variant:     Depressed,
		weights:     Weights{Height: -1, LastBlockHeight: 0, Holes: -1, Singles: 1, Doubles: 1, Triples: 1, Tetrises: 1},
		searchDepth: 2, searchWidth: 3,
	},
}

// NewBalanced returns the Balanced evaluator.
func NewBalanced() Evaluator { v := presets[Balanced]; return &v }

// NewSurvival returns the Survival evaluator.
func NewSurvival() Evaluator { v := presets[Survival]; return &v }

// NewMakeTetrises returns the MakeTetrises evaluator, which rewards keeping
// one column clear and filling the rest in preparation for a tetris.
func NewMakeTetrises() Evaluator { v := presets[MakeTetrises]; return &v }

// NewMultiplayer returns the Multiplayer evaluator, tuned for penalty-row
// exchange games.
func NewMultiplayer() Evaluator { v := presets[Multiplayer]; return &v }

// NewDepressed returns the Depressed evaluator (weak play, used for testing
// and for handicapped opponents).
func NewDepressed() Evaluator { v := presets[Depressed]; return &v }

// NewCustom returns an Evaluator with caller-supplied weights.
func NewCustom(w Weights, searchDepth, searchWidth int) Evaluator {
	return &weighted{variant: Custom, weights: w, searchDepth: searchDepth, searchWidth: searchWidth}
}

func (e *weighted) Clone() Evaluator {
	out := *e
	return &out
}

func (e *weighted) SearchDepth() int { return e.searchDepth }
func (e *weighted) SearchWidth() int { return e.searchWidth }

// Evaluate scores s with e's weights. MakeTetrises overrides the generic
// weighted sum to additionally reward an empty well column (spec §4.4).
func (e *weighted) Evaluate(s state.GameState) int32 {
	f := computeFeatures(s)
	base := e.weights.Height*f.Height +
		e.weights.LastBlockHeight*f.LastBlockHeight +
		e.weights.Holes*f.Holes +
		e.weights.Singles*int32(s.Stats.Singles) +
		e.weights.Doubles*int32(s.Stats.Doubles) +
		e.weights.Triples*int32(s.Stats.Triples) +
		e.weights.Tetrises*int32(s.Stats.Tetrises)

	if e.variant != MakeTetrises {
		return base
	}
	return base + tetrisWellBonus(s, e.tetrisColumns)
}

// features are the raw per-state measurements evaluators weight (spec §4.4).
type features struct {
	Height          int32
	LastBlockHeight int32
	Holes           int32
}

func computeFeatures(s state.GameState) features {
	rows := int32(s.Grid.Rows())
	holes := int32(0)
	for c := 0; c < s.Grid.Cols(); c++ {
		for r := 1; r < s.Grid.Rows(); r++ {
			if s.Grid.At(r, c) == grid.Empty && s.Grid.At(r-1, c) != grid.Empty {
				holes++
			}
		}
	}
	return features{
		Height:          rows - int32(s.FirstOccupiedRow),
		LastBlockHeight: rows - int32(s.OriginalBlock.Row),
		Holes:           holes,
	}
}

// tetrisWellBonus rewards boards that keep `well` empty top-to-bottom while
// every other column below the stack line is filled, the standard "well
// strategy" for stacking toward a tetris.
func tetrisWellBonus(s state.GameState, well int) int32 {
	if well < 0 || well >= s.Grid.Cols() {
		return 0
	}
	wellClear := true
	for r := s.FirstOccupiedRow; r < s.Grid.Rows(); r++ {
		if s.Grid.At(r, well) != grid.Empty {
			wellClear = false
			break
		}
	}
	if !wellClear {
		return 0
	}
	var bonus float32
	for c := 0; c < s.Grid.Cols(); c++ {
		if c == well {
			continue
		}
		filled := 0
		for r := s.FirstOccupiedRow; r < s.Grid.Rows(); r++ {
			if s.Grid.At(r, c) != grid.Empty {
				filled++
			}
		}
		bonus += math32.Sqrt(float32(filled))
	}
	return int32(bonus)
}
