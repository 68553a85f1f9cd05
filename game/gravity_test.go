package game

import (
	"log"
	"testing"
	"time"

	"github.com/stacktetris/tetrisai/pieces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGravityIntervalIsClampedPastTopLevel(t *testing.T) {
	gr := &Gravity{level: 50}
	assert.Equal(t, time.Duration(gravityIntervals[len(gravityIntervals)-1])*time.Millisecond, gr.interval())
}

func TestGravityTicksAdvanceActiveBlockDown(t *testing.T) {
	stream := pieces.New(fixedSource(7), 2)
	g := New(20, 10, stream, 0, log.New(log.Writer(), "", 0))
	gr := &Gravity{g: g, level: 0, stopCh: make(chan struct{}), done: make(chan struct{}), timer: time.NewTimer(time.Hour)}

	startRow := g.ActiveBlock().Row
	gr.tick()
	require.Equal(t, startRow+1, g.ActiveBlock().Row)
}

func TestGravityStopsCleanly(t *testing.T) {
	stream := pieces.New(fixedSource(7), 2)
	g := New(20, 10, stream, 0, log.New(log.Writer(), "", 0))
	gr := NewGravity(g)
	gr.Stop()
}

func TestGravityTickSkipsWhenPaused(t *testing.T) {
	stream := pieces.New(fixedSource(7), 2)
	g := New(20, 10, stream, 0, log.New(log.Writer(), "", 0))
	g.SetPaused(true)
	gr := &Gravity{g: g, level: 0, stopCh: make(chan struct{}), done: make(chan struct{}), timer: time.NewTimer(time.Hour)}

	startRow := g.ActiveBlock().Row
	gr.tick()
	assert.Equal(t, startRow, g.ActiveBlock().Row)
}
