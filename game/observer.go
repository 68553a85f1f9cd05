package game

import "github.com/stacktetris/tetrisai/state"

// Observer receives Game notifications (spec §6, "Observer callbacks").
// Implementations must not block for long: Game fires these from its own
// goroutine, not the caller that triggered the commit.
type Observer interface {
	// OnGameStateChanged fires on every committed move.
	OnGameStateChanged(s state.GameState)
	// OnLinesCleared fires when a commit clears n >= 1 lines.
	OnLinesCleared(s state.GameState, n int)
}

// ChannelObserver adapts Game's callback-style Observer interface to a Go
// channel, so a host can select on game events rather than implementing
// callback methods — grounded on the teacher's agent.go channel hookup
// (a.inferer <- inf) for crossing from an internal loop into consumer code.
type ChannelObserver struct {
	StateChanged chan state.GameState
	LinesCleared chan LinesClearedEvent
}

// LinesClearedEvent pairs the resulting state with the clear count.
type LinesClearedEvent struct {
	State state.GameState
	Lines int
}

// NewChannelObserver returns a ChannelObserver with buffered channels of
// the given capacity, so a slow consumer cannot stall Game's notification
// goroutine indefinitely — sends drop rather than block once a channel is
// full, since these are presentation hints, not a delivery guarantee.
func NewChannelObserver(buffer int) *ChannelObserver {
	return &ChannelObserver{
		StateChanged: make(chan state.GameState, buffer),
		LinesCleared: make(chan LinesClearedEvent, buffer),
	}
}

func (c *ChannelObserver) OnGameStateChanged(s state.GameState) {
	select {
	case c.StateChanged <- s:
	default:
	}
}

func (c *ChannelObserver) OnLinesCleared(s state.GameState, n int) {
	select {
	case c.LinesCleared <- LinesClearedEvent{State: s, Lines: n}:
	default:
	}
}
