// Package shared implements SharedCell, the transactional variable backing
// the NodeCalculator's status and level registry (spec §4.6, §5, §9). It is
// not used elsewhere: the precomputed-moves buffer is guarded by a
// sync.Mutex, and BlockMover's speed and behaviour are plain atomics.
// Reads and writes are linearisable and never
// block-wait — retries are hidden from callers, the same contract the
// original engine gave its Boost-STM-backed cells. Go has no STM library in
// general use, so this is built from sync/atomic compare-and-swap retry
// loops, generalized over any value type with Go generics (grounded on the
// CAS-retry shape of niceyeti-tabular's atomic_helpers.AtomicAdd/AtomicSet).
package shared

import "sync/atomic"

// Cell is a linearisable transactional variable holding a T. The zero value
// is not usable; construct one with NewCell.
type Cell[T any] struct {
	v atomic.Pointer[T]
}

// NewCell returns a Cell initialized to val.
func NewCell[T any](val T) *Cell[T] {
	c := &Cell[T]{}
	c.v.Store(&val)
	return c
}

// Read returns the current value. It never blocks.
func (c *Cell[T]) Read() T {
	return *c.v.Load()
}

// Write replaces the value unconditionally. It never blocks.
func (c *Cell[T]) Write(val T) {
	c.v.Store(&val)
}

// Mutate atomically applies fn to the current value and installs its
// result, retrying if a concurrent writer won the race. fn must be pure: it
// may be invoked more than once for a single logical Mutate call under
// contention, exactly like a CAS-retry loop in any lock-free structure.
func (c *Cell[T]) Mutate(fn func(T) T) T {
	for {
		old := c.v.Load()
		next := fn(*old)
		if c.v.CompareAndSwap(old, &next) {
			return next
		}
	}
}
