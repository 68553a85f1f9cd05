package pieces

import (
	"testing"

	"github.com/stacktetris/tetrisai/grid"
	"github.com/stretchr/testify/assert"
)

type fixedSource uint64

func (f fixedSource) Uint64() uint64 { return uint64(f) }

func TestBagWindowHasExactCounts(t *testing.T) {
	const bagSize = 2
	s := New(fixedSource(42), bagSize)

	window := 7 * bagSize
	counts := map[grid.Kind]int{}
	for i := 0; i < window; i++ {
		counts[s.Next()]++
	}
	for _, k := range grid.Kinds {
		assert.Equal(t, bagSize, counts[k], k.String())
	}
}

func TestStreamIsConcurrencySafe(t *testing.T) {
	s := New(fixedSource(7), 3)
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				s.Next()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
