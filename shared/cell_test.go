package shared

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellReadWrite(t *testing.T) {
	c := NewCell(3)
	assert.Equal(t, 3, c.Read())
	c.Write(7)
	assert.Equal(t, 7, c.Read())
}

func TestCellMutateIsAtomicUnderContention(t *testing.T) {
	c := NewCell(0)
	var wg sync.WaitGroup
	const goroutines, perGoroutine = 20, 500
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				c.Mutate(func(v int) int { return v + 1 })
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, goroutines*perGoroutine, c.Read())
}

func TestCellMutateReturnsInstalledValue(t *testing.T) {
	c := NewCell("a")
	got := c.Mutate(func(v string) string { return v + "b" })
	assert.Equal(t, "ab", got)
	assert.Equal(t, "ab", c.Read())
}
