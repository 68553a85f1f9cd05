package eval

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/stacktetris/tetrisai/state"
)

// CachedEvaluator memoizes Evaluate by grid content hash, so that siblings
// in the search tree which happen to reach the same board shape (a common
// occurrence once a few pieces have dropped) don't re-run the full feature
// scan. This is purely an in-memory speedup — it holds no state that
// outlives the process, so it does not touch the "no persistence"
// Non-goal (spec §1).
type CachedEvaluator struct {
	inner Evaluator
	cache *ristretto.Cache[uint64, int32]
}

// NewCached wraps inner with a bounded in-memory score cache.
func NewCached(inner Evaluator) (*CachedEvaluator, error) {
	c, err := ristretto.NewCache(&ristretto.Config[uint64, int32]{
		NumCounters: 1e6,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &CachedEvaluator{inner: inner, cache: c}, nil
}

func (c *CachedEvaluator) Evaluate(s state.GameState) int32 {
	key := hashGameState(s)
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	v := c.inner.Evaluate(s)
	c.cache.Set(key, v, 1)
	return v
}

func (c *CachedEvaluator) SearchDepth() int { return c.inner.SearchDepth() }
func (c *CachedEvaluator) SearchWidth() int { return c.inner.SearchWidth() }

// Clone gives each worker its own evaluator but shares the cache, which is
// itself concurrency-safe, since identical board shapes are worth caching
// across workers too.
func (c *CachedEvaluator) Clone() Evaluator {
	return &CachedEvaluator{inner: c.inner.Clone(), cache: c.cache}
}

// Close releases the cache's background goroutines.
func (c *CachedEvaluator) Close() {
	c.cache.Close()
}

// hashGameState hashes every input Evaluate actually reads: grid contents,
// the line-clear Stats the weighted sum folds in, and OriginalBlock.Row
// (LastBlockHeight's source), not just the grid.
func hashGameState(s state.GameState) uint64 {
	h := fnv.New64a()
	rows, cols := s.Grid.Rows(), s.Grid.Cols()
	buf := make([]byte, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			buf[c] = byte(s.Grid.At(r, c))
		}
		h.Write(buf)
	}

	var extra [20]byte
	binary.LittleEndian.PutUint32(extra[0:4], uint32(s.Stats.Singles))
	binary.LittleEndian.PutUint32(extra[4:8], uint32(s.Stats.Doubles))
	binary.LittleEndian.PutUint32(extra[8:12], uint32(s.Stats.Triples))
	binary.LittleEndian.PutUint32(extra[12:16], uint32(s.Stats.Tetrises))
	binary.LittleEndian.PutUint32(extra[16:20], uint32(s.OriginalBlock.Row))
	h.Write(extra[:])

	return h.Sum64()
}
