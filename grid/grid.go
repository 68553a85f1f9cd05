package grid

// Grid is a fixed-size, ordered matrix of cell values. Row 0 is the top.
// A Grid is cheap to copy and never aliases its backing storage with
// another Grid — every mutating operation returns a new Grid.
type Grid struct {
	rows, cols int
	cells      []Kind
}

// New returns an empty rows x cols grid.
func New(rows, cols int) Grid {
	return Grid{rows: rows, cols: cols, cells: make([]Kind, rows*cols)}
}

// Rows returns the grid's immutable row count.
func (g Grid) Rows() int { return g.rows }

// Cols returns the grid's immutable column count.
func (g Grid) Cols() int { return g.cols }

// At returns the cell value at (row, col). Out-of-range reads return Empty.
func (g Grid) At(row, col int) Kind {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Empty
	}
	return g.cells[row*g.cols+col]
}

// Clone returns an independent copy of g with its own backing slice.
func (g Grid) Clone() Grid {
	cells := make([]Kind, len(g.cells))
	copy(cells, g.cells)
	return Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// set mutates the clone's backing slice in place. Only ever called on a
// Grid that was just produced by Clone and has not yet been published,
// preserving the "no aliasing" invariant for any Grid a caller can observe.
func (g Grid) set(row, col int, k Kind) {
	g.cells[row*g.cols+col] = k
}

// RowFull reports whether every cell in row is non-Empty.
func (g Grid) RowFull(row int) bool {
	for c := 0; c < g.cols; c++ {
		if g.At(row, c) == Empty {
			return false
		}
	}
	return true
}

// RowEmpty reports whether every cell in row is Empty.
func (g Grid) RowEmpty(row int) bool {
	for c := 0; c < g.cols; c++ {
		if g.At(row, c) != Empty {
			return false
		}
	}
	return true
}

// FirstOccupiedRow returns the least row index containing a non-Empty cell,
// or g.rows if the grid is entirely empty.
func (g Grid) FirstOccupiedRow() int {
	for r := 0; r < g.rows; r++ {
		if !g.RowEmpty(r) {
			return r
		}
	}
	return g.rows
}

// WithShapeSolidified returns a new Grid with the shape's occupied cells
// stamped in at (row, col) using kind. Callers must have already validated
// the placement; out-of-range cells are silently ignored.
func (g Grid) WithShapeSolidified(kind Kind, shape Shape, row, col int) Grid {
	out := g.Clone()
	for r := 0; r < shape.Rows(); r++ {
		for c := 0; c < shape.Cols(); c++ {
			if !shape.Occupied(r, c) {
				continue
			}
			gr, gc := row+r, col+c
			if gr < 0 || gr >= out.rows || gc < 0 || gc >= out.cols {
				continue
			}
			out.set(gr, gc, kind)
		}
	}
	return out
}

// ClearFullRows removes every full row, shifting the remaining rows down
// and inserting empty rows at the top. It returns the new Grid and the
// count of rows cleared.
func (g Grid) ClearFullRows() (Grid, int) {
	kept := make([][]Kind, 0, g.rows)
	cleared := 0
	for r := 0; r < g.rows; r++ {
		if g.RowFull(r) {
			cleared++
			continue
		}
		row := make([]Kind, g.cols)
		copy(row, g.cells[r*g.cols:(r+1)*g.cols])
		kept = append(kept, row)
	}
	out := New(g.rows, g.cols)
	offset := g.rows - len(kept)
	for i, row := range kept {
		copy(out.cells[(offset+i)*g.cols:(offset+i+1)*g.cols], row)
	}
	return out, cleared
}

// WithRowsInserted returns a new Grid with rows inserted at the bottom,
// shifting existing content up. Rows above the top are discarded (game-over
// is left for the caller to detect via the returned grid's occupancy).
func (g Grid) WithRowsInserted(rows [][]Kind) Grid {
	out := New(g.rows, g.cols)
	shift := len(rows)
	for r := shift; r < g.rows; r++ {
		copy(out.cells[(r-shift)*g.cols:(r-shift+1)*g.cols], g.cells[r*g.cols:(r+1)*g.cols])
	}
	for i, row := range rows {
		destRow := g.rows - shift + i
		if destRow < 0 || destRow >= g.rows {
			continue
		}
		copy(out.cells[destRow*g.cols:(destRow+1)*g.cols], row)
	}
	return out
}
