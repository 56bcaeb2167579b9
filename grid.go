package tessera

import "fmt"

// Grid is a fixed-size, row-major 2D array of optional values. Cells start
// absent; reading an absent or out-of-range cell is an error rather than a
// zero value.
type Grid[T any] struct {
	width, height int
	cells         []T
	present       []bool
}

// NewGrid creates a width x height grid with every cell absent.
// Negative dimensions are treated as zero.
func NewGrid[T any](width, height int) *Grid[T] {
	width, height = max(width, 0), max(height, 0)
	return &Grid[T]{
		width:   width,
		height:  height,
		cells:   make([]T, width*height),
		present: make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// InBounds reports whether (x, y) addresses a cell of g.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid[T]) index(x, y int) (int, error) {
	if !g.InBounds(x, y) {
		return 0, fmt.Errorf("tessera: grid %dx%d: cell (%d, %d): %w", g.width, g.height, x, y, ErrOutOfBounds)
	}
	return y*g.width + x, nil
}

// Get returns a copy of the value stored at (x, y).
func (g *Grid[T]) Get(x, y int) (T, error) {
	var zero T
	i, err := g.index(x, y)
	if err != nil {
		return zero, err
	}
	if !g.present[i] {
		return zero, fmt.Errorf("tessera: grid cell (%d, %d): %w", x, y, ErrEmptyCell)
	}
	return g.cells[i], nil
}

// Set stores v at (x, y), replacing any previous value.
func (g *Grid[T]) Set(x, y int, v T) error {
	i, err := g.index(x, y)
	if err != nil {
		return err
	}
	g.cells[i] = v
	g.present[i] = true
	return nil
}

// Clear makes the cell at (x, y) absent again.
func (g *Grid[T]) Clear(x, y int) error {
	i, err := g.index(x, y)
	if err != nil {
		return err
	}
	var zero T
	g.cells[i] = zero
	g.present[i] = false
	return nil
}

// Clone returns a cell-by-cell copy of g. Absent cells stay absent.
func (g *Grid[T]) Clone() *Grid[T] {
	c := &Grid[T]{
		width:   g.width,
		height:  g.height,
		cells:   make([]T, len(g.cells)),
		present: make([]bool, len(g.present)),
	}
	copy(c.cells, g.cells)
	copy(c.present, g.present)
	return c
}
