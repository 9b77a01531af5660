// Package heightfield synthesizes the scalar relief grid of a puff effect.
package heightfield

// Grid is a square grid of scalar values stored row-major.
type Grid struct {
	Size int
	Data []float64
}

// NewGrid allocates a zeroed size x size grid.
func NewGrid(size int) *Grid {
	if size < 0 {
		size = 0
	}
	return &Grid{Size: size, Data: make([]float64, size*size)}
}

// Valid reports whether the grid is non-empty and square.
func (g *Grid) Valid() bool {
	return g != nil && g.Size > 0 && len(g.Data) == g.Size*g.Size
}

// At returns the value at (x, y). Coordinates must be in range.
func (g *Grid) At(x, y int) float64 {
	return g.Data[y*g.Size+x]
}

// Set stores v at (x, y).
func (g *Grid) Set(x, y int, v float64) {
	g.Data[y*g.Size+x] = v
}

// AtClamped returns the value at (x, y) with coordinates clamped to the edge.
func (g *Grid) AtClamped(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= g.Size {
		x = g.Size - 1
	}
	if y < 0 {
		y = 0
	} else if y >= g.Size {
		y = g.Size - 1
	}
	return g.Data[y*g.Size+x]
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{Size: g.Size, Data: make([]float64, len(g.Data))}
	copy(c.Data, g.Data)
	return c
}
