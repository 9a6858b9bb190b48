// Package grid provides flat, row-major 2D and 3D arrays used throughout
// the generator. Storing the data in a single slice keeps pattern and
// supporter tables cache-friendly during propagation.
package grid

// Grid2D is a 2D array stored row-major in a single slice.
type Grid2D[T comparable] struct {
	Height int
	Width  int
	Data   []T
}

// NewGrid2D creates a Height x Width grid with zero-valued elements.
func NewGrid2D[T comparable](height, width int) *Grid2D[T] {
	return &Grid2D[T]{
		Height: height,
		Width:  width,
		Data:   make([]T, height*width),
	}
}

// NewGrid2DFilled creates a Height x Width grid with every element set to value.
func NewGrid2DFilled[T comparable](height, width int, value T) *Grid2D[T] {
	g := NewGrid2D[T](height, width)
	for i := range g.Data {
		g.Data[i] = value
	}
	return g
}

// Get returns the element in row i, column j.
func (g *Grid2D[T]) Get(i, j int) T {
	return g.Data[i*g.Width+j]
}

// Set stores value at row i, column j.
func (g *Grid2D[T]) Set(i, j int, value T) {
	g.Data[i*g.Width+j] = value
}

// Reflected returns a copy of the grid mirrored along the vertical axis.
func (g *Grid2D[T]) Reflected() *Grid2D[T] {
	result := NewGrid2D[T](g.Height, g.Width)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			result.Set(y, x, g.Get(y, g.Width-1-x))
		}
	}
	return result
}

// Rotated returns a copy of the grid rotated 90 degrees counter-clockwise.
// Height and width are swapped in the result.
func (g *Grid2D[T]) Rotated() *Grid2D[T] {
	result := NewGrid2D[T](g.Width, g.Height)
	for y := 0; y < g.Width; y++ {
		for x := 0; x < g.Height; x++ {
			result.Set(y, x, g.Get(x, g.Width-1-y))
		}
	}
	return result
}

// SubGrid returns a copy of the height x width window whose top-left corner
// is (y, x). The source is treated as toroidal, so windows may wrap.
func (g *Grid2D[T]) SubGrid(y, x, height, width int) *Grid2D[T] {
	sub := NewGrid2D[T](height, width)
	for ki := 0; ki < height; ki++ {
		for kj := 0; kj < width; kj++ {
			sub.Set(ki, kj, g.Get((y+ki)%g.Height, (x+kj)%g.Width))
		}
	}
	return sub
}

// Equal reports whether two grids have the same dimensions and elements.
func (g *Grid2D[T]) Equal(other *Grid2D[T]) bool {
	if g.Height != other.Height || g.Width != other.Width {
		return false
	}
	for i := range g.Data {
		if g.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}

// Hash combines per-element hashes with a golden-ratio mixing step so that
// grids can key a map during pattern deduplication. Callers supply the
// element hash; equality must still be checked on collision.
func (g *Grid2D[T]) Hash(element func(T) uint64) uint64 {
	seed := uint64(len(g.Data))
	for _, v := range g.Data {
		seed ^= element(v) + 0x9e3779b9 + (seed << 6) + (seed >> 2)
	}
	return seed
}

// Grid3D is a 3D array stored row-major in a single slice.
type Grid3D[T comparable] struct {
	Height int
	Width  int
	Depth  int
	Data   []T
}

// NewGrid3D creates a Height x Width x Depth grid with zero-valued elements.
func NewGrid3D[T comparable](height, width, depth int) *Grid3D[T] {
	return &Grid3D[T]{
		Height: height,
		Width:  width,
		Depth:  depth,
		Data:   make([]T, height*width*depth),
	}
}

// Get returns the element at (i, j, k).
func (g *Grid3D[T]) Get(i, j, k int) T {
	return g.Data[i*g.Width*g.Depth+j*g.Depth+k]
}

// Set stores value at (i, j, k).
func (g *Grid3D[T]) Set(i, j, k int, value T) {
	g.Data[i*g.Width*g.Depth+j*g.Depth+k] = value
}

// Equal reports whether two grids have the same dimensions and elements.
func (g *Grid3D[T]) Equal(other *Grid3D[T]) bool {
	if g.Height != other.Height || g.Width != other.Width || g.Depth != other.Depth {
		return false
	}
	for i := range g.Data {
		if g.Data[i] != other.Data[i] {
			return false
		}
	}
	return true
}
