package grid

import "testing"

func makeGrid(height, width int, values ...int) *Grid2D[int] {
	g := NewGrid2D[int](height, width)
	copy(g.Data, values)
	return g
}

func TestGetSet(t *testing.T) {
	g := NewGrid2D[int](2, 3)
	g.Set(1, 2, 7)
	if got := g.Get(1, 2); got != 7 {
		t.Errorf("Get(1,2) = %d, want 7", got)
	}
	if got := g.Data[1*3+2]; got != 7 {
		t.Errorf("flat storage = %d, want 7", got)
	}
}

func TestReflected(t *testing.T) {
	g := makeGrid(2, 2, 1, 2, 3, 4)
	want := makeGrid(2, 2, 2, 1, 4, 3)
	if got := g.Reflected(); !got.Equal(want) {
		t.Errorf("Reflected() = %v, want %v", got.Data, want.Data)
	}
}

func TestRotated(t *testing.T) {
	g := makeGrid(2, 2, 1, 2, 3, 4)
	want := makeGrid(2, 2, 2, 4, 1, 3)
	if got := g.Rotated(); !got.Equal(want) {
		t.Errorf("Rotated() = %v, want %v", got.Data, want.Data)
	}
}

func TestRotatedSwapsDimensions(t *testing.T) {
	g := makeGrid(2, 3, 1, 2, 3, 4, 5, 6)
	got := g.Rotated()
	if got.Height != 3 || got.Width != 2 {
		t.Fatalf("Rotated() dimensions = %dx%d, want 3x2", got.Height, got.Width)
	}
	want := makeGrid(3, 2, 3, 6, 2, 5, 1, 4)
	if !got.Equal(want) {
		t.Errorf("Rotated() = %v, want %v", got.Data, want.Data)
	}
}

func TestFourRotationsIdentity(t *testing.T) {
	g := makeGrid(2, 3, 1, 2, 3, 4, 5, 6)
	r := g.Rotated().Rotated().Rotated().Rotated()
	if !r.Equal(g) {
		t.Errorf("four rotations = %v, want original %v", r.Data, g.Data)
	}
}

func TestSubGridToroidal(t *testing.T) {
	g := makeGrid(2, 2, 1, 2, 3, 4)
	want := makeGrid(2, 2, 4, 3, 2, 1)
	if got := g.SubGrid(1, 1, 2, 2); !got.Equal(want) {
		t.Errorf("SubGrid(1,1,2,2) = %v, want %v", got.Data, want.Data)
	}
}

func TestSubGridInterior(t *testing.T) {
	g := makeGrid(3, 3, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	want := makeGrid(2, 2, 5, 6, 8, 9)
	if got := g.SubGrid(1, 1, 2, 2); !got.Equal(want) {
		t.Errorf("SubGrid(1,1,2,2) = %v, want %v", got.Data, want.Data)
	}
}

func TestEqual(t *testing.T) {
	a := makeGrid(2, 2, 1, 2, 3, 4)
	b := makeGrid(2, 2, 1, 2, 3, 4)
	c := makeGrid(2, 2, 1, 2, 3, 5)
	d := makeGrid(1, 4, 1, 2, 3, 4)

	if !a.Equal(b) {
		t.Error("identical grids should be equal")
	}
	if a.Equal(c) {
		t.Error("grids with different elements should not be equal")
	}
	if a.Equal(d) {
		t.Error("grids with different dimensions should not be equal")
	}
}

func TestHashConsistency(t *testing.T) {
	identity := func(v int) uint64 { return uint64(v) }

	a := makeGrid(2, 2, 1, 2, 3, 4)
	b := makeGrid(2, 2, 1, 2, 3, 4)
	c := makeGrid(2, 2, 4, 3, 2, 1)

	if a.Hash(identity) != b.Hash(identity) {
		t.Error("equal grids must hash equal")
	}
	if a.Hash(identity) == c.Hash(identity) {
		t.Error("reordered elements should hash differently")
	}
}

func TestGrid3D(t *testing.T) {
	g := NewGrid3D[int](2, 3, 4)
	g.Set(1, 2, 3, 9)
	if got := g.Get(1, 2, 3); got != 9 {
		t.Errorf("Get(1,2,3) = %d, want 9", got)
	}
	if got := g.Data[1*3*4+2*4+3]; got != 9 {
		t.Errorf("flat storage = %d, want 9", got)
	}
}
