package tiling

import (
	"fmt"

	"github.com/lawnchairsociety/wavecollapse/internal/grid"
)

// Symmetry describes how a tile behaves under rotation and reflection. The
// class determines how many distinct orientations the tile has.
type Symmetry int

const (
	SymmetryX Symmetry = iota // fully symmetric, 1 orientation
	SymmetryI                 // straight, 2 orientations
	SymmetryB                 // backslash diagonal, 2 orientations
	SymmetryT                 // T junction, 4 orientations
	SymmetryL                 // corner, 4 orientations
	SymmetryP                 // no symmetry, 8 orientations
)

// ParseSymmetry converts the textual class used in data.xml.
func ParseSymmetry(s string) (Symmetry, error) {
	switch s {
	case "X":
		return SymmetryX, nil
	case "I":
		return SymmetryI, nil
	case `\`:
		return SymmetryB, nil
	case "T":
		return SymmetryT, nil
	case "L":
		return SymmetryL, nil
	case "P":
		return SymmetryP, nil
	}
	return SymmetryX, fmt.Errorf("tiling: unknown symmetry class %q", s)
}

// String returns the textual class.
func (s Symmetry) String() string {
	switch s {
	case SymmetryX:
		return "X"
	case SymmetryI:
		return "I"
	case SymmetryB:
		return `\`
	case SymmetryT:
		return "T"
	case SymmetryL:
		return "L"
	case SymmetryP:
		return "P"
	default:
		return "unknown"
	}
}

// OrientationCount returns the number of distinct orientations for the class.
func (s Symmetry) OrientationCount() int {
	switch s {
	case SymmetryX:
		return 1
	case SymmetryI, SymmetryB:
		return 2
	case SymmetryT, SymmetryL:
		return 4
	default:
		return 8
	}
}

// rotationMap maps an orientation id to the id obtained by rotating the
// tile 90 degrees counter-clockwise.
func (s Symmetry) rotationMap() []int {
	switch s {
	case SymmetryX:
		return []int{0}
	case SymmetryI, SymmetryB:
		return []int{1, 0}
	case SymmetryT, SymmetryL:
		return []int{1, 2, 3, 0}
	default:
		return []int{1, 2, 3, 0, 5, 6, 7, 4}
	}
}

// reflectionMap maps an orientation id to the id obtained by reflecting the
// tile along the x axis.
func (s Symmetry) reflectionMap() []int {
	switch s {
	case SymmetryX:
		return []int{0}
	case SymmetryI:
		return []int{0, 1}
	case SymmetryB:
		return []int{1, 0}
	case SymmetryT:
		return []int{0, 3, 2, 1}
	case SymmetryL:
		return []int{1, 0, 3, 2}
	default:
		return []int{4, 7, 6, 5, 0, 3, 2, 1}
	}
}

// actionMap composes rotations and reflections into the 8 dihedral group
// actions: actions 0..3 are k*90 degree rotations, actions 4..7 are the
// same preceded by a reflection along the x axis. actionMap[a][o] is the
// orientation of a tile in orientation o after action a.
func (s Symmetry) actionMap() [8][]int {
	rotation := s.rotationMap()
	reflection := s.reflectionMap()
	size := len(rotation)

	var actions [8][]int
	actions[0] = make([]int, size)
	for i := 0; i < size; i++ {
		actions[0][i] = i
	}
	for a := 1; a < 4; a++ {
		actions[a] = make([]int, size)
		for i := 0; i < size; i++ {
			actions[a][i] = rotation[actions[a-1][i]]
		}
	}
	actions[4] = make([]int, size)
	for i := 0; i < size; i++ {
		actions[4][i] = reflection[actions[0][i]]
	}
	for a := 5; a < 8; a++ {
		actions[a] = make([]int, size)
		for i := 0; i < size; i++ {
			actions[a][i] = rotation[actions[a-1][i]]
		}
	}
	return actions
}

// Tile is a placeable tile with its distinct orientations.
type Tile[T comparable] struct {
	// Orientations holds the tile image for each distinct orientation.
	Orientations []*grid.Grid2D[T]
	Symmetry     Symmetry
	// Weight is the tile's total mass in the distribution; it is split
	// evenly across the orientations.
	Weight float64
}

// NewTile builds a tile from its base orientation, generating the other
// orientations from the symmetry class.
func NewTile[T comparable](base *grid.Grid2D[T], symmetry Symmetry, weight float64) Tile[T] {
	return Tile[T]{
		Orientations: generateOriented(base, symmetry),
		Symmetry:     symmetry,
		Weight:       weight,
	}
}

// NewTileOriented builds a tile whose orientations are already expanded,
// for tile sets that ship one image per orientation.
func NewTileOriented[T comparable](orientations []*grid.Grid2D[T], symmetry Symmetry, weight float64) Tile[T] {
	return Tile[T]{
		Orientations: orientations,
		Symmetry:     symmetry,
		Weight:       weight,
	}
}

// generateOriented produces the distinct orientations of a base image under
// the symmetry class.
func generateOriented[T comparable](base *grid.Grid2D[T], symmetry Symmetry) []*grid.Grid2D[T] {
	oriented := []*grid.Grid2D[T]{base}
	current := base

	switch symmetry {
	case SymmetryI, SymmetryB:
		oriented = append(oriented, base.Rotated())
	case SymmetryT, SymmetryL:
		for k := 0; k < 3; k++ {
			current = current.Rotated()
			oriented = append(oriented, current)
		}
	case SymmetryP:
		for k := 0; k < 3; k++ {
			current = current.Rotated()
			oriented = append(oriented, current)
		}
		current = current.Rotated().Reflected()
		oriented = append(oriented, current)
		for k := 0; k < 3; k++ {
			current = current.Rotated()
			oriented = append(oriented, current)
		}
	}

	return oriented
}
