// Package tiling implements the simple-tiled adapter: a fixed tile set with
// oriented variants and explicit adjacency rules, expanded across the
// dihedral group into the compatibility table the core solver expects.
package tiling

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/wavecollapse/internal/grid"
	"github.com/lawnchairsociety/wavecollapse/internal/wfc"
)

var (
	ErrNoTiles     = errors.New("tiling: no tiles given")
	ErrBadNeighbor = errors.New("tiling: neighbor rule references unknown tile or orientation")
)

// Neighbor is an adjacency rule: tile LeftTile in orientation LeftOrient
// may sit immediately to the left of RightTile in orientation RightOrient.
type Neighbor struct {
	LeftTile    int
	LeftOrient  int
	RightTile   int
	RightOrient int
}

// Options configures the tiling model.
type Options struct {
	PeriodicOutput bool
}

// Model generates a tiled bitmap with the WFC algorithm.
type Model[T comparable] struct {
	tiles   []Tile[T]
	options Options

	// idToTile maps an oriented-tile id to (tile index, orientation).
	idToTile [][2]int
	// orientedIDs maps tile index and orientation to the oriented-tile id.
	orientedIDs [][]int

	solver *wfc.Solver

	// Height and Width of the wave, in tiles.
	Height int
	Width  int
}

// New builds the oriented-tile id space, expands the neighbor rules, and
// constructs the solver.
func New[T comparable](tiles []Tile[T], neighbors []Neighbor, height, width int, options Options, seed uint64) (*Model[T], error) {
	if len(tiles) == 0 {
		return nil, ErrNoTiles
	}

	idToTile, orientedIDs := generateOrientedIDs(tiles)

	table, err := generateTable(neighbors, tiles, idToTile, orientedIDs)
	if err != nil {
		return nil, err
	}

	weights := make([]float64, 0, len(idToTile))
	for _, tile := range tiles {
		for range tile.Orientations {
			weights = append(weights, tile.Weight/float64(len(tile.Orientations)))
		}
	}

	solver, err := wfc.NewSolver(height, width, options.PeriodicOutput, seed, weights, table)
	if err != nil {
		return nil, fmt.Errorf("tiling: %w", err)
	}

	return &Model[T]{
		tiles:       tiles,
		options:     options,
		idToTile:    idToTile,
		orientedIDs: orientedIDs,
		solver:      solver,
		Height:      height,
		Width:       width,
	}, nil
}

// generateOrientedIDs enumerates every (tile, orientation) pair into a flat
// id space and builds both lookup directions.
func generateOrientedIDs[T comparable](tiles []Tile[T]) ([][2]int, [][]int) {
	var idToTile [][2]int
	orientedIDs := make([][]int, len(tiles))

	id := 0
	for i, tile := range tiles {
		for j := range tile.Orientations {
			idToTile = append(idToTile, [2]int{i, j})
			orientedIDs[i] = append(orientedIDs[i], id)
			id++
		}
	}
	return idToTile, orientedIDs
}

// actionDirections maps each of the 8 group actions to the direction of the
// transformed "right-of" relation. This is the orbit of direction right
// under the dihedral group.
var actionDirections = [8]int{
	wfc.DirRight, wfc.DirUp, wfc.DirLeft, wfc.DirDown,
	wfc.DirLeft, wfc.DirDown, wfc.DirRight, wfc.DirUp,
}

// generateTable expands each neighbor rule across the 8 group actions into
// a dense adjacency relation and converts it to the sparse form the
// propagator expects. Every insertion also records the opposite-direction
// entry so the table stays symmetric.
func generateTable[T comparable](neighbors []Neighbor, tiles []Tile[T], idToTile [][2]int, orientedIDs [][]int) (wfc.CompatibilityTable, error) {
	numOriented := len(idToTile)
	dense := make([][4][]bool, numOriented)
	for i := range dense {
		for d := 0; d < 4; d++ {
			dense[i][d] = make([]bool, numOriented)
		}
	}

	for _, rule := range neighbors {
		if rule.LeftTile < 0 || rule.LeftTile >= len(tiles) || rule.RightTile < 0 || rule.RightTile >= len(tiles) {
			return nil, ErrBadNeighbor
		}
		left := tiles[rule.LeftTile]
		right := tiles[rule.RightTile]
		if rule.LeftOrient < 0 || rule.LeftOrient >= len(left.Orientations) ||
			rule.RightOrient < 0 || rule.RightOrient >= len(right.Orientations) {
			return nil, ErrBadNeighbor
		}

		leftActions := left.Symmetry.actionMap()
		rightActions := right.Symmetry.actionMap()

		for action := 0; action < 8; action++ {
			id1 := orientedIDs[rule.LeftTile][leftActions[action][rule.LeftOrient]]
			id2 := orientedIDs[rule.RightTile][rightActions[action][rule.RightOrient]]
			direction := actionDirections[action]
			dense[id1][direction][id2] = true
			dense[id2][wfc.Opposite(direction)][id1] = true
		}
	}

	table := make(wfc.CompatibilityTable, numOriented)
	for i := 0; i < numOriented; i++ {
		for d := 0; d < 4; d++ {
			for j := 0; j < numOriented; j++ {
				if dense[i][d][j] {
					table[i][d] = append(table[i][d], j)
				}
			}
		}
	}
	return table, nil
}

// setTile bans every oriented tile except id at wave cell (i, j).
func (m *Model[T]) setTile(id, i, j int) {
	for p := range m.idToTile {
		if p != id {
			m.solver.Ban(i, j, p)
		}
	}
}

// SetTile forces wave cell (i, j) to the given tile and orientation. It
// returns false for out-of-range inputs, leaving the wave unchanged.
func (m *Model[T]) SetTile(tile, orientation, i, j int) bool {
	if tile < 0 || tile >= len(m.orientedIDs) {
		return false
	}
	if orientation < 0 || orientation >= len(m.orientedIDs[tile]) {
		return false
	}
	if i < 0 || i >= m.Height || j < 0 || j >= m.Width {
		return false
	}
	m.setTile(m.orientedIDs[tile][orientation], i, j)
	return true
}

// Run executes the solver and paints each cell's oriented tile into the
// output bitmap. It returns wfc.ErrContradiction when the solve fails.
func (m *Model[T]) Run() (*grid.Grid2D[T], error) {
	ids, err := m.solver.Run()
	if err != nil {
		return nil, err
	}
	return m.toImage(ids), nil
}

// toImage paints the N x N image of each cell's tile at (i*N, j*N).
func (m *Model[T]) toImage(ids *grid.Grid2D[int]) *grid.Grid2D[T] {
	size := m.tiles[0].Orientations[0].Height
	output := grid.NewGrid2D[T](size*ids.Height, size*ids.Width)
	for i := 0; i < ids.Height; i++ {
		for j := 0; j < ids.Width; j++ {
			pair := m.idToTile[ids.Get(i, j)]
			image := m.tiles[pair[0]].Orientations[pair[1]]
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					output.Set(i*size+y, j*size+x, image.Get(y, x))
				}
			}
		}
	}
	return output
}
