// Package overlapping implements the overlapping-model adapter: it slices an
// input bitmap into N x N patterns (optionally expanded by the dihedral
// symmetry group), derives pattern weights and overlap compatibility, and
// feeds the core solver.
package overlapping

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/wavecollapse/internal/grid"
	"github.com/lawnchairsociety/wavecollapse/internal/wfc"
)

var (
	ErrInputTooSmall   = errors.New("overlapping: input smaller than pattern size")
	ErrInvalidSymmetry = errors.New("overlapping: symmetry must be in 1..8")
	ErrNoGroundPattern = errors.New("overlapping: ground pattern not found")
)

// Options configures the overlapping model.
type Options struct {
	PeriodicInput  bool // the input bitmap is toric
	PeriodicOutput bool // the output bitmap is toric
	OutHeight      int  // output height in pixels
	OutWidth       int  // output width in pixels
	Symmetry       int  // how many of the 8 dihedral symmetries to use, 1..8
	Ground         bool // pin the lowest-middle input pattern to the floor
	PatternSize    int  // N, the pattern edge length in pixels
}

// WaveHeight returns the wave height for these options. Non-periodic output
// shrinks the wave so every pattern fits inside the bitmap.
func (o Options) WaveHeight() int {
	if o.PeriodicOutput {
		return o.OutHeight
	}
	return o.OutHeight - o.PatternSize + 1
}

// WaveWidth returns the wave width for these options.
func (o Options) WaveWidth() int {
	if o.PeriodicOutput {
		return o.OutWidth
	}
	return o.OutWidth - o.PatternSize + 1
}

// Model generates a new bitmap resembling the input with the overlapping
// WFC algorithm. T is the pixel type.
type Model[T comparable] struct {
	input    *grid.Grid2D[T]
	options  Options
	patterns []*grid.Grid2D[T]
	solver   *wfc.Solver
}

// New extracts patterns from input, builds the compatibility table, and
// constructs the solver. The element hash feeds pattern deduplication; it
// must be consistent with element equality.
func New[T comparable](input *grid.Grid2D[T], options Options, seed uint64, hash func(T) uint64) (*Model[T], error) {
	if options.Symmetry < 1 || options.Symmetry > 8 {
		return nil, ErrInvalidSymmetry
	}
	if !options.PeriodicInput && (input.Height < options.PatternSize || input.Width < options.PatternSize) {
		return nil, ErrInputTooSmall
	}

	patterns, weights := extractPatterns(input, options, hash)
	table := generateCompatible(patterns)

	solver, err := wfc.NewSolver(options.WaveHeight(), options.WaveWidth(), options.PeriodicOutput, seed, weights, table)
	if err != nil {
		return nil, fmt.Errorf("overlapping: %w", err)
	}

	m := &Model[T]{
		input:    input,
		options:  options,
		patterns: patterns,
		solver:   solver,
	}

	if options.Ground {
		if err := m.initGround(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// extractPatterns slides an N x N window over the input, expands each window
// by the first Symmetry elements of the dihedral group, and deduplicates by
// structural hash and equality. Weights count occurrences.
func extractPatterns[T comparable](input *grid.Grid2D[T], options Options, hash func(T) uint64) ([]*grid.Grid2D[T], []float64) {
	var patterns []*grid.Grid2D[T]
	var weights []float64

	// Hash buckets: collisions fall back to structural equality.
	index := make(map[uint64][]int)

	maxI := input.Height - options.PatternSize + 1
	maxJ := input.Width - options.PatternSize + 1
	if options.PeriodicInput {
		maxI = input.Height
		maxJ = input.Width
	}

	symmetries := make([]*grid.Grid2D[T], 8)
	for i := 0; i < maxI; i++ {
		for j := 0; j < maxJ; j++ {
			symmetries[0] = input.SubGrid(i, j, options.PatternSize, options.PatternSize)
			symmetries[1] = symmetries[0].Reflected()
			symmetries[2] = symmetries[0].Rotated()
			symmetries[3] = symmetries[2].Reflected()
			symmetries[4] = symmetries[2].Rotated()
			symmetries[5] = symmetries[4].Reflected()
			symmetries[6] = symmetries[4].Rotated()
			symmetries[7] = symmetries[6].Reflected()

			for k := 0; k < options.Symmetry; k++ {
				candidate := symmetries[k]
				key := candidate.Hash(hash)
				found := false
				for _, id := range index[key] {
					if patterns[id].Equal(candidate) {
						weights[id]++
						found = true
						break
					}
				}
				if !found {
					index[key] = append(index[key], len(patterns))
					patterns = append(patterns, candidate)
					weights = append(weights, 1)
				}
			}
		}
	}

	return patterns, weights
}

// agrees reports whether b may sit at offset (dy, dx) from a: every pixel in
// the overlap of the two footprints must match.
func agrees[T comparable](a, b *grid.Grid2D[T], dy, dx int) bool {
	xmin, xmax := 0, a.Width
	if dx < 0 {
		xmax = dx + b.Width
	} else {
		xmin = dx
	}
	ymin, ymax := 0, a.Height
	if dy < 0 {
		ymax = dy + b.Height
	} else {
		ymin = dy
	}

	for y := ymin; y < ymax; y++ {
		for x := xmin; x < xmax; x++ {
			if a.Get(y, x) != b.Get(y-dy, x-dx) {
				return false
			}
		}
	}
	return true
}

// generateCompatible precomputes agrees for every ordered pattern pair and
// direction offset.
func generateCompatible[T comparable](patterns []*grid.Grid2D[T]) wfc.CompatibilityTable {
	table := make(wfc.CompatibilityTable, len(patterns))
	for p := range patterns {
		for direction := 0; direction < 4; direction++ {
			for q := range patterns {
				if agrees(patterns[p], patterns[q], wfc.DirectionsY[direction], wfc.DirectionsX[direction]) {
					table[p][direction] = append(table[p][direction], q)
				}
			}
		}
	}
	return table
}

// groundPatternID finds the pattern cut from the bottom-middle of the input.
func (m *Model[T]) groundPatternID() (int, error) {
	ground := m.input.SubGrid(m.input.Height-1, m.input.Width/2, m.options.PatternSize, m.options.PatternSize)
	for id, pattern := range m.patterns {
		if pattern.Equal(ground) {
			return id, nil
		}
	}
	return 0, ErrNoGroundPattern
}

// initGround pins the ground pattern to the bottom wave row, removes it
// everywhere else, and propagates once.
func (m *Model[T]) initGround() error {
	groundID, err := m.groundPatternID()
	if err != nil {
		return err
	}

	bottom := m.options.WaveHeight() - 1
	for j := 0; j < m.options.WaveWidth(); j++ {
		m.setPattern(groundID, bottom, j)
	}
	for i := 0; i < bottom; i++ {
		for j := 0; j < m.options.WaveWidth(); j++ {
			m.solver.Ban(i, j, groundID)
		}
	}

	m.solver.Propagate()
	return nil
}

// setPattern bans every pattern except id at wave cell (i, j).
func (m *Model[T]) setPattern(id, i, j int) {
	for p := range m.patterns {
		if p != id {
			m.solver.Ban(i, j, p)
		}
	}
}

// SetPattern forces wave cell (i, j) to the given pattern. It returns false
// when the pattern is unknown or the coordinates are outside the wave; the
// wave is unchanged in that case.
func (m *Model[T]) SetPattern(pattern *grid.Grid2D[T], i, j int) bool {
	if i < 0 || i >= m.options.WaveHeight() || j < 0 || j >= m.options.WaveWidth() {
		return false
	}
	for id, p := range m.patterns {
		if p.Equal(pattern) {
			m.setPattern(id, i, j)
			return true
		}
	}
	return false
}

// Run executes the solver and reconstructs the output bitmap. It returns
// wfc.ErrContradiction when the solve fails; callers retry with a new seed.
func (m *Model[T]) Run() (*grid.Grid2D[T], error) {
	result, err := m.solver.Run()
	if err != nil {
		return nil, err
	}
	return m.toImage(result), nil
}

// toImage converts a grid of pattern ids into pixels. With periodic output
// every cell contributes its top-left pixel. Otherwise the rightmost and
// bottommost seams are filled from the border patterns so each contributes
// its full N x N footprint at the edges.
func (m *Model[T]) toImage(ids *grid.Grid2D[int]) *grid.Grid2D[T] {
	output := grid.NewGrid2D[T](m.options.OutHeight, m.options.OutWidth)
	waveHeight := m.options.WaveHeight()
	waveWidth := m.options.WaveWidth()

	for y := 0; y < waveHeight; y++ {
		for x := 0; x < waveWidth; x++ {
			output.Set(y, x, m.patterns[ids.Get(y, x)].Get(0, 0))
		}
	}
	if m.options.PeriodicOutput {
		return output
	}

	for y := 0; y < waveHeight; y++ {
		pattern := m.patterns[ids.Get(y, waveWidth-1)]
		for dx := 1; dx < m.options.PatternSize; dx++ {
			output.Set(y, waveWidth-1+dx, pattern.Get(0, dx))
		}
	}
	for x := 0; x < waveWidth; x++ {
		pattern := m.patterns[ids.Get(waveHeight-1, x)]
		for dy := 1; dy < m.options.PatternSize; dy++ {
			output.Set(waveHeight-1+dy, x, pattern.Get(dy, 0))
		}
	}
	corner := m.patterns[ids.Get(waveHeight-1, waveWidth-1)]
	for dy := 1; dy < m.options.PatternSize; dy++ {
		for dx := 1; dx < m.options.PatternSize; dx++ {
			output.Set(waveHeight-1+dy, waveWidth-1+dx, corner.Get(dy, dx))
		}
	}
	return output
}

// Patterns returns the deduplicated pattern list, in id order.
func (m *Model[T]) Patterns() []*grid.Grid2D[T] {
	return m.patterns
}
