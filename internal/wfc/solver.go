// Package wfc implements the core Wave Function Collapse constraint solver:
// a wave of per-cell pattern possibilities, a supporter-counting propagator,
// and an observe/propagate driver loop. Adapters in internal/overlapping and
// internal/tiling build the pattern weights and compatibility tables and
// reuse this solver unchanged.
package wfc

import (
	"errors"

	"github.com/lawnchairsociety/wavecollapse/internal/grid"
)

var (
	ErrContradiction = errors.New("wfc: contradiction - no valid patterns for cell")
	ErrInvalidSize   = errors.New("wfc: invalid grid size")
	ErrNoPatterns    = errors.New("wfc: no patterns given")
)

// observation is the outcome of a single observe step.
type observation int

const (
	observeContinue observation = iota
	observeSuccess
	observeFailure
)

// Solver runs the WFC algorithm over a fixed set of patterns. It is
// single-shot: after Run returns, the solver is spent and a retry needs a
// fresh solver with a new seed.
type Solver struct {
	rng         *LCG
	frequencies []float64
	numPatterns int
	wave        *Wave
	propagator  *Propagator
}

// NewSolver creates a solver for a height x width wave. The frequencies are
// normalized to sum to one; the compatibility table must be symmetric in
// the sense documented on CompatibilityTable.
func NewSolver(height, width int, periodic bool, seed uint64, frequencies []float64, table CompatibilityTable) (*Solver, error) {
	if height <= 0 || width <= 0 {
		return nil, ErrInvalidSize
	}
	if len(frequencies) == 0 || len(frequencies) != len(table) {
		return nil, ErrNoPatterns
	}

	normalized := make([]float64, len(frequencies))
	sum := 0.0
	for _, f := range frequencies {
		sum += f
	}
	for i, f := range frequencies {
		normalized[i] = f / sum
	}

	return &Solver{
		rng:         NewLCG(seed),
		frequencies: normalized,
		numPatterns: len(normalized),
		wave:        NewWave(height, width, normalized),
		propagator:  NewPropagator(height, width, periodic, table),
	}, nil
}

// Wave exposes the solver's wave, mainly for constraint injection checks.
func (s *Solver) Wave() *Wave {
	return s.wave
}

// Ban removes pattern from cell (i, j) before Run is called. Banning an
// already-banned pattern is a no-op. Callers injecting constraints should
// call Propagate once the bans are in place.
func (s *Solver) Ban(i, j, pattern int) {
	if s.wave.GetAt(i, j, pattern) {
		s.wave.SetAt(i, j, pattern, false)
		s.propagator.Add(i, j, pattern)
	}
}

// Propagate drains the propagation worklist once. Used after manual Ban
// sequences; Run calls it after every observation.
func (s *Solver) Propagate() {
	s.propagator.Propagate(s.wave)
}

// Run executes the observe/propagate loop to completion. It returns the
// grid of chosen pattern ids on success and ErrContradiction when some cell
// runs out of patterns. The solver never panics on solver state.
func (s *Solver) Run() (*grid.Grid2D[int], error) {
	for {
		switch s.observe() {
		case observeFailure:
			return nil, ErrContradiction
		case observeSuccess:
			return s.waveToOutput(), nil
		}
		s.propagator.Propagate(s.wave)
	}
}

// observe collapses the minimum-entropy cell to a single pattern sampled
// from the frequency distribution restricted to its allowed set.
func (s *Solver) observe() observation {
	argmin := s.wave.MinEntropyCell(s.rng)

	if argmin == CellContradiction {
		return observeFailure
	}
	if argmin == CellAllDecided {
		return observeSuccess
	}

	// Categorical sample over the patterns still allowed in the cell.
	sum := 0.0
	for k := 0; k < s.numPatterns; k++ {
		if s.wave.Get(argmin, k) {
			sum += s.frequencies[k]
		}
	}

	// If floating-point residue leaves random above zero after every
	// subtraction, the last allowed pattern is chosen.
	random := s.rng.UniformFloat64(sum)
	chosen := -1
	for k := 0; k < s.numPatterns; k++ {
		if !s.wave.Get(argmin, k) {
			continue
		}
		chosen = k
		random -= s.frequencies[k]
		if random <= 0 {
			break
		}
	}

	for k := 0; k < s.numPatterns; k++ {
		if s.wave.Get(argmin, k) != (k == chosen) {
			s.propagator.Add(argmin/s.wave.Width, argmin%s.wave.Width, k)
			s.wave.Set(argmin, k, false)
		}
	}

	return observeContinue
}

// waveToOutput extracts the unique remaining pattern of every cell. Only
// valid once every cell is decided.
func (s *Solver) waveToOutput() *grid.Grid2D[int] {
	output := grid.NewGrid2D[int](s.wave.Height, s.wave.Width)
	for i := 0; i < s.wave.Size; i++ {
		for k := 0; k < s.numPatterns; k++ {
			if s.wave.Get(i, k) {
				output.Data[i] = k
			}
		}
	}
	return output
}
