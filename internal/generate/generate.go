// Package generate runs catalog entries through the adapters with the
// retry-on-contradiction policy shared by the command binaries: each
// screenshot gets up to a fixed number of fresh seeds before the sample is
// reported as failed.
package generate

import (
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/wavecollapse/internal/grid"
	"github.com/lawnchairsociety/wavecollapse/internal/imaging"
	"github.com/lawnchairsociety/wavecollapse/internal/overlapping"
	"github.com/lawnchairsociety/wavecollapse/internal/samples"
	"github.com/lawnchairsociety/wavecollapse/internal/tiling"
	"github.com/lawnchairsociety/wavecollapse/internal/wfc"
)

// ErrAllAttemptsFailed means every seed ended in a contradiction.
var ErrAllAttemptsFailed = errors.New("generate: all attempts ended in contradiction")

// Attempt reports one solve attempt to the observer.
type Attempt struct {
	Seed     uint64
	Number   int
	Success  bool
	Duration time.Duration
}

// Result is a successful generation.
type Result struct {
	Image *imagingGrid
	Attempt
}

type imagingGrid = grid.Grid2D[imaging.RGB]

// Overlapping runs one overlapping catalog entry against the input bitmap.
// seeds yields a fresh seed per attempt; observe (optional) is called after
// every attempt, successful or not.
func Overlapping(entry samples.Overlapping, input *imagingGrid, attempts int, seeds func() uint64, observe func(Attempt)) (*Result, error) {
	options := overlapping.Options{
		PeriodicInput:  entry.PeriodicInput,
		PeriodicOutput: entry.Periodic,
		OutHeight:      entry.Height,
		OutWidth:       entry.Width,
		Symmetry:       entry.Symmetry,
		Ground:         entry.Ground,
		PatternSize:    entry.N,
	}

	run := func(seed uint64) (*imagingGrid, error) {
		model, err := overlapping.New(input, options, seed, imaging.HashRGB)
		if err != nil {
			return nil, err
		}
		return model.Run()
	}
	return retry(run, attempts, seeds, observe)
}

// SimpleTiled runs one simpletiled catalog entry against a loaded tileset.
func SimpleTiled(entry samples.SimpleTiled, set *samples.Tileset, attempts int, seeds func() uint64, observe func(Attempt)) (*Result, error) {
	options := tiling.Options{PeriodicOutput: entry.Periodic}

	run := func(seed uint64) (*imagingGrid, error) {
		model, err := tiling.New(set.Tiles, set.Neighbors, entry.Height, entry.Width, options, seed)
		if err != nil {
			return nil, err
		}
		return model.Run()
	}
	return retry(run, attempts, seeds, observe)
}

// retry tries fresh seeds until one solve succeeds or attempts run out.
// Configuration errors abort immediately; only contradictions are retried.
func retry(run func(uint64) (*imagingGrid, error), attempts int, seeds func() uint64, observe func(Attempt)) (*Result, error) {
	for n := 1; n <= attempts; n++ {
		seed := seeds()
		start := time.Now()
		image, err := run(seed)
		attempt := Attempt{
			Seed:     seed,
			Number:   n,
			Success:  err == nil,
			Duration: time.Since(start),
		}
		if observe != nil {
			observe(attempt)
		}
		if err == nil {
			return &Result{Image: image, Attempt: attempt}, nil
		}
		if !errors.Is(err, wfc.ErrContradiction) {
			return nil, fmt.Errorf("generate: %w", err)
		}
	}
	return nil, ErrAllAttemptsFailed
}
