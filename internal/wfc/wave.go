package wfc

import "math"

// Sentinel results from Wave.MinEntropyCell.
const (
	// CellAllDecided means every cell holds exactly one pattern.
	CellAllDecided = -1
	// CellContradiction means some cell has no pattern left.
	CellContradiction = -2
)

// entropyMemo holds the per-cell values needed to compute entropy without
// rescanning the pattern set. p'(pattern) equals the pattern frequency when
// the pattern is still possible in the cell and zero otherwise.
type entropyMemo struct {
	plogpSum []float64 // sum of p'(pattern) * log(p'(pattern))
	sum      []float64 // sum of p'(pattern)
	logSum   []float64 // log of sum
	count    []int     // number of patterns still possible
	entropy  []float64 // the entropy of the cell
}

// Wave holds the pattern possibilities for every cell, plus the entropy
// memoisation updated on every change.
type Wave struct {
	Height int
	Width  int
	Size   int

	frequencies []float64
	plogp       []float64

	// Half the smallest |p*log(p)|, the upper bound of tie-break noise.
	minAbsHalfPlogp float64

	memo       entropyMemo
	impossible bool

	numPatterns int
	data        []bool // data[index*numPatterns+pattern]
}

// NewWave creates a wave where every cell can hold every pattern.
func NewWave(height, width int, frequencies []float64) *Wave {
	numPatterns := len(frequencies)
	size := height * width

	plogp := make([]float64, numPatterns)
	minAbsHalf := math.Inf(1)
	baseEntropy := 0.0
	baseSum := 0.0
	for i, f := range frequencies {
		plogp[i] = f * math.Log(f)
		if half := math.Abs(plogp[i] / 2); half < minAbsHalf {
			minAbsHalf = half
		}
		baseEntropy += plogp[i]
		baseSum += f
	}
	logBaseSum := math.Log(baseSum)

	w := &Wave{
		Height:          height,
		Width:           width,
		Size:            size,
		frequencies:     frequencies,
		plogp:           plogp,
		minAbsHalfPlogp: minAbsHalf,
		numPatterns:     numPatterns,
		data:            make([]bool, size*numPatterns),
		memo: entropyMemo{
			plogpSum: make([]float64, size),
			sum:      make([]float64, size),
			logSum:   make([]float64, size),
			count:    make([]int, size),
			entropy:  make([]float64, size),
		},
	}
	for i := range w.data {
		w.data[i] = true
	}
	for i := 0; i < size; i++ {
		w.memo.plogpSum[i] = baseEntropy
		w.memo.sum[i] = baseSum
		w.memo.logSum[i] = logBaseSum
		w.memo.count[i] = numPatterns
		w.memo.entropy[i] = logBaseSum - baseEntropy/baseSum
	}
	return w
}

// Get reports whether pattern can still be placed in cell index.
func (w *Wave) Get(index, pattern int) bool {
	return w.data[index*w.numPatterns+pattern]
}

// GetAt reports whether pattern can still be placed in cell (i, j).
func (w *Wave) GetAt(i, j, pattern int) bool {
	return w.Get(i*w.Width+j, pattern)
}

// Set changes the admissibility of pattern in cell index and keeps the
// entropy memoisation in sync. Setting an unchanged value is a no-op.
func (w *Wave) Set(index, pattern int, value bool) {
	if w.data[index*w.numPatterns+pattern] == value {
		return
	}
	w.data[index*w.numPatterns+pattern] = value
	w.memo.plogpSum[index] -= w.plogp[pattern]
	w.memo.sum[index] -= w.frequencies[pattern]
	w.memo.logSum[index] = math.Log(w.memo.sum[index])
	w.memo.count[index]--
	w.memo.entropy[index] = w.memo.logSum[index] - w.memo.plogpSum[index]/w.memo.sum[index]
	if w.memo.count[index] == 0 {
		w.impossible = true
	}
}

// SetAt changes the admissibility of pattern in cell (i, j).
func (w *Wave) SetAt(i, j, pattern int, value bool) {
	w.Set(i*w.Width+j, pattern, value)
}

// PatternCount returns the number of patterns still possible in cell index.
func (w *Wave) PatternCount(index int) int {
	return w.memo.count[index]
}

// Entropy returns the memoised entropy of cell index.
func (w *Wave) Entropy(index int) float64 {
	return w.memo.entropy[index]
}

// Impossible reports whether some cell has run out of patterns.
func (w *Wave) Impossible() bool {
	return w.impossible
}

// MinEntropyCell returns the index of the undecided cell with the lowest
// entropy, CellAllDecided if every cell is down to one pattern, or
// CellContradiction if the wave is impossible. A small noise below the
// smallest entropy gap breaks ties without changing the minimum.
func (w *Wave) MinEntropyCell(rng *LCG) int {
	if w.impossible {
		return CellContradiction
	}

	min := math.Inf(1)
	argmin := CellAllDecided

	for i := 0; i < w.Size; i++ {
		// Decided cells have entropy 0 and are skipped.
		if w.memo.count[i] == 1 {
			continue
		}

		entropy := w.memo.entropy[i]

		// Check against the minimum before drawing noise; the draw is not
		// free and most cells fail this test.
		if min >= entropy {
			noise := rng.UniformFloat64(w.minAbsHalfPlogp)
			if entropy+noise < min {
				min = entropy + noise
				argmin = i
			}
		}
	}

	return argmin
}
