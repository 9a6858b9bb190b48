package wfc

import (
	"math"
	"testing"
)

func uniformFrequencies(n int) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = 1.0 / float64(n)
	}
	return f
}

// checkEntropyIdentity recomputes every cell's entropy from scratch and
// compares it with the memoised value.
func checkEntropyIdentity(t *testing.T, w *Wave, frequencies []float64) {
	t.Helper()
	for index := 0; index < w.Size; index++ {
		sum := 0.0
		plogpSum := 0.0
		for p := range frequencies {
			if w.Get(index, p) {
				sum += frequencies[p]
				plogpSum += frequencies[p] * math.Log(frequencies[p])
			}
		}
		want := math.Log(sum) - plogpSum/sum
		if got := w.Entropy(index); math.Abs(got-want) > 1e-9 {
			t.Errorf("cell %d entropy = %g, want %g", index, got, want)
		}
	}
}

func TestNewWaveAllowsEverything(t *testing.T) {
	frequencies := uniformFrequencies(3)
	w := NewWave(2, 2, frequencies)

	for index := 0; index < w.Size; index++ {
		for p := range frequencies {
			if !w.Get(index, p) {
				t.Errorf("cell %d pattern %d should start allowed", index, p)
			}
		}
		if got := w.PatternCount(index); got != 3 {
			t.Errorf("cell %d count = %d, want 3", index, got)
		}
	}
	checkEntropyIdentity(t, w, frequencies)
}

func TestSetMaintainsEntropyMemo(t *testing.T) {
	frequencies := []float64{0.5, 0.3, 0.2}
	w := NewWave(2, 3, frequencies)

	w.SetAt(0, 0, 1, false)
	w.SetAt(1, 2, 0, false)
	w.SetAt(1, 2, 2, false)

	checkEntropyIdentity(t, w, frequencies)

	if got := w.PatternCount(0); got != 2 {
		t.Errorf("cell 0 count = %d, want 2", got)
	}
	if got := w.PatternCount(1*3 + 2); got != 1 {
		t.Errorf("cell (1,2) count = %d, want 1", got)
	}
}

func TestSetUnchangedIsNoOp(t *testing.T) {
	frequencies := uniformFrequencies(2)
	w := NewWave(1, 1, frequencies)

	w.Set(0, 0, false)
	countAfterFirst := w.PatternCount(0)
	entropyAfterFirst := w.Entropy(0)

	// Disallowing again must not touch the memo.
	w.Set(0, 0, false)
	if got := w.PatternCount(0); got != countAfterFirst {
		t.Errorf("count after repeated set = %d, want %d", got, countAfterFirst)
	}
	if got := w.Entropy(0); got != entropyAfterFirst {
		t.Errorf("entropy after repeated set = %g, want %g", got, entropyAfterFirst)
	}
}

func TestImpossibleFlag(t *testing.T) {
	frequencies := uniformFrequencies(2)
	w := NewWave(1, 2, frequencies)

	w.Set(0, 0, false)
	if w.Impossible() {
		t.Fatal("wave should not be impossible with one pattern left")
	}
	w.Set(0, 1, false)
	if !w.Impossible() {
		t.Fatal("wave should be impossible after removing every pattern from a cell")
	}
}

func TestMinEntropyCellContradiction(t *testing.T) {
	w := NewWave(1, 1, uniformFrequencies(2))
	w.Set(0, 0, false)
	w.Set(0, 1, false)

	if got := w.MinEntropyCell(NewLCG(1)); got != CellContradiction {
		t.Errorf("MinEntropyCell = %d, want CellContradiction", got)
	}
}

func TestMinEntropyCellAllDecided(t *testing.T) {
	w := NewWave(2, 2, uniformFrequencies(2))
	for index := 0; index < w.Size; index++ {
		w.Set(index, 1, false)
	}

	if got := w.MinEntropyCell(NewLCG(1)); got != CellAllDecided {
		t.Errorf("MinEntropyCell = %d, want CellAllDecided", got)
	}
}

func TestMinEntropyCellPicksLowestEntropy(t *testing.T) {
	frequencies := uniformFrequencies(3)
	w := NewWave(1, 3, frequencies)

	// Cell 1 has two patterns left, the others three; its entropy is lower
	// and the bounded noise cannot flip the order.
	w.SetAt(0, 1, 2, false)

	if got := w.MinEntropyCell(NewLCG(42)); got != 1 {
		t.Errorf("MinEntropyCell = %d, want 1", got)
	}
}

func TestMonotonicCount(t *testing.T) {
	frequencies := uniformFrequencies(4)
	w := NewWave(2, 2, frequencies)

	previous := make([]int, w.Size)
	for i := range previous {
		previous[i] = w.PatternCount(i)
	}

	removals := [][3]int{{0, 0, 1}, {0, 1, 2}, {1, 1, 0}, {0, 0, 3}, {0, 0, 1}}
	for _, r := range removals {
		w.SetAt(r[0], r[1], r[2], false)
		for i := range previous {
			if got := w.PatternCount(i); got > previous[i] {
				t.Fatalf("cell %d count grew from %d to %d", i, previous[i], got)
			} else {
				previous[i] = got
			}
		}
	}
}

func TestLCGDeterminism(t *testing.T) {
	a := NewLCG(12345)
	b := NewLCG(12345)
	for i := 0; i < 100; i++ {
		if a.Next() != b.Next() {
			t.Fatal("same seed must produce the same stream")
		}
	}
}

func TestLCGFloat64Range(t *testing.T) {
	r := NewLCG(7)
	for i := 0; i < 1000; i++ {
		v := r.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %g, want [0,1)", v)
		}
	}
}
