package wfc

import "github.com/lawnchairsociety/wavecollapse/internal/grid"

// CompatibilityTable lists, for each pattern and direction, the patterns
// that may legally sit in the neighboring cell in that direction. It must
// be symmetric: q in table[p][d] iff p in table[q][Opposite(d)].
type CompatibilityTable [][4][]int

// Propagator removes patterns that have lost all support in some direction
// and pushes the consequences through the wave until a fixed point.
type Propagator struct {
	numPatterns int
	table       CompatibilityTable

	waveHeight int
	waveWidth  int
	periodic   bool

	// Worklist of (y, x, pattern) triples just removed from the wave and
	// not yet propagated. Entries are appended exactly once per removal.
	propagating [][3]int

	// supporters.Get(y, x, p)[d] counts the patterns still allowed in the
	// neighbor of (y, x) in direction Opposite(d) that keep p legal at
	// (y, x). Once a pattern is removed its counters are zeroed so that
	// later decrements go negative without re-triggering.
	supporters *grid.Grid3D[[4]int]
}

// NewPropagator builds a propagator over a waveHeight x waveWidth wave and
// initializes the supporter counters.
func NewPropagator(waveHeight, waveWidth int, periodic bool, table CompatibilityTable) *Propagator {
	p := &Propagator{
		numPatterns: len(table),
		table:       table,
		waveHeight:  waveHeight,
		waveWidth:   waveWidth,
		periodic:    periodic,
		supporters:  grid.NewGrid3D[[4]int](waveHeight, waveWidth, len(table)),
	}
	p.initSupporters()
	return p
}

// initSupporters seeds every counter with the number of patterns compatible
// in the opposite direction, which is the initial count of supporters.
func (p *Propagator) initSupporters() {
	for y := 0; y < p.waveHeight; y++ {
		for x := 0; x < p.waveWidth; x++ {
			for pattern := 0; pattern < p.numPatterns; pattern++ {
				var value [4]int
				for direction := 0; direction < 4; direction++ {
					value[direction] = len(p.table[pattern][Opposite(direction)])
				}
				p.supporters.Set(y, x, pattern, value)
			}
		}
	}
}

// Add records that pattern has been removed from cell (y, x). The caller
// must have set the wave entry to false; Add zeroes the supporter counters
// and queues the triple for propagation.
func (p *Propagator) Add(y, x, pattern int) {
	p.supporters.Set(y, x, pattern, [4]int{})
	p.propagating = append(p.propagating, [3]int{y, x, pattern})
}

// Propagate drains the worklist, removing from wave every pattern whose
// supporter count in some direction reaches zero. The fixed point is unique
// for a given set of queued removals, so worklist order is unobservable.
func (p *Propagator) Propagate(wave *Wave) {
	for len(p.propagating) > 0 {
		last := p.propagating[len(p.propagating)-1]
		p.propagating = p.propagating[:len(p.propagating)-1]
		y1, x1, pattern := last[0], last[1], last[2]

		for direction := 0; direction < 4; direction++ {
			dy := DirectionsY[direction]
			dx := DirectionsX[direction]
			var y2, x2 int
			if p.periodic {
				y2 = (y1 + dy + p.waveHeight) % p.waveHeight
				x2 = (x1 + dx + p.waveWidth) % p.waveWidth
			} else {
				y2 = y1 + dy
				x2 = x1 + dx
				if y2 < 0 || y2 >= p.waveHeight || x2 < 0 || x2 >= p.waveWidth {
					continue
				}
			}

			index2 := y2*p.waveWidth + x2
			for _, neighbor := range p.table[pattern][direction] {
				// Losing this supporter may go negative for patterns already
				// removed from the wave; only an exact zero matters.
				value := p.supporters.Get(y2, x2, neighbor)
				value[direction]--
				p.supporters.Set(y2, x2, neighbor, value)

				if value[direction] == 0 {
					p.Add(y2, x2, neighbor)
					wave.Set(index2, neighbor, false)
				}
			}
		}
	}
}

// Supporters returns the current supporter counters for (y, x, pattern).
func (p *Propagator) Supporters(y, x, pattern int) [4]int {
	return p.supporters.Get(y, x, pattern)
}
