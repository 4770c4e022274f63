package optim

import (
	"context"
	"math"

	"github.com/san-kum/geodesim/internal/analysis"
	"github.com/san-kum/geodesim/internal/orbit"
)

// Grid spans E × L at a fixed starting radius.
type Grid struct {
	Energies []float64
	Momenta  []float64
	R0       float64
	MaxSteps int
}

// Cell is the classified result at one grid point.
type Cell struct {
	E, L    float64
	Class   analysis.Class
	Summary analysis.Summary
}

// Linspace returns n evenly spaced values over [lo, hi].
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		if n == 1 {
			out[i] = lo
			continue
		}
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

// Scan runs every grid point through in and classifies the result. Rows are
// indexed by L, columns by E.
func (g *Grid) Scan(ctx context.Context, in *orbit.Integrator, workers int) ([][]Cell, error) {
	ps := make([]orbit.Params, 0, len(g.Energies)*len(g.Momenta))
	for _, L := range g.Momenta {
		for _, E := range g.Energies {
			ps = append(ps, orbit.Params{E: E, L: L, R0: g.R0, MaxSteps: g.MaxSteps})
		}
	}

	trajs, err := in.ComputeAll(ctx, ps, workers)
	if err != nil {
		return nil, err
	}

	cells := make([][]Cell, len(g.Momenta))
	for i := range cells {
		cells[i] = make([]Cell, len(g.Energies))
		for j := range cells[i] {
			k := i*len(g.Energies) + j
			t := trajs[k]
			cells[i][j] = Cell{
				E:       ps[k].E,
				L:       ps[k].L,
				Class:   analysis.Classify(t),
				Summary: analysis.Summarize(t),
			}
		}
	}
	return cells, nil
}

// Best returns the cell with the lowest score. Cells for which score reports
// false are skipped.
func Best(cells [][]Cell, score func(Cell) (float64, bool)) (Cell, float64, bool) {
	best := math.Inf(1)
	var bestCell Cell
	found := false
	for _, row := range cells {
		for _, c := range row {
			v, ok := score(c)
			if !ok || v >= best {
				continue
			}
			best, bestCell, found = v, c, true
		}
	}
	return bestCell, best, found
}

// PrecessionTarget scores precessing cells by their distance from target
// radians per orbit.
func PrecessionTarget(target float64) func(Cell) (float64, bool) {
	return func(c Cell) (float64, bool) {
		if !c.Summary.HasPrecession {
			return 0, false
		}
		return math.Abs(c.Summary.Precession - target), true
	}
}
