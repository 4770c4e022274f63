package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/geodesim/internal/orbit"
)

// RadiusChart plots r(φ) for one trajectory. Long runs are resampled by
// asciigraph to fit width.
func RadiusChart(t *orbit.Trajectory, width, height int) string {
	if t.Len() < 2 {
		return ""
	}
	data := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		data[i] = s.R
	}
	last, _ := t.Last()
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("r(φ), φ ∈ [0, %.2f]", last.Phi)))
}
