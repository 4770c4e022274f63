package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/geodesim/internal/geodesic"
	"github.com/san-kum/geodesim/internal/orbit"
)

// Palette cycles across trajectories in insertion order.
var Palette = []string{"#00d4ff", "#00ff88", "#ffdd00", "#ff00ff", "#ff4444"}

const (
	minViewRadius = 8.0
	gridSpacing   = 2 * geodesic.Mass
)

// ViewRadius is the radius, in units of M, that fits every sample of ts with
// some margin.
func ViewRadius(ts []*orbit.Trajectory) float64 {
	rmax := minViewRadius
	for _, t := range ts {
		if t == nil {
			continue
		}
		for _, s := range t.Samples {
			rmax = math.Max(rmax, s.R*1.1)
		}
	}
	return rmax
}

// TrajectoriesToSVG draws the reference circles and every non-empty
// trajectory on a size×size canvas centred on the mass.
func TrajectoriesToSVG(ts []*orbit.Trajectory, size int) string {
	if size <= 0 {
		return ""
	}
	c := float64(size) / 2
	scale := c / ViewRadius(ts)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size)

	sb.WriteString("<defs>\n")
	for i := range ts {
		fmt.Fprintf(&sb, `<linearGradient id="traj%d"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></linearGradient>
`, i, Palette[i%len(Palette)], Palette[(i+1)%len(Palette)])
	}
	sb.WriteString("</defs>\n")

	sb.WriteString(`<g fill="none" stroke="#222" stroke-width="1">` + "\n")
	for r := gridSpacing; r*scale < c; r += gridSpacing {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", c, c, r*scale)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<circle class="horizon" cx="%.1f" cy="%.1f" r="%.1f" fill="#000" stroke="#ff6b35" stroke-width="2"/>`+"\n",
		c, c, geodesic.SchwarzschildRadius*scale)
	fmt.Fprintf(&sb, `<circle class="isco" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#4a90e2" stroke-dasharray="5,5"/>`+"\n",
		c, c, geodesic.ISCORadius*scale)
	fmt.Fprintf(&sb, `<circle class="photon-sphere" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#ffaa00" stroke-dasharray="3,3"/>`+"\n",
		c, c, geodesic.PhotonSphereRadius*scale)

	for i, t := range ts {
		if t.Empty() {
			continue
		}
		fmt.Fprintf(&sb, `<path class="trajectory" fill="none" stroke="url(#traj%d)" stroke-width="2" d="`, i)
		for j, s := range t.Samples {
			x := c + s.R*scale*math.Cos(s.Phi)
			y := c + s.R*scale*math.Sin(s.Phi)
			if j == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(`"/>` + "\n")

		start := t.Samples[0]
		fmt.Fprintf(&sb, `<circle class="start" cx="%.1f" cy="%.1f" r="5" fill="#fff"/>`+"\n",
			c+start.R*scale*math.Cos(start.Phi), c+start.R*scale*math.Sin(start.Phi))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
