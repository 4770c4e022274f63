package viz

import (
	"math"

	"github.com/san-kum/geodesim/internal/geodesic"
	"github.com/san-kum/geodesim/internal/orbit"
)

// Scene projects the equatorial plane onto a canvas centred on the mass.
type Scene struct {
	Canvas     *Canvas
	ViewRadius float64 // r at the nearest canvas edge, units of M
}

func NewScene(w, h int, viewRadius float64) *Scene {
	return &Scene{Canvas: NewCanvas(w, h), ViewRadius: viewRadius}
}

func (s *Scene) scale() (cx, cy int, k float64) {
	pw, ph := s.Canvas.PixelSize()
	cx, cy = pw/2, ph/2
	return cx, cy, float64(min(cx, cy)) / s.ViewRadius
}

// Project maps polar (r, φ) to sub-pixel coordinates, y pointing up.
func (s *Scene) Project(r, phi float64) (int, int) {
	cx, cy, k := s.scale()
	x := float64(cx) + r*k*math.Cos(phi)
	y := float64(cy) - r*k*math.Sin(phi)
	return int(math.Round(x)), int(math.Round(y))
}

func (s *Scene) ring(r float64, dots int) {
	for i := 0; i < dots; i++ {
		x, y := s.Project(r, 2*math.Pi*float64(i)/float64(dots))
		s.Canvas.Set(x, y)
	}
}

// Render redraws the canvas: horizon disk, dotted photon sphere and ISCO,
// then every trajectory with its start point marked.
func (s *Scene) Render(ts []*orbit.Trajectory) string {
	s.Canvas.Clear()
	cx, cy, k := s.scale()

	s.Canvas.FillCircle(cx, cy, int(math.Round(geodesic.SchwarzschildRadius*k)))
	s.ring(geodesic.PhotonSphereRadius, 24)
	s.ring(geodesic.ISCORadius, 48)

	for _, t := range ts {
		if t.Empty() {
			continue
		}
		px, py := s.Project(t.Samples[0].R, t.Samples[0].Phi)
		s.Canvas.FillCircle(px, py, 1)
		for _, smp := range t.Samples[1:] {
			x, y := s.Project(smp.R, smp.Phi)
			if x != px || y != py {
				s.Canvas.DrawLine(px, py, x, y)
				px, py = x, y
			}
		}
	}
	return s.Canvas.String()
}
