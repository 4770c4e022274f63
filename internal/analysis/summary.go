package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/geodesim/internal/orbit"
)

// Summary holds scalar descriptors of one trajectory.
type Summary struct {
	Samples      int           `json:"samples"`
	Outcome      orbit.Outcome `json:"outcome"`
	RMin         float64       `json:"r_min"`
	RMax         float64       `json:"r_max"`
	Swept        float64       `json:"swept"` // φ of the last sample
	Revolutions  float64       `json:"revolutions"`
	Eccentricity float64       `json:"eccentricity"` // (rmax-rmin)/(rmax+rmin)
	Periapsides  int           `json:"periapsides"`
	Apoapsides   int           `json:"apoapsides"`

	// Precession is the mean periapsis-to-periapsis angle minus 2π. Only
	// meaningful when HasPrecession is set.
	Precession    float64 `json:"precession"`
	HasPrecession bool    `json:"has_precession"`
}

func Summarize(t *orbit.Trajectory) Summary {
	s := Summary{Samples: t.Len()}
	if t == nil {
		return s
	}
	s.Outcome = t.Outcome
	if t.Empty() {
		return s
	}

	rs := make([]float64, len(t.Samples))
	for i, smp := range t.Samples {
		rs[i] = smp.R
	}
	s.RMin = floats.Min(rs)
	s.RMax = floats.Max(rs)
	s.Eccentricity = (s.RMax - s.RMin) / (s.RMax + s.RMin)

	last, _ := t.Last()
	s.Swept = last.Phi
	s.Revolutions = last.Phi / (2 * math.Pi)

	aps := Apsides(t.Samples)
	peri := filterKind(aps, Periapsis)
	s.Periapsides = len(peri)
	s.Apoapsides = len(aps) - len(peri)

	if len(peri) >= 2 {
		shifts := make([]float64, len(peri)-1)
		for i := range shifts {
			shifts[i] = peri[i+1].Phi - peri[i].Phi - 2*math.Pi
		}
		s.Precession = floats.Sum(shifts) / float64(len(shifts))
		s.HasPrecession = true
	}
	return s
}
