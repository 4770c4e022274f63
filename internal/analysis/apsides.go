package analysis

import "github.com/san-kum/geodesim/internal/orbit"

type ApsisKind int

const (
	Periapsis ApsisKind = iota
	Apoapsis
)

func (k ApsisKind) String() string {
	if k == Periapsis {
		return "periapsis"
	}
	return "apoapsis"
}

// Apsis is a recorded sample where dr/dφ changes sign.
type Apsis struct {
	Index int
	Kind  ApsisKind
	R     float64
	Phi   float64
}

// Apsides returns the interior local extrema of r in sample order. The first
// and last samples are never apsides since their neighbourhood is unknown.
func Apsides(samples []orbit.Sample) []Apsis {
	var out []Apsis
	for i := 1; i+1 < len(samples); i++ {
		prev, cur, next := samples[i-1].R, samples[i].R, samples[i+1].R
		switch {
		case prev > cur && cur <= next:
			out = append(out, Apsis{Index: i, Kind: Periapsis, R: cur, Phi: samples[i].Phi})
		case prev < cur && cur >= next:
			out = append(out, Apsis{Index: i, Kind: Apoapsis, R: cur, Phi: samples[i].Phi})
		}
	}
	return out
}

func filterKind(as []Apsis, k ApsisKind) []Apsis {
	var out []Apsis
	for _, a := range as {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}
