package analysis

import "github.com/san-kum/geodesim/internal/orbit"

type Class int

const (
	Empty Class = iota
	Plunging
	Scattered
	Unstable
	Circular
	Precessing
	Bound
)

// CircularTolerance is the eccentricity below which an orbit counts as circular.
const CircularTolerance = 0.01

var classNames = [...]string{
	Empty:      "empty",
	Plunging:   "plunging",
	Scattered:  "scattered",
	Unstable:   "unstable",
	Circular:   "circular",
	Precessing: "precessing",
	Bound:      "bound",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// Classify names the kind of orbit t traced. The outcome decides first; an
// exhausted run is then judged on its shape.
func Classify(t *orbit.Trajectory) Class {
	if t.Empty() {
		return Empty
	}
	switch t.Outcome {
	case orbit.Captured:
		return Plunging
	case orbit.Escaped:
		return Scattered
	case orbit.Diverged:
		return Unstable
	}

	s := Summarize(t)
	switch {
	case s.Eccentricity < CircularTolerance:
		return Circular
	case s.Periapsides >= 2:
		return Precessing
	}
	return Bound
}
