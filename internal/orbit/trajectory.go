package orbit

import "fmt"

// Params are the caller-supplied inputs of one run.
type Params struct {
	E        float64 `json:"energy"`           // specific energy
	L        float64 `json:"angular_momentum"` // specific angular momentum, units of M
	R0       float64 `json:"r0"`               // initial radius, units of M
	MaxSteps int     `json:"max_steps"`
}

// Sample is one recorded point of the orbit.
type Sample struct {
	R   float64 `json:"r"`
	Phi float64 `json:"phi"`
}

// Outcome records why a run stopped.
type Outcome int

const (
	// Rejected: (E, L, r0) admits no real initial velocity.
	Rejected Outcome = iota
	// Captured: r fell below the horizon margin.
	Captured
	// Escaped: r passed the outer radius.
	Escaped
	// Diverged: u or du/dφ became NaN or Inf.
	Diverged
	// Exhausted: the step budget ran out first.
	Exhausted
)

var outcomeNames = [...]string{
	Rejected:  "rejected",
	Captured:  "captured",
	Escaped:   "escaped",
	Diverged:  "diverged",
	Exhausted: "exhausted",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) (Outcome, bool) {
	for i, name := range outcomeNames {
		if name == s {
			return Outcome(i), true
		}
	}
	return Rejected, false
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(b []byte) error {
	v, ok := ParseOutcome(string(b))
	if !ok {
		return fmt.Errorf("unknown outcome %q", b)
	}
	*o = v
	return nil
}

// Trajectory is the result of one run, tagged with the E and L it came from.
// It is not modified after Compute returns.
type Trajectory struct {
	E       float64
	L       float64
	Samples []Sample
	Outcome Outcome
}

func (t *Trajectory) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Samples)
}

// Empty is true when there is nothing to plot.
func (t *Trajectory) Empty() bool { return t.Len() == 0 }

// Last returns the final recorded sample.
func (t *Trajectory) Last() (Sample, bool) {
	if t.Empty() {
		return Sample{}, false
	}
	return t.Samples[len(t.Samples)-1], true
}
