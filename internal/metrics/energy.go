package metrics

import (
	"math"

	"github.com/san-kum/geodesim/internal/dynamo"
)

// InvariantDrift tracks the largest absolute change |I − I₀| of a system's
// first integral over a run. For the Binet field that integral plays the role of E².
type InvariantDrift struct {
	name     string
	sys      dynamo.Conserved
	initial  float64
	maxDrift float64
	samples  int
}

// NewInvariantDrift returns nil if sys has no first integral.
func NewInvariantDrift(sys dynamo.System) *InvariantDrift {
	c, ok := sys.(dynamo.Conserved)
	if !ok {
		return nil
	}
	return &InvariantDrift{name: "invariant_drift", sys: c}
}

func (e *InvariantDrift) Name() string { return e.name }

func (e *InvariantDrift) Observe(x dynamo.State, _ float64) {
	v := e.sys.Invariant(x)
	if e.samples == 0 {
		e.initial = v
	}
	e.samples++

	e.maxDrift = math.Max(e.maxDrift, math.Abs(v-e.initial))
}

func (e *InvariantDrift) Value() float64 { return e.maxDrift }

// Initial is the invariant at the first observed state.
func (e *InvariantDrift) Initial() float64 { return e.initial }

func (e *InvariantDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
