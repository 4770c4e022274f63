package dynamo

import (
	"fmt"
	"math"
)

// State is the integrated vector. For the Binet system it is {u, du/dφ}.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is a first-order ODE dx/dφ = f(x, φ). The independent variable is
// whatever the system integrates over; orbits use the azimuthal angle.
type System interface {
	Derive(x State, phi float64) State
	StateDim() int
}

// Conserved is implemented by systems with a first integral of motion.
type Conserved interface {
	Invariant(x State) float64
}

// Metric accumulates a scalar over the states of one run.
type Metric interface {
	Name() string
	Observe(x State, phi float64)
	Value() float64
	Reset()
}

// Integrator advances a System by one fixed step h.
type Integrator interface {
	Step(sys System, x State, phi, h float64) State
}

// Config is the termination and discretization policy shared by every run.
type Config struct {
	// Step is the fixed angular step Δφ in radians.
	Step float64 `json:"step"`
	// HorizonMargin scales rs to give the capture radius.
	HorizonMargin float64 `json:"horizon_margin"`
	// OuterRadius is the escape boundary in units of M.
	OuterRadius float64 `json:"outer_radius"`
}

const (
	DefaultStep          = 0.01
	DefaultHorizonMargin = 1.05
	DefaultOuterRadius   = 50.0
)

func DefaultConfig() Config {
	return Config{
		Step:          DefaultStep,
		HorizonMargin: DefaultHorizonMargin,
		OuterRadius:   DefaultOuterRadius,
	}
}

// Validate checks the policy against the horizon radius rs.
func (c Config) Validate(rs float64) error {
	if !(c.Step > 0) || math.IsInf(c.Step, 0) {
		return fmt.Errorf("%w: step must be positive, got %g", ErrInvalidConfig, c.Step)
	}
	if !(c.HorizonMargin >= 1) {
		return fmt.Errorf("%w: horizon margin must be >= 1, got %g", ErrInvalidConfig, c.HorizonMargin)
	}
	if !(c.OuterRadius > c.HorizonMargin*rs) {
		return fmt.Errorf("%w: outer radius %g must exceed capture radius %g",
			ErrInvalidConfig, c.OuterRadius, c.HorizonMargin*rs)
	}
	return nil
}
