package integrators

import "github.com/san-kum/geodesim/internal/dynamo"

// Euler is first-order forward Euler. It exists as a baseline for the
// convergence comparison; trajectories should use RK4.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, phi, h float64) dynamo.State {
	dx := sys.Derive(x, phi)
	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + h*dx[i]
	}
	return next
}
