package integrators

import "github.com/san-kum/geodesim/internal/dynamo"

// Verlet is velocity Verlet for states laid out as {positions, velocities}.
// It is second order and symplectic, so it only fits systems whose
// acceleration depends on position alone, as the Binet field does.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, phi, h float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	next := make(dynamo.State, n)
	dx := sys.Derive(x, phi)
	h2 := h * h

	for i := 0; i < half; i++ {
		next[i] = x[i] + x[half+i]*h + 0.5*dx[half+i]*h2
		v.scratch[i] = next[i]
		v.scratch[half+i] = x[half+i]
	}

	dxNew := sys.Derive(v.scratch, phi+h)

	halfH := 0.5 * h
	for i := 0; i < half; i++ {
		next[half+i] = x[half+i] + (dx[half+i]+dxNew[half+i])*halfH
	}
	return next
}
