package integrators

import "github.com/san-kum/geodesim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta stepper. Stage buffers are
// reused between calls, so one RK4 must not be shared across goroutines.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// Step returns x advanced by h. Stages 2 and 3 probe the midpoint with the
// previous stage's slope, stage 4 the full step; weights are (1,2,2,1)/6.
func (r *RK4) Step(sys dynamo.System, x dynamo.State, phi, h float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)
	half := 0.5 * h

	copy(r.k1, sys.Derive(x, phi))

	r.offset(x, r.k1, half)
	copy(r.k2, sys.Derive(r.scratch, phi+half))

	r.offset(x, r.k2, half)
	copy(r.k3, sys.Derive(r.scratch, phi+half))

	r.offset(x, r.k3, h)
	copy(r.k4, sys.Derive(r.scratch, phi+h))

	next := make(dynamo.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		next[i] = x[i] + h6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	return next
}

func (r *RK4) offset(x, k dynamo.State, scale float64) {
	for i := range x {
		r.scratch[i] = x[i] + scale*k[i]
	}
}
