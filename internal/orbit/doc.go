// Package orbit computes test-particle trajectories in Schwarzschild
// spacetime as sampled r(φ) curves.
//
// An [Integrator] validates (E, L, r0) through the Binet field's velocity
// check, then steps {u, du/dφ} with a fixed-step integrator (RK4 by default)
// until the particle is captured, escapes, diverges, or the step budget runs
// out. [ComputeTrajectory] is the plain form that returns only samples.
//
// # Example
//
//	in, _ := orbit.New(dynamo.DefaultConfig())
//	traj, err := in.Compute(orbit.Params{E: 0.98, L: 3.9, R0: 8, MaxSteps: 3000})
//	if errors.Is(err, dynamo.ErrInvalidInitialConditions) {
//	    // raise E or L
//	}
//
// # Limitations
//
// The initial du/dφ is always the positive root, so every run starts moving
// inward. There is no way to begin an outbound trajectory at r0.
package orbit
