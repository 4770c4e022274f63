// Package dynamo provides the numerical primitives shared by the orbit
// integrator and its supporting tools.
//
//   - [State]: integrated vector
//   - [System]: first-order ODE dX/dφ = f(X, φ)
//   - [Integrator]: fixed-step numerical stepper
//   - [Config]: step size and termination radii
//   - [ParallelFor]: bounded fan-out for independent runs
//
// # Example
//
//	field := geodesic.NewField(3.9)
//	rk4 := integrators.NewRK4()
//	next := rk4.Step(field, dynamo.State{u, v}, phi, cfg.Step)
//
// # Thread Safety
//
// Integrators may keep scratch buffers and are NOT safe for concurrent use.
// Create one per goroutine; [ParallelFor] callers should do so inside fn.
package dynamo
