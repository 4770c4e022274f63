// Package analysis characterizes computed orbits.
//
// The package works on finished [orbit.Trajectory] values and never drives
// the field itself, except for the step-doubling study:
//
//   - [Apsides]: turning points of r(φ)
//   - [Summarize]: radius range, swept angle, eccentricity and periapsis shift
//   - [Classify]: plunging, scattered, circular, precessing or bound
//   - [Convergence]: Richardson ratio and observed order of a stepper
//
// # Precession
//
// Newtonian ellipses close after 2π. In the Schwarzschild field successive
// periapsides are separated by more than that:
//
//	s := analysis.Summarize(traj)
//	if s.HasPrecession {
//	    fmt.Printf("Δφ per orbit: %.3f rad\n", s.Precession)
//	}
package analysis
