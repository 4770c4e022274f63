// Package geodesic encodes the orbit equation of a test particle around a
// Schwarzschild mass.
//
// Orbits are described by the inverse radius u = 1/r as a function of the
// azimuthal angle φ. The relativistic Binet equation
//
//	d²u/dφ² + u = M/L² + 3Mu²
//
// is exposed as [Acceleration] and, for the generic steppers, as [Field].
// [VelocitySquared] derives the initial du/dφ from the conserved energy and
// is the admissibility gate for (E, L, r0).
//
// Reference radii ([PhotonSphereRadius], [ISCORadius]) and circular-orbit
// helpers support presets and the threshold report.
package geodesic
