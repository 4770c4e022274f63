package geodesic

import "math"

// Reference radii in units of M.
const (
	PhotonSphereRadius    = 3 * Mass
	MarginallyBoundRadius = 4 * Mass
	ISCORadius            = 6 * Mass
)

// EffectivePotential is the squared-energy barrier (1 − rs/r)(1 + L²/r²).
// A particle with energy E can sit at r only if E² ≥ EffectivePotential(r, L).
func EffectivePotential(r, L float64) float64 {
	return (1 - SchwarzschildRadius/r) * (1 + L*L/(r*r))
}

// MinEnergy is the admissibility threshold E_min(L, r0). It is NaN inside
// the horizon, where every energy is admissible.
func MinEnergy(L, r0 float64) float64 {
	v := EffectivePotential(r0, L)
	if v < 0 {
		return math.NaN()
	}
	return math.Sqrt(v)
}

// Admissible reports whether a run started at r0 has a real initial velocity.
func Admissible(E, L, r0 float64) bool {
	_, ok := VelocitySquared(1/r0, E, L)
	return ok
}

// CircularOrbit returns the specific energy and angular momentum of the
// circular geodesic at r. ok is false at or inside the photon sphere.
func CircularOrbit(r float64) (E, L float64, ok bool) {
	if r <= PhotonSphereRadius {
		return 0, 0, false
	}
	d := 1 - 3*Mass/r
	E = (1 - SchwarzschildRadius/r) / math.Sqrt(d)
	L = math.Sqrt(Mass*r) / math.Sqrt(d)
	return E, L, true
}

// StableCircular reports whether a circular orbit at r is stable.
func StableCircular(r float64) bool {
	return r >= ISCORadius
}

// CircularRadius returns the stable circular radius for angular momentum L,
// the larger root of 3Mu² − u + M/L² = 0. ok is false for L² < 12M², where
// no circular orbit exists.
func CircularRadius(L float64) (r float64, ok bool) {
	disc := 1 - 12*Mass*Mass/(L*L)
	if disc < 0 {
		return 0, false
	}
	u := (1 - math.Sqrt(disc)) / (6 * Mass)
	return 1 / u, true
}
