package geodesic

import "github.com/san-kum/geodesim/internal/dynamo"

// Geometrized units, G = c = 1, lengths in units of M.
const (
	Mass                = 1.0
	SchwarzschildRadius = 2 * Mass
)

// Acceleration is d²u/dφ² from the relativistic Binet equation
// u'' + u = M/L² + 3Mu².
func Acceleration(u, L float64) float64 {
	return Mass/(L*L) + 3*Mass*u*u - u
}

// VelocitySquared returns (du/dφ)² implied by energy conservation at u:
//
//	[E² − (1 − rs/r)(1 + L²u²)] / (L² r⁴),  r = 1/u
//
// ok is false when the bracket is negative, i.e. the particle cannot be at
// r with this E and L.
func VelocitySquared(u, E, L float64) (v2 float64, ok bool) {
	r := 1 / u
	term := E*E - (1-SchwarzschildRadius/r)*(1+L*L*u*u)
	if term < 0 {
		return 0, false
	}
	return (term / (L * L)) * (1 / (r * r * r * r)), true
}

// Field is the Binet system {u, v}' = {v, Acceleration(u, L)} for a fixed L.
type Field struct {
	L float64
}

func NewField(L float64) *Field {
	return &Field{L: L}
}

func (f *Field) StateDim() int { return 2 }

func (f *Field) Derive(x dynamo.State, _ float64) dynamo.State {
	return dynamo.State{x[1], Acceleration(x[0], f.L)}
}

// Invariant is the first integral of the Binet equation,
//
//	L²v² + (1 − rs·u)(1 + L²u²)
//
// which equals E² for a geodesic with du/dφ = v. Fixed-step integration
// conserves it only approximately.
func (f *Field) Invariant(x dynamo.State) float64 {
	u, v := x[0], x[1]
	L2 := f.L * f.L
	return L2*v*v + (1-SchwarzschildRadius*u)*(1+L2*u*u)
}
