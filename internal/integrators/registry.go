package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/geodesim/internal/dynamo"
)

// Factory builds a fresh stepper. Each run gets its own so scratch buffers
// are never shared.
type Factory func() dynamo.Integrator

var factories = map[string]Factory{
	"rk4":    func() dynamo.Integrator { return NewRK4() },
	"euler":  func() dynamo.Integrator { return NewEuler() },
	"verlet": func() dynamo.Integrator { return NewVerlet() },
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownIntegrator, name, Names())
	}
	return fn, nil
}

// Order is the formal convergence order of the named stepper, 0 if unknown.
func Order(name string) int {
	switch name {
	case "rk4":
		return 4
	case "verlet":
		return 2
	case "euler":
		return 1
	}
	return 0
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
