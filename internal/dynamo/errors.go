package dynamo

import "errors"

// Domain errors for trajectory computation.
var (
	// ErrInvalidInitialConditions indicates the (E, L, r0) combination admits
	// no real initial radial velocity.
	ErrInvalidInitialConditions = errors.New("dynamo: invalid initial conditions (no real du/dphi at r0)")

	// ErrInvalidSteps indicates a non-positive step budget.
	ErrInvalidSteps = errors.New("dynamo: max steps must be positive")

	// ErrInvalidConfig indicates an unusable integration policy.
	ErrInvalidConfig = errors.New("dynamo: invalid integration config")

	// ErrUnknownIntegrator indicates a stepper name with no registered factory.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
)
