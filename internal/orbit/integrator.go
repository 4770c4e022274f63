package orbit

import (
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/geodesic"
	"github.com/san-kum/geodesim/internal/integrators"
)

// Integrator turns Params into trajectories under a fixed policy. It holds
// no per-run state and is safe for concurrent use.
type Integrator struct {
	cfg     dynamo.Config
	stepper integrators.Factory
	logger  log.Logger
}

type Option func(*Integrator)

// WithStepper replaces the RK4 factory. A fresh stepper is built per run.
func WithStepper(f integrators.Factory) Option {
	return func(in *Integrator) {
		if f != nil {
			in.stepper = f
		}
	}
}

func WithLogger(l log.Logger) Option {
	return func(in *Integrator) {
		if l != nil {
			in.logger = l
		}
	}
}

func New(cfg dynamo.Config, opts ...Option) (*Integrator, error) {
	if err := cfg.Validate(geodesic.SchwarzschildRadius); err != nil {
		return nil, err
	}
	in := &Integrator{
		cfg:     cfg,
		stepper: func() dynamo.Integrator { return integrators.NewRK4() },
		logger:  log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in, nil
}

func (in *Integrator) Config() dynamo.Config { return in.cfg }

// Compute integrates one trajectory.
//
// The run starts at u = 1/r0, φ = 0 with du/dφ = +sqrt(VelocitySquared),
// i.e. always moving inward. Each iteration checks the current state, records
// it, then takes one step of size cfg.Step. A state that trips the check is
// never recorded.
//
// Inadmissible starts return a Rejected trajectory with no samples and an
// error wrapping dynamo.ErrInvalidInitialConditions. Capture, escape,
// divergence and an exhausted budget are not errors.
func (in *Integrator) Compute(p Params) (*Trajectory, error) {
	return in.ComputeWithMetrics(p)
}

// ComputeWithMetrics is Compute with every recorded state also passed to ms.
// The metrics belong to this call; share them across runs only sequentially.
func (in *Integrator) ComputeWithMetrics(p Params, ms ...dynamo.Metric) (*Trajectory, error) {
	if p.MaxSteps <= 0 {
		return nil, fmt.Errorf("%w: got %d", dynamo.ErrInvalidSteps, p.MaxSteps)
	}

	traj := &Trajectory{E: p.E, L: p.L, Outcome: Rejected}

	u := 1 / p.R0
	v2, ok := geodesic.VelocitySquared(u, p.E, p.L)
	if !ok {
		level.Debug(in.logger).Log("msg", "initial conditions rejected", "E", p.E, "L", p.L, "r0", p.R0)
		return traj, fmt.Errorf("E=%g L=%g r0=%g: %w", p.E, p.L, p.R0, dynamo.ErrInvalidInitialConditions)
	}

	field := geodesic.NewField(p.L)
	stepper := in.stepper()
	h := in.cfg.Step
	rMin := in.cfg.HorizonMargin * geodesic.SchwarzschildRadius
	rMax := in.cfg.OuterRadius

	x := dynamo.State{u, math.Sqrt(v2)}
	phi := 0.0
	traj.Samples = make([]Sample, 0, min(p.MaxSteps, 4096))
	traj.Outcome = Exhausted

	for i := 0; i < p.MaxSteps; i++ {
		if stop, why := in.terminal(x, rMin, rMax); stop {
			traj.Outcome = why
			break
		}
		traj.Samples = append(traj.Samples, Sample{R: 1 / x[0], Phi: phi})
		for _, m := range ms {
			m.Observe(x, phi)
		}
		x = stepper.Step(field, x, phi, h)
		phi += h
	}

	level.Debug(in.logger).Log("msg", "trajectory computed", "E", p.E, "L", p.L, "r0", p.R0,
		"samples", len(traj.Samples), "outcome", traj.Outcome)
	return traj, nil
}

// terminal applies the stop policy to the state about to be recorded.
func (in *Integrator) terminal(x dynamo.State, rMin, rMax float64) (bool, Outcome) {
	if !x.IsValid() {
		return true, Diverged
	}
	r := 1 / x[0]
	switch {
	case r < rMin:
		return true, Captured
	case r > rMax:
		return true, Escaped
	}
	return false, Exhausted
}

var defaultIntegrator = func() *Integrator {
	in, err := New(dynamo.DefaultConfig())
	if err != nil {
		panic(err)
	}
	return in
}()

// ComputeTrajectory runs the default policy (Δφ = 0.01, capture below
// 1.05·rs, escape beyond 50M) and returns only the samples. An empty slice
// means there is no trajectory to plot, either because the start was
// inadmissible or because the first state already tripped the stop check.
func ComputeTrajectory(E, L, r0 float64, maxSteps int) []Sample {
	traj, err := defaultIntegrator.Compute(Params{E: E, L: L, R0: r0, MaxSteps: maxSteps})
	if err != nil || traj == nil {
		return []Sample{}
	}
	return traj.Samples
}
