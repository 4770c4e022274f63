package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/orbit"
)

var ErrTooFewPoints = errors.New("not enough common samples to compare")

// ConvergenceResult compares runs at Δφ, Δφ/2 and Δφ/4 over the same φ span.
type ConvergenceResult struct {
	Steps  [3]float64
	Points int     // coarse samples compared
	Coarse float64 // Σ|r_h - r_h/2|
	Fine   float64 // Σ|r_h/2 - r_h/4|
	Ratio  float64
	Order  float64 // log2(Ratio)
}

// Convergence runs p three times with the step halved each time and returns
// the Richardson ratio of the summed differences at matching φ. A method of
// order n gives a ratio near 2^n.
func Convergence(cfg dynamo.Config, p orbit.Params, stepper integrators.Factory) (ConvergenceResult, error) {
	res := ConvergenceResult{Steps: [3]float64{cfg.Step, cfg.Step / 2, cfg.Step / 4}}

	runs := make([][]orbit.Sample, 3)
	for i, h := range res.Steps {
		c := cfg
		c.Step = h
		in, err := orbit.New(c, orbit.WithStepper(stepper))
		if err != nil {
			return res, err
		}
		q := p
		q.MaxSteps = p.MaxSteps << i
		traj, err := in.Compute(q)
		if err != nil {
			return res, fmt.Errorf("step %g: %w", h, err)
		}
		runs[i] = traj.Samples
	}

	n := min(len(runs[0]), (len(runs[1])+1)/2, (len(runs[2])+3)/4)
	if n < 2 {
		return res, ErrTooFewPoints
	}
	for i := 0; i < n; i++ {
		res.Coarse += math.Abs(runs[0][i].R - runs[1][2*i].R)
		res.Fine += math.Abs(runs[1][2*i].R - runs[2][4*i].R)
	}
	res.Points = n
	if res.Fine == 0 {
		return res, ErrTooFewPoints
	}
	res.Ratio = res.Coarse / res.Fine
	res.Order = math.Log2(res.Ratio)
	return res, nil
}
