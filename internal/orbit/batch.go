package orbit

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/geodesim/internal/dynamo"
)

// ComputeAll runs every request independently on up to workers goroutines
// (workers <= 0 means GOMAXPROCS). Results keep the order of ps. Rejected
// starts come back as Rejected trajectories; only a bad step budget or a
// canceled context fails the batch.
func (in *Integrator) ComputeAll(ctx context.Context, ps []Params, workers int) ([]*Trajectory, error) {
	out := make([]*Trajectory, len(ps))
	err := dynamo.ParallelFor(ctx, len(ps), workers, func(_ context.Context, i int) error {
		traj, err := in.Compute(ps[i])
		if err != nil && !errors.Is(err, dynamo.ErrInvalidInitialConditions) {
			return fmt.Errorf("request %d: %w", i, err)
		}
		out[i] = traj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnergySweep builds n requests spanning [eLo, eHi] with the other inputs
// fixed. n == 1 yields eLo alone.
func EnergySweep(eLo, eHi, L, r0 float64, maxSteps, n int) []Params {
	if n <= 0 {
		return nil
	}
	ps := make([]Params, n)
	for i := range ps {
		e := eLo
		if n > 1 {
			e = eLo + (eHi-eLo)*float64(i)/float64(n-1)
		}
		ps[i] = Params{E: e, L: L, R0: r0, MaxSteps: maxSteps}
	}
	return ps
}
