package orbit_test

import (
	"bytes"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/geodesic"
	"github.com/san-kum/geodesim/internal/orbit"
)

const rs = geodesic.SchwarzschildRadius

var (
	boundPrecessing = orbit.Params{E: 0.98, L: 3.9, R0: 8, MaxSteps: 3000}
	plunging        = orbit.Params{E: 0.95, L: 3.5, R0: 10, MaxSteps: 1500}
	scattering      = orbit.Params{E: 1.05, L: 4.5, R0: 8, MaxSteps: 2000}
)

func mustIntegrator(cfg dynamo.Config, opts ...orbit.Option) *orbit.Integrator {
	in, err := orbit.New(cfg, opts...)
	Expect(err).NotTo(HaveOccurred())
	return in
}

func radii(t *orbit.Trajectory) []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.R
	}
	return out
}

var _ = Describe("Integrator", func() {
	var in *orbit.Integrator

	BeforeEach(func() {
		in = mustIntegrator(dynamo.DefaultConfig())
	})

	Describe("sample invariants", func() {
		DescribeTable("hold for every admissible start",
			func(p orbit.Params) {
				traj, err := in.Compute(p)
				Expect(err).NotTo(HaveOccurred())
				Expect(traj.Samples).NotTo(BeEmpty())
				Expect(traj.E).To(Equal(p.E))
				Expect(traj.L).To(Equal(p.L))

				Expect(traj.Samples[0].R).To(BeNumerically("~", p.R0, 1e-12))
				Expect(traj.Samples[0].Phi).To(BeZero())
				Expect(len(traj.Samples)).To(BeNumerically("<=", p.MaxSteps))

				last, _ := traj.Last()
				Expect(last.Phi).To(BeNumerically("<=", float64(p.MaxSteps)*dynamo.DefaultStep))

				for i, s := range traj.Samples {
					Expect(s.R).To(BeNumerically(">=", rs*dynamo.DefaultHorizonMargin))
					Expect(s.R).To(BeNumerically("<=", dynamo.DefaultOuterRadius))
					if i > 0 {
						Expect(s.Phi).To(BeNumerically(">", traj.Samples[i-1].Phi))
					}
				}
			},
			Entry("bound precessing", boundPrecessing),
			Entry("plunging", plunging),
			Entry("scattering", scattering),
			Entry("near-circular", orbit.Params{E: 0.9562, L: 3.7796, R0: 10, MaxSteps: 2000}),
		)
	})

	Describe("scenarios", func() {
		It("runs a bound precessing orbit to the step budget", func() {
			traj, err := in.Compute(boundPrecessing)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Outcome).To(Equal(orbit.Exhausted))
			Expect(traj.Samples).To(HaveLen(3000))

			rmin, rmax := math.Inf(1), math.Inf(-1)
			for _, r := range radii(traj) {
				rmin = math.Min(rmin, r)
				rmax = math.Max(rmax, r)
			}
			Expect(rmin).To(BeNumerically(">", rs))
			Expect(rmax).To(BeNumerically("<", 50))
			Expect(rmin).To(BeNumerically("~", 8.0, 0.01))
			Expect(rmax).To(BeNumerically("~", 16.7, 0.05))
		})

		It("spirals into the horizon margin before the budget", func() {
			traj, err := in.Compute(plunging)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Outcome).To(Equal(orbit.Captured))
			Expect(len(traj.Samples)).To(BeNumerically("<", plunging.MaxSteps))

			last, ok := traj.Last()
			Expect(ok).To(BeTrue())
			Expect(last.R).To(BeNumerically(">=", rs*1.05))
			Expect(last.R).To(BeNumerically("<=", rs*1.2))
		})

		It("scatters out through the outer boundary", func() {
			traj, err := in.Compute(scattering)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Outcome).To(Equal(orbit.Escaped))
			Expect(len(traj.Samples)).To(BeNumerically("<", scattering.MaxSteps))

			last, _ := traj.Last()
			Expect(last.R).To(BeNumerically(">", 45))
		})

		// The field's own admissibility check rejects E=0.90, L=3.5 at r0=8:
		// E² = 0.81 sits below the barrier 0.894.
		It("rejects an energy below the barrier at r0", func() {
			traj, err := in.Compute(orbit.Params{E: 0.90, L: 3.5, R0: 8, MaxSteps: 1500})
			Expect(err).To(MatchError(dynamo.ErrInvalidInitialConditions))
			Expect(traj.Outcome).To(Equal(orbit.Rejected))
			Expect(traj.Samples).To(BeEmpty())
		})

		// The initial du/dφ carries a 1/r⁴ factor and is tiny, so r0 = 12
		// with L = 4.5 is a turning point of a bound orbit, not a flyby.
		It("keeps E=1.05, L=4.5 from r0=12 bound", func() {
			traj, err := in.Compute(orbit.Params{E: 1.05, L: 4.5, R0: 12, MaxSteps: 2000})
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Outcome).To(Equal(orbit.Exhausted))
			Expect(traj.Samples).To(HaveLen(2000))
		})
	})

	Describe("admissibility threshold", func() {
		L, r0 := 3.9, 8.0
		eMin := geodesic.MinEnergy(L, r0)

		DescribeTable("is empty just below E_min for any budget",
			func(n int) {
				traj, err := in.Compute(orbit.Params{E: eMin - 1e-6, L: L, R0: r0, MaxSteps: n})
				Expect(err).To(MatchError(dynamo.ErrInvalidInitialConditions))
				Expect(traj.Samples).To(BeEmpty())
				Expect(orbit.ComputeTrajectory(eMin-1e-6, L, r0, n)).To(BeEmpty())
			},
			Entry("one step", 1),
			Entry("a hundred steps", 100),
			Entry("five thousand steps", 5000),
		)

		It("is non-empty just above E_min", func() {
			Expect(orbit.ComputeTrajectory(eMin+1e-6, L, r0, 100)).To(HaveLen(100))
		})
	})

	Describe("edge cases", func() {
		It("rejects a non-positive step budget", func() {
			_, err := in.Compute(orbit.Params{E: 0.98, L: 3.9, R0: 8, MaxSteps: 0})
			Expect(err).To(MatchError(dynamo.ErrInvalidSteps))
			Expect(orbit.ComputeTrajectory(0.98, 3.9, 8, -1)).To(BeEmpty())
		})

		It("terminates immediately inside the capture radius", func() {
			traj, err := in.Compute(orbit.Params{E: 0.5, L: 4, R0: 1.5, MaxSteps: 100})
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Outcome).To(Equal(orbit.Captured))
			Expect(traj.Samples).To(BeEmpty())
			Expect(traj.Samples).NotTo(BeNil())
		})

		It("terminates immediately beyond the outer radius", func() {
			traj, err := in.Compute(orbit.Params{E: 1.1, L: 4, R0: 60, MaxSteps: 100})
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Outcome).To(Equal(orbit.Escaped))
			Expect(traj.Samples).To(BeEmpty())
		})

		It("honours a configured outer radius", func() {
			cfg := dynamo.DefaultConfig()
			cfg.OuterRadius = 12
			traj, err := mustIntegrator(cfg).Compute(boundPrecessing)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Outcome).To(Equal(orbit.Escaped))
			for _, r := range radii(traj) {
				Expect(r).To(BeNumerically("<=", 12))
			}
		})

		It("stops on a non-finite state without recording it", func() {
			blowUp := func() dynamo.Integrator { return nanStepper{} }
			traj, err := mustIntegrator(dynamo.DefaultConfig(), orbit.WithStepper(blowUp)).Compute(boundPrecessing)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Outcome).To(Equal(orbit.Diverged))
			Expect(traj.Samples).To(HaveLen(1))
		})

		It("rejects an invalid policy", func() {
			_, err := orbit.New(dynamo.Config{Step: 0, HorizonMargin: 1.05, OuterRadius: 50})
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})

	Describe("determinism", func() {
		It("returns identical sequences for identical arguments", func() {
			a := orbit.ComputeTrajectory(0.98, 3.9, 8, 3000)
			b := orbit.ComputeTrajectory(0.98, 3.9, 8, 3000)
			Expect(a).To(Equal(b))

			c, err := in.Compute(boundPrecessing)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Samples).To(Equal(a))
		})
	})

	Describe("step doubling", func() {
		// Richardson ratio |r_h − r_h/2| / |r_h/2 − r_h/4| at matching φ.
		It("converges at fourth order on the bound orbit", func() {
			run := func(h float64) []float64 {
				cfg := dynamo.DefaultConfig()
				cfg.Step = h
				p := boundPrecessing
				p.MaxSteps = int(math.Round(12 / h))
				traj, err := mustIntegrator(cfg).Compute(p)
				Expect(err).NotTo(HaveOccurred())
				return radii(traj)
			}
			coarse, mid, fine := run(0.02), run(0.01), run(0.005)

			for _, k := range []int{50, 100, 250, 500} {
				ratio := math.Abs(coarse[k]-mid[2*k]) / math.Abs(mid[2*k]-fine[4*k])
				Expect(ratio).To(BeNumerically("~", 16, 4), "at φ = %.2f", float64(k)*0.02)
			}
		})
	})

	Describe("logging", func() {
		It("reports rejected starts at debug level", func() {
			var buf bytes.Buffer
			logger := level.NewFilter(log.NewLogfmtLogger(&buf), level.AllowDebug())
			_, err := mustIntegrator(dynamo.DefaultConfig(), orbit.WithLogger(logger)).
				Compute(orbit.Params{E: 0.5, L: 3.9, R0: 8, MaxSteps: 10})
			Expect(err).To(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("initial conditions rejected"))
		})
	})
})

type nanStepper struct{}

func (nanStepper) Step(_ dynamo.System, x dynamo.State, _, _ float64) dynamo.State {
	return dynamo.State{math.NaN(), x[1]}
}
