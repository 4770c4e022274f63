package orbit_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/orbit"
)

var _ = Describe("ComputeAll", func() {
	var in *orbit.Integrator

	BeforeEach(func() {
		in = mustIntegrator(dynamo.DefaultConfig())
	})

	It("matches serial runs and keeps request order", func() {
		ps := []orbit.Params{
			boundPrecessing,
			{E: 0.5, L: 3.9, R0: 8, MaxSteps: 100},
			plunging,
			scattering,
		}
		got, err := in.ComputeAll(context.Background(), ps, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(HaveLen(len(ps)))

		for i, p := range ps {
			want, _ := in.Compute(p)
			Expect(got[i]).To(Equal(want), "request %d", i)
		}
		Expect(got[1].Outcome).To(Equal(orbit.Rejected))
	})

	It("fails on a bad step budget", func() {
		ps := []orbit.Params{boundPrecessing, {E: 0.98, L: 3.9, R0: 8, MaxSteps: 0}}
		_, err := in.ComputeAll(context.Background(), ps, 0)
		Expect(err).To(MatchError(dynamo.ErrInvalidSteps))
	})

	It("stops on a canceled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := in.ComputeAll(ctx, orbit.EnergySweep(0.97, 0.99, 3.9, 8, 500, 8), 2)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("EnergySweep", func() {
	It("spans the interval inclusively", func() {
		ps := orbit.EnergySweep(0.96, 1.0, 3.9, 8, 100, 5)
		Expect(ps).To(HaveLen(5))
		Expect(ps[0].E).To(Equal(0.96))
		Expect(ps[4].E).To(BeNumerically("~", 1.0, 1e-12))
		Expect(ps[2].E).To(BeNumerically("~", 0.98, 1e-12))
		for _, p := range ps {
			Expect(p.L).To(Equal(3.9))
			Expect(p.R0).To(Equal(8.0))
			Expect(p.MaxSteps).To(Equal(100))
		}
	})

	It("handles degenerate counts", func() {
		Expect(orbit.EnergySweep(0.9, 1.0, 4, 8, 10, 0)).To(BeEmpty())
		one := orbit.EnergySweep(0.9, 1.0, 4, 8, 10, 1)
		Expect(one).To(HaveLen(1))
		Expect(one[0].E).To(Equal(0.9))
	})
})

var _ = Describe("Collection", func() {
	It("keeps non-empty trajectories in insertion order", func() {
		in := mustIntegrator(dynamo.DefaultConfig())
		c := orbit.NewCollection()

		a, _ := in.Compute(boundPrecessing)
		b, _ := in.Compute(scattering)
		rejected, _ := in.Compute(orbit.Params{E: 0.5, L: 3.9, R0: 8, MaxSteps: 10})

		Expect(c.Add(a)).To(BeTrue())
		Expect(c.Add(rejected)).To(BeFalse())
		Expect(c.Add(b)).To(BeTrue())

		Expect(c.Len()).To(Equal(2))
		Expect(c.All()).To(Equal([]*orbit.Trajectory{a, b}))
		Expect(c.TotalSamples()).To(Equal(a.Len() + b.Len()))

		c.Clear()
		Expect(c.Len()).To(BeZero())
		Expect(c.All()).To(BeEmpty())
		Expect(c.TotalSamples()).To(BeZero())
	})

	It("returns a copy from All", func() {
		c := orbit.NewCollection()
		c.Add(&orbit.Trajectory{Samples: []orbit.Sample{{R: 8}}})
		all := c.All()
		all[0] = nil
		Expect(c.All()[0]).NotTo(BeNil())
	})
})

var _ = Describe("Outcome", func() {
	DescribeTable("round-trips through its name",
		func(o orbit.Outcome, name string) {
			Expect(o.String()).To(Equal(name))
			parsed, ok := orbit.ParseOutcome(name)
			Expect(ok).To(BeTrue())
			Expect(parsed).To(Equal(o))
		},
		Entry(nil, orbit.Rejected, "rejected"),
		Entry(nil, orbit.Captured, "captured"),
		Entry(nil, orbit.Escaped, "escaped"),
		Entry(nil, orbit.Diverged, "diverged"),
		Entry(nil, orbit.Exhausted, "exhausted"),
	)

	It("rejects unknown names", func() {
		_, ok := orbit.ParseOutcome("orbiting")
		Expect(ok).To(BeFalse())
	})
})
