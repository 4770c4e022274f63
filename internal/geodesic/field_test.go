package geodesic_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/geodesic"
)

var _ = Describe("Acceleration", func() {
	It("matches M/L² + 3Mu² − u", func() {
		Expect(geodesic.Acceleration(0.125, 3.9)).To(BeNumerically("~", 1/(3.9*3.9)+3*0.125*0.125-0.125, 1e-15))
	})

	It("vanishes on the circular orbit for L", func() {
		r, ok := geodesic.CircularRadius(4.5)
		Expect(ok).To(BeTrue())
		Expect(geodesic.Acceleration(1/r, 4.5)).To(BeNumerically("~", 0, 1e-12))
	})

	It("is total for degenerate inputs", func() {
		Expect(math.IsInf(geodesic.Acceleration(0.1, 0), 1)).To(BeTrue())
		Expect(geodesic.Acceleration(0, 1)).To(Equal(1.0))
	})
})

var _ = Describe("VelocitySquared", func() {
	DescribeTable("admissibility at r0",
		func(E, L, r0 float64, admissible bool) {
			v2, ok := geodesic.VelocitySquared(1/r0, E, L)
			Expect(ok).To(Equal(admissible))
			if admissible {
				Expect(v2).To(BeNumerically(">=", 0))
			} else {
				Expect(v2).To(BeZero())
			}
		},
		Entry("bound precessing start", 0.98, 3.9, 8.0, true),
		Entry("scattering start", 1.05, 4.5, 8.0, true),
		Entry("energy below barrier", 0.90, 3.5, 8.0, false),
		Entry("inside the horizon every energy passes", 0.5, 4.0, 1.5, true),
	)

	It("follows the energy relation with the 1/r⁴ factor", func() {
		E, L, r := 0.98, 3.9, 8.0
		u := 1 / r
		want := (E*E - (1-2/r)*(1+L*L*u*u)) / (L * L) / math.Pow(r, 4)
		v2, ok := geodesic.VelocitySquared(u, E, L)
		Expect(ok).To(BeTrue())
		Expect(v2).To(BeNumerically("~", want, 1e-18))
	})

	It("switches sign exactly at MinEnergy", func() {
		L, r0 := 3.9, 8.0
		eMin := geodesic.MinEnergy(L, r0)
		Expect(geodesic.Admissible(eMin-1e-9, L, r0)).To(BeFalse())
		Expect(geodesic.Admissible(eMin+1e-9, L, r0)).To(BeTrue())
	})
})

var _ = Describe("Field", func() {
	It("derives {v, Acceleration(u)}", func() {
		f := geodesic.NewField(3.9)
		Expect(f.StateDim()).To(Equal(2))
		d := f.Derive(dynamo.State{0.125, 0.01}, 0)
		Expect(d[0]).To(Equal(0.01))
		Expect(d[1]).To(Equal(geodesic.Acceleration(0.125, 3.9)))
	})
})

var _ = Describe("circular orbits", func() {
	It("reproduces E and L at r = 10M", func() {
		E, L, ok := geodesic.CircularOrbit(10)
		Expect(ok).To(BeTrue())
		Expect(E).To(BeNumerically("~", 0.8/math.Sqrt(0.7), 1e-12))
		Expect(L).To(BeNumerically("~", math.Sqrt(100.0/7.0), 1e-12))
		Expect(geodesic.MinEnergy(L, 10)).To(BeNumerically("~", E, 1e-12))
	})

	It("does not exist inside the photon sphere", func() {
		_, _, ok := geodesic.CircularOrbit(geodesic.PhotonSphereRadius)
		Expect(ok).To(BeFalse())
		_, ok = geodesic.CircularRadius(3.4)
		Expect(ok).To(BeFalse())
	})

	It("is stable from the ISCO outward", func() {
		Expect(geodesic.StableCircular(geodesic.ISCORadius)).To(BeTrue())
		Expect(geodesic.StableCircular(5.9)).To(BeFalse())
		r, ok := geodesic.CircularRadius(math.Sqrt(12) * (1 + 1e-12))
		Expect(ok).To(BeTrue())
		Expect(r).To(BeNumerically("~", geodesic.ISCORadius, 1e-4))
	})

	It("reports NaN MinEnergy inside the horizon", func() {
		Expect(math.IsNaN(geodesic.MinEnergy(4, 1.5))).To(BeTrue())
	})
})

var _ = Describe("Field invariant", func() {
	It("equals E² for the geodesic du/dφ", func() {
		E, L, u := 0.98, 3.9, 0.1
		f := geodesic.NewField(L)
		v := math.Sqrt((E*E - (1-2*u)*(1+L*L*u*u)) / (L * L))
		Expect(f.Invariant(dynamo.State{u, v})).To(BeNumerically("~", E*E, 1e-12))
	})

	It("is constant along the flow", func() {
		f := geodesic.NewField(4.2)
		x := dynamo.State{0.1, 0.03}
		dx := f.Derive(x, 0)
		const h = 1e-6
		next := dynamo.State{x[0] + h*dx[0], x[1] + h*dx[1]}
		Expect((f.Invariant(next) - f.Invariant(x)) / h).To(BeNumerically("~", 0, 1e-5))
	})
})
