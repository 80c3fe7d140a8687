package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravbox/internal/authoring"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/integrators"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/universe"
	"gonum.org/v1/gonum/spatial/r2"
)

type countingMetric struct {
	ticks int
}

func (m *countingMetric) Name() string      { return "ticks" }
func (m *countingMetric) Observe(sim.Frame) { m.ticks++ }
func (m *countingMetric) Value() float64    { return float64(m.ticks) }
func (m *countingMetric) Reset()            { m.ticks = 0 }

var _ = Describe("Sandbox", func() {
	const (
		distanceScale = dynamo.AU / 100
		timeScale     = 1 << 20
	)

	var (
		u  *universe.Universe
		c  *camera.Camera
		sb *sim.Sandbox
	)

	BeforeEach(func() {
		var err error
		u, err = universe.New(distanceScale, timeScale)
		Expect(err).NotTo(HaveOccurred())
		c = camera.New(r2.Vec{X: 80, Y: 48})
		sb = sim.New(u, c, authoring.DefaultConfig())
	})

	newBody := func(x, y float64) *physics.Body {
		b, err := physics.NewBody(r2.Vec{X: x, Y: y}, dynamo.EarthMass)
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	Describe("Tick", func() {
		It("advances simulated time by realDt times the time scale", func() {
			f := sb.Tick(0.5)
			Expect(f.DeltaT).To(Equal(0.5 * timeScale))
			Expect(f.TotalTime).To(Equal(0.5 * timeScale))
			Expect(f.Tick).To(Equal(uint64(1)))
			Expect(f.TimeScale).To(Equal(float64(timeScale)))
		})

		It("never runs simulated time backwards", func() {
			sb.Tick(1)
			before := sb.Frame().TotalTime
			f := sb.Tick(-1)
			Expect(f.TotalTime).To(Equal(before))
		})

		It("moves a committed body under gravity", func() {
			a, b := newBody(-1e9, 0), newBody(1e9, 0)
			Expect(sb.Commit(a)).To(Succeed())
			Expect(sb.Commit(b)).To(Succeed())

			f := sb.Tick(0.001)
			Expect(f.Bodies).To(HaveLen(2))

			dt := 0.001 * timeScale
			wantV := dynamo.G * dynamo.EarthMass / (4e18) * dt
			Expect(f.Bodies[0].Velocity.X).To(BeNumerically("~", wantV, wantV*1e-9))
			Expect(f.Bodies[1].Velocity.X).To(Equal(-f.Bodies[0].Velocity.X))
		})

		It("holds still while paused but keeps panning", func() {
			b := newBody(0, 0)
			b.Velocity = r2.Vec{X: 1}
			Expect(sb.Commit(b)).To(Succeed())

			sb.SetPaused(true)
			sb.SetHeld(camera.Directions{Right: true})
			f := sb.Tick(0.1)

			Expect(f.TotalTime).To(BeZero())
			Expect(f.Bodies[0].Position).To(Equal(r2.Vec{}))
			Expect(f.Pan.X).To(BeNumerically("~", camera.DefaultPanSpeed*0.1, 1e-9))
			Expect(f.Paused).To(BeTrue())
		})

		It("reports the scale bar length", func() {
			Expect(sb.Scroll(1, false)).To(Succeed())
			f := sb.Frame()
			Expect(f.Zoom).To(Equal(2.0))
			Expect(f.MetresPerUnit).To(Equal(distanceScale / 2))
		})

		It("notifies metrics and observers once per tick", func() {
			m := &countingMetric{}
			var seen []uint64
			sb.AddMetric(m)
			sb.AddObserver(sim.ObserverFunc(func(f sim.Frame) { seen = append(seen, f.Tick) }))

			Expect(sb.Run(context.Background(), 5, 0.01, nil)).To(Succeed())
			Expect(m.ticks).To(Equal(5))
			Expect(seen).To(Equal([]uint64{1, 2, 3, 4, 5}))
			Expect(sb.Metrics()).To(HaveKeyWithValue("ticks", 5.0))
		})

		It("refuses to grow the body set from inside a tick", func() {
			var err error
			sb.AddObserver(sim.ObserverFunc(func(sim.Frame) { err = sb.Commit(newBody(0, 0)) }))
			sb.Tick(0.01)
			Expect(err).To(MatchError(sim.ErrBusy))
			Expect(sb.BodyCount()).To(BeZero())
		})

		It("flags divergence once", func() {
			b := newBody(0, 0)
			b.Velocity = r2.Vec{X: math.Inf(1)}
			Expect(sb.Commit(b)).To(Succeed())
			Expect(sb.Tick(0.01).Unstable).To(BeTrue())
			Expect(sb.Tick(0.01).Unstable).To(BeTrue())
		})

		It("reports angular momentum of the active set", func() {
			a, b := newBody(-1e7, 0), newBody(1e7, 0)
			a.Velocity = r2.Vec{Y: 10}
			b.Velocity = r2.Vec{Y: -10}
			Expect(sb.Commit(a)).To(Succeed())
			Expect(sb.Commit(b)).To(Succeed())

			want := -2 * 1e7 * 10 * dynamo.EarthMass
			Expect(sb.Frame().AngularMomentum).To(BeNumerically("~", want, math.Abs(want)*1e-12))
		})

		It("counts coincident pairs without producing NaN", func() {
			Expect(sb.Commit(newBody(5, 5))).To(Succeed())
			Expect(sb.Commit(newBody(5, 5))).To(Succeed())
			f := sb.Tick(0.01)
			Expect(f.Degenerate).To(Equal(1))
			Expect(f.Unstable).To(BeFalse())
		})
	})

	Describe("authoring", func() {
		It("commits a dragged body on release", func() {
			Expect(sb.PointerDown(r2.Vec{X: 100, Y: 100})).To(Succeed())
			sb.Tick(0.02)
			Expect(sb.Scroll(2, false)).To(Succeed())

			f := sb.Frame()
			Expect(f.Provisional).NotTo(BeNil())
			Expect(f.Bodies).To(BeEmpty())
			Expect(f.MassMultiplier).To(BeNumerically("~", math.Cbrt(4), 1e-12))

			sb.Tick(0.02)
			Expect(sb.PointerUp(r2.Vec{X: 150, Y: 100}, false)).To(Succeed())

			f = sb.Frame()
			Expect(f.Provisional).To(BeNil())
			Expect(f.Bodies).To(HaveLen(1))
			Expect(f.Bodies[0].Velocity.X).To(BeNumerically(">", 0))
			Expect(f.Bodies[0].Mass).To(BeNumerically("~", math.Cbrt(4)*dynamo.EarthMass, dynamo.EarthMass*1e-12))
		})

		It("zooms instead of scaling mass while idle", func() {
			Expect(sb.Scroll(-1, false)).To(Succeed())
			Expect(c.ZoomScale()).To(Equal(0.5))
		})

		It("commits at rest with a warning when no time elapsed", func() {
			Expect(sb.PointerDown(r2.Vec{X: 10, Y: 10})).To(Succeed())
			err := sb.PointerUp(r2.Vec{X: 10, Y: 10}, false)

			Expect(err).To(MatchError(dynamo.ErrZeroElapsedTime))
			var tickErr *dynamo.TickError
			Expect(err).To(BeAssignableToTypeOf(tickErr))
			Expect(sb.BodyCount()).To(Equal(1))
			Expect(sb.Frame().Bodies[0].Velocity).To(Equal(r2.Vec{}))
		})

		It("honours the sticky velocity suppression", func() {
			sb.SetSuppressVelocity(true)
			Expect(sb.PointerDown(r2.Vec{X: 10, Y: 10})).To(Succeed())
			sb.Tick(0.05)
			Expect(sb.PointerUp(r2.Vec{X: 60, Y: 10}, false)).To(Succeed())
			Expect(sb.Frame().Bodies[0].Velocity).To(Equal(r2.Vec{}))
		})

		It("keeps the drag when released from inside a tick", func() {
			Expect(sb.PointerDown(r2.Vec{X: 10, Y: 10})).To(Succeed())
			var err error
			sb.AddObserver(sim.ObserverFunc(func(sim.Frame) {
				if err == nil {
					err = sb.PointerUp(r2.Vec{X: 20, Y: 10}, false)
				}
			}))
			sb.Tick(0.01)

			Expect(err).To(MatchError(sim.ErrBusy))
			Expect(sb.Session().Active()).To(BeTrue())
			Expect(sb.BodyCount()).To(BeZero())

			Expect(sb.PointerUp(r2.Vec{X: 20, Y: 10}, false)).To(Succeed())
			Expect(sb.BodyCount()).To(Equal(1))
		})

		It("ignores a release without a drag", func() {
			Expect(sb.PointerUp(r2.Vec{}, false)).To(Succeed())
			Expect(sb.BodyCount()).To(BeZero())
		})

		It("keeps the provisional body under the pointer while the camera pans", func() {
			Expect(sb.PointerDown(r2.Vec{X: 40, Y: 40})).To(Succeed())
			sb.SetHeld(camera.Directions{Left: true})
			f := sb.Tick(0.1)

			want := u.WorldFromScreen(c.FromDrawSpace(r2.Vec{X: 40, Y: 40}))
			Expect(f.Provisional.Position).To(Equal(want))
			Expect(sb.ScreenOf(f.Provisional.Position).X).To(BeNumerically("~", 40, 1e-9))
		})
	})

	Describe("time scale", func() {
		It("applies from the next tick", func() {
			Expect(sb.AccelerateTime(2)).To(Succeed())
			Expect(sb.Tick(1).DeltaT).To(Equal(2.0 * timeScale))
			Expect(sb.AccelerateTime(0.5)).To(Succeed())
			Expect(sb.Tick(1).DeltaT).To(Equal(float64(timeScale)))
		})

		It("rejects a zero factor", func() {
			Expect(sb.AccelerateTime(0)).To(MatchError(dynamo.ErrInvalidTimeScale))
			Expect(u.TimeScale()).To(Equal(float64(timeScale)))
		})
	})

	It("uses the configured integrator", func() {
		integ, err := integrators.New(integrators.Sequential)
		Expect(err).NotTo(HaveOccurred())
		sb = sim.New(u, c, authoring.DefaultConfig(), sim.WithIntegrator(integ))
		Expect(sb.Integrator().Name()).To(Equal(integrators.Sequential))
	})
})
