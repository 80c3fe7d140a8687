package authoring_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravbox/internal/authoring"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/universe"
	"gonum.org/v1/gonum/spatial/r2"
)

var _ = Describe("Session", func() {
	const (
		distanceScale = 1000.0
		timeScale     = 3600.0
	)

	var (
		u       *universe.Universe
		cam     *camera.Camera
		cfg     authoring.Config
		session *authoring.Session
	)

	BeforeEach(func() {
		var err error
		u, err = universe.New(distanceScale, timeScale)
		Expect(err).NotTo(HaveOccurred())
		cam = camera.New(r2.Vec{X: 500, Y: 350})
		cfg = authoring.DefaultConfig()
		session = authoring.New(u, cam, cfg)
	})

	worldAt := func(p r2.Vec) r2.Vec {
		return u.WorldFromScreen(cam.FromDrawSpace(p))
	}

	It("starts idle with no provisional body", func() {
		Expect(session.Phase()).To(Equal(authoring.Idle))
		Expect(session.Provisional()).To(BeNil())
		Expect(session.MassMultiplier()).To(BeZero())
	})

	Describe("pointer down", func() {
		It("creates a provisional body at rest under the pointer", func() {
			Expect(cam.Zoom(2)).To(Succeed())
			cam.Pan(r2.Vec{X: 20, Y: -10})

			p := r2.Vec{X: 100, Y: 100}
			started, err := session.PointerDown(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(started).To(BeTrue())

			body := session.Provisional()
			Expect(body).NotTo(BeNil())
			Expect(body.Position).To(Equal(worldAt(p)))
			Expect(body.Velocity).To(Equal(r2.Vec{}))
			Expect(body.Mass()).To(Equal(cfg.ReferenceMass))
			Expect(session.MassMultiplier()).To(Equal(1.0))
			Expect(session.Phase()).To(Equal(authoring.Dragging))
		})

		It("ignores a second press while dragging", func() {
			_, err := session.PointerDown(r2.Vec{X: 10, Y: 10})
			Expect(err).NotTo(HaveOccurred())
			first := session.Provisional()

			started, err := session.PointerDown(r2.Vec{X: 400, Y: 400})
			Expect(err).NotTo(HaveOccurred())
			Expect(started).To(BeFalse())
			Expect(session.Provisional()).To(BeIdenticalTo(first))
			Expect(first.Position).To(Equal(worldAt(r2.Vec{X: 10, Y: 10})))
		})
	})

	Describe("pointer move", func() {
		It("is a no-op while idle", func() {
			Expect(session.PointerMove(r2.Vec{X: 1, Y: 1})).To(BeFalse())
			Expect(session.Provisional()).To(BeNil())
		})

		It("keeps the provisional body under the pointer", func() {
			_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})
			Expect(session.PointerMove(r2.Vec{X: 130, Y: 90})).To(BeTrue())
			Expect(session.Provisional().Position).To(Equal(worldAt(r2.Vec{X: 130, Y: 90})))
		})

		It("follows camera pans on refresh", func() {
			_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})
			cam.Pan(r2.Vec{X: 50})
			session.Refresh()
			Expect(session.Provisional().Position).To(Equal(worldAt(r2.Vec{X: 100, Y: 100})))
			Expect(session.Provisional().Position.X).To(BeNumerically("~", 150*distanceScale, 1e-6))
		})
	})

	Describe("scroll", func() {
		It("fails gracefully while idle", func() {
			Expect(session.Scroll(1, false)).To(MatchError(dynamo.ErrNoSession))
		})

		It("scales the mass by one step per notch", func() {
			_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})

			Expect(session.Scroll(1, false)).To(Succeed())
			Expect(session.MassMultiplier()).To(BeNumerically("~", math.Cbrt(2), 1e-12))

			Expect(session.Scroll(-1, false)).To(Succeed())
			Expect(session.MassMultiplier()).To(BeNumerically("~", 1, 1e-12))

			Expect(session.Scroll(1, true)).To(Succeed())
			Expect(session.MassMultiplier()).To(BeNumerically("~", math.Cbrt(4), 1e-12))
			Expect(session.Provisional().Mass()).To(BeNumerically("~", math.Cbrt(4)*cfg.ReferenceMass, 1e12))
		})

		It("clamps the multiplier to the configured range", func() {
			_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})

			Expect(session.Scroll(-10000, true)).To(Succeed())
			Expect(session.MassMultiplier()).To(Equal(cfg.MinMultiplier))
			Expect(session.Provisional().Mass()).To(BeNumerically(">", 0))

			Expect(session.Scroll(10000, true)).To(Succeed())
			Expect(session.MassMultiplier()).To(Equal(cfg.MaxMultiplier))
		})
	})

	Describe("pointer up", func() {
		It("fails gracefully while idle", func() {
			body, err := session.PointerUp(r2.Vec{}, false)
			Expect(body).To(BeNil())
			Expect(err).To(MatchError(dynamo.ErrNoSession))
		})

		It("launches the body along the drag", func() {
			Expect(cam.Zoom(2)).To(Succeed())

			_, err := session.PointerDown(r2.Vec{X: 100, Y: 100})
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Scroll(1, false)).To(Succeed())
			Expect(session.Scroll(1, false)).To(Succeed())

			elapsed := u.Advance(0.5)
			Expect(elapsed).To(Equal(1800.0))

			body, err := session.PointerUp(r2.Vec{X: 150, Y: 100}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Phase()).To(Equal(authoring.Idle))

			step := cfg.ScrollStep
			Expect(body.Mass()).To(BeNumerically("~", cfg.ReferenceMass*step*step, cfg.ReferenceMass*1e-12))

			wantVx := 50 * distanceScale / (cam.ZoomScale() * cfg.Damping * elapsed)
			Expect(body.Velocity.X).To(BeNumerically("~", wantVx, 1e-9))
			Expect(body.Velocity.Y).To(BeZero())
			Expect(body.Velocity.X).To(BeNumerically(">", 0))
			Expect(body.Position).To(Equal(worldAt(r2.Vec{X: 150, Y: 100})))
		})

		It("uses only the last two samples", func() {
			_, _ = session.PointerDown(r2.Vec{X: 0, Y: 0})
			u.Advance(1)
			session.PointerMove(r2.Vec{X: 300, Y: 300})
			u.Advance(0.25)
			session.PointerMove(r2.Vec{X: 300, Y: 280})

			body, err := session.PointerUp(r2.Vec{X: 300, Y: 280}, false)
			Expect(err).NotTo(HaveOccurred())

			wantVy := -20 * distanceScale / (cfg.Damping * 0.25 * timeScale)
			Expect(body.Velocity.X).To(BeZero())
			Expect(body.Velocity.Y).To(BeNumerically("~", wantVy, 1e-9))
		})

		It("releases at rest when velocity is suppressed", func() {
			_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})
			u.Advance(0.1)
			body, err := session.PointerUp(r2.Vec{X: 200, Y: 100}, true)
			Expect(err).NotTo(HaveOccurred())
			Expect(body.Velocity).To(Equal(r2.Vec{}))
			Expect(session.Active()).To(BeFalse())
		})

		It("warns and releases at rest when no simulated time elapsed", func() {
			_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})
			body, err := session.PointerUp(r2.Vec{X: 100, Y: 100}, false)

			Expect(err).To(MatchError(dynamo.ErrZeroElapsedTime))
			Expect(body).NotTo(BeNil())
			Expect(body.Velocity).To(Equal(r2.Vec{}))
			Expect(session.Active()).To(BeFalse())
		})

		It("warns when the whole drag happened within one tick", func() {
			_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})
			session.PointerMove(r2.Vec{X: 120, Y: 100})
			body, err := session.PointerUp(r2.Vec{X: 140, Y: 100}, false)

			Expect(err).To(MatchError(dynamo.ErrZeroElapsedTime))
			Expect(body.Velocity).To(Equal(r2.Vec{}))
			Expect(body.Position).To(Equal(worldAt(r2.Vec{X: 140, Y: 100})))
		})

		It("gives zero velocity for a held but motionless press", func() {
			_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})
			u.Advance(2)
			body, err := session.PointerUp(r2.Vec{X: 100, Y: 100}, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(body.Velocity).To(Equal(r2.Vec{}))
		})
	})

	It("drops the drag on cancel", func() {
		_, _ = session.PointerDown(r2.Vec{X: 100, Y: 100})
		session.Cancel()
		Expect(session.Phase()).To(Equal(authoring.Idle))
		Expect(session.Provisional()).To(BeNil())
	})
})
