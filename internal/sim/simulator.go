package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/gravbox/internal/authoring"
	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/integrators"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/universe"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrBusy is returned when the body set is changed from inside a tick,
// e.g. by an observer.
var ErrBusy = errors.New("sim: body set is being integrated")

const defaultZoomStep = 2.0

type Option func(*Sandbox)

func WithLogger(l *slog.Logger) Option {
	return func(s *Sandbox) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithIntegrator(integ integrators.Integrator) Option {
	return func(s *Sandbox) {
		if integ != nil {
			s.integrator = integ
		}
	}
}

// WithZoomStep sets the camera zoom factor applied per scroll notch while
// no body is being authored.
func WithZoomStep(step float64) Option {
	return func(s *Sandbox) {
		if step > 1 {
			s.zoomStep = step
		}
	}
}

// WithDiagnostics toggles the O(n²) energy and momentum pass in every frame.
func WithDiagnostics(on bool) Option {
	return func(s *Sandbox) { s.diagnostics = on }
}

// Sandbox drives one interactive session: it owns the universe, camera,
// active body set and authoring session, and advances them one tick at a
// time. It is not safe for concurrent use; input handlers and Tick must be
// called from the same goroutine.
type Sandbox struct {
	universe   *universe.Universe
	camera     *camera.Camera
	session    *authoring.Session
	integrator integrators.Integrator
	bodies     []*physics.Body

	held        camera.Directions
	suppress    bool
	paused      bool
	zoomStep    float64
	diagnostics bool

	tick     uint64
	realTime float64
	unstable bool
	stepping bool

	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(u *universe.Universe, c *camera.Camera, cfg authoring.Config, opts ...Option) *Sandbox {
	s := &Sandbox{
		universe:    u,
		camera:      c,
		session:     authoring.New(u, c, cfg),
		integrator:  integrators.NewSymplecticEuler(),
		bodies:      make([]*physics.Body, 0),
		zoomStep:    defaultZoomStep,
		diagnostics: true,
		metrics:     make([]Metric, 0),
		observers:   make([]Observer, 0),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sandbox) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sandbox) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Sandbox) Universe() *universe.Universe       { return s.universe }
func (s *Sandbox) Camera() *camera.Camera             { return s.camera }
func (s *Sandbox) Session() *authoring.Session        { return s.session }
func (s *Sandbox) Integrator() integrators.Integrator { return s.integrator }
func (s *Sandbox) BodyCount() int                     { return len(s.bodies) }
func (s *Sandbox) Paused() bool                       { return s.paused }
func (s *Sandbox) SuppressVelocity() bool             { return s.suppress }

// Metrics returns the current value of every registered metric.
func (s *Sandbox) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// ScreenOf maps a world position to draw space.
func (s *Sandbox) ScreenOf(world r2.Vec) r2.Vec {
	return s.camera.ToDrawSpace(s.universe.ScreenFromWorld(world))
}

// Commit appends b to the active set. The set only grows between ticks.
func (s *Sandbox) Commit(b *physics.Body) error {
	if s.stepping {
		return ErrBusy
	}
	s.bodies = append(s.bodies, b)
	return nil
}

func (s *Sandbox) PointerDown(p r2.Vec) error {
	started, err := s.session.PointerDown(p)
	if err != nil {
		return err
	}
	if started {
		s.logger.Debug("drag started", "x", p.X, "y", p.Y)
	}
	return nil
}

func (s *Sandbox) PointerMove(p r2.Vec) {
	s.session.PointerMove(p)
}

// PointerUp finishes the drag and commits the body. Velocity is suppressed
// when modifier is held or the sticky suppress toggle is on. A zero elapsed
// time warning is returned after the body has been committed. Called from
// inside a tick it returns ErrBusy and the drag stays in progress.
func (s *Sandbox) PointerUp(p r2.Vec, modifier bool) error {
	if s.stepping && s.session.Active() {
		return ErrBusy
	}
	body, warn := s.session.PointerUp(p, modifier || s.suppress)
	if body == nil {
		// release without a drag
		return nil
	}
	if err := s.Commit(body); err != nil {
		return err
	}

	if warn != nil {
		s.logger.Warn("velocity skipped", "err", warn, "tick", s.tick)
		warn = &dynamo.TickError{Tick: s.tick, Time: s.universe.TotalTime(), Wrapped: warn}
	}
	s.logger.Info("body committed",
		"mass_kg", body.Mass(),
		"vx", body.Velocity.X,
		"vy", body.Velocity.Y,
		"bodies", len(s.bodies),
	)
	return warn
}

// Scroll scales the provisional mass during a drag and zooms the camera
// otherwise. Positive notches grow or zoom in.
func (s *Sandbox) Scroll(notches int, fast bool) error {
	if s.session.Active() {
		if err := s.session.Scroll(notches, fast); err != nil {
			s.logger.Warn("mass change rejected", "err", err)
			return err
		}
		return nil
	}
	if err := s.camera.Zoom(math.Pow(s.zoomStep, float64(notches))); err != nil {
		s.logger.Warn("zoom rejected", "err", err)
		return err
	}
	return nil
}

// AccelerateTime multiplies the time scale; it takes effect next tick.
func (s *Sandbox) AccelerateTime(factor float64) error {
	if err := s.universe.AccelerateTime(factor); err != nil {
		s.logger.Warn("time scale change rejected", "err", err)
		return err
	}
	s.logger.Info("time scale changed", "time_scale", s.universe.TimeScale())
	return nil
}

func (s *Sandbox) SetHeld(dirs camera.Directions) { s.held = dirs }
func (s *Sandbox) SetSuppressVelocity(on bool)    { s.suppress = on }
func (s *Sandbox) SetPaused(on bool)              { s.paused = on }

// Tick advances the session by realDt real seconds and returns the
// resulting frame.
func (s *Sandbox) Tick(realDt float64) Frame {
	s.realTime += math.Max(realDt, 0)

	var dt float64
	if !s.paused {
		dt = s.universe.Advance(realDt)
	}

	s.camera.PanHeld(s.held, realDt)

	var stats integrators.Stats
	if dt > 0 && len(s.bodies) > 0 {
		s.stepping = true
		stats = s.integrator.Step(s.bodies, dt)
		s.stepping = false
	}
	if stats.Degenerate > 0 {
		s.logger.Debug("coincident pairs skipped", "pairs", stats.Degenerate, "tick", s.tick)
	}

	if !s.unstable && !physics.IsFinite(s.bodies) {
		s.unstable = true
		s.logger.Error("simulation diverged", "tick", s.tick, "time_scale", s.universe.TimeScale())
	}

	s.session.Refresh()
	s.tick++

	f := s.frame(dt, stats)

	s.stepping = true
	for _, m := range s.metrics {
		m.Observe(f)
	}
	for _, o := range s.observers {
		o.OnTick(f)
	}
	s.stepping = false

	return f
}

// Frame returns the current state without advancing.
func (s *Sandbox) Frame() Frame {
	return s.frame(0, integrators.Stats{})
}

func (s *Sandbox) frame(dt float64, stats integrators.Stats) Frame {
	f := Frame{
		Tick:             s.tick,
		RealTime:         s.realTime,
		DeltaT:           dt,
		TotalTime:        s.universe.TotalTime(),
		TimeScale:        s.universe.TimeScale(),
		Bodies:           make([]BodyView, len(s.bodies)),
		MassMultiplier:   s.session.MassMultiplier(),
		Zoom:             s.camera.ZoomScale(),
		Pan:              s.camera.PanOffset(),
		MetresPerUnit:    s.universe.DistanceScale() / s.camera.ZoomScale(),
		Paused:           s.paused,
		SuppressVelocity: s.suppress,
		Degenerate:       stats.Degenerate,
		Unstable:         s.unstable,
	}
	for i, b := range s.bodies {
		f.Bodies[i] = view(b)
	}
	if p := s.session.Provisional(); p != nil {
		v := view(p)
		f.Provisional = &v
	}
	if s.diagnostics {
		f.Energy = physics.TotalEnergy(s.bodies)
		f.Momentum = physics.Momentum(s.bodies)
		f.AngularMomentum = physics.AngularMomentum(s.bodies)
	}
	return f
}

func view(b *physics.Body) BodyView {
	return BodyView{Position: b.Position, Velocity: b.Velocity, Mass: b.Mass()}
}

// Run ticks the sandbox at a fixed real dt until ticks have elapsed, the
// callback returns false, or ctx is cancelled.
func (s *Sandbox) Run(ctx context.Context, ticks int, realDt float64, callback func(Frame) bool) error {
	if realDt <= 0 {
		return fmt.Errorf("real dt must be positive, got %f", realDt)
	}
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f := s.Tick(realDt)
		if callback != nil && !callback(f) {
			return nil
		}
	}
	return nil
}
