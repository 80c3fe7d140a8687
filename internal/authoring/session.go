package authoring

import (
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/universe"
	"gonum.org/v1/gonum/spatial/r2"
)

type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

type Config struct {
	// ReferenceMass is the mass of a body at multiplier 1, in kg.
	ReferenceMass float64
	// Damping divides the drag displacement before it becomes a velocity.
	Damping float64
	// ScrollStep and ScrollStepFast are per-notch mass multipliers; the fast
	// one applies while the modifier is held.
	ScrollStep     float64
	ScrollStepFast float64
	// MinMultiplier and MaxMultiplier bound the scroll-driven multiplier.
	MinMultiplier float64
	MaxMultiplier float64
}

func DefaultConfig() Config {
	return Config{
		ReferenceMass:  dynamo.EarthMass,
		Damping:        2,
		ScrollStep:     math.Cbrt(2),
		ScrollStepFast: math.Cbrt(4),
		MinMultiplier:  1e-9,
		MaxMultiplier:  1e12,
	}
}

type sample struct {
	pos  r2.Vec
	time float64
}

// drag is the in-flight state of one gesture.
type drag struct {
	body       *physics.Body
	multiplier float64
	current    sample
	last       sample
	hasLast    bool
}

func (d *drag) push(s sample) {
	d.last, d.hasLast = d.current, true
	d.current = s
}

type Session struct {
	cfg      Config
	universe *universe.Universe
	camera   *camera.Camera
	drag     *drag
}

func New(u *universe.Universe, c *camera.Camera, cfg Config) *Session {
	return &Session{cfg: cfg, universe: u, camera: c}
}

func (s *Session) Config() Config { return s.cfg }

func (s *Session) Phase() Phase {
	if s.drag == nil {
		return Idle
	}
	return Dragging
}

func (s *Session) Active() bool { return s.drag != nil }

// Provisional returns the body being authored, or nil when idle.
func (s *Session) Provisional() *physics.Body {
	if s.drag == nil {
		return nil
	}
	return s.drag.body
}

// MassMultiplier returns the current multiple of the reference mass, or 0
// when idle.
func (s *Session) MassMultiplier() float64 {
	if s.drag == nil {
		return 0
	}
	return s.drag.multiplier
}

// worldAt maps a screen point through the camera and universe.
func (s *Session) worldAt(p r2.Vec) r2.Vec {
	return s.universe.WorldFromScreen(s.camera.FromDrawSpace(p))
}

// PointerDown starts a drag at screen point p. It reports false, and does
// nothing, if a drag is already in progress.
func (s *Session) PointerDown(p r2.Vec) (bool, error) {
	if s.drag != nil {
		return false, nil
	}
	body, err := physics.NewBody(s.worldAt(p), s.cfg.ReferenceMass)
	if err != nil {
		return false, fmt.Errorf("reference mass: %w", err)
	}
	s.drag = &drag{
		body:       body,
		multiplier: 1,
		current:    sample{pos: p, time: s.universe.TotalTime()},
	}
	return true, nil
}

// PointerMove records a sample and moves the provisional body under p. It
// reports false when idle.
func (s *Session) PointerMove(p r2.Vec) bool {
	if s.drag == nil {
		return false
	}
	s.drag.push(sample{pos: p, time: s.universe.TotalTime()})
	s.drag.body.SetPosition(s.worldAt(p))
	return true
}

// Refresh re-places the provisional body under the latest pointer sample,
// picking up any camera movement since the sample was taken.
func (s *Session) Refresh() {
	if s.drag == nil {
		return
	}
	s.drag.body.SetPosition(s.worldAt(s.drag.current.pos))
}

// Scroll scales the provisional mass by one step per notch: positive
// notches grow it, negative shrink it. The multiplier is clamped to the
// configured range.
func (s *Session) Scroll(notches int, fast bool) error {
	if s.drag == nil {
		return dynamo.ErrNoSession
	}
	if notches == 0 {
		return nil
	}

	step := s.cfg.ScrollStep
	if fast {
		step = s.cfg.ScrollStepFast
	}
	next := s.drag.multiplier * math.Pow(step, float64(notches))
	next = math.Max(s.cfg.MinMultiplier, math.Min(s.cfg.MaxMultiplier, next))

	if err := s.drag.body.SetMass(next * s.cfg.ReferenceMass); err != nil {
		return fmt.Errorf("scroll to x%g: %w", next, err)
	}
	s.drag.multiplier = next
	return nil
}

// PointerUp ends the drag at p and returns the finished body for the
// caller to commit. The session is idle afterwards in every case.
//
// With suppressVelocity the body is released at rest. When no simulated
// time separates the last two samples the body is also released at rest
// and ErrZeroElapsedTime is returned alongside it as a warning.
func (s *Session) PointerUp(p r2.Vec, suppressVelocity bool) (*physics.Body, error) {
	d := s.drag
	if d == nil {
		return nil, dynamo.ErrNoSession
	}
	s.drag = nil

	release := sample{pos: p, time: s.universe.TotalTime()}
	if release != d.current {
		d.push(release)
		d.body.SetPosition(s.worldAt(p))
	}

	if suppressVelocity {
		return d.body, nil
	}

	elapsed := d.current.time - d.last.time
	if !d.hasLast || elapsed == 0 {
		return d.body, dynamo.ErrZeroElapsedTime
	}

	disp := s.universe.WorldFromScreen(r2.Sub(d.current.pos, d.last.pos))
	disp = r2.Scale(1/(s.camera.ZoomScale()*s.cfg.Damping), disp)
	d.body.Velocity = r2.Scale(1/elapsed, disp)

	return d.body, nil
}

// Cancel drops any drag in progress without producing a body.
func (s *Session) Cancel() {
	s.drag = nil
}
