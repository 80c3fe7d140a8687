package sim

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// BodyView is the renderer's copy of one body.
type BodyView struct {
	Position r2.Vec
	Velocity r2.Vec
	Mass     float64
}

// Frame is everything a renderer needs after one tick. It shares no memory
// with the sandbox.
type Frame struct {
	Tick     uint64
	RealTime float64
	// DeltaT is the simulated time covered by this tick.
	DeltaT    float64
	TotalTime float64
	TimeScale float64

	Bodies         []BodyView
	Provisional    *BodyView
	MassMultiplier float64

	Zoom float64
	Pan  r2.Vec
	// MetresPerUnit is distanceScale / zoom, the length of one screen unit
	// on the scale bar.
	MetresPerUnit float64

	Paused           bool
	SuppressVelocity bool

	Energy   float64
	Momentum r2.Vec
	// AngularMomentum is the z component about the world origin.
	AngularMomentum float64
	// Degenerate counts coincident pairs skipped this tick.
	Degenerate int
	// Unstable is set once any body's state stops being finite.
	Unstable bool
}

// Metric accumulates a scalar over a sequence of frames.
type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnTick(f Frame) { fn(f) }
