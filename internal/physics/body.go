package physics

import (
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is a point mass in world space. It has no collision radius; any
// visual size is derived from Mass by the renderer.
type Body struct {
	Position r2.Vec
	Velocity r2.Vec
	mass     float64
}

// NewBody returns a body at rest at pos.
func NewBody(pos r2.Vec, mass float64) (*Body, error) {
	b := &Body{Position: pos}
	if err := b.SetMass(mass); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Body) Mass() float64 { return b.mass }

// SetMass replaces the mass. Position and velocity are untouched.
func (b *Body) SetMass(mass float64) error {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return dynamo.ErrInvalidMass
	}
	b.mass = mass
	return nil
}

func (b *Body) SetPosition(pos r2.Vec) { b.Position = pos }

// PointMass returns the body's position and mass as a snapshot entry.
func (b *Body) PointMass() PointMass {
	return PointMass{Position: b.Position, Mass: b.mass}
}

// Acceleration sums the pull of every other body in bodies on b, reading
// their current positions, and returns the number of coincident bodies
// that were skipped. b itself is skipped by identity.
func (b *Body) Acceleration(bodies []*Body) (r2.Vec, int) {
	var acc r2.Vec
	skipped := 0
	for _, other := range bodies {
		if other == b {
			continue
		}
		a, ok := pull(b.Position, other.Position, other.mass)
		if !ok {
			skipped++
			continue
		}
		acc = r2.Add(acc, a)
	}
	return acc, skipped
}

// Step advances b by one semi-implicit Euler step against the live
// positions of bodies: velocity first, then position with the new velocity.
// It returns the coincident bodies skipped.
func (b *Body) Step(dt float64, bodies []*Body) int {
	acc, skipped := b.Acceleration(bodies)
	b.Kick(acc, dt)
	return skipped
}

// Kick applies a precomputed acceleration over dt.
func (b *Body) Kick(acc r2.Vec, dt float64) {
	b.Velocity = r2.Add(b.Velocity, r2.Scale(dt, acc))
	b.Position = r2.Add(b.Position, r2.Scale(dt, b.Velocity))
}
