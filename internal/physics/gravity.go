package physics

import (
	"github.com/san-kum/gravbox/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// PointMass is an immutable position/mass pair used as the read side of a
// synchronized step.
type PointMass struct {
	Position r2.Vec
	Mass     float64
}

// Snapshot copies the position and mass of every body.
func Snapshot(bodies []*Body) []PointMass {
	snap := make([]PointMass, len(bodies))
	for i, b := range bodies {
		snap[i] = b.PointMass()
	}
	return snap
}

// AccelerationAt returns the acceleration of the body at index self in
// snap due to all other entries, and the number of coincident pairs that
// were skipped.
func AccelerationAt(snap []PointMass, self int) (r2.Vec, int) {
	var acc r2.Vec
	skipped := 0
	pos := snap[self].Position
	for j, src := range snap {
		if j == self {
			continue
		}
		a, ok := pull(pos, src.Position, src.Mass)
		if !ok {
			skipped++
			continue
		}
		acc = r2.Add(acc, a)
	}
	return acc, skipped
}

// pull is G·m/r² along the unit displacement from at to src. Coincident
// points have no defined direction, so the pair contributes nothing.
func pull(at, src r2.Vec, mass float64) (r2.Vec, bool) {
	d := r2.Sub(src, at)
	r2n := r2.Norm2(d)
	if r2n == 0 {
		return r2.Vec{}, false
	}
	return r2.Scale(dynamo.G*mass/r2n, r2.Unit(d)), true
}
