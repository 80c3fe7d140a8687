package physics

import (
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Energy returns kinetic and gravitational potential energy of the set.
// Coincident pairs are left out of the potential, matching the force law.
func Energy(bodies []*Body) (kinetic, potential float64) {
	n := len(bodies)
	for i := 0; i < n; i++ {
		bi := bodies[i]
		kinetic += 0.5 * bi.mass * r2.Norm2(bi.Velocity)

		for j := i + 1; j < n; j++ {
			bj := bodies[j]
			r := r2.Norm(r2.Sub(bj.Position, bi.Position))
			if r == 0 {
				continue
			}
			potential -= dynamo.G * bi.mass * bj.mass / r
		}
	}
	return kinetic, potential
}

func TotalEnergy(bodies []*Body) float64 {
	ke, pe := Energy(bodies)
	return ke + pe
}

func Momentum(bodies []*Body) r2.Vec {
	var p r2.Vec
	for _, b := range bodies {
		p = r2.Add(p, r2.Scale(b.mass, b.Velocity))
	}
	return p
}

// AngularMomentum is the z component of Σ m (r × v) about the origin.
func AngularMomentum(bodies []*Body) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.mass * r2.Cross(b.Position, b.Velocity)
	}
	return L
}

// IsFinite reports whether every body has finite position and velocity.
func IsFinite(bodies []*Body) bool {
	for _, b := range bodies {
		for _, v := range [...]float64{b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
