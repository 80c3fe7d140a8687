package integrators

import (
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/physics"
	"gonum.org/v1/gonum/spatial/r2"
)

// parallelThreshold is the body count above which the acceleration pass
// fans out. Below it the goroutine overhead outweighs the O(n²) work.
const parallelThreshold = 256

// SymplecticEuler advances the whole set in two passes: every acceleration
// is computed from one snapshot of positions taken at the start of the
// step, then every body is kicked. Pairwise forces stay equal and opposite
// regardless of slice order.
type SymplecticEuler struct {
	snap    []physics.PointMass
	acc     []r2.Vec
	skipped []int
}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return Symplectic }

func (e *SymplecticEuler) ensureScratch(n int) {
	if cap(e.acc) < n {
		e.snap = make([]physics.PointMass, n)
		e.acc = make([]r2.Vec, n)
		e.skipped = make([]int, n)
	}
	e.snap = e.snap[:n]
	e.acc = e.acc[:n]
	e.skipped = e.skipped[:n]
}

func (e *SymplecticEuler) Step(bodies []*physics.Body, dt float64) Stats {
	n := len(bodies)
	if n == 0 {
		return Stats{}
	}
	e.ensureScratch(n)

	for i, b := range bodies {
		e.snap[i] = b.PointMass()
	}

	dynamo.ParallelFor(n, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			e.acc[i], e.skipped[i] = physics.AccelerationAt(e.snap, i)
		}
	})

	stats := Stats{Bodies: n}
	for i, b := range bodies {
		b.Kick(e.acc[i], dt)
		stats.Degenerate += e.skipped[i]
	}
	// every coincident pair is seen from both ends
	stats.Degenerate /= 2
	return stats
}

// SequentialEuler steps bodies one at a time in slice order, so body k sees
// the already-advanced positions of bodies 0..k-1. Results depend on body
// order; it is kept for comparison with the symplectic integrator.
type SequentialEuler struct{}

func NewSequentialEuler() *SequentialEuler {
	return &SequentialEuler{}
}

func (e *SequentialEuler) Name() string { return Sequential }

func (e *SequentialEuler) Step(bodies []*physics.Body, dt float64) Stats {
	skipped := 0
	for _, b := range bodies {
		skipped += b.Step(dt, bodies)
	}
	// a pair still coincident when its second body steps is seen twice
	return Stats{Bodies: len(bodies), Degenerate: (skipped + 1) / 2}
}
