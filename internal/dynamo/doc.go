// Package dynamo provides core primitives shared by the gravbox simulation.
//
// The package defines the physical constants, sentinel errors and small
// concurrency helpers used by the rest of the module:
//
//   - [G], [AU], [LightYear], [EarthMass]: SI constants
//   - [ErrInvalidMass], [ErrInvalidZoom], [ErrZeroElapsedTime]: recoverable conditions
//   - [TickError]: wraps a condition with the tick it happened on
//   - [ParallelFor]: chunked fan-out over an index range
//
// # Units
//
// Every physical quantity is SI: metres, kilograms, seconds. Screen-space
// quantities are expressed in abstract screen units and are converted by
// the universe and camera packages.
//
// # Thread Safety
//
// Nothing in the simulation core is safe for concurrent mutation. Callers
// serialize the body set, camera and universe behind a single tick boundary.
package dynamo
