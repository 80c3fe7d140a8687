// Package physics provides the point-mass body model and the Newtonian
// force law for the gravbox sandbox.
//
//   - [Body]: point mass with position, velocity and mass
//   - [AccelerationAt]: pairwise gravity against an immutable [PointMass] snapshot
//   - [Energy], [Momentum], [AngularMomentum]: diagnostics of an active set
//
// The force law is evaluated for every pair on every step, O(n²). Bodies
// occupying the identical position contribute nothing to each other: at
// zero separation the force has no direction.
//
// # Known limitation
//
// Semi-implicit Euler is first order. Large steps, which come from a large
// time scale combined with a slow frame, can make close orbits gain energy
// and fly apart. This is a property of the method, not a defect.
package physics
