// Package authoring turns pointer gestures into new bodies.
//
// A [Session] is either idle or dragging. A primary press starts a drag
// and creates a provisional body under the pointer; moves re-place it and
// record (position, simulated time) samples; scroll notches scale its mass;
// the release commits it with a velocity estimated from the last two
// samples:
//
//	v = world(current - last) / (zoom · damping) / (t_current - t_last)
//
// Only one drag can be in progress. Presses during a drag are ignored and
// moves or scrolls while idle are left to the caller (typically the camera).
package authoring
