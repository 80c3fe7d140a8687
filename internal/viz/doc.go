// Package viz renders a sandbox in the terminal.
//
// [Canvas] is a braille dot grid with per-cell colour. Each terminal cell
// holds 2x4 dots, and the dots are the sandbox's screen units: cell (x, y)
// covers dots (2x, 4y) to (2x+1, 4y+3) and its centre maps to (2x+1, 4y+2).
//
// [Model] is the Bubble Tea program around a [sim.Sandbox]:
//
//	mouse drag      author a body, release to fling it
//	wheel           zoom, or scale the provisional mass while dragging
//	shift+wheel     scale mass in larger steps
//	ctrl+release    release at rest
//	. ,             double or halve the time scale
//	w a s d         pan
//	x               toggle velocity suppression
//	space           pause
//	t               cycle themes
//	e               save a snapshot
//	?               help
//	q               quit
//
// Body size and colour follow mass: [Radius] grows with the cube root and
// [Hue] runs from green for light bodies to red for heavy ones.
package viz
