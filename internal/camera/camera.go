// Package camera maps screen coordinates to and from draw space with a pan
// offset and a zoom about a fixed centre point.
package camera

import (
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultPanSpeed is the held-key pan rate in draw-space units per second.
const DefaultPanSpeed = 300.0

// Directions is the held state of the four pan keys.
type Directions struct {
	Up, Down, Left, Right bool
}

func (d Directions) Any() bool { return d.Up || d.Down || d.Left || d.Right }

// Camera is independent of the universe's distance scale: it only knows
// screen units.
type Camera struct {
	centre   r2.Vec
	pan      r2.Vec
	zoom     float64
	panSpeed float64
}

func New(centre r2.Vec) *Camera {
	return &Camera{centre: centre, zoom: 1, panSpeed: DefaultPanSpeed}
}

func (c *Camera) Centre() r2.Vec     { return c.centre }
func (c *Camera) PanOffset() r2.Vec  { return c.pan }
func (c *Camera) ZoomScale() float64 { return c.zoom }

// SetPanSpeed changes the held-key pan rate. Non-positive speeds are ignored.
func (c *Camera) SetPanSpeed(speed float64) {
	if speed > 0 {
		c.panSpeed = speed
	}
}

// SetCentre moves the zoom pivot, e.g. after a resize.
func (c *Camera) SetCentre(centre r2.Vec) { c.centre = centre }

// ToDrawSpace applies ((p - pan) - centre) * zoom + centre.
func (c *Camera) ToDrawSpace(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(c.zoom, r2.Sub(r2.Sub(p, c.pan), c.centre)), c.centre)
}

// FromDrawSpace is the exact inverse of ToDrawSpace.
func (c *Camera) FromDrawSpace(p r2.Vec) r2.Vec {
	return r2.Add(r2.Add(r2.Scale(1/c.zoom, r2.Sub(p, c.centre)), c.centre), c.pan)
}

func (c *Camera) Pan(v r2.Vec) { c.pan = r2.Add(c.pan, v) }

// PanHeld pans by the held directions over realDt seconds. The offset is
// divided by the zoom so the view scrolls at the same draw-space speed at
// any zoom level.
func (c *Camera) PanHeld(dirs Directions, realDt float64) {
	if !dirs.Any() || !(realDt > 0) {
		return
	}
	var v r2.Vec
	if dirs.Left {
		v.X -= c.panSpeed
	}
	if dirs.Right {
		v.X += c.panSpeed
	}
	if dirs.Up {
		v.Y -= c.panSpeed
	}
	if dirs.Down {
		v.Y += c.panSpeed
	}
	c.Pan(r2.Scale(realDt/c.zoom, v))
}

// Zoom multiplies the zoom scale by factor. A non-positive or non-finite
// result is rejected and the scale is left unchanged.
func (c *Camera) Zoom(factor float64) error {
	next := c.zoom * factor
	if !(next > 0) || math.IsInf(next, 1) {
		return fmt.Errorf("zoom by %g: %w", factor, dynamo.ErrInvalidZoom)
	}
	c.zoom = next
	return nil
}
