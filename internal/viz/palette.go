package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// radiusK sizes bodies as radiusK * mass^(1/3).
	radiusK = 5.565194508027365e-05 * 3

	// MinRadius is the smallest drawn radius in dots; bodies this small are
	// drawn as an outline.
	MinRadius = 2.0

	hueMax    = 90.0
	logMin    = 30.0
	logSpread = 105 - logMin
)

// Radius is the nominal size of a body of the given mass, in metres.
func Radius(mass float64) float64 {
	return radiusK * math.Cbrt(mass)
}

// DrawRadius converts Radius to dots at the given zoom and metres per
// screen unit. The second result reports whether the body should be
// drawn filled.
func DrawRadius(mass, zoom, distanceScale float64) (float64, bool) {
	r := zoom * Radius(mass) / distanceScale
	if !(r >= MinRadius) {
		return MinRadius, false
	}
	return r, true
}

// Hue maps mass onto [0, 90] degrees: light bodies are green, heavy ones
// red.
func Hue(mass float64) float64 {
	h := hueMax - (math.Log(mass)-logMin)/logSpread*hueMax
	if math.IsNaN(h) {
		return 0
	}
	return math.Max(0, math.Min(hueMax, h))
}

func BodyColor(mass float64) colorful.Color {
	return colorful.Hsl(Hue(mass), 1, 0.5).Clamped()
}

// BodyHex is BodyColor as "#rrggbb".
func BodyHex(mass float64) string {
	return BodyColor(mass).Hex()
}
