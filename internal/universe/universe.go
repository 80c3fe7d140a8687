// Package universe converts between real and simulated time and between
// world and screen distances.
package universe

import (
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Universe holds the session-wide time and distance scales.
//
// DistanceScale is metres per screen unit and is fixed for the session;
// zooming is the camera's job. TimeScale is simulated seconds per real
// second and only changes multiplicatively.
type Universe struct {
	distanceScale float64
	timeScale     float64
	totalTime     float64
}

func New(distanceScale, timeScale float64) (*Universe, error) {
	if !positive(distanceScale) {
		return nil, fmt.Errorf("distance scale %g: %w", distanceScale, dynamo.ErrInvalidDistanceScale)
	}
	if !positive(timeScale) {
		return nil, fmt.Errorf("time scale %g: %w", timeScale, dynamo.ErrInvalidTimeScale)
	}
	return &Universe{distanceScale: distanceScale, timeScale: timeScale}, nil
}

func (u *Universe) DistanceScale() float64 { return u.distanceScale }
func (u *Universe) TimeScale() float64     { return u.timeScale }
func (u *Universe) TotalTime() float64     { return u.totalTime }

// AccelerateTime multiplies the time scale by factor. A result that is not
// positive and finite is rejected and the scale is left unchanged, which
// keeps the total simulated time from ever running backwards.
func (u *Universe) AccelerateTime(factor float64) error {
	next := u.timeScale * factor
	if !positive(next) {
		return fmt.Errorf("accelerate by %g: %w", factor, dynamo.ErrInvalidTimeScale)
	}
	u.timeScale = next
	return nil
}

// SimulatedDelta converts real elapsed seconds into simulated seconds.
func (u *Universe) SimulatedDelta(realDt float64) float64 {
	return realDt * u.timeScale
}

// Advance adds the simulated equivalent of realDt to the total. It must run
// at most once per tick. Negative real deltas are ignored.
func (u *Universe) Advance(realDt float64) float64 {
	if !(realDt > 0) {
		return 0
	}
	dt := u.SimulatedDelta(realDt)
	u.totalTime += dt
	return dt
}

func (u *Universe) WorldFromScreenDistance(d float64) float64 { return d * u.distanceScale }
func (u *Universe) ScreenFromWorldDistance(d float64) float64 { return d / u.distanceScale }

func (u *Universe) WorldFromScreen(p r2.Vec) r2.Vec { return r2.Scale(u.distanceScale, p) }
func (u *Universe) ScreenFromWorld(p r2.Vec) r2.Vec { return r2.Scale(1/u.distanceScale, p) }

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
