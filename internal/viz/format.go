package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/dynamo"
)

// ReadableDistance formats metres in the largest fitting unit.
func ReadableDistance(d float64) string {
	switch {
	case d >= dynamo.LightYear:
		return fmt.Sprintf("%.2fly", d/dynamo.LightYear)
	case d >= dynamo.AU:
		return fmt.Sprintf("%.2fau", d/dynamo.AU)
	case d >= 1e3:
		return fmt.Sprintf("%.2ekm", d/1e3)
	case d >= 1:
		return fmt.Sprintf("%.2fm", d)
	default:
		return fmt.Sprintf("%.2em", d)
	}
}

// ElapsedTime formats seconds as "N yrs, N days, HH:MM:SS" using 365 day
// years.
func ElapsedTime(secs float64) string {
	if math.IsNaN(secs) || secs < 0 {
		secs = 0
	}
	if secs > math.MaxInt64/2 {
		return fmt.Sprintf("%.3g yrs", secs/dynamo.Year)
	}
	s := int64(secs)
	minutes, s := s/60, s%60
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24
	years, days := days/365, days%365
	return fmt.Sprintf("%d yrs, %d days, %02d:%02d:%02d", years, days, hours, minutes, s)
}

// TimeScale formats the simulated seconds per real second.
func TimeScale(scale float64) string {
	switch {
	case scale >= dynamo.Year:
		return fmt.Sprintf("%.2f yrs/s", scale/dynamo.Year)
	case scale >= dynamo.Day:
		return fmt.Sprintf("%.2f days/s", scale/dynamo.Day)
	case scale >= dynamo.Hour:
		return fmt.Sprintf("%.2f hrs/s", scale/dynamo.Hour)
	default:
		return fmt.Sprintf("%.3gx", scale)
	}
}
