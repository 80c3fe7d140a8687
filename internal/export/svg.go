package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/viz"
	"gonum.org/v1/gonum/spatial/r2"
)

// CanvasToSVG converts a Braille canvas to SVG format, keeping each cell's
// colour. Cells holding text are skipped.
func CanvasToSVG(canvas *viz.Canvas, scale float64, fallback string) string {
	if canvas == nil {
		return ""
	}
	if fallback == "" {
		fallback = "#ffffff"
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 || r > 0x28ff {
				continue
			}
			pattern := int(r - 0x2800)

			color := canvas.Colors[row][col]
			if color == "" {
				color = fallback
			}

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, color))
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// Track is the path of one body through a recorded session.
type Track struct {
	Mass   float64
	Points []r2.Vec
}

// Tracks splits frames into one track per body. Bodies keep their index
// for the whole session, so a body committed late simply has a shorter
// track. Points that are not finite end the track.
func Tracks(frames []sim.Frame) []Track {
	tracks := make([]Track, 0)
	stopped := make([]bool, 0)
	for _, f := range frames {
		for i, b := range f.Bodies {
			if i == len(tracks) {
				tracks = append(tracks, Track{})
				stopped = append(stopped, false)
			}
			if stopped[i] {
				continue
			}
			if !finite(b.Position) {
				stopped[i] = true
				continue
			}
			tracks[i].Mass = b.Mass
			tracks[i].Points = append(tracks[i].Points, b.Position)
		}
	}
	return tracks
}

// TrajectoryToSVG creates an SVG with one path per track, coloured by mass.
// The aspect ratio of world space is preserved.
func TrajectoryToSVG(tracks []Track, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, t := range tracks {
		for _, p := range t.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Add padding
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	px := math.Min(float64(width), float64(height)) / span

	project := func(p r2.Vec) (float64, float64) {
		return float64(width)/2 + (p.X-cx)*px, float64(height)/2 + (p.Y-cy)*px
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, t := range tracks {
		if len(t.Points) == 0 {
			continue
		}
		color := viz.BodyHex(t.Mass)

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, p := range t.Points {
			x, y := project(p)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		x, y := project(t.Points[len(t.Points)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func finite(p r2.Vec) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
