package config

import (
	"sort"

	"github.com/san-kum/gravbox/internal/dynamo"
)

// Preset overrides the scale parameters of a config. Presets never carry
// bodies.
type Preset struct {
	Description   string
	DistanceScale float64
	TimeScale     float64
	ReferenceMass float64
}

var Presets = map[string]Preset{
	"solar": {
		Description:   "planets around a star, 1 unit = 0.05 au",
		DistanceScale: dynamo.AU / 20,
		TimeScale:     1 << 23,
		ReferenceMass: dynamo.EarthMass,
	},
	"lunar": {
		Description:   "moons around a planet, 1 unit = 1/40 lunar distance",
		DistanceScale: dynamo.LunarDist / 40,
		TimeScale:     1 << 18,
		ReferenceMass: dynamo.EarthMass / 81.3,
	},
	"galactic": {
		Description:   "stellar clusters, 1 unit = 0.02 ly",
		DistanceScale: dynamo.LightYear / 50,
		TimeScale:     1 << 40,
		ReferenceMass: dynamo.SolarMass,
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply copies the preset's scales into c.
func (p Preset) Apply(c *Config) {
	c.DistanceScale = p.DistanceScale
	c.TimeScale = p.TimeScale
	c.ReferenceMass = p.ReferenceMass
}
