package dynamo

// Gravitational constant, CODATA 2018, in N·m²/kg².
const G = 6.67430e-11

const (
	AU        = 1.495978707e11
	LightYear = 9.4607304725808e15
	EarthMass = 5.972e24
	SolarMass = 1.98847e30
	LunarDist = 3.844e8
)

const (
	Minute = 60.0
	Hour   = 60 * Minute
	Day    = 24 * Hour
	Year   = 365 * Day
)
