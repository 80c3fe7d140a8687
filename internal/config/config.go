package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/gravbox/internal/authoring"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/integrators"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 80
	DefaultHeight        = 24
	DefaultFPS           = 60
	DefaultDistanceScale = dynamo.AU / 20
	DefaultTimeScale     = 1 << 23
	DefaultDamping       = 2.0
	DefaultZoomStep      = 2.0
	DefaultPanSpeed      = 300.0
	DefaultDataDir       = ".gravbox"
)

type Config struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	FPS    int `yaml:"fps"`

	// DistanceScale is metres per screen unit.
	DistanceScale float64 `yaml:"distance_scale"`
	// TimeScale is simulated seconds per real second.
	TimeScale float64 `yaml:"time_scale"`

	ReferenceMass  float64 `yaml:"reference_mass"`
	Damping        float64 `yaml:"damping"`
	ScrollStep     float64 `yaml:"scroll_step"`
	ScrollStepFast float64 `yaml:"scroll_step_fast"`
	ZoomStep       float64 `yaml:"zoom_step"`
	PanSpeed       float64 `yaml:"pan_speed"`

	Integrator string `yaml:"integrator"`
	Theme      string `yaml:"theme"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	DataDir  string `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	a := authoring.DefaultConfig()
	return &Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		FPS:            DefaultFPS,
		DistanceScale:  DefaultDistanceScale,
		TimeScale:      DefaultTimeScale,
		ReferenceMass:  a.ReferenceMass,
		Damping:        DefaultDamping,
		ScrollStep:     a.ScrollStep,
		ScrollStepFast: a.ScrollStepFast,
		ZoomStep:       DefaultZoomStep,
		PanSpeed:       DefaultPanSpeed,
		Integrator:     integrators.Symplectic,
		Theme:          "cyberpunk",
		LogLevel:       "info",
		DataDir:        DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width < 10 || c.Height < 5 {
		return fmt.Errorf("canvas %dx%d is too small", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if !finitePositive(c.DistanceScale) {
		return fmt.Errorf("distance_scale %g: %w", c.DistanceScale, dynamo.ErrInvalidDistanceScale)
	}
	if !finitePositive(c.TimeScale) {
		return fmt.Errorf("time_scale %g: %w", c.TimeScale, dynamo.ErrInvalidTimeScale)
	}
	if !finitePositive(c.ReferenceMass) {
		return fmt.Errorf("reference_mass %g: %w", c.ReferenceMass, dynamo.ErrInvalidMass)
	}
	if !finitePositive(c.Damping) {
		return fmt.Errorf("damping must be positive, got %g", c.Damping)
	}
	if !(c.ScrollStep > 1) || !(c.ScrollStepFast > 1) {
		return fmt.Errorf("scroll steps must be greater than 1, got %g and %g", c.ScrollStep, c.ScrollStepFast)
	}
	if !(c.ZoomStep > 1) {
		return fmt.Errorf("zoom_step must be greater than 1, got %g", c.ZoomStep)
	}
	if !finitePositive(c.PanSpeed) {
		return fmt.Errorf("pan_speed must be positive, got %g", c.PanSpeed)
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	return nil
}

// Authoring returns the gesture parameters for an authoring session.
func (c *Config) Authoring() authoring.Config {
	a := authoring.DefaultConfig()
	a.ReferenceMass = c.ReferenceMass
	a.Damping = c.Damping
	a.ScrollStep = c.ScrollStep
	a.ScrollStepFast = c.ScrollStepFast
	return a
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
