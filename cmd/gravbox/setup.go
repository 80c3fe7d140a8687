package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/config"
	"github.com/san-kum/gravbox/internal/integrators"
	"github.com/san-kum/gravbox/internal/metrics"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/universe"
	"gonum.org/v1/gonum/spatial/r2"
)

// loadConfig reads the config file if given, then applies the preset and
// command line overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p.Apply(cfg)
	}
	if integrator != "" {
		cfg.Integrator = integrator
	}
	if theme != "" {
		cfg.Theme = theme
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger writes text logs to the configured file. Without one, logs go
// to w; the interactive sandbox passes a file in the data directory since
// the terminal belongs to the UI.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	closer := func() error { return nil }
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f.Close
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

// newSandbox wires a sandbox from cfg with the standard metrics attached.
// The camera pivots on the centre of a canvas of the configured size.
func newSandbox(cfg *config.Config, logger *slog.Logger) (*sim.Sandbox, error) {
	u, err := universe.New(cfg.DistanceScale, cfg.TimeScale)
	if err != nil {
		return nil, err
	}

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	c := camera.New(r2.Vec{X: float64(cfg.Width), Y: float64(cfg.Height * 2)})
	c.SetPanSpeed(cfg.PanSpeed)

	sb := sim.New(u, c, cfg.Authoring(),
		sim.WithLogger(logger),
		sim.WithIntegrator(integ),
		sim.WithZoomStep(cfg.ZoomStep),
	)
	sb.AddMetric(metrics.NewEnergyDrift())
	sb.AddMetric(metrics.NewStability())
	return sb, nil
}
