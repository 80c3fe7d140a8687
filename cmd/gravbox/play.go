package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravbox/internal/config"
	"github.com/san-kum/gravbox/internal/export"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/storage"
	"github.com/san-kum/gravbox/internal/viz"
	"github.com/spf13/cobra"
)

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "gravbox.log")
	}

	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	sb, err := newSandbox(cfg, logger)
	if err != nil {
		return err
	}

	var rec *storage.Recorder
	if record {
		rec, err = startRecording(cfg, sb, "play")
		if err != nil {
			return err
		}
	}

	logger.Info("sandbox started",
		"distance_scale", cfg.DistanceScale,
		"time_scale", cfg.TimeScale,
		"integrator", cfg.Integrator,
	)

	model := viz.NewModel(sb, viz.Options{
		Theme:  cfg.Theme,
		FPS:    cfg.FPS,
		Width:  cfg.Width,
		Height: cfg.Height,
		Logger: logger,
		Snapshot: func(c *viz.Canvas) (string, error) {
			path := filepath.Join(cfg.DataDir, fmt.Sprintf("snapshot_%d.svg", time.Now().Unix()))
			return path, os.WriteFile(path, []byte(export.CanvasToSVG(c, 4, "")), 0644)
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()

	if rec != nil {
		if err := rec.Close(sb.Metrics()); err != nil {
			logger.Error("telemetry not saved", "err", err)
			return err
		}
		fmt.Printf("session recorded: %s\n", rec.ID())
	}
	logger.Info("sandbox closed", "bodies", sb.BodyCount(), "total_time", sb.Universe().TotalTime())
	return runErr
}

// startRecording opens a telemetry session and attaches it to sb.
func startRecording(cfg *config.Config, sb *sim.Sandbox, source string) (*storage.Recorder, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	rec, err := st.Create(storage.SessionMetadata{
		Source:        source,
		Integrator:    cfg.Integrator,
		DistanceScale: cfg.DistanceScale,
		TimeScale:     cfg.TimeScale,
	})
	if err != nil {
		return nil, err
	}
	sb.AddObserver(rec)
	return rec, nil
}
