package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/san-kum/gravbox/internal/automation"
	"github.com/san-kum/gravbox/internal/export"
	"github.com/san-kum/gravbox/internal/storage"
	"github.com/san-kum/gravbox/internal/viz"
	"github.com/spf13/cobra"
)

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	sb, err := newSandbox(cfg, logger)
	if err != nil {
		return err
	}

	var rec *storage.Recorder
	if record {
		rec, err = startRecording(cfg, sb, "script")
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("replaying scenario", "name", scenario.Name, "events", len(scenario.Events), "ticks", scenario.Ticks())
	res, runErr := automation.Run(ctx, sb, scenario)

	if rec != nil {
		if err := rec.Close(sb.Metrics()); err != nil {
			return err
		}
		fmt.Printf("session recorded: %s\n", rec.ID())
	}
	if runErr != nil {
		return runErr
	}

	for _, w := range res.Warnings {
		fmt.Printf("warning: %v\n", w)
	}

	final := sb.Frame()
	fmt.Printf("scenario: %s\n", scenario.Name)
	fmt.Printf("ticks:    %d\n", final.Tick)
	fmt.Printf("bodies:   %d\n", len(final.Bodies))
	fmt.Printf("elapsed:  %s\n", viz.ElapsedTime(final.TotalTime))
	fmt.Printf("speed:    %s\n", viz.TimeScale(final.TimeScale))

	m := sb.Metrics()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-9s %.6g\n", name+":", m[name])
	}

	if svgPath != "" {
		svg := export.TrajectoryToSVG(export.Tracks(res.Frames), 800, 800)
		if svg == "" {
			return fmt.Errorf("no trajectories to export")
		}
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("trajectories written to %s\n", svgPath)
	}
	return nil
}
