package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	integrator string
	theme      string
	logLevel   string
	record     bool
	svgPath    string
	numBodies  int
	numTicks   int
)

// main registers the gravbox commands. With no subcommand the interactive
// sandbox starts.
func main() {
	rootCmd := &cobra.Command{
		Use:          "gravbox",
		Short:        "gravitational n-body sandbox",
		SilenceUsage: true,
		RunE:         runPlay,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "scale preset (see presets)")
	rootCmd.PersistentFlags().StringVar(&integrator, "integrator", "", "integrator: symplectic or sequential")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	addPlayFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "open the interactive sandbox",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}
	addPlayFlags(playCmd)

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "replay a scripted input scenario headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().StringVar(&svgPath, "svg", "", "write body trajectories to this svg file")
	scriptCmd.Flags().BoolVar(&record, "record", false, "record telemetry")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark integrators on a ring of bodies",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&numBodies, "bodies", 200, "number of bodies")
	benchCmd.Flags().IntVar(&numTicks, "ticks", 100, "number of steps")

	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "list recorded sessions",
		Args:  cobra.NoArgs,
		RunE:  listSessions,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [session_id]",
		Short: "plot session telemetry",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSession,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list scale presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(playCmd, scriptCmd, benchCmd, sessionsCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", "", "colour theme")
	cmd.Flags().BoolVar(&record, "record", false, "record telemetry")
}
