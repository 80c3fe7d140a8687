package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravbox/internal/config"
	"github.com/san-kum/gravbox/internal/storage"
	"github.com/san-kum/gravbox/internal/viz"
	"github.com/spf13/cobra"
)

func sessionStore() (*storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return storage.New(cfg.DataDir), nil
}

func listSessions(cmd *cobra.Command, args []string) error {
	st, err := sessionStore()
	if err != nil {
		return err
	}
	sessions, err := st.List()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("no sessions found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tSTARTED\tTICKS\tBODIES\tELAPSED\tINTEG")

	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			s.ID,
			s.Source,
			s.Started.Format("2006-01-02 15:04:05"),
			s.Ticks,
			s.Bodies,
			viz.ElapsedTime(s.TotalTime),
			s.Integrator,
		)
	}

	return w.Flush()
}

func plotSession(cmd *cobra.Command, args []string) error {
	id := args[0]

	st, err := sessionStore()
	if err != nil {
		return err
	}
	meta, err := st.Load(id)
	if err != nil {
		return err
	}

	samples, err := st.LoadSamples(id)
	if err != nil {
		return err
	}

	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("session: %s\n", meta.ID)
	fmt.Printf("bodies: %d\n", meta.Bodies)
	fmt.Printf("samples: %d\n\n", len(samples))

	energy := make([]float64, len(samples))
	spin := make([]float64, len(samples))
	timeScale := make([]float64, len(samples))
	bodies := make([]float64, len(samples))
	for i, s := range samples {
		energy[i] = s.Energy
		spin[i] = s.AngularMomentum
		timeScale[i] = s.TimeScale
		bodies[i] = float64(s.Bodies)
	}

	series := []struct {
		caption string
		data    []float64
	}{
		{"total energy (J)", energy},
		{"angular momentum (kg m²/s)", spin},
		{"time scale (sim s / real s)", timeScale},
		{"bodies", bodies},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUNIT\tSPEED\tREFERENCE MASS\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3g kg\t%s\n",
			name,
			viz.ReadableDistance(p.DistanceScale),
			viz.TimeScale(p.TimeScale),
			p.ReferenceMass,
			p.Description,
		)
	}
	return w.Flush()
}
