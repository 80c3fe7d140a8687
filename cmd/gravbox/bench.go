package main

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/integrators"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

// ring places n earth-mass bodies on a circle around a sun, each on a
// roughly circular orbit.
func ring(n int) ([]*physics.Body, error) {
	sun, err := physics.NewBody(r2.Vec{}, dynamo.SolarMass)
	if err != nil {
		return nil, err
	}
	bodies := []*physics.Body{sun}
	for i := 0; i < n-1; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n-1)
		r := dynamo.AU * (1 + 0.5*float64(i%7)/7)
		b, err := physics.NewBody(r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}, dynamo.EarthMass)
		if err != nil {
			return nil, err
		}
		speed := math.Sqrt(dynamo.G * dynamo.SolarMass / r)
		b.Velocity = r2.Vec{X: -speed * math.Sin(theta), Y: speed * math.Cos(theta)}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	if numBodies < 2 || numTicks < 1 {
		return fmt.Errorf("need at least 2 bodies and 1 tick")
	}
	const dt = dynamo.Hour

	fmt.Printf("benchmarking %d bodies for %d steps of 1h\n\n", numBodies, numTicks)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tSTEPS/SEC\tPAIRS/SEC\tENERGY DRIFT")

	for _, name := range integrators.Names() {
		integ, err := integrators.New(name)
		if err != nil {
			return err
		}
		bodies, err := ring(numBodies)
		if err != nil {
			return err
		}

		e0 := physics.TotalEnergy(bodies)
		start := time.Now()
		for i := 0; i < numTicks; i++ {
			integ.Step(bodies, dt)
		}
		elapsed := time.Since(start)
		drift := math.Abs(physics.TotalEnergy(bodies)-e0) / math.Abs(e0)

		stepsPerSec := float64(numTicks) / elapsed.Seconds()
		pairs := float64(numBodies * (numBodies - 1))
		fmt.Fprintf(w, "%s\t%v\t%.0f\t%.3g\t%.3g\n",
			name, elapsed, stepsPerSec, stepsPerSec*pairs, drift)
	}

	return w.Flush()
}
