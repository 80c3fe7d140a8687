package metrics

import (
	"math"

	"github.com/san-kum/gravbox/internal/sim"
)

// EnergyDrift tracks the largest relative change in total energy since the
// body set last changed size. Committing a body starts a new baseline.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	bodies        int
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(f sim.Frame) {
	if len(f.Bodies) != e.bodies {
		e.bodies = len(f.Bodies)
		e.samples = 0
		e.maxDrift = 0
	}
	if e.bodies < 2 {
		return
	}

	if e.samples == 0 {
		e.initialEnergy = f.Energy
	}
	e.currentEnergy = f.Energy
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(f.Energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current returns the most recently observed total energy.
func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.bodies = 0
	e.samples = 0
}
