package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravbox/internal/physics"
)

const (
	Symplectic = "symplectic"
	Sequential = "sequential"
)

// Stats reports what happened during one step.
type Stats struct {
	Bodies int
	// Degenerate counts coincident pairs whose force was skipped.
	Degenerate int
}

// Integrator advances an active body set by dt simulated seconds. The set
// must not be resized while Step runs.
type Integrator interface {
	Name() string
	Step(bodies []*physics.Body, dt float64) Stats
}

var registry = map[string]func() Integrator{
	Symplectic: func() Integrator { return NewSymplecticEuler() },
	Sequential: func() Integrator { return NewSequentialEuler() },
}

func New(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
