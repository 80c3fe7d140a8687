package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/gravbox/internal/camera"
	"github.com/san-kum/gravbox/internal/dynamo"
	"github.com/san-kum/gravbox/internal/sim"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

const DefaultRealDt = 1.0 / 60

// Event types.
const (
	Down   = "down"
	Move   = "move"
	Up     = "up"
	Scroll = "scroll"
	Key    = "key"
	Wait   = "wait"
)

// Scenario is a scripted input sequence replayed against a sandbox.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	RealDt      float64 `yaml:"real_dt"`
	Events      []Event `yaml:"events"`
}

// Event is one input. X and Y are screen units on the draw surface.
type Event struct {
	Type    string  `yaml:"type"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Notches int     `yaml:"notches"`
	Fast    bool    `yaml:"fast"`
	// Modifier suppresses velocity on an up event.
	Modifier bool   `yaml:"modifier"`
	Key      string `yaml:"key"`
	// Ticks is the number of ticks to run for wait, or to hold a pan key.
	Ticks int `yaml:"ticks"`
}

func (e Event) point() r2.Vec { return r2.Vec{X: e.X, Y: e.Y} }

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.RealDt == 0 {
		scenario.RealDt = DefaultRealDt
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &scenario, nil
}

func (sc *Scenario) Validate() error {
	if !(sc.RealDt > 0) {
		return fmt.Errorf("real_dt must be positive, got %g", sc.RealDt)
	}
	for i, ev := range sc.Events {
		switch ev.Type {
		case Down, Move, Up, Scroll:
		case Wait:
			if ev.Ticks <= 0 {
				return fmt.Errorf("event %d: wait needs positive ticks", i+1)
			}
		case Key:
			if _, ok := keyActions[ev.Key]; !ok {
				if _, ok := panKeys[ev.Key]; !ok {
					return fmt.Errorf("event %d: unknown key %q", i+1, ev.Key)
				}
			}
		default:
			return fmt.Errorf("event %d: unknown type %q", i+1, ev.Type)
		}
	}
	return nil
}

// Ticks is the total number of ticks the scenario runs.
func (sc *Scenario) Ticks() int {
	n := 0
	for _, ev := range sc.Events {
		if _, pan := panKeys[ev.Key]; ev.Type == Wait || (ev.Type == Key && pan) {
			n += ev.Ticks
		}
	}
	return n
}

var keyActions = map[string]func(*sim.Sandbox) error{
	".":     func(s *sim.Sandbox) error { return s.AccelerateTime(2) },
	",":     func(s *sim.Sandbox) error { return s.AccelerateTime(0.5) },
	"x":     func(s *sim.Sandbox) error { s.SetSuppressVelocity(!s.SuppressVelocity()); return nil },
	"space": func(s *sim.Sandbox) error { s.SetPaused(!s.Paused()); return nil },
}

var panKeys = map[string]camera.Directions{
	"w": {Up: true},
	"s": {Down: true},
	"a": {Left: true},
	"d": {Right: true},
}

// Result collects what a replay produced.
type Result struct {
	Frames []sim.Frame
	// Warnings holds non-fatal errors such as zero elapsed time releases
	// and rejected mass or zoom changes.
	Warnings []error
}

func (r *Result) Last() (sim.Frame, bool) {
	if len(r.Frames) == 0 {
		return sim.Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// Run replays the scenario against sb. Input events apply between ticks;
// only wait and held pan keys advance time.
func Run(ctx context.Context, sb *sim.Sandbox, sc *Scenario) (*Result, error) {
	res := &Result{Frames: make([]sim.Frame, 0, sc.Ticks())}
	collect := func(f sim.Frame) bool {
		res.Frames = append(res.Frames, f)
		return true
	}

	for i, ev := range sc.Events {
		var err error
		switch ev.Type {
		case Down:
			err = sb.PointerDown(ev.point())
		case Move:
			sb.PointerMove(ev.point())
		case Up:
			err = sb.PointerUp(ev.point(), ev.Modifier)
		case Scroll:
			err = sb.Scroll(ev.Notches, ev.Fast)
		case Wait:
			if err := sb.Run(ctx, ev.Ticks, sc.RealDt, collect); err != nil {
				return res, fmt.Errorf("event %d: %w", i+1, err)
			}
		case Key:
			if dirs, ok := panKeys[ev.Key]; ok {
				sb.SetHeld(dirs)
				runErr := sb.Run(ctx, ev.Ticks, sc.RealDt, collect)
				sb.SetHeld(camera.Directions{})
				if runErr != nil {
					return res, fmt.Errorf("event %d: %w", i+1, runErr)
				}
				continue
			}
			err = keyActions[ev.Key](sb)
		default:
			return res, fmt.Errorf("event %d: unknown type %q", i+1, ev.Type)
		}

		if err == nil {
			continue
		}
		if isWarning(err) {
			res.Warnings = append(res.Warnings, fmt.Errorf("event %d: %w", i+1, err))
			continue
		}
		return res, fmt.Errorf("event %d: %w", i+1, err)
	}

	return res, nil
}

func isWarning(err error) bool {
	return errors.Is(err, dynamo.ErrZeroElapsedTime) ||
		errors.Is(err, dynamo.ErrInvalidMass) ||
		errors.Is(err, dynamo.ErrInvalidZoom) ||
		errors.Is(err, dynamo.ErrInvalidTimeScale) ||
		errors.Is(err, dynamo.ErrNoSession)
}
