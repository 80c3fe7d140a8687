package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations. All of them are recoverable:
// the tick loop logs and carries on.
var (
	// ErrInvalidMass indicates a non-positive or non-finite mass assignment.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrInvalidZoom indicates a zoom operation that would leave a non-positive scale.
	ErrInvalidZoom = errors.New("dynamo: zoom scale must be positive and finite")

	// ErrInvalidTimeScale indicates a time acceleration that would zero or negate the time scale.
	ErrInvalidTimeScale = errors.New("dynamo: time scale must be positive and finite")

	// ErrInvalidDistanceScale indicates a non-positive world/screen distance scale.
	ErrInvalidDistanceScale = errors.New("dynamo: distance scale must be positive and finite")

	// ErrZeroElapsedTime is a warning: a drag released with no simulated time
	// between its last two samples. The body is committed at rest.
	ErrZeroElapsedTime = errors.New("dynamo: zero simulated time between drag samples, velocity skipped")

	// ErrNoSession indicates an authoring operation with no drag in progress.
	ErrNoSession = errors.New("dynamo: no authoring session active")
)

// TickError wraps an error with the tick it was raised on.
type TickError struct {
	Tick    uint64
	Time    float64
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4gs): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
