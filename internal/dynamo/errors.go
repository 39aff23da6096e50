package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors shared across the show packages.
var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrEmptyText indicates a rasterisation request with nothing to draw.
	ErrEmptyText = errors.New("dynamo: empty text")

	// ErrFontUnavailable indicates a font file could not be read or parsed.
	ErrFontUnavailable = errors.New("dynamo: font unavailable")

	// ErrUnknownPreset indicates a preset name with no registered configuration.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrUnknownPhase indicates a phase name that does not parse.
	ErrUnknownPhase = errors.New("dynamo: unknown phase")

	// ErrScenario indicates a malformed automation scenario step.
	ErrScenario = errors.New("dynamo: invalid scenario step")

	// ErrInvalidState indicates a NaN or Inf position in the simulation.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// FrameError wraps an error with the frame at which it occurred.
type FrameError struct {
	Frame   int
	Phase   string
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (%s): %v", e.Frame, e.Phase, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
