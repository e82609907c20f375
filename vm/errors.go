package vm

import (
	"errors"
	"fmt"
)

// Fatal causes. Any of these reaching the run loop triggers the abort procedure.
var (
	ErrOutOfBounds        = errors.New("address outside codebox")
	ErrStackEmpty         = errors.New("stack empty")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrBadCharacter       = errors.New("value is not a printable character")
)

// Non-fatal stops.
var (
	// ErrHalted is returned by Step once the engine has stopped.
	ErrHalted = errors.New("engine halted")
	// ErrInterrupted is returned when the run context is cancelled.
	ErrInterrupted = errors.New("interrupted")
	// ErrStepLimit is returned when a configured step limit is reached.
	ErrStepLimit = errors.New("step limit reached")
)

// DefaultAbortMessage is the diagnostic written to output by the abort procedure.
const DefaultAbortMessage = "Aargh!!"

// AbortError reports a fatal condition. Once returned, the engine is halted
// and will not touch the codebox or stack again.
type AbortError struct {
	Cause    error
	Position Coord
	Cell     *Cell // nil when the pointer itself left the codebox
	Step     uint64
}

func (e *AbortError) Error() string {
	if e.Cell == nil {
		return fmt.Sprintf("abort at %s (step %d): %v", e.Position, e.Step, e.Cause)
	}
	return fmt.Sprintf("abort at %s executing %s (step %d): %v", e.Position, *e.Cell, e.Step, e.Cause)
}

func (e *AbortError) Unwrap() error {
	return e.Cause
}

// IsAbort reports whether err is, or wraps, an *AbortError.
func IsAbort(err error) bool {
	var ae *AbortError
	return errors.As(err, &ae)
}
