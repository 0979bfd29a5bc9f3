package enginecore

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when using a closed Core.
	ErrClosed = errors.New("enginecore: core is closed")
	// ErrFrameInProgress is returned by Update when a frame was begun and
	// not ended.
	ErrFrameInProgress = errors.New("enginecore: frame in progress")
)

// SpawnError reports a spawn record that could not be applied.
//
// The underlying error can be accessed via errors.Unwrap.
type SpawnError struct {
	Index int
	cause error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn record %d: %v", e.Index, e.cause)
}

func (e *SpawnError) Unwrap() error { return e.cause }
