// Package voice turns a streaming speech recognizer into edits of an answer
// buffer.
package voice

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned when no speech engine is available.
	ErrUnsupported = errors.New("speech recognition is not supported")

	// ErrAlreadyRecording is returned by Start while a recording is active.
	ErrAlreadyRecording = errors.New("already recording")
)

// Event is one recognition update. Finalized segments are permanent;
// Interim, when HasInterim is set, is the engine's current guess for the
// speech that follows them and replaces any earlier guess.
type Event struct {
	Finalized  []string
	Interim    string
	HasInterim bool

	// Err ends the recording.
	Err error
}

// Engine is a streaming speech recognizer. Start begins recognition and
// returns a channel of events in arrival order. The engine closes the
// channel when ctx is canceled or recognition ends on its own.
type Engine interface {
	Start(ctx context.Context, lang string) (<-chan Event, error)
}

// EngineError reports a failure raised by the speech engine.
type EngineError struct {
	Reason string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("speech engine: %s", e.Reason)
}
