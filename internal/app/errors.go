package app

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine. Callers match with errors.Is; none of
// these are fatal to the session.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrBusy                 = errors.New("a prompt is already in flight")
	ErrNotFound             = errors.New("conversation not found")
	ErrIndexOutOfRange      = errors.New("message index out of range")
	ErrEmptyConversation    = errors.New("conversation has no messages")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// GenerationError wraps a failure from the generation backend. The user
// message that triggered the turn stays in history; the wrapped error text
// is surfaced verbatim.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
