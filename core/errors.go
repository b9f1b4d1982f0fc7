package core

import "errors"

var (
	// ErrInvalidState is returned when a terminal stream receives Update,
	// Append or Done after it has already been marked done.
	ErrInvalidState = errors.New("invalid state: stream already done")

	// ErrCommitted is returned when a conversation is mutated after commit.
	ErrCommitted = errors.New("conversation already committed")

	// ErrAttemptsExhausted is the terminal failure outcome of a generation
	// loop that never produced usable output.
	ErrAttemptsExhausted = errors.New("generation attempts exhausted without output")
)
