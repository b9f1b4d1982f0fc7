package engine

import "errors"

var (
	// ErrInvalidInput is returned by Submit for a missing chat id or when an
	// input carries both a form and a skip request.
	ErrInvalidInput = errors.New("invalid exchange input")

	// ErrTooManyExchanges is returned by Submit when MaxConcurrentExchanges
	// exchanges are already running.
	ErrTooManyExchanges = errors.New("too many concurrent exchanges")

	// ErrExchangeNotFound is returned for ids that are unknown or finished.
	ErrExchangeNotFound = errors.New("exchange not found")

	// ErrClosed is returned by Submit after Shutdown.
	ErrClosed = errors.New("engine closed")
)

// ErrMissingAgent is returned by New when one of the agents is nil.
var ErrMissingAgent = errors.New("engine requires decider, inquirer, writer and suggester")
