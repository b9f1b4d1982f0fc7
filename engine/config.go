package engine

import (
	"github.com/hupe1980/contractsmith/conversation"
	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/logging"
)

// Config defines tuning parameters for the Engine's operational behavior.
//
// Example:
//
//	cfg := Config{
//	    MaxTurns:               20,
//	    MaxAttempts:            5,
//	    MaxConcurrentExchanges: 16,
//	}
type Config struct {
	// MaxTurns bounds the window of recent turns handed to every model
	// call. The stored history may be longer. Values <= 0 fall back to
	// conversation.DefaultMaxTurns.
	MaxTurns int

	// MaxTokens is an optional token budget applied on top of MaxTurns.
	// The oldest turns of the window are dropped until it fits; the newest
	// turn is always kept. 0 disables the budget.
	MaxTokens int

	// MaxAttempts bounds the generation retry loop. An exchange whose
	// attempts all come back empty fails with core.ErrAttemptsExhausted.
	// 0 retries until output arrives or the exchange is cancelled.
	MaxAttempts int

	// MaxConcurrentExchanges limits how many exchanges run at once.
	// Submit returns ErrTooManyExchanges beyond it. 0 means unlimited.
	MaxConcurrentExchanges int
}

// DefaultConfig provides the default engine configuration.
var DefaultConfig = Config{
	MaxTurns:               conversation.DefaultMaxTurns,
	MaxTokens:              0,
	MaxAttempts:            3,
	MaxConcurrentExchanges: 64,
}

// DefaultArtifactName is the artifact every successful generation is saved
// under.
const DefaultArtifactName = "contract.sol"

// DefaultFailureNotice is the section shown when an exchange fails.
const DefaultFailureNotice = "Something went wrong while generating the contract. Please try again."

// Options configure an Engine.
type Options struct {
	Config        Config
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	Callbacks     *CallbackManager
	Logger        logging.Logger

	// ArtifactName names the artifact successful generations are saved as.
	ArtifactName string

	// FailureNotice is the text of the notice section appended when an
	// exchange fails.
	FailureNotice string
}

// WithConfig replaces the engine configuration.
func WithConfig(cfg Config) func(o *Options) {
	return func(o *Options) { o.Config = cfg }
}

// WithLogger sets the engine logger.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithSessionStore sets the store committed transcripts are persisted to.
func WithSessionStore(s core.SessionStore) func(o *Options) {
	return func(o *Options) { o.SessionStore = s }
}

// WithArtifactStore sets the store generated contracts are saved to.
func WithArtifactStore(s core.ArtifactStore) func(o *Options) {
	return func(o *Options) { o.ArtifactStore = s }
}

// WithCallback registers an exchange lifecycle hook.
func WithCallback(cb Callback) func(o *Options) {
	return func(o *Options) {
		if o.Callbacks == nil {
			o.Callbacks = NewCallbackManager()
		}
		o.Callbacks.RegisterCallback(cb)
	}
}
