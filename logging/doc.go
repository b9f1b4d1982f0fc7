// Package logging provides a minimal logging interface and adapters.
//
// The Logger interface defines the key/value logging methods (Debug, Info,
// Warn, Error) that the engine, agents and transports use. This package
// includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - ZapAdapter wrapping a zap SugaredLogger
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	eng := engine.New(writer, func(o *engine.Options) { o.Logger = logger })
package logging
