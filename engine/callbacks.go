package engine

import (
	"context"
	"sync"

	"github.com/hupe1980/contractsmith/agent"
	"github.com/hupe1980/contractsmith/logging"
)

// CallbackType defines the lifecycle points of an exchange where callbacks
// run.
//
// Callbacks provide a hook into the exchange pipeline without modifying the
// engine. They run synchronously on the exchange goroutine, so a slow
// callback delays the exchange. Errors returned by callbacks are logged and
// never change the outcome of an exchange.
type CallbackType string

const (
	// CallbackExchangeStart runs after the user turn was recorded and
	// before classification.
	CallbackExchangeStart CallbackType = "exchange_start"

	// CallbackDecision runs once the routing decision is known.
	CallbackDecision CallbackType = "decision"

	// CallbackAttemptStart runs before every generation attempt.
	CallbackAttemptStart CallbackType = "attempt_start"

	// CallbackAttemptEnd runs after every generation attempt, empty or not.
	CallbackAttemptEnd CallbackType = "attempt_end"

	// CallbackExchangeEnd runs after all streams were finalized.
	CallbackExchangeEnd CallbackType = "exchange_end"
)

// CallbackContext carries what a callback may inspect. Fields that do not
// apply to the callback type are zero.
type CallbackContext struct {
	ExchangeID   int64
	ChatID       string
	CallbackType CallbackType

	// Decision is set for decision callbacks and later.
	Decision agent.Decision

	// Attempt is the 1-based attempt number for attempt callbacks.
	Attempt int
	// Result is set for attempt_end.
	Result *agent.AttemptResult

	// Outcome and Err are set for exchange_end.
	Outcome Outcome
	Err     error

	// Metadata provides extensible storage for custom callback data.
	Metadata map[string]any
}

// Callback is an exchange lifecycle hook.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	cb := NewFunctionCallback(
//	    CallbackAttemptEnd,
//	    func(ctx context.Context, cc *CallbackContext) error {
//	        metrics.Observe(cc.Attempt)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager keeps the registered callbacks per type and runs them in
// registration order. Registration and execution are safe for concurrent
// use, so hooks can be added while exchanges are running.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks runs every callback registered for callbackType. Unlike a
// fail-fast chain, all callbacks run; the errors are returned in order.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) []error {
	cm.mu.RLock()
	callbacks := append([]Callback(nil), cm.callbacks[callbackType]...)
	cm.mu.RUnlock()

	var errs []error

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// LoggingCallback writes a structured log line for one callback type.
type LoggingCallback struct {
	callbackType CallbackType
	logger       logging.Logger
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger logging.Logger) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the lifecycle point with the fields relevant to it.
func (c *LoggingCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}

	args := []any{
		"exchange_id", callbackCtx.ExchangeID,
		"chat_id", callbackCtx.ChatID,
	}

	switch c.callbackType {
	case CallbackDecision:
		args = append(args, "next", string(callbackCtx.Decision.Next))
	case CallbackAttemptStart:
		args = append(args, "attempt", callbackCtx.Attempt)
	case CallbackAttemptEnd:
		args = append(args, "attempt", callbackCtx.Attempt)
		if callbackCtx.Result != nil {
			args = append(args, "empty", callbackCtx.Result.Empty(), "error_occurred", callbackCtx.Result.ErrorOccurred)
		}
	case CallbackExchangeEnd:
		args = append(args, "outcome", string(callbackCtx.Outcome))
		if callbackCtx.Err != nil {
			args = append(args, "error", callbackCtx.Err)
		}
	}

	c.logger.Debug("callback."+string(c.callbackType), args...)

	return nil
}
