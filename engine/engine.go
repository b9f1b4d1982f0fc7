package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/hupe1980/contractsmith/agent"
	"github.com/hupe1980/contractsmith/artifact"
	"github.com/hupe1980/contractsmith/conversation"
	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/progress"
	"github.com/hupe1980/contractsmith/session"
	"github.com/hupe1980/contractsmith/ui"
)

// Engine orchestrates exchanges: it records the caller's input, routes the
// conversation to a clarifying question or to the generation loop and
// drives every stream of the exchange to its terminal state.
//
// Each exchange runs on its own goroutine under a context detached from the
// submitting request, so a caller may return as soon as it holds the
// Exchange handles. Cancellation goes through Cancel or Shutdown.
//
// Example Usage:
//
//	eng, err := engine.New(engine.DefaultAgents(m, logger),
//	    engine.WithConfig(engine.DefaultConfig),
//	    engine.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	x, err := eng.Submit(ctx, "chat-1", engine.Input{Form: map[string]string{"input": "Write an ERC20 token"}})
//	if err != nil {
//	    return err
//	}
//
//	for text := range x.Code.Updates(ctx) {
//	    fmt.Print(text)
//	}
type Engine struct {
	// Collaborators - immutable after construction
	agents        Agents
	sessionStore  core.SessionStore
	artifactStore core.ArtifactStore
	callbacks     *CallbackManager
	logger        logging.Logger

	// Configuration - immutable after construction
	config        Config
	artifactName  string
	failureNotice string

	sem    *semaphore.Weighted // nil when unlimited
	nextID atomic.Int64
	wg     sync.WaitGroup

	// Active exchange tracking
	mu              sync.RWMutex
	closed          bool
	activeExchanges map[int64]*Exchange
}

// New creates an Engine driving the given agents.
//
// Default Services:
//   - SessionStore: session.InMemoryStore
//   - ArtifactStore: artifact.InMemoryStore
//   - Logger: no-op
func New(agents Agents, optFns ...func(o *Options)) (*Engine, error) {
	if err := agents.validate(); err != nil {
		return nil, err
	}

	opts := Options{
		Config:        DefaultConfig,
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
		Callbacks:     NewCallbackManager(),
		Logger:        logging.NoOpLogger{},
		ArtifactName:  DefaultArtifactName,
		FailureNotice: DefaultFailureNotice,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Callbacks == nil {
		opts.Callbacks = NewCallbackManager()
	}

	e := &Engine{
		agents:          agents,
		sessionStore:    opts.SessionStore,
		artifactStore:   opts.ArtifactStore,
		callbacks:       opts.Callbacks,
		logger:          opts.Logger,
		config:          opts.Config,
		artifactName:    opts.ArtifactName,
		failureNotice:   opts.FailureNotice,
		activeExchanges: make(map[int64]*Exchange),
	}

	if opts.Config.MaxConcurrentExchanges > 0 {
		e.sem = semaphore.NewWeighted(int64(opts.Config.MaxConcurrentExchanges))
	}

	return e, nil
}

// RegisterCallback adds an exchange lifecycle hook.
func (e *Engine) RegisterCallback(cb Callback) {
	e.callbacks.RegisterCallback(cb)
}

// Submit records the input on the chat's conversation and starts a new
// exchange. It returns as soon as the exchange is running; the returned
// handles are live and can be read concurrently.
//
// Errors:
//   - ErrInvalidInput: empty chat id, or form and skip both set
//   - ErrTooManyExchanges: MaxConcurrentExchanges exchanges are running
//   - ErrClosed: the engine is shutting down
//   - a wrapped SessionStore error when the history cannot be loaded
func (e *Engine) Submit(ctx context.Context, chatID string, in Input) (*Exchange, error) {
	if chatID == "" {
		return nil, fmt.Errorf("%w: chat id is required", ErrInvalidInput)
	}

	if err := in.validate(); err != nil {
		return nil, err
	}

	userTurn, hasTurn, err := in.turn()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if e.sem != nil && !e.sem.TryAcquire(1) {
		return nil, ErrTooManyExchanges
	}

	release := func() {
		if e.sem != nil {
			e.sem.Release(1)
		}
	}

	history, err := e.sessionStore.Get(chatID)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to load chat %s: %w", chatID, err)
	}

	state := conversation.New(history, func(o *conversation.Options) {
		o.MaxTurns = e.config.MaxTurns
		o.MaxTokens = e.config.MaxTokens
	})

	if hasTurn {
		if err := state.Append(userTurn); err != nil {
			release()
			return nil, fmt.Errorf("failed to record user turn: %w", err)
		}
	}

	w := newWriters()

	// The exchange outlives the submitting request.
	exchangeCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	x := &Exchange{
		ID:           e.nextID.Add(1),
		ChatID:       chatID,
		IsGenerating: w.isGenerating,
		Component:    w.component,
		IsCollapsed:  w.isCollapsed,
		Code:         w.code,
		Outcome:      w.outcome,
		cancel:       cancel,
		done:         make(chan struct{}),
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		cancel()
		release()
		return nil, ErrClosed
	}
	e.activeExchanges[x.ID] = x
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		defer cancel()

		e.run(exchangeCtx, x, w, state, in, release)
	}()

	return x, nil
}

// Exchange returns a running exchange by id.
func (e *Engine) Exchange(id int64) (*Exchange, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	x, ok := e.activeExchanges[id]

	return x, ok
}

// Active returns the number of running exchanges.
func (e *Engine) Active() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.activeExchanges)
}

// Cancel stops a running exchange. The exchange still finalizes all of its
// streams and reports OutcomeCancelled.
func (e *Engine) Cancel(id int64) error {
	x, ok := e.Exchange(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrExchangeNotFound, id)
	}

	x.cancel()

	return nil
}

// Shutdown rejects new submissions, cancels running exchanges and waits for
// them to finalize or for ctx to end.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	for _, x := range e.activeExchanges {
		x.cancel()
	}
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run drives one exchange and finalizes it exactly once.
func (e *Engine) run(ctx context.Context, x *Exchange, w writers, state *conversation.State, in Input, release func()) {
	start := time.Now()
	logger := logging.With(e.logger, "exchange_id", x.ID, "chat_id", x.ChatID)
	log := progress.NewLog(w.component, w.code)

	logger.Info("exchange.start", "skip", in.Skip, "form", len(in.Form) > 0, "turns", state.Len())
	e.runCallbacks(ctx, logger, &CallbackContext{ExchangeID: x.ID, ChatID: x.ChatID, CallbackType: CallbackExchangeStart})

	outcome, cause := e.drive(ctx, x, w, state, log, in, logger)

	e.finalize(ctx, x, w, state, log, outcome, cause, logger)

	logger.Info("exchange.end",
		"outcome", outcome,
		"error", cause,
		"attempts", log.Attempt(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	e.mu.Lock()
	delete(e.activeExchanges, x.ID)
	e.mu.Unlock()
	release()

	close(x.done)
}

// drive runs classification and the selected path. Panics raised by agents
// fail the exchange instead of leaving its streams open.
func (e *Engine) drive(
	ctx context.Context,
	x *Exchange,
	w writers,
	state *conversation.State,
	log *progress.Log,
	in Input,
	logger logging.Logger,
) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome, err = OutcomeFailed, fmt.Errorf("exchange panicked: %v", r)
		}
	}()

	decision := agent.Proceed
	if !in.Skip {
		decision = e.agents.Decider.Decide(ctx, state.Window())
	}

	if err := ctx.Err(); err != nil {
		return OutcomeCancelled, err
	}

	logger.Info("exchange.decision", "next", decision.Next, "skipped", in.Skip)
	e.runCallbacks(ctx, logger, &CallbackContext{
		ExchangeID:   x.ID,
		ChatID:       x.ChatID,
		CallbackType: CallbackDecision,
		Decision:     decision,
	})

	if decision.Next == agent.NextInquire {
		return e.inquire(ctx, state, log)
	}

	return e.generate(ctx, x, w, state, log, decision, logger)
}

// inquire is the terminal clarifying-question path.
func (e *Engine) inquire(ctx context.Context, state *conversation.State, log *progress.Log) (Outcome, error) {
	inq, err := e.agents.Inquirer.Inquire(ctx, state.Window(), log)
	if err != nil {
		if ctx.Err() != nil {
			return OutcomeCancelled, ctx.Err()
		}
		return OutcomeFailed, fmt.Errorf("inquiry failed: %w", err)
	}

	if err := state.Append(core.NewTextTurn(core.RoleAssistant, "inquiry: "+inq.Question)); err != nil {
		return OutcomeFailed, err
	}

	return OutcomeInquired, nil
}

// generate is the writing path: collapse, spinner, retry loop, then
// suggestions and the follow-up affordance.
func (e *Engine) generate(
	ctx context.Context,
	x *Exchange,
	w writers,
	state *conversation.State,
	log *progress.Log,
	decision agent.Decision,
	logger logging.Logger,
) (Outcome, error) {
	if err := w.isCollapsed.DoneWith(true); err != nil {
		return OutcomeFailed, err
	}

	if err := log.Spinner(); err != nil {
		return OutcomeFailed, err
	}

	limiter := core.NewAttemptLimiter(e.config.MaxAttempts)

	var res agent.AttemptResult

	for {
		if err := ctx.Err(); err != nil {
			return OutcomeCancelled, err
		}

		if err := limiter.Increment(); err != nil {
			logger.Warn("exchange.exhausted", "attempts", limiter.Count())
			return OutcomeFailed, err
		}

		attempt := limiter.Count()

		e.runCallbacks(ctx, logger, &CallbackContext{
			ExchangeID:   x.ID,
			ChatID:       x.ChatID,
			CallbackType: CallbackAttemptStart,
			Decision:     decision,
			Attempt:      attempt,
		})

		r, err := e.agents.Writer.Write(ctx, state, log)

		logger.Info("exchange.attempt",
			"attempt", attempt,
			"empty", r.Empty(),
			"error_occurred", r.ErrorOccurred,
			"tool_calls", len(r.ToolCalls),
		)

		e.runCallbacks(ctx, logger, &CallbackContext{
			ExchangeID:   x.ID,
			ChatID:       x.ChatID,
			CallbackType: CallbackAttemptEnd,
			Decision:     decision,
			Attempt:      attempt,
			Result:       &r,
		})

		if err != nil {
			if ctx.Err() != nil {
				return OutcomeCancelled, ctx.Err()
			}
			return OutcomeFailed, fmt.Errorf("attempt %d failed: %w", attempt, err)
		}

		if !r.Empty() {
			res = r
			break
		}
	}

	// An inline error notice counts as output but ends the exchange: no
	// suggestions, no follow-up and no saved contract.
	if res.ErrorOccurred {
		if err := e.surfaceNotice(w, log, res.Text); err != nil {
			return OutcomeFailed, err
		}
		return OutcomeCompleted, nil
	}

	if _, err := e.agents.Suggester.Suggest(ctx, state.Window(), log); err != nil {
		if ctx.Err() != nil {
			return OutcomeCancelled, ctx.Err()
		}
		logger.Warn("exchange.suggestions.failed", "error", err)
	}

	e.saveArtifact(x.ChatID, res.Text, logger)

	if err := log.AppendSection(ui.FollowUp()); err != nil {
		return OutcomeFailed, err
	}

	return OutcomeCompleted, nil
}

// surfaceNotice replaces the spinner with the attempt text when an errored
// attempt never produced a fragment, so the notice is not only in the code
// value.
func (e *Engine) surfaceNotice(w writers, log *progress.Log, text string) error {
	elems := w.component.Snapshot()
	if elems[len(elems)-1].Kind != ui.KindSpinner {
		return nil
	}

	return log.UpdateSection(ui.Notice(strings.TrimSpace(text)))
}

func (e *Engine) saveArtifact(chatID, text string, logger logging.Logger) {
	if e.artifactStore == nil {
		return
	}

	version, err := e.artifactStore.Save(chatID, e.artifactName, []byte(text))
	if err != nil {
		logger.Warn("exchange.artifact.failed", "name", e.artifactName, "error", err)
		return
	}

	logger.Debug("exchange.artifact.saved", "name", e.artifactName, "version", version)
}

// finalize settles the render tree, terminates every stream exactly once and
// commits the transcript. The outcome is published last, so a reader seeing
// it terminal also sees the persisted transcript.
func (e *Engine) finalize(
	ctx context.Context,
	x *Exchange,
	w writers,
	state *conversation.State,
	log *progress.Log,
	outcome Outcome,
	cause error,
	logger logging.Logger,
) {
	var errs []error

	switch outcome {
	case OutcomeFailed:
		errs = append(errs, e.settle(w, log, ui.Notice(e.failureNotice)))
	case OutcomeCancelled:
		errs = append(errs, e.settle(w, log, ui.Empty()))
	}

	if !w.isCollapsed.IsDone() {
		errs = append(errs, w.isCollapsed.DoneWith(false))
	}

	errs = append(errs, w.isGenerating.DoneWith(false))
	errs = append(errs, log.Close())

	turns, err := state.Commit()
	if err == nil && e.sessionStore != nil {
		err = e.sessionStore.Save(x.ChatID, turns)
	}
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		logger.Error("exchange.finalize.failed", "error", err)
		cause = errors.Join(cause, err)
	}

	x.setErr(cause)

	if err := w.outcome.DoneWith(outcome); err != nil {
		logger.Error("exchange.outcome.failed", "error", err)
	}

	e.runCallbacks(context.WithoutCancel(ctx), logger, &CallbackContext{
		ExchangeID:   x.ID,
		ChatID:       x.ChatID,
		CallbackType: CallbackExchangeEnd,
		Outcome:      outcome,
		Err:          cause,
	})
}

// settle replaces a leftover placeholder with s, or appends s after the
// sections already shown. An empty s only clears placeholders.
func (e *Engine) settle(w writers, log *progress.Log, s ui.Section) error {
	if w.component.IsDone() {
		return nil
	}

	elems := w.component.Snapshot()
	last := elems[len(elems)-1]

	switch {
	case last.Kind == ui.KindEmpty || last.Kind == ui.KindSpinner || last.Kind == ui.KindProgress:
		return log.UpdateSection(s)
	case s.IsEmpty():
		return nil
	default:
		return log.AppendSection(s)
	}
}

func (e *Engine) runCallbacks(ctx context.Context, logger logging.Logger, cc *CallbackContext) {
	for _, err := range e.callbacks.ExecuteCallbacks(ctx, cc.CallbackType, cc) {
		logger.Warn("exchange.callback.failed", "type", cc.CallbackType, "error", err)
	}
}
