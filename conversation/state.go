package conversation

import (
	"sync"

	"github.com/hupe1980/contractsmith/core"
)

// DefaultMaxTurns bounds the window passed to model calls.
const DefaultMaxTurns = 10

// Transcript is the handle agents use to read the windowed conversation and
// record their turns.
type Transcript interface {
	Window() []core.Turn
	Append(turns ...core.Turn) error
}

// TokenEstimator approximates the token count of a text.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// Options configures a State.
type Options struct {
	// MaxTurns is the maximum number of most recent turns returned by Window.
	// Values <= 0 fall back to DefaultMaxTurns.
	MaxTurns int

	// MaxTokens is an optional token budget for Window. 0 disables it. The
	// newest turn is always kept even when it alone exceeds the budget.
	MaxTokens int

	// Estimator counts tokens when MaxTokens is set. Defaults to the
	// cl100k_base tokenizer.
	Estimator TokenEstimator
}

// State is the append-only conversation of one exchange.
type State struct {
	mu        sync.RWMutex
	turns     []core.Turn
	committed bool
	opts      Options
}

var _ Transcript = (*State)(nil)

// New creates a State seeded with previously committed history.
func New(history []core.Turn, optFns ...func(o *Options)) *State {
	opts := Options{
		MaxTurns: DefaultMaxTurns,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}

	if opts.MaxTokens > 0 && opts.Estimator == nil {
		opts.Estimator = TiktokenEstimator{}
	}

	turns := make([]core.Turn, len(history))
	copy(turns, history)

	return &State{turns: turns, opts: opts}
}

// Append records turns in order. It fails with core.ErrCommitted after
// Commit.
func (s *State) Append(turns ...core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.committed {
		return core.ErrCommitted
	}

	for _, t := range turns {
		if t.ID == "" {
			t.ID = core.NewID()
		}
		s.turns = append(s.turns, t)
	}

	return nil
}

// Window returns the most recent turns honouring MaxTurns and MaxTokens.
func (s *State) Window() []core.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if len(s.turns) > s.opts.MaxTurns {
		start = len(s.turns) - s.opts.MaxTurns
	}

	window := s.turns[start:]

	if s.opts.MaxTokens > 0 {
		window = fitTokens(window, s.opts.MaxTokens, s.opts.Estimator)
	}

	out := make([]core.Turn, len(window))
	copy(out, window)

	return out
}

// Turns returns a copy of the full history.
func (s *State) Turns() []core.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Turn, len(s.turns))
	copy(out, s.turns)

	return out
}

// Len returns the number of turns in the full history.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.turns)
}

// Last returns the newest turn.
func (s *State) Last() (core.Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.turns) == 0 {
		return core.Turn{}, false
	}

	return s.turns[len(s.turns)-1], true
}

// Commit freezes the conversation and returns the full history. A second
// call fails with core.ErrCommitted.
func (s *State) Commit() ([]core.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.committed {
		return nil, core.ErrCommitted
	}

	s.committed = true

	out := make([]core.Turn, len(s.turns))
	copy(out, s.turns)

	return out, nil
}

// Committed reports whether Commit has been called.
func (s *State) Committed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.committed
}

func fitTokens(window []core.Turn, budget int, est TokenEstimator) []core.Turn {
	costs := make([]int, len(window))
	total := 0
	for i, t := range window {
		costs[i] = turnTokens(t, est)
		total += costs[i]
	}

	start := 0
	for total > budget && start < len(window)-1 {
		total -= costs[start]
		start++
	}

	return window[start:]
}

// turnTokens estimates a turn's cost: its text, tool arguments and a small
// per-message overhead.
func turnTokens(t core.Turn, est TokenEstimator) int {
	n := 4 + est.EstimateTokens(t.Text())
	for _, fc := range t.FunctionCalls() {
		n += est.EstimateTokens(fc.Name) + est.EstimateTokens(fc.Arguments)
	}
	return n
}
