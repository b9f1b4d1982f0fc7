package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/stream"
	"github.com/hupe1980/contractsmith/ui"
)

// Outcome is the terminal classification of an exchange.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeCompleted Outcome = "completed"
	OutcomeInquired  Outcome = "inquired"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Input is the caller's submission. Form and Skip are mutually exclusive;
// an input carrying neither adds no user turn.
type Input struct {
	Form map[string]string `json:"form,omitempty"`
	Skip bool              `json:"skip,omitempty"`
}

// skipPayload is the user turn recorded for a skip request.
const skipPayload = `{"action":"skip"}`

func (in Input) validate() error {
	if in.Skip && len(in.Form) > 0 {
		return fmt.Errorf("%w: form and skip are mutually exclusive", ErrInvalidInput)
	}
	return nil
}

// turn returns the user turn for the input, or false when none is recorded.
func (in Input) turn() (core.Turn, bool, error) {
	switch {
	case in.Skip:
		return core.NewTextTurn(core.RoleUser, skipPayload), true, nil
	case len(in.Form) > 0:
		b, err := json.Marshal(in.Form)
		if err != nil {
			return core.Turn{}, false, fmt.Errorf("encode form: %w", err)
		}
		return core.NewTextTurn(core.RoleUser, string(b)), true, nil
	default:
		return core.Turn{}, false, nil
	}
}

// Exchange is the live record of one submission. Every stream has a single
// writer inside the engine; callers only get the read-only views and may
// subscribe at any time, before or after the exchange finished.
type Exchange struct {
	ID     int64
	ChatID string

	// IsGenerating starts true and is finalized to false exactly once.
	IsGenerating stream.ValueReader[bool]
	// Component is the progressively revealed render tree.
	Component stream.NodeReader[ui.Section]
	// IsCollapsed starts false; the generation path finalizes it to true.
	IsCollapsed stream.ValueReader[bool]
	// Code carries the accumulated text of the current generation attempt.
	Code stream.ValueReader[string]
	// Outcome turns terminal after every other stream is done and the
	// transcript has been committed.
	Outcome stream.ValueReader[Outcome]

	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Done is closed once the exchange has finalized.
func (x *Exchange) Done() <-chan struct{} { return x.done }

// Err returns the failure cause after Done, or nil for completed and
// inquired exchanges.
func (x *Exchange) Err() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	return x.err
}

// Wait blocks until the exchange finalized and returns its outcome.
func (x *Exchange) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-x.done:
		return x.Outcome.Current(), x.Err()
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

func (x *Exchange) setErr(err error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.err == nil {
		x.err = err
	}
}

// codeHistory bounds the retained code versions. Each version is the whole
// buffer so far, so a late reader only needs the newest.
const codeHistory = 1

// writers groups the write side of an exchange's streams.
type writers struct {
	isGenerating *stream.Value[bool]
	component    *stream.Node[ui.Section]
	isCollapsed  *stream.Value[bool]
	code         *stream.Value[string]
	outcome      *stream.Value[Outcome]
}

func newWriters() writers {
	return writers{
		isGenerating: stream.NewValue(true),
		component:    stream.NewNode(ui.Empty()),
		isCollapsed:  stream.NewValue(false),
		code:         stream.NewValue("", stream.WithHistory(codeHistory)),
		outcome:      stream.NewValue(OutcomePending),
	}
}
