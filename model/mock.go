package model

import (
	"context"
	"strings"
	"sync"

	"github.com/hupe1980/contractsmith/core"
)

// Step is one scripted event of a MockModel call. Exactly one field should
// be set.
type Step struct {
	Text   string                 // partial text fragment
	Call   *core.FunctionCall     // tool call, surfaced in the final response
	Result *core.FunctionResponse // tool outcome, emitted as its own response
	Err    error                  // error on the error channel
}

// Script describes the behaviour of one Generate call.
type Script struct {
	Steps []Step

	// Final overrides the text of the final response. When empty the final
	// text is the concatenation of the Text steps.
	Final string

	// Data is attached to the final response as a structured part.
	Data map[string]any

	// Block keeps the call open until its context is cancelled.
	Block bool
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Each Generate call consumes the next script; once all scripts are used the
// model streams nothing and closes.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	scripts  []Script
	requests []Request
}

// NewMockModel constructs a MockModel that plays the given scripts in order.
func NewMockModel(name string, scripts ...Script) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
		scripts: scripts,
	}
}

// Fragments is a shorthand script streaming the given text fragments.
func Fragments(fragments ...string) Script {
	steps := make([]Step, len(fragments))
	for i, f := range fragments {
		steps[i] = Step{Text: f}
	}
	return Script{Steps: steps}
}

// Reply is a shorthand script answering with a single non-streamed text.
func Reply(text string) Script { return Script{Final: text} }

// AddScript queues another script.
func (m *MockModel) AddScript(s Script) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, s)
}

// Calls returns how many times Generate was invoked.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns the recorded requests in call order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Generate implements Model. Channels are unbuffered so the consumer observes
// responses and errors in exactly the scripted order.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	m.mu.Lock()
	idx := len(m.requests)
	m.requests = append(m.requests, req)
	var script Script
	if idx < len(m.scripts) {
		script = m.scripts[idx]
	}
	m.mu.Unlock()

	respCh := make(chan Response)
	errCh := make(chan error)

	go func() {
		defer close(respCh)
		defer close(errCh)

		sendResp := func(r Response) bool {
			select {
			case <-ctx.Done():
				return false
			case respCh <- r:
				return true
			}
		}
		sendErr := func(err error) bool {
			select {
			case <-ctx.Done():
				return false
			case errCh <- err:
				return true
			}
		}

		var (
			text  strings.Builder
			calls []core.FunctionCall
		)

		for _, step := range script.Steps {
			ok := true
			switch {
			case step.Err != nil:
				ok = sendErr(step.Err)
			case step.Call != nil:
				calls = append(calls, *step.Call)
			case step.Result != nil:
				ok = sendResp(Response{Content: core.Content{
					Role:  core.RoleTool,
					Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: *step.Result}},
				}})
			case step.Text != "":
				text.WriteString(step.Text)
				ok = sendResp(Response{Partial: true, Content: core.Content{
					Role:  core.RoleAssistant,
					Parts: []core.Part{core.TextPart{Text: step.Text}},
				}})
			}
			if !ok {
				return
			}
		}

		if script.Block {
			<-ctx.Done()
			_ = sendErr(ctx.Err())
			return
		}

		final := text.String()
		if script.Final != "" {
			final = script.Final
		}

		parts := make([]core.Part, 0, len(calls)+2)
		if final != "" {
			parts = append(parts, core.TextPart{Text: final})
		}
		if script.Data != nil {
			parts = append(parts, core.DataPart{Data: script.Data})
		}
		for _, c := range calls {
			parts = append(parts, core.FunctionCallPart{FunctionCall: c})
		}
		if len(parts) == 0 {
			return
		}

		finish := "stop"
		if len(calls) > 0 {
			finish = "tool_calls"
		}

		sendResp(Response{
			Content:      core.Content{Role: core.RoleAssistant, Parts: parts},
			FinishReason: finish,
		})
	}()

	return respCh, errCh
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
