package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/contractsmith/core"
)

// TranscriptBuilder helps construct transcripts with fluent chaining.
// Example:
//
//	turns := NewTranscriptBuilder().Form("input", "Write an ERC20 token").Assistant("pragma ...").Build()
type TranscriptBuilder struct {
	turns []core.Turn
}

// NewTranscriptBuilder creates an empty builder.
func NewTranscriptBuilder() *TranscriptBuilder { return &TranscriptBuilder{} }

// User appends a user text turn (chainable).
func (b *TranscriptBuilder) User(text string) *TranscriptBuilder {
	b.turns = append(b.turns, core.NewTextTurn(core.RoleUser, text))
	return b
}

// Form appends a user turn carrying a JSON form built from key/value pairs
// (chainable). An odd trailing key is ignored.
func (b *TranscriptBuilder) Form(kv ...string) *TranscriptBuilder {
	form := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		form[kv[i]] = kv[i+1]
	}
	raw, _ := json.Marshal(form)
	return b.User(string(raw))
}

// Assistant appends an assistant text turn (chainable).
func (b *TranscriptBuilder) Assistant(text string) *TranscriptBuilder {
	b.turns = append(b.turns, core.NewTextTurn(core.RoleAssistant, text))
	return b
}

// ToolCall appends an assistant turn requesting one tool call (chainable).
func (b *TranscriptBuilder) ToolCall(id, name, args string) *TranscriptBuilder {
	b.turns = append(b.turns, core.NewAssistantTurn("", []core.FunctionCall{{ID: id, Name: name, Arguments: args}}))
	return b
}

// ToolResult appends a tool turn answering a call (chainable).
func (b *TranscriptBuilder) ToolResult(id, name string, response any) *TranscriptBuilder {
	b.turns = append(b.turns, core.NewToolTurn([]core.FunctionResponse{{ID: id, Name: name, Response: response}}))
	return b
}

// Exchanges appends n user/assistant pairs numbered from 1 (chainable).
func (b *TranscriptBuilder) Exchanges(n int) *TranscriptBuilder {
	for i := 1; i <= n; i++ {
		b.User(fmt.Sprintf("request %d", i)).Assistant(fmt.Sprintf("answer %d", i))
	}
	return b
}

// Build returns a copy of the accumulated turns.
func (b *TranscriptBuilder) Build() []core.Turn {
	out := make([]core.Turn, len(b.turns))
	copy(out, b.turns)
	return out
}

// Texts maps turns to "role: text" lines for compact assertions.
func Texts(turns []core.Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = string(t.Role) + ": " + t.Text()
	}
	return out
}
