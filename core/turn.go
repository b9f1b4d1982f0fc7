package core

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Role tags the author of a Turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleFunction  Role = "function"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleFunction, RoleTool:
		return true
	}
	return false
}

// Turn is one role-tagged entry of the conversation transcript. Order within
// a transcript is causal. A Turn should be treated as immutable once appended.
type Turn struct {
	ID    string
	Role  Role
	Name  string // Optional author / tool name
	Parts []Part
}

// NewID generates a new unique identifier for turns.
func NewID() string { return uuid.NewString() }

// NewTextTurn creates a single text part turn with a fresh ID.
func NewTextTurn(role Role, text string) Turn {
	return Turn{ID: NewID(), Role: role, Parts: []Part{TextPart{Text: text}}}
}

// NewAssistantTurn creates an assistant turn carrying text followed by the
// given tool calls. Empty text is omitted.
func NewAssistantTurn(text string, calls []FunctionCall) Turn {
	parts := make([]Part, 0, len(calls)+1)
	if text != "" {
		parts = append(parts, TextPart{Text: text})
	}
	for _, c := range calls {
		parts = append(parts, FunctionCallPart{FunctionCall: c})
	}
	return Turn{ID: NewID(), Role: RoleAssistant, Parts: parts}
}

// NewToolTurn creates a tool turn carrying the given tool outcomes.
func NewToolTurn(results []FunctionResponse) Turn {
	parts := make([]Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, FunctionResponsePart{FunctionResponse: r})
	}
	return Turn{ID: NewID(), Role: RoleTool, Parts: parts}
}

// Content converts the turn into the provider-neutral message shape.
func (t Turn) Content() Content { return Content{Role: t.Role, Parts: t.Parts} }

// Text concatenates all text parts of the turn.
func (t Turn) Text() string { return joinText(t.Parts) }

// FunctionCalls returns the tool invocations carried by the turn.
func (t Turn) FunctionCalls() []FunctionCall { return functionCalls(t.Parts) }

// FunctionResponses returns the tool outcomes carried by the turn.
func (t Turn) FunctionResponses() []FunctionResponse { return functionResponses(t.Parts) }

// IsEmpty reports whether the turn carries no parts at all.
func (t Turn) IsEmpty() bool { return len(t.Parts) == 0 }

type turnJSON struct {
	ID          string             `json:"id,omitempty"`
	Role        Role               `json:"role"`
	Name        string             `json:"name,omitempty"`
	Content     string             `json:"content"`
	Data        map[string]any     `json:"data,omitempty"`
	ToolCalls   []FunctionCall     `json:"tool_calls,omitempty"`
	ToolResults []FunctionResponse `json:"tool_results,omitempty"`
}

// MarshalJSON flattens the part union into a stable wire shape.
func (t Turn) MarshalJSON() ([]byte, error) {
	return json.Marshal(turnJSON{
		ID:          t.ID,
		Role:        t.Role,
		Name:        t.Name,
		Content:     t.Text(),
		Data:        t.Content().Data(),
		ToolCalls:   t.FunctionCalls(),
		ToolResults: t.FunctionResponses(),
	})
}

// UnmarshalJSON restores a turn from the flattened wire shape.
func (t *Turn) UnmarshalJSON(b []byte) error {
	var raw turnJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parts := make([]Part, 0, 1+len(raw.ToolCalls)+len(raw.ToolResults))
	if raw.Content != "" {
		parts = append(parts, TextPart{Text: raw.Content})
	}
	if raw.Data != nil {
		parts = append(parts, DataPart{Data: raw.Data})
	}
	for _, c := range raw.ToolCalls {
		parts = append(parts, FunctionCallPart{FunctionCall: c})
	}
	for _, r := range raw.ToolResults {
		parts = append(parts, FunctionResponsePart{FunctionResponse: r})
	}
	*t = Turn{ID: raw.ID, Role: raw.Role, Name: raw.Name, Parts: parts}
	return nil
}
