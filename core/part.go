package core

// Part represents a polymorphic segment of role-based content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text     string         // Plain UTF-8 text
	Metadata map[string]any // Optional producer-provided metadata
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// DataPart is a structured data segment (e.g., a decoded JSON object). Model
// adapters with native structured output surface it instead of JSON text.
type DataPart struct {
	Data     map[string]any // Structured key/value payload
	Metadata map[string]any
}

// isPart implements the Part interface for DataPart.
func (DataPart) isPart() {}

// FunctionCall describes a tool/function invocation request.
type FunctionCall struct {
	ID        string `json:"id,omitempty"`        // Optional stable id (can be supplied later)
	Name      string `json:"name"`                // Tool / function name
	Arguments string `json:"arguments,omitempty"` // Serialized argument payload (e.g. JSON)
}

// FunctionCallPart wraps a FunctionCall as a content part.
type FunctionCallPart struct {
	FunctionCall FunctionCall
	Metadata     map[string]any
}

// isPart implements the Part interface for FunctionCallPart.
func (FunctionCallPart) isPart() {}

// FunctionResponse describes the outcome of a function call.
type FunctionResponse struct {
	ID       string `json:"id,omitempty"`       // Matches originating FunctionCall ID
	Name     string `json:"name"`               // Function name
	Response any    `json:"response,omitempty"` // Successful result (any shape)
	Error    string `json:"error,omitempty"`    // Populated on failure
}

// FunctionResponsePart wraps a FunctionResponse as a content part.
type FunctionResponsePart struct {
	FunctionResponse FunctionResponse
	Metadata         map[string]any
}

// isPart implements the Part interface for FunctionResponsePart.
func (FunctionResponsePart) isPart() {}

// Content holds role + ordered parts. It is the provider-neutral message
// shape handed to model adapters.
type Content struct {
	Role  Role   `json:"role,omitempty"` // Conversation role (user, assistant, tool, system,...)
	Parts []Part `json:"parts"`          // Ordered heterogeneous parts
}

// Text concatenates all text parts preserving order.
func (c Content) Text() string { return joinText(c.Parts) }

// FunctionCalls returns the function call parts preserving their order.
func (c Content) FunctionCalls() []FunctionCall { return functionCalls(c.Parts) }

// FunctionResponses returns the function response parts preserving their order.
func (c Content) FunctionResponses() []FunctionResponse { return functionResponses(c.Parts) }

// Data returns the first structured data part or nil.
func (c Content) Data() map[string]any {
	for _, p := range c.Parts {
		if dp, ok := p.(DataPart); ok {
			return dp.Data
		}
	}
	return nil
}

func joinText(parts []Part) string {
	var n int
	for _, p := range parts {
		if tp, ok := p.(TextPart); ok {
			n += len(tp.Text)
		}
	}
	buf := make([]byte, 0, n)
	for _, p := range parts {
		if tp, ok := p.(TextPart); ok {
			buf = append(buf, tp.Text...)
		}
	}
	return string(buf)
}

func functionCalls(parts []Part) []FunctionCall {
	var calls []FunctionCall
	for _, p := range parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

func functionResponses(parts []Part) []FunctionResponse {
	var responses []FunctionResponse
	for _, p := range parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}
