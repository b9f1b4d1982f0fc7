// Package ui defines the renderable sections carried by an exchange's
// component stream. Sections are opaque to the stream and engine packages;
// only renderers (TUI, HTTP clients) interpret them.
package ui

// Kind identifies how a renderer should draw a Section.
type Kind string

const (
	KindEmpty       Kind = ""
	KindSpinner     Kind = "spinner"
	KindCode        Kind = "code"
	KindProgress    Kind = "progress"
	KindInquiry     Kind = "inquiry"
	KindSuggestions Kind = "suggestions"
	KindFollowUp    Kind = "followup"
	KindNotice      Kind = "notice"
)

// Section is one element of the component tree.
type Section struct {
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title,omitempty"`
	Text        string   `json:"text,omitempty"`
	Items       []string `json:"items,omitempty"`
	AllowsInput bool     `json:"allows_input,omitempty"`
}

// IsEmpty reports whether the section renders nothing.
func (s Section) IsEmpty() bool { return s.Kind == KindEmpty }

// Empty returns a section that renders nothing; used to clear a slot.
func Empty() Section { return Section{} }

// Spinner is the immediate placeholder shown while the exchange warms up.
func Spinner() Section { return Section{Kind: KindSpinner, Text: "Thinking..."} }

// Code marks the slot whose body is the exchange's code value stream.
func Code(title string) Section { return Section{Kind: KindCode, Title: title} }

// Progress is the transient indicator shown while code is streaming.
func Progress() Section { return Section{Kind: KindProgress, Text: "Writing contract..."} }

// Inquiry renders a clarifying question with optional choices.
func Inquiry(question string, options []string, allowsInput bool) Section {
	return Section{Kind: KindInquiry, Text: question, Items: options, AllowsInput: allowsInput}
}

// Suggestions renders follow-up prompt suggestions.
func Suggestions(items []string) Section {
	return Section{Kind: KindSuggestions, Title: "Related", Items: items}
}

// FollowUp is the static affordance inviting another submission.
func FollowUp() Section {
	return Section{Kind: KindFollowUp, Text: "Ask a follow-up question", AllowsInput: true}
}

// Notice renders a user-visible error or status message.
func Notice(text string) Section { return Section{Kind: KindNotice, Text: text} }
