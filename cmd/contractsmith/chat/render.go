package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/hupe1980/contractsmith/ui"
)

// Renderer draws component trees as terminal text.
type Renderer struct {
	styles   Styles
	markdown *glamour.TermRenderer // nil renders code as a plain fence
	language string
}

// NewRenderer creates a Renderer wrapping code at width. A failing glamour
// setup degrades to plain output.
func NewRenderer(styles Styles, width int) *Renderer {
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		md = nil
	}

	return &Renderer{styles: styles, markdown: md, language: "solidity"}
}

// Render draws sections in order. The code slot shows code; spinner lines
// are prefixed with spin.
func (r *Renderer) Render(sections []ui.Section, code, spin string) string {
	var b strings.Builder

	for _, s := range sections {
		out := r.section(s, code, spin)
		if out == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(out)
	}

	return b.String()
}

func (r *Renderer) section(s ui.Section, code, spin string) string {
	switch s.Kind {
	case ui.KindSpinner, ui.KindProgress:
		return strings.TrimSpace(spin + " " + r.styles.Muted.Render(s.Text))
	case ui.KindCode:
		return r.code(code)
	case ui.KindInquiry:
		var b strings.Builder
		b.WriteString(r.styles.Question.Render(s.Text))
		for i, item := range s.Items {
			b.WriteString("\n")
			b.WriteString(r.styles.Option.Render(fmt.Sprintf("%d. %s", i+1, item)))
		}
		return b.String()
	case ui.KindSuggestions:
		var b strings.Builder
		b.WriteString(r.styles.Heading.Render(s.Title))
		for _, item := range s.Items {
			b.WriteString("\n")
			b.WriteString(r.styles.Option.Render("- " + item))
		}
		return b.String()
	case ui.KindFollowUp:
		return r.styles.Muted.Render(s.Text)
	case ui.KindNotice:
		return r.styles.Error.Render(s.Text)
	default:
		return ""
	}
}

func (r *Renderer) code(code string) string {
	if code == "" {
		return ""
	}

	fence := "```" + r.language + "\n" + strings.TrimRight(code, "\n") + "\n```"
	if r.markdown == nil {
		return fence
	}

	out, err := r.markdown.Render(fence)
	if err != nil {
		return fence
	}

	return strings.Trim(out, "\n")
}
