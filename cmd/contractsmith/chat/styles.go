package chat

import "github.com/charmbracelet/lipgloss"

// Styles groups the lipgloss styles of the chat view.
type Styles struct {
	Title    lipgloss.Style
	User     lipgloss.Style
	Question lipgloss.Style
	Option   lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Spinner  lipgloss.Style
	Prompt   lipgloss.Style
}

// DefaultStyles returns the default palette.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1),
		User:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Question: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
		Option:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Spinner:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	}
}
