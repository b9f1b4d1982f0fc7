// Package chat is the interactive terminal client of the engine. It renders
// an exchange's component tree live while the contract streams in.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/contractsmith/engine"
	"github.com/hupe1980/contractsmith/ui"
)

// SkipCommand submits a skip request instead of a form.
const SkipCommand = "/skip"

// Submitter is the part of the engine the chat needs.
type Submitter interface {
	Submit(ctx context.Context, chatID string, in engine.Input) (*engine.Exchange, error)
	Cancel(id int64) error
}

type componentMsg struct {
	id       int64
	sections []ui.Section
}

type codeMsg struct {
	id   int64
	text string
}

type doneMsg struct {
	id      int64
	outcome engine.Outcome
	err     error
}

type submitErrMsg struct{ err error }

// Model is the bubbletea model of a chat session.
type Model struct {
	ctx      context.Context
	engine   Submitter
	chatID   string
	renderer *Renderer
	styles   Styles

	input    textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	ready    bool

	transcript []string // rendered, finished exchanges
	current    *engine.Exchange
	events     chan tea.Msg
	sections   []ui.Section
	code       string
	lastErr    error
	outcomes   []engine.Outcome
}

// New creates a chat model for chatID.
func New(ctx context.Context, eng Submitter, chatID string) Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Placeholder = "Describe the contract (Enter to send, /skip to generate, Esc to quit)"
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 4096
	ti.Width = 80
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return Model{
		ctx:      ctx,
		engine:   eng,
		chatID:   chatID,
		renderer: NewRenderer(styles, 80),
		styles:   styles,
		input:    ti,
		spinner:  sp,
		viewport: viewport.New(80, 20),
	}
}

// Run starts the program on the alternate screen.
func Run(ctx context.Context, eng Submitter, chatID string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	_, err := tea.NewProgram(New(ctx, eng, chatID), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight, footerHeight := 1, 3
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.renderer = NewRenderer(m.styles, max(msg.Width-4, 20))
		m.ready = true

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlC:
			if m.current != nil {
				_ = m.engine.Cancel(m.current.ID)
				return m, nil
			}
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}

	case componentMsg:
		if m.current != nil && msg.id == m.current.ID {
			m.sections = msg.sections
		}
		cmds = append(cmds, m.next())

	case codeMsg:
		if m.current != nil && msg.id == m.current.ID {
			m.code = msg.text
		}
		cmds = append(cmds, m.next())

	case doneMsg:
		if m.current != nil && msg.id == m.current.ID {
			m.finish(msg)
		}

	case submitErrMsg:
		m.lastErr = msg.err

	case spinner.TickMsg:
		if m.current != nil {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.refresh()

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("contractsmith"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.current != nil:
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render("generating... (Ctrl+C to cancel)"))
	case m.lastErr != nil:
		b.WriteString(m.styles.Error.Render(m.lastErr.Error()))
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())

	return b.String()
}

// Outcomes returns the outcomes of the finished exchanges in order.
func (m Model) Outcomes() []engine.Outcome { return m.outcomes }

func (m Model) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.current != nil {
		return m, nil
	}

	in := engine.Input{Form: map[string]string{"input": text}}
	if text == SkipCommand {
		in = engine.Input{Skip: true}
	}

	x, err := m.engine.Submit(m.ctx, m.chatID, in)
	if err != nil {
		return m, func() tea.Msg { return submitErrMsg{err: err} }
	}

	m.transcript = append(m.transcript, m.styles.User.Render("you: ")+text)
	m.input.Reset()
	m.lastErr = nil
	m.current = x
	m.sections = nil
	m.code = ""
	m.events = subscribe(m.ctx, x)
	m.refresh()

	return m, tea.Batch(m.next(), m.spinner.Tick)
}

// next waits for the following event of the current exchange.
func (m Model) next() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}

	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m *Model) finish(msg doneMsg) {
	m.transcript = append(m.transcript, m.renderer.Render(m.sections, m.code, ""))
	m.outcomes = append(m.outcomes, msg.outcome)
	m.lastErr = msg.err
	m.current = nil
	m.events = nil
	m.sections = nil
	m.code = ""
}

func (m *Model) refresh() {
	parts := append([]string(nil), m.transcript...)
	if m.current != nil {
		parts = append(parts, m.renderer.Render(m.sections, m.code, m.spinner.View()))
	}

	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	m.viewport.GotoBottom()
}

// subscribe fans the exchange's component and code streams into one
// channel, followed by a doneMsg once the outcome is terminal.
func subscribe(ctx context.Context, x *engine.Exchange) chan tea.Msg {
	events := make(chan tea.Msg)

	send := func(msg tea.Msg) bool {
		select {
		case events <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(events)

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			for sections := range x.Component.Updates(gctx) {
				if !send(componentMsg{id: x.ID, sections: sections}) {
					return ctx.Err()
				}
			}
			return nil
		})

		g.Go(func() error {
			for text := range x.Code.Updates(gctx) {
				if !send(codeMsg{id: x.ID, text: text}) {
					return ctx.Err()
				}
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return
		}

		outcome, err := x.Wait(ctx)
		send(doneMsg{id: x.ID, outcome: outcome, err: err})
	}()

	return events
}
