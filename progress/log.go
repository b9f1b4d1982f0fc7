// Package progress records everything an exchange reveals to the caller as a
// single ordered log and projects it onto two views: the component node
// (render tree) and the code value (scalar text). Both projections are
// applied under the same lock as the log append, so the views cannot drift
// apart.
package progress

import (
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/contractsmith/stream"
	"github.com/hupe1980/contractsmith/ui"
)

// Kind classifies log entries.
type Kind string

const (
	KindSpinner       Kind = "spinner"
	KindAttemptStart  Kind = "attempt_start"
	KindFragment      Kind = "fragment"
	KindErrorNotice   Kind = "error_notice"
	KindAttemptEnd    Kind = "attempt_end"
	KindSectionAppend Kind = "section_append"
	KindSectionUpdate Kind = "section_update"
	KindClosed        Kind = "closed"
)

// Entry is one immutable record of the log.
type Entry struct {
	Seq     int
	Kind    Kind
	Attempt int
	Text    string
	Section ui.Section
	At      time.Time
}

// Log is the per-exchange progress log. It has a single writer: the exchange
// goroutine and the agents it calls in sequence.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	node     *stream.Node[ui.Section]
	code     *stream.Value[string]
	attempt  int
	buf      strings.Builder
	codeOpen bool
}

// NewLog binds a log to its two projections.
func NewLog(node *stream.Node[ui.Section], code *stream.Value[string]) *Log {
	return &Log{node: node, code: code}
}

// Spinner replaces the current target with the spinner placeholder.
func (l *Log) Spinner() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.node.Update(ui.Spinner()); err != nil {
		return err
	}
	l.recordLocked(Entry{Kind: KindSpinner, Section: ui.Spinner()})

	return nil
}

// BeginAttempt starts a new generation attempt with an empty text buffer
// and returns its 1-based number.
func (l *Log) BeginAttempt() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.attempt++
	l.buf.Reset()
	l.codeOpen = false
	l.recordLocked(Entry{Kind: KindAttemptStart})

	return l.attempt
}

// Fragment appends a model text fragment. The first non-empty fragment of an
// attempt swaps the current target for the code section and appends the
// transient progress indicator. Every fragment pushes the whole buffer to
// the code value.
func (l *Log) Fragment(text string) error {
	return l.appendText(KindFragment, text)
}

// ErrorNotice appends a human readable error notice to the attempt text and
// the code value. Unlike a fragment it never opens the code section; before
// any text the render tree is left as it is.
func (l *Log) ErrorNotice(text string) error {
	return l.appendText(KindErrorNotice, text)
}

func (l *Log) appendText(kind Kind, text string) error {
	if text == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if kind == KindFragment && !l.codeOpen {
		if err := l.node.Update(ui.Code("contract")); err != nil {
			return err
		}
		if err := l.node.Append(ui.Progress()); err != nil {
			return err
		}
		l.codeOpen = true
	}

	l.buf.WriteString(text)
	if err := l.code.Update(l.buf.String()); err != nil {
		return err
	}
	l.recordLocked(Entry{Kind: kind, Text: text})

	return nil
}

// EndAttempt clears the transient progress indicator (if one was shown) and
// returns the attempt's accumulated text.
func (l *Log) EndAttempt() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.codeOpen {
		if err := l.node.Update(ui.Empty()); err != nil {
			return "", err
		}
		l.codeOpen = false
	}

	text := l.buf.String()
	l.recordLocked(Entry{Kind: KindAttemptEnd, Text: text})

	return text, nil
}

// AppendSection appends s after the current tree; s becomes the target of
// UpdateSection.
func (l *Log) AppendSection(s ui.Section) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.node.Append(s); err != nil {
		return err
	}
	l.recordLocked(Entry{Kind: KindSectionAppend, Section: s})

	return nil
}

// UpdateSection replaces the newest section with s.
func (l *Log) UpdateSection(s ui.Section) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.node.Update(s); err != nil {
		return err
	}
	l.recordLocked(Entry{Kind: KindSectionUpdate, Section: s})

	return nil
}

// Close marks both projections done. It fails with core.ErrInvalidState if
// either projection was already terminal.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	nodeErr := l.node.Done()
	codeErr := l.code.Done()
	l.recordLocked(Entry{Kind: KindClosed})

	if nodeErr != nil {
		return nodeErr
	}

	return codeErr
}

// Attempt returns the number of the current attempt (0 before the first).
func (l *Log) Attempt() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.attempt
}

// Text returns the text accumulated by the current attempt.
func (l *Log) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.buf.String()
}

// Entries returns a copy of the log.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

func (l *Log) recordLocked(e Entry) {
	e.Seq = len(l.entries) + 1
	e.Attempt = l.attempt
	e.At = time.Now().UTC()
	l.entries = append(l.entries, e)
}
