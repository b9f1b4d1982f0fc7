package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// Event names of the exchange stream.
const (
	EventExchange   = "exchange"
	EventComponent  = "component"
	EventCode       = "code"
	EventGenerating = "generating"
	EventCollapsed  = "collapsed"
	EventOutcome    = "outcome"
	EventComplete   = "complete"
)

var errNoWriter = errors.New("server: sse writer not configured")

// sseStream serializes SSE frames from several producers onto one response.
type sseStream struct {
	w     io.Writer
	flush func()

	mu  sync.Mutex
	seq int
}

func newSSEStream(w http.ResponseWriter) *sseStream {
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")

	var flushFn func()
	if f, ok := w.(http.Flusher); ok {
		flushFn = f.Flush
	}

	return &sseStream{w: w, flush: flushFn}
}

// send writes one frame with a sequential id and a JSON data line.
func (s *sseStream) send(event string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("server: marshal %s payload: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++

	return s.writeLocked(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", s.seq, event, body))
}

// complete writes the terminal frame.
func (s *sseStream) complete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.writeLocked("event: " + EventComplete + "\ndata: {}\n\n")
}

func (s *sseStream) writeLocked(frame string) error {
	if s.w == nil {
		return errNoWriter
	}

	if _, err := io.WriteString(s.w, frame); err != nil {
		return err
	}

	if s.flush != nil {
		s.flush()
	}

	return nil
}
