// Package server exposes the engine over HTTP. Submitting an exchange
// answers with a server-sent event stream that multiplexes the exchange's
// component, code, generating, collapsed and outcome streams.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/contractsmith/artifact"
	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/engine"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/ui"
)

const maxBodyBytes = 1 << 20

// Options configure a Server.
type Options struct {
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	Logger        logging.Logger

	// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
	ShutdownTimeout time.Duration
}

// Server is the HTTP transport of an Engine.
type Server struct {
	engine          *engine.Engine
	sessions        core.SessionStore
	artifacts       core.ArtifactStore
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// New creates a Server. The stores must be the ones the engine writes to.
func New(eng *engine.Engine, optFns ...func(o *Options)) *Server {
	opts := Options{
		Logger:          logging.NoOpLogger{},
		ShutdownTimeout: 10 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Server{
		engine:          eng,
		sessions:        opts.SessionStore,
		artifacts:       opts.ArtifactStore,
		logger:          opts.Logger,
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// Handler returns the routes:
//
//	POST   /chats/{chatID}/exchanges          submit, answers text/event-stream
//	GET    /chats/{chatID}/turns              committed transcript
//	GET    /chats/{chatID}/artifacts          artifact names
//	GET    /chats/{chatID}/artifacts/{name}   latest (or ?version=N) artifact
//	DELETE /exchanges/{id}                    cancel a running exchange
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chats/{chatID}/exchanges", s.handleSubmit)
	mux.HandleFunc("GET /chats/{chatID}/turns", s.handleTurns)
	mux.HandleFunc("GET /chats/{chatID}/artifacts", s.handleListArtifacts)
	mux.HandleFunc("GET /chats/{chatID}/artifacts/{name}", s.handleArtifact)
	mux.HandleFunc("DELETE /exchanges/{id}", s.handleCancel)

	return mux
}

// ListenAndServe serves until ctx is cancelled, then cancels running
// exchanges and shuts the listener down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server.listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		// Exchanges end first so their event streams can complete.
		engineErr := s.engine.Shutdown(shutdownCtx)
		srvErr := srv.Shutdown(shutdownCtx)

		s.logger.Info("server.shutdown", "engine_error", engineErr, "server_error", srvErr)

		return errors.Join(engineErr, srvErr)
	})

	return g.Wait()
}

type submitRequest struct {
	Form map[string]string `json:"form,omitempty"`
	Skip bool              `json:"skip,omitempty"`
}

type exchangeEvent struct {
	ExchangeID int64  `json:"exchange_id"`
	ChatID     string `json:"chat_id"`
}

type codeEvent struct {
	Text string `json:"text"`
}

type flagEvent struct {
	Value bool `json:"value"`
}

type outcomeEvent struct {
	Outcome engine.Outcome `json:"outcome"`
	Error   string         `json:"error,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	chatID := r.PathValue("chatID")

	var req submitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	x, err := s.engine.Submit(r.Context(), chatID, engine.Input{Form: req.Form, Skip: req.Skip})
	if err != nil {
		writeError(w, submitStatus(err), err.Error())
		return
	}

	w.Header().Set("X-Exchange-ID", strconv.FormatInt(x.ID, 10))

	sse := newSSEStream(w)
	w.WriteHeader(http.StatusOK)

	if err := s.streamExchange(r.Context(), sse, x); err != nil {
		// The exchange keeps running without this subscriber.
		s.logger.Debug("server.stream.closed", "exchange_id", x.ID, "error", err)
		return
	}

	if err := sse.complete(); err != nil {
		s.logger.Debug("server.stream.closed", "exchange_id", x.ID, "error", err)
	}
}

// streamExchange fans the exchange's streams into sse until all of them are
// done. Frames of one stream keep their order; frames of different streams
// interleave in arrival order.
func (s *Server) streamExchange(ctx context.Context, sse *sseStream, x *engine.Exchange) error {
	if err := sse.send(EventExchange, exchangeEvent{ExchangeID: x.ID, ChatID: x.ChatID}); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for elems := range x.Component.Updates(gctx) {
			if err := sse.send(EventComponent, visible(elems)); err != nil {
				return err
			}
		}
		return gctx.Err()
	})

	g.Go(func() error {
		for text := range x.Code.Updates(gctx) {
			if err := sse.send(EventCode, codeEvent{Text: text}); err != nil {
				return err
			}
		}
		return gctx.Err()
	})

	g.Go(func() error {
		for v := range x.IsGenerating.Updates(gctx) {
			if err := sse.send(EventGenerating, flagEvent{Value: v}); err != nil {
				return err
			}
		}
		return gctx.Err()
	})

	g.Go(func() error {
		for v := range x.IsCollapsed.Updates(gctx) {
			if err := sse.send(EventCollapsed, flagEvent{Value: v}); err != nil {
				return err
			}
		}
		return gctx.Err()
	})

	g.Go(func() error {
		outcome, err := x.Outcome.Wait(gctx)
		if err != nil {
			return err
		}

		ev := outcomeEvent{Outcome: outcome}
		if cause := x.Err(); cause != nil {
			ev.Error = cause.Error()
		}

		return sse.send(EventOutcome, ev)
	})

	return g.Wait()
}

// visible drops cleared slots; renderers only need what is shown.
func visible(elems []ui.Section) []ui.Section {
	out := make([]ui.Section, 0, len(elems))
	for _, el := range elems {
		if !el.IsEmpty() {
			out = append(out, el)
		}
	}
	return out
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusNotImplemented, "no session store configured")
		return
	}

	turns, err := s.sessions.Get(r.PathValue("chatID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleListArtifacts(w http.ResponseWriter, r *http.Request) {
	if s.artifacts == nil {
		writeError(w, http.StatusNotImplemented, "no artifact store configured")
		return
	}

	names, err := s.artifacts.List(r.PathValue("chatID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleArtifact(w http.ResponseWriter, r *http.Request) {
	if s.artifacts == nil {
		writeError(w, http.StatusNotImplemented, "no artifact store configured")
		return
	}

	version := 0
	if v := r.URL.Query().Get("version"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "version must be a positive integer")
			return
		}
		version = n
	}

	data, err := s.artifacts.GetVersion(r.PathValue("chatID"), r.PathValue("name"), version)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid exchange id")
		return
	}

	if err := s.engine.Cancel(id); err != nil {
		if errors.Is(err, engine.ErrExchangeNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTooManyExchanges):
		return http.StatusTooManyRequests
	case errors.Is(err, engine.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
