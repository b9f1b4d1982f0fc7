package agent

import (
	"context"
	"fmt"

	"github.com/hupe1980/contractsmith/conversation"
	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/flow"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/model"
	"github.com/hupe1980/contractsmith/progress"
)

// AttemptResult is the outcome of one generation attempt.
type AttemptResult struct {
	Attempt       int
	Text          string
	ToolCalls     []core.FunctionCall
	ToolResults   []core.FunctionResponse
	ErrorOccurred bool
}

// Empty reports whether the attempt produced no text.
func (r AttemptResult) Empty() bool { return r.Text == "" }

// WriterOptions configures a Writer.
type WriterOptions struct {
	Instruction Instruction
	Vars        map[string]any
	Tools       []model.ToolDefinition
	ErrorNotice string
	Logger      logging.Logger
}

// Writer is the code generation agent. Each Write call is one attempt; the
// retry policy belongs to the caller.
type Writer struct {
	caller
	tools  []model.ToolDefinition
	notice string
}

// NewWriter creates a Writer backed by m.
func NewWriter(m model.Model, optFns ...func(o *WriterOptions)) *Writer {
	opts := WriterOptions{
		Instruction: NewInstructionFromText(defaultWriterInstruction),
		ErrorNotice: DefaultErrorNotice,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Writer{
		caller: newCaller("writer", m, opts.Instruction, opts.Vars, opts.Logger),
		tools:  opts.Tools,
		notice: opts.ErrorNotice,
	}
}

// Write runs one streaming attempt against the transcript window.
//
// Fragments go to the progress log in arrival order. Tool calls are taken
// from final responses only, tool results from any response. A model error
// marks the attempt and appends the error notice, and consumption continues.
// When the stream ends the progress indicator is cleared and the assistant
// turn (plus a tool turn when results exist) is appended to the transcript.
// Attempts without text or tool calls leave the transcript untouched.
func (w *Writer) Write(ctx context.Context, transcript conversation.Transcript, log *progress.Log) (AttemptResult, error) {
	res := AttemptResult{Attempt: log.BeginAttempt()}

	var (
		streamed bool
		logErr   error
	)

	fragment := func(text string) {
		if logErr == nil {
			logErr = log.Fragment(text)
		}
	}

	h := flow.HandlerFuncs{
		Response: func(r model.Response) {
			res.ToolResults = append(res.ToolResults, r.Content.FunctionResponses()...)

			text := r.Content.Text()

			if r.Partial {
				if text != "" {
					streamed = true
					fragment(text)
				}
				return
			}

			res.ToolCalls = append(res.ToolCalls, r.Content.FunctionCalls()...)

			// Providers without streaming deliver the whole text once.
			if !streamed && text != "" {
				streamed = true
				fragment(text)
			}
		},
		Error: func(err error) {
			res.ErrorOccurred = true
			w.logger.Warn("agent.writer.stream_error", "attempt", res.Attempt, "error", err)
			if logErr == nil {
				logErr = log.ErrorNotice(w.notice)
			}
		},
	}

	runErr := w.run(ctx, transcript.Window(), flow.Call{Tools: w.tools, Stream: true}, h)

	text, endErr := log.EndAttempt()
	res.Text = text

	if runErr != nil {
		return res, runErr
	}
	if logErr != nil {
		return res, logErr
	}
	if endErr != nil {
		return res, endErr
	}

	if res.Text != "" || len(res.ToolCalls) > 0 {
		if err := transcript.Append(core.NewAssistantTurn(res.Text, res.ToolCalls)); err != nil {
			return res, fmt.Errorf("writer: record assistant turn: %w", err)
		}
	}

	if len(res.ToolResults) > 0 {
		if err := transcript.Append(core.NewToolTurn(res.ToolResults)); err != nil {
			return res, fmt.Errorf("writer: record tool turn: %w", err)
		}
	}

	return res, nil
}
