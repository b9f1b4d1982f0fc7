// Package flow turns an agent's call description into a model.Request and
// consumes the resulting response stream in arrival order.
//
// A Flow runs an ordered list of RequestProcessors (instructions, contents,
// output schema) and then drives a single model.Generate call, handing every
// response and error to a Handler until both channels are closed.
package flow

import (
	"context"
	"fmt"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
)

// Call describes one model call issued by an agent.
type Call struct {
	Instructions string         // Instruction template
	Vars         map[string]any // Template variables
	Window       []core.Turn    // Windowed conversation
	Schema       map[string]any // Optional structured output schema
	SchemaName   string
	Tools        []model.ToolDefinition
	Stream       bool
}

// RequestProcessor processes the request before sending it to the model.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the request before model execution.
	ProcessRequest(ctx context.Context, call *Call, req *model.Request) error
}

// Handler receives the events of one model call in arrival order.
type Handler interface {
	HandleResponse(resp model.Response)
	HandleError(err error)
}

// HandlerFuncs adapts plain functions to Handler. Nil funcs are skipped.
type HandlerFuncs struct {
	Response func(model.Response)
	Error    func(error)
}

// HandleResponse implements Handler.
func (h HandlerFuncs) HandleResponse(resp model.Response) {
	if h.Response != nil {
		h.Response(resp)
	}
}

// HandleError implements Handler.
func (h HandlerFuncs) HandleError(err error) {
	if h.Error != nil {
		h.Error(err)
	}
}

// Flow is a request pipeline bound to one model.
type Flow struct {
	model      model.Model
	processors []RequestProcessor
}

// New creates a Flow. Without explicit processors the default pipeline
// (instructions, contents, schema, tools) is used.
func New(m model.Model, processors ...RequestProcessor) *Flow {
	if len(processors) == 0 {
		processors = []RequestProcessor{
			NewInstructionsProcessor(),
			NewContentsProcessor(),
			NewSchemaProcessor(),
			NewToolsProcessor(),
		}
	}
	return &Flow{model: m, processors: processors}
}

// AddRequestProcessor appends a request processor; order of registration
// defines execution order.
func (f *Flow) AddRequestProcessor(p RequestProcessor) {
	f.processors = append(f.processors, p)
}

// Model returns the bound model.
func (f *Flow) Model() model.Model { return f.model }

// BuildRequest runs the processors over a fresh request.
func (f *Flow) BuildRequest(ctx context.Context, call Call) (model.Request, error) {
	req := model.Request{Stream: call.Stream}

	for _, p := range f.processors {
		if err := p.ProcessRequest(ctx, &call, &req); err != nil {
			return model.Request{}, fmt.Errorf("request processor %s failed: %w", p.Name(), err)
		}
	}

	return req, nil
}

// Run builds the request, issues one Generate call and forwards events to h
// until the model closes both channels. Model errors go to the handler and do
// not stop consumption. Run returns a non-nil error only when the request
// cannot be built or ctx is done.
func (f *Flow) Run(ctx context.Context, call Call, h Handler) error {
	req, err := f.BuildRequest(ctx, call)
	if err != nil {
		return err
	}

	respCh, errCh := f.model.Generate(ctx, req)

	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case resp, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			h.HandleResponse(resp)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			h.HandleError(err)
		}
	}

	return ctx.Err()
}
