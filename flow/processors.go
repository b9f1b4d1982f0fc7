package flow

import (
	"context"
	"fmt"

	"github.com/hupe1980/contractsmith/core"
	internalutil "github.com/hupe1980/contractsmith/internal/util"
	"github.com/hupe1980/contractsmith/model"
)

// InstructionsProcessor renders the instruction template with the call vars.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest sets req.Instructions.
func (p *InstructionsProcessor) ProcessRequest(_ context.Context, call *Call, req *model.Request) error {
	text, err := internalutil.RenderTemplate(call.Instructions, call.Vars)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	req.Instructions = text

	return nil
}

// ContentsProcessor converts the windowed turns into model contents.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest sets req.Contents, skipping turns without parts.
func (p *ContentsProcessor) ProcessRequest(_ context.Context, call *Call, req *model.Request) error {
	contents := make([]core.Content, 0, len(call.Window))

	for _, t := range call.Window {
		if t.IsEmpty() {
			continue
		}
		contents = append(contents, t.Content())
	}

	req.Contents = contents

	return nil
}

// SchemaProcessor requests structured output when the call carries a schema.
type SchemaProcessor struct{}

// NewSchemaProcessor creates a new schema processor.
func NewSchemaProcessor() *SchemaProcessor { return &SchemaProcessor{} }

// Name returns the processor's identifier.
func (p *SchemaProcessor) Name() string { return "schema" }

// ProcessRequest sets req.ResponseSchema.
func (p *SchemaProcessor) ProcessRequest(_ context.Context, call *Call, req *model.Request) error {
	if call.Schema == nil {
		return nil
	}

	req.ResponseSchema = call.Schema
	req.SchemaName = call.SchemaName

	return nil
}

// ToolsProcessor declares the call's tools to the model.
type ToolsProcessor struct{}

// NewToolsProcessor creates a new tools processor.
func NewToolsProcessor() *ToolsProcessor { return &ToolsProcessor{} }

// Name returns the processor's identifier.
func (p *ToolsProcessor) Name() string { return "tools" }

// ProcessRequest sets req.Tools.
func (p *ToolsProcessor) ProcessRequest(_ context.Context, call *Call, req *model.Request) error {
	if len(call.Tools) > 0 {
		req.Tools = call.Tools
	}
	return nil
}
