package agent

import (
	"context"

	"github.com/hupe1980/contractsmith/core"
)

// Provider supplies dynamic instruction text at runtime, e.g. derived from
// the conversation window.
type Provider interface {
	Instruction(ctx context.Context, window []core.Turn) (string, error)
}

// Func is a functional adapter to allow ordinary functions to be used as Providers.
type Func func(ctx context.Context, window []core.Turn) (string, error)

// Instruction implements Provider.
func (f Func) Instruction(ctx context.Context, window []core.Turn) (string, error) {
	return f(ctx, window)
}

// Instruction represents either a static instruction template or a dynamic
// provider. Both are rendered with the agent's template vars.
type Instruction struct {
	text     string
	provider Provider
}

// NewInstructionFromText creates an Instruction from a static string.
func NewInstructionFromText(text string) Instruction { return Instruction{text: text} }

// NewInstructionFromProvider creates an Instruction from a dynamic provider.
func NewInstructionFromProvider(p Provider) Instruction { return Instruction{provider: p} }

// NewInstructionFromFunc creates an Instruction from a function.
func NewInstructionFromFunc(f func(ctx context.Context, window []core.Turn) (string, error)) Instruction {
	return Instruction{provider: Func(f)}
}

// IsStatic returns true if the instruction is backed by a static string.
func (i Instruction) IsStatic() bool { return i.provider == nil }

// Resolve returns the instruction text, invoking the provider if needed.
func (i Instruction) Resolve(ctx context.Context, window []core.Turn) (string, error) {
	if i.provider != nil {
		return i.provider.Instruction(ctx, window)
	}
	return i.text, nil
}
