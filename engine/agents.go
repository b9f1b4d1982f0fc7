package engine

import (
	"context"

	"github.com/hupe1980/contractsmith/agent"
	"github.com/hupe1980/contractsmith/conversation"
	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/model"
	"github.com/hupe1980/contractsmith/progress"
)

// Decider classifies the window into proceed or inquire. It must not fail.
type Decider interface {
	Decide(ctx context.Context, window []core.Turn) agent.Decision
}

// Inquirer streams one clarifying question into the progress log.
type Inquirer interface {
	Inquire(ctx context.Context, window []core.Turn, log *progress.Log) (agent.Inquiry, error)
}

// Writer runs one generation attempt and records its turns.
type Writer interface {
	Write(ctx context.Context, transcript conversation.Transcript, log *progress.Log) (agent.AttemptResult, error)
}

// Suggester streams follow-up suggestions into the progress log.
type Suggester interface {
	Suggest(ctx context.Context, window []core.Turn, log *progress.Log) (agent.Suggestions, error)
}

// Agents are the collaborators driven by an exchange.
type Agents struct {
	Decider   Decider
	Inquirer  Inquirer
	Writer    Writer
	Suggester Suggester
}

func (a Agents) validate() error {
	if a.Decider == nil || a.Inquirer == nil || a.Writer == nil || a.Suggester == nil {
		return ErrMissingAgent
	}
	return nil
}

// DefaultAgents builds the four agents with their default instructions, all
// backed by the same model.
func DefaultAgents(m model.Model, logger logging.Logger) Agents {
	return Agents{
		Decider:   agent.NewDecider(m, func(o *agent.DeciderOptions) { o.Logger = logger }),
		Inquirer:  agent.NewInquirer(m, func(o *agent.InquirerOptions) { o.Logger = logger }),
		Writer:    agent.NewWriter(m, func(o *agent.WriterOptions) { o.Logger = logger }),
		Suggester: agent.NewSuggester(m, func(o *agent.SuggesterOptions) { o.Logger = logger }),
	}
}
