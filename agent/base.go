package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/flow"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/model"
)

// caller holds what every agent needs to issue one model call.
type caller struct {
	name        string
	flow        *flow.Flow
	instruction Instruction
	vars        map[string]any
	logger      logging.Logger
}

func newCaller(name string, m model.Model, inst Instruction, vars map[string]any, logger logging.Logger) caller {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	merged := map[string]any{
		"Language": "Solidity",
		"Date":     time.Now().UTC().Format("2006-01-02"),
	}
	for k, v := range vars {
		merged[k] = v
	}

	return caller{
		name:        name,
		flow:        flow.New(m),
		instruction: inst,
		vars:        merged,
		logger:      logger,
	}
}

// run resolves the instruction and drives one model call through the flow.
func (c caller) run(ctx context.Context, window []core.Turn, call flow.Call, h flow.Handler) error {
	text, err := c.instruction.Resolve(ctx, window)
	if err != nil {
		return fmt.Errorf("%s: resolve instruction: %w", c.name, err)
	}

	call.Instructions = text
	call.Vars = c.vars
	call.Window = window

	start := time.Now()
	err = c.flow.Run(ctx, call, h)

	c.logger.Debug("agent.model.call",
		"agent", c.name,
		"model", c.flow.Model().Info().Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	return nil
}

// collector accumulates the text of one model call: streamed fragments when
// present, otherwise the final response text.
type collector struct {
	partial  []byte
	final    string
	data     map[string]any
	err      error
	onUpdate func(text string)
}

func (c *collector) handler() flow.Handler {
	return flow.HandlerFuncs{
		Response: func(r model.Response) {
			if r.Partial {
				if t := r.Content.Text(); t != "" {
					c.partial = append(c.partial, t...)
					if c.onUpdate != nil {
						c.onUpdate(string(c.partial))
					}
				}
				return
			}
			if t := r.Content.Text(); t != "" {
				c.final = t
			}
			if d := r.Content.Data(); d != nil {
				c.data = d
			}
		},
		Error: func(err error) {
			if c.err == nil {
				c.err = err
			}
		},
	}
}

// text returns the complete response text.
func (c *collector) text() string {
	if c.final != "" {
		return c.final
	}
	return string(c.partial)
}
