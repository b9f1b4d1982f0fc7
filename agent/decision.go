package agent

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/flow"
	internalutil "github.com/hupe1980/contractsmith/internal/util"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/model"
)

// Next is the routing outcome of a Decision.
type Next string

const (
	NextProceed Next = "proceed"
	NextInquire Next = "inquire"
)

// Decision routes an exchange to generation or to a clarifying question.
type Decision struct {
	Next Next `json:"next" enum:"proceed,inquire" description:"proceed to write the contract or inquire for missing details"`
}

// Proceed is the fail-open decision.
var Proceed = Decision{Next: NextProceed}

// DeciderOptions configures a Decider.
type DeciderOptions struct {
	Instruction Instruction
	Vars        map[string]any
	Logger      logging.Logger
}

// Decider is the classification agent.
type Decider struct {
	caller
	schema map[string]any
}

// NewDecider creates a Decider backed by m.
func NewDecider(m model.Model, optFns ...func(o *DeciderOptions)) *Decider {
	opts := DeciderOptions{
		Instruction: NewInstructionFromText(defaultDecisionInstruction),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Decider{
		caller: newCaller("decider", m, opts.Instruction, opts.Vars, opts.Logger),
		schema: internalutil.CreateSchema(Decision{}),
	}
}

// Decide issues one classification call. It never fails: a model error, a
// missing structured result or an unknown value all yield Proceed.
func (d *Decider) Decide(ctx context.Context, window []core.Turn) Decision {
	var c collector

	err := d.run(ctx, window, flow.Call{Schema: d.schema, SchemaName: "decision"}, c.handler())
	if err == nil {
		err = c.err
	}
	if err != nil {
		d.logger.Warn("agent.decision.failed", "error", err)
		return Proceed
	}

	next, ok := parseNext(c.text(), c.data)
	if !ok {
		d.logger.Warn("agent.decision.unstructured", "text", c.text())
		return Proceed
	}

	return Decision{Next: next}
}

func parseNext(text string, data map[string]any) (Next, bool) {
	var raw string

	if v, ok := data["next"].(string); ok {
		raw = v
	} else if obj := extractObject(text); obj != "" {
		raw = gjson.Get(obj, "next").String()
	} else {
		raw = strings.Trim(strings.TrimSpace(text), `"'.`)
	}

	switch Next(strings.ToLower(strings.TrimSpace(raw))) {
	case NextProceed:
		return NextProceed, true
	case NextInquire:
		return NextInquire, true
	}

	return "", false
}
