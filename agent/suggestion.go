package agent

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/flow"
	internalutil "github.com/hupe1980/contractsmith/internal/util"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/model"
	"github.com/hupe1980/contractsmith/progress"
	"github.com/hupe1980/contractsmith/ui"
)

// Suggestions are follow-up prompts offered after a successful generation.
type Suggestions struct {
	Items []string `json:"items" description:"short follow-up requests"`
}

// SuggesterOptions configures a Suggester.
type SuggesterOptions struct {
	Instruction Instruction
	Vars        map[string]any
	MaxItems    int
	Logger      logging.Logger
}

// Suggester is the follow-up suggestion agent.
type Suggester struct {
	caller
	schema   map[string]any
	maxItems int
}

// NewSuggester creates a Suggester backed by m.
func NewSuggester(m model.Model, optFns ...func(o *SuggesterOptions)) *Suggester {
	opts := SuggesterOptions{
		Instruction: NewInstructionFromText(defaultSuggestionInstruction),
		MaxItems:    3,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Suggester{
		caller:   newCaller("suggester", m, opts.Instruction, opts.Vars, opts.Logger),
		schema:   internalutil.CreateSchema(Suggestions{}),
		maxItems: opts.MaxItems,
	}
}

// Suggest streams suggestions into a newly appended section. If the call
// fails or yields nothing the section is cleared again.
func (s *Suggester) Suggest(ctx context.Context, window []core.Turn, log *progress.Log) (Suggestions, error) {
	var (
		appended bool
		shown    []string
		logErr   error
	)

	show := func(items []string) {
		if logErr != nil || len(items) == 0 || slices.Equal(items, shown) {
			return
		}
		shown = items
		if !appended {
			appended = true
			logErr = log.AppendSection(ui.Suggestions(items))
			return
		}
		logErr = log.UpdateSection(ui.Suggestions(items))
	}

	c := collector{
		onUpdate: func(text string) {
			show(s.limit(stringsAt(preview(text, "items"))))
		},
	}

	err := s.run(ctx, window, flow.Call{Schema: s.schema, SchemaName: "suggestions", Stream: true}, c.handler())
	if err == nil && c.err != nil {
		err = fmt.Errorf("suggester: %w", c.err)
	}
	if err == nil {
		err = logErr
	}

	var out Suggestions
	if err == nil {
		out = Suggestions{Items: s.limit(parseItems(c.text(), c.data))}
		show(out.Items)
		err = logErr
	}

	if err != nil || len(out.Items) == 0 {
		if appended && logErr == nil {
			if clearErr := log.UpdateSection(ui.Empty()); clearErr != nil {
				return Suggestions{}, clearErr
			}
		}
		return Suggestions{}, err
	}

	return out, nil
}

func (s *Suggester) limit(items []string) []string {
	if s.maxItems > 0 && len(items) > s.maxItems {
		return items[:s.maxItems]
	}
	return items
}

func parseItems(text string, data map[string]any) []string {
	if raw, ok := data["items"].([]any); ok {
		var items []string
		for _, it := range raw {
			if str, ok := it.(string); ok && strings.TrimSpace(str) != "" {
				items = append(items, strings.TrimSpace(str))
			}
		}
		return items
	}

	if obj := extractObject(text); obj != "" {
		return stringsAt(gjson.Get(obj, "items"))
	}

	// One suggestion per line for models that ignore the schema.
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*0123456789.)"))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
