package agent

import (
	"context"
	"errors"
	"fmt"
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

// ErrEmptyInquiry is returned when the model produced no question.
var ErrEmptyInquiry = errors.New("inquiry: model returned no question")

// Option is one selectable answer of an Inquiry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Inquiry is a single clarifying question.
type Inquiry struct {
	Question         string   `json:"question" description:"one short clarifying question"`
	Options          []Option `json:"options,omitempty" description:"up to four selectable answers"`
	AllowsInput      bool     `json:"allowsInput,omitempty" description:"whether a free-form answer is accepted"`
	InputLabel       string   `json:"inputLabel,omitempty"`
	InputPlaceholder string   `json:"inputPlaceholder,omitempty"`
}

// Labels returns the option labels, falling back to values.
func (i Inquiry) Labels() []string {
	labels := make([]string, 0, len(i.Options))
	for _, o := range i.Options {
		if o.Label != "" {
			labels = append(labels, o.Label)
		} else {
			labels = append(labels, o.Value)
		}
	}
	return labels
}

// Section renders the inquiry.
func (i Inquiry) Section() ui.Section {
	return ui.Inquiry(i.Question, i.Labels(), i.AllowsInput)
}

// InquirerOptions configures an Inquirer.
type InquirerOptions struct {
	Instruction Instruction
	Vars        map[string]any
	Logger      logging.Logger
}

// Inquirer is the clarifying-question agent.
type Inquirer struct {
	caller
	schema map[string]any
}

// NewInquirer creates an Inquirer backed by m.
func NewInquirer(m model.Model, optFns ...func(o *InquirerOptions)) *Inquirer {
	opts := InquirerOptions{
		Instruction: NewInstructionFromText(defaultInquiryInstruction),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Inquirer{
		caller: newCaller("inquirer", m, opts.Instruction, opts.Vars, opts.Logger),
		schema: internalutil.CreateSchema(Inquiry{}),
	}
}

// Inquire streams one question into the log's current section and returns
// it once the model completes.
func (q *Inquirer) Inquire(ctx context.Context, window []core.Turn, log *progress.Log) (Inquiry, error) {
	var (
		shown  string
		logErr error
	)

	c := collector{
		onUpdate: func(text string) {
			question := previewQuestion(text)
			if question == "" || question == shown || logErr != nil {
				return
			}
			shown = question
			logErr = log.UpdateSection(ui.Inquiry(question, nil, false))
		},
	}

	err := q.run(ctx, window, flow.Call{Schema: q.schema, SchemaName: "inquiry", Stream: true}, c.handler())
	if err != nil {
		return Inquiry{}, err
	}
	if c.err != nil {
		return Inquiry{}, fmt.Errorf("inquirer: %w", c.err)
	}
	if logErr != nil {
		return Inquiry{}, logErr
	}

	inq := parseInquiry(c.text(), c.data)
	if inq.Question == "" {
		return Inquiry{}, ErrEmptyInquiry
	}

	if err := log.UpdateSection(inq.Section()); err != nil {
		return Inquiry{}, err
	}

	return inq, nil
}

// previewQuestion extracts the question from a partial response. Plain text
// responses are shown as they arrive.
func previewQuestion(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "{") || strings.HasPrefix(t, "```") {
		return strings.TrimSpace(preview(t, "question").String())
	}
	return t
}

// parseInquiry reads the structured result, falling back to treating plain
// text as the question itself.
func parseInquiry(text string, data map[string]any) Inquiry {
	if q, ok := data["question"].(string); ok {
		inq := Inquiry{Question: strings.TrimSpace(q)}
		inq.AllowsInput, _ = data["allowsInput"].(bool)
		if opts, ok := data["options"].([]any); ok {
			for _, o := range opts {
				m, _ := o.(map[string]any)
				value, _ := m["value"].(string)
				label, _ := m["label"].(string)
				inq.Options = append(inq.Options, Option{Value: value, Label: label})
			}
		}
		return inq
	}

	obj := extractObject(text)
	if obj == "" {
		return Inquiry{Question: strings.TrimSpace(text), AllowsInput: true}
	}

	res := gjson.Parse(obj)
	inq := Inquiry{
		Question:         strings.TrimSpace(res.Get("question").String()),
		AllowsInput:      res.Get("allowsInput").Bool(),
		InputLabel:       res.Get("inputLabel").String(),
		InputPlaceholder: res.Get("inputPlaceholder").String(),
	}

	for _, o := range res.Get("options").Array() {
		if o.Type == gjson.String {
			inq.Options = append(inq.Options, Option{Value: o.String(), Label: o.String()})
			continue
		}
		inq.Options = append(inq.Options, Option{
			Value: o.Get("value").String(),
			Label: o.Get("label").String(),
		})
	}

	return inq
}
