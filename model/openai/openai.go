// Package openai adapts the OpenAI Chat Completions API to model.Model,
// including streaming, tool-call aggregation and JSON-schema structured
// output.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
)

// Options configure the OpenAI model adapter.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
	APIKey              string
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:               openai.ChatModelGPT4oMini,
		Temperature:         0.7,
		MaxCompletionTokens: 4096,
	}
}

// NewModel creates a new OpenAI model. Without an APIKey the client reads
// OPENAI_API_KEY from the environment.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := openai.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	out := make(chan model.Response, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		params := m.buildParams(req)

		if req.Stream {
			m.stream(ctx, params, out, errCh)
			return
		}

		m.complete(ctx, params, out, errCh)
	}()

	return out, errCh
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}

func (m *Model) buildParams(req model.Request) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	if req.ResponseSchema != nil {
		name := req.SchemaName
		if name == "" {
			name = "response"
		}
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   name,
					Schema: req.ResponseSchema,
				},
			},
		}
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.ChatCompletionToolParam, len(req.Tools))
		for i, def := range req.Tools {
			tools[i] = openai.ChatCompletionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        def.Function.Name,
					Description: openai.String(def.Function.Description),
					Parameters:  def.Function.Parameters,
				},
			}
		}
		params.Tools = tools
	}

	return params
}

// buildMessages converts the instructions and windowed contents into chat
// messages. Tool results are emitted right after the assistant message that
// requested them; orphans are flushed at the end.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	results, order := indexToolResults(req.Contents)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Contents)+1)
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}

	for _, c := range req.Contents {
		text := c.Text()

		switch c.Role {
		case core.RoleTool, core.RoleFunction:
			continue
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(text))
		case core.RoleAssistant:
			calls := c.FunctionCalls()
			if len(calls) == 0 {
				messages = append(messages, openai.AssistantMessage(text))
				continue
			}

			toolCalls := make([]openai.ChatCompletionMessageToolCallParam, len(calls))
			for i, fc := range calls {
				toolCalls[i] = openai.ChatCompletionMessageToolCallParam{
					ID: fc.ID,
					Function: openai.ChatCompletionMessageToolCallFunctionParam{
						Name:      fc.Name,
						Arguments: fc.Arguments,
					},
				}
			}

			assistant := &openai.ChatCompletionAssistantMessageParam{ToolCalls: toolCalls}
			if text != "" {
				assistant.Content.OfString = openai.String(text)
			}
			messages = append(messages, openai.ChatCompletionMessageParamUnion{OfAssistant: assistant})

			for _, fc := range calls {
				if res, ok := results[fc.ID]; ok {
					messages = append(messages, openai.ToolMessage(res, fc.ID))
					delete(results, fc.ID)
				}
			}
		default:
			if text != "" {
				messages = append(messages, openai.UserMessage(text))
			}
		}
	}

	for _, id := range order {
		if res, ok := results[id]; ok {
			messages = append(messages, openai.ToolMessage(res, id))
		}
	}

	return messages
}

func indexToolResults(contents []core.Content) (map[string]string, []string) {
	results := map[string]string{}
	var order []string

	for _, c := range contents {
		for _, fr := range c.FunctionResponses() {
			if fr.ID == "" {
				continue
			}
			if _, seen := results[fr.ID]; seen {
				continue
			}
			results[fr.ID] = responseText(fr)
			order = append(order, fr.ID)
		}
	}

	return results, order
}

func responseText(fr core.FunctionResponse) string {
	if fr.Error != "" {
		return "error: " + fr.Error
	}
	if s, ok := fr.Response.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", fr.Response)
}

// pendingCall aggregates streamed tool call deltas.
type pendingCall struct{ id, name, args string }

func (m *Model) stream(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	s := m.client.Chat.Completions.NewStreaming(ctx, params)
	defer s.Close()

	var (
		text    strings.Builder
		pending = map[int64]*pendingCall{}
		indices []int64
	)

	for s.Next() {
		chunk := s.Current()
		for _, choice := range chunk.Choices {
			if d := choice.Delta.Content; d != "" {
				text.WriteString(d)
				if !send(ctx, out, model.Response{
					ID:      chunk.ID,
					Partial: true,
					Content: core.Content{Role: core.RoleAssistant, Parts: []core.Part{core.TextPart{Text: d}}},
				}) {
					return
				}
			}

			for _, tc := range choice.Delta.ToolCalls {
				pc, ok := pending[tc.Index]
				if !ok {
					pc = &pendingCall{}
					pending[tc.Index] = pc
					indices = append(indices, tc.Index)
				}
				if tc.ID != "" {
					pc.id = tc.ID
				}
				if tc.Function.Name != "" {
					pc.name = tc.Function.Name
				}
				pc.args += tc.Function.Arguments
			}

			if choice.FinishReason == "" {
				continue
			}

			parts := make([]core.Part, 0, len(indices)+1)
			if text.Len() > 0 {
				parts = append(parts, core.TextPart{Text: text.String()})
			}
			for _, idx := range indices {
				pc := pending[idx]
				parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
					ID:        pc.id,
					Name:      pc.name,
					Arguments: pc.args,
				}})
			}

			if !send(ctx, out, model.Response{
				ID:           chunk.ID,
				Content:      core.Content{Role: core.RoleAssistant, Parts: parts},
				FinishReason: choice.FinishReason,
			}) {
				return
			}
		}
	}

	if err := s.Err(); err != nil {
		errCh <- fmt.Errorf("openai streaming error: %w", err)
	}
}

func (m *Model) complete(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	out chan<- model.Response,
	errCh chan<- error,
) {
	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		errCh <- fmt.Errorf("openai api error: %w", err)
		return
	}

	if len(resp.Choices) == 0 {
		errCh <- fmt.Errorf("openai: no choices returned")
		return
	}

	choice := resp.Choices[0]

	parts := make([]core.Part, 0, len(choice.Message.ToolCalls)+1)
	if choice.Message.Content != "" {
		parts = append(parts, core.TextPart{Text: choice.Message.Content})
	}
	for _, tc := range choice.Message.ToolCalls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		}})
	}

	var usage *model.TokenUsage
	if resp.Usage.TotalTokens > 0 {
		usage = &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		}
	}

	send(ctx, out, model.Response{
		ID:           resp.ID,
		Content:      core.Content{Role: core.RoleAssistant, Parts: parts},
		FinishReason: choice.FinishReason,
		Usage:        usage,
	})
}

func send(ctx context.Context, out chan<- model.Response, r model.Response) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- r:
		return true
	}
}
