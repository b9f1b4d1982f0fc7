// Package gemini adapts Google's Gemini API (google.golang.org/genai) to
// model.Model.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
)

// Options configures the Gemini model adapter.
type Options struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	APIKey          string
}

// Model wraps the genai Models service.
type Model struct {
	client *genai.Client
	opts   Options
}

func defaultOptions() Options {
	return Options{
		Model:           "gemini-2.5-flash",
		Temperature:     0.7,
		MaxOutputTokens: 4096,
	}
}

// NewModel creates a Gemini API client. Without an APIKey the SDK falls back
// to GEMINI_API_KEY / GOOGLE_API_KEY.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient wraps an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
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

		contents := buildContents(req.Contents)
		config := m.buildConfig(req)

		if !req.Stream {
			resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
			if err != nil {
				errCh <- fmt.Errorf("gemini api error: %w", err)
				return
			}
			send(ctx, out, final(resp.Text(), resp.FunctionCalls(), resp))
			return
		}

		var (
			text  strings.Builder
			calls []*genai.FunctionCall
			last  *genai.GenerateContentResponse
		)

		for resp, err := range m.client.Models.GenerateContentStream(ctx, m.opts.Model, contents, config) {
			if err != nil {
				errCh <- fmt.Errorf("gemini streaming error: %w", err)
				return
			}

			last = resp
			calls = append(calls, resp.FunctionCalls()...)

			if chunk := resp.Text(); chunk != "" {
				text.WriteString(chunk)
				if !send(ctx, out, model.Response{
					ID:      resp.ResponseID,
					Partial: true,
					Content: core.Content{Role: core.RoleAssistant, Parts: []core.Part{core.TextPart{Text: chunk}}},
				}) {
					return
				}
			}
		}

		send(ctx, out, final(text.String(), calls, last))
	}()

	return out, errCh
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "gemini",
		SupportsTools: true,
	}
}

func (m *Model) buildConfig(req model.Request) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(m.opts.Temperature),
		MaxOutputTokens: m.opts.MaxOutputTokens,
	}

	var system []string
	if req.Instructions != "" {
		system = append(system, req.Instructions)
	}
	for _, c := range req.Contents {
		if c.Role == core.RoleSystem {
			system = append(system, c.Text())
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}

	if req.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = req.ResponseSchema
	}

	if len(req.Tools) > 0 {
		decls := make([]*genai.FunctionDeclaration, len(req.Tools))
		for i, def := range req.Tools {
			decls[i] = &genai.FunctionDeclaration{
				Name:                 def.Function.Name,
				Description:          def.Function.Description,
				ParametersJsonSchema: def.Function.Parameters,
			}
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	return config
}

// buildContents maps turns onto Gemini contents. The API knows only the
// user and model roles; tool outcomes travel as function responses from the
// user side.
func buildContents(contents []core.Content) []*genai.Content {
	out := make([]*genai.Content, 0, len(contents))

	for _, c := range contents {
		var (
			role  genai.Role = genai.RoleUser
			parts []*genai.Part
		)

		switch c.Role {
		case core.RoleSystem:
			continue
		case core.RoleAssistant:
			role = genai.RoleModel
		}

		for _, p := range c.Parts {
			switch part := p.(type) {
			case core.TextPart:
				if part.Text != "" {
					parts = append(parts, genai.NewPartFromText(part.Text))
				}
			case core.FunctionCallPart:
				args := map[string]any{}
				if part.FunctionCall.Arguments != "" {
					_ = json.Unmarshal([]byte(part.FunctionCall.Arguments), &args)
				}
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   part.FunctionCall.ID,
					Name: part.FunctionCall.Name,
					Args: args,
				}})
			case core.FunctionResponsePart:
				fr := part.FunctionResponse
				resp := map[string]any{"output": fr.Response}
				if fr.Error != "" {
					resp = map[string]any{"error": fr.Error}
				}
				parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
					ID:       fr.ID,
					Name:     fr.Name,
					Response: resp,
				}})
			}
		}

		if len(parts) > 0 {
			out = append(out, genai.NewContentFromParts(parts, role))
		}
	}

	return out
}

func final(text string, calls []*genai.FunctionCall, resp *genai.GenerateContentResponse) model.Response {
	parts := make([]core.Part, 0, len(calls)+1)
	if text != "" {
		parts = append(parts, core.TextPart{Text: text})
	}

	for _, fc := range calls {
		args, _ := json.Marshal(fc.Args)
		parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
			ID:        fc.ID,
			Name:      fc.Name,
			Arguments: string(args),
		}})
	}

	r := model.Response{
		Content:      core.Content{Role: core.RoleAssistant, Parts: parts},
		FinishReason: "stop",
	}

	if resp == nil {
		return r
	}

	r.ID = resp.ResponseID
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
		r.FinishReason = strings.ToLower(string(resp.Candidates[0].FinishReason))
	}
	if u := resp.UsageMetadata; u != nil {
		r.Usage = &model.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}

	return r
}

func send(ctx context.Context, out chan<- model.Response, r model.Response) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- r:
		return true
	}
}
