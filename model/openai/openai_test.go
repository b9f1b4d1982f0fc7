package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
)

func TestBuildMessages(t *testing.T) {
	req := model.Request{
		Instructions: "write solidity",
		Contents: []core.Content{
			{Role: core.RoleUser, Parts: []core.Part{core.TextPart{Text: "token"}}},
			{Role: core.RoleAssistant, Parts: []core.Part{
				core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c1", Name: "lint", Arguments: "{}"}},
			}},
			{Role: core.RoleTool, Parts: []core.Part{
				core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "c1", Name: "lint", Response: "clean"}},
			}},
			{Role: core.RoleAssistant, Parts: []core.Part{core.TextPart{Text: "done"}}},
		},
	}

	msgs := buildMessages(req)
	require.Len(t, msgs, 5)

	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	require.NotNil(t, msgs[2].OfAssistant)
	assert.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "c1", msgs[3].OfTool.ToolCallID)
	assert.NotNil(t, msgs[4].OfAssistant)
}

func TestBuildParams_ResponseSchema(t *testing.T) {
	m := NewModelFromClient(nil, func(o *Options) { o.Model = "gpt-test" })

	params := m.buildParams(model.Request{
		ResponseSchema: map[string]any{"type": "object"},
		SchemaName:     "decision",
	})

	require.NotNil(t, params.ResponseFormat.OfJSONSchema)
	assert.Equal(t, "decision", params.ResponseFormat.OfJSONSchema.JSONSchema.Name)
	assert.Equal(t, "gpt-test", m.Info().Name)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "ok", responseText(core.FunctionResponse{Response: "ok"}))
	assert.Equal(t, "error: failed", responseText(core.FunctionResponse{Error: "failed"}))
	assert.Equal(t, "42", responseText(core.FunctionResponse{Response: 42}))
}
