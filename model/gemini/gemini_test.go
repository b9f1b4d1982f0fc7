package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
)

func TestBuildContents(t *testing.T) {
	contents := buildContents([]core.Content{
		{Role: core.RoleSystem, Parts: []core.Part{core.TextPart{Text: "sys"}}},
		{Role: core.RoleUser, Parts: []core.Part{core.TextPart{Text: "hello"}}},
		{Role: core.RoleAssistant, Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{Name: "lint", Arguments: `{"strict":true}`}},
		}},
		{Role: core.RoleTool, Parts: []core.Part{
			core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{Name: "lint", Response: "ok"}},
		}},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)
	require.NotNil(t, contents[1].Parts[0].FunctionCall)
	assert.Equal(t, true, contents[1].Parts[0].FunctionCall.Args["strict"])
	require.NotNil(t, contents[2].Parts[0].FunctionResponse)
	assert.Equal(t, "ok", contents[2].Parts[0].FunctionResponse.Response["output"])
}

func TestBuildConfig(t *testing.T) {
	m := NewModelFromClient(nil)

	config := m.buildConfig(model.Request{
		Instructions:   "classify",
		ResponseSchema: map[string]any{"type": "object"},
	})

	require.NotNil(t, config.SystemInstruction)
	assert.Equal(t, "application/json", config.ResponseMIMEType)
	assert.NotNil(t, config.ResponseJsonSchema)
	assert.Equal(t, "gemini", m.Info().Provider)
}

func TestFinal(t *testing.T) {
	r := final("contract", []*genai.FunctionCall{{Name: "lint", Args: map[string]any{"a": 1}}}, nil)

	assert.Equal(t, "contract", r.Content.Text())
	require.Len(t, r.Content.FunctionCalls(), 1)
	assert.JSONEq(t, `{"a":1}`, r.Content.FunctionCalls()[0].Arguments)
	assert.Equal(t, "stop", r.FinishReason)
}
