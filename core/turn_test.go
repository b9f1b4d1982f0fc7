package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurn_Constructors(t *testing.T) {
	user := NewTextTurn(RoleUser, "hi")
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, RoleUser, user.Role)
	assert.Equal(t, "hi", user.Text())

	calls := []FunctionCall{{ID: "c1", Name: "lookup", Arguments: `{"q":1}`}}
	asst := NewAssistantTurn("", calls)
	assert.Len(t, asst.Parts, 1, "empty text must be omitted")
	assert.Equal(t, calls, asst.FunctionCalls())

	tool := NewToolTurn([]FunctionResponse{{ID: "c1", Name: "lookup", Response: "ok"}})
	assert.Equal(t, RoleTool, tool.Role)
	require.Len(t, tool.FunctionResponses(), 1)
	assert.Equal(t, "ok", tool.FunctionResponses()[0].Response)
}

func TestTurn_TextJoinsPartsInOrder(t *testing.T) {
	turn := Turn{Role: RoleAssistant, Parts: []Part{
		TextPart{Text: "pragma "},
		FunctionCallPart{FunctionCall: FunctionCall{Name: "x"}},
		TextPart{Text: "solidity"},
	}}
	assert.Equal(t, "pragma solidity", turn.Text())
}

func TestTurn_JSONRoundTripKeepsParts(t *testing.T) {
	orig := NewAssistantTurn("contract A {}", []FunctionCall{{ID: "c1", Name: "compile"}})
	orig.Name = "writer"

	b, err := json.Marshal(orig)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"content":"contract A {}"`)

	var back Turn
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, orig.ID, back.ID)
	assert.Equal(t, "writer", back.Name)
	assert.Equal(t, orig.Text(), back.Text())
	assert.Equal(t, orig.FunctionCalls(), back.FunctionCalls())
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleFunction.Valid())
	assert.False(t, Role("narrator").Valid())
}
