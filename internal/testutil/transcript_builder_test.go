package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/core"
)

func TestTranscriptBuilder(t *testing.T) {
	turns := NewTranscriptBuilder().
		Form("input", "Write an ERC20 token").
		ToolCall("c1", "lookup", `{"q":"erc20"}`).
		ToolResult("c1", "lookup", "ok").
		Assistant("pragma solidity ^0.8.0;").
		Build()

	require.Len(t, turns, 4)
	assert.Equal(t, `user: {"input":"Write an ERC20 token"}`, Texts(turns)[0])
	assert.Equal(t, "lookup", turns[1].FunctionCalls()[0].Name)
	assert.Equal(t, core.RoleTool, turns[2].Role)
	assert.Equal(t, "assistant: pragma solidity ^0.8.0;", Texts(turns)[3])
}

func TestTranscriptBuilder_Exchanges(t *testing.T) {
	turns := NewTranscriptBuilder().Exchanges(2).Build()

	assert.Equal(t, []string{
		"user: request 1",
		"assistant: answer 1",
		"user: request 2",
		"assistant: answer 2",
	}, Texts(turns))
}
