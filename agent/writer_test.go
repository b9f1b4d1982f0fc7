package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/conversation"
	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
	"github.com/hupe1980/contractsmith/ui"
)

func newTranscript() *conversation.State {
	return conversation.New([]core.Turn{core.NewTextTurn(core.RoleUser, `{"input":"Write an ERC20 token"}`)})
}

func TestWriter_ConcatenatesFragments(t *testing.T) {
	f := newFixture()
	tr := newTranscript()
	m := model.NewMockModel("writer", model.Fragments("pragma ", "solidity ^0.8.0;"))

	res, err := NewWriter(m).Write(context.Background(), tr, f.log)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Attempt)
	assert.Equal(t, "pragma solidity ^0.8.0;", res.Text)
	assert.False(t, res.ErrorOccurred)
	assert.Equal(t, []string{"", "pragma ", "pragma solidity ^0.8.0;"}, f.code.Versions())
	assert.Equal(t, []ui.Section{ui.Code("contract"), ui.Empty()}, f.node.Snapshot())

	last, _ := tr.Last()
	assert.Equal(t, core.RoleAssistant, last.Role)
	assert.Equal(t, "pragma solidity ^0.8.0;", last.Text())
	assert.True(t, m.Requests()[0].Stream)
}

func TestWriter_ErrorNoticeKeepsConsuming(t *testing.T) {
	f := newFixture()
	tr := newTranscript()
	m := model.NewMockModel("writer", model.Script{Steps: []model.Step{
		{Text: "contract A {"},
		{Err: errors.New("overloaded")},
		{Text: "}"},
	}})

	res, err := NewWriter(m, func(o *WriterOptions) { o.ErrorNotice = " [error] " }).Write(context.Background(), tr, f.log)
	require.NoError(t, err)

	assert.True(t, res.ErrorOccurred)
	assert.Equal(t, "contract A { [error] }", res.Text)
	assert.Equal(t, 2, tr.Len())
}

func TestWriter_ErrorOnlyStillProducesText(t *testing.T) {
	f := newFixture()
	m := model.NewMockModel("writer", model.Script{Steps: []model.Step{{Err: errors.New("down")}}})

	res, err := NewWriter(m).Write(context.Background(), newTranscript(), f.log)
	require.NoError(t, err)

	assert.True(t, res.ErrorOccurred)
	assert.Equal(t, DefaultErrorNotice, res.Text)
	assert.False(t, res.Empty())
	assert.Equal(t, DefaultErrorNotice, f.code.Current())
	assert.Equal(t, []ui.Section{ui.Empty()}, f.node.Snapshot(), "a notice alone never opens the code section")
}

func TestWriter_EmptyAttemptIsNotRecorded(t *testing.T) {
	f := newFixture()
	tr := newTranscript()

	res, err := NewWriter(model.NewMockModel("writer")).Write(context.Background(), tr, f.log)
	require.NoError(t, err)

	assert.True(t, res.Empty())
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, []ui.Section{ui.Empty()}, f.node.Snapshot())
	assert.Len(t, f.code.Versions(), 1)
}

func TestWriter_RecordsToolTurns(t *testing.T) {
	f := newFixture()
	tr := newTranscript()
	call := core.FunctionCall{ID: "c1", Name: "compile", Arguments: `{"src":"A.sol"}`}
	result := core.FunctionResponse{ID: "c1", Name: "compile", Response: "ok"}
	m := model.NewMockModel("writer", model.Script{Steps: []model.Step{
		{Text: "contract A {}"},
		{Call: &call},
		{Result: &result},
	}})

	res, err := NewWriter(m).Write(context.Background(), tr, f.log)
	require.NoError(t, err)

	assert.Equal(t, []core.FunctionCall{call}, res.ToolCalls)
	assert.Equal(t, []core.FunctionResponse{result}, res.ToolResults)

	turns := tr.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, []core.FunctionCall{call}, turns[1].FunctionCalls())
	assert.Equal(t, core.RoleTool, turns[2].Role)
	assert.Equal(t, []core.FunctionResponse{result}, turns[2].FunctionResponses())
}

func TestWriter_NonStreamingProvider(t *testing.T) {
	f := newFixture()
	m := model.NewMockModel("writer", model.Reply("contract B {}"))

	res, err := NewWriter(m).Write(context.Background(), newTranscript(), f.log)
	require.NoError(t, err)

	assert.Equal(t, "contract B {}", res.Text)
	assert.Equal(t, "contract B {}", f.code.Current())
}

func TestWriter_Cancelled(t *testing.T) {
	f := newFixture()
	tr := newTranscript()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := model.NewMockModel("writer", model.Script{Block: true})

	_, err := NewWriter(m).Write(ctx, tr, f.log)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, tr.Len())
}

func TestWriter_UsesTranscriptWindow(t *testing.T) {
	f := newFixture()
	history := make([]core.Turn, 0, 14)
	for i := 0; i < 14; i++ {
		history = append(history, core.NewTextTurn(core.RoleUser, "x"))
	}
	tr := conversation.New(history, func(o *conversation.Options) { o.MaxTurns = 4 })
	m := model.NewMockModel("writer", model.Reply("ok"))

	_, err := NewWriter(m).Write(context.Background(), tr, f.log)
	require.NoError(t, err)

	assert.Len(t, m.Requests()[0].Contents, 4)
}
