package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
)

func TestFlow_BuildRequest(t *testing.T) {
	f := New(model.NewMockModel("m"))

	req, err := f.BuildRequest(context.Background(), Call{
		Instructions: "Write {{.Language}} code.",
		Vars:         map[string]any{"Language": "Solidity"},
		Window: []core.Turn{
			core.NewTextTurn(core.RoleUser, "token"),
			{Role: core.RoleAssistant},
		},
		Schema:     map[string]any{"type": "object"},
		SchemaName: "decision",
		Stream:     true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Write Solidity code.", req.Instructions)
	require.Len(t, req.Contents, 1)
	assert.Equal(t, "token", req.Contents[0].Text())
	assert.Equal(t, "decision", req.SchemaName)
	assert.True(t, req.Stream)
}

func TestFlow_BuildRequestTemplateError(t *testing.T) {
	f := New(model.NewMockModel("m"))

	_, err := f.BuildRequest(context.Background(), Call{Instructions: "{{.Broken"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instructions")
}

func TestFlow_RunForwardsEventsInOrder(t *testing.T) {
	boom := errors.New("boom")
	m := model.NewMockModel("m", model.Script{Steps: []model.Step{{Text: "a"}, {Err: boom}, {Text: "b"}}})

	var seen []string
	err := New(m).Run(context.Background(), Call{}, HandlerFuncs{
		Response: func(r model.Response) {
			if r.Partial {
				seen = append(seen, r.Content.Text())
			}
		},
		Error: func(err error) { seen = append(seen, "error:"+err.Error()) },
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "error:boom", "b"}, seen)
}

func TestFlow_RunStopsOnCancel(t *testing.T) {
	m := model.NewMockModel("m", model.Script{Block: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(m).Run(ctx, Call{}, HandlerFuncs{})
	assert.ErrorIs(t, err, context.Canceled)
}
