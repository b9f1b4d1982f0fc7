package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
)

func TestDecider_Decide(t *testing.T) {
	tests := []struct {
		name   string
		script model.Script
		want   Next
	}{
		{name: "json inquire", script: model.Reply(`{"next":"inquire"}`), want: NextInquire},
		{name: "json proceed", script: model.Reply(`{"next":"proceed"}`), want: NextProceed},
		{name: "fenced json", script: model.Reply("```json\n{\"next\": \"Inquire\"}\n```"), want: NextInquire},
		{name: "structured data", script: model.Script{Data: map[string]any{"next": "inquire"}}, want: NextInquire},
		{name: "plain word", script: model.Reply("inquire."), want: NextInquire},
		{name: "unknown value", script: model.Reply(`{"next":"maybe"}`), want: NextProceed},
		{name: "no result", script: model.Script{}, want: NextProceed},
		{name: "model error", script: model.Script{Steps: []model.Step{{Err: errors.New("rate limited")}}}, want: NextProceed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := model.NewMockModel("classifier", tt.script)
			d := NewDecider(m)

			got := d.Decide(context.Background(), []core.Turn{core.NewTextTurn(core.RoleUser, `{"input":"Write an ERC20 token"}`)})

			assert.Equal(t, tt.want, got.Next)
			assert.Equal(t, 1, m.Calls())
		})
	}
}

func TestDecider_RequestCarriesSchemaAndWindow(t *testing.T) {
	m := model.NewMockModel("classifier", model.Reply(`{"next":"proceed"}`))
	d := NewDecider(m, func(o *DeciderOptions) {
		o.Instruction = NewInstructionFromText("Classify {{.Language}} requests.")
		o.Vars = map[string]any{"Language": "Vyper"}
	})

	window := []core.Turn{
		core.NewTextTurn(core.RoleUser, "a"),
		core.NewTextTurn(core.RoleAssistant, "b"),
	}
	d.Decide(context.Background(), window)

	require.Len(t, m.Requests(), 1)
	req := m.Requests()[0]
	assert.Equal(t, "Classify Vyper requests.", req.Instructions)
	assert.Equal(t, "decision", req.SchemaName)
	assert.NotNil(t, req.ResponseSchema)
	assert.Len(t, req.Contents, 2)
	assert.False(t, req.Stream)
}

func TestDecider_InstructionErrorFailsOpen(t *testing.T) {
	m := model.NewMockModel("classifier", model.Reply(`{"next":"inquire"}`))
	d := NewDecider(m, func(o *DeciderOptions) {
		o.Instruction = NewInstructionFromFunc(func(context.Context, []core.Turn) (string, error) {
			return "", errors.New("no prompt")
		})
	})

	assert.Equal(t, Proceed, d.Decide(context.Background(), nil))
	assert.Zero(t, m.Calls())
}
