package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/core"
	"github.com/hupe1980/contractsmith/model"
	"github.com/hupe1980/contractsmith/ui"
)

func TestInquirer_StreamsStructuredQuestion(t *testing.T) {
	f := newFixture()
	m := model.NewMockModel("inquirer", model.Fragments(
		`{"question":"What should`,
		` the token symbol be?","options":[{"value":"TKN","label":"TKN"},`,
		`{"value":"custom","label":"Custom"}],"allowsInput":true}`,
	))

	inq, err := NewInquirer(m).Inquire(context.Background(), nil, f.log)
	require.NoError(t, err)

	assert.Equal(t, "What should the token symbol be?", inq.Question)
	assert.Equal(t, []string{"TKN", "Custom"}, inq.Labels())
	assert.True(t, inq.AllowsInput)

	assert.Equal(t, []ui.Section{ui.Inquiry("What should the token symbol be?", []string{"TKN", "Custom"}, true)}, f.node.Snapshot())

	// Partial question was visible before completion.
	var partials []string
	for _, v := range f.node.Versions() {
		if len(v) == 1 && v[0].Kind == ui.KindInquiry {
			partials = append(partials, v[0].Text)
		}
	}
	assert.Contains(t, partials, "What should")
	assert.Empty(t, f.code.Versions()[1:], "inquiry never touches the code value")
}

func TestInquirer_PlainTextQuestion(t *testing.T) {
	f := newFixture()
	m := model.NewMockModel("inquirer", model.Fragments("What should ", "the token symbol be?"))

	inq, err := NewInquirer(m).Inquire(context.Background(), nil, f.log)
	require.NoError(t, err)

	assert.Equal(t, "What should the token symbol be?", inq.Question)
	assert.True(t, inq.AllowsInput)
	assert.Equal(t, ui.KindInquiry, f.node.Snapshot()[0].Kind)
}

func TestInquirer_Failures(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		f := newFixture()
		_, err := NewInquirer(model.NewMockModel("inquirer")).Inquire(context.Background(), nil, f.log)
		assert.ErrorIs(t, err, ErrEmptyInquiry)
	})

	t.Run("model error", func(t *testing.T) {
		f := newFixture()
		boom := errors.New("boom")
		m := model.NewMockModel("inquirer", model.Script{Steps: []model.Step{{Err: boom}}})

		_, err := NewInquirer(m).Inquire(context.Background(), []core.Turn{core.NewTextTurn(core.RoleUser, "x")}, f.log)
		assert.ErrorIs(t, err, boom)
	})
}

func TestParseInquiry_StructuredData(t *testing.T) {
	inq := parseInquiry("", map[string]any{
		"question":    "Mintable?",
		"allowsInput": false,
		"options":     []any{map[string]any{"value": "yes", "label": "Yes"}},
	})

	assert.Equal(t, "Mintable?", inq.Question)
	assert.Equal(t, []Option{{Value: "yes", Label: "Yes"}}, inq.Options)
}
