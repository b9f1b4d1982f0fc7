package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/model"
	"github.com/hupe1980/contractsmith/ui"
)

func TestSuggester_AppendsAfterExistingSections(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.log.UpdateSection(ui.Code("contract")))

	m := model.NewMockModel("suggester", model.Fragments(
		`{"items":["Add a mint function",`,
		`"Make it pausable","Write Foundry tests","Add permit"]}`,
	))

	got, err := NewSuggester(m).Suggest(context.Background(), nil, f.log)
	require.NoError(t, err)

	want := []string{"Add a mint function", "Make it pausable", "Write Foundry tests"}
	assert.Equal(t, want, got.Items)
	assert.Equal(t, []ui.Section{ui.Code("contract"), ui.Suggestions(want)}, f.node.Snapshot())
}

func TestSuggester_ClearsSectionOnFailure(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.log.UpdateSection(ui.Code("contract")))

	m := model.NewMockModel("suggester", model.Script{Steps: []model.Step{
		{Text: `{"items":["Add roles",`},
		{Err: errors.New("cut off")},
	}})

	_, err := NewSuggester(m).Suggest(context.Background(), nil, f.log)
	require.Error(t, err)

	assert.Equal(t, []ui.Section{ui.Code("contract"), ui.Empty()}, f.node.Snapshot())
}

func TestParseItems(t *testing.T) {
	tests := []struct {
		name string
		text string
		data map[string]any
		want []string
	}{
		{name: "json", text: `{"items":["a"," b "]}`, want: []string{"a", "b"}},
		{name: "data", data: map[string]any{"items": []any{"x", ""}}, want: []string{"x"}},
		{name: "lines", text: "1. Add tests\n- Add events\n\n", want: []string{"Add tests", "Add events"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseItems(tt.text, tt.data))
		})
	}
}
