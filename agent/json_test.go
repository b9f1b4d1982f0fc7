package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloseJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"question":"What sh`, want: `{"question":"What sh"}`},
		{in: `{"items":["a","b`, want: `{"items":["a","b"]}`},
		{in: `{"items":["a",`, want: `{"items":["a"]}`},
		{in: `{"question":`, want: `{"question":null}`},
		{in: `{"q":"a\`, want: `{"q":"a"}`},
		{in: `{"q":"done"}`, want: `{"q":"done"}`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, closeJSON(tt.in))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "What sh", preview("```json\n{\"question\":\"What sh", "question").String())
	assert.False(t, preview("no json", "question").Exists())
}

func TestExtractObject(t *testing.T) {
	assert.Equal(t, `{"next":"proceed"}`, extractObject("Sure!\n```json\n{\"next\":\"proceed\"}\n```"))
	assert.Empty(t, extractObject(`{"next":`))
	assert.Empty(t, extractObject("proceed"))
}
