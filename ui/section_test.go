package ui

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSection_IsEmpty(t *testing.T) {
	assert.True(t, Empty().IsEmpty())
	assert.False(t, Spinner().IsEmpty())
	assert.False(t, Notice("boom").IsEmpty())
}

func TestSection_JSON(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		want    string
	}{
		{name: "code", section: Code("contract.sol"), want: `{"kind":"code","title":"contract.sol"}`},
		{name: "inquiry", section: Inquiry("Symbol?", []string{"TKN"}, true), want: `{"kind":"inquiry","text":"Symbol?","items":["TKN"],"allows_input":true}`},
		{name: "notice", section: Notice("failed"), want: `{"kind":"notice","text":"failed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.section)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}
