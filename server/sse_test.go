package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEStream_Framing(t *testing.T) {
	rec := httptest.NewRecorder()
	s := newSSEStream(rec)

	require.NoError(t, s.send(EventCode, codeEvent{Text: "pragma"}))
	require.NoError(t, s.send(EventGenerating, flagEvent{Value: false}))
	require.NoError(t, s.complete())

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.True(t, rec.Flushed)
	assert.Equal(t,
		"id: 1\nevent: code\ndata: {\"text\":\"pragma\"}\n\n"+
			"id: 2\nevent: generating\ndata: {\"value\":false}\n\n"+
			"event: complete\ndata: {}\n\n",
		rec.Body.String())
}

func TestSSEStream_MarshalError(t *testing.T) {
	s := newSSEStream(httptest.NewRecorder())
	assert.Error(t, s.send(EventCode, func() {}))
}

func TestSSEStream_NoWriter(t *testing.T) {
	s := &sseStream{}
	assert.ErrorIs(t, s.complete(), errNoWriter)
}
