package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "debug", want: LogLevelDebug},
		{in: "", want: LogLevelInfo},
		{in: "WARN", want: LogLevelWarn},
		{in: "error", want: LogLevelError},
		{in: "loud", want: LogLevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlogLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := With(NewSlogLoggerTo(&buf, LogLevelInfo, "json", false), "exchange_id", 7)

	l.Debug("hidden")
	l.Info("exchange.start", "chat_id", "c1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "exchange.start", entry["msg"])
	assert.Equal(t, "c1", entry["chat_id"])
	assert.EqualValues(t, 7, entry["exchange_id"])
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := With(NewZapAdapter(zap.New(core)), "component", "engine")

	l.Warn("exchange.decision", "next", "inquire")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "exchange.decision", entry.Message)
	assert.Equal(t, "inquire", entry.ContextMap()["next"])
	assert.Equal(t, "engine", entry.ContextMap()["component"])
}

func TestWith_FallsBackForPlainLoggers(t *testing.T) {
	var l Logger = NoOpLogger{}
	assert.Equal(t, l, With(l, "k", "v"))
}
