package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/config"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/model"
)

func newTestApp(t *testing.T, scripts ...model.Script) *app {
	t.Helper()

	a, err := newAppWithModel(model.NewMockModel("mock", scripts...), config.DefaultConfig(), logging.NoOpLogger{}, true)
	require.NoError(t, err)

	t.Cleanup(func() { _ = a.engine.Shutdown(context.Background()) })

	return a
}

func TestAsk_StreamsContract(t *testing.T) {
	a := newTestApp(t,
		model.Reply(`{"next":"proceed"}`),
		model.Fragments("pragma ", "solidity ^0.8.0;"),
		model.Reply(`{"items":["Add a mint function"]}`),
	)

	var out bytes.Buffer
	require.NoError(t, ask(context.Background(), a, "chat-1", "Write an ERC20 token", false, &out))

	assert.Contains(t, out.String(), "pragma solidity ^0.8.0;\n")
	assert.Contains(t, out.String(), "  - Add a mint function")

	contract, err := a.artifacts.Get("chat-1", "contract.sol")
	require.NoError(t, err)
	assert.Equal(t, "pragma solidity ^0.8.0;", string(contract))
}

func TestAsk_PrintsInquiry(t *testing.T) {
	a := newTestApp(t,
		model.Reply(`{"next":"inquire"}`),
		model.Reply(`{"question":"What should the token symbol be?","options":[{"value":"TKN","label":"TKN"}]}`),
	)

	var out bytes.Buffer
	require.NoError(t, ask(context.Background(), a, "chat-1", "Write an ERC20 token", false, &out))

	assert.Equal(t, "What should the token symbol be?\n  1. TKN\n", out.String())
}

func TestAsk_SkipRecordsRequest(t *testing.T) {
	a := newTestApp(t, model.Fragments("contract Escrow {}"))

	var out bytes.Buffer
	require.NoError(t, ask(context.Background(), a, "chat-1", "An escrow", true, &out))

	assert.Contains(t, out.String(), "contract Escrow {}")

	turns, err := a.sessions.Get("chat-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, `{"input":"An escrow"}`, turns[0].Text())
	assert.Equal(t, `{"action":"skip"}`, turns[1].Text())
}

func TestRootCommand_Wiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["serve"])
	assert.True(t, names["ask"])
	assert.True(t, names["chat"])
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}
