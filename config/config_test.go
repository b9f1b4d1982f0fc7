package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/contractsmith/engine"
	"github.com/hupe1980/contractsmith/logging"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvProvider, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, engine.DefaultConfig, cfg.EngineConfig())
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvProvider, "")

	path := filepath.Join(t.TempDir(), "contractsmith.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: anthropic
model: claude-sonnet-4-5
temperature: 0.5
engine:
  max_turns: 6
  max_attempts: 5
logging:
  level: debug
  backend: zap
server:
  addr: 127.0.0.1:9000
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model)
	assert.InDelta(t, 0.5, cfg.Temperature, 1e-9)
	assert.Equal(t, 4096, cfg.MaxOutputTokens, "unset keys keep defaults")
	assert.Equal(t, 6, cfg.Engine.MaxTurns)
	assert.Equal(t, 5, cfg.Engine.MaxAttempts)
	assert.Equal(t, engine.DefaultConfig.MaxConcurrentExchanges, cfg.Engine.MaxConcurrentExchanges)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "zap", cfg.Logging.Backend)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unterminated"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-env")
	t.Setenv(EnvProvider, "Gemini")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "gemini", cfg.Provider)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvProvider, "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Provider = "gemini"
	cfg.Engine.MaxAttempts = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "provider", mutate: func(c *Config) { c.Provider = "llama" }, wantErr: "invalid provider"},
		{name: "temperature", mutate: func(c *Config) { c.Temperature = 3 }, wantErr: "temperature"},
		{name: "tokens", mutate: func(c *Config) { c.MaxOutputTokens = -1 }, wantErr: "max_output_tokens"},
		{name: "engine", mutate: func(c *Config) { c.Engine.MaxAttempts = -1 }, wantErr: "engine limits"},
		{name: "level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "unknown log level"},
		{name: "format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid logging format"},
		{name: "backend", mutate: func(c *Config) { c.Logging.Backend = "logrus" }, wantErr: "invalid logging backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNewModel(t *testing.T) {
	for _, provider := range ValidProviders {
		t.Run(provider, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Provider = provider
			cfg.APIKey = "test-key"
			cfg.Model = "custom-model"

			m, err := cfg.NewModel(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "custom-model", m.Info().Name)
			assert.Equal(t, provider, m.Info().Provider)
		})
	}

	cfg := DefaultConfig()
	cfg.Provider = "unknown"
	_, err := cfg.NewModel(context.Background())
	assert.ErrorContains(t, err, "invalid provider")
}

func TestNewLogger(t *testing.T) {
	for _, backend := range []string{"slog", "zap"} {
		t.Run(backend, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Logging.Backend = backend

			logger, err := cfg.NewLogger(true)
			require.NoError(t, err)
			assert.NotNil(t, logger)
			assert.NotNil(t, logging.With(logger, "k", "v"))
		})
	}
}
