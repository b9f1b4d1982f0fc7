// Package config loads the contractsmith configuration from YAML with
// environment overrides and turns it into engine, logger and model
// instances.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/contractsmith/engine"
	"github.com/hupe1980/contractsmith/logging"
)

// Environment variables overriding the file.
const (
	EnvAPIKey   = "CONTRACTSMITH_API_KEY"
	EnvProvider = "CONTRACTSMITH_PROVIDER"
)

// ValidProviders lists the supported model providers.
var ValidProviders = []string{"openai", "anthropic", "gemini"}

// Config is the root configuration.
type Config struct {
	Provider        string  `yaml:"provider"`
	Model           string  `yaml:"model,omitempty"`
	APIKey          string  `yaml:"api_key,omitempty"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`

	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

// EngineConfig mirrors engine.Config.
type EngineConfig struct {
	MaxTurns               int `yaml:"max_turns"`
	MaxTokens              int `yaml:"max_tokens"`
	MaxAttempts            int `yaml:"max_attempts"`
	MaxConcurrentExchanges int `yaml:"max_concurrent_exchanges"`
}

// LoggingConfig selects level, format and backend of the logger.
type LoggingConfig struct {
	Level   string `yaml:"level"`   // debug, info, warn, error
	Format  string `yaml:"format"`  // text, json
	Backend string `yaml:"backend"` // slog, zap
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:        "openai",
		Temperature:     0.2,
		MaxOutputTokens: 4096,
		Engine: EngineConfig{
			MaxTurns:               engine.DefaultConfig.MaxTurns,
			MaxTokens:              engine.DefaultConfig.MaxTokens,
			MaxAttempts:            engine.DefaultConfig.MaxAttempts,
			MaxConcurrentExchanges: engine.DefaultConfig.MaxConcurrentExchanges,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "text",
			Backend: "slog",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads path on top of the defaults and applies environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if p := os.Getenv(EnvProvider); p != "" {
		c.Provider = strings.ToLower(p)
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.APIKey = key
	}
}

// Validate checks the configuration. The API key is optional because every
// provider SDK falls back to its own environment variable.
func (c *Config) Validate() error {
	if !slices.Contains(ValidProviders, c.Provider) {
		return fmt.Errorf("invalid provider: %q (valid: %v)", c.Provider, ValidProviders)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %v", c.Temperature)
	}

	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("max_output_tokens must not be negative")
	}

	e := c.Engine
	if e.MaxTurns < 0 || e.MaxTokens < 0 || e.MaxAttempts < 0 || e.MaxConcurrentExchanges < 0 {
		return fmt.Errorf("engine limits must not be negative")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging format: %q (valid: text, json)", c.Logging.Format)
	}

	switch c.Logging.Backend {
	case "slog", "zap":
	default:
		return fmt.Errorf("invalid logging backend: %q (valid: slog, zap)", c.Logging.Backend)
	}

	return nil
}

// EngineConfig converts the engine section.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		MaxTurns:               c.Engine.MaxTurns,
		MaxTokens:              c.Engine.MaxTokens,
		MaxAttempts:            c.Engine.MaxAttempts,
		MaxConcurrentExchanges: c.Engine.MaxConcurrentExchanges,
	}
}
