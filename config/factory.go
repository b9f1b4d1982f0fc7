package config

import (
	"context"
	"fmt"
	"os"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/model"
	"github.com/hupe1980/contractsmith/model/anthropic"
	"github.com/hupe1980/contractsmith/model/gemini"
	"github.com/hupe1980/contractsmith/model/openai"
)

// NewModel builds the configured provider adapter. Empty fields keep the
// adapter defaults.
func (c *Config) NewModel(ctx context.Context) (model.Model, error) {
	switch c.Provider {
	case "openai":
		return openai.NewModel(func(o *openai.Options) {
			if c.Model != "" {
				o.Model = c.Model
			}
			o.Temperature = c.Temperature
			if c.MaxOutputTokens > 0 {
				o.MaxCompletionTokens = int64(c.MaxOutputTokens)
			}
			o.APIKey = c.APIKey
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if c.Model != "" {
				o.Model = anthropicsdk.Model(c.Model)
			}
			o.Temperature = c.Temperature
			if c.MaxOutputTokens > 0 {
				o.MaxTokens = int64(c.MaxOutputTokens)
			}
			o.APIKey = c.APIKey
		}), nil
	case "gemini":
		m, err := gemini.NewModel(ctx, func(o *gemini.Options) {
			if c.Model != "" {
				o.Model = c.Model
			}
			o.Temperature = float32(c.Temperature)
			if c.MaxOutputTokens > 0 {
				o.MaxOutputTokens = int32(c.MaxOutputTokens)
			}
			o.APIKey = c.APIKey
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("invalid provider: %q (valid: %v)", c.Provider, ValidProviders)
	}
}

// NewLogger builds the configured logger writing to stderr. verbose forces
// the debug level.
func (c *Config) NewLogger(verbose bool) (logging.Logger, error) {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	if verbose {
		level = logging.LogLevelDebug
	}

	switch c.Logging.Backend {
	case "zap":
		return logging.NewZapLogger(level, c.Logging.Format)
	case "", "slog":
		return logging.NewSlogLoggerTo(os.Stderr, level, c.Logging.Format, level == logging.LogLevelDebug), nil
	default:
		return nil, fmt.Errorf("invalid logging backend: %q", c.Logging.Backend)
	}
}
