package main

import (
	"context"
	"fmt"

	"github.com/hupe1980/contractsmith/artifact"
	"github.com/hupe1980/contractsmith/config"
	"github.com/hupe1980/contractsmith/engine"
	"github.com/hupe1980/contractsmith/logging"
	"github.com/hupe1980/contractsmith/model"
	"github.com/hupe1980/contractsmith/session"
)

// app wires one engine with its stores.
type app struct {
	engine    *engine.Engine
	sessions  *session.InMemoryStore
	artifacts *artifact.InMemoryStore
}

func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger, verbose bool) (*app, error) {
	m, err := cfg.NewModel(ctx)
	if err != nil {
		return nil, err
	}

	return newAppWithModel(m, cfg, logger, verbose)
}

func newAppWithModel(m model.Model, cfg *config.Config, logger logging.Logger, verbose bool) (*app, error) {
	a := &app{
		sessions:  session.NewInMemoryStore(),
		artifacts: artifact.NewInMemoryStore(),
	}

	optFns := []func(o *engine.Options){
		engine.WithConfig(cfg.EngineConfig()),
		engine.WithLogger(logger),
		engine.WithSessionStore(a.sessions),
		engine.WithArtifactStore(a.artifacts),
	}

	if verbose {
		for _, ct := range []engine.CallbackType{
			engine.CallbackExchangeStart,
			engine.CallbackDecision,
			engine.CallbackAttemptStart,
			engine.CallbackAttemptEnd,
			engine.CallbackExchangeEnd,
		} {
			optFns = append(optFns, engine.WithCallback(engine.NewLoggingCallback(ct, logger)))
		}
	}

	eng, err := engine.New(engine.DefaultAgents(m, logger), optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	a.engine = eng

	return a, nil
}
