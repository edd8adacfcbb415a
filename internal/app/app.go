package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/devconsole/internal/config"
	"github.com/vk/devconsole/internal/ctxlog"
	"github.com/vk/devconsole/internal/logtap"
	"github.com/vk/devconsole/internal/metric"
	"github.com/vk/devconsole/internal/persist"
	"github.com/vk/devconsole/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	cfg      *Config
	logger   *slog.Logger
	level    *slog.LevelVar
	forward  *slog.LevelVar
	tap      *logtap.Handler
	model    *config.Model
	registry *registry.Registry
	store    *persist.Store
	metrics  *metric.Metrics
	dial     dialFunc
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger, registry, store and metrics. When no
// modules are given the core modules are registered.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger, level, forward, tap := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPaths...)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	if cfg.SavePath != "" {
		model.Console.SavePath = cfg.SavePath
	}
	forward.Set(model.Console.LogForwardLevel)
	logger.Debug("Configuration loaded.", "variables", len(model.Variables), "actions", len(model.Actions))

	a := &App{
		outW:     outW,
		cfg:      cfg,
		logger:   logger,
		level:    level,
		forward:  forward,
		tap:      tap,
		model:    model,
		registry: registry.New(logger),
		store:    persist.New(model.Console.SavePath, logger),
		metrics:  metric.New(),
		dial:     dialHost,
	}

	if len(modules) == 0 {
		modules = a.coreModules()
	}
	a.registry.Use(modules...)

	if err := config.Apply(ctx, model, a.registry); err != nil {
		panic(fmt.Errorf("failed to apply configuration: %w", err))
	}

	// A mismatch between code and config is a programmer error.
	if err := a.registry.Validate(); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.", "variables", a.registry.Len(), "actions", len(a.registry.Actions()))

	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Metrics returns the application's metrics.
func (a *App) Metrics() *metric.Metrics {
	return a.metrics
}
