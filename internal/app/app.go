package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/open-rmf/rmf-workcell/internal/assets"
	"github.com/open-rmf/rmf-workcell/internal/bridge"
	"github.com/open-rmf/rmf-workcell/internal/config"
	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/editor"
	"github.com/open-rmf/rmf-workcell/internal/engine"
	"github.com/open-rmf/rmf-workcell/internal/placement"
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/workcell"
)

// App encapsulates the editor's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *config.Config

	state     *editor.State
	engine    *engine.Engine
	workcell  *workcell.Module
	placement *placement.Module
	catalog   *assets.Catalog
	monitor   *bridge.Monitor
}

// NewApp is the constructor for the editor application. It returns a fully
// initialized App instance, including its own isolated logger and engine.
// Critical configuration errors panic; the entrypoint recovers them into a
// clean exit.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfg, err := config.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	// CLI flags beat the config file; the config file beats the defaults.
	if appConfig.LogLevel == "" && appConfig.LogFormat == "" {
		logger = newLogger(cfg.Editor.LogLevel, cfg.Editor.LogFormat, outW)
	}
	logger.Debug("Configuration loaded.")

	state := editor.NewState()
	workcellModule := workcell.NewModule(state)
	placementModule := placement.NewModule(state)

	var monitor *bridge.Monitor
	if cfg.Bridge.Enabled {
		monitor = bridge.NewMonitor(cfg.Bridge.URL, cfg.Bridge.Namespace)
		workcellModule.Monitor = monitor
		placementModule.Monitor = monitor
	}

	registry := engine.NewRegistry()
	for _, mod := range []engine.Module{workcellModule, placementModule} {
		mod.Register(registry)
	}
	logger.Debug("All editor modules registered.")

	return &App{
		outW:      outW,
		logger:    logger,
		cfg:       cfg,
		state:     state,
		engine:    engine.New(scene.NewWorld(), registry),
		workcell:  workcellModule,
		placement: placementModule,
		catalog:   assets.NewCatalog(cfg.Editor.AssetDirs...),
		monitor:   monitor,
	}
}

// Engine returns the application's engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// State returns the editor session state. This is primarily for testing.
func (a *App) State() *editor.State {
	return a.state
}

// Placement returns the imperative object placement API bound to this app.
func (a *App) Placement() *placement.ObjectPlacement {
	return &placement.ObjectPlacement{
		State:    a.state,
		Services: a.placement.Services,
		Run:      &a.placement.RunEvents,
	}
}
