package app

import (
	"context"
	"fmt"
	"os"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
	"github.com/open-rmf/rmf-workcell/internal/workcell"
)

// Run executes one editing session: open the document, activate it as the
// current workcell, run the editor loop long enough to settle, then save if
// a save path was requested.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.monitor != nil {
		if err := a.monitor.Connect(ctx); err != nil {
			a.logger.Warn("Monitor bridge unavailable, continuing without it.", "error", err)
		} else {
			defer a.monitor.Close()
		}
	}

	if err := a.catalog.Scan(ctx); err != nil {
		return fmt.Errorf("failed to scan asset catalog: %w", err)
	}
	a.logger.Debug("Asset catalog ready.", "assets", len(a.catalog.Names()))

	root, err := a.openDocument(ctx, appConfig.DocPath)
	if err != nil {
		return err
	}

	a.workcell.ChangeEvents.Send(workcell.ChangeCurrentWorkcell{Root: root})
	a.engine.Update(ctx)
	a.logger.Info("Workcell opened.", "path", appConfig.DocPath, "name", a.state.Workspace.Name)

	if appConfig.SavePath != "" {
		a.workcell.SaveEvents.Send(a.saveRequest(appConfig))
		a.engine.Update(ctx)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// openDocument reads the workcell document and loads it into the world.
func (a *App) openDocument(ctx context.Context, path string) (scene.Entity, error) {
	f, err := os.Open(path)
	if err != nil {
		return scene.NilEntity, fmt.Errorf("failed to open workcell document: %w", err)
	}
	defer f.Close()

	doc, err := wformat.Decode(f)
	if err != nil {
		return scene.NilEntity, fmt.Errorf("failed to read workcell document %s: %w", path, err)
	}

	root, diagnostics := workcell.LoadWorkcell(ctx, a.engine.World(), doc)
	for _, d := range diagnostics {
		a.logger.Warn("Element skipped while loading.", "detail", d.Detail)
	}
	return root, nil
}

// saveRequest resolves the CLI and configured defaults into a save request.
func (a *App) saveRequest(appConfig *Config) workcell.SaveWorkcell {
	format := appConfig.Format
	if format == "" {
		format = a.cfg.Export.DefaultFormat
	}

	req := workcell.SaveWorkcell{
		Root:   a.state.Workspace.Root,
		ToFile: appConfig.SavePath,
	}
	if format == "urdf" {
		req.Format = workcell.FormatURDF
		req.ToFile = appConfig.ExportDir
		if req.ToFile == "" {
			req.ToFile = a.cfg.Export.OutputDir
		}
	}
	return req
}
