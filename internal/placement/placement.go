package placement

import (
	"context"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/editor"
	"github.com/open-rmf/rmf-workcell/internal/engine"
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
)

// ObjectPlacement is the imperative entry point other editor code uses to
// request object placement. Dispatch is fire-and-forget: requests are sent
// to the workflow driver through an event queue and the caller never
// observes completion.
type ObjectPlacement struct {
	State    *editor.State
	Services *Services
	Run      *engine.Events[RunSelector]
}

// PlaceObject3D requests placement of an object in the current workspace,
// with the current selection as the candidate parent. Without an active
// workspace this logs a warning and takes no action.
func (p *ObjectPlacement) PlaceObject3D(ctx context.Context, object PlaceableObject) {
	workspace := p.State.Workspace.Root
	if workspace == scene.NilEntity {
		ctxlog.FromContext(ctx).Warn("Cannot spawn a model outside of a workspace.")
		return
	}
	p.Run.Send(RunSelector{
		Selector: p.Services.PlaceObject3D,
		Input: &PlaceObject3D{
			Object:    object,
			Parent:    p.State.Selection.Entity,
			Workspace: workspace,
		},
	})
}

// ReplaceParent3D requests picking a new parent for an existing object.
// Without an active workspace this logs a warning and takes no action.
func (p *ObjectPlacement) ReplaceParent3D(ctx context.Context, object scene.Entity, workspace scene.Entity) {
	if p.State.Workspace.Root == scene.NilEntity {
		ctxlog.FromContext(ctx).Warn("Cannot replace a parent outside of a workspace.")
		return
	}
	p.Run.Send(RunSelector{
		Selector: p.Services.ReplaceParent3D,
		Input:    &ReplaceParent3D{Object: object, Workspace: workspace},
	})
}

// PlaceModel enqueues a deferred place-object request for a referenced model
// so call sites that only hold a command buffer can still request placement.
func PlaceModel(cb *scene.CommandBuffer, p *ObjectPlacement, model wformat.Model) {
	cb.Do(func(ctx context.Context, w *scene.World) {
		p.PlaceObject3D(ctx, PlaceableObject{Model: &model})
	})
}
