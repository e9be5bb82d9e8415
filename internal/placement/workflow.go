package placement

import (
	"context"
	"fmt"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
	"github.com/open-rmf/rmf-workcell/internal/workcell"
)

// State is the lifecycle state of a workflow run.
type State int

const (
	// Idle means no run is in flight.
	Idle State = iota
	// AwaitingTarget means the run is live and waiting for further input.
	AwaitingTarget
	// Committing means the run accepted a commit and is finalizing.
	Committing
	// Cancelled means the run was abandoned and has cleaned up.
	Cancelled
)

// String implements fmt.Stringer for log lines.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingTarget:
		return "awaiting_target"
	case Committing:
		return "committing"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// run is one in-flight workflow instance. Hover may be called any number of
// times while the run is in AwaitingTarget; Commit and Cancel decide the
// terminal state.
type run interface {
	Hover(ctx context.Context, w *scene.World, target scene.Entity)
	Commit(ctx context.Context, w *scene.World) State
	Cancel(ctx context.Context, w *scene.World) State
}

// Workflow is a registered selector workflow. Begin validates the request
// and returns the live run, or an error when the request cannot start.
type Workflow struct {
	Name  string
	Begin func(ctx context.Context, w *scene.World, input any) (run, error)
}

// PlaceObject3D is the request record for the place-object workflow.
type PlaceObject3D struct {
	Object PlaceableObject
	// Parent is the candidate parent, normally the selection at request
	// time. NilEntity falls back to the workspace root.
	Parent    scene.Entity
	Workspace scene.Entity
}

// ReplaceParent3D is the request record for the replace-parent workflow.
type ReplaceParent3D struct {
	Object    scene.Entity
	Workspace scene.Entity
}

// PlaceableObject is what a placement request wants placed. Only referenced
// asset models are placeable in this slice.
type PlaceableObject struct {
	Model *wformat.Model
}

// newPlaceObjectWorkflow builds the place-object workflow. Activation spawns
// a pending preview model under the candidate parent; hovering retargets it;
// commit finalizes it in place; cancel despawns it.
func newPlaceObjectWorkflow() *Workflow {
	return &Workflow{
		Name: "place_object_3d",
		Begin: func(ctx context.Context, w *scene.World, input any) (run, error) {
			req, ok := input.(*PlaceObject3D)
			if !ok {
				return nil, fmt.Errorf("place_object_3d: unexpected input %T", input)
			}
			if req.Object.Model == nil {
				return nil, fmt.Errorf("place_object_3d: request has no model")
			}
			if !w.Alive(req.Workspace) {
				return nil, fmt.Errorf("place_object_3d: workspace %v is gone", req.Workspace)
			}
			parent := req.Parent
			if !w.Alive(parent) {
				parent = req.Workspace
			}

			model := req.Object.Model
			comps := []any{
				workcell.PreviewModel{},
				workcell.Pending{},
				workcell.VisualMeshMarker{},
				workcell.NameInWorkcell{Name: model.Name},
				model.Pose,
			}
			switch {
			case model.Geometry.Mesh != nil:
				comps = append(comps, model.Geometry.Mesh.Source)
				if s := model.Geometry.Mesh.Scale; s != nil {
					comps = append(comps, workcell.Scale{Scale: *s})
				}
			case model.Geometry.Primitive != nil:
				comps = append(comps, *model.Geometry.Primitive)
			default:
				return nil, fmt.Errorf("place_object_3d: model '%s' has no geometry", model.Name)
			}

			preview, err := w.Spawn(parent, comps...)
			if err != nil {
				return nil, fmt.Errorf("place_object_3d: failed to spawn preview: %w", err)
			}
			return &placeObjectRun{preview: preview, workspace: req.Workspace}, nil
		},
	}
}

type placeObjectRun struct {
	preview   scene.Entity
	workspace scene.Entity
}

func (r *placeObjectRun) Hover(ctx context.Context, w *scene.World, target scene.Entity) {
	if !w.Alive(target) || target == r.preview || w.IsDescendant(target, r.preview) {
		return
	}
	if err := w.SetParent(r.preview, target); err != nil {
		ctxlog.FromContext(ctx).Error("Failed to retarget preview.", "target", target, "error", err)
	}
}

func (r *placeObjectRun) Commit(ctx context.Context, w *scene.World) State {
	if !w.Alive(r.preview) {
		ctxlog.FromContext(ctx).Error("Preview disappeared before commit.", "preview", r.preview)
		return Cancelled
	}
	scene.Remove[workcell.Pending](w, r.preview)
	scene.Remove[workcell.PreviewModel](w, r.preview)
	scene.Set(w, r.preview, workcell.Selectable{Element: r.preview})
	return Committing
}

func (r *placeObjectRun) Cancel(ctx context.Context, w *scene.World) State {
	if w.Alive(r.preview) {
		if err := w.Despawn(r.preview); err != nil {
			ctxlog.FromContext(ctx).Error("Failed to despawn preview.", "preview", r.preview, "error", err)
		}
	}
	return Cancelled
}

// newReplaceParentWorkflow builds the replace-parent workflow. The object is
// never moved before commit, so cancelling restores nothing.
func newReplaceParentWorkflow() *Workflow {
	return &Workflow{
		Name: "replace_parent_3d",
		Begin: func(ctx context.Context, w *scene.World, input any) (run, error) {
			req, ok := input.(*ReplaceParent3D)
			if !ok {
				return nil, fmt.Errorf("replace_parent_3d: unexpected input %T", input)
			}
			if !w.Alive(req.Object) {
				return nil, fmt.Errorf("replace_parent_3d: object %v is gone", req.Object)
			}
			if !w.Alive(req.Workspace) {
				return nil, fmt.Errorf("replace_parent_3d: workspace %v is gone", req.Workspace)
			}
			return &replaceParentRun{object: req.Object, workspace: req.Workspace}, nil
		},
	}
}

type replaceParentRun struct {
	object    scene.Entity
	workspace scene.Entity
	candidate scene.Entity
}

func (r *replaceParentRun) Hover(ctx context.Context, w *scene.World, target scene.Entity) {
	if !w.Alive(target) || target == r.object || w.IsDescendant(target, r.object) {
		return
	}
	r.candidate = target
}

func (r *replaceParentRun) Commit(ctx context.Context, w *scene.World) State {
	target := r.candidate
	if !w.Alive(target) {
		target = r.workspace
	}
	if err := w.SetParent(r.object, target); err != nil {
		// Stay live so the user can pick another target.
		ctxlog.FromContext(ctx).Error("Cannot reparent to selected target.", "object", r.object, "target", target, "error", err)
		r.candidate = scene.NilEntity
		return AwaitingTarget
	}
	return Committing
}

func (r *replaceParentRun) Cancel(ctx context.Context, w *scene.World) State {
	return Cancelled
}
