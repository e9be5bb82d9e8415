package workcell

import (
	"context"

	"github.com/chewxy/math32"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/editor"
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
)

// ChangeCurrentWorkcell is the request queued to make another open workcell
// the current one.
type ChangeCurrentWorkcell struct {
	// Root is the workcell root that should become current.
	Root scene.Entity
}

// changeWorkcell services the most recent change request. Requests naming an
// entity that is not an open workcell are rejected with a logged error.
func changeWorkcell(ctx context.Context, w *scene.World, state *editor.State, req ChangeCurrentWorkcell) {
	name, ok := scene.Get[NameOfWorkcell](w, req.Root)
	if !ok {
		ctxlog.FromContext(ctx).Error(
			"Requested workspace change to an entity that is not an open workcell.",
			"root", req.Root,
		)
		return
	}
	state.Workspace.Root = req.Root
	state.Workspace.Name = name.Name
	state.Workspace.Display = true
}

// VisualizationAssets names the meshes used to visualize a workcell origin.
type VisualizationAssets struct {
	AnchorMesh AssetSource
	AxisMesh   AssetSource
}

// DefaultVisualizationAssets returns the built-in origin marker meshes.
func DefaultVisualizationAssets() VisualizationAssets {
	return VisualizationAssets{
		AnchorMesh: AssetSource{Search: "rmf_workcell/anchor"},
		AxisMesh:   AssetSource{Search: "rmf_workcell/axis_cue"},
	}
}

// addVisualization spawns an origin-marker body under every workcell root
// that does not have one yet, plus one orientation cue per axis. The marker
// is selectable and selecting it selects the workcell itself.
func addVisualization(w *scene.World, cb *scene.CommandBuffer, assets VisualizationAssets) {
	scene.Each(w, func(root scene.Entity, _ NameOfWorkcell) bool {
		for _, c := range w.Children(root) {
			if scene.Has[WorkcellVisualizationMarker](w, c) {
				return true
			}
		}
		// No Pending here: the marker must stay visible to the hover filter
		// so picking it selects the workcell. It carries no exportable
		// marker component, which already keeps it out of saved documents.
		cb.Spawn(root, []any{
			WorkcellVisualizationMarker{},
			Selectable{Element: root},
			assets.AnchorMesh,
			wformat.Identity(),
		}, func(ctx context.Context, w *scene.World, body scene.Entity) {
			spawnOrientationCues(ctx, w, body, assets, 1.0)
		})
		return true
	})
}

// spawnOrientationCues attaches one axis cue mesh per world axis to body.
// Each cue is the axis mesh rotated so its local Z points along the axis.
func spawnOrientationCues(ctx context.Context, w *scene.World, body scene.Entity, assets VisualizationAssets, scale float32) {
	halfPi := math32.Pi / 2
	cues := []wformat.Rotation{
		{EulerXYZ: &[3]float32{0, halfPi, 0}},  // X
		{EulerXYZ: &[3]float32{-halfPi, 0, 0}}, // Y
		{},                                     // Z, identity
	}
	for _, rot := range cues {
		q := rot.AsQuat()
		pose := wformat.Pose{Rot: wformat.Rotation{Quat: &q}}
		_, err := w.Spawn(body,
			assets.AxisMesh,
			pose,
			Scale{Scale: [3]float32{scale, scale, scale}},
		)
		if err != nil {
			ctxlog.FromContext(ctx).Error("Failed to spawn orientation cue.", "body", body, "error", err)
			return
		}
	}
}
