package workcell

import (
	"context"

	"github.com/open-rmf/rmf-workcell/internal/editor"
	"github.com/open-rmf/rmf-workcell/internal/engine"
	"github.com/open-rmf/rmf-workcell/internal/scene"
)

// Publisher receives editor lifecycle notifications, e.g. the monitor
// bridge. Implementations must never block.
type Publisher interface {
	Publish(event string, payload map[string]any)
}

// Module wires the workcell systems into the engine: workspace activation,
// origin visualization, and the save/export driver.
type Module struct {
	State  *editor.State
	Assets VisualizationAssets

	// SaveEvents and ChangeEvents are the module's request queues. Other
	// modules and the application shell send into them.
	SaveEvents   engine.Events[SaveWorkcell]
	ChangeEvents engine.Events[ChangeCurrentWorkcell]

	// Monitor is optional; nil disables notifications.
	Monitor Publisher
}

// NewModule creates the workcell module with default visualization assets.
func NewModule(state *editor.State) *Module {
	return &Module{State: state, Assets: DefaultVisualizationAssets()}
}

// Register implements engine.Module.
func (m *Module) Register(r *engine.Registry) {
	r.AddSystem(engine.StageUpdate, "workcell.change_current", m.changeCurrent)
	r.AddSystem(engine.StageUpdate, "workcell.add_visualization", m.addVisualization)
	r.AddSystem(engine.StagePostUpdate, "workcell.save", m.save)
}

func (m *Module) changeCurrent(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {
	req, ok := m.ChangeEvents.Last()
	if !ok {
		return
	}
	before := m.State.Workspace.Root
	changeWorkcell(ctx, w, m.State, req)
	if m.Monitor != nil && m.State.Workspace.Root != before {
		m.Monitor.Publish("workcell_changed", map[string]any{
			"root": m.State.Workspace.Root.String(),
		})
	}
}

func (m *Module) addVisualization(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {
	addVisualization(w, cb, m.Assets)
}

func (m *Module) save(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {
	batch := m.SaveEvents.Drain()
	if len(batch) == 0 {
		return
	}
	RunSaveBatch(ctx, w, batch)
	if m.Monitor != nil {
		for _, req := range batch {
			m.Monitor.Publish("save_completed", map[string]any{
				"root": req.Root.String(),
				"path": req.ToFile,
			})
		}
	}
}
