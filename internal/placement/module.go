package placement

import (
	"context"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/editor"
	"github.com/open-rmf/rmf-workcell/internal/engine"
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/workcell"
)

// Services holds the handles to the placement workflows registered at
// startup. Other code dispatches to them through RunSelector events.
type Services struct {
	PlaceObject3D   *Workflow
	ReplaceParent3D *Workflow
}

// RunSelector asks the driver to activate a selector workflow with the given
// request record.
type RunSelector struct {
	Selector *Workflow
	Input    any
}

// HoverCandidate is a raw pick result fed to the hover service by the host
// (or by tests).
type HoverCandidate struct {
	Entity scene.Entity
}

// InputKind discriminates the discrete workflow inputs.
type InputKind int

const (
	// InputHover retargets the active run.
	InputHover InputKind = iota
	// InputCommit asks the active run to finalize.
	InputCommit
	// InputCancel abandons the active run.
	InputCancel
)

// WorkflowInput is one discrete input delivered to the active run.
type WorkflowInput struct {
	Kind   InputKind
	Target scene.Entity
}

// Module wires the hover service and the workflow driver into the engine.
type Module struct {
	State    *editor.State
	Services *Services

	// RunEvents receives workflow activation requests; PointerEvents
	// receives raw pick candidates; InputEvents receives discrete workflow
	// inputs.
	RunEvents     engine.Events[RunSelector]
	PointerEvents engine.Events[HoverCandidate]
	InputEvents   engine.Events[WorkflowInput]

	// Monitor is optional; nil disables notifications.
	Monitor workcell.Publisher

	active      run
	activeState State
	activeName  string
	pending     []RunSelector
}

// NewModule builds the placement module and its workflow services.
func NewModule(state *editor.State) *Module {
	return &Module{
		State: state,
		Services: &Services{
			PlaceObject3D:   newPlaceObjectWorkflow(),
			ReplaceParent3D: newReplaceParentWorkflow(),
		},
	}
}

// Register implements engine.Module.
func (m *Module) Register(r *engine.Registry) {
	r.AddSystem(engine.StageHover, "placement.hover", m.hover)
	r.AddSystem(engine.StageSelect, "placement.driver", m.drive)
}

// ActiveState reports the state of the current run, Idle when none.
func (m *Module) ActiveState() State {
	return m.activeState
}

// hover is the continuous hover service: it filters the latest raw pick
// candidate, publishes it as the hovered element, and forwards it to the
// active workflow as a hover input.
func (m *Module) hover(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {
	raw, ok := m.PointerEvents.Last()
	if !ok {
		return
	}
	target := FilterTarget(w, raw.Entity)
	if target == m.State.Hovered.Entity {
		return
	}
	m.State.Hovered.Entity = target
	if m.active != nil && target != scene.NilEntity {
		m.InputEvents.Send(WorkflowInput{Kind: InputHover, Target: target})
	}
}

// drive feeds inputs to the active run, finalizes terminal states, and
// activates queued requests when idle.
func (m *Module) drive(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {
	logger := ctxlog.FromContext(ctx)

	for _, input := range m.InputEvents.Drain() {
		if m.active == nil {
			continue
		}
		switch input.Kind {
		case InputHover:
			m.active.Hover(ctx, w, input.Target)
		case InputCommit:
			m.transition(ctx, m.active.Commit(ctx, w))
		case InputCancel:
			m.transition(ctx, m.active.Cancel(ctx, w))
		}
		if m.active == nil {
			break
		}
	}

	m.pending = append(m.pending, m.RunEvents.Drain()...)
	if m.active == nil && len(m.pending) > 0 {
		req := m.pending[0]
		m.pending = m.pending[1:]
		if req.Selector == nil {
			logger.Error("Selector request without a workflow, dropping.")
			return
		}
		r, err := req.Selector.Begin(ctx, w, req.Input)
		if err != nil {
			logger.Error("Failed to start selector workflow.", "workflow", req.Selector.Name, "error", err)
			return
		}
		m.active = r
		m.activeName = req.Selector.Name
		m.activeState = AwaitingTarget
		logger.Debug("Selector workflow started.", "workflow", m.activeName)
	}
}

func (m *Module) transition(ctx context.Context, next State) {
	logger := ctxlog.FromContext(ctx)
	m.activeState = next
	switch next {
	case Committing:
		logger.Debug("Selector workflow committed.", "workflow", m.activeName)
		if m.Monitor != nil {
			m.Monitor.Publish("object_placed", map[string]any{"workflow": m.activeName})
		}
		m.finish()
	case Cancelled:
		logger.Debug("Selector workflow cancelled.", "workflow", m.activeName)
		m.finish()
	}
}

func (m *Module) finish() {
	m.active = nil
	m.activeName = ""
	m.activeState = Idle
}
