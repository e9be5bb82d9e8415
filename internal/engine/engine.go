package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/open-rmf/rmf-workcell/internal/scene"
)

// Stage identifies one slot of the update loop. Stages run in declaration
// order on every update.
type Stage int

const (
	// StageHover runs continuous services that track what the pointer is over.
	StageHover Stage = iota
	// StageSelect runs the selection workflow drivers.
	StageSelect
	// StageUpdate runs ordinary editor systems.
	StageUpdate
	// StagePostUpdate runs systems that consume the frame's output, such as
	// the save driver.
	StagePostUpdate

	stageCount
)

// String implements fmt.Stringer for log lines.
func (s Stage) String() string {
	switch s {
	case StageHover:
		return "hover"
	case StageSelect:
		return "select"
	case StageUpdate:
		return "update"
	case StagePostUpdate:
		return "post_update"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// SystemFunc is one unit of editor logic, invoked synchronously once per
// update with access to the world and the deferred command buffer.
type SystemFunc func(ctx context.Context, w *scene.World, cb *scene.CommandBuffer)

type system struct {
	name string
	fn   SystemFunc
}

// Module is the interface all editor modules implement to announce their
// systems to the engine at startup.
type Module interface {
	Register(r *Registry)
}

// Registry collects named systems per stage before the engine starts.
type Registry struct {
	systems [stageCount][]system
	names   map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// AddSystem registers a system under a unique name into the given stage.
// Duplicate names panic.
func (r *Registry) AddSystem(stage Stage, name string, fn SystemFunc) {
	if stage < 0 || stage >= stageCount {
		panic(fmt.Sprintf("system '%s' registered into unknown stage %d", name, stage))
	}
	if _, exists := r.names[name]; exists {
		panic(fmt.Sprintf("system with name '%s' already registered", name))
	}
	slog.Debug("Registering system.", "name", name, "stage", stage)
	r.names[name] = struct{}{}
	r.systems[stage] = append(r.systems[stage], system{name: name, fn: fn})
}

// Engine owns the world, the command buffer and the registered systems, and
// drives them from a single goroutine.
type Engine struct {
	world    *scene.World
	commands *scene.CommandBuffer
	registry *Registry
	updates  uint64
}

// New builds an engine around a world and a populated registry.
func New(world *scene.World, registry *Registry) *Engine {
	return &Engine{
		world:    world,
		commands: scene.NewCommandBuffer(),
		registry: registry,
	}
}

// World returns the engine's entity arena.
func (e *Engine) World() *scene.World {
	return e.world
}

// Commands returns the engine's deferred command buffer.
func (e *Engine) Commands() *scene.CommandBuffer {
	return e.commands
}

// Updates returns how many updates have completed.
func (e *Engine) Updates() uint64 {
	return e.updates
}

// Update runs every registered system in stage order, then flushes the
// command buffer. It must always be called from the same goroutine.
func (e *Engine) Update(ctx context.Context) {
	for stage := Stage(0); stage < stageCount; stage++ {
		for _, sys := range e.registry.systems[stage] {
			sys.fn(ctx, e.world, e.commands)
		}
	}
	e.commands.Flush(ctx, e.world)
	e.updates++
}
