package scene

import (
	"context"
	"reflect"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
)

// CommandBuffer queues structural mutations so that systems can request
// spawns, despawns and reparenting without mutating the World mid-iteration.
// The engine flushes the buffer at the end of every update.
type CommandBuffer struct {
	ops []func(ctx context.Context, w *World)
}

// NewCommandBuffer returns an empty buffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// Do queues an arbitrary operation against the World.
func (cb *CommandBuffer) Do(op func(ctx context.Context, w *World)) {
	cb.ops = append(cb.ops, op)
}

// Spawn queues creation of an entity under parent. If then is non-nil it is
// invoked with the new entity during the flush.
func (cb *CommandBuffer) Spawn(parent Entity, comps []any, then func(ctx context.Context, w *World, e Entity)) {
	cb.Do(func(ctx context.Context, w *World) {
		e, err := w.Spawn(parent, comps...)
		if err != nil {
			ctxlog.FromContext(ctx).Error("Deferred spawn failed.", "parent", parent, "error", err)
			return
		}
		if then != nil {
			then(ctx, w, e)
		}
	})
}

// Insert queues attaching a component to e. Entities despawned before the
// flush are skipped.
func (cb *CommandBuffer) Insert(e Entity, comp any) {
	cb.Do(func(ctx context.Context, w *World) {
		if !w.Alive(e) {
			ctxlog.FromContext(ctx).Debug("Deferred insert skipped, entity gone.", "entity", e)
			return
		}
		w.records[e.index].components[reflect.TypeOf(comp)] = comp
	})
}

// SetParent queues reparenting of e under parent.
func (cb *CommandBuffer) SetParent(e, parent Entity) {
	cb.Do(func(ctx context.Context, w *World) {
		if err := w.SetParent(e, parent); err != nil {
			ctxlog.FromContext(ctx).Error("Deferred reparent failed.", "entity", e, "error", err)
		}
	})
}

// Despawn queues removal of e and its subtree.
func (cb *CommandBuffer) Despawn(e Entity) {
	cb.Do(func(ctx context.Context, w *World) {
		if !w.Alive(e) {
			return
		}
		if err := w.Despawn(e); err != nil {
			ctxlog.FromContext(ctx).Error("Deferred despawn failed.", "entity", e, "error", err)
		}
	})
}

// Flush applies all queued operations in order and empties the buffer.
func (cb *CommandBuffer) Flush(ctx context.Context, w *World) {
	// Operations queued during the flush run in the same pass.
	for i := 0; i < len(cb.ops); i++ {
		cb.ops[i](ctx, w)
	}
	cb.ops = cb.ops[:0]
}

// Len returns the number of queued operations.
func (cb *CommandBuffer) Len() int {
	return len(cb.ops)
}
