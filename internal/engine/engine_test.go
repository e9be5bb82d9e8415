package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-rmf/rmf-workcell/internal/scene"
)

func TestRegistry(t *testing.T) {
	t.Run("duplicate name panics", func(t *testing.T) {
		r := NewRegistry()
		r.AddSystem(StageUpdate, "a", func(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {})
		assert.Panics(t, func() {
			r.AddSystem(StageHover, "a", func(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {})
		})
	})

	t.Run("unknown stage panics", func(t *testing.T) {
		r := NewRegistry()
		assert.Panics(t, func() {
			r.AddSystem(Stage(99), "b", func(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {})
		})
	})
}

func TestUpdateRunsStagesInOrder(t *testing.T) {
	r := NewRegistry()
	var order []string
	record := func(name string) SystemFunc {
		return func(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {
			order = append(order, name)
		}
	}
	// Registered out of stage order on purpose.
	r.AddSystem(StagePostUpdate, "save", record("save"))
	r.AddSystem(StageHover, "hover", record("hover"))
	r.AddSystem(StageUpdate, "update", record("update"))
	r.AddSystem(StageSelect, "select", record("select"))

	e := New(scene.NewWorld(), r)
	e.Update(context.Background())

	assert.Equal(t, []string{"hover", "select", "update", "save"}, order)
	assert.Equal(t, uint64(1), e.Updates())
}

func TestUpdateFlushesCommands(t *testing.T) {
	r := NewRegistry()
	type marker struct{}
	r.AddSystem(StageUpdate, "spawner", func(ctx context.Context, w *scene.World, cb *scene.CommandBuffer) {
		if w.Len() == 0 {
			cb.Spawn(scene.NilEntity, []any{marker{}}, nil)
		}
	})

	e := New(scene.NewWorld(), r)
	e.Update(context.Background())

	require.Equal(t, 1, e.World().Len(), "deferred spawn applied at end of update")
}

func TestEvents(t *testing.T) {
	t.Run("drain empties the queue", func(t *testing.T) {
		var ev Events[int]
		ev.Send(1)
		ev.Send(2)
		assert.Equal(t, []int{1, 2}, ev.Drain())
		assert.Empty(t, ev.Drain())
	})

	t.Run("last supersedes earlier events", func(t *testing.T) {
		var ev Events[string]
		_, ok := ev.Last()
		assert.False(t, ok)

		ev.Send("a")
		ev.Send("b")
		v, ok := ev.Last()
		require.True(t, ok)
		assert.Equal(t, "b", v)
		assert.Equal(t, 0, ev.Len())
	})
}
