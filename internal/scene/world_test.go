package scene

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nameComp struct{ Name string }

type tagComp struct{}

func TestSpawn(t *testing.T) {
	t.Run("top level entity", func(t *testing.T) {
		w := NewWorld()
		e, err := w.Spawn(NilEntity, nameComp{Name: "root"})
		require.NoError(t, err)
		assert.True(t, w.Alive(e))

		got, ok := Get[nameComp](w, e)
		require.True(t, ok)
		assert.Equal(t, "root", got.Name)
	})

	t.Run("child entity is attached in order", func(t *testing.T) {
		w := NewWorld()
		root, err := w.Spawn(NilEntity)
		require.NoError(t, err)
		a, err := w.Spawn(root)
		require.NoError(t, err)
		b, err := w.Spawn(root)
		require.NoError(t, err)

		assert.Equal(t, []Entity{a, b}, w.Children(root))
		p, ok := w.Parent(a)
		require.True(t, ok)
		assert.Equal(t, root, p)
	})

	t.Run("dead parent is rejected", func(t *testing.T) {
		w := NewWorld()
		root, err := w.Spawn(NilEntity)
		require.NoError(t, err)
		require.NoError(t, w.Despawn(root))

		_, err = w.Spawn(root)
		require.Error(t, err)
	})
}

func TestDespawn(t *testing.T) {
	w := NewWorld()
	root, err := w.Spawn(NilEntity)
	require.NoError(t, err)
	child, err := w.Spawn(root)
	require.NoError(t, err)
	grandchild, err := w.Spawn(child)
	require.NoError(t, err)

	require.NoError(t, w.Despawn(child))

	assert.True(t, w.Alive(root))
	assert.False(t, w.Alive(child), "despawned entity must be dead")
	assert.False(t, w.Alive(grandchild), "despawn must be recursive")
	assert.Empty(t, w.Children(root))
}

func TestStaleHandle(t *testing.T) {
	w := NewWorld()
	e, err := w.Spawn(NilEntity)
	require.NoError(t, err)
	require.NoError(t, w.Despawn(e))

	// The slot is recycled; the stale handle must not see the new entity.
	e2, err := w.Spawn(NilEntity)
	require.NoError(t, err)
	assert.True(t, w.Alive(e2))
	assert.False(t, w.Alive(e))
	assert.False(t, Has[nameComp](w, e))
}

func TestSetParent(t *testing.T) {
	t.Run("reparents and preserves order", func(t *testing.T) {
		w := NewWorld()
		root, _ := w.Spawn(NilEntity)
		a, _ := w.Spawn(root)
		b, _ := w.Spawn(root)

		require.NoError(t, w.SetParent(b, a))
		assert.Equal(t, []Entity{a}, w.Children(root))
		assert.Equal(t, []Entity{b}, w.Children(a))
	})

	t.Run("rejects self parenting", func(t *testing.T) {
		w := NewWorld()
		e, _ := w.Spawn(NilEntity)
		require.Error(t, w.SetParent(e, e))
	})

	t.Run("rejects cycles", func(t *testing.T) {
		w := NewWorld()
		root, _ := w.Spawn(NilEntity)
		a, _ := w.Spawn(root)
		b, _ := w.Spawn(a)

		err := w.SetParent(root, b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})
}

func TestDescendants(t *testing.T) {
	w := NewWorld()
	root, _ := w.Spawn(NilEntity)
	a, _ := w.Spawn(root)
	b, _ := w.Spawn(root)
	a1, _ := w.Spawn(a)
	b1, _ := w.Spawn(b)

	want := []Entity{a, b, a1, b1}
	assert.Equal(t, want, w.Descendants(root), "breadth first, attach order")

	// Repeated walks of an unchanged hierarchy are identical.
	assert.Equal(t, w.Descendants(root), w.Descendants(root))

	assert.True(t, w.IsDescendant(b1, root))
	assert.False(t, w.IsDescendant(root, root))
	assert.False(t, w.IsDescendant(a, b))
}

func TestEach(t *testing.T) {
	w := NewWorld()
	root, _ := w.Spawn(NilEntity, nameComp{Name: "root"})
	_, _ = w.Spawn(root, tagComp{})
	c, _ := w.Spawn(root, nameComp{Name: "c"})

	var seen []string
	Each[nameComp](w, func(e Entity, n nameComp) bool {
		seen = append(seen, n.Name)
		return true
	})
	assert.Equal(t, []string{"root", "c"}, seen)

	Remove[nameComp](w, c)
	assert.False(t, Has[nameComp](w, c))
}

func TestCommandBuffer(t *testing.T) {
	ctx := context.Background()

	t.Run("spawn insert and flush", func(t *testing.T) {
		w := NewWorld()
		root, _ := w.Spawn(NilEntity)
		cb := NewCommandBuffer()

		var spawned Entity
		cb.Spawn(root, []any{nameComp{Name: "deferred"}}, func(ctx context.Context, w *World, e Entity) {
			spawned = e
		})
		assert.Equal(t, 1, cb.Len())
		assert.Equal(t, 0, len(w.Children(root)), "nothing happens before flush")

		cb.Flush(ctx, w)
		assert.Equal(t, 0, cb.Len())
		require.True(t, w.Alive(spawned))
		got, ok := Get[nameComp](w, spawned)
		require.True(t, ok)
		assert.Equal(t, "deferred", got.Name)
	})

	t.Run("insert on despawned entity is skipped", func(t *testing.T) {
		w := NewWorld()
		e, _ := w.Spawn(NilEntity)
		cb := NewCommandBuffer()
		cb.Insert(e, nameComp{Name: "late"})
		require.NoError(t, w.Despawn(e))

		cb.Flush(ctx, w)
		assert.False(t, Has[nameComp](w, e))
	})

	t.Run("ops queued during flush run in same pass", func(t *testing.T) {
		w := NewWorld()
		cb := NewCommandBuffer()
		ran := false
		cb.Do(func(ctx context.Context, w *World) {
			cb.Do(func(ctx context.Context, w *World) { ran = true })
		})
		cb.Flush(ctx, w)
		assert.True(t, ran)
	})
}
