package workcell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-rmf/rmf-workcell/internal/editor"
	"github.com/open-rmf/rmf-workcell/internal/engine"
	"github.com/open-rmf/rmf-workcell/internal/scene"
)

func newTestEngine(t *testing.T) (*engine.Engine, *Module, *editor.State) {
	t.Helper()
	state := editor.NewState()
	module := NewModule(state)
	registry := engine.NewRegistry()
	module.Register(registry)
	return engine.New(scene.NewWorld(), registry), module, state
}

func TestChangeCurrentWorkcell(t *testing.T) {
	t.Run("valid root becomes current", func(t *testing.T) {
		ctx, _ := testContext(t)
		eng, module, state := newTestEngine(t)
		root, err := eng.World().Spawn(scene.NilEntity, NameOfWorkcell{Name: "cell"})
		require.NoError(t, err)

		module.ChangeEvents.Send(ChangeCurrentWorkcell{Root: root})
		eng.Update(ctx)

		assert.Equal(t, root, state.Workspace.Root)
		assert.Equal(t, "cell", state.Workspace.Name)
		assert.True(t, state.Workspace.Display)
	})

	t.Run("unknown entity is rejected", func(t *testing.T) {
		ctx, logs := testContext(t)
		eng, module, state := newTestEngine(t)
		stranger, err := eng.World().Spawn(scene.NilEntity)
		require.NoError(t, err)

		module.ChangeEvents.Send(ChangeCurrentWorkcell{Root: stranger})
		eng.Update(ctx)

		assert.Equal(t, scene.NilEntity, state.Workspace.Root)
		assert.Contains(t, logs.String(), "not an open workcell")
	})

	t.Run("latest request wins", func(t *testing.T) {
		ctx, _ := testContext(t)
		eng, module, state := newTestEngine(t)
		a, _ := eng.World().Spawn(scene.NilEntity, NameOfWorkcell{Name: "a"})
		b, _ := eng.World().Spawn(scene.NilEntity, NameOfWorkcell{Name: "b"})

		module.ChangeEvents.Send(ChangeCurrentWorkcell{Root: a})
		module.ChangeEvents.Send(ChangeCurrentWorkcell{Root: b})
		eng.Update(ctx)

		assert.Equal(t, b, state.Workspace.Root)
	})
}

func TestAddVisualization(t *testing.T) {
	ctx, _ := testContext(t)
	eng, _, _ := newTestEngine(t)
	w := eng.World()
	root, err := w.Spawn(scene.NilEntity, NameOfWorkcell{Name: "cell"})
	require.NoError(t, err)

	eng.Update(ctx)

	var body scene.Entity
	found := false
	scene.Each(w, func(e scene.Entity, _ WorkcellVisualizationMarker) bool {
		body = e
		found = true
		return false
	})
	require.True(t, found, "a new workcell gets an origin marker")

	p, _ := w.Parent(body)
	assert.Equal(t, root, p)
	sel, ok := scene.Get[Selectable](w, body)
	require.True(t, ok)
	assert.Equal(t, root, sel.Element, "selecting the marker selects the workcell")
	assert.Len(t, w.Children(body), 3, "one orientation cue per axis")

	// A second update must not add another marker.
	eng.Update(ctx)
	count := 0
	scene.Each(w, func(e scene.Entity, _ WorkcellVisualizationMarker) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)
}

func TestVisualizationExcludedFromSave(t *testing.T) {
	ctx, _ := testContext(t)
	eng, _, _ := newTestEngine(t)
	w := eng.World()
	root, err := w.Spawn(scene.NilEntity, NameOfWorkcell{Name: "cell"})
	require.NoError(t, err)

	eng.Update(ctx)

	doc, diags, err := GenerateWorkcell(ctx, w, root)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Empty(t, doc.Visuals, "origin markers never appear in the document")
	assert.Empty(t, doc.Frames)
}
