package workcell

import (
	"context"
	"sort"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/wformat"
)

// LoadWorkcell instantiates a document into the scene and returns the new
// workcell root. Elements whose parent ID cannot be resolved are skipped with
// a diagnostic; loading never fails on a partial document.
func LoadWorkcell(ctx context.Context, w *scene.World, doc *wformat.Workcell) (scene.Entity, []Diagnostic) {
	logger := ctxlog.FromContext(ctx)

	root, err := w.Spawn(scene.NilEntity,
		NameOfWorkcell{Name: doc.Properties.Name},
		NameInWorkcell{Name: doc.Properties.Name},
	)
	if err != nil {
		// Spawning a top-level entity cannot fail; keep the contract anyway.
		logger.Error("Failed to spawn workcell root.", "error", err)
		return scene.NilEntity, []Diagnostic{{Detail: err.Error()}}
	}

	byID := map[uint32]scene.Entity{0: root}
	var diags []Diagnostic

	type element struct {
		id     uint32
		parent uint32
		spawn  func(parent scene.Entity) (scene.Entity, error)
	}
	var elements []element

	for id, f := range doc.Frames {
		frame := f
		elements = append(elements, element{id: id, parent: f.Parent, spawn: func(parent scene.Entity) (scene.Entity, error) {
			return w.Spawn(parent,
				FrameMarker{},
				NameInWorkcell{Name: frame.Bundle.Name},
				frame.Bundle.Anchor,
			)
		}})
	}
	for id, j := range doc.Joints {
		joint := j
		elements = append(elements, element{id: id, parent: j.Parent, spawn: func(parent scene.Entity) (scene.Entity, error) {
			return w.Spawn(parent,
				NameInWorkcell{Name: joint.Bundle.Name},
				joint.Bundle.Properties,
			)
		}})
	}
	for id, in := range doc.Inertias {
		inertia := in
		elements = append(elements, element{id: id, parent: in.Parent, spawn: func(parent scene.Entity) (scene.Entity, error) {
			return w.Spawn(parent,
				inertia.Bundle.Moment,
				Mass{Mass: inertia.Bundle.Mass},
				inertia.Bundle.Center,
			)
		}})
	}
	spawnModel := func(m wformat.Parented[wformat.Model], marker any) func(parent scene.Entity) (scene.Entity, error) {
		return func(parent scene.Entity) (scene.Entity, error) {
			comps := []any{
				marker,
				NameInWorkcell{Name: m.Bundle.Name},
				m.Bundle.Pose,
			}
			switch {
			case m.Bundle.Geometry.Mesh != nil:
				comps = append(comps, m.Bundle.Geometry.Mesh.Source)
				if m.Bundle.Geometry.Mesh.Scale != nil {
					comps = append(comps, Scale{Scale: *m.Bundle.Geometry.Mesh.Scale})
				}
			case m.Bundle.Geometry.Primitive != nil:
				comps = append(comps, *m.Bundle.Geometry.Primitive)
			}
			return w.Spawn(parent, comps...)
		}
	}
	for id, v := range doc.Visuals {
		elements = append(elements, element{id: id, parent: v.Parent, spawn: spawnModel(v, VisualMeshMarker{})})
	}
	for id, c := range doc.Collisions {
		elements = append(elements, element{id: id, parent: c.Parent, spawn: spawnModel(c, CollisionMeshMarker{})})
	}

	// Ascending ID order: stable IDs are assigned top-down, so a parent's ID
	// is always lower than its children's.
	sort.Slice(elements, func(i, j int) bool { return elements[i].id < elements[j].id })

	for _, el := range elements {
		parent, ok := byID[el.parent]
		if !ok {
			d := Diagnostic{Detail: "element references unknown parent ID"}
			logger.Error("Skipping element during workcell load.", "id", el.id, "parent_id", el.parent, "detail", d.Detail)
			diags = append(diags, d)
			continue
		}
		e, err := el.spawn(parent)
		if err != nil {
			logger.Error("Failed to spawn element during workcell load.", "id", el.id, "error", err)
			diags = append(diags, Diagnostic{Detail: err.Error()})
			continue
		}
		scene.Set(w, e, Selectable{Element: e})
		byID[el.id] = e
	}

	return root, diags
}
