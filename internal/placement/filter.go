package placement

import (
	"github.com/open-rmf/rmf-workcell/internal/scene"
	"github.com/open-rmf/rmf-workcell/internal/workcell"
)

// FilterTarget resolves a raw pick candidate to the element it selects, the
// way the placement workflows want to see it: pending and preview entities
// never match, and an entity carrying a Selectable redirects to its element.
// The walk ascends the hierarchy until something selectable is found.
func FilterTarget(w *scene.World, e scene.Entity) scene.Entity {
	for cur := e; w.Alive(cur); {
		if scene.Has[workcell.Pending](w, cur) || scene.Has[workcell.PreviewModel](w, cur) {
			return scene.NilEntity
		}
		if sel, ok := scene.Get[workcell.Selectable](w, cur); ok {
			if w.Alive(sel.Element) {
				return sel.Element
			}
			return scene.NilEntity
		}
		p, ok := w.Parent(cur)
		if !ok {
			return scene.NilEntity
		}
		cur = p
	}
	return scene.NilEntity
}
