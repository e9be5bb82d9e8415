package scene

import (
	"fmt"
	"reflect"
)

// Entity is an opaque handle to a record in a World. The zero value is
// NilEntity and never refers to a live record; generations start at 1 and are
// bumped on despawn so stale handles fail liveness checks.
type Entity struct {
	index      uint32
	generation uint32
}

// NilEntity is the zero Entity. Spawning with NilEntity as the parent creates
// a top-level entity.
var NilEntity = Entity{}

// String implements fmt.Stringer for log lines.
func (e Entity) String() string {
	if e == NilEntity {
		return "entity(nil)"
	}
	return fmt.Sprintf("entity(%d.%d)", e.index, e.generation)
}

// record is one slot in the arena.
type record struct {
	generation uint32
	alive      bool
	parent     Entity
	children   []Entity
	components map[reflect.Type]any
}

// World is the arena holding all entity records for one editor session. It is
// not safe for concurrent use; the engine accesses it only from its
// single-threaded update loop.
type World struct {
	records []record
	free    []uint32
}

// NewWorld returns an empty arena.
func NewWorld() *World {
	return &World{}
}

// Alive reports whether e refers to a live record.
func (w *World) Alive(e Entity) bool {
	if e == NilEntity || int(e.index) >= len(w.records) {
		return false
	}
	r := &w.records[e.index]
	return r.alive && r.generation == e.generation
}

// Spawn creates a new entity with the given components. If parent is not
// NilEntity it must refer to a live entity, otherwise an error is returned.
func (w *World) Spawn(parent Entity, comps ...any) (Entity, error) {
	if parent != NilEntity && !w.Alive(parent) {
		return NilEntity, fmt.Errorf("spawn: parent %v is not alive", parent)
	}

	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.records))
		w.records = append(w.records, record{})
	}

	r := &w.records[idx]
	r.generation++
	r.alive = true
	r.parent = parent
	r.children = nil
	r.components = make(map[reflect.Type]any, len(comps))

	e := Entity{index: idx, generation: r.generation}
	for _, c := range comps {
		r.components[reflect.TypeOf(c)] = c
	}
	if parent != NilEntity {
		p := &w.records[parent.index]
		p.children = append(p.children, e)
	}
	return e, nil
}

// Despawn removes e and all of its descendants from the arena.
func (w *World) Despawn(e Entity) error {
	if !w.Alive(e) {
		return fmt.Errorf("despawn: %v is not alive", e)
	}
	if p := w.records[e.index].parent; p != NilEntity && w.Alive(p) {
		w.detachChild(p, e)
	}
	w.despawnSubtree(e)
	return nil
}

func (w *World) despawnSubtree(e Entity) {
	r := &w.records[e.index]
	for _, c := range r.children {
		if w.Alive(c) {
			w.despawnSubtree(c)
		}
	}
	r.alive = false
	r.parent = NilEntity
	r.children = nil
	r.components = nil
	w.free = append(w.free, e.index)
}

// SetParent moves e under parent. The parent must be alive and must not be e
// itself or any descendant of e.
func (w *World) SetParent(e, parent Entity) error {
	if !w.Alive(e) {
		return fmt.Errorf("set parent: %v is not alive", e)
	}
	if !w.Alive(parent) {
		return fmt.Errorf("set parent: parent %v is not alive", parent)
	}
	if e == parent {
		return fmt.Errorf("set parent: %v cannot be its own parent", e)
	}
	// Walking up from the new parent must not reach e.
	for p := parent; p != NilEntity; p = w.records[p.index].parent {
		if p == e {
			return fmt.Errorf("set parent: %v is a descendant of %v, refusing cycle", parent, e)
		}
	}

	if old := w.records[e.index].parent; old != NilEntity && w.Alive(old) {
		w.detachChild(old, e)
	}
	w.records[e.index].parent = parent
	pr := &w.records[parent.index]
	pr.children = append(pr.children, e)
	return nil
}

func (w *World) detachChild(parent, child Entity) {
	pr := &w.records[parent.index]
	for i, c := range pr.children {
		if c == child {
			pr.children = append(pr.children[:i], pr.children[i+1:]...)
			return
		}
	}
}

// Parent returns the parent of e, or NilEntity and false for top-level or
// dead entities.
func (w *World) Parent(e Entity) (Entity, bool) {
	if !w.Alive(e) {
		return NilEntity, false
	}
	p := w.records[e.index].parent
	if p == NilEntity {
		return NilEntity, false
	}
	return p, true
}

// Children returns a copy of the ordered child list of e.
func (w *World) Children(e Entity) []Entity {
	if !w.Alive(e) {
		return nil
	}
	r := &w.records[e.index]
	out := make([]Entity, len(r.children))
	copy(out, r.children)
	return out
}

// Descendants walks the subtree below root breadth-first and returns every
// live descendant in deterministic order. The root itself is not included.
func (w *World) Descendants(root Entity) []Entity {
	if !w.Alive(root) {
		return nil
	}
	var out []Entity
	queue := append([]Entity(nil), w.records[root.index].children...)
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if !w.Alive(e) {
			continue
		}
		out = append(out, e)
		queue = append(queue, w.records[e.index].children...)
	}
	return out
}

// IsDescendant reports whether e lies strictly below root in the hierarchy.
func (w *World) IsDescendant(e, root Entity) bool {
	if !w.Alive(e) || !w.Alive(root) || e == root {
		return false
	}
	for p := w.records[e.index].parent; p != NilEntity; p = w.records[p.index].parent {
		if p == root {
			return true
		}
	}
	return false
}

// Len returns the number of live entities.
func (w *World) Len() int {
	n := 0
	for i := range w.records {
		if w.records[i].alive {
			n++
		}
	}
	return n
}
