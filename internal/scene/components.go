package scene

import "reflect"

// Get returns the component of type T attached to e.
func Get[T any](w *World, e Entity) (T, bool) {
	var zero T
	if !w.Alive(e) {
		return zero, false
	}
	v, ok := w.records[e.index].components[reflect.TypeOf(zero)]
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// Has reports whether e carries a component of type T.
func Has[T any](w *World, e Entity) bool {
	_, ok := Get[T](w, e)
	return ok
}

// Set attaches or replaces the component of type T on e. It reports whether
// the entity was alive and the component was stored.
func Set[T any](w *World, e Entity, v T) bool {
	if !w.Alive(e) {
		return false
	}
	w.records[e.index].components[reflect.TypeOf(v)] = v
	return true
}

// Remove detaches the component of type T from e if present.
func Remove[T any](w *World, e Entity) {
	if !w.Alive(e) {
		return
	}
	var zero T
	delete(w.records[e.index].components, reflect.TypeOf(zero))
}

// Each calls fn for every live entity carrying a component of type T, in
// ascending arena-index order. Iteration stops early if fn returns false.
func Each[T any](w *World, fn func(Entity, T) bool) {
	var zero T
	key := reflect.TypeOf(zero)
	for i := range w.records {
		r := &w.records[i]
		if !r.alive {
			continue
		}
		v, ok := r.components[key]
		if !ok {
			continue
		}
		e := Entity{index: uint32(i), generation: r.generation}
		if !fn(e, v.(T)) {
			return
		}
	}
}
