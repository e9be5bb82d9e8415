// Package scene implements the editor's entity arena and hierarchy.
//
// A World is an arena of entity records. Every record holds an index-based
// reference to its parent, an ordered list of children, and a mapping from
// component type to payload. Structural invariants are enforced on insertion:
// a parent must already exist and be alive, and no reparenting operation may
// introduce a cycle.
//
// Child lists preserve attach order and Descendants walks them breadth-first,
// so hierarchy traversal is deterministic for a given sequence of edits. The
// save pipeline relies on this to produce identical documents for an
// unchanged hierarchy.
package scene
