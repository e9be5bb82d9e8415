// Package editor holds the shared mutable state of one editor session:
// the current workspace, the current selection, and the hovered entity.
// All of it is accessed only from the engine's single-threaded update loop.
package editor

import "github.com/open-rmf/rmf-workcell/internal/scene"

// CurrentWorkspace tracks which workcell root the user is editing.
type CurrentWorkspace struct {
	// Root is NilEntity when no workspace is active.
	Root scene.Entity
	// Name is the display name of the active workcell, empty when none.
	Name    string
	Display bool
}

// Selection is the entity the user currently has selected.
type Selection struct {
	Entity scene.Entity
}

// Hovered is the entity currently under the pointer, after filtering.
type Hovered struct {
	Entity scene.Entity
}

// State bundles the session state shared between editor modules.
type State struct {
	Workspace CurrentWorkspace
	Selection Selection
	Hovered   Hovered
}

// NewState returns an empty session state.
func NewState() *State {
	return &State{}
}
