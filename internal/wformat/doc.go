// Package wformat defines the portable workcell document: the on-disk
// representation of one workcell's frames, joints, inertias and visual and
// collision models, keyed by the stable IDs assigned at save time.
//
// The JSON encoding is deterministic: map keys are sorted, so an unchanged
// hierarchy always serializes to the same bytes.
package wformat
