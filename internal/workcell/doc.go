// Package workcell implements the workcell domain layer: the component types
// attached to scene entities, stable-ID assignment, projection of the live
// hierarchy into a portable document, the save/export driver, and the glue
// that reacts to workcell activation.
//
// The save pipeline is best-effort throughout: elements that cannot be
// projected are skipped with a diagnostic and a log line, and no request in a
// save batch can abort the rest of the batch.
package workcell
