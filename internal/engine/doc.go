// Package engine provides the editor's single-threaded update loop.
//
// Systems are registered by name into fixed stages and executed in stage
// order on every update, followed by a flush of the deferred command buffer.
// There is no concurrency: every system runs on the goroutine that calls
// Update, so shared editor state needs no locking.
//
// The registry is populated at startup by modules implementing the Module
// interface. Registering two systems under the same name is a programmer
// error and panics.
package engine
