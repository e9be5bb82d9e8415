// Package placement implements the interactive object-placement workflows:
// a continuous hover service that resolves raw pick candidates to selectable
// elements, and two finite workflows (place object, replace parent) driven by
// discrete input events.
//
// Each workflow is an explicit state machine with states Idle, AwaitingTarget,
// Committing and Cancelled. The driver system feeds it hover, commit and
// cancel inputs and tears the run down when it reaches a terminal state.
// Requests are dispatched asynchronously through an event queue; callers
// never observe a workflow's completion.
package placement
