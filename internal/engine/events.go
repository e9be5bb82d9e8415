package engine

// Events is a typed event queue in the style of an ECS event resource.
// Senders append, the owning system drains once per update. Queues are only
// touched from the engine's update goroutine, so no locking is needed.
type Events[T any] struct {
	queue []T
}

// Send appends an event to the queue.
func (ev *Events[T]) Send(v T) {
	ev.queue = append(ev.queue, v)
}

// Drain returns every queued event and empties the queue.
func (ev *Events[T]) Drain() []T {
	out := ev.queue
	ev.queue = nil
	return out
}

// Last empties the queue and returns only the most recent event, which is
// the behavior wanted by systems where later requests supersede earlier
// ones.
func (ev *Events[T]) Last() (T, bool) {
	var zero T
	if len(ev.queue) == 0 {
		return zero, false
	}
	v := ev.queue[len(ev.queue)-1]
	ev.queue = nil
	return v, true
}

// Len returns the number of queued events.
func (ev *Events[T]) Len() int {
	return len(ev.queue)
}
