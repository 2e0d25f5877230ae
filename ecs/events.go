package ecs

// EventQueue is a simple FIFO queue.
type EventQueue[E any] struct {
	items []E
}

// Push adds an event.
func (q *EventQueue[E]) Push(evt E) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

func (q *EventQueue[E]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue[E]) Drain() []E {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue[E]) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
