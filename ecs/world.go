package ecs

// World owns entities, one value per live entity, and an event queue.
type World[T, E any] struct {
	entities entityStore
	values   SparseSet[T]
	events   EventQueue[E]
}

// NewWorld creates an empty world.
func NewWorld[T, E any]() *World[T, E] {
	return &World[T, E]{}
}

// Spawn allocates an entity holding v.
func (w *World[T, E]) Spawn(v T) Entity {
	e := w.entities.create()
	w.values.Set(e, v)
	return e
}

// Despawn destroys e. It returns false for stale or unknown handles.
func (w *World[T, E]) Despawn(e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	w.values.Remove(e)
	return true
}

// IsAlive reports whether an entity handle is valid.
func (w *World[T, E]) IsAlive(e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

func (w *World[T, E]) Get(e Entity) (T, bool) {
	if !w.IsAlive(e) {
		var zero T
		return zero, false
	}
	return w.values.Get(e)
}

func (w *World[T, E]) Len() int {
	return w.values.Len()
}

// Entities returns the live entities in storage order.
func (w *World[T, E]) Entities() []Entity {
	return w.values.Entities()
}

// Events returns the world event queue.
func (w *World[T, E]) Events() *EventQueue[E] {
	if w == nil {
		return nil
	}
	return &w.events
}

// Reset drops every entity and pending event.
func (w *World[T, E]) Reset() {
	w.entities.reset()
	w.values.clear()
	w.events.flush()
}
