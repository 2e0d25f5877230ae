package stage

import (
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/obj"
)

type EventKind uint8

const (
	EventRemoved EventKind = iota + 1
	EventActivated
)

func (k EventKind) String() string {
	switch k {
	case EventRemoved:
		return "removed"
	case EventActivated:
		return "activated"
	}
	return "unknown"
}

// Reason says why an object left the stage.
type Reason string

const (
	ReasonKeyConsumed Reason = "key_consumed"
	ReasonOutOfBounds Reason = "out_of_bounds"
	ReasonCounterpart Reason = "counterpart_removed"
	ReasonEdited      Reason = "edited"
)

// Event is a change a renderer or log may care about.
type Event struct {
	Kind   EventKind
	Entity ecs.Entity
	Object obj.Kind
	Reason Reason
	// Color is the broadcast channel for EventActivated.
	Color int
	// Toggled counts the objects that responded to an activation.
	Toggled int
}
