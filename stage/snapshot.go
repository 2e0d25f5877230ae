package stage

import (
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/obj"
)

// ObjectState is the render-facing view of one live object.
type ObjectState struct {
	Entity    ecs.Entity `json:"-"`
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	W         float64    `json:"w"`
	H         float64    `json:"h"`
	Ang       int        `json:"ang"`
	Color     int        `json:"color,omitempty"`
	Solid     bool       `json:"solid"`
	Activated bool       `json:"activated,omitempty"`
	Pressed   bool       `json:"pressed,omitempty"`
	On        bool       `json:"on,omitempty"`
	Tag       string     `json:"tag,omitempty"`
	Texture   string     `json:"texture"`
}

// Snapshot copies the state of every live object in load order.
func (s *Stage) Snapshot() []ObjectState {
	out := make([]ObjectState, 0, len(s.order))
	for _, e := range s.order {
		o, _ := s.world.Get(e)
		st := ObjectState{
			Entity:  e,
			ID:      e.String(),
			Kind:    o.Kind.String(),
			X:       o.X,
			Y:       o.Y,
			W:       o.W,
			H:       o.H,
			Ang:     int(o.Ang),
			Color:   o.Color,
			Solid:   o.Solid,
			Texture: o.Texture(),
		}
		switch o.Kind {
		case obj.KindMoveBlock:
			st.Activated = o.MoveBlock.IsActivated
		case obj.KindButton:
			st.Pressed = o.Button.IsPressed
		case obj.KindLever:
			st.On = o.Lever.On
		case obj.KindPortal:
			st.Tag = o.Portal.Tag
		case obj.KindPlayer, obj.KindBlock, obj.KindLadder, obj.KindKey, obj.KindOneway, obj.KindPushBlock:
		}
		out = append(out, st)
	}
	return out
}
