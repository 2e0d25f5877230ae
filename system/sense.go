package system

import (
	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/stage"
)

// SenseSystem handles keys, levers and buttons before anything moves.
type SenseSystem struct{}

func NewSenseSystem() *SenseSystem { return &SenseSystem{} }

func (s *SenseSystem) Update(t *Tick) {
	if t == nil || t.Stage == nil {
		return
	}
	st := t.Stage

	var playerTriggers []common.Rect
	forEach(st, obj.KindPlayer, func(_ ecs.Entity, p *obj.Object) {
		if r, ok := trigger(p); ok {
			playerTriggers = append(playerTriggers, r)
		}
	})

	forEach(st, obj.KindKey, func(e ecs.Entity, key *obj.Object) {
		r, ok := trigger(key)
		if !ok || !overlapsAny(r, playerTriggers) {
			return
		}
		_ = st.Remove(e, stage.ReasonKeyConsumed)
		st.Activate(key.Color)
	})

	forEach(st, obj.KindLever, func(_ ecs.Entity, lever *obj.Object) {
		r, ok := trigger(lever)
		contact := ok && overlapsAny(r, playerTriggers)
		if contact && !lever.Lever.IsBeingContacted {
			lever.Lever.On = !lever.Lever.On
			st.Activate(lever.Color)
		}
		lever.Lever.IsBeingContacted = contact
	})

	var moverBoxes []common.Rect
	forEachMover(st, func(_ ecs.Entity, m *obj.Object) {
		moverBoxes = append(moverBoxes, hitbox(m))
	})

	forEach(st, obj.KindButton, func(_ ecs.Entity, button *obj.Object) {
		r, ok := trigger(button)
		pressed := ok && overlapsAny(r, moverBoxes)
		if pressed == button.Button.IsPressed {
			return
		}
		button.Button.IsPressed = pressed
		st.Activate(button.Color)
	})
}
