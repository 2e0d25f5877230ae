package system

import (
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/stage"
)

// IntegrateSystem applies the resolved velocities.
type IntegrateSystem struct{}

func NewIntegrateSystem() *IntegrateSystem { return &IntegrateSystem{} }

func (s *IntegrateSystem) Update(t *Tick) {
	if t == nil || t.Stage == nil {
		return
	}
	forEachMover(t.Stage, func(_ ecs.Entity, m *obj.Object) {
		if m.Kind == obj.KindPlayer {
			m.UpdateAnim()
		}
		m.X += m.VX
		m.Y += m.VY
	})
}

// GoalSystem removes movers that left the field and flags completion when
// the last player is gone.
type GoalSystem struct{}

func NewGoalSystem() *GoalSystem { return &GoalSystem{} }

func (s *GoalSystem) Update(t *Tick) {
	if t == nil || t.Stage == nil {
		return
	}
	st := t.Stage
	size := t.Tuning.MapBlockLen
	forEachMover(st, func(e ecs.Entity, m *obj.Object) {
		if !m.Bounds().Outside(size) {
			return
		}
		_ = st.Remove(e, stage.ReasonOutOfBounds)
		if m.Kind == obj.KindPlayer {
			t.PlayersRemoved++
		}
	})
	if t.PlayersRemoved > 0 && st.Count(obj.KindPlayer) == 0 {
		t.Completed = true
	}
}
