// Package system holds the phases of one simulation tick. Each phase is an
// ecs.System over a *Tick and they run in the order Schedule returns.
package system

import (
	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/stage"
)

// Tick is the context every phase reads and writes during one tick.
type Tick struct {
	Stage  *stage.Stage
	Input  input.Snapshot
	Tuning prefabs.Tuning
	Index  int

	// PlayersRemoved counts players that left the field this tick.
	PlayersRemoved int
	// Completed is set on the tick the last player leaves.
	Completed bool
}

// Schedule returns the phases in tick order.
func Schedule() []ecs.System[*Tick] {
	return []ecs.System[*Tick]{
		NewSenseSystem(),
		NewPrepareSystem(),
		NewCollisionSystem(),
		NewIntegrateSystem(),
		NewGoalSystem(),
	}
}

func forEach(s *stage.Stage, kind obj.Kind, fn func(e ecs.Entity, o *obj.Object)) {
	for _, e := range s.OfKind(kind) {
		o, ok := s.Get(e)
		if !ok {
			continue
		}
		fn(e, o)
	}
}

func forEachMover(s *stage.Stage, fn func(e ecs.Entity, o *obj.Object)) {
	for _, e := range s.Movers() {
		o, ok := s.Get(e)
		if !ok {
			continue
		}
		fn(e, o)
	}
}

func hitbox(o *obj.Object) common.Rect {
	if r, ok := o.Hitbox(); ok {
		return r
	}
	return o.Bounds()
}

func trigger(o *obj.Object) (common.Rect, bool) {
	return o.Trigger()
}

func overlapsAny(r common.Rect, rects []common.Rect) bool {
	for _, o := range rects {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}
