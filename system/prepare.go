package system

import (
	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/stage"
)

// PrepareSystem resets every mover's budget and computes its candidate
// velocity for the tick.
type PrepareSystem struct{}

func NewPrepareSystem() *PrepareSystem { return &PrepareSystem{} }

func (s *PrepareSystem) Update(t *Tick) {
	if t == nil || t.Stage == nil {
		return
	}
	st := t.Stage
	strengths := t.Tuning.Strengths()
	phys := t.Tuning.Physics

	forEach(st, obj.KindPlayer, func(_ ecs.Entity, p *obj.Object) {
		p.ResetTick(strengths)
		p.VY += phys.Gravity
		handleLadder(st, p, t.Input, phys.PlayerSpeed)
		handlePortal(st, p)
		p.VX = t.Input.Horizontal() * phys.PlayerSpeed
	})

	forEach(st, obj.KindPushBlock, func(_ ecs.Entity, b *obj.Object) {
		b.VX = 0
		b.ResetTick(strengths)
		b.VY += phys.Gravity
		if onLadder(st, b) {
			b.VY = 0
		}
		handlePortal(st, b)
	})

	forEach(st, obj.KindMoveBlock, func(_ ecs.Entity, b *obj.Object) {
		blocked := b.NextBlock.Get(b.Ang.Side()).Valid()
		b.ResetTick(strengths)
		b.VX, b.VY = 0, 0
		if b.MoveBlock.IsActivated && !blocked {
			fx, fy := b.Ang.Facing()
			b.VX = fx * phys.MoveBlockSpeed
			b.VY = fy * phys.MoveBlockSpeed
		}
		handlePortal(st, b)
	})
}

// onLadder reports whether m's hitbox overlaps any ladder.
func onLadder(st *stage.Stage, m *obj.Object) bool {
	box := hitbox(m)
	on := false
	forEach(st, obj.KindLadder, func(_ ecs.Entity, l *obj.Object) {
		if !on && box.Overlaps(hitbox(l)) {
			on = true
		}
	})
	return on
}

// handleLadder lets a player overlapping a ladder climb instead of fall.
// Push blocks hang on ladders the same way but never climb.
func handleLadder(st *stage.Stage, p *obj.Object, in input.Snapshot, speed float64) {
	on := onLadder(st, p)
	p.Player.OnLadder = on
	if !on {
		return
	}
	switch {
	case in.Held.Has(input.Up) && !in.Held.Has(input.Down):
		p.VY = -speed
	case in.Held.Has(input.Down) && !in.Held.Has(input.Up):
		p.VY = speed
	default:
		p.VY = 0
	}
}

// handlePortal moves m to the far side of the first portal it is entering.
// A mover enters when the centre of its hitbox is inside the portal and it
// is moving into the portal's face. Portals are one tile square, so
// requiring the whole hitbox inside would only fire at exact alignment.
func handlePortal(st *stage.Stage, m *obj.Object) bool {
	cx, cy := hitbox(m).Center()
	entered := false
	forEach(st, obj.KindPortal, func(_ ecs.Entity, p *obj.Object) {
		if entered {
			return
		}
		r, ok := trigger(p)
		if !ok || !r.Contains(cx, cy) {
			return
		}
		fx, fy := p.Ang.Facing()
		if m.VX*fx+m.VY*fy >= -common.Epsilon {
			return
		}
		exit, ok := st.Get(p.Portal.Counterpart)
		if !ok {
			return
		}
		m.X, m.Y, m.VX, m.VY = stage.PortalExit(exit, m)
		entered = true
	})
	return entered
}
