package system

import (
	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/stage"
)

// CollisionSystem resolves candidate velocities against solid geometry.
//
// Every mover runs bottom, top, left and right checks once per pass, and
// there are as many passes as movers so the longest push chain can settle.
// A check looks only at the nearest neighbours the mover would run into
// along that axis. A neighbour is pushed when it is movable, not already
// blocked on that side, and the mover's remaining strength on the side is
// greater than the neighbour's strength on the opposite side. Otherwise the
// mover stops against it and records it in NextBlock.
type CollisionSystem struct{}

func NewCollisionSystem() *CollisionSystem { return &CollisionSystem{} }

func (s *CollisionSystem) Update(t *Tick) {
	if t == nil || t.Stage == nil {
		return
	}
	r := newResolver(t)
	for pass := 0; pass < len(r.movers); pass++ {
		for _, e := range r.movers {
			m, ok := r.st.Get(e)
			if !ok {
				continue
			}
			r.check(e, m, common.Bottom)
			if m.Kind == obj.KindPlayer {
				r.jump(m)
			}
			r.check(e, m, common.Top)
			r.check(e, m, common.Left)
			r.check(e, m, common.Right)
		}
	}
	forEach(r.st, obj.KindPlayer, func(e ecs.Entity, p *obj.Object) {
		r.check(e, p, common.Top)
	})
}

type pair struct {
	mover, other ecs.Entity
}

type resolver struct {
	st     *stage.Stage
	tick   *Tick
	movers []ecs.Entity
	pushed map[pair]bool
}

func newResolver(t *Tick) *resolver {
	return &resolver{
		st:     t.Stage,
		tick:   t,
		movers: t.Stage.Movers(),
		pushed: map[pair]bool{},
	}
}

// contact is a neighbour the mover reaches this tick along one side.
type contact struct {
	e       ecs.Entity
	o       *obj.Object
	gap     float64
	overlap float64
}

// axisVel returns v projected on the axis of side, signed so that moving
// toward the side is positive.
func axisVel(o *obj.Object, side common.Side) float64 {
	if side.Vertical() {
		return side.Sign() * o.VY
	}
	return side.Sign() * o.VX
}

func setAxisVel(o *obj.Object, side common.Side, v float64) {
	if side.Vertical() {
		o.VY = side.Sign() * v
		return
	}
	o.VX = side.Sign() * v
}

// sweepRect is the box used for a check on side. Horizontal checks see the
// object after its vertical motion.
func sweepRect(o *obj.Object, side common.Side) common.Rect {
	r := hitbox(o)
	if side.Vertical() {
		return r
	}
	return r.Translate(0, o.VY)
}

// gapTo is the free distance between m's side and n's facing edge.
func gapTo(m, n common.Rect, side common.Side) float64 {
	switch side {
	case common.Bottom:
		return n.T() - m.B()
	case common.Top:
		return m.T() - n.B()
	case common.Right:
		return n.L() - m.R()
	default:
		return m.L() - n.R()
	}
}

// solidAgainst reports whether n can stop m on side.
func (r *resolver) solidAgainst(m, n *obj.Object, side common.Side) bool {
	switch n.Kind {
	case obj.KindLadder:
		if side != common.Bottom {
			return false
		}
		if m.Kind == obj.KindPlayer && r.tick.Input.Held.Has(input.Down) {
			return false
		}
		return true
	case obj.KindOneway:
		return side == n.Ang.Side().Opposite()
	case obj.KindKey, obj.KindLever, obj.KindPortal, obj.KindButton:
		return false
	case obj.KindPlayer, obj.KindBlock, obj.KindPushBlock, obj.KindMoveBlock:
	}
	return n.Solid
}

// front finds the nearest neighbours m runs into on side this tick, in stage
// order. Only a mover heading toward side can hit anything; a neighbour
// closing in on a still mover is handled by that neighbour's own check.
// resting holds neighbours m touches without closing on them.
func (r *resolver) front(e ecs.Entity, m *obj.Object, side common.Side) (hits, resting []contact) {
	mr := sweepRect(m, side)
	fm := axisVel(m, side)
	best := 0.0
	for _, ne := range r.st.Entities() {
		if ne == e {
			continue
		}
		n, ok := r.st.Get(ne)
		if !ok || len(n.Hitboxes) == 0 || !r.solidAgainst(m, n, side) {
			continue
		}
		nr := sweepRect(n, side)
		overlap := mr.SpanOverlap(nr, side)
		if overlap <= common.Epsilon {
			continue
		}
		gap := gapTo(mr, nr, side)
		if gap < -common.Epsilon {
			continue
		}
		rel := fm - axisVel(n, side)
		c := contact{e: ne, o: n, gap: gap, overlap: overlap}
		switch {
		case fm > common.Epsilon && rel > gap+common.Epsilon:
			switch {
			case len(hits) == 0 || gap < best-common.Epsilon:
				hits = append(hits[:0], c)
				best = gap
			case gap <= best+common.Epsilon:
				hits = append(hits, c)
			}
		case rel >= gap-common.Epsilon && gap <= common.Epsilon:
			resting = append(resting, c)
		}
	}
	return hits, resting
}

func (r *resolver) check(e ecs.Entity, m *obj.Object, side common.Side) {
	hits, resting := r.front(e, m, side)
	if side == common.Bottom {
		for _, c := range resting {
			if !r.pushed[pair{e, c.e}] {
				m.NextBlock.B = c.e
			}
		}
	}

	for _, c := range hits {
		fm := axisVel(m, side)
		fn := axisVel(c.o, side)
		if fm-fn <= c.gap+common.Epsilon {
			continue
		}
		if r.slideCorner(e, m, c, side) {
			continue
		}
		opp := side.Opposite()
		if c.o.Movable() && !c.o.NextBlock.Get(side).Valid() && m.Strength.Get(side) > c.o.Strength.Get(opp) {
			rem := m.Strength.Get(side) - c.o.Strength.Get(opp)
			m.Strength.Set(side, rem)
			if c.o.Strength.Get(side) > rem {
				c.o.Strength.Set(side, rem)
			}
			setAxisVel(c.o, side, fm-c.gap)
			r.pushed[pair{e, c.e}] = true
			continue
		}
		setAxisVel(m, side, c.gap+fn)
		m.NextBlock.Set(side, c.e)
	}
}

// slideCorner nudges m around the corner of a static neighbour it clips by
// no more than the corner length, instead of stopping it.
func (r *resolver) slideCorner(e ecs.Entity, m *obj.Object, c contact, side common.Side) bool {
	if c.o.Movable() || c.o.Kind == obj.KindLadder || c.o.Kind == obj.KindOneway {
		return false
	}
	var limit float64
	switch {
	case m.Kind == obj.KindPlayer && side == common.Top:
		limit = r.tick.Tuning.Physics.CornerLen
	case m.Kind != obj.KindPlayer && !side.Vertical():
		limit = r.tick.Tuning.Physics.MoveObjCornerLen
	default:
		return false
	}
	if c.overlap > limit+common.Epsilon {
		return false
	}

	mr := sweepRect(m, side)
	nr := sweepRect(c.o, side)
	mx, my := mr.Center()
	nx, ny := nr.Center()
	dx, dy := 0.0, 0.0
	if side.Vertical() {
		dx = c.overlap
		if mx < nx {
			dx = -dx
		}
	} else {
		dy = c.overlap
		if my < ny {
			dy = -dy
		}
	}

	moved := mr.Translate(dx, dy)
	for _, oe := range r.st.Entities() {
		if oe == e {
			continue
		}
		o, ok := r.st.Get(oe)
		if !ok || len(o.Hitboxes) == 0 || !o.Solid {
			continue
		}
		if moved.Overlaps(sweepRect(o, side)) {
			return false
		}
	}
	m.X += dx
	m.Y += dy
	return true
}

// jump launches a player whose support chain ends on something other than a
// player. A player standing on a player that has not landed yet cannot jump.
// It runs on every pass.
func (r *resolver) jump(p *obj.Object) {
	if !r.tick.Input.Pressed.Has(input.Up) || p.Player.OnLadder {
		return
	}
	cur := p
	for i := 0; i <= len(r.movers); i++ {
		below, ok := r.st.Get(cur.NextBlock.B)
		if !ok {
			return
		}
		if below.Kind != obj.KindPlayer {
			p.VY = r.tick.Tuning.Physics.JumpSpeed
			p.Strength.T = r.tick.Tuning.Strength.Player
			return
		}
		cur = below
	}
}
