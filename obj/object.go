package obj

import (
	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/ecs"
)

// Sides holds one value per edge.
type Sides[V any] struct {
	T, B, L, R V
}

func Uniform[V any](v V) Sides[V] {
	return Sides[V]{T: v, B: v, L: v, R: v}
}

func (s *Sides[V]) Get(side common.Side) V {
	switch side {
	case common.Top:
		return s.T
	case common.Bottom:
		return s.B
	case common.Left:
		return s.L
	default:
		return s.R
	}
}

func (s *Sides[V]) Set(side common.Side, v V) {
	switch side {
	case common.Top:
		s.T = v
	case common.Bottom:
		s.B = v
	case common.Left:
		s.L = v
	default:
		s.R = v
	}
}

// Strengths are the per-tick push budgets of the movable kinds and of blocks.
type Strengths struct {
	Player    int
	Block     int
	PushBlock int
	MoveBlock int
}

func DefaultStrengths() Strengths {
	return Strengths{
		Player:    common.PlayerStrength,
		Block:     common.BlockStrength,
		PushBlock: common.PushBlockStrength,
		MoveBlock: common.MoveBlockStrength,
	}
}

// For returns the strength of kind k, or 0 for kinds that have none.
func (s Strengths) For(k Kind) int {
	switch k {
	case KindPlayer:
		return s.Player
	case KindBlock:
		return s.Block
	case KindPushBlock:
		return s.PushBlock
	case KindMoveBlock:
		return s.MoveBlock
	}
	return 0
}

type LeverState struct {
	IsBeingContacted bool
	On               bool
}

type ButtonState struct {
	IsPressed bool
}

type MoveBlockState struct {
	IsActivated bool
}

type PortalState struct {
	Tag         string
	Counterpart ecs.Entity
}

// Object is one simulated thing on the field. Kind selects which of the
// payload pointers is set.
type Object struct {
	Kind  Kind
	X, Y  float64
	W, H  float64
	Ang   common.Angle
	Color int
	Solid bool

	VX, VY    float64
	Strength  Sides[int]
	NextBlock Sides[ecs.Entity]

	Hitboxes    []common.Box
	Triggers    []common.Box
	SpriteBoxes []common.Box

	Player    *PlayerState
	Lever     *LeverState
	Button    *ButtonState
	MoveBlock *MoveBlockState
	Portal    *PortalState
}

// New builds an object from a validated descriptor.
func New(d Descriptor) (*Object, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	kind, _ := KindOf(d.GID)
	o := &Object{
		Kind:  kind,
		X:     d.X,
		Y:     d.Y,
		W:     d.W,
		H:     d.H,
		Ang:   d.Ang,
		Color: d.Color,
	}

	switch kind {
	case KindPlayer:
		o.Solid = true
		o.Player = &PlayerState{Anim: AnimStatic}
	case KindBlock:
		o.Solid = d.GID == GIDBlock
	case KindPushBlock:
		o.Solid = true
	case KindMoveBlock:
		o.Solid = true
		o.MoveBlock = &MoveBlockState{IsActivated: d.GID == GIDMoveBlockOn}
	case KindLever:
		o.Lever = &LeverState{}
	case KindButton:
		o.Button = &ButtonState{}
	case KindPortal:
		o.Portal = &PortalState{Tag: d.Tag}
	case KindLadder, KindKey, KindOneway:
	}
	o.buildBoxes()
	return o, nil
}

// localSize is the object's extent before rotation.
func (o *Object) localSize() (float64, float64) {
	if o.Ang.Quarter() {
		return o.H, o.W
	}
	return o.W, o.H
}

func (o *Object) buildBoxes() {
	lw, lh := o.localSize()
	full := common.Box{W: lw, H: lh}
	var hit, trig, sprite []common.Box

	switch o.Kind {
	case KindPlayer:
		hit = []common.Box{full}
		trig = []common.Box{full}
		sprite = []common.Box{full}
	case KindBlock, KindPushBlock, KindMoveBlock, KindLadder, KindOneway:
		hit = []common.Box{full}
		sprite = []common.Box{full}
	case KindKey, KindLever:
		trig = []common.Box{full}
		sprite = []common.Box{full}
	case KindButton:
		trig = []common.Box{{RelY: lh * 0.75, W: lw, H: lh * 0.25}}
		sprite = []common.Box{full}
	case KindPortal:
		frame := full
		trig = []common.Box{full}
		sprite = []common.Box{frame, {W: lw, H: lh * 0.25, Origin: &frame}}
	}

	o.Hitboxes = rotateAll(hit, o.Ang, lw, lh)
	o.Triggers = rotateAll(trig, o.Ang, lw, lh)
	o.SpriteBoxes = rotateAll(sprite, o.Ang, lw, lh)
}

func rotateAll(boxes []common.Box, ang common.Angle, w, h float64) []common.Box {
	if len(boxes) == 0 {
		return nil
	}
	out := make([]common.Box, len(boxes))
	for i, b := range boxes {
		out[i] = common.Rotate(b, ang, w, h)
	}
	return out
}

func (o *Object) Movable() bool {
	return o.Kind.Movable()
}

// Bounds is the object's own rectangle.
func (o *Object) Bounds() common.Rect {
	return common.Rect{X: o.X, Y: o.Y, W: o.W, H: o.H}
}

// Hitbox returns the world rectangle covering every hitbox.
func (o *Object) Hitbox() (common.Rect, bool) {
	return o.cover(o.Hitboxes)
}

// Trigger returns the world rectangle covering every trigger.
func (o *Object) Trigger() (common.Rect, bool) {
	return o.cover(o.Triggers)
}

func (o *Object) cover(boxes []common.Box) (common.Rect, bool) {
	rects := make([]common.Rect, 0, len(boxes))
	for _, b := range boxes {
		rects = append(rects, b.At(o.X, o.Y))
	}
	return common.Bounds(rects...)
}

// ResetTick restores the strength budget and clears the blocking neighbours.
func (o *Object) ResetTick(s Strengths) {
	o.Strength = Uniform(s.For(o.Kind))
	o.NextBlock = Sides[ecs.Entity]{}
}

// Activate applies a colour broadcast to this object. It reports whether the
// object responded.
func (o *Object) Activate() bool {
	switch o.Kind {
	case KindMoveBlock:
		o.MoveBlock.IsActivated = !o.MoveBlock.IsActivated
		return true
	case KindBlock:
		o.Solid = !o.Solid
		return true
	case KindOneway:
		o.flip()
		return true
	case KindPlayer, KindLadder, KindKey, KindLever, KindPushBlock, KindPortal, KindButton:
	}
	return false
}

// flip turns a oneway around and shifts it by its hitbox extent so the
// passable face moves to the opposite edge.
func (o *Object) flip() {
	hb := o.Hitboxes[0]
	switch o.Ang {
	case common.Angle0:
		o.Y -= hb.H
	case common.Angle180:
		o.Y += hb.H
	case common.Angle90:
		o.X += hb.W
	case common.AngleNeg90:
		o.X -= hb.W
	}
	o.Ang = o.Ang.Opposite()
	o.buildBoxes()
}

// Texture names the render state of the object, such as "lever:on".
func (o *Object) Texture() string {
	state := "default"
	switch o.Kind {
	case KindPlayer:
		state = string(o.Player.Anim)
	case KindBlock:
		if !o.Solid {
			state = "deactivated"
		}
	case KindMoveBlock:
		state = onOff(o.MoveBlock.IsActivated)
	case KindLever:
		state = onOff(o.Lever.On)
	case KindButton:
		state = onOff(o.Button.IsPressed)
	case KindPortal:
		state = "front"
	case KindLadder, KindKey, KindOneway, KindPushBlock:
	}
	return o.Kind.String() + ":" + state
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// GID returns the record type id matching the object's current state.
func (o *Object) GID() int {
	switch o.Kind {
	case KindPlayer:
		return GIDPlayer
	case KindBlock:
		if o.Solid {
			return GIDBlock
		}
		return GIDBlockOff
	case KindLadder:
		return GIDLadder
	case KindKey:
		return GIDKey
	case KindOneway:
		return GIDOneway
	case KindLever:
		return GIDLever
	case KindPushBlock:
		return GIDPushBlock
	case KindPortal:
		return GIDPortal
	case KindButton:
		return GIDButton
	case KindMoveBlock:
		if o.MoveBlock.IsActivated {
			return GIDMoveBlockOn
		}
		return GIDMoveBlockOff
	}
	return 0
}

// Descriptor exports the object's current layout.
func (o *Object) Descriptor() Descriptor {
	d := Descriptor{
		GID:   o.GID(),
		X:     o.X,
		Y:     o.Y,
		W:     o.W,
		H:     o.H,
		Ang:   o.Ang,
		Color: o.Color,
	}
	if o.Portal != nil {
		d.Tag = o.Portal.Tag
	}
	return d
}
