package obj

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilepush/common"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		gid  int
		kind Kind
	}{
		{GIDPlayer, KindPlayer},
		{GIDBlock, KindBlock},
		{GIDBlockOff, KindBlock},
		{GIDLadder, KindLadder},
		{GIDKey, KindKey},
		{GIDOneway, KindOneway},
		{GIDPortal, KindPortal},
		{GIDLever, KindLever},
		{GIDPushBlock, KindPushBlock},
		{GIDButton, KindButton},
		{GIDMoveBlockOff, KindMoveBlock},
		{GIDMoveBlockOn, KindMoveBlock},
	}
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			k, err := KindOf(c.gid)
			require.NoError(t, err)
			assert.Equal(t, c.kind, k)
		})
	}

	_, err := KindOf(13)
	require.ErrorIs(t, err, ErrUnknownGID)
	assert.False(t, ValidGID(0))
}

func TestValidate(t *testing.T) {
	base := Descriptor{GID: GIDBlock, X: 1, Y: 2, W: 1, H: 1}
	cases := []struct {
		name  string
		mod   func(d *Descriptor)
		field string
	}{
		{"negative_width", func(d *Descriptor) { d.W = -1 }, "w"},
		{"zero_height", func(d *Descriptor) { d.H = 0 }, "h"},
		{"nan_x", func(d *Descriptor) { d.X = math.NaN() }, "x"},
		{"inf_y", func(d *Descriptor) { d.Y = math.Inf(1) }, "y"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := base
			c.mod(&d)
			_, err := New(d)
			var geomErr *InvalidGeometryError
			require.ErrorAs(t, err, &geomErr)
			assert.Equal(t, c.field, geomErr.Field)
		})
	}

	d := base
	d.Ang = 45
	assert.True(t, errors.Is(d.Validate(), ErrIllegalAngle))
	d = base
	d.Color = 9
	assert.True(t, errors.Is(d.Validate(), ErrColorRange))
	for _, tag := range []string{"A,B", "A;B"} {
		d = Descriptor{GID: GIDPortal, X: 1, Y: 2, W: 1, H: 1, Tag: tag}
		assert.ErrorIs(t, d.Validate(), ErrTagSeparator, tag)
	}
	require.NoError(t, base.Validate())
}

func TestNewPerKindState(t *testing.T) {
	off, err := New(Descriptor{GID: GIDBlockOff, W: 1, H: 1, Color: 2})
	require.NoError(t, err)
	assert.False(t, off.Solid)
	assert.Equal(t, "block:deactivated", off.Texture())

	mb, err := New(Descriptor{GID: GIDMoveBlockOn, W: 1, H: 1})
	require.NoError(t, err)
	require.NotNil(t, mb.MoveBlock)
	assert.True(t, mb.MoveBlock.IsActivated)
	assert.Equal(t, GIDMoveBlockOn, mb.GID())
	assert.True(t, mb.Movable())

	p, err := New(Descriptor{GID: GIDPortal, W: 1, H: 1, Tag: "A"})
	require.NoError(t, err)
	require.NotNil(t, p.Portal)
	assert.Equal(t, "A", p.Descriptor().Tag)
	assert.Len(t, p.SpriteBoxes, 2)

	key, err := New(Descriptor{GID: GIDKey, W: 1, H: 1})
	require.NoError(t, err)
	_, ok := key.Hitbox()
	assert.False(t, ok, "keys are not solid geometry")
	_, ok = key.Trigger()
	assert.True(t, ok)
}

func TestButtonTriggerFollowsAngle(t *testing.T) {
	cases := []struct {
		ang  common.Angle
		want common.Rect
	}{
		{common.Angle0, common.Rect{X: 4, Y: 5.75, W: 1, H: 0.25}},
		{common.Angle180, common.Rect{X: 4, Y: 5, W: 1, H: 0.25}},
		{common.Angle90, common.Rect{X: 4, Y: 5, W: 0.25, H: 1}},
		{common.AngleNeg90, common.Rect{X: 4.75, Y: 5, W: 0.25, H: 1}},
	}
	for _, c := range cases {
		t.Run(c.ang.Side().String(), func(t *testing.T) {
			b, err := New(Descriptor{GID: GIDButton, X: 4, Y: 5, W: 1, H: 1, Ang: c.ang})
			require.NoError(t, err)
			got, ok := b.Trigger()
			require.True(t, ok)
			assert.InDelta(t, c.want.X, got.X, common.Epsilon)
			assert.InDelta(t, c.want.Y, got.Y, common.Epsilon)
			assert.InDelta(t, c.want.W, got.W, common.Epsilon)
			assert.InDelta(t, c.want.H, got.H, common.Epsilon)
		})
	}
}

func TestActivate(t *testing.T) {
	block, _ := New(Descriptor{GID: GIDBlock, W: 1, H: 1, Color: 1})
	require.True(t, block.Activate())
	assert.False(t, block.Solid)
	assert.Equal(t, GIDBlockOff, block.GID())

	mb, _ := New(Descriptor{GID: GIDMoveBlockOff, W: 1, H: 1, Color: 1})
	require.True(t, mb.Activate())
	assert.True(t, mb.MoveBlock.IsActivated)
	assert.Equal(t, "moveBlock:on", mb.Texture())

	player, _ := New(Descriptor{GID: GIDPlayer, W: 1, H: 1})
	assert.False(t, player.Activate())
}

func TestOnewayFlip(t *testing.T) {
	cases := []struct {
		name   string
		ang    common.Angle
		w, h   float64
		wantX  float64
		wantY  float64
		wantAn common.Angle
	}{
		{"up", common.Angle0, 1, 0.25, 3, 2.75, common.Angle180},
		{"down", common.Angle180, 1, 0.25, 3, 3.25, common.Angle0},
		{"right", common.Angle90, 0.25, 1, 3.25, 3, common.AngleNeg90},
		{"left", common.AngleNeg90, 0.25, 1, 2.75, 3, common.Angle90},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o, err := New(Descriptor{GID: GIDOneway, X: 3, Y: 3, W: c.w, H: c.h, Ang: c.ang, Color: 4})
			require.NoError(t, err)
			require.True(t, o.Activate())
			assert.InDelta(t, c.wantX, o.X, common.Epsilon)
			assert.InDelta(t, c.wantY, o.Y, common.Epsilon)
			assert.Equal(t, c.wantAn, o.Ang)

			require.True(t, o.Activate())
			assert.InDelta(t, 3, o.X, common.Epsilon)
			assert.InDelta(t, 3, o.Y, common.Epsilon)
			assert.Equal(t, c.ang, o.Ang)
		})
	}
}

func TestResetTick(t *testing.T) {
	s := DefaultStrengths()
	cases := []struct {
		gid  int
		want int
	}{
		{GIDPlayer, common.PlayerStrength},
		{GIDPushBlock, common.PushBlockStrength},
		{GIDMoveBlockOff, common.MoveBlockStrength},
		{GIDBlock, common.BlockStrength},
		{GIDLadder, 0},
	}
	for _, c := range cases {
		o, err := New(Descriptor{GID: c.gid, W: 1, H: 1})
		require.NoError(t, err)
		o.Strength.Set(common.Left, 3)
		o.ResetTick(s)
		for _, side := range common.Sides {
			assert.Equal(t, c.want, o.Strength.Get(side), "%s %s", o.Kind, side)
		}
		assert.False(t, o.NextBlock.B.Valid())
	}
}

func TestUpdateAnim(t *testing.T) {
	p, _ := New(Descriptor{GID: GIDPlayer, W: 1, H: 1})
	assert.Equal(t, "player:static", p.Texture())

	p.VX = -0.08
	p.UpdateAnim()
	assert.Equal(t, AnimJump, p.Player.Anim, "no support below")
	assert.True(t, p.Player.FacingLeft)

	p.NextBlock.B = 7
	p.UpdateAnim()
	assert.Equal(t, AnimWalk, p.Player.Anim)

	p.VX = 0
	p.UpdateAnim()
	assert.Equal(t, AnimIdle, p.Player.Anim)
	assert.True(t, p.Player.FacingLeft, "facing is kept while standing")

	p.VY = -0.2
	p.UpdateAnim()
	assert.Equal(t, AnimJump, p.Player.Anim, "launching off the ground")

	p.VY = 0
	p.Player.OnLadder = true
	p.UpdateAnim()
	assert.Equal(t, AnimLadderIdle, p.Player.Anim)
}
