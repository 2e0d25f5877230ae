package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/ecs"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/stage"
)

const tol = 1e-9

var (
	none  = input.Snapshot{}
	right = input.Snapshot{Held: input.Set(input.Right)}
	left  = input.Snapshot{Held: input.Set(input.Left)}
	up    = input.Snapshot{Held: input.Set(input.Up)}
	jump  = input.Snapshot{Held: input.Set(input.Up), Pressed: input.Set(input.Up)}
)

type harness struct {
	t      *testing.T
	st     *stage.Stage
	tuning prefabs.Tuning
	sched  *ecs.Scheduler[*Tick]
	index  int
}

func newHarness(t *testing.T, descs ...obj.Descriptor) *harness {
	t.Helper()
	tuning := prefabs.DefaultTuning()
	st := stage.New(tuning.Strengths())
	require.NoError(t, st.Load(descs))
	return &harness{t: t, st: st, tuning: tuning, sched: ecs.NewScheduler(Schedule()...)}
}

func (h *harness) step(in input.Snapshot) *Tick {
	tk := &Tick{Stage: h.st, Input: in, Tuning: h.tuning, Index: h.index}
	h.sched.Update(tk)
	h.index++
	return tk
}

func (h *harness) run(n int, in input.Snapshot) {
	for i := 0; i < n; i++ {
		h.step(in)
	}
}

func (h *harness) first(k obj.Kind) (ecs.Entity, *obj.Object) {
	h.t.Helper()
	ents := h.st.OfKind(k)
	require.NotEmpty(h.t, ents, "no %s", k)
	o, ok := h.st.Get(ents[0])
	require.True(h.t, ok)
	return ents[0], o
}

func (h *harness) nth(k obj.Kind, i int) (ecs.Entity, *obj.Object) {
	h.t.Helper()
	ents := h.st.OfKind(k)
	require.Greater(h.t, len(ents), i)
	o, ok := h.st.Get(ents[i])
	require.True(h.t, ok)
	return ents[i], o
}

func tile(gid int, x, y float64) obj.Descriptor {
	return obj.Descriptor{GID: gid, X: x, Y: y, W: 1, H: 1}
}

func floor(y float64) obj.Descriptor {
	return obj.Descriptor{GID: obj.GIDBlock, X: 0, Y: y, W: common.MapBlockLen, H: 1}
}

func TestPlayerLandsAndRests(t *testing.T) {
	h := newHarness(t, tile(obj.GIDPlayer, 3, 10), floor(14))
	h.run(120, none)

	fe, _ := h.first(obj.KindBlock)
	_, p := h.first(obj.KindPlayer)
	assert.InDelta(t, 13, p.Y, tol)
	assert.Equal(t, fe, p.NextBlock.B)
	assert.Equal(t, obj.AnimIdle, p.Player.Anim)
}

func TestStrengthResetsEveryTick(t *testing.T) {
	h := newHarness(t,
		tile(obj.GIDPlayer, 0, 13),
		tile(obj.GIDPushBlock, 1, 13),
		floor(14),
	)
	h.run(3, right)

	_, p := h.first(obj.KindPlayer)
	_, pb := h.first(obj.KindPushBlock)
	assert.Less(t, p.Strength.R, common.PlayerStrength, "pushing spends strength")

	NewPrepareSystem().Update(&Tick{Stage: h.st, Input: right, Tuning: h.tuning})
	for _, side := range common.Sides {
		assert.Equal(t, common.PlayerStrength, p.Strength.Get(side), "player %s", side)
		assert.Equal(t, common.PushBlockStrength, pb.Strength.Get(side), "push block %s", side)
	}
}

func TestPlayerPushesOneBlock(t *testing.T) {
	h := newHarness(t,
		tile(obj.GIDPlayer, 0, 13),
		tile(obj.GIDPushBlock, 1, 13),
		floor(14),
	)
	h.run(10, right)

	_, p := h.first(obj.KindPlayer)
	_, pb := h.first(obj.KindPushBlock)
	assert.InDelta(t, 0.8, p.X, tol)
	assert.InDelta(t, 1.8, pb.X, tol)
	assert.InDelta(t, 13, pb.Y, tol)
}

func TestPlayerCannotPushTwoBlocks(t *testing.T) {
	h := newHarness(t,
		tile(obj.GIDPlayer, 0, 13),
		tile(obj.GIDPushBlock, 1, 13),
		tile(obj.GIDPushBlock, 2, 13),
		floor(14),
	)
	h.run(10, right)

	_, p := h.first(obj.KindPlayer)
	e1, pb1 := h.nth(obj.KindPushBlock, 0)
	e2, pb2 := h.nth(obj.KindPushBlock, 1)
	assert.InDelta(t, 0, p.X, tol)
	assert.InDelta(t, 1, pb1.X, tol)
	assert.InDelta(t, 2, pb2.X, tol)
	assert.Equal(t, e1, p.NextBlock.R)
	assert.Equal(t, e2, pb1.NextBlock.R)
}

func TestMoveBlockPushesPlayerAndBlock(t *testing.T) {
	// A move block has strength for a player but not for a player plus a
	// push block.
	mb := obj.Descriptor{GID: obj.GIDMoveBlockOn, X: 0, Y: 13, W: 1, H: 1, Ang: common.Angle90, Color: 1}
	h := newHarness(t, mb, tile(obj.GIDPlayer, 1, 13), floor(14))
	h.run(10, none)
	_, m := h.first(obj.KindMoveBlock)
	_, p := h.first(obj.KindPlayer)
	assert.InDelta(t, 0.4, m.X, tol)
	assert.InDelta(t, 1.4, p.X, tol)

	h = newHarness(t, mb, tile(obj.GIDPlayer, 1, 13), tile(obj.GIDPushBlock, 2, 13), floor(14))
	h.run(10, none)
	_, m = h.first(obj.KindMoveBlock)
	_, p = h.first(obj.KindPlayer)
	assert.InDelta(t, 0, m.X, tol)
	assert.InDelta(t, 1, p.X, tol)
}

func TestBlockStopsPlayer(t *testing.T) {
	h := newHarness(t, tile(obj.GIDPlayer, 0, 13), tile(obj.GIDBlock, 3, 13), floor(14))
	h.run(60, right)

	we, _ := h.nth(obj.KindBlock, 0)
	_, p := h.first(obj.KindPlayer)
	assert.InDelta(t, 2, p.X, tol)
	assert.Equal(t, we, p.NextBlock.R)
}

func TestJumpOnlyFromSupport(t *testing.T) {
	h := newHarness(t, tile(obj.GIDPlayer, 3, 13), floor(14))
	h.run(2, none)
	_, p := h.first(obj.KindPlayer)

	h.step(jump)
	assert.InDelta(t, 12.8, p.Y, tol)
	assert.InDelta(t, common.JumpSpeed, p.VY, tol)
	assert.Equal(t, obj.AnimJump, p.Player.Anim)

	h.step(jump)
	assert.InDelta(t, common.JumpSpeed+common.Gravity, p.VY, tol, "no jump in mid air")

	h.run(120, none)
	assert.InDelta(t, 13, p.Y, tol)
}

func TestNoJumpFromFallingPlayer(t *testing.T) {
	h := newHarness(t, tile(obj.GIDPlayer, 5, 5), tile(obj.GIDPlayer, 5, 4), floor(14))
	_, top := h.nth(obj.KindPlayer, 1)

	h.step(jump)
	assert.Greater(t, top.VY, 0.0, "player on a falling player keeps falling")

	h.run(200, none)
	_, bottom := h.nth(obj.KindPlayer, 0)
	assert.InDelta(t, 13, bottom.Y, tol)
	assert.InDelta(t, 12, top.Y, tol)

	h.step(jump)
	assert.InDelta(t, common.JumpSpeed, top.VY, tol, "stack on the ground can jump")
	assert.InDelta(t, common.JumpSpeed, bottom.VY, tol)
}

func TestLadderClimb(t *testing.T) {
	h := newHarness(t,
		obj.Descriptor{GID: obj.GIDLadder, X: 3, Y: 10, W: 1, H: 4},
		tile(obj.GIDPlayer, 3, 13),
		floor(14),
	)
	_, p := h.first(obj.KindPlayer)
	h.run(10, up)
	assert.True(t, p.Player.OnLadder)
	assert.InDelta(t, 13-10*common.PlayerSpeed, p.Y, tol)
	assert.Equal(t, obj.AnimLadderMove, p.Player.Anim)

	y := p.Y
	h.step(none)
	assert.InDelta(t, y, p.Y, tol, "hangs when no key is held")

	h.run(200, up)
	assert.InDelta(t, 9, p.Y, tol, "stands on the ladder top")
}

func TestPushBlockHangsOnLadder(t *testing.T) {
	h := newHarness(t,
		obj.Descriptor{GID: obj.GIDLadder, X: 3, Y: 8, W: 1, H: 4},
		tile(obj.GIDPushBlock, 3, 9),
		tile(obj.GIDPushBlock, 8, 9),
		floor(14),
	)
	_, hung := h.nth(obj.KindPushBlock, 0)
	_, loose := h.nth(obj.KindPushBlock, 1)
	if hung.X != 3 {
		hung, loose = loose, hung
	}
	h.run(40, none)
	assert.InDelta(t, 9, hung.Y, tol, "block overlapping a ladder does not fall")
	assert.InDelta(t, 0, hung.VY, tol)
	assert.InDelta(t, 13, loose.Y, tol, "block away from ladders lands on the floor")
}

func TestOneway(t *testing.T) {
	panel := obj.Descriptor{GID: obj.GIDOneway, X: 3, Y: 10, W: 1, H: 0.25}
	h := newHarness(t, panel, tile(obj.GIDPlayer, 3, 7))
	h.run(100, none)
	oe, _ := h.first(obj.KindOneway)
	_, p := h.first(obj.KindPlayer)
	assert.InDelta(t, 9, p.Y, tol, "lands on the face")
	assert.Equal(t, oe, p.NextBlock.B)

	h = newHarness(t, panel, tile(obj.GIDPlayer, 3, 10.5), floor(11.5))
	h.run(2, none)
	_, p = h.first(obj.KindPlayer)
	h.step(jump)
	h.run(150, none)
	assert.InDelta(t, 9, p.Y, tol, "jumps up through the back and lands on top")
}

func TestKeyConsumedAndActivates(t *testing.T) {
	h := newHarness(t,
		tile(obj.GIDPlayer, 0, 13),
		obj.Descriptor{GID: obj.GIDKey, X: 2, Y: 13, W: 1, H: 1, Color: 1},
		obj.Descriptor{GID: obj.GIDBlock, X: 5, Y: 13, W: 1, H: 1, Color: 1},
		floor(14),
	)
	_, door := h.nth(obj.KindBlock, 0)
	h.st.Events()

	h.run(30, right)
	assert.Zero(t, h.st.Count(obj.KindKey))
	assert.False(t, door.Solid)

	var removed, activated int
	for _, ev := range h.st.Events() {
		switch ev.Kind {
		case stage.EventRemoved:
			removed++
			assert.Equal(t, stage.ReasonKeyConsumed, ev.Reason)
			assert.Equal(t, obj.KindKey, ev.Object)
		case stage.EventActivated:
			activated++
			assert.Equal(t, 1, ev.Color)
		}
	}
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, activated)

	h.run(60, right)
	_, p := h.first(obj.KindPlayer)
	assert.Greater(t, p.X, 5.0, "walks through the opened block")
}

func TestLeverIsEdgeTriggered(t *testing.T) {
	h := newHarness(t,
		obj.Descriptor{GID: obj.GIDLever, X: 3, Y: 13, W: 1, H: 1, Color: 2},
		obj.Descriptor{GID: obj.GIDBlock, X: 10, Y: 10, W: 1, H: 1, Color: 2},
		tile(obj.GIDPlayer, 3, 13),
		floor(14),
	)
	_, lever := h.first(obj.KindLever)
	_, door := h.nth(obj.KindBlock, 0)

	h.run(5, none)
	assert.True(t, lever.Lever.On)
	assert.True(t, lever.Lever.IsBeingContacted)
	assert.False(t, door.Solid, "fires once for sustained contact")

	h.run(30, right)
	assert.False(t, lever.Lever.IsBeingContacted)
	h.run(30, left)
	assert.False(t, lever.Lever.On, "second contact flips back")
	assert.True(t, door.Solid)
}

func TestButtonIsTwoWay(t *testing.T) {
	h := newHarness(t,
		obj.Descriptor{GID: obj.GIDButton, X: 3, Y: 13, W: 1, H: 1, Color: 3},
		obj.Descriptor{GID: obj.GIDBlock, X: 10, Y: 10, W: 1, H: 1, Color: 3},
		tile(obj.GIDPlayer, 3, 13),
		floor(14),
	)
	_, button := h.first(obj.KindButton)
	_, door := h.nth(obj.KindBlock, 0)

	h.run(5, none)
	assert.True(t, button.Button.IsPressed)
	assert.Equal(t, "button:on", button.Texture())
	assert.False(t, door.Solid)

	h.run(30, right)
	assert.False(t, button.Button.IsPressed)
	assert.Equal(t, "button:off", button.Texture())
	assert.True(t, door.Solid, "release restores the channel")
}

func TestMoveBlockStopsAtWall(t *testing.T) {
	h := newHarness(t,
		obj.Descriptor{GID: obj.GIDMoveBlockOn, X: 0, Y: 5, W: 1, H: 1, Ang: common.Angle90},
		tile(obj.GIDBlock, 3, 5),
	)
	h.run(100, none)
	_, m := h.first(obj.KindMoveBlock)
	assert.InDelta(t, 2, m.X, tol)
	assert.InDelta(t, 5, m.Y, tol, "move blocks ignore gravity")
}

func TestPortalTeleports(t *testing.T) {
	h := newHarness(t,
		tile(obj.GIDPlayer, 2, 13),
		obj.Descriptor{GID: obj.GIDPortal, X: 5, Y: 13, W: 1, H: 1, Ang: common.AngleNeg90, Tag: "A"},
		obj.Descriptor{GID: obj.GIDPortal, X: 9, Y: 3, W: 1, H: 1, Ang: common.Angle90, Tag: "A"},
		floor(14),
	)
	_, p := h.first(obj.KindPlayer)
	for i := 0; i < 100 && p.X < 9; i++ {
		h.step(right)
	}
	require.GreaterOrEqual(t, p.X, 9.0, "player never went through")
	assert.InDelta(t, 10+common.PlayerSpeed, p.X, tol)
	assert.InDelta(t, 3, p.Y, tol)
}

func TestPortalIgnoresMoverLeavingFace(t *testing.T) {
	h := newHarness(t,
		tile(obj.GIDPlayer, 5.5, 13),
		obj.Descriptor{GID: obj.GIDPortal, X: 5, Y: 13, W: 1, H: 1, Ang: common.Angle90, Tag: "A"},
		obj.Descriptor{GID: obj.GIDPortal, X: 9, Y: 3, W: 1, H: 1, Ang: common.AngleNeg90, Tag: "A"},
		floor(14),
	)
	_, p := h.first(obj.KindPlayer)
	h.run(3, right)
	assert.Less(t, p.X, 9.0)
}

func TestWalkOffWithoutGravity(t *testing.T) {
	h := newHarness(t, tile(obj.GIDPlayer, 0, 0))
	h.tuning.Physics.Gravity = 0

	want := 0
	for x := 0.0; x <= common.MapBlockLen; x += common.PlayerSpeed {
		want++
	}
	require.GreaterOrEqual(t, want, 200)

	for i := 1; i < want; i++ {
		tk := h.step(right)
		require.False(t, tk.Completed, "completed early at tick %d", i)
	}
	tk := h.step(right)
	assert.True(t, tk.Completed)
	assert.Equal(t, 1, tk.PlayersRemoved)
	assert.Zero(t, h.st.Count(obj.KindPlayer))
}

func TestWalkOffAlongFloor(t *testing.T) {
	h := newHarness(t, tile(obj.GIDPlayer, 0, 0), floor(1))

	want := 0
	for x := 0.0; x <= common.MapBlockLen; x += common.PlayerSpeed {
		want++
	}
	for i := 1; i < want; i++ {
		require.False(t, h.step(right).Completed, "completed early at tick %d", i)
	}
	assert.True(t, h.step(right).Completed)
}

func TestCompletionWaitsForLastPlayer(t *testing.T) {
	h := newHarness(t,
		tile(obj.GIDPlayer, 14, 13),
		tile(obj.GIDPlayer, 10, 13),
		tile(obj.GIDPushBlock, 8, 3),
		floor(14),
	)

	sawFirst, completions := false, 0
	for i := 0; i < 400 && h.st.Count(obj.KindPlayer) > 0; i++ {
		tk := h.step(right)
		if tk.PlayersRemoved > 0 && h.st.Count(obj.KindPlayer) == 1 {
			sawFirst = true
			assert.False(t, tk.Completed)
		}
		if tk.Completed {
			completions++
		}
	}
	assert.True(t, sawFirst)
	assert.Equal(t, 1, completions)
}

func TestPushBlockFallsOutSilently(t *testing.T) {
	h := newHarness(t, tile(obj.GIDPlayer, 0, 13), tile(obj.GIDPushBlock, 8, 10), floor(14))
	// Drop the push block below the field.
	_, pb := h.first(obj.KindPushBlock)
	pb.Y = 16.5
	tk := h.step(none)
	assert.Zero(t, h.st.Count(obj.KindPushBlock))
	assert.False(t, tk.Completed)
	assert.Zero(t, tk.PlayersRemoved)
}

func TestDeterminism(t *testing.T) {
	descs := []obj.Descriptor{
		tile(obj.GIDPlayer, 0, 13),
		tile(obj.GIDPlayer, 0, 12),
		tile(obj.GIDPushBlock, 3, 13),
		tile(obj.GIDPushBlock, 6, 10),
		obj.Descriptor{GID: obj.GIDMoveBlockOff, X: 8, Y: 9, W: 1, H: 1, Ang: common.AngleNeg90, Color: 4},
		obj.Descriptor{GID: obj.GIDButton, X: 5, Y: 13, W: 1, H: 1, Color: 4},
		obj.Descriptor{GID: obj.GIDKey, X: 9, Y: 13, W: 1, H: 1, Color: 2},
		obj.Descriptor{GID: obj.GIDOneway, X: 11, Y: 12, W: 1, H: 0.25, Color: 2},
		floor(14),
	}
	inputs := make(input.Replay, 600)
	for i := range inputs {
		inputs[i] = right
		if i%37 == 0 {
			inputs[i] = jump
		}
		if i%90 > 70 {
			inputs[i] = left
		}
	}

	a := newHarness(t, descs...)
	b := newHarness(t, descs...)
	for i := range inputs {
		in, err := inputs.Next(i)
		require.NoError(t, err)
		ta := a.step(in)
		tb := b.step(in)
		require.Equal(t, ta.Completed, tb.Completed)
		require.Equal(t, a.st.Snapshot(), b.st.Snapshot(), "tick %d", i)
	}
}
