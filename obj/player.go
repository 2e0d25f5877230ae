package obj

import "github.com/milk9111/tilepush/common"

// Anim is the animation a player is showing.
type Anim string

const (
	AnimStatic     Anim = "static"
	AnimIdle       Anim = "idle"
	AnimWalk       Anim = "walk"
	AnimJump       Anim = "jump"
	AnimLadderMove Anim = "ladderMove"
	AnimLadderIdle Anim = "ladderIdle"
)

type PlayerState struct {
	Anim       Anim
	FacingLeft bool
	OnLadder   bool
}

// UpdateAnim picks the animation from the motion settled this tick.
func (o *Object) UpdateAnim() {
	p := o.Player
	if p == nil {
		return
	}
	switch {
	case o.VX < 0:
		p.FacingLeft = true
	case o.VX > 0:
		p.FacingLeft = false
	}

	switch {
	case p.OnLadder && (o.VX != 0 || o.VY != 0):
		p.Anim = AnimLadderMove
	case p.OnLadder:
		p.Anim = AnimLadderIdle
	case !o.NextBlock.B.Valid() || o.VY < -common.Epsilon:
		p.Anim = AnimJump
	case o.VX != 0:
		p.Anim = AnimWalk
	default:
		p.Anim = AnimIdle
	}
}
