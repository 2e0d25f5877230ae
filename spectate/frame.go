package spectate

import (
	"github.com/milk9111/tilepush/game"
	"github.com/milk9111/tilepush/stage"
)

// Frame is the state of a stage after a tick. Run identifies one play of a
// stage from load to reload.
type Frame struct {
	Run     string              `json:"run"`
	Tick    int                 `json:"tick"`
	Status  string              `json:"status"`
	Objects []stage.ObjectState `json:"objects"`
}

func FrameOf(g *game.Game) Frame {
	return Frame{
		Tick:    g.Ticks(),
		Status:  g.Status().String(),
		Objects: g.Stage().Snapshot(),
	}
}
