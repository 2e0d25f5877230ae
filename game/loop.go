package game

import (
	"math"

	"github.com/milk9111/tilepush/common"
)

// Loop turns display frames into fixed steps of common.Step milliseconds.
// Press starts are cleared after every step, so a catch-up frame only lets
// its first step see them.
type Loop struct {
	game    *Game
	acc     float64
	prev    float64
	started bool
}

func NewLoop(g *Game) *Loop {
	return &Loop{game: g}
}

// Frame advances the game to the frame timestamp now, in milliseconds, and
// returns the number of ticks run. The first frame only records the time.
func (l *Loop) Frame(now float64) (int, error) {
	if l == nil || l.game == nil || !l.game.Active() {
		return 0, nil
	}
	if l.started {
		dt := math.Min(now-l.prev, common.MaxFrame)
		if dt > 0 {
			l.acc += dt
		}
	}
	l.prev = now
	l.started = true

	n := 0
	for l.acc >= common.Step && l.game.Active() {
		if _, err := l.game.Tick(l.game.input.Snapshot()); err != nil {
			return n, err
		}
		l.game.input.ClearPressed()
		l.acc -= common.Step
		n++
	}
	return n, nil
}

// Reset forgets the frame history, as after a pause.
func (l *Loop) Reset() {
	l.acc = 0
	l.prev = 0
	l.started = false
}
