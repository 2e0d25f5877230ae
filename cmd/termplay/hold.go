package main

import (
	"time"

	"github.com/milk9111/tilepush/input"
)

// holdWindow is how long a direction stays held after its last key event.
// Terminals report key repeats but never releases.
const holdWindow = 180 * time.Millisecond

type holdTracker struct {
	last [len(input.Directions)]time.Time
}

func (h *holdTracker) press(d input.Direction, now time.Time) {
	h.last[d] = now
}

func (h *holdTracker) held(now time.Time) input.Set {
	var s input.Set
	for _, d := range input.Directions {
		if !h.last[d].IsZero() && now.Sub(h.last[d]) < holdWindow {
			s = s.With(d)
		}
	}
	return s
}

func (h *holdTracker) reset() {
	*h = holdTracker{}
}
