package game

import (
	"context"
	"fmt"

	"github.com/milk9111/tilepush/input"
)

// Run ticks the stage with input from src until it completes, maxTicks
// ticks have run or ctx is done. A maxTicks of zero or less means no limit.
// It returns the number of ticks run.
func (g *Game) Run(ctx context.Context, src input.Source, maxTicks int) (int, error) {
	if !g.Active() {
		return 0, ErrNotRunning
	}
	n := 0
	for g.status == StatusRunning {
		if maxTicks > 0 && n >= maxTicks {
			break
		}
		if err := ctx.Err(); err != nil {
			return n, err
		}
		in, err := src.Next(g.ticks)
		if err != nil {
			return n, fmt.Errorf("game: input for tick %d: %w", g.ticks, err)
		}
		if _, err := g.Tick(in); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
