package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/game"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/levels"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/stage"
)

type player struct {
	sim   *game.Game
	loop  *game.Loop
	hold  holdTracker
	names []string
	level int
	hint  string
	start time.Time
	clear bool
}

func newPlayer(tuning prefabs.Tuning, names []string, level, code string) (*player, error) {
	p := &player{
		sim:   game.New(tuning, log.StandardLogger()),
		names: names,
		start: time.Now(),
	}
	p.sim.OnComplete = func() { p.clear = true }
	p.loop = game.NewLoop(p.sim)
	if code != "" {
		p.level = -1
		return p, p.sim.LoadCode(code)
	}
	p.level = -1
	for i, n := range names {
		if n == level {
			p.level = i
		}
	}
	if p.level < 0 {
		return nil, fmt.Errorf("unknown level %q", level)
	}
	return p, p.load()
}

func (p *player) load() error {
	lvl, err := levels.Load(p.names[p.level])
	if err != nil {
		return err
	}
	if err := p.sim.Load(lvl.Objects); err != nil {
		return err
	}
	p.hint = lvl.Hint
	p.restart()
	return nil
}

func (p *player) restart() {
	p.loop.Reset()
	p.hold.reset()
	p.clear = false
}

func (p *player) step(delta int) {
	if len(p.names) == 0 {
		return
	}
	p.level = (max(p.level, 0) + delta + len(p.names)) % len(p.names)
	if err := p.load(); err != nil {
		log.WithError(err).Warn("load level")
	}
}

func (p *player) run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ticker := time.NewTicker(common.StepDuration)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !p.handle(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			p.sim.Input().Sync(p.hold.held(now))
			ms := float64(now.Sub(p.start)) / float64(time.Millisecond)
			if _, err := p.loop.Frame(ms); err != nil {
				return err
			}
			p.draw(screen)
		}
	}
}

// handle applies one terminal event and reports whether to keep playing.
func (p *player) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		name := tcell.KeyNames[ev.Key()]
		if ev.Key() == tcell.KeyRune {
			name = string(ev.Rune())
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				if err := p.sim.Reload(); err != nil {
					log.WithError(err).Warn("reload")
				}
				p.restart()
				return true
			case 'n':
				p.step(1)
				return true
			case 'p':
				p.step(-1)
				return true
			}
		}
		if d, ok := input.KeyDirection(name); ok {
			p.hold.press(d, now)
		}
	case *tcell.EventResize:
		// Redrawn on the next tick.
	}
	return true
}

var glyphs = map[obj.Kind]rune{
	obj.KindPlayer:    '@',
	obj.KindBlock:     '█',
	obj.KindLadder:    'H',
	obj.KindKey:       'k',
	obj.KindOneway:    '▔',
	obj.KindLever:     '/',
	obj.KindPushBlock: '▒',
	obj.KindPortal:    'O',
	obj.KindButton:    '_',
	obj.KindMoveBlock: '▓',
}

func style(o *obj.Object) tcell.Style {
	st := tcell.StyleDefault
	if o.Color == 0 || !common.ValidColor(o.Color) {
		return st.Foreground(tcell.ColorWhite)
	}
	c := common.Palette[o.Color]
	return st.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// glyph is the rune drawn for o, or 0 for nothing.
func glyph(o *obj.Object) rune {
	switch o.Texture() {
	case "block:deactivated", "oneway:deactivated", "moveBlock:off":
		return '·'
	case "lever:on":
		return '\\'
	case "button:on":
		return '▁'
	}
	return glyphs[o.Kind]
}

// cells lays the stage out on a grid two columns per tile wide.
func cells(s *stage.Stage, size int) [][]*obj.Object {
	grid := make([][]*obj.Object, size)
	for y := range grid {
		grid[y] = make([]*obj.Object, size*2)
	}
	put := func(o *obj.Object) {
		r := o.Bounds()
		for y := int(r.T()); y < size && float64(y) < r.B(); y++ {
			for x := int(r.L() * 2); x < size*2 && float64(x) < r.R()*2; x++ {
				if y >= 0 && x >= 0 {
					grid[y][x] = o
				}
			}
		}
	}
	for _, e := range s.Entities() {
		if o, ok := s.Get(e); ok && o.Kind != obj.KindPlayer {
			put(o)
		}
	}
	for _, e := range s.OfKind(obj.KindPlayer) {
		if o, ok := s.Get(e); ok {
			put(o)
		}
	}
	return grid
}

func (p *player) draw(screen tcell.Screen) {
	screen.Clear()
	size := int(p.sim.Tuning().MapBlockLen)
	for y, row := range cells(p.sim.Stage(), size) {
		for x, o := range row {
			if o == nil {
				screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
				continue
			}
			screen.SetContent(x, y, glyph(o), nil, style(o))
		}
	}

	name := "custom"
	if p.level >= 0 {
		name = p.names[p.level]
	}
	status := fmt.Sprintf("stage %s  tick %d", name, p.sim.Ticks())
	if p.clear {
		status += "  STAGE CLEAR  n: next"
	}
	drawText(screen, 0, size, status)
	drawText(screen, 0, size+1, p.hint)
	drawText(screen, 0, size+2, "arrows/wasd move  r restart  n/p level  q quit")
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, s string) {
	for i, r := range []rune(strings.TrimSpace(s)) {
		screen.SetContent(x+i, y, r, nil, tcell.StyleDefault)
	}
}
