package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	log "github.com/sirupsen/logrus"
	"golang.design/x/clipboard"

	"github.com/milk9111/tilepush/game"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/levels"
	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/render"
	"github.com/milk9111/tilepush/spectate"
	"github.com/milk9111/tilepush/stagecode"
)

// ErrQuit ends the ebiten loop.
var ErrQuit = errors.New("quit")

type Options struct {
	Level      string
	Code       string
	Tuning     prefabs.Tuning
	TuningFile string
	Watch      bool
	Hub        *spectate.Hub
}

// Game is the desktop front end. It feeds keyboard state into the
// simulation and draws the stage.
type Game struct {
	sim  *game.Game
	loop *game.Loop
	opts Options

	levels []string
	level  int
	hint   string

	start   time.Time
	paused  bool
	quit    bool
	pauseUI *ebitenui.UI
	banner  *Banner
	toast   string
	toastAt time.Time

	watcher   *prefabs.Watcher
	clipboard bool
	view      *render.View
}

func NewGame(opts Options) (*Game, error) {
	g := &Game{
		opts:   opts,
		levels: levels.Names(),
		start:  time.Now(),
	}
	g.sim = game.New(opts.Tuning, log.StandardLogger())
	g.sim.OnComplete = g.onComplete
	g.loop = game.NewLoop(g.sim)
	g.view = render.NewView(opts.Tuning)

	if err := clipboard.Init(); err != nil {
		log.WithError(err).Warn("clipboard unavailable")
	} else {
		g.clipboard = true
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs", levels.Dir)
		if err != nil {
			log.WithError(err).Warn("hot reload disabled")
		} else {
			g.watcher = w
		}
	}

	if opts.Code != "" {
		if err := g.sim.LoadCode(opts.Code); err != nil {
			return nil, err
		}
		g.hint = ""
		g.level = -1
		return g, nil
	}
	g.level = g.indexOf(opts.Level)
	if g.level < 0 {
		return nil, fmt.Errorf("unknown level %q", opts.Level)
	}
	return g, g.loadLevel()
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) indexOf(name string) int {
	name = strings.TrimSuffix(filepath.Base(name), ".json")
	for i, n := range g.levels {
		if n == name {
			return i
		}
	}
	return -1
}

func (g *Game) loadLevel() error {
	lvl, err := levels.Load(g.levels[g.level])
	if err != nil {
		return err
	}
	if err := g.sim.Load(lvl.Objects); err != nil {
		return err
	}
	g.hint = lvl.Hint
	g.restart()
	return nil
}

func (g *Game) restart() {
	g.loop.Reset()
	g.banner = nil
	g.paused = false
}

func (g *Game) pause() {
	g.paused = true
	g.pauseUI = NewPauseUI(g, g.screenSize(), g.opts.Tuning.Display)
}

// resume continues without counting the paused time.
func (g *Game) resume() {
	g.paused = false
	g.loop.Reset()
}

func (g *Game) reload() {
	if err := g.sim.Reload(); err != nil {
		log.WithError(err).Warn("reload")
	}
	g.restart()
}

func (g *Game) onComplete() {
	g.banner = NewBanner("STAGE CLEAR")
}

func (g *Game) say(format string, args ...any) {
	g.toast = fmt.Sprintf(format, args...)
	g.toastAt = time.Now()
}

func (g *Game) Update() error {
	g.pollWatcher()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if g.paused {
			g.resume()
		} else {
			g.pause()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.reload()
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.step(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.step(-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyCode()
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		return ErrQuit
	}

	if g.paused {
		g.pauseUI.Update()
	}
	if g.quit {
		return ErrQuit
	}
	if g.paused {
		return nil
	}

	g.sim.Input().Sync(heldKeys())
	before := g.sim.Ticks()
	now := float64(time.Since(g.start)) / float64(time.Millisecond)
	if _, err := g.loop.Frame(now); err != nil {
		return err
	}
	if g.opts.Hub != nil && g.sim.Ticks() != before {
		if err := g.opts.Hub.Publish(spectate.FrameOf(g.sim)); err != nil {
			log.WithError(err).Warn("spectate publish")
		}
	}
	if g.banner != nil {
		g.banner.Update(1 / float32(ebiten.TPS()))
	}
	return nil
}

var boundKeys = []ebiten.Key{
	ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight,
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD, ebiten.KeySpace,
}

func heldKeys() input.Set {
	var held input.Set
	for _, k := range boundKeys {
		if !ebiten.IsKeyPressed(k) {
			continue
		}
		if d, ok := input.KeyDirection(k.String()); ok {
			held = held.With(d)
		}
	}
	return held
}

// step moves to the next or previous built-in level.
func (g *Game) step(delta int) {
	if len(g.levels) == 0 {
		return
	}
	if g.level < 0 {
		g.level = 0
	} else {
		g.level = (g.level + delta + len(g.levels)) % len(g.levels)
	}
	if err := g.loadLevel(); err != nil {
		log.WithError(err).Warn("load level")
	}
}

func (g *Game) copyCode() {
	code, err := stagecode.Encode(g.sim.Layout())
	if err != nil {
		log.WithError(err).Warn("encode stage")
		return
	}
	if !g.clipboard {
		log.WithField("code", code).Info("stage code")
		g.say("clipboard unavailable, code logged")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(code))
	g.say("stage code copied")
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ch, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if !ch.Removed {
				g.reloadFile(ch)
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.WithError(err).Warn("watch")
		default:
			return
		}
	}
}

func (g *Game) reloadFile(ch prefabs.Change) {
	switch ch.Kind {
	case prefabs.ChangeTuning:
		if filepath.Base(ch.Path) != filepath.Base(g.opts.TuningFile) {
			return
		}
		t, err := prefabs.LoadTuning(g.opts.TuningFile)
		if err != nil {
			log.WithError(err).Warn("reload tuning")
			return
		}
		g.opts.Tuning = t
		g.sim = game.New(t, log.StandardLogger())
		g.sim.OnComplete = g.onComplete
		g.loop = game.NewLoop(g.sim)
		g.view = render.NewView(t)
		g.paused = false
		g.say("tuning reloaded")
		if g.level >= 0 {
			if err := g.loadLevel(); err != nil {
				log.WithError(err).Warn("load level")
			}
		}
	case prefabs.ChangeStage:
		if g.level < 0 || g.indexOf(ch.Path) != g.level {
			return
		}
		if err := g.loadLevel(); err != nil {
			log.WithError(err).Warn("reload level")
			return
		}
		g.say("level reloaded")
	}
}

func (g *Game) screenSize() int {
	return g.view.Size()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := g.screenSize()
	return size, size + render.StatusHeight
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.view.DrawStage(screen, g.sim.Stage())
	g.view.DrawStatus(screen, g.statusLine(), g.screenSize())
	if g.banner != nil {
		g.view.DrawCentered(screen, g.banner.Text, g.screenSize(), g.banner.Alpha())
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) stageName() string {
	if g.level < 0 {
		return "custom"
	}
	return g.levels[g.level]
}

func (g *Game) statusLine() string {
	if g.toast != "" && time.Since(g.toastAt) < 2*time.Second {
		return g.toast
	}
	line := fmt.Sprintf("stage %s  tick %d", g.stageName(), g.sim.Ticks())
	if g.hint != "" {
		line += "  " + g.hint
	}
	return line
}
