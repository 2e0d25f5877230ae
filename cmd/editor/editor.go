package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	log "github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/game"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/render"
	"github.com/milk9111/tilepush/stage"
)

type Tool int

const (
	ToolPencil Tool = iota
	ToolEraser
	ToolMove
	ToolResize
	ToolColor
	ToolRotate
)

var tools = []Tool{ToolPencil, ToolEraser, ToolMove, ToolResize, ToolColor, ToolRotate}

func (t Tool) String() string {
	switch t {
	case ToolPencil:
		return "Pencil"
	case ToolEraser:
		return "Eraser"
	case ToolMove:
		return "Move"
	case ToolResize:
		return "Resize"
	case ToolColor:
		return "Color"
	case ToolRotate:
		return "Rotate"
	default:
		return "Unknown"
	}
}

var toolKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5, ebiten.Key6}

// EditorGame is the ebiten game for the stage editor.
type EditorGame struct {
	tuning prefabs.Tuning
	layout Layout
	// preview is the layout loaded for drawing and tag allocation.
	preview *stage.Stage
	view    *render.View
	ui      *EditorUI
	out     string

	tool  Tool
	brush int
	color int
	drag  int

	playing bool
	sim     *game.Game
	loop    *game.Loop
	start   time.Time

	undoStack []UndoSnapshot
	clipboard bool

	status   string
	statusAt time.Time
}

func NewEditorGame(tuning prefabs.Tuning, layout Layout, out string) (*EditorGame, error) {
	e := &EditorGame{
		tuning:  tuning,
		preview: stage.New(tuning.Strengths()),
		view:    render.NewView(tuning),
		out:     out,
		drag:    -1,
		sim:     game.New(tuning, log.StandardLogger()),
		start:   time.Now(),
	}
	e.loop = game.NewLoop(e.sim)
	if err := clipboard.Init(); err != nil {
		log.WithError(err).Warn("clipboard unavailable")
	} else {
		e.clipboard = true
	}
	e.sim.OnComplete = func() { e.say("stage clear") }
	if err := e.preview.Load(layout.Descs); err != nil {
		return nil, err
	}
	e.layout = layout
	e.ui = BuildEditorUI(
		tuning.Display,
		func(t Tool) { e.tool = t },
		func(idx int) { e.brush = idx },
		e.togglePlay,
		e.save,
		e.clear,
		e.tool,
		e.brush,
	)
	return e, nil
}

func (e *EditorGame) say(format string, args ...any) {
	e.status = fmt.Sprintf(format, args...)
	e.statusAt = time.Now()
}

// commit reloads the preview after an edit, reverting to before if the
// layout no longer loads. Recorded edits can be undone.
func (e *EditorGame) commit(before []obj.Descriptor, record bool) {
	if err := e.preview.Load(e.layout.Descs); err != nil {
		e.layout.Descs = before
		e.say("%v", err)
		return
	}
	if record {
		e.pushSnapshot(before)
	}
}

func (e *EditorGame) snapshot() []obj.Descriptor {
	return append([]obj.Descriptor(nil), e.layout.Descs...)
}

func (e *EditorGame) size() int {
	return e.view.Size()
}

func (e *EditorGame) togglePlay() {
	if e.playing {
		e.sim.Stop()
		e.playing = false
		return
	}
	if err := e.sim.Load(e.layout.Descs); err != nil {
		e.say("%v", err)
		return
	}
	e.loop.Reset()
	e.sim.Input().Reset()
	e.playing = true
}

func (e *EditorGame) clear() {
	if e.playing {
		e.togglePlay()
	}
	before := e.snapshot()
	e.layout.Descs = nil
	e.commit(before, true)
}

func (e *EditorGame) Update() error {
	e.ui.UI.Update()

	for i, k := range toolKeys {
		if inpututil.IsKeyJustPressed(k) {
			e.tool = tools[i]
			e.ui.Tools.Select(i)
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		e.togglePlay()
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		e.color = (e.color + common.PaletteSize - 1) % common.PaletteSize
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		e.color = (e.color + 1) % common.PaletteSize
	case inpututil.IsKeyJustPressed(ebiten.KeyS) && ebiten.IsKeyPressed(ebiten.KeyControl):
		e.save()
	case inpututil.IsKeyJustPressed(ebiten.KeyZ) && ebiten.IsKeyPressed(ebiten.KeyControl) && !e.playing:
		e.Undo()
	}

	if e.playing {
		var held input.Set
		for _, k := range []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyArrowDown, ebiten.KeyArrowLeft, ebiten.KeyArrowRight, ebiten.KeySpace} {
			if ebiten.IsKeyPressed(k) {
				if d, ok := input.KeyDirection(k.String()); ok {
					held = held.With(d)
				}
			}
		}
		e.sim.Input().Sync(held)
		now := float64(time.Since(e.start)) / float64(time.Millisecond)
		_, err := e.loop.Frame(now)
		return err
	}

	e.handleMouse()
	return nil
}

func (e *EditorGame) cursorCell() (int, int, bool) {
	x, y := ebiten.CursorPosition()
	size := e.size()
	if x < 0 || y < 0 || x >= size || y >= size {
		return 0, 0, false
	}
	return x / e.view.Tile, y / e.view.Tile, true
}

func (e *EditorGame) handleMouse() {
	cx, cy, inside := e.cursorCell()
	pressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		e.drag = -1
	}
	if !inside {
		return
	}
	px, py := float64(cx)+0.5, float64(cy)+0.5

	if e.drag >= 0 && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		before := e.snapshot()
		d := e.layout.Descs[e.drag]
		switch e.tool {
		case ToolMove:
			if d.X == float64(cx) && d.Y == float64(cy) {
				return
			}
			e.layout.Move(e.drag, cx, cy)
		case ToolResize:
			w, h := float64(cx+1)-d.X, float64(cy+1)-d.Y
			if d.W == max(1, w) && d.H == max(1, h) {
				return
			}
			e.layout.Resize(e.drag, w, h)
		}
		e.commit(before, false)
		return
	}
	if !pressed {
		return
	}

	before := e.snapshot()
	hit := e.layout.At(px, py)
	switch e.tool {
	case ToolPencil:
		e.layout.Place(brushes[e.brush].GID, cx, cy, e.preview.NextPortalTag())
	case ToolEraser:
		if hit < 0 {
			return
		}
		e.layout.Erase(hit)
	case ToolMove, ToolResize:
		if hit >= 0 {
			e.drag = hit
			e.pushSnapshot(before)
		}
		return
	case ToolColor:
		if hit < 0 || !e.layout.Recolor(hit, e.color) {
			return
		}
	case ToolRotate:
		if hit < 0 || !e.layout.Rotate(hit) {
			return
		}
	}
	e.commit(before, true)
}

func (e *EditorGame) Draw(screen *ebiten.Image) {
	size := e.size()
	if e.playing {
		e.view.DrawStage(screen, e.sim.Stage())
	} else {
		e.view.DrawStage(screen, e.preview)
		if cx, cy, ok := e.cursorCell(); ok {
			e.view.DrawCell(screen, cx, cy, colornames.Yellow)
		}
	}
	e.view.DrawStatus(screen, e.statusLine(), size)
	e.ui.UI.Draw(screen)
}

func (e *EditorGame) statusLine() string {
	if e.status != "" && time.Since(e.statusAt) < 3*time.Second {
		return e.status
	}
	if e.playing {
		return fmt.Sprintf("playing  tick %d  %s  (tab to stop)", e.sim.Ticks(), e.sim.Status())
	}
	return fmt.Sprintf("%s  %s  colour %d  objects %d", e.tool, brushes[e.brush].Name, e.color, len(e.layout.Descs))
}

func (e *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := e.size()
	return size + panelWidth, size + render.StatusHeight
}
