// Package render draws stages with ebiten vector shapes.
package render

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/stage"
)

// TilePixels is the size of a tile at scale 1.
const TilePixels = 16

// StatusHeight is the height of the status bar under the playfield.
const StatusHeight = 40

// View draws a stage in tile units scaled to screen pixels.
type View struct {
	Tile       int
	mapLen     int
	background color.Color
	grid       color.Color
	face       *text.GoTextFace
	small      *text.GoTextFace
}

func NewView(t prefabs.Tuning) *View {
	scale := t.Display.Scale
	if scale <= 0 {
		scale = 1
	}
	v := &View{
		Tile:       TilePixels * scale,
		mapLen:     int(t.MapBlockLen),
		background: t.Display.Background.Color,
		grid:       t.Display.Grid.Color,
	}
	if v.background == nil {
		v.background = color.Black
	}
	if v.grid == nil {
		v.grid = color.Transparent
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.WithError(err).Warn("load font")
		return v
	}
	v.face = &text.GoTextFace{Source: src, Size: 14}
	v.small = &text.GoTextFace{Source: src, Size: 10}
	return v
}

// kindColors are the base colours of each kind before channel tinting.
var kindColors = map[obj.Kind]color.RGBA{
	obj.KindPlayer:    colornames.White,
	obj.KindBlock:     colornames.Slategray,
	obj.KindLadder:    colornames.Peru,
	obj.KindKey:       colornames.Gold,
	obj.KindOneway:    colornames.Burlywood,
	obj.KindLever:     colornames.Silver,
	obj.KindPushBlock: colornames.Sienna,
	obj.KindPortal:    colornames.Mediumpurple,
	obj.KindButton:    colornames.Silver,
	obj.KindMoveBlock: colornames.Steelblue,
}

func (v *View) px(f float64) float32 {
	return float32(f * float64(v.Tile))
}

// Size is the playfield edge in pixels.
func (v *View) Size() int {
	return v.Tile * v.mapLen
}

func (v *View) DrawStage(dst *ebiten.Image, s *stage.Stage) {
	size := v.Size()
	vector.FillRect(dst, 0, 0, float32(size), float32(size), v.background, false)
	for i := 0; i <= size; i += v.Tile {
		vector.StrokeLine(dst, float32(i), 0, float32(i), float32(size), 1, v.grid, false)
		vector.StrokeLine(dst, 0, float32(i), float32(size), float32(i), 1, v.grid, false)
	}
	if s == nil {
		return
	}
	// Players are drawn last so they stay on top of ladders and portals.
	for _, e := range s.Entities() {
		if o, ok := s.Get(e); ok && o.Kind != obj.KindPlayer {
			v.DrawObject(dst, o)
		}
	}
	for _, e := range s.OfKind(obj.KindPlayer) {
		if o, ok := s.Get(e); ok {
			v.DrawObject(dst, o)
		}
	}
}

func (v *View) DrawObject(dst *ebiten.Image, o *obj.Object) {
	r := o.Bounds()
	x, y, w, h := v.px(r.X), v.px(r.Y), v.px(r.W), v.px(r.H)
	base := kindColors[o.Kind]
	tint := base
	if o.Color != 0 && common.ValidColor(o.Color) {
		tint = common.Palette[o.Color]
	}
	state := o.Texture()
	if i := strings.IndexByte(state, ':'); i >= 0 {
		state = state[i+1:]
	}

	switch o.Kind {
	case obj.KindPlayer:
		vector.FillRect(dst, x+2, y+2, w-4, h-4, base, false)
		v.drawFacing(dst, o, x, y, w, h)
	case obj.KindBlock, obj.KindMoveBlock:
		if state == "deactivated" || state == "off" {
			vector.StrokeRect(dst, x+1, y+1, w-2, h-2, 2, tint, false)
			return
		}
		vector.FillRect(dst, x, y, w, h, tint, false)
		if o.Kind == obj.KindMoveBlock {
			v.drawArrow(dst, o, x, y, w, h)
		}
	case obj.KindPushBlock:
		vector.FillRect(dst, x+1, y+1, w-2, h-2, base, false)
		vector.StrokeRect(dst, x+1, y+1, w-2, h-2, 2, colornames.Saddlebrown, false)
	case obj.KindLadder:
		vector.StrokeLine(dst, x+w*0.2, y, x+w*0.2, y+h, 2, base, false)
		vector.StrokeLine(dst, x+w*0.8, y, x+w*0.8, y+h, 2, base, false)
		for ry := y + h/8; ry < y+h; ry += float32(v.Tile) / 3 {
			vector.StrokeLine(dst, x+w*0.2, ry, x+w*0.8, ry, 2, base, false)
		}
	case obj.KindOneway:
		if state == "deactivated" {
			return
		}
		vector.FillRect(dst, x, y, w, float32(v.Tile)/4, tint, false)
	case obj.KindKey:
		vector.FillCircle(dst, x+w/2, y+h/2, w/4, tint, true)
	case obj.KindLever, obj.KindButton:
		vector.FillRect(dst, x+w*0.2, y+h*0.6, w*0.6, h*0.4, base, false)
		if state == "on" {
			vector.FillCircle(dst, x+w/2, y+h*0.6, w/5, tint, true)
		} else {
			vector.StrokeCircle(dst, x+w/2, y+h*0.6, w/5, 2, tint, true)
		}
	case obj.KindPortal:
		vector.StrokeRect(dst, x+1, y+1, w-2, h-2, 2, base, false)
		v.drawArrow(dst, o, x, y, w, h)
		if v.small != nil && o.Portal != nil {
			op := &text.DrawOptions{}
			op.GeoM.Translate(float64(x+3), float64(y+2))
			op.ColorScale.ScaleWithColor(base)
			text.Draw(dst, o.Portal.Tag, v.small, op)
		}
	}
}

func (v *View) drawFacing(dst *ebiten.Image, o *obj.Object, x, y, w, h float32) {
	eye := x + w*0.65
	if o.VX < 0 {
		eye = x + w*0.35
	}
	vector.FillCircle(dst, eye, y+h*0.35, w/10, colornames.Black, true)
}

// drawArrow marks the direction an object faces.
func (v *View) drawArrow(dst *ebiten.Image, o *obj.Object, x, y, w, h float32) {
	fx, fy := o.Ang.Facing()
	cx, cy := x+w/2, y+h/2
	reach := min(w, h) / 3
	vector.StrokeLine(dst, cx, cy, cx+float32(fx)*reach, cy+float32(fy)*reach, 2, colornames.White, true)
}

func (v *View) DrawStatus(dst *ebiten.Image, line string, top int) {
	vector.FillRect(dst, 0, float32(top), float32(dst.Bounds().Dx()), StatusHeight, colornames.Black, false)
	if v.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, float64(top)+12)
	op.ColorScale.ScaleWithColor(colornames.Lightgray)
	text.Draw(dst, line, v.face, op)
}

// DrawCentered writes msg in large type over the middle of the playfield.
func (v *View) DrawCentered(dst *ebiten.Image, msg string, size int, alpha float32) {
	if v.face == nil {
		return
	}
	face := &text.GoTextFace{Source: v.face.Source, Size: 32}
	tw, th := text.Measure(msg, face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Translate((float64(size)-tw)/2, (float64(size)-th)/2)
	op.ColorScale.ScaleWithColor(colornames.White)
	op.ColorScale.ScaleAlpha(alpha)
	text.Draw(dst, msg, face, op)
}

// DrawCell outlines one tile, as an editor cursor.
func (v *View) DrawCell(dst *ebiten.Image, cx, cy int, clr color.Color) {
	vector.StrokeRect(dst, float32(cx*v.Tile), float32(cy*v.Tile), float32(v.Tile), float32(v.Tile), 2, clr, false)
}
