package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/tilepush/prefabs"
)

// NewPauseUI builds the pause menu for the stage g is showing. It is rebuilt
// on every pause so the heading reflects the current stage and tick.
func NewPauseUI(g *Game, size int, display prefabs.DisplaySpec) *ebitenui.UI {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	shade := color.NRGBAModel.Convert(display.Background.Color).(color.NRGBA)
	shade.A = 0xd0
	buttonImage := &widget.ButtonImage{
		Idle:     imageui.NewNineSliceColor(display.Grid.Color),
		Hover:    imageui.NewNineSliceColor(colornames.Steelblue),
		Pressed:  imageui.NewNineSliceColor(colornames.Royalblue),
		Disabled: imageui.NewNineSliceColor(display.Background.Color),
	}
	textColor := &widget.ButtonTextColor{Idle: colornames.White, Disabled: colornames.Dimgray}
	row := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter, Stretch: true})

	label := func(s string, clr color.Color) *widget.Text {
		return widget.NewText(
			widget.TextOpts.Text(s, &face, clr),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		)
	}
	button := func(s string, enabled bool, onClick func()) *widget.Button {
		b := widget.NewButton(
			widget.ButtonOpts.Image(buttonImage),
			widget.ButtonOpts.Text(s, &face, textColor),
			widget.ButtonOpts.WidgetOpts(row),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) { onClick() }),
		)
		b.GetWidget().Disabled = !enabled
		return b
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(shade)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Bottom: 16, Left: 24, Right: 24}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(size*2/3, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	panel.AddChild(label(fmt.Sprintf("Stage %s", g.stageName()), colornames.White))
	panel.AddChild(label(fmt.Sprintf("%s, tick %d", g.sim.Status(), g.sim.Ticks()), colornames.Lightgray))
	if g.hint != "" {
		panel.AddChild(label(g.hint, colornames.Khaki))
	}

	builtIn := g.level >= 0
	panel.AddChild(button("Resume", true, g.resume))
	panel.AddChild(button("Restart stage", true, g.reload))
	panel.AddChild(button("Previous stage", builtIn, func() { g.step(-1) }))
	panel.AddChild(button("Next stage", len(g.levels) > 0, func() { g.step(1) }))
	panel.AddChild(button("Copy stage code", true, g.copyCode))
	panel.AddChild(button("Quit", true, func() { g.quit = true }))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	return &ebitenui.UI{Container: root}
}
