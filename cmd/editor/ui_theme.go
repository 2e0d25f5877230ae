package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"

	"github.com/milk9111/tilepush/prefabs"
)

// newEditorTheme colours the side panel like the playfield it sits next to:
// the panel takes the stage background and buttons take the grid colour.
func newEditorTheme(face *text.Face, display prefabs.DisplaySpec) *widget.Theme {
	grid := display.Grid.Color
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: image.NewNineSliceColor(display.Background.Color),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    image.NewNineSliceColor(grid),
				Hover:   image.NewNineSliceColor(lighten(grid, 0x20)),
				Pressed: image.NewNineSliceColor(colornames.Steelblue),
			},
			TextFace: face,
			TextColor: &widget.ButtonTextColor{
				Idle:     colornames.Whitesmoke,
				Hover:    colornames.White,
				Pressed:  colornames.White,
				Disabled: colornames.Gray,
			},
		},
	}
}

func lighten(c color.Color, d uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	up := func(v uint8) uint8 {
		if v > 0xff-d {
			return 0xff
		}
		return v + d
	}
	return color.NRGBA{R: up(n.R), G: up(n.G), B: up(n.B), A: n.A}
}
