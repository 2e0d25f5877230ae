package common

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// PaletteSize is the number of colour channels, including 0 for "none".
const PaletteSize = 9

// Palette maps an activation channel to its display colour. Channel 0 has
// no colour and is transparent.
var Palette = [PaletteSize]color.RGBA{
	{},
	colornames.Red,
	colornames.Lime,
	colornames.Blue,
	colornames.Cyan,
	colornames.Magenta,
	colornames.Yellow,
	{R: 0xff, G: 0x8a, B: 0xd8, A: 0xff},
	{R: 0xfd, G: 0x82, B: 0x08, A: 0xff},
}

func ValidColor(c int) bool {
	return c >= 0 && c < PaletteSize
}

// PaletteIndex returns the channel whose colour matches c, ignoring alpha.
func PaletteIndex(c color.RGBA) (int, bool) {
	for i := 1; i < PaletteSize; i++ {
		p := Palette[i]
		if p.R == c.R && p.G == c.G && p.B == c.B {
			return i, true
		}
	}
	return 0, false
}
