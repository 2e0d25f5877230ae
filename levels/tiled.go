// Package levels imports stages saved by the Tiled map editor. Objects are
// tile objects in pixels; layer tint colours select the colour channel and
// the object type carries the portal tag.
package levels

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/obj"
)

// Tiled stores flip flags in the top bits of a gid.
const gidMask = 0x1fffffff

var ErrBadTint = errors.New("levels: bad tint colour")

type TiledMap struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	TileWidth  int             `json:"tilewidth"`
	TileHeight int             `json:"tileheight"`
	Layers     []TiledLayer    `json:"layers"`
	Tilesets   []TiledTileset  `json:"tilesets"`
	Properties []TiledProperty `json:"properties"`
}

type TiledLayer struct {
	Name      string        `json:"name"`
	Type      string        `json:"type"`
	TintColor string        `json:"tintcolor"`
	Visible   *bool         `json:"visible"`
	Objects   []TiledObject `json:"objects"`
	Layers    []TiledLayer  `json:"layers"`
}

type TiledObject struct {
	ID       int     `json:"id"`
	GID      uint32  `json:"gid"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Type     string  `json:"type"`
	Class    string  `json:"class"`
}

type TiledTileset struct {
	FirstGID int    `json:"firstgid"`
	Source   string `json:"source"`
}

type TiledProperty struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Level is an imported stage.
type Level struct {
	Name    string
	Hint    string
	Objects []obj.Descriptor
}

func Parse(data []byte) (*Level, error) {
	var m TiledMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return Import(m)
}

// Import converts a Tiled map to descriptors in layer order.
func Import(m TiledMap) (*Level, error) {
	lvl := &Level{Hint: m.property("hint")}
	firstGID := 1
	if len(m.Tilesets) > 0 && m.Tilesets[0].FirstGID > 0 {
		firstGID = m.Tilesets[0].FirstGID
	}
	if err := importLayers(lvl, m.Layers, 0, firstGID); err != nil {
		return nil, err
	}
	return lvl, nil
}

func importLayers(lvl *Level, layers []TiledLayer, inherited int, firstGID int) error {
	for _, layer := range layers {
		if layer.Visible != nil && !*layer.Visible {
			continue
		}
		c := inherited
		if layer.TintColor != "" {
			tint, err := parseTint(layer.TintColor)
			if err != nil {
				return fmt.Errorf("layer %q: %w", layer.Name, err)
			}
			c = tint
		}
		if len(layer.Layers) > 0 {
			if err := importLayers(lvl, layer.Layers, c, firstGID); err != nil {
				return err
			}
		}
		for _, o := range layer.Objects {
			d, err := importObject(o, c, firstGID)
			if err != nil {
				return fmt.Errorf("layer %q object %d: %w", layer.Name, o.ID, err)
			}
			lvl.Objects = append(lvl.Objects, d)
		}
	}
	return nil
}

// importObject scales pixels to tiles and moves Tiled's bottom-left,
// rotated origin to the top-left corner of the rotated object.
func importObject(o TiledObject, c int, firstGID int) (obj.Descriptor, error) {
	ang := common.Angle(normalizeRotation(o.Rotation))
	x := o.X / common.PxPerUnit
	y := o.Y / common.PxPerUnit
	w := o.Width / common.PxPerUnit
	h := o.Height / common.PxPerUnit
	switch ang {
	case common.Angle0:
		y -= h
	case common.Angle90:
		w, h = h, w
	case common.Angle180:
		x -= w
	case common.AngleNeg90:
		w, h = h, w
		x -= w
		y -= h
	}

	tag := o.Type
	if tag == "" {
		tag = o.Class
	}
	d := obj.Descriptor{
		GID:   int(o.GID&gidMask) - firstGID + 1,
		X:     x,
		Y:     y,
		W:     w,
		H:     h,
		Ang:   ang,
		Color: c,
		Tag:   tag,
	}
	if d.GID != obj.GIDPortal {
		d.Tag = ""
	}
	return d, d.Validate()
}

func normalizeRotation(r float64) int {
	deg := int(math.Round(r)) % 360
	switch {
	case deg > 180:
		deg -= 360
	case deg <= -180:
		deg += 360
	}
	return deg
}

// parseTint maps a Tiled colour, #RRGGBB or #AARRGGBB, to its palette
// channel. White means no channel.
func parseTint(s string) (int, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 8:
		hex = hex[2:]
	case 6:
	default:
		return 0, fmt.Errorf("%w %q", ErrBadTint, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrBadTint, s)
	}
	rgb := color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	if rgb.R == 0xff && rgb.G == 0xff && rgb.B == 0xff {
		return 0, nil
	}
	c, ok := common.PaletteIndex(rgb)
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrBadTint, s)
	}
	return c, nil
}

func (m TiledMap) property(name string) string {
	for _, p := range m.Properties {
		if p.Name == name {
			if s, ok := p.Value.(string); ok {
				return s
			}
			return fmt.Sprint(p.Value)
		}
	}
	return ""
}
