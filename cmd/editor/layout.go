package main

import (
	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/obj"
)

// Brush is an object the pencil can place.
type Brush struct {
	Name string
	GID  int
}

var brushes = []Brush{
	{"Player", obj.GIDPlayer},
	{"Block", obj.GIDBlock},
	{"Block (off)", obj.GIDBlockOff},
	{"Ladder", obj.GIDLadder},
	{"Key", obj.GIDKey},
	{"Oneway", obj.GIDOneway},
	{"Portal", obj.GIDPortal},
	{"Lever", obj.GIDLever},
	{"Push block", obj.GIDPushBlock},
	{"Button", obj.GIDButton},
	{"Move block", obj.GIDMoveBlockOff},
	{"Move block (on)", obj.GIDMoveBlockOn},
}

var colorable = map[int]bool{
	obj.GIDBlock: true, obj.GIDBlockOff: true, obj.GIDKey: true, obj.GIDOneway: true,
	obj.GIDLever: true, obj.GIDButton: true, obj.GIDMoveBlockOff: true, obj.GIDMoveBlockOn: true,
}

var rotatable = map[int]bool{
	obj.GIDOneway: true, obj.GIDPortal: true, obj.GIDLever: true, obj.GIDButton: true,
	obj.GIDMoveBlockOff: true, obj.GIDMoveBlockOn: true,
}

func isMover(gid int) bool {
	switch gid {
	case obj.GIDPlayer, obj.GIDPushBlock, obj.GIDMoveBlockOff, obj.GIDMoveBlockOn:
		return true
	}
	return false
}

// Layout is the stage being edited, in load order. Portals are linked by
// their shared tag.
type Layout struct {
	Descs []obj.Descriptor
}

// At returns the index of the topmost object covering point (x, y), or -1.
func (l *Layout) At(x, y float64) int {
	for i := len(l.Descs) - 1; i >= 0; i-- {
		d := l.Descs[i].Default()
		if x >= d.X && x < d.X+d.W && y >= d.Y && y < d.Y+d.H {
			return i
		}
	}
	return -1
}

// insertAt keeps movers at the end of the load order.
func (l *Layout) insertAt() int {
	i := len(l.Descs)
	for i > 0 && isMover(l.Descs[i-1].GID) {
		i--
	}
	return i
}

// Place adds a one-tile object at cell (cx, cy). A portal brings its
// counterpart with it one tile below, facing down, sharing tag.
func (l *Layout) Place(gid, cx, cy int, tag string) {
	d := obj.Descriptor{GID: gid, X: float64(cx), Y: float64(cy), W: 1, H: 1}
	added := []obj.Descriptor{d}
	if gid == obj.GIDPortal {
		d.Tag = tag
		below := d
		below.Y++
		below.Ang = common.Angle180
		added = []obj.Descriptor{d, below}
	}
	if isMover(gid) {
		l.Descs = append(l.Descs, added...)
		return
	}
	i := l.insertAt()
	l.Descs = append(l.Descs[:i], append(added, l.Descs[i:]...)...)
}

// counterpart returns the index of the portal paired with i, or -1.
func (l *Layout) counterpart(i int) int {
	d := l.Descs[i]
	if d.GID != obj.GIDPortal {
		return -1
	}
	for j, o := range l.Descs {
		if j != i && o.GID == obj.GIDPortal && o.Tag == d.Tag {
			return j
		}
	}
	return -1
}

// each applies fn to i and its counterpart.
func (l *Layout) each(i int, fn func(d *obj.Descriptor)) {
	fn(&l.Descs[i])
	if j := l.counterpart(i); j >= 0 {
		fn(&l.Descs[j])
	}
}

// Erase removes object i and its counterpart.
func (l *Layout) Erase(i int) {
	j := l.counterpart(i)
	out := l.Descs[:0]
	for k, d := range l.Descs {
		if k != i && k != j {
			out = append(out, d)
		}
	}
	l.Descs = out
}

func (l *Layout) Move(i, cx, cy int) {
	l.Descs[i].X = float64(cx)
	l.Descs[i].Y = float64(cy)
}

// Resize sets the size of i and its counterpart, never below one tile.
func (l *Layout) Resize(i int, w, h float64) {
	l.each(i, func(d *obj.Descriptor) {
		d.W = max(1, w)
		d.H = max(1, h)
	})
}

// Recolor sets the channel of i if its kind takes one.
func (l *Layout) Recolor(i, c int) bool {
	if !colorable[l.Descs[i].GID] || !common.ValidColor(c) {
		return false
	}
	l.Descs[i].Color = c
	return true
}

// Rotate turns i and its counterpart a quarter clockwise if their kind can
// face a direction.
func (l *Layout) Rotate(i int) bool {
	if !rotatable[l.Descs[i].GID] {
		return false
	}
	l.each(i, func(d *obj.Descriptor) {
		d.Ang, _ = common.AngleFromIndex((d.Ang.Index() + 1) % len(common.Angles))
	})
	return true
}
