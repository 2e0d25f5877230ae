package common

import (
	"fmt"

	"github.com/jakecoffman/cp"
)

// Angle is a facing in degrees. Only 0, 90, 180 and -90 are legal.
type Angle int

const (
	Angle0     Angle = 0
	Angle90    Angle = 90
	Angle180   Angle = 180
	AngleNeg90 Angle = -90
)

// Angles lists the legal facings in stage-record index order.
var Angles = [4]Angle{Angle0, Angle90, Angle180, AngleNeg90}

func ParseAngle(v int) (Angle, error) {
	a := Angle(v)
	if !a.Valid() {
		return 0, fmt.Errorf("common: illegal angle %d", v)
	}
	return a, nil
}

// AngleFromIndex maps a stage-record angle index back to its Angle.
func AngleFromIndex(i int) (Angle, bool) {
	if i < 0 || i >= len(Angles) {
		return 0, false
	}
	return Angles[i], true
}

func (a Angle) Valid() bool {
	return a.Index() >= 0
}

// Index returns the position of a in Angles, or -1.
func (a Angle) Index() int {
	for i, v := range Angles {
		if v == a {
			return i
		}
	}
	return -1
}

// Quarter reports whether a turns the object on its side.
func (a Angle) Quarter() bool {
	return a == Angle90 || a == AngleNeg90
}

func (a Angle) Opposite() Angle {
	switch a {
	case Angle0:
		return Angle180
	case Angle180:
		return Angle0
	case Angle90:
		return AngleNeg90
	default:
		return Angle90
	}
}

// Facing returns the unit vector an object with this angle faces.
// Angle 0 faces up, 90 faces right.
func (a Angle) Facing() (float64, float64) {
	switch a {
	case Angle90:
		return 1, 0
	case Angle180:
		return 0, 1
	case AngleNeg90:
		return -1, 0
	default:
		return 0, -1
	}
}

// Side returns the edge of the object the angle points out of.
func (a Angle) Side() Side {
	switch a {
	case Angle90:
		return Right
	case Angle180:
		return Bottom
	case AngleNeg90:
		return Left
	default:
		return Top
	}
}

// Side names one edge of a box.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

var Sides = [4]Side{Top, Bottom, Left, Right}

func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	default:
		return Left
	}
}

// Vertical reports whether the side is crossed by motion along y.
func (s Side) Vertical() bool {
	return s == Top || s == Bottom
}

// Sign is +1 for sides that lie in the positive axis direction.
func (s Side) Sign() float64 {
	if s == Bottom || s == Right {
		return 1
	}
	return -1
}

func (s Side) String() string {
	switch s {
	case Top:
		return "t"
	case Bottom:
		return "b"
	case Left:
		return "l"
	case Right:
		return "r"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Box is a rectangle positioned relative to an object's origin. A box with an
// Origin is placed relative to that parent box instead.
type Box struct {
	RelX, RelY float64
	W, H       float64
	Origin     *Box
}

func (b Box) offset() (float64, float64) {
	if b.Origin == nil {
		return b.RelX, b.RelY
	}
	ox, oy := b.Origin.offset()
	return ox + b.RelX, oy + b.RelY
}

func (b Box) T() float64 {
	_, y := b.offset()
	return y
}

func (b Box) B() float64 {
	return b.T() + b.H
}

func (b Box) L() float64 {
	x, _ := b.offset()
	return x
}

func (b Box) R() float64 {
	return b.L() + b.W
}

// At places the box in world space for an object at (x, y).
func (b Box) At(x, y float64) Rect {
	ox, oy := b.offset()
	return Rect{X: x + ox, Y: y + oy, W: b.W, H: b.H}
}

// Rotate turns b clockwise by ang inside an origin rectangle of originW by
// originH. Quarter turns swap the box's extents. A box attached to an Origin
// rotates its origin first, then rotates itself inside the origin's frame.
func Rotate(b Box, ang Angle, originW, originH float64) Box {
	if b.Origin != nil {
		parent := *b.Origin
		rotated := Rotate(parent, ang, originW, originH)
		child := Rotate(Box{RelX: b.RelX, RelY: b.RelY, W: b.W, H: b.H}, ang, parent.W, parent.H)
		child.Origin = &rotated
		return child
	}

	switch ang {
	case Angle90:
		return Box{RelX: originH - b.RelY - b.H, RelY: b.RelX, W: b.H, H: b.W}
	case Angle180:
		return Box{RelX: originW - b.RelX - b.W, RelY: originH - b.RelY - b.H, W: b.W, H: b.H}
	case AngleNeg90:
		return Box{RelX: b.RelY, RelY: originW - b.RelX - b.W, W: b.H, H: b.W}
	default:
		return b
	}
}

// Rect is an absolute axis-aligned rectangle in tile units, y growing down.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) T() float64 { return r.Y }
func (r Rect) B() float64 { return r.Y + r.H }
func (r Rect) L() float64 { return r.X }
func (r Rect) R() float64 { return r.X + r.W }

func (r Rect) Edge(s Side) float64 {
	switch s {
	case Top:
		return r.T()
	case Bottom:
		return r.B()
	case Left:
		return r.L()
	default:
		return r.R()
	}
}

func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Overlaps is strict: rectangles that only share an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.L() < o.R()-Epsilon && o.L() < r.R()-Epsilon &&
		r.T() < o.B()-Epsilon && o.T() < r.B()-Epsilon
}

// SpanOverlap returns how much r and o overlap across the axis perpendicular
// to side s. It is zero or negative when they do not overlap.
func (r Rect) SpanOverlap(o Rect, s Side) float64 {
	if s.Vertical() {
		return min(r.R(), o.R()) - max(r.L(), o.L())
	}
	return min(r.B(), o.B()) - max(r.T(), o.T())
}

// BB converts r to a chipmunk bounding box. cp's B and T are the minimum and
// maximum y, which here are the rectangle's top and bottom edges.
func (r Rect) BB() cp.BB {
	return cp.BB{L: r.L(), B: r.T(), R: r.R(), T: r.B()}
}

func (r Rect) Center() (float64, float64) {
	c := r.BB().Center()
	return c.X, c.Y
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return r.BB().ContainsVect(cp.Vector{X: x, Y: y})
}

// Outside reports whether r lies entirely outside the square [0, size] on
// at least one side.
func (r Rect) Outside(size float64) bool {
	return r.R() < 0 || r.L() > size || r.B() < 0 || r.T() > size
}

// Bounds returns the smallest rectangle covering every rect.
func Bounds(rects ...Rect) (Rect, bool) {
	if len(rects) == 0 {
		return Rect{}, false
	}
	bb := rects[0].BB()
	for _, r := range rects[1:] {
		bb = bb.Merge(r.BB())
	}
	return Rect{X: bb.L, Y: bb.B, W: bb.R - bb.L, H: bb.T - bb.B}, true
}
