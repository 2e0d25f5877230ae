// Package input carries the per-tick directional input the simulation reads.
package input

import (
	"fmt"
	"strings"
)

// Direction is one of the four inputs.
type Direction uint8

const (
	Up Direction = 1 << iota
	Down
	Left
	Right
)

var Directions = [4]Direction{Up, Down, Left, Right}

var letters = map[Direction]byte{Up: 'u', Down: 'd', Left: 'l', Right: 'r'}

func (d Direction) String() string {
	if c, ok := letters[d]; ok {
		return string(c)
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Set is a set of directions.
type Set uint8

func (s Set) Has(d Direction) bool {
	return s&Set(d) != 0
}

func (s Set) With(d Direction) Set {
	return s | Set(d)
}

func (s Set) Without(d Direction) Set {
	return s &^ Set(d)
}

// String lists the members as letters in u, d, l, r order.
func (s Set) String() string {
	var b strings.Builder
	for _, d := range Directions {
		if s.Has(d) {
			b.WriteByte(letters[d])
		}
	}
	return b.String()
}

// ParseSet reads the letter form produced by Set.String. Order and repeats
// do not matter.
func ParseSet(text string) (Set, error) {
	var s Set
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case 'u':
			s = s.With(Up)
		case 'd':
			s = s.With(Down)
		case 'l':
			s = s.With(Left)
		case 'r':
			s = s.With(Right)
		case ' ', ',':
		default:
			return 0, fmt.Errorf("input: unknown direction %q", text[i])
		}
	}
	return s, nil
}

// Snapshot is what the simulation sees for one tick: the directions held
// down and the ones whose press started since the last clear.
type Snapshot struct {
	Held    Set
	Pressed Set
}

// Horizontal returns -1, 0 or 1 from the held left and right inputs.
func (s Snapshot) Horizontal() float64 {
	x := 0.0
	if s.Held.Has(Left) {
		x--
	}
	if s.Held.Has(Right) {
		x++
	}
	return x
}

// Buffer collects key events between ticks. It is owned by the thread that
// runs the simulation; other goroutines must hand events over, not call it.
type Buffer struct {
	held    Set
	pressed Set
}

// Press marks d held. A press of a key that is not already held also counts
// as a press start.
func (b *Buffer) Press(d Direction) {
	if !b.held.Has(d) {
		b.pressed = b.pressed.With(d)
	}
	b.held = b.held.With(d)
}

func (b *Buffer) Release(d Direction) {
	b.held = b.held.Without(d)
}

// Sync presses every direction in held and releases the rest, for front
// ends that poll key state instead of receiving events.
func (b *Buffer) Sync(held Set) {
	for _, d := range Directions {
		if held.Has(d) {
			b.Press(d)
		} else {
			b.Release(d)
		}
	}
}

func (b *Buffer) Snapshot() Snapshot {
	return Snapshot{Held: b.held, Pressed: b.pressed}
}

// ClearPressed forgets press starts. Call it after each tick.
func (b *Buffer) ClearPressed() {
	b.pressed = 0
}

func (b *Buffer) Reset() {
	*b = Buffer{}
}
