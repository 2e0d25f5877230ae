package input

import "strings"

// keyNames maps the key names reported by browsers, ebiten and tcell to
// directions. Lookups are case-insensitive.
var keyNames = map[string]Direction{
	"arrowup":    Up,
	"up":         Up,
	"w":          Up,
	"space":      Up,
	" ":          Up,
	"arrowdown":  Down,
	"down":       Down,
	"s":          Down,
	"arrowleft":  Left,
	"left":       Left,
	"a":          Left,
	"arrowright": Right,
	"right":      Right,
	"d":          Right,
}

// KeyDirection returns the direction bound to a key name.
func KeyDirection(name string) (Direction, bool) {
	if name != " " {
		name = strings.ToLower(strings.TrimSpace(name))
	}
	d, ok := keyNames[name]
	return d, ok
}
