package obj

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/tilepush/common"
)

// Descriptor is the flat record collaborators use to describe one object.
type Descriptor struct {
	GID   int          `json:"gid"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	W     float64      `json:"w"`
	H     float64      `json:"h"`
	Ang   common.Angle `json:"ang"`
	Color int          `json:"color"`
	Tag   string       `json:"tag,omitempty"`
}

// Default fills the defaults omitted by compact formats.
func (d Descriptor) Default() Descriptor {
	if d.W == 0 {
		d.W = 1
	}
	if d.H == 0 {
		d.H = 1
	}
	return d
}

var (
	ErrIllegalAngle = errors.New("obj: illegal angle")
	ErrColorRange   = errors.New("obj: colour out of range")
	ErrTagSeparator = errors.New("obj: tag contains a stage code separator")
)

// InvalidGeometryError reports a descriptor whose position or size cannot be
// simulated.
type InvalidGeometryError struct {
	GID   int
	Field string
	Value float64
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("obj: invalid geometry: gid %d %s=%v", e.GID, e.Field, e.Value)
}

// Validate checks the descriptor before an object is built from it.
func (d Descriptor) Validate() error {
	if _, err := KindOf(d.GID); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
		size bool
	}{
		{"x", d.X, false},
		{"y", d.Y, false},
		{"w", d.W, true},
		{"h", d.H, true},
	} {
		if !common.Finite(f.v) || (f.size && f.v <= 0) {
			return &InvalidGeometryError{GID: d.GID, Field: f.name, Value: f.v}
		}
	}
	if !d.Ang.Valid() {
		return fmt.Errorf("%w %d", ErrIllegalAngle, d.Ang)
	}
	if !common.ValidColor(d.Color) {
		return fmt.Errorf("%w: %d", ErrColorRange, d.Color)
	}
	if strings.ContainsAny(d.Tag, ",;") {
		return fmt.Errorf("%w: %q", ErrTagSeparator, d.Tag)
	}
	return nil
}
