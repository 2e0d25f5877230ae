package obj

import (
	"errors"
	"fmt"
)

// Kind discriminates the object variants.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindBlock
	KindLadder
	KindKey
	KindOneway
	KindLever
	KindPushBlock
	KindPortal
	KindButton
	KindMoveBlock
)

// Kinds lists every variant in registry order.
var Kinds = [...]Kind{
	KindPlayer, KindBlock, KindLadder, KindKey, KindOneway,
	KindLever, KindPushBlock, KindPortal, KindButton, KindMoveBlock,
}

var kindNames = [...]string{
	KindPlayer:    "player",
	KindBlock:     "block",
	KindLadder:    "ladder",
	KindKey:       "key",
	KindOneway:    "oneway",
	KindLever:     "lever",
	KindPushBlock: "pushBlock",
	KindPortal:    "portal",
	KindButton:    "button",
	KindMoveBlock: "moveBlock",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Movable reports whether objects of this kind move under their own strength.
func (k Kind) Movable() bool {
	return k == KindPlayer || k == KindPushBlock || k == KindMoveBlock
}

// Object type ids shared by stage records and tile maps.
const (
	GIDPlayer       = 1
	GIDBlock        = 2
	GIDBlockOff     = 3
	GIDLadder       = 4
	GIDKey          = 5
	GIDOneway       = 6
	GIDPortal       = 7
	GIDLever        = 8
	GIDPushBlock    = 9
	GIDButton       = 10
	GIDMoveBlockOff = 11
	GIDMoveBlockOn  = 12
)

var ErrUnknownGID = errors.New("obj: unknown gid")

// KindOf maps a gid to its variant.
func KindOf(gid int) (Kind, error) {
	switch gid {
	case GIDPlayer:
		return KindPlayer, nil
	case GIDBlock, GIDBlockOff:
		return KindBlock, nil
	case GIDLadder:
		return KindLadder, nil
	case GIDKey:
		return KindKey, nil
	case GIDOneway:
		return KindOneway, nil
	case GIDPortal:
		return KindPortal, nil
	case GIDLever:
		return KindLever, nil
	case GIDPushBlock:
		return KindPushBlock, nil
	case GIDButton:
		return KindButton, nil
	case GIDMoveBlockOff, GIDMoveBlockOn:
		return KindMoveBlock, nil
	}
	return 0, fmt.Errorf("%w %d", ErrUnknownGID, gid)
}

func ValidGID(gid int) bool {
	_, err := KindOf(gid)
	return err == nil
}
