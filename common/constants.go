package common

import "time"

// Step is the length of one simulation tick in milliseconds.
const Step = 1000.0 / 60.0

// MaxFrame caps the elapsed time a single frame may feed the tick accumulator.
const MaxFrame = 100.0

// StepDuration is Step as a time.Duration.
const StepDuration = time.Second / 60

const (
	// PropsLen is the number of properties in a stage record.
	PropsLen = 8
	// MapBlockLen is the side of the square play field in tiles.
	MapBlockLen = 16
	// PxPerUnit is the tile size in pixels of the tile-map format.
	PxPerUnit = 16
)

const (
	PlayerStrength    = 10000
	BlockStrength     = 20000
	PushBlockStrength = 5000
	MoveBlockStrength = 15000
)

const (
	Gravity        = 0.01
	JumpSpeed      = -0.2
	PlayerSpeed    = 0.08
	MoveBlockSpeed = 0.04
	// CornerLen is the overlap a player may clip past when its head grazes a corner.
	CornerLen = 0.05
	// MoveObjCornerLen is the overlap a pushed object may clip past on a corner.
	MoveObjCornerLen = 0.2
)
