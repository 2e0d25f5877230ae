package common

import "math"

// Epsilon absorbs float drift when comparing tile coordinates.
const Epsilon = 1e-9

func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Speed is the length of the velocity (vx, vy).
func Speed(vx, vy float64) float64 {
	return math.Hypot(vx, vy)
}
