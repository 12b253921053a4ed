package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// IsFiniteQuat reports whether every component of q is a finite number.
func IsFiniteQuat(q mgl64.Quat) bool {
	if math.IsNaN(q.W) || math.IsInf(q.W, 0) {
		return false
	}
	return IsFinite(q.V)
}
