package mathd

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bad numeric input never propagates into matrix math: NaN resets the
// whole value, infinities clamp to a finite sentinel.

func clampComponent(v float64) float64 {
	if math.IsInf(v, 1) {
		return infinityClamp
	}
	if math.IsInf(v, -1) {
		return -infinityClamp
	}
	return v
}

func hasNaN3(v mgl64.Vec3) bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2])
}

// SanitizeVec3 validates a position-like vector: any NaN resets the whole
// value to zero, +-Inf components clamp to the sentinel magnitude.
func SanitizeVec3(v mgl64.Vec3) mgl64.Vec3 {
	if hasNaN3(v) {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{clampComponent(v[0]), clampComponent(v[1]), clampComponent(v[2])}
}

// SanitizeScale is SanitizeVec3 with a unit fallback for NaN.
func SanitizeScale(v mgl64.Vec3) mgl64.Vec3 {
	if hasNaN3(v) {
		return mgl64.Vec3{1, 1, 1}
	}
	return mgl64.Vec3{clampComponent(v[0]), clampComponent(v[1]), clampComponent(v[2])}
}

// SanitizeQuat validates a rotation: NaN anywhere or an all-zero
// quaternion resets to identity, infinities clamp and the result is
// renormalized.
func SanitizeQuat(q mgl64.Quat) mgl64.Quat {
	if math.IsNaN(q.W) || hasNaN3(q.V) {
		return mgl64.QuatIdent()
	}
	q.W = clampComponent(q.W)
	q.V = mgl64.Vec3{clampComponent(q.V[0]), clampComponent(q.V[1]), clampComponent(q.V[2])}
	if q.W == 0 && q.V[0] == 0 && q.V[1] == 0 && q.V[2] == 0 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
