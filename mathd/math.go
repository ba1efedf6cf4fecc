package mathd

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultEpsilon is the tolerance used for world-pose comparisons
	// (reparent round-trips, consistency checks).
	DefaultEpsilon = 1e-9

	// DegenerateAxis is the column-norm threshold below which a scale axis
	// is considered collapsed and excluded from sign recovery.
	DegenerateAxis = 1e-12
)

// infinityClamp is the finite sentinel that replaces +-Inf components
// before they reach matrix math. Overridable from config.
var infinityClamp = 1e12

func SetInfinityClamp(v float64) {
	if v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
		infinityClamp = v
	}
}

func InfinityClamp() float64 {
	return infinityClamp
}

// ComposeTRS builds the local matrix T * R * S.
func ComposeTRS(pos mgl64.Vec3, rot mgl64.Quat, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(pos.X(), pos.Y(), pos.Z())
	s := mgl64.Scale3D(scale.X(), scale.Y(), scale.Z())
	return t.Mul4(rot.Mat4()).Mul4(s)
}

// TransformPoint applies m to v as a position (w = 1).
func TransformPoint(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	r := m.Mul4x1(v.Vec4(1))
	if w := r.W(); w != 0 && w != 1 {
		return r.Vec3().Mul(1 / w)
	}
	return r.Vec3()
}

// TransformVector applies m to v as a direction (w = 0), so translation
// does not participate.
func TransformVector(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// ScaleFromMatrix recovers the effective world scale from a local-to-world
// matrix given the world rotation. Shear ends up off-diagonal and is
// discarded, which is what makes the result lossy.
func ScaleFromMatrix(m mgl64.Mat4, worldRot mgl64.Quat) mgl64.Vec3 {
	rel := worldRot.Inverse().Mat4().Mul4(m)
	return mgl64.Vec3{rel.At(0, 0), rel.At(1, 1), rel.At(2, 2)}
}

// ScaleSigns returns the per-axis +-1 signature of a scale vector.
// Zero axes count as positive.
func ScaleSigns(v mgl64.Vec3) mgl64.Vec3 {
	s := mgl64.Vec3{1, 1, 1}
	for i := 0; i < 3; i++ {
		if v[i] < 0 {
			s[i] = -1
		}
	}
	return s
}

// ComposeSigns multiplies two per-axis signatures componentwise.
func ComposeSigns(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// HasNegativeSign reports whether any axis of the signature is mirrored.
func HasNegativeSign(s mgl64.Vec3) bool {
	return s[0] < 0 || s[1] < 0 || s[2] < 0
}

// ReflectQuat conjugates a rotation by the reflection F = diag(signs):
// F*R*F. Two reflections compose to a proper rotation, so the result is
// convertible back to a quaternion. Used to express a world rotation under
// a parent chain containing mirrored axes.
func ReflectQuat(q mgl64.Quat, signs mgl64.Vec3) mgl64.Quat {
	if !HasNegativeSign(signs) {
		return q
	}
	f := mgl64.Scale3D(signs.X(), signs.Y(), signs.Z())
	m := f.Mul4(q.Mat4()).Mul4(f)
	return mgl64.Mat4ToQuat(m).Normalize()
}

// QuatApproxEqual compares orientations, treating q and -q as equal.
func QuatApproxEqual(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(a.Dot(b)) >= 1-eps
}

// Col3 returns the upper 3 components of matrix column i.
func Col3(m mgl64.Mat4, i int) mgl64.Vec3 {
	return m.Col(i).Vec3()
}
