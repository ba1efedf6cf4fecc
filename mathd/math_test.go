package mathd

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestComposeTRSIdentity(t *testing.T) {
	m := ComposeTRS(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	if !m.ApproxEqualThreshold(mgl64.Ident4(), 1e-12) {
		t.Errorf("identity TRS = %v", m)
	}
}

func TestComposeTRSOrder(t *testing.T) {
	// T*R*S: a local point is scaled, then rotated, then translated
	pos := mgl64.Vec3{10, 0, 0}
	rot := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	scale := mgl64.Vec3{2, 1, 1}

	m := ComposeTRS(pos, rot, scale)
	got := TransformPoint(m, mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{10, 2, 0}
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}
}

func TestTransformVectorIgnoresTranslation(t *testing.T) {
	m := ComposeTRS(mgl64.Vec3{100, 200, 300}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	got := TransformVector(m, mgl64.Vec3{0, 1, 0})
	if !got.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("TransformVector = %v", got)
	}
}

func TestScaleFromMatrix(t *testing.T) {
	rot := mgl64.QuatRotate(0.7, mgl64.Vec3{0, 1, 0})
	scale := mgl64.Vec3{2, -3, 0.5}
	m := ComposeTRS(mgl64.Vec3{1, 2, 3}, rot, scale)
	got := ScaleFromMatrix(m, rot)
	if !got.ApproxEqualThreshold(scale, 1e-9) {
		t.Errorf("ScaleFromMatrix = %v, want %v", got, scale)
	}
}

func TestReflectQuat(t *testing.T) {
	// reflecting a Z rotation across the YZ plane negates the angle
	q := mgl64.QuatRotate(0.3, mgl64.Vec3{0, 0, 1})
	r := ReflectQuat(q, mgl64.Vec3{-1, 1, 1})
	want := mgl64.QuatRotate(-0.3, mgl64.Vec3{0, 0, 1})
	if !QuatApproxEqual(r, want, 1e-12) {
		t.Errorf("ReflectQuat = %v, want %v", r, want)
	}
	// positive signature is a no-op
	same := ReflectQuat(q, mgl64.Vec3{1, 1, 1})
	if !QuatApproxEqual(same, q, 1e-12) {
		t.Errorf("ReflectQuat with no mirror changed the rotation: %v", same)
	}
}

func TestScaleSigns(t *testing.T) {
	tests := []struct {
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 1, 1}},
		{mgl64.Vec3{-1, 2, -3}, mgl64.Vec3{-1, 1, -1}},
		{mgl64.Vec3{0, -0.5, 1}, mgl64.Vec3{1, -1, 1}},
	}
	for _, test := range tests {
		if got := ScaleSigns(test.in); got != test.want {
			t.Errorf("ScaleSigns(%v) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestSanitizeVec3(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	tests := []struct {
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 2, 3}},
		{mgl64.Vec3{nan, 2, 3}, mgl64.Vec3{}},
		{mgl64.Vec3{1, nan, nan}, mgl64.Vec3{}},
		{mgl64.Vec3{inf, 2, 3}, mgl64.Vec3{infinityClamp, 2, 3}},
		{mgl64.Vec3{1, -inf, 3}, mgl64.Vec3{1, -infinityClamp, 3}},
	}
	for _, test := range tests {
		if got := SanitizeVec3(test.in); got != test.want {
			t.Errorf("SanitizeVec3(%v) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestSanitizeScaleNaN(t *testing.T) {
	got := SanitizeScale(mgl64.Vec3{math.NaN(), 1, 1})
	if got != (mgl64.Vec3{1, 1, 1}) {
		t.Errorf("SanitizeScale NaN = %v, want unit", got)
	}
}

func TestSanitizeQuat(t *testing.T) {
	if got := SanitizeQuat(mgl64.Quat{}); got != mgl64.QuatIdent() {
		t.Errorf("zero quat = %v, want identity", got)
	}
	if got := SanitizeQuat(mgl64.Quat{W: math.NaN()}); got != mgl64.QuatIdent() {
		t.Errorf("NaN quat = %v, want identity", got)
	}
	q := mgl64.QuatRotate(1.1, mgl64.Vec3{1, 0, 0})
	if got := SanitizeQuat(q); !QuatApproxEqual(got, q, 1e-12) {
		t.Errorf("valid quat changed: %v", got)
	}
}

func TestQuatApproxEqualNegation(t *testing.T) {
	q := mgl64.QuatRotate(0.5, mgl64.Vec3{0, 1, 0})
	neg := mgl64.Quat{W: -q.W, V: q.V.Mul(-1)}
	if !QuatApproxEqual(q, neg, 1e-12) {
		t.Error("q and -q should be the same orientation")
	}
}
