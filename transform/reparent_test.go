package transform

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirage3d/geocore/mathd"
)

func TestSetParentCycleRejected(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	mustSetParent(t, b, a, false)
	mustSetParent(t, c, b, false)

	if err := a.SetParent(c, false); err == nil {
		t.Error("parenting under own descendant must fail")
	}
	if err := a.SetParent(a, false); err == nil {
		t.Error("parenting under itself must fail")
	}
	// the failed requests must not have touched the links
	if c.Parent() != b || b.Parent() != a || a.Parent() != nil {
		t.Error("links changed by rejected reparent")
	}
}

func TestSetParentNoPreserveKeepsLocals(t *testing.T) {
	p1 := NewNode("p1")
	p1.SetLocalPosition(mgl64.Vec3{100, 0, 0})
	p2 := NewNode("p2")
	a := NewNode("a")
	mustSetParent(t, a, p1, false)
	a.SetLocalPosition(mgl64.Vec3{1, 2, 3})

	mustSetParent(t, a, p2, false)
	if a.LocalPosition() != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("locals must not change without preserve: %v", a.LocalPosition())
	}
	if a.Parent() != p2 || len(p1.Children()) != 0 {
		t.Error("links not updated")
	}
}

func TestSetParentPreserveWorldPose(t *testing.T) {
	p1 := NewNode("p1")
	p1.SetLocalPosition(mgl64.Vec3{10, 5, 0})
	p1.SetLocalRotation(mgl64.QuatRotate(0.6, mgl64.Vec3{0, 0, 1}))

	p2 := NewNode("p2")
	p2.SetLocalPosition(mgl64.Vec3{-4, 0, 2})
	p2.SetLocalScale(mgl64.Vec3{2, 2, 2})

	a := NewNode("a")
	mustSetParent(t, a, p1, false)
	a.SetLocalPosition(mgl64.Vec3{1, 1, 0})
	a.SetLocalRotation(mgl64.QuatRotate(0.25, mgl64.Vec3{0, 1, 0}))

	wantPos := a.Position()
	wantRot := a.Rotation()
	wantMatrix := a.LocalToWorldMatrix()

	mustSetParent(t, a, p2, true)

	if !a.Position().ApproxEqualThreshold(wantPos, eps) {
		t.Errorf("world position %v, want %v", a.Position(), wantPos)
	}
	if !mathd.QuatApproxEqual(a.Rotation(), wantRot, eps) {
		t.Errorf("world rotation %v, want %v", a.Rotation(), wantRot)
	}
	if !a.LocalToWorldMatrix().ApproxEqualThreshold(wantMatrix, 1e-7) {
		t.Error("world matrix not preserved")
	}
}

func TestSetParentPreserveToNil(t *testing.T) {
	p := NewNode("p")
	p.SetLocalPosition(mgl64.Vec3{3, 4, 5})
	p.SetLocalScale(mgl64.Vec3{2, 2, 2})
	a := NewNode("a")
	mustSetParent(t, a, p, false)
	a.SetLocalPosition(mgl64.Vec3{1, 0, 0})

	wantPos := a.Position()
	mustSetParent(t, a, nil, true)

	if a.Parent() != nil {
		t.Fatal("detach failed")
	}
	if !a.LocalPosition().ApproxEqualThreshold(wantPos, eps) {
		t.Errorf("detached local position %v, want world %v", a.LocalPosition(), wantPos)
	}
	if a.LocalScale() != (mgl64.Vec3{2, 2, 2}) {
		t.Errorf("detached local scale %v", a.LocalScale())
	}
}

// Mirrored parent, identity child rotation. Reparenting to the
// grandparent must reproduce the world-space transform of a test
// direction vector.
func TestReparentMirroredParent(t *testing.T) {
	grand := NewNode("grand")
	parent := NewNode("parent")
	mustSetParent(t, parent, grand, false)
	parent.SetLocalScale(mgl64.Vec3{-1, 1, 1})
	parent.SetLocalPosition(mgl64.Vec3{2, 0, 0})

	child := NewNode("child")
	mustSetParent(t, child, parent, false)
	child.SetLocalPosition(mgl64.Vec3{1, 2, 3})

	dir := mgl64.Vec3{1, 2, -1}
	wantDir := child.TransformDirection(dir)
	wantPos := child.Position()

	mustSetParent(t, child, grand, true)

	if !child.TransformDirection(dir).ApproxEqualThreshold(wantDir, 1e-7) {
		t.Errorf("direction %v, want %v", child.TransformDirection(dir), wantDir)
	}
	if !child.Position().ApproxEqualThreshold(wantPos, 1e-7) {
		t.Errorf("position %v, want %v", child.Position(), wantPos)
	}
	if child.LocalScale().X() >= 0 {
		t.Errorf("mirror must surface in the local scale: %v", child.LocalScale())
	}
}

// Round trip through a mirrored chain restores the original locals.
func TestReparentRoundTrip(t *testing.T) {
	p1 := NewNode("p1")
	p1.SetLocalPosition(mgl64.Vec3{5, 1, 0})

	mirrorRoot := NewNode("mirrorRoot")
	mirrorRoot.SetLocalScale(mgl64.Vec3{-1, 1, 1})
	p2 := NewNode("p2")
	mustSetParent(t, p2, mirrorRoot, false)
	p2.SetLocalPosition(mgl64.Vec3{0, -3, 1})

	a := NewNode("a")
	mustSetParent(t, a, p1, false)
	a.SetLocalPosition(mgl64.Vec3{1, 2, 3})
	a.SetLocalRotation(mgl64.QuatRotate(0.35, mgl64.Vec3{0, 0, 1}))
	a.SetLocalScale(mgl64.Vec3{1, 2, 1})

	origPos := a.LocalPosition()
	origRot := a.LocalRotation()
	origScale := a.LocalScale()

	mustSetParent(t, a, p2, true)
	mustSetParent(t, a, p1, true)

	if !a.LocalPosition().ApproxEqualThreshold(origPos, 1e-7) {
		t.Errorf("local position %v, want %v", a.LocalPosition(), origPos)
	}
	if !mathd.QuatApproxEqual(a.LocalRotation(), origRot, 1e-7) {
		t.Errorf("local rotation %v, want %v", a.LocalRotation(), origRot)
	}
	if !a.LocalScale().ApproxEqualThreshold(origScale, 1e-7) {
		t.Errorf("local scale %v, want %v", a.LocalScale(), origScale)
	}
}

func TestRequestParentDeferred(t *testing.T) {
	p1 := NewNode("p1")
	p2 := NewNode("p2")
	a := NewNode("a")
	mustSetParent(t, a, p1, false)

	a.RequestParent(p2, false)
	if a.Parent() != p1 {
		t.Fatal("request applied immediately")
	}
	if !a.HasPendingParent() {
		t.Fatal("pending flag not set")
	}
	if err := a.ResolvePendingParent(); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if a.Parent() != p2 || a.HasPendingParent() {
		t.Error("pending reparent not applied")
	}
	// resolving again is a no-op
	if err := a.ResolvePendingParent(); err != nil {
		t.Errorf("second resolve: %v", err)
	}
}
