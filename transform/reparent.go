package transform

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/mirage3d/geocore/mathd"
)

// SetParent moves the node under newParent (nil detaches to root level).
// With preserveWorldPose the node's world position, rotation and scale
// are kept by recomputing the local values in the new parent's space,
// including chains with mirrored (negative-scale) ancestors. Without it
// only the link changes and the world pose jumps.
//
// Parenting a node under itself or one of its own descendants would
// create a cycle and is rejected.
func (n *Node) SetParent(newParent *Node, preserveWorldPose bool) error {
	if n == nil || !n.alive {
		return errors.Errorf("SetParent on disposed node")
	}
	if newParent != nil {
		if !newParent.alive {
			return errors.Errorf("Cannot parent %q under disposed node", n.name)
		}
		if newParent == n {
			return errors.Errorf("Cannot parent %q under itself", n.name)
		}
		if n.IsAncestorOf(newParent) {
			return errors.Errorf("Cannot parent %q under its own descendant %q", n.name, newParent.name)
		}
	}
	if newParent == n.parent {
		return nil
	}

	if !preserveWorldPose {
		n.relink(newParent)
		n.cache.invalidate(cacheAll)
		n.notifyLocalChange(ComponentPosition|ComponentRotation|ComponentLossyScale, false)
		return nil
	}

	// snapshot while the old parent chain is still valid
	worldPos := n.Position()
	worldRot := n.Rotation()
	worldLossy := n.LossyScale()
	localToWorld := n.LocalToWorldMatrix()
	oldSigns := chainSigns(n.parent)

	n.relink(newParent)
	n.cache.invalidate(cacheAll)

	var pos mgl64.Vec3
	var rot mgl64.Quat
	var scale mgl64.Vec3
	if newParent == nil {
		pos, rot, scale = worldPos, worldRot, worldLossy
	} else {
		// mirrored axes of the old and new chains both break naive
		// quaternion subtraction; the composed signature cancels pairs
		// that appear on both sides
		signs := mathd.ComposeSigns(oldSigns, chainSigns(newParent))
		pos, rot, scale = decomposeInto(newParent, signs, worldPos, worldRot, localToWorld)
	}

	n.localPosition = mathd.SanitizeVec3(pos)
	n.localRotation = mathd.SanitizeQuat(rot)
	n.localScale = mathd.SanitizeScale(scale)
	n.geoDirty = true
	n.notifyLocalChange(ComponentLocalPosition|ComponentLocalRotation|ComponentLocalScale|
		ComponentPosition|ComponentRotation|ComponentLossyScale, false)
	return nil
}

func (n *Node) relink(newParent *Node) {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	n.parent = newParent
	if newParent != nil {
		newParent.children = append(newParent.children, n)
	}
}

// chainSigns composes the per-axis scale signature up a parent chain.
// An odd number of mirrored axes breaks naive quaternion subtraction,
// so the caller reflects the rotation around the negative axes first.
func chainSigns(p *Node) mgl64.Vec3 {
	signs := mgl64.Vec3{1, 1, 1}
	for ; p != nil; p = p.parent {
		signs = mathd.ComposeSigns(signs, mathd.ScaleSigns(p.localScale))
	}
	return signs
}

// decomposeInto expresses a snapshotted world pose in parent's local
// space.
func decomposeInto(parent *Node, signs mgl64.Vec3, worldPos mgl64.Vec3, worldRot mgl64.Quat, localToWorld mgl64.Mat4) (mgl64.Vec3, mgl64.Quat, mgl64.Vec3) {
	worldToParent := parent.WorldToLocalMatrix()
	pos := mathd.TransformPoint(worldToParent, worldPos)

	rot := parent.Rotation().Inverse().Mul(mathd.ReflectQuat(worldRot, signs)).Normalize()

	// relative matrix carries the exact rotation*scale of the node in
	// parent space; magnitudes come from its column norms
	rel := worldToParent.Mul4(localToWorld)
	var mags [3]float64
	for i := 0; i < 3; i++ {
		mags[i] = mathd.Col3(rel, i).Len()
	}

	// resolve the per-axis sign by comparing a trial matrix, built from
	// the candidate rotation and positive magnitudes, against the actual
	// columns; degenerate axes are excluded and stay positive
	trial := rot.Mat4().Mul4(mgl64.Scale3D(mags[0], mags[1], mags[2]))
	scale := mgl64.Vec3{mags[0], mags[1], mags[2]}
	for i := 0; i < 3; i++ {
		if mags[i] <= mathd.DegenerateAxis {
			continue
		}
		if mathd.Col3(trial, i).Dot(mathd.Col3(rel, i)) < 0 {
			scale[i] = -scale[i]
		}
	}
	return pos, rot, scale
}
