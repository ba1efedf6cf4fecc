// Package transform maintains the authoritative double-precision
// position/rotation/scale tree that the engine keeps in parallel with
// the host runtime's single-precision transforms. Nodes cache their
// derived world values lazily and notify children and observers with
// changed-component bitmasks. All operations are single-threaded by
// contract; calls are sequenced by the frame driver.
package transform

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirage3d/geocore/geodetic"
	"github.com/mirage3d/geocore/host"
	"github.com/mirage3d/geocore/mathd"
	"github.com/mirage3d/geocore/utils"
)

var nodeNames utils.NameGenerator
var nextNodeID uint32

type Node struct {
	id   uint32
	name string

	parent   *Node
	children []*Node

	localPosition mgl64.Vec3
	localRotation mgl64.Quat
	localScale    mgl64.Vec3

	geoMode       bool
	geoDirty      bool
	geoCoordinate geodetic.Coordinate
	body          geodetic.Body // non-nil only on georeferenced roots

	cache nodeCache

	originShiftDirty bool
	absolute         bool

	active        bool
	activatedOnce bool
	alive         bool

	frameCaptured Components

	observers    []observerEntry
	nextObserver int

	behaviors []interface{}

	host host.Transform

	pendingParent   *Node
	pendingPreserve bool
	hasPending      bool
}

// NewNode creates a live root-less node with an identity transform.
// An empty name gets a generated one.
func NewNode(name string) *Node {
	if name == "" {
		name = nodeNames.Name()
	}
	nextNodeID++
	return &Node{
		id:            nextNodeID,
		name:          name,
		localRotation: mgl64.QuatIdent(),
		localScale:    mgl64.Vec3{1, 1, 1},
		active:        true,
		alive:         true,
	}
}

func (n *Node) ID() uint32   { return n.id }
func (n *Node) Name() string { return n.name }
func (n *Node) Alive() bool  { return n != nil && n.alive }

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy: traversal callbacks are allowed to edit the
// hierarchy mid-walk.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) removeChild(c *Node) {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// IsAncestorOf reports whether n appears in other's parent chain.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Dispose clears the node's links, cache and observers and marks it
// dead. Children are orphaned, not disposed; ownership of their
// lifetime stays with the external lifecycle collaborator.
func (n *Node) Dispose() {
	if n == nil || !n.alive {
		return
	}
	if n.parent != nil {
		n.parent.removeChild(n)
		n.parent = nil
	}
	for _, c := range n.children {
		c.parent = nil
		c.cache.invalidate(cacheAll)
	}
	n.children = nil
	n.cache = nodeCache{}
	n.observers = nil
	n.behaviors = nil
	n.host = nil
	n.hasPending = false
	n.alive = false
}

// ---- local accessors ----

func (n *Node) LocalPosition() mgl64.Vec3 { return n.localPosition }
func (n *Node) LocalRotation() mgl64.Quat { return n.localRotation }
func (n *Node) LocalScale() mgl64.Vec3    { return n.localScale }

func (n *Node) SetLocalPosition(v mgl64.Vec3) { n.setLocalPosition(v, false) }
func (n *Node) SetLocalRotation(q mgl64.Quat) { n.setLocalRotation(q, false) }
func (n *Node) SetLocalScale(v mgl64.Vec3)    { n.setLocalScale(v, false) }

// Captured variants mark the edit as externally captured (user-driven);
// the captured bitmask of the resulting notifications is set
// accordingly.

func (n *Node) SetLocalPositionCaptured(v mgl64.Vec3) { n.setLocalPosition(v, true) }
func (n *Node) SetLocalRotationCaptured(q mgl64.Quat) { n.setLocalRotation(q, true) }
func (n *Node) SetLocalScaleCaptured(v mgl64.Vec3)    { n.setLocalScale(v, true) }

func (n *Node) setLocalPosition(v mgl64.Vec3, captured bool) {
	v = mathd.SanitizeVec3(v)
	if v == n.localPosition {
		return
	}
	n.localPosition = v
	n.cache.invalidate(cacheWorldPosition | cacheLocalToWorld | cacheWorldToLocal)
	n.notifyLocalChange(ComponentLocalPosition|ComponentPosition, captured)
}

func (n *Node) setLocalRotation(q mgl64.Quat, captured bool) {
	q = mathd.SanitizeQuat(q)
	if q == n.localRotation {
		return
	}
	n.localRotation = q
	// own world position is untouched; children derive Position from
	// the parent-level Rotation|LossyScale mapping
	n.cache.invalidate(cacheWorldRotation | cacheLossyScale | cacheLocalToWorld | cacheWorldToLocal)
	n.notifyLocalChange(ComponentLocalRotation|ComponentRotation|ComponentLossyScale, captured)
}

func (n *Node) setLocalScale(v mgl64.Vec3, captured bool) {
	v = mathd.SanitizeScale(v)
	if v == n.localScale {
		return
	}
	n.localScale = v
	n.cache.invalidate(cacheLossyScale | cacheLocalToWorld | cacheWorldToLocal)
	n.notifyLocalChange(ComponentLocalScale|ComponentLossyScale, captured)
}

func (n *Node) notifyLocalChange(changed Components, captured bool) {
	n.originShiftDirty = true
	n.geoDirty = true
	var capMask Components
	if captured {
		capMask = changed
	}
	n.frameCaptured |= capMask
	n.emit(changed, capMask)
	world := changed.World()
	for _, c := range n.children {
		c.onParentChanged(world, capMask.World())
	}
}

// onParentChanged maps a parent-level world change to the node's own
// invalidations: a parent rotation or scale change moves this node's
// world position even when its own local position did not change.
func (n *Node) onParentChanged(parentChanged, parentCaptured Components) {
	if n == nil || !n.alive {
		return
	}
	var changed Components
	var kinds cacheKind
	if parentChanged.Has(ComponentPosition) {
		changed |= ComponentPosition
		kinds |= cacheWorldPosition | cacheLocalToWorld | cacheWorldToLocal
	}
	if parentChanged.Has(ComponentRotation | ComponentLossyScale) {
		changed |= ComponentPosition | ComponentRotation | ComponentLossyScale
		kinds |= cacheAll
	}
	if changed == 0 {
		return
	}
	n.cache.invalidate(kinds)
	n.originShiftDirty = true
	n.geoDirty = true
	var capMask Components
	if parentCaptured != 0 {
		capMask = changed
	}
	n.frameCaptured |= capMask
	n.emit(changed, capMask)
	for _, c := range n.children {
		c.onParentChanged(changed, capMask)
	}
}

// ---- derived world values ----

// LocalMatrix is the T*R*S matrix of the local fields alone.
func (n *Node) LocalMatrix() mgl64.Mat4 {
	return mathd.ComposeTRS(n.localPosition, n.localRotation, n.localScale)
}

func (n *Node) Position() mgl64.Vec3 {
	return n.cache.vec3(cacheWorldPosition, &n.cache.worldPosition, func() mgl64.Vec3 {
		if n.parent == nil {
			return n.localPosition
		}
		return mathd.TransformPoint(n.parent.LocalToWorldMatrix(), n.localPosition)
	})
}

func (n *Node) Rotation() mgl64.Quat {
	return n.cache.quat(cacheWorldRotation, &n.cache.worldRotation, func() mgl64.Quat {
		if n.parent == nil {
			return n.localRotation
		}
		return n.parent.Rotation().Mul(n.localRotation).Normalize()
	})
}

func (n *Node) LossyScale() mgl64.Vec3 {
	return n.cache.vec3(cacheLossyScale, &n.cache.lossyScale, func() mgl64.Vec3 {
		if n.parent == nil {
			return n.localScale
		}
		return mathd.ScaleFromMatrix(n.LocalToWorldMatrix(), n.Rotation())
	})
}

func (n *Node) LocalToWorldMatrix() mgl64.Mat4 {
	return n.cache.mat4(cacheLocalToWorld, &n.cache.localToWorld, func() mgl64.Mat4 {
		local := n.LocalMatrix()
		if n.parent == nil {
			return local
		}
		return n.parent.LocalToWorldMatrix().Mul4(local)
	})
}

func (n *Node) WorldToLocalMatrix() mgl64.Mat4 {
	return n.cache.mat4(cacheWorldToLocal, &n.cache.worldToLocal, func() mgl64.Mat4 {
		return n.LocalToWorldMatrix().Inv()
	})
}

// TransformPoint maps a point from the node's local space to world space.
func (n *Node) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mathd.TransformPoint(n.LocalToWorldMatrix(), p)
}

// InverseTransformPoint maps a world-space point into the node's local
// space.
func (n *Node) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mathd.TransformPoint(n.WorldToLocalMatrix(), p)
}

// TransformDirection maps a direction from local to world space;
// translation does not apply.
func (n *Node) TransformDirection(d mgl64.Vec3) mgl64.Vec3 {
	return mathd.TransformVector(n.LocalToWorldMatrix(), d)
}

// ---- origin shift bookkeeping ----

func (n *Node) OriginShiftDirty() bool    { return n.originShiftDirty }
func (n *Node) ClearOriginShiftDirty()    { n.originShiftDirty = false }
func (n *Node) AbsolutePositioning() bool { return n.absolute }

// SetAbsolutePositioning flags the node as requiring exact coordinates
// (e.g. a physics-driven body); it and its subtree are exempt from
// origin subtraction.
func (n *Node) SetAbsolutePositioning(abs bool) {
	if n.absolute != abs {
		n.absolute = abs
		n.originShiftDirty = true
	}
}

// ---- host binding ----

func (n *Node) BindHost(t host.Transform) { n.host = t }
func (n *Node) Host() host.Transform      { return n.host }

// ---- activation / per-frame state (driven by traversal) ----

func (n *Node) Active() bool          { return n.active }
func (n *Node) SetActive(active bool) { n.active = active }
func (n *Node) ActivatedOnce() bool   { return n.activatedOnce }
func (n *Node) MarkActivated()        { n.activatedOnce = true }

// FrameCaptured accumulates the captured components seen this frame;
// the PostUpdate pass clears it.
func (n *Node) FrameCaptured() Components { return n.frameCaptured }
func (n *Node) ClearFrameMarkers()        { n.frameCaptured = 0 }

// ---- behaviors ----

// AddBehavior attaches a per-node behavior; the traversal driver probes
// it for the optional pass interfaces.
func (n *Node) AddBehavior(b interface{}) {
	n.behaviors = append(n.behaviors, b)
}

func (n *Node) Behaviors() []interface{} { return n.behaviors }

// ---- pending hierarchy edits (resolved during PreUpdate) ----

// RequestParent queues a reparent to be resolved by the next PreUpdate
// pass instead of applying it immediately.
func (n *Node) RequestParent(p *Node, preserveWorldPose bool) {
	n.pendingParent = p
	n.pendingPreserve = preserveWorldPose
	n.hasPending = true
}

func (n *Node) HasPendingParent() bool { return n.hasPending }

// ResolvePendingParent applies a queued reparent, if any.
func (n *Node) ResolvePendingParent() error {
	if !n.hasPending {
		return nil
	}
	p, preserve := n.pendingParent, n.pendingPreserve
	n.pendingParent = nil
	n.hasPending = false
	return n.SetParent(p, preserve)
}
