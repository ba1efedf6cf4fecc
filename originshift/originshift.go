// Package originshift re-centers the host-visible (single-precision)
// transforms of a tree around a moving origin, without ever touching the
// authoritative double-precision state. The coordinator is an explicit
// context owned by a scene, not process-global state, so tests stay
// hermetic.
package originshift

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/mirage3d/geocore/mathd"
	"github.com/mirage3d/geocore/transform"
)

type Context struct {
	enabled bool

	origin        mgl64.Vec3
	forceSelected bool
	roots         []*transform.Node

	dirty    map[*transform.Node]struct{}
	selected map[*transform.Node]struct{}

	// last applied inputs, for the skip gate
	applied    bool
	lastOrigin mgl64.Vec3
	lastForce  bool
	lastRoots  []*transform.Node
}

func NewContext(enabled bool) *Context {
	return &Context{
		enabled:  enabled,
		dirty:    make(map[*transform.Node]struct{}),
		selected: make(map[*transform.Node]struct{}),
	}
}

func (c *Context) Enabled() bool      { return c.enabled }
func (c *Context) SetEnabled(on bool) { c.enabled = on }

func (c *Context) Origin() mgl64.Vec3  { return c.origin }
func (c *Context) ForceSelected() bool { return c.forceSelected }

// SubscribeRoots pins the root set used when Apply is called with nil
// roots. Empty means the caller passes roots explicitly every time.
func (c *Context) SubscribeRoots(roots []*transform.Node) {
	c.roots = roots
}

// Track subscribes the context to a node's change notifications so its
// originShiftDirty transitions land in the dirty set.
func (c *Context) Track(n *transform.Node) {
	c.dirty[n] = struct{}{}
	n.Subscribe(func(n *transform.Node, changed, captured transform.Components) {
		c.dirty[n] = struct{}{}
	})
}

func (c *Context) MarkDirty(n *transform.Node) {
	c.dirty[n] = struct{}{}
}

// SetSelected replaces the externally supplied "selected" set consulted
// when forceSelected is on.
func (c *Context) SetSelected(nodes []*transform.Node) {
	c.selected = make(map[*transform.Node]struct{}, len(nodes))
	for _, n := range nodes {
		c.selected[n] = struct{}{}
	}
}

// Reset drops all coordinator state; called at scene teardown.
func (c *Context) Reset() {
	c.origin = mgl64.Vec3{}
	c.forceSelected = false
	c.roots = nil
	c.dirty = make(map[*transform.Node]struct{})
	c.selected = make(map[*transform.Node]struct{})
	c.applied = false
	c.lastOrigin = mgl64.Vec3{}
	c.lastForce = false
	c.lastRoots = nil
}

// Snapshot captures the current origin state for verbatim reapplication.
type Snapshot struct {
	Origin        mgl64.Vec3
	ForceSelected bool
	Roots         []*transform.Node
}

func (c *Context) GetOriginShiftSnapshot() Snapshot {
	roots := make([]*transform.Node, len(c.lastRoots))
	copy(roots, c.lastRoots)
	return Snapshot{
		Origin:        c.lastOrigin,
		ForceSelected: c.lastForce,
		Roots:         roots,
	}
}

func (c *Context) ApplySnapshot(s Snapshot) {
	c.Apply(s.Roots, s.Origin, s.ForceSelected)
}

// Apply rewrites the host-visible local transforms of every node under
// roots (or the subscribed roots when nil) relative to origin.
//
// Roots are anchors: their host locals pass through unchanged and their
// direct non-absolute descendants absorb the whole shift, so a node's
// host world position equals its authoritative world position minus the
// origin. Deeper nodes ride on the already shifted frame and inherit an
// effective origin of zero. Nodes requiring absolute positioning (or
// selected ones under forceSelected) pass through unchanged and shield
// their subtree from the shift.
//
// Repeated calls with unchanged inputs and a clean tree are an explicit
// no-op: no walk happens and the host output stays byte-identical.
func (c *Context) Apply(roots []*transform.Node, origin mgl64.Vec3, forceSelected bool) {
	if !c.enabled {
		// disabled means zero origin and EMPTY roots; the subscribed
		// roots must not leak back in
		origin = mgl64.Vec3{}
		roots = nil
		forceSelected = false
	} else if roots == nil {
		roots = c.roots
	}

	if c.applied &&
		len(c.dirty) == 0 &&
		origin == c.lastOrigin &&
		forceSelected == c.lastForce &&
		sameRoots(roots, c.lastRoots) {
		return
	}

	c.origin = origin
	c.forceSelected = forceSelected

	for _, r := range roots {
		if !r.Alive() {
			continue
		}
		c.writeHost(r, mgl64.Vec3{})
		r.ClearOriginShiftDirty()
		delete(c.dirty, r)
		for _, child := range r.Children() {
			c.shift(child, origin)
		}
	}

	for n := range c.dirty {
		delete(c.dirty, n)
	}

	c.applied = true
	c.lastOrigin = origin
	c.lastForce = forceSelected
	c.lastRoots = make([]*transform.Node, len(roots))
	copy(c.lastRoots, roots)
}

func (c *Context) shift(n *transform.Node, origin mgl64.Vec3) {
	if !n.Alive() {
		return
	}

	absolute := n.AbsolutePositioning()
	if !absolute && c.forceSelected {
		_, absolute = c.selected[n]
	}

	if absolute || origin == (mgl64.Vec3{}) {
		c.writeHost(n, mgl64.Vec3{})
	} else {
		// origin as a displacement in the parent's local frame
		shift := origin
		if p := n.Parent(); p != nil {
			shift = mathd.TransformVector(p.WorldToLocalMatrix(), origin)
		}
		c.writeHost(n, shift)
	}

	n.ClearOriginShiftDirty()
	delete(c.dirty, n)

	// the shift is consumed here; descendants ride on the host frame
	for _, child := range n.Children() {
		c.shift(child, mgl64.Vec3{})
	}
}

func (c *Context) writeHost(n *transform.Node, shift mgl64.Vec3) {
	h := n.Host()
	if h == nil {
		return
	}
	h.SetLocalPosition(mathd.Vec32(n.LocalPosition().Sub(shift)))
	h.SetLocalRotation(mathd.Quat32(n.LocalRotation()))
	h.SetLocalScale(mathd.Vec32(n.LocalScale()))
}

func sameRoots(a, b []*transform.Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
