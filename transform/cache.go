package transform

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Cached derived values, each behind its own validity bit. Flags are
// conservative: invalidating an unchanged value is fine, serving a stale
// one is not.

type cacheKind uint8

const (
	cacheWorldPosition cacheKind = 1 << iota
	cacheWorldRotation
	cacheLossyScale
	cacheLocalToWorld
	cacheWorldToLocal
)

const cacheAll = cacheWorldPosition | cacheWorldRotation | cacheLossyScale |
	cacheLocalToWorld | cacheWorldToLocal

type nodeCache struct {
	worldPosition mgl64.Vec3
	worldRotation mgl64.Quat
	lossyScale    mgl64.Vec3
	localToWorld  mgl64.Mat4
	worldToLocal  mgl64.Mat4

	valid cacheKind
}

func (c *nodeCache) has(k cacheKind) bool {
	return c.valid&k == k
}

func (c *nodeCache) invalidate(k cacheKind) {
	c.valid &^= k
}

func (c *nodeCache) vec3(k cacheKind, slot *mgl64.Vec3, recompute func() mgl64.Vec3) mgl64.Vec3 {
	if !c.has(k) {
		*slot = recompute()
		c.valid |= k
	}
	return *slot
}

func (c *nodeCache) quat(k cacheKind, slot *mgl64.Quat, recompute func() mgl64.Quat) mgl64.Quat {
	if !c.has(k) {
		*slot = recompute()
		c.valid |= k
	}
	return *slot
}

func (c *nodeCache) mat4(k cacheKind, slot *mgl64.Mat4, recompute func() mgl64.Mat4) mgl64.Mat4 {
	if !c.has(k) {
		*slot = recompute()
		c.valid |= k
	}
	return *slot
}
