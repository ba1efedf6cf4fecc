// Package hostmem is an in-memory host.Transform driver. It stands in
// for the real engine runtime in tests and in the inspector, and counts
// writes so idempotence of the origin shifter is observable.
package hostmem

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mirage3d/geocore/host"
)

type Transform struct {
	name string

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	parent host.Transform

	// Writes counts every setter call, including ones that store the
	// same value again.
	Writes int
}

func New(name string) host.Transform {
	return NewTransform(name)
}

func NewTransform(name string) *Transform {
	return &Transform{
		name:     name,
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t *Transform) Name() string { return t.name }

func (t *Transform) SetLocalPosition(v mgl32.Vec3) {
	t.position = v
	t.Writes++
}

func (t *Transform) SetLocalRotation(q mgl32.Quat) {
	t.rotation = q
	t.Writes++
}

func (t *Transform) SetLocalScale(v mgl32.Vec3) {
	t.scale = v
	t.Writes++
}

func (t *Transform) LocalPosition() mgl32.Vec3 { return t.position }
func (t *Transform) LocalRotation() mgl32.Quat { return t.rotation }
func (t *Transform) LocalScale() mgl32.Vec3    { return t.scale }

func (t *Transform) SetParent(p host.Transform) { t.parent = p }
func (t *Transform) Parent() host.Transform     { return t.parent }
