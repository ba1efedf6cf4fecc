// Package host declares the single-precision transform primitive the
// engine runtime exposes per node. The origin-shift coordinator writes
// host-visible values through this interface; the authoritative
// double-precision state never lives here.
package host

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Transform interface {
	Name() string

	SetLocalPosition(v mgl32.Vec3)
	SetLocalRotation(q mgl32.Quat)
	SetLocalScale(v mgl32.Vec3)

	LocalPosition() mgl32.Vec3
	LocalRotation() mgl32.Quat
	LocalScale() mgl32.Vec3

	SetParent(p Transform)
	Parent() Transform
}

// Factory creates the host-side transform backing a core node.
type Factory func(name string) Transform
