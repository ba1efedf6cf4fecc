package transform

import "strings"

// Components is the changed-component bitmask carried by node
// notifications. World-level bits describe derived values, local-level
// bits the authoritative fields that were written.
type Components uint32

const (
	ComponentPosition Components = 1 << iota
	ComponentRotation
	ComponentLossyScale
	ComponentLocalPosition
	ComponentLocalRotation
	ComponentLocalScale
)

const componentWorldMask = ComponentPosition | ComponentRotation | ComponentLossyScale

// World strips the mask down to the world-level bits, which is what
// children react to.
func (c Components) World() Components {
	return c & componentWorldMask
}

func (c Components) Has(other Components) bool {
	return c&other != 0
}

var componentNames = []struct {
	bit  Components
	name string
}{
	{ComponentPosition, "Position"},
	{ComponentRotation, "Rotation"},
	{ComponentLossyScale, "LossyScale"},
	{ComponentLocalPosition, "LocalPosition"},
	{ComponentLocalRotation, "LocalRotation"},
	{ComponentLocalScale, "LocalScale"},
}

func (c Components) String() string {
	if c == 0 {
		return "None"
	}
	parts := make([]string, 0, 6)
	for _, cn := range componentNames {
		if c&cn.bit != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}
