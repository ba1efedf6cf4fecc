package transform

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/mirage3d/geocore/geodetic"
)

// Geo-coordinate mode: the node's position is authored and read as a
// latitude/longitude/altitude triple. Valid only when the parent chain
// roots at a georeferenced body; the Cartesian and geodetic views
// describe the same physical point and stay consistent within the
// conversion tolerance.

// SetGeoreference attaches a body model to the node, making it a
// georeferenced anchor for its subtree. Usually called on scene roots.
func (n *Node) SetGeoreference(body geodetic.Body) {
	n.body = body
}

// Georeference returns the body of the nearest georeferenced ancestor
// (including the node itself), or nil.
func (n *Node) Georeference() geodetic.Body {
	for p := n; p != nil; p = p.parent {
		if p.body != nil {
			return p.body
		}
	}
	return nil
}

func (n *Node) georeferenceNode() *Node {
	for p := n; p != nil; p = p.parent {
		if p.body != nil {
			return p
		}
	}
	return nil
}

func (n *Node) GeoCoordinateMode() bool { return n.geoMode }

// SetGeoCoordinateMode toggles between Cartesian and geodetic
// authoring. Enabling derives the coordinate from the current local
// position exactly once; repeated calls with the same value are no-ops.
func (n *Node) SetGeoCoordinateMode(on bool) error {
	if n.geoMode == on {
		return nil
	}
	if on {
		anchor := n.georeferenceNode()
		if anchor == nil {
			return errors.Errorf("Node %q has no georeferenced ancestor", n.name)
		}
		n.geoMode = true
		n.geoCoordinate = n.deriveGeoCoordinate(anchor)
		n.geoDirty = false
		return nil
	}
	// position is already the authoritative Cartesian view
	n.geoMode = false
	return nil
}

// GeoCoordinate returns the geodetic view of the node's position,
// re-deriving it if the node or an ancestor moved since the last read.
func (n *Node) GeoCoordinate() (geodetic.Coordinate, error) {
	if !n.geoMode {
		return geodetic.Coordinate{}, errors.Errorf("Node %q is not in geo-coordinate mode", n.name)
	}
	if n.geoDirty {
		anchor := n.georeferenceNode()
		if anchor == nil {
			return geodetic.Coordinate{}, errors.Errorf("Node %q lost its georeferenced ancestor", n.name)
		}
		n.geoCoordinate = n.deriveGeoCoordinate(anchor)
		n.geoDirty = false
	}
	return n.geoCoordinate, nil
}

// SetGeoCoordinate moves the node to the given geodetic coordinate,
// re-deriving the local position through the body conversion.
func (n *Node) SetGeoCoordinate(c geodetic.Coordinate) error {
	if !n.geoMode {
		return errors.Errorf("Node %q is not in geo-coordinate mode", n.name)
	}
	anchor := n.georeferenceNode()
	if anchor == nil {
		return errors.Errorf("Node %q lost its georeferenced ancestor", n.name)
	}
	bodyPoint := anchor.Georeference().PointFromGeoCoordinate(c)
	worldPoint := anchor.TransformPoint(bodyPoint)
	local := worldPoint
	if n.parent != nil {
		local = n.parent.InverseTransformPoint(worldPoint)
	}
	n.SetLocalPosition(local)
	// keep the exact authored coordinate as the current view
	n.geoCoordinate = c
	n.geoDirty = false
	return nil
}

func (n *Node) deriveGeoCoordinate(anchor *Node) geodetic.Coordinate {
	bodyPoint := anchor.InverseTransformPoint(n.Position())
	return anchor.Georeference().GeoCoordinateFromPoint(bodyPoint)
}

// UpRotation returns the rotation aligning +Z with geodetic up at the
// node's coordinate, for orienting surface-anchored content.
func (n *Node) UpRotation() (mgl64.Quat, error) {
	c, err := n.GeoCoordinate()
	if err != nil {
		return mgl64.QuatIdent(), err
	}
	return geodetic.UpVectorFromGeoCoordinate(c), nil
}
