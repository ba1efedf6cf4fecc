package geodetic

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Coordinate is a geodetic position: latitude/longitude in degrees,
// altitude in meters above the ellipsoid.
type Coordinate struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
}

// Body converts between geodetic coordinates and Cartesian positions in
// the body-centered frame (ECEF for Earth-like bodies).
type Body interface {
	Name() string
	PointFromGeoCoordinate(c Coordinate) mgl64.Vec3
	GeoCoordinateFromPoint(p mgl64.Vec3) Coordinate
}

const degToRad = math.Pi / 180.0
const radToDeg = 180.0 / math.Pi

// Ellipsoid is an oblate spheroid body model.
type Ellipsoid struct {
	BodyName  string
	SemiMajor float64 // equatorial radius, meters
	SemiMinor float64 // polar radius, meters
}

// WGS84 is the standard Earth reference ellipsoid.
var WGS84 = &Ellipsoid{
	BodyName:  "WGS84",
	SemiMajor: 6378137.0,
	SemiMinor: 6356752.314245,
}

func (e *Ellipsoid) Name() string { return e.BodyName }

func (e *Ellipsoid) eccentricitySq() float64 {
	a, b := e.SemiMajor, e.SemiMinor
	return (a*a - b*b) / (a * a)
}

// PointFromGeoCoordinate converts geodetic lat/long/alt to a
// body-centered Cartesian point.
func (e *Ellipsoid) PointFromGeoCoordinate(c Coordinate) mgl64.Vec3 {
	lat := c.Latitude * degToRad
	lon := c.Longitude * degToRad
	e2 := e.eccentricitySq()

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	// prime vertical radius of curvature
	n := e.SemiMajor / math.Sqrt(1-e2*sinLat*sinLat)

	return mgl64.Vec3{
		(n + c.Altitude) * cosLat * cosLon,
		(n + c.Altitude) * cosLat * sinLon,
		(n*(1-e2) + c.Altitude) * sinLat,
	}
}

// GeoCoordinateFromPoint is the inverse conversion, using Bowring's
// closed-form approximation. Accurate to well under a millimeter for
// near-surface points.
func (e *Ellipsoid) GeoCoordinateFromPoint(p mgl64.Vec3) Coordinate {
	a, b := e.SemiMajor, e.SemiMinor
	e2 := e.eccentricitySq()
	ep2 := (a*a - b*b) / (b * b)

	x, y, z := p.X(), p.Y(), p.Z()
	lon := math.Atan2(y, x)
	rho := math.Hypot(x, y)

	if rho < 1e-9 {
		// on the polar axis
		lat := math.Pi / 2
		if z < 0 {
			lat = -lat
		}
		return Coordinate{
			Latitude:  lat * radToDeg,
			Longitude: lon * radToDeg,
			Altitude:  math.Abs(z) - b,
		}
	}

	theta := math.Atan2(z*a, rho*b)
	sinT, cosT := math.Sincos(theta)
	lat := math.Atan2(z+ep2*b*sinT*sinT*sinT, rho-e2*a*cosT*cosT*cosT)

	sinLat, cosLat := math.Sincos(lat)
	n := a / math.Sqrt(1-e2*sinLat*sinLat)
	alt := rho/cosLat - n

	return Coordinate{
		Latitude:  lat * radToDeg,
		Longitude: lon * radToDeg,
		Altitude:  alt,
	}
}

// SurfaceNormal returns the geodetic up direction at a coordinate,
// expressed in the body-centered frame.
func SurfaceNormal(c Coordinate) mgl64.Vec3 {
	lat := c.Latitude * degToRad
	lon := c.Longitude * degToRad
	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)
	return mgl64.Vec3{cosLat * cosLon, cosLat * sinLon, sinLat}
}

// UpVectorFromGeoCoordinate returns the rotation that carries the body
// frame +Z axis onto the geodetic up direction at the coordinate.
func UpVectorFromGeoCoordinate(c Coordinate) mgl64.Quat {
	return mgl64.QuatBetweenVectors(mgl64.Vec3{0, 0, 1}, SurfaceNormal(c)).Normalize()
}
