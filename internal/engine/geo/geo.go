// Package geo maps geographic coordinates onto the globe's sphere.
package geo

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/beacon-earth/internal/engine/mesh"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

// LongitudeOffset is added to the longitude (in radians) before mapping.
// The equirectangular earth texture puts 0° longitude at U = 0.5, which the
// sphere generator places at phi = π. A texture with a different seam
// convention needs this re-derived.
const LongitudeOffset = math.Pi

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float32 `yaml:"lat"`
	Lon float32 `yaml:"lon"`
}

// Valid reports whether the coordinate lies in [-90, 90] x [-180, 180].
// Out-of-range values still map to a point; checking is up to the caller.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// ToCartesian returns the point on a sphere of the given radius, using the
// same parameterization as mesh.GenerateSphere.
func ToCartesian(latDeg, lonDeg, radius float32) math.Vec3 {
	theta, phi := angles(latDeg, lonDeg)
	d := mesh.SurfaceDirection(math32.Sin(theta), math32.Cos(theta), math32.Sin(phi), math32.Cos(phi))
	return d.Scale(radius)
}

// Cartesian is ToCartesian for a Coordinate.
func (c Coordinate) Cartesian(radius float32) math.Vec3 {
	return ToCartesian(c.Lat, c.Lon, radius)
}

// UV returns the texture coordinate of the sphere mesh at the coordinate.
// U is wrapped into [0, 1).
func UV(latDeg, lonDeg float32) math.Vec2 {
	theta, phi := angles(latDeg, lonDeg)
	u := phi / (2 * math.Pi)
	u -= math32.Floor(u)
	if u >= 1 {
		u = 0
	}
	return math.Vec2{X: u, Y: theta / math.Pi}
}

// angles returns the polar angle from the north pole and the azimuth.
func angles(latDeg, lonDeg float32) (theta, phi float32) {
	theta = math.Pi/2 - math.DegToRad(latDeg)
	phi = math.DegToRad(lonDeg) + LongitudeOffset
	return theta, phi
}
