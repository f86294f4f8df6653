// Package beacon places surface markers on the globe. Each beacon stands
// along the sphere normal at its geographic coordinate and turns rigidly
// with the sphere.
package beacon

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/beacon-earth/internal/engine/geo"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

// PoleThreshold is the |up.Y| above which the orientation frame switches
// its reference vector from +Y to +X. Crossing a near-parallel pair would
// give a near-zero right vector.
const PoleThreshold = 0.99

// Beacon is a marker anchored at a geographic coordinate.
type Beacon struct {
	Name    string
	Coord   geo.Coordinate
	Primary bool
	// Phase offsets the fade wave so city beacons do not blink in unison.
	Phase float32
}

// Site is a named location used to build beacons.
type Site struct {
	Name  string
	Coord geo.Coordinate
}

// Build returns the primary beacon followed by one beacon per city, with
// city i given phase i*phaseStep.
func Build(primary Site, cities []Site, phaseStep float32) []Beacon {
	out := make([]Beacon, 0, len(cities)+1)
	out = append(out, Beacon{Name: primary.Name, Coord: primary.Coord, Primary: true})
	for i, c := range cities {
		out = append(out, Beacon{
			Name:  c.Name,
			Coord: c.Coord,
			Phase: float32(i) * phaseStep,
		})
	}
	return out
}

// Frame is an orthonormal, right-handed basis at a point on the sphere.
// Up points away from the sphere center.
type Frame struct {
	Position math.Vec3
	Right    math.Vec3
	Up       math.Vec3
	Forward  math.Vec3
}

// Orient computes the surface frame at a coordinate on a sphere of the given
// radius. radius must be positive.
func Orient(c geo.Coordinate, radius float32) Frame {
	pos := c.Cartesian(radius)
	up := pos.Normalize()

	ref := math.Vec3{Y: 1}
	if math32.Abs(up.Y) > PoleThreshold {
		ref = math.Vec3{X: 1}
	}

	right := up.Cross(ref).Normalize()
	forward := right.Cross(up).Normalize()

	return Frame{Position: pos, Right: right, Up: up, Forward: forward}
}

// Matrix returns the frame as a transform with columns (right, up, forward)
// and the surface point as translation.
func (f Frame) Matrix() math.Mat4 {
	return math.FromBasis(f.Right, f.Up, f.Forward, f.Position)
}

// LocalTransform is the beacon transform relative to the unrotated sphere.
func LocalTransform(c geo.Coordinate, sphereRadius float32) math.Mat4 {
	return Orient(c, sphereRadius).Matrix()
}

// WorldTransform places a beacon on a sphere that has been rotated by
// sphereRotation: world = sphereRotation * local.
func WorldTransform(c geo.Coordinate, sphereRadius float32, sphereRotation math.Mat4) math.Mat4 {
	return sphereRotation.Mul(LocalTransform(c, sphereRadius))
}
