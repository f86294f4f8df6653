// Package camera provides the fixed globe camera.
package camera

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/beacon-earth/pkg/math"
)

// Camera looks at a center point from a fixed distance, raised by a small
// pitch so the globe is seen slightly from above. It never moves once the
// scene is running; only the projection follows the viewport.
type Camera struct {
	// Center point to look at
	Center math.Vec3

	// Spherical coordinates around Center
	Distance float32 // Distance from center
	Pitch    float32 // Tilt above the equatorial plane (radians)
	Yaw      float32 // Horizontal angle (radians), 0 looks down -Z

	// Projection
	FovY float32 // Vertical field of view (radians)
	Near float32
	Far  float32
}

// New creates a camera with the globe defaults.
func New() *Camera {
	return &Camera{
		Distance: 4.0,
		Pitch:    math.DegToRad(10),
		FovY:     math.DegToRad(45),
		Near:     0.1,
		Far:      10.0,
	}
}

// Position returns the camera position in world space.
func (c *Camera) Position() math.Vec3 {
	x := c.Distance * math32.Cos(c.Pitch) * math32.Sin(c.Yaw)
	y := c.Distance * math32.Sin(c.Pitch)
	z := c.Distance * math32.Cos(c.Pitch) * math32.Cos(c.Yaw)

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *Camera) ViewMatrix() (math.Mat4, error) {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// ProjectionMatrix returns the perspective projection for a viewport.
func (c *Camera) ProjectionMatrix(width, height int) (math.Mat4, error) {
	if width <= 0 || height <= 0 {
		return math.Mat4{}, fmt.Errorf("viewport %dx%d: %w", width, height, math.ErrInvalidParameter)
	}
	aspect := float32(width) / float32(height)
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}
