package mesh

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/beacon-earth/pkg/math"
)

// GenerateSphere builds a UV sphere centered at the origin.
//
// segments are longitude slices (>= 3), rings are latitude bands (>= 2).
// Ring 0 is the north pole (+Y), ring `rings` the south pole. The seam
// column is duplicated (segment 0 and segment `segments` share a position
// but carry U = 0 and U = 1) so the texture wraps without a smear.
func GenerateSphere(radius float32, segments, rings int) (*Mesh, error) {
	if !(radius > 0) || math32.IsInf(radius, 0) {
		return nil, fmt.Errorf("sphere radius %v must be positive: %w", radius, math.ErrInvalidParameter)
	}
	if segments < 3 {
		return nil, fmt.Errorf("sphere segments %d, need at least 3: %w", segments, math.ErrInvalidParameter)
	}
	if rings < 2 {
		return nil, fmt.Errorf("sphere rings %d, need at least 2: %w", rings, math.ErrInvalidParameter)
	}
	stride := segments + 1
	vertexCount := (rings + 1) * stride
	if vertexCount > MaxVertices {
		return nil, fmt.Errorf("sphere needs %d vertices, 16-bit indices allow %d: %w",
			vertexCount, MaxVertices, math.ErrInvalidParameter)
	}

	m := &Mesh{
		Positions: make([]float32, 0, vertexCount*3),
		Normals:   make([]float32, 0, vertexCount*3),
		TexCoords: make([]float32, 0, vertexCount*2),
		Indices:   make([]uint16, 0, rings*segments*6),
	}

	for ring := 0; ring <= rings; ring++ {
		theta := float32(ring) * math.Pi / float32(rings)
		sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)

		for seg := 0; seg <= segments; seg++ {
			phi := float32(seg) * 2 * math.Pi / float32(segments)
			sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)

			n := SurfaceDirection(sinTheta, cosTheta, sinPhi, cosPhi)
			m.Positions = append(m.Positions, n.X*radius, n.Y*radius, n.Z*radius)
			m.Normals = append(m.Normals, n.X, n.Y, n.Z)
			m.TexCoords = append(m.TexCoords, float32(seg)/float32(segments), float32(ring)/float32(rings))
		}
	}

	// a is (ring, seg), b the vertex one ring further south. The edge
	// a -> a+1 follows increasing phi and a -> b runs toward the south pole;
	// their cross product points away from the center, so (a, a+1, b) is
	// counter-clockwise seen from outside.
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			a := uint16(ring*stride + seg)
			b := a + uint16(stride)

			m.Indices = append(m.Indices,
				a, a+1, b,
				b, a+1, b+1,
			)
		}
	}

	return m, nil
}

// SurfaceDirection returns the unit vector for polar angle theta (from +Y)
// and azimuth phi, given their sines and cosines. The geo mapper uses the
// same parameterization so beacons land on the generated surface.
func SurfaceDirection(sinTheta, cosTheta, sinPhi, cosPhi float32) math.Vec3 {
	return math.Vec3{
		X: sinTheta * cosPhi,
		Y: cosTheta,
		Z: sinTheta * sinPhi,
	}
}
