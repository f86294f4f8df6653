package beacon

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/beacon-earth/internal/engine/mesh"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

// GenerateCone builds the beacon model: an open cone with its base on the
// XZ plane and its apex at (0, height, 0), so the model's "up" is +Y.
func GenerateCone(baseRadius, height float32, segments int) (*mesh.Mesh, error) {
	if !(baseRadius > 0) || !(height > 0) {
		return nil, fmt.Errorf("cone radius %v and height %v must be positive: %w",
			baseRadius, height, math.ErrInvalidParameter)
	}
	if segments < 3 {
		return nil, fmt.Errorf("cone segments %d, need at least 3: %w", segments, math.ErrInvalidParameter)
	}
	vertexCount := segments + 2
	if vertexCount > mesh.MaxVertices {
		return nil, fmt.Errorf("cone needs %d vertices: %w", vertexCount, math.ErrInvalidParameter)
	}

	m := &mesh.Mesh{
		Positions: make([]float32, 0, vertexCount*3),
		Normals:   make([]float32, 0, vertexCount*3),
		TexCoords: make([]float32, 0, vertexCount*2),
		Indices:   make([]uint16, 0, segments*3),
	}

	m.Positions = append(m.Positions, 0, height, 0)
	m.Normals = append(m.Normals, 0, 1, 0)
	m.TexCoords = append(m.TexCoords, 0.5, 0)

	for i := 0; i <= segments; i++ {
		angle := float32(i) / float32(segments) * 2 * math.Pi
		c, s := math32.Cos(angle), math32.Sin(angle)

		m.Positions = append(m.Positions, baseRadius*c, 0, baseRadius*s)
		n := math.Vec3{X: height * c, Y: baseRadius, Z: height * s}.Normalize()
		m.Normals = append(m.Normals, n.X, n.Y, n.Z)
		m.TexCoords = append(m.TexCoords, float32(i)/float32(segments), 1)
	}

	for i := 1; i <= segments; i++ {
		m.Indices = append(m.Indices, 0, uint16(i+1), uint16(i))
	}

	return m, nil
}
