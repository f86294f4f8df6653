// Package mesh provides the indexed triangle mesh used for the planet and
// beacon models, and the procedural UV-sphere generator.
package mesh

import (
	"fmt"

	"github.com/Faultbox/beacon-earth/pkg/math"
)

// MaxVertices is the largest vertex count addressable by 16-bit indices.
const MaxVertices = 1 << 16

// FloatsPerVertex is the stride of Interleaved: position, normal, texcoord.
const FloatsPerVertex = 3 + 3 + 2

// Mesh holds parallel vertex attribute arrays and a triangle index list.
// A mesh is immutable once generated.
type Mesh struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	TexCoords []float32 // 2 per vertex
	Indices   []uint16  // 3 per triangle, counter-clockwise from outside
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math.Vec3 {
	return math.Vec3{X: m.Positions[i*3], Y: m.Positions[i*3+1], Z: m.Positions[i*3+2]}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) math.Vec3 {
	return math.Vec3{X: m.Normals[i*3], Y: m.Normals[i*3+1], Z: m.Normals[i*3+2]}
}

// TexCoord returns the texture coordinate of vertex i.
func (m *Mesh) TexCoord(i int) math.Vec2 {
	return math.Vec2{X: m.TexCoords[i*2], Y: m.TexCoords[i*2+1]}
}

// Triangle returns the three vertex indices of triangle t.
func (m *Mesh) Triangle(t int) (a, b, c int) {
	return int(m.Indices[t*3]), int(m.Indices[t*3+1]), int(m.Indices[t*3+2])
}

// Validate checks the parallel-array and index-range invariants.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d not a multiple of 3", len(m.Positions))
	}
	n := m.VertexCount()
	if len(m.Normals) != n*3 {
		return fmt.Errorf("normals length %d, want %d", len(m.Normals), n*3)
	}
	if len(m.TexCoords) != n*2 {
		return fmt.Errorf("texcoords length %d, want %d", len(m.TexCoords), n*2)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("indices length %d not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d at %d out of range (vertex count %d)", idx, i, n)
		}
	}
	return nil
}

// Interleaved returns one vertex stream of position, normal and texture
// coordinate (FloatsPerVertex floats per vertex) for GPU upload.
func (m *Mesh) Interleaved() []float32 {
	n := m.VertexCount()
	out := make([]float32, 0, n*FloatsPerVertex)
	for i := 0; i < n; i++ {
		out = append(out, m.Positions[i*3:i*3+3]...)
		out = append(out, m.Normals[i*3:i*3+3]...)
		out = append(out, m.TexCoords[i*2:i*2+2]...)
	}
	return out
}
