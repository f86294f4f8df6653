package mesh

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Faultbox/beacon-earth/pkg/math"
)

const eps = 1e-5

func TestGenerateSphereScenario(t *testing.T) {
	m, err := GenerateSphere(1.5, 8, 4)
	if err != nil {
		t.Fatalf("GenerateSphere: %v", err)
	}

	if got := m.VertexCount(); got != 45 {
		t.Errorf("vertex count = %d, want 45", got)
	}
	if got := m.TriangleCount(); got != 64 {
		t.Errorf("triangle count = %d, want 64", got)
	}
	if got := m.Position(0); !near(got, math.Vec3{X: 0, Y: 1.5, Z: 0}) {
		t.Errorf("first vertex = %v, want (0, 1.5, 0)", got)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestGenerateSphereProperties(t *testing.T) {
	tests := []struct {
		radius          float32
		segments, rings int
	}{
		{1, 3, 2},
		{1.5, 32, 16},
		{0.25, 7, 5},
		{10, 64, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("r%v_s%d_r%d", tt.radius, tt.segments, tt.rings), func(t *testing.T) {
			m, err := GenerateSphere(tt.radius, tt.segments, tt.rings)
			if err != nil {
				t.Fatalf("GenerateSphere: %v", err)
			}

			want := (tt.rings + 1) * (tt.segments + 1)
			if m.VertexCount() != want {
				t.Fatalf("vertex count = %d, want %d", m.VertexCount(), want)
			}
			if len(m.Normals)/3 != want || len(m.TexCoords)/2 != want {
				t.Fatalf("attribute arrays out of step: normals %d, texcoords %d", len(m.Normals), len(m.TexCoords))
			}
			if m.TriangleCount() != tt.segments*tt.rings*2 {
				t.Errorf("triangle count = %d, want %d", m.TriangleCount(), tt.segments*tt.rings*2)
			}

			tol := eps * tt.radius
			for i := 0; i < m.VertexCount(); i++ {
				p := m.Position(i)
				if l := p.Length(); abs(l-tt.radius) > tol {
					t.Fatalf("vertex %d length %f, want %f", i, l, tt.radius)
				}
				if n := m.Normal(i); !near(n, p.Normalize()) {
					t.Fatalf("vertex %d normal %v, want %v", i, n, p.Normalize())
				}
			}

			for i, idx := range m.Indices {
				if int(idx) >= m.VertexCount() {
					t.Fatalf("index %d = %d out of range", i, idx)
				}
			}
		})
	}
}

func TestGenerateSphereWindingOutward(t *testing.T) {
	m, err := GenerateSphere(1, 16, 8)
	if err != nil {
		t.Fatalf("GenerateSphere: %v", err)
	}

	checked := 0
	for tri := 0; tri < m.TriangleCount(); tri++ {
		a, b, c := m.Triangle(tri)
		pa, pb, pc := m.Position(a), m.Position(b), m.Position(c)
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		if n.Length() < 1e-6 {
			// Pole fans collapse one edge.
			continue
		}
		centroid := pa.Add(pb).Add(pc).Scale(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d (%d, %d, %d) winds inward", tri, a, b, c)
		}
		checked++
	}
	if checked == 0 {
		t.Fatal("no non-degenerate triangles checked")
	}
}

func TestGenerateSphereWindingAtPrimeMeridian(t *testing.T) {
	// segment 0 on the equator ring is (r, 0, 0); its first quad triangle
	// must face +X.
	m, err := GenerateSphere(2, 8, 4)
	if err != nil {
		t.Fatalf("GenerateSphere: %v", err)
	}
	stride := 9
	equator := 2 * stride
	if p := m.Position(equator); !near(p, math.Vec3{X: 2}) {
		t.Fatalf("equator vertex = %v, want (2, 0, 0)", p)
	}

	tri := (2*8 + 0) * 2 // first triangle of quad (ring 2, seg 0)
	a, b, c := m.Triangle(tri)
	if a != equator {
		t.Fatalf("triangle %d starts at %d, want %d", tri, a, equator)
	}
	n := m.Position(b).Sub(m.Position(a)).Cross(m.Position(c).Sub(m.Position(a)))
	if n.X <= 0 {
		t.Errorf("signed normal at equator/prime meridian = %v, want +X", n)
	}
}

func TestGenerateSphereSeam(t *testing.T) {
	segments, rings := 12, 6
	m, err := GenerateSphere(1, segments, rings)
	if err != nil {
		t.Fatalf("GenerateSphere: %v", err)
	}

	stride := segments + 1
	for ring := 0; ring <= rings; ring++ {
		first := ring * stride
		last := first + segments
		if !near(m.Position(first), m.Position(last)) {
			t.Errorf("ring %d seam positions differ: %v vs %v", ring, m.Position(first), m.Position(last))
		}
		if u := m.TexCoord(first).X; u != 0 {
			t.Errorf("ring %d seam start U = %v, want 0", ring, u)
		}
		if u := m.TexCoord(last).X; u != 1 {
			t.Errorf("ring %d seam end U = %v, want 1", ring, u)
		}
		if v := m.TexCoord(first).Y; abs(v-float32(ring)/float32(rings)) > eps {
			t.Errorf("ring %d V = %v", ring, v)
		}
	}
}

func TestGenerateSphereInvalid(t *testing.T) {
	tests := []struct {
		name            string
		radius          float32
		segments, rings int
	}{
		{"zero radius", 0, 8, 4},
		{"negative radius", -1, 8, 4},
		{"two segments", 1, 2, 4},
		{"one ring", 1, 8, 1},
		{"index overflow", 1, 256, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := GenerateSphere(tt.radius, tt.segments, tt.rings)
			if !errors.Is(err, math.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
			if m != nil {
				t.Error("expected nil mesh on error")
			}
		})
	}
}

func TestGenerateSphereLargestAllowed(t *testing.T) {
	m, err := GenerateSphere(1, 255, 255)
	if err != nil {
		t.Fatalf("GenerateSphere: %v", err)
	}
	if m.VertexCount() != MaxVertices {
		t.Errorf("vertex count = %d, want %d", m.VertexCount(), MaxVertices)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestInterleaved(t *testing.T) {
	m, err := GenerateSphere(1, 4, 2)
	if err != nil {
		t.Fatalf("GenerateSphere: %v", err)
	}
	data := m.Interleaved()
	if len(data) != m.VertexCount()*8 {
		t.Fatalf("interleaved length = %d, want %d", len(data), m.VertexCount()*8)
	}
	i := 7
	if data[i*8+3] != m.Normals[i*3] || data[i*8+7] != m.TexCoords[i*2+1] {
		t.Errorf("vertex %d attributes misplaced in interleaved stream", i)
	}
}

func TestValidateDetectsBadIndex(t *testing.T) {
	m := &Mesh{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		TexCoords: []float32{0, 0, 1, 0, 0, 1},
		Indices:   []uint16{0, 1, 3},
	}
	if err := m.Validate(); err == nil {
		t.Error("expected error for out-of-range index")
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func near(a, b math.Vec3) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps
}
