package geo

import (
	"testing"

	"github.com/Faultbox/beacon-earth/internal/engine/mesh"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

func TestToCartesianLength(t *testing.T) {
	for lat := float32(-90); lat <= 90; lat += 7.5 {
		for lon := float32(-180); lon <= 180; lon += 15 {
			for _, r := range []float32{0.5, 1.5, 6371} {
				p := ToCartesian(lat, lon, r)
				if l := p.Length(); abs(l-r) > 1e-5*r {
					t.Fatalf("ToCartesian(%v, %v, %v) length = %v", lat, lon, r, l)
				}
			}
		}
	}
}

func TestToCartesianNorthPole(t *testing.T) {
	for _, lon := range []float32{-180, -90, 0, 45, 103.82, 180} {
		p := ToCartesian(90, lon, 1.5)
		if !near(p, math.Vec3{Y: 1.5}, 1e-5) {
			t.Errorf("ToCartesian(90, %v) = %v, want (0, 1.5, 0)", lon, p)
		}
	}
}

func TestToCartesianSouthPole(t *testing.T) {
	p := ToCartesian(-90, 12, 2)
	if !near(p, math.Vec3{Y: -2}, 1e-5) {
		t.Errorf("ToCartesian(-90, 12) = %v, want (0, -2, 0)", p)
	}
}

func TestToCartesianPrimeMeridian(t *testing.T) {
	// Longitude 0 sits at phi = pi, i.e. the -X side of the sphere.
	p := ToCartesian(0, 0, 1)
	if !near(p, math.Vec3{X: -1}, 1e-5) {
		t.Errorf("ToCartesian(0, 0) = %v, want (-1, 0, 0)", p)
	}
	p = ToCartesian(0, 90, 1)
	if !near(p, math.Vec3{Z: -1}, 1e-5) {
		t.Errorf("ToCartesian(0, 90) = %v, want (0, 0, -1)", p)
	}
}

func TestToCartesianMatchesMeshVertex(t *testing.T) {
	segments, rings := 36, 18
	m, err := mesh.GenerateSphere(1.5, segments, rings)
	if err != nil {
		t.Fatalf("GenerateSphere: %v", err)
	}

	// Every mesh vertex has a geo coordinate whose UV and position agree.
	for ring := 0; ring <= rings; ring += 3 {
		for seg := 0; seg < segments; seg += 5 {
			i := ring*(segments+1) + seg
			uv := m.TexCoord(i)

			lat := 90 - 180*uv.Y
			lon := 360*uv.X - 180
			p := ToCartesian(lat, lon, 1.5)
			if !near(p, m.Position(i), 1e-4) {
				t.Errorf("vertex %d (uv %v): mesh %v, geo %v", i, uv, m.Position(i), p)
			}

			got := UV(lat, lon)
			if ring != 0 && ring != rings && wrapDist(got.X, uv.X) > 1e-5 {
				t.Errorf("vertex %d: UV(%v, %v).U = %v, want %v", i, lat, lon, got.X, uv.X)
			}
			if abs(got.Y-uv.Y) > 1e-5 {
				t.Errorf("vertex %d: UV(%v, %v).V = %v, want %v", i, lat, lon, got.Y, uv.Y)
			}
		}
	}
}

func TestCoordinateValid(t *testing.T) {
	tests := []struct {
		c    Coordinate
		want bool
	}{
		{Coordinate{0, 0}, true},
		{Coordinate{90, 180}, true},
		{Coordinate{-90, -180}, true},
		{Coordinate{90.5, 0}, false},
		{Coordinate{0, -181}, false},
	}
	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestOutOfRangeStillMaps(t *testing.T) {
	p := Coordinate{Lat: 120, Lon: 400}.Cartesian(1)
	if !p.IsFinite() || abs(p.Length()-1) > 1e-5 {
		t.Errorf("out-of-range coordinate mapped to %v", p)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// wrapDist is the distance between two U values on the unit circle.
func wrapDist(a, b float32) float32 {
	d := abs(a - b)
	if 1-d < d {
		return 1 - d
	}
	return d
}

func near(a, b math.Vec3, eps float32) bool {
	return abs(a.X-b.X) <= eps && abs(a.Y-b.Y) <= eps && abs(a.Z-b.Z) <= eps
}
