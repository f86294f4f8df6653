package main

import (
	"bufio"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/beacon-earth/internal/config"
	"github.com/Faultbox/beacon-earth/internal/engine/beacon"
	"github.com/Faultbox/beacon-earth/internal/engine/camera"
	"github.com/Faultbox/beacon-earth/internal/engine/loop"
	"github.com/Faultbox/beacon-earth/internal/engine/mesh"
	"github.com/Faultbox/beacon-earth/internal/engine/scene"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

// Placement is one beacon in the report.
type Placement struct {
	Name     string     `yaml:"name"`
	Primary  bool       `yaml:"primary,omitempty"`
	Lat      float32    `yaml:"lat"`
	Lon      float32    `yaml:"lon"`
	Phase    float32    `yaml:"phase"`
	Local    [3]float32 `yaml:"local,flow"`
	World    [3]float32 `yaml:"world,flow"`
	Up       [3]float32 `yaml:"up,flow"`
	Facing   bool       `yaml:"facing_camera"`
	Distance float32    `yaml:"distance"`
}

// Report lists beacon placements for one globe angle.
type Report struct {
	Radius  float32     `yaml:"radius"`
	Angle   float64     `yaml:"angle"`
	Eye     [3]float32  `yaml:"eye,flow"`
	Beacons []Placement `yaml:"beacons"`
}

func beaconReport(cfg *config.Config, angle float64) (*Report, error) {
	sc := scene.ConfigFrom(cfg)
	beacons := beacon.Build(sc.Primary, sc.Cities, sc.PhaseStep)

	cam := sc.Camera
	composer := scene.NewComposer(&cam, sc.Radius, sc.AlignmentDeg, beacons, sc.Tuning)
	if err := composer.Resize(cfg.Graphics.Width, cfg.Graphics.Height); err != nil {
		return nil, err
	}
	frame, err := composer.Compose(loop.SceneState{Angle: math.WrapDegrees(angle)})
	if err != nil {
		return nil, err
	}

	r := &Report{
		Radius: sc.Radius,
		Angle:  math.WrapDegrees(angle),
		Eye:    frame.Eye.Array(),
	}
	for i, b := range beacons {
		world := frame.Beacons[i].World
		pos := world.Translation()
		up := world.Column(1)
		r.Beacons = append(r.Beacons, Placement{
			Name:     b.Name,
			Primary:  b.Primary,
			Lat:      b.Coord.Lat,
			Lon:      b.Coord.Lon,
			Phase:    b.Phase,
			Local:    b.Coord.Cartesian(sc.Radius).Array(),
			World:    pos.Array(),
			Up:       up.Array(),
			Facing:   facing(cam, pos, up),
			Distance: pos.Length(),
		})
	}
	return r, nil
}

// facing reports whether a surface point is on the camera's side of the
// globe.
func facing(cam camera.Camera, pos, up math.Vec3) bool {
	return cam.Position().Sub(pos).Dot(up) > 0
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeOBJ writes m as a Wavefront OBJ with positions, texture coordinates
// and normals.
func writeOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# beacon-earth sphere: %d vertices, %d triangles\n", m.VertexCount(), m.TriangleCount())
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for i := 0; i < m.VertexCount(); i++ {
		uv := m.TexCoord(i)
		// OBJ puts V = 0 at the bottom of the image.
		fmt.Fprintf(bw, "vt %g %g\n", uv.X, 1-uv.Y)
	}
	for i := 0; i < m.VertexCount(); i++ {
		n := m.Normal(i)
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)
		// OBJ indices are 1-based.
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a+1, a+1, a+1, b+1, b+1, b+1, c+1, c+1, c+1)
	}
	return bw.Flush()
}
