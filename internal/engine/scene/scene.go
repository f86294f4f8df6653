// Package scene assembles the rotating globe and its beacons. A Scene is
// owned by the render thread: it builds the geometry once, composes the
// matrices for every frame and hands them to a Drawer.
package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/beacon-earth/internal/engine/beacon"
	"github.com/Faultbox/beacon-earth/internal/engine/camera"
	"github.com/Faultbox/beacon-earth/internal/engine/loop"
	"github.com/Faultbox/beacon-earth/internal/engine/mesh"
	"github.com/Faultbox/beacon-earth/internal/logger"
)

// ConeSize is the base radius and height of a beacon cone.
type ConeSize struct {
	Radius float32
	Height float32
}

// Config contains scene configuration options.
type Config struct {
	Radius       float32
	Segments     int
	Rings        int
	Texture      string
	AlignmentDeg float32

	Camera camera.Camera

	Primary      beacon.Site
	Cities       []beacon.Site
	PhaseStep    float32
	PrimaryCone  ConeSize
	CityCone     ConeSize
	ConeSegments int

	Tuning Tuning
}

// DefaultConfig returns a globe of radius 1 with a single primary beacon.
func DefaultConfig() Config {
	return Config{
		Radius:       1,
		Segments:     64,
		Rings:        32,
		Camera:       *camera.New(),
		Primary:      beacon.Site{Name: "Singapore", Coord: geoCoord(1.35, 103.82)},
		PhaseStep:    1.3,
		PrimaryCone:  ConeSize{Radius: 0.02, Height: 0.6},
		CityCone:     ConeSize{Radius: 0.01, Height: 0.5},
		ConeSegments: 16,
		Tuning:       DefaultTuning(),
	}
}

// Assets is the static geometry handed to the Drawer once.
type Assets struct {
	Sphere      *mesh.Mesh
	PrimaryCone *mesh.Mesh
	CityCone    *mesh.Mesh
	Beacons     []beacon.Beacon
	Texture     string
}

// Drawer is the GPU side of the scene. All calls happen on the render
// thread.
type Drawer interface {
	Init(assets Assets) error
	Resize(width, height int)
	Draw(frame *Frame) error
	Present()
	SetVisible(visible bool)
	Release()
}

// Scene implements loop.Renderer.
type Scene struct {
	config   Config
	drawer   Drawer
	log      *zap.Logger
	camera   camera.Camera
	composer *Composer
	assets   Assets

	visible     bool
	drawerOwned bool
	released    bool
	warnedEmpty bool
}

var _ loop.Renderer = (*Scene)(nil)

// New creates a scene that draws through d. Nothing is built until
// Initialize.
func New(cfg Config, d Drawer) *Scene {
	return &Scene{
		config: cfg,
		drawer: d,
		log:    logger.Named("scene"),
		camera: cfg.Camera,
	}
}

// Initialize generates the sphere and beacon meshes and initializes the
// drawer with them.
func (s *Scene) Initialize() error {
	cfg := s.config

	sphere, err := mesh.GenerateSphere(cfg.Radius, cfg.Segments, cfg.Rings)
	if err != nil {
		return fmt.Errorf("sphere mesh: %w", err)
	}
	primaryCone, err := beacon.GenerateCone(cfg.PrimaryCone.Radius, cfg.PrimaryCone.Height, cfg.ConeSegments)
	if err != nil {
		return fmt.Errorf("primary beacon mesh: %w", err)
	}
	cityCone, err := beacon.GenerateCone(cfg.CityCone.Radius, cfg.CityCone.Height, cfg.ConeSegments)
	if err != nil {
		return fmt.Errorf("city beacon mesh: %w", err)
	}

	beacons := beacon.Build(cfg.Primary, cfg.Cities, cfg.PhaseStep)
	for _, b := range beacons {
		if !b.Coord.Valid() {
			s.log.Warn("beacon outside coordinate range",
				zap.String("name", b.Name),
				zap.Float32("lat", b.Coord.Lat),
				zap.Float32("lon", b.Coord.Lon))
		}
	}

	s.assets = Assets{
		Sphere:      sphere,
		PrimaryCone: primaryCone,
		CityCone:    cityCone,
		Beacons:     beacons,
		Texture:     cfg.Texture,
	}
	s.composer = NewComposer(&s.camera, cfg.Radius, cfg.AlignmentDeg, beacons, cfg.Tuning)

	s.drawerOwned = true
	if err := s.drawer.Init(s.assets); err != nil {
		return fmt.Errorf("drawer init: %w", err)
	}

	s.log.Info("scene initialized",
		zap.Int("vertices", sphere.VertexCount()),
		zap.Int("triangles", sphere.TriangleCount()),
		zap.Int("beacons", len(beacons)))
	return nil
}

// Resize applies a new viewport. An invalid size leaves the previous
// matrices in place and returns an error.
func (s *Scene) Resize(width, height int) error {
	if s.composer == nil {
		return errors.New("resize before initialize")
	}
	if err := s.composer.Resize(width, height); err != nil {
		return err
	}
	s.drawer.Resize(width, height)
	s.log.Debug("viewport", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// RenderFrame composes and draws one frame. Nothing is drawn while hidden
// or before the first valid viewport.
func (s *Scene) RenderFrame(state loop.SceneState) error {
	if !s.visible || s.composer == nil {
		return nil
	}
	frame, err := s.composer.Compose(state)
	if errors.Is(err, ErrNoViewport) {
		if !s.warnedEmpty {
			s.log.Warn("skipping frames until a viewport is set")
			s.warnedEmpty = true
		}
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.drawer.Draw(frame); err != nil {
		return err
	}
	s.drawer.Present()
	return nil
}

// SetVisible is forwarded to the drawer.
func (s *Scene) SetVisible(visible bool) {
	s.visible = visible
	s.drawer.SetVisible(visible)
}

// Shutdown releases the drawer. Further calls do nothing.
func (s *Scene) Shutdown() {
	if s.released {
		return
	}
	s.released = true
	if s.drawerOwned {
		s.drawer.Release()
	}
	s.log.Info("scene released")
}

// Assets returns the geometry built by Initialize.
func (s *Scene) Assets() Assets { return s.assets }
