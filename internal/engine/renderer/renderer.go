// Package renderer draws the globe scene with OpenGL 4.1 core.
package renderer

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/beacon-earth/internal/engine/mesh"
	"github.com/Faultbox/beacon-earth/internal/engine/scene"
	"github.com/Faultbox/beacon-earth/internal/engine/shader"
	"github.com/Faultbox/beacon-earth/internal/engine/shaders"
	"github.com/Faultbox/beacon-earth/internal/engine/texture"
	"github.com/Faultbox/beacon-earth/internal/logger"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

const floatSize = 4

// Surface is the window side of the renderer: a GL context that can be
// bound to the calling thread and a back buffer to present.
type Surface interface {
	MakeCurrent() error
	ReleaseCurrent()
	SwapBuffers()
}

// Config holds renderer configuration.
type Config struct {
	ClearColor   [3]float32
	LightDir     math.Vec3
	Ambient      float32
	RimColor     [3]float32
	PrimaryColor [3]float32
	CityColor    [3]float32
	Glow         float32 // Apex brightness relative to the base
}

// DefaultConfig returns the stock look: a lit globe on a near-black
// background with warm beacons.
func DefaultConfig() Config {
	return Config{
		ClearColor:   [3]float32{0.01, 0.01, 0.03},
		LightDir:     math.Vec3{X: -0.4, Y: 0.3, Z: 1},
		Ambient:      0.35,
		RimColor:     [3]float32{0.25, 0.45, 0.9},
		PrimaryColor: [3]float32{1.0, 0.55, 0.1},
		CityColor:    [3]float32{0.4, 0.9, 1.0},
		Glow:         2.0,
	}
}

// gpuMesh is an uploaded indexed mesh.
type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// Renderer implements scene.Drawer.
type Renderer struct {
	config  Config
	surface Surface
	log     *zap.Logger

	globe   *shader.Program
	beacon  *shader.Program
	sphere  gpuMesh
	primary gpuMesh
	city    gpuMesh
	texture uint32

	order   []int
	visible bool
	current bool
}

var _ scene.Drawer = (*Renderer)(nil)

// New creates a renderer for surface. No GL call is made until Init, which
// must run on the render thread.
func New(cfg Config, surface Surface) *Renderer {
	return &Renderer{
		config:  cfg,
		surface: surface,
		log:     logger.Named("renderer"),
	}
}

// Init binds the GL context to the calling thread, then compiles the
// shaders and uploads the scene geometry and texture.
func (r *Renderer) Init(assets scene.Assets) error {
	if err := r.surface.MakeCurrent(); err != nil {
		return fmt.Errorf("binding GL context: %w", err)
	}
	r.current = true

	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	c := r.config.ClearColor
	gl.ClearColor(c[0], c[1], c[2], 1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	var err error
	r.globe, err = shader.NewProgram(shaders.GlobeVertexShader, shaders.GlobeFragmentShader,
		"uMVP", "uModel", "uTexture", "uLightDir", "uEyePos", "uAmbient", "uRimColor")
	if err != nil {
		return fmt.Errorf("globe shader: %w", err)
	}
	r.beacon, err = shader.NewProgram(shaders.BeaconVertexShader, shaders.BeaconFragmentShader,
		"uMVP", "uPulse", "uColor", "uAlpha", "uGlow")
	if err != nil {
		return fmt.Errorf("beacon shader: %w", err)
	}

	if r.sphere, err = uploadMesh(assets.Sphere); err != nil {
		return fmt.Errorf("sphere: %w", err)
	}
	if r.primary, err = uploadMesh(assets.PrimaryCone); err != nil {
		return fmt.Errorf("primary cone: %w", err)
	}
	if r.city, err = uploadMesh(assets.CityCone); err != nil {
		return fmt.Errorf("city cone: %w", err)
	}

	r.texture = uploadTexture(r.loadSurface(assets.Texture))
	r.order = make([]int, len(assets.Beacons))

	return nil
}

// loadSurface loads the configured earth image, falling back to the
// generated one.
func (r *Renderer) loadSurface(path string) *image.RGBA {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)

	if path != "" {
		img, err := texture.Load(path)
		if err == nil {
			r.log.Info("texture loaded", zap.String("path", path),
				zap.Int("width", img.Rect.Dx()), zap.Int("height", img.Rect.Dy()))
			return texture.Fit(img, int(maxSize))
		}
		r.log.Warn("texture unavailable, using generated surface", zap.String("path", path), zap.Error(err))
	}
	return texture.Procedural(2048, 1024)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Draw renders the globe, then the beacons back to front with blending.
func (r *Renderer) Draw(f *scene.Frame) error {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.globe.Use()
	gl.UniformMatrix4fv(r.globe.Loc("uMVP"), 1, false, f.SphereMVP.Ptr())
	gl.UniformMatrix4fv(r.globe.Loc("uModel"), 1, false, f.SphereModel.Ptr())
	l := r.config.LightDir.Normalize()
	gl.Uniform3f(r.globe.Loc("uLightDir"), l.X, l.Y, l.Z)
	gl.Uniform3f(r.globe.Loc("uEyePos"), f.Eye.X, f.Eye.Y, f.Eye.Z)
	gl.Uniform1f(r.globe.Loc("uAmbient"), r.config.Ambient)
	rim := r.config.RimColor
	gl.Uniform3f(r.globe.Loc("uRimColor"), rim[0], rim[1], rim[2])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.Uniform1i(r.globe.Loc("uTexture"), 0)
	r.sphere.draw()

	// Cones are open, so both faces are drawn. Depth writes stay off so
	// translucent beacons do not hide each other.
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.DepthMask(false)

	r.beacon.Use()
	gl.Uniform1f(r.beacon.Loc("uGlow"), r.config.Glow)
	r.order = f.BackToFront(r.order)
	for _, i := range r.order {
		b := &f.Beacons[i]
		if b.Alpha <= 0 {
			continue
		}
		color, m := r.config.CityColor, &r.city
		if b.Primary {
			color, m = r.config.PrimaryColor, &r.primary
		}
		gl.UniformMatrix4fv(r.beacon.Loc("uMVP"), 1, false, b.MVP.Ptr())
		gl.Uniform1f(r.beacon.Loc("uPulse"), b.Pulse)
		gl.Uniform1f(r.beacon.Loc("uAlpha"), b.Alpha)
		gl.Uniform3f(r.beacon.Loc("uColor"), color[0], color[1], color[2])
		m.draw()
	}

	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl error 0x%x", code)
	}
	return nil
}

// Present shows the finished frame.
func (r *Renderer) Present() {
	r.surface.SwapBuffers()
}

// SetVisible records whether the surface is on screen.
func (r *Renderer) SetVisible(visible bool) {
	r.visible = visible
	r.log.Debug("surface visibility", zap.Bool("visible", visible))
}

// Release frees every GL object and unbinds the context from the render
// thread. It is safe after a partial Init.
func (r *Renderer) Release() {
	if !r.current {
		return
	}
	r.log.Info("releasing GPU resources")

	for _, m := range []*gpuMesh{&r.sphere, &r.primary, &r.city} {
		m.delete()
	}
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
		r.texture = 0
	}
	if r.globe != nil {
		r.globe.Delete()
	}
	if r.beacon != nil {
		r.beacon.Delete()
	}

	r.surface.ReleaseCurrent()
	r.current = false
}

func uploadMesh(m *mesh.Mesh) (gpuMesh, error) {
	if m == nil || len(m.Indices) == 0 {
		return gpuMesh{}, errors.New("empty mesh")
	}
	vertices := m.Interleaved()
	stride := int32(mesh.FloatsPerVertex * floatSize)

	var g gpuMesh
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*floatSize)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*floatSize)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*2, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	g.indexCount = int32(len(m.Indices))
	gl.BindVertexArray(0)
	return g, nil
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
}

func (g *gpuMesh) delete() {
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	*g = gpuMesh{}
}

func uploadTexture(img *image.RGBA) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(img.Rect.Dx()), int32(img.Rect.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	// U wraps around the globe; V stops at the poles.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}
