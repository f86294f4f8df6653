package scene

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/chewxy/math32"

	"github.com/Faultbox/beacon-earth/internal/engine/beacon"
	"github.com/Faultbox/beacon-earth/internal/engine/camera"
	"github.com/Faultbox/beacon-earth/internal/engine/loop"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

// ErrNoViewport is returned by Compose before a valid Resize.
var ErrNoViewport = errors.New("no viewport")

// Tuning holds the beacon animation constants.
type Tuning struct {
	PulseAmplitude float32 // Primary scale swing around 1
	PulseFrequency float32 // Radians per second
	CityFrequency  float32 // Radians per second
	FadeIn         float32 // Wave value where a city is fully faded in
	FadeOutStart   float32 // Wave value where a city starts fading out
}

// DefaultTuning returns the stock animation constants.
func DefaultTuning() Tuning {
	return Tuning{
		PulseAmplitude: 0.15,
		PulseFrequency: 3.0,
		CityFrequency:  0.8,
		FadeIn:         0.2,
		FadeOutStart:   0.7,
	}
}

// Pulse is the scale multiplier of a beacon at time t in seconds.
func (t Tuning) Pulse(time float64, primary bool) float32 {
	if !primary {
		return 1
	}
	return 1 + t.PulseAmplitude*math32.Sin(math.WrapRadians(time*float64(t.PulseFrequency)))
}

// Alpha is the opacity of a beacon at time t. City beacons fade in and out
// on a sine wave offset by their phase; the primary is always opaque.
func (t Tuning) Alpha(time float64, phase float32, primary bool) float32 {
	if primary {
		return 1
	}
	w := 0.5 + 0.5*math32.Sin(math.WrapRadians(time*float64(t.CityFrequency)+float64(phase)))
	return math.Smoothstep(0, t.FadeIn, w) * (1 - math.Smoothstep(t.FadeOutStart, 1, w))
}

// BeaconFrame is the per-frame output for one beacon.
type BeaconFrame struct {
	Primary bool
	World   math.Mat4
	MVP     math.Mat4
	Alpha   float32
	Pulse   float32
}

// Frame is everything the draw layer needs for one frame.
type Frame struct {
	Time        float64 // Seconds of running time
	Eye         math.Vec3
	View        math.Mat4
	Projection  math.Mat4
	SphereModel math.Mat4
	SphereMVP   math.Mat4
	Beacons     []BeaconFrame

	depth []float32 // BackToFront scratch
}

// Composer turns the animation state into per-frame matrices. The returned
// Frame is a scratch buffer reused by the next Compose call. A Composer
// belongs to the render thread and is not safe for concurrent use.
type Composer struct {
	camera    *camera.Camera
	alignment math.Mat4
	tuning    Tuning
	beacons   []beacon.Beacon
	local     []math.Mat4

	ready    bool
	width    int
	height   int
	viewProj math.Mat4

	frame    Frame
	rotation math.Mat4
}

// NewComposer prepares a composer for a sphere of the given radius. The
// alignment rotation (degrees about Y) is applied before the animated spin
// and lines the texture up with the beacon coordinates.
func NewComposer(cam *camera.Camera, radius, alignmentDeg float32, beacons []beacon.Beacon, tuning Tuning) *Composer {
	c := &Composer{
		camera:    cam,
		alignment: math.RotateY(math.DegToRad(alignmentDeg)),
		tuning:    tuning,
		beacons:   beacons,
		local:     make([]math.Mat4, len(beacons)),
	}
	for i, b := range beacons {
		c.local[i] = beacon.LocalTransform(b.Coord, radius)
	}
	c.frame.Beacons = make([]BeaconFrame, len(beacons))
	c.frame.depth = make([]float32, len(beacons))
	c.frame.Eye = cam.Position()
	return c
}

// Resize recomputes the cached view and projection for a viewport. On error
// the previous matrices stay in place.
func (c *Composer) Resize(width, height int) error {
	proj, err := c.camera.ProjectionMatrix(width, height)
	if err != nil {
		return fmt.Errorf("projection: %w", err)
	}
	view, err := c.camera.ViewMatrix()
	if err != nil {
		return fmt.Errorf("view: %w", err)
	}

	c.frame.Projection = proj
	c.frame.View = view
	c.frame.Eye = c.camera.Position()
	math.MulInto(&c.viewProj, &proj, &view)
	c.width, c.height = width, height
	c.ready = true
	return nil
}

// Ready reports whether a viewport has been applied.
func (c *Composer) Ready() bool { return c.ready }

// Viewport returns the last applied viewport size.
func (c *Composer) Viewport() (width, height int) { return c.width, c.height }

// Compose fills the scratch frame for state.
func (c *Composer) Compose(state loop.SceneState) (*Frame, error) {
	if !c.ready {
		return nil, ErrNoViewport
	}

	f := &c.frame
	f.Time = state.Time

	c.rotation = math.RotateY(math.DegToRad(float32(state.Angle)))
	math.MulInto(&f.SphereModel, &c.rotation, &c.alignment)
	math.MulInto(&f.SphereMVP, &c.viewProj, &f.SphereModel)

	for i := range c.beacons {
		b := &c.beacons[i]
		bf := &f.Beacons[i]
		bf.Primary = b.Primary
		math.MulInto(&bf.World, &f.SphereModel, &c.local[i])
		math.MulInto(&bf.MVP, &c.viewProj, &bf.World)
		bf.Pulse = c.tuning.Pulse(f.Time, b.Primary)
		bf.Alpha = c.tuning.Alpha(f.Time, b.Phase, b.Primary)
	}

	return f, nil
}

// BackToFront returns beacon indices ordered farthest from the eye first,
// the order translucent beacons must be blended in. buf is reused when it
// is large enough.
func (f *Frame) BackToFront(buf []int) []int {
	n := len(f.Beacons)
	if cap(buf) < n {
		buf = make([]int, n)
	}
	buf = buf[:n]
	if cap(f.depth) < n {
		f.depth = make([]float32, n)
	}
	f.depth = f.depth[:n]

	for i := range buf {
		buf[i] = i
		f.depth[i] = f.Beacons[i].World.Translation().Distance(f.Eye)
	}
	slices.SortStableFunc(buf, func(a, b int) int {
		return cmp.Compare(f.depth[b], f.depth[a])
	})
	return buf
}
