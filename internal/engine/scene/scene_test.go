package scene

import (
	"errors"
	stdmath "math"
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/beacon-earth/internal/config"
	"github.com/Faultbox/beacon-earth/internal/engine/beacon"
	"github.com/Faultbox/beacon-earth/internal/engine/camera"
	"github.com/Faultbox/beacon-earth/internal/engine/geo"
	"github.com/Faultbox/beacon-earth/internal/engine/loop"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func matNear(a, b math.Mat4, tol float32) bool {
	for i := range a {
		if abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

var singapore = geo.Coordinate{Lat: 1.35, Lon: 103.82}

func testBeacons() []beacon.Beacon {
	return beacon.Build(
		beacon.Site{Name: "Singapore", Coord: singapore},
		[]beacon.Site{
			{Name: "Tokyo", Coord: geo.Coordinate{Lat: 35.68, Lon: 139.69}},
			{Name: "London", Coord: geo.Coordinate{Lat: 51.51, Lon: -0.13}},
		},
		1.3,
	)
}

func readyComposer(t *testing.T, radius, alignment float32) *Composer {
	t.Helper()
	c := NewComposer(camera.New(), radius, alignment, testBeacons(), DefaultTuning())
	if err := c.Resize(1280, 720); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	return c
}

func TestComposeRequiresViewport(t *testing.T) {
	c := NewComposer(camera.New(), 1, 0, testBeacons(), DefaultTuning())
	if _, err := c.Compose(loop.SceneState{}); !errors.Is(err, ErrNoViewport) {
		t.Errorf("Compose before Resize = %v, want ErrNoViewport", err)
	}
}

func TestResizeInvalidKeepsCache(t *testing.T) {
	c := readyComposer(t, 1, 0)
	before, _ := c.Compose(loop.SceneState{})
	proj := before.Projection

	if err := c.Resize(0, 720); !errors.Is(err, math.ErrInvalidParameter) {
		t.Fatalf("Resize(0, 720) = %v, want ErrInvalidParameter", err)
	}
	if w, h := c.Viewport(); w != 1280 || h != 720 {
		t.Errorf("viewport changed to %dx%d", w, h)
	}

	after, err := c.Compose(loop.SceneState{})
	if err != nil {
		t.Fatal(err)
	}
	if after.Projection != proj {
		t.Error("projection changed after rejected resize")
	}
}

func TestSphereModelAtRest(t *testing.T) {
	c := readyComposer(t, 1, 0)
	f, err := c.Compose(loop.SceneState{})
	if err != nil {
		t.Fatal(err)
	}

	if !matNear(f.SphereModel, math.Identity(), 1e-6) {
		t.Errorf("sphere model at angle 0 = %v", f.SphereModel)
	}
	want := f.Projection.Mul(f.View)
	if !matNear(f.SphereMVP, want, 1e-5) {
		t.Errorf("sphere MVP = %v, want P*V", f.SphereMVP)
	}
}

func TestAlignmentAppliedBeforeSpin(t *testing.T) {
	c := readyComposer(t, 1, 90)
	f, err := c.Compose(loop.SceneState{Angle: 45})
	if err != nil {
		t.Fatal(err)
	}

	want := math.RotateY(math.DegToRad(135))
	if !matNear(f.SphereModel, want, 1e-5) {
		t.Errorf("sphere model = %v, want RotateY(135deg)", f.SphereModel)
	}
}

func TestBeaconsFollowSphere(t *testing.T) {
	const radius = 1.5
	c := readyComposer(t, radius, 20)

	for _, angle := range []float64{0, 90, 211.5} {
		f, err := c.Compose(loop.SceneState{Angle: angle})
		if err != nil {
			t.Fatal(err)
		}
		for i, b := range testBeacons() {
			bf := f.Beacons[i]
			want := beacon.WorldTransform(b.Coord, radius, f.SphereModel)
			if !matNear(bf.World, want, 1e-5) {
				t.Errorf("angle %v beacon %s: world %v, want %v", angle, b.Name, bf.World, want)
			}
			if !matNear(bf.MVP, f.Projection.Mul(f.View).Mul(bf.World), 1e-4) {
				t.Errorf("angle %v beacon %s: MVP is not P*V*World", angle, b.Name)
			}

			// The beacon base stays on the sphere surface.
			surface := f.SphereModel.TransformPoint(b.Coord.Cartesian(radius))
			if d := bf.World.Translation().Distance(surface); d > 1e-4 {
				t.Errorf("angle %v beacon %s: %v off the surface", angle, b.Name, d)
			}
		}
	}
}

func TestSingaporeOnSphere(t *testing.T) {
	c := readyComposer(t, 1.5, 0)
	f, err := c.Compose(loop.SceneState{})
	if err != nil {
		t.Fatal(err)
	}
	if !f.Beacons[0].Primary {
		t.Fatal("first beacon is not the primary")
	}
	if d := f.Beacons[0].World.Translation().Length(); abs(d-1.5) > 1e-4 {
		t.Errorf("Singapore beacon at distance %v, want 1.5", d)
	}
}

func TestComposeReusesFrame(t *testing.T) {
	c := readyComposer(t, 1, 0)
	a, _ := c.Compose(loop.SceneState{Angle: 10})
	b, _ := c.Compose(loop.SceneState{Angle: 20})
	if a != b {
		t.Error("Compose allocated a new frame")
	}
	if &a.Beacons[0] != &b.Beacons[0] {
		t.Error("Compose allocated a new beacon slice")
	}
}

func TestPulse(t *testing.T) {
	tu := DefaultTuning()

	peak := stdmath.Pi / (2 * float64(tu.PulseFrequency))
	if got := tu.Pulse(peak, true); abs(got-1.15) > 1e-5 {
		t.Errorf("primary pulse at peak = %v, want 1.15", got)
	}
	if got := tu.Pulse(0, true); abs(got-1) > 1e-6 {
		t.Errorf("primary pulse at 0 = %v, want 1", got)
	}
	if got := tu.Pulse(peak, false); got != 1 {
		t.Errorf("city pulse = %v, want 1", got)
	}
}

func TestAlpha(t *testing.T) {
	tu := DefaultTuning()

	tests := []struct {
		name  string
		phase float32
		want  float32
	}{
		{"wave midpoint", 0, 1},
		{"wave trough", -math.Pi / 2, 0},
		{"wave crest", math.Pi / 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tu.Alpha(0, tt.phase, false); abs(got-tt.want) > 1e-5 {
				t.Errorf("Alpha = %v, want %v", got, tt.want)
			}
		})
	}

	if got := tu.Alpha(1.234, 0.5, true); got != 1 {
		t.Errorf("primary alpha = %v, want 1", got)
	}

	for i := 0; i < 200; i++ {
		time := float64(i) * 0.05
		a := tu.Alpha(time, 1.3, false)
		if a < 0 || a > 1 || math32.IsNaN(a) {
			t.Fatalf("alpha %v at t=%v outside [0, 1]", a, time)
		}
	}
}

func TestComposeAnimatesBeacons(t *testing.T) {
	c := readyComposer(t, 1, 0)
	f, _ := c.Compose(loop.SceneState{Time: 0.5})
	tu := DefaultTuning()

	for i, b := range testBeacons() {
		bf := f.Beacons[i]
		if bf.Pulse != tu.Pulse(0.5, b.Primary) {
			t.Errorf("%s pulse = %v", b.Name, bf.Pulse)
		}
		if bf.Alpha != tu.Alpha(0.5, b.Phase, b.Primary) {
			t.Errorf("%s alpha = %v", b.Name, bf.Alpha)
		}
	}
}

func TestAnimationAfterLongRunningTime(t *testing.T) {
	tu := DefaultTuning()
	start := 1e6 // about eleven days

	var prev float32
	for i := 0; i < 20; i++ {
		time := start + float64(i)*0.01

		want := 1 + float64(tu.PulseAmplitude)*stdmath.Sin(time*float64(tu.PulseFrequency))
		got := tu.Pulse(time, true)
		if stdmath.Abs(float64(got)-want) > 1e-4 {
			t.Fatalf("pulse at t=%v = %v, want %v", time, got, want)
		}
		if i > 0 && got == prev {
			t.Fatalf("pulse stalled at t=%v", time)
		}
		prev = got

		w := 0.5 + 0.5*stdmath.Sin(time*float64(tu.CityFrequency)+0.5)
		wantAlpha := math.Smoothstep(0, tu.FadeIn, float32(w)) * (1 - math.Smoothstep(tu.FadeOutStart, 1, float32(w)))
		if got := tu.Alpha(time, 0.5, false); abs(got-wantAlpha) > 1e-4 {
			t.Fatalf("alpha at t=%v = %v, want %v", time, got, wantAlpha)
		}
	}
}

type fakeDrawer struct {
	calls   []string
	assets  Assets
	frames  int
	visible bool
	initErr error
	drawErr error
}

func (d *fakeDrawer) Init(a Assets) error {
	d.calls = append(d.calls, "init")
	d.assets = a
	return d.initErr
}

func (d *fakeDrawer) Resize(w, h int) { d.calls = append(d.calls, "resize") }

func (d *fakeDrawer) Draw(f *Frame) error {
	d.calls = append(d.calls, "draw")
	d.frames++
	return d.drawErr
}

func (d *fakeDrawer) Present() { d.calls = append(d.calls, "present") }

func (d *fakeDrawer) SetVisible(v bool) { d.visible = v }

func (d *fakeDrawer) Release() { d.calls = append(d.calls, "release") }

func (d *fakeDrawer) count(call string) int {
	n := 0
	for _, c := range d.calls {
		if c == call {
			n++
		}
	}
	return n
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Segments, cfg.Rings = 16, 8
	cfg.Cities = []beacon.Site{
		{Name: "Tokyo", Coord: geo.Coordinate{Lat: 35.68, Lon: 139.69}},
		{Name: "Cairo", Coord: geo.Coordinate{Lat: 30.04, Lon: 31.24}},
	}
	return cfg
}

func TestSceneLifecycle(t *testing.T) {
	d := &fakeDrawer{}
	s := New(testConfig(), d)

	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got := d.assets.Sphere.VertexCount(); got != 17*9 {
		t.Errorf("sphere vertices = %d, want %d", got, 17*9)
	}
	if len(d.assets.Beacons) != 3 || !d.assets.Beacons[0].Primary {
		t.Errorf("beacons = %+v", d.assets.Beacons)
	}
	if d.assets.PrimaryCone == nil || d.assets.CityCone == nil {
		t.Error("cone meshes missing")
	}

	// Hidden: nothing drawn.
	if err := s.RenderFrame(loop.SceneState{}); err != nil || d.frames != 0 {
		t.Fatalf("hidden render: err %v, frames %d", err, d.frames)
	}

	s.SetVisible(true)
	if !d.visible {
		t.Error("visibility not forwarded")
	}

	// Visible without a viewport: skipped, not an error.
	if err := s.RenderFrame(loop.SceneState{}); err != nil || d.frames != 0 {
		t.Fatalf("render without viewport: err %v, frames %d", err, d.frames)
	}

	if err := s.Resize(640, 480); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := s.RenderFrame(loop.SceneState{Angle: 5, Time: 1}); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if d.count("draw") != 1 || d.count("present") != 1 {
		t.Errorf("calls = %v", d.calls)
	}

	s.Shutdown()
	s.Shutdown()
	if d.count("release") != 1 {
		t.Errorf("release called %d times", d.count("release"))
	}
}

func TestSceneRejectsBadViewport(t *testing.T) {
	d := &fakeDrawer{}
	s := New(testConfig(), d)
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}

	if err := s.Resize(800, 0); err == nil {
		t.Error("expected error for empty viewport")
	}
	if d.count("resize") != 0 {
		t.Error("drawer resized to an invalid viewport")
	}
}

func TestSceneInvalidGeometry(t *testing.T) {
	d := &fakeDrawer{}
	cfg := testConfig()
	cfg.Segments = 2
	s := New(cfg, d)

	if err := s.Initialize(); !errors.Is(err, math.ErrInvalidParameter) {
		t.Fatalf("Initialize = %v, want ErrInvalidParameter", err)
	}
	s.Shutdown()
	if len(d.calls) != 0 {
		t.Errorf("drawer touched after failed setup: %v", d.calls)
	}
}

func TestSceneDrawerFailures(t *testing.T) {
	initErr := errors.New("shader link failed")
	d := &fakeDrawer{initErr: initErr}
	s := New(testConfig(), d)

	if err := s.Initialize(); !errors.Is(err, initErr) {
		t.Fatalf("Initialize = %v, want %v", err, initErr)
	}
	s.Shutdown()
	if d.count("release") != 1 {
		t.Error("partially initialized drawer not released")
	}

	drawErr := errors.New("lost context")
	d = &fakeDrawer{drawErr: drawErr}
	s = New(testConfig(), d)
	if err := s.Initialize(); err != nil {
		t.Fatal(err)
	}
	s.SetVisible(true)
	if err := s.Resize(320, 240); err != nil {
		t.Fatal(err)
	}
	if err := s.RenderFrame(loop.SceneState{}); !errors.Is(err, drawErr) {
		t.Errorf("RenderFrame = %v, want %v", err, drawErr)
	}
	if d.count("present") != 0 {
		t.Error("presented a failed frame")
	}
}

func TestConfigFrom(t *testing.T) {
	app := config.Default()
	app.Planet.AlignmentDeg = 15
	app.Camera.TiltDeg = 20

	cfg := ConfigFrom(app)

	if cfg.Primary.Name != "Singapore" || cfg.Primary.Coord != singapore {
		t.Errorf("primary = %+v", cfg.Primary)
	}
	if len(cfg.Cities) != len(app.Beacons.Cities) {
		t.Errorf("cities = %d, want %d", len(cfg.Cities), len(app.Beacons.Cities))
	}
	if abs(cfg.Camera.Pitch-math.DegToRad(20)) > 1e-6 {
		t.Errorf("pitch = %v", cfg.Camera.Pitch)
	}
	if cfg.AlignmentDeg != 15 || cfg.Tuning != DefaultTuning() {
		t.Errorf("alignment %v tuning %+v", cfg.AlignmentDeg, cfg.Tuning)
	}

	// The default application config must build a scene.
	s := New(cfg, &fakeDrawer{})
	if err := s.Initialize(); err != nil {
		t.Errorf("Initialize with default config: %v", err)
	}
}

func TestBackToFront(t *testing.T) {
	f := &Frame{
		Eye: math.Vec3{Z: 4},
		Beacons: []BeaconFrame{
			{World: math.Translate(0, 0, 1)},  // near side
			{World: math.Translate(0, 0, -1)}, // far side
			{World: math.Translate(1, 0, 0)},
		},
	}

	order := f.BackToFront(nil)
	want := []int{1, 2, 0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	buf := make([]int, 0, 8)
	if got := f.BackToFront(buf); &got[0] != &buf[:1][0] {
		t.Error("buffer with enough capacity was not reused")
	}
}

func TestBackToFrontStableForEqualDistance(t *testing.T) {
	f := &Frame{
		Eye: math.Vec3{Z: 4},
		Beacons: []BeaconFrame{
			{World: math.Translate(1, 0, 0)},
			{World: math.Translate(0, 0, -1)},
			{World: math.Translate(-1, 0, 0)},
			{World: math.Translate(0, 1, 0)},
		},
	}

	order := f.BackToFront(nil)
	want := []int{1, 0, 2, 3}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestBackToFrontReusesScratch(t *testing.T) {
	c := readyComposer(t, 1, 0)
	f, err := c.Compose(loop.SceneState{Time: 1, Angle: 40})
	if err != nil {
		t.Fatal(err)
	}

	order := make([]int, len(f.Beacons))
	allocs := testing.AllocsPerRun(100, func() {
		order = f.BackToFront(order)
	})
	if allocs != 0 {
		t.Errorf("BackToFront allocated %v times per frame", allocs)
	}
}
