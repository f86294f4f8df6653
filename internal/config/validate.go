package config

import (
	"errors"
	"fmt"
	"math"
)

// Frame rate bounds accepted by the render loop.
const (
	MinFPS = 1
	MaxFPS = 60
)

// Validate reports every setting the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	g := c.Graphics
	if g.Width <= 0 || g.Height <= 0 {
		add("graphics: window size %dx%d must be positive", g.Width, g.Height)
	}
	if g.VisibleFPS < MinFPS || g.VisibleFPS > MaxFPS {
		add("graphics.visible_fps: %d outside [%d, %d]", g.VisibleFPS, MinFPS, MaxFPS)
	}
	if g.HiddenFPS < MinFPS || g.HiddenFPS > MaxFPS {
		add("graphics.hidden_fps: %d outside [%d, %d]", g.HiddenFPS, MinFPS, MaxFPS)
	}

	p := c.Planet
	if !(p.Radius > 0) || math.IsInf(float64(p.Radius), 0) {
		add("planet.radius: %v must be positive", p.Radius)
	}
	if p.Segments < 3 {
		add("planet.segments: %d, need at least 3", p.Segments)
	}
	if p.Rings < 2 {
		add("planet.rings: %d, need at least 2", p.Rings)
	}
	if (p.Segments+1)*(p.Rings+1) > 1<<16 {
		add("planet: %dx%d grid exceeds 16-bit indices", p.Segments, p.Rings)
	}
	if math.IsNaN(p.RotationSpeed) || math.IsInf(p.RotationSpeed, 0) {
		add("planet.rotation_speed: %v is not finite", p.RotationSpeed)
	}

	cam := c.Camera
	if !(cam.FovDeg > 0 && cam.FovDeg < 180) {
		add("camera.fov_deg: %v outside (0, 180)", cam.FovDeg)
	}
	if !(cam.Near > 0) || !(cam.Far > cam.Near) {
		add("camera: near %v and far %v must satisfy 0 < near < far", cam.Near, cam.Far)
	}
	if !(cam.Distance > p.Radius) {
		add("camera.distance: %v must be outside the planet radius %v", cam.Distance, p.Radius)
	}

	b := c.Beacons
	checkSite := func(field string, s SiteConfig) {
		if s.Lat < -90 || s.Lat > 90 || s.Lon < -180 || s.Lon > 180 {
			add("%s %q: (%v, %v) is not a valid coordinate", field, s.Name, s.Lat, s.Lon)
		}
	}
	checkSite("beacons.primary", b.Primary)
	for i, city := range b.Cities {
		checkSite(fmt.Sprintf("beacons.cities[%d]", i), city)
	}
	for name, cone := range map[string]ConeConfig{"primary_cone": b.PrimaryCone, "city_cone": b.CityCone} {
		if !(cone.Radius > 0) || !(cone.Height > 0) {
			add("beacons.%s: radius %v and height %v must be positive", name, cone.Radius, cone.Height)
		}
	}
	if b.ConeSegments < 3 {
		add("beacons.cone_segments: %d, need at least 3", b.ConeSegments)
	}
	if !(b.FadeIn > 0) || !(b.FadeOutStart < 1) {
		add("beacons: fade_in %v and fade_out_start %v must lie in (0, 1)", b.FadeIn, b.FadeOutStart)
	}

	return errors.Join(errs...)
}
