package scene

import (
	"github.com/Faultbox/beacon-earth/internal/config"
	"github.com/Faultbox/beacon-earth/internal/engine/beacon"
	"github.com/Faultbox/beacon-earth/internal/engine/camera"
	"github.com/Faultbox/beacon-earth/internal/engine/geo"
	"github.com/Faultbox/beacon-earth/pkg/math"
)

// ConfigFrom maps the application config onto a scene Config.
func ConfigFrom(c *config.Config) Config {
	cam := camera.New()
	cam.Distance = c.Camera.Distance
	cam.Pitch = math.DegToRad(c.Camera.TiltDeg)
	cam.FovY = math.DegToRad(c.Camera.FovDeg)
	cam.Near = c.Camera.Near
	cam.Far = c.Camera.Far

	b := c.Beacons
	cities := make([]beacon.Site, len(b.Cities))
	for i, city := range b.Cities {
		cities[i] = site(city)
	}

	return Config{
		Radius:       c.Planet.Radius,
		Segments:     c.Planet.Segments,
		Rings:        c.Planet.Rings,
		Texture:      c.Planet.Texture,
		AlignmentDeg: c.Planet.AlignmentDeg,
		Camera:       *cam,
		Primary:      site(b.Primary),
		Cities:       cities,
		PhaseStep:    b.PhaseStep,
		PrimaryCone:  ConeSize{Radius: b.PrimaryCone.Radius, Height: b.PrimaryCone.Height},
		CityCone:     ConeSize{Radius: b.CityCone.Radius, Height: b.CityCone.Height},
		ConeSegments: b.ConeSegments,
		Tuning: Tuning{
			PulseAmplitude: b.PulseAmplitude,
			PulseFrequency: b.PulseFrequency,
			CityFrequency:  b.CityFrequency,
			FadeIn:         b.FadeIn,
			FadeOutStart:   b.FadeOutStart,
		},
	}
}

func site(s config.SiteConfig) beacon.Site {
	return beacon.Site{Name: s.Name, Coord: geoCoord(s.Lat, s.Lon)}
}

func geoCoord(lat, lon float32) geo.Coordinate {
	return geo.Coordinate{Lat: lat, Lon: lon}
}
