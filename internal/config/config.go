// Package config handles globe configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Planet   PlanetConfig   `yaml:"planet"`
	Camera   CameraConfig   `yaml:"camera"`
	Beacons  BeaconsConfig  `yaml:"beacons"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and frame pacing settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	VisibleFPS int  `yaml:"visible_fps"` // Target while the window is shown
	HiddenFPS  int  `yaml:"hidden_fps"`  // Target while hidden or minimized
}

// PlanetConfig holds the globe geometry and motion settings.
type PlanetConfig struct {
	Radius        float32 `yaml:"radius"`
	Segments      int     `yaml:"segments"`
	Rings         int     `yaml:"rings"`
	Texture       string  `yaml:"texture"`        // Equirectangular image; empty uses a generated one
	AlignmentDeg  float32 `yaml:"alignment_deg"`  // Fixed Y rotation lining the texture up with the beacons
	RotationSpeed float64 `yaml:"rotation_speed"` // Degrees per second
}

// CameraConfig holds the fixed camera placement.
type CameraConfig struct {
	FovDeg   float32 `yaml:"fov_deg"`
	Distance float32 `yaml:"distance"`
	TiltDeg  float32 `yaml:"tilt_deg"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
}

// SiteConfig is a named geographic location in degrees.
type SiteConfig struct {
	Name string  `yaml:"name"`
	Lat  float32 `yaml:"lat"`
	Lon  float32 `yaml:"lon"`
}

// ConeConfig sizes a beacon cone.
type ConeConfig struct {
	Radius float32 `yaml:"radius"`
	Height float32 `yaml:"height"`
}

// BeaconsConfig holds beacon locations and animation tuning.
type BeaconsConfig struct {
	Primary      SiteConfig   `yaml:"primary"`
	Cities       []SiteConfig `yaml:"cities"`
	PrimaryCone  ConeConfig   `yaml:"primary_cone"`
	CityCone     ConeConfig   `yaml:"city_cone"`
	ConeSegments int          `yaml:"cone_segments"`

	PulseAmplitude float32 `yaml:"pulse_amplitude"` // Primary scale swing around 1
	PulseFrequency float32 `yaml:"pulse_frequency"` // Primary pulse, radians per second
	CityFrequency  float32 `yaml:"city_frequency"`  // City fade wave, radians per second
	PhaseStep      float32 `yaml:"phase_step"`      // Phase added per city index
	FadeIn         float32 `yaml:"fade_in"`
	FadeOutStart   float32 `yaml:"fade_out_start"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DefaultCities returns the city beacons shown around the primary one.
func DefaultCities() []SiteConfig {
	return []SiteConfig{
		{Name: "Tokyo", Lat: 35.68, Lon: 139.69},
		{Name: "London", Lat: 51.51, Lon: -0.13},
		{Name: "New York", Lat: 40.71, Lon: -74.01},
		{Name: "Sydney", Lat: -33.87, Lon: 151.21},
		{Name: "Sao Paulo", Lat: -23.55, Lon: -46.63},
		{Name: "Prague", Lat: 50.08, Lon: 14.44},
		{Name: "Beijing", Lat: 39.90, Lon: 116.41},
		{Name: "Cairo", Lat: 30.04, Lon: 31.24},
		{Name: "Moscow", Lat: 55.76, Lon: 37.62},
		{Name: "Mexico City", Lat: 19.43, Lon: -99.13},
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			VisibleFPS: 30,
			HiddenFPS:  1,
		},
		Planet: PlanetConfig{
			Radius:        1.0,
			Segments:      64,
			Rings:         32,
			Texture:       "",
			AlignmentDeg:  0,
			RotationSpeed: 30,
		},
		Camera: CameraConfig{
			FovDeg:   45,
			Distance: 4,
			TiltDeg:  10,
			Near:     0.1,
			Far:      10,
		},
		Beacons: BeaconsConfig{
			Primary:        SiteConfig{Name: "Singapore", Lat: 1.35, Lon: 103.82},
			Cities:         DefaultCities(),
			PrimaryCone:    ConeConfig{Radius: 0.02, Height: 0.6},
			CityCone:       ConeConfig{Radius: 0.01, Height: 0.5},
			ConeSegments:   16,
			PulseAmplitude: 0.15,
			PulseFrequency: 3.0,
			CityFrequency:  0.8,
			PhaseStep:      1.3,
			FadeIn:         0.2,
			FadeOutStart:   0.7,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
