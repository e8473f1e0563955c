// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"slices"
)

// Mesh modes for the water surface.
const (
	MeshSimple    = "simple"
	MeshPolar     = "polar"
	MeshProjected = "projected"
)

// MeshModes lists the valid water mesh modes in cycle order.
var MeshModes = []string{MeshSimple, MeshPolar, MeshProjected}

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig    `yaml:"graphics"`
	Camera   CameraConfig      `yaml:"camera"`
	Water    WaterConfig       `yaml:"water"`
	Skybox   SkyboxConfig      `yaml:"skybox"`
	Input    map[string]string `yaml:"input"` // Action name -> SDL scancode name
	Assets   AssetsConfig      `yaml:"assets"`
	Logging  LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`

	// DisplayRotation is the panel rotation in degrees (0, 90, 180, 270).
	DisplayRotation int `yaml:"display_rotation"`

	ClearColor [4]uint8 `yaml:"clear_color"`
	ShowFPS    bool     `yaml:"show_fps"`
}

// CameraConfig holds the initial camera pose and lens.
type CameraConfig struct {
	Eye           [3]float32 `yaml:"eye"`
	At            [3]float32 `yaml:"at"`
	Up            [3]float32 `yaml:"up"`
	FOVDegrees    float32    `yaml:"fov_degrees"`
	Near          float32    `yaml:"near"`
	Far           float32    `yaml:"far"`
	MovementSpeed float32    `yaml:"movement_speed"`
}

// WaterConfig holds water mesh and shading settings.
type WaterConfig struct {
	MeshMode  string           `yaml:"mesh_mode"`
	Simple    SimpleGridConfig `yaml:"simple"`
	Polar     PolarGridConfig  `yaml:"polar"`
	Projected ProjectedConfig  `yaml:"projected"`

	UVWaveSpeed [4]float32 `yaml:"uv_wave_speed"`
	LightDir    [4]float32 `yaml:"light_dir"`
	LightColor  [4]float32 `yaml:"light_color"`

	NormalTexture      string `yaml:"normal_texture"`
	EnvironmentTexture string `yaml:"environment_texture"`
	FoamTexture        string `yaml:"foam_texture"`
}

// SimpleGridConfig sizes the flat grid.
type SimpleGridConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Stride float32 `yaml:"stride"`
}

// PolarGridConfig sizes the ring grid.
type PolarGridConfig struct {
	RadialSteps  int     `yaml:"radial_steps"`
	AngularSteps int     `yaml:"angular_steps"`
	Radius       float32 `yaml:"radius"`
}

// ProjectedConfig sizes the camera-projected grid.
type ProjectedConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Bias        float32 `yaml:"bias"`
	PlaneHeight float32 `yaml:"plane_height"`
}

// SkyboxConfig holds the sky sphere settings.
type SkyboxConfig struct {
	LatitudeBands  int     `yaml:"latitude_bands"`
	LongitudeBands int     `yaml:"longitude_bands"`
	Radius         float32 `yaml:"radius"`
	Scale          float32 `yaml:"scale"`
	Texture        string  `yaml:"texture"`
}

// AssetsConfig holds asset lookup settings.
type AssetsConfig struct {
	// Dir overrides embedded assets file by file when set.
	Dir           string `yaml:"dir"`
	ScreenshotDir string `yaml:"screenshot_dir"`

	WaterVertex    string `yaml:"water_vertex"`
	WaterFragment  string `yaml:"water_fragment"`
	SolidFragment  string `yaml:"solid_fragment"`
	SkyboxVertex   string `yaml:"skybox_vertex"`
	SkyboxFragment string `yaml:"skybox_fragment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			ClearColor: [4]uint8{100, 149, 237, 255},
		},
		Camera: CameraConfig{
			Eye:           [3]float32{-10, 7, 5},
			At:            [3]float32{0, 0, 0},
			Up:            [3]float32{0, 1, 0},
			FOVDegrees:    70,
			Near:          0.01,
			Far:           1000,
			MovementSpeed: 5,
		},
		Water: WaterConfig{
			MeshMode: MeshProjected,
			Simple: SimpleGridConfig{
				Width:  100,
				Height: 100,
				Stride: 1,
			},
			Polar: PolarGridConfig{
				RadialSteps:  200,
				AngularSteps: 100,
				Radius:       500,
			},
			Projected: ProjectedConfig{
				Width:  120,
				Height: 60,
			},
			UVWaveSpeed:        [4]float32{0.4, -0.5, -0.7, 0.3},
			LightDir:           [4]float32{-0.9, -0.34, -0.25, 1},
			LightColor:         [4]float32{1, 1, 1, 1},
			NormalTexture:      "textures/water_normal.png",
			EnvironmentTexture: "textures/skybox.png",
			FoamTexture:        "textures/water_foam.png",
		},
		Skybox: SkyboxConfig{
			LatitudeBands:  20,
			LongitudeBands: 20,
			Radius:         0.5,
			Scale:          500,
			Texture:        "textures/skybox.png",
		},
		Input: DefaultKeymap(),
		Assets: AssetsConfig{
			ScreenshotDir:  "screenshots",
			WaterVertex:    "shaders/water.vert",
			WaterFragment:  "shaders/water.frag",
			SolidFragment:  "shaders/solid.frag",
			SkyboxVertex:   "shaders/skybox.vert",
			SkyboxFragment: "shaders/skybox.frag",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// DefaultKeymap returns the default action bindings as SDL scancode names.
func DefaultKeymap() map[string]string {
	return map[string]string{
		"move_forward":     "W",
		"move_back":        "S",
		"move_left":        "A",
		"move_right":       "D",
		"move_up":          "E",
		"move_down":        "Q",
		"speed_fast":       "Left Shift",
		"speed_slow":       "Left Ctrl",
		"reset_camera":     "R",
		"toggle_wireframe": "F",
		"cycle_mesh_mode":  "M",
		"screenshot":       "F12",
		"quit":             "Escape",
	}
}

// Validate rejects settings the renderer cannot use.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	switch c.Graphics.DisplayRotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("graphics: display_rotation must be 0, 90, 180 or 270, got %d", c.Graphics.DisplayRotation)
	}

	cam := c.Camera
	if cam.Eye == cam.At {
		return fmt.Errorf("camera: eye and at must differ")
	}
	if cam.FOVDegrees <= 0 || cam.FOVDegrees >= 180 {
		return fmt.Errorf("camera: fov_degrees %g out of range", cam.FOVDegrees)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		return fmt.Errorf("camera: need 0 < near < far, got near %g far %g", cam.Near, cam.Far)
	}

	w := c.Water
	if !slices.Contains(MeshModes, w.MeshMode) {
		return fmt.Errorf("water: unknown mesh_mode %q", w.MeshMode)
	}
	if w.Simple.Width <= 0 || w.Simple.Height <= 0 || w.Simple.Stride <= 0 {
		return fmt.Errorf("water.simple: sizes must be positive")
	}
	if w.Polar.RadialSteps <= 0 || w.Polar.AngularSteps <= 0 || w.Polar.Radius <= 0 {
		return fmt.Errorf("water.polar: sizes must be positive")
	}
	if w.Projected.Width <= 0 || w.Projected.Height <= 0 {
		return fmt.Errorf("water.projected: sizes must be positive")
	}
	if w.Projected.Bias < 0 {
		return fmt.Errorf("water.projected: bias must not be negative")
	}

	s := c.Skybox
	if s.LatitudeBands <= 0 || s.LongitudeBands <= 0 || s.Radius <= 0 || s.Scale <= 0 {
		return fmt.Errorf("skybox: sizes must be positive")
	}

	return nil
}
