package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test camera defaults
	if cfg.Camera.Eye != [3]float32{-10, 7, 5} {
		t.Errorf("expected eye (-10,7,5), got %v", cfg.Camera.Eye)
	}
	if cfg.Camera.FOVDegrees != 70 {
		t.Errorf("expected fov 70, got %f", cfg.Camera.FOVDegrees)
	}
	if cfg.Camera.Near != 0.01 || cfg.Camera.Far != 1000 {
		t.Errorf("expected near 0.01 far 1000, got %f %f", cfg.Camera.Near, cfg.Camera.Far)
	}

	// Test water defaults
	if cfg.Water.MeshMode != MeshProjected {
		t.Errorf("expected mesh mode %q, got %q", MeshProjected, cfg.Water.MeshMode)
	}
	if cfg.Water.UVWaveSpeed != [4]float32{0.4, -0.5, -0.7, 0.3} {
		t.Errorf("unexpected uv wave speed %v", cfg.Water.UVWaveSpeed)
	}

	// Test skybox defaults
	if cfg.Skybox.Scale != 500 {
		t.Errorf("expected skybox scale 500, got %f", cfg.Skybox.Scale)
	}

	// Test input defaults
	if cfg.Input["toggle_wireframe"] != "F" {
		t.Errorf("expected wireframe on F, got %q", cfg.Input["toggle_wireframe"])
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  display_rotation: 90

camera:
  eye: [0, 20, 0]
  at: [0, 0, -50]
  movement_speed: 12

water:
  mesh_mode: polar
  polar:
    radial_steps: 50
    angular_steps: 64
    radius: 250
  light_color: [1, 0.9, 0.8, 1]

input:
  toggle_wireframe: "Tab"

logging:
  level: "debug"
  log_file: "ocean.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.DisplayRotation != 90 {
		t.Errorf("expected rotation 90, got %d", cfg.Graphics.DisplayRotation)
	}

	if cfg.Camera.Eye != [3]float32{0, 20, 0} {
		t.Errorf("expected eye (0,20,0), got %v", cfg.Camera.Eye)
	}
	if cfg.Camera.MovementSpeed != 12 {
		t.Errorf("expected speed 12, got %f", cfg.Camera.MovementSpeed)
	}
	// Fields missing from the file keep their defaults.
	if cfg.Camera.FOVDegrees != 70 {
		t.Errorf("expected default fov 70, got %f", cfg.Camera.FOVDegrees)
	}

	if cfg.Water.MeshMode != MeshPolar {
		t.Errorf("expected mesh mode polar, got %s", cfg.Water.MeshMode)
	}
	if cfg.Water.Polar.Radius != 250 {
		t.Errorf("expected polar radius 250, got %f", cfg.Water.Polar.Radius)
	}
	if cfg.Water.Projected.Width != 120 {
		t.Errorf("expected default projected width 120, got %d", cfg.Water.Projected.Width)
	}

	// Bindings merge into the defaults.
	if cfg.Input["toggle_wireframe"] != "Tab" {
		t.Errorf("expected wireframe on Tab, got %q", cfg.Input["toggle_wireframe"])
	}
	if cfg.Input["move_forward"] != "W" {
		t.Errorf("expected forward to stay on W, got %q", cfg.Input["move_forward"])
	}

	if cfg.Logging.LogFile != "ocean.log" {
		t.Errorf("expected log file 'ocean.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "mesh mode flag",
			setup: func() {
				*flagMeshMode = MeshSimple
			},
			verify: func(cfg *Config) {
				if cfg.Water.MeshMode != MeshSimple {
					t.Errorf("expected mesh mode simple, got %s", cfg.Water.MeshMode)
				}
			},
			teardown: func() {
				*flagMeshMode = ""
			},
		},
		{
			name: "assets flag",
			setup: func() {
				*flagAssets = "/tmp/ocean-assets"
			},
			verify: func(cfg *Config) {
				if cfg.Assets.Dir != "/tmp/ocean-assets" {
					t.Errorf("expected assets dir override, got %q", cfg.Assets.Dir)
				}
			},
			teardown: func() {
				*flagAssets = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
water:
  mesh_mode: polar
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	*flagMeshMode = MeshProjected
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
		*flagMeshMode = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}

	if cfg.Water.MeshMode != MeshProjected {
		t.Errorf("expected mesh mode from flag, got %s", cfg.Water.MeshMode)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("water:\n  mesh_mode: hexagonal\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "hexagonal") {
		t.Errorf("expected mesh mode error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }, "graphics"},
		{"odd rotation", func(c *Config) { c.Graphics.DisplayRotation = 45 }, "display_rotation"},
		{"eye equals at", func(c *Config) { c.Camera.At = c.Camera.Eye }, "eye and at"},
		{"fov", func(c *Config) { c.Camera.FOVDegrees = 180 }, "fov"},
		{"near after far", func(c *Config) { c.Camera.Near = 2000 }, "near"},
		{"mesh mode", func(c *Config) { c.Water.MeshMode = "" }, "mesh_mode"},
		{"simple grid", func(c *Config) { c.Water.Simple.Stride = 0 }, "water.simple"},
		{"polar grid", func(c *Config) { c.Water.Polar.AngularSteps = -1 }, "water.polar"},
		{"projected grid", func(c *Config) { c.Water.Projected.Height = 0 }, "water.projected"},
		{"negative bias", func(c *Config) { c.Water.Projected.Bias = -1 }, "bias"},
		{"skybox", func(c *Config) { c.Skybox.LatitudeBands = 0 }, "skybox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error mentioning %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Water.MeshMode = MeshSimple
	cfg.Input["quit"] = "Q"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Water.MeshMode != MeshSimple {
		t.Errorf("expected mesh mode simple, got %s", loaded.Water.MeshMode)
	}
	if loaded.Input["quit"] != "Q" {
		t.Errorf("expected quit on Q, got %q", loaded.Input["quit"])
	}
}

func TestSaveUsesConfigFlagPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean", "config.yaml")
	*flagConfig = path
	defer func() { *flagConfig = "" }()

	cfg := Default()
	cfg.Camera.MovementSpeed = 12
	written, err := cfg.Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if written != path {
		t.Errorf("Save() wrote %s, want %s", written, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), fileHeader) {
		t.Error("saved config should start with the header comment")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save() error = %v", err)
	}
	if loaded.Camera.MovementSpeed != 12 {
		t.Errorf("expected movement speed 12, got %g", loaded.Camera.MovementSpeed)
	}
}

func TestSaveDefaultPath(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	written, err := Default().Save()
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if written != DefaultPath() {
		t.Errorf("Save() wrote %s, want %s", written, DefaultPath())
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestLoadWithSaveConfigAllowsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.yaml")
	*flagConfig = path
	defer func() {
		*flagConfig = ""
		*flagSaveConfig = false
	}()

	if _, err := Load(); err == nil {
		t.Fatal("expected error for a missing --config file")
	}

	*flagSaveConfig = true
	if !SaveRequested() {
		t.Fatal("SaveRequested() = false with --save-config")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with --save-config error = %v", err)
	}
	if cfg.Water.MeshMode != MeshProjected {
		t.Errorf("expected defaults, got mesh mode %s", cfg.Water.MeshMode)
	}
}
