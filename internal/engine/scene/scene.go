// Package scene ties the camera, water and skybox into one renderable scene.
package scene

import (
	"context"
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ocean/internal/config"
	"github.com/Faultbox/midgard-ocean/internal/engine/camera"
	"github.com/Faultbox/midgard-ocean/internal/engine/debug"
	"github.com/Faultbox/midgard-ocean/internal/engine/input/action"
	"github.com/Faultbox/midgard-ocean/internal/engine/mesh"
	"github.com/Faultbox/midgard-ocean/internal/engine/renderer"
	"github.com/Faultbox/midgard-ocean/internal/engine/skybox"
	"github.com/Faultbox/midgard-ocean/internal/engine/water"
	"github.com/Faultbox/midgard-ocean/internal/logger"
	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// Controls is the per-frame action state the scene samples.
type Controls interface {
	camera.Controls
	Pressed(a action.Action) bool
}

// Clock supplies frame timing.
type Clock interface {
	ElapsedSeconds() float32
	TotalSeconds() float32
}

// SceneRenderer owns the camera, the water surface and the skybox.
// Every method runs on the render thread.
type SceneRenderer struct {
	cfg    *config.Config
	dev    renderer.Device
	assets Loader
	log    *zap.Logger

	camera *camera.Camera
	water  *water.Water
	sky    *skybox.Skybox
	shots  *debug.Screenshots

	pending <-chan loadResult
	loaded  bool

	width, height int
	clear         color.RGBA
	wireframe     bool
	screenshot    bool
}

// New builds the CPU side of the scene. GPU objects are created once Load
// has finished reading assets.
func New(cfg *config.Config, dev renderer.Device, assets Loader) (*SceneRenderer, error) {
	mode, err := water.ParseMode(cfg.Water.MeshMode)
	if err != nil {
		return nil, err
	}

	w, h := cfg.Graphics.Width, cfg.Graphics.Height
	cc := cfg.Camera
	cam := camera.New(vec3(cc.Eye), vec3(cc.At), vec3(cc.Up), float32(w)/float32(h))
	cam.FOV = cc.FOVDegrees * math32.Pi / 180
	cam.NearClippingPlane = cc.Near
	cam.FarClippingPlane = cc.Far
	cam.MovementSpeed = cc.MovementSpeed

	wc := cfg.Water
	sc := cfg.Skybox
	gc := cfg.Graphics.ClearColor

	return &SceneRenderer{
		cfg:    cfg,
		dev:    dev,
		assets: assets,
		log:    logger.Named("scene"),
		camera: cam,
		water: water.New(water.Config{
			Mode:              mode,
			SimpleWidth:       wc.Simple.Width,
			SimpleHeight:      wc.Simple.Height,
			SimpleStride:      wc.Simple.Stride,
			PolarRadialSteps:  wc.Polar.RadialSteps,
			PolarAngularSteps: wc.Polar.AngularSteps,
			PolarRadius:       wc.Polar.Radius,
			Projected: mesh.ProjectedParams{
				Width:       wc.Projected.Width,
				Height:      wc.Projected.Height,
				Bias:        wc.Projected.Bias,
				PlaneHeight: wc.Projected.PlaneHeight,
			},
			UVWaveSpeed: wc.UVWaveSpeed,
			LightDir:    wc.LightDir,
			LightColor:  wc.LightColor,
		}),
		sky: skybox.New(skybox.Config{
			LatitudeBands:  sc.LatitudeBands,
			LongitudeBands: sc.LongitudeBands,
			Radius:         sc.Radius,
			Scale:          sc.Scale,
		}),
		shots:  debug.NewScreenshots(cfg.Assets.ScreenshotDir, "ocean"),
		width:  w,
		height: h,
		clear:  color.RGBA{gc[0], gc[1], gc[2], gc[3]},
	}, nil
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Camera returns the scene camera.
func (s *SceneRenderer) Camera() *camera.Camera {
	return s.camera
}

// Water returns the water surface.
func (s *SceneRenderer) Water() *water.Water {
	return s.water
}

// Wireframe reports whether water is drawn as lines.
func (s *SceneRenderer) Wireframe() bool {
	return s.wireframe
}

// Loaded reports whether the GPU objects exist.
func (s *SceneRenderer) Loaded() bool {
	return s.loaded
}

// Load starts reading and decoding every asset in the background.
// Update finishes the load on the render thread once all reads are done.
func (s *SceneRenderer) Load(ctx context.Context) {
	results := make(chan loadResult, 1)
	s.pending = results
	go func() {
		b, err := readBundle(ctx, s.assets, s.cfg)
		results <- loadResult{bundle: b, err: err}
	}()
}

// finishLoad creates GPU objects when the background read has completed.
func (s *SceneRenderer) finishLoad() error {
	if s.loaded || s.pending == nil {
		return nil
	}

	var res loadResult
	select {
	case res = <-s.pending:
		s.pending = nil
	default:
		return nil
	}
	if res.err != nil {
		return fmt.Errorf("loading scene assets: %w", res.err)
	}

	if err := s.sky.Load(s.dev, res.bundle.sky); err != nil {
		return err
	}
	if err := s.water.Load(s.dev, res.bundle.water); err != nil {
		s.sky.Release()
		return err
	}
	s.loaded = true
	s.log.Info("scene loaded", zap.Stringer("mesh_mode", s.water.Mode()))
	return nil
}

// Update applies input toggles, moves the camera and prepares the frame.
// Asset load failures surface here.
func (s *SceneRenderer) Update(clock Clock, controls Controls) error {
	if err := s.finishLoad(); err != nil {
		return err
	}

	if controls.Pressed(action.ToggleWireframe) {
		s.wireframe = !s.wireframe
		s.log.Debug("wireframe toggled", zap.Bool("on", s.wireframe))
	}
	if controls.Pressed(action.CycleMeshMode) {
		s.water.CycleMode()
	}
	if controls.Pressed(action.Screenshot) {
		s.screenshot = true
	}

	s.camera.Update(clock.ElapsedSeconds(), controls)

	if !s.loaded {
		return nil
	}
	s.water.UpdateMeshes(s.camera)
	s.water.SetFrameConstants(s.camera, clock.TotalSeconds())
	s.sky.Update(s.camera)
	return nil
}

// Render clears the frame and, once loaded, draws the skybox then the water.
func (s *SceneRenderer) Render() {
	s.dev.Begin(s.clear)
	if !s.loaded {
		return
	}

	s.sky.Draw()
	s.water.Draw(s.wireframe)

	if s.screenshot {
		s.screenshot = false
		s.capture()
	}
}

func (s *SceneRenderer) capture() {
	pixels := s.dev.ReadPixels(s.width, s.height)
	path, err := s.shots.Save(pixels, s.width, s.height)
	if err != nil {
		s.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	s.log.Info("screenshot saved", zap.String("path", path))
}

// Resize updates the viewport and the camera aspect ratio.
func (s *SceneRenderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.camera.SetAspectRatio(width, height)
	s.dev.Resize(width, height)
}

// Release destroys every GPU object.
func (s *SceneRenderer) Release() {
	s.water.Release()
	s.sky.Release()
	s.loaded = false
}
