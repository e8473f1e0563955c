// Package app runs the ocean viewer frame loop.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ocean/internal/assets"
	"github.com/Faultbox/midgard-ocean/internal/config"
	"github.com/Faultbox/midgard-ocean/internal/engine/input"
	"github.com/Faultbox/midgard-ocean/internal/engine/renderer"
	"github.com/Faultbox/midgard-ocean/internal/engine/scene"
	"github.com/Faultbox/midgard-ocean/internal/engine/timer"
	"github.com/Faultbox/midgard-ocean/internal/engine/window"
	"github.com/Faultbox/midgard-ocean/internal/logger"
)

// Title is the window title.
const Title = "Midgard Ocean"

// App is the viewer instance.
type App struct {
	config *config.Config
	log    *zap.Logger

	window *window.Window
	device *renderer.GL
	input  *input.Input
	assets *assets.Manager
	scene  *scene.SceneRenderer
	timer  *timer.StepTimer
}

// New creates the window, the GL device and the scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		config: cfg,
		log:    logger.Named("app"),
		timer:  timer.New(),
	}

	keymap, err := input.ParseKeymap(cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("input bindings: %w", err)
	}
	a.input = input.New(keymap)

	a.assets = assets.NewDefaultManager()
	if cfg.Assets.Dir != "" {
		if err := a.assets.AddDir(cfg.Assets.Dir); err != nil {
			return nil, fmt.Errorf("assets: %w", err)
		}
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Rotation:   cfg.Graphics.DisplayRotation,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create device (AFTER window, since OpenGL context must exist)
	dw, dh := a.window.DrawableSize()
	a.device, err = renderer.New(renderer.Config{Width: dw, Height: dh})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.scene, err = scene.New(cfg, a.device, a.assets)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	a.scene.Camera().SetOrientation(a.window.Orientation())
	a.scene.Resize(dw, dh)

	a.log.Info("viewer initialized", zap.String("mesh_mode", cfg.Water.MeshMode))
	return a, nil
}

// Run loads the scene and drives frames until quit or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.scene.Load(ctx)
	a.timer.Reset()

	a.log.Info("starting frame loop")
	for ctx.Err() == nil {
		// 1. Process input
		if a.input.Update() {
			break
		}
		for _, event := range a.input.Events() {
			if event.Type == input.EventWindowResize {
				a.scene.Resize(a.window.DrawableSize())
			}
		}

		// 2. Update scene state
		if a.timer.Tick() && a.config.Graphics.ShowFPS {
			a.log.Debug("fps",
				zap.Int("fps", a.timer.FPS()),
				zap.Float32("frame_ms", a.timer.ElapsedSeconds()*1000),
				zap.Int("triangles", a.scene.Water().ActiveMesh().TriangleCount()),
			)
		}
		if err := a.scene.Update(a.timer, a.input.State()); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render and present
		a.scene.Render()
		a.window.SwapBuffers()
	}

	a.log.Info("frame loop stopped", zap.Uint64("frames", a.timer.FrameCount()))
	return nil
}

// Close releases scene, device and window in reverse creation order.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.scene != nil {
		a.scene.Release()
	}
	if a.device != nil {
		a.device.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
	if a.assets != nil {
		a.assets.Close()
	}
}
