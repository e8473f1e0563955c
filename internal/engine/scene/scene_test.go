package scene

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-ocean/internal/assets"
	"github.com/Faultbox/midgard-ocean/internal/config"
	"github.com/Faultbox/midgard-ocean/internal/engine/input/action"
	"github.com/Faultbox/midgard-ocean/internal/engine/renderer/rendertest"
	"github.com/Faultbox/midgard-ocean/internal/engine/water"
)

type fixedClock struct{ dt, total float32 }

func (c fixedClock) ElapsedSeconds() float32 { return c.dt }
func (c fixedClock) TotalSeconds() float32   { return c.total }

var frame = fixedClock{dt: 1.0 / 60, total: 1}

type failingLoader struct{}

func (failingLoader) Load(name string) ([]byte, error) {
	return nil, fs.ErrNotExist
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Graphics.Width, cfg.Graphics.Height = 64, 32
	cfg.Water.Projected.Width, cfg.Water.Projected.Height = 16, 8
	cfg.Water.Polar.RadialSteps, cfg.Water.Polar.AngularSteps = 10, 20
	cfg.Assets.ScreenshotDir = t.TempDir()
	return cfg
}

func newScene(t *testing.T) (*SceneRenderer, *rendertest.Device) {
	t.Helper()
	dev := rendertest.New()
	s, err := New(testConfig(t), dev, assets.NewDefaultManager())
	require.NoError(t, err)
	return s, dev
}

// loadScene runs Update until the background read has been turned into
// GPU objects.
func loadScene(t *testing.T, s *SceneRenderer) {
	t.Helper()
	s.Load(context.Background())

	var idle action.Snapshot
	deadline := time.Now().Add(5 * time.Second)
	for !s.Loaded() {
		require.NoError(t, s.Update(frame, &idle))
		if time.Now().After(deadline) {
			t.Fatal("scene did not finish loading")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewRejectsUnknownMeshMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Water.MeshMode = "spiral"
	_, err := New(cfg, rendertest.New(), assets.NewDefaultManager())
	assert.Error(t, err)
}

func TestNewAppliesCameraConfig(t *testing.T) {
	s, _ := newScene(t)
	cam := s.Camera()
	assert.InDelta(t, 1.2217, cam.FOV, 1e-4)
	assert.Equal(t, float32(2), cam.AspectRatio)
	assert.Equal(t, float32(-10), cam.Eye.X)
	assert.Equal(t, water.ModeProjected, s.Water().Mode())
}

func TestRenderIsEmptyUntilLoaded(t *testing.T) {
	s, dev := newScene(t)
	s.Render()
	assert.Equal(t, 1, dev.Frames)
	assert.Empty(t, dev.Draws)
	assert.Zero(t, dev.Live())

	var idle action.Snapshot
	require.NoError(t, s.Update(frame, &idle), "update before Load is a no-op")
	assert.False(t, s.Loaded())
}

func TestLoadThenRender(t *testing.T) {
	s, dev := newScene(t)
	loadScene(t, s)

	assert.Len(t, dev.Programs, 3)
	assert.Len(t, dev.Textures, 4)

	var idle action.Snapshot
	require.NoError(t, s.Update(frame, &idle))
	s.Render()

	require.Len(t, dev.Draws, 2)
	assert.Equal(t, "skybox", dev.Programs[dev.Draws[0].Program].Name, "sky is drawn first")
	assert.Equal(t, "water", dev.Programs[dev.Draws[1].Program].Name)
	assert.True(t, dev.Draws[1].State.Blend)
	assert.False(t, dev.Draws[0].State.DepthWrite)
}

func TestLoadFailureIsReturnedFromUpdate(t *testing.T) {
	dev := rendertest.New()
	s, err := New(testConfig(t), dev, failingLoader{})
	require.NoError(t, err)
	s.Load(context.Background())

	var idle action.Snapshot
	deadline := time.Now().Add(5 * time.Second)
	for {
		err = s.Update(frame, &idle)
		if err != nil || time.Now().After(deadline) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, s.Loaded())
	assert.Zero(t, dev.Live())
}

func TestLoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := readBundle(ctx, assets.NewDefaultManager(), testConfig(t))
	assert.Nil(t, b)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWireframeTogglesOnPress(t *testing.T) {
	s, dev := newScene(t)
	loadScene(t, s)

	var snap action.Snapshot
	snap.SetHeld(action.ToggleWireframe, true)
	snap.SetPressed(action.ToggleWireframe)
	require.NoError(t, s.Update(frame, &snap))
	assert.True(t, s.Wireframe())

	// Holding the key does not toggle again.
	snap.Reset()
	snap.SetHeld(action.ToggleWireframe, true)
	require.NoError(t, s.Update(frame, &snap))
	assert.True(t, s.Wireframe())

	dev.ResetFrame()
	s.Render()
	require.Len(t, dev.Draws, 2)
	assert.Equal(t, "water_wireframe", dev.Programs[dev.Draws[1].Program].Name)
	assert.True(t, dev.Draws[1].State.Wireframe)

	snap.Reset()
	snap.SetPressed(action.ToggleWireframe)
	require.NoError(t, s.Update(frame, &snap))
	assert.False(t, s.Wireframe())
}

func TestCycleMeshMode(t *testing.T) {
	s, _ := newScene(t)
	loadScene(t, s)

	var snap action.Snapshot
	snap.SetPressed(action.CycleMeshMode)
	require.NoError(t, s.Update(frame, &snap))
	assert.Equal(t, water.ModeSimple, s.Water().Mode())
}

func TestCameraMovesWithInput(t *testing.T) {
	s, _ := newScene(t)
	before := s.Camera().Eye

	var snap action.Snapshot
	snap.SetHeld(action.MoveUp, true)
	require.NoError(t, s.Update(fixedClock{dt: 0.5}, &snap))
	assert.InDelta(t, before.Y+2.5, s.Camera().Eye.Y, 1e-4)
}

func TestScreenshot(t *testing.T) {
	s, _ := newScene(t)
	loadScene(t, s)

	var snap action.Snapshot
	snap.SetPressed(action.Screenshot)
	require.NoError(t, s.Update(frame, &snap))
	s.Render()

	entries, err := os.ReadDir(s.cfg.Assets.ScreenshotDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "ocean_")

	// One capture per press.
	snap.Reset()
	require.NoError(t, s.Update(frame, &snap))
	s.Render()
	entries, _ = os.ReadDir(s.cfg.Assets.ScreenshotDir)
	assert.Len(t, entries, 1)
}

func TestResize(t *testing.T) {
	s, dev := newScene(t)
	s.Resize(300, 100)
	assert.Equal(t, float32(3), s.Camera().AspectRatio)
	assert.Equal(t, 300, dev.Viewport.X)

	s.Resize(0, 100)
	assert.Equal(t, 300, dev.Viewport.X)
}

func TestRelease(t *testing.T) {
	s, dev := newScene(t)
	loadScene(t, s)
	s.Release()
	assert.Zero(t, dev.Live())
	assert.False(t, s.Loaded())
}
