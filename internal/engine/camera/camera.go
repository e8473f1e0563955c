// Package camera provides the free-flying scene camera.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ocean/internal/engine/input/action"
	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// Controls is the per-frame action state the camera samples.
type Controls interface {
	Held(a action.Action) bool
}

// Camera is a look-at camera that flies along its view direction.
// At stays fixed while Eye moves, so flying changes the view direction.
type Camera struct {
	Eye        math.Vec3
	At         math.Vec3
	Up         math.Vec3
	DefaultEye math.Vec3

	FOV               float32 // Vertical field of view (radians)
	AspectRatio       float32
	NearClippingPlane float32
	FarClippingPlane  float32

	MovementSpeed float32   // World units per second
	MovementDir   math.Vec3 // Accumulated by ProcessInput, not normalized

	// SceneOrientation corrects for display rotation; identity on desktop.
	SceneOrientation math.Mat4
}

// New creates a camera with the scene defaults: 70° FOV, near 0.01, far 1000,
// five units per second. Eye doubles as the reset position.
func New(eye, at, up math.Vec3, aspectRatio float32) *Camera {
	return &Camera{
		Eye:               eye,
		At:                at,
		Up:                up,
		DefaultEye:        eye,
		FOV:               70.0 * math32.Pi / 180.0,
		AspectRatio:       aspectRatio,
		NearClippingPlane: 0.01,
		FarClippingPlane:  1000.0,
		MovementSpeed:     5.0,
		SceneOrientation:  math.Identity(),
	}
}

// SetAspectRatio updates the aspect ratio from an output size.
func (c *Camera) SetAspectRatio(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// SetOrientation sets the display correction applied after projection.
func (c *Camera) SetOrientation(m math.Mat4) {
	c.SceneOrientation = m
}

// Direction returns normalize(At - Eye).
// Eye == At is a caller bug; the result is NaN and is not corrected here.
func (c *Camera) Direction() math.Vec3 {
	d := c.At.Sub(c.Eye)
	return d.Scale(1 / d.Length())
}

// Pitch returns the elevation of the view direction in radians.
func (c *Camera) Pitch() float32 {
	d := c.Direction()
	return math32.Atan2(d.Y, math32.Sqrt(d.X*d.X+d.Z*d.Z))
}

// Yaw returns the heading of the view direction in radians.
func (c *Camera) Yaw() float32 {
	d := c.Direction()
	return math32.Atan2(d.Z, d.X) - math32.Pi
}

// Roll is always zero; the camera never banks.
func (c *Camera) Roll() float32 {
	return 0
}

// World returns the translation that places an object at the eye.
func (c *Camera) World() math.Mat4 {
	return math.TranslateVec3(c.Eye)
}

// View returns the transposed look-at matrix, ready for shaders that
// multiply row vectors (pos * view).
func (c *Camera) View() math.Mat4 {
	return math.LookAt(c.Eye, c.At, c.Up).Transpose()
}

// Projection returns the transposed perspective matrix with the display
// orientation applied after projection.
func (c *Camera) Projection() math.Mat4 {
	p := math.Perspective(c.FOV, c.AspectRatio, c.NearClippingPlane, c.FarClippingPlane)
	return c.SceneOrientation.Mul(p).Transpose()
}

// ProcessInput rebuilds MovementDir from the held movement actions.
func (c *Camera) ProcessInput(controls Controls) {
	forward := c.Direction()
	right := forward.Cross(c.Up)

	var md math.Vec3
	if controls.Held(action.MoveForward) {
		md = md.Add(forward)
	}
	if controls.Held(action.MoveBack) {
		md = md.Sub(forward)
	}
	if controls.Held(action.MoveLeft) {
		md = md.Sub(right)
	}
	if controls.Held(action.MoveRight) {
		md = md.Add(right)
	}
	if controls.Held(action.MoveUp) {
		md = md.Add(c.Up)
	}
	if controls.Held(action.MoveDown) {
		md = md.Sub(c.Up)
	}
	if controls.Held(action.SpeedFast) {
		md = md.Scale(2)
	}
	if controls.Held(action.SpeedSlow) {
		md = md.Scale(0.5)
	}
	if controls.Held(action.ResetCamera) {
		c.Eye = c.DefaultEye
	}

	c.MovementDir = md
}

// Update samples controls and integrates the eye position over dt seconds.
func (c *Camera) Update(dt float32, controls Controls) {
	c.ProcessInput(controls)
	c.Eye = c.Eye.Add(c.MovementDir.Scale(c.MovementSpeed * dt))
}
