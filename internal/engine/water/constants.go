package water

import (
	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// Uniform buffer binding points of the water programs.
const (
	VSBinding uint32 = 0
	PSBinding uint32 = 1
)

// Packed sizes in floats, std140.
const (
	VSConstantsSize = 3*16 + 3*4
	PSConstantsSize = 2 * 4
)

// VSConstants is the vertex stage block. Matrices are already transposed
// for row-vector multiplication.
type VSConstants struct {
	Model       math.Mat4
	View        math.Mat4
	Projection  math.Mat4
	CameraPos   math.Vec3
	TotalTime   float32
	UVWaveSpeed [4]float32
}

// Pack appends the block to dst in std140 order.
func (c *VSConstants) Pack(dst []float32) []float32 {
	dst = append(dst, c.Model[:]...)
	dst = append(dst, c.View[:]...)
	dst = append(dst, c.Projection[:]...)
	dst = append(dst, c.CameraPos.X, c.CameraPos.Y, c.CameraPos.Z, 1)
	dst = append(dst, c.TotalTime, 0, 0, 0)
	dst = append(dst, c.UVWaveSpeed[:]...)
	return dst
}

// PSConstants is the fragment stage block.
type PSConstants struct {
	LightDir   [4]float32
	LightColor [4]float32
}

// Pack appends the block to dst in std140 order.
func (c *PSConstants) Pack(dst []float32) []float32 {
	dst = append(dst, c.LightDir[:]...)
	dst = append(dst, c.LightColor[:]...)
	return dst
}
