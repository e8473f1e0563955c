// Package mesh generates the vertex and index data for the scene's
// procedural geometry: the sky sphere and the flat, polar and projected
// water grids.
package mesh

import (
	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// Vertex is the shared vertex layout of every generated mesh.
// 14 floats, 56 bytes, attribute locations 0..4 in field order.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	TexCoord math.Vec2
	Tangent  math.Vec3
	Binormal math.Vec3
}

// VertexStride is the size of Vertex in bytes.
const VertexStride = 14 * 4

// Attribute describes one vertex attribute for the renderer.
type Attribute struct {
	Location   uint32
	Components int32
	Offset     int
}

// Attributes lists the vertex attributes in location order.
var Attributes = []Attribute{
	{Location: 0, Components: 3, Offset: 0},  // position
	{Location: 1, Components: 3, Offset: 12}, // normal
	{Location: 2, Components: 2, Offset: 24}, // texcoord
	{Location: 3, Components: 3, Offset: 32}, // tangent
	{Location: 4, Components: 3, Offset: 44}, // binormal
}

// Mesh holds triangle-list geometry ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	// QuadRows is the number of fully tessellated rows of a projected grid.
	// Zero for the other generators.
	QuadRows int
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

func (m *Mesh) reset() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
	m.QuadRows = 0
}

// unitSteps returns n+1 evenly spaced samples over [0, 1]. The last sample
// is exactly 1. Samples are computed as k*step so rounding never drops the
// final row or column; the loop bound keeps a small epsilon above 1 to
// match the accumulated-step walk it replaces.
func unitSteps(n int) []float32 {
	if n < 1 {
		return nil
	}
	step := 1 / float32(n)
	eps := min(float32(0.001), step/2)

	steps := make([]float32, 0, n+1)
	for k := 0; ; k++ {
		t := float32(k) * step
		if t >= 1+eps {
			break
		}
		steps = append(steps, min(t, 1))
	}
	return steps
}

// appendGridIndices appends two triangles per quad for a rows x cols lattice
// of (cols+1) vertices per row, starting at vertex 0.
//
// Both orders are counter-clockwise seen from +Y once the lattice is laid
// out in world space. The plain order suits lattices whose column axis
// crossed with the row axis points down (+X columns, +Z rows). Mirrored
// suits lattices where that cross product points up.
func appendGridIndices(dst []uint32, rows, cols int, mirrored bool) []uint32 {
	stride := uint32(cols + 1)
	for z := range uint32(rows) {
		for x := range uint32(cols) {
			a := z*stride + x
			b := a + 1
			c := (z+1)*stride + x
			d := c + 1
			if mirrored {
				dst = append(dst, a, b, c, d, c, b)
			} else {
				dst = append(dst, a, c, b, d, b, c)
			}
		}
	}
	return dst
}
