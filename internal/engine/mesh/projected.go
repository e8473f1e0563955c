package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ocean/internal/engine/camera"
	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// parallelEpsilon is the smallest |n·L| accepted by IntersectLinePlane.
const parallelEpsilon = 1e-7

// ProjectedParams configures ProjectedGrid.
type ProjectedParams struct {
	Width  int // Columns of quads across the screen
	Height int // Rows of quads from the bottom of the screen up

	// Bias moves the ray origin back along the view direction, widening the
	// covered area so the near edge of the grid stays off screen.
	Bias float32

	// PlaneHeight is the Y of the water plane.
	PlaneHeight float32
}

// IntersectLinePlane intersects the line through p0 and p1 with the plane
// n·X = d. It reports false when the line is parallel to the plane.
func IntersectLinePlane(p0, p1, n math.Vec3, d float32) (math.Vec3, bool) {
	line := p1.Sub(p0)
	nDotLine := n.Dot(line)
	if math32.Abs(nDotLine) < parallelEpsilon {
		return math.Vec3{}, false
	}
	t := (d - n.Dot(p0)) / nDotLine
	return p0.Add(line.Scale(t)), true
}

// Builder regenerates a projected grid every frame into storage it keeps
// between calls. The returned mesh is only valid until the next call.
type Builder struct {
	mesh Mesh
	cols []float32
	rows []float32
	w, h int
}

// ProjectedGrid builds a one-off projected grid; see Builder.ProjectedGrid.
func ProjectedGrid(cam *camera.Camera, p ProjectedParams) *Mesh {
	var b Builder
	return b.ProjectedGrid(cam, p)
}

// ProjectedGrid projects a Width x Height screen-space lattice on the near
// plane of cam onto the water plane. Rows are walked bottom to top; the
// first sample that lands behind the eye (or whose ray never meets the
// plane) marks the horizon and ends generation. Vertices of that partial
// row are kept but only complete rows are indexed. With fewer than two
// complete rows the mesh is empty.
func (b *Builder) ProjectedGrid(cam *camera.Camera, p ProjectedParams) *Mesh {
	m := &b.mesh
	m.reset()
	if p.Width < 1 || p.Height < 1 {
		return m
	}
	if p.Width != b.w || p.Height != b.h {
		b.cols, b.rows = unitSteps(p.Width), unitSteps(p.Height)
		b.w, b.h = p.Width, p.Height
	}

	dir := cam.Direction()
	eye := cam.Eye.Sub(dir.Scale(p.Bias))

	screenCenter := eye.Add(dir.Scale(cam.NearClippingPlane))
	screenHeight := 2 * cam.NearClippingPlane * math32.Tan(cam.FOV/2)
	screenWidth := screenHeight * cam.AspectRatio

	right := dir.Cross(cam.Up).Normalize()
	screenUp := right.Cross(dir).Normalize()

	bottomLeft := screenCenter.Sub(right.Scale(screenWidth / 2)).Sub(screenUp.Scale(screenHeight / 2))
	bottomRight := bottomLeft.Add(right.Scale(screenWidth))
	topLeft := bottomLeft.Add(screenUp.Scale(screenHeight))
	topRight := bottomRight.Add(screenUp.Scale(screenHeight))

	completed := 0
rows:
	for _, i := range b.rows {
		left := bottomLeft.Lerp(topLeft, i)
		rightEdge := bottomRight.Lerp(topRight, i)
		for _, j := range b.cols {
			hit, ok := IntersectLinePlane(eye, left.Lerp(rightEdge, j), math.Vec3Up, p.PlaneHeight)
			if !ok || hit.Sub(eye).Dot(dir) < 0 {
				break rows
			}
			m.Vertices = append(m.Vertices, worldVertex(hit))
		}
		completed++
	}

	if completed < 2 {
		m.reset()
		return m
	}

	m.QuadRows = completed - 1
	// Columns follow screen right and rows move away from the eye, so
	// column x row points up.
	m.Indices = appendGridIndices(m.Indices, m.QuadRows, p.Width, true)
	return m
}
