package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// WorldTexScale is the world-space size of one texture repeat on the
// polar and projected grids, so both tile the water identically.
const WorldTexScale = 20.0

var (
	gridTangent = math.Vec3{X: 1, Y: 0, Z: 0}
	// Binormal of the flat grid, whose texture V runs along +Z.
	flatBinormal = math.Vec3{X: 0, Y: 0, Z: -1}
	// Binormal of the world-tiled grids.
	worldBinormal = math.Vec3{X: 0, Y: 0, Z: 1}
)

// FlatGrid builds a width x height quad grid in the XZ plane, centered on
// the origin, with quads of size stride. Non-positive sizes give an empty mesh.
func FlatGrid(width, height int, stride float32) *Mesh {
	m := &Mesh{}
	if width < 1 || height < 1 {
		return m
	}

	m.Vertices = make([]Vertex, 0, (width+1)*(height+1))
	m.Indices = make([]uint32, 0, width*height*6)

	originX := -float32(width) * stride / 2
	originZ := -float32(height) * stride / 2
	for z := 0; z <= height; z++ {
		for x := 0; x <= width; x++ {
			m.Vertices = append(m.Vertices, Vertex{
				Position: math.Vec3{X: originX + float32(x)*stride, Y: 0, Z: originZ + float32(z)*stride},
				Normal:   math.Vec3Up,
				TexCoord: math.Vec2{X: float32(x) / float32(width), Y: float32(z) / float32(height)},
				Tangent:  gridTangent,
				Binormal: flatBinormal,
			})
		}
	}

	m.Indices = appendGridIndices(m.Indices, height, width, false)
	return m
}

// PolarGrid builds a ring grid around the origin: radialSteps rings out to
// radius, each split into angularSteps segments. The first and last column
// of every ring coincide so the seam closes.
func PolarGrid(radialSteps, angularSteps int, radius float32) *Mesh {
	m := &Mesh{}
	if radialSteps < 1 || angularSteps < 1 {
		return m
	}

	radii := unitSteps(radialSteps)
	angles := unitSteps(angularSteps)

	m.Vertices = make([]Vertex, 0, len(radii)*len(angles))
	m.Indices = make([]uint32, 0, radialSteps*angularSteps*6)

	for _, rt := range radii {
		r := rt * radius
		for _, at := range angles {
			sin, cos := math32.Sincos(at * 2 * math32.Pi)
			p := math.Vec3{X: r * cos, Y: 0, Z: r * sin}
			m.Vertices = append(m.Vertices, worldVertex(p))
		}
	}

	// Rows run outward and columns counter-clockwise seen from above, so
	// column x row points up.
	m.Indices = appendGridIndices(m.Indices, radialSteps, angularSteps, true)
	return m
}

// worldVertex builds an upward-facing vertex textured in world space.
func worldVertex(p math.Vec3) Vertex {
	return Vertex{
		Position: p,
		Normal:   math.Vec3Up,
		TexCoord: p.XZ().Scale(1 / WorldTexScale),
		Tangent:  gridTangent,
		Binormal: worldBinormal,
	}
}
