package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// Sphere builds a UV sphere of (latBands+1)*(lonBands+1) vertices. Seam and
// pole vertices are duplicated so every vertex gets its own texture
// coordinate. Triangles face the centre, which is what the sky needs.
func Sphere(latBands, lonBands int, radius float32) *Mesh {
	m := &Mesh{}
	if latBands < 1 || lonBands < 1 {
		return m
	}

	m.Vertices = make([]Vertex, 0, (latBands+1)*(lonBands+1))
	m.Indices = make([]uint32, 0, latBands*lonBands*6)

	for lat := 0; lat <= latBands; lat++ {
		theta := float32(lat) * math32.Pi / float32(latBands)
		sinTheta, cosTheta := math32.Sincos(theta)

		for lon := 0; lon <= lonBands; lon++ {
			phi := float32(lon) * 2 * math32.Pi / float32(lonBands)
			sinPhi, cosPhi := math32.Sincos(phi)

			normal := math.Vec3{X: cosPhi * sinTheta, Y: cosTheta, Z: sinPhi * sinTheta}
			// d/dphi of the position, normalized. Well defined at the poles too.
			tangent := math.Vec3{X: -sinPhi, Y: 0, Z: cosPhi}

			m.Vertices = append(m.Vertices, Vertex{
				Position: normal.Scale(radius),
				Normal:   normal,
				TexCoord: math.Vec2{X: float32(lon) / float32(lonBands), Y: float32(lat) / float32(latBands)},
				Tangent:  tangent,
				Binormal: normal.Cross(tangent),
			})
		}
	}

	stride := uint32(lonBands + 1)
	for lat := range uint32(latBands) {
		for lon := range uint32(lonBands) {
			first := lat*stride + lon
			second := first + stride
			m.Indices = append(m.Indices,
				first, second, first+1,
				second, second+1, first+1,
			)
		}
	}

	return m
}
