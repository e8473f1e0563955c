// Package renderer is the boundary between the scene and the graphics API.
// Scene code talks to a Device; GL implements it on OpenGL 4.1 core.
package renderer

import (
	"image"
	"image/color"

	"github.com/Faultbox/midgard-ocean/internal/engine/mesh"
)

// Handles returned by a Device. Zero is never a valid handle.
type (
	Program        uint32
	Texture        uint32
	ConstantBuffer uint32
	MeshBuffer     uint32
)

// Resource is any handle that Destroy accepts.
type Resource interface {
	resource()
}

func (Program) resource()        {}
func (Texture) resource()        {}
func (ConstantBuffer) resource() {}
func (MeshBuffer) resource()     {}

// ProgramDesc describes a shader program and how its inputs bind.
type ProgramDesc struct {
	Name     string
	Vertex   string // GLSL source
	Fragment string // GLSL source

	// Blocks maps uniform block names to binding points.
	Blocks map[string]uint32
	// Samplers lists sampler uniforms; the index is the texture unit.
	Samplers []string
}

// State is the fixed-function state of one draw.
type State struct {
	Wireframe  bool
	CullBack   bool // Cull clockwise (back) faces
	Blend      bool // Straight alpha blending
	DepthWrite bool
}

// DrawCall is one indexed draw of a mesh buffer.
type DrawCall struct {
	Program   Program
	Mesh      MeshBuffer
	Textures  []Texture        // Bound to units 0..n-1
	Constants []ConstantBuffer // Bound at their own binding points
	State     State
}

// Device creates GPU resources and submits draws.
// All methods must be called from the thread that owns the GL context.
type Device interface {
	NewProgram(desc ProgramDesc) (Program, error)
	NewTexture(img image.Image) (Texture, error)

	// NewConstantBuffer allocates a block of floats at a binding point.
	NewConstantBuffer(binding uint32, floats int) (ConstantBuffer, error)
	WriteConstants(cb ConstantBuffer, data []float32)

	// NewMeshBuffer allocates an empty mesh buffer. UploadMesh replaces its
	// contents, growing storage only when the mesh no longer fits.
	NewMeshBuffer() (MeshBuffer, error)
	UploadMesh(mb MeshBuffer, m *mesh.Mesh)

	Begin(clear color.RGBA)
	Draw(call DrawCall)
	Resize(width, height int)

	// ReadPixels returns the RGBA framebuffer, bottom row first.
	ReadPixels(width, height int) []byte

	Destroy(res Resource)
}
