// Package skybox draws a textured sky sphere centred on the camera.
package skybox

import (
	"fmt"
	"image"

	"github.com/Faultbox/midgard-ocean/internal/engine/camera"
	"github.com/Faultbox/midgard-ocean/internal/engine/mesh"
	"github.com/Faultbox/midgard-ocean/internal/engine/renderer"
	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// Binding is the uniform buffer binding point of the SkyboxVS block.
const Binding uint32 = 2

// ConstantsSize is the packed SkyboxVS block in floats.
const ConstantsSize = 3 * 16

// Config sizes the sky sphere.
type Config struct {
	LatitudeBands  int
	LongitudeBands int
	Radius         float32
	Scale          float32 // Applied on top of Radius
}

// Sources are the decoded inputs Load turns into GPU objects.
type Sources struct {
	Vertex   string
	Fragment string
	Texture  image.Image
}

// Constants is the SkyboxVS block; matrices are transposed for row vectors.
type Constants struct {
	Model      math.Mat4
	View       math.Mat4
	Projection math.Mat4
}

// Pack appends the block to dst in std140 order.
func (c *Constants) Pack(dst []float32) []float32 {
	dst = append(dst, c.Model[:]...)
	dst = append(dst, c.View[:]...)
	dst = append(dst, c.Projection[:]...)
	return dst
}

// Skybox owns the sky program, texture and sphere buffer.
type Skybox struct {
	cfg  Config
	mesh *mesh.Mesh

	dev       renderer.Device
	program   renderer.Program
	texture   renderer.Texture
	constants renderer.ConstantBuffer
	buffer    renderer.MeshBuffer

	block  Constants
	packed []float32
}

// New builds the sphere mesh; GPU objects are created by Load.
func New(cfg Config) *Skybox {
	return &Skybox{
		cfg:   cfg,
		mesh:  mesh.Sphere(cfg.LatitudeBands, cfg.LongitudeBands, cfg.Radius),
		block: Constants{Model: math.Identity(), View: math.Identity(), Projection: math.Identity()},
	}
}

// Mesh returns the unscaled sphere.
func (s *Skybox) Mesh() *mesh.Mesh {
	return s.mesh
}

// Load creates the GPU objects. On error everything created so far is released.
func (s *Skybox) Load(dev renderer.Device, src Sources) (err error) {
	s.dev = dev
	defer func() {
		if err != nil {
			s.Release()
		}
	}()

	s.program, err = dev.NewProgram(renderer.ProgramDesc{
		Name:     "skybox",
		Vertex:   src.Vertex,
		Fragment: src.Fragment,
		Blocks:   map[string]uint32{"SkyboxVS": Binding},
		Samplers: []string{"uSkyTexture"},
	})
	if err != nil {
		return fmt.Errorf("skybox program: %w", err)
	}
	if s.texture, err = dev.NewTexture(src.Texture); err != nil {
		return fmt.Errorf("skybox texture: %w", err)
	}
	if s.constants, err = dev.NewConstantBuffer(Binding, ConstantsSize); err != nil {
		return fmt.Errorf("skybox constants: %w", err)
	}
	if s.buffer, err = dev.NewMeshBuffer(); err != nil {
		return fmt.Errorf("skybox mesh: %w", err)
	}
	dev.UploadMesh(s.buffer, s.mesh)
	return nil
}

// Update moves the sphere to the eye and captures the camera matrices.
func (s *Skybox) Update(cam *camera.Camera) {
	scale := s.cfg.Scale
	model := math.TranslateVec3(cam.Eye).Mul(math.Scale(scale, scale, scale))

	s.block.Model = model.Transpose()
	s.block.View = cam.View()
	s.block.Projection = cam.Projection()
}

// Constants returns the block the next Draw writes.
func (s *Skybox) Constants() Constants {
	return s.block
}

// Draw submits the sphere without writing depth, so everything drawn after
// it lands in front.
func (s *Skybox) Draw() {
	if s.dev == nil || s.mesh.IsEmpty() {
		return
	}

	s.packed = s.block.Pack(s.packed[:0])
	s.dev.WriteConstants(s.constants, s.packed)
	s.dev.Draw(renderer.DrawCall{
		Program:   s.program,
		Mesh:      s.buffer,
		Textures:  []renderer.Texture{s.texture},
		Constants: []renderer.ConstantBuffer{s.constants},
		State:     renderer.State{CullBack: true},
	})
}

// Release destroys every GPU object. Safe to call more than once.
func (s *Skybox) Release() {
	if s.dev == nil {
		return
	}
	if s.program != 0 {
		s.dev.Destroy(s.program)
	}
	if s.texture != 0 {
		s.dev.Destroy(s.texture)
	}
	if s.constants != 0 {
		s.dev.Destroy(s.constants)
	}
	if s.buffer != 0 {
		s.dev.Destroy(s.buffer)
	}
	s.program, s.texture, s.constants, s.buffer = 0, 0, 0, 0
	s.dev = nil
}
