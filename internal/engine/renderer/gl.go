package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ocean/internal/engine/mesh"
	"github.com/Faultbox/midgard-ocean/internal/engine/shader"
	"github.com/Faultbox/midgard-ocean/internal/engine/texture"
	"github.com/Faultbox/midgard-ocean/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// glMesh is the GPU side of a MeshBuffer.
type glMesh struct {
	vao, vbo, ebo uint32

	vertexCap  int // Vertices the VBO can hold
	indexCap   int
	indexCount int32
}

type glConstants struct {
	ubo     uint32
	binding uint32
	floats  int
}

// GL implements Device on OpenGL 4.1 core.
type GL struct {
	config Config
	log    *zap.Logger

	programs  map[Program]struct{}
	textures  map[Texture]struct{}
	constants map[ConstantBuffer]*glConstants
	meshes    map[MeshBuffer]*glMesh
}

var _ Device = (*GL)(nil)

// New initializes OpenGL and returns the device.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &GL{
		config:    cfg,
		log:       logger.Named("renderer"),
		programs:  make(map[Program]struct{}),
		textures:  make(map[Texture]struct{}),
		constants: make(map[ConstantBuffer]*glConstants),
		meshes:    make(map[MeshBuffer]*glMesh),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// NewProgram compiles and links a program and wires its blocks and samplers.
func (r *GL) NewProgram(desc ProgramDesc) (Program, error) {
	id, err := shader.CompileProgram(desc.Vertex, desc.Fragment)
	if err != nil {
		return 0, fmt.Errorf("program %s: %w", desc.Name, err)
	}
	for name, binding := range desc.Blocks {
		if err := shader.BindBlock(id, name, binding); err != nil {
			gl.DeleteProgram(id)
			return 0, fmt.Errorf("program %s: %w", desc.Name, err)
		}
	}
	for unit, name := range desc.Samplers {
		if err := shader.BindSampler(id, name, int32(unit)); err != nil {
			gl.DeleteProgram(id)
			return 0, fmt.Errorf("program %s: %w", desc.Name, err)
		}
	}

	p := Program(id)
	r.programs[p] = struct{}{}
	r.log.Debug("program created", zap.String("name", desc.Name), zap.Uint32("id", id))
	return p, nil
}

// NewTexture uploads an image as a mipmapped, repeating RGBA texture.
func (r *GL) NewTexture(img image.Image) (Texture, error) {
	rgba := texture.ImageToRGBA(img)
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	if w == 0 || h == 0 {
		return 0, fmt.Errorf("texture has no pixels")
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	t := Texture(id)
	r.textures[t] = struct{}{}
	return t, nil
}

// NewConstantBuffer allocates a uniform buffer of the given float count.
func (r *GL) NewConstantBuffer(binding uint32, floats int) (ConstantBuffer, error) {
	if floats <= 0 {
		return 0, fmt.Errorf("constant buffer at binding %d: size %d", binding, floats)
	}

	var ubo uint32
	gl.GenBuffers(1, &ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, floats*4, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

	cb := ConstantBuffer(ubo)
	r.constants[cb] = &glConstants{ubo: ubo, binding: binding, floats: floats}
	return cb, nil
}

// WriteConstants replaces the start of a constant buffer with data.
func (r *GL) WriteConstants(cb ConstantBuffer, data []float32) {
	c, ok := r.constants[cb]
	if !ok || len(data) == 0 {
		return
	}
	n := min(len(data), c.floats)
	gl.BindBuffer(gl.UNIFORM_BUFFER, c.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, n*4, gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// NewMeshBuffer creates a VAO with an empty VBO/EBO pair and the vertex
// layout of mesh.Vertex.
func (r *GL) NewMeshBuffer() (MeshBuffer, error) {
	m := &glMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)

	for _, a := range mesh.Attributes {
		gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, mesh.VertexStride, uintptr(a.Offset))
		gl.EnableVertexAttribArray(a.Location)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if m.vao == 0 {
		return 0, fmt.Errorf("failed to create vertex array")
	}
	mb := MeshBuffer(m.vao)
	r.meshes[mb] = m
	return mb, nil
}

// UploadMesh copies m into the buffer. Storage is reallocated only when the
// mesh outgrows it; an empty mesh just zeroes the draw count.
func (r *GL) UploadMesh(mb MeshBuffer, m *mesh.Mesh) {
	g, ok := r.meshes[mb]
	if !ok {
		return
	}
	if m.IsEmpty() {
		g.indexCount = 0
		return
	}

	gl.BindVertexArray(g.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(m.Vertices) > g.vertexCap {
		g.vertexCap = growCap(g.vertexCap, len(m.Vertices))
		gl.BufferData(gl.ARRAY_BUFFER, g.vertexCap*mesh.VertexStride, nil, gl.DYNAMIC_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(m.Vertices)*mesh.VertexStride, gl.Ptr(m.Vertices))

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(m.Indices) > g.indexCap {
		g.indexCap = growCap(g.indexCap, len(m.Indices))
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, g.indexCap*4, nil, gl.DYNAMIC_DRAW)
	}
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(m.Indices)*4, gl.Ptr(m.Indices))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	g.indexCount = int32(len(m.Indices))
}

// growCap doubles from the current capacity until need fits.
func growCap(current, need int) int {
	c := max(current, 64)
	for c < need {
		c *= 2
	}
	return c
}

// Begin clears the color and depth buffers.
func (r *GL) Begin(clear color.RGBA) {
	gl.DepthMask(true)
	gl.ClearColor(float32(clear.R)/255, float32(clear.G)/255, float32(clear.B)/255, float32(clear.A)/255)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Draw issues one indexed draw. Draws of empty mesh buffers are skipped.
func (r *GL) Draw(call DrawCall) {
	g, ok := r.meshes[call.Mesh]
	if !ok || g.indexCount == 0 {
		return
	}

	r.applyState(call.State)

	gl.UseProgram(uint32(call.Program))
	for _, cb := range call.Constants {
		if c, ok := r.constants[cb]; ok {
			gl.BindBufferBase(gl.UNIFORM_BUFFER, c.binding, c.ubo)
		}
	}
	for unit, tex := range call.Textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	}

	gl.BindVertexArray(g.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (r *GL) applyState(s State) {
	if s.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	} else {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	if s.CullBack {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
	if s.Blend {
		gl.Enable(gl.BLEND)
	} else {
		gl.Disable(gl.BLEND)
	}
	gl.DepthMask(s.DepthWrite)
}

// Resize handles window resize.
func (r *GL) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// ReadPixels reads the back buffer as RGBA, bottom row first.
func (r *GL) ReadPixels(width, height int) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Destroy releases a resource. Unknown handles are ignored.
func (r *GL) Destroy(res Resource) {
	switch h := res.(type) {
	case Program:
		if _, ok := r.programs[h]; ok {
			gl.DeleteProgram(uint32(h))
			delete(r.programs, h)
		}
	case Texture:
		if _, ok := r.textures[h]; ok {
			id := uint32(h)
			gl.DeleteTextures(1, &id)
			delete(r.textures, h)
		}
	case ConstantBuffer:
		if c, ok := r.constants[h]; ok {
			gl.DeleteBuffers(1, &c.ubo)
			delete(r.constants, h)
		}
	case MeshBuffer:
		if g, ok := r.meshes[h]; ok {
			gl.DeleteBuffers(1, &g.vbo)
			gl.DeleteBuffers(1, &g.ebo)
			gl.DeleteVertexArrays(1, &g.vao)
			delete(r.meshes, h)
		}
	}
}

// Close releases everything the device still owns.
func (r *GL) Close() {
	r.log.Info("closing renderer",
		zap.Int("programs", len(r.programs)),
		zap.Int("textures", len(r.textures)),
		zap.Int("meshes", len(r.meshes)),
	)
	for p := range r.programs {
		r.Destroy(p)
	}
	for t := range r.textures {
		r.Destroy(t)
	}
	for c := range r.constants {
		r.Destroy(c)
	}
	for m := range r.meshes {
		r.Destroy(m)
	}
}
