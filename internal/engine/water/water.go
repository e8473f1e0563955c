// Package water draws the ocean surface with one of three grid meshes.
package water

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ocean/internal/engine/camera"
	"github.com/Faultbox/midgard-ocean/internal/engine/mesh"
	"github.com/Faultbox/midgard-ocean/internal/engine/renderer"
	"github.com/Faultbox/midgard-ocean/internal/logger"
	"github.com/Faultbox/midgard-ocean/pkg/math"
)

// Config holds water mesh and shading parameters.
type Config struct {
	Mode Mode

	SimpleWidth, SimpleHeight int
	SimpleStride              float32

	PolarRadialSteps, PolarAngularSteps int
	PolarRadius                         float32

	Projected mesh.ProjectedParams

	UVWaveSpeed [4]float32
	LightDir    [4]float32
	LightColor  [4]float32
}

// Sources are the decoded inputs Load turns into GPU objects.
type Sources struct {
	Vertex        string // Shared by both programs
	Fragment      string
	SolidFragment string // Wireframe colour

	Normal      image.Image
	Environment image.Image
	Foam        image.Image
}

// Water owns the water programs, textures and mesh buffers.
type Water struct {
	cfg  Config
	mode Mode
	log  *zap.Logger

	dev       renderer.Device
	shaded    renderer.Program
	wireframe renderer.Program
	vsBuffer  renderer.ConstantBuffer
	psBuffer  renderer.ConstantBuffer
	textures  []renderer.Texture

	meshes  [numModes]*mesh.Mesh
	buffers [numModes]renderer.MeshBuffer
	builder mesh.Builder

	vs     VSConstants
	ps     PSConstants
	packed []float32

	wasEmpty bool
}

// New returns an unloaded water surface.
func New(cfg Config) *Water {
	return &Water{
		cfg:  cfg,
		mode: cfg.Mode,
		log:  logger.Named("water"),
		vs: VSConstants{
			Model:       math.Identity(),
			UVWaveSpeed: cfg.UVWaveSpeed,
		},
		ps: PSConstants{
			LightDir:   cfg.LightDir,
			LightColor: cfg.LightColor,
		},
	}
}

// Load creates the GPU objects. On error everything created so far is released.
func (w *Water) Load(dev renderer.Device, src Sources) (err error) {
	w.dev = dev
	defer func() {
		if err != nil {
			w.Release()
		}
	}()

	blocks := map[string]uint32{"WaterVS": VSBinding, "WaterPS": PSBinding}
	w.shaded, err = dev.NewProgram(renderer.ProgramDesc{
		Name:     "water",
		Vertex:   src.Vertex,
		Fragment: src.Fragment,
		Blocks:   blocks,
		Samplers: []string{"uNormalMap", "uEnvMap", "uFoamMap"},
	})
	if err != nil {
		return fmt.Errorf("water program: %w", err)
	}
	w.wireframe, err = dev.NewProgram(renderer.ProgramDesc{
		Name:     "water_wireframe",
		Vertex:   src.Vertex,
		Fragment: src.SolidFragment,
		Blocks:   map[string]uint32{"WaterVS": VSBinding},
	})
	if err != nil {
		return fmt.Errorf("water wireframe program: %w", err)
	}

	if w.vsBuffer, err = dev.NewConstantBuffer(VSBinding, VSConstantsSize); err != nil {
		return fmt.Errorf("water vs constants: %w", err)
	}
	if w.psBuffer, err = dev.NewConstantBuffer(PSBinding, PSConstantsSize); err != nil {
		return fmt.Errorf("water ps constants: %w", err)
	}

	for _, img := range []image.Image{src.Normal, src.Environment, src.Foam} {
		tex, err := dev.NewTexture(img)
		if err != nil {
			return fmt.Errorf("water texture: %w", err)
		}
		w.textures = append(w.textures, tex)
	}

	w.meshes[ModeSimple] = mesh.FlatGrid(w.cfg.SimpleWidth, w.cfg.SimpleHeight, w.cfg.SimpleStride)
	w.meshes[ModePolar] = mesh.PolarGrid(w.cfg.PolarRadialSteps, w.cfg.PolarAngularSteps, w.cfg.PolarRadius)
	w.meshes[ModeProjected] = &mesh.Mesh{}
	for m := range w.buffers {
		if w.buffers[m], err = dev.NewMeshBuffer(); err != nil {
			return fmt.Errorf("water %s mesh: %w", Mode(m), err)
		}
		dev.UploadMesh(w.buffers[m], w.meshes[m])
	}

	w.log.Info("water loaded",
		zap.Stringer("mode", w.mode),
		zap.Int("simple_triangles", w.meshes[ModeSimple].TriangleCount()),
		zap.Int("polar_triangles", w.meshes[ModePolar].TriangleCount()))
	return nil
}

// Mode returns the active mesh mode.
func (w *Water) Mode() Mode {
	return w.mode
}

// SetMode switches the active mesh.
func (w *Water) SetMode(m Mode) {
	if m < 0 || m >= numModes || m == w.mode {
		return
	}
	w.mode = m
	w.wasEmpty = false
	w.log.Info("mesh mode changed", zap.Stringer("mode", m))
}

// CycleMode advances to the next mesh mode and returns it.
func (w *Water) CycleMode() Mode {
	w.SetMode(w.mode.Next())
	return w.mode
}

// ActiveMesh returns the mesh the next Draw submits.
func (w *Water) ActiveMesh() *mesh.Mesh {
	return w.meshes[w.mode]
}

// UpdateMeshes regenerates the projected grid for the camera. Static meshes
// are left alone.
func (w *Water) UpdateMeshes(cam *camera.Camera) {
	if w.dev == nil || w.mode != ModeProjected {
		return
	}

	m := w.builder.ProjectedGrid(cam, w.cfg.Projected)
	w.meshes[ModeProjected] = m
	w.dev.UploadMesh(w.buffers[ModeProjected], m)

	if empty := m.IsEmpty(); empty != w.wasEmpty {
		w.wasEmpty = empty
		if empty {
			w.log.Debug("projected grid above horizon, skipping water")
		} else {
			w.log.Debug("projected grid visible", zap.Int("rows", m.QuadRows))
		}
	}
}

// SetFrameConstants stores the per-frame camera state for the next Draw.
func (w *Water) SetFrameConstants(cam *camera.Camera, totalSeconds float32) {
	w.vs.View = cam.View()
	w.vs.Projection = cam.Projection()
	w.vs.CameraPos = cam.Eye
	w.vs.TotalTime = totalSeconds
}

// Constants returns the blocks the next Draw writes.
func (w *Water) Constants() (VSConstants, PSConstants) {
	return w.vs, w.ps
}

// Draw submits the active mesh. Nothing is drawn while it is empty.
func (w *Water) Draw(wireframe bool) {
	if w.dev == nil || w.ActiveMesh().IsEmpty() {
		return
	}

	w.packed = w.vs.Pack(w.packed[:0])
	w.dev.WriteConstants(w.vsBuffer, w.packed)

	call := renderer.DrawCall{
		Mesh:      w.buffers[w.mode],
		Constants: []renderer.ConstantBuffer{w.vsBuffer},
		State: renderer.State{
			Wireframe:  wireframe,
			CullBack:   true,
			DepthWrite: true,
		},
	}
	if wireframe {
		call.Program = w.wireframe
	} else {
		w.packed = w.ps.Pack(w.packed[:0])
		w.dev.WriteConstants(w.psBuffer, w.packed)

		call.Program = w.shaded
		call.Textures = w.textures
		call.Constants = append(call.Constants, w.psBuffer)
		call.State.Blend = true
	}
	w.dev.Draw(call)
}

// Release destroys every GPU object. Safe to call more than once.
func (w *Water) Release() {
	if w.dev == nil {
		return
	}
	for _, p := range []renderer.Program{w.shaded, w.wireframe} {
		if p != 0 {
			w.dev.Destroy(p)
		}
	}
	for _, cb := range []renderer.ConstantBuffer{w.vsBuffer, w.psBuffer} {
		if cb != 0 {
			w.dev.Destroy(cb)
		}
	}
	for _, t := range w.textures {
		w.dev.Destroy(t)
	}
	for _, mb := range w.buffers {
		if mb != 0 {
			w.dev.Destroy(mb)
		}
	}
	w.shaded, w.wireframe = 0, 0
	w.vsBuffer, w.psBuffer = 0, 0
	w.textures = nil
	w.buffers = [numModes]renderer.MeshBuffer{}
	w.dev = nil
}
