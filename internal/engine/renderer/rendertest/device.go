// Package rendertest provides a recording renderer.Device for tests.
package rendertest

import (
	"fmt"
	"image"
	"image/color"

	"github.com/Faultbox/midgard-ocean/internal/engine/mesh"
	"github.com/Faultbox/midgard-ocean/internal/engine/renderer"
)

// Upload records one UploadMesh call.
type Upload struct {
	Mesh     renderer.MeshBuffer
	Vertices int
	Indices  int
}

// Device records every call and hands out sequential handles.
// Set the Fail* fields to make creation calls return errors.
type Device struct {
	Programs  map[renderer.Program]renderer.ProgramDesc
	Textures  map[renderer.Texture]image.Rectangle
	Constants map[renderer.ConstantBuffer][]float32
	Bindings  map[renderer.ConstantBuffer]uint32
	Meshes    map[renderer.MeshBuffer]int // Current index count

	Uploads   []Upload
	Draws     []renderer.DrawCall
	Destroyed []renderer.Resource
	Frames    int
	Viewport  image.Point

	FailProgram string // Program name to fail
	FailTexture bool

	next uint32
}

var _ renderer.Device = (*Device)(nil)

// New returns an empty recording device.
func New() *Device {
	return &Device{
		Programs:  make(map[renderer.Program]renderer.ProgramDesc),
		Textures:  make(map[renderer.Texture]image.Rectangle),
		Constants: make(map[renderer.ConstantBuffer][]float32),
		Bindings:  make(map[renderer.ConstantBuffer]uint32),
		Meshes:    make(map[renderer.MeshBuffer]int),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) NewProgram(desc renderer.ProgramDesc) (renderer.Program, error) {
	if desc.Name == d.FailProgram && desc.Name != "" {
		return 0, fmt.Errorf("program %s: link failed", desc.Name)
	}
	p := renderer.Program(d.handle())
	d.Programs[p] = desc
	return p, nil
}

func (d *Device) NewTexture(img image.Image) (renderer.Texture, error) {
	if d.FailTexture {
		return 0, fmt.Errorf("texture upload failed")
	}
	t := renderer.Texture(d.handle())
	d.Textures[t] = img.Bounds()
	return t, nil
}

func (d *Device) NewConstantBuffer(binding uint32, floats int) (renderer.ConstantBuffer, error) {
	cb := renderer.ConstantBuffer(d.handle())
	d.Constants[cb] = make([]float32, floats)
	d.Bindings[cb] = binding
	return cb, nil
}

// WriteConstants panics when data does not fit, so tests catch layout drift.
func (d *Device) WriteConstants(cb renderer.ConstantBuffer, data []float32) {
	buf, ok := d.Constants[cb]
	if !ok {
		panic(fmt.Sprintf("rendertest: unknown constant buffer %d", cb))
	}
	if len(data) > len(buf) {
		panic(fmt.Sprintf("rendertest: %d floats into a %d float buffer", len(data), len(buf)))
	}
	copy(buf, data)
}

func (d *Device) NewMeshBuffer() (renderer.MeshBuffer, error) {
	mb := renderer.MeshBuffer(d.handle())
	d.Meshes[mb] = 0
	return mb, nil
}

func (d *Device) UploadMesh(mb renderer.MeshBuffer, m *mesh.Mesh) {
	if _, ok := d.Meshes[mb]; !ok {
		panic(fmt.Sprintf("rendertest: unknown mesh buffer %d", mb))
	}
	d.Meshes[mb] = len(m.Indices)
	d.Uploads = append(d.Uploads, Upload{Mesh: mb, Vertices: len(m.Vertices), Indices: len(m.Indices)})
}

func (d *Device) Begin(color.RGBA) {
	d.Frames++
}

// Draw records calls the GL device would actually submit.
func (d *Device) Draw(call renderer.DrawCall) {
	if d.Meshes[call.Mesh] == 0 {
		return
	}
	d.Draws = append(d.Draws, call)
}

func (d *Device) Resize(width, height int) {
	d.Viewport = image.Pt(width, height)
}

// ReadPixels returns an opaque mid-gray frame.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	for i := range pixels {
		pixels[i] = 128
	}
	return pixels
}

func (d *Device) Destroy(res renderer.Resource) {
	switch h := res.(type) {
	case renderer.Program:
		delete(d.Programs, h)
	case renderer.Texture:
		delete(d.Textures, h)
	case renderer.ConstantBuffer:
		delete(d.Constants, h)
		delete(d.Bindings, h)
	case renderer.MeshBuffer:
		delete(d.Meshes, h)
	}
	d.Destroyed = append(d.Destroyed, res)
}

// Live returns the number of resources not yet destroyed.
func (d *Device) Live() int {
	return len(d.Programs) + len(d.Textures) + len(d.Constants) + len(d.Meshes)
}

// ResetFrame forgets recorded draws and uploads.
func (d *Device) ResetFrame() {
	d.Draws = d.Draws[:0]
	d.Uploads = d.Uploads[:0]
}
