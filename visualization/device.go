// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package visualization

import (
	"encoding/binary"
	"math"

	"cogentcore.org/core/math32"
)

// Topology selects the primitive type of a draw call.
type Topology int

const (
	TopologyPoints Topology = iota
	TopologyLines
	TopologyTriangles
)

func (t Topology) String() string {
	switch t {
	case TopologyPoints:
		return "points"
	case TopologyLines:
		return "lines"
	default:
		return "triangles"
	}
}

// Vertex layout shared by all drawables and devices: interleaved
// position (3 x f32), normal (3 x f32), color (4 x f32), little-endian,
// 40 bytes per vertex. Point and line pipelines ignore the normal.
const VertexStride = 40

// Buffer is a device vertex buffer.
type Buffer interface {
	// Size returns the buffer capacity in bytes.
	Size() uint64
}

// Texture is a device 2D texture.
type Texture interface {
	Width() int
	Height() int
}

// FrameDesc carries the per-frame view state resolved from the
// ViewControl and the global RenderOption.
type FrameDesc struct {
	Width      int
	Height     int
	Background [3]float32
	View       math32.Matrix4
	Projection math32.Matrix4
}

// DrawState carries the per-draw parameters resolved from the
// effective RenderOption for one entry.
type DrawState struct {
	PointSize float32
	LineWidth float32
	Shade     MeshShade
	LightOn   bool
}

// Frame records draw calls for one rendered frame. End submits and
// presents; a Frame must not be used after End.
type Frame interface {
	// DrawPrimitives draws count vertices from buf with the shared
	// vertex layout.
	DrawPrimitives(topology Topology, buf Buffer, count uint32, state DrawState)

	// DrawTextured draws count vertices from buf sampling tex.
	// Used by image drawables for screen-aligned quads.
	DrawTextured(buf Buffer, tex Texture, count uint32)

	// End submits the recorded work and presents the result.
	End() error
}

// Device abstracts the rendering backend. Implementations live in
// backend subpackages and register through RegisterDevice; the
// built-in software rasterizer keeps headless sessions working.
type Device interface {
	// Init acquires backend resources. Called once by CreateSession.
	Init() error

	// CreateBuffer allocates a vertex buffer holding data.
	CreateBuffer(label string, data []byte) (Buffer, error)

	// WriteBuffer replaces the buffer contents. len(data) may differ
	// from the original allocation; the device reallocates if needed.
	WriteBuffer(buf Buffer, data []byte) error

	// DestroyBuffer releases a buffer. Nil-safe.
	DestroyBuffer(buf Buffer)

	// CreateTexture allocates a 2D RGBA texture with the given pixels
	// (w*h*4 bytes, row-major).
	CreateTexture(label string, w, h int, rgba []byte) (Texture, error)

	// DestroyTexture releases a texture. Nil-safe.
	DestroyTexture(tex Texture)

	// BeginFrame starts recording a frame.
	BeginFrame(desc FrameDesc) (Frame, error)

	// Destroy releases all device resources.
	Destroy()
}

// appendVertex packs one vertex into the shared layout.
func appendVertex(dst []byte, pos, normal math32.Vector3, color [4]float32) []byte {
	for _, f := range [10]float32{
		pos.X, pos.Y, pos.Z,
		normal.X, normal.Y, normal.Z,
		color[0], color[1], color[2], color[3],
	} {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
