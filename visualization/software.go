// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package visualization

import (
	"encoding/binary"
	"image"
	"math"

	"cogentcore.org/core/math32"
)

// softDevice is the built-in software rasterizer. It keeps sessions
// working with no GPU and no display: frames are rendered into an
// RGBA image reachable through the FrameCapturer interface. Quality
// targets usefulness, not the GPU backends: 1px lines, flat z-tested
// triangles, nearest-neighbor textures.
type softDevice struct {
	lastFrame     *image.RGBA
	lastDrawCalls int
}

// FrameCapturer is implemented by devices that retain the last
// presented frame. The software device implements it; GPU backends
// with readback may too.
type FrameCapturer interface {
	LastFrame() *image.RGBA
}

var (
	_ Device        = (*softDevice)(nil)
	_ FrameCapturer = (*softDevice)(nil)
)

type softBuffer struct{ data []byte }

func (b *softBuffer) Size() uint64 { return uint64(len(b.data)) }

type softTexture struct {
	w, h int
	pix  []byte
}

func (t *softTexture) Width() int  { return t.w }
func (t *softTexture) Height() int { return t.h }

func newSoftDevice() (Device, error) { return &softDevice{}, nil }

func (d *softDevice) Init() error { return nil }
func (d *softDevice) Destroy()    {}

func (d *softDevice) CreateBuffer(label string, data []byte) (Buffer, error) {
	b := &softBuffer{data: make([]byte, len(data))}
	copy(b.data, data)
	return b, nil
}

func (d *softDevice) WriteBuffer(buf Buffer, data []byte) error {
	b := buf.(*softBuffer)
	b.data = make([]byte, len(data))
	copy(b.data, data)
	return nil
}

func (d *softDevice) DestroyBuffer(buf Buffer) {}

func (d *softDevice) CreateTexture(label string, w, h int, rgba []byte) (Texture, error) {
	t := &softTexture{w: w, h: h, pix: make([]byte, len(rgba))}
	copy(t.pix, rgba)
	return t, nil
}

func (d *softDevice) DestroyTexture(tex Texture) {}

// LastFrame returns the most recently presented frame, nil before the
// first present.
func (d *softDevice) LastFrame() *image.RGBA { return d.lastFrame }

// DrawCalls returns the number of draw calls in the last frame.
func (d *softDevice) DrawCalls() int { return d.lastDrawCalls }

func (d *softDevice) BeginFrame(desc FrameDesc) (Frame, error) {
	w, h := desc.Width, desc.Height
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	f := &softFrame{
		dev:   d,
		desc:  desc,
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		depth: make([]float32, w*h),
	}
	bg := [4]uint8{
		floatByte(desc.Background[0]),
		floatByte(desc.Background[1]),
		floatByte(desc.Background[2]),
		0xff,
	}
	for i := 0; i < len(f.img.Pix); i += 4 {
		copy(f.img.Pix[i:i+4], bg[:])
	}
	for i := range f.depth {
		f.depth[i] = 1
	}
	return f, nil
}

type softFrame struct {
	dev       *softDevice
	desc      FrameDesc
	img       *image.RGBA
	depth     []float32
	drawCalls int
}

// softVertex is one decoded vertex in the shared layout.
type softVertex struct {
	pos    math32.Vector3
	normal math32.Vector3
	color  [4]float32
}

func decodeVertices(buf Buffer, count uint32) []softVertex {
	b, ok := buf.(*softBuffer)
	if !ok {
		return nil
	}
	n := int(count)
	if max := len(b.data) / VertexStride; n > max {
		n = max
	}
	out := make([]softVertex, n)
	for i := 0; i < n; i++ {
		f := [10]float32{}
		off := i * VertexStride
		for j := range f {
			f[j] = math.Float32frombits(binary.LittleEndian.Uint32(b.data[off+4*j:]))
		}
		out[i] = softVertex{
			pos:    math32.Vec3(f[0], f[1], f[2]),
			normal: math32.Vec3(f[3], f[4], f[5]),
			color:  [4]float32{f[6], f[7], f[8], f[9]},
		}
	}
	return out
}

// project returns clip-space position for a world-space point.
func (f *softFrame) project(p math32.Vector3) math32.Vector4 {
	return math32.Vector4FromVector3(p, 1).
		MulMatrix4(&f.desc.View).
		MulMatrix4(&f.desc.Projection)
}

// toScreen maps NDC to pixel coordinates with depth.
func (f *softFrame) toScreen(ndc math32.Vector3) (x, y float32, z float32) {
	w, h := float32(f.img.Rect.Dx()), float32(f.img.Rect.Dy())
	return (ndc.X + 1) / 2 * w, (1 - ndc.Y) / 2 * h, ndc.Z
}

func (f *softFrame) plot(x, y int, z float32, c [4]float32, depthTest bool) {
	w, h := f.img.Rect.Dx(), f.img.Rect.Dy()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	idx := y*w + x
	if depthTest {
		if z < -1 || z > 1 || z >= f.depth[idx] {
			return
		}
		f.depth[idx] = z
	}
	o := y*f.img.Stride + x*4
	f.img.Pix[o] = floatByte(c[0])
	f.img.Pix[o+1] = floatByte(c[1])
	f.img.Pix[o+2] = floatByte(c[2])
	f.img.Pix[o+3] = 0xff
}

func (f *softFrame) DrawPrimitives(topology Topology, buf Buffer, count uint32, state DrawState) {
	f.drawCalls++
	verts := decodeVertices(buf, count)
	switch topology {
	case TopologyPoints:
		f.drawPoints(verts, state)
	case TopologyLines:
		f.drawLines(verts)
	case TopologyTriangles:
		f.drawTriangles(verts, state)
	}
}

func (f *softFrame) drawPoints(verts []softVertex, state DrawState) {
	r := int(state.PointSize / 2)
	for _, v := range verts {
		clip := f.project(v.pos)
		if clip.W <= 0 {
			continue
		}
		x, y, z := f.toScreen(clip.PerspDiv())
		cx, cy := int(x), int(y)
		for py := cy - r; py <= cy+r; py++ {
			for px := cx - r; px <= cx+r; px++ {
				f.plot(px, py, z, v.color, true)
			}
		}
	}
}

func (f *softFrame) drawLines(verts []softVertex) {
	for i := 0; i+1 < len(verts); i += 2 {
		c0, c1 := f.project(verts[i].pos), f.project(verts[i+1].pos)
		if c0.W <= 0 || c1.W <= 0 {
			continue
		}
		x0, y0, z0 := f.toScreen(c0.PerspDiv())
		x1, y1, z1 := f.toScreen(c1.PerspDiv())
		steps := int(math.Max(math.Abs(float64(x1-x0)), math.Abs(float64(y1-y0)))) + 1
		for s := 0; s <= steps; s++ {
			t := float32(s) / float32(steps)
			f.plot(int(x0+(x1-x0)*t), int(y0+(y1-y0)*t), z0+(z1-z0)*t, verts[i].color, true)
		}
	}
}

func (f *softFrame) drawTriangles(verts []softVertex, state DrawState) {
	for i := 0; i+2 < len(verts); i += 3 {
		f.fillTriangle(verts[i], verts[i+1], verts[i+2], state)
	}
}

func (f *softFrame) fillTriangle(v0, v1, v2 softVertex, state DrawState) {
	c0, c1, c2 := f.project(v0.pos), f.project(v1.pos), f.project(v2.pos)
	if c0.W <= 0 || c1.W <= 0 || c2.W <= 0 {
		return
	}
	x0, y0, z0 := f.toScreen(c0.PerspDiv())
	x1, y1, z1 := f.toScreen(c1.PerspDiv())
	x2, y2, z2 := f.toScreen(c2.PerspDiv())

	area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
	if area == 0 {
		return
	}

	color := v0.color
	if state.LightOn {
		// Headlight: shade by the view-space normal's z component.
		n := math32.Vector4FromVector3(v0.normal, 0).MulMatrix4(&f.desc.View)
		l := math32.Vec3(n.X, n.Y, n.Z).Length()
		intensity := float32(0.2)
		if l > 0 {
			intensity = clampf(float32(math.Abs(float64(n.Z)))/l, 0.2, 1)
		}
		for i := 0; i < 3; i++ {
			color[i] *= intensity
		}
	}

	minX := int(math.Floor(math.Min(float64(x0), math.Min(float64(x1), float64(x2)))))
	maxX := int(math.Ceil(math.Max(float64(x0), math.Max(float64(x1), float64(x2)))))
	minY := int(math.Floor(math.Min(float64(y0), math.Min(float64(y1), float64(y2)))))
	maxY := int(math.Ceil(math.Max(float64(y0), math.Max(float64(y1), float64(y2)))))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			w0 := ((x1-px)*(y2-py) - (x2-px)*(y1-py)) / area
			w1 := ((x2-px)*(y0-py) - (x0-px)*(y2-py)) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2
			c := [4]float32{
				w0*v0.color[0] + w1*v1.color[0] + w2*v2.color[0],
				w0*v0.color[1] + w1*v1.color[1] + w2*v2.color[1],
				w0*v0.color[2] + w1*v1.color[2] + w2*v2.color[2],
				1,
			}
			if state.LightOn {
				c = color
			}
			f.plot(x, y, z, c, true)
		}
	}
}

// DrawTextured rasterizes a screen-aligned quad. Positions are already
// NDC; texture coordinates ride in the normal's X and Y.
func (f *softFrame) DrawTextured(buf Buffer, tex Texture, count uint32) {
	f.drawCalls++
	t, ok := tex.(*softTexture)
	if !ok {
		return
	}
	verts := decodeVertices(buf, count)
	w, h := float32(f.img.Rect.Dx()), float32(f.img.Rect.Dy())
	for i := 0; i+2 < len(verts); i += 3 {
		v0, v1, v2 := verts[i], verts[i+1], verts[i+2]
		x0, y0 := (v0.pos.X+1)/2*w, (1-v0.pos.Y)/2*h
		x1, y1 := (v1.pos.X+1)/2*w, (1-v1.pos.Y)/2*h
		x2, y2 := (v2.pos.X+1)/2*w, (1-v2.pos.Y)/2*h
		area := (x1-x0)*(y2-y0) - (x2-x0)*(y1-y0)
		if area == 0 {
			continue
		}
		minX, maxX := int(math.Min(float64(x0), math.Min(float64(x1), float64(x2)))), int(math.Ceil(math.Max(float64(x0), math.Max(float64(x1), float64(x2)))))
		minY, maxY := int(math.Min(float64(y0), math.Min(float64(y1), float64(y2)))), int(math.Ceil(math.Max(float64(y0), math.Max(float64(y1), float64(y2)))))
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				px, py := float32(x)+0.5, float32(y)+0.5
				w0 := ((x1-px)*(y2-py) - (x2-px)*(y1-py)) / area
				w1 := ((x2-px)*(y0-py) - (x0-px)*(y2-py)) / area
				w2 := 1 - w0 - w1
				if w0 < 0 || w1 < 0 || w2 < 0 {
					continue
				}
				u := w0*v0.normal.X + w1*v1.normal.X + w2*v2.normal.X
				vv := w0*v0.normal.Y + w1*v1.normal.Y + w2*v2.normal.Y
				tx := int(u * float32(t.w-1))
				ty := int(vv * float32(t.h-1))
				if tx < 0 || ty < 0 || tx >= t.w || ty >= t.h {
					continue
				}
				o := (ty*t.w + tx) * 4
				f.plot(x, y, 0, [4]float32{
					float32(t.pix[o]) / 255,
					float32(t.pix[o+1]) / 255,
					float32(t.pix[o+2]) / 255,
					1,
				}, false)
			}
		}
	}
}

func (f *softFrame) End() error {
	f.dev.lastFrame = f.img
	f.dev.lastDrawCalls = f.drawCalls
	Logger().Debug("frame presented", "drawCalls", f.drawCalls)
	return nil
}

func floatByte(v float32) uint8 {
	return uint8(clampf(v, 0, 1)*255 + 0.5)
}

func init() {
	RegisterDevice("soft", 10, newSoftDevice, nil)
}
