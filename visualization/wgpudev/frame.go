// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package wgpudev

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/longwoo/cupoch/visualization"
)

// frameImage holds the CPU readback of an offscreen frame.
type frameImage struct {
	rgba *image.RGBA
}

// LastFrame returns the most recent offscreen frame, or nil before the
// first frame or in surface mode.
func (d *Device) LastFrame() *image.RGBA {
	if d.lastFrame == nil {
		return nil
	}
	return d.lastFrame.rgba
}

var _ visualization.FrameCapturer = (*Device)(nil)

// BeginFrame prepares the frame attachments and starts recording.
func (d *Device) BeginFrame(desc visualization.FrameDesc) (visualization.Frame, error) {
	if d.device == nil {
		return nil, fmt.Errorf("wgpudev: device not initialized")
	}
	if err := d.pipelines.ensure(d.device); err != nil {
		return nil, fmt.Errorf("wgpudev: build pipelines: %w", err)
	}

	w, h := uint32(desc.Width), uint32(desc.Height)
	surface := d.surfaceView != nil
	if surface {
		w, h = d.surfaceWidth, d.surfaceHeight
	}
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("wgpudev: zero frame size %dx%d", w, h)
	}
	if err := d.textures.ensure(d.device, w, h, !surface); err != nil {
		return nil, fmt.Errorf("wgpudev: frame attachments: %w", err)
	}
	return &wgpuFrame{dev: d, desc: desc, width: w, height: h}, nil
}

// recordedDraw is one deferred draw call. Encoding happens in End so
// the whole frame goes into a single render pass.
type recordedDraw struct {
	topology visualization.Topology
	buf      *gpuBuffer
	tex      *gpuTexture
	count    uint32
	state    visualization.DrawState
	textured bool
}

type wgpuFrame struct {
	dev    *Device
	desc   visualization.FrameDesc
	width  uint32
	height uint32
	draws  []recordedDraw
}

func (f *wgpuFrame) DrawPrimitives(topology visualization.Topology, buf visualization.Buffer, count uint32, state visualization.DrawState) {
	b, ok := buf.(*gpuBuffer)
	if !ok || b.buf == nil || count == 0 {
		return
	}
	f.draws = append(f.draws, recordedDraw{topology: topology, buf: b, count: count, state: state})
}

func (f *wgpuFrame) DrawTextured(buf visualization.Buffer, tex visualization.Texture, count uint32) {
	b, bok := buf.(*gpuBuffer)
	t, tok := tex.(*gpuTexture)
	if !bok || !tok || b.buf == nil || t.texels == nil || count == 0 {
		return
	}
	f.draws = append(f.draws, recordedDraw{buf: b, tex: t, count: count, textured: true})
}

// drawResources holds the per-draw uniform buffers and bind groups
// created for one frame. Released after the fence signals.
type drawResources struct {
	uniformBufs []hal.Buffer
	bindGroups  []hal.BindGroup
}

func (r *drawResources) release(device hal.Device) {
	for _, bg := range r.bindGroups {
		device.DestroyBindGroup(bg)
	}
	for _, ub := range r.uniformBufs {
		device.DestroyBuffer(ub)
	}
	r.bindGroups, r.uniformBufs = nil, nil
}

// End encodes one MSAA render pass over all recorded draws, submits,
// and either reads the frame back to CPU memory or leaves it resolved
// into the surface view.
func (f *wgpuFrame) End() error {
	d := f.dev
	defer func() { f.dev = nil }()

	res := &drawResources{}
	defer res.release(d.device)

	bindGroups, err := f.buildBindGroups(res)
	if err != nil {
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("wgpudev: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		return fmt.Errorf("wgpudev: begin encoding: %w", err)
	}

	surface := d.surfaceView != nil
	resolveView := d.textures.resolveView
	if surface {
		resolveView = d.surfaceView
	}
	bg := f.desc.Background
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:          d.textures.msaaView,
			ResolveTarget: resolveView,
			LoadOp:        gputypes.LoadOpClear,
			StoreOp:       gputypes.StoreOpStore,
			ClearValue:    gputypes.Color{R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: 1},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              d.textures.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpStore,
			StencilClearValue: 0,
		},
	})

	for i, draw := range f.draws {
		rp.SetBindGroup(0, bindGroups[i], nil)
		switch {
		case draw.textured:
			rp.SetPipeline(d.pipelines.image)
			rp.SetVertexBuffer(0, draw.buf.buf, 0)
			rp.Draw(draw.count, 1, 0, 0)
		case draw.topology == visualization.TopologyPoints:
			// Quad expansion: six vertices per point, fetched from
			// the storage binding.
			rp.SetPipeline(d.pipelines.point)
			rp.Draw(draw.count*6, 1, 0, 0)
		case draw.topology == visualization.TopologyLines:
			rp.SetPipeline(d.pipelines.line)
			rp.SetVertexBuffer(0, draw.buf.buf, 0)
			rp.Draw(draw.count, 1, 0, 0)
		default:
			rp.SetPipeline(d.pipelines.mesh)
			rp.SetVertexBuffer(0, draw.buf.buf, 0)
			rp.Draw(draw.count, 1, 0, 0)
		}
	}
	rp.End()

	if surface {
		return f.submit(encoder)
	}
	return f.submitReadback(encoder)
}

// buildBindGroups creates one uniform buffer and bind group per draw.
func (f *wgpuFrame) buildBindGroups(res *drawResources) ([]hal.BindGroup, error) {
	groups := make([]hal.BindGroup, len(f.draws))
	for i, draw := range f.draws {
		var (
			bg  hal.BindGroup
			err error
		)
		if draw.textured {
			bg, err = f.imageBindGroup(res, draw)
		} else {
			bg, err = f.primitiveBindGroup(res, draw)
		}
		if err != nil {
			return nil, err
		}
		groups[i] = bg
		res.bindGroups = append(res.bindGroups, bg)
	}
	return groups, nil
}

func (f *wgpuFrame) primitiveBindGroup(res *drawResources, draw recordedDraw) (hal.BindGroup, error) {
	d := f.dev
	ub, err := d.createAndUpload("frame_uniform", f.packFrameUniforms(draw.state),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	res.uniformBufs = append(res.uniformBufs, ub)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: ub.NativeHandle(), Offset: 0, Size: frameUniformSize,
		}},
	}
	layout := d.pipelines.basicLayout
	if draw.topology == visualization.TopologyPoints {
		layout = d.pipelines.pointLayout
		entries = append(entries, gputypes.BindGroupEntry{
			Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: draw.buf.buf.NativeHandle(), Offset: 0, Size: draw.buf.size,
			},
		})
	}
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "frame_bind",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpudev: create bind group: %w", err)
	}
	return bg, nil
}

func (f *wgpuFrame) imageBindGroup(res *drawResources, draw recordedDraw) (hal.BindGroup, error) {
	d := f.dev
	ub, err := d.createAndUpload("image_uniform",
		packFloats(float32(draw.tex.w), float32(draw.tex.h), 0, 0),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	res.uniformBufs = append(res.uniformBufs, ub)

	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "image_bind",
		Layout: d.pipelines.imageLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: ub.NativeHandle(), Offset: 0, Size: imageUniformSize,
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: draw.tex.texels.NativeHandle(), Offset: 0, Size: draw.tex.size,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpudev: create image bind group: %w", err)
	}
	return bg, nil
}

// packFrameUniforms serializes FrameUniforms for point.wgsl and
// basic.wgsl: proj and view column-major, viewport, point size, light.
func (f *wgpuFrame) packFrameUniforms(state visualization.DrawState) []byte {
	vals := make([]float32, 0, frameUniformSize/4)
	for i := 0; i < 16; i++ {
		vals = append(vals, f.desc.Projection[i])
	}
	for i := 0; i < 16; i++ {
		vals = append(vals, f.desc.View[i])
	}
	light := float32(0)
	if state.LightOn {
		light = 1
	}
	vals = append(vals, float32(f.width), float32(f.height), state.PointSize, light)
	return packFloats(vals...)
}

func packFloats(vals ...float32) []byte {
	out := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// submit ends encoding and submits with a fence wait. Used in surface
// mode where the resolve target is presented by the caller.
func (f *wgpuFrame) submit(encoder hal.CommandEncoder) error {
	d := f.dev
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpudev: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpudev: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpudev: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpudev: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// submitReadback copies the resolve texture to a staging buffer,
// submits, waits, and converts the BGRA readback into lastFrame.
func (f *wgpuFrame) submitReadback(encoder hal.CommandEncoder) error {
	d := f.dev
	w, h := f.width, f.height

	// After MSAA resolve the texture sits in render-attachment layout;
	// the copy needs transfer-src. Explicit barrier, no-op outside
	// Vulkan and DX12.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	// BytesPerRow must be 256-byte aligned for the copy.
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "frame_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("wgpudev: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(stagingBuf)

	encoder.CopyTextureToBuffer(d.textures.resolveTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: d.textures.resolveTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	// Back to render-attachment so the next frame's resolve is valid.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: d.textures.resolveTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpudev: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpudev: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpudev: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("wgpudev: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := d.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("wgpudev: readback: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for row := uint32(0); row < h; row++ {
		src := readback[row*alignedBytesPerRow:]
		dst := img.Pix[row*w*4:]
		for x := uint32(0); x < w; x++ {
			// BGRA to RGBA.
			dst[x*4+0] = src[x*4+2]
			dst[x*4+1] = src[x*4+1]
			dst[x*4+2] = src[x*4+0]
			dst[x*4+3] = src[x*4+3]
		}
	}
	d.lastFrame = &frameImage{rgba: img}
	return nil
}
