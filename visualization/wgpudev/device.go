// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package wgpudev

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/longwoo/cupoch/visualization"
)

func logger() *slog.Logger { return visualization.Logger() }

// Device renders through the wgpu hardware abstraction layer.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	pipelines pipelineSet
	textures  textureSet

	// Surface mode. When surfaceView is set, frames resolve directly
	// into it instead of the offscreen readback path.
	surfaceView   hal.TextureView
	surfaceWidth  uint32
	surfaceHeight uint32

	// lastFrame holds the readback of the most recent offscreen frame.
	lastFrame *frameImage

	shared bool // device/queue provided externally, not owned
}

var _ visualization.Device = (*Device)(nil)

// New returns an unopened GPU device. Init acquires the adapter.
func New() *Device { return &Device{} }

// NewWithDevice wraps an externally opened hal device and queue. The
// caller keeps ownership; Destroy will not close it.
func NewWithDevice(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue, shared: true}
}

// NewFromProvider wraps the shared GPU device of a host framework.
// The provider must also expose direct HAL access through HalDevice()
// and HalQueue(), as gogpu's context does.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	hp, ok := provider.(interface {
		HalDevice() any
		HalQueue() any
	})
	if !ok {
		return nil, fmt.Errorf("wgpudev: provider %T has no HAL access", provider)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("wgpudev: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("wgpudev: provider HalQueue is not hal.Queue")
	}
	return NewWithDevice(device, queue), nil
}

// SetSurfaceTarget switches the device to render into the given
// surface texture view, eliminating the CPU readback. Pass nil to
// return to offscreen mode. The caller retains ownership of the view.
//
// The view comes from a host application that owns the native surface
// of its window; the device itself never creates one. Without a
// surface target the device renders offscreen and serves frames
// through LastFrame.
func (d *Device) SetSurfaceTarget(view hal.TextureView, width, height uint32) {
	modeChanged := (view == nil) != (d.surfaceView == nil)
	sizeChanged := width != d.surfaceWidth || height != d.surfaceHeight
	if (modeChanged || sizeChanged) && d.device != nil {
		d.textures.destroy(d.device)
	}
	d.surfaceView = view
	d.surfaceWidth = width
	d.surfaceHeight = height
}

// Init opens the best adapter on the preferred backend: discrete GPUs
// first, then integrated, then whatever enumerates.
func (d *Device) Init() error {
	if d.device != nil {
		return nil
	}
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("wgpudev: vulkan backend not compiled in")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("wgpudev: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("wgpudev: no adapters found")
	}
	selected := pickAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("wgpudev: open adapter %q: %w", selected.Info.Name, err)
	}

	d.instance = instance
	d.device = openDev.Device
	d.queue = openDev.Queue
	logger().Info("gpu adapter opened",
		"name", selected.Info.Name, "type", int(selected.Info.DeviceType))
	return nil
}

// pickAdapter prefers discrete over integrated over anything else.
func pickAdapter(adapters []hal.ExposedAdapter) hal.ExposedAdapter {
	best, bestScore := adapters[0], adapterScore(adapters[0].Info.DeviceType)
	for _, a := range adapters[1:] {
		if s := adapterScore(a.Info.DeviceType); s > bestScore {
			best, bestScore = a, s
		}
	}
	return best
}

func adapterScore(t gputypes.DeviceType) int {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 2
	case gputypes.DeviceTypeIntegratedGPU:
		return 1
	default:
		return 0
	}
}

// available probes whether a usable adapter exists without keeping it.
func available() bool {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return false
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return false
	}
	defer instance.Destroy()
	return len(instance.EnumerateAdapters(nil)) > 0
}

type gpuBuffer struct {
	buf  hal.Buffer
	size uint64
}

func (b *gpuBuffer) Size() uint64 { return b.size }

// gpuTexture stores image texels as a read-only storage buffer of
// packed RGBA words. The image shader fetches texels by index and
// unpacks them with unpack4x8unorm, which keeps the whole backend on
// buffer bindings.
type gpuTexture struct {
	texels hal.Buffer
	size   uint64
	w, h   int
}

func (t *gpuTexture) Width() int  { return t.w }
func (t *gpuTexture) Height() int { return t.h }

// vertexBufferUsage includes storage so the point pipeline can read
// vertices from a storage binding for quad expansion.
const vertexBufferUsage = gputypes.BufferUsageVertex |
	gputypes.BufferUsageStorage |
	gputypes.BufferUsageCopyDst

func (d *Device) CreateBuffer(label string, data []byte) (visualization.Buffer, error) {
	buf, err := d.createAndUpload(label, data, vertexBufferUsage)
	if err != nil {
		return nil, err
	}
	return &gpuBuffer{buf: buf, size: uint64(len(data))}, nil
}

func (d *Device) WriteBuffer(buf visualization.Buffer, data []byte) error {
	b, ok := buf.(*gpuBuffer)
	if !ok {
		return fmt.Errorf("wgpudev: foreign buffer %T", buf)
	}
	if uint64(len(data)) > b.size {
		// Grow: replace the allocation.
		nb, err := d.createAndUpload("grow", data, vertexBufferUsage)
		if err != nil {
			return err
		}
		d.device.DestroyBuffer(b.buf)
		b.buf = nb
		b.size = uint64(len(data))
		return nil
	}
	if err := d.queue.WriteBuffer(b.buf, 0, data); err != nil {
		return fmt.Errorf("wgpudev: write buffer: %w", err)
	}
	b.size = uint64(len(data))
	return nil
}

func (d *Device) DestroyBuffer(buf visualization.Buffer) {
	if b, ok := buf.(*gpuBuffer); ok && b.buf != nil {
		d.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
}

func (d *Device) CreateTexture(label string, w, h int, rgba []byte) (visualization.Texture, error) {
	if len(rgba) != w*h*4 {
		return nil, fmt.Errorf("wgpudev: texture %q: want %d bytes, got %d", label, w*h*4, len(rgba))
	}
	buf, err := d.createAndUpload(label, rgba,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	return &gpuTexture{texels: buf, size: uint64(len(rgba)), w: w, h: h}, nil
}

func (d *Device) DestroyTexture(tex visualization.Texture) {
	if t, ok := tex.(*gpuTexture); ok && t.texels != nil {
		d.device.DestroyBuffer(t.texels)
		t.texels = nil
	}
}

// createAndUpload creates a buffer and writes data into it.
func (d *Device) createAndUpload(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpudev: create buffer %q: %w", label, err)
	}
	if err := d.queue.WriteBuffer(buf, 0, data); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("wgpudev: upload buffer %q: %w", label, err)
	}
	return buf, nil
}

// Destroy releases pipelines, textures and the device in reverse
// creation order. Shared devices are left open.
func (d *Device) Destroy() {
	if d.device == nil {
		return
	}
	d.pipelines.destroy(d.device)
	d.textures.destroy(d.device)
	d.surfaceView = nil
	if !d.shared {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device, d.queue, d.instance = nil, nil, nil
}

func init() {
	visualization.RegisterDevice("wgpu", 100,
		func() (visualization.Device, error) { return New(), nil },
		available)
}
