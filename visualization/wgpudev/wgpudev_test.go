// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package wgpudev

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/longwoo/cupoch/visualization"
)

// The Vulkan HAL backend must be linked into this package so Init can
// find it; registration happens in the backend's init function.
func TestVulkanBackendLinked(t *testing.T) {
	if _, ok := hal.GetBackend(gputypes.BackendVulkan); !ok {
		t.Fatal("vulkan hal backend not registered")
	}
}

func TestAdapterScorePrefersDiscrete(t *testing.T) {
	if adapterScore(gputypes.DeviceTypeDiscreteGPU) <= adapterScore(gputypes.DeviceTypeIntegratedGPU) {
		t.Error("discrete GPU should outrank integrated")
	}
	if adapterScore(gputypes.DeviceTypeIntegratedGPU) <= adapterScore(gputypes.DeviceType(99)) {
		t.Error("integrated GPU should outrank unknown device types")
	}
}

func TestEmbeddedShadersPresent(t *testing.T) {
	for name, src := range map[string]string{
		"point": pointShaderSource,
		"basic": basicShaderSource,
		"image": imageShaderSource,
	} {
		if src == "" {
			t.Errorf("%s shader source is empty", name)
			continue
		}
		if !strings.Contains(src, "vs_main") || !strings.Contains(src, "fs_main") {
			t.Errorf("%s shader is missing entry points", name)
		}
	}
}

func TestVertexLayoutMatchesSharedFormat(t *testing.T) {
	layouts := vertexLayout()
	if len(layouts) != 1 {
		t.Fatalf("want 1 vertex buffer layout, got %d", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != visualization.VertexStride {
		t.Errorf("stride = %d, want %d", l.ArrayStride, visualization.VertexStride)
	}
	wantOffsets := []uint64{0, 12, 24}
	if len(l.Attributes) != len(wantOffsets) {
		t.Fatalf("want %d attributes, got %d", len(wantOffsets), len(l.Attributes))
	}
	for i, attr := range l.Attributes {
		if attr.Offset != wantOffsets[i] {
			t.Errorf("attribute %d offset = %d, want %d", i, attr.Offset, wantOffsets[i])
		}
		if attr.ShaderLocation != uint32(i) {
			t.Errorf("attribute %d location = %d, want %d", i, attr.ShaderLocation, i)
		}
	}
}

func floatAt(data []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
}

func TestPackFrameUniformsLayout(t *testing.T) {
	var proj, view math32.Matrix4
	for i := range proj {
		proj[i] = float32(i)
		view[i] = float32(100 + i)
	}
	f := &wgpuFrame{
		desc:   visualization.FrameDesc{Projection: proj, View: view},
		width:  640,
		height: 480,
	}
	data := f.packFrameUniforms(visualization.DrawState{PointSize: 7, LightOn: true})

	if len(data) != frameUniformSize {
		t.Fatalf("uniform size = %d, want %d", len(data), frameUniformSize)
	}
	if got := floatAt(data, 0); got != 0 {
		t.Errorf("proj[0] = %v, want 0", got)
	}
	if got := floatAt(data, 15*4); got != 15 {
		t.Errorf("proj[15] = %v, want 15", got)
	}
	if got := floatAt(data, 64); got != 100 {
		t.Errorf("view[0] = %v, want 100", got)
	}
	if got := floatAt(data, 128); got != 640 {
		t.Errorf("viewport.x = %v, want 640", got)
	}
	if got := floatAt(data, 132); got != 480 {
		t.Errorf("viewport.y = %v, want 480", got)
	}
	if got := floatAt(data, 136); got != 7 {
		t.Errorf("point_size = %v, want 7", got)
	}
	if got := floatAt(data, 140); got != 1 {
		t.Errorf("light_on = %v, want 1", got)
	}

	data = f.packFrameUniforms(visualization.DrawState{PointSize: 1})
	if got := floatAt(data, 140); got != 0 {
		t.Errorf("light_on = %v, want 0", got)
	}
}

func TestLastFrameNilBeforeFirstFrame(t *testing.T) {
	d := New()
	if d.LastFrame() != nil {
		t.Error("LastFrame should be nil before any frame rendered")
	}
}

func TestFrameRecordingSkipsEmptyDraws(t *testing.T) {
	f := &wgpuFrame{}
	f.DrawPrimitives(visualization.TopologyPoints, nil, 3, visualization.DrawState{})
	f.DrawPrimitives(visualization.TopologyPoints, &gpuBuffer{}, 0, visualization.DrawState{})
	f.DrawTextured(&gpuBuffer{}, nil, 6)
	if len(f.draws) != 0 {
		t.Errorf("recorded %d draws, want 0", len(f.draws))
	}
}
