// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package wgpudev

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Embedded WGSL shader sources.

//go:embed shaders/point.wgsl
var pointShaderSource string

//go:embed shaders/basic.wgsl
var basicShaderSource string

//go:embed shaders/image.wgsl
var imageShaderSource string

// frameUniformSize is the byte size of FrameUniforms in point.wgsl and
// basic.wgsl: proj mat4x4 (64) + view mat4x4 (64) + viewport vec2 (8) +
// point_size f32 (4) + light_on f32 (4) = 144 bytes.
const frameUniformSize = 144

// imageUniformSize is the byte size of ImageUniforms in image.wgsl:
// one vec4 holding the texture dimensions.
const imageUniformSize = 16

// colorFormat is the render target format shared by all pipelines.
const colorFormat = gputypes.TextureFormatBGRA8Unorm

// pipelineSet lazily builds the render pipelines for the four draw
// paths. Points read vertices from a storage buffer for quad
// expansion; lines and meshes consume the interleaved vertex buffer;
// images fetch texels from a storage buffer.
type pipelineSet struct {
	pointShader hal.ShaderModule
	basicShader hal.ShaderModule
	imageShader hal.ShaderModule

	basicLayout hal.BindGroupLayout // binding 0: frame uniform
	pointLayout hal.BindGroupLayout // binding 0: frame uniform, 1: vertex storage
	imageLayout hal.BindGroupLayout // binding 0: image uniform, 1: texel storage

	basicPipeLayout hal.PipelineLayout
	pointPipeLayout hal.PipelineLayout
	imagePipeLayout hal.PipelineLayout

	point hal.RenderPipeline
	line  hal.RenderPipeline
	mesh  hal.RenderPipeline
	image hal.RenderPipeline
}

// vertexLayout returns the interleaved vertex buffer layout shared by
// the line, mesh and image pipelines. Matches VertexInput in
// basic.wgsl and image.wgsl.
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: 40,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1}, // normal
				{Format: gputypes.VertexFormatFloat32x4, Offset: 24, ShaderLocation: 2}, // color
			},
		},
	}
}

// depthState returns the depth/stencil state for geometry pipelines.
// Depth test less with write, stencil untouched.
func depthState() *hal.DepthStencilState {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            gputypes.TextureFormatDepth24PlusStencil8,
		DepthWriteEnabled: true,
		DepthCompare:      gputypes.CompareFunctionLess,
		StencilFront:      keep,
		StencilBack:       keep,
		StencilReadMask:   0x00,
		StencilWriteMask:  0x00,
	}
}

// overlayDepthState is the image variant: always passes, never writes,
// so image quads draw on top of geometry.
func overlayDepthState() *hal.DepthStencilState {
	ds := depthState()
	ds.DepthWriteEnabled = false
	ds.DepthCompare = gputypes.CompareFunctionAlways
	return ds
}

// ensure builds all shaders, layouts and pipelines once.
func (ps *pipelineSet) ensure(device hal.Device) error {
	if ps.point != nil {
		return nil
	}
	if err := ps.create(device); err != nil {
		ps.destroy(device)
		return err
	}
	return nil
}

func (ps *pipelineSet) create(device hal.Device) error {
	var err error
	if ps.pointShader, err = createShader(device, "point_shader", pointShaderSource); err != nil {
		return err
	}
	if ps.basicShader, err = createShader(device, "basic_shader", basicShaderSource); err != nil {
		return err
	}
	if ps.imageShader, err = createShader(device, "image_shader", imageShaderSource); err != nil {
		return err
	}

	ps.basicLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "basic_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			uniformEntry(0),
		},
	})
	if err != nil {
		return fmt.Errorf("create basic bind layout: %w", err)
	}
	ps.pointLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "point_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			uniformEntry(0),
			storageEntry(1),
		},
	})
	if err != nil {
		return fmt.Errorf("create point bind layout: %w", err)
	}
	ps.imageLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "image_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			uniformEntry(0),
			storageEntry(1),
		},
	})
	if err != nil {
		return fmt.Errorf("create image bind layout: %w", err)
	}

	if ps.basicPipeLayout, err = createPipeLayout(device, "basic_pipe_layout", ps.basicLayout); err != nil {
		return err
	}
	if ps.pointPipeLayout, err = createPipeLayout(device, "point_pipe_layout", ps.pointLayout); err != nil {
		return err
	}
	if ps.imagePipeLayout, err = createPipeLayout(device, "image_pipe_layout", ps.imageLayout); err != nil {
		return err
	}

	ps.point, err = createPipeline(device, pipelineConfig{
		label:    "point_pipeline",
		layout:   ps.pointPipeLayout,
		shader:   ps.pointShader,
		topology: gputypes.PrimitiveTopologyTriangleList,
		depth:    depthState(),
	})
	if err != nil {
		return err
	}
	ps.line, err = createPipeline(device, pipelineConfig{
		label:    "line_pipeline",
		layout:   ps.basicPipeLayout,
		shader:   ps.basicShader,
		buffers:  vertexLayout(),
		topology: gputypes.PrimitiveTopologyLineList,
		depth:    depthState(),
	})
	if err != nil {
		return err
	}
	ps.mesh, err = createPipeline(device, pipelineConfig{
		label:    "mesh_pipeline",
		layout:   ps.basicPipeLayout,
		shader:   ps.basicShader,
		buffers:  vertexLayout(),
		topology: gputypes.PrimitiveTopologyTriangleList,
		depth:    depthState(),
	})
	if err != nil {
		return err
	}
	ps.image, err = createPipeline(device, pipelineConfig{
		label:    "image_pipeline",
		layout:   ps.imagePipeLayout,
		shader:   ps.imageShader,
		buffers:  vertexLayout(),
		topology: gputypes.PrimitiveTopologyTriangleList,
		depth:    overlayDepthState(),
	})
	return err
}

func uniformEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}
}

func storageEntry(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
	}
}

func createShader(device hal.Device, label, source string) (hal.ShaderModule, error) {
	if source == "" {
		return nil, fmt.Errorf("%s source is empty", label)
	}
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", label, err)
	}
	return shader, nil
}

func createPipeLayout(device hal.Device, label string, bgl hal.BindGroupLayout) (hal.PipelineLayout, error) {
	layout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []hal.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return layout, nil
}

type pipelineConfig struct {
	label    string
	layout   hal.PipelineLayout
	shader   hal.ShaderModule
	buffers  []gputypes.VertexBufferLayout
	topology gputypes.PrimitiveTopology
	depth    *hal.DepthStencilState
}

func createPipeline(device hal.Device, cfg pipelineConfig) (hal.RenderPipeline, error) {
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  cfg.label,
		Layout: cfg.layout,
		Vertex: hal.VertexState{
			Module:     cfg.shader,
			EntryPoint: "vs_main",
			Buffers:    cfg.buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     cfg.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    colorFormat,
					Blend:     nil,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		DepthStencil: cfg.depth,
		Primitive: gputypes.PrimitiveState{
			Topology: cfg.topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", cfg.label, err)
	}
	return pipeline, nil
}

// destroy releases everything in reverse creation order. Safe on a
// partially built set.
func (ps *pipelineSet) destroy(device hal.Device) {
	for _, p := range []*hal.RenderPipeline{&ps.image, &ps.mesh, &ps.line, &ps.point} {
		if *p != nil {
			device.DestroyRenderPipeline(*p)
			*p = nil
		}
	}
	for _, l := range []*hal.PipelineLayout{&ps.imagePipeLayout, &ps.pointPipeLayout, &ps.basicPipeLayout} {
		if *l != nil {
			device.DestroyPipelineLayout(*l)
			*l = nil
		}
	}
	for _, l := range []*hal.BindGroupLayout{&ps.imageLayout, &ps.pointLayout, &ps.basicLayout} {
		if *l != nil {
			device.DestroyBindGroupLayout(*l)
			*l = nil
		}
	}
	for _, s := range []*hal.ShaderModule{&ps.imageShader, &ps.basicShader, &ps.pointShader} {
		if *s != nil {
			device.DestroyShaderModule(*s)
			*s = nil
		}
	}
}
