package wgpudev

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const sampleCount = 4

// textureSet holds the shared frame attachments: 4x MSAA color,
// 4x depth/stencil, and a single-sample resolve target for CPU
// readback. In surface mode the resolve texture is skipped because the
// external surface view is the resolve target.
type textureSet struct {
	msaaTex     hal.Texture
	msaaView    hal.TextureView
	depthTex    hal.Texture
	depthView   hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView
	width       uint32
	height      uint32
}

// ensure creates or recreates the attachments for the given size.
// No-op when the size matches. withResolve is false in surface mode.
func (ts *textureSet) ensure(device hal.Device, w, h uint32, withResolve bool) error {
	haveResolve := ts.resolveTex != nil
	if ts.width == w && ts.height == h && ts.msaaTex != nil && haveResolve == withResolve {
		return nil
	}
	ts.destroy(device)

	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	msaaTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "frame_msaa_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create MSAA color texture: %w", err)
	}
	ts.msaaTex = msaaTex

	msaaView, err := device.CreateTextureView(msaaTex, &hal.TextureViewDescriptor{
		Label: "frame_msaa_color_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create MSAA color view: %w", err)
	}
	ts.msaaView = msaaView

	depthTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "frame_depth",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatDepth24PlusStencil8,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create depth texture: %w", err)
	}
	ts.depthTex = depthTex

	depthView, err := device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{
		Label: "frame_depth_view",
	})
	if err != nil {
		ts.destroy(device)
		return fmt.Errorf("create depth view: %w", err)
	}
	ts.depthView = depthView

	if withResolve {
		resolveTex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         "frame_resolve",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatBGRA8Unorm,
			Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
		})
		if err != nil {
			ts.destroy(device)
			return fmt.Errorf("create resolve texture: %w", err)
		}
		ts.resolveTex = resolveTex

		resolveView, err := device.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{
			Label: "frame_resolve_view",
		})
		if err != nil {
			ts.destroy(device)
			return fmt.Errorf("create resolve view: %w", err)
		}
		ts.resolveView = resolveView
	}

	ts.width = w
	ts.height = h
	return nil
}

// destroy releases the attachments in reverse creation order.
func (ts *textureSet) destroy(device hal.Device) {
	if ts.resolveView != nil {
		device.DestroyTextureView(ts.resolveView)
		ts.resolveView = nil
	}
	if ts.resolveTex != nil {
		device.DestroyTexture(ts.resolveTex)
		ts.resolveTex = nil
	}
	if ts.depthView != nil {
		device.DestroyTextureView(ts.depthView)
		ts.depthView = nil
	}
	if ts.depthTex != nil {
		device.DestroyTexture(ts.depthTex)
		ts.depthTex = nil
	}
	if ts.msaaView != nil {
		device.DestroyTextureView(ts.msaaView)
		ts.msaaView = nil
	}
	if ts.msaaTex != nil {
		device.DestroyTexture(ts.msaaTex)
		ts.msaaTex = nil
	}
	ts.width = 0
	ts.height = 0
}
