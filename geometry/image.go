// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package geometry

import (
	"image"

	"cogentcore.org/core/math32"
	"golang.org/x/image/draw"
)

// Image holds a 2D raster, rendered by the visualization layer as a
// screen-aligned textured quad. Data is tightly packed row-major,
// Width*Height*Channels*BytesPerChannel bytes.
type Image struct {
	Width           int
	Height          int
	Channels        int
	BytesPerChannel int
	Data            []byte
}

var _ Geometry = (*Image)(nil)

// NewImage returns an empty image.
func NewImage() *Image {
	return &Image{}
}

func (im *Image) Kind() Kind     { return KindImage }
func (im *Image) Dimension() int { return 2 }

func (im *Image) IsEmpty() bool {
	return im.Width <= 0 || im.Height <= 0 || len(im.Data) == 0
}

// Bounds places the image on the XY plane at z=0, one unit per pixel.
func (im *Image) Bounds() math32.Box3 {
	if im.IsEmpty() {
		return math32.B3Empty()
	}
	b := math32.B3Empty()
	b.ExpandByPoint(math32.Vec3(0, 0, 0))
	b.ExpandByPoint(math32.Vec3(float32(im.Width), float32(im.Height), 0))
	return b
}

// FromRGBA copies a standard library RGBA image.
func FromRGBA(src *image.RGBA) *Image {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	im := &Image{Width: w, Height: h, Channels: 4, BytesPerChannel: 1}
	im.Data = make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		copy(im.Data[y*w*4:], row)
	}
	return im
}

// ToRGBA converts to a standard library RGBA image. Only 8-bit data is
// supported; 1- and 3-channel data is expanded to opaque RGBA.
func (im *Image) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, im.Width, im.Height))
	if im.BytesPerChannel != 1 {
		return dst
	}
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			si := (y*im.Width + x) * im.Channels
			di := y*dst.Stride + x*4
			switch im.Channels {
			case 1:
				g := im.Data[si]
				dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2], dst.Pix[di+3] = g, g, g, 0xff
			case 3:
				dst.Pix[di], dst.Pix[di+1], dst.Pix[di+2] = im.Data[si], im.Data[si+1], im.Data[si+2]
				dst.Pix[di+3] = 0xff
			case 4:
				copy(dst.Pix[di:di+4], im.Data[si:si+4])
			}
		}
	}
	return dst
}

// Resized returns a bilinearly resampled copy at w by h pixels.
func (im *Image) Resized(w, h int) *Image {
	src := im.ToRGBA()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	return FromRGBA(dst)
}
