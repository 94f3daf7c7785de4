package visualization

import (
	"cogentcore.org/core/math32"
	"github.com/longwoo/cupoch/geometry"
)

// imageDrawable shows a 2D image as a screen-aligned quad. Quad
// positions are normalized device coordinates; the vertex normal's X
// and Y carry the texture coordinates.
type imageDrawable struct {
	buf    Buffer
	tex    Texture
	aspect float32 // image width / height
	count  uint32
}

var _ Drawable = (*imageDrawable)(nil)

func (d *imageDrawable) Update(dev Device, geom geometry.Geometry) bool {
	im, ok := geom.(*geometry.Image)
	if !ok {
		Logger().Warn("image drawable bound to wrong geometry", "kind", geom.Kind())
		return false
	}
	if im.IsEmpty() {
		dev.DestroyTexture(d.tex)
		dev.DestroyBuffer(d.buf)
		d.tex, d.buf, d.count = nil, nil, 0
		return true
	}
	rgba := im.ToRGBA()
	// Textures are recreated on every update; image data rarely
	// changes per frame and size changes force it anyway.
	dev.DestroyTexture(d.tex)
	tex, err := dev.CreateTexture("image", im.Width, im.Height, rgba.Pix)
	if err != nil {
		Logger().Warn("image texture creation failed", "err", err)
		d.tex = nil
		return false
	}
	d.tex = tex
	d.aspect = float32(im.Width) / float32(im.Height)

	// Aspect-fit quad in NDC, two triangles.
	hw, hh := float32(0.9), float32(0.9)
	if d.aspect > 1 {
		hh = hw / d.aspect
	} else {
		hw = hh * d.aspect
	}
	quad := [6][4]float32{
		{-hw, -hh, 0, 1}, {hw, -hh, 1, 1}, {hw, hh, 1, 0},
		{-hw, -hh, 0, 1}, {hw, hh, 1, 0}, {-hw, hh, 0, 0},
	}
	data := make([]byte, 0, 6*VertexStride)
	for _, v := range quad {
		data = appendVertex(data,
			math32.Vec3(v[0], v[1], 0),
			math32.Vec3(v[2], v[3], 0),
			[4]float32{1, 1, 1, 1})
	}
	if !uploadVertices(dev, &d.buf, "image-quad", data) {
		return false
	}
	d.count = 6
	return true
}

func (d *imageDrawable) Draw(f Frame, opt RenderOption) bool {
	if d.count == 0 || d.tex == nil {
		return true
	}
	f.DrawTextured(d.buf, d.tex, d.count)
	return true
}

func (d *imageDrawable) Release(dev Device) {
	dev.DestroyBuffer(d.buf)
	dev.DestroyTexture(d.tex)
	d.buf, d.tex, d.count = nil, nil, 0
}
