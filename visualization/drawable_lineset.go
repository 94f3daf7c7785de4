package visualization

import (
	"cogentcore.org/core/math32"
	"github.com/longwoo/cupoch/geometry"
)

type lineSetDrawable struct {
	buf   Buffer
	count uint32
}

var _ Drawable = (*lineSetDrawable)(nil)

func (d *lineSetDrawable) Update(dev Device, geom geometry.Geometry) bool {
	ls, ok := geom.(*geometry.LineSet)
	if !ok {
		Logger().Warn("line set drawable bound to wrong geometry", "kind", geom.Kind())
		return false
	}
	data := make([]byte, 0, len(ls.Lines)*2*VertexStride)
	hasColors := ls.HasColors()
	n := uint32(len(ls.Points))
	count := uint32(0)
	for i, ln := range ls.Lines {
		if ln[0] >= n || ln[1] >= n {
			Logger().Warn("line index out of range", "line", i)
			continue
		}
		c := defaultGeometryColor
		if hasColors {
			c = ls.Colors[i]
		}
		col := [4]float32{c.X, c.Y, c.Z, 1}
		data = appendVertex(data, ls.Points[ln[0]], math32.Vector3{}, col)
		data = appendVertex(data, ls.Points[ln[1]], math32.Vector3{}, col)
		count += 2
	}
	if !uploadVertices(dev, &d.buf, "lineset", data) {
		return false
	}
	d.count = count
	return true
}

func (d *lineSetDrawable) Draw(f Frame, opt RenderOption) bool {
	if d.count == 0 {
		return true
	}
	f.DrawPrimitives(TopologyLines, d.buf, d.count, DrawState{
		LineWidth: opt.LineWidth,
	})
	return true
}

func (d *lineSetDrawable) Release(dev Device) {
	dev.DestroyBuffer(d.buf)
	d.buf, d.count = nil, 0
}
