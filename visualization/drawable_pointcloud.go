package visualization

import (
	"cogentcore.org/core/math32"
	"github.com/longwoo/cupoch/geometry"
)

// defaultGeometryColor is used when a geometry carries no colors.
var defaultGeometryColor = math32.Vec3(0.5, 0.5, 0.5)

type pointCloudDrawable struct {
	buf   Buffer
	count uint32
}

var _ Drawable = (*pointCloudDrawable)(nil)

func (d *pointCloudDrawable) Update(dev Device, geom geometry.Geometry) bool {
	pc, ok := geom.(*geometry.PointCloud)
	if !ok {
		Logger().Warn("point cloud drawable bound to wrong geometry", "kind", geom.Kind())
		return false
	}
	data := make([]byte, 0, len(pc.Points)*VertexStride)
	hasColors := pc.HasColors()
	for i, p := range pc.Points {
		c := defaultGeometryColor
		if hasColors {
			c = pc.Colors[i]
		}
		data = appendVertex(data, p, math32.Vector3{}, [4]float32{c.X, c.Y, c.Z, 1})
	}
	if !uploadVertices(dev, &d.buf, "pointcloud", data) {
		return false
	}
	d.count = uint32(len(pc.Points))
	return true
}

func (d *pointCloudDrawable) Draw(f Frame, opt RenderOption) bool {
	if d.count == 0 {
		return true
	}
	f.DrawPrimitives(TopologyPoints, d.buf, d.count, DrawState{
		PointSize: opt.PointSize,
	})
	return true
}

func (d *pointCloudDrawable) Release(dev Device) {
	dev.DestroyBuffer(d.buf)
	d.buf, d.count = nil, 0
}

// uploadVertices creates or rewrites a drawable's vertex buffer.
// Empty data releases the buffer so empty geometry costs no draw call.
func uploadVertices(dev Device, buf *Buffer, label string, data []byte) bool {
	if len(data) == 0 {
		dev.DestroyBuffer(*buf)
		*buf = nil
		return true
	}
	if *buf == nil {
		b, err := dev.CreateBuffer(label, data)
		if err != nil {
			Logger().Warn("vertex buffer creation failed", "label", label, "err", err)
			return false
		}
		*buf = b
		return true
	}
	if err := dev.WriteBuffer(*buf, data); err != nil {
		Logger().Warn("vertex buffer write failed", "label", label, "err", err)
		return false
	}
	return true
}
