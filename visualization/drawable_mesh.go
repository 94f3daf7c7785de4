package visualization

import (
	"github.com/longwoo/cupoch/geometry"
)

// meshDrawable uploads triangles unindexed so each vertex can carry a
// face normal when the mesh has no vertex normals.
type meshDrawable struct {
	buf   Buffer
	count uint32
}

var _ Drawable = (*meshDrawable)(nil)

func (d *meshDrawable) Update(dev Device, geom geometry.Geometry) bool {
	m, ok := geom.(*geometry.TriangleMesh)
	if !ok {
		Logger().Warn("mesh drawable bound to wrong geometry", "kind", geom.Kind())
		return false
	}
	data := make([]byte, 0, len(m.Triangles)*3*VertexStride)
	hasNormals := m.HasVertexNormals()
	hasColors := m.HasVertexColors()
	n := uint32(len(m.Vertices))
	count := uint32(0)
	for i, t := range m.Triangles {
		if t[0] >= n || t[1] >= n || t[2] >= n {
			Logger().Warn("triangle index out of range", "triangle", i)
			continue
		}
		v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		faceNormal := v1.Sub(v0).Cross(v2.Sub(v0))
		if faceNormal.Length() > 0 {
			faceNormal = faceNormal.Normal()
		}
		for _, vi := range t {
			normal := faceNormal
			if hasNormals {
				normal = m.VertexNormals[vi]
			}
			c := defaultGeometryColor
			if hasColors {
				c = m.VertexColors[vi]
			}
			data = appendVertex(data, m.Vertices[vi], normal, [4]float32{c.X, c.Y, c.Z, 1})
		}
		count += 3
	}
	if !uploadVertices(dev, &d.buf, "mesh", data) {
		return false
	}
	d.count = count
	return true
}

func (d *meshDrawable) Draw(f Frame, opt RenderOption) bool {
	if d.count == 0 {
		return true
	}
	f.DrawPrimitives(TopologyTriangles, d.buf, d.count, DrawState{
		Shade:   opt.MeshShade,
		LightOn: opt.LightOn && opt.MeshShade != MeshShadeNone,
	})
	return true
}

func (d *meshDrawable) Release(dev Device) {
	dev.DestroyBuffer(d.buf)
	d.buf, d.count = nil, 0
}
