// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package geometry

import (
	"math"

	"cogentcore.org/core/math32"
)

// NewBoxMesh returns an axis-aligned box spanning [origin, origin+size]
// as 12 triangles with outward face winding.
func NewBoxMesh(size math32.Vector3, origin math32.Vector3) *TriangleMesh {
	mn := origin
	mx := origin.Add(size)
	m := &TriangleMesh{
		Vertices: []math32.Vector3{
			{X: mn.X, Y: mn.Y, Z: mn.Z}, {X: mx.X, Y: mn.Y, Z: mn.Z},
			{X: mn.X, Y: mx.Y, Z: mn.Z}, {X: mx.X, Y: mx.Y, Z: mn.Z},
			{X: mn.X, Y: mn.Y, Z: mx.Z}, {X: mx.X, Y: mn.Y, Z: mx.Z},
			{X: mn.X, Y: mx.Y, Z: mx.Z}, {X: mx.X, Y: mx.Y, Z: mx.Z},
		},
		Triangles: [][3]uint32{
			{0, 2, 1}, {1, 2, 3}, // z = min
			{4, 5, 6}, {5, 7, 6}, // z = max
			{0, 1, 4}, {1, 5, 4}, // y = min
			{2, 6, 3}, {3, 6, 7}, // y = max
			{0, 4, 2}, {2, 4, 6}, // x = min
			{1, 3, 5}, {3, 7, 5}, // x = max
		},
	}
	m.ComputeVertexNormals()
	return m
}

// NewSphereMesh returns a UV sphere of the given radius centered at
// center, with res segments per hemisphere.
func NewSphereMesh(radius float32, center math32.Vector3, res int) *TriangleMesh {
	if res < 2 {
		res = 2
	}
	m := NewTriangleMesh()
	rings, segs := res, 2*res
	for i := 0; i <= rings; i++ {
		phi := math.Pi * float64(i) / float64(rings)
		for j := 0; j <= segs; j++ {
			theta := 2 * math.Pi * float64(j) / float64(segs)
			n := math32.Vec3(
				float32(math.Sin(phi)*math.Cos(theta)),
				float32(math.Cos(phi)),
				float32(math.Sin(phi)*math.Sin(theta)),
			)
			m.Vertices = append(m.Vertices, center.Add(n.MulScalar(radius)))
			m.VertexNormals = append(m.VertexNormals, n)
		}
	}
	stride := uint32(segs + 1)
	for i := 0; i < rings; i++ {
		for j := 0; j < segs; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			m.Triangles = append(m.Triangles,
				[3]uint32{a, b, a + 1},
				[3]uint32{a + 1, b, b + 1})
		}
	}
	return m
}

// NewCylinderMesh returns a closed cylinder along +Z from z=0 to
// z=height, with res side segments.
func NewCylinderMesh(radius, height float32, res int) *TriangleMesh {
	if res < 3 {
		res = 3
	}
	m := NewTriangleMesh()
	for i := 0; i < res; i++ {
		a := 2 * math.Pi * float64(i) / float64(res)
		x, y := radius*float32(math.Cos(a)), radius*float32(math.Sin(a))
		m.Vertices = append(m.Vertices,
			math32.Vec3(x, y, 0), math32.Vec3(x, y, height))
	}
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		math32.Vec3(0, 0, 0), math32.Vec3(0, 0, height))
	n := uint32(res)
	for i := uint32(0); i < n; i++ {
		j := (i + 1) % n
		b0, t0, b1, t1 := 2*i, 2*i+1, 2*j, 2*j+1
		m.Triangles = append(m.Triangles,
			[3]uint32{b0, b1, t0}, [3]uint32{t0, b1, t1}, // side
			[3]uint32{base, b1, b0},     // bottom cap
			[3]uint32{base + 1, t0, t1}, // top cap
		)
	}
	m.ComputeVertexNormals()
	return m
}

// NewConeMesh returns a cone along +Z with its base at z=0 and apex at
// z=height.
func NewConeMesh(radius, height float32, res int) *TriangleMesh {
	if res < 3 {
		res = 3
	}
	m := NewTriangleMesh()
	for i := 0; i < res; i++ {
		a := 2 * math.Pi * float64(i) / float64(res)
		m.Vertices = append(m.Vertices,
			math32.Vec3(radius*float32(math.Cos(a)), radius*float32(math.Sin(a)), 0))
	}
	center := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, math32.Vec3(0, 0, 0), math32.Vec3(0, 0, height))
	apex := center + 1
	n := uint32(res)
	for i := uint32(0); i < n; i++ {
		j := (i + 1) % n
		m.Triangles = append(m.Triangles,
			[3]uint32{center, j, i},
			[3]uint32{apex, i, j})
	}
	m.ComputeVertexNormals()
	return m
}

// NewCoordinateFrame returns the canonical origin marker: a gray sphere
// at origin with red, green and blue arrows along +X, +Y and +Z, scaled
// by size.
func NewCoordinateFrame(size float32, origin math32.Vector3) *TriangleMesh {
	frame := NewSphereMesh(0.08*size, math32.Vec3(0, 0, 0), 10)
	frame.PaintUniformColor(math32.Vec3(0.5, 0.5, 0.5))

	axes := []struct {
		rot   math32.Vector3 // axis-angle to rotate +Z into the axis
		angle float32
		color math32.Vector3
	}{
		{math32.Vec3(0, 1, 0), math32.DegToRad(90), math32.Vec3(1, 0, 0)},  // +X
		{math32.Vec3(1, 0, 0), math32.DegToRad(-90), math32.Vec3(0, 1, 0)}, // +Y
		{math32.Vec3(0, 0, 1), 0, math32.Vec3(0, 0, 1)},                    // +Z
	}
	for _, ax := range axes {
		arrow := NewCylinderMesh(0.035*size, 0.8*size, 20)
		tip := NewConeMesh(0.06*size, 0.2*size, 20)
		shift := math32.Vec3(0, 0, 0.8*size)
		for i := range tip.Vertices {
			tip.Vertices[i] = tip.Vertices[i].Add(shift)
		}
		appendMesh(arrow, tip)
		var q math32.Quat
		q.SetFromAxisAngle(ax.rot, ax.angle)
		for i := range arrow.Vertices {
			arrow.Vertices[i] = arrow.Vertices[i].MulQuat(q)
		}
		for i := range arrow.VertexNormals {
			arrow.VertexNormals[i] = arrow.VertexNormals[i].MulQuat(q)
		}
		arrow.PaintUniformColor(ax.color)
		appendMesh(frame, arrow)
	}
	for i := range frame.Vertices {
		frame.Vertices[i] = frame.Vertices[i].Add(origin)
	}
	return frame
}

// appendMesh merges src into dst, reindexing triangles. Both meshes
// must carry normals and colors of matching lengths once merged;
// missing attributes are zero-filled.
func appendMesh(dst, src *TriangleMesh) {
	off := uint32(len(dst.Vertices))
	dst.Vertices = append(dst.Vertices, src.Vertices...)
	dst.VertexNormals = append(dst.VertexNormals, padVec(src.VertexNormals, len(src.Vertices))...)
	dst.VertexColors = append(dst.VertexColors, padVec(src.VertexColors, len(src.Vertices))...)
	for _, t := range src.Triangles {
		dst.Triangles = append(dst.Triangles, [3]uint32{t[0] + off, t[1] + off, t[2] + off})
	}
}

func padVec(v []math32.Vector3, n int) []math32.Vector3 {
	if len(v) >= n {
		return v[:n]
	}
	out := make([]math32.Vector3, n)
	copy(out, v)
	return out
}
