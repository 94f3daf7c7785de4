// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package geometry

import "cogentcore.org/core/math32"

// TriangleMesh holds an indexed triangle mesh with optional per-vertex
// normals and colors.
type TriangleMesh struct {
	Vertices      []math32.Vector3
	VertexNormals []math32.Vector3
	VertexColors  []math32.Vector3
	Triangles     [][3]uint32
}

var _ Geometry = (*TriangleMesh)(nil)

// NewTriangleMesh returns an empty triangle mesh.
func NewTriangleMesh() *TriangleMesh {
	return &TriangleMesh{}
}

func (m *TriangleMesh) Kind() Kind     { return KindTriangleMesh }
func (m *TriangleMesh) IsEmpty() bool  { return len(m.Vertices) == 0 }
func (m *TriangleMesh) Dimension() int { return 3 }

func (m *TriangleMesh) Bounds() math32.Box3 {
	return boundsOf(m.Vertices)
}

// HasVertexNormals reports whether every vertex carries a normal.
func (m *TriangleMesh) HasVertexNormals() bool {
	return len(m.Vertices) > 0 && len(m.VertexNormals) == len(m.Vertices)
}

// HasVertexColors reports whether every vertex carries a color.
func (m *TriangleMesh) HasVertexColors() bool {
	return len(m.Vertices) > 0 && len(m.VertexColors) == len(m.Vertices)
}

// PaintUniformColor assigns the same color to every vertex.
func (m *TriangleMesh) PaintUniformColor(c math32.Vector3) *TriangleMesh {
	m.VertexColors = make([]math32.Vector3, len(m.Vertices))
	for i := range m.VertexColors {
		m.VertexColors[i] = c
	}
	return m
}

// ComputeVertexNormals recomputes per-vertex normals as the normalized
// sum of adjacent face normals, weighted by face area.
func (m *TriangleMesh) ComputeVertexNormals() {
	m.VertexNormals = make([]math32.Vector3, len(m.Vertices))
	for _, t := range m.Triangles {
		v0, v1, v2 := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
		fn := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, vi := range t {
			m.VertexNormals[vi] = m.VertexNormals[vi].Add(fn)
		}
	}
	for i, n := range m.VertexNormals {
		if n.Length() > 0 {
			m.VertexNormals[i] = n.Normal()
		}
	}
}

// Transform applies a homogeneous transform to vertices, and to
// normals with the translation dropped.
func (m *TriangleMesh) Transform(mat *math32.Matrix4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = math32.Vector4FromVector3(v, 1).MulMatrix4(mat).PerspDiv()
	}
	for i, n := range m.VertexNormals {
		n4 := math32.Vector4FromVector3(n, 0).MulMatrix4(mat)
		nn := math32.Vec3(n4.X, n4.Y, n4.Z)
		if nn.Length() > 0 {
			nn = nn.Normal()
		}
		m.VertexNormals[i] = nn
	}
}
