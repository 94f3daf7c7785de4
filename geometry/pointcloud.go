// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package geometry

import "cogentcore.org/core/math32"

// PointCloud holds a set of 3D points with optional per-point colors.
// Colors, when present, run parallel to Points with components in
// [0, 1].
type PointCloud struct {
	Points []math32.Vector3
	Colors []math32.Vector3
}

var _ Geometry = (*PointCloud)(nil)

// NewPointCloud returns an empty point cloud.
func NewPointCloud() *PointCloud {
	return &PointCloud{}
}

func (pc *PointCloud) Kind() Kind     { return KindPointCloud }
func (pc *PointCloud) IsEmpty() bool  { return len(pc.Points) == 0 }
func (pc *PointCloud) Dimension() int { return 3 }

func (pc *PointCloud) Bounds() math32.Box3 {
	return boundsOf(pc.Points)
}

// HasColors reports whether every point carries a color.
func (pc *PointCloud) HasColors() bool {
	return len(pc.Points) > 0 && len(pc.Colors) == len(pc.Points)
}

// PaintUniformColor assigns the same color to every point.
func (pc *PointCloud) PaintUniformColor(c math32.Vector3) *PointCloud {
	pc.Colors = make([]math32.Vector3, len(pc.Points))
	for i := range pc.Colors {
		pc.Colors[i] = c
	}
	return pc
}

// Transform applies a homogeneous transform to all points in place.
func (pc *PointCloud) Transform(m *math32.Matrix4) {
	for i, p := range pc.Points {
		pc.Points[i] = math32.Vector4FromVector3(p, 1).MulMatrix4(m).PerspDiv()
	}
}
