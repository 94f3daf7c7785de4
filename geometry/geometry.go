// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

// Package geometry provides the 3D geometry types consumed by the
// visualization session: point clouds, triangle meshes, line sets and
// images, plus factories for common helper meshes.
//
// All types share the Geometry interface. Registry handles in the
// visualization package are Geometry interface values; identity is
// pointer identity, so the same *PointCloud added twice is the same
// handle.
package geometry

import "cogentcore.org/core/math32"

// Kind identifies the concrete type behind a Geometry value. The
// visualization layer selects a drawable implementation from it.
type Kind int

const (
	KindUnspecified Kind = iota
	KindPointCloud
	KindTriangleMesh
	KindLineSet
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindPointCloud:
		return "PointCloud"
	case KindTriangleMesh:
		return "TriangleMesh"
	case KindLineSet:
		return "LineSet"
	case KindImage:
		return "Image"
	default:
		return "Unspecified"
	}
}

// Geometry is the common interface of all renderable geometry.
type Geometry interface {
	// Kind reports the concrete geometry kind.
	Kind() Kind

	// IsEmpty reports whether the geometry carries no data.
	IsEmpty() bool

	// Bounds returns the axis-aligned bounding box. Empty geometry
	// returns an empty box (Min > Max per component).
	Bounds() math32.Box3

	// Dimension reports the dimensionality of the data (2 for images,
	// 3 otherwise).
	Dimension() int
}

// boundsOf accumulates a bounding box over a point slice.
func boundsOf(pts []math32.Vector3) math32.Box3 {
	b := math32.B3Empty()
	for _, p := range pts {
		b.ExpandByPoint(p)
	}
	return b
}
