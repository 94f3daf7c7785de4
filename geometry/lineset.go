// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package geometry

import "cogentcore.org/core/math32"

// LineSet holds line segments as index pairs into a shared point set,
// with optional per-line colors.
type LineSet struct {
	Points []math32.Vector3
	Lines  [][2]uint32
	Colors []math32.Vector3
}

var _ Geometry = (*LineSet)(nil)

// NewLineSet returns an empty line set.
func NewLineSet() *LineSet {
	return &LineSet{}
}

func (ls *LineSet) Kind() Kind     { return KindLineSet }
func (ls *LineSet) IsEmpty() bool  { return len(ls.Lines) == 0 }
func (ls *LineSet) Dimension() int { return 3 }

func (ls *LineSet) Bounds() math32.Box3 {
	return boundsOf(ls.Points)
}

// HasColors reports whether every line carries a color.
func (ls *LineSet) HasColors() bool {
	return len(ls.Lines) > 0 && len(ls.Colors) == len(ls.Lines)
}

// PaintUniformColor assigns the same color to every line.
func (ls *LineSet) PaintUniformColor(c math32.Vector3) *LineSet {
	ls.Colors = make([]math32.Vector3, len(ls.Lines))
	for i := range ls.Colors {
		ls.Colors[i] = c
	}
	return ls
}

// BoxLineSet returns the 12 edges of an axis-aligned box as a line set.
func BoxLineSet(b math32.Box3, color math32.Vector3) *LineSet {
	mn, mx := b.Min, b.Max
	ls := &LineSet{
		Points: []math32.Vector3{
			{X: mn.X, Y: mn.Y, Z: mn.Z}, {X: mx.X, Y: mn.Y, Z: mn.Z},
			{X: mn.X, Y: mx.Y, Z: mn.Z}, {X: mx.X, Y: mx.Y, Z: mn.Z},
			{X: mn.X, Y: mn.Y, Z: mx.Z}, {X: mx.X, Y: mn.Y, Z: mx.Z},
			{X: mn.X, Y: mx.Y, Z: mx.Z}, {X: mx.X, Y: mx.Y, Z: mx.Z},
		},
		Lines: [][2]uint32{
			{0, 1}, {2, 3}, {4, 5}, {6, 7},
			{0, 2}, {1, 3}, {4, 6}, {5, 7},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		},
	}
	return ls.PaintUniformColor(color)
}
