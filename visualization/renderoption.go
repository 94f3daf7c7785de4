// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package visualization

// MeshShade selects how triangle meshes are shaded.
type MeshShade int

const (
	// MeshShadeFlat shades each triangle with its face normal.
	MeshShadeFlat MeshShade = iota
	// MeshShadeSmooth interpolates vertex normals across triangles.
	MeshShadeSmooth
	// MeshShadeNone disables lighting and uses vertex colors directly.
	MeshShadeNone
)

// RenderOption holds global rendering parameters. The zero value is
// not useful; start from DefaultRenderOption.
//
// RenderOption has value semantics. The With* methods return modified
// copies, so a shared option is never mutated through an override:
//
//	opt := visualization.DefaultRenderOption().WithPointSize(8)
type RenderOption struct {
	// PointSize is the screen-space diameter of rendered points in
	// pixels. Clamped to [1, 100].
	PointSize float32

	// LineWidth is the screen-space line width in pixels.
	LineWidth float32

	// MeshShade selects the mesh shading model.
	MeshShade MeshShade

	// BackgroundColor is the clear color, RGB in [0, 1].
	BackgroundColor [3]float32

	// ShowCoordinateFrame draws an origin marker after all geometry.
	ShowCoordinateFrame bool

	// LightOn enables the headlight for shaded meshes.
	LightOn bool
}

const (
	minPointSize = 1
	maxPointSize = 100
)

// DefaultRenderOption returns the standard options: 5px points, white
// background, smooth shading with lighting, no coordinate frame.
func DefaultRenderOption() RenderOption {
	return RenderOption{
		PointSize:       5,
		LineWidth:       1,
		MeshShade:       MeshShadeSmooth,
		BackgroundColor: [3]float32{1, 1, 1},
		LightOn:         true,
	}
}

// WithPointSize returns a copy with the point size set, clamped to the
// valid range.
func (o RenderOption) WithPointSize(size float32) RenderOption {
	o.PointSize = clampf(size, minPointSize, maxPointSize)
	return o
}

// WithLineWidth returns a copy with the line width set.
func (o RenderOption) WithLineWidth(width float32) RenderOption {
	o.LineWidth = clampf(width, 1, 100)
	return o
}

// WithMeshShade returns a copy with the mesh shading model set.
func (o RenderOption) WithMeshShade(s MeshShade) RenderOption {
	o.MeshShade = s
	return o
}

// WithBackground returns a copy with the background color set.
func (o RenderOption) WithBackground(r, g, b float32) RenderOption {
	o.BackgroundColor = [3]float32{r, g, b}
	return o
}

// WithCoordinateFrame returns a copy with the coordinate frame toggled.
func (o RenderOption) WithCoordinateFrame(show bool) RenderOption {
	o.ShowCoordinateFrame = show
	return o
}

// WithLight returns a copy with the headlight toggled.
func (o RenderOption) WithLight(on bool) RenderOption {
	o.LightOn = on
	return o
}

// RenderOverride rewrites a RenderOption. Utility entries capture a
// list of overrides at registration; each frame they are applied left
// to right over a copy of the global option.
type RenderOverride func(RenderOption) RenderOption

// OverridePointSize returns an override fixing the point size.
func OverridePointSize(size float32) RenderOverride {
	return func(o RenderOption) RenderOption { return o.WithPointSize(size) }
}

// OverrideLineWidth returns an override fixing the line width.
func OverrideLineWidth(width float32) RenderOverride {
	return func(o RenderOption) RenderOption { return o.WithLineWidth(width) }
}

// OverrideMeshShade returns an override fixing the mesh shading model.
func OverrideMeshShade(s MeshShade) RenderOverride {
	return func(o RenderOption) RenderOption { return o.WithMeshShade(s) }
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
