// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package visualization

import (
	"sync"

	"github.com/longwoo/cupoch/geometry"
)

// Drawable binds one geometry to device resources and knows how to
// draw it. One drawable is created per registered geometry, by kind,
// when the geometry is added; it is released when the geometry is
// removed or the session closes.
//
// Update and Draw report failure as false after logging; a failed
// update leaves the previous upload in place.
type Drawable interface {
	Update(dev Device, geom geometry.Geometry) bool
	Draw(f Frame, opt RenderOption) bool
	Release(dev Device)
}

// DrawableFactory creates an unbound drawable for a geometry kind.
type DrawableFactory func() Drawable

var (
	drawableMu        sync.RWMutex
	drawableFactories = map[geometry.Kind]DrawableFactory{}
)

// RegisterDrawable maps a geometry kind to a drawable factory.
// The built-in kinds are registered at init; external geometry kinds
// can hook in here. Registering an existing kind replaces it.
func RegisterDrawable(kind geometry.Kind, factory DrawableFactory) {
	drawableMu.Lock()
	defer drawableMu.Unlock()
	drawableFactories[kind] = factory
}

// newDrawableFor returns a fresh drawable for the geometry's kind, or
// nil if the kind has no factory.
func newDrawableFor(geom geometry.Geometry) Drawable {
	drawableMu.RLock()
	factory, ok := drawableFactories[geom.Kind()]
	drawableMu.RUnlock()
	if !ok {
		return nil
	}
	return factory()
}

func init() {
	RegisterDrawable(geometry.KindPointCloud, func() Drawable { return &pointCloudDrawable{} })
	RegisterDrawable(geometry.KindLineSet, func() Drawable { return &lineSetDrawable{} })
	RegisterDrawable(geometry.KindTriangleMesh, func() Drawable { return &meshDrawable{} })
	RegisterDrawable(geometry.KindImage, func() Drawable { return &imageDrawable{} })
}
