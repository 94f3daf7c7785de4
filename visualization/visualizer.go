// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package visualization

import (
	"sync/atomic"

	"cogentcore.org/core/math32"
	"github.com/longwoo/cupoch/geometry"
)

// Stage is the session lifecycle state.
type Stage int

const (
	StageUninitialized Stage = iota
	StageInitialized
	StageRunning
	StageClosed
)

func (s Stage) String() string {
	switch s {
	case StageInitialized:
		return "initialized"
	case StageRunning:
		return "running"
	case StageClosed:
		return "closed"
	default:
		return "uninitialized"
	}
}

// AnimationCallback runs once per loop tick before rendering. The
// return value is ORed into the redraw flag: returning true forces a
// render this tick.
type AnimationCallback func(*Visualizer) bool

// callbackSlot double-buffers the animation callback so registration
// from within a running callback takes effect on the next tick, never
// the current one.
type callbackSlot struct {
	active  AnimationCallback
	pending AnimationCallback
	queued  bool
}

func (s *callbackSlot) set(cb AnimationCallback) {
	s.pending = cb
	s.queued = true
}

// promote installs a queued callback and returns the active one.
func (s *callbackSlot) promote() AnimationCallback {
	if s.queued {
		s.active = s.pending
		s.pending = nil
		s.queued = false
	}
	return s.active
}

func (s *callbackSlot) armed() bool {
	return s.active != nil || (s.queued && s.pending != nil)
}

// utilityEntry is an ordered overlay drawn after the primary
// geometries, each under its own option overrides.
type utilityEntry struct {
	geom      geometry.Geometry
	drawable  Drawable
	overrides []RenderOverride
}

// Visualizer is an interactive 3D visualization session.
//
// All methods must be called from the goroutine that called
// CreateSession, with one exception: UpdateRender is safe from any
// goroutine. The type carries no other internal locking.
type Visualizer struct {
	stage  Stage
	window Window
	device Device
	opt    RenderOption
	view   *ViewControl
	mouse  MouseControl

	geoms     map[geometry.Geometry]Drawable
	utilities []utilityEntry

	coordFrame      Drawable
	coordFrameStale bool

	cb     callbackSlot
	dirty  atomic.Bool
	inTick bool
}

// NewVisualizer returns an uninitialized session. Call CreateSession
// before anything else.
func NewVisualizer() *Visualizer {
	return &Visualizer{
		geoms: make(map[geometry.Geometry]Drawable),
	}
}

// Stage reports the lifecycle state.
func (v *Visualizer) Stage() Stage { return v.stage }

// CreateSession resolves a window and a device backend, opens the
// window and transitions to the initialized state. On failure the
// session stays uninitialized and can be retried.
func (v *Visualizer) CreateSession(opts ...Option) error {
	if v.stage != StageUninitialized {
		Logger().Warn("create session on live session", "stage", v.stage.String())
		return nil
	}
	cfg := defaultSessionConfig()
	for _, o := range opts {
		o(&cfg)
	}

	wf, err := windowRegistry.resolve(cfg.windowBackend)
	if err != nil {
		return err
	}
	win, err := wf(cfg.window)
	if err != nil {
		return err
	}

	df, err := deviceRegistry.resolve(cfg.deviceBackend)
	if err != nil {
		win.Destroy()
		return err
	}
	dev, err := df()
	if err != nil {
		win.Destroy()
		return err
	}
	if err := dev.Init(); err != nil {
		dev.Destroy()
		win.Destroy()
		return err
	}

	v.window = win
	v.device = dev
	v.opt = cfg.option
	w, h := win.Size()
	v.view = NewViewControl(w, h)
	win.SetHandler(v)
	v.stage = StageInitialized
	v.dirty.Store(true)
	Logger().Info("session created",
		"title", cfg.window.Title, "width", w, "height", h)
	return nil
}

// live reports whether geometry and loop operations are accepted.
func (v *Visualizer) live() bool {
	return v.stage == StageInitialized || v.stage == StageRunning
}

// AddGeometry registers a geometry, binds a drawable for its kind and
// uploads its data. Adding an already present handle fails. On success
// the view is reframed to the new scene bounds.
func (v *Visualizer) AddGeometry(g geometry.Geometry) bool {
	return v.addGeometry(g, true)
}

// AddGeometryKeepView registers like AddGeometry but keeps the current
// camera pose and bounding box, so geometry can stream in during an
// animation without the view jumping.
func (v *Visualizer) AddGeometryKeepView(g geometry.Geometry) bool {
	return v.addGeometry(g, false)
}

func (v *Visualizer) addGeometry(g geometry.Geometry, resetFraming bool) bool {
	if !v.live() || g == nil {
		Logger().Warn("add geometry rejected", "stage", v.stage.String())
		return false
	}
	if _, ok := v.geoms[g]; ok {
		Logger().Warn("geometry already added", "kind", g.Kind().String())
		return false
	}
	d := newDrawableFor(g)
	if d == nil {
		Logger().Warn("no drawable for geometry kind", "kind", g.Kind().String())
		return false
	}
	if !d.Update(v.device, g) {
		d.Release(v.device)
		return false
	}
	v.geoms[g] = d
	v.afterSceneChange(resetFraming)
	return true
}

// RemoveGeometry unregisters a geometry and releases its drawable.
// Removing a handle that is not present fails and changes nothing.
func (v *Visualizer) RemoveGeometry(g geometry.Geometry) bool {
	return v.removeGeometry(g, true)
}

// RemoveGeometryKeepView unregisters like RemoveGeometry but keeps the
// current camera pose and bounding box.
func (v *Visualizer) RemoveGeometryKeepView(g geometry.Geometry) bool {
	return v.removeGeometry(g, false)
}

func (v *Visualizer) removeGeometry(g geometry.Geometry, resetFraming bool) bool {
	if !v.live() {
		return false
	}
	d, ok := v.geoms[g]
	if !ok {
		Logger().Warn("remove of unregistered geometry")
		return false
	}
	d.Release(v.device)
	delete(v.geoms, g)
	v.afterSceneChange(resetFraming)
	return true
}

// ClearGeometries removes all primary geometries. Clearing an empty
// registry succeeds.
func (v *Visualizer) ClearGeometries() bool {
	if !v.live() {
		return false
	}
	for g, d := range v.geoms {
		d.Release(v.device)
		delete(v.geoms, g)
	}
	v.afterSceneChange(true)
	return true
}

// UpdateGeometry re-uploads geometry data after an in-place mutation.
// A non-nil handle touches only that handle's resources and fails if
// it is not registered; a nil handle re-uploads every registered
// geometry. This is the only path by which mutated geometry contents
// become visible.
func (v *Visualizer) UpdateGeometry(g geometry.Geometry) bool {
	if !v.live() {
		return false
	}
	if g == nil {
		ok := true
		for gg, d := range v.geoms {
			if !d.Update(v.device, gg) {
				Logger().Warn("geometry re-upload failed", "kind", gg.Kind().String())
				ok = false
			}
		}
		v.dirty.Store(true)
		return ok
	}
	d, ok := v.geoms[g]
	if !ok {
		Logger().Warn("update of unregistered geometry")
		return false
	}
	if !d.Update(v.device, g) {
		return false
	}
	v.dirty.Store(true)
	return true
}

// HasGeometry reports whether the primary registry is non-empty.
func (v *Visualizer) HasGeometry() bool {
	return len(v.geoms) > 0
}

// ContainsGeometry reports whether a specific handle is registered.
func (v *Visualizer) ContainsGeometry(g geometry.Geometry) bool {
	_, ok := v.geoms[g]
	return ok
}

// AddUtility registers an overlay geometry drawn after all primary
// geometries, in registration order, under the global option rewritten
// by the given overrides.
func (v *Visualizer) AddUtility(g geometry.Geometry, overrides ...RenderOverride) bool {
	if !v.live() || g == nil {
		return false
	}
	d := newDrawableFor(g)
	if d == nil {
		Logger().Warn("no drawable for utility kind", "kind", g.Kind().String())
		return false
	}
	if !d.Update(v.device, g) {
		d.Release(v.device)
		return false
	}
	v.utilities = append(v.utilities, utilityEntry{geom: g, drawable: d, overrides: overrides})
	v.dirty.Store(true)
	return true
}

// ClearUtilities removes all utility entries.
func (v *Visualizer) ClearUtilities() bool {
	if !v.live() {
		return false
	}
	for _, u := range v.utilities {
		u.drawable.Release(v.device)
	}
	v.utilities = nil
	v.dirty.Store(true)
	return true
}

// afterSceneChange flags redraw after the primary registry changed,
// reframing the view unless the caller asked to keep it.
func (v *Visualizer) afterSceneChange(resetFraming bool) {
	if resetFraming {
		v.ResetViewPoint(true)
	} else {
		v.dirty.Store(true)
	}
	v.coordFrameStale = true
}

// RegisterAnimationCallback installs cb to run once per loop tick
// before rendering; nil deregisters. When called from within a running
// callback, the change takes effect on the next tick: the current
// invocation always completes under the callback it started with.
func (v *Visualizer) RegisterAnimationCallback(cb AnimationCallback) {
	v.cb.set(cb)
}

// ResetViewPoint resets the camera pose. With resetBoundingBox the
// scene bounding box is recomputed from the registered 3D geometries
// first; otherwise the previous box is kept.
func (v *Visualizer) ResetViewPoint(resetBoundingBox bool) {
	if v.view == nil {
		return
	}
	if resetBoundingBox {
		box := math32.B3Empty()
		for g := range v.geoms {
			if g.Dimension() == 3 {
				box.ExpandByBox(g.Bounds())
			}
		}
		v.view.FitInGeometry(box)
	} else {
		v.view.Reset()
	}
	v.dirty.Store(true)
}

// UpdateRender flags the scene for redraw and wakes a blocked
// WaitEvents. Safe to call from any goroutine.
func (v *Visualizer) UpdateRender() {
	v.dirty.Store(true)
	if w := v.window; w != nil {
		w.PostEmptyEvent()
	}
}

// ViewControl returns the camera state for direct manipulation.
// Callers flag a redraw with UpdateRender after changing it.
func (v *Visualizer) ViewControl() *ViewControl { return v.view }

// RenderOption returns the current global render option.
func (v *Visualizer) RenderOption() RenderOption { return v.opt }

// SetRenderOption replaces the global render option.
func (v *Visualizer) SetRenderOption(opt RenderOption) {
	v.opt = opt
	v.coordFrameStale = true
	v.dirty.Store(true)
}

// WaitEvents runs one loop tick, blocking until an event arrives when
// neither a redraw nor an animation callback is outstanding. Returns
// false once the session is closed.
func (v *Visualizer) WaitEvents() bool {
	return v.tick(true)
}

// PollEvents runs one loop tick without blocking. Returns false once
// the session is closed.
func (v *Visualizer) PollEvents() bool {
	return v.tick(false)
}

// Run drives the loop until the session closes: polling while an
// animation callback is registered, waiting for events otherwise.
func (v *Visualizer) Run() {
	for {
		var ok bool
		if v.cb.armed() {
			ok = v.PollEvents()
		} else {
			ok = v.WaitEvents()
		}
		if !ok {
			return
		}
	}
}

// Close requests a cooperative stop. Inside a loop tick the session
// tears down before the next render; outside it tears down
// immediately. Idempotent.
func (v *Visualizer) Close() {
	if !v.live() {
		return
	}
	v.window.SetShouldClose(true)
	if !v.inTick {
		v.teardown()
	}
}

// DestroySession ends the session and releases the window and device.
// It is the counterpart of CreateSession and equivalent to Close.
func (v *Visualizer) DestroySession() {
	v.Close()
}

// tick is one iteration of the event loop: pump events, promote and
// run the animation callback, honor close requests, render if dirty.
func (v *Visualizer) tick(block bool) bool {
	if !v.live() {
		return false
	}
	v.stage = StageRunning
	v.inTick = true
	defer func() { v.inTick = false }()

	if block && !v.dirty.Load() && !v.cb.armed() {
		v.window.WaitEvents()
	} else {
		v.window.PollEvents()
	}

	if cb := v.cb.promote(); cb != nil {
		if cb(v) {
			v.dirty.Store(true)
		}
	}

	if v.window.ShouldClose() {
		v.teardown()
		return false
	}

	if v.dirty.Load() && v.render() {
		v.dirty.Store(false)
	}
	return true
}

// render executes one frame: view state first, primary geometries in
// no particular order, utility entries in insertion order under their
// overrides, the coordinate frame last, then present. Returns false
// when the pass did not complete; the dirty flag then stays set so the
// next tick retries.
func (v *Visualizer) render() bool {
	width, height := v.view.Size()
	v.view.updateMatrices()
	frame, err := v.device.BeginFrame(FrameDesc{
		Width:      width,
		Height:     height,
		Background: v.opt.BackgroundColor,
		View:       v.view.ViewMatrix,
		Projection: v.view.ProjMatrix,
	})
	if err != nil {
		Logger().Warn("begin frame failed", "err", err)
		return false
	}

	for _, d := range v.geoms {
		if !d.Draw(frame, v.opt) {
			Logger().Warn("draw failed, entry skipped")
		}
	}
	for _, u := range v.utilities {
		opt := v.opt
		for _, ov := range u.overrides {
			opt = ov(opt)
		}
		if !u.drawable.Draw(frame, opt) {
			Logger().Warn("utility draw failed, entry skipped")
		}
	}
	if v.opt.ShowCoordinateFrame {
		if d := v.ensureCoordFrame(); d != nil {
			d.Draw(frame, v.opt)
		}
	}

	if err := frame.End(); err != nil {
		Logger().Warn("frame present failed", "err", err)
		return false
	}
	return true
}

// ensureCoordFrame lazily (re)builds the origin marker sized to the
// scene.
func (v *Visualizer) ensureCoordFrame() Drawable {
	if v.coordFrame != nil && !v.coordFrameStale {
		return v.coordFrame
	}
	if v.coordFrame == nil {
		v.coordFrame = newDrawableFor(&geometry.TriangleMesh{})
	}
	size := 0.2 * v.view.diagonal()
	mesh := geometry.NewCoordinateFrame(size, math32.Vec3(0, 0, 0))
	if !v.coordFrame.Update(v.device, mesh) {
		return nil
	}
	v.coordFrameStale = false
	return v.coordFrame
}

// CaptureScreenImage returns the last presented frame as an image
// geometry. Available when the device retains frames (the software
// rasterizer and offscreen GPU devices do; windowed surfaces may not).
func (v *Visualizer) CaptureScreenImage() (*geometry.Image, bool) {
	if !v.live() {
		return nil, false
	}
	fc, ok := v.device.(FrameCapturer)
	if !ok {
		return nil, false
	}
	frame := fc.LastFrame()
	if frame == nil {
		return nil, false
	}
	return geometry.FromRGBA(frame), true
}

// teardown releases everything and moves to the closed state. All
// operations no-op afterwards; loop calls return false.
func (v *Visualizer) teardown() {
	for g, d := range v.geoms {
		d.Release(v.device)
		delete(v.geoms, g)
	}
	for _, u := range v.utilities {
		u.drawable.Release(v.device)
	}
	v.utilities = nil
	if v.coordFrame != nil {
		v.coordFrame.Release(v.device)
		v.coordFrame = nil
	}
	v.device.Destroy()
	v.window.Destroy()
	v.stage = StageClosed
	Logger().Info("session closed")
}
