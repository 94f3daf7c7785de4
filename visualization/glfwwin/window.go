// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

//go:build cgo

// Package glfwwin provides the GLFW window backend. Importing it
// registers the "glfw" backend; sessions pick it automatically when a
// display is available.
//
// The backend supplies the event pump and input handling. It does not
// present frames by itself: a host application that wants on-screen
// output must create a native surface for the window it gets from
// Handle and hand the per-frame surface texture view to the GPU device
// through wgpudev's SetSurfaceTarget. Sessions without a host surface
// render offscreen and expose frames via CaptureScreenImage.
//
// GLFW requires the event pump to run on the main OS thread. Call
// runtime.LockOSThread in an init function of the main package and run
// the session from main.
//
// GLFW is a C library, so this package needs cgo; it is excluded from
// CGO_ENABLED=0 builds.
package glfwwin

import (
	"fmt"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/longwoo/cupoch/visualization"
)

var (
	initOnce sync.Once
	initErr  error
)

// ensureInit initializes GLFW once for the process. Terminate is never
// called; the OS reclaims everything at exit.
func ensureInit() error {
	initOnce.Do(func() {
		initErr = glfw.Init()
	})
	return initErr
}

// Window wraps a glfw.Window behind the session window contract.
type Window struct {
	glw     *glfw.Window
	handler visualization.EventHandler
}

var _ visualization.Window = (*Window)(nil)

// New creates a GLFW window from the session configuration.
func New(cfg visualization.WindowConfig) (visualization.Window, error) {
	if err := ensureInit(); err != nil {
		return nil, fmt.Errorf("glfwwin: init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	visible := glfw.False
	if cfg.Visible {
		visible = glfw.True
	}
	glfw.WindowHint(glfw.Visible, visible)

	glw, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfwwin: create window: %w", err)
	}
	glw.SetPos(cfg.Left, cfg.Top)

	w := &Window{glw: glw}
	glw.SetCursorPosCallback(w.cursorPos)
	glw.SetMouseButtonCallback(w.mouseButton)
	glw.SetScrollCallback(w.scroll)
	glw.SetKeyCallback(w.key)
	glw.SetFramebufferSizeCallback(w.fbResized)
	glw.SetRefreshCallback(w.refresh)
	return w, nil
}

func (w *Window) PollEvents()     { glfw.PollEvents() }
func (w *Window) WaitEvents()     { glfw.WaitEvents() }
func (w *Window) PostEmptyEvent() { glfw.PostEmptyEvent() }

func (w *Window) ShouldClose() bool { return w.glw.ShouldClose() }

func (w *Window) SetShouldClose(v bool) {
	w.glw.SetShouldClose(v)
	if v {
		glfw.PostEmptyEvent()
	}
}

func (w *Window) Size() (int, int) {
	return w.glw.GetFramebufferSize()
}

func (w *Window) SetHandler(h visualization.EventHandler) {
	w.handler = h
}

func (w *Window) Destroy() {
	if w.glw != nil {
		w.glw.Destroy()
		w.glw = nil
	}
}

// Handle exposes the underlying glfw.Window so a host can create a
// native surface for presentation.
func (w *Window) Handle() *glfw.Window { return w.glw }

func (w *Window) cursorPos(_ *glfw.Window, x, y float64) {
	if w.handler != nil {
		w.handler.MouseMove(x, y)
	}
}

func (w *Window) mouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mod glfw.ModifierKey) {
	if w.handler == nil {
		return
	}
	b := visualization.MouseButtonLeft
	switch button {
	case glfw.MouseButtonMiddle:
		b = visualization.MouseButtonMiddle
	case glfw.MouseButtonRight:
		b = visualization.MouseButtonRight
	}
	w.handler.MouseButton(b, mapAction(action), mapMods(mod))
}

func (w *Window) scroll(_ *glfw.Window, xoff, yoff float64) {
	if w.handler != nil {
		w.handler.MouseScroll(xoff, yoff)
	}
}

func (w *Window) key(_ *glfw.Window, ky glfw.Key, _ int, action glfw.Action, mod glfw.ModifierKey) {
	if w.handler != nil {
		w.handler.Key(mapKey(ky), mapAction(action), mapMods(mod))
	}
}

func (w *Window) fbResized(_ *glfw.Window, width, height int) {
	if w.handler != nil {
		w.handler.Resize(width, height)
	}
}

func (w *Window) refresh(_ *glfw.Window) {
	if w.handler != nil {
		w.handler.Refresh()
	}
}

func mapAction(a glfw.Action) visualization.Action {
	switch a {
	case glfw.Press:
		return visualization.Press
	case glfw.Repeat:
		return visualization.Repeat
	default:
		return visualization.Release
	}
}

func mapMods(mod glfw.ModifierKey) visualization.Modifiers {
	var m visualization.Modifiers
	if mod&glfw.ModShift != 0 {
		m |= visualization.ModShift
	}
	if mod&glfw.ModControl != 0 {
		m |= visualization.ModControl
	}
	if mod&glfw.ModAlt != 0 {
		m |= visualization.ModAlt
	}
	if mod&glfw.ModSuper != 0 {
		m |= visualization.ModSuper
	}
	return m
}

// mapKey translates the keys the session binds; everything else is
// KeyUnknown.
func mapKey(ky glfw.Key) visualization.Key {
	switch ky {
	case glfw.KeyEscape:
		return visualization.KeyEscape
	case glfw.KeyQ:
		return visualization.KeyQ
	case glfw.KeyR:
		return visualization.KeyR
	case glfw.KeyMinus:
		return visualization.KeyMinus
	case glfw.KeyEqual:
		return visualization.KeyEqual
	case glfw.KeyLeftBracket:
		return visualization.KeyLeftBracket
	case glfw.KeyRightBracket:
		return visualization.KeyRightBracket
	default:
		return visualization.KeyUnknown
	}
}

// available probes for a usable display by initializing GLFW.
func available() bool {
	return ensureInit() == nil
}

func init() {
	visualization.RegisterWindowBackend("glfw", 100, New, available)
}
