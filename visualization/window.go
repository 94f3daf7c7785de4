// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package visualization

// WindowConfig is the resolved window configuration a backend receives.
type WindowConfig struct {
	Title   string
	Width   int
	Height  int
	Left    int
	Top     int
	Visible bool
}

// Window abstracts the host window and its event pump. Implementations
// must be used from the session's control goroutine only, except
// PostEmptyEvent which may be called from any goroutine.
type Window interface {
	// PollEvents dispatches pending events without blocking.
	PollEvents()

	// WaitEvents blocks until at least one event arrives, dispatches
	// it, then returns. PostEmptyEvent and SetShouldClose unblock it.
	WaitEvents()

	// PostEmptyEvent wakes a blocked WaitEvents. Goroutine-safe.
	PostEmptyEvent()

	// ShouldClose reports whether a close was requested.
	ShouldClose() bool

	// SetShouldClose sets the close request flag.
	SetShouldClose(bool)

	// Size returns the framebuffer size in pixels.
	Size() (width, height int)

	// SetHandler installs the event handler. Events arriving before a
	// handler is set are dropped.
	SetHandler(EventHandler)

	// Destroy releases the window.
	Destroy()
}

// EventHandler receives window events during PollEvents/WaitEvents.
type EventHandler interface {
	MouseMove(x, y float64)
	MouseButton(button MouseButton, action Action, mods Modifiers)
	MouseScroll(dx, dy float64)
	Key(key Key, action Action, mods Modifiers)
	Resize(width, height int)
	Refresh()
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// Action is a key or button transition.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers int

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Key identifies a keyboard key. Only the keys the session binds are
// enumerated; backends map everything else to KeyUnknown.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyQ
	KeyR
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
)
