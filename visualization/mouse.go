package visualization

// MouseControl tracks pointer state between events so drags can be
// turned into camera motion.
type MouseControl struct {
	X, Y          float64
	LeftDown      bool
	MiddleDown    bool
	RightDown     bool
	Mods          Modifiers
	haveLastPoint bool
}

// visualizer event handling. The Visualizer implements EventHandler
// and installs itself on the window at session creation.

var _ EventHandler = (*Visualizer)(nil)

// MouseMove converts drags into view changes: left-drag orbits,
// middle-drag or ctrl+left-drag pans.
func (v *Visualizer) MouseMove(x, y float64) {
	mc := &v.mouse
	if !mc.haveLastPoint {
		mc.X, mc.Y, mc.haveLastPoint = x, y, true
		return
	}
	dx := float32(x - mc.X)
	dy := float32(y - mc.Y)
	mc.X, mc.Y = x, y

	switch {
	case mc.LeftDown && mc.Mods&ModControl != 0, mc.MiddleDown:
		v.view.Translate(-dx, dy)
	case mc.LeftDown:
		v.view.Rotate(dx, dy)
	default:
		return
	}
	v.dirty.Store(true)
}

func (v *Visualizer) MouseButton(button MouseButton, action Action, mods Modifiers) {
	mc := &v.mouse
	down := action == Press
	mc.Mods = mods
	switch button {
	case MouseButtonLeft:
		mc.LeftDown = down
	case MouseButtonMiddle:
		mc.MiddleDown = down
	case MouseButtonRight:
		mc.RightDown = down
	}
	if !down {
		mc.haveLastPoint = false
	}
}

// MouseScroll zooms the camera.
func (v *Visualizer) MouseScroll(dx, dy float64) {
	if dy == 0 {
		return
	}
	v.view.Scale(float32(dy))
	v.dirty.Store(true)
}

// Key handles the session key bindings: Esc/Q close, R resets the
// viewpoint, -/= step the point size, [/] step the field of view.
func (v *Visualizer) Key(key Key, action Action, mods Modifiers) {
	if action == Release {
		return
	}
	switch key {
	case KeyEscape, KeyQ:
		v.Close()
	case KeyR:
		v.ResetViewPoint(true)
	case KeyMinus:
		v.opt = v.opt.WithPointSize(v.opt.PointSize - 1)
		v.dirty.Store(true)
	case KeyEqual:
		v.opt = v.opt.WithPointSize(v.opt.PointSize + 1)
		v.dirty.Store(true)
	case KeyLeftBracket:
		v.view.ChangeFOV(-1)
		v.dirty.Store(true)
	case KeyRightBracket:
		v.view.ChangeFOV(1)
		v.dirty.Store(true)
	}
}

func (v *Visualizer) Resize(width, height int) {
	v.view.SetSize(width, height)
	v.dirty.Store(true)
}

func (v *Visualizer) Refresh() {
	v.dirty.Store(true)
}
