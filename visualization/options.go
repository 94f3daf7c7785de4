package visualization

// sessionConfig holds the resolved session configuration.
type sessionConfig struct {
	window        WindowConfig
	windowBackend string
	deviceBackend string
	option        RenderOption
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		window: WindowConfig{
			Title:   "cupoch",
			Width:   1280,
			Height:  720,
			Left:    50,
			Top:     50,
			Visible: true,
		},
		option: DefaultRenderOption(),
	}
}

// Option configures a session at creation time.
type Option func(*sessionConfig)

// WithTitle sets the window title.
func WithTitle(title string) Option {
	return func(c *sessionConfig) { c.window.Title = title }
}

// WithSize sets the window framebuffer size in pixels.
func WithSize(width, height int) Option {
	return func(c *sessionConfig) {
		if width > 0 {
			c.window.Width = width
		}
		if height > 0 {
			c.window.Height = height
		}
	}
}

// WithPosition sets the window position on screen.
func WithPosition(left, top int) Option {
	return func(c *sessionConfig) {
		c.window.Left = left
		c.window.Top = top
	}
}

// WithVisible controls whether the window is shown. Invisible windows
// still render; useful for capture.
func WithVisible(visible bool) Option {
	return func(c *sessionConfig) { c.window.Visible = visible }
}

// WithWindowBackend forces a specific registered window backend
// instead of auto-selection.
func WithWindowBackend(name string) Option {
	return func(c *sessionConfig) { c.windowBackend = name }
}

// WithDeviceBackend forces a specific registered device backend.
func WithDeviceBackend(name string) Option {
	return func(c *sessionConfig) { c.deviceBackend = name }
}

// WithRenderOption sets the initial global render option.
func WithRenderOption(opt RenderOption) Option {
	return func(c *sessionConfig) { c.option = opt }
}
