package visualization

import "sync"

// headlessWindow is the built-in window backend. It has no display; it
// exists so sessions can run offscreen and under test with real
// WaitEvents blocking semantics.
type headlessWindow struct {
	mu          sync.Mutex
	cond        *sync.Cond
	pending     int
	shouldClose bool
	width       int
	height      int
	handler     EventHandler
}

var _ Window = (*headlessWindow)(nil)

func newHeadlessWindow(cfg WindowConfig) (Window, error) {
	w := &headlessWindow{width: cfg.Width, height: cfg.Height}
	w.cond = sync.NewCond(&w.mu)
	return w, nil
}

func (w *headlessWindow) PollEvents() {
	w.mu.Lock()
	w.pending = 0
	w.mu.Unlock()
}

func (w *headlessWindow) WaitEvents() {
	w.mu.Lock()
	for w.pending == 0 && !w.shouldClose {
		w.cond.Wait()
	}
	w.pending = 0
	w.mu.Unlock()
}

func (w *headlessWindow) PostEmptyEvent() {
	w.mu.Lock()
	w.pending++
	w.cond.Broadcast()
	w.mu.Unlock()
}

func (w *headlessWindow) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shouldClose
}

func (w *headlessWindow) SetShouldClose(v bool) {
	w.mu.Lock()
	w.shouldClose = v
	w.cond.Broadcast()
	w.mu.Unlock()
}

func (w *headlessWindow) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *headlessWindow) SetHandler(h EventHandler) { w.handler = h }

func (w *headlessWindow) Destroy() {}

func init() {
	RegisterWindowBackend("headless", 10, newHeadlessWindow, nil)
}
