package visualization

import (
	"testing"
	"time"
)

func TestPollEventsDoesNotBlock(t *testing.T) {
	v, _ := newTestSession(t)
	done := make(chan struct{})
	go func() {
		// Control-thread calls are issued from this goroutine only.
		for i := 0; i < 10; i++ {
			v.PollEvents()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("PollEvents blocked")
	}
}

func TestCallbackReturnTrueRendersEveryTick(t *testing.T) {
	v, dev := newTestSession(t)
	v.PollEvents() // flush the initial redraw
	base := len(dev.frames)

	v.RegisterAnimationCallback(func(*Visualizer) bool { return true })
	for i := 0; i < 5; i++ {
		if !v.PollEvents() {
			t.Fatal("loop ended early")
		}
	}
	if got := len(dev.frames) - base; got != 5 {
		t.Errorf("frames = %d, want 5", got)
	}
}

func TestCallbackReturnFalseRendersNothing(t *testing.T) {
	v, dev := newTestSession(t)
	v.PollEvents()
	base := len(dev.frames)

	v.RegisterAnimationCallback(func(*Visualizer) bool { return false })
	for i := 0; i < 5; i++ {
		v.PollEvents()
	}
	if got := len(dev.frames) - base; got != 0 {
		t.Errorf("frames = %d, want 0 without dirty", got)
	}
}

// Re-registration from inside a callback must not affect the current
// tick; the new callback runs from the next tick on.
func TestCallbackReregistrationNextTick(t *testing.T) {
	v, _ := newTestSession(t)
	var calls []string
	var second AnimationCallback = func(*Visualizer) bool {
		calls = append(calls, "second")
		return false
	}
	v.RegisterAnimationCallback(func(vis *Visualizer) bool {
		calls = append(calls, "first")
		vis.RegisterAnimationCallback(second)
		return false
	})

	v.PollEvents()
	if len(calls) != 1 || calls[0] != "first" {
		t.Fatalf("tick 1 calls = %v, want [first]", calls)
	}
	v.PollEvents()
	if len(calls) != 2 || calls[1] != "second" {
		t.Fatalf("tick 2 calls = %v, want [first second]", calls)
	}
}

// Deregistration from inside a callback lets the current invocation
// finish and stops invocations from the next tick.
func TestCallbackDeregistration(t *testing.T) {
	v, _ := newTestSession(t)
	calls := 0
	v.RegisterAnimationCallback(func(vis *Visualizer) bool {
		calls++
		vis.RegisterAnimationCallback(nil)
		return false
	})
	v.PollEvents()
	v.PollEvents()
	v.PollEvents()
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

// Close from inside a callback must stop the loop before the next
// render: the callback's dirty result is discarded.
func TestCloseFromCallbackStopsBeforeRender(t *testing.T) {
	v, dev := newTestSession(t)
	v.PollEvents()
	frames := len(dev.frames)

	v.RegisterAnimationCallback(func(vis *Visualizer) bool {
		vis.Close()
		return true
	})
	if v.PollEvents() {
		t.Fatal("tick after close must return false")
	}
	if len(dev.frames) != frames {
		t.Errorf("frames = %d, want %d: no render after close", len(dev.frames), frames)
	}
	if v.Stage() != StageClosed {
		t.Errorf("stage = %v, want closed", v.Stage())
	}
	if dev.destroyCalled == 0 {
		t.Error("device not destroyed on teardown")
	}
}

func TestWaitEventsWakesOnUpdateRender(t *testing.T) {
	v, dev := newTestSession(t)
	v.PollEvents()
	base := len(dev.frames)

	go func() {
		time.Sleep(20 * time.Millisecond)
		v.UpdateRender()
	}()

	done := make(chan bool, 1)
	go func() {
		done <- v.WaitEvents()
	}()
	select {
	case ok := <-done:
		if !ok {
			t.Fatal("WaitEvents returned false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WaitEvents did not wake on UpdateRender")
	}
	if len(dev.frames) <= base {
		t.Error("no render after UpdateRender")
	}
}

func TestWaitEventsReturnsImmediatelyWhenDirty(t *testing.T) {
	v, _ := newTestSession(t)
	// The initial redraw flag is still set, so this must not block.
	done := make(chan struct{})
	go func() {
		v.WaitEvents()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitEvents blocked despite pending redraw")
	}
}

func TestRunStopsOnClose(t *testing.T) {
	v, _ := newTestSession(t)
	ticks := 0
	v.RegisterAnimationCallback(func(vis *Visualizer) bool {
		ticks++
		if ticks >= 3 {
			vis.Close()
		}
		return true
	})
	done := make(chan struct{})
	go func() {
		v.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on Close")
	}
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
}

// A failed frame keeps the redraw pending so the next tick retries.
func TestFailedRenderKeepsRedrawPending(t *testing.T) {
	v, dev := newTestSession(t)
	v.PollEvents()
	frames := len(dev.frames)

	dev.failBeginFrame = true
	v.UpdateRender()
	v.PollEvents()
	if len(dev.frames) != frames {
		t.Fatalf("frames = %d, want %d while the device fails", len(dev.frames), frames)
	}
	if !v.dirty.Load() {
		t.Fatal("dirty flag cleared without a completed pass")
	}

	dev.failBeginFrame = false
	v.PollEvents()
	if len(dev.frames) != frames+1 {
		t.Errorf("frames = %d, want %d after recovery", len(dev.frames), frames+1)
	}
}

func TestDestroySessionTearsDownOnce(t *testing.T) {
	v, dev := newTestSession(t)
	v.DestroySession()
	if v.Stage() != StageClosed {
		t.Fatalf("stage = %v, want closed", v.Stage())
	}
	v.DestroySession()
	v.Close()
	if dev.destroyCalled != 1 {
		t.Errorf("device destroyed %d times, want 1", dev.destroyCalled)
	}
}

func TestCloseIdempotent(t *testing.T) {
	v, dev := newTestSession(t)
	v.Close()
	v.Close()
	if dev.destroyCalled != 1 {
		t.Errorf("device destroyed %d times, want 1", dev.destroyCalled)
	}
}

func TestUpdateRenderBeforeSession(t *testing.T) {
	v := NewVisualizer()
	// Must not panic without a window.
	v.UpdateRender()
	if v.PollEvents() {
		t.Error("loop on uninitialized session must return false")
	}
}
