package visualization

import (
	"hash/fnv"
	"testing"
)

// mockDevice records uploads and draw calls so tests can assert on
// exactly what reached the device.
type mockDevice struct {
	initCalled    int
	destroyCalled int

	buffers          map[*mockBuffer]bool
	destroyedBuffers int
	textures         int

	frames []*mockFrame

	failCreateBuffer bool
	failBeginFrame   bool
}

type mockBuffer struct {
	label  string
	hash   uint64
	size   uint64
	writes int
}

func (b *mockBuffer) Size() uint64 { return b.size }

type mockTexture struct{ w, h int }

func (t *mockTexture) Width() int  { return t.w }
func (t *mockTexture) Height() int { return t.h }

type mockDraw struct {
	topology Topology
	count    uint32
	bufHash  uint64
	state    DrawState
	textured bool
}

type mockFrame struct {
	desc  FrameDesc
	draws []mockDraw
	ended bool
}

func hashBytes(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

func newMockDevice() *mockDevice {
	return &mockDevice{buffers: make(map[*mockBuffer]bool)}
}

func (d *mockDevice) Init() error {
	d.initCalled++
	return nil
}

func (d *mockDevice) Destroy() { d.destroyCalled++ }

func (d *mockDevice) CreateBuffer(label string, data []byte) (Buffer, error) {
	if d.failCreateBuffer {
		return nil, errMockCreate
	}
	b := &mockBuffer{label: label, hash: hashBytes(data), size: uint64(len(data))}
	d.buffers[b] = true
	return b, nil
}

func (d *mockDevice) WriteBuffer(buf Buffer, data []byte) error {
	b := buf.(*mockBuffer)
	b.hash = hashBytes(data)
	b.size = uint64(len(data))
	b.writes++
	return nil
}

func (d *mockDevice) DestroyBuffer(buf Buffer) {
	if buf == nil {
		return
	}
	delete(d.buffers, buf.(*mockBuffer))
	d.destroyedBuffers++
}

func (d *mockDevice) CreateTexture(label string, w, h int, rgba []byte) (Texture, error) {
	d.textures++
	return &mockTexture{w: w, h: h}, nil
}

func (d *mockDevice) DestroyTexture(tex Texture) {}

func (d *mockDevice) BeginFrame(desc FrameDesc) (Frame, error) {
	if d.failBeginFrame {
		return nil, errMockCreate
	}
	f := &mockFrame{desc: desc}
	d.frames = append(d.frames, f)
	return f, nil
}

func (f *mockFrame) DrawPrimitives(topology Topology, buf Buffer, count uint32, state DrawState) {
	f.draws = append(f.draws, mockDraw{
		topology: topology,
		count:    count,
		bufHash:  buf.(*mockBuffer).hash,
		state:    state,
	})
}

func (f *mockFrame) DrawTextured(buf Buffer, tex Texture, count uint32) {
	f.draws = append(f.draws, mockDraw{count: count, textured: true})
}

func (f *mockFrame) End() error {
	f.ended = true
	return nil
}

var errMockCreate = &BackendUnavailableError{Kind: "device", Name: "mock"}

// totalDraws counts draw calls across all frames.
func (d *mockDevice) totalDraws() int {
	n := 0
	for _, f := range d.frames {
		n += len(f.draws)
	}
	return n
}

// lastFrame returns the most recent frame, nil if none.
func (d *mockDevice) lastFrame() *mockFrame {
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

// newTestSession opens a session on the headless window and a fresh
// mock device.
func newTestSession(t *testing.T, opts ...Option) (*Visualizer, *mockDevice) {
	t.Helper()
	dev := newMockDevice()
	RegisterDevice("mock", 5, func() (Device, error) { return dev, nil }, nil)
	v := NewVisualizer()
	all := append([]Option{
		WithWindowBackend("headless"),
		WithDeviceBackend("mock"),
		WithSize(64, 48),
		WithVisible(false),
	}, opts...)
	if err := v.CreateSession(all...); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return v, dev
}
