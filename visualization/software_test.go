package visualization

import (
	"image/color"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/longwoo/cupoch/geometry"
)

// newSoftSession runs a real end-to-end session on the software
// rasterizer and the headless window.
func newSoftSession(t *testing.T) (*Visualizer, *softDevice) {
	t.Helper()
	v := NewVisualizer()
	err := v.CreateSession(
		WithWindowBackend("headless"),
		WithDeviceBackend("soft"),
		WithSize(64, 64),
		WithVisible(false),
		WithRenderOption(DefaultRenderOption().WithBackground(0, 0, 0)),
	)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	dev, ok := v.device.(*softDevice)
	if !ok {
		t.Fatalf("device is %T, want *softDevice", v.device)
	}
	return v, dev
}

func TestSoftDeviceClearsBackground(t *testing.T) {
	v, dev := newSoftSession(t)
	v.PollEvents()
	img := dev.LastFrame()
	if img == nil {
		t.Fatal("no frame presented")
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("corner pixel = %v, want black background", got)
	}
}

func TestSoftDeviceDrawsPointAtCenter(t *testing.T) {
	v, dev := newSoftSession(t)
	pc := &geometry.PointCloud{Points: []math32.Vector3{math32.Vec3(0, 0, 0)}}
	pc.PaintUniformColor(math32.Vec3(1, 0, 0))
	if !v.AddGeometry(pc) {
		t.Fatal("add failed")
	}
	v.PollEvents()

	img := dev.LastFrame()
	if got := img.RGBAAt(32, 32); got.R < 200 || got.G > 50 {
		t.Errorf("center pixel = %v, want red point", got)
	}
	if dev.DrawCalls() != 1 {
		t.Errorf("draw calls = %d, want 1", dev.DrawCalls())
	}
}

func TestSoftDeviceEmptySceneZeroDraws(t *testing.T) {
	v, dev := newSoftSession(t)
	v.AddGeometry(geometry.NewPointCloud())
	v.PollEvents()
	if dev.DrawCalls() != 0 {
		t.Errorf("draw calls = %d, want 0", dev.DrawCalls())
	}
}

func TestSoftDeviceMeshOccludesFarGeometry(t *testing.T) {
	v, dev := newSoftSession(t)
	// A red quad in front of a green quad, both facing the camera that
	// looks down -Z from +Z. The red one must win the depth test.
	front := quadMesh(0, math32.Vec3(1, 0, 0))
	back := quadMesh(-2, math32.Vec3(0, 1, 0))
	v.AddGeometry(back)
	v.AddGeometry(front)
	opt := v.RenderOption().WithLight(false).WithMeshShade(MeshShadeNone)
	v.SetRenderOption(opt.WithBackground(0, 0, 0))
	v.PollEvents()

	img := dev.LastFrame()
	got := img.RGBAAt(32, 32)
	if got.R < 200 || got.G > 50 {
		t.Errorf("center pixel = %v, want front (red) quad", got)
	}
}

func quadMesh(z float32, color math32.Vector3) *geometry.TriangleMesh {
	m := &geometry.TriangleMesh{
		Vertices: []math32.Vector3{
			math32.Vec3(-1, -1, z), math32.Vec3(1, -1, z),
			math32.Vec3(1, 1, z), math32.Vec3(-1, 1, z),
		},
		Triangles: [][3]uint32{{0, 1, 2}, {0, 2, 3}},
	}
	m.ComputeVertexNormals()
	return m.PaintUniformColor(color)
}

func TestCaptureScreenImage(t *testing.T) {
	v, _ := newSoftSession(t)
	if _, ok := v.CaptureScreenImage(); ok {
		t.Fatal("capture before the first frame must fail")
	}
	v.PollEvents()
	im, ok := v.CaptureScreenImage()
	if !ok {
		t.Fatal("capture failed")
	}
	if im.Width != 64 || im.Height != 64 {
		t.Errorf("captured %dx%d, want 64x64", im.Width, im.Height)
	}
}

func TestCaptureScreenImageMockDeviceUnsupported(t *testing.T) {
	v, _ := newTestSession(t)
	v.PollEvents()
	if _, ok := v.CaptureScreenImage(); ok {
		t.Error("mock device does not retain frames; capture must fail")
	}
}
