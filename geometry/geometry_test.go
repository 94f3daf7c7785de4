package geometry

import (
	"image"
	"image/color"
	"math"
	"testing"

	"cogentcore.org/core/math32"
)

func TestPointCloudBounds(t *testing.T) {
	pc := NewPointCloud()
	if !pc.IsEmpty() {
		t.Fatal("new point cloud should be empty")
	}
	if !pc.Bounds().IsEmpty() {
		t.Fatal("empty point cloud should have empty bounds")
	}
	pc.Points = []math32.Vector3{
		math32.Vec3(-1, 0, 2),
		math32.Vec3(3, -4, 0),
	}
	b := pc.Bounds()
	if b.Min.X != -1 || b.Min.Y != -4 || b.Max.X != 3 || b.Max.Z != 2 {
		t.Errorf("bounds = %v", b)
	}
}

func TestPaintUniformColor(t *testing.T) {
	pc := &PointCloud{Points: make([]math32.Vector3, 5)}
	if pc.HasColors() {
		t.Fatal("no colors yet")
	}
	pc.PaintUniformColor(math32.Vec3(1, 0.5, 0))
	if !pc.HasColors() {
		t.Fatal("expected colors after paint")
	}
	for _, c := range pc.Colors {
		if c != math32.Vec3(1, 0.5, 0) {
			t.Fatalf("color = %v", c)
		}
	}
}

func TestComputeVertexNormals(t *testing.T) {
	m := &TriangleMesh{
		Vertices: []math32.Vector3{
			math32.Vec3(0, 0, 0),
			math32.Vec3(1, 0, 0),
			math32.Vec3(0, 1, 0),
		},
		Triangles: [][3]uint32{{0, 1, 2}},
	}
	m.ComputeVertexNormals()
	if !m.HasVertexNormals() {
		t.Fatal("expected normals")
	}
	for _, n := range m.VertexNormals {
		if math.Abs(float64(n.Z-1)) > 1e-5 {
			t.Errorf("normal = %v, want +Z", n)
		}
	}
}

func TestBoxLineSet(t *testing.T) {
	b := math32.B3Empty()
	b.ExpandByPoint(math32.Vec3(0, 0, 0))
	b.ExpandByPoint(math32.Vec3(1, 2, 3))
	ls := BoxLineSet(b, math32.Vec3(1, 0, 0))
	if len(ls.Lines) != 12 || len(ls.Points) != 8 {
		t.Fatalf("lines=%d points=%d", len(ls.Lines), len(ls.Points))
	}
	if !ls.HasColors() {
		t.Fatal("expected per-line colors")
	}
	if got := ls.Bounds(); got.Max != math32.Vec3(1, 2, 3) {
		t.Errorf("bounds max = %v", got.Max)
	}
}

func TestCoordinateFrame(t *testing.T) {
	m := NewCoordinateFrame(1, math32.Vec3(0, 0, 0))
	if m.IsEmpty() {
		t.Fatal("frame mesh is empty")
	}
	if !m.HasVertexColors() || !m.HasVertexNormals() {
		t.Fatal("frame mesh must carry colors and normals")
	}
	b := m.Bounds()
	if b.Max.X < 0.9 || b.Max.Y < 0.9 || b.Max.Z < 0.9 {
		t.Errorf("axes should reach ~1 along each axis: %v", b)
	}
}

func TestBoxMeshWinding(t *testing.T) {
	m := NewBoxMesh(math32.Vec3(1, 1, 1), math32.Vec3(0, 0, 0))
	if len(m.Triangles) != 12 {
		t.Fatalf("triangles = %d", len(m.Triangles))
	}
	// Outward winding means every face normal points away from center.
	c := math32.Vec3(0.5, 0.5, 0.5)
	for i, tr := range m.Triangles {
		v0, v1, v2 := m.Vertices[tr[0]], m.Vertices[tr[1]], m.Vertices[tr[2]]
		fn := v1.Sub(v0).Cross(v2.Sub(v0))
		mid := v0.Add(v1).Add(v2).MulScalar(1.0 / 3.0)
		if fn.Dot(mid.Sub(c)) <= 0 {
			t.Errorf("triangle %d winds inward", i)
		}
	}
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	im := FromRGBA(src)
	if im.IsEmpty() || im.Width != 4 || im.Height != 2 {
		t.Fatalf("image %dx%d empty=%v", im.Width, im.Height, im.IsEmpty())
	}
	back := im.ToRGBA()
	if got := back.RGBAAt(1, 1); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel = %v", got)
	}
	small := im.Resized(2, 1)
	if small.Width != 2 || small.Height != 1 {
		t.Errorf("resized to %dx%d", small.Width, small.Height)
	}
}
