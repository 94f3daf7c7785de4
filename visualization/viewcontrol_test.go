package visualization

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestViewControlEmptySceneFramesUnitBox(t *testing.T) {
	vc := NewViewControl(640, 480)
	b := vc.Bounds()
	if b.IsEmpty() {
		t.Fatal("empty scene must frame a fallback box")
	}
	if c := b.Center(); c != math32.Vec3(0, 0, 0) {
		t.Errorf("fallback box center = %v, want origin", c)
	}
}

func TestViewControlFraming(t *testing.T) {
	vc := NewViewControl(640, 480)
	box := math32.B3Empty()
	box.ExpandByPoint(math32.Vec3(10, 10, 10))
	box.ExpandByPoint(math32.Vec3(20, 20, 20))
	vc.FitInGeometry(box)

	if got := vc.LookAt; got != math32.Vec3(15, 15, 15) {
		t.Errorf("look-at = %v, want box center", got)
	}
	eye := vc.Eye()
	if eye.Sub(vc.LookAt).Length() <= 0 {
		t.Error("eye must sit away from the look-at point")
	}
}

func TestViewControlRotateKeepsDistance(t *testing.T) {
	vc := NewViewControl(640, 480)
	before := vc.Eye().Sub(vc.LookAt).Length()
	view := vc.ViewMatrix
	vc.Rotate(120, 45)
	after := vc.Eye().Sub(vc.LookAt).Length()
	if diff := after - before; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("orbit distance changed by %v", diff)
	}
	if vc.ViewMatrix == view {
		t.Error("view matrix unchanged by rotation")
	}
}

func TestViewControlFOVClamp(t *testing.T) {
	vc := NewViewControl(640, 480)
	vc.ChangeFOV(100)
	if vc.FOV != fovMax {
		t.Errorf("FOV = %v, want clamped to %v", vc.FOV, float32(fovMax))
	}
	vc.ChangeFOV(-100)
	if vc.FOV != fovMin {
		t.Errorf("FOV = %v, want clamped to %v", vc.FOV, float32(fovMin))
	}
}

func TestViewControlZoomClamp(t *testing.T) {
	vc := NewViewControl(640, 480)
	vc.Scale(1000)
	if vc.Zoom != zoomMin {
		t.Errorf("zoom = %v, want %v", vc.Zoom, float32(zoomMin))
	}
	vc.Scale(-1000)
	if vc.Zoom != zoomMax {
		t.Errorf("zoom = %v, want %v", vc.Zoom, float32(zoomMax))
	}
}

func TestViewControlTranslateMovesLookAt(t *testing.T) {
	vc := NewViewControl(640, 480)
	before := vc.LookAt
	vc.Translate(50, 0)
	if vc.LookAt == before {
		t.Error("look-at unchanged by pan")
	}
}

func TestViewControlResetRestoresPose(t *testing.T) {
	vc := NewViewControl(640, 480)
	vc.Rotate(200, 100)
	vc.Scale(3)
	vc.Reset()
	if vc.Front != math32.Vec3(0, 0, 1) || vc.Up != math32.Vec3(0, 1, 0) {
		t.Errorf("pose not reset: front=%v up=%v", vc.Front, vc.Up)
	}
	if vc.Zoom != zoomDefault {
		t.Errorf("zoom = %v, want default", vc.Zoom)
	}
}

func TestResetViewPointRecomputesBounds(t *testing.T) {
	v, _ := newTestSession(t)
	pc := threePointCloud()
	v.AddGeometry(pc)
	// Move the cloud far away then reset with a bounding-box refit.
	for i := range pc.Points {
		pc.Points[i] = pc.Points[i].Add(math32.Vec3(100, 0, 0))
	}
	v.UpdateGeometry(pc)
	v.ResetViewPoint(true)
	c := v.ViewControl().Bounds().Center()
	if c.X < 99 {
		t.Errorf("bounds center = %v, want refit around x=100.5", c)
	}

	// Without the flag the old box must be kept.
	old := v.ViewControl().Bounds()
	for i := range pc.Points {
		pc.Points[i] = pc.Points[i].Add(math32.Vec3(100, 0, 0))
	}
	v.UpdateGeometry(pc)
	v.ResetViewPoint(false)
	if v.ViewControl().Bounds() != old {
		t.Error("ResetViewPoint(false) must not recompute the bounding box")
	}
}
