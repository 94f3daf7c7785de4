// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package visualization

import (
	"math"

	"cogentcore.org/core/math32"
)

const (
	fovMin  = 5
	fovMax  = 90
	fovStep = 5

	zoomDefault = 0.7
	zoomMin     = 0.02
	zoomMax     = 2.0
	zoomStep    = 0.9

	rotationRadianPerPixel = 0.003
)

// ViewControl holds the camera state: an orbit pose around a look-at
// point framed against the scene bounding box, plus the perspective
// projection. Matrices are recomputed by updateMatrices before each
// frame.
type ViewControl struct {
	// FOV is the vertical field of view in degrees, in [5, 90].
	FOV float32

	// LookAt is the orbit center.
	LookAt math32.Vector3

	// Front points from LookAt toward the eye.
	Front math32.Vector3

	// Up is the camera up direction.
	Up math32.Vector3

	// Zoom scales the orbit distance relative to the scene diagonal.
	Zoom float32

	ViewMatrix math32.Matrix4
	ProjMatrix math32.Matrix4

	bbox   math32.Box3
	width  int
	height int
}

// NewViewControl returns a view framing a unit box at the origin.
func NewViewControl(width, height int) *ViewControl {
	vc := &ViewControl{width: width, height: height}
	vc.FitInGeometry(math32.B3Empty())
	return vc
}

// SetSize updates the viewport size used for the aspect ratio.
func (vc *ViewControl) SetSize(width, height int) {
	if width > 0 && height > 0 {
		vc.width, vc.height = width, height
	}
}

// Size returns the viewport size.
func (vc *ViewControl) Size() (int, int) { return vc.width, vc.height }

// FitInGeometry frames a bounding box and resets the camera pose.
// Empty boxes frame a unit box at the origin so an empty scene still
// has a valid view.
func (vc *ViewControl) FitInGeometry(box math32.Box3) {
	if box.IsEmpty() {
		box = math32.B3Empty()
		box.ExpandByPoint(math32.Vec3(-0.5, -0.5, -0.5))
		box.ExpandByPoint(math32.Vec3(0.5, 0.5, 0.5))
	}
	vc.bbox = box
	vc.Reset()
}

// Bounds returns the framed bounding box.
func (vc *ViewControl) Bounds() math32.Box3 { return vc.bbox }

// Reset restores the default pose against the current bounding box:
// looking down -Z at the box center.
func (vc *ViewControl) Reset() {
	vc.FOV = 60
	vc.Zoom = zoomDefault
	vc.LookAt = vc.bbox.Center()
	vc.Front = math32.Vec3(0, 0, 1)
	vc.Up = math32.Vec3(0, 1, 0)
	vc.updateMatrices()
}

// Eye returns the camera position.
func (vc *ViewControl) Eye() math32.Vector3 {
	return vc.LookAt.Add(vc.Front.MulScalar(vc.distance()))
}

func (vc *ViewControl) diagonal() float32 {
	d := vc.bbox.Size().Length()
	if d <= 0 {
		d = 1
	}
	return d
}

func (vc *ViewControl) distance() float32 {
	return vc.Zoom * vc.diagonal() * 2
}

// Rotate orbits the camera: dx and dy are cursor deltas in pixels.
func (vc *ViewControl) Rotate(dx, dy float32) {
	right := vc.Up.Cross(vc.Front).Normal()
	var yaw, pitch math32.Quat
	yaw.SetFromAxisAngle(vc.Up, dx*rotationRadianPerPixel)
	pitch.SetFromAxisAngle(right, -dy*rotationRadianPerPixel)
	vc.Front = vc.Front.MulQuat(yaw).MulQuat(pitch).Normal()
	vc.Up = vc.Up.MulQuat(pitch).Normal()
	vc.updateMatrices()
}

// Translate pans the look-at point in the view plane: dx and dy are
// cursor deltas in pixels.
func (vc *ViewControl) Translate(dx, dy float32) {
	// World units per pixel at the look-at depth.
	f := 2 * vc.distance() * float32(math.Tan(float64(math32.DegToRad(vc.FOV/2)))) / float32(vc.height)
	right := vc.Up.Cross(vc.Front).Normal()
	vc.LookAt = vc.LookAt.
		Add(right.MulScalar(dx * f)).
		Add(vc.Up.MulScalar(dy * f))
	vc.updateMatrices()
}

// Scale zooms by steps; positive steps move the camera closer.
func (vc *ViewControl) Scale(steps float32) {
	vc.Zoom = clampf(vc.Zoom*float32(math.Pow(zoomStep, float64(steps))), zoomMin, zoomMax)
	vc.updateMatrices()
}

// ChangeFOV steps the field of view, clamped to [5, 90] degrees.
func (vc *ViewControl) ChangeFOV(steps float32) {
	vc.FOV = clampf(vc.FOV+steps*fovStep, fovMin, fovMax)
	vc.updateMatrices()
}

// updateMatrices recomputes the view and projection matrices from the
// pose. The view matrix is the inverse of the camera world transform.
func (vc *ViewControl) updateMatrices() {
	eye := vc.Eye()
	var lookq math32.Quat
	lookq.SetFromRotationMatrix(math32.NewLookAt(eye, vc.LookAt, vc.Up))
	var cam math32.Matrix4
	cam.SetTransform(eye, lookq, math32.Vec3(1, 1, 1))
	view, _ := cam.Inverse()
	vc.ViewMatrix = *view

	aspect := float32(1)
	if vc.width > 0 && vc.height > 0 {
		aspect = float32(vc.width) / float32(vc.height)
	}
	dist, diag := vc.distance(), vc.diagonal()
	near := dist - diag
	if near < 0.01 {
		near = 0.01
	}
	far := dist + 2*diag
	vc.ProjMatrix.SetPerspective(vc.FOV, aspect, near, far)
}
