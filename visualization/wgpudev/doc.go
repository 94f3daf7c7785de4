// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

// Package wgpudev provides the GPU rendering device on the gogpu/wgpu
// hardware abstraction layer. Importing the package registers the
// "wgpu" device backend:
//
//	import _ "github.com/longwoo/cupoch/visualization/wgpudev"
//
// The device renders into a 4x MSAA color target with a depth buffer
// and resolves either to an offscreen texture read back to the CPU, or
// directly to a caller-provided surface texture view (SetSurfaceTarget)
// for windowed presentation.
package wgpudev
