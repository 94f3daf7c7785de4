// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

// Package visualization implements an interactive 3D visualization
// session: a geometry registry, a render loop with an animation
// callback slot, camera view control and render options.
//
// A Visualizer is owned by a single control goroutine. CreateSession,
// the loop methods (WaitEvents, PollEvents, Run), Close and all
// geometry operations must be called from that goroutine; the type
// carries no internal locking. UpdateRender is the only method safe to
// call from other goroutines.
//
// Window and rendering device backends attach through priority
// registries. The package ships a headless window and a software
// rasterizer so a session always runs; the glfwwin and wgpudev
// subpackages register windowed and GPU backends when imported:
//
//	import (
//	    "github.com/longwoo/cupoch/visualization"
//	    _ "github.com/longwoo/cupoch/visualization/glfwwin"
//	    _ "github.com/longwoo/cupoch/visualization/wgpudev"
//	)
//
//	vis := visualization.NewVisualizer()
//	if err := vis.CreateSession(visualization.WithTitle("cloud")); err != nil {
//	    log.Fatal(err)
//	}
//	vis.AddGeometry(cloud)
//	vis.Run()
package visualization
