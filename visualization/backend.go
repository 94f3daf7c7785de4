// Copyright 2026 The cupoch Authors
// SPDX-License-Identifier: MIT

package visualization

import (
	"errors"
	"sort"
	"sync"
)

// Backend registries. Window and device backends register themselves,
// usually from an init function in their package, and sessions resolve
// the highest-priority available backend unless an option forces one
// by name.
//
// Standard priorities:
//   - 100: native backends (glfw windows, wgpu devices)
//   - 10: built-in fallbacks (headless window, software rasterizer)

// WindowFactory creates a window from the session configuration.
type WindowFactory func(cfg WindowConfig) (Window, error)

// DeviceFactory creates a rendering device.
type DeviceFactory func() (Device, error)

// ErrNoBackendAvailable is returned when no registered backend of the
// requested kind is available on this system.
var ErrNoBackendAvailable = errors.New("visualization: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Kind string // "window" or "device"
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "visualization: " + e.Kind + " backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not
// available on this system.
type BackendUnavailableError struct {
	Kind string
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "visualization: " + e.Kind + " backend unavailable: " + e.Name
}

type backendEntry[F any] struct {
	name      string
	priority  int
	factory   F
	available func() bool
}

type backendRegistry[F any] struct {
	kind    string
	mu      sync.RWMutex
	entries map[string]backendEntry[F]
}

func (r *backendRegistry[F]) register(name string, priority int, factory F, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]backendEntry[F])
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = backendEntry[F]{
		name:      name,
		priority:  priority,
		factory:   factory,
		available: available,
	}
}

func (r *backendRegistry[F]) unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// resolve returns the named backend's factory, or the highest-priority
// available one when name is empty.
func (r *backendRegistry[F]) resolve(name string) (F, error) {
	var zero F
	r.mu.RLock()
	defer r.mu.RUnlock()

	if name != "" {
		e, ok := r.entries[name]
		if !ok {
			return zero, &BackendNotFoundError{Kind: r.kind, Name: name}
		}
		if !e.available() {
			return zero, &BackendUnavailableError{Kind: r.kind, Name: name}
		}
		return e.factory, nil
	}

	for _, n := range r.sortedNames(true) {
		return r.entries[n].factory, nil
	}
	return zero, ErrNoBackendAvailable
}

// sortedNames returns backend names by priority, highest first. Must be
// called with the lock held.
func (r *backendRegistry[F]) sortedNames(onlyAvailable bool) []string {
	names := make([]string, 0, len(r.entries))
	for n, e := range r.entries {
		if onlyAvailable && !e.available() {
			continue
		}
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		ei, ej := r.entries[names[i]], r.entries[names[j]]
		if ei.priority != ej.priority {
			return ei.priority > ej.priority
		}
		return ei.name < ej.name
	})
	return names
}

var (
	windowRegistry = &backendRegistry[WindowFactory]{kind: "window"}
	deviceRegistry = &backendRegistry[DeviceFactory]{kind: "device"}
)

// RegisterWindowBackend adds a window backend. Higher priority wins
// during auto-selection; a nil available func means always available.
// Registering an existing name replaces it.
func RegisterWindowBackend(name string, priority int, factory WindowFactory, available func() bool) {
	windowRegistry.register(name, priority, factory, available)
}

// RegisterDevice adds a rendering device backend.
func RegisterDevice(name string, priority int, factory DeviceFactory, available func() bool) {
	deviceRegistry.register(name, priority, factory, available)
}

// WindowBackends returns available window backend names by priority.
func WindowBackends() []string {
	windowRegistry.mu.RLock()
	defer windowRegistry.mu.RUnlock()
	return windowRegistry.sortedNames(true)
}

// DeviceBackends returns available device backend names by priority.
func DeviceBackends() []string {
	deviceRegistry.mu.RLock()
	defer deviceRegistry.mu.RUnlock()
	return deviceRegistry.sortedNames(true)
}
