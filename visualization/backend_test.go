package visualization

import (
	"errors"
	"testing"
)

func TestDeviceBackendNotFound(t *testing.T) {
	v := NewVisualizer()
	err := v.CreateSession(
		WithWindowBackend("headless"),
		WithDeviceBackend("no-such-device"),
	)
	var nf *BackendNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want BackendNotFoundError", err)
	}
	if nf.Kind != "device" || nf.Name != "no-such-device" {
		t.Errorf("error fields = %q %q", nf.Kind, nf.Name)
	}
	if v.Stage() != StageUninitialized {
		t.Error("failed creation must leave the session uninitialized")
	}
}

func TestWindowBackendUnavailable(t *testing.T) {
	RegisterWindowBackend("test-unavailable", 1,
		func(WindowConfig) (Window, error) { return nil, nil },
		func() bool { return false })
	defer windowRegistry.unregister("test-unavailable")

	v := NewVisualizer()
	err := v.CreateSession(WithWindowBackend("test-unavailable"))
	var ua *BackendUnavailableError
	if !errors.As(err, &ua) {
		t.Fatalf("err = %v, want BackendUnavailableError", err)
	}
}

func TestBackendPriorityOrder(t *testing.T) {
	RegisterDevice("test-low", 1, func() (Device, error) { return newMockDevice(), nil }, nil)
	RegisterDevice("test-high", 90, func() (Device, error) { return newMockDevice(), nil }, nil)
	defer deviceRegistry.unregister("test-low")
	defer deviceRegistry.unregister("test-high")

	names := DeviceBackends()
	pos := map[string]int{}
	for i, n := range names {
		pos[n] = i
	}
	if pos["test-high"] > pos["test-low"] {
		t.Errorf("priority order wrong: %v", names)
	}
}

func TestUnavailableBackendSkippedInAutoSelect(t *testing.T) {
	RegisterDevice("test-broken", 999,
		func() (Device, error) { return nil, nil },
		func() bool { return false })
	defer deviceRegistry.unregister("test-broken")

	for _, n := range DeviceBackends() {
		if n == "test-broken" {
			t.Fatal("unavailable backend listed as available")
		}
	}
}

func TestBuiltinBackendsRegistered(t *testing.T) {
	foundWin, foundDev := false, false
	for _, n := range WindowBackends() {
		if n == "headless" {
			foundWin = true
		}
	}
	for _, n := range DeviceBackends() {
		if n == "soft" {
			foundDev = true
		}
	}
	if !foundWin || !foundDev {
		t.Errorf("builtin backends missing: headless=%v soft=%v", foundWin, foundDev)
	}
}
