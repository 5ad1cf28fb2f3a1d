package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/trapezoid"
)

// Factory creates a canvas with the given backing size.
type Factory func(width, height int) (trapezoid.Canvas, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{NameWGPU, NameSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// NewCanvas creates a canvas from the named backend.
func NewCanvas(name string, width, height int) (trapezoid.Canvas, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrBackendNotAvailable, name, Available())
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return factory(width, height)
}

// Default creates a canvas from the best available backend. A backend
// whose factory fails is skipped in favour of the next one.
func Default(width, height int) (trapezoid.Canvas, string, error) {
	var errs []error
	for _, name := range backendPriority {
		if !IsRegistered(name) {
			continue
		}
		c, err := NewCanvas(name, width, height)
		if err == nil {
			return c, name, nil
		}
		errs = append(errs, err)
		trapezoid.Logger().Warn("backend: unavailable, trying next", "backend", name, "err", err)
	}
	if len(errs) > 0 {
		return nil, "", errs[len(errs)-1]
	}
	return nil, "", ErrBackendNotAvailable
}
