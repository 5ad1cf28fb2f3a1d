package backend

import "errors"

// Backend names.
const (
	// NameSoftware is the CPU reference rasterizer.
	NameSoftware = "software"
	// NameWGPU is the offscreen gogpu/wgpu renderer.
	NameWGPU = "wgpu"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrInvalidSize is returned for non-positive canvas dimensions.
	ErrInvalidSize = errors.New("backend: invalid canvas size")
)
