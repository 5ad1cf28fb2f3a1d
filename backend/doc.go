// Package backend is a registry of canvas implementations.
//
// Backends register a Factory from their init() functions and are
// selected by name at runtime, typically from a command-line flag:
//
//	import (
//		"github.com/gogpu/trapezoid/backend"
//		_ "github.com/gogpu/trapezoid/backend/software"
//	)
//
//	canvas, err := backend.NewCanvas("software", 300, 150)
//
// Default picks the best registered backend, preferring wgpu and falling
// back to software when no GPU adapter can be opened.
package backend
