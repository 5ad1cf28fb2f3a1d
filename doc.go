// Package trapezoid draws two solid triangles into a WebGL2 context.
//
// # Overview
//
// Bootstrap is a one-shot procedure: it acquires a "webgl2" context from
// an injected Canvas, compiles and links a fixed shader pair, uploads six
// vertices, sets the resolution and colour uniforms and issues a single
// draw call. The result is a teal trapezoid-shaped band near the top-left
// corner of the canvas on a transparent background.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/trapezoid"
//	    "github.com/gogpu/trapezoid/backend/software"
//	)
//
//	canvas := software.NewCanvas(300, 150)
//	scene, err := trapezoid.Bootstrap(canvas)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pm := trapezoid.ReadPixmap(scene.Context, scene.Width, scene.Height)
//	pm.SavePNG("trapezoid.png")
//
// # Backends
//
// The graphics context is the gl.Context interface. Three implementations
// exist:
//   - backend/software: headless reference rasterizer
//   - backend/webgl: the browser's WebGL2 via syscall/js (js/wasm only)
//   - backend/wgpu: offscreen rendering on gogpu/wgpu
//
// # Coordinate System
//
// Vertex positions are in pixels with the origin at the top-left corner,
// X increasing right and Y increasing down. The vertex shader maps them to
// clip space using the resolution uniform.
//
// # Errors
//
// Failures are returned, never swallowed: ErrContextUnavailable when the
// canvas has no WebGL2 support, *CompileError and *LinkError when shaders
// are rejected, ErrMissingLocation when the program lacks a bound name.
package trapezoid

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
