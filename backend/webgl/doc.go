// Package webgl binds trapezoid to a browser <canvas> element through
// syscall/js. It only builds for GOOS=js GOARCH=wasm.
//
// Object handles are small integers mapped to the browser's WebGL objects,
// so code written against gl.Context runs unchanged here and on the
// headless backends.
package webgl
