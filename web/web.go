// Package web holds the host page that loads the trapezoid wasm module.
package web

import _ "embed"

// Index is the page served at /. It expects wasm_exec.js and main.wasm
// next to it and provides the <canvas id="canvas"> element.
//
//go:embed index.html
var Index []byte

// CanvasID is the id of the canvas element in Index.
const CanvasID = "canvas"
