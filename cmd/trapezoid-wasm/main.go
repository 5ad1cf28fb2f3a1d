//go:build js && wasm

// Command trapezoid-wasm draws the trapezoid into the page's canvas.
// Build it with GOOS=js GOARCH=wasm and serve it with "trapezoid serve".
package main

import (
	"log/slog"
	"os"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/backend/webgl"
	"github.com/gogpu/trapezoid/web"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	trapezoid.SetLogger(logger)

	canvas, err := webgl.LookupCanvas(web.CanvasID)
	if err != nil {
		logger.Error("lookup canvas", "err", err)
		os.Exit(1)
	}
	if _, err := trapezoid.Bootstrap(canvas); err != nil {
		logger.Error("bootstrap", "err", err)
		os.Exit(1)
	}
}
