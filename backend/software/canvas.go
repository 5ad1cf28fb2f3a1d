package software

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/backend"
	"github.com/gogpu/trapezoid/gl"
)

func init() {
	backend.Register(backend.NameSoftware, func(width, height int) (trapezoid.Canvas, error) {
		return NewCanvas(width, height), nil
	})
}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithoutContext makes every Context request fail, like a browser without
// WebGL2 support.
func WithoutContext() CanvasOption {
	return func(c *Canvas) {
		c.disabled = true
	}
}

// Canvas is an offscreen drawing surface. Its WebGL2 context is created on
// first request and returned again on later requests.
type Canvas struct {
	width, height int
	disabled      bool
	ctx           *Context
	logger        *slog.Logger
	requests      int
}

var _ trapezoid.Canvas = (*Canvas)(nil)

// NewCanvas creates a canvas with the given backing size.
func NewCanvas(width, height int, opts ...CanvasOption) *Canvas {
	c := &Canvas{width: width, height: height}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Width returns the backing width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the backing height in pixels.
func (c *Canvas) Height() int { return c.height }

// Requests returns how many times Context has been called.
func (c *Canvas) Requests() int { return c.requests }

// SetLogger sets the logger handed to the context.
func (c *Canvas) SetLogger(l *slog.Logger) {
	c.logger = l
	if c.ctx != nil {
		c.ctx.SetLogger(l)
	}
}

// Context returns the canvas's WebGL2 context. Other kinds are not
// supported.
func (c *Canvas) Context(kind string) (gl.Context, error) {
	c.requests++
	if c.disabled || kind != gl.ContextWebGL2 {
		return nil, fmt.Errorf("software: context %q: %w", kind, gl.ErrContextUnavailable)
	}
	if c.ctx == nil {
		c.ctx = NewContext(c.width, c.height)
		if c.logger != nil {
			c.ctx.SetLogger(c.logger)
		}
	}
	return c.ctx, nil
}
