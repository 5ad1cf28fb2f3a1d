//go:build !nogpu

package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/backend"
	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/shaders"
)

func init() {
	backend.Register(backend.NameWGPU, func(width, height int) (trapezoid.Canvas, error) {
		dev, err := Open()
		if err != nil {
			return nil, err
		}
		return NewCanvas(dev, width, height, WithOwnedDevice()), nil
	})
}

// CanvasOption configures a Canvas.
type CanvasOption func(*Canvas)

// WithOwnedDevice makes Close also close the device.
func WithOwnedDevice() CanvasOption {
	return func(c *Canvas) {
		c.ownsDevice = true
	}
}

// WithShaderSet registers an additional GLSL pair and its WGSL
// translation. Programs built from unregistered pairs fail to link.
func WithShaderSet(s shaders.Set) CanvasOption {
	return func(c *Canvas) {
		c.sets = append(c.sets, s)
	}
}

// Canvas is an offscreen surface backed by a GPU texture.
type Canvas struct {
	width, height int
	dev           *Device
	ownsDevice    bool
	sets          []shaders.Set
	ctx           *Context
	logger        *slog.Logger
}

var _ trapezoid.Canvas = (*Canvas)(nil)

// NewCanvas creates a canvas of the given backing size rendering on dev.
func NewCanvas(dev *Device, width, height int, opts ...CanvasOption) *Canvas {
	c := &Canvas{dev: dev, width: width, height: height}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// SetLogger sets the logger handed to the context.
func (c *Canvas) SetLogger(l *slog.Logger) {
	c.logger = l
	if c.ctx != nil {
		c.ctx.SetLogger(l)
	}
}

// Context returns the canvas's WebGL2 context, creating it on first use.
func (c *Canvas) Context(kind string) (gl.Context, error) {
	if kind != gl.ContextWebGL2 || c.dev == nil || c.dev.device == nil {
		return nil, fmt.Errorf("wgpu: context %q: %w", kind, gl.ErrContextUnavailable)
	}
	if c.ctx == nil {
		c.ctx = NewContext(c.dev, c.width, c.height, c.sets...)
		if c.logger != nil {
			c.ctx.SetLogger(c.logger)
		}
	}
	return c.ctx, nil
}

// Close releases the context's GPU resources, and the device when the
// canvas owns it.
func (c *Canvas) Close() error {
	if c.ctx != nil {
		c.ctx.Destroy()
		c.ctx = nil
	}
	if c.ownsDevice && c.dev != nil {
		c.dev.Close()
		c.dev = nil
	}
	return nil
}
