//go:build js && wasm

package webgl

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/gl"
)

// ErrNoCanvas is returned when no canvas element is given or found.
var ErrNoCanvas = errors.New("webgl: no <canvas> element")

// Canvas is a DOM <canvas> element.
type Canvas struct {
	el  js.Value
	ctx *Context
}

var _ trapezoid.Canvas = (*Canvas)(nil)

// NewCanvas wraps el, which must be a <canvas> element.
func NewCanvas(el js.Value) (*Canvas, error) {
	if !el.Truthy() {
		return nil, ErrNoCanvas
	}
	return &Canvas{el: el}, nil
}

// LookupCanvas finds the canvas element with the given id in the current
// document.
func LookupCanvas(id string) (*Canvas, error) {
	el := js.Global().Get("document").Call("getElementById", id)
	if !el.Truthy() {
		return nil, fmt.Errorf("%w: #%s", ErrNoCanvas, id)
	}
	return NewCanvas(el)
}

// Width returns the drawing-buffer width, not the CSS width.
func (c *Canvas) Width() int { return c.el.Get("width").Int() }

// Height returns the drawing-buffer height.
func (c *Canvas) Height() int { return c.el.Get("height").Int() }

// Context calls getContext(kind). The browser returns the same context
// object for repeated requests, and so does Context.
func (c *Canvas) Context(kind string) (gl.Context, error) {
	if c.ctx != nil && kind == gl.ContextWebGL2 {
		return c.ctx, nil
	}
	v := c.el.Call("getContext", kind)
	if !v.Truthy() {
		return nil, fmt.Errorf("webgl: getContext(%q): %w", kind, gl.ErrContextUnavailable)
	}
	if kind != gl.ContextWebGL2 {
		return nil, fmt.Errorf("webgl: context %q: %w", kind, gl.ErrContextUnavailable)
	}
	c.ctx = NewContext(v)
	return c.ctx, nil
}
