package software

import (
	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/internal/glstate"
)

// MaxVertexAttribs is the number of generic vertex attribute slots.
const MaxVertexAttribs = glstate.MaxVertexAttribs

// Context implements gl.Context on the CPU. It is not safe for concurrent
// use.
type Context struct {
	*glstate.State

	width, height int
	// fb holds RGBA8 pixels, bottom row first.
	fb []uint8
}

var _ gl.Context = (*Context)(nil)

// NewContext creates a context with a width×height framebuffer cleared to
// transparent black. The viewport initially covers the framebuffer.
func NewContext(width, height int) *Context {
	return &Context{
		State:  glstate.New(width, height),
		width:  width,
		height: height,
		fb:     make([]uint8, width*height*4),
	}
}

// Clear fills the whole framebuffer. There is no scissor test, and depth
// and stencil bits are accepted but have no buffer to clear.
func (c *Context) Clear(mask gl.Enum) {
	if !c.CheckClear(mask) {
		return
	}
	px := glstate.ToRGBA8(c.ClearValue())
	for i := 0; i < len(c.fb); i += 4 {
		copy(c.fb[i:i+4], px[:])
	}
}

func (c *Context) ReadPixels(x, y, width, height int, data []byte) {
	if c.CheckReadPixels(width, height, data) {
		glstate.CopyRect(c.fb, c.width, c.height, x, y, width, height, data)
	}
}
