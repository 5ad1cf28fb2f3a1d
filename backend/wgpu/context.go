//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/internal/glsl"
	"github.com/gogpu/trapezoid/internal/glstate"
	"github.com/gogpu/trapezoid/shaders"
)

// Context implements gl.Context on a wgpu device. It is not safe for
// concurrent use.
type Context struct {
	*glstate.State

	device hal.Device
	queue  hal.Queue

	width, height int
	sets          []shaders.Set

	target     hal.Texture
	targetView hal.TextureView

	// clearPending is set by Clear and consumed by the next pass, which
	// then loads with clearColor instead of the previous contents.
	clearPending bool
	clearColor   [4]float32

	programs []*gpuProgram
}

var _ gl.Context = (*Context)(nil)

// NewContext creates a context rendering into a width×height target on
// dev. sets lists the shader pairs with WGSL translations the context can
// run; the embedded default set is always included.
func NewContext(dev *Device, width, height int, sets ...shaders.Set) *Context {
	return &Context{
		State:  glstate.New(width, height),
		device: dev.device,
		queue:  dev.queue,
		width:  width,
		height: height,
		sets:   append([]shaders.Set{shaders.Default()}, sets...),
	}
}

// LinkProgram links the GLSL pair and builds the GPU pipeline for its WGSL
// translation. A pair without a registered translation fails to link. On
// failure the program keeps its previous executable and pipeline.
func (c *Context) LinkProgram(p gl.Program) {
	var prev *glsl.Program
	if prog := c.Program(p); prog != nil {
		prev = prog.Linked
	}
	c.State.LinkProgram(p)
	prog := c.Program(p)
	if prog == nil || !prog.OK {
		return
	}

	set, ok := c.lookupSet(prog.VS.Source, prog.FS.Source)
	if !ok {
		c.FailLink(p, prev, "error: no WGSL translation registered for this shader pair\n")
		return
	}
	gp, err := c.createProgram(set, prog)
	if err != nil {
		c.Logger().Error("wgpu: create pipeline", "err", err)
		c.FailLink(p, prev, "error: "+err.Error()+"\n")
		return
	}
	if old, ok := prog.Backend.(*gpuProgram); ok {
		c.destroyProgram(old)
	}
	prog.Backend = gp
	c.programs = append(c.programs, gp)
}

func (c *Context) lookupSet(vs, fs string) (shaders.Set, bool) {
	for _, s := range c.sets {
		if s.WGSL != "" && s.Matches(vs, fs) {
			return s, true
		}
	}
	return shaders.Set{}, false
}

// Clear defers the colour clear to the next render pass.
func (c *Context) Clear(mask gl.Enum) {
	if !c.CheckClear(mask) {
		return
	}
	c.clearPending = true
	c.clearColor = c.ClearValue()
}

func (c *Context) DrawArrays(mode gl.Enum, first, count int) {
	prog, ok := c.CheckDraw(mode, first, count)
	if !ok {
		return
	}
	gp, ok := prog.Backend.(*gpuProgram)
	if !ok {
		c.SetError(gl.INVALID_OPERATION, "DrawArrays")
		return
	}
	tris := glstate.Triangles(mode, count)
	if len(tris) == 0 {
		return
	}
	vertices := gp.gatherVertices(c.State, prog.Linked, first, tris)
	if err := c.draw(gp, prog.Linked, vertices, uint32(len(tris)*3)); err != nil {
		c.Logger().Error("wgpu: draw", "err", err)
		c.SetError(gl.CONTEXT_LOST_WEBGL, "DrawArrays")
		return
	}
	c.Logger().Debug("wgpu: draw", "first", first, "count", count, "triangles", len(tris))
}

func (c *Context) ReadPixels(x, y, width, height int, data []byte) {
	if !c.CheckReadPixels(width, height, data) {
		return
	}
	fb, err := c.readback()
	if err != nil {
		c.Logger().Error("wgpu: readback", "err", err)
		c.SetError(gl.CONTEXT_LOST_WEBGL, "ReadPixels")
		return
	}
	glstate.CopyRect(fb, c.width, c.height, x, y, width, height, data)
}

// Destroy releases every GPU resource the context created. The device is
// left open.
func (c *Context) Destroy() {
	for _, gp := range c.programs {
		c.destroyProgram(gp)
	}
	c.programs = nil
	if c.targetView != nil {
		c.device.DestroyTextureView(c.targetView)
		c.targetView = nil
	}
	if c.target != nil {
		c.device.DestroyTexture(c.target)
		c.target = nil
	}
}
