//go:build js && wasm

package webgl

import (
	"syscall/js"

	"github.com/gogpu/trapezoid/gl"
)

// Context forwards gl.Context calls to a WebGL2RenderingContext.
type Context struct {
	gl js.Value

	objects  map[uint32]js.Value
	next     uint32
	uniforms *locations[js.Value]
}

var _ gl.Context = (*Context)(nil)

// NewContext wraps a WebGL2RenderingContext value.
func NewContext(v js.Value) *Context {
	return &Context{gl: v, objects: make(map[uint32]js.Value), uniforms: newLocations[js.Value]()}
}

// Value returns the underlying JavaScript context.
func (c *Context) Value() js.Value { return c.gl }

func (c *Context) put(v js.Value) uint32 {
	if !v.Truthy() {
		return 0
	}
	c.next++
	c.objects[c.next] = v
	return c.next
}

// get returns null for unknown handles, which WebGL reports as an error.
func (c *Context) get(id uint32) js.Value {
	if v, ok := c.objects[id]; ok {
		return v
	}
	return js.Null()
}

func (c *Context) drop(id uint32) { delete(c.objects, id) }

func (c *Context) GetError() gl.Enum {
	return gl.Enum(c.gl.Call("getError").Int())
}

func (c *Context) CreateShader(ty gl.Enum) gl.Shader {
	return gl.Shader{V: c.put(c.gl.Call("createShader", int(ty)))}
}

func (c *Context) ShaderSource(s gl.Shader, src string) {
	c.gl.Call("shaderSource", c.get(s.V), src)
}

func (c *Context) CompileShader(s gl.Shader) {
	c.gl.Call("compileShader", c.get(s.V))
}

func (c *Context) GetShaderi(s gl.Shader, pname gl.Enum) int {
	return paramInt(c.gl.Call("getShaderParameter", c.get(s.V), int(pname)))
}

func (c *Context) GetShaderInfoLog(s gl.Shader) string {
	return stringOrEmpty(c.gl.Call("getShaderInfoLog", c.get(s.V)))
}

func (c *Context) DeleteShader(s gl.Shader) {
	c.gl.Call("deleteShader", c.get(s.V))
	c.drop(s.V)
}

func (c *Context) CreateProgram() gl.Program {
	return gl.Program{V: c.put(c.gl.Call("createProgram"))}
}

func (c *Context) AttachShader(p gl.Program, s gl.Shader) {
	c.gl.Call("attachShader", c.get(p.V), c.get(s.V))
}

func (c *Context) LinkProgram(p gl.Program) {
	c.gl.Call("linkProgram", c.get(p.V))
}

func (c *Context) GetProgrami(p gl.Program, pname gl.Enum) int {
	return paramInt(c.gl.Call("getProgramParameter", c.get(p.V), int(pname)))
}

func (c *Context) GetProgramInfoLog(p gl.Program) string {
	return stringOrEmpty(c.gl.Call("getProgramInfoLog", c.get(p.V)))
}

func (c *Context) DeleteProgram(p gl.Program) {
	c.gl.Call("deleteProgram", c.get(p.V))
	c.uniforms.forget(p.V)
	c.drop(p.V)
}

func (c *Context) UseProgram(p gl.Program) {
	c.gl.Call("useProgram", c.get(p.V))
}

func (c *Context) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	return gl.Attrib(c.gl.Call("getAttribLocation", c.get(p.V), name).Int())
}

func (c *Context) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	loc := c.gl.Call("getUniformLocation", c.get(p.V), name)
	if !loc.Truthy() {
		return gl.InvalidUniform
	}
	return gl.Uniform{V: c.uniforms.put(p.V, name, loc)}
}

func (c *Context) uniform(u gl.Uniform) js.Value {
	if v, ok := c.uniforms.get(u.V); ok && v.Truthy() {
		return v
	}
	return js.Null()
}

func (c *Context) Uniform2f(u gl.Uniform, v0, v1 float32) {
	c.gl.Call("uniform2f", c.uniform(u), v0, v1)
}

func (c *Context) Uniform4f(u gl.Uniform, v0, v1, v2, v3 float32) {
	c.gl.Call("uniform4f", c.uniform(u), v0, v1, v2, v3)
}

func (c *Context) CreateBuffer() gl.Buffer {
	return gl.Buffer{V: c.put(c.gl.Call("createBuffer"))}
}

func (c *Context) BindBuffer(target gl.Enum, b gl.Buffer) {
	c.gl.Call("bindBuffer", int(target), c.get(b.V))
}

// BufferData copies data into a Uint8Array view, which WebGL accepts for
// any buffer target.
func (c *Context) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	c.gl.Call("bufferData", int(target), arr, int(usage))
}

func (c *Context) CreateVertexArray() gl.VertexArray {
	return gl.VertexArray{V: c.put(c.gl.Call("createVertexArray"))}
}

func (c *Context) BindVertexArray(a gl.VertexArray) {
	c.gl.Call("bindVertexArray", c.get(a.V))
}

func (c *Context) EnableVertexAttribArray(a gl.Attrib) {
	c.gl.Call("enableVertexAttribArray", int(a))
}

func (c *Context) VertexAttribPointer(a gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	c.gl.Call("vertexAttribPointer", int(a), size, int(ty), normalized, stride, offset)
}

func (c *Context) Viewport(x, y, width, height int) {
	c.gl.Call("viewport", x, y, width, height)
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.gl.Call("clearColor", r, g, b, a)
}

func (c *Context) Clear(mask gl.Enum) {
	c.gl.Call("clear", int(mask))
}

func (c *Context) DrawArrays(mode gl.Enum, first, count int) {
	c.gl.Call("drawArrays", int(mode), first, count)
}

func (c *Context) ReadPixels(x, y, width, height int, data []byte) {
	arr := js.Global().Get("Uint8Array").New(len(data))
	c.gl.Call("readPixels", x, y, width, height, int(gl.RGBA), int(gl.UNSIGNED_BYTE), arr)
	js.CopyBytesToGo(data, arr)
}

// paramInt converts a getShaderParameter/getProgramParameter result, which
// is a boolean for status queries and a number otherwise.
func paramInt(v js.Value) int {
	switch v.Type() {
	case js.TypeBoolean:
		if v.Bool() {
			return 1
		}
		return 0
	case js.TypeNumber:
		return v.Int()
	}
	return 0
}

func stringOrEmpty(v js.Value) string {
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}
