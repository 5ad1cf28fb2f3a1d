// Package gl describes the WebGL2 command interface used by trapezoid.
//
// Only the subset of WebGL2 needed to build one program, upload one vertex
// buffer and issue draw calls is modelled. Handles are opaque integers so
// that headless implementations and the browser binding can share the same
// types; the zero handle is never a valid object.
package gl

import (
	"errors"
	"fmt"
)

// ContextWebGL2 is the context kind requested from a canvas.
const ContextWebGL2 = "webgl2"

// ErrContextUnavailable is returned by a canvas that cannot provide the
// requested context kind.
var ErrContextUnavailable = errors.New("gl: context unavailable")

type (
	// Enum is a GL enumerant.
	Enum uint32

	// Attrib is a vertex attribute location. Negative values are invalid.
	Attrib int32
)

type (
	Shader      struct{ V uint32 }
	Program     struct{ V uint32 }
	Buffer      struct{ V uint32 }
	VertexArray struct{ V uint32 }
	Uniform     struct{ V int32 }
)

// InvalidUniform is returned for names that do not resolve to an active uniform.
var InvalidUniform = Uniform{V: -1}

func (s Shader) Valid() bool      { return s.V != 0 }
func (p Program) Valid() bool     { return p.V != 0 }
func (b Buffer) Valid() bool      { return b.V != 0 }
func (a VertexArray) Valid() bool { return a.V != 0 }
func (u Uniform) Valid() bool     { return u.V >= 0 }
func (a Attrib) Valid() bool      { return a >= 0 }

// Error is a GL error code reported by Context.GetError.
type Error Enum

func (e Error) Error() string {
	switch Enum(e) {
	case INVALID_ENUM:
		return "gl: INVALID_ENUM"
	case INVALID_VALUE:
		return "gl: INVALID_VALUE"
	case INVALID_OPERATION:
		return "gl: INVALID_OPERATION"
	case OUT_OF_MEMORY:
		return "gl: OUT_OF_MEMORY"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "gl: INVALID_FRAMEBUFFER_OPERATION"
	case CONTEXT_LOST_WEBGL:
		return "gl: CONTEXT_LOST_WEBGL"
	}
	return fmt.Sprintf("gl: error 0x%04x", uint32(e))
}

// Context is a WebGL2 rendering context.
//
// Implementations follow WebGL error semantics: invalid calls record an
// error retrievable with GetError and otherwise have no effect.
type Context interface {
	GetError() Enum

	CreateShader(ty Enum) Shader
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int
	GetShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() Program
	AttachShader(p Program, s Shader)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int
	GetProgramInfoLog(p Program) string
	DeleteProgram(p Program)
	UseProgram(p Program)

	GetAttribLocation(p Program, name string) Attrib
	GetUniformLocation(p Program, name string) Uniform
	Uniform2f(u Uniform, v0, v1 float32)
	Uniform4f(u Uniform, v0, v1, v2, v3 float32)

	CreateBuffer() Buffer
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)

	CreateVertexArray() VertexArray
	BindVertexArray(a VertexArray)
	EnableVertexAttribArray(a Attrib)
	VertexAttribPointer(a Attrib, size int, ty Enum, normalized bool, stride, offset int)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	DrawArrays(mode Enum, first, count int)

	// ReadPixels reads an RGBA8 rectangle in GL row order (bottom row first).
	ReadPixels(x, y, width, height int, data []byte)
}
