// Package glstate tracks WebGL2 object and binding state.
//
// State implements every gl.Context method that does not touch pixels:
// shader and program objects, uniforms, buffers, vertex arrays, viewport
// and clear colour. Backends embed it and add Clear, DrawArrays and
// ReadPixels. Errors follow WebGL rules: an invalid call records an error
// code, has no other effect, and GetError reports the first pending code.
package glstate

import (
	"log/slog"

	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/internal/glsl"
)

// MaxVertexAttribs is the number of generic vertex attribute slots.
const MaxVertexAttribs = 16

// Shader is a shader object.
type Shader struct {
	Type     gl.Enum
	Source   string
	Compiled *glsl.Shader
	OK       bool
	Log      string
}

// Program is a program object. Linked is the executable of the last
// successful link and is nil until one happens. OK and Log describe the
// most recent link attempt; a failed relink leaves Linked in place so a
// current program keeps drawing with its previous executable.
type Program struct {
	VS, FS *Shader
	Linked *glsl.Program
	OK     bool
	Log    string

	// Backend is free for the embedding backend to attach per-program
	// resources to.
	Backend any
}

type buffer struct {
	data []byte
}

// AttribPointer is the array state of one vertex attribute slot.
type AttribPointer struct {
	Enabled    bool
	Size       int
	Type       gl.Enum
	Normalized bool
	Stride     int
	Offset     int

	buf *buffer
}

type vertexArray struct {
	attribs [MaxVertexAttribs]AttribPointer
}

// State is the non-pixel part of a WebGL2 context. It is not safe for
// concurrent use.
type State struct {
	err    gl.Enum
	logger *slog.Logger

	next        uint32
	shaders     map[uint32]*Shader
	programs    map[uint32]*Program
	buffers     map[uint32]*buffer
	vertexArray map[uint32]*vertexArray

	current     *Program
	arrayBuffer *buffer
	defaultVAO  vertexArray
	vao         *vertexArray

	viewport   [4]int
	clearColor [4]float32
}

// New returns state for a width×height drawing buffer. The viewport
// initially covers the whole buffer.
func New(width, height int) *State {
	s := &State{
		logger:      slog.New(slog.DiscardHandler),
		shaders:     make(map[uint32]*Shader),
		programs:    make(map[uint32]*Program),
		buffers:     make(map[uint32]*buffer),
		vertexArray: make(map[uint32]*vertexArray),
		viewport:    [4]int{0, 0, width, height},
	}
	s.vao = &s.defaultVAO
	return s
}

// SetLogger sets the logger for diagnostics. nil discards output.
func (s *State) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	s.logger = l
}

// Logger returns the diagnostics logger.
func (s *State) Logger() *slog.Logger { return s.logger }

// SetError records e for call unless an earlier error is still pending.
func (s *State) SetError(e gl.Enum, call string) {
	s.logger.Debug("gl error", "call", call, "err", gl.Error(e))
	if s.err == gl.NO_ERROR {
		s.err = e
	}
}

func (s *State) GetError() gl.Enum {
	e := s.err
	s.err = gl.NO_ERROR
	return e
}

func (s *State) id() uint32 {
	s.next++
	return s.next
}

// Shaders

func (s *State) CreateShader(ty gl.Enum) gl.Shader {
	if ty != gl.VERTEX_SHADER && ty != gl.FRAGMENT_SHADER {
		s.SetError(gl.INVALID_ENUM, "CreateShader")
		return gl.Shader{}
	}
	id := s.id()
	s.shaders[id] = &Shader{Type: ty}
	return gl.Shader{V: id}
}

func (s *State) shader(sh gl.Shader, call string) *Shader {
	obj, ok := s.shaders[sh.V]
	if !ok {
		s.SetError(gl.INVALID_VALUE, call)
	}
	return obj
}

func (s *State) ShaderSource(sh gl.Shader, src string) {
	if obj := s.shader(sh, "ShaderSource"); obj != nil {
		obj.Source = src
	}
}

func (s *State) CompileShader(sh gl.Shader) {
	obj := s.shader(sh, "CompileShader")
	if obj == nil {
		return
	}
	stage := glsl.VertexStage
	if obj.Type == gl.FRAGMENT_SHADER {
		stage = glsl.FragmentStage
	}
	compiled, err := glsl.Compile(stage, obj.Source)
	if err != nil {
		obj.Compiled, obj.OK, obj.Log = nil, false, err.Error()+"\n"
		return
	}
	obj.Compiled, obj.OK, obj.Log = compiled, true, ""
}

func (s *State) GetShaderi(sh gl.Shader, pname gl.Enum) int {
	obj := s.shader(sh, "GetShaderi")
	if obj == nil {
		return 0
	}
	switch pname {
	case gl.COMPILE_STATUS:
		return boolInt(obj.OK)
	case gl.SHADER_TYPE:
		return int(obj.Type)
	case gl.DELETE_STATUS:
		return gl.FALSE
	}
	s.SetError(gl.INVALID_ENUM, "GetShaderi")
	return 0
}

func (s *State) GetShaderInfoLog(sh gl.Shader) string {
	if obj := s.shader(sh, "GetShaderInfoLog"); obj != nil {
		return obj.Log
	}
	return ""
}

// DeleteShader removes the shader name. Programs it is attached to keep
// their reference.
func (s *State) DeleteShader(sh gl.Shader) {
	if !sh.Valid() {
		return
	}
	if s.shader(sh, "DeleteShader") != nil {
		delete(s.shaders, sh.V)
	}
}

// Programs

func (s *State) CreateProgram() gl.Program {
	id := s.id()
	s.programs[id] = &Program{}
	return gl.Program{V: id}
}

func (s *State) program(p gl.Program, call string) *Program {
	obj, ok := s.programs[p.V]
	if !ok {
		s.SetError(gl.INVALID_VALUE, call)
	}
	return obj
}

// Program returns the program object for p, or nil.
func (s *State) Program(p gl.Program) *Program {
	return s.programs[p.V]
}

func (s *State) AttachShader(p gl.Program, sh gl.Shader) {
	prog := s.program(p, "AttachShader")
	obj := s.shader(sh, "AttachShader")
	if prog == nil || obj == nil {
		return
	}
	slot := &prog.VS
	if obj.Type == gl.FRAGMENT_SHADER {
		slot = &prog.FS
	}
	if *slot != nil {
		s.SetError(gl.INVALID_OPERATION, "AttachShader")
		return
	}
	*slot = obj
}

func (s *State) LinkProgram(p gl.Program) {
	prog := s.program(p, "LinkProgram")
	if prog == nil {
		return
	}
	prog.OK = false
	switch {
	case prog.VS == nil || prog.FS == nil:
		prog.Log = "error: program requires an attached vertex and fragment shader\n"
		return
	case !prog.VS.OK:
		prog.Log = "error: vertex shader is not compiled\n"
		return
	case !prog.FS.OK:
		prog.Log = "error: fragment shader is not compiled\n"
		return
	}
	linked, err := glsl.Link(prog.VS.Compiled, prog.FS.Compiled)
	if err != nil {
		prog.Log = err.Error() + "\n"
		return
	}
	prog.Linked, prog.OK, prog.Log = linked, true, ""
}

// FailLink marks p's latest link as failed with log and reinstates exec,
// the executable p had before the attempt. Backends use it to reject
// programs they cannot execute.
func (s *State) FailLink(p gl.Program, exec *glsl.Program, log string) {
	if prog := s.programs[p.V]; prog != nil {
		prog.Linked, prog.OK, prog.Log = exec, false, log
	}
}

func (s *State) GetProgrami(p gl.Program, pname gl.Enum) int {
	prog := s.program(p, "GetProgrami")
	if prog == nil {
		return 0
	}
	switch pname {
	case gl.LINK_STATUS:
		return boolInt(prog.OK)
	case gl.DELETE_STATUS:
		return gl.FALSE
	}
	s.SetError(gl.INVALID_ENUM, "GetProgrami")
	return 0
}

func (s *State) GetProgramInfoLog(p gl.Program) string {
	if prog := s.program(p, "GetProgramInfoLog"); prog != nil {
		return prog.Log
	}
	return ""
}

func (s *State) DeleteProgram(p gl.Program) {
	if !p.Valid() {
		return
	}
	if s.program(p, "DeleteProgram") != nil {
		delete(s.programs, p.V)
	}
}

func (s *State) UseProgram(p gl.Program) {
	if !p.Valid() {
		s.current = nil
		return
	}
	prog := s.program(p, "UseProgram")
	if prog == nil {
		return
	}
	if !prog.OK {
		s.SetError(gl.INVALID_OPERATION, "UseProgram")
		return
	}
	s.current = prog
}

// Current returns the program in use, or nil.
func (s *State) Current() *Program { return s.current }

func (s *State) linked(p gl.Program, call string) *glsl.Program {
	prog := s.program(p, call)
	if prog == nil {
		return nil
	}
	if !prog.OK {
		s.SetError(gl.INVALID_OPERATION, call)
		return nil
	}
	return prog.Linked
}

func (s *State) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	lp := s.linked(p, "GetAttribLocation")
	if lp == nil {
		return -1
	}
	return gl.Attrib(lp.AttribLocation(name))
}

func (s *State) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	lp := s.linked(p, "GetUniformLocation")
	if lp == nil {
		return gl.InvalidUniform
	}
	loc := lp.UniformLocation(name)
	if loc < 0 {
		return gl.InvalidUniform
	}
	return gl.Uniform{V: int32(loc)}
}

// GetUniform returns the current value of a uniform of p, or nil if the
// location is invalid.
func (s *State) GetUniform(p gl.Program, u gl.Uniform) []float32 {
	lp := s.linked(p, "GetUniform")
	if lp == nil {
		return nil
	}
	if !u.Valid() || int(u.V) >= len(lp.Uniforms) {
		s.SetError(gl.INVALID_OPERATION, "GetUniform")
		return nil
	}
	v := lp.Uniforms[u.V].Value
	return append([]float32(nil), v.V[:v.T.Size()]...)
}

func (s *State) Uniform2f(u gl.Uniform, v0, v1 float32) {
	s.uniform(u, glsl.Vec(v0, v1), "Uniform2f")
}

func (s *State) Uniform4f(u gl.Uniform, v0, v1, v2, v3 float32) {
	s.uniform(u, glsl.Vec(v0, v1, v2, v3), "Uniform4f")
}

// uniform sets u on the current program. Location -1 is silently ignored.
func (s *State) uniform(u gl.Uniform, v glsl.Value, call string) {
	if !u.Valid() {
		return
	}
	if s.current == nil || s.current.Linked == nil {
		s.SetError(gl.INVALID_OPERATION, call)
		return
	}
	if err := s.current.Linked.SetUniform(int(u.V), v); err != nil {
		s.logger.Debug("uniform rejected", "call", call, "err", err)
		s.SetError(gl.INVALID_OPERATION, call)
	}
}

// Buffers

func (s *State) CreateBuffer() gl.Buffer {
	id := s.id()
	s.buffers[id] = &buffer{}
	return gl.Buffer{V: id}
}

func (s *State) BindBuffer(target gl.Enum, b gl.Buffer) {
	if target != gl.ARRAY_BUFFER {
		s.SetError(gl.INVALID_ENUM, "BindBuffer")
		return
	}
	if !b.Valid() {
		s.arrayBuffer = nil
		return
	}
	buf, ok := s.buffers[b.V]
	if !ok {
		s.SetError(gl.INVALID_OPERATION, "BindBuffer")
		return
	}
	s.arrayBuffer = buf
}

func (s *State) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	if target != gl.ARRAY_BUFFER {
		s.SetError(gl.INVALID_ENUM, "BufferData")
		return
	}
	switch usage {
	case gl.STATIC_DRAW, gl.DYNAMIC_DRAW, gl.STREAM_DRAW:
	default:
		s.SetError(gl.INVALID_ENUM, "BufferData")
		return
	}
	if s.arrayBuffer == nil {
		s.SetError(gl.INVALID_OPERATION, "BufferData")
		return
	}
	s.arrayBuffer.data = append([]byte(nil), data...)
}

// BufferContents returns a copy of the bytes stored in b.
func (s *State) BufferContents(b gl.Buffer) []byte {
	buf, ok := s.buffers[b.V]
	if !ok {
		s.SetError(gl.INVALID_VALUE, "BufferContents")
		return nil
	}
	return append([]byte(nil), buf.data...)
}

// Vertex arrays

func (s *State) CreateVertexArray() gl.VertexArray {
	id := s.id()
	s.vertexArray[id] = &vertexArray{}
	return gl.VertexArray{V: id}
}

func (s *State) BindVertexArray(a gl.VertexArray) {
	if !a.Valid() {
		s.vao = &s.defaultVAO
		return
	}
	va, ok := s.vertexArray[a.V]
	if !ok {
		s.SetError(gl.INVALID_OPERATION, "BindVertexArray")
		return
	}
	s.vao = va
}

func (s *State) EnableVertexAttribArray(a gl.Attrib) {
	if a < 0 || a >= MaxVertexAttribs {
		s.SetError(gl.INVALID_VALUE, "EnableVertexAttribArray")
		return
	}
	s.vao.attribs[a].Enabled = true
}

func (s *State) VertexAttribPointer(a gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	const call = "VertexAttribPointer"
	switch {
	case a < 0 || a >= MaxVertexAttribs, size < 1 || size > 4, stride < 0 || stride > 255, offset < 0:
		s.SetError(gl.INVALID_VALUE, call)
		return
	case ty != gl.FLOAT && ty != gl.UNSIGNED_BYTE:
		s.SetError(gl.INVALID_ENUM, call)
		return
	case s.arrayBuffer == nil && offset != 0:
		s.SetError(gl.INVALID_OPERATION, call)
		return
	}
	p := &s.vao.attribs[a]
	p.buf, p.Size, p.Type, p.Normalized, p.Stride, p.Offset = s.arrayBuffer, size, ty, normalized, stride, offset
}

// Attrib returns the array state of slot loc in the bound vertex array.
func (s *State) Attrib(loc int) AttribPointer {
	return s.vao.attribs[loc]
}

// Fixed-function state

func (s *State) Viewport(x, y, width, height int) {
	if width < 0 || height < 0 {
		s.SetError(gl.INVALID_VALUE, "Viewport")
		return
	}
	s.viewport = [4]int{x, y, width, height}
}

// ViewportRect returns x, y, width and height of the viewport.
func (s *State) ViewportRect() (x, y, width, height int) {
	v := s.viewport
	return v[0], v[1], v[2], v[3]
}

func (s *State) ClearColor(r, g, b, a float32) {
	s.clearColor = [4]float32{r, g, b, a}
}

// ClearValue returns the colour set by ClearColor.
func (s *State) ClearValue() [4]float32 { return s.clearColor }

// CheckClear validates a Clear mask and reports whether the colour buffer
// is to be cleared.
func (s *State) CheckClear(mask gl.Enum) bool {
	if mask&^(gl.COLOR_BUFFER_BIT|gl.DEPTH_BUFFER_BIT|gl.STENCIL_BUFFER_BIT) != 0 {
		s.SetError(gl.INVALID_VALUE, "Clear")
		return false
	}
	return mask&gl.COLOR_BUFFER_BIT != 0
}

func boolInt(b bool) int {
	if b {
		return gl.TRUE
	}
	return gl.FALSE
}
