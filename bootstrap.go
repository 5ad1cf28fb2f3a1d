package trapezoid

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/shaders"
)

// Scene describes what Bootstrap drew. All handles stay alive; nothing
// is released after the draw.
type Scene struct {
	Context gl.Context

	VertexShader   gl.Shader
	FragmentShader gl.Shader
	Program        gl.Program

	PositionAttrib    gl.Attrib
	ResolutionUniform gl.Uniform
	ColorUniform      gl.Uniform

	Buffer      gl.Buffer
	VertexArray gl.VertexArray

	// Width and Height are the canvas backing size at draw time. They
	// were used for the viewport and the resolution uniform.
	Width, Height int
}

// Bootstrap renders the trapezoid into canvas.
//
// The steps run in a fixed order and the first failure aborts the
// procedure. A missing WebGL2 context is reported before any shader is
// created.
func Bootstrap(canvas Canvas, opts ...Option) (*Scene, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}
	set := shaders.Default()
	if o.shaders != nil {
		set = *o.shaders
	}

	ctx, err := canvas.Context(gl.ContextWebGL2)
	if err != nil {
		log.Error("trapezoid: no WebGL2 context", "err", err)
		return nil, fmt.Errorf("trapezoid: acquire %s context: %w", gl.ContextWebGL2, err)
	}
	if ctx == nil {
		return nil, fmt.Errorf("trapezoid: acquire %s context: %w", gl.ContextWebGL2, ErrContextUnavailable)
	}
	propagateLogger(ctx, log)
	log.Info("trapezoid: context acquired", "kind", gl.ContextWebGL2)

	s := &Scene{Context: ctx}

	if s.VertexShader, err = compileShader(ctx, log, gl.VERTEX_SHADER, set.Vertex.Source); err != nil {
		return nil, err
	}
	if s.FragmentShader, err = compileShader(ctx, log, gl.FRAGMENT_SHADER, set.Fragment.Source); err != nil {
		return nil, err
	}
	if s.Program, err = linkProgram(ctx, log, s.VertexShader, s.FragmentShader); err != nil {
		return nil, err
	}

	s.PositionAttrib = ctx.GetAttribLocation(s.Program, set.PositionAttrib)
	if !s.PositionAttrib.Valid() {
		return nil, fmt.Errorf("%w: attribute %q", ErrMissingLocation, set.PositionAttrib)
	}
	s.ResolutionUniform = ctx.GetUniformLocation(s.Program, set.ResolutionUniform)
	if !s.ResolutionUniform.Valid() {
		return nil, fmt.Errorf("%w: uniform %q", ErrMissingLocation, set.ResolutionUniform)
	}
	s.ColorUniform = ctx.GetUniformLocation(s.Program, set.ColorUniform)
	if !s.ColorUniform.Valid() {
		return nil, fmt.Errorf("%w: uniform %q", ErrMissingLocation, set.ColorUniform)
	}
	log.Debug("trapezoid: locations resolved",
		"position", int32(s.PositionAttrib),
		"resolution", s.ResolutionUniform.V,
		"color", s.ColorUniform.V)

	s.Buffer = ctx.CreateBuffer()
	ctx.BindBuffer(gl.ARRAY_BUFFER, s.Buffer)
	ctx.BufferData(gl.ARRAY_BUFFER, PositionBytes(), gl.STATIC_DRAW)

	s.VertexArray = ctx.CreateVertexArray()
	ctx.BindVertexArray(s.VertexArray)
	ctx.EnableVertexAttribArray(s.PositionAttrib)
	ctx.VertexAttribPointer(s.PositionAttrib, ComponentsPerVertex, gl.FLOAT, false, 0, 0)

	s.Width, s.Height = canvas.Width(), canvas.Height()
	ctx.Viewport(0, 0, s.Width, s.Height)

	ctx.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	ctx.Clear(gl.COLOR_BUFFER_BIT)

	ctx.UseProgram(s.Program)
	ctx.Uniform2f(s.ResolutionUniform, float32(s.Width), float32(s.Height))
	ctx.Uniform4f(s.ColorUniform, FillColor[0], FillColor[1], FillColor[2], FillColor[3])
	ctx.BindVertexArray(s.VertexArray)

	ctx.DrawArrays(gl.TRIANGLES, 0, VertexCount)

	if e := ctx.GetError(); e != gl.NO_ERROR {
		return nil, fmt.Errorf("trapezoid: draw: %w", gl.Error(e))
	}
	log.Info("trapezoid: frame drawn", "width", s.Width, "height", s.Height, "vertices", VertexCount)
	return s, nil
}

// CompileShader creates and compiles a shader of type ty (gl.VERTEX_SHADER
// or gl.FRAGMENT_SHADER). On failure the info log is logged, the shader is
// deleted and a *CompileError is returned.
func CompileShader(ctx gl.Context, ty gl.Enum, src string) (gl.Shader, error) {
	return compileShader(ctx, Logger(), ty, src)
}

// LinkProgram creates a program from two compiled shaders and links it.
// On failure the info log is logged, the program is deleted and a
// *LinkError is returned.
func LinkProgram(ctx gl.Context, vs, fs gl.Shader) (gl.Program, error) {
	return linkProgram(ctx, Logger(), vs, fs)
}

func compileShader(ctx gl.Context, log *slog.Logger, ty gl.Enum, src string) (gl.Shader, error) {
	stage := stageName(ty)
	s := ctx.CreateShader(ty)
	if !s.Valid() {
		return gl.Shader{}, &CompileError{Stage: stage, Log: "CreateShader returned no object"}
	}
	ctx.ShaderSource(s, src)
	ctx.CompileShader(s)
	if ctx.GetShaderi(s, gl.COMPILE_STATUS) == gl.TRUE {
		log.Debug("trapezoid: shader compiled", "stage", stage)
		return s, nil
	}

	info := ctx.GetShaderInfoLog(s)
	log.Error("trapezoid: shader compile failed", "stage", stage, "log", info)
	ctx.DeleteShader(s)
	return gl.Shader{}, &CompileError{Stage: stage, Log: info}
}

func linkProgram(ctx gl.Context, log *slog.Logger, vs, fs gl.Shader) (gl.Program, error) {
	p := ctx.CreateProgram()
	if !p.Valid() {
		return gl.Program{}, &LinkError{Log: "CreateProgram returned no object"}
	}
	ctx.AttachShader(p, vs)
	ctx.AttachShader(p, fs)
	ctx.LinkProgram(p)
	if ctx.GetProgrami(p, gl.LINK_STATUS) == gl.TRUE {
		log.Debug("trapezoid: program linked")
		return p, nil
	}

	info := ctx.GetProgramInfoLog(p)
	log.Error("trapezoid: program link failed", "log", info)
	ctx.DeleteProgram(p)
	return gl.Program{}, &LinkError{Log: info}
}

func stageName(ty gl.Enum) string {
	switch ty {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("0x%04x", uint32(ty))
}
