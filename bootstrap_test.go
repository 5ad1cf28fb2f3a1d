package trapezoid_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image/color"
	"log/slog"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/backend/software"
	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/shaders"
)

var (
	teal        = color.NRGBA{R: 0, G: 204, B: 153, A: 255}
	transparent = color.NRGBA{}
)

// recorder wraps a context and records the bootstrap's calls in order.
type recorder struct {
	gl.Context
	calls      []string
	resolution [2]float32
}

func (r *recorder) add(name string) { r.calls = append(r.calls, name) }

func (r *recorder) CreateShader(ty gl.Enum) gl.Shader {
	r.add("CreateShader")
	return r.Context.CreateShader(ty)
}

func (r *recorder) CompileShader(s gl.Shader) {
	r.add("CompileShader")
	r.Context.CompileShader(s)
}

func (r *recorder) DeleteShader(s gl.Shader) {
	r.add("DeleteShader")
	r.Context.DeleteShader(s)
}

func (r *recorder) CreateProgram() gl.Program {
	r.add("CreateProgram")
	return r.Context.CreateProgram()
}

func (r *recorder) LinkProgram(p gl.Program) {
	r.add("LinkProgram")
	r.Context.LinkProgram(p)
}

func (r *recorder) DeleteProgram(p gl.Program) {
	r.add("DeleteProgram")
	r.Context.DeleteProgram(p)
}

func (r *recorder) UseProgram(p gl.Program) {
	r.add("UseProgram")
	r.Context.UseProgram(p)
}

func (r *recorder) GetAttribLocation(p gl.Program, name string) gl.Attrib {
	r.add("GetAttribLocation")
	return r.Context.GetAttribLocation(p, name)
}

func (r *recorder) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	r.add("GetUniformLocation")
	return r.Context.GetUniformLocation(p, name)
}

func (r *recorder) Uniform2f(u gl.Uniform, v0, v1 float32) {
	r.add("Uniform2f")
	r.resolution = [2]float32{v0, v1}
	r.Context.Uniform2f(u, v0, v1)
}

func (r *recorder) Uniform4f(u gl.Uniform, v0, v1, v2, v3 float32) {
	r.add("Uniform4f")
	r.Context.Uniform4f(u, v0, v1, v2, v3)
}

func (r *recorder) CreateBuffer() gl.Buffer {
	r.add("CreateBuffer")
	return r.Context.CreateBuffer()
}

func (r *recorder) BindBuffer(target gl.Enum, b gl.Buffer) {
	r.add("BindBuffer")
	r.Context.BindBuffer(target, b)
}

func (r *recorder) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	r.add("BufferData")
	r.Context.BufferData(target, data, usage)
}

func (r *recorder) CreateVertexArray() gl.VertexArray {
	r.add("CreateVertexArray")
	return r.Context.CreateVertexArray()
}

func (r *recorder) BindVertexArray(a gl.VertexArray) {
	r.add("BindVertexArray")
	r.Context.BindVertexArray(a)
}

func (r *recorder) EnableVertexAttribArray(a gl.Attrib) {
	r.add("EnableVertexAttribArray")
	r.Context.EnableVertexAttribArray(a)
}

func (r *recorder) VertexAttribPointer(a gl.Attrib, size int, ty gl.Enum, normalized bool, stride, offset int) {
	r.add("VertexAttribPointer")
	r.Context.VertexAttribPointer(a, size, ty, normalized, stride, offset)
}

func (r *recorder) Viewport(x, y, width, height int) {
	r.add("Viewport")
	r.Context.Viewport(x, y, width, height)
}

func (r *recorder) ClearColor(red, green, blue, alpha float32) {
	r.add("ClearColor")
	r.Context.ClearColor(red, green, blue, alpha)
}

func (r *recorder) Clear(mask gl.Enum) {
	r.add("Clear")
	r.Context.Clear(mask)
}

func (r *recorder) DrawArrays(mode gl.Enum, first, count int) {
	r.add("DrawArrays")
	r.Context.DrawArrays(mode, first, count)
}

// recordingCanvas hands out a recorder around the software context.
type recordingCanvas struct {
	*software.Canvas
	rec *recorder
}

func newRecordingCanvas(width, height int) *recordingCanvas {
	return &recordingCanvas{Canvas: software.NewCanvas(width, height)}
}

func (c *recordingCanvas) Context(kind string) (gl.Context, error) {
	ctx, err := c.Canvas.Context(kind)
	if err != nil {
		return nil, err
	}
	if c.rec == nil {
		c.rec = &recorder{Context: ctx}
	}
	return c.rec, nil
}

func (c *recordingCanvas) software() *software.Context {
	return c.rec.Context.(*software.Context)
}

func bootstrap(t *testing.T, width, height int, opts ...trapezoid.Option) (*trapezoid.Scene, *recordingCanvas) {
	t.Helper()
	cv := newRecordingCanvas(width, height)
	scene, err := trapezoid.Bootstrap(cv, opts...)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return scene, cv
}

func TestBootstrapDrawsTrapezoid(t *testing.T) {
	scene, _ := bootstrap(t, 300, 150)
	if scene.Width != 300 || scene.Height != 150 {
		t.Fatalf("scene size = %dx%d, want 300x150", scene.Width, scene.Height)
	}
	pm := trapezoid.ReadPixmap(scene.Context, scene.Width, scene.Height)

	if got := pm.Pixel(45, 25); got != teal {
		t.Errorf("pixel (45,25) = %v, want %v", got, teal)
	}
	if got := pm.Pixel(5, 5); got != transparent {
		t.Errorf("pixel (5,5) = %v, want %v", got, transparent)
	}

	// The two triangles form the rectangle x in [10,80), y in [20,30).
	for y := 0; y < pm.Height(); y++ {
		for x := 0; x < pm.Width(); x++ {
			want := transparent
			if x >= 10 && x < 80 && y >= 20 && y < 30 {
				want = teal
			}
			if got := pm.Pixel(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestBootstrapCallOrder(t *testing.T) {
	_, cv := bootstrap(t, 300, 150)
	want := []string{
		"CreateShader", "CompileShader",
		"CreateShader", "CompileShader",
		"CreateProgram", "LinkProgram",
		"GetAttribLocation", "GetUniformLocation", "GetUniformLocation",
		"CreateBuffer", "BindBuffer", "BufferData",
		"CreateVertexArray", "BindVertexArray", "EnableVertexAttribArray", "VertexAttribPointer",
		"Viewport",
		"ClearColor", "Clear",
		"UseProgram", "Uniform2f", "Uniform4f", "BindVertexArray",
		"DrawArrays",
	}
	if !slices.Equal(cv.rec.calls, want) {
		t.Errorf("calls:\n got %v\nwant %v", cv.rec.calls, want)
	}
}

func TestVertexBufferContents(t *testing.T) {
	scene, cv := bootstrap(t, 300, 150)
	got := cv.software().BufferContents(scene.Buffer)
	if !bytes.Equal(got, trapezoid.PositionBytes()) {
		t.Fatalf("buffer bytes = %v, want %v", got, trapezoid.PositionBytes())
	}
	if len(got) != 12*4 {
		t.Fatalf("buffer holds %d bytes, want 48", len(got))
	}
	want := []float32{10, 20, 80, 20, 10, 30, 10, 30, 80, 20, 80, 30}
	for i, w := range want {
		f := math.Float32frombits(binary.LittleEndian.Uint32(got[i*4:]))
		if f != w {
			t.Errorf("float %d = %v, want %v", i, f, w)
		}
	}
	if trapezoid.VertexCount != 6 {
		t.Errorf("VertexCount = %d, want 6", trapezoid.VertexCount)
	}
}

func TestResolutionIsBackingSize(t *testing.T) {
	for _, size := range [][2]int{{300, 150}, {200, 100}, {640, 480}} {
		scene, cv := bootstrap(t, size[0], size[1])
		want := [2]float32{float32(size[0]), float32(size[1])}
		if cv.rec.resolution != want {
			t.Errorf("%v: Uniform2f(resolution) = %v, want %v", size, cv.rec.resolution, want)
		}
		got := cv.software().GetUniform(scene.Program, scene.ResolutionUniform)
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("%v: resolution uniform = %v, want %v", size, got, want)
		}
		// Pixel-space geometry lands on the same pixels at any size.
		pm := trapezoid.ReadPixmap(scene.Context, scene.Width, scene.Height)
		if got := pm.Pixel(45, 25); got != teal {
			t.Errorf("%v: pixel (45,25) = %v, want %v", size, got, teal)
		}
	}
}

func TestColorUniform(t *testing.T) {
	scene, cv := bootstrap(t, 300, 150)
	got := cv.software().GetUniform(scene.Program, scene.ColorUniform)
	want := trapezoid.FillColor[:]
	if !slices.Equal(got, want) {
		t.Errorf("color uniform = %v, want %v", got, want)
	}
}

func TestContextUnavailable(t *testing.T) {
	cv := software.NewCanvas(300, 150, software.WithoutContext())
	for i := 1; i <= 2; i++ {
		scene, err := trapezoid.Bootstrap(cv)
		if !errors.Is(err, trapezoid.ErrContextUnavailable) {
			t.Fatalf("attempt %d: err = %v, want ErrContextUnavailable", i, err)
		}
		if scene != nil {
			t.Fatalf("attempt %d: got a scene", i)
		}
		if cv.Requests() != i {
			t.Fatalf("attempt %d: %d context requests", i, cv.Requests())
		}
	}
}

// nilContextCanvas reports success but returns no context.
type nilContextCanvas struct{}

func (nilContextCanvas) Width() int { return 1 }
func (nilContextCanvas) Height() int { return 1 }
func (nilContextCanvas) Context(string) (gl.Context, error) { return nil, nil }

func TestNilContext(t *testing.T) {
	_, err := trapezoid.Bootstrap(nilContextCanvas{})
	if !errors.Is(err, trapezoid.ErrContextUnavailable) {
		t.Fatalf("err = %v, want ErrContextUnavailable", err)
	}
}

func brokenVertex() shaders.Set {
	s := shaders.Default()
	s.Vertex.Source = strings.Replace(s.Vertex.Source, "a_position / u_resolution", "a_position / u_resolutoin", 1)
	return s
}

func TestVertexCompileFailure(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	cv := newRecordingCanvas(300, 150)
	scene, err := trapezoid.Bootstrap(cv, trapezoid.WithShaders(brokenVertex()), trapezoid.WithLogger(log))
	if scene != nil {
		t.Fatal("got a scene from a broken shader")
	}
	var ce *trapezoid.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CompileError", err)
	}
	if ce.Stage != "vertex" {
		t.Errorf("Stage = %q, want vertex", ce.Stage)
	}
	if !strings.Contains(ce.Log, "u_resolutoin") {
		t.Errorf("Log = %q, want it to name the bad identifier", ce.Log)
	}
	if !strings.Contains(logs.String(), "shader compile failed") || !strings.Contains(logs.String(), "u_resolutoin") {
		t.Errorf("diagnostic not logged:\n%s", logs.String())
	}

	// The fragment stage is never attempted and the bad shader is deleted.
	want := []string{"CreateShader", "CompileShader", "DeleteShader"}
	if !slices.Equal(cv.rec.calls, want) {
		t.Errorf("calls = %v, want %v", cv.rec.calls, want)
	}
}

func TestFragmentCompileFailure(t *testing.T) {
	set := shaders.Default()
	set.Fragment.Source = strings.Replace(set.Fragment.Source, "outColor = u_color;", "outColor = u_colour;", 1)

	cv := newRecordingCanvas(300, 150)
	scene, err := trapezoid.Bootstrap(cv, trapezoid.WithShaders(set))
	if scene != nil {
		t.Fatal("got a scene from a broken shader")
	}
	var ce *trapezoid.CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *CompileError", err)
	}
	if ce.Stage != "fragment" {
		t.Errorf("Stage = %q, want fragment", ce.Stage)
	}
	if !strings.Contains(ce.Log, "u_colour") {
		t.Errorf("Log = %q, want it to name the bad identifier", ce.Log)
	}

	// The vertex shader compiles, the fragment shader is deleted and no
	// program is created.
	want := []string{
		"CreateShader", "CompileShader",
		"CreateShader", "CompileShader", "DeleteShader",
	}
	if !slices.Equal(cv.rec.calls, want) {
		t.Errorf("calls = %v, want %v", cv.rec.calls, want)
	}
}

func TestLinkFailure(t *testing.T) {
	s := shaders.Default()
	s.Fragment.Source = strings.Replace(s.Fragment.Source,
		"uniform vec4 u_color;", "uniform vec4 u_color;\nin vec4 v_tint;", 1)
	s.Fragment.Source = strings.Replace(s.Fragment.Source,
		"outColor = u_color;", "outColor = u_color * v_tint;", 1)

	cv := newRecordingCanvas(300, 150)
	_, err := trapezoid.Bootstrap(cv, trapezoid.WithShaders(s))
	var le *trapezoid.LinkError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LinkError", err)
	}
	if !strings.Contains(le.Log, "v_tint") {
		t.Errorf("Log = %q", le.Log)
	}
	if last := cv.rec.calls[len(cv.rec.calls)-1]; last != "DeleteProgram" {
		t.Errorf("last call = %s, want DeleteProgram", last)
	}
}

func TestMissingLocation(t *testing.T) {
	tests := []struct {
		name string
		edit func(*shaders.Set)
	}{
		{"attribute", func(s *shaders.Set) { s.PositionAttrib = "a_pos" }},
		{"resolution", func(s *shaders.Set) { s.ResolutionUniform = "u_size" }},
		{"color", func(s *shaders.Set) { s.ColorUniform = "u_tint" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := shaders.Default()
			tt.edit(&s)
			_, err := trapezoid.Bootstrap(software.NewCanvas(300, 150), trapezoid.WithShaders(s))
			if !errors.Is(err, trapezoid.ErrMissingLocation) {
				t.Fatalf("err = %v, want ErrMissingLocation", err)
			}
		})
	}
}

func TestCompileShader(t *testing.T) {
	ctx := software.NewContext(1, 1)
	if _, err := trapezoid.CompileShader(ctx, gl.FRAGMENT_SHADER, "#version 300 es\nvoid main() { x = 1.0; }\n"); err == nil {
		t.Fatal("CompileShader accepted a broken shader")
	} else {
		var ce *trapezoid.CompileError
		if !errors.As(err, &ce) || ce.Stage != "fragment" {
			t.Errorf("err = %v, want fragment *CompileError", err)
		}
	}

	set := shaders.Default()
	vs, err := trapezoid.CompileShader(ctx, gl.VERTEX_SHADER, set.Vertex.Source)
	if err != nil {
		t.Fatalf("CompileShader(vertex): %v", err)
	}
	fs, err := trapezoid.CompileShader(ctx, gl.FRAGMENT_SHADER, set.Fragment.Source)
	if err != nil {
		t.Fatalf("CompileShader(fragment): %v", err)
	}
	p, err := trapezoid.LinkProgram(ctx, vs, fs)
	if err != nil {
		t.Fatalf("LinkProgram: %v", err)
	}
	if !p.Valid() {
		t.Error("LinkProgram returned an invalid program")
	}
}

func TestPixmapSavePNG(t *testing.T) {
	scene, _ := bootstrap(t, 300, 150)
	pm := trapezoid.ReadPixmap(scene.Context, scene.Width, scene.Height)
	path := t.TempDir() + "/trapezoid.png"
	if err := pm.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	img := pm.ToImage()
	if got := img.NRGBAAt(45, 25); got != teal {
		t.Errorf("ToImage pixel (45,25) = %v, want %v", got, teal)
	}
}
