//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/trapezoid"
	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/internal/glsl"
	"github.com/gogpu/trapezoid/shaders"
)

// newNoopDevice opens a noop HAL device for testing.
func newNoopDevice(t *testing.T) *Device {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	dev := &Device{instance: instance, device: openDev.Device, queue: openDev.Queue, Name: "noop"}
	t.Cleanup(dev.Close)
	return dev
}

func compileAndLink(t *testing.T, ctx gl.Context, vsSrc, fsSrc string) gl.Program {
	t.Helper()
	vs, err := trapezoid.CompileShader(ctx, gl.VERTEX_SHADER, vsSrc)
	if err != nil {
		t.Fatalf("CompileShader(vertex): %v", err)
	}
	fs, err := trapezoid.CompileShader(ctx, gl.FRAGMENT_SHADER, fsSrc)
	if err != nil {
		t.Fatalf("CompileShader(fragment): %v", err)
	}
	p, _ := trapezoid.LinkProgram(ctx, vs, fs)
	return p
}

func TestCanvasContext(t *testing.T) {
	cv := NewCanvas(newNoopDevice(t), 300, 150)
	defer cv.Close()

	if _, err := cv.Context("webgl"); !errors.Is(err, gl.ErrContextUnavailable) {
		t.Errorf("Context(webgl) error = %v, want ErrContextUnavailable", err)
	}
	a, err := cv.Context(gl.ContextWebGL2)
	if err != nil {
		t.Fatalf("Context: %v", err)
	}
	b, _ := cv.Context(gl.ContextWebGL2)
	if a != b {
		t.Error("Context returned a different context on the second request")
	}
}

func TestClosedCanvasHasNoContext(t *testing.T) {
	dev := newNoopDevice(t)
	cv := NewCanvas(dev, 8, 8)
	dev.Close()
	if _, err := cv.Context(gl.ContextWebGL2); !errors.Is(err, gl.ErrContextUnavailable) {
		t.Errorf("Context error = %v, want ErrContextUnavailable", err)
	}
}

func TestLinkDefaultShaders(t *testing.T) {
	ctx := NewContext(newNoopDevice(t), 300, 150)
	defer ctx.Destroy()

	set := shaders.Default()
	p := compileAndLink(t, ctx, set.Vertex.Source, set.Fragment.Source)
	if ctx.GetProgrami(p, gl.LINK_STATUS) != 1 {
		t.Fatalf("LINK_STATUS = 0, log %q", ctx.GetProgramInfoLog(p))
	}
	gp, ok := ctx.Program(p).Backend.(*gpuProgram)
	if !ok {
		t.Fatal("linked program has no GPU resources")
	}
	if gp.pipeline == nil || gp.bindGroup == nil {
		t.Error("pipeline or bind group not created")
	}
	if gp.stride != 8 {
		t.Errorf("stride = %d, want 8", gp.stride)
	}
}

func TestLinkWithoutTranslation(t *testing.T) {
	ctx := NewContext(newNoopDevice(t), 300, 150)
	defer ctx.Destroy()

	set := shaders.Default()
	vs := set.Vertex.Source + "\n"
	p := compileAndLink(t, ctx, vs, set.Fragment.Source)
	if ctx.GetProgrami(p, gl.LINK_STATUS) != 0 {
		t.Fatal("program without a WGSL translation linked")
	}
	if log := ctx.GetProgramInfoLog(p); !strings.Contains(log, "no WGSL translation") {
		t.Errorf("info log = %q", log)
	}
}

func TestBootstrapOnNoopDevice(t *testing.T) {
	cv := NewCanvas(newNoopDevice(t), 300, 150)
	defer cv.Close()

	scene, err := trapezoid.Bootstrap(cv)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	ctx := scene.Context.(*Context)
	if ctx.target == nil {
		t.Error("draw did not create the target texture")
	}
	if ctx.clearPending {
		t.Error("clear still pending after draw")
	}

	pm := trapezoid.ReadPixmap(ctx, 300, 150)
	if len(pm.Data()) != 300*150*4 {
		t.Errorf("len(Data) = %d", len(pm.Data()))
	}
	if e := ctx.GetError(); e != gl.NO_ERROR {
		t.Errorf("GetError = %v", e)
	}
}

func TestClearIsDeferred(t *testing.T) {
	ctx := NewContext(newNoopDevice(t), 4, 4)
	defer ctx.Destroy()

	ctx.ClearColor(0.5, 0, 0, 1)
	ctx.Clear(gl.COLOR_BUFFER_BIT)
	if !ctx.clearPending || ctx.clearColor != [4]float32{0.5, 0, 0, 1} {
		t.Fatalf("pending clear = %v %v", ctx.clearPending, ctx.clearColor)
	}
	data := make([]byte, 4*4*4)
	ctx.ReadPixels(0, 0, 4, 4, data)
	if ctx.clearPending {
		t.Error("ReadPixels did not flush the pending clear")
	}
}

func TestDrawWithoutProgram(t *testing.T) {
	ctx := NewContext(newNoopDevice(t), 4, 4)
	defer ctx.Destroy()

	ctx.DrawArrays(gl.TRIANGLES, 0, 3)
	if e := ctx.GetError(); e != gl.INVALID_OPERATION {
		t.Errorf("GetError = %v, want INVALID_OPERATION", e)
	}
}

func TestPackUniforms(t *testing.T) {
	set := shaders.Default()
	vs, err := glsl.Compile(glsl.VertexStage, set.Vertex.Source)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := glsl.Compile(glsl.FragmentStage, set.Fragment.Source)
	if err != nil {
		t.Fatal(err)
	}
	lp, err := glsl.Link(vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	if err := lp.SetUniform(lp.UniformLocation("u_resolution"), glsl.Vec(300, 150)); err != nil {
		t.Fatal(err)
	}
	if err := lp.SetUniform(lp.UniformLocation("u_color"), glsl.Vec(0, 0.8, 0.6, 1)); err != nil {
		t.Fatal(err)
	}

	gp := &gpuProgram{set: set, uniforms: make([]byte, set.UniformSize)}
	got := gp.packUniforms(lp)
	want := floatBytes(300, 150, 0, 0, 0, 0.8, 0.6, 1)
	if string(got) != string(want) {
		t.Errorf("packed uniforms = % x, want % x", got, want)
	}
}

func TestVertexLayoutRejectsUnknownAttribute(t *testing.T) {
	set := shaders.Default()
	set.AttribLocations = map[string]uint32{}
	vs, _ := glsl.Compile(glsl.VertexStage, set.Vertex.Source)
	fs, _ := glsl.Compile(glsl.FragmentStage, set.Fragment.Source)
	lp, err := glsl.Link(vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := vertexLayout(set, lp); err == nil {
		t.Error("vertexLayout accepted an attribute without a WGSL location")
	}
}

func TestBGRAToFramebuffer(t *testing.T) {
	// Two rows of one pixel, padded to a 8-byte pitch, top row first.
	src := []byte{
		1, 2, 3, 4, 0, 0, 0, 0,
		5, 6, 7, 8, 0, 0, 0, 0,
	}
	got := bgraToFramebuffer(src, 8, 1, 2)
	want := []byte{7, 6, 5, 8, 3, 2, 1, 4}
	if string(got) != string(want) {
		t.Errorf("bgraToFramebuffer = %v, want %v", got, want)
	}
}

func TestAlignedPitch(t *testing.T) {
	tests := []struct {
		width uint32
		want  uint32
	}{
		{1, 256},
		{64, 256},
		{65, 512},
		{300, 1280},
	}
	for _, tt := range tests {
		if got := alignedPitch(tt.width); got != tt.want {
			t.Errorf("alignedPitch(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func floatBytes(v ...float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}
