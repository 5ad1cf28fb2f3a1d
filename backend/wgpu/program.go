//go:build !nogpu

package wgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/trapezoid/internal/glsl"
	"github.com/gogpu/trapezoid/internal/glstate"
	"github.com/gogpu/trapezoid/shaders"
)

// vertexInput places one GLSL attribute in the interleaved vertex buffer.
type vertexInput struct {
	glslLocation int
	components   int
	offset       uint64
}

// gpuProgram holds the GPU objects of a linked program.
type gpuProgram struct {
	set shaders.Set

	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	inputs []vertexInput
	stride uint64

	uniforms []byte
}

var vertexFormats = [...]gputypes.VertexFormat{
	1: gputypes.VertexFormatFloat32,
	2: gputypes.VertexFormatFloat32x2,
	3: gputypes.VertexFormatFloat32x3,
	4: gputypes.VertexFormatFloat32x4,
}

// vertexLayout lays the program's attributes out back to back, in GLSL
// location order, each as float32 components of its declared type.
func vertexLayout(set shaders.Set, lp *glsl.Program) ([]vertexInput, []gputypes.VertexAttribute, uint64, error) {
	var (
		inputs []vertexInput
		attrs  []gputypes.VertexAttribute
		offset uint64
	)
	for _, a := range lp.Attributes {
		loc, ok := set.AttribLocations[a.Name]
		if !ok {
			return nil, nil, 0, fmt.Errorf("attribute %q has no WGSL location", a.Name)
		}
		n := a.Type.Size()
		if !a.Type.IsFloat() {
			return nil, nil, 0, fmt.Errorf("attribute %q: unsupported type %s", a.Name, a.Type)
		}
		inputs = append(inputs, vertexInput{glslLocation: a.Location, components: n, offset: offset})
		attrs = append(attrs, gputypes.VertexAttribute{
			Format:         vertexFormats[n],
			Offset:         offset,
			ShaderLocation: loc,
		})
		offset += uint64(n) * 4
	}
	return inputs, attrs, offset, nil
}

func (c *Context) createProgram(set shaders.Set, prog *glstate.Program) (gp *gpuProgram, err error) {
	inputs, attrs, stride, err := vertexLayout(set, prog.Linked)
	if err != nil {
		return nil, err
	}
	spirv, err := set.SPIRV()
	if err != nil {
		return nil, err
	}

	gp = &gpuProgram{
		set:      set,
		inputs:   inputs,
		stride:   stride,
		uniforms: make([]byte, set.UniformSize),
	}
	defer func() {
		if err != nil {
			c.destroyProgram(gp)
		}
	}()

	gp.module, err = c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  set.Vertex.Name,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return gp, fmt.Errorf("create shader module: %w", err)
	}

	gp.bindLayout, err = c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "trapezoid_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		return gp, fmt.Errorf("create bind group layout: %w", err)
	}

	gp.pipeLayout, err = c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "trapezoid_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{gp.bindLayout},
	})
	if err != nil {
		return gp, fmt.Errorf("create pipeline layout: %w", err)
	}

	gp.pipeline, err = c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "trapezoid_pipeline",
		Layout: gp.pipeLayout,
		Vertex: hal.VertexState{
			Module:     gp.module,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: stride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes:  attrs,
			}},
		},
		Fragment: &hal.FragmentState{
			Module:     gp.module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    gputypes.TextureFormatBGRA8Unorm,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return gp, fmt.Errorf("create render pipeline: %w", err)
	}

	gp.uniformBuf, err = c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "trapezoid_uniforms",
		Size:  set.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return gp, fmt.Errorf("create uniform buffer: %w", err)
	}

	gp.bindGroup, err = c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "trapezoid_uniform_bind",
		Layout: gp.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: gp.uniformBuf.NativeHandle(), Offset: 0, Size: set.UniformSize,
			}},
		},
	})
	if err != nil {
		return gp, fmt.Errorf("create bind group: %w", err)
	}
	return gp, nil
}

// destroyProgram releases resources in reverse creation order.
func (c *Context) destroyProgram(gp *gpuProgram) {
	if gp.bindGroup != nil {
		c.device.DestroyBindGroup(gp.bindGroup)
		gp.bindGroup = nil
	}
	if gp.uniformBuf != nil {
		c.device.DestroyBuffer(gp.uniformBuf)
		gp.uniformBuf = nil
	}
	if gp.pipeline != nil {
		c.device.DestroyRenderPipeline(gp.pipeline)
		gp.pipeline = nil
	}
	if gp.pipeLayout != nil {
		c.device.DestroyPipelineLayout(gp.pipeLayout)
		gp.pipeLayout = nil
	}
	if gp.bindLayout != nil {
		c.device.DestroyBindGroupLayout(gp.bindLayout)
		gp.bindLayout = nil
	}
	if gp.module != nil {
		c.device.DestroyShaderModule(gp.module)
		gp.module = nil
	}
}

// packUniforms writes the current uniform values into the WGSL uniform
// block layout. Uniforms without an offset are not visible to WGSL.
func (gp *gpuProgram) packUniforms(lp *glsl.Program) []byte {
	for _, u := range lp.Uniforms {
		off, ok := gp.set.UniformOffsets[u.Name]
		if !ok {
			continue
		}
		for k := 0; k < u.Type.Size(); k++ {
			at := off + uint64(k)*4
			if at+4 > uint64(len(gp.uniforms)) {
				break
			}
			bits := math.Float32bits(u.Value.V[k])
			if u.Type == glsl.Int {
				bits = uint32(int32(u.Value.V[k]))
			}
			binary.LittleEndian.PutUint32(gp.uniforms[at:], bits)
		}
	}
	return gp.uniforms
}

// gatherVertices builds an interleaved triangle-list vertex buffer from the
// bound attribute arrays.
func (gp *gpuProgram) gatherVertices(s *glstate.State, lp *glsl.Program, first int, tris [][3]int) []byte {
	out := make([]byte, 0, uint64(len(tris)*3)*gp.stride)
	var word [4]byte
	for _, t := range tris {
		for _, i := range t {
			for _, in := range gp.inputs {
				v := s.Fetch(in.glslLocation, first+i)
				for k := 0; k < in.components; k++ {
					binary.LittleEndian.PutUint32(word[:], math.Float32bits(v.V[k]))
					out = append(out, word[:]...)
				}
			}
		}
	}
	return out
}
