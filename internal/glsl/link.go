package glsl

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUniformType is returned by SetUniform when the value does not match
// the declared type.
var ErrUniformType = errors.New("glsl: uniform type mismatch")

// Attribute is an active vertex input of a linked program.
type Attribute struct {
	Name     string
	Type     Type
	Location int

	v *Var
}

// Uniform is an active uniform of a linked program.
type Uniform struct {
	Name     string
	Type     Type
	Location int
	Value    Value

	vs, fs *Var
}

type varying struct {
	out, in *Var
}

// Program is a linked vertex/fragment pair.
type Program struct {
	Vertex   *Shader
	Fragment *Shader

	Attributes []*Attribute
	Uniforms   []*Uniform

	// Output is the fragment colour output, nil if the fragment stage
	// writes nothing.
	Output *Var

	varyings []varying
	vframe   Frame
	fframe   Frame
}

// Link combines a vertex and a fragment shader. On failure the error is
// a *LinkError.
func Link(vs, fs *Shader) (*Program, error) {
	le := &LinkError{}
	fail := func(format string, args ...any) {
		le.Msgs = append(le.Msgs, fmt.Sprintf(format, args...))
	}

	if vs == nil || vs.Stage != VertexStage || fs == nil || fs.Stage != FragmentStage {
		fail("a program requires one vertex and one fragment shader")
		return nil, le
	}
	if !vs.HasMain() {
		fail("Missing main() in vertex shader")
	}
	if !fs.HasMain() {
		fail("Missing main() in fragment shader")
	}

	p := &Program{Vertex: vs, Fragment: fs}

	for _, in := range fs.Globals {
		if in.Qual != QualIn {
			continue
		}
		out := vs.Global(in.Name)
		if out == nil || out.Qual != QualOut {
			if in.Used {
				fail("Input varying '%s' not matched by an output in the vertex shader", in.Name)
			}
			continue
		}
		if out.Type != in.Type {
			fail("Types of varying '%s' differ between vertex and fragment shaders", in.Name)
			continue
		}
		p.varyings = append(p.varyings, varying{out: out, in: in})
	}

	p.linkUniforms(fail)
	p.linkAttributes(fail)

	for _, v := range fs.Globals {
		if v.Qual != QualOut {
			continue
		}
		if p.Output != nil {
			fail("fragment shader declares more than one output")
			break
		}
		p.Output = v
	}

	if len(le.Msgs) > 0 {
		return nil, le
	}
	p.vframe = vs.NewFrame()
	p.fframe = fs.NewFrame()
	return p, nil
}

func (p *Program) linkUniforms(fail func(string, ...any)) {
	byName := map[string]*Uniform{}
	var order []*Uniform
	add := func(v *Var, stage Stage) {
		u, ok := byName[v.Name]
		if !ok {
			u = &Uniform{Name: v.Name, Type: v.Type, Value: Value{T: v.Type}}
			byName[v.Name] = u
			order = append(order, u)
		} else if u.Type != v.Type {
			fail("Types of uniform '%s' differ between shaders", v.Name)
			return
		}
		if stage == VertexStage {
			u.vs = v
		} else {
			u.fs = v
		}
	}
	for _, v := range p.Vertex.Globals {
		if v.Qual == QualUniform {
			add(v, VertexStage)
		}
	}
	for _, v := range p.Fragment.Globals {
		if v.Qual == QualUniform {
			add(v, FragmentStage)
		}
	}
	for _, u := range order {
		if (u.vs != nil && u.vs.Used) || (u.fs != nil && u.fs.Used) {
			u.Location = len(p.Uniforms)
			p.Uniforms = append(p.Uniforms, u)
		}
	}
}

func (p *Program) linkAttributes(fail func(string, ...any)) {
	taken := map[int]string{}
	var pending []*Attribute
	for _, v := range p.Vertex.Globals {
		if v.Qual != QualIn || !v.Used {
			continue
		}
		a := &Attribute{Name: v.Name, Type: v.Type, Location: v.Location, v: v}
		if a.Location >= 0 {
			if other, dup := taken[a.Location]; dup {
				fail("Attributes '%s' and '%s' are bound to the same location %d", other, a.Name, a.Location)
				continue
			}
			taken[a.Location] = a.Name
		} else {
			pending = append(pending, a)
		}
		p.Attributes = append(p.Attributes, a)
	}
	next := 0
	for _, a := range pending {
		for {
			if _, used := taken[next]; !used {
				break
			}
			next++
		}
		a.Location = next
		taken[next] = a.Name
	}
	slices.SortFunc(p.Attributes, func(a, b *Attribute) int { return a.Location - b.Location })
}

// AttribLocation returns the location of an active attribute, or -1.
func (p *Program) AttribLocation(name string) int {
	for _, a := range p.Attributes {
		if a.Name == name {
			return a.Location
		}
	}
	return -1
}

// UniformLocation returns the location of an active uniform, or -1.
func (p *Program) UniformLocation(name string) int {
	for _, u := range p.Uniforms {
		if u.Name == name {
			return u.Location
		}
	}
	return -1
}

// SetUniform stores v for the uniform at loc.
func (p *Program) SetUniform(loc int, v Value) error {
	if loc < 0 || loc >= len(p.Uniforms) {
		return fmt.Errorf("glsl: no uniform at location %d", loc)
	}
	u := p.Uniforms[loc]
	if u.Type != v.T {
		return fmt.Errorf("%w: %s is %s, got %s", ErrUniformType, u.Name, u.Type, v.T)
	}
	u.Value = v
	return nil
}

// VaryingCount is the number of values passed from the vertex to the
// fragment stage.
func (p *Program) VaryingCount() int { return len(p.varyings) }

// RunVertex runs the vertex stage. inputs are parallel to p.Attributes.
// The returned varyings must be passed to RunFragment after interpolation.
func (p *Program) RunVertex(inputs []Value, vertexID int) (Value, []Value) {
	f := p.vframe
	p.Vertex.Reset(f)
	for i, a := range p.Attributes {
		if i < len(inputs) {
			f[a.v.slot] = convert(inputs[i], a.Type)
		}
	}
	for _, u := range p.Uniforms {
		if u.vs != nil {
			f[u.vs.slot] = u.Value
		}
	}
	f[p.Vertex.vertexID.slot] = Value{T: Int, V: [4]float32{float32(vertexID)}}
	p.Vertex.Run(f)

	vary := make([]Value, len(p.varyings))
	for i, v := range p.varyings {
		vary[i] = f[v.out.slot]
	}
	return f[p.Vertex.position.slot], vary
}

// RunFragment runs the fragment stage and returns the colour output.
// ok is false when the program has no fragment output.
func (p *Program) RunFragment(vary []Value, fragCoord Value) (color Value, ok bool) {
	f := p.fframe
	p.Fragment.Reset(f)
	for i, v := range p.varyings {
		if i < len(vary) {
			f[v.in.slot] = convert(vary[i], v.in.Type)
		}
	}
	for _, u := range p.Uniforms {
		if u.fs != nil {
			f[u.fs.slot] = u.Value
		}
	}
	f[p.Fragment.fragCoord.slot] = convert(fragCoord, Vec4)
	p.Fragment.Run(f)
	if p.Output == nil {
		return Value{}, false
	}
	return f[p.Output.slot], true
}
