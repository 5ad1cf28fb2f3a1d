// Package shaders holds the versioned shader assets drawn by trapezoid.
//
// The GLSL ES 3.00 pair is what WebGL2 contexts compile. The WGSL twin
// carries the same math for WebGPU backends, which cannot consume GLSL.
// All sources are embedded at build time; Default validates the GLSL pair
// once. The WGSL twin is compiled lazily by SPIRV.
package shaders

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/naga"

	"github.com/gogpu/trapezoid/internal/glsl"
)

// MinVersion is the shading language version every GLSL asset requires.
// WebGL2 (or OpenGL ES 3.0) is the minimum capability that accepts it.
const MinVersion = glsl.RequiredVersion

// ErrInvalidAsset is wrapped by every validation failure.
var ErrInvalidAsset = errors.New("shaders: invalid asset")

//go:embed trapezoid.vert
var vertexSource string

//go:embed trapezoid.frag
var fragmentSource string

//go:embed trapezoid.wgsl
var wgslSource string

// Asset is a single shader stage.
type Asset struct {
	Name       string
	Stage      glsl.Stage
	MinVersion string
	Source     string
}

// Set is a vertex/fragment pair plus the interface names the bootstrap
// binds and, optionally, the WGSL translation of the pair.
type Set struct {
	Vertex   Asset
	Fragment Asset

	PositionAttrib    string
	ResolutionUniform string
	ColorUniform      string

	// WGSL has entry points vs_main and fs_main and a single uniform block
	// at group 0, binding 0. Empty when no translation exists.
	WGSL string

	// UniformOffsets maps GLSL uniform names to byte offsets in the WGSL
	// uniform block of UniformSize bytes.
	UniformOffsets map[string]uint64
	UniformSize    uint64

	// AttribLocations maps GLSL attribute names to WGSL @location indices.
	AttribLocations map[string]uint32
}

var (
	defaultOnce sync.Once
	defaultSet  Set
)

// Default returns the embedded trapezoid shaders. The set is built and
// validated on first use; an invalid embedded asset is a build defect and
// panics.
func Default() Set {
	defaultOnce.Do(func() {
		s := Set{
			Vertex: Asset{
				Name:       "trapezoid.vert",
				Stage:      glsl.VertexStage,
				MinVersion: MinVersion,
				Source:     vertexSource,
			},
			Fragment: Asset{
				Name:       "trapezoid.frag",
				Stage:      glsl.FragmentStage,
				MinVersion: MinVersion,
				Source:     fragmentSource,
			},
			PositionAttrib:    "a_position",
			ResolutionUniform: "u_resolution",
			ColorUniform:      "u_color",
			WGSL:              wgslSource,
			UniformOffsets: map[string]uint64{
				"u_resolution": 0,
				"u_color":      16,
			},
			UniformSize:     32,
			AttribLocations: map[string]uint32{"a_position": 0},
		}
		if err := s.Validate(); err != nil {
			panic(err)
		}
		defaultSet = s
	})
	return defaultSet
}

// Validate compiles and links the GLSL pair and checks that the bound
// names exist with the types the bootstrap feeds them.
func (s Set) Validate() error {
	for _, a := range []Asset{s.Vertex, s.Fragment} {
		if a.MinVersion != MinVersion {
			return fmt.Errorf("%w: %s requires GLSL ES %q, only %q is supported", ErrInvalidAsset, a.Name, a.MinVersion, MinVersion)
		}
	}
	vs, err := glsl.Compile(s.Vertex.Stage, s.Vertex.Source)
	if err != nil {
		return fmt.Errorf("%w: %s:\n%v", ErrInvalidAsset, s.Vertex.Name, err)
	}
	fs, err := glsl.Compile(s.Fragment.Stage, s.Fragment.Source)
	if err != nil {
		return fmt.Errorf("%w: %s:\n%v", ErrInvalidAsset, s.Fragment.Name, err)
	}
	if fs.FloatPrecision != "highp" {
		return fmt.Errorf("%w: %s must declare precision highp float", ErrInvalidAsset, s.Fragment.Name)
	}
	prog, err := glsl.Link(vs, fs)
	if err != nil {
		return fmt.Errorf("%w: link %s + %s:\n%v", ErrInvalidAsset, s.Vertex.Name, s.Fragment.Name, err)
	}

	if !hasAttrib(prog, s.PositionAttrib, glsl.Vec2) {
		return fmt.Errorf("%w: attribute %q must be an active vec2", ErrInvalidAsset, s.PositionAttrib)
	}
	for name, want := range map[string]glsl.Type{s.ResolutionUniform: glsl.Vec2, s.ColorUniform: glsl.Vec4} {
		loc := prog.UniformLocation(name)
		if loc < 0 || prog.Uniforms[loc].Type != want {
			return fmt.Errorf("%w: uniform %q must be an active %s", ErrInvalidAsset, name, want)
		}
	}

	for name := range s.UniformOffsets {
		if prog.UniformLocation(name) < 0 {
			return fmt.Errorf("%w: WGSL layout names unknown uniform %q", ErrInvalidAsset, name)
		}
	}
	for name := range s.AttribLocations {
		if prog.AttribLocation(name) < 0 {
			return fmt.Errorf("%w: WGSL layout names unknown attribute %q", ErrInvalidAsset, name)
		}
	}
	return nil
}

func hasAttrib(p *glsl.Program, name string, t glsl.Type) bool {
	for _, a := range p.Attributes {
		if a.Name == name {
			return a.Type == t
		}
	}
	return false
}

// Matches reports whether the GLSL sources are exactly those of s.
func (s Set) Matches(vertex, fragment string) bool {
	return s.Vertex.Source == vertex && s.Fragment.Source == fragment
}

var spirvCache sync.Map // WGSL source -> []uint32

// SPIRV compiles the WGSL twin to SPIR-V words. Results are cached per
// source text.
func (s Set) SPIRV() ([]uint32, error) {
	if s.WGSL == "" {
		return nil, fmt.Errorf("shaders: %s has no WGSL translation", s.Vertex.Name)
	}
	if words, ok := spirvCache.Load(s.WGSL); ok {
		return words.([]uint32), nil
	}

	spirvBytes, err := naga.Compile(s.WGSL)
	if err != nil {
		return nil, fmt.Errorf("shaders: compile WGSL: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	spirvCache.Store(s.WGSL, words)
	return words, nil
}
