package shaders

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/trapezoid/internal/glsl"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	for _, a := range []Asset{s.Vertex, s.Fragment} {
		if a.MinVersion != "300 es" {
			t.Errorf("%s MinVersion = %q", a.Name, a.MinVersion)
		}
		if !strings.HasPrefix(a.Source, "#version 300 es\n") {
			t.Errorf("%s does not start with the version directive", a.Name)
		}
	}
	if !strings.Contains(s.Fragment.Source, "precision highp float;") {
		t.Error("fragment source lacks precision highp float")
	}
	if s.Vertex.Stage != glsl.VertexStage || s.Fragment.Stage != glsl.FragmentStage {
		t.Error("stages are swapped")
	}
	if s.WGSL == "" || !strings.Contains(s.WGSL, "fn vs_main") || !strings.Contains(s.WGSL, "fn fs_main") {
		t.Error("WGSL twin is missing entry points")
	}
}

func TestDefaultIsCached(t *testing.T) {
	a, b := Default(), Default()
	if a.Vertex.Source != b.Vertex.Source || a.UniformSize != b.UniformSize {
		t.Error("Default() returned different sets")
	}
}

func TestMatches(t *testing.T) {
	s := Default()
	if !s.Matches(s.Vertex.Source, s.Fragment.Source) {
		t.Error("Matches(own sources) = false")
	}
	if s.Matches(s.Fragment.Source, s.Vertex.Source) {
		t.Error("Matches(swapped sources) = true")
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Set)
		want   string
	}{
		{"version", func(s *Set) { s.Vertex.MinVersion = "100" }, "requires GLSL ES"},
		{"compile", func(s *Set) { s.Vertex.Source = strings.Replace(s.Vertex.Source, "a_position /", "a_positon /", 1) }, "undeclared identifier"},
		{"precision", func(s *Set) {
			s.Fragment.Source = strings.Replace(s.Fragment.Source, "precision highp float;", "precision mediump float;", 1)
		}, "precision highp float"},
		{"attribute", func(s *Set) { s.PositionAttrib = "a_pos" }, `attribute "a_pos"`},
		{"uniform", func(s *Set) { s.ColorUniform = "u_resolution" }, "must be an active vec4"},
		{"layout", func(s *Set) { s.UniformOffsets = map[string]uint64{"u_missing": 0} }, "unknown uniform"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.UniformOffsets = map[string]uint64{"u_resolution": 0, "u_color": 16}
			tt.modify(&s)
			err := s.Validate()
			if !errors.Is(err, ErrInvalidAsset) {
				t.Fatalf("Validate() = %v, want ErrInvalidAsset", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.want)
			}
		})
	}
}

func TestSPIRVWithoutWGSL(t *testing.T) {
	s := Default()
	s.WGSL = ""
	if _, err := s.SPIRV(); err == nil {
		t.Error("SPIRV() without WGSL succeeded")
	}
}
