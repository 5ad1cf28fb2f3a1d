package glstate

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/internal/glsl"
)

// CheckDraw validates a DrawArrays call against the current state and
// returns the program to run. ok is false when the call must be skipped,
// with any error already recorded. Point and line modes are valid but not
// rasterized; they return ok == false without an error.
func (s *State) CheckDraw(mode gl.Enum, first, count int) (prog *Program, ok bool) {
	const call = "DrawArrays"
	switch mode {
	case gl.TRIANGLES, gl.TRIANGLE_STRIP, gl.TRIANGLE_FAN:
	case gl.POINTS, gl.LINES, gl.LINE_STRIP, gl.LINE_LOOP:
		s.logger.Warn("primitive mode not rasterized", "mode", uint32(mode))
		return nil, false
	default:
		s.SetError(gl.INVALID_ENUM, call)
		return nil, false
	}
	if first < 0 || count < 0 {
		s.SetError(gl.INVALID_VALUE, call)
		return nil, false
	}
	if s.current == nil || s.current.Linked == nil {
		s.SetError(gl.INVALID_OPERATION, call)
		return nil, false
	}
	if !s.checkRanges(s.current.Linked, first, count) {
		s.SetError(gl.INVALID_OPERATION, call)
		return nil, false
	}
	return s.current, true
}

// checkRanges reports whether every enabled array feeding an active
// attribute holds enough data for vertices [first, first+count).
func (s *State) checkRanges(prog *glsl.Program, first, count int) bool {
	if count == 0 {
		return true
	}
	last := first + count - 1
	for _, a := range prog.Attributes {
		if a.Location >= MaxVertexAttribs {
			return false
		}
		p := &s.vao.attribs[a.Location]
		if !p.Enabled {
			continue
		}
		if p.buf == nil {
			return false
		}
		if p.Offset+last*p.EffectiveStride()+p.Size*p.elemSize() > len(p.buf.data) {
			return false
		}
	}
	return true
}

func (p *AttribPointer) elemSize() int {
	if p.Type == gl.UNSIGNED_BYTE {
		return 1
	}
	return 4
}

// EffectiveStride is the byte distance between consecutive vertices.
func (p *AttribPointer) EffectiveStride() int {
	if p.Stride != 0 {
		return p.Stride
	}
	return p.Size * p.elemSize()
}

// Fetch reads vertex id of the attribute at loc. Disabled arrays yield the
// generic default (0, 0, 0, 1). The range must have been checked by
// CheckDraw.
func (s *State) Fetch(loc, id int) glsl.Value {
	v := glsl.Vec(0, 0, 0, 1)
	p := &s.vao.attribs[loc]
	if !p.Enabled {
		return v
	}
	base := p.Offset + id*p.EffectiveStride()
	for k := 0; k < p.Size; k++ {
		switch p.Type {
		case gl.FLOAT:
			bits := binary.LittleEndian.Uint32(p.buf.data[base+4*k:])
			v.V[k] = math.Float32frombits(bits)
		case gl.UNSIGNED_BYTE:
			b := float32(p.buf.data[base+k])
			if p.Normalized {
				b /= 255
			}
			v.V[k] = b
		}
	}
	return v
}

// Triangles returns vertex indices, relative to first, of the triangles
// mode assembles from count vertices. Strip triangles keep the winding of
// the first triangle.
func Triangles(mode gl.Enum, count int) [][3]int {
	var tris [][3]int
	switch mode {
	case gl.TRIANGLES:
		for i := 0; i+2 < count; i += 3 {
			tris = append(tris, [3]int{i, i + 1, i + 2})
		}
	case gl.TRIANGLE_STRIP:
		for i := 0; i+2 < count; i++ {
			if i%2 == 0 {
				tris = append(tris, [3]int{i, i + 1, i + 2})
			} else {
				tris = append(tris, [3]int{i + 1, i, i + 2})
			}
		}
	case gl.TRIANGLE_FAN:
		for i := 1; i+1 < count; i++ {
			tris = append(tris, [3]int{0, i, i + 1})
		}
	}
	return tris
}

// CheckReadPixels validates a ReadPixels call.
func (s *State) CheckReadPixels(width, height int, data []byte) bool {
	if width < 0 || height < 0 {
		s.SetError(gl.INVALID_VALUE, "ReadPixels")
		return false
	}
	if len(data) < width*height*4 {
		s.SetError(gl.INVALID_OPERATION, "ReadPixels")
		return false
	}
	return true
}

// CopyRect copies the width×height rectangle at (x, y) of a bottom-up RGBA8
// image of size fbWidth×fbHeight into data. Pixels outside the image read
// as zero.
func CopyRect(fb []uint8, fbWidth, fbHeight, x, y, width, height int, data []byte) {
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			dst := data[(row*width+col)*4:][:4]
			fx, fy := x+col, y+row
			if fx < 0 || fx >= fbWidth || fy < 0 || fy >= fbHeight {
				clear(dst)
				continue
			}
			copy(dst, fb[(fy*fbWidth+fx)*4:][:4])
		}
	}
}

// ToRGBA8 converts normalized colour components to bytes, clamping to
// [0, 1] and rounding to nearest.
func ToRGBA8(v [4]float32) [4]uint8 {
	var out [4]uint8
	for i, f := range v {
		f = min(max(f, 0), 1)
		if f != f { // NaN
			f = 0
		}
		out[i] = uint8(math.Round(float64(f) * 255))
	}
	return out
}
