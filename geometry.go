package trapezoid

import (
	"encoding/binary"
	"math"
)

// Positions holds two triangles in pixel coordinates (origin top-left),
// two components per vertex.
var Positions = [12]float32{
	10, 20,
	80, 20,
	10, 30,
	10, 30,
	80, 20,
	80, 30,
}

const (
	// ComponentsPerVertex is the size of the position attribute.
	ComponentsPerVertex = 2

	// VertexCount is the number of vertices uploaded and drawn.
	VertexCount = len(Positions) / ComponentsPerVertex
)

// FillColor is the RGBA colour of the triangles.
var FillColor = [4]float32{0.0, 0.8, 0.6, 1.0}

// ClearColor is the colour the framebuffer is cleared to.
var ClearColor = [4]float32{0, 0, 0, 0}

// PositionBytes returns Positions encoded as little-endian float32, the
// byte layout uploaded to the vertex buffer.
func PositionBytes() []byte {
	b := make([]byte, 4*len(Positions))
	for i, f := range Positions {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return b
}
