package trapezoid

import "github.com/gogpu/trapezoid/gl"

// Canvas is the drawing surface the bootstrap renders into.
//
// Width and Height report the backing pixel buffer size, which is what
// the viewport and the resolution uniform use. CSS or display size plays
// no part.
type Canvas interface {
	Width() int
	Height() int

	// Context returns the rendering context of the given kind, or an
	// error wrapping ErrContextUnavailable.
	Context(kind string) (gl.Context, error)
}
