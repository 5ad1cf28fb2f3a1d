package trapezoid

import (
	"errors"
	"fmt"

	"github.com/gogpu/trapezoid/gl"
)

// ErrContextUnavailable is returned when the canvas cannot provide a
// WebGL2 context. It is the same value as gl.ErrContextUnavailable so
// backends need not import this package.
var ErrContextUnavailable = gl.ErrContextUnavailable

// ErrMissingLocation is returned when a linked program does not expose an
// attribute or uniform the bootstrap binds.
var ErrMissingLocation = errors.New("trapezoid: missing attribute or uniform")

// CompileError reports a shader that failed to compile.
type CompileError struct {
	Stage string // "vertex" or "fragment"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("trapezoid: compile %s shader: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("trapezoid: link program: %s", e.Log)
}
