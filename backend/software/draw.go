package software

import (
	"math"

	"github.com/gogpu/trapezoid/gl"
	"github.com/gogpu/trapezoid/internal/glsl"
	"github.com/gogpu/trapezoid/internal/glstate"
)

// vertex is a shaded vertex in window coordinates.
type vertex struct {
	x, y, z float64
	invW    float64
	vary    []glsl.Value
}

func (c *Context) DrawArrays(mode gl.Enum, first, count int) {
	prog, ok := c.CheckDraw(mode, first, count)
	if !ok {
		return
	}
	lp := prog.Linked

	verts := make([]vertex, count)
	inputs := make([]glsl.Value, len(lp.Attributes))
	for i := range verts {
		id := first + i
		for j, a := range lp.Attributes {
			inputs[j] = c.Fetch(a.Location, id)
		}
		pos, vary := lp.RunVertex(inputs, id)
		verts[i] = c.toWindow(pos, vary)
	}

	tris := glstate.Triangles(mode, count)
	for _, t := range tris {
		c.rasterize(lp, &verts[t[0]], &verts[t[1]], &verts[t[2]])
	}
	c.Logger().Debug("software: draw", "first", first, "count", count, "triangles", len(tris))
}

// toWindow applies the perspective divide and the viewport transform.
// Depth range is the default [0, 1].
func (c *Context) toWindow(pos glsl.Value, vary []glsl.Value) vertex {
	w := float64(pos.V[3])
	v := vertex{vary: vary}
	if w <= 0 {
		return v
	}
	ndcX := float64(pos.V[0]) / w
	ndcY := float64(pos.V[1]) / w
	ndcZ := float64(pos.V[2]) / w
	vx, vy, vw, vh := c.ViewportRect()
	v.x = (ndcX+1)*float64(vw)/2 + float64(vx)
	v.y = (ndcY+1)*float64(vh)/2 + float64(vy)
	v.z = ndcZ*0.5 + 0.5
	v.invW = 1 / w
	return v
}

// edge is the signed area term for the directed edge a→b evaluated at p.
// It is positive when p lies to the left of the edge (y up).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// topLeft reports whether the directed edge a→b of a counter-clockwise
// triangle is a top or left edge in GL window coordinates.
func topLeft(ax, ay, bx, by float64) bool {
	dx, dy := bx-ax, by-ay
	return (dy == 0 && dx < 0) || dy < 0
}

// rasterize fills the triangle's covered pixel centres inside the viewport.
// Triangles with a vertex behind the eye (w <= 0) are discarded rather
// than clipped.
func (c *Context) rasterize(prog *glsl.Program, a, b, d *vertex) {
	if a.invW == 0 || b.invW == 0 || d.invW == 0 {
		return
	}
	area := edge(a.x, a.y, b.x, b.y, d.x, d.y)
	if area == 0 || math.IsNaN(area) {
		return
	}
	if area < 0 {
		b, d = d, b
		area = -area
	}

	vx, vy, vw, vh := c.ViewportRect()
	x0 := max(vx, 0, int(math.Floor(min(a.x, b.x, d.x))))
	y0 := max(vy, 0, int(math.Floor(min(a.y, b.y, d.y))))
	x1 := min(vx+vw, c.width, int(math.Ceil(max(a.x, b.x, d.x))))
	y1 := min(vy+vh, c.height, int(math.Ceil(max(a.y, b.y, d.y))))

	tlA := topLeft(b.x, b.y, d.x, d.y)
	tlB := topLeft(d.x, d.y, a.x, a.y)
	tlD := topLeft(a.x, a.y, b.x, b.y)
	inside := func(e float64, tl bool) bool { return e > 0 || (e == 0 && tl) }

	vary := make([]glsl.Value, len(a.vary))
	for y := y0; y < y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float64(x) + 0.5
			ea := edge(b.x, b.y, d.x, d.y, px, py)
			eb := edge(d.x, d.y, a.x, a.y, px, py)
			ed := edge(a.x, a.y, b.x, b.y, px, py)
			if !inside(ea, tlA) || !inside(eb, tlB) || !inside(ed, tlD) {
				continue
			}
			la, lb, ld := ea/area, eb/area, ed/area

			// Varyings are interpolated perspective-correctly.
			invW := la*a.invW + lb*b.invW + ld*d.invW
			wa, wb, wd := la*a.invW/invW, lb*b.invW/invW, ld*d.invW/invW
			for i := range vary {
				vary[i].T = a.vary[i].T
				for k := 0; k < 4; k++ {
					vary[i].V[k] = float32(wa*float64(a.vary[i].V[k]) +
						wb*float64(b.vary[i].V[k]) +
						wd*float64(d.vary[i].V[k]))
				}
			}
			z := la*a.z + lb*b.z + ld*d.z
			fragCoord := glsl.Vec(float32(px), float32(py), float32(z), float32(invW))

			out, ok := prog.RunFragment(vary, fragCoord)
			if !ok {
				continue
			}
			px8 := glstate.ToRGBA8(out.V)
			copy(c.fb[(y*c.width+x)*4:][:4], px8[:])
		}
	}
}
