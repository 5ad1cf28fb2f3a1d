package glsl

// Frame holds the values of every variable of one shader invocation,
// indexed by Var.Slot.
type Frame []Value

// NewFrame allocates a zeroed frame for sh.
func (sh *Shader) NewFrame() Frame {
	f := make(Frame, len(sh.vars))
	sh.Reset(f)
	return f
}

// Reset zeroes every slot of f, keeping the declared types.
func (sh *Shader) Reset(f Frame) {
	for _, v := range sh.vars {
		f[v.slot] = Value{T: v.Type}
	}
}

// Run executes global initializers and main against f.
// Inputs and uniforms must already be stored in f.
func (sh *Shader) Run(f Frame) {
	for _, s := range sh.inits {
		exec(s, f)
	}
	if sh.main != nil {
		execBlock(sh.main, f)
	}
}

// execBlock returns false when a return statement was executed.
func execBlock(b *blockStmt, f Frame) bool {
	for _, s := range b.list {
		if !exec(s, f) {
			return false
		}
	}
	return true
}

func exec(s stmt, f Frame) bool {
	switch s := s.(type) {
	case *declStmt:
		if s.init != nil {
			f[s.v.slot] = convert(eval(s.init, f), s.v.Type)
		} else {
			f[s.v.slot] = Value{T: s.v.Type}
		}
	case *assignStmt:
		val := eval(s.rhs, f)
		if s.op != "=" {
			cur := eval(s.lhs, f)
			val = arith(s.op[0], cur.T, cur, val)
		}
		store(s.lhs, f, val)
	case *returnStmt:
		return false
	case *blockStmt:
		return execBlock(s, f)
	}
	return true
}

func store(e expr, f Frame, val Value) {
	switch e := e.(type) {
	case *identExpr:
		f[e.v.slot] = convert(val, e.v.Type)
	case *swizzleExpr:
		cur := eval(e.x, f)
		for i, c := range e.comps {
			cur.V[c] = val.V[i]
		}
		store(e.x, f, cur)
	}
}

func eval(e expr, f Frame) Value {
	switch e := e.(type) {
	case *identExpr:
		return f[e.v.slot]
	case *literalExpr:
		return e.val
	case *unaryExpr:
		v := eval(e.x, f)
		for i := range v.V {
			v.V[i] = -v.V[i]
		}
		return v
	case *binaryExpr:
		return arith(e.op, e.t, eval(e.x, f), eval(e.y, f))
	case *constructExpr:
		return construct(e, f)
	case *swizzleExpr:
		x := eval(e.x, f)
		r := Value{T: vecType(len(e.comps))}
		for i, c := range e.comps {
			r.V[i] = x.V[c]
		}
		return r
	}
	return Value{}
}

func construct(e *constructExpr, f Frame) Value {
	r := Value{T: e.t}
	n := e.t.Size()
	if len(e.args) == 1 {
		a := eval(e.args[0], f)
		if a.T.Size() == 1 {
			for i := 0; i < n; i++ {
				r.V[i] = a.V[0]
			}
			return convert(r, e.t)
		}
	}
	k := 0
	for _, arg := range e.args {
		a := eval(arg, f)
		for i := 0; i < a.T.Size() && k < n; i++ {
			r.V[k] = a.V[i]
			k++
		}
	}
	return convert(r, e.t)
}

// convert retypes v as t, truncating toward zero for int.
func convert(v Value, t Type) Value {
	v.T = t
	if t == Int {
		v.V[0] = float32(int32(v.V[0]))
	}
	for i := t.Size(); i < len(v.V); i++ {
		v.V[i] = 0
	}
	return v
}

func arith(op byte, t Type, a, b Value) Value {
	r := Value{T: t}
	for i := 0; i < t.Size(); i++ {
		x, y := a.V[0], b.V[0]
		if a.T.Size() > 1 {
			x = a.V[i]
		}
		if b.T.Size() > 1 {
			y = b.V[i]
		}
		switch op {
		case '+':
			r.V[i] = x + y
		case '-':
			r.V[i] = x - y
		case '*':
			r.V[i] = x * y
		case '/':
			if t == Int {
				if y == 0 {
					r.V[i] = 0
				} else {
					r.V[i] = float32(int32(x) / int32(y))
				}
			} else {
				r.V[i] = x / y
			}
		}
	}
	if t == Int {
		r.V[0] = float32(int32(r.V[0]))
	}
	return r
}
