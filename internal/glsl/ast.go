package glsl

// Stage identifies a pipeline stage.
type Stage uint8

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	if s == FragmentStage {
		return "fragment"
	}
	return "vertex"
}

// Qualifier is the storage qualifier of a variable.
type Qualifier uint8

const (
	QualLocal Qualifier = iota
	QualConst
	QualIn
	QualOut
	QualUniform
)

// Var is a declared variable. Globals are listed in Shader.Globals.
type Var struct {
	Name      string
	Type      Type
	Qual      Qualifier
	Precision string
	Location  int // explicit layout location, or -1
	Line      int
	Builtin   bool

	// Used records static use inside main.
	Used bool

	slot int
}

// Slot is the index of v in a frame of its shader.
func (v *Var) Slot() int { return v.slot }

type stmt interface{ stmtNode() }

type declStmt struct {
	v    *Var
	init expr
}

type assignStmt struct {
	op  string
	lhs expr
	rhs expr
}

type returnStmt struct{}

type blockStmt struct {
	list []stmt
}

func (*declStmt) stmtNode()   {}
func (*assignStmt) stmtNode() {}
func (*returnStmt) stmtNode() {}
func (*blockStmt) stmtNode()  {}

type expr interface {
	typ() Type
}

type identExpr struct {
	v *Var
}

type literalExpr struct {
	val Value
}

type unaryExpr struct {
	x expr
}

type binaryExpr struct {
	op   byte
	x, y expr
	t    Type
}

type constructExpr struct {
	t    Type
	args []expr
}

type swizzleExpr struct {
	x     expr
	comps []int
}

func (e *identExpr) typ() Type     { return e.v.Type }
func (e *literalExpr) typ() Type   { return e.val.T }
func (e *unaryExpr) typ() Type     { return e.x.typ() }
func (e *binaryExpr) typ() Type    { return e.t }
func (e *constructExpr) typ() Type { return e.t }
func (e *swizzleExpr) typ() Type   { return vecType(len(e.comps)) }
