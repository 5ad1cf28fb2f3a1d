package glsl

import (
	"strconv"
	"strings"
)

// RequiredVersion is the only #version accepted by Compile.
const RequiredVersion = "300 es"

// Shader is a compiled shader stage.
type Shader struct {
	Stage   Stage
	Version string

	// Globals lists user-declared globals in declaration order.
	Globals []*Var

	// FloatPrecision is the default float precision, empty if none was set.
	FloatPrecision string

	main  *blockStmt
	inits []stmt
	vars  []*Var

	position  *Var
	fragCoord *Var
	vertexID  *Var
}

// HasMain reports whether the shader defines main.
func (sh *Shader) HasMain() bool { return sh.main != nil }

// Global returns the user-declared global with the given name.
func (sh *Shader) Global(name string) *Var {
	for _, v := range sh.Globals {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Compile parses and type-checks src as a shader of the given stage.
// On failure the returned error is an ErrorList.
func Compile(stage Stage, src string) (*Shader, error) {
	toks, lerr := lex(src)
	if lerr != nil {
		return nil, ErrorList{lerr}
	}
	p := &parser{
		toks: toks,
		sh:   &Shader{Stage: stage},
	}
	if stage == VertexStage {
		p.sh.FloatPrecision = "highp"
	}
	p.run()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return p.sh, nil
}

type bailout struct{}

type parser struct {
	toks   []token
	pos    int
	sh     *Shader
	scopes []map[string]*Var
	errs   ErrorList
	inMain bool
}

func (p *parser) run() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
		}
	}()

	p.parseVersion()
	p.push()
	p.declareBuiltins()
	for p.peek().kind != tokEOF {
		p.parseGlobal()
	}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) is(text string) bool {
	t := p.peek()
	return (t.kind == tokPunct || t.kind == tokIdent) && t.text == text
}

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	t := p.peek()
	if !p.is(text) {
		p.fatal(t, "syntax error")
	}
	return p.next()
}

func (p *parser) ident() token {
	t := p.peek()
	if t.kind != tokIdent {
		p.fatal(t, "syntax error")
	}
	return p.next()
}

func (p *parser) errorAt(line int, tok, format string, args ...any) {
	p.errs = append(p.errs, errorf(line, tok, format, args...))
}

func (p *parser) fatal(t token, msg string) {
	p.errorAt(t.line, t.text, "%s", msg)
	panic(bailout{})
}

func (p *parser) push() { p.scopes = append(p.scopes, map[string]*Var{}) }
func (p *parser) pop()  { p.scopes = p.scopes[:len(p.scopes)-1] }

func (p *parser) lookup(name string) *Var {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if v, ok := p.scopes[i][name]; ok {
			return v
		}
	}
	return nil
}

func (p *parser) declare(v *Var) {
	scope := p.scopes[len(p.scopes)-1]
	if _, dup := scope[v.Name]; dup {
		p.errorAt(v.Line, v.Name, "redefinition")
	}
	if !v.Builtin && strings.HasPrefix(v.Name, "gl_") {
		p.errorAt(v.Line, v.Name, "identifiers starting with \"gl_\" are reserved")
	}
	v.slot = len(p.sh.vars)
	p.sh.vars = append(p.sh.vars, v)
	scope[v.Name] = v
}

func (p *parser) declareBuiltins() {
	builtin := func(name string, t Type, q Qualifier) *Var {
		v := &Var{Name: name, Type: t, Qual: q, Location: -1, Builtin: true, Precision: "highp"}
		p.declare(v)
		return v
	}
	switch p.sh.Stage {
	case VertexStage:
		p.sh.position = builtin("gl_Position", Vec4, QualOut)
		p.sh.vertexID = builtin("gl_VertexID", Int, QualIn)
	case FragmentStage:
		p.sh.fragCoord = builtin("gl_FragCoord", Vec4, QualIn)
	}
}

func (p *parser) parseVersion() {
	t := p.peek()
	if t.kind != tokDirective || !strings.HasPrefix(t.text, "version") {
		p.errorAt(t.line, "", "#version %s directive required on the first line", RequiredVersion)
		panic(bailout{})
	}
	p.next()
	ver := strings.Join(strings.Fields(strings.TrimPrefix(t.text, "version")), " ")
	if ver != RequiredVersion {
		p.errorAt(t.line, "version", "unsupported version '%s', %s required", ver, RequiredVersion)
		panic(bailout{})
	}
	p.sh.Version = ver
}

func isPrecision(s string) bool {
	return s == "lowp" || s == "mediump" || s == "highp"
}

func (p *parser) parseGlobal() {
	t := p.peek()
	switch {
	case t.kind == tokDirective:
		p.next()
		name, _, _ := strings.Cut(t.text, " ")
		p.errorAt(t.line, "#"+name, "unsupported preprocessor directive")
		return
	case p.accept(";"):
		return
	case t.text == "precision":
		p.next()
		prec := p.ident()
		if !isPrecision(prec.text) {
			p.fatal(prec, "syntax error")
		}
		tt := p.ident()
		typ, ok := lookupType(tt.text)
		if !ok || (typ != Float && typ != Int) {
			p.errorAt(tt.line, tt.text, "illegal type argument for default precision qualifier")
		}
		if typ == Float {
			p.sh.FloatPrecision = prec.text
		}
		p.expect(";")
		return
	case t.text == "void":
		p.next()
		p.parseMain()
		return
	}
	p.parseGlobalDecl()
}

func (p *parser) parseMain() {
	name := p.ident()
	if name.text != "main" {
		p.fatal(name, "only main() may be defined")
	}
	p.expect("(")
	p.accept("void")
	p.expect(")")
	if p.sh.main != nil {
		p.errorAt(name.line, "main", "function already has a body")
	}
	p.inMain = true
	body := p.parseBlock()
	p.inMain = false
	if p.sh.main == nil {
		p.sh.main = body
	}
}

func (p *parser) parseGlobalDecl() {
	loc := -1
	start := p.peek()
	if p.accept("layout") {
		loc = p.parseLayout()
	}

	qual := QualLocal
	switch {
	case p.accept("in"):
		qual = QualIn
	case p.accept("out"):
		qual = QualOut
	case p.accept("uniform"):
		qual = QualUniform
	case p.accept("const"):
		qual = QualConst
	}
	if loc >= 0 && qual != QualIn && qual != QualOut {
		p.errorAt(start.line, "layout", "location qualifier only allowed on in and out variables")
	}

	v, init := p.parseDeclarator(qual)
	v.Location = loc

	switch {
	case init != nil && (qual == QualIn || qual == QualOut || qual == QualUniform):
		p.errorAt(v.Line, v.Name, "cannot initialize this type of qualifier")
	case init == nil && qual == QualConst:
		p.errorAt(v.Line, v.Name, "variables with qualifier 'const' must be initialized")
	}
	if qual == QualOut && p.sh.Stage == FragmentStage && !v.Type.IsFloat() && v.Type != Invalid {
		p.errorAt(v.Line, v.Name, "fragment outputs must be float or float vectors")
	}

	p.declare(v)
	p.sh.Globals = append(p.sh.Globals, v)
	if init != nil {
		p.sh.inits = append(p.sh.inits, &declStmt{v: v, init: init})
	}
}

func (p *parser) parseLayout() int {
	p.expect("(")
	key := p.ident()
	if key.text != "location" {
		p.errorAt(key.line, key.text, "invalid layout qualifier")
	}
	p.expect("=")
	n := p.next()
	if n.kind != tokInt {
		p.fatal(n, "syntax error")
	}
	loc, err := strconv.Atoi(n.text)
	if err != nil {
		p.fatal(n, "invalid location")
	}
	p.expect(")")
	return loc
}

// parseDeclarator parses "[precision] type name [= init] ;".
func (p *parser) parseDeclarator(qual Qualifier) (*Var, expr) {
	prec := ""
	if isPrecision(p.peek().text) {
		prec = p.next().text
	}
	tt := p.ident()
	typ, ok := lookupType(tt.text)
	if !ok {
		p.fatal(tt, "syntax error")
	}
	if typ == Void {
		p.errorAt(tt.line, "void", "illegal use of type 'void'")
		typ = Invalid
	}
	if typ.IsFloat() && prec == "" && p.sh.FloatPrecision == "" {
		p.errorAt(tt.line, tt.text, "No precision specified for (float)")
	}
	name := p.ident()
	v := &Var{Name: name.text, Type: typ, Qual: qual, Precision: prec, Location: -1, Line: name.line}
	if v.Precision == "" && typ.IsFloat() {
		v.Precision = p.sh.FloatPrecision
	}

	var init expr
	if p.accept("=") {
		eq := p.toks[p.pos-1]
		init = p.parseExpr()
		if it := init.typ(); it != Invalid && typ != Invalid && it != typ {
			p.errorAt(eq.line, "=", "cannot convert from '%s' to '%s'", it, typ)
		}
	}
	p.expect(";")
	return v, init
}

func (p *parser) parseBlock() *blockStmt {
	p.expect("{")
	p.push()
	defer p.pop()
	b := &blockStmt{}
	for !p.is("}") {
		if p.peek().kind == tokEOF {
			p.fatal(p.peek(), "syntax error")
		}
		if s := p.parseStmt(); s != nil {
			b.list = append(b.list, s)
		}
	}
	p.expect("}")
	return b
}

func (p *parser) parseStmt() stmt {
	t := p.peek()
	switch {
	case p.is("{"):
		return p.parseBlock()
	case p.accept(";"):
		return nil
	case p.accept("return"):
		p.expect(";")
		return &returnStmt{}
	case t.text == "if" || t.text == "for" || t.text == "while" || t.text == "do" || t.text == "switch":
		p.fatal(t, "unsupported statement")
	}

	if t.kind == tokIdent {
		_, isType := lookupType(t.text)
		if isType || t.text == "const" || isPrecision(t.text) {
			qual := QualLocal
			if p.accept("const") {
				qual = QualConst
			}
			v, init := p.parseDeclarator(qual)
			if init == nil && qual == QualConst {
				p.errorAt(v.Line, v.Name, "variables with qualifier 'const' must be initialized")
			}
			p.declare(v)
			return &declStmt{v: v, init: init}
		}
	}

	lhs := p.parseExpr()
	opTok := p.peek()
	switch opTok.text {
	case "=", "+=", "-=", "*=", "/=":
	default:
		p.fatal(opTok, "syntax error")
	}
	p.next()
	rhs := p.parseExpr()
	p.expect(";")

	p.checkLValue(lhs, opTok.line)
	lt, rt := lhs.typ(), rhs.typ()
	if lt != Invalid && rt != Invalid {
		result := rt
		if opTok.text != "=" {
			result = p.binaryType(opTok.text[0], lt, rt, opTok.line)
		}
		if result != Invalid && result != lt {
			p.errorAt(opTok.line, opTok.text, "cannot convert from '%s' to '%s'", rt, lt)
		}
	}
	return &assignStmt{op: opTok.text, lhs: lhs, rhs: rhs}
}

func (p *parser) checkLValue(e expr, line int) {
	switch e := e.(type) {
	case *identExpr:
		switch e.v.Qual {
		case QualUniform:
			p.errorAt(line, e.v.Name, "l-value required (can't modify a uniform)")
		case QualIn:
			p.errorAt(line, e.v.Name, "l-value required (can't modify an input)")
		case QualConst:
			p.errorAt(line, e.v.Name, "l-value required (can't modify a const)")
		}
	case *swizzleExpr:
		seen := 0
		for _, c := range e.comps {
			if seen&(1<<c) != 0 {
				p.errorAt(line, "", "l-value of swizzle cannot have duplicate components")
				return
			}
			seen |= 1 << c
		}
		p.checkLValue(e.x, line)
	default:
		p.errorAt(line, "assign", "l-value required")
	}
}

func (p *parser) parseExpr() expr {
	x := p.parseMul()
	for p.is("+") || p.is("-") {
		op := p.next()
		y := p.parseMul()
		x = p.binary(op, x, y)
	}
	return x
}

func (p *parser) parseMul() expr {
	x := p.parseUnary()
	for p.is("*") || p.is("/") {
		op := p.next()
		y := p.parseUnary()
		x = p.binary(op, x, y)
	}
	return x
}

func (p *parser) binary(op token, x, y expr) expr {
	return &binaryExpr{op: op.text[0], x: x, y: y, t: p.binaryType(op.text[0], x.typ(), y.typ(), op.line)}
}

func (p *parser) binaryType(op byte, a, b Type, line int) Type {
	switch {
	case a == Invalid || b == Invalid:
		return Invalid
	case a == b && a != Void:
		return a
	case a == Float && b.IsVector():
		return b
	case b == Float && a.IsVector():
		return a
	}
	p.errorAt(line, string(op), "wrong operand types - no operation '%c' exists that takes a left-hand operand of type '%s' and a right operand of type '%s' (or there is no acceptable conversion)", op, a, b)
	return Invalid
}

func (p *parser) parseUnary() expr {
	if p.accept("+") {
		return p.parseUnary()
	}
	if p.is("-") {
		t := p.next()
		x := p.parseUnary()
		if lit, ok := x.(*literalExpr); ok {
			v := lit.val
			for i := range v.V {
				v.V[i] = -v.V[i]
			}
			return &literalExpr{val: v}
		}
		if x.typ() == Void {
			p.errorAt(t.line, "-", "wrong operand type")
		}
		return &unaryExpr{x: x}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() expr {
	x := p.parsePrimary()
	for p.accept(".") {
		f := p.ident()
		x = p.swizzle(x, f)
	}
	return x
}

func swizzleSet(c byte) (int, int) {
	for set, letters := range [...]string{"xyzw", "rgba", "stpq"} {
		if i := strings.IndexByte(letters, c); i >= 0 {
			return set, i
		}
	}
	return -1, -1
}

func (p *parser) swizzle(x expr, f token) expr {
	t := x.typ()
	if t == Invalid {
		return x
	}
	if !t.IsVector() || len(f.text) > 4 {
		p.errorAt(f.line, f.text, "illegal vector field selection")
		return &literalExpr{val: Value{T: Invalid}}
	}
	comps := make([]int, len(f.text))
	set0 := -1
	for i := 0; i < len(f.text); i++ {
		set, idx := swizzleSet(f.text[i])
		if set < 0 || idx >= t.Size() || (set0 >= 0 && set != set0) {
			p.errorAt(f.line, f.text, "illegal vector field selection")
			return &literalExpr{val: Value{T: Invalid}}
		}
		set0 = set
		comps[i] = idx
	}
	return &swizzleExpr{x: x, comps: comps}
}

func (p *parser) parsePrimary() expr {
	t := p.next()
	switch t.kind {
	case tokInt:
		n, err := strconv.ParseInt(t.text, 10, 32)
		if err != nil {
			p.errorAt(t.line, t.text, "integer constant overflow")
		}
		return &literalExpr{val: Value{T: Int, V: [4]float32{float32(n)}}}
	case tokFloat:
		f, err := strconv.ParseFloat(strings.TrimRight(t.text, "fF"), 32)
		if err != nil {
			p.errorAt(t.line, t.text, "float constant overflow")
		}
		return &literalExpr{val: Value{T: Float, V: [4]float32{float32(f)}}}
	case tokPunct:
		if t.text == "(" {
			x := p.parseExpr()
			p.expect(")")
			return x
		}
	case tokIdent:
		if p.is("(") {
			return p.parseCall(t)
		}
		if _, isType := lookupType(t.text); isType {
			break
		}
		v := p.lookup(t.text)
		if v == nil {
			p.errorAt(t.line, t.text, "undeclared identifier")
			return &literalExpr{val: Value{T: Invalid}}
		}
		if p.inMain {
			v.Used = true
		}
		return &identExpr{v: v}
	}
	p.fatal(t, "syntax error")
	return nil
}

func (p *parser) parseCall(name token) expr {
	p.expect("(")
	var args []expr
	if !p.is(")") {
		for {
			args = append(args, p.parseExpr())
			if !p.accept(",") {
				break
			}
		}
	}
	p.expect(")")

	t, isType := lookupType(name.text)
	if !isType || t == Void {
		p.errorAt(name.line, name.text, "no matching overloaded function found")
		return &literalExpr{val: Value{T: Invalid}}
	}
	if len(args) == 0 {
		p.errorAt(name.line, name.text, "constructor does not have any arguments")
		return &literalExpr{val: Value{T: Invalid}}
	}

	total := 0
	for i, a := range args {
		at := a.typ()
		if at == Invalid {
			return &literalExpr{val: Value{T: Invalid}}
		}
		if at.Size() == 0 {
			p.errorAt(name.line, name.text, "cannot convert a void argument")
			return &literalExpr{val: Value{T: Invalid}}
		}
		if total >= t.Size() && i > 0 {
			p.errorAt(name.line, name.text, "too many arguments")
			return &literalExpr{val: Value{T: Invalid}}
		}
		total += at.Size()
	}
	if total < t.Size() && !(len(args) == 1 && args[0].typ().Size() == 1) {
		p.errorAt(name.line, name.text, "not enough data provided for construction")
		return &literalExpr{val: Value{T: Invalid}}
	}
	return &constructExpr{t: t, args: args}
}
