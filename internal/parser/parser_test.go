package parser_test

import (
	"strings"
	"testing"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/lexer"
	"github.com/loom-lang/loom/internal/parser"
	"github.com/loom-lang/loom/internal/pipeline"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := parseRaw(input)
	if len(ctx.Errors) > 0 {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("parsing failed with errors:\n%s\ninput:\n%s", strings.Join(msgs, "\n"), input)
	}
	return ctx.Program
}

func parseRaw(input string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	return ctx
}

func expectParseError(t *testing.T, input string, code diagnostics.ErrorCode) {
	t.Helper()
	ctx := parseRaw(input)
	for _, e := range ctx.Errors {
		if e.Code == code {
			return
		}
	}
	var msgs []string
	for _, e := range ctx.Errors {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput:\n%s", code, strings.Join(msgs, "\n"), input)
}

func singleFunc(t *testing.T, prog *ast.Program) *ast.FuncDecl {
	t.Helper()
	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(prog.Decls))
	}
	fd, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected FuncDecl, got %T", prog.Decls[0])
	}
	return fd
}

func TestDefDecl(t *testing.T) {
	prog := parse(t, "def add(a, b):\n  return a + b\n")
	if prog.Syntax != ast.SyntaxImp {
		t.Fatalf("detected syntax %q, want imp", prog.Syntax)
	}
	fd := singleFunc(t, prog)
	if fd.Name != "add" {
		t.Errorf("name = %q, want add", fd.Name)
	}
	if len(fd.Params) != 2 || fd.Params[0] != "a" || fd.Params[1] != "b" {
		t.Errorf("params = %v, want [a b]", fd.Params)
	}
	if len(fd.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fd.Body.Stmts))
	}
	ret, ok := fd.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected ReturnStmt, got %T", fd.Body.Stmts[0])
	}
	if _, ok := ret.Val.(*ast.InfixExpr); !ok {
		t.Fatalf("expected InfixExpr, got %T", ret.Val)
	}
}

func TestPrecedence(t *testing.T) {
	prog := parse(t, "def f(x):\n  return 1 + 2 * 3\n")
	ret := singleFunc(t, prog).Body.Stmts[0].(*ast.ReturnStmt)
	add := ret.Val.(*ast.InfixExpr)
	if add.Op != "+" {
		t.Fatalf("root op = %q, want +", add.Op)
	}
	mul, ok := add.Right.(*ast.InfixExpr)
	if !ok || mul.Op != "*" {
		t.Fatalf("right side is %T, want InfixExpr *", add.Right)
	}
}

func TestTypeDecl(t *testing.T) {
	prog := parse(t, "type Tree:\n  Node { ~left, ~right }\n  Leaf { value }\n")
	td := prog.Decls[0].(*ast.TypeDecl)
	if td.Name != "Tree" || len(td.Ctors) != 2 {
		t.Fatalf("got type %q with %d ctors", td.Name, len(td.Ctors))
	}
	node := td.Ctors[0]
	if node.Name != "Node" || len(node.Fields) != 2 {
		t.Fatalf("first ctor = %q with %d fields", node.Name, len(node.Fields))
	}
	if !node.Fields[0].Recursive || !node.Fields[1].Recursive {
		t.Error("Node fields should be recursive")
	}
	leaf := td.Ctors[1]
	if leaf.Fields[0].Recursive {
		t.Error("Leaf value should not be recursive")
	}
}

func TestObjectDecl(t *testing.T) {
	prog := parse(t, "object Point { x, y }\n")
	td := prog.Decls[0].(*ast.TypeDecl)
	if !td.IsObject {
		t.Error("expected IsObject")
	}
	if len(td.Ctors) != 1 || td.Ctors[0].Name != "Point" {
		t.Fatalf("object constructor = %v", td.Ctors)
	}
	if len(td.Ctors[0].Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(td.Ctors[0].Fields))
	}
}

func TestCallNamedArgs(t *testing.T) {
	prog := parse(t, "def f(x):\n  return g(1, 2, b=3)\n")
	ret := singleFunc(t, prog).Body.Stmts[0].(*ast.ReturnStmt)
	call := ret.Val.(*ast.Call)
	if len(call.Args) != 2 || len(call.Named) != 1 {
		t.Fatalf("got %d positional, %d named", len(call.Args), len(call.Named))
	}
	if call.Named[0].Name != "b" {
		t.Errorf("named arg = %q, want b", call.Named[0].Name)
	}
}

func TestCtorBraceLiteral(t *testing.T) {
	prog := parse(t, "def f(x):\n  return Point { x: 1, y: 2 }\n")
	ret := singleFunc(t, prog).Body.Stmts[0].(*ast.ReturnStmt)
	call := ret.Val.(*ast.Call)
	if len(call.Named) != 2 || call.Named[0].Name != "x" || call.Named[1].Name != "y" {
		t.Fatalf("brace literal named args = %v", call.Named)
	}
}

func TestTupleAndSuperposition(t *testing.T) {
	prog := parse(t, "def f(x):\n  p = (1, 2, 3)\n  s = {x x}\n  return p\n")
	stmts := singleFunc(t, prog).Body.Stmts
	tup := stmts[0].(*ast.AssignStmt).Val.(*ast.TupleExpr)
	if len(tup.Elems) != 3 {
		t.Fatalf("tuple has %d elems, want 3", len(tup.Elems))
	}
	sup := stmts[1].(*ast.AssignStmt).Val.(*ast.SupExpr)
	if len(sup.Elems) != 2 {
		t.Fatalf("sup has %d elems, want 2", len(sup.Elems))
	}
}

func TestListComprehension(t *testing.T) {
	prog := parse(t, "def f(xs):\n  return [x * 2 for x in xs if x]\n")
	ret := singleFunc(t, prog).Body.Stmts[0].(*ast.ReturnStmt)
	comp := ret.Val.(*ast.ListComp)
	if comp.Var != "x" || comp.Cond == nil {
		t.Fatalf("comp var = %q, cond = %v", comp.Var, comp.Cond)
	}
}

func TestLambdaForms(t *testing.T) {
	prog := parse(t, "def f(x):\n  g = lambda a, b: a\n  h = λy: y\n  return x\n")
	stmts := singleFunc(t, prog).Body.Stmts
	lam := stmts[0].(*ast.AssignStmt).Val.(*ast.Lambda)
	if len(lam.Pats) != 2 {
		t.Fatalf("lambda has %d patterns, want 2", len(lam.Pats))
	}
	if lam2 := stmts[1].(*ast.AssignStmt).Val.(*ast.Lambda); len(lam2.Pats) != 1 {
		t.Fatalf("glyph lambda has %d patterns, want 1", len(lam2.Pats))
	}
}

func TestSwitchStmt(t *testing.T) {
	prog := parse(t, "def f(n):\n  switch n:\n    case 0:\n      return 1\n    case _:\n      return n-1\n")
	sw := singleFunc(t, prog).Body.Stmts[0].(*ast.SwitchStmt)
	if sw.Bind != "n" {
		t.Errorf("bind = %q, want n", sw.Bind)
	}
	if len(sw.Arms) != 2 {
		t.Fatalf("switch has %d arms, want 2", len(sw.Arms))
	}
	if sw.Arms[0].Num == nil || *sw.Arms[0].Num != 0 {
		t.Error("first arm should be 0")
	}
	if sw.Arms[1].Num != nil {
		t.Error("second arm should be the default")
	}
}

func TestMatchStmtWithScrutExpr(t *testing.T) {
	prog := parse(t, "def f(t):\n  match x = t:\n    case Node:\n      return x.left\n    case Leaf:\n      return x.value\n")
	m := singleFunc(t, prog).Body.Stmts[0].(*ast.MatchStmt)
	if m.Bind != "x" {
		t.Errorf("bind = %q, want x", m.Bind)
	}
	if len(m.Arms) != 2 || m.Arms[0].Ctor != "Node" || m.Arms[1].Ctor != "Leaf" {
		t.Fatalf("arms = %v", m.Arms)
	}
}

func TestBendStmt(t *testing.T) {
	prog := parse(t, "def f(d):\n  bend x = 0:\n    when x < d:\n      return fork(x + 1)\n    else:\n      return x\n")
	b := singleFunc(t, prog).Body.Stmts[0].(*ast.BendStmt)
	if len(b.Binds) != 1 || b.Binds[0].Name != "x" {
		t.Fatalf("binds = %v", b.Binds)
	}
	ret := b.When.Stmts[0].(*ast.ReturnStmt)
	call, ok := ret.Val.(*ast.Call)
	if !ok {
		t.Fatalf("when body returns %T, want Call", ret.Val)
	}
	if id, ok := call.Callee.(*ast.Ident); !ok || id.Name != "fork" {
		t.Fatalf("callee = %v, want fork", call.Callee)
	}
}

func TestOpenAndDoStmts(t *testing.T) {
	prog := parse(t, "def f(p):\n  open Point: p\n  return p.x\n")
	open := singleFunc(t, prog).Body.Stmts[0].(*ast.OpenStmt)
	if open.TypeName != "Point" || open.VarName != "p" {
		t.Fatalf("open %q: %q", open.TypeName, open.VarName)
	}

	prog = parse(t, "def f(x):\n  do Maybe:\n    y <- f(x)\n    g(y)\n")
	do := singleFunc(t, prog).Body.Stmts[0].(*ast.DoStmt)
	if do.TypeName != "Maybe" || len(do.Items) != 2 {
		t.Fatalf("do %q with %d items", do.TypeName, len(do.Items))
	}
	if do.Items[0].Bind != "y" || do.Items[1].Bind != "" {
		t.Fatalf("items = %v", do.Items)
	}
}

func TestInPlaceStmt(t *testing.T) {
	prog := parse(t, "def f(x):\n  x += 1\n  return x\n")
	ip := singleFunc(t, prog).Body.Stmts[0].(*ast.InPlaceStmt)
	if ip.Name != "x" || ip.Op != "+" {
		t.Fatalf("in-place %q %q", ip.Name, ip.Op)
	}
}

func TestAssignPatterns(t *testing.T) {
	prog := parse(t, "def f(p):\n  (a, b) = p\n  return a\n")
	assign := singleFunc(t, prog).Body.Stmts[0].(*ast.AssignStmt)
	tup, ok := assign.Pat.(*ast.TuplePattern)
	if !ok || len(tup.Subs) != 2 {
		t.Fatalf("pattern = %T, want 2-element TuplePattern", assign.Pat)
	}
}
