package lower_test

import (
	"strings"
	"testing"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/lexer"
	"github.com/loom-lang/loom/internal/lower"
	"github.com/loom-lang/loom/internal/parser"
	"github.com/loom-lang/loom/internal/pipeline"
)

func lowered(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := run(input)
	if len(ctx.Errors) > 0 {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("lowering failed:\n%s\ninput:\n%s", strings.Join(msgs, "\n"), input)
	}
	return ctx.Program
}

func run(input string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(input)
	pipe := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&lower.LowerProcessor{},
	)
	return pipe.Run(ctx)
}

func expectLowerError(t *testing.T, input string, code diagnostics.ErrorCode) {
	t.Helper()
	ctx := run(input)
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

func onlyRule(t *testing.T, prog *ast.Program) *ast.Rule {
	t.Helper()
	fd := prog.Decls[0].(*ast.FuncDecl)
	if fd.Body != nil {
		t.Fatal("body should be cleared after lowering")
	}
	if len(fd.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(fd.Rules))
	}
	return fd.Rules[0]
}

func TestLowerParamsBecomePatterns(t *testing.T) {
	rule := onlyRule(t, lowered(t, "def add(a, b):\n  return a + b\n"))
	if len(rule.Patterns) != 2 {
		t.Fatalf("got %d patterns, want 2", len(rule.Patterns))
	}
	for i, name := range []string{"a", "b"} {
		vp, ok := rule.Patterns[i].(*ast.VarPattern)
		if !ok || vp.Name != name {
			t.Errorf("pattern %d = %#v, want var %q", i, rule.Patterns[i], name)
		}
	}
}

func TestLowerAssignChain(t *testing.T) {
	rule := onlyRule(t, lowered(t, "def f(x):\n  y = x + 1\n  z = y + 1\n  return z\n"))
	let1 := rule.Body.(*ast.LetExpr)
	let2, ok := let1.Next.(*ast.LetExpr)
	if !ok {
		t.Fatalf("second statement lowered to %T, want LetExpr", let1.Next)
	}
	if _, ok := let2.Next.(*ast.InfixExpr); ok {
		t.Fatal("return value should be the final expression, not wrapped")
	}
	if _, ok := let2.Next.(*ast.Ident); !ok {
		t.Fatalf("final expression = %T, want Ident", let2.Next)
	}
}

func TestLowerInPlace(t *testing.T) {
	rule := onlyRule(t, lowered(t, "def f(x):\n  x += 2\n  return x\n"))
	let := rule.Body.(*ast.LetExpr)
	infix := let.Val.(*ast.InfixExpr)
	if infix.Op != "+" {
		t.Fatalf("op = %q, want +", infix.Op)
	}
	if id, ok := infix.Left.(*ast.Ident); !ok || id.Name != "x" {
		t.Fatalf("left = %#v, want x", infix.Left)
	}
}

func TestLowerIfInversion(t *testing.T) {
	// if/else becomes a switch where arm 0 is the else branch and the
	// default arm is the then branch.
	rule := onlyRule(t, lowered(t, "def f(c):\n  if c:\n    return 1\n  else:\n    return 2\n"))
	sw := rule.Body.(*ast.SwitchExpr)
	if sw.Bind != "" {
		t.Errorf("bind = %q, want empty", sw.Bind)
	}
	if len(sw.Arms) != 2 {
		t.Fatalf("got %d arms, want 2", len(sw.Arms))
	}
	if sw.Arms[0].Num == nil || *sw.Arms[0].Num != 0 {
		t.Fatal("first arm should be 0")
	}
	if n := sw.Arms[0].Body.(*ast.NumLit); n.U != 2 {
		t.Errorf("arm 0 = %v, want the else value 2", n.U)
	}
	if sw.Arms[1].Num != nil {
		t.Fatal("second arm should be the default")
	}
	if n := sw.Arms[1].Body.(*ast.NumLit); n.U != 1 {
		t.Errorf("default arm = %v, want the then value 1", n.U)
	}
}

func TestLowerOpenThreads(t *testing.T) {
	rule := onlyRule(t, lowered(t, "def f(p):\n  open Point: p\n  return p.x\n"))
	open := rule.Body.(*ast.OpenExpr)
	if open.TypeName != "Point" || open.VarName != "p" {
		t.Fatalf("open %q %q", open.TypeName, open.VarName)
	}
	if _, ok := open.Next.(*ast.Ident); !ok {
		t.Fatalf("next = %T, want Ident", open.Next)
	}
}

func TestLowerMatchStmt(t *testing.T) {
	rule := onlyRule(t, lowered(t, "def f(t):\n  match x = t:\n    case Leaf:\n      return x.value\n    case Node:\n      return 0\n"))
	m := rule.Body.(*ast.MatchExpr)
	if m.Bind != "x" || len(m.Arms) != 2 {
		t.Fatalf("match bind=%q arms=%d", m.Bind, len(m.Arms))
	}
}

func TestLowerFunSurfaceUntouched(t *testing.T) {
	ctx := run("(add a b) = (+ a b)")
	if len(ctx.Errors) > 0 {
		t.Fatalf("errors: %v", ctx.Errors)
	}
	fd := ctx.Program.Decls[0].(*ast.FuncDecl)
	if len(fd.Rules) != 1 || fd.Body != nil {
		t.Fatal("functional-surface declarations should pass through unchanged")
	}
}

func TestC001_MissingReturn(t *testing.T) {
	expectLowerError(t, "def f(x):\n  y = x\n", diagnostics.ErrC001)
}

func TestC001_BranchMissingReturn(t *testing.T) {
	expectLowerError(t, "def f(c):\n  if c:\n    y = 1\n  else:\n    return 2\n", diagnostics.ErrC001)
}

func TestC002_UnreachableAfterReturn(t *testing.T) {
	expectLowerError(t, "def f(x):\n  return x\n  y = 1\n", diagnostics.ErrC002)
}

func TestC002_UnreachableAfterIf(t *testing.T) {
	expectLowerError(t, "def f(c):\n  if c:\n    return 1\n  else:\n    return 2\n  return 3\n", diagnostics.ErrC002)
}
