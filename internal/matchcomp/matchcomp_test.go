package matchcomp_test

import (
	"strings"
	"testing"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/lexer"
	"github.com/loom-lang/loom/internal/matchcomp"
	"github.com/loom-lang/loom/internal/parser"
	"github.com/loom-lang/loom/internal/pipeline"
	"github.com/loom-lang/loom/internal/registry"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := pipeline.NewPipelineContext(input)
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)
	if len(ctx.Errors) > 0 {
		var msgs []string
		for _, e := range ctx.Errors {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("parse failed:\n%s\ninput:\n%s", strings.Join(msgs, "\n"), input)
	}
	return ctx.Program
}

// compileLast runs the match compiler over the last function of the unit
// and returns it together with any diagnostics.
func compileLast(t *testing.T, input string) (*ast.FuncDecl, []*diagnostics.DiagnosticError) {
	t.Helper()
	prog := parseProgram(t, input)
	reg, errs := registry.Build([]*ast.Program{prog})
	if len(errs) > 0 {
		t.Fatalf("registry errors: %v", errs)
	}
	var fd *ast.FuncDecl
	for _, d := range prog.Decls {
		if f, ok := d.(*ast.FuncDecl); ok {
			fd = f
		}
	}
	if fd == nil {
		t.Fatal("no function in input")
	}
	c := matchcomp.New(reg, "test.loom")
	c.CompileFunc(fd)
	return fd, c.Errors()
}

func expectCompileError(t *testing.T, input string, code diagnostics.ErrorCode) {
	t.Helper()
	_, errs := compileLast(t, input)
	for _, e := range errs {
		if e.Code == code {
			return
		}
	}
	t.Fatalf("expected %s, got %v\ninput:\n%s", code, errs, input)
}

func TestSingleVarRuleUntouched(t *testing.T) {
	fd, errs := compileLast(t, "(id x) = x")
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	if len(fd.Rules) != 1 {
		t.Fatalf("rules = %d", len(fd.Rules))
	}
	if _, ok := fd.Rules[0].Body.(*ast.Ident); !ok {
		t.Fatalf("body = %T, should be untouched", fd.Rules[0].Body)
	}
}

func TestCtorColumn(t *testing.T) {
	input := "data Light = Red | Green\n(next Red) = Green\n(next Green) = Red"
	fd, errs := compileLast(t, input)
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	if len(fd.Rules) != 1 || len(fd.Rules[0].Patterns) != 1 {
		t.Fatalf("merged rule = %v", fd.Rules)
	}
	m, ok := fd.Rules[0].Body.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("body = %T, want MatchExpr", fd.Rules[0].Body)
	}
	// Arms follow the type's declared constructor order.
	if len(m.Arms) != 2 || m.Arms[0].Ctor != "Light/Red" || m.Arms[1].Ctor != "Light/Green" {
		t.Fatalf("arms = %v", m.Arms)
	}
}

func TestCtorColumnWithFields(t *testing.T) {
	input := "data Shape = (Circle r) | (Square s)\n(area (Circle r)) = r\n(area (Square s)) = s"
	fd, errs := compileLast(t, input)
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	m := fd.Rules[0].Body.(*ast.MatchExpr)
	// The clause variable aliases the generated field occurrence.
	use, ok := m.Arms[0].Body.(*ast.UseExpr)
	if !ok || use.Name != "r" {
		t.Fatalf("arm body = %#v, want use r = <field>", m.Arms[0].Body)
	}
	val := use.Val.(*ast.Ident)
	if !strings.HasSuffix(val.Name, ".r") {
		t.Fatalf("aliased occurrence = %q, want a .r field access", val.Name)
	}
}

func TestBareCtorNameReinterpreted(t *testing.T) {
	// Nil parses as a VarPattern but resolves to List/Nil, so it must
	// specialize, not bind.
	input := "(null (List/Cons h t)) = 0\n(null List/Nil) = 1"
	fd, errs := compileLast(t, input)
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	m := fd.Rules[0].Body.(*ast.MatchExpr)
	if len(m.Arms) != 2 {
		t.Fatalf("arms = %v", m.Arms)
	}
}

func TestNumColumn(t *testing.T) {
	input := "(f 0) = 10\n(f 1) = 11\n(f n) = n"
	fd, errs := compileLast(t, input)
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	sw := fd.Rules[0].Body.(*ast.SwitchExpr)
	if len(sw.Arms) != 3 {
		t.Fatalf("arms = %d, want 3", len(sw.Arms))
	}
	if sw.Arms[2].Num != nil {
		t.Fatal("last arm should be the default")
	}
	// The default clause variable is rebuilt as predecessor + k.
	use := sw.Arms[2].Body.(*ast.UseExpr)
	if use.Name != "n" {
		t.Fatalf("default aliases %q, want n", use.Name)
	}
	whole := use.Val.(*ast.InfixExpr)
	if whole.Op != "+" {
		t.Fatalf("rebuild op = %q", whole.Op)
	}
	pred := whole.Left.(*ast.Ident)
	if !strings.HasSuffix(pred.Name, "-2") {
		t.Fatalf("predecessor = %q, want <bind>-2", pred.Name)
	}
}

func TestNumColumnGap(t *testing.T) {
	expectCompileError(t, "(f 0) = 1\n(f 2) = 2\n(f n) = n", diagnostics.ErrC004)
}

func TestNumColumnNoDefault(t *testing.T) {
	expectCompileError(t, "(f 0) = 1\n(f 1) = 2", diagnostics.ErrC004)
}

func TestTupleColumn(t *testing.T) {
	fd, errs := compileLast(t, "(swap (a, b)) = (b, a)\n(swap p) = p")
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	let, ok := fd.Rules[0].Body.(*ast.LetExpr)
	if !ok {
		t.Fatalf("body = %T, want destructuring LetExpr", fd.Rules[0].Body)
	}
	if _, ok := let.Pat.(*ast.TuplePattern); !ok {
		t.Fatalf("let pattern = %T, want TuplePattern", let.Pat)
	}
}

func TestArityMismatch(t *testing.T) {
	expectCompileError(t, "(f x y) = x\n(f x) = x", diagnostics.ErrA002)
}

func TestCtorArityMismatch(t *testing.T) {
	expectCompileError(t, "data Box = (Full v) | Empty\n(get (Full a b)) = a\n(get Empty) = 0", diagnostics.ErrA001)
}

func TestUnknownCtor(t *testing.T) {
	expectCompileError(t, "(f (Bogus x)) = x\n(f y) = y", diagnostics.ErrN004)
}

func TestUncoveredCtor(t *testing.T) {
	expectCompileError(t, "data Light = Red | Green\n(f Red) = 0", diagnostics.ErrC004)
}

func TestSupPatternRejected(t *testing.T) {
	expectCompileError(t, "(f {a b}) = a\n(f x) = x", diagnostics.ErrP002)
}

func TestCheckSwitchArms(t *testing.T) {
	good := parseProgram(t, "(f n) = switch n { 0: 1; 1: 2; _: n }")
	sw := good.Decls[0].(*ast.FuncDecl).Rules[0].Body.(*ast.SwitchExpr)
	if errs := matchcomp.CheckSwitchArms(sw, "test.loom"); len(errs) > 0 {
		t.Fatalf("well-formed switch rejected: %v", errs)
	}

	outOfOrder := parseProgram(t, "(f n) = switch n { 1: 2; 0: 1; _: n }")
	sw = outOfOrder.Decls[0].(*ast.FuncDecl).Rules[0].Body.(*ast.SwitchExpr)
	errs := matchcomp.CheckSwitchArms(sw, "test.loom")
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrC003 {
		t.Fatalf("out-of-order arms: errs = %v, want C003", errs)
	}

	noDefault := parseProgram(t, "(f n) = switch n { 0: 1; 1: 2 }")
	sw = noDefault.Decls[0].(*ast.FuncDecl).Rules[0].Body.(*ast.SwitchExpr)
	if errs := matchcomp.CheckSwitchArms(sw, "test.loom"); len(errs) == 0 {
		t.Fatal("switch without default accepted")
	}
}

func TestResolveMatchArms(t *testing.T) {
	prog := parseProgram(t, "data Light = Red | Green")
	reg, _ := registry.Build([]*ast.Program{prog})

	arms := func(ctors ...string) []*ast.MatchArm {
		out := make([]*ast.MatchArm, len(ctors))
		for i, c := range ctors {
			out[i] = &ast.MatchArm{Ctor: c, Body: &ast.NumLit{}}
		}
		return out
	}
	at := &ast.Ident{Name: "x"}

	plan, errs := matchcomp.ResolveMatchArms(reg, arms("Red", "Green"), at, "test.loom")
	if len(errs) > 0 || len(plan.Arms) != 2 {
		t.Fatalf("plan = %v, errs = %v", plan, errs)
	}

	plan, errs = matchcomp.ResolveMatchArms(reg, arms("Red", "_"), at, "test.loom")
	if len(errs) > 0 || plan.Default == nil || plan.Arms[1] != nil {
		t.Fatalf("default plan = %v, errs = %v", plan, errs)
	}

	_, errs = matchcomp.ResolveMatchArms(reg, arms("_", "Red"), at, "test.loom")
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrC004 {
		t.Fatalf("default-first: errs = %v, want C004", errs)
	}

	_, errs = matchcomp.ResolveMatchArms(reg, arms("Red", "Red"), at, "test.loom")
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrC004 {
		t.Fatalf("duplicate: errs = %v, want C004", errs)
	}

	_, errs = matchcomp.ResolveMatchArms(reg, arms("Red"), at, "test.loom")
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrC004 {
		t.Fatalf("uncovered: errs = %v, want C004", errs)
	}

	_, errs = matchcomp.ResolveMatchArms(reg, arms("Cons"), at, "test.loom")
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrN004 {
		t.Fatalf("ambiguous: errs = %v, want N004", errs)
	}
}
