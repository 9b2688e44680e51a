package registry_test

import (
	"strings"
	"testing"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/lexer"
	"github.com/loom-lang/loom/internal/lower"
	"github.com/loom-lang/loom/internal/parser"
	"github.com/loom-lang/loom/internal/pipeline"
	"github.com/loom-lang/loom/internal/registry"
)

func build(t *testing.T, inputs ...string) (*registry.Registry, []*diagnostics.DiagnosticError) {
	t.Helper()
	var progs []*ast.Program
	for _, input := range inputs {
		ctx := pipeline.NewPipelineContext(input)
		pipe := pipeline.New(
			&lexer.LexerProcessor{},
			&parser.ParserProcessor{},
			&lower.LowerProcessor{},
		)
		ctx = pipe.Run(ctx)
		if len(ctx.Errors) > 0 {
			var msgs []string
			for _, e := range ctx.Errors {
				msgs = append(msgs, e.Error())
			}
			t.Fatalf("front end failed:\n%s\ninput:\n%s", strings.Join(msgs, "\n"), input)
		}
		progs = append(progs, ctx.Program)
	}
	return registry.Build(progs)
}

func TestBuildTypes(t *testing.T) {
	reg, errs := build(t, "type Tree:\n  Node { ~left, ~right }\n  Leaf { value }\n")
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	tree, ok := reg.Types["Tree"]
	if !ok || len(tree.Ctors) != 2 {
		t.Fatalf("Tree = %v", tree)
	}
	node, ok := reg.ResolveCtor("Tree/Node")
	if !ok || node.Arity() != 2 || !node.Fields[0].Recursive {
		t.Fatalf("Tree/Node = %v", node)
	}
	if short, ok := reg.ResolveCtor("Leaf"); !ok || short.Name != "Tree/Leaf" {
		t.Fatalf("unqualified Leaf resolved to %v", short)
	}
}

func TestBuiltinsSeeded(t *testing.T) {
	reg, _ := build(t, "main = 0")
	for _, name := range []string{"List/Cons", "List/Nil", "String/Cons", "String/Nil", "Nat/Succ", "Nat/Zero"} {
		if _, ok := reg.ResolveCtor(name); !ok {
			t.Errorf("builtin %s missing", name)
		}
	}
	// Cons is declared by both List and String, so the short name is
	// ambiguous.
	if !reg.AmbiguousCtor("Cons") {
		t.Error("Cons should be ambiguous")
	}
	if _, ok := reg.ResolveCtor("Cons"); ok {
		t.Error("ambiguous short name should not resolve")
	}
}

func TestFuncArity(t *testing.T) {
	reg, _ := build(t, "def add(a, b):\n  return a + b\n")
	f, ok := reg.Func("add")
	if !ok || f.Arity != 2 {
		t.Fatalf("add = %v", f)
	}
	if len(f.Params) != 2 || f.Params[0] != "a" {
		t.Fatalf("params = %v", f.Params)
	}
}

func TestRuleFuncParamsOnlyWhenAllVars(t *testing.T) {
	reg, _ := build(t, "(fst a b) = a")
	f, _ := reg.Func("fst")
	if f.Arity != 2 || len(f.Params) != 2 {
		t.Fatalf("fst = %v", f)
	}

	reg, _ = build(t, "(len (List/Cons h t)) = (+ 1 (len t))\n(len l) = 0")
	f, _ = reg.Func("len")
	if f.Arity != 1 {
		t.Fatalf("len arity = %d", f.Arity)
	}
	if f.Params != nil {
		t.Fatalf("len params = %v, want nil for clause patterns", f.Params)
	}
}

func TestDuplicateDeclarations(t *testing.T) {
	_, errs := build(t, "type T:\n  A\n", "type T:\n  B\n")
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrN001 {
		t.Fatalf("errs = %v, want N001", errs)
	}

	_, errs = build(t, "type T:\n  A\n  A\n")
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrN002 {
		t.Fatalf("errs = %v, want N002", errs)
	}

	_, errs = build(t, "main = 0", "main = 1")
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrN003 {
		t.Fatalf("errs = %v, want N003", errs)
	}
}

func TestCrossUnitResolution(t *testing.T) {
	reg, errs := build(t,
		"type Shape:\n  Circle { r }\n",
		"(area s) = match x = s { Circle: x.r }")
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	if c, ok := reg.ResolveCtor("Circle"); !ok || c.TypeName != "Shape" {
		t.Fatalf("Circle = %v", c)
	}
}
