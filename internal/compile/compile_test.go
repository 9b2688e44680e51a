package compile_test

import (
	"context"
	"testing"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/compile"
	"github.com/loom-lang/loom/internal/diagnostics"
)

func compileSources(t *testing.T, opts compile.Options, sources ...string) *compile.Result {
	t.Helper()
	units := make([]compile.Unit, len(sources))
	for i, src := range sources {
		units[i] = compile.Unit{Path: "unit" + string(rune('a'+i)) + ".loom", Source: src}
	}
	return compile.Compile(context.Background(), units, opts)
}

func mustCompile(t *testing.T, sources ...string) *compile.Result {
	t.Helper()
	res := compileSources(t, compile.Options{}, sources...)
	if len(res.Errors) > 0 {
		t.Fatalf("compilation failed: %v", res.Errors)
	}
	if res.Book == nil {
		t.Fatal("no book produced")
	}
	return res
}

func expectErrorCode(t *testing.T, res *compile.Result, code diagnostics.ErrorCode) {
	t.Helper()
	if res.Book != nil {
		t.Fatal("book produced despite expected errors")
	}
	for _, e := range res.Errors {
		if e.Code == code {
			return
		}
	}
	t.Fatalf("expected %s, got %v", code, res.Errors)
}

func TestCompileImpUnit(t *testing.T) {
	res := mustCompile(t, "def id(x):\n  return x\n")
	def, ok := res.Book.Get("id")
	if !ok {
		t.Fatal("no definition id")
	}
	if got := def.String(); got != "id = λx x" {
		t.Errorf("id = %q", got)
	}
}

func TestCompileFunUnit(t *testing.T) {
	res := mustCompile(t, "(const a b) = a\nmain = (const 1 2)")
	if got := res.Book.String(); got != "const = λa λb a\nmain = (const 1 2)" {
		t.Errorf("book:\n%s", got)
	}
}

func TestCompileRuleMerging(t *testing.T) {
	res := mustCompile(t, "(not 0) = 1\n(not n) = 0")
	def, _ := res.Book.Get("not")
	if got := def.String(); got != "not = λarg__0 switch arg__0 = arg__0 { 0: 1; _: use n = (+ arg__0-1 1); 0 }" {
		t.Errorf("not = %q", got)
	}
}

func TestCompileCrossUnit(t *testing.T) {
	res := mustCompile(t,
		"type Light:\n  Red\n  Green\n",
		"(next x) = match x { Red: Light/Green; Green: Light/Red }")
	def, ok := res.Book.Get("next")
	if !ok {
		t.Fatal("no definition next")
	}
	if got := def.String(); got != "next = λx match x = x { Light/Red: Light/Green; Light/Green: Light/Red }" {
		t.Errorf("next = %q", got)
	}
}

func TestCompileSynthesizedHelpers(t *testing.T) {
	res := mustCompile(t, "def double(xs):\n  return [x * 2 for x in xs]\n")
	if _, ok := res.Book.Get("double__comp0"); !ok {
		t.Errorf("comprehension helper missing from book: %s", res.Book)
	}
}

func TestCompileForcedSyntax(t *testing.T) {
	// A data declaration is not part of the imperative grammar.
	res := compileSources(t, compile.Options{Syntax: ast.SyntaxImp}, "data Light = Red | Green")
	expectErrorCode(t, res, diagnostics.ErrP001)
}

func TestCompileLexError(t *testing.T) {
	res := compileSources(t, compile.Options{}, "main = \"unterminated")
	expectErrorCode(t, res, diagnostics.ErrL001)
}

func TestCompileNameError(t *testing.T) {
	res := compileSources(t, compile.Options{}, "main = nowhere")
	expectErrorCode(t, res, diagnostics.ErrN004)
}

func TestCompileDuplicateAcrossUnits(t *testing.T) {
	res := compileSources(t, compile.Options{}, "main = 1", "main = 2")
	expectErrorCode(t, res, diagnostics.ErrN003)
}

func TestCompileLinearity(t *testing.T) {
	res := compileSources(t, compile.Options{}, "f = λ$x 0")
	expectErrorCode(t, res, diagnostics.ErrU001)
}

func TestCompileErrorsSorted(t *testing.T) {
	res := compileSources(t, compile.Options{},
		"def f():\n  return nope1\n",
		"def g():\n  return nope2\n")
	if len(res.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].File > res.Errors[1].File {
		t.Errorf("errors not sorted by file: %v", res.Errors)
	}
}

func TestCompileJobsBound(t *testing.T) {
	sources := make([]string, 8)
	for i := range sources {
		name := string(rune('a' + i))
		sources[i] = "(f" + name + " x) = x"
	}
	res := compileSources(t, compile.Options{Jobs: 2}, sources...)
	if len(res.Errors) > 0 {
		t.Fatalf("compilation failed: %v", res.Errors)
	}
	if len(res.Book.Defs) != 8 {
		t.Errorf("book has %d defs, want 8", len(res.Book.Defs))
	}
}
