package linear_test

import (
	"strings"
	"testing"

	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/linear"
	"github.com/loom-lang/loom/internal/term"
	"github.com/loom-lang/loom/internal/token"
)

func check(t *testing.T, body term.Term) []*diagnostics.DiagnosticError {
	t.Helper()
	def := &term.Def{Name: "f", Term: body}
	return linear.Check(def, token.Token{}, "test.loom")
}

func expectClean(t *testing.T, body term.Term) {
	t.Helper()
	if errs := check(t, body); len(errs) > 0 {
		t.Fatalf("unexpected diagnostics: %v", errs)
	}
}

func expectU001(t *testing.T, body term.Term, want string) {
	t.Helper()
	errs := check(t, body)
	if len(errs) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(errs), errs)
	}
	if errs[0].Code != diagnostics.ErrU001 {
		t.Fatalf("code = %s, want U001", errs[0].Code)
	}
	if !strings.Contains(errs[0].Message, want) {
		t.Fatalf("message %q does not mention %q", errs[0].Message, want)
	}
}

func unscopedLam(name string, body term.Term) term.Term {
	return &term.Lam{Pat: &term.Pat{Kind: term.PUnscoped, Name: name}, Body: body}
}

func TestBoundOnceUsedOnce(t *testing.T) {
	expectClean(t, unscopedLam("x", &term.App{
		Fn:   &term.Unscoped{Name: "x"},
		Args: []term.Term{&term.Num{Kind: term.U24, U: 1}},
	}))
}

func TestUsedTwice(t *testing.T) {
	expectU001(t, unscopedLam("x", &term.App{
		Fn:   &term.Unscoped{Name: "x"},
		Args: []term.Term{&term.Unscoped{Name: "x"}},
	}), "used 2 times")
}

func TestNeverUsed(t *testing.T) {
	expectU001(t, unscopedLam("x", &term.Num{Kind: term.U24, U: 0}), "never used")
}

func TestNeverBound(t *testing.T) {
	expectU001(t, &term.Unscoped{Name: "x"}, "never bound")
}

func TestBoundTwice(t *testing.T) {
	expectU001(t, unscopedLam("x", unscopedLam("x", &term.Unscoped{Name: "x"})), "bound 2 times")
}

func TestLetPatternBinds(t *testing.T) {
	expectClean(t, &term.Let{
		Pat:  &term.Pat{Kind: term.PTup, Subs: []*term.Pat{{Kind: term.PUnscoped, Name: "a"}, {Kind: term.PVar, Name: "b"}}},
		Val:  &term.Var{Name: "p"},
		Next: &term.Unscoped{Name: "a"},
	})
}

func TestBranchesCountTogether(t *testing.T) {
	// One use in each switch arm still totals two.
	expectU001(t, unscopedLam("x", &term.Swt{
		Arg:  &term.Num{Kind: term.U24, U: 0},
		Arms: []term.Term{&term.Unscoped{Name: "x"}, &term.Unscoped{Name: "x"}},
	}), "used 2 times")
}

func TestScopedNamesIgnored(t *testing.T) {
	expectClean(t, &term.Lam{
		Pat: &term.Pat{Kind: term.PVar, Name: "x"},
		Body: &term.Opx{Op: "+", L: &term.Var{Name: "x"},
			R: &term.Var{Name: "x"}},
	})
}
