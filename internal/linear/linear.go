// Package linear enforces the discipline of unscoped variables: within one
// definition, each $name must be bound exactly once and used exactly once.
package linear

import (
	"sort"

	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/term"
	"github.com/loom-lang/loom/internal/token"
)

// Check walks one definition's term and reports every unscoped name that
// breaks the bind-once/use-once rule.
func Check(def *term.Def, tok token.Token, file string) []*diagnostics.DiagnosticError {
	binds := map[string]int{}
	uses := map[string]int{}

	var walkPat func(*term.Pat)
	walkPat = func(p *term.Pat) {
		if p == nil {
			return
		}
		if p.Kind == term.PUnscoped {
			binds[p.Name]++
		}
		for _, s := range p.Subs {
			walkPat(s)
		}
	}

	var walk func(term.Term)
	walk = func(t term.Term) {
		switch t := t.(type) {
		case *term.Unscoped:
			uses[t.Name]++
		case *term.Lam:
			walkPat(t.Pat)
			walk(t.Body)
		case *term.App:
			walk(t.Fn)
			for _, a := range t.Args {
				walk(a)
			}
		case *term.Tup:
			for _, e := range t.Elems {
				walk(e)
			}
		case *term.Sup:
			for _, e := range t.Elems {
				walk(e)
			}
		case *term.Let:
			walkPat(t.Pat)
			walk(t.Val)
			walk(t.Next)
		case *term.Use:
			walk(t.Val)
			walk(t.Next)
		case *term.Opx:
			walk(t.L)
			walk(t.R)
		case *term.Ctr:
			for _, a := range t.Args {
				walk(a)
			}
		case *term.Swt:
			walk(t.Arg)
			for _, arm := range t.Arms {
				walk(arm)
			}
		case *term.Mat:
			walk(t.Arg)
			for _, arm := range t.Arms {
				walk(arm.Body)
			}
			if t.Dflt != nil {
				walk(t.Dflt)
			}
		}
	}
	walk(def.Term)

	names := map[string]bool{}
	for n := range binds {
		names[n] = true
	}
	for n := range uses {
		names[n] = true
	}
	ordered := make([]string, 0, len(names))
	for n := range names {
		ordered = append(ordered, n)
	}
	sort.Strings(ordered)

	var errs []*diagnostics.DiagnosticError
	report := func(format string, args ...any) {
		err := diagnostics.NewError(diagnostics.ErrU001, tok, format, args...)
		err.File = file
		errs = append(errs, err)
	}
	for _, n := range ordered {
		b, u := binds[n], uses[n]
		switch {
		case b > 1:
			report("unscoped variable $%s is bound %d times in %s", n, b, def.Name)
		case b == 0:
			report("unscoped variable $%s is used but never bound in %s", n, def.Name)
		case u == 0:
			report("unscoped variable $%s is bound but never used in %s", n, def.Name)
		case u > 1:
			report("unscoped variable $%s is used %d times in %s", n, u, def.Name)
		}
	}
	return errs
}
