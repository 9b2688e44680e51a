// Package matchcomp merges a function's pattern-matching rules into a
// single rule with plain-variable parameters. It specializes one column at
// a time: constructor patterns become a match, numeric patterns become a
// switch, tuple patterns become a destructuring let, and variable patterns
// become aliases of the occurrence they cover.
package matchcomp

import (
	"fmt"
	"strings"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/registry"
	"github.com/loom-lang/loom/internal/token"
)

type Compiler struct {
	reg   *registry.Registry
	file  string
	fresh int
	errs  []*diagnostics.DiagnosticError
}

func New(reg *registry.Registry, file string) *Compiler {
	return &Compiler{reg: reg, file: file}
}

func (c *Compiler) Errors() []*diagnostics.DiagnosticError { return c.errs }

// row is one remaining clause: the patterns still to be matched, column
// by column, and the clause body.
type row struct {
	pats []ast.Pattern
	body ast.Expr
}

// CompileFunc replaces fd.Rules with a single all-variable rule. Functions
// that already have one all-variable rule pass through untouched.
func (c *Compiler) CompileFunc(fd *ast.FuncDecl) {
	if len(fd.Rules) == 0 {
		return
	}
	arity := len(fd.Rules[0].Patterns)
	for _, r := range fd.Rules[1:] {
		if len(r.Patterns) != arity {
			c.errorf(diagnostics.ErrA002, r.GetToken(),
				"rule for %q has %d patterns, previous rules have %d",
				fd.Name, len(r.Patterns), arity)
			return
		}
	}
	if len(fd.Rules) == 1 && c.allIrrefutable(fd.Rules[0].Patterns) {
		return
	}

	tok := fd.Rules[0].Token
	params := make([]string, arity)
	occs := make([]ast.Expr, arity)
	pats := make([]ast.Pattern, arity)
	for i := 0; i < arity; i++ {
		params[i] = c.paramName(fd.Rules, i)
		occs[i] = &ast.Ident{Token: tok, Name: params[i]}
		pats[i] = &ast.VarPattern{Token: tok, Name: params[i]}
	}
	rows := make([]row, len(fd.Rules))
	for i, r := range fd.Rules {
		rows[i] = row{pats: r.Patterns, body: r.Body}
	}

	body := c.compile(occs, rows, tok)
	if body == nil {
		return
	}
	fd.Rules = []*ast.Rule{{Token: tok, Patterns: pats, Body: body}}
}

// paramName picks the merged parameter name for one column: the first
// clause's variable name when it has one, a generated name otherwise.
func (c *Compiler) paramName(rules []*ast.Rule, col int) string {
	if v, ok := rules[0].Patterns[col].(*ast.VarPattern); ok && !c.isCtorName(v.Name) {
		return v.Name
	}
	c.fresh++
	return fmt.Sprintf("arg__%d", c.fresh-1)
}

func (c *Compiler) compile(occs []ast.Expr, rows []row, tok token.Token) ast.Expr {
	if len(rows) == 0 {
		c.errorf(diagnostics.ErrC004, tok, "rules are not exhaustive")
		return nil
	}
	col := c.refutableColumn(rows[0])
	if col < 0 {
		return c.bindRow(rows[0], occs)
	}
	switch pat := rows[0].pats[col].(type) {
	case *ast.CtorPattern:
		return c.compileCtorColumn(occs, rows, col, pat.GetToken())
	case *ast.VarPattern: // a bare name resolving to a constructor
		return c.compileCtorColumn(occs, rows, col, pat.GetToken())
	case *ast.NumPattern:
		return c.compileNumColumn(occs, rows, col, pat.GetToken())
	case *ast.TuplePattern:
		return c.compileTupleColumn(occs, rows, col, pat.GetToken())
	case *ast.SupPattern:
		c.errorf(diagnostics.ErrP002, pat.GetToken(),
			"superposition patterns are not allowed in rule clauses")
		return nil
	default:
		return nil
	}
}

// refutableColumn returns the first column of the top row that needs
// specialization, or -1 when the whole row is irrefutable.
func (c *Compiler) refutableColumn(r row) int {
	for i, pat := range r.pats {
		if !c.irrefutable(pat) {
			return i
		}
	}
	return -1
}

func (c *Compiler) allIrrefutable(pats []ast.Pattern) bool {
	for _, pat := range pats {
		if !c.irrefutable(pat) {
			return false
		}
	}
	return true
}

func (c *Compiler) irrefutable(pat ast.Pattern) bool {
	switch p := pat.(type) {
	case *ast.VarPattern:
		return !c.isCtorName(p.Name)
	case *ast.WildcardPattern, *ast.UnscopedPattern:
		return true
	}
	return false
}

// isCtorName reports whether a bare name in pattern position refers to a
// declared constructor rather than binding a variable.
func (c *Compiler) isCtorName(name string) bool {
	if strings.Contains(name, "/") {
		_, ok := c.reg.ResolveCtor(name)
		return ok
	}
	_, ok := c.reg.ResolveCtor(name)
	return ok && !c.reg.AmbiguousCtor(name)
}

// bindRow wraps the body of a fully-irrefutable row with aliases from its
// variables to the occurrences they matched.
func (c *Compiler) bindRow(r row, occs []ast.Expr) ast.Expr {
	body := r.body
	for i := len(r.pats) - 1; i >= 0; i-- {
		switch p := r.pats[i].(type) {
		case *ast.VarPattern:
			if occ, ok := occs[i].(*ast.Ident); ok && occ.Name == p.Name {
				continue
			}
			body = &ast.UseExpr{Token: p.Token, Name: p.Name, Val: occs[i], Next: body}
		case *ast.UnscopedPattern:
			body = &ast.LetExpr{Token: p.Token, Pat: p, Val: occs[i], Next: body}
		}
	}
	return body
}

func (c *Compiler) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...any) {
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = c.file
	c.errs = append(c.errs, err)
}
