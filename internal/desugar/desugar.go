// Package desugar turns the merged expression form into core terms. It
// resolves every name through the registry, expands the documented sugar
// (literals, comprehensions, fold, bend, open, do), and synthesizes the
// auxiliary top-level definitions those expansions need.
package desugar

import (
	"fmt"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/registry"
	"github.com/loom-lang/loom/internal/term"
	"github.com/loom-lang/loom/internal/token"
)

type Desugarer struct {
	reg  *registry.Registry
	file string

	defName string
	synth   int
	out     []*term.Def

	// bend recursion targets, innermost last; fork is only legal inside
	// the when branch of the top entry
	bends []bendFrame

	scope map[string]int
	errs  []*diagnostics.DiagnosticError
}

type bendFrame struct {
	name  string
	arity int
}

func New(reg *registry.Registry, file string) *Desugarer {
	return &Desugarer{reg: reg, file: file, scope: map[string]int{}}
}

func (d *Desugarer) Errors() []*diagnostics.DiagnosticError { return d.errs }

// DesugarFunc desugars one function (already merged to a single
// all-variable rule) into its definition plus any synthesized helpers.
func (d *Desugarer) DesugarFunc(fd *ast.FuncDecl) (*term.Def, []*term.Def) {
	if len(fd.Rules) != 1 {
		return nil, nil
	}
	d.defName = fd.Name
	d.synth = 0
	d.out = nil

	rule := fd.Rules[0]
	pats := make([]*term.Pat, len(rule.Patterns))
	for i, pat := range rule.Patterns {
		pats[i] = d.pat(pat)
		if pats[i] == nil {
			return nil, nil
		}
		d.pushPat(pats[i])
	}
	body := d.expr(rule.Body)
	for i := len(pats) - 1; i >= 0; i-- {
		d.popPat(pats[i])
	}
	if body == nil {
		return nil, nil
	}
	for i := len(pats) - 1; i >= 0; i-- {
		body = &term.Lam{Pat: pats[i], Body: body}
	}
	return &term.Def{Name: fd.Name, Term: body}, d.out
}

// freshName mints a generated name; the "__" infix is reserved for these.
func (d *Desugarer) freshName(kind string) string {
	name := fmt.Sprintf("%s__%s%d", d.defName, kind, d.synth)
	d.synth++
	return name
}

func (d *Desugarer) expr(e ast.Expr) term.Term {
	switch e := e.(type) {
	case *ast.Ident:
		return d.ident(e)
	case *ast.UnscopedVar:
		return &term.Unscoped{Name: e.Name}
	case *ast.Eraser:
		return &term.Era{}
	case *ast.Lambda:
		return d.lambda(e)
	case *ast.Call:
		return d.call(e)
	case *ast.TupleExpr:
		return d.elems(e.Elems, func(ts []term.Term) term.Term { return &term.Tup{Elems: ts} })
	case *ast.SupExpr:
		return d.elems(e.Elems, func(ts []term.Term) term.Term { return &term.Sup{Elems: ts} })
	case *ast.LetExpr:
		return d.letExpr(e)
	case *ast.UseExpr:
		return d.useExpr(e)
	case *ast.InfixExpr:
		l := d.expr(e.Left)
		r := d.expr(e.Right)
		if l == nil || r == nil {
			return nil
		}
		return &term.Opx{Op: e.Op, L: l, R: r}
	case *ast.NumLit:
		return &term.Num{Kind: e.Kind, U: e.U, I: e.I, F: e.F}
	case *ast.CharLit:
		return &term.Num{Kind: term.U24, U: uint32(e.Value)}
	case *ast.SymLit:
		return d.symbol(e)
	case *ast.NatLit:
		return natTerm(e.Value)
	case *ast.StrLit:
		return strTerm(e.Value)
	case *ast.ListLit:
		return d.listLit(e)
	case *ast.ListComp:
		return d.listComp(e)
	case *ast.SwitchExpr:
		return d.switchExpr(e)
	case *ast.MatchExpr:
		return d.matchExpr(e)
	case *ast.FoldExpr:
		return d.foldExpr(e)
	case *ast.BendExpr:
		return d.bendExpr(e)
	case *ast.OpenExpr:
		return d.openExpr(e)
	case *ast.DoExpr:
		return d.doExpr(e)
	default:
		d.errorf(diagnostics.ErrP001, e.GetToken(), "cannot desugar expression")
		return nil
	}
}

// ident resolves a name use: scoped variable first, then function, then
// constructor. Constructors with fields eta-expand when referenced bare.
func (d *Desugarer) ident(e *ast.Ident) term.Term {
	if d.inScope(e.Name) {
		return &term.Var{Name: e.Name}
	}
	if _, ok := d.reg.Func(e.Name); ok {
		return &term.Ref{Name: e.Name}
	}
	if d.reg.AmbiguousCtor(e.Name) {
		d.errorf(diagnostics.ErrN004, e.Token,
			"constructor %q is ambiguous, qualify it as Type/Ctr", e.Name)
		return nil
	}
	if ctor, ok := d.reg.ResolveCtor(e.Name); ok {
		return d.etaCtor(ctor)
	}
	d.errorf(diagnostics.ErrN004, e.Token, "unknown name %q", e.Name)
	return nil
}

// etaCtor wraps a bare constructor reference in lambdas over its fields.
func (d *Desugarer) etaCtor(ctor *registry.Ctor) term.Term {
	if ctor.Arity() == 0 {
		return &term.Ctr{Name: ctor.Name}
	}
	n := d.synth
	d.synth++
	args := make([]term.Term, ctor.Arity())
	pats := make([]*term.Pat, ctor.Arity())
	for i, f := range ctor.Fields {
		name := fmt.Sprintf("%s__%d_%d", f.Name, n, i)
		args[i] = &term.Var{Name: name}
		pats[i] = &term.Pat{Kind: term.PVar, Name: name}
	}
	var body term.Term = &term.Ctr{Name: ctor.Name, Args: args}
	for i := len(pats) - 1; i >= 0; i-- {
		body = &term.Lam{Pat: pats[i], Body: body}
	}
	return body
}

func (d *Desugarer) lambda(e *ast.Lambda) term.Term {
	pats := make([]*term.Pat, len(e.Pats))
	for i, pat := range e.Pats {
		pats[i] = d.pat(pat)
		if pats[i] == nil {
			return nil
		}
		d.pushPat(pats[i])
	}
	body := d.expr(e.Body)
	for i := len(pats) - 1; i >= 0; i-- {
		d.popPat(pats[i])
	}
	if body == nil {
		return nil
	}
	for i := len(pats) - 1; i >= 0; i-- {
		body = &term.Lam{Pat: pats[i], Body: body}
	}
	return body
}

func (d *Desugarer) letExpr(e *ast.LetExpr) term.Term {
	val := d.expr(e.Val)
	pat := d.pat(e.Pat)
	if val == nil || pat == nil {
		return nil
	}
	d.pushPat(pat)
	next := d.expr(e.Next)
	d.popPat(pat)
	if next == nil {
		return nil
	}
	return &term.Let{Pat: pat, Val: val, Next: next}
}

func (d *Desugarer) useExpr(e *ast.UseExpr) term.Term {
	val := d.expr(e.Val)
	if val == nil {
		return nil
	}
	d.push(e.Name)
	next := d.expr(e.Next)
	d.pop(e.Name)
	if next == nil {
		return nil
	}
	return &term.Use{Name: e.Name, Val: val, Next: next}
}

func (d *Desugarer) elems(es []ast.Expr, build func([]term.Term) term.Term) term.Term {
	ts := make([]term.Term, len(es))
	for i, e := range es {
		ts[i] = d.expr(e)
		if ts[i] == nil {
			return nil
		}
	}
	return build(ts)
}

// pat maps a surface pattern to a core pattern, qualifying constructor
// names through the registry.
func (d *Desugarer) pat(p ast.Pattern) *term.Pat {
	switch p := p.(type) {
	case *ast.VarPattern:
		return &term.Pat{Kind: term.PVar, Name: p.Name}
	case *ast.UnscopedPattern:
		return &term.Pat{Kind: term.PUnscoped, Name: p.Name}
	case *ast.WildcardPattern:
		return &term.Pat{Kind: term.PWild}
	case *ast.NumPattern:
		return &term.Pat{Kind: term.PNum, Num: p.Value}
	case *ast.CtorPattern:
		if d.reg.AmbiguousCtor(p.Name) {
			d.errorf(diagnostics.ErrN004, p.Token,
				"constructor %q is ambiguous, qualify it as Type/Ctr", p.Name)
			return nil
		}
		ctor, ok := d.reg.ResolveCtor(p.Name)
		if !ok {
			d.errorf(diagnostics.ErrN004, p.Token, "unknown constructor %q", p.Name)
			return nil
		}
		if len(p.Subs) != ctor.Arity() {
			d.errorf(diagnostics.ErrA001, p.Token,
				"constructor %q takes %d fields, pattern has %d", ctor.Name, ctor.Arity(), len(p.Subs))
			return nil
		}
		return d.subPats(p.Subs, &term.Pat{Kind: term.PCtor, Name: ctor.Name})
	case *ast.TuplePattern:
		return d.subPats(p.Subs, &term.Pat{Kind: term.PTup})
	case *ast.SupPattern:
		return d.subPats(p.Subs, &term.Pat{Kind: term.PSup})
	default:
		d.errorf(diagnostics.ErrP002, p.GetToken(), "cannot desugar pattern")
		return nil
	}
}

func (d *Desugarer) subPats(subs []ast.Pattern, parent *term.Pat) *term.Pat {
	for _, sub := range subs {
		cp := d.pat(sub)
		if cp == nil {
			return nil
		}
		parent.Subs = append(parent.Subs, cp)
	}
	return parent
}

func (d *Desugarer) push(name string) { d.scope[name]++ }
func (d *Desugarer) pop(name string)  { d.scope[name]-- }

func (d *Desugarer) pushPat(p *term.Pat) {
	for _, name := range p.Binds() {
		d.push(name)
	}
}

func (d *Desugarer) popPat(p *term.Pat) {
	for _, name := range p.Binds() {
		d.pop(name)
	}
}

func (d *Desugarer) inScope(name string) bool { return d.scope[name] > 0 }

func (d *Desugarer) errorf(code diagnostics.ErrorCode, tok token.Token, format string, args ...any) {
	err := diagnostics.NewError(code, tok, format, args...)
	err.File = d.file
	d.errs = append(d.errs, err)
}
