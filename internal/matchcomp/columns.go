package matchcomp

import (
	"fmt"
	"strconv"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/registry"
	"github.com/loom-lang/loom/internal/term"
	"github.com/loom-lang/loom/internal/token"
)

// ctorOf resolves a pattern in constructor position: a constructor
// application or a bare name naming a constructor.
func (c *Compiler) ctorOf(pat ast.Pattern) (*registry.Ctor, []ast.Pattern, bool) {
	switch p := pat.(type) {
	case *ast.CtorPattern:
		ctor, ok := c.reg.ResolveCtor(p.Name)
		if !ok {
			c.errorf(diagnostics.ErrN004, p.Token, "unknown constructor %q", p.Name)
			return nil, nil, false
		}
		return ctor, p.Subs, true
	case *ast.VarPattern:
		if c.isCtorName(p.Name) {
			ctor, _ := c.reg.ResolveCtor(p.Name)
			return ctor, nil, true
		}
	}
	return nil, nil, false
}

func (c *Compiler) compileCtorColumn(occs []ast.Expr, rows []row, col int, tok token.Token) ast.Expr {
	head, _, ok := c.ctorOf(rows[0].pats[col])
	if !ok {
		return nil
	}
	typ := c.reg.TypeOf(head)
	occ := occs[col].(*ast.Ident)
	bind := occ.Name

	match := &ast.MatchExpr{Token: tok, Bind: bind, Scrut: occ}
	for _, ctor := range typ.Ctors {
		var subRows []row
		for _, r := range rows {
			pat := r.pats[col]
			if c.irrefutable(pat) {
				subs := make([]ast.Pattern, ctor.Arity())
				for i := range subs {
					subs[i] = &ast.WildcardPattern{Token: pat.GetToken()}
				}
				subRows = append(subRows, row{
					pats: spliceAt(r.pats, col, subs),
					body: c.aliasVar(pat, occ, r.body),
				})
				continue
			}
			rc, subs, ok := c.ctorOf(pat)
			if !ok {
				c.errorf(diagnostics.ErrC004, pat.GetToken(),
					"cannot mix constructor and other patterns in one column")
				return nil
			}
			if rc.TypeName != typ.Name {
				c.errorf(diagnostics.ErrC004, pat.GetToken(),
					"constructor %q is not part of type %q", rc.Name, typ.Name)
				return nil
			}
			if rc.Name != ctor.Name {
				continue
			}
			if len(subs) != ctor.Arity() {
				c.errorf(diagnostics.ErrA001, pat.GetToken(),
					"constructor %q takes %d fields, pattern has %d",
					ctor.Name, ctor.Arity(), len(subs))
				return nil
			}
			subRows = append(subRows, row{pats: spliceAt(r.pats, col, subs), body: r.body})
		}
		if len(subRows) == 0 {
			c.errorf(diagnostics.ErrC004, tok, "no rule covers constructor %q", ctor.Name)
			return nil
		}

		fieldOccs := make([]ast.Expr, ctor.Arity())
		for i, f := range ctor.Fields {
			fieldOccs[i] = &ast.Ident{Token: tok, Name: bind + "." + f.Name}
		}
		body := c.compile(spliceAt(occs, col, fieldOccs), subRows, tok)
		if body == nil {
			return nil
		}
		match.Arms = append(match.Arms, &ast.MatchArm{Token: tok, Ctor: ctor.Name, Body: body})
	}
	return match
}

// compileNumColumn turns numeric patterns into a switch. The literals
// present must be exactly 0..k-1 and at least one clause must bind a
// variable for the default arm; its value is rebuilt from the predecessor.
func (c *Compiler) compileNumColumn(occs []ast.Expr, rows []row, col int, tok token.Token) ast.Expr {
	occ := occs[col].(*ast.Ident)
	bind := occ.Name

	max := uint32(0)
	seen := map[uint32]bool{}
	hasDefault := false
	for _, r := range rows {
		switch p := r.pats[col].(type) {
		case *ast.NumPattern:
			seen[p.Value] = true
			if p.Value > max {
				max = p.Value
			}
		default:
			if !c.irrefutable(r.pats[col]) {
				c.errorf(diagnostics.ErrC004, r.pats[col].GetToken(),
					"cannot mix numeric and other patterns in one column")
				return nil
			}
			hasDefault = true
		}
	}
	if !hasDefault {
		c.errorf(diagnostics.ErrC004, tok, "numeric patterns need a variable clause as default")
		return nil
	}
	for v := uint32(0); v <= max; v++ {
		if !seen[v] {
			c.errorf(diagnostics.ErrC004, tok, "numeric patterns must cover 0..%d, missing %d", max, v)
			return nil
		}
	}

	k := max + 1
	sw := &ast.SwitchExpr{Token: tok, Bind: bind, Scrut: occ}
	rest := dropAt(occs, col)
	for v := uint32(0); v < k; v++ {
		var subRows []row
		for _, r := range rows {
			switch p := r.pats[col].(type) {
			case *ast.NumPattern:
				if p.Value == v {
					subRows = append(subRows, row{pats: dropAt(r.pats, col), body: r.body})
				}
			default:
				lit := &ast.NumLit{Token: p.GetToken(), Kind: term.U24, U: v}
				subRows = append(subRows, row{
					pats: dropAt(r.pats, col),
					body: c.aliasTo(r.pats[col], lit, r.body),
				})
			}
		}
		body := c.compile(rest, subRows, tok)
		if body == nil {
			return nil
		}
		num := v
		sw.Arms = append(sw.Arms, &ast.SwitchArm{Token: tok, Num: &num, Body: body})
	}

	var defRows []row
	pred := &ast.Ident{Token: tok, Name: bind + "-" + strconv.FormatUint(uint64(k), 10)}
	for _, r := range rows {
		if _, isNum := r.pats[col].(*ast.NumPattern); isNum {
			continue
		}
		whole := &ast.InfixExpr{
			Token: tok,
			Op:    "+",
			Left:  pred,
			Right: &ast.NumLit{Token: tok, Kind: term.U24, U: k},
		}
		defRows = append(defRows, row{
			pats: dropAt(r.pats, col),
			body: c.aliasTo(r.pats[col], whole, r.body),
		})
	}
	body := c.compile(rest, defRows, tok)
	if body == nil {
		return nil
	}
	sw.Arms = append(sw.Arms, &ast.SwitchArm{Token: tok, Body: body})
	return sw
}

func (c *Compiler) compileTupleColumn(occs []ast.Expr, rows []row, col int, tok token.Token) ast.Expr {
	occ := occs[col]
	first := rows[0].pats[col].(*ast.TuplePattern)
	arity := len(first.Subs)

	elems := make([]ast.Pattern, arity)
	elemOccs := make([]ast.Expr, arity)
	for i := 0; i < arity; i++ {
		name := fmt.Sprintf("tup__%d", c.fresh)
		c.fresh++
		elems[i] = &ast.VarPattern{Token: tok, Name: name}
		elemOccs[i] = &ast.Ident{Token: tok, Name: name}
	}

	var subRows []row
	for _, r := range rows {
		switch p := r.pats[col].(type) {
		case *ast.TuplePattern:
			if len(p.Subs) != arity {
				c.errorf(diagnostics.ErrC004, p.Token,
					"tuple patterns in one column must share an arity")
				return nil
			}
			subRows = append(subRows, row{pats: spliceAt(r.pats, col, p.Subs), body: r.body})
		default:
			if !c.irrefutable(p) {
				c.errorf(diagnostics.ErrC004, p.GetToken(),
					"cannot mix tuple and other patterns in one column")
				return nil
			}
			subs := make([]ast.Pattern, arity)
			for i := range subs {
				subs[i] = &ast.WildcardPattern{Token: p.GetToken()}
			}
			rebuilt := &ast.TupleExpr{Token: tok, Elems: elemOccs}
			subRows = append(subRows, row{
				pats: spliceAt(r.pats, col, subs),
				body: c.aliasTo(p, rebuilt, r.body),
			})
		}
	}

	next := c.compile(spliceAt(occs, col, elemOccs), subRows, tok)
	if next == nil {
		return nil
	}
	return &ast.LetExpr{
		Token: tok,
		Pat:   &ast.TuplePattern{Token: tok, Subs: elems},
		Val:   occ,
		Next:  next,
	}
}

// aliasVar rebinds an irrefutable pattern to the occurrence it matched.
func (c *Compiler) aliasVar(pat ast.Pattern, occ ast.Expr, body ast.Expr) ast.Expr {
	return c.aliasTo(pat, occ, body)
}

func (c *Compiler) aliasTo(pat ast.Pattern, val ast.Expr, body ast.Expr) ast.Expr {
	switch p := pat.(type) {
	case *ast.VarPattern:
		return &ast.UseExpr{Token: p.Token, Name: p.Name, Val: val, Next: body}
	case *ast.UnscopedPattern:
		return &ast.LetExpr{Token: p.Token, Pat: p, Val: val, Next: body}
	}
	return body
}

func spliceAt[T any](xs []T, i int, repl []T) []T {
	out := make([]T, 0, len(xs)-1+len(repl))
	out = append(out, xs[:i]...)
	out = append(out, repl...)
	out = append(out, xs[i+1:]...)
	return out
}

func dropAt[T any](xs []T, i int) []T {
	out := make([]T, 0, len(xs)-1)
	out = append(out, xs[:i]...)
	out = append(out, xs[i+1:]...)
	return out
}
