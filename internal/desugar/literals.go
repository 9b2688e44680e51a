package desugar

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/term"
)

// symbol packs up to four base64 characters into a u24, six bits each:
// A-Z are 0-25, a-z 26-51, 0-9 52-61, '+' 62, '/' 63.
func (d *Desugarer) symbol(e *ast.SymLit) term.Term {
	var acc uint32
	for _, ch := range e.Value {
		var v uint32
		switch {
		case ch >= 'A' && ch <= 'Z':
			v = uint32(ch - 'A')
		case ch >= 'a' && ch <= 'z':
			v = uint32(ch-'a') + 26
		case ch >= '0' && ch <= '9':
			v = uint32(ch-'0') + 52
		case ch == '+':
			v = 62
		case ch == '/':
			v = 63
		default:
			d.errorf(diagnostics.ErrL002, e.Token, "invalid symbol character %q", ch)
			return nil
		}
		acc = acc<<6 | v
	}
	return &term.Num{Kind: term.U24, U: acc}
}

// natTerm builds #N as N applications of Nat/Succ around Nat/Zero.
func natTerm(n uint32) term.Term {
	var out term.Term = &term.Ctr{Name: "Nat/Zero"}
	for i := uint32(0); i < n; i++ {
		out = &term.Ctr{Name: "Nat/Succ", Args: []term.Term{out}}
	}
	return out
}

// strTerm builds a right-nested String/Cons chain of codepoints.
func strTerm(s string) term.Term {
	runes := []rune(s)
	var out term.Term = &term.Ctr{Name: "String/Nil"}
	for i := len(runes) - 1; i >= 0; i-- {
		out = &term.Ctr{Name: "String/Cons", Args: []term.Term{
			&term.Num{Kind: term.U24, U: uint32(runes[i])},
			out,
		}}
	}
	return out
}

// listLit builds a right-nested List/Cons chain.
func (d *Desugarer) listLit(e *ast.ListLit) term.Term {
	var out term.Term = &term.Ctr{Name: "List/Nil"}
	for i := len(e.Elems) - 1; i >= 0; i-- {
		elem := d.expr(e.Elems[i])
		if elem == nil {
			return nil
		}
		out = &term.Ctr{Name: "List/Cons", Args: []term.Term{elem, out}}
	}
	return out
}

// listComp expands "[out for x in xs if cond]" into a call to a
// synthesized map-and-filter helper. Passing the output and condition as
// lambdas keeps the helper closed, so captured variables need no special
// treatment.
func (d *Desugarer) listComp(e *ast.ListComp) term.Term {
	name := d.freshName("comp")
	d.out = append(d.out, &term.Def{Name: name, Term: compHelper(name)})

	d.push(e.Var)
	out := d.expr(e.Out)
	var cond term.Term
	if e.Cond != nil {
		cond = d.expr(e.Cond)
	}
	d.pop(e.Var)
	if out == nil || (e.Cond != nil && cond == nil) {
		return nil
	}
	iter := d.expr(e.Iter)
	if iter == nil {
		return nil
	}

	xPat := &term.Pat{Kind: term.PVar, Name: e.Var}
	outFn := &term.Lam{Pat: xPat, Body: out}
	var condFn term.Term
	if cond != nil {
		condFn = &term.Lam{Pat: xPat, Body: cond}
	} else {
		condFn = &term.Lam{Pat: &term.Pat{Kind: term.PWild}, Body: &term.Num{Kind: term.U24, U: 1}}
	}
	return &term.App{Fn: &term.Ref{Name: name}, Args: []term.Term{outFn, condFn, iter}}
}

// compHelper is the recursive worker behind a list comprehension:
//
//	λf λp λxs match xs { Nil: Nil; Cons: if (p head) keep (f head) }
func compHelper(name string) term.Term {
	v := func(n string) term.Term { return &term.Var{Name: n} }
	rec := func() term.Term {
		return &term.App{Fn: &term.Ref{Name: name}, Args: []term.Term{v("f"), v("p"), v("xs.tail")}}
	}
	keep := &term.Ctr{Name: "List/Cons", Args: []term.Term{
		&term.App{Fn: v("f"), Args: []term.Term{v("xs.head")}},
		rec(),
	}}
	swt := &term.Swt{
		Arg:  &term.App{Fn: v("p"), Args: []term.Term{v("xs.head")}},
		Arms: []term.Term{rec(), keep},
	}
	mat := &term.Mat{
		Bind: "xs",
		Arg:  v("xs"),
		Arms: []*term.MatArm{
			{Ctor: "List/Cons", Body: swt},
			{Ctor: "List/Nil", Body: &term.Ctr{Name: "List/Nil"}},
		},
	}
	body := term.Term(mat)
	for _, p := range []string{"xs", "p", "f"} {
		body = &term.Lam{Pat: &term.Pat{Kind: term.PVar, Name: p}, Body: body}
	}
	return body
}
