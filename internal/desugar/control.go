package desugar

import (
	"strconv"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/matchcomp"
	"github.com/loom-lang/loom/internal/term"
)

func (d *Desugarer) switchExpr(e *ast.SwitchExpr) term.Term {
	if errs := matchcomp.CheckSwitchArms(e, d.file); len(errs) > 0 {
		d.errs = append(d.errs, errs...)
		return nil
	}
	scrut := d.expr(e.Scrut)
	if scrut == nil {
		return nil
	}
	k := len(e.Arms) - 1
	pred := ""
	if e.Bind != "" {
		pred = e.Bind + "-" + strconv.Itoa(k)
	}
	arms := make([]term.Term, len(e.Arms))
	for i, arm := range e.Arms {
		if i == k && pred != "" {
			d.push(pred)
		}
		arms[i] = d.expr(arm.Body)
		if i == k && pred != "" {
			d.pop(pred)
		}
		if arms[i] == nil {
			return nil
		}
	}
	return &term.Swt{Bind: e.Bind, Arg: scrut, Arms: arms, Pred: pred}
}

func (d *Desugarer) matchExpr(e *ast.MatchExpr) term.Term {
	plan, errs := matchcomp.ResolveMatchArms(d.reg, e.Arms, e, d.file)
	if plan == nil {
		d.errs = append(d.errs, errs...)
		return nil
	}
	scrut := d.expr(e.Scrut)
	if scrut == nil {
		return nil
	}
	mat := &term.Mat{Bind: e.Bind, Arg: scrut}
	for i, ctor := range plan.Type.Ctors {
		arm := plan.Arms[i]
		if arm == nil {
			continue
		}
		fields := make([]string, ctor.Arity())
		for j, f := range ctor.Fields {
			fields[j] = e.Bind + "." + f.Name
			d.push(fields[j])
		}
		body := d.expr(arm.Body)
		for _, f := range fields {
			d.pop(f)
		}
		if body == nil {
			return nil
		}
		mat.Arms = append(mat.Arms, &term.MatArm{Ctor: ctor.Name, Body: body})
	}
	if plan.Default != nil {
		d.push(e.Bind)
		dflt := d.expr(plan.Default.Body)
		d.pop(e.Bind)
		if dflt == nil {
			return nil
		}
		mat.Dflt = dflt
	}
	return mat
}

// foldExpr synthesizes a recursive reducer. The arm bodies stay at the
// call site as lambdas over the arm's fields, so free variables need no
// lifting; inside the helper the recursive fields are re-folded before
// the arm function sees them.
func (d *Desugarer) foldExpr(e *ast.FoldExpr) term.Term {
	plan, errs := matchcomp.ResolveMatchArms(d.reg, e.Arms, e, d.file)
	if plan == nil {
		d.errs = append(d.errs, errs...)
		return nil
	}
	scrut := d.expr(e.Scrut)
	if scrut == nil {
		return nil
	}
	name := d.freshName("fold")

	// One parameter per covered arm, plus one for the default.
	var params []string
	var siteArgs []term.Term
	armParam := map[int]string{}
	for i := range plan.Type.Ctors {
		if plan.Arms[i] == nil {
			continue
		}
		p := "arm__" + strconv.Itoa(i)
		armParam[i] = p
		params = append(params, p)
	}
	defParam := ""
	if plan.Default != nil {
		defParam = "arm__d"
		params = append(params, defParam)
	}

	recur := func(field string) term.Term {
		args := make([]term.Term, 0, len(params)+1)
		for _, p := range params {
			args = append(args, &term.Var{Name: p})
		}
		args = append(args, &term.Var{Name: field})
		return &term.App{Fn: &term.Ref{Name: name}, Args: args}
	}

	mat := &term.Mat{Bind: "x", Arg: &term.Var{Name: "x"}}
	for i, ctor := range plan.Type.Ctors {
		arm := plan.Arms[i]
		if arm == nil {
			continue
		}
		var body term.Term = &term.Var{Name: armParam[i]}
		if ctor.Arity() > 0 {
			app := &term.App{Fn: body}
			for _, f := range ctor.Fields {
				if f.Recursive {
					app.Args = append(app.Args, recur("x."+f.Name))
				} else {
					app.Args = append(app.Args, &term.Var{Name: "x." + f.Name})
				}
			}
			body = app
		}
		mat.Arms = append(mat.Arms, &term.MatArm{Ctor: ctor.Name, Body: body})

		// Call-site lambda over the arm's fields, named as the arm sees them.
		fields := make([]string, ctor.Arity())
		for j, f := range ctor.Fields {
			fields[j] = e.Bind + "." + f.Name
			d.push(fields[j])
		}
		armBody := d.expr(arm.Body)
		for _, f := range fields {
			d.pop(f)
		}
		if armBody == nil {
			return nil
		}
		for j := len(fields) - 1; j >= 0; j-- {
			armBody = &term.Lam{Pat: &term.Pat{Kind: term.PVar, Name: fields[j]}, Body: armBody}
		}
		siteArgs = append(siteArgs, armBody)
	}
	if plan.Default != nil {
		mat.Dflt = &term.App{Fn: &term.Var{Name: defParam}, Args: []term.Term{&term.Var{Name: "x"}}}
		d.push(e.Bind)
		defBody := d.expr(plan.Default.Body)
		d.pop(e.Bind)
		if defBody == nil {
			return nil
		}
		siteArgs = append(siteArgs, &term.Lam{
			Pat:  &term.Pat{Kind: term.PVar, Name: e.Bind},
			Body: defBody,
		})
	}

	var helper term.Term = mat
	helper = &term.Lam{Pat: &term.Pat{Kind: term.PVar, Name: "x"}, Body: helper}
	for i := len(params) - 1; i >= 0; i-- {
		helper = &term.Lam{Pat: &term.Pat{Kind: term.PVar, Name: params[i]}, Body: helper}
	}
	d.out = append(d.out, &term.Def{Name: name, Term: helper})

	return &term.App{Fn: &term.Ref{Name: name}, Args: append(siteArgs, scrut)}
}

// bendExpr synthesizes a generative loop. The condition, when, and else
// bodies are passed as lambdas over the state variables; the when lambda
// additionally receives the recursion entry, which fork applies.
func (d *Desugarer) bendExpr(e *ast.BendExpr) term.Term {
	name := d.freshName("bend")
	states := make([]string, len(e.Binds))
	inits := make([]term.Term, len(e.Binds))
	for i, b := range e.Binds {
		states[i] = b.Name
		inits[i] = d.expr(b.Init)
		if inits[i] == nil {
			return nil
		}
	}

	stateVars := func() []term.Term {
		vs := make([]term.Term, len(states))
		for i, s := range states {
			vs[i] = &term.Var{Name: s}
		}
		return vs
	}
	rec := &term.App{Fn: &term.Ref{Name: name}, Args: []term.Term{
		&term.Var{Name: "when__"}, &term.Var{Name: "else__"}, &term.Var{Name: "cond__"},
	}}
	swt := &term.Swt{
		Arg: &term.App{Fn: &term.Var{Name: "cond__"}, Args: stateVars()},
		Arms: []term.Term{
			&term.App{Fn: &term.Var{Name: "else__"}, Args: stateVars()},
			&term.App{Fn: &term.Var{Name: "when__"}, Args: append([]term.Term{rec}, stateVars()...)},
		},
	}
	var helper term.Term = swt
	for i := len(states) - 1; i >= 0; i-- {
		helper = &term.Lam{Pat: &term.Pat{Kind: term.PVar, Name: states[i]}, Body: helper}
	}
	for _, p := range []string{"cond__", "else__", "when__"} {
		helper = &term.Lam{Pat: &term.Pat{Kind: term.PVar, Name: p}, Body: helper}
	}
	d.out = append(d.out, &term.Def{Name: name, Term: helper})

	forkVar := d.freshName("fork")
	for _, s := range states {
		d.push(s)
	}
	d.bends = append(d.bends, bendFrame{name: forkVar, arity: len(states)})
	when := d.expr(e.When)
	d.bends = d.bends[:len(d.bends)-1]
	els := d.expr(e.Else)
	cond := d.expr(e.Cond)
	for _, s := range states {
		d.pop(s)
	}
	if when == nil || els == nil || cond == nil {
		return nil
	}

	wrap := func(body term.Term) term.Term {
		for i := len(states) - 1; i >= 0; i-- {
			body = &term.Lam{Pat: &term.Pat{Kind: term.PVar, Name: states[i]}, Body: body}
		}
		return body
	}
	whenFn := &term.Lam{Pat: &term.Pat{Kind: term.PVar, Name: forkVar}, Body: wrap(when)}
	args := []term.Term{whenFn, wrap(els), wrap(cond)}
	return &term.App{Fn: &term.Ref{Name: name}, Args: append(args, inits...)}
}

func (d *Desugarer) openExpr(e *ast.OpenExpr) term.Term {
	typ, ok := d.reg.Types[e.TypeName]
	if !ok {
		d.errorf(diagnostics.ErrN004, e.Token, "unknown type %q", e.TypeName)
		return nil
	}
	if len(typ.Ctors) != 1 {
		d.errorf(diagnostics.ErrC005, e.Token,
			"open requires a single-constructor type, %q has %d constructors",
			typ.Name, len(typ.Ctors))
		return nil
	}
	if !d.inScope(e.VarName) {
		d.errorf(diagnostics.ErrN004, e.Token, "unknown variable %q", e.VarName)
		return nil
	}
	ctor := typ.Ctors[0]
	pat := &term.Pat{Kind: term.PCtor, Name: ctor.Name}
	fields := make([]string, ctor.Arity())
	for i, f := range ctor.Fields {
		fields[i] = e.VarName + "." + f.Name
		pat.Subs = append(pat.Subs, &term.Pat{Kind: term.PVar, Name: fields[i]})
		d.push(fields[i])
	}
	next := d.expr(e.Next)
	for _, f := range fields {
		d.pop(f)
	}
	if next == nil {
		return nil
	}
	return &term.Let{Pat: pat, Val: &term.Var{Name: e.VarName}, Next: next}
}

// doExpr threads the items through the type's bind function, right to
// left, ending on the block's trailing expression.
func (d *Desugarer) doExpr(e *ast.DoExpr) term.Term {
	if _, ok := d.reg.Types[e.TypeName]; !ok {
		d.errorf(diagnostics.ErrN004, e.Token, "unknown type %q", e.TypeName)
		return nil
	}
	bindName := e.TypeName + "/bind"
	fn, ok := d.reg.Func(bindName)
	if !ok {
		d.errorf(diagnostics.ErrN005, e.Token, "do block needs a %s function", bindName)
		return nil
	}
	if fn.Arity != 2 {
		d.errorf(diagnostics.ErrA004, e.Token,
			"%s must take 2 arguments, it takes %d", bindName, fn.Arity)
		return nil
	}
	if last := e.Items[len(e.Items)-1]; last.Bind != "" {
		d.errorf(diagnostics.ErrC001, last.Token, "do block must end in a plain expression")
		return nil
	}
	return d.doChain(bindName, e.Items)
}

func (d *Desugarer) doChain(bindName string, items []*ast.DoItem) term.Term {
	if len(items) == 1 {
		return d.expr(items[0].Expr)
	}
	head := items[0]
	val := d.expr(head.Expr)
	if val == nil {
		return nil
	}
	pat := &term.Pat{Kind: term.PWild}
	if head.Bind != "" && head.Bind != "_" {
		pat = &term.Pat{Kind: term.PVar, Name: head.Bind}
		d.push(head.Bind)
	}
	rest := d.doChain(bindName, items[1:])
	if pat.Kind == term.PVar {
		d.pop(head.Bind)
	}
	if rest == nil {
		return nil
	}
	return &term.App{
		Fn:   &term.Ref{Name: bindName},
		Args: []term.Term{val, &term.Lam{Pat: pat, Body: rest}},
	}
}
