package desugar

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/registry"
	"github.com/loom-lang/loom/internal/term"
)

// call desugars an application. A callee that is a free name resolves to
// a function or constructor; anything else is a plain application chain.
func (d *Desugarer) call(e *ast.Call) term.Term {
	if id, ok := e.Callee.(*ast.Ident); ok && !d.inScope(id.Name) {
		if id.Name == "fork" {
			return d.fork(e)
		}
		if fn, ok := d.reg.Func(id.Name); ok {
			return d.funcCall(e, fn)
		}
		if d.reg.AmbiguousCtor(id.Name) {
			d.errorf(diagnostics.ErrN004, id.Token,
				"constructor %q is ambiguous, qualify it as Type/Ctr", id.Name)
			return nil
		}
		if ctor, ok := d.reg.ResolveCtor(id.Name); ok {
			return d.ctorCall(e, ctor)
		}
		d.errorf(diagnostics.ErrN004, id.Token, "unknown name %q", id.Name)
		return nil
	}

	if len(e.Named) > 0 {
		d.errorf(diagnostics.ErrA003, e.Token,
			"named arguments require a function or constructor called by name")
		return nil
	}
	callee := d.expr(e.Callee)
	if callee == nil {
		return nil
	}
	return d.apps(callee, e.Args)
}

// funcCall applies a known function. Positional calls may be partial;
// named arguments require the full arity so every slot is determined.
func (d *Desugarer) funcCall(e *ast.Call, fn *registry.Func) term.Term {
	ref := &term.Ref{Name: fn.Name}
	if len(e.Named) == 0 {
		return d.apps(ref, e.Args)
	}
	ordered := d.orderArgs(e, fn.Params, fn.Name, "parameter")
	if ordered == nil {
		return nil
	}
	return d.apps(ref, ordered)
}

// ctorCall builds a constructor term. All three call shapes (positional,
// named, brace literal) arrive here and produce the same node.
func (d *Desugarer) ctorCall(e *ast.Call, ctor *registry.Ctor) term.Term {
	if len(e.Args)+len(e.Named) != ctor.Arity() {
		d.errorf(diagnostics.ErrA001, e.Token,
			"constructor %q takes %d fields, call has %d",
			ctor.Name, ctor.Arity(), len(e.Args)+len(e.Named))
		return nil
	}
	ordered := e.Args
	if len(e.Named) > 0 {
		ordered = d.orderArgs(e, ctor.FieldNames(), ctor.Name, "field")
		if ordered == nil {
			return nil
		}
	}
	args := make([]term.Term, len(ordered))
	for i, arg := range ordered {
		args[i] = d.expr(arg)
		if args[i] == nil {
			return nil
		}
	}
	return &term.Ctr{Name: ctor.Name, Args: args}
}

// orderArgs resolves a mixed positional/named argument list against the
// declared slot names: positionals fill the leading slots, named ones the
// rest in any order.
func (d *Desugarer) orderArgs(e *ast.Call, slots []string, name, slotKind string) []ast.Expr {
	if slots == nil {
		d.errorf(diagnostics.ErrA003, e.Token, "%q cannot be called with named arguments", name)
		return nil
	}
	if len(e.Args)+len(e.Named) != len(slots) {
		d.errorf(diagnostics.ErrA003, e.Token,
			"%q takes %d arguments, call has %d", name, len(slots), len(e.Args)+len(e.Named))
		return nil
	}
	ordered := make([]ast.Expr, len(slots))
	copy(ordered, e.Args)
	index := map[string]int{}
	for i, slot := range slots {
		index[slot] = i
	}
	for _, arg := range e.Named {
		i, ok := index[arg.Name]
		if !ok {
			d.errorf(diagnostics.ErrA003, arg.Token, "%q has no %s named %q", name, slotKind, arg.Name)
			return nil
		}
		if i < len(e.Args) || ordered[i] != nil {
			d.errorf(diagnostics.ErrA003, arg.Token, "%s %q is given twice", slotKind, arg.Name)
			return nil
		}
		ordered[i] = arg.Value
	}
	return ordered
}

// fork recurses on the innermost enclosing bend.
func (d *Desugarer) fork(e *ast.Call) term.Term {
	if len(d.bends) == 0 {
		d.errorf(diagnostics.ErrN004, e.Token, "fork is only valid inside the when branch of a bend")
		return nil
	}
	frame := d.bends[len(d.bends)-1]
	if len(e.Named) > 0 || len(e.Args) != frame.arity {
		d.errorf(diagnostics.ErrA001, e.Token,
			"fork takes the bend's %d state arguments, call has %d", frame.arity, len(e.Args)+len(e.Named))
		return nil
	}
	return d.apps(&term.Var{Name: frame.name}, e.Args)
}

func (d *Desugarer) apps(f term.Term, args []ast.Expr) term.Term {
	if len(args) == 0 {
		return f
	}
	app := &term.App{Fn: f}
	for _, arg := range args {
		a := d.expr(arg)
		if a == nil {
			return nil
		}
		app.Args = append(app.Args, a)
	}
	return app
}
