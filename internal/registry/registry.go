// Package registry builds the program-wide name/arity table in a single
// pass over all top-level declarations. The result is immutable and is
// threaded by value through every later pass, which keeps those passes
// independently testable and safe to run in parallel.
package registry

import (
	"strings"

	"github.com/samber/lo"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
)

// Field is one constructor field with its recursion marker.
type Field struct {
	Name      string
	Recursive bool
}

// Ctor is a constructor with its qualified name ("Type/Ctr").
type Ctor struct {
	Name     string
	TypeName string
	Fields   []Field
}

// Arity returns the constructor's field count.
func (c *Ctor) Arity() int { return len(c.Fields) }

// FieldNames returns the ordered field names.
func (c *Ctor) FieldNames() []string {
	return lo.Map(c.Fields, func(f Field, _ int) string { return f.Name })
}

// Type is a declared algebraic type with its ordered constructors.
type Type struct {
	Name     string
	Ctors    []*Ctor
	IsObject bool
}

// Func records a function's declared parameters. Params is nil for
// rule-based functions whose clauses do not bind plain variables in every
// position; such functions cannot be called with named arguments.
type Func struct {
	Name   string
	Arity  int
	Params []string
}

// Registry is the read-only output of pass 1.
type Registry struct {
	Types map[string]*Type
	Funcs map[string]*Func

	ctors map[string]*Ctor   // qualified name
	short map[string][]*Ctor // unqualified name
}

// Build scans all programs' declarations, pre-seeding the builtin List,
// String and Nat types that literal desugaring relies on.
func Build(programs []*ast.Program) (*Registry, []*diagnostics.DiagnosticError) {
	r := &Registry{
		Types: make(map[string]*Type),
		Funcs: make(map[string]*Func),
		ctors: make(map[string]*Ctor),
		short: make(map[string][]*Ctor),
	}
	var errs []*diagnostics.DiagnosticError

	r.seedBuiltins()

	for _, prog := range programs {
		for _, decl := range prog.Decls {
			switch d := decl.(type) {
			case *ast.TypeDecl:
				if _, dup := r.Types[d.Name]; dup {
					errs = append(errs, fileErr(prog, diagnostics.NewError(
						diagnostics.ErrN001, d.Token, "duplicate type declaration %q", d.Name)))
					continue
				}
				t := &Type{Name: d.Name, IsObject: d.IsObject}
				seen := map[string]bool{}
				for _, c := range d.Ctors {
					if seen[c.Name] {
						errs = append(errs, fileErr(prog, diagnostics.NewError(
							diagnostics.ErrN002, c.Token, "duplicate constructor %q in type %q", c.Name, d.Name)))
						continue
					}
					seen[c.Name] = true
					ctor := &Ctor{
						Name:     d.Name + "/" + c.Name,
						TypeName: d.Name,
						Fields: lo.Map(c.Fields, func(f *ast.Field, _ int) Field {
							return Field{Name: f.Name, Recursive: f.Recursive}
						}),
					}
					t.Ctors = append(t.Ctors, ctor)
					r.ctors[ctor.Name] = ctor
					r.short[c.Name] = append(r.short[c.Name], ctor)
				}
				r.Types[d.Name] = t
			case *ast.FuncDecl:
				if _, dup := r.Funcs[d.Name]; dup {
					errs = append(errs, fileErr(prog, diagnostics.NewError(
						diagnostics.ErrN003, d.Token, "duplicate function declaration %q", d.Name)))
					continue
				}
				r.Funcs[d.Name] = funcInfo(d)
			}
		}
	}
	return r, errs
}

func funcInfo(d *ast.FuncDecl) *Func {
	if d.Body != nil {
		return &Func{Name: d.Name, Arity: len(d.Params), Params: d.Params}
	}
	f := &Func{Name: d.Name}
	if len(d.Rules) == 0 {
		return f
	}
	f.Arity = len(d.Rules[0].Patterns)
	// Parameter names are only meaningful when every clause binds a plain
	// variable in every position; otherwise named-argument calls are illegal.
	params := make([]string, 0, f.Arity)
	for _, pat := range d.Rules[0].Patterns {
		v, ok := pat.(*ast.VarPattern)
		if !ok {
			return f
		}
		params = append(params, v.Name)
	}
	for _, rule := range d.Rules[1:] {
		for _, pat := range rule.Patterns {
			if _, ok := pat.(*ast.VarPattern); !ok {
				return f
			}
		}
	}
	f.Params = params
	return f
}

func fileErr(prog *ast.Program, err *diagnostics.DiagnosticError) *diagnostics.DiagnosticError {
	if err.File == "" {
		err.File = prog.File
	}
	return err
}

// ResolveCtor resolves a constructor reference, qualified or not. The
// unqualified form is legal only when exactly one type declares the name.
func (r *Registry) ResolveCtor(name string) (*Ctor, bool) {
	if strings.Contains(name, "/") {
		c, ok := r.ctors[name]
		return c, ok
	}
	if cands := r.short[name]; len(cands) == 1 {
		return cands[0], true
	}
	return nil, false
}

// AmbiguousCtor reports whether an unqualified name matches more than one
// constructor.
func (r *Registry) AmbiguousCtor(name string) bool {
	return !strings.Contains(name, "/") && len(r.short[name]) > 1
}

// TypeOf returns the type a qualified constructor belongs to.
func (r *Registry) TypeOf(ctor *Ctor) *Type {
	return r.Types[ctor.TypeName]
}

// Func returns the declared function named name.
func (r *Registry) Func(name string) (*Func, bool) {
	f, ok := r.Funcs[name]
	return f, ok
}

func (r *Registry) seedBuiltins() {
	add := func(t *Type) {
		r.Types[t.Name] = t
		for _, c := range t.Ctors {
			r.ctors[c.Name] = c
			short := c.Name[strings.LastIndex(c.Name, "/")+1:]
			r.short[short] = append(r.short[short], c)
		}
	}
	add(&Type{Name: "List", Ctors: []*Ctor{
		{Name: "List/Cons", TypeName: "List", Fields: []Field{{Name: "head"}, {Name: "tail", Recursive: true}}},
		{Name: "List/Nil", TypeName: "List"},
	}})
	add(&Type{Name: "String", Ctors: []*Ctor{
		{Name: "String/Cons", TypeName: "String", Fields: []Field{{Name: "head"}, {Name: "tail", Recursive: true}}},
		{Name: "String/Nil", TypeName: "String"},
	}})
	add(&Type{Name: "Nat", Ctors: []*Ctor{
		{Name: "Nat/Succ", TypeName: "Nat", Fields: []Field{{Name: "pred", Recursive: true}}},
		{Name: "Nat/Zero", TypeName: "Nat"},
	}})
}
