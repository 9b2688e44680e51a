// Package compile drives whole-program checking: the per-unit pipeline
// (lex, layout, parse, lower), the program-wide registry, and the
// per-definition passes (rule merging, desugaring, linearity), which run
// in parallel since they only read the registry.
package compile

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/desugar"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/lexer"
	"github.com/loom-lang/loom/internal/linear"
	"github.com/loom-lang/loom/internal/lower"
	"github.com/loom-lang/loom/internal/matchcomp"
	"github.com/loom-lang/loom/internal/parser"
	"github.com/loom-lang/loom/internal/pipeline"
	"github.com/loom-lang/loom/internal/registry"
	"github.com/loom-lang/loom/internal/term"
)

// Unit is one source file to compile.
type Unit struct {
	Path   string
	Source string
}

// Options tunes a compilation.
type Options struct {
	// Syntax forces a surface grammar for every unit; pipeline.SyntaxAuto
	// detects it per unit.
	Syntax ast.Syntax

	// Jobs bounds the parallel per-definition pass; 0 means GOMAXPROCS.
	Jobs int
}

// Result is the outcome of compiling a set of units. Book is nil when
// Errors is non-empty.
type Result struct {
	Book   *term.Book
	Errors []*diagnostics.DiagnosticError
}

// Compile checks all units and builds the core book. Diagnostics are
// collected across units and sorted by position.
func Compile(ctx context.Context, units []Unit, opts Options) *Result {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Pass 0: per-unit pipeline.
	pctxs := make([]*pipeline.PipelineContext, len(units))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pctx := pipeline.NewPipelineContext(unit.Source)
			pctx.FilePath = unit.Path
			pctx.Syntax = opts.Syntax
			pipe := pipeline.New(
				&lexer.LexerProcessor{},
				&parser.ParserProcessor{},
				&lower.LowerProcessor{},
			)
			pctxs[i] = pipe.Run(pctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &Result{Errors: collect(pctxs)}
	}

	errs := collect(pctxs)
	if len(errs) > 0 {
		diagnostics.Sort(errs)
		return &Result{Errors: errs}
	}

	// Pass 1: program-wide registry.
	programs := make([]*ast.Program, len(pctxs))
	for i, pctx := range pctxs {
		programs[i] = pctx.Program
	}
	reg, regErrs := registry.Build(programs)
	if len(regErrs) > 0 {
		diagnostics.Sort(regErrs)
		return &Result{Errors: regErrs}
	}

	// Pass 2: per-definition, in parallel, with results kept in source
	// order.
	var work []*ast.FuncDecl
	var files []string
	for _, prog := range programs {
		for _, decl := range prog.Decls {
			if fd, ok := decl.(*ast.FuncDecl); ok {
				work = append(work, fd)
				files = append(files, prog.File)
			}
		}
	}
	slots := make([]defResult, len(work))

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, fd := range work {
		i, fd := i, fd
		file := files[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = compileDef(reg, fd, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return &Result{Errors: []*diagnostics.DiagnosticError{
			diagnostics.NewError(diagnostics.ErrP001, work[0].Token, "compilation canceled: %v", err),
		}}
	}

	book := term.NewBook()
	errs = nil
	for _, s := range slots {
		for _, def := range s.defs {
			book.Add(def)
		}
		errs = append(errs, s.errs...)
	}
	if len(errs) > 0 {
		diagnostics.Sort(errs)
		return &Result{Errors: errs}
	}
	return &Result{Book: book}
}

// defResult is one definition's pass-2 output: the main def plus any
// synthesized helpers, or the diagnostics that stopped it.
type defResult struct {
	defs []*term.Def
	errs []*diagnostics.DiagnosticError
}

func compileDef(reg *registry.Registry, fd *ast.FuncDecl, file string) (s defResult) {
	mc := matchcomp.New(reg, file)
	mc.CompileFunc(fd)
	if errs := mc.Errors(); len(errs) > 0 {
		s.errs = errs
		return s
	}

	d := desugar.New(reg, file)
	def, extra := d.DesugarFunc(fd)
	if errs := d.Errors(); len(errs) > 0 {
		s.errs = errs
		return s
	}
	if def == nil {
		return s
	}

	s.defs = append(s.defs, def)
	s.defs = append(s.defs, extra...)
	for _, checked := range s.defs {
		s.errs = append(s.errs, linear.Check(checked, fd.Token, file)...)
	}
	return s
}

func collect(pctxs []*pipeline.PipelineContext) []*diagnostics.DiagnosticError {
	var errs []*diagnostics.DiagnosticError
	for _, pctx := range pctxs {
		if pctx != nil {
			errs = append(errs, pctx.Errors...)
		}
	}
	return errs
}
