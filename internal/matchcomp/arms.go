package matchcomp

import (
	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/registry"
)

// CheckSwitchArms enforces the switch shape: arms numbered 0..k-1 in
// order, then exactly one default arm last.
func CheckSwitchArms(sw *ast.SwitchExpr, file string) []*diagnostics.DiagnosticError {
	fail := func(format string, args ...any) []*diagnostics.DiagnosticError {
		err := diagnostics.NewError(diagnostics.ErrC003, sw.Token, format, args...)
		err.File = file
		return []*diagnostics.DiagnosticError{err}
	}
	if len(sw.Arms) < 2 {
		return fail("switch needs at least a 0 arm and a default arm")
	}
	for i, arm := range sw.Arms[:len(sw.Arms)-1] {
		if arm.Num == nil {
			return fail("default arm must come last")
		}
		if *arm.Num != uint32(i) {
			return fail("switch arms must count up from 0 without gaps, arm %d is %d", i, *arm.Num)
		}
	}
	if last := sw.Arms[len(sw.Arms)-1]; last.Num != nil {
		return fail("switch must end in a default arm")
	}
	return nil
}

// MatchPlan is the validated shape of a match or fold: one arm per
// constructor in the type's declared order, nil where the default covers.
type MatchPlan struct {
	Type    *registry.Type
	Arms    []*ast.MatchArm
	Default *ast.MatchArm
}

// ResolveMatchArms checks a match/fold arm list against the registry:
// every constructor of the scrutinized type exactly once, with an optional
// trailing default covering the rest.
func ResolveMatchArms(reg *registry.Registry, m []*ast.MatchArm, at ast.Node, file string) (*MatchPlan, []*diagnostics.DiagnosticError) {
	var errs []*diagnostics.DiagnosticError
	fail := func(code diagnostics.ErrorCode, node ast.Node, format string, args ...any) {
		err := diagnostics.NewError(code, node.GetToken(), format, args...)
		err.File = file
		errs = append(errs, err)
	}

	var typ *registry.Type
	var deflt *ast.MatchArm
	covered := map[string]*ast.MatchArm{}
	for i, arm := range m {
		if arm.Ctor == "_" {
			if deflt != nil {
				fail(diagnostics.ErrC004, arm, "duplicate default arm")
				return nil, errs
			}
			if i != len(m)-1 {
				fail(diagnostics.ErrC004, arm, "default arm must come last")
				return nil, errs
			}
			deflt = arm
			continue
		}
		if reg.AmbiguousCtor(arm.Ctor) {
			fail(diagnostics.ErrN004, arm, "constructor %q is ambiguous, qualify it as Type/Ctr", arm.Ctor)
			return nil, errs
		}
		ctor, ok := reg.ResolveCtor(arm.Ctor)
		if !ok {
			fail(diagnostics.ErrN004, arm, "unknown constructor %q", arm.Ctor)
			return nil, errs
		}
		armType := reg.TypeOf(ctor)
		if typ == nil {
			typ = armType
		} else if armType != typ {
			fail(diagnostics.ErrC004, arm,
				"constructor %q belongs to type %q, arms started with type %q",
				ctor.Name, armType.Name, typ.Name)
			return nil, errs
		}
		if covered[ctor.Name] != nil {
			fail(diagnostics.ErrC004, arm, "duplicate arm for constructor %q", ctor.Name)
			return nil, errs
		}
		covered[ctor.Name] = arm
	}
	if typ == nil {
		fail(diagnostics.ErrC004, at, "match needs at least one constructor arm")
		return nil, errs
	}

	plan := &MatchPlan{Type: typ, Default: deflt}
	for _, ctor := range typ.Ctors {
		arm := covered[ctor.Name]
		if arm == nil && deflt == nil {
			fail(diagnostics.ErrC004, at, "match does not cover constructor %q", ctor.Name)
			return nil, errs
		}
		plan.Arms = append(plan.Arms, arm)
	}
	return plan, nil
}
