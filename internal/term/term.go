// Package term defines the Core Term IR handed to the graph-reduction
// backend: a finite, immutable, tree-shaped structure. String renders the
// canonical textual form used for golden comparisons and by the CLI.
package term

import (
	"strconv"
	"strings"
)

type Term interface {
	termNode()
	String() string
}

// Var is a scoped variable use.
type Var struct {
	Name string
}

func (t *Var) termNode()      {}
func (t *Var) String() string { return t.Name }

// Unscoped is the use site of an unscoped variable ($x).
type Unscoped struct {
	Name string
}

func (t *Unscoped) termNode()      {}
func (t *Unscoped) String() string { return "$" + t.Name }

// Ref refers to a top-level definition.
type Ref struct {
	Name string
}

func (t *Ref) termNode()      {}
func (t *Ref) String() string { return t.Name }

// Era is the eraser (*).
type Era struct{}

func (t *Era) termNode()      {}
func (t *Era) String() string { return "*" }

// Lam is a lambda abstraction over one pattern. Unscoped binders are
// expressed with a PUnscoped pattern.
type Lam struct {
	Pat  *Pat
	Body Term
}

func (t *Lam) termNode()      {}
func (t *Lam) String() string { return "λ" + t.Pat.String() + " " + t.Body.String() }

// App applies a callee to one or more arguments.
type App struct {
	Fn   Term
	Args []Term
}

func (t *App) termNode() {}
func (t *App) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(t.Fn.String())
	for _, a := range t.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Tup is an n-ary tuple, n >= 2.
type Tup struct {
	Elems []Term
}

func (t *Tup) termNode() {}
func (t *Tup) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Sup is an n-ary superposition, n >= 2.
type Sup struct {
	Elems []Term
}

func (t *Sup) termNode() {}
func (t *Sup) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Let binds a pattern to a value within Next.
type Let struct {
	Pat  *Pat
	Val  Term
	Next Term
}

func (t *Let) termNode() {}
func (t *Let) String() string {
	return "let " + t.Pat.String() + " = " + t.Val.String() + "; " + t.Next.String()
}

// Use aliases a name to a value within Next without introducing a copy.
type Use struct {
	Name string
	Val  Term
	Next Term
}

func (t *Use) termNode() {}
func (t *Use) String() string {
	return "use " + t.Name + " = " + t.Val.String() + "; " + t.Next.String()
}

// Num is a numeric literal of one of the three 24-bit kinds.
type Num struct {
	Kind NumKind
	U    uint32
	I    int32
	F    float64
}

func (t *Num) termNode() {}
func (t *Num) String() string {
	switch t.Kind {
	case U24:
		return strconv.FormatUint(uint64(t.U), 10)
	case I24:
		if t.I >= 0 {
			return "+" + strconv.FormatInt(int64(t.I), 10)
		}
		return strconv.FormatInt(int64(t.I), 10)
	default:
		return formatF24(t.F)
	}
}

// Ctr is a fully-resolved constructor call with positional arguments. Name
// is the qualified "Type/Ctr" form.
type Ctr struct {
	Name string
	Args []Term
}

func (t *Ctr) termNode() {}
func (t *Ctr) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(t.Name)
	for _, a := range t.Args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Opx is a binary numeric operation.
type Opx struct {
	Op string
	L  Term
	R  Term
}

func (t *Opx) termNode() {}
func (t *Opx) String() string {
	return "(" + t.Op + " " + t.L.String() + " " + t.R.String() + ")"
}

// Swt is a numeric switch: arms for 0..k-1 in order, then a default arm.
// In the default arm the predecessor value is bound to Pred ("<bind>-<k>").
type Swt struct {
	Bind string
	Arg  Term
	Arms []Term // len k+1; the last entry is the default arm
	Pred string
}

func (t *Swt) termNode() {}
func (t *Swt) String() string {
	var b strings.Builder
	b.WriteString("switch ")
	if t.Bind != "" {
		b.WriteString(t.Bind)
		b.WriteString(" = ")
	}
	b.WriteString(t.Arg.String())
	b.WriteString(" {")
	for i, arm := range t.Arms {
		if i > 0 {
			b.WriteString(";")
		}
		b.WriteByte(' ')
		if i == len(t.Arms)-1 {
			b.WriteString("_")
		} else {
			b.WriteString(strconv.Itoa(i))
		}
		b.WriteString(": ")
		b.WriteString(arm.String())
	}
	b.WriteString(" }")
	return b.String()
}

// MatArm is one constructor arm of a Mat. Within Body the constructor's
// fields are in scope as "<bind>.<field>" names.
type MatArm struct {
	Ctor string
	Body Term
}

// Mat matches a value of an algebraic type. Arms follow the declared
// constructor order of the type; Dflt, when non-nil, is an explicit
// wildcard arm covering the constructors not listed.
type Mat struct {
	Bind string
	Arg  Term
	Arms []*MatArm
	Dflt Term
}

func (t *Mat) termNode() {}
func (t *Mat) String() string {
	var b strings.Builder
	b.WriteString("match ")
	if t.Bind != "" {
		b.WriteString(t.Bind)
		b.WriteString(" = ")
	}
	b.WriteString(t.Arg.String())
	b.WriteString(" {")
	for i, arm := range t.Arms {
		if i > 0 {
			b.WriteString(";")
		}
		b.WriteByte(' ')
		b.WriteString(arm.Ctor)
		b.WriteString(": ")
		b.WriteString(arm.Body.String())
	}
	if t.Dflt != nil {
		if len(t.Arms) > 0 {
			b.WriteString(";")
		}
		b.WriteString(" _: ")
		b.WriteString(t.Dflt.String())
	}
	b.WriteString(" }")
	return b.String()
}
