package diagnostics

import (
	"fmt"
	"sort"

	"github.com/loom-lang/loom/internal/token"
)

type ErrorCode string

// Error codes are grouped by kind: L lexical, P parse, N naming, A arity,
// C control flow, U linearity (uniqueness).
const (
	ErrL001 ErrorCode = "L001" // unterminated string/char literal
	ErrL002 ErrorCode = "L002" // invalid escape sequence or symbol char
	ErrL003 ErrorCode = "L003" // codepoint above 0xFFFFFF
	ErrL004 ErrorCode = "L004" // reserved '__' in a name
	ErrL005 ErrorCode = "L005" // numeric literal out of range

	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // malformed pattern
	ErrP003 ErrorCode = "P003" // tuple/superposition arity below 2
	ErrP004 ErrorCode = "P004" // malformed constructor literal

	ErrN001 ErrorCode = "N001" // duplicate type declaration
	ErrN002 ErrorCode = "N002" // duplicate constructor in a type
	ErrN003 ErrorCode = "N003" // duplicate function declaration
	ErrN004 ErrorCode = "N004" // unknown type/constructor/function reference
	ErrN005 ErrorCode = "N005" // missing monadic bind function

	ErrA001 ErrorCode = "A001" // constructor field count mismatch
	ErrA002 ErrorCode = "A002" // inconsistent rule arity across clauses
	ErrA003 ErrorCode = "A003" // named-argument call mismatch
	ErrA004 ErrorCode = "A004" // wrong bind-function arity

	ErrC001 ErrorCode = "C001" // branch does not end in return
	ErrC002 ErrorCode = "C002" // statements after return
	ErrC003 ErrorCode = "C003" // malformed/misordered switch cases
	ErrC004 ErrorCode = "C004" // incomplete or duplicated match/fold case set
	ErrC005 ErrorCode = "C005" // open on a multi-constructor type

	ErrU001 ErrorCode = "U001" // unscoped variable not bound/used exactly once
)

// Kind is the coarse error family, matching the pipeline's taxonomy.
type Kind string

const (
	LexError         Kind = "LexError"
	ParseError       Kind = "ParseError"
	NameError        Kind = "NameError"
	ArityError       Kind = "ArityError"
	ControlFlowError Kind = "ControlFlowError"
	LinearityError   Kind = "LinearityError"
)

// DiagnosticError is a structured diagnostic record: a source span (token),
// an error code, and a human-readable message.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: [%s] %s", e.File, e.Token.Line, e.Token.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%d:%d: [%s] %s", e.Token.Line, e.Token.Column, e.Code, e.Message)
}

// Kind reports the error family encoded in the code prefix.
func (e *DiagnosticError) Kind() Kind {
	switch e.Code[0] {
	case 'L':
		return LexError
	case 'P':
		return ParseError
	case 'N':
		return NameError
	case 'A':
		return ArityError
	case 'C':
		return ControlFlowError
	default:
		return LinearityError
	}
}

// Sort orders diagnostics by source position so that output is deterministic
// regardless of how the passes were scheduled.
func Sort(errs []*DiagnosticError) {
	sort.SliceStable(errs, func(i, j int) bool {
		a, b := errs[i], errs[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Token.Line != b.Token.Line {
			return a.Token.Line < b.Token.Line
		}
		if a.Token.Column != b.Token.Column {
			return a.Token.Column < b.Token.Column
		}
		return a.Code < b.Code
	})
}
