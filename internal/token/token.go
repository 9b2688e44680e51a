package token

type TokenType string

// Token is a single lexeme with its source position. Literal holds the
// decoded value for literal tokens (uint32 for u24, int32 for i24, float64
// for f24, rune for chars, string otherwise).
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Layout tokens. NEWLINE is emitted by the lexer; INDENT and DEDENT are
	// synthesized by the layout pass for the imperative surface.
	NEWLINE = "NEWLINE"
	INDENT  = "INDENT"
	DEDENT  = "DEDENT"

	// Identifiers and literals
	IDENT    = "IDENT"    // add, x-3, Tree/Node, x.field
	UNSCOPED = "UNSCOPED" // $x
	NUM_U24  = "NUM_U24"  // 123, 0xFF
	NUM_I24  = "NUM_I24"  // +4, -4
	NUM_F24  = "NUM_F24"  // 1.5, -1.5
	NAT      = "NAT"      // #3
	CHAR     = "CHAR"     // 'c'
	SYMBOL   = "SYMBOL"   // `sym`
	STRING   = "STRING"   // "text"

	// Delimiters
	ASSIGN    = "="
	L_ARROW   = "<-"
	COLON     = ":"
	SEMICOLON = ";"
	COMMA     = ","
	LPAREN    = "("
	RPAREN    = ")"
	LBRACE    = "{"
	RBRACE    = "}"
	LBRACKET  = "["
	RBRACKET  = "]"
	LAMBDA    = "LAMBDA" // λ or @
	TILDE     = "~"
	PIPE      = "|"

	// Operators
	PLUS      = "+"
	MINUS     = "-"
	ASTERISK  = "*"
	SLASH     = "/"
	PERCENT   = "%"
	POWER     = "**"
	EQ        = "=="
	NOT_EQ    = "!="
	LT        = "<"
	GT        = ">"
	LTE       = "<="
	GTE       = ">="
	AMPERSAND = "&"
	CARET     = "^"
	LSHIFT    = "<<"
	RSHIFT    = ">>"

	// In-place operators (imperative surface)
	PLUS_ASSIGN      = "+="
	MINUS_ASSIGN     = "-="
	ASTERISK_ASSIGN  = "*="
	SLASH_ASSIGN     = "/="
	PERCENT_ASSIGN   = "%="
	AMPERSAND_ASSIGN = "&="
	PIPE_ASSIGN      = "|="
	CARET_ASSIGN     = "^="

	// Keywords
	DEF       = "DEF"
	TYPE      = "TYPE"
	OBJECT    = "OBJECT"
	IF        = "IF"
	ELSE      = "ELSE"
	SWITCH    = "SWITCH"
	CASE      = "CASE"
	MATCH     = "MATCH"
	FOLD      = "FOLD"
	BEND      = "BEND"
	WHEN      = "WHEN"
	OPEN      = "OPEN"
	DO        = "DO"
	RETURN    = "RETURN"
	LAMBDA_KW = "LAMBDA_KW" // the word "lambda"
	FORK      = "FORK"
	DATA      = "DATA"
	LET       = "LET"
	USE       = "USE"
	FOR       = "FOR"
	IN        = "IN"
)

var keywords = map[string]TokenType{
	"def":    DEF,
	"type":   TYPE,
	"object": OBJECT,
	"if":     IF,
	"else":   ELSE,
	"switch": SWITCH,
	"case":   CASE,
	"match":  MATCH,
	"fold":   FOLD,
	"bend":   BEND,
	"when":   WHEN,
	"open":   OPEN,
	"do":     DO,
	"return": RETURN,
	"lambda": LAMBDA_KW,
	"fork":   FORK,
	"data":   DATA,
	"let":    LET,
	"use":    USE,
	"for":    FOR,
	"in":     IN,
}

// LookupIdent maps reserved words to their keyword token type. Anything else
// is a plain identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Name returns the identifier text of an IDENT or UNSCOPED token.
func (t Token) Name() string {
	if s, ok := t.Literal.(string); ok {
		return s
	}
	return t.Lexeme
}
