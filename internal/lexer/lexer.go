package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/loom-lang/loom/internal/diagnostics"
	"github.com/loom-lang/loom/internal/term"
	"github.com/loom-lang/loom/internal/token"
)

// Lexer tokenizes source text shared by both surface syntaxes. It emits
// NEWLINE tokens; the imperative surface additionally runs the layout pass
// to synthesize INDENT/DEDENT.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
	afterSpace   bool // whether whitespace (or line start) precedes l.ch
	errors       []*diagnostics.DiagnosticError
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0, afterSpace: true}
	l.readChar()
	return l
}

// Errors returns the lexical diagnostics collected so far.
func (l *Lexer) Errors() []*diagnostics.DiagnosticError {
	return l.errors
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken returns the next token. Signed numeric literals are recognized
// only in operand context: after whitespace, an operator, or an opening
// delimiter. Elsewhere '-' and '+' are binary operators, and a '-' glued to
// a name was already consumed as part of the identifier.
func (l *Lexer) NextToken() token.Token {
	tok := l.nextToken()
	l.afterSpace = !endsValue(tok.Type)
	return tok
}

func endsValue(t token.TokenType) bool {
	switch t {
	case token.IDENT, token.UNSCOPED, token.NUM_U24, token.NUM_I24, token.NUM_F24,
		token.NAT, token.CHAR, token.SYMBOL, token.STRING,
		token.RPAREN, token.RBRACKET, token.RBRACE:
		return true
	}
	return false
}

func (l *Lexer) nextToken() token.Token {
	l.skipWhitespace()

	afterSpace := l.afterSpace

	switch l.ch {
	case '\n':
		tok := newToken(token.NEWLINE, l.ch, l.line, l.column)
		l.readChar()
		return tok
	case '=':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.EQ, "==")
		}
		return l.oneCharToken(token.ASSIGN)
	case '+':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.PLUS_ASSIGN, "+=")
		}
		if afterSpace && isDigit(l.peekChar()) {
			return l.readNumber(true)
		}
		return l.oneCharToken(token.PLUS)
	case '-':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.MINUS_ASSIGN, "-=")
		}
		if afterSpace && isDigit(l.peekChar()) {
			return l.readNumber(true)
		}
		return l.oneCharToken(token.MINUS)
	case '*':
		if l.peekChar() == '*' {
			return l.twoCharToken(token.POWER, "**")
		}
		if l.peekChar() == '=' {
			return l.twoCharToken(token.ASTERISK_ASSIGN, "*=")
		}
		return l.oneCharToken(token.ASTERISK)
	case '/':
		// "//" comments are consumed by skipWhitespace, so a '/' here is
		// the division operator.
		if l.peekChar() == '=' {
			return l.twoCharToken(token.SLASH_ASSIGN, "/=")
		}
		return l.oneCharToken(token.SLASH)
	case '%':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.PERCENT_ASSIGN, "%=")
		}
		return l.oneCharToken(token.PERCENT)
	case '!':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.NOT_EQ, "!=")
		}
		return l.oneCharToken(token.ILLEGAL)
	case '<':
		if l.peekChar() == '-' {
			return l.twoCharToken(token.L_ARROW, "<-")
		}
		if l.peekChar() == '<' {
			return l.twoCharToken(token.LSHIFT, "<<")
		}
		if l.peekChar() == '=' {
			return l.twoCharToken(token.LTE, "<=")
		}
		return l.oneCharToken(token.LT)
	case '>':
		if l.peekChar() == '>' {
			return l.twoCharToken(token.RSHIFT, ">>")
		}
		if l.peekChar() == '=' {
			return l.twoCharToken(token.GTE, ">=")
		}
		return l.oneCharToken(token.GT)
	case '&':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.AMPERSAND_ASSIGN, "&=")
		}
		return l.oneCharToken(token.AMPERSAND)
	case '|':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.PIPE_ASSIGN, "|=")
		}
		return l.oneCharToken(token.PIPE)
	case '^':
		if l.peekChar() == '=' {
			return l.twoCharToken(token.CARET_ASSIGN, "^=")
		}
		return l.oneCharToken(token.CARET)
	case '(':
		return l.oneCharToken(token.LPAREN)
	case ')':
		return l.oneCharToken(token.RPAREN)
	case '{':
		return l.oneCharToken(token.LBRACE)
	case '}':
		return l.oneCharToken(token.RBRACE)
	case '[':
		return l.oneCharToken(token.LBRACKET)
	case ']':
		return l.oneCharToken(token.RBRACKET)
	case ',':
		return l.oneCharToken(token.COMMA)
	case ';':
		return l.oneCharToken(token.SEMICOLON)
	case ':':
		return l.oneCharToken(token.COLON)
	case '~':
		return l.oneCharToken(token.TILDE)
	case 'λ', '@':
		tok := token.Token{Type: token.LAMBDA, Lexeme: string(l.ch), Literal: string(l.ch), Line: l.line, Column: l.column}
		l.readChar()
		return tok
	case '$':
		return l.readUnscoped()
	case '#':
		return l.readNatLiteral()
	case '"':
		return l.readStringLiteral()
	case '\'':
		return l.readCharLiteral()
	case '`':
		return l.readSymbolLiteral()
	case 0:
		return token.Token{Type: token.EOF, Lexeme: "", Line: l.line, Column: l.column}
	default:
		if isDigit(l.ch) {
			return l.readNumber(false)
		}
		if isNameStart(l.ch) {
			return l.readIdentifier()
		}
		tok := newToken(token.ILLEGAL, l.ch, l.line, l.column)
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrP001, tok, "unexpected character %q", string(l.ch)))
		l.readChar()
		return tok
	}
}

// Tokens drains the lexer into a slice ending in the EOF token.
func (l *Lexer) Tokens() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}
func (l *Lexer) oneCharToken(t token.TokenType) token.Token {
	tok := newToken(t, l.ch, l.line, l.column)
	l.readChar()
	return tok
}

func (l *Lexer) twoCharToken(t token.TokenType, lit string) token.Token {
	tok := token.Token{Type: t, Lexeme: lit, Literal: lit, Line: l.line, Column: l.column}
	l.readChar()
	l.readChar()
	return tok
}

// readIdentifier consumes a maximal run of name-constituent characters.
// Names match [A-Za-z0-9_.\-/]+, which is how "x-3" and "Tree/Node" stay
// single tokens; "//" always starts a comment so it never continues a name.
func (l *Lexer) readIdentifier() token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	for isNameChar(l.ch) {
		if l.ch == '/' && l.peekChar() == '/' {
			break
		}
		l.readChar()
	}
	name := l.input[position:l.position]
	tok := token.Token{Type: token.LookupIdent(name), Lexeme: name, Literal: name, Line: startLine, Column: startCol}
	if strings.Contains(name, "__") {
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrL004, tok, "name %q contains '__', reserved for generated names", name))
	}
	return tok
}

func (l *Lexer) readUnscoped() token.Token {
	startLine, startCol := l.line, l.column
	l.readChar() // consume '$'
	if !isNameStart(l.ch) && !isDigit(l.ch) {
		tok := token.Token{Type: token.ILLEGAL, Lexeme: "$", Line: startLine, Column: startCol}
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrP001, tok, "expected a name after '$'"))
		return tok
	}
	position := l.position
	for isNameChar(l.ch) {
		if l.ch == '/' && l.peekChar() == '/' {
			break
		}
		l.readChar()
	}
	name := l.input[position:l.position]
	tok := token.Token{Type: token.UNSCOPED, Lexeme: "$" + name, Literal: name, Line: startLine, Column: startCol}
	if strings.Contains(name, "__") {
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrL004, tok, "name %q contains '__', reserved for generated names", name))
	}
	return tok
}

// readNumber scans an unsigned or signed numeric literal. Unsigned decimals
// are u24, signed ones i24, anything with a decimal point f24. 0x and 0b
// prefixes are accepted for the integer kinds.
func (l *Lexer) readNumber(signed bool) token.Token {
	startLine, startCol := l.line, l.column
	position := l.position
	negative := false
	if signed {
		negative = l.ch == '-'
		l.readChar() // consume sign
	}

	base := 10
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		base = 16
		l.readChar()
		l.readChar()
	} else if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		base = 2
		l.readChar()
		l.readChar()
	}

	digits := func() {
		for {
			if base == 16 && isHexDigit(l.ch) {
				l.readChar()
				continue
			}
			if base != 16 && isDigit(l.ch) {
				l.readChar()
				continue
			}
			break
		}
	}
	digits()

	isFloat := false
	if base == 10 && l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // '.'
		digits()
	}

	lexeme := l.input[position:l.position]
	body := lexeme
	if signed {
		body = body[1:]
	}

	if isFloat {
		val, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return l.numError(lexeme, startLine, startCol, "invalid float literal %q", lexeme)
		}
		return token.Token{Type: token.NUM_F24, Lexeme: lexeme, Literal: val, Line: startLine, Column: startCol}
	}

	num := body
	if base != 10 {
		num = num[2:] // 0x/0X or 0b/0B
	}
	val, err := strconv.ParseUint(num, base, 64)
	if err != nil {
		return l.numError(lexeme, startLine, startCol, "invalid numeric literal %q", lexeme)
	}

	if signed {
		iv := int64(val)
		if negative {
			iv = -iv
		}
		if iv < term.MinI24 || iv > term.MaxI24 {
			return l.numError(lexeme, startLine, startCol, "i24 literal %q out of range", lexeme)
		}
		return token.Token{Type: token.NUM_I24, Lexeme: lexeme, Literal: int32(iv), Line: startLine, Column: startCol}
	}
	if val > term.MaxU24 {
		return l.numError(lexeme, startLine, startCol, "u24 literal %q exceeds 0xFFFFFF", lexeme)
	}
	return token.Token{Type: token.NUM_U24, Lexeme: lexeme, Literal: uint32(val), Line: startLine, Column: startCol}
}

func (l *Lexer) numError(lexeme string, line, col int, format string, args ...any) token.Token {
	tok := token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Line: line, Column: col}
	l.errors = append(l.errors, diagnostics.NewError(diagnostics.ErrL005, tok, format, args...))
	return tok
}

func (l *Lexer) readNatLiteral() token.Token {
	startLine, startCol := l.line, l.column
	l.readChar() // consume '#'
	if !isDigit(l.ch) {
		tok := token.Token{Type: token.ILLEGAL, Lexeme: "#", Line: startLine, Column: startCol}
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrP001, tok, "expected digits after '#'"))
		return tok
	}
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	body := l.input[position:l.position]
	val, err := strconv.ParseUint(body, 10, 64)
	if err != nil || val > term.MaxU24 {
		return l.numError("#"+body, startLine, startCol, "nat literal #%s exceeds 0xFFFFFF", body)
	}
	return token.Token{Type: token.NAT, Lexeme: "#" + body, Literal: uint32(val), Line: startLine, Column: startCol}
}

func (l *Lexer) readStringLiteral() token.Token {
	startLine, startCol := l.line, l.column
	var sb strings.Builder
	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			tok := token.Token{Type: token.ILLEGAL, Lexeme: sb.String(), Line: startLine, Column: startCol}
			l.errors = append(l.errors, diagnostics.NewError(
				diagnostics.ErrL001, tok, "unterminated string literal"))
			return tok
		}
		if l.ch == '"' {
			l.readChar() // consume closing quote
			return token.Token{Type: token.STRING, Lexeme: sb.String(), Literal: sb.String(), Line: startLine, Column: startCol}
		}
		if l.ch == '\\' {
			r, ok := l.readEscape('"')
			if !ok {
				tok := token.Token{Type: token.ILLEGAL, Lexeme: sb.String(), Line: startLine, Column: startCol}
				l.errors = append(l.errors, diagnostics.NewError(
					diagnostics.ErrL002, tok, "invalid escape sequence in string literal"))
				return tok
			}
			if r > term.MaxU24 {
				tok := token.Token{Type: token.ILLEGAL, Lexeme: sb.String(), Line: startLine, Column: startCol}
				l.errors = append(l.errors, diagnostics.NewError(
					diagnostics.ErrL003, tok, "escape codepoint %#x exceeds 0xFFFFFF", r))
				return tok
			}
			sb.WriteRune(r)
			continue
		}
		sb.WriteRune(l.ch)
	}
}

func (l *Lexer) readCharLiteral() token.Token {
	startLine, startCol := l.line, l.column
	l.readChar() // consume opening quote
	if l.ch == 0 || l.ch == '\n' || l.ch == '\'' {
		tok := token.Token{Type: token.ILLEGAL, Lexeme: "'", Line: startLine, Column: startCol}
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrL001, tok, "empty or unterminated character literal"))
		if l.ch == '\'' {
			l.readChar()
		}
		return tok
	}

	var val rune
	if l.ch == '\\' {
		r, ok := l.readEscape('\'')
		if !ok {
			tok := token.Token{Type: token.ILLEGAL, Lexeme: "'", Line: startLine, Column: startCol}
			l.errors = append(l.errors, diagnostics.NewError(
				diagnostics.ErrL002, tok, "invalid escape sequence in character literal"))
			return tok
		}
		val = r
	} else {
		val = l.ch
		l.readChar()
	}

	if l.ch != '\'' {
		tok := token.Token{Type: token.ILLEGAL, Lexeme: string(val), Line: startLine, Column: startCol}
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrL001, tok, "unterminated character literal, expected '"))
		return tok
	}
	l.readChar() // consume closing quote

	tok := token.Token{Type: token.CHAR, Lexeme: "'" + string(val) + "'", Literal: val, Line: startLine, Column: startCol}
	if val > term.MaxU24 {
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrL003, tok, "character codepoint %#x exceeds 0xFFFFFF", val))
		tok.Type = token.ILLEGAL
	}
	return tok
}

// readEscape is called with l.ch on a backslash; it consumes the full
// escape and leaves l.ch on the character after it.
func (l *Lexer) readEscape(quote rune) (rune, bool) {
	l.readChar() // consume backslash
	switch l.ch {
	case 'n':
		l.readChar()
		return '\n', true
	case 't':
		l.readChar()
		return '\t', true
	case 'r':
		l.readChar()
		return '\r', true
	case '0':
		l.readChar()
		return 0, true
	case '\\':
		l.readChar()
		return '\\', true
	case quote:
		l.readChar()
		return quote, true
	case 'u':
		return l.readBraceEscape()
	default:
		return 0, false
	}
}

// readBraceEscape parses the hex body of a \u{...} escape. l.ch is on
// the 'u'; the braces must enclose one to seven hex digits. The value
// is range-checked by the caller against the 24-bit codepoint bound.
func (l *Lexer) readBraceEscape() (rune, bool) {
	l.readChar() // consume 'u'
	if l.ch != '{' {
		return 0, false
	}
	var val int64
	digits := 0
	for {
		l.readChar()
		if l.ch == '}' {
			break
		}
		var d int64
		switch {
		case l.ch >= '0' && l.ch <= '9':
			d = int64(l.ch - '0')
		case l.ch >= 'a' && l.ch <= 'f':
			d = int64(l.ch - 'a' + 10)
		case l.ch >= 'A' && l.ch <= 'F':
			d = int64(l.ch - 'A' + 10)
		default:
			return 0, false
		}
		val = val*16 + d
		digits++
		if digits > 7 {
			return 0, false
		}
	}
	if digits == 0 {
		return 0, false
	}
	l.readChar() // consume '}'
	return rune(val), true
}

// readSymbolLiteral reads a backtick-quoted symbol of at most four base64
// characters; it is packed into a u24 during desugaring.
func (l *Lexer) readSymbolLiteral() token.Token {
	startLine, startCol := l.line, l.column
	var sb strings.Builder
	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			tok := token.Token{Type: token.ILLEGAL, Lexeme: sb.String(), Line: startLine, Column: startCol}
			l.errors = append(l.errors, diagnostics.NewError(
				diagnostics.ErrL001, tok, "unterminated symbol literal"))
			return tok
		}
		if l.ch == '`' {
			l.readChar() // consume closing backtick
			break
		}
		sb.WriteRune(l.ch)
	}
	sym := sb.String()
	tok := token.Token{Type: token.SYMBOL, Lexeme: "`" + sym + "`", Literal: sym, Line: startLine, Column: startCol}
	if len(sym) > 4 {
		l.errors = append(l.errors, diagnostics.NewError(
			diagnostics.ErrL002, tok, "symbol literal %q longer than four characters", sym))
		tok.Type = token.ILLEGAL
		return tok
	}
	for _, c := range sym {
		if !isBase64(c) {
			l.errors = append(l.errors, diagnostics.NewError(
				diagnostics.ErrL002, tok, "symbol literal %q contains non-base64 character %q", sym, string(c)))
			tok.Type = token.ILLEGAL
			return tok
		}
	}
	return tok
}

func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.afterSpace = true
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			l.afterSpace = true
			continue
		}
		break
	}
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

func isNameStart(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isNameChar(ch rune) bool {
	return isNameStart(ch) || isDigit(ch) || ch == '.' || ch == '/' || ch == '-'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isBase64(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '+' || ch == '/'
}
