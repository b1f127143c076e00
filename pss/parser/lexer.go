package parser

type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		pos:    0,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// Next implements TokenSource.
func (l *Lexer) Next() Token {
	return l.NextToken()
}

func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}

	if isSpace(ch) {
		return l.scanWhitespace(startPos)
	}

	if isIdentStart(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if ch == '\\' {
		return l.scanEscapedIdent(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	if ch == '\'' {
		return l.scanBasedNumber(startPos)
	}

	if ch == '"' {
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTripleString(startPos)
		}
		return l.scanString(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isSpace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			return l.token(TokenError, start)
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	tok := l.token(TokenID, start)
	tok.Kind = LookupKeyword(tok.Literal)
	return tok
}

// scanEscapedIdent reads a backslash followed by any run of non-space bytes.
func (l *Lexer) scanEscapedIdent(start Position) Token {
	l.advance()
	if l.pos >= len(l.input) || isSpace(l.peek()) {
		return l.token(TokenError, start)
	}
	for l.pos < len(l.input) && !isSpace(l.peek()) {
		l.advance()
	}
	return l.token(TokenEscapedID, start)
}

func (l *Lexer) scanNumber(start Position) Token {
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.advanceN(2)
		if !isHexDigit(l.peek()) {
			return l.token(TokenError, start)
		}
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		return l.token(TokenHexLiteral, start)
	}

	if l.peek() == '0' {
		l.advance()
		for isOctDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		if isDigit(l.peek()) {
			for isDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
			return l.token(TokenError, start)
		}
		return l.token(TokenOctLiteral, start)
	}

	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	return l.token(TokenDecLiteral, start)
}

// scanBasedNumber reads the 'h, 'd, 'b and 'o forms with an optional
// signedness marker. A width, when present, is a separate DEC_LITERAL.
func (l *Lexer) scanBasedNumber(start Position) Token {
	l.advance()
	if l.peek() == 's' || l.peek() == 'S' {
		l.advance()
	}

	var kind TokenKind
	var digit func(byte) bool
	switch l.peek() {
	case 'h', 'H':
		kind, digit = TokenBasedHexLiteral, isHexDigit
	case 'd', 'D':
		kind, digit = TokenBasedDecLiteral, isDigit
	case 'b', 'B':
		kind, digit = TokenBasedBinLiteral, isBinDigit
	case 'o', 'O':
		kind, digit = TokenBasedOctLiteral, isOctDigit
	default:
		return l.token(TokenError, start)
	}
	l.advance()

	if !digit(l.peek()) {
		return l.token(TokenError, start)
	}
	for digit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanString(start Position) Token {
	l.advance()
	for {
		ch := l.peek()
		if l.pos >= len(l.input) || ch == '\n' {
			return l.token(TokenError, start)
		}
		if ch == '\\' {
			l.advanceN(2)
			continue
		}
		l.advance()
		if ch == '"' {
			return l.token(TokenString, start)
		}
	}
}

func (l *Lexer) scanTripleString(start Position) Token {
	l.advanceN(3)
	for {
		if l.pos >= len(l.input) {
			return l.token(TokenError, start)
		}
		if l.peek() == '\\' {
			l.advanceN(2)
			continue
		}
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.token(TokenTripleString, start)
		}
		l.advance()
	}
}

// scanOperator never combines '>' with a following '>' so that nested
// template argument lists close one bracket per token.
func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()

	switch ch {
	case '(':
		l.advance()
		return l.token(TokenLParen, start)
	case ')':
		l.advance()
		return l.token(TokenRParen, start)
	case '{':
		l.advance()
		return l.token(TokenLBrace, start)
	case '}':
		l.advance()
		return l.token(TokenRBrace, start)
	case '[':
		l.advance()
		return l.token(TokenLBracket, start)
	case ']':
		l.advance()
		return l.token(TokenRBracket, start)
	case ';':
		l.advance()
		return l.token(TokenSemicolon, start)
	case ',':
		l.advance()
		return l.token(TokenComma, start)
	case '~':
		l.advance()
		return l.token(TokenTilde, start)
	case '?':
		l.advance()
		return l.token(TokenQuestion, start)
	case '^':
		l.advance()
		return l.token(TokenBitXor, start)
	case '%':
		l.advance()
		return l.token(TokenPercent, start)
	case '/':
		l.advance()
		return l.token(TokenSlash, start)

	case '.':
		if l.peekN(1) == '.' && l.peekN(2) == '.' {
			l.advanceN(3)
			return l.token(TokenEllipsis, start)
		}
		if l.peekN(1) == '.' {
			l.advanceN(2)
			return l.token(TokenDotDot, start)
		}
		l.advance()
		return l.token(TokenDot, start)

	case ':':
		if l.peekN(1) == ':' {
			l.advanceN(2)
			return l.token(TokenColonColon, start)
		}
		l.advance()
		return l.token(TokenColon, start)

	case '=':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenEQ, start)
		}
		l.advance()
		return l.token(TokenAssign, start)

	case '!':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenNE, start)
		}
		l.advance()
		return l.token(TokenNot, start)

	case '<':
		if l.peekN(1) == '<' {
			if l.peekN(2) == '=' {
				l.advanceN(3)
				return l.token(TokenShlAssign, start)
			}
			l.advanceN(2)
			return l.token(TokenShl, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenLE, start)
		}
		l.advance()
		return l.token(TokenLT, start)

	case '>':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenGE, start)
		}
		l.advance()
		return l.token(TokenGT, start)

	case '&':
		if l.peekN(1) == '&' {
			l.advanceN(2)
			return l.token(TokenAnd, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenAndAssign, start)
		}
		l.advance()
		return l.token(TokenBitAnd, start)

	case '|':
		if l.peekN(1) == '|' {
			l.advanceN(2)
			return l.token(TokenOr, start)
		}
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOrAssign, start)
		}
		l.advance()
		return l.token(TokenBitOr, start)

	case '+':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenPlusAssign, start)
		}
		l.advance()
		return l.token(TokenPlus, start)

	case '-':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenMinusAssign, start)
		}
		if l.peekN(1) == '>' {
			l.advanceN(2)
			return l.token(TokenArrow, start)
		}
		l.advance()
		return l.token(TokenMinus, start)

	case '*':
		if l.peekN(1) == '*' {
			l.advanceN(2)
			return l.token(TokenStarStar, start)
		}
		l.advance()
		return l.token(TokenStar, start)
	}

	l.advance()
	return l.token(TokenError, start)
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isOctDigit(ch byte) bool {
	return ch >= '0' && ch <= '7'
}

func isBinDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
