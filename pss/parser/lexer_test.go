package parser

import (
	"testing"
)

func lexKinds(input string) []TokenKind {
	lexer := NewLexer([]byte(input), "test.pss")
	var got []TokenKind
	for {
		tok := lexer.NextToken()
		if tok.Kind != TokenWhitespace && tok.Kind != TokenComment && tok.Kind != TokenLineComment {
			got = append(got, tok.Kind)
		}
		if tok.Kind == TokenEOF {
			return got
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"action", []TokenKind{TokenAction, TokenEOF}},
		{"package p { }", []TokenKind{TokenPackage, TokenID, TokenLBrace, TokenRBrace, TokenEOF}},
		{"\\esc.aped+ x", []TokenKind{TokenEscapedID, TokenID, TokenEOF}},
		{"123 0x1F 017 0", []TokenKind{TokenDecLiteral, TokenHexLiteral, TokenOctLiteral, TokenOctLiteral, TokenEOF}},
		{"4'hF 'd10 'sb101 8'o7", []TokenKind{TokenDecLiteral, TokenBasedHexLiteral, TokenBasedDecLiteral, TokenBasedBinLiteral, TokenDecLiteral, TokenBasedOctLiteral, TokenEOF}},
		{`"hello"`, []TokenKind{TokenString, TokenEOF}},
		{`"""multi
line"""`, []TokenKind{TokenTripleString, TokenEOF}},
		{"// comment\naction", []TokenKind{TokenAction, TokenEOF}},
		{"/* block */ action", []TokenKind{TokenAction, TokenEOF}},
		{"+ - * / % **", []TokenKind{TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenStarStar, TokenEOF}},
		{"== != < <= > >=", []TokenKind{TokenEQ, TokenNE, TokenLT, TokenLE, TokenGT, TokenGE, TokenEOF}},
		{"&& || !", []TokenKind{TokenAnd, TokenOr, TokenNot, TokenEOF}},
		{"<< >>", []TokenKind{TokenShl, TokenGT, TokenGT, TokenEOF}},
		{"= += -= <<= |= &=", []TokenKind{TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenShlAssign, TokenOrAssign, TokenAndAssign, TokenEOF}},
		{"-> :: : .. ...", []TokenKind{TokenArrow, TokenColonColon, TokenColon, TokenDotDot, TokenEllipsis, TokenEOF}},
		{"illegal_bins ignore_bins", []TokenKind{TokenIllegalBins, TokenIgnoreBins, TokenEOF}},
		{"1..3", []TokenKind{TokenDecLiteral, TokenDotDot, TokenDecLiteral, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := lexKinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []string{
		"0x",
		"'q1",
		"'h",
		"09",
		"\"unterminated",
		"$",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got := lexKinds(input)
			if got[0] != TokenError {
				t.Errorf("first token = %v, want %v", got[0], TokenError)
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("action A\n  {"), "a.pss")
	var toks []Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4", len(toks))
	}
	brace := toks[2]
	if brace.Span.Start.Line != 2 || brace.Span.Start.Column != 3 {
		t.Errorf("'{' at %d:%d, want 2:3", brace.Span.Start.Line, brace.Span.Start.Column)
	}
	if brace.Span.Start.Offset != 11 {
		t.Errorf("'{' offset = %d, want 11", brace.Span.Start.Offset)
	}
	if brace.Span.Start.File != "a.pss" {
		t.Errorf("file = %q, want a.pss", brace.Span.Start.File)
	}
}

func TestLookupKeyword(t *testing.T) {
	if got := LookupKeyword("covergroup"); got != TokenCovergroup {
		t.Errorf("LookupKeyword(covergroup) = %v", got)
	}
	if got := LookupKeyword("widget"); got != TokenID {
		t.Errorf("LookupKeyword(widget) = %v, want ID", got)
	}
	if !TokenSetKw.IsKeyword() || TokenID.IsKeyword() {
		t.Error("IsKeyword misclassifies set or ID")
	}
}
