package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a SyntaxError.
type ErrorCode int

const (
	// PredictionFailure means no alternative of a rule matched the lookahead.
	PredictionFailure ErrorCode = iota + 1
	// TokenMismatch means a specific token was required and another was found.
	TokenMismatch
	// UnexpectedEOF means input ended inside a construct. It stops the parse.
	UnexpectedEOF
	// LexicalError means the lexer produced an error token.
	LexicalError
	// TooManyErrors means the error limit was reached. It stops the parse.
	TooManyErrors
	// Cancelled means the rule hook asked to stop.
	Cancelled
)

var errorCodeNames = map[ErrorCode]string{
	PredictionFailure: "prediction failure",
	TokenMismatch:     "token mismatch",
	UnexpectedEOF:     "unexpected end of input",
	LexicalError:      "lexical error",
	TooManyErrors:     "too many errors",
	Cancelled:         "cancelled",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Fatal reports whether an error of this code ends the parse.
func (c ErrorCode) Fatal() bool {
	return c == UnexpectedEOF || c == TooManyErrors || c == Cancelled
}

// ErrCancelled is matched by errors.Is for every Cancelled SyntaxError.
var ErrCancelled = errors.New("parse cancelled")

type SyntaxError struct {
	Code     ErrorCode
	Pos      Position
	Rule     NodeKind
	Expected []TokenKind
	Found    Token
	Message  string

	cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.cause
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrCancelled && e.Code == Cancelled
}

// ErrorList is the ordered set of errors reported by one parse.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var sb strings.Builder
	sb.WriteString(l[0].Error())
	fmt.Fprintf(&sb, " (and %d more errors)", len(l)-1)
	return sb.String()
}

func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns l as an error, or nil when l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func describeExpected(expected TokenSet) string {
	kinds := expected.Kinds()
	switch {
	case len(kinds) == 0:
		return "nothing"
	case len(kinds) == 1:
		return quoteKind(kinds[0])
	case len(kinds) <= 6:
		parts := make([]string, len(kinds))
		for i, k := range kinds {
			parts[i] = quoteKind(k)
		}
		return "one of " + strings.Join(parts, ", ")
	}
	return ""
}

func quoteKind(k TokenKind) string {
	switch {
	case k == TokenEOF:
		return "end of input"
	case k >= TokenID && k <= TokenTripleString:
		return k.String()
	}
	return "'" + k.String() + "'"
}
