// Package parser provides an error-tolerant parser for the Portable Stimulus
// Standard (PSS) language.
//
// # Overview
//
// The parser consumes a token stream and produces a concrete syntax tree
// (CST). Every consumed token is kept as a terminal leaf, so the text of a
// node can always be recovered from its subtree. Malformed input never stops
// the parse: errors are recorded as [SyntaxError] values and as error nodes
// in the tree.
//
// # Architecture
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Lexer     │────▶│   Parser    │────▶│    Node     │
//	│  (tokens)   │     │  (rules)    │     │   (CST)     │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │
//	                           ▼
//	                    ┌─────────────┐
//	                    │   Grammar   │
//	                    │ FIRST/FOLLOW│
//	                    └─────────────┘
//
// The grammar lives in pss.ebnf and is loaded once by [Rules]. FIRST and
// FOLLOW sets computed from it drive prediction and error recovery. Each
// rule has a hand-written function that uses the grammar for its decisions:
//
//   - Single-token dispatch when the next token picks one alternative.
//   - Fixed lookahead of two or three tokens for common ambiguities.
//   - Speculative parsing with backtracking when neither is enough. The
//     first alternative that parses wins, and results are memoized by
//     rule and position so a failed attempt is never repeated.
//
// Expressions are parsed by precedence climbing. All binary operators are
// left-associative; '>>' is recognized from two adjacent '>' tokens.
//
// # Usage
//
//	p := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithFile("a.pss"))
//	root := p.Finish()
//	for _, err := range p.Errors() {
//	    fmt.Println(err)
//	}
//
// [ParseRule] parses a single rule such as an expression or a data type.
// [Parse] is a shorthand that returns the tree and the errors together.
//
// # Error Recovery
//
// When no alternative matches, the parser records one error and skips
// tokens until it finds a member of the current rule's FOLLOW set or a
// statement boundary (';' or '}'). Errors are suppressed until a token is
// consumed again, so one mistake produces one diagnostic. Recovery is
// disabled while speculating: a failed speculative attempt only rewinds.
//
// # Cancellation
//
// A [RuleHook] runs on every rule entry. Returning an error from it aborts
// the parse with a [Cancelled] error. [WithContext] installs a hook that
// watches a context.
//
// # Traversal
//
// [Walk], [Inspect] and [WalkListener] visit the tree. The As functions in
// views.go give named access to the children of common rules, for example
// [AsBinaryExpression] or [AsEnumDeclaration].
package parser
