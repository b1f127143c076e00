package doccomment

import (
	"sort"

	"github.com/dhamidi/pssparse/pss/parser"
)

// Index finds the documentation comment in front of a node. It needs the
// significant tokens and the comments of the same parse.
type Index struct {
	tokens   []parser.Token
	comments []parser.Token
}

func NewIndex(tokens, comments []parser.Token) *Index {
	return &Index{tokens: tokens, comments: comments}
}

// Lookup returns the parsed doc comment directly in front of n: the last
// /** comment before n's first token with no other token in between.
func (x *Index) Lookup(n *parser.Node) (*Comment, bool) {
	if x == nil || n == nil || n.Kind == parser.KindTerminal {
		return nil, false
	}
	start := n.Span.Start.Offset
	// Last comment ending at or before start.
	i := sort.Search(len(x.comments), func(i int) bool {
		return x.comments[i].Span.End.Offset > start
	}) - 1
	if i < 0 {
		return nil, false
	}
	c := x.comments[i]
	if !IsDoc(c.Literal) {
		return nil, false
	}
	// The first significant token after the comment must open n.
	j := sort.Search(len(x.tokens), func(j int) bool {
		return x.tokens[j].Span.Start.Offset >= c.Span.End.Offset
	})
	if j == len(x.tokens) || x.tokens[j].Span.Start.Offset != start {
		return nil, false
	}
	return Parse(c.Literal), true
}
