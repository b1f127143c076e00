package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/pssparse/pss/parser"
)

// SExprEncoder writes the tree as one s-expression per document. Labeled
// children are prefixed with 'label:' and terminals appear as quoted
// literals. Errors follow as ';;' comment lines.
type SExprEncoder struct {
	w io.Writer
}

func NewSExprEncoder(w io.Writer) *SExprEncoder {
	return &SExprEncoder{w: w}
}

func (e *SExprEncoder) Encode(doc *Document) error {
	var sb strings.Builder
	sb.WriteString(SExpr(doc.Root))
	sb.WriteByte('\n')
	for _, err := range doc.Errors {
		fmt.Fprintf(&sb, ";; %s: %s\n", err.Code, err)
	}
	_, err := io.WriteString(e.w, sb.String())
	return err
}

// SExpr renders node as a single-line s-expression.
func SExpr(node *parser.Node) string {
	var sb strings.Builder
	writeSExpr(&sb, node)
	return sb.String()
}

func writeSExpr(sb *strings.Builder, n *parser.Node) {
	if n == nil {
		sb.WriteString("()")
		return
	}
	switch {
	case n.Kind == parser.KindTerminal && n.Token != nil:
		sb.WriteString(strconv.Quote(n.Token.Literal))
		return
	case n.Error != nil:
		fmt.Fprintf(sb, "(error %s)", strconv.Quote(n.Error.Code.String()))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(n.Kind.String())
	labels := make(map[int]string, len(n.Labels))
	for _, l := range n.Labels {
		labels[l.Index] = l.Name
	}
	for i, child := range n.Children {
		sb.WriteByte(' ')
		if name, ok := labels[i]; ok {
			sb.WriteString(name)
			sb.WriteByte(':')
		}
		writeSExpr(sb, child)
	}
	sb.WriteByte(')')
}
