package format

import (
	"fmt"
	"io"
	"strings"
)

// LineEncoder writes one tab-separated line per declaration:
//
//	kind	qualified-name	detail	line:column
//
// An empty detail is written as "-". Errors follow as
// 'error	code	line:column	message' lines.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(doc *Document) error {
	text, err := e.MarshalDocument(doc)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalDocument(doc *Document) ([]byte, error) {
	var sb strings.Builder
	writeSymbols(&sb, nil, Outline(doc.Root))
	for _, err := range doc.Errors {
		fmt.Fprintf(&sb, "error\t%s\t%d:%d\t%s\n", err.Code, err.Pos.Line, err.Pos.Column, err.Message)
	}
	return []byte(sb.String()), nil
}

func writeSymbols(sb *strings.Builder, scope []string, symbols []*Symbol) {
	for _, sym := range symbols {
		name := sym.Name
		if len(scope) > 0 {
			name = strings.Join(scope, "::") + "::" + sym.Name
		}
		detail := sym.Detail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(sb, "%s\t%s\t%s\t%d:%d\n", sym.Kind, name, detail, sym.NameSpan.Start.Line, sym.NameSpan.Start.Column)
		writeSymbols(sb, append(scope, sym.Name), sym.Children)
	}
}
