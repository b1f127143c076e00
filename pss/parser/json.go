package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Label    string      `json:"label,omitempty"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    string      `json:"token,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Found    string   `json:"found,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON(""))
}

func (n *Node) toJSON(label string) *jsonNode {
	jn := &jsonNode{
		Kind:  n.Kind.String(),
		Label: label,
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Offset: n.Span.Start.Offset, Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Offset: n.Span.End.Offset, Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Token != nil {
		jn.Token = n.Token.Literal
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Code:    n.Error.Code.String(),
			Message: n.Error.Message,
			Found:   n.Error.Found.Literal,
		}
		for _, exp := range n.Error.Expected {
			jn.Error.Expected = append(jn.Error.Expected, exp.String())
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON(n.labelOf(i))
		}
	}

	return jn
}

// MarshalJSON encodes the error as an object with its position.
func (e *SyntaxError) MarshalJSON() ([]byte, error) {
	expected := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		expected[i] = k.String()
	}
	return json.Marshal(struct {
		File     string   `json:"file,omitempty"`
		Line     int      `json:"line"`
		Column   int      `json:"column"`
		Code     string   `json:"code"`
		Rule     string   `json:"rule"`
		Message  string   `json:"message"`
		Expected []string `json:"expected,omitempty"`
	}{
		File:     e.Pos.File,
		Line:     e.Pos.Line,
		Column:   e.Pos.Column,
		Code:     e.Code.String(),
		Rule:     e.Rule.String(),
		Message:  e.Message,
		Expected: expected,
	})
}
