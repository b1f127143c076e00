package format

import (
	"fmt"
	"io"
	"sort"

	"github.com/dhamidi/pssparse/pss/parser"
)

// Document is one parse result: the tree and the errors reported for it.
type Document struct {
	File   string
	Root   *parser.Node
	Errors []*parser.SyntaxError
}

type Encoder interface {
	Encode(doc *Document) error
}

var encoders = map[string]func(io.Writer) Encoder{
	"json":    func(w io.Writer) Encoder { return NewJSONEncoder(w) },
	"sexpr":   func(w io.Writer) Encoder { return NewSExprEncoder(w) },
	"outline": func(w io.Writer) Encoder { return NewLineEncoder(w) },
	"tree":    func(w io.Writer) Encoder { return NewTreeEncoder(w) },
}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string, w io.Writer) (Encoder, error) {
	newEncoder, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %v)", name, Names())
	}
	return newEncoder(w), nil
}

// Names lists the registered output formats.
func Names() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TreeEncoder writes the indented tree form of Node.String followed by
// one line per error.
type TreeEncoder struct {
	w         io.Writer
	Positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(doc *Document) error {
	text := doc.Root.String()
	if e.Positions {
		text = doc.Root.StringWithPositions()
	}
	if _, err := io.WriteString(e.w, text); err != nil {
		return err
	}
	for _, err := range doc.Errors {
		if _, werr := fmt.Fprintf(e.w, "error: %s\n", err); werr != nil {
			return werr
		}
	}
	return nil
}
