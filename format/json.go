package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/pssparse/pss/parser"
)

// JSONEncoder writes a document as a JSON object holding the file name,
// the tree and the error list.
type JSONEncoder struct {
	w       io.Writer
	Compact bool
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

type jsonDocument struct {
	File   string                `json:"file,omitempty"`
	Tree   *parser.Node          `json:"tree"`
	Errors []*parser.SyntaxError `json:"errors"`
}

func (e *JSONEncoder) Encode(doc *Document) error {
	text, err := e.MarshalDocument(doc)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalDocument(doc *Document) ([]byte, error) {
	data := jsonDocument{
		File:   doc.File,
		Tree:   doc.Root,
		Errors: doc.Errors,
	}
	if data.Errors == nil {
		data.Errors = []*parser.SyntaxError{}
	}
	if e.Compact {
		return json.Marshal(data)
	}
	return json.MarshalIndent(data, "", "  ")
}
