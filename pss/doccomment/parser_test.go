package doccomment

import (
	"strings"
	"testing"

	"github.com/dhamidi/pssparse/pss/parser"
)

func TestParseSimpleText(t *testing.T) {
	c := Parse("/** Reads one word. */")

	if len(c.Body) != 1 {
		t.Fatalf("expected 1 body node, got %d", len(c.Body))
	}
	text, ok := c.Body[0].(Text)
	if !ok {
		t.Fatalf("expected Text node, got %T", c.Body[0])
	}
	if text.Content != "Reads one word. " {
		t.Errorf("expected 'Reads one word. ', got %q", text.Content)
	}
	if len(c.Tags) != 0 {
		t.Errorf("expected no tags, got %d", len(c.Tags))
	}
}

func TestParseInlineTags(t *testing.T) {
	c := Parse("/** Use {@code constraint { x < 4; }} or see {@link pkg::dma_c the DMA component}. */")

	if len(c.Body) != 5 {
		t.Fatalf("expected 5 body nodes, got %d: %+v", len(c.Body), c.Body)
	}
	code, ok := c.Body[1].(Code)
	if !ok || code.Content != "constraint { x < 4; }" {
		t.Errorf("unexpected code node %+v", c.Body[1])
	}
	link, ok := c.Body[3].(Link)
	if !ok || link.Ref != "pkg::dma_c" || link.Label != "the DMA component" {
		t.Errorf("unexpected link node %+v", c.Body[3])
	}
}

func TestParseBlockTags(t *testing.T) {
	c := Parse(`/**
 * Moves data between two buffers.
 *
 * @param size number of bytes
 *   to move
 * @deprecated use dma_xfer
 * @since 2.1
 */`)

	if got := PlainText(c); got != "Moves data between two buffers." {
		t.Errorf("PlainText = %q", got)
	}
	if len(c.Tags) != 3 {
		t.Fatalf("expected 3 tags, got %d: %+v", len(c.Tags), c.Tags)
	}
	if c.Tags[0].Kind != "param" || c.Tags[0].Name != "size" {
		t.Errorf("unexpected first tag %+v", c.Tags[0])
	}
	if got := normalize(plainText(c.Param("size"))); got != "number of bytes to move" {
		t.Errorf("Param(size) = %q", got)
	}
	if c.Param("missing") != nil {
		t.Error("Param(missing) should be nil")
	}
	if !c.Deprecated() {
		t.Error("expected Deprecated")
	}
}

func TestMarkdown(t *testing.T) {
	c := Parse("/** Sends {@code n} words.\n * @param n word count\n * @deprecated\n */")
	want := "Sends `n` words.\n\n*@param* `n` word count\n\n**Deprecated.**"
	if got := Markdown(c); got != want {
		t.Errorf("Markdown =\n%s\nwant\n%s", got, want)
	}
	if Markdown(nil) != "" || PlainText(nil) != "" {
		t.Error("nil comment should render empty")
	}
}

func TestIsDoc(t *testing.T) {
	tests := map[string]bool{
		"/** doc */":  true,
		"/* plain */": false,
		"/**/":        false,
		"// line":     false,
	}
	for text, want := range tests {
		if got := IsDoc(text); got != want {
			t.Errorf("IsDoc(%q) = %v, want %v", text, got, want)
		}
	}
}

func TestIndexLookup(t *testing.T) {
	src := `/** The top component. */
component top {
	/* not a doc comment */
	action a { }
	/** Second action. */
	// separated by a line comment
	action b { }
	/** Third action. */
	action c { }
}`
	p := parser.ParseCompilationUnit(strings.NewReader(src), parser.WithComments())
	root := p.Finish()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	idx := NewIndex(p.Tokens(), p.Comments())

	docs := map[string]string{}
	for _, kind := range []parser.NodeKind{parser.KindComponentDeclaration, parser.KindActionDeclaration} {
		for _, n := range parser.Find(root, kind) {
			if c, ok := idx.Lookup(n); ok {
				docs[n.Name()] = PlainText(c)
			}
		}
	}

	want := map[string]string{
		"top": "The top component.",
		"c":   "Third action.",
	}
	if len(docs) != len(want) {
		t.Fatalf("docs = %v, want %v", docs, want)
	}
	for name, text := range want {
		if docs[name] != text {
			t.Errorf("doc of %s = %q, want %q", name, docs[name], text)
		}
	}

	if _, ok := idx.Lookup(parser.Find(root, parser.KindIdentifier)[0]); ok {
		t.Error("identifier should not pick up the component's comment")
	}
}
