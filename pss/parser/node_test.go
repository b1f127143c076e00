package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNodeKindString(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want string
	}{
		{KindError, "error"},
		{KindTerminal, "terminal"},
		{KindCompilationUnit, "compilation_unit"},
		{KindPackageDeclaration, "package_declaration"},
		{KindActionDeclaration, "action_declaration"},
		{KindEnumItem, "enum_item"},
		{KindBinaryExpression, "binary_expression"},
		{NodeKind(9999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestLookupNodeKind(t *testing.T) {
	kind, ok := LookupNodeKind("covergroup_coverpoint")
	if !ok || kind != KindCovergroupCoverpoint {
		t.Errorf("LookupNodeKind(covergroup_coverpoint) = %v, %v", kind, ok)
	}
	if _, ok := LookupNodeKind("no_such_rule"); ok {
		t.Error("LookupNodeKind accepted an unknown name")
	}
}

func TestNodeLabels(t *testing.T) {
	parent := &Node{Kind: KindEnumDeclaration}
	name := &Node{Kind: KindIdentifier}
	a := &Node{Kind: KindEnumItem}
	b := &Node{Kind: KindEnumItem}

	parent.AddLabeled("name", name)
	parent.AddChild(&Node{Kind: KindTerminal, Token: &Token{Kind: TokenLBrace, Literal: "{"}})
	parent.AddLabeled("item", a)
	parent.AddLabeled("item", b)
	parent.AddLabeled("item", nil)
	parent.AddChild(nil)

	if len(parent.Children) != 4 {
		t.Fatalf("got %d children, want 4", len(parent.Children))
	}
	if parent.Label("name") != name {
		t.Error("Label(name) mismatch")
	}
	if parent.Label("missing") != nil {
		t.Error("Label(missing) should be nil")
	}
	items := parent.LabelAll("item")
	if len(items) != 2 || items[0] != a || items[1] != b {
		t.Errorf("LabelAll(item) = %v", items)
	}
	if got := parent.FirstChildOfKind(KindEnumItem); got != a {
		t.Error("FirstChildOfKind mismatch")
	}
	if got := parent.ChildrenOfKind(KindEnumItem); len(got) != 2 {
		t.Errorf("ChildrenOfKind = %d nodes, want 2", len(got))
	}
	if tok := parent.FirstTerminal(TokenLBrace); tok == nil || tok.Literal != "{" {
		t.Error("FirstTerminal({) not found")
	}

	var nilNode *Node
	if nilNode.Label("x") != nil || nilNode.LabelAll("x") != nil {
		t.Error("labels of a nil node should be nil")
	}
}

func TestNodeTextAndClone(t *testing.T) {
	root, errs := Parse([]byte("enum color { red, green = 2 }"))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	enum := Find(root, KindEnumDeclaration)[0]
	if got := enum.Text(); got != "enum color { red , green = 2 }" {
		t.Errorf("Text() = %q", got)
	}
	if got := enum.Name(); got != "color" {
		t.Errorf("Name() = %q", got)
	}

	clone := enum.Clone()
	if clone.String() != enum.String() {
		t.Error("clone renders differently")
	}
	clone.Children[0] = &Node{Kind: KindError}
	clone.Labels[0].Name = "changed"
	if enum.Children[0].Kind == KindError || enum.Label("name") == nil {
		t.Error("mutating the clone changed the original")
	}
}

func TestNodeString(t *testing.T) {
	root, _ := Parse([]byte("enum e { a }"))
	got := root.String()
	for _, want := range []string{
		"compilation_unit\n",
		"      enum_declaration\n",
		"        terminal enum\n",
		"        name=identifier\n",
		"        item=enum_item\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("String() lacks %q:\n%s", want, got)
		}
	}
	if !strings.Contains(root.StringWithPositions(), "[1:1-1:13]") {
		t.Errorf("StringWithPositions lacks root span:\n%s", root.StringWithPositions())
	}
}

func TestNodeJSON(t *testing.T) {
	root, errs := Parse([]byte("action A { int ; }"))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Kind     string            `json:"kind"`
		Span     map[string]any    `json:"span"`
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Kind != "compilation_unit" {
		t.Errorf("kind = %q", decoded.Kind)
	}
	if decoded.Span == nil {
		t.Error("span missing")
	}
	text := string(data)
	for _, want := range []string{`"label":"name"`, `"token":"A"`, `"code":"token mismatch"`, `"found":";"`} {
		if !strings.Contains(text, want) {
			t.Errorf("JSON lacks %s", want)
		}
	}

	errJSON, err := json.Marshal(errs[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(errJSON), `"rule":"identifier"`) {
		t.Errorf("error JSON = %s", errJSON)
	}
}
