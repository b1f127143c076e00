package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, src string, opts ...Option) (*Node, []*SyntaxError) {
	t.Helper()
	node, errs := Parse([]byte(src), opts...)
	require.NotNil(t, node)
	return node, errs
}

func parseRule(t *testing.T, kind NodeKind, src string, opts ...Option) (*Node, []*SyntaxError) {
	t.Helper()
	p, err := ParseRule(kind, strings.NewReader(src), opts...)
	require.NoError(t, err)
	node := p.Finish()
	require.NotNil(t, node)
	return node, p.Errors()
}

func requireNoErrors(t *testing.T, errs []*SyntaxError) {
	t.Helper()
	if len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		t.Fatalf("unexpected syntax errors:\n%s", strings.Join(msgs, "\n"))
	}
}

// only returns the single node of kind under root.
func only(t *testing.T, root *Node, kind NodeKind) *Node {
	t.Helper()
	found := Find(root, kind)
	require.Len(t, found, 1, "nodes of kind %s in\n%s", kind, root)
	return found[0]
}

func kinds(nodes []*Node) []NodeKind {
	result := make([]NodeKind, len(nodes))
	for i, n := range nodes {
		result[i] = n.Kind
	}
	return result
}

func TestParsePackageWithAction(t *testing.T) {
	root, errs := parseSource(t, "package p { action A { } }")
	requireNoErrors(t, errs)

	require.Equal(t, KindCompilationUnit, root.Kind)
	require.Equal(t, []NodeKind{KindPortableStimulusDescription}, kinds(root.Children))
	psd := root.Children[0]
	require.Equal(t, []NodeKind{KindPackageDeclaration}, kinds(psd.Children))

	pkg, ok := AsPackageDeclaration(psd.Children[0])
	require.True(t, ok)
	require.Equal(t, "p", pkg.Name())
	require.Len(t, pkg.Items(), 1)

	item := pkg.Items()[0]
	require.Equal(t, []NodeKind{KindActionDeclaration}, kinds(item.Children))
	action, ok := AsActionDeclaration(item)
	require.True(t, ok)
	require.Equal(t, "A", action.Name())
	require.False(t, action.Abstract)
	require.Empty(t, action.Items())
}

func TestParseComponentField(t *testing.T) {
	root, errs := parseSource(t, "component C { int x; }")
	requireNoErrors(t, errs)

	comp, ok := AsComponentDeclaration(root.Children[0])
	require.True(t, ok)
	require.Equal(t, "C", comp.Name())
	require.Len(t, comp.Items(), 1)

	field := comp.Items()[0].Children[0]
	require.Equal(t, KindComponentFieldDeclaration, field.Kind)
	decl, ok := AsDataDeclaration(field)
	require.True(t, ok)
	require.Equal(t, "int", decl.TypeName())
	insts := decl.Instances()
	require.Len(t, insts, 1)
	require.Equal(t, "x", insts[0].Name)
	require.Nil(t, insts[0].Init)
}

func TestParseConstraintExpression(t *testing.T) {
	root, errs := parseRule(t, KindConstraintDeclaration, "constraint x { a < b || c == d; }")
	requireNoErrors(t, errs)

	require.Equal(t, KindConstraintDeclaration, root.Kind)
	require.Equal(t, "x", root.Name())
	item := only(t, root, KindExpressionConstraintItem)

	or, ok := AsBinaryExpression(item.Label("expr"))
	require.True(t, ok)
	require.Equal(t, "||", or.Op())

	lt, ok := AsBinaryExpression(or.LHS())
	require.True(t, ok)
	require.Equal(t, "<", lt.Op())
	require.Equal(t, "a", lt.LHS().Text())
	require.Equal(t, "b", lt.RHS().Text())

	eq, ok := AsBinaryExpression(or.RHS())
	require.True(t, ok)
	require.Equal(t, "==", eq.Op())
	require.Equal(t, "c", eq.LHS().Text())
	require.Equal(t, "d", eq.RHS().Text())
}

func TestParseEnum(t *testing.T) {
	root, errs := parseSource(t, "enum E { A, B = 2, C };")
	requireNoErrors(t, errs)

	enum, ok := AsEnumDeclaration(only(t, root, KindEnumDeclaration))
	require.True(t, ok)
	require.Equal(t, "E", enum.Name())

	items := enum.Items()
	require.Len(t, items, 3)
	require.Equal(t, "A", items[0].Name)
	require.Nil(t, items[0].Value)
	require.Equal(t, "B", items[1].Name)
	require.Equal(t, "2", items[1].Value.Text())
	require.Equal(t, "C", items[2].Name)
	require.Nil(t, items[2].Value)

	// The trailing ';' is a separate empty package item.
	require.Len(t, Find(root, KindStmtTerminator), 1)
}

func TestParseMissingIdentifier(t *testing.T) {
	root, errs := parseSource(t, "action A { int ; }", WithFile("a.pss"))

	require.Len(t, errs, 1)
	err := errs[0]
	require.Equal(t, TokenMismatch, err.Code)
	require.Equal(t, TokenSemicolon, err.Found.Kind)
	require.Equal(t, "a.pss", err.Pos.File)
	require.Equal(t, 1, err.Pos.Line)
	require.Equal(t, 16, err.Pos.Column)
	require.Contains(t, err.Expected, TokenID)

	action, ok := AsActionDeclaration(only(t, root, KindActionDeclaration))
	require.True(t, ok)
	require.Equal(t, "A", action.Name())
	require.True(t, root.HasErrors())
	require.Len(t, CollectErrors(root), 1)
}

func TestParseStructKinds(t *testing.T) {
	root, errs := parseSource(t, `
buffer data_buf : base { rand bit[8] payload[4]; }
resource chan_r { }
struct s { string name = "n"; }`)
	requireNoErrors(t, errs)

	decls := Find(root, KindStructDeclaration)
	require.Len(t, decls, 3)

	buf, _ := AsStructDeclaration(decls[0])
	require.Equal(t, "buffer", buf.StructKind())
	require.Equal(t, "data_buf", buf.Name())
	require.Equal(t, "base", buf.Super())

	field, ok := AsDataDeclaration(buf.Items()[0])
	require.True(t, ok)
	require.Equal(t, "payload", field.Instances()[0].Name)
	require.Equal(t, "4", field.Instances()[0].Dim.Text())

	res, _ := AsStructDeclaration(decls[1])
	require.Equal(t, "resource", res.StructKind())

	s, _ := AsStructDeclaration(decls[2])
	init := mustDataDecl(t, s.Items()[0]).Instances()[0].Init
	require.Equal(t, `"n"`, init.Text())
}

func mustDataDecl(t *testing.T, n *Node) DataDeclaration {
	t.Helper()
	d, ok := AsDataDeclaration(n)
	require.True(t, ok, "no data declaration in\n%s", n)
	return d
}

func TestParseActionBody(t *testing.T) {
	src := `
component pss_top {
	pool [4] chan_r chans;
	bind chans *;
	action write_a : base_a {
		input data_buf in_b;
		output data_buf out_b;
		lock chan_r ch;
		rand int in [0..7] n;
		sub_a s1, s2;
		activity {
			s1;
			s2 with { n < 3; }
			parallel { do sub_a; s1; }
		}
		constraint n > 0;
		constraint c1 { if (n == 1) { s1.x == 2; } else n != 3; }
	}
}`
	root, errs := parseSource(t, src)
	requireNoErrors(t, errs)

	action, ok := AsActionDeclaration(only(t, root, KindActionDeclaration))
	require.True(t, ok)
	require.Equal(t, "base_a", action.Super())

	require.Len(t, Find(root, KindFlowRefFieldDeclaration), 2)
	require.Len(t, Find(root, KindResourceRefFieldDeclaration), 1)
	require.Len(t, Find(root, KindIntegerType), 1)

	// A type name followed by names is read as a field before a handle.
	require.Empty(t, Find(root, KindActionHandleDeclaration))
	var handles DataDeclaration
	for _, item := range action.Items() {
		if d, ok := AsDataDeclaration(item); ok && d.TypeName() == "sub_a" {
			handles = d
		}
	}
	require.NotNil(t, handles.Node)
	require.Len(t, handles.Instances(), 2)
	require.Len(t, Find(root, KindActivityParallelStmt), 1)
	require.Len(t, Find(root, KindIfConstraintItem), 1)
	require.Len(t, Find(root, KindComponentPoolDeclaration), 1)
	require.Len(t, Find(root, KindObjectBindStmt), 1)
}

func TestParseFunctionsAndExec(t *testing.T) {
	src := `
package utils {
	function int add(int a, int b = 1) {
		int sum = a + b;
		if (sum > 10) { return 10; }
		foreach (x : arr[i]) { sum += x; }
		return sum;
	}
	import solve function void log(string msg, string ... args);
	pure function bit[8] mask(bit[8] v);
	function void cfg(type T);
}
component c {
	exec init_down { x = 1; }
	exec body C = """int x;""";
}`
	root, errs := parseSource(t, src)
	requireNoErrors(t, errs)

	require.Len(t, Find(root, KindProceduralFunction), 1)
	require.NotEmpty(t, Find(root, KindImportFunction))
	require.Len(t, Find(root, KindTargetCodeExecBlock), 1)
	require.NotEmpty(t, Find(root, KindProceduralForeachStmt))
	require.NotEmpty(t, Find(root, KindProceduralReturnStmt))

	local := Find(root, KindProceduralDataDeclaration)
	require.Len(t, local, 1)
	require.Equal(t, "sum", mustDataDecl(t, local[0]).Instances()[0].Name)
}

func TestParseTemplates(t *testing.T) {
	src := `
struct pair<type T, int N = 4> { T vals[N]; }
component c {
	pair<int, 8> p;
	action a<bit[4] W = 3> { }
}`
	root, errs := parseSource(t, src)
	requireNoErrors(t, errs)
	require.NotEmpty(t, Find(root, KindTemplateParamDeclList))
	require.NotEmpty(t, Find(root, KindTemplateParamValueList))
}

func TestParseCovergroup(t *testing.T) {
	src := `
covergroup cg(int x, bit y) {
	option.per_instance = true;
	cp_x : coverpoint x iff (y) {
		bins low[] = [0..3];
		illegal_bins bad = [10, 20];
	}
	cross_xy : cross cp_x, y;
}`
	root, errs := parseSource(t, src)
	requireNoErrors(t, errs)

	cp, ok := AsCovergroupCoverpoint(only(t, root, KindCovergroupCoverpoint))
	require.True(t, ok)
	require.Equal(t, "cp_x", cp.Name())
	require.Equal(t, "x", cp.Target().Text())
	require.Equal(t, "y", cp.Iff().Text())
	require.Len(t, cp.Bins(), 2)
	require.Len(t, Find(root, KindCovergroupCross), 1)
}

func TestParseOverridesAndExtend(t *testing.T) {
	src := `
extend enum color_e { BLUE = 4 }
extend action a { constraint default x == 1; }
component c {
	override {
		type base_a with derived_a;
		instance top.sub with derived_a;
	}
}`
	root, errs := parseSource(t, src)
	requireNoErrors(t, errs)

	exts := Find(root, KindExtendStmt)
	require.Len(t, exts, 2)
	ext, _ := AsExtendStmt(exts[0])
	require.Equal(t, "enum", ext.ExtendKind())
	require.Equal(t, "color_e", ext.Target())
	require.Len(t, ext.Items(), 1)

	to, ok := AsTypeOverride(only(t, root, KindTypeOverride))
	require.True(t, ok)
	require.Equal(t, "base_a", to.Target())
	require.Equal(t, "derived_a", to.Override())

	io, ok := AsInstanceOverride(only(t, root, KindInstanceOverride))
	require.True(t, ok)
	require.Equal(t, "top.sub", io.Target())

	def, ok := AsDefaultConstraint(only(t, root, KindDefaultConstraintItem))
	require.True(t, ok)
	require.False(t, def.Disable())
	require.Equal(t, "x", def.Target())
	require.Equal(t, "1", def.Value().Text())
}

func TestParseRuleRejectsUnknownEntry(t *testing.T) {
	_, err := ParseRule(KindBinsKeyword, strings.NewReader("bins"))
	require.Error(t, err)

	for _, kind := range EntryKinds() {
		_, err := ParseRule(kind, strings.NewReader(""))
		require.NoError(t, err, kind.String())
	}
}

func TestParseRuleDataType(t *testing.T) {
	root, errs := parseRule(t, KindDataType, "list<bit[4]>")
	requireNoErrors(t, errs)
	require.Equal(t, KindDataType, root.Kind)
	require.Len(t, Find(root, KindCollectionType), 1)
}

func TestTrailingInput(t *testing.T) {
	p := ParseExpression(strings.NewReader("a b"))
	root := p.Finish()
	require.NotNil(t, root)
	errs := p.Errors()
	require.Len(t, errs, 1)
	require.Equal(t, []TokenKind{TokenEOF}, errs[0].Expected)
	require.Equal(t, "b", errs[0].Found.Literal)
}

func TestFinishIsIdempotent(t *testing.T) {
	p := ParseCompilationUnit(strings.NewReader("enum e { a }"))
	first := p.Finish()
	require.Same(t, first, p.Finish())

	tokens := p.Tokens()
	require.Equal(t, TokenEOF, tokens[len(tokens)-1].Kind)

	p.Reset(strings.NewReader("enum f { b }"))
	second := p.Finish()
	require.NotSame(t, first, second)
	require.Equal(t, "f", only(t, second, KindEnumDeclaration).Name())
}

func TestWithComments(t *testing.T) {
	src := "// header\naction a { /* body */ }"
	p := ParseCompilationUnit(strings.NewReader(src), WithComments())
	p.Finish()
	require.Len(t, p.Comments(), 2)

	p = ParseCompilationUnit(strings.NewReader(src))
	p.Finish()
	require.Empty(t, p.Comments())
}

func TestRuleHookCancels(t *testing.T) {
	var entered []NodeKind
	hook := func(kind NodeKind, pos Position) error {
		entered = append(entered, kind)
		if kind == KindActionBodyItem {
			return errors.New("stop")
		}
		return nil
	}
	root, errs := parseSource(t, "action a { int x; } action b { }", WithRuleHook(hook))

	require.Len(t, errs, 1)
	require.Equal(t, Cancelled, errs[0].Code)
	require.True(t, errors.Is(errs[0], ErrCancelled))
	require.EqualError(t, errors.Unwrap(errs[0]), "stop")
	require.Contains(t, entered, KindActionDeclaration)
	require.Len(t, Find(root, KindActionDeclaration), 1)
}

func TestWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := ParseCompilationUnit(strings.NewReader("package p { }"), WithContext(ctx))
	root := p.Finish()
	require.NotNil(t, root)
	require.Len(t, p.Errors(), 1)
	require.ErrorIs(t, p.Err(), ErrCancelled)
	require.ErrorIs(t, p.Errors()[0], context.Canceled)
}

func TestWithoutMemoGivesSameTree(t *testing.T) {
	src := `component c { a::b<int>::t x; pair<int, 8> p; action a { activity { h: do t; } } }`
	withMemo, errs := parseSource(t, src)
	requireNoErrors(t, errs)
	withoutMemo, errs := parseSource(t, src, WithoutMemo())
	requireNoErrors(t, errs)
	require.Equal(t, withMemo.String(), withoutMemo.String())
}

func TestSpansCoverChildren(t *testing.T) {
	src := "package p {\n  action A { int x; }\n}\n"
	root, errs := parseSource(t, src)
	requireNoErrors(t, errs)

	Inspect(root, func(n *Node) bool {
		for _, c := range n.Children {
			require.LessOrEqual(t, n.Span.Start.Offset, c.Span.Start.Offset, n.Kind.String())
			require.GreaterOrEqual(t, n.Span.End.Offset, c.Span.End.Offset, n.Kind.String())
		}
		return true
	})
	action := only(t, root, KindActionDeclaration)
	require.Equal(t, 2, action.Span.Start.Line)
	require.Equal(t, 3, action.Span.Start.Column)
	require.Equal(t, "action A { int x ; }", action.Text())
}

func TestEveryTokenIsKept(t *testing.T) {
	src := "component c { int x = 3 +; bad bad bad; action a { } }"
	p := ParseCompilationUnit(strings.NewReader(src))
	root := p.Finish()

	var got []string
	for _, tok := range root.Terminals() {
		got = append(got, tok.Literal)
	}
	var want []string
	for _, tok := range p.Tokens() {
		if tok.Kind != TokenEOF {
			want = append(want, tok.Literal)
		}
	}
	require.Equal(t, want, got)
}
