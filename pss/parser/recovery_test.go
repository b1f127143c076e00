package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		codes  []ErrorCode
		found  []string
		check  NodeKind
		expect int
	}{
		{
			name:   "missing identifier",
			input:  "action A { int ; }",
			codes:  []ErrorCode{TokenMismatch},
			found:  []string{";"},
			check:  KindActionDeclaration,
			expect: 1,
		},
		{
			name:   "one error per mistake",
			input:  "action A { int ; int ; }",
			codes:  []ErrorCode{TokenMismatch, TokenMismatch},
			found:  []string{";", ";"},
			check:  KindAttrField,
			expect: 2,
		},
		{
			name:   "resume after missing name",
			input:  "component c { int = 5; bool ok; }",
			codes:  []ErrorCode{TokenMismatch},
			found:  []string{"="},
			check:  KindComponentFieldDeclaration,
			expect: 2,
		},
		{
			name:   "garbage between declarations",
			input:  "action a { } 42 action b { }",
			codes:  []ErrorCode{PredictionFailure},
			found:  []string{"42"},
			check:  KindActionDeclaration,
			expect: 2,
		},
		{
			name:   "invalid character",
			input:  "action a { int x$; }",
			codes:  []ErrorCode{LexicalError},
			found:  []string{"$"},
			check:  KindDataDeclaration,
			expect: 1,
		},
		{
			name:   "no alternative matches",
			input:  "action a { foo bar baz; }",
			codes:  []ErrorCode{TokenMismatch},
			found:  []string{"baz"},
			check:  KindActionDeclaration,
			expect: 1,
		},
		{
			name:   "stray token before semicolon",
			input:  "action a { foo bar baz; int x; }",
			codes:  []ErrorCode{TokenMismatch},
			found:  []string{"baz"},
			check:  KindAttrField,
			expect: 2,
		},
		{
			name:   "unclosed body",
			input:  "package p { action a {",
			codes:  []ErrorCode{UnexpectedEOF},
			found:  []string{""},
			check:  KindActionDeclaration,
			expect: 1,
		},
		{
			name:   "bad activity statement",
			input:  "action a { activity { do; do b; } }",
			codes:  []ErrorCode{TokenMismatch},
			found:  []string{";"},
			check:  KindActivityActionTraversalStmt,
			expect: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, errs := parseSource(t, tt.input)
			require.Len(t, errs, len(tt.codes), "errors: %v", errs)
			for i, err := range errs {
				require.Equal(t, tt.codes[i], err.Code, err.Error())
				require.Equal(t, tt.found[i], err.Found.Literal)
				require.NotEmpty(t, err.Message)
			}
			require.Len(t, Find(root, tt.check), tt.expect)
		})
	}
}

func TestMaxErrors(t *testing.T) {
	src := "component c { int ; int ; int ; int ; int ; }"
	_, errs := parseSource(t, src, WithMaxErrors(2))
	require.Len(t, errs, 3)
	require.Equal(t, TooManyErrors, errs[2].Code)
	require.True(t, errs[2].Code.Fatal())

	_, errs = parseSource(t, src)
	require.Len(t, errs, 5)
}

func TestErrorPositionsAreOrdered(t *testing.T) {
	src := `
component c {
	int ;
	action a { input ; }
	bool = ;
}`
	_, errs := parseSource(t, src)
	require.NotEmpty(t, errs)
	for i := 1; i < len(errs); i++ {
		require.Less(t, errs[i-1].Pos.Offset, errs[i].Pos.Offset)
	}
}

func TestSpeculationLeavesNoErrors(t *testing.T) {
	// Each of these needs a failed speculative alternative before the
	// right one is found.
	inputs := []string{
		"component c { pair<int, 8> p; }",
		"component c { a::b::t x; }",
		"action a { activity { h: do t; s1; } }",
		"action a { exec body { x = y; f(x); my_t z = 1; } }",
		"struct s { cg inst_cg; }",
	}
	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			_, errs := parseSource(t, src)
			requireNoErrors(t, errs)
		})
	}
}

func TestSyntaxErrorFormatting(t *testing.T) {
	_, errs := parseSource(t, "action A { int ; }", WithFile("x.pss"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "x.pss:1:16")
	require.Contains(t, errs[0].Error(), "expected")

	list := ErrorList(errs)
	require.Error(t, list.Err())
	require.Nil(t, ErrorList(nil).Err())
}

func TestStrayTokenIsWrapped(t *testing.T) {
	root, errs := parseSource(t, "action a { foo bar baz; }")
	require.Len(t, errs, 1)
	require.Equal(t, "expected ';', found \"baz\"", errs[0].Message)

	bad := Find(root, KindError)
	require.Len(t, bad, 1)
	require.Len(t, bad[0].Children, 1)
	require.Equal(t, "baz", bad[0].Children[0].Token.Literal)
	require.Len(t, Find(root, KindDataDeclaration), 1)
}

func TestOrderedChoicePrefersEarlierAlternative(t *testing.T) {
	root, errs := parseSource(t, "struct s { cg inst_cg; }")
	requireNoErrors(t, errs)
	require.Len(t, Find(root, KindAttrField), 1)
	require.Empty(t, Find(root, KindCovergroupInstantiation))

	root, errs = parseSource(t, "struct s { cg c(x); }")
	requireNoErrors(t, errs)
	require.Len(t, Find(root, KindCovergroupInstantiation), 1)
	require.Empty(t, Find(root, KindAttrField))
}

func TestMissingOperandMessage(t *testing.T) {
	_, errs := parseRule(t, KindConstraintDeclaration, "constraint c { foo +++ ; }")
	require.Len(t, errs, 1)
	require.Equal(t, ";", errs[0].Found.Literal)
	require.Contains(t, errs[0].Message, "expected an expression")
}

func TestDeeplyNestedTemplates(t *testing.T) {
	const depth = 60
	src := "component c { " + strings.Repeat("t<", depth) + "8" + strings.Repeat(">", depth) + " x; }"

	start := time.Now()
	root, errs := parseSource(t, src)
	requireNoErrors(t, errs)
	require.Len(t, Find(root, KindTemplateParamValueList), depth)
	require.Less(t, time.Since(start), 5*time.Second)
}
