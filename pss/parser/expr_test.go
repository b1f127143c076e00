package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// shape renders an expression tree with explicit grouping.
func shape(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindBinaryExpression:
		b, _ := AsBinaryExpression(n)
		return "(" + b.Op() + " " + shape(b.LHS()) + " " + shape(b.RHS()) + ")"
	case KindUnaryExpression:
		u, _ := AsUnaryExpression(n)
		return "(" + u.Op() + shape(u.Operand()) + ")"
	case KindConditionalExpression:
		c, _ := AsConditionalExpression(n)
		return "(? " + shape(c.Cond()) + " " + shape(c.Then()) + " " + shape(c.Else()) + ")"
	case KindInExpression:
		in, _ := AsInExpression(n)
		if r := in.Ranges(); r != nil {
			return "(in " + shape(in.LHS()) + " [" + strings.ReplaceAll(r.Text(), " ", "") + "])"
		}
		return "(in " + shape(in.LHS()) + " " + shape(in.Collection()) + ")"
	case KindParenExpr:
		return shape(n.Label("expr"))
	case KindCastExpression:
		return "(cast " + strings.ReplaceAll(n.Label("type").Text(), " ", "") + " " + shape(n.Label("operand")) + ")"
	}
	return strings.ReplaceAll(n.Text(), " ", "")
}

func parseExpr(t *testing.T, src string) *Node {
	t.Helper()
	p := ParseExpression(strings.NewReader(src))
	node := p.Finish()
	requireNoErrors(t, p.Errors())
	return node
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a", "a"},
		{"a + b * c", "(+ a (* b c))"},
		{"a * b + c", "(+ (* a b) c)"},
		{"a - b - c", "(- (- a b) c)"},
		{"a ** b ** c", "(** (** a b) c)"},
		{"a / b % c", "(% (/ a b) c)"},
		{"a < b || c == d", "(|| (< a b) (== c d))"},
		{"a && b || c", "(|| (&& a b) c)"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a | b ^ c & d", "(| a (^ b (& c d)))"},
		{"a == b != c", "(!= (== a b) c)"},
		{"a < b == c > d", "(== (< a b) (> c d))"},
		{"a << 2 + 1", "(<< a (+ 2 1))"},
		{"a >> 2", "(>> a 2)"},
		{"a > b", "(> a b)"},
		{"a >= b", "(>= a b)"},
		{"-a * b", "(* (-a) b)"},
		{"!a && ~b", "(&& (!a) (~b))"},
		{"- - a", "(-(-a))"},
		{"(a + b) * c", "(* (+ a b) c)"},
		{"c ? a : b", "(? c a b)"},
		{"c ? a : d ? e : f", "(? c a (? d e f))"},
		{"a || b ? 1 : 2", "(? (|| a b) 1 2)"},
		{"a in [1..3]", "(in a [1..3])"},
		{"a in [1, 4..6]", "(in a [1,4..6])"},
		{"a + 1 in [1, 2]", "(in (+ a 1) [1,2])"},
		{"a == b in c", "(== a (in b c))"},
		{"a in c && b", "(&& (in a c) b)"},
		{"(bit[4]) x + 1", "(+ (cast bit[4] x) 1)"},
		{"(my_t) x", "(cast my_t x)"},
		{"(my_t) - x", "(- my_t x)"},
		{"4'hF + x", "(+ 4'hF x)"},
		{"obj.field[3]", "obj.field[3]"},
		{"arr[7:0] == 0", "(== arr[7:0] 0)"},
		{"f(a, b + 1).x", "f(a,b+1).x"},
		{"pkg::e::A", "pkg::e::A"},
		{"super.x", "super.x"},
		{"{1, 2, 3}", "{1,2,3}"},
		{`{"a": 1}`, `{"a":1}`},
		{"{.x = 1, .y = 2}", "{.x=1,.y=2}"},
		{"{}", "{}"},
		{"true && null == x", "(&& true (== null x))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.want, shape(parseExpr(t, tt.input)))
		})
	}
}

func TestShiftRequiresAdjacentTokens(t *testing.T) {
	node := parseExpr(t, "a >> b")
	b, ok := AsBinaryExpression(node)
	require.True(t, ok)
	require.Equal(t, ">>", b.Op())

	// Two '>' tokens count as one operator only when adjacent.
	node = parseExpr(t, "a > -b")
	b, ok = AsBinaryExpression(node)
	require.True(t, ok)
	require.Equal(t, ">", b.Op())
}

func TestNumberValue(t *testing.T) {
	tests := []struct {
		input  string
		width  int
		value  int64
		signed bool
	}{
		{"42", 0, 42, false},
		{"1_000", 0, 1000, false},
		{"0x1F", 0, 31, false},
		{"017", 0, 15, false},
		{"0", 0, 0, false},
		{"8'hFF", 8, 255, false},
		{"'b1010", 0, 10, false},
		{"4'sd7", 4, 7, true},
		{"'o17", 0, 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			num, ok := AsNumber(parseExpr(t, tt.input))
			require.True(t, ok)
			require.Equal(t, tt.width, num.Width())
			require.Equal(t, tt.signed, num.Signed())
			v, err := num.Value()
			require.NoError(t, err)
			require.Equal(t, tt.value, v.Int64())
		})
	}
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		input string
		code  ErrorCode
	}{
		{"a +", UnexpectedEOF},
		{"(a", UnexpectedEOF},
		{"a ? b", UnexpectedEOF},
		{"a + )", PredictionFailure},
		{"a b", TokenMismatch},
		{"a $ b", LexicalError},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p := ParseExpression(strings.NewReader(tt.input))
			require.NotNil(t, p.Finish())
			require.NotEmpty(t, p.Errors())
			require.Equal(t, tt.code, p.Errors()[0].Code)
		})
	}
}
