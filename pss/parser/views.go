package parser

import (
	"fmt"
	"math/big"
	"strings"
)

// Typed views give named access to the labeled children of common rules.
// Each As function reports false when the node has a different kind.

// unwrap descends through single-child wrapper rules such as
// package_body_item until it reaches a node of kind.
func unwrap(n *Node, kind NodeKind) *Node {
	for n != nil {
		if n.Kind == kind {
			return n
		}
		if len(n.Children) != 1 || n.Children[0].Kind == KindTerminal {
			return nil
		}
		n = n.Children[0]
	}
	return nil
}

// items returns the children of n that are of kind.
func items(n *Node, kind NodeKind) []*Node {
	return n.ChildrenOfKind(kind)
}

func labelText(n *Node, label string) string {
	if c := n.Label(label); c != nil {
		return c.Text()
	}
	return ""
}

type PackageDeclaration struct{ *Node }

func AsPackageDeclaration(n *Node) (PackageDeclaration, bool) {
	n = unwrap(n, KindPackageDeclaration)
	return PackageDeclaration{n}, n != nil
}

// Name returns the package name with '::' separators and no spaces.
func (d PackageDeclaration) Name() string {
	return strings.ReplaceAll(labelText(d.Node, "name"), " ", "")
}

func (d PackageDeclaration) Items() []*Node { return items(d.Node, KindPackageBodyItem) }

type ActionDeclaration struct {
	*Node
	Abstract bool
}

// AsActionDeclaration accepts an action_declaration or an
// abstract_action_declaration.
func AsActionDeclaration(n *Node) (ActionDeclaration, bool) {
	if abs := unwrap(n, KindAbstractActionDeclaration); abs != nil {
		return ActionDeclaration{Node: abs.Label("action"), Abstract: true}, abs.Label("action") != nil
	}
	n = unwrap(n, KindActionDeclaration)
	return ActionDeclaration{Node: n}, n != nil
}

func (d ActionDeclaration) Super() string  { return superName(d.Node) }
func (d ActionDeclaration) Params() *Node  { return d.Label("params") }
func (d ActionDeclaration) Items() []*Node { return items(d.Node, KindActionBodyItem) }

func superName(n *Node) string {
	if s := n.Label("super"); s != nil {
		return strings.ReplaceAll(labelText(s, "type"), " ", "")
	}
	return ""
}

type ComponentDeclaration struct{ *Node }

func AsComponentDeclaration(n *Node) (ComponentDeclaration, bool) {
	n = unwrap(n, KindComponentDeclaration)
	return ComponentDeclaration{n}, n != nil
}

func (d ComponentDeclaration) Pure() bool     { return d.Label("pure") != nil }
func (d ComponentDeclaration) Super() string  { return superName(d.Node) }
func (d ComponentDeclaration) Params() *Node  { return d.Label("params") }
func (d ComponentDeclaration) Items() []*Node { return items(d.Node, KindComponentBodyItem) }

type StructDeclaration struct{ *Node }

func AsStructDeclaration(n *Node) (StructDeclaration, bool) {
	n = unwrap(n, KindStructDeclaration)
	return StructDeclaration{n}, n != nil
}

// StructKind returns struct, buffer, stream, state or resource.
func (d StructDeclaration) StructKind() string { return labelText(d.Node, "kind") }
func (d StructDeclaration) Super() string      { return superName(d.Node) }
func (d StructDeclaration) Items() []*Node     { return items(d.Node, KindStructBodyItem) }

type EnumDeclaration struct{ *Node }

func AsEnumDeclaration(n *Node) (EnumDeclaration, bool) {
	n = unwrap(n, KindEnumDeclaration)
	return EnumDeclaration{n}, n != nil
}

type EnumItem struct {
	Name  string
	Value *Node
}

func (d EnumDeclaration) Items() []EnumItem {
	var result []EnumItem
	for _, item := range d.LabelAll("item") {
		result = append(result, EnumItem{Name: item.Name(), Value: item.Label("value")})
	}
	return result
}

type DataDeclaration struct{ *Node }

// AsDataDeclaration accepts data_declaration and procedural_data_declaration
// and looks through field wrappers such as attr_field.
func AsDataDeclaration(n *Node) (DataDeclaration, bool) {
	if n == nil {
		return DataDeclaration{}, false
	}
	if d := unwrap(n, KindProceduralDataDeclaration); d != nil {
		return DataDeclaration{d}, true
	}
	if d := unwrap(n, KindDataDeclaration); d != nil {
		return DataDeclaration{d}, true
	}
	for _, kind := range []NodeKind{KindAttrField, KindComponentFieldDeclaration, KindConstFieldDeclaration, KindActivityDataField} {
		if f := unwrap(n, kind); f != nil {
			return AsDataDeclaration(f.Label("decl"))
		}
	}
	return DataDeclaration{}, false
}

func (d DataDeclaration) Type() *Node { return d.Label("type") }

// TypeName returns the declared type as source text.
func (d DataDeclaration) TypeName() string { return labelText(d.Node, "type") }

type DataInstance struct {
	Name string
	Dim  *Node
	Init *Node
}

func (d DataDeclaration) Instances() []DataInstance {
	var result []DataInstance
	for _, inst := range d.LabelAll("inst") {
		var dim *Node
		if ad := inst.Label("dim"); ad != nil {
			dim = ad.Label("size")
		}
		result = append(result, DataInstance{Name: inst.Name(), Dim: dim, Init: inst.Label("init")})
	}
	return result
}

type BinaryExpression struct{ *Node }

func AsBinaryExpression(n *Node) (BinaryExpression, bool) {
	if n == nil || n.Kind != KindBinaryExpression {
		return BinaryExpression{}, false
	}
	return BinaryExpression{n}, true
}

func (e BinaryExpression) LHS() *Node { return e.Label("lhs") }
func (e BinaryExpression) RHS() *Node { return e.Label("rhs") }

// Op returns the operator text. '>>' is reported as one operator even
// though it is spelled by two tokens.
func (e BinaryExpression) Op() string { return operatorText(e.Node) }

func operatorText(n *Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.Kind == KindTerminal {
			sb.WriteString(c.Token.Literal)
		}
	}
	return sb.String()
}

type UnaryExpression struct{ *Node }

func AsUnaryExpression(n *Node) (UnaryExpression, bool) {
	if n == nil || n.Kind != KindUnaryExpression {
		return UnaryExpression{}, false
	}
	return UnaryExpression{n}, true
}

func (e UnaryExpression) Op() string     { return labelText(e.Node, "op") }
func (e UnaryExpression) Operand() *Node { return e.Label("operand") }

type ConditionalExpression struct{ *Node }

func AsConditionalExpression(n *Node) (ConditionalExpression, bool) {
	if n == nil || n.Kind != KindConditionalExpression {
		return ConditionalExpression{}, false
	}
	return ConditionalExpression{n}, true
}

func (e ConditionalExpression) Cond() *Node { return e.Label("cond") }
func (e ConditionalExpression) Then() *Node { return e.Label("then") }
func (e ConditionalExpression) Else() *Node { return e.Label("else") }

type InExpression struct{ *Node }

func AsInExpression(n *Node) (InExpression, bool) {
	if n == nil || n.Kind != KindInExpression {
		return InExpression{}, false
	}
	return InExpression{n}, true
}

func (e InExpression) LHS() *Node { return e.Label("lhs") }

// Ranges returns the open_range_list of 'x in [...]', or nil.
func (e InExpression) Ranges() *Node { return e.Label("ranges") }

// Collection returns the collection expression of 'x in c', or nil.
func (e InExpression) Collection() *Node { return e.Label("collection") }

type Number struct{ *Node }

func AsNumber(n *Node) (Number, bool) {
	if n == nil || n.Kind != KindNumber {
		return Number{}, false
	}
	return Number{n}, true
}

// Literal returns the value token text without the width.
func (n Number) Literal() string { return labelText(n.Node, "value") }

// Width returns the declared bit width of a based literal, or 0.
func (n Number) Width() int {
	w := labelText(n.Node, "width")
	if w == "" {
		return 0
	}
	v, ok := new(big.Int).SetString(strings.ReplaceAll(w, "_", ""), 10)
	if !ok || !v.IsInt64() {
		return 0
	}
	return int(v.Int64())
}

// Signed reports whether a based literal carries the 's' marker.
func (n Number) Signed() bool {
	lit := n.Literal()
	return len(lit) > 1 && lit[0] == '\'' && (lit[1] == 's' || lit[1] == 'S')
}

// Value decodes the literal. Based literals with x or z digits have no
// numeric value and return an error.
func (n Number) Value() (*big.Int, error) {
	lit := strings.ReplaceAll(n.Literal(), "_", "")
	base := 10
	switch {
	case strings.HasPrefix(lit, "'"):
		lit = strings.TrimLeft(lit[1:], "sS")
		if lit == "" {
			return nil, fmt.Errorf("malformed number %q", n.Literal())
		}
		switch lit[0] {
		case 'h', 'H':
			base = 16
		case 'd', 'D':
			base = 10
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		}
		lit = lit[1:]
	case strings.HasPrefix(lit, "0x"), strings.HasPrefix(lit, "0X"):
		base, lit = 16, lit[2:]
	case len(lit) > 1 && lit[0] == '0':
		base, lit = 8, lit[1:]
	}
	v, ok := new(big.Int).SetString(lit, base)
	if !ok {
		return nil, fmt.Errorf("malformed number %q", n.Literal())
	}
	return v, nil
}

// DefaultConstraint covers default and default disable constraint items.
type DefaultConstraint struct{ *Node }

func AsDefaultConstraint(n *Node) (DefaultConstraint, bool) {
	if d := unwrap(n, KindDefaultConstraintItem); d != nil {
		return DefaultConstraint{d}, true
	}
	if d := unwrap(n, KindDefaultDisableConstraintItem); d != nil {
		return DefaultConstraint{d}, true
	}
	return DefaultConstraint{}, false
}

func (c DefaultConstraint) Disable() bool  { return c.Kind == KindDefaultDisableConstraintItem }
func (c DefaultConstraint) Target() string { return labelText(c.Node, "target") }
func (c DefaultConstraint) Value() *Node   { return c.Label("value") }

type CovergroupCoverpoint struct{ *Node }

func AsCovergroupCoverpoint(n *Node) (CovergroupCoverpoint, bool) {
	n = unwrap(n, KindCovergroupCoverpoint)
	return CovergroupCoverpoint{n}, n != nil
}

func (c CovergroupCoverpoint) Type() *Node   { return c.Label("type") }
func (c CovergroupCoverpoint) Target() *Node { return c.Label("target") }
func (c CovergroupCoverpoint) Iff() *Node    { return c.Label("iff") }

// Bins returns the binspec nodes of the coverpoint body.
func (c CovergroupCoverpoint) Bins() []*Node {
	body := c.Label("bins")
	if body == nil {
		return nil
	}
	var result []*Node
	for _, item := range items(body, KindCovergroupCoverpointBodyItem) {
		if spec := item.FirstChildOfKind(KindCovergroupCoverpointBinspec); spec != nil {
			result = append(result, spec)
		}
	}
	return result
}

type TypeOverride struct{ *Node }

func AsTypeOverride(n *Node) (TypeOverride, bool) {
	n = unwrap(n, KindTypeOverride)
	return TypeOverride{n}, n != nil
}

func (o TypeOverride) Target() string   { return strings.ReplaceAll(labelText(o.Node, "target"), " ", "") }
func (o TypeOverride) Override() string { return strings.ReplaceAll(labelText(o.Node, "override"), " ", "") }

type InstanceOverride struct{ *Node }

func AsInstanceOverride(n *Node) (InstanceOverride, bool) {
	n = unwrap(n, KindInstanceOverride)
	return InstanceOverride{n}, n != nil
}

func (o InstanceOverride) Target() string   { return strings.ReplaceAll(labelText(o.Node, "target"), " ", "") }
func (o InstanceOverride) Override() string { return strings.ReplaceAll(labelText(o.Node, "override"), " ", "") }

type ExtendStmt struct{ *Node }

func AsExtendStmt(n *Node) (ExtendStmt, bool) {
	n = unwrap(n, KindExtendStmt)
	return ExtendStmt{n}, n != nil
}

// ExtendKind returns action, component, enum or the struct kind keyword.
func (e ExtendStmt) ExtendKind() string { return labelText(e.Node, "kind") }
func (e ExtendStmt) Target() string     { return strings.ReplaceAll(labelText(e.Node, "target"), " ", "") }

// Items returns the body items, or the enum_item nodes of an enum extension.
func (e ExtendStmt) Items() []*Node {
	var result []*Node
	for _, c := range e.Children {
		switch c.Kind {
		case KindActionBodyItem, KindComponentBodyItem, KindStructBodyItem, KindEnumItem:
			result = append(result, c)
		}
	}
	return result
}
