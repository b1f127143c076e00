package format

import "github.com/dhamidi/pssparse/pss/parser"

// Symbol is a named declaration found in a tree.
type Symbol struct {
	Kind     string
	Name     string
	Detail   string
	Span     parser.Span
	NameSpan parser.Span
	Children []*Symbol
}

// Outline collects the declarations of root as a symbol tree in source
// order. Error nodes and unnamed constructs are skipped.
func Outline(root *parser.Node) []*Symbol {
	top := &Symbol{}
	stack := []*Symbol{top}
	pushed := map[*parser.Node]bool{}

	parser.WalkListener(parser.Listener{
		Enter: func(n *parser.Node) {
			parent := stack[len(stack)-1]
			switch n.Kind {
			case parser.KindDataDeclaration:
				decl, _ := parser.AsDataDeclaration(n)
				for _, inst := range n.LabelAll("inst") {
					if inst.Name() == "" {
						continue
					}
					parent.Children = append(parent.Children, &Symbol{
						Kind:     "field",
						Name:     inst.Name(),
						Detail:   decl.TypeName(),
						Span:     n.Span,
						NameSpan: nameSpan(inst),
					})
				}
				return
			case parser.KindEnumItem:
				if name := n.Name(); name != "" {
					parent.Children = append(parent.Children, &Symbol{
						Kind:     "enum_item",
						Name:     name,
						Span:     n.Span,
						NameSpan: nameSpan(n),
					})
				}
				return
			}
			sym := symbolFor(n)
			if sym == nil {
				return
			}
			parent.Children = append(parent.Children, sym)
			stack = append(stack, sym)
			pushed[n] = true
		},
		Exit: func(n *parser.Node) {
			if pushed[n] {
				stack = stack[:len(stack)-1]
			}
		},
	}, root)
	return top.Children
}

func symbolFor(n *parser.Node) *Symbol {
	var kind, name, detail string
	switch n.Kind {
	case parser.KindPackageDeclaration:
		pkg, _ := parser.AsPackageDeclaration(n)
		kind, name = "package", pkg.Name()
	case parser.KindComponentDeclaration:
		comp, _ := parser.AsComponentDeclaration(n)
		kind, name, detail = "component", comp.Name(), comp.Super()
	case parser.KindActionDeclaration:
		action, _ := parser.AsActionDeclaration(n)
		kind, name, detail = "action", action.Name(), action.Super()
	case parser.KindStructDeclaration:
		st, _ := parser.AsStructDeclaration(n)
		kind, name, detail = st.StructKind(), st.Name(), st.Super()
	case parser.KindEnumDeclaration:
		kind, name = "enum", n.Name()
	case parser.KindTypedefDeclaration:
		kind, name = "typedef", n.Name()
		if t := n.Label("type"); t != nil {
			detail = t.Text()
		}
	case parser.KindCovergroupDeclaration:
		kind, name = "covergroup", n.Name()
	case parser.KindFunctionPrototype:
		kind, name = "function", n.Name()
		if ret := n.Label("return"); ret != nil {
			detail = ret.Text()
		}
	case parser.KindConstraintDeclaration:
		kind, name = "constraint", n.Name()
	case parser.KindExtendStmt:
		ext, _ := parser.AsExtendStmt(n)
		kind, name, detail = "extend", ext.Target(), ext.ExtendKind()
	default:
		return nil
	}
	if name == "" {
		return nil
	}
	return &Symbol{Kind: kind, Name: name, Detail: detail, Span: n.Span, NameSpan: nameSpan(n)}
}

func nameSpan(n *parser.Node) parser.Span {
	for _, label := range []string{"name", "target"} {
		if l := n.Label(label); l != nil {
			return l.Span
		}
	}
	return n.Span
}
