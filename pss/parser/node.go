package parser

import (
	"strings"
)

type NodeKind int

const (
	// Terminals and errors
	KindError NodeKind = iota
	KindTerminal
	KindIdentifier

	// Packages and top level
	KindCompilationUnit
	KindPortableStimulusDescription
	KindPackageDeclaration
	KindPackageIdentifier
	KindPackageBodyItem
	KindImportStmt
	KindPackageImportPattern
	KindPackageImportQualifier
	KindExtendStmt
	KindConstFieldDeclaration
	KindStmtTerminator
	KindTypedefDeclaration
	KindExportAction
	KindCompileAssertStmt
	KindCompileHasExpr
	KindPackageBodyCompileIf
	KindPackageBodyCompileIfItem

	// Actions
	KindActionDeclaration
	KindAbstractActionDeclaration
	KindActionSuperSpec
	KindActionBodyItem
	KindActionBodyCompileIf
	KindActionBodyCompileIfItem
	KindActivityDeclaration
	KindActionFieldDeclaration
	KindAttrField
	KindAccessModifier
	KindAttrGroup
	KindObjectRefFieldDeclaration
	KindFlowRefFieldDeclaration
	KindResourceRefFieldDeclaration
	KindFlowObjectType
	KindResourceObjectType
	KindObjectRefField
	KindActionHandleDeclaration
	KindActionInstantiation
	KindActivityDataField
	KindActivitySchedulingConstraint
	KindSymbolDeclaration
	KindSymbolParamlist
	KindSymbolParam

	// Components
	KindComponentDeclaration
	KindComponentSuperSpec
	KindComponentBodyItem
	KindComponentBodyCompileIf
	KindComponentBodyCompileIfItem
	KindComponentFieldDeclaration
	KindComponentPoolDeclaration
	KindObjectBindStmt
	KindObjectBindItemOrList
	KindObjectBindItemPath
	KindComponentPathElem
	KindObjectBindItem

	// Structs and enums
	KindStructDeclaration
	KindStructKind
	KindObjectKind
	KindStructSuperSpec
	KindStructBodyItem
	KindStructBodyCompileIf
	KindStructBodyCompileIfItem
	KindEnumDeclaration
	KindEnumItem

	// Data declarations and types
	KindDataDeclaration
	KindDataInstantiation
	KindArrayDim
	KindDataType
	KindChandleType
	KindIntegerType
	KindDomainOpenRangeList
	KindDomainOpenRangeValue
	KindStringType
	KindBoolType
	KindFloatType
	KindEnumType
	KindCollectionType
	KindArraySizeExpression
	KindReferenceType
	KindTypeIdentifier
	KindTypeIdentifierElem
	KindActionTypeIdentifier
	KindBufferTypeIdentifier
	KindStateTypeIdentifier
	KindStreamTypeIdentifier
	KindResourceTypeIdentifier
	KindCovergroupTypeIdentifier
	KindEnumTypeIdentifier
	KindEntityTypeIdentifier
	KindTemplateParamDeclList
	KindTemplateParamDecl
	KindTypeParamDecl
	KindGenericTypeParamDecl
	KindCategoryTypeParamDecl
	KindTypeRestriction
	KindTypeCategory
	KindValueParamDecl
	KindTemplateParamValueList
	KindTemplateParamValue
	KindHierarchicalId
	KindMemberPathElem
	KindHierarchicalIdList

	// Exec blocks
	KindExecBlockStmt
	KindExecBlock
	KindExecKind
	KindExecStmt
	KindExecSuperStmt
	KindTargetCodeExecBlock
	KindTargetFileExecBlock

	// Procedural statements
	KindProceduralStmt
	KindProceduralSequenceBlockStmt
	KindProceduralExprStmt
	KindAssignOp
	KindProceduralReturnStmt
	KindProceduralRepeatStmt
	KindProceduralForeachStmt
	KindProceduralIfElseStmt
	KindProceduralMatchStmt
	KindProceduralMatchChoice
	KindProceduralBreakStmt
	KindProceduralContinueStmt
	KindProceduralDataDeclaration
	KindProceduralDataInstantiation
	KindProceduralRandomizationStmt
	KindProceduralRandomizationTerm
	KindProceduralCompileIf
	KindProceduralCompileIfItem

	// Functions
	KindFunctionDecl
	KindFunctionPrototype
	KindFunctionReturnType
	KindFunctionParameterListPrototype
	KindFunctionParameter
	KindFunctionParameterDir
	KindVarargsParameter
	KindProceduralFunction
	KindPlatformQualifier
	KindImportFunction
	KindTargetTemplateFunction
	KindImportClassDecl
	KindImportClassExtends
	KindImportClassFunctionDecl

	// Activities
	KindActivityStmt
	KindLabeledActivityStmt
	KindActivityActionTraversalStmt
	KindInlineConstraintsOrEmpty
	KindActivitySequenceBlockStmt
	KindActivityParallelStmt
	KindActivityScheduleStmt
	KindActivityJoinSpec
	KindActivityJoinBranch
	KindActivityJoinSelect
	KindActivityJoinNone
	KindActivityJoinFirst
	KindActivityRepeatStmt
	KindActivityForeachStmt
	KindActivityAtomicBlockStmt
	KindActivitySelectStmt
	KindSelectBranch
	KindActivityIfElseStmt
	KindActivityMatchStmt
	KindMatchChoice
	KindActivityReplicateStmt
	KindActivitySuperStmt
	KindActivityBindStmt
	KindActivityBindItemOrList
	KindActivityConstraintStmt
	KindSymbolCall

	// Overrides
	KindOverrideDeclaration
	KindOverrideStmt
	KindTypeOverride
	KindInstanceOverride

	// Constraints
	KindConstraintDeclaration
	KindConstraintSet
	KindConstraintBlock
	KindConstraintBodyItem
	KindExpressionConstraintItem
	KindImplicationConstraintItem
	KindForeachConstraintItem
	KindForallConstraintItem
	KindIfConstraintItem
	KindUniqueConstraintItem
	KindDefaultConstraintItem
	KindDefaultDisableConstraintItem

	// Coverage
	KindCovergroupDeclaration
	KindCovergroupPort
	KindCovergroupBodyItem
	KindCovergroupOption
	KindCovergroupInstantiation
	KindCovergroupTypeInstantiation
	KindCovergroupPortmapList
	KindCovergroupPortmap
	KindCovergroupOptionsOrEmpty
	KindInlineCovergroup
	KindCovergroupCoverpoint
	KindBinsOrEmpty
	KindCovergroupCoverpointBodyItem
	KindCovergroupCoverpointBinspec
	KindCoverpointBins
	KindBinsKeyword
	KindCovergroupCross
	KindCrossItemOrNull
	KindCovergroupCrossBodyItem
	KindCovergroupCrossBinspec

	// Expressions
	KindConditionalExpression
	KindBinaryExpression
	KindUnaryExpression
	KindInExpression
	KindParenExpr
	KindCastExpression
	KindCastingType
	KindRefPath
	KindStaticRefPath
	KindBitSlice
	KindFunctionParameterList
	KindAggregateLiteral
	KindEmptyAggregateLiteral
	KindValueListLiteral
	KindMapLiteral
	KindMapLiteralItem
	KindStructLiteral
	KindStructLiteralItem
	KindOpenRangeList
	KindOpenRangeValue
	KindNumber
	KindBoolLiteral
	KindNullRef
	KindStringLiteral

	nodeKindCount
)

var nodeKindNames = [...]string{
	KindError:                          "error",
	KindTerminal:                       "terminal",
	KindIdentifier:                     "identifier",
	KindCompilationUnit:                "compilation_unit",
	KindPortableStimulusDescription:    "portable_stimulus_description",
	KindPackageDeclaration:             "package_declaration",
	KindPackageIdentifier:              "package_identifier",
	KindPackageBodyItem:                "package_body_item",
	KindImportStmt:                     "import_stmt",
	KindPackageImportPattern:           "package_import_pattern",
	KindPackageImportQualifier:         "package_import_qualifier",
	KindExtendStmt:                     "extend_stmt",
	KindConstFieldDeclaration:          "const_field_declaration",
	KindStmtTerminator:                 "stmt_terminator",
	KindTypedefDeclaration:             "typedef_declaration",
	KindExportAction:                   "export_action",
	KindCompileAssertStmt:              "compile_assert_stmt",
	KindCompileHasExpr:                 "compile_has_expr",
	KindPackageBodyCompileIf:           "package_body_compile_if",
	KindPackageBodyCompileIfItem:       "package_body_compile_if_item",
	KindActionDeclaration:              "action_declaration",
	KindAbstractActionDeclaration:      "abstract_action_declaration",
	KindActionSuperSpec:                "action_super_spec",
	KindActionBodyItem:                 "action_body_item",
	KindActionBodyCompileIf:            "action_body_compile_if",
	KindActionBodyCompileIfItem:        "action_body_compile_if_item",
	KindActivityDeclaration:            "activity_declaration",
	KindActionFieldDeclaration:         "action_field_declaration",
	KindAttrField:                      "attr_field",
	KindAccessModifier:                 "access_modifier",
	KindAttrGroup:                      "attr_group",
	KindObjectRefFieldDeclaration:      "object_ref_field_declaration",
	KindFlowRefFieldDeclaration:        "flow_ref_field_declaration",
	KindResourceRefFieldDeclaration:    "resource_ref_field_declaration",
	KindFlowObjectType:                 "flow_object_type",
	KindResourceObjectType:             "resource_object_type",
	KindObjectRefField:                 "object_ref_field",
	KindActionHandleDeclaration:        "action_handle_declaration",
	KindActionInstantiation:            "action_instantiation",
	KindActivityDataField:              "activity_data_field",
	KindActivitySchedulingConstraint:   "activity_scheduling_constraint",
	KindSymbolDeclaration:              "symbol_declaration",
	KindSymbolParamlist:                "symbol_paramlist",
	KindSymbolParam:                    "symbol_param",
	KindComponentDeclaration:           "component_declaration",
	KindComponentSuperSpec:             "component_super_spec",
	KindComponentBodyItem:              "component_body_item",
	KindComponentBodyCompileIf:         "component_body_compile_if",
	KindComponentBodyCompileIfItem:     "component_body_compile_if_item",
	KindComponentFieldDeclaration:      "component_field_declaration",
	KindComponentPoolDeclaration:       "component_pool_declaration",
	KindObjectBindStmt:                 "object_bind_stmt",
	KindObjectBindItemOrList:           "object_bind_item_or_list",
	KindObjectBindItemPath:             "object_bind_item_path",
	KindComponentPathElem:              "component_path_elem",
	KindObjectBindItem:                 "object_bind_item",
	KindStructDeclaration:              "struct_declaration",
	KindStructKind:                     "struct_kind",
	KindObjectKind:                     "object_kind",
	KindStructSuperSpec:                "struct_super_spec",
	KindStructBodyItem:                 "struct_body_item",
	KindStructBodyCompileIf:            "struct_body_compile_if",
	KindStructBodyCompileIfItem:        "struct_body_compile_if_item",
	KindEnumDeclaration:                "enum_declaration",
	KindEnumItem:                       "enum_item",
	KindDataDeclaration:                "data_declaration",
	KindDataInstantiation:              "data_instantiation",
	KindArrayDim:                       "array_dim",
	KindDataType:                       "data_type",
	KindChandleType:                    "chandle_type",
	KindIntegerType:                    "integer_type",
	KindDomainOpenRangeList:            "domain_open_range_list",
	KindDomainOpenRangeValue:           "domain_open_range_value",
	KindStringType:                     "string_type",
	KindBoolType:                       "bool_type",
	KindFloatType:                      "float_type",
	KindEnumType:                       "enum_type",
	KindCollectionType:                 "collection_type",
	KindArraySizeExpression:            "array_size_expression",
	KindReferenceType:                  "reference_type",
	KindTypeIdentifier:                 "type_identifier",
	KindTypeIdentifierElem:             "type_identifier_elem",
	KindActionTypeIdentifier:           "action_type_identifier",
	KindBufferTypeIdentifier:           "buffer_type_identifier",
	KindStateTypeIdentifier:            "state_type_identifier",
	KindStreamTypeIdentifier:           "stream_type_identifier",
	KindResourceTypeIdentifier:         "resource_type_identifier",
	KindCovergroupTypeIdentifier:       "covergroup_type_identifier",
	KindEnumTypeIdentifier:             "enum_type_identifier",
	KindEntityTypeIdentifier:           "entity_type_identifier",
	KindTemplateParamDeclList:          "template_param_decl_list",
	KindTemplateParamDecl:              "template_param_decl",
	KindTypeParamDecl:                  "type_param_decl",
	KindGenericTypeParamDecl:           "generic_type_param_decl",
	KindCategoryTypeParamDecl:          "category_type_param_decl",
	KindTypeRestriction:                "type_restriction",
	KindTypeCategory:                   "type_category",
	KindValueParamDecl:                 "value_param_decl",
	KindTemplateParamValueList:         "template_param_value_list",
	KindTemplateParamValue:             "template_param_value",
	KindHierarchicalId:                 "hierarchical_id",
	KindMemberPathElem:                 "member_path_elem",
	KindHierarchicalIdList:             "hierarchical_id_list",
	KindExecBlockStmt:                  "exec_block_stmt",
	KindExecBlock:                      "exec_block",
	KindExecKind:                       "exec_kind",
	KindExecStmt:                       "exec_stmt",
	KindExecSuperStmt:                  "exec_super_stmt",
	KindTargetCodeExecBlock:            "target_code_exec_block",
	KindTargetFileExecBlock:            "target_file_exec_block",
	KindProceduralStmt:                 "procedural_stmt",
	KindProceduralSequenceBlockStmt:    "procedural_sequence_block_stmt",
	KindProceduralExprStmt:             "procedural_expr_stmt",
	KindAssignOp:                       "assign_op",
	KindProceduralReturnStmt:           "procedural_return_stmt",
	KindProceduralRepeatStmt:           "procedural_repeat_stmt",
	KindProceduralForeachStmt:          "procedural_foreach_stmt",
	KindProceduralIfElseStmt:           "procedural_if_else_stmt",
	KindProceduralMatchStmt:            "procedural_match_stmt",
	KindProceduralMatchChoice:          "procedural_match_choice",
	KindProceduralBreakStmt:            "procedural_break_stmt",
	KindProceduralContinueStmt:         "procedural_continue_stmt",
	KindProceduralDataDeclaration:      "procedural_data_declaration",
	KindProceduralDataInstantiation:    "procedural_data_instantiation",
	KindProceduralRandomizationStmt:    "procedural_randomization_stmt",
	KindProceduralRandomizationTerm:    "procedural_randomization_term",
	KindProceduralCompileIf:            "procedural_compile_if",
	KindProceduralCompileIfItem:        "procedural_compile_if_item",
	KindFunctionDecl:                   "function_decl",
	KindFunctionPrototype:              "function_prototype",
	KindFunctionReturnType:             "function_return_type",
	KindFunctionParameterListPrototype: "function_parameter_list_prototype",
	KindFunctionParameter:              "function_parameter",
	KindFunctionParameterDir:           "function_parameter_dir",
	KindVarargsParameter:               "varargs_parameter",
	KindProceduralFunction:             "procedural_function",
	KindPlatformQualifier:              "platform_qualifier",
	KindImportFunction:                 "import_function",
	KindTargetTemplateFunction:         "target_template_function",
	KindImportClassDecl:                "import_class_decl",
	KindImportClassExtends:             "import_class_extends",
	KindImportClassFunctionDecl:        "import_class_function_decl",
	KindActivityStmt:                   "activity_stmt",
	KindLabeledActivityStmt:            "labeled_activity_stmt",
	KindActivityActionTraversalStmt:    "activity_action_traversal_stmt",
	KindInlineConstraintsOrEmpty:       "inline_constraints_or_empty",
	KindActivitySequenceBlockStmt:      "activity_sequence_block_stmt",
	KindActivityParallelStmt:           "activity_parallel_stmt",
	KindActivityScheduleStmt:           "activity_schedule_stmt",
	KindActivityJoinSpec:               "activity_join_spec",
	KindActivityJoinBranch:             "activity_join_branch",
	KindActivityJoinSelect:             "activity_join_select",
	KindActivityJoinNone:               "activity_join_none",
	KindActivityJoinFirst:              "activity_join_first",
	KindActivityRepeatStmt:             "activity_repeat_stmt",
	KindActivityForeachStmt:            "activity_foreach_stmt",
	KindActivityAtomicBlockStmt:        "activity_atomic_block_stmt",
	KindActivitySelectStmt:             "activity_select_stmt",
	KindSelectBranch:                   "select_branch",
	KindActivityIfElseStmt:             "activity_if_else_stmt",
	KindActivityMatchStmt:              "activity_match_stmt",
	KindMatchChoice:                    "match_choice",
	KindActivityReplicateStmt:          "activity_replicate_stmt",
	KindActivitySuperStmt:              "activity_super_stmt",
	KindActivityBindStmt:               "activity_bind_stmt",
	KindActivityBindItemOrList:         "activity_bind_item_or_list",
	KindActivityConstraintStmt:         "activity_constraint_stmt",
	KindSymbolCall:                     "symbol_call",
	KindOverrideDeclaration:            "override_declaration",
	KindOverrideStmt:                   "override_stmt",
	KindTypeOverride:                   "type_override",
	KindInstanceOverride:               "instance_override",
	KindConstraintDeclaration:          "constraint_declaration",
	KindConstraintSet:                  "constraint_set",
	KindConstraintBlock:                "constraint_block",
	KindConstraintBodyItem:             "constraint_body_item",
	KindExpressionConstraintItem:       "expression_constraint_item",
	KindImplicationConstraintItem:      "implication_constraint_item",
	KindForeachConstraintItem:          "foreach_constraint_item",
	KindForallConstraintItem:           "forall_constraint_item",
	KindIfConstraintItem:               "if_constraint_item",
	KindUniqueConstraintItem:           "unique_constraint_item",
	KindDefaultConstraintItem:          "default_constraint_item",
	KindDefaultDisableConstraintItem:   "default_disable_constraint_item",
	KindCovergroupDeclaration:          "covergroup_declaration",
	KindCovergroupPort:                 "covergroup_port",
	KindCovergroupBodyItem:             "covergroup_body_item",
	KindCovergroupOption:               "covergroup_option",
	KindCovergroupInstantiation:        "covergroup_instantiation",
	KindCovergroupTypeInstantiation:    "covergroup_type_instantiation",
	KindCovergroupPortmapList:          "covergroup_portmap_list",
	KindCovergroupPortmap:              "covergroup_portmap",
	KindCovergroupOptionsOrEmpty:       "covergroup_options_or_empty",
	KindInlineCovergroup:               "inline_covergroup",
	KindCovergroupCoverpoint:           "covergroup_coverpoint",
	KindBinsOrEmpty:                    "bins_or_empty",
	KindCovergroupCoverpointBodyItem:   "covergroup_coverpoint_body_item",
	KindCovergroupCoverpointBinspec:    "covergroup_coverpoint_binspec",
	KindCoverpointBins:                 "coverpoint_bins",
	KindBinsKeyword:                    "bins_keyword",
	KindCovergroupCross:                "covergroup_cross",
	KindCrossItemOrNull:                "cross_item_or_null",
	KindCovergroupCrossBodyItem:        "covergroup_cross_body_item",
	KindCovergroupCrossBinspec:         "covergroup_cross_binspec",
	KindConditionalExpression:          "conditional_expression",
	KindBinaryExpression:               "binary_expression",
	KindUnaryExpression:                "unary_expression",
	KindInExpression:                   "in_expression",
	KindParenExpr:                      "paren_expr",
	KindCastExpression:                 "cast_expression",
	KindCastingType:                    "casting_type",
	KindRefPath:                        "ref_path",
	KindStaticRefPath:                  "static_ref_path",
	KindBitSlice:                       "bit_slice",
	KindFunctionParameterList:          "function_parameter_list",
	KindAggregateLiteral:               "aggregate_literal",
	KindEmptyAggregateLiteral:          "empty_aggregate_literal",
	KindValueListLiteral:               "value_list_literal",
	KindMapLiteral:                     "map_literal",
	KindMapLiteralItem:                 "map_literal_item",
	KindStructLiteral:                  "struct_literal",
	KindStructLiteralItem:              "struct_literal_item",
	KindOpenRangeList:                  "open_range_list",
	KindOpenRangeValue:                 "open_range_value",
	KindNumber:                         "number",
	KindBoolLiteral:                    "bool_literal",
	KindNullRef:                        "null_ref",
	KindStringLiteral:                  "string_literal",
}

func (k NodeKind) String() string {
	if k >= 0 && k < nodeKindCount {
		return nodeKindNames[k]
	}
	return "unknown"
}

// LookupNodeKind returns the kind for a rule name such as "action_declaration".
func LookupNodeKind(name string) (NodeKind, bool) {
	for k, n := range nodeKindNames {
		if n == name {
			return NodeKind(k), true
		}
	}
	return KindError, false
}

// Label names a child slot of a node, e.g. "name" or "lhs".
type Label struct {
	Name  string
	Index int
}

type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
	Error    *SyntaxError
	Labels   []Label
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

// AddLabeled appends child and records it under name.
func (n *Node) AddLabeled(name string, child *Node) {
	if child == nil {
		return
	}
	n.Labels = append(n.Labels, Label{Name: name, Index: len(n.Children)})
	n.Children = append(n.Children, child)
}

// Label returns the first child recorded under name.
func (n *Node) Label(name string) *Node {
	if n == nil {
		return nil
	}
	for _, l := range n.Labels {
		if l.Name == name && l.Index < len(n.Children) {
			return n.Children[l.Index]
		}
	}
	return nil
}

// LabelAll returns every child recorded under name, in source order.
func (n *Node) LabelAll(name string) []*Node {
	if n == nil {
		return nil
	}
	var result []*Node
	for _, l := range n.Labels {
		if l.Name == name && l.Index < len(n.Children) {
			result = append(result, n.Children[l.Index])
		}
	}
	return result
}

func (n *Node) IsError() bool {
	return n.Kind == KindError
}

func (n *Node) IsTerminal() bool {
	return n.Kind == KindTerminal
}

// HasErrors reports whether n or any descendant is an error node.
func (n *Node) HasErrors() bool {
	found := false
	Inspect(n, func(c *Node) bool {
		if c.Kind == KindError {
			found = true
		}
		return !found
	})
	return found
}

func (n *Node) FirstChildOfKind(kind NodeKind) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var result []*Node
	for _, child := range n.Children {
		if child.Kind == kind {
			result = append(result, child)
		}
	}
	return result
}

// FirstTerminal returns the first token-bearing child of kind tk.
func (n *Node) FirstTerminal(tk TokenKind) *Token {
	for _, child := range n.Children {
		if child.Kind == KindTerminal && child.Token.Kind == tk {
			return child.Token
		}
	}
	return nil
}

// Terminals returns every token under n in source order.
func (n *Node) Terminals() []Token {
	var toks []Token
	Inspect(n, func(c *Node) bool {
		if c.Token != nil {
			toks = append(toks, *c.Token)
		}
		return true
	})
	return toks
}

// Text joins the literals of all tokens under n with single spaces.
func (n *Node) Text() string {
	toks := n.Terminals()
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Literal
	}
	return strings.Join(parts, " ")
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Name returns the text of the child labeled "name", if any.
func (n *Node) Name() string {
	if id := n.Label("name"); id != nil {
		return id.Text()
	}
	return ""
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	if n.Labels != nil {
		c.Labels = append([]Label(nil), n.Labels...)
	}
	return &c
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeLine(&sb, 0, "", false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeLine(&sb, 0, "", true)
	return sb.String()
}

func (n *Node) labelOf(index int) string {
	for _, l := range n.Labels {
		if l.Index == index {
			return l.Name
		}
	}
	return ""
}

func (n *Node) writeLine(sb *strings.Builder, indent int, label string, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	if label != "" {
		sb.WriteString(label + "=")
	}
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Token != nil {
		sb.WriteString(" " + n.Token.Literal)
	}
	if n.Error != nil {
		sb.WriteString(" ERROR: " + n.Error.Message)
	}
	sb.WriteString("\n")

	for i, child := range n.Children {
		child.writeLine(sb, indent+1, n.labelOf(i), showPositions)
	}
}
