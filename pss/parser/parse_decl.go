package parser

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)
	for !p.check(TokenEOF) {
		progress := p.mustProgress(node)
		node.AddChild(p.parsePortableStimulusDescription())
		progress()
	}
	return p.finishNode(node)
}

func (p *Parser) parsePortableStimulusDescription() *Node {
	node := p.startNode(KindPortableStimulusDescription)
	switch {
	case p.check(TokenPackage):
		node.AddChild(p.parsePackageDeclaration())
	case p.check(TokenComponent), p.check(TokenPure) && p.peekN(1).Kind == TokenComponent:
		node.AddChild(p.parseComponentDeclaration())
	default:
		node.AddChild(p.parsePackageBodyItem())
	}
	return p.finishNode(node)
}

func (p *Parser) parseIdentifier() *Node {
	node := p.startNode(KindIdentifier)
	if p.isIdentifier() {
		node.AddChild(p.leaf())
	} else {
		node.AddChild(p.errorNode(TokenMismatch, NewTokenSet(TokenID, TokenEscapedID), ""))
	}
	return p.finishNode(node)
}

func (p *Parser) parsePackageDeclaration() *Node {
	node := p.startNode(KindPackageDeclaration)
	p.expect(node, TokenPackage)
	node.AddLabeled("name", p.parsePackageIdentifier())
	p.parseBody(node, p.parsePackageBodyItem)
	return p.finishNode(node)
}

func (p *Parser) parsePackageIdentifier() *Node {
	node := p.startNode(KindPackageIdentifier)
	node.AddChild(p.parseIdentifier())
	for p.check(TokenColonColon) && isIdentKind(p.peekN(1).Kind) {
		node.AddChild(p.leaf())
		node.AddChild(p.parseIdentifier())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePackageBodyItem() *Node {
	node := p.startNode(KindPackageBodyItem)
	switch p.peek().Kind {
	case TokenAbstract:
		node.AddChild(p.parseAbstractActionDeclaration())
	case TokenAction:
		node.AddChild(p.parseActionDeclaration())
	case TokenStruct, TokenBuffer, TokenStream, TokenState, TokenResource:
		node.AddChild(p.parseStructDeclaration())
	case TokenEnum:
		node.AddChild(p.parseEnumDeclaration())
	case TokenCovergroup:
		node.AddChild(p.parseCovergroupDeclaration())
	case TokenFunction, TokenSolve:
		node.AddChild(p.parseFunctionDefinition())
	case TokenPure:
		if p.peekN(1).Kind == TokenComponent {
			node.AddChild(p.parseComponentDeclaration())
		} else {
			node.AddChild(p.parseFunctionDefinition())
		}
	case TokenTarget:
		node.AddChild(p.parseTargetItem())
	case TokenImport:
		node.AddChild(p.parseImportItem())
	case TokenExport:
		node.AddChild(p.parseExportAction())
	case TokenTypedef:
		node.AddChild(p.parseTypedefDeclaration())
	case TokenExtend:
		node.AddChild(p.parseExtendStmt())
	case TokenStatic, TokenConst:
		node.AddChild(p.parseConstFieldDeclaration())
	case TokenComponent:
		node.AddChild(p.parseComponentDeclaration())
	case TokenPackage:
		node.AddChild(p.parsePackageDeclaration())
	case TokenCompile:
		if p.peekN(1).Kind == TokenAssert {
			node.AddChild(p.parseCompileAssertStmt())
		} else {
			node.AddChild(p.parseCompileIf(KindPackageBodyCompileIf, KindPackageBodyCompileIfItem, p.parsePackageBodyItem))
		}
	case TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	default:
		node.AddChild(p.noViableAlt(KindPackageBodyItem))
	}
	return p.finishNode(node)
}

func (p *Parser) parseStmtTerminator() *Node {
	node := p.startNode(KindStmtTerminator)
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

// parseTargetItem handles items led by 'target': a procedural function
// with a platform qualifier or a target template function.
func (p *Parser) parseTargetItem() *Node {
	if p.peekN(1).Kind == TokenFunction || p.peekN(1).Kind == TokenPure {
		return p.parseFunctionDefinition()
	}
	return p.parseTargetTemplateFunction()
}

// parseImportItem dispatches between the three import forms.
func (p *Parser) parseImportItem() *Node {
	switch p.peekN(1).Kind {
	case TokenClass:
		return p.parseImportClassDecl()
	case TokenFunction, TokenTarget, TokenSolve:
		return p.parseImportFunction()
	case TokenID, TokenEscapedID:
		if p.peekN(2).Kind == TokenFunction {
			return p.parseImportFunction()
		}
	}
	return p.parseImportStmt()
}

func (p *Parser) parseImportStmt() *Node {
	node := p.startNode(KindImportStmt)
	p.expect(node, TokenImport)
	node.AddLabeled("pattern", p.parsePackageImportPattern())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parsePackageImportPattern() *Node {
	node := p.startNode(KindPackageImportPattern)
	node.AddLabeled("type", p.parseTypeIdentifier())
	if (p.check(TokenColonColon) && p.peekN(1).Kind == TokenStar) || p.check(TokenAs) {
		node.AddLabeled("qualifier", p.parsePackageImportQualifier())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePackageImportQualifier() *Node {
	node := p.startNode(KindPackageImportQualifier)
	if p.optional(node, TokenAs) {
		node.AddLabeled("alias", p.parsePackageIdentifier())
	} else {
		p.expect(node, TokenColonColon)
		p.expect(node, TokenStar)
	}
	return p.finishNode(node)
}

func (p *Parser) parseExtendStmt() *Node {
	node := p.startNode(KindExtendStmt)
	p.expect(node, TokenExtend)
	switch p.peek().Kind {
	case TokenAction:
		node.AddLabeled("kind", p.leaf())
		node.AddLabeled("target", p.parseTypeIdentifier())
		p.parseBody(node, p.parseActionBodyItem)
	case TokenComponent:
		node.AddLabeled("kind", p.leaf())
		node.AddLabeled("target", p.parseTypeIdentifier())
		p.parseBody(node, p.parseComponentBodyItem)
	case TokenStruct, TokenBuffer, TokenStream, TokenState, TokenResource:
		node.AddLabeled("kind", p.parseStructKind())
		node.AddLabeled("target", p.parseTypeIdentifier())
		p.parseBody(node, p.parseStructBodyItem)
	case TokenEnum:
		node.AddLabeled("kind", p.leaf())
		node.AddLabeled("target", p.parseTypeIdentifier())
		p.parseEnumItems(node)
	default:
		node.AddChild(p.errorNode(PredictionFailure,
			NewTokenSet(TokenAction, TokenComponent, TokenStruct, TokenBuffer, TokenStream, TokenState, TokenResource, TokenEnum),
			"expected action, component, struct kind or enum after 'extend'"))
	}
	return p.finishNode(node)
}

func (p *Parser) parseConstFieldDeclaration() *Node {
	node := p.startNode(KindConstFieldDeclaration)
	p.optional(node, TokenStatic)
	p.expect(node, TokenConst)
	node.AddLabeled("decl", p.parseDataDeclaration())
	return p.finishNode(node)
}

func (p *Parser) parseTypedefDeclaration() *Node {
	node := p.startNode(KindTypedefDeclaration)
	p.expect(node, TokenTypedef)
	node.AddLabeled("type", p.parseDataType())
	node.AddLabeled("name", p.parseIdentifier())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseExportAction() *Node {
	node := p.startNode(KindExportAction)
	p.expect(node, TokenExport)
	if p.match(TokenTarget, TokenSolve) {
		node.AddLabeled("platform", p.parsePlatformQualifier())
	}
	node.AddLabeled("action", p.parseTagged(KindActionTypeIdentifier))
	if p.check(TokenLParen) {
		node.AddLabeled("params", p.parseFunctionParameterListPrototype())
	}
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseCompileAssertStmt() *Node {
	node := p.startNode(KindCompileAssertStmt)
	p.expect(node, TokenCompile)
	p.expect(node, TokenAssert)
	p.expect(node, TokenLParen)
	node.AddLabeled("cond", p.parseExpression())
	if p.optional(node, TokenComma) {
		node.AddLabeled("message", p.parseStringLiteral())
	}
	p.expect(node, TokenRParen)
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseCompileHasExpr() *Node {
	node := p.startNode(KindCompileHasExpr)
	p.expect(node, TokenCompile)
	p.expect(node, TokenHas)
	p.expect(node, TokenLParen)
	node.AddLabeled("ref", p.parseStaticRefPath())
	p.expect(node, TokenRParen)
	return p.finishNode(node)
}

// parseCompileIf parses a compile-time conditional whose branches hold
// items of one body kind.
func (p *Parser) parseCompileIf(kind, itemKind NodeKind, item func() *Node) *Node {
	node := p.startNode(kind)
	p.expect(node, TokenCompile)
	p.expect(node, TokenIf)
	p.expect(node, TokenLParen)
	node.AddLabeled("cond", p.parseExpression())
	p.expect(node, TokenRParen)
	node.AddLabeled("then", p.parseCompileIfItem(itemKind, item))
	if p.optional(node, TokenElse) {
		node.AddLabeled("else", p.parseCompileIfItem(itemKind, item))
	}
	return p.finishNode(node)
}

func (p *Parser) parseCompileIfItem(kind NodeKind, item func() *Node) *Node {
	node := p.startNode(kind)
	if p.check(TokenLBrace) {
		p.parseBody(node, item)
	} else {
		node.AddChild(item())
	}
	return p.finishNode(node)
}

// Actions

func (p *Parser) parseAbstractActionDeclaration() *Node {
	node := p.startNode(KindAbstractActionDeclaration)
	p.expect(node, TokenAbstract)
	node.AddLabeled("action", p.parseActionDeclaration())
	return p.finishNode(node)
}

func (p *Parser) parseActionDeclaration() *Node {
	node := p.startNode(KindActionDeclaration)
	p.expect(node, TokenAction)
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenLT) {
		node.AddLabeled("params", p.parseTemplateParamDeclList())
	}
	if p.check(TokenColon) {
		node.AddLabeled("super", p.parseSuperSpec(KindActionSuperSpec))
	}
	p.parseBody(node, p.parseActionBodyItem)
	return p.finishNode(node)
}

// parseSuperSpec parses ': type_identifier' for actions, components and
// structs.
func (p *Parser) parseSuperSpec(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.expect(node, TokenColon)
	node.AddLabeled("type", p.parseTypeIdentifier())
	return p.finishNode(node)
}

func (p *Parser) parseActionBodyItem() *Node {
	node := p.startNode(KindActionBodyItem)
	switch tok := p.peek().Kind; tok {
	case TokenActivity:
		node.AddChild(p.parseActivityDeclaration())
	case TokenOverride:
		node.AddChild(p.parseOverrideDeclaration())
	case TokenConstraint:
		if p.isSchedulingConstraint() {
			node.AddChild(p.parseActivitySchedulingConstraint())
		} else {
			node.AddChild(p.parseConstraintDeclaration())
		}
	case TokenDynamic:
		node.AddChild(p.parseConstraintDeclaration())
	case TokenSymbol:
		node.AddChild(p.parseSymbolDeclaration())
	case TokenCovergroup:
		if p.peekN(1).Kind == TokenLBrace {
			node.AddChild(p.parseCovergroupInstantiation())
		} else {
			node.AddChild(p.parseCovergroupDeclaration())
		}
	case TokenExec:
		node.AddChild(p.parseExecBlockStmt())
	case TokenPublic, TokenProtected, TokenPrivate:
		if p.peekN(1).Kind == TokenColon {
			node.AddChild(p.parseAttrGroup())
		} else {
			node.AddChild(p.parseActionFieldDeclaration())
		}
	case TokenCompile:
		if p.peekN(1).Kind == TokenAssert {
			node.AddChild(p.parseCompileAssertStmt())
		} else {
			node.AddChild(p.parseCompileIf(KindActionBodyCompileIf, KindActionBodyCompileIfItem, p.parseActionBodyItem))
		}
	case TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	case TokenID, TokenEscapedID, TokenColonColon:
		node.AddChild(p.choose(KindActionBodyItem,
			alt(3, p.parseActionFieldDeclaration),
			alt(10, p.parseCovergroupInstantiation)))
	default:
		if p.grammar.First(KindActionFieldDeclaration).Has(tok) {
			node.AddChild(p.parseActionFieldDeclaration())
		} else {
			node.AddChild(p.noViableAlt(KindActionBodyItem))
		}
	}
	return p.finishNode(node)
}

func (p *Parser) isSchedulingConstraint() bool {
	k := p.peekN(1).Kind
	return (k == TokenParallel || k == TokenSequence) && p.peekN(2).Kind == TokenLBrace
}

func (p *Parser) parseActivityDeclaration() *Node {
	node := p.startNode(KindActivityDeclaration)
	p.expect(node, TokenActivity)
	p.parseBody(node, p.parseActivityStmt)
	return p.finishNode(node)
}

func (p *Parser) parseActionFieldDeclaration() *Node {
	node := p.startNode(KindActionFieldDeclaration)
	switch p.peek().Kind {
	case TokenAction:
		node.AddChild(p.parseActivityDataField())
	case TokenInput, TokenOutput, TokenLock, TokenShare:
		node.AddChild(p.parseObjectRefFieldDeclaration())
	case TokenID, TokenEscapedID, TokenColonColon:
		node.AddChild(p.choose(KindActionFieldDeclaration,
			alt(0, p.parseAttrField),
			alt(2, p.parseActionHandleDeclaration)))
	default:
		node.AddChild(p.parseAttrField())
	}
	return p.finishNode(node)
}

func (p *Parser) parseAttrField() *Node {
	node := p.startNode(KindAttrField)
	if p.match(TokenPublic, TokenProtected, TokenPrivate) {
		node.AddLabeled("access", p.parseAccessModifier())
	}
	switch {
	case p.check(TokenRand):
		node.AddLabeled("modifier", p.leaf())
	case p.check(TokenStatic):
		node.AddLabeled("modifier", p.leaf())
		p.expect(node, TokenConst)
	case p.check(TokenConst):
		node.AddLabeled("modifier", p.leaf())
	}
	node.AddLabeled("decl", p.parseDataDeclaration())
	return p.finishNode(node)
}

func (p *Parser) parseAccessModifier() *Node {
	node := p.startNode(KindAccessModifier)
	if p.match(TokenPublic, TokenProtected, TokenPrivate) {
		node.AddChild(p.leaf())
	} else {
		node.AddChild(p.noViableAlt(KindAccessModifier))
	}
	return p.finishNode(node)
}

func (p *Parser) parseAttrGroup() *Node {
	node := p.startNode(KindAttrGroup)
	node.AddLabeled("access", p.parseAccessModifier())
	p.expect(node, TokenColon)
	return p.finishNode(node)
}

func (p *Parser) parseObjectRefFieldDeclaration() *Node {
	node := p.startNode(KindObjectRefFieldDeclaration)
	if p.match(TokenInput, TokenOutput) {
		node.AddChild(p.parseRefFieldDeclaration(KindFlowRefFieldDeclaration, KindFlowObjectType))
	} else {
		node.AddChild(p.parseRefFieldDeclaration(KindResourceRefFieldDeclaration, KindResourceObjectType))
	}
	return p.finishNode(node)
}

// parseRefFieldDeclaration parses input/output or lock/share fields.
func (p *Parser) parseRefFieldDeclaration(kind, objectKind NodeKind) *Node {
	node := p.startNode(kind)
	node.AddLabeled("dir", p.leaf())
	node.AddLabeled("type", p.parseObjectType(objectKind))
	node.AddLabeled("field", p.parseObjectRefField())
	for p.optional(node, TokenComma) {
		node.AddLabeled("field", p.parseObjectRefField())
	}
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

// parseObjectType parses flow_object_type or resource_object_type. Flow
// objects cannot be told apart syntactically; they resolve to the first
// alternative, a buffer type.
func (p *Parser) parseObjectType(kind NodeKind) *Node {
	node := p.startNode(kind)
	if kind == KindFlowObjectType {
		node.AddChild(p.parseTagged(KindBufferTypeIdentifier))
	} else {
		node.AddChild(p.parseTagged(KindResourceTypeIdentifier))
	}
	return p.finishNode(node)
}

func (p *Parser) parseObjectRefField() *Node {
	node := p.startNode(KindObjectRefField)
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenLBracket) {
		node.AddLabeled("dim", p.parseArrayDim())
	}
	return p.finishNode(node)
}

func (p *Parser) parseActionHandleDeclaration() *Node {
	node := p.startNode(KindActionHandleDeclaration)
	node.AddLabeled("type", p.parseTagged(KindActionTypeIdentifier))
	node.AddLabeled("inst", p.parseActionInstantiation())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseActionInstantiation() *Node {
	node := p.startNode(KindActionInstantiation)
	for {
		node.AddLabeled("name", p.parseIdentifier())
		if p.check(TokenLBracket) {
			node.AddLabeled("dim", p.parseArrayDim())
		}
		if !p.optional(node, TokenComma) {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseActivityDataField() *Node {
	node := p.startNode(KindActivityDataField)
	p.expect(node, TokenAction)
	node.AddLabeled("decl", p.parseDataDeclaration())
	return p.finishNode(node)
}

func (p *Parser) parseActivitySchedulingConstraint() *Node {
	node := p.startNode(KindActivitySchedulingConstraint)
	p.expect(node, TokenConstraint)
	if p.match(TokenParallel, TokenSequence) {
		node.AddLabeled("kind", p.leaf())
	} else {
		node.AddChild(p.errorNode(TokenMismatch, NewTokenSet(TokenParallel, TokenSequence), ""))
	}
	p.expect(node, TokenLBrace)
	node.AddLabeled("item", p.parseHierarchicalId())
	p.expect(node, TokenComma)
	node.AddLabeled("item", p.parseHierarchicalId())
	for p.optional(node, TokenComma) {
		node.AddLabeled("item", p.parseHierarchicalId())
	}
	p.expect(node, TokenRBrace)
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseSymbolDeclaration() *Node {
	node := p.startNode(KindSymbolDeclaration)
	p.expect(node, TokenSymbol)
	node.AddLabeled("name", p.parseIdentifier())
	if p.optional(node, TokenLParen) {
		node.AddLabeled("params", p.parseSymbolParamlist())
		p.expect(node, TokenRParen)
	}
	p.parseBody(node, p.parseActivityStmt)
	return p.finishNode(node)
}

func (p *Parser) parseSymbolParamlist() *Node {
	node := p.startNode(KindSymbolParamlist)
	if !p.check(TokenRParen) {
		node.AddChild(p.parseSymbolParam())
		for p.optional(node, TokenComma) {
			node.AddChild(p.parseSymbolParam())
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseSymbolParam() *Node {
	node := p.startNode(KindSymbolParam)
	node.AddLabeled("type", p.parseDataType())
	node.AddLabeled("name", p.parseIdentifier())
	return p.finishNode(node)
}

// Components

func (p *Parser) parseComponentDeclaration() *Node {
	node := p.startNode(KindComponentDeclaration)
	if p.check(TokenPure) {
		node.AddLabeled("pure", p.leaf())
	}
	p.expect(node, TokenComponent)
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenLT) {
		node.AddLabeled("params", p.parseTemplateParamDeclList())
	}
	if p.check(TokenColon) {
		node.AddLabeled("super", p.parseSuperSpec(KindComponentSuperSpec))
	}
	p.parseBody(node, p.parseComponentBodyItem)
	return p.finishNode(node)
}

func (p *Parser) parseComponentBodyItem() *Node {
	node := p.startNode(KindComponentBodyItem)
	switch tok := p.peek().Kind; tok {
	case TokenOverride:
		node.AddChild(p.parseOverrideDeclaration())
	case TokenPool:
		node.AddChild(p.parseComponentPoolDeclaration())
	case TokenAction:
		node.AddChild(p.parseActionDeclaration())
	case TokenAbstract:
		node.AddChild(p.parseAbstractActionDeclaration())
	case TokenBind:
		node.AddChild(p.parseObjectBindStmt())
	case TokenExec:
		node.AddChild(p.parseExecBlockStmt())
	case TokenStruct, TokenBuffer, TokenStream, TokenState, TokenResource:
		node.AddChild(p.parseStructDeclaration())
	case TokenEnum:
		node.AddChild(p.parseEnumDeclaration())
	case TokenCovergroup:
		node.AddChild(p.parseCovergroupDeclaration())
	case TokenFunction, TokenPure, TokenSolve:
		node.AddChild(p.parseFunctionDefinition())
	case TokenTarget:
		node.AddChild(p.parseTargetItem())
	case TokenImport:
		node.AddChild(p.parseImportItem())
	case TokenExport:
		node.AddChild(p.parseExportAction())
	case TokenTypedef:
		node.AddChild(p.parseTypedefDeclaration())
	case TokenExtend:
		node.AddChild(p.parseExtendStmt())
	case TokenPublic, TokenProtected, TokenPrivate:
		if p.peekN(1).Kind == TokenColon {
			node.AddChild(p.parseAttrGroup())
		} else {
			node.AddChild(p.parseComponentFieldDeclaration())
		}
	case TokenCompile:
		if p.peekN(1).Kind == TokenAssert {
			node.AddChild(p.parseCompileAssertStmt())
		} else {
			node.AddChild(p.parseCompileIf(KindComponentBodyCompileIf, KindComponentBodyCompileIfItem, p.parseComponentBodyItem))
		}
	case TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	default:
		if p.grammar.First(KindComponentFieldDeclaration).Has(tok) {
			node.AddChild(p.parseComponentFieldDeclaration())
		} else {
			node.AddChild(p.noViableAlt(KindComponentBodyItem))
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseComponentFieldDeclaration() *Node {
	node := p.startNode(KindComponentFieldDeclaration)
	if p.match(TokenPublic, TokenProtected, TokenPrivate) {
		node.AddLabeled("access", p.parseAccessModifier())
	}
	if p.check(TokenStatic) {
		node.AddLabeled("modifier", p.leaf())
	}
	if p.check(TokenConst) {
		node.AddLabeled("modifier", p.leaf())
	}
	node.AddLabeled("decl", p.parseDataDeclaration())
	return p.finishNode(node)
}

func (p *Parser) parseComponentPoolDeclaration() *Node {
	node := p.startNode(KindComponentPoolDeclaration)
	p.expect(node, TokenPool)
	if p.optional(node, TokenLBracket) {
		node.AddLabeled("size", p.parseExpression())
		p.expect(node, TokenRBracket)
	}
	node.AddLabeled("type", p.parseTypeIdentifier())
	node.AddLabeled("name", p.parseIdentifier())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseObjectBindStmt() *Node {
	node := p.startNode(KindObjectBindStmt)
	p.expect(node, TokenBind)
	node.AddLabeled("pool", p.parseHierarchicalId())
	node.AddLabeled("items", p.parseObjectBindItemOrList())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseObjectBindItemOrList() *Node {
	node := p.startNode(KindObjectBindItemOrList)
	if p.optional(node, TokenLBrace) {
		node.AddChild(p.parseObjectBindItemPath())
		for p.optional(node, TokenComma) {
			node.AddChild(p.parseObjectBindItemPath())
		}
		p.expect(node, TokenRBrace)
	} else {
		node.AddChild(p.parseObjectBindItemPath())
	}
	return p.finishNode(node)
}

// bindPathPrefix counts the component path elements that precede the bound
// item: every '.'-separated segment except the item itself, which is '*' or
// the final two segments.
func (p *Parser) bindPathPrefix() int {
	segments, depth := 1, 0
	star := false
scan:
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case TokenLBracket, TokenLParen:
			depth++
		case TokenRBracket, TokenRParen:
			depth--
		case TokenDot:
			if depth == 0 {
				segments++
				star = false
			}
		case TokenStar:
			if depth == 0 {
				star = true
			}
		case TokenComma, TokenRBrace, TokenSemicolon, TokenEOF:
			if depth == 0 {
				break scan
			}
		}
	}
	if star {
		return segments - 1
	}
	if segments < 2 {
		return 0
	}
	return segments - 2
}

func (p *Parser) parseObjectBindItemPath() *Node {
	node := p.startNode(KindObjectBindItemPath)
	for n := p.bindPathPrefix(); n > 0 && !p.check(TokenEOF); n-- {
		node.AddLabeled("path", p.parseComponentPathElem())
		p.expect(node, TokenDot)
	}
	node.AddLabeled("item", p.parseObjectBindItem())
	return p.finishNode(node)
}

func (p *Parser) parseComponentPathElem() *Node {
	node := p.startNode(KindComponentPathElem)
	node.AddLabeled("name", p.parseIdentifier())
	if p.optional(node, TokenLBracket) {
		node.AddLabeled("index", p.parseExpression())
		p.expect(node, TokenRBracket)
	}
	return p.finishNode(node)
}

func (p *Parser) parseObjectBindItem() *Node {
	node := p.startNode(KindObjectBindItem)
	if p.optional(node, TokenStar) {
		return p.finishNode(node)
	}
	node.AddLabeled("action", p.parseTagged(KindActionTypeIdentifier))
	p.expect(node, TokenDot)
	node.AddLabeled("name", p.parseIdentifier())
	if p.optional(node, TokenLBracket) {
		node.AddLabeled("index", p.parseExpression())
		p.expect(node, TokenRBracket)
	}
	return p.finishNode(node)
}

// Structs and enums

func (p *Parser) parseStructDeclaration() *Node {
	node := p.startNode(KindStructDeclaration)
	node.AddLabeled("kind", p.parseStructKind())
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenLT) {
		node.AddLabeled("params", p.parseTemplateParamDeclList())
	}
	if p.check(TokenColon) {
		node.AddLabeled("super", p.parseSuperSpec(KindStructSuperSpec))
	}
	p.parseBody(node, p.parseStructBodyItem)
	return p.finishNode(node)
}

func (p *Parser) parseStructKind() *Node {
	node := p.startNode(KindStructKind)
	switch p.peek().Kind {
	case TokenStruct:
		node.AddChild(p.leaf())
	case TokenBuffer, TokenStream, TokenState, TokenResource:
		kind := p.startNode(KindObjectKind)
		kind.AddChild(p.leaf())
		node.AddChild(p.finishNode(kind))
	default:
		node.AddChild(p.noViableAlt(KindStructKind))
	}
	return p.finishNode(node)
}

func (p *Parser) parseStructBodyItem() *Node {
	node := p.startNode(KindStructBodyItem)
	switch tok := p.peek().Kind; tok {
	case TokenConstraint, TokenDynamic:
		node.AddChild(p.parseConstraintDeclaration())
	case TokenTypedef:
		node.AddChild(p.parseTypedefDeclaration())
	case TokenExec:
		node.AddChild(p.parseExecBlockStmt())
	case TokenPublic, TokenProtected, TokenPrivate:
		if p.peekN(1).Kind == TokenColon {
			node.AddChild(p.parseAttrGroup())
		} else {
			node.AddChild(p.parseAttrField())
		}
	case TokenCompile:
		if p.peekN(1).Kind == TokenAssert {
			node.AddChild(p.parseCompileAssertStmt())
		} else {
			node.AddChild(p.parseCompileIf(KindStructBodyCompileIf, KindStructBodyCompileIfItem, p.parseStructBodyItem))
		}
	case TokenCovergroup:
		if p.peekN(1).Kind == TokenLBrace {
			node.AddChild(p.parseCovergroupInstantiation())
		} else {
			node.AddChild(p.parseCovergroupDeclaration())
		}
	case TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	case TokenID, TokenEscapedID, TokenColonColon:
		node.AddChild(p.choose(KindStructBodyItem,
			alt(1, p.parseAttrField),
			alt(7, p.parseCovergroupInstantiation)))
	default:
		if p.grammar.First(KindAttrField).Has(tok) {
			node.AddChild(p.parseAttrField())
		} else {
			node.AddChild(p.noViableAlt(KindStructBodyItem))
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseEnumDeclaration() *Node {
	node := p.startNode(KindEnumDeclaration)
	p.expect(node, TokenEnum)
	node.AddLabeled("name", p.parseIdentifier())
	p.parseEnumItems(node)
	return p.finishNode(node)
}

// parseEnumItems parses '{' [ enum_item { ',' enum_item } ] '}' into node.
func (p *Parser) parseEnumItems(node *Node) {
	p.expect(node, TokenLBrace)
	if !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddLabeled("item", p.parseEnumItem())
		for p.optional(node, TokenComma) {
			node.AddLabeled("item", p.parseEnumItem())
		}
	}
	p.expect(node, TokenRBrace)
}

func (p *Parser) parseEnumItem() *Node {
	node := p.startNode(KindEnumItem)
	node.AddLabeled("name", p.parseIdentifier())
	if p.optional(node, TokenAssign) {
		node.AddLabeled("value", p.parseExpression())
	}
	return p.finishNode(node)
}

// Overrides

func (p *Parser) parseOverrideDeclaration() *Node {
	node := p.startNode(KindOverrideDeclaration)
	p.expect(node, TokenOverride)
	p.parseBody(node, p.parseOverrideStmt)
	return p.finishNode(node)
}

func (p *Parser) parseOverrideStmt() *Node {
	node := p.startNode(KindOverrideStmt)
	switch p.peek().Kind {
	case TokenType:
		node.AddChild(p.parseTypeOverride())
	case TokenInstance:
		node.AddChild(p.parseInstanceOverride())
	case TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	default:
		node.AddChild(p.noViableAlt(KindOverrideStmt))
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeOverride() *Node {
	node := p.startNode(KindTypeOverride)
	p.expect(node, TokenType)
	node.AddLabeled("target", p.parseTypeIdentifier())
	p.expect(node, TokenWith)
	node.AddLabeled("override", p.parseTypeIdentifier())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseInstanceOverride() *Node {
	node := p.startNode(KindInstanceOverride)
	p.expect(node, TokenInstance)
	node.AddLabeled("target", p.parseHierarchicalId())
	p.expect(node, TokenWith)
	node.AddLabeled("override", p.parseTypeIdentifier())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}
