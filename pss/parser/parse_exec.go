package parser

// Exec blocks

func (p *Parser) parseExecBlockStmt() *Node {
	node := p.startNode(KindExecBlockStmt)
	switch {
	case p.peekN(1).Kind == TokenFile:
		node.AddChild(p.parseTargetFileExecBlock())
	case p.peekN(2).Kind == TokenLBrace:
		node.AddChild(p.parseExecBlock())
	case isIdentKind(p.peekN(2).Kind):
		node.AddChild(p.parseTargetCodeExecBlock())
	default:
		node.AddChild(p.parseExecBlock())
	}
	return p.finishNode(node)
}

func (p *Parser) parseExecBlock() *Node {
	node := p.startNode(KindExecBlock)
	p.expect(node, TokenExec)
	node.AddLabeled("kind", p.parseExecKind())
	p.parseBody(node, p.parseExecStmt)
	return p.finishNode(node)
}

func isExecKind(k TokenKind) bool {
	switch k {
	case TokenPreSolve, TokenPostSolve, TokenPreBody, TokenBody, TokenHeader, TokenDeclaration,
		TokenRunStart, TokenRunEnd, TokenInitDown, TokenInitUp, TokenInit:
		return true
	}
	return false
}

func (p *Parser) parseExecKind() *Node {
	node := p.startNode(KindExecKind)
	if isExecKind(p.peek().Kind) {
		node.AddChild(p.leaf())
	} else {
		node.AddChild(p.noViableAlt(KindExecKind))
	}
	return p.finishNode(node)
}

func (p *Parser) parseExecStmt() *Node {
	node := p.startNode(KindExecStmt)
	if p.check(TokenSuper) && p.peekN(1).Kind == TokenSemicolon {
		super := p.startNode(KindExecSuperStmt)
		super.AddChild(p.leaf())
		super.AddChild(p.leaf())
		node.AddChild(p.finishNode(super))
	} else {
		node.AddChild(p.parseProceduralStmt())
	}
	return p.finishNode(node)
}

func (p *Parser) parseTargetCodeExecBlock() *Node {
	node := p.startNode(KindTargetCodeExecBlock)
	p.expect(node, TokenExec)
	node.AddLabeled("kind", p.parseExecKind())
	node.AddLabeled("language", p.parseIdentifier())
	p.expect(node, TokenAssign)
	node.AddLabeled("code", p.parseStringLiteral())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseTargetFileExecBlock() *Node {
	node := p.startNode(KindTargetFileExecBlock)
	p.expect(node, TokenExec)
	p.expect(node, TokenFile)
	node.AddLabeled("filename", p.parseStringLiteral())
	p.expect(node, TokenAssign)
	node.AddLabeled("content", p.parseStringLiteral())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

// Procedural statements

func (p *Parser) parseProceduralStmt() *Node {
	node := p.startNode(KindProceduralStmt)
	switch tok := p.peek().Kind; tok {
	case TokenSequence, TokenLBrace:
		node.AddChild(p.parseProceduralSequenceBlockStmt())
	case TokenReturn:
		node.AddChild(p.parseProceduralReturnStmt())
	case TokenRepeat, TokenWhile:
		stmt := p.startNode(KindProceduralRepeatStmt)
		p.parseRepeat(stmt, p.parseProceduralStmt)
		node.AddChild(p.finishNode(stmt))
	case TokenForeach:
		stmt := p.startNode(KindProceduralForeachStmt)
		p.expect(stmt, TokenForeach)
		p.parseForeachHeader(stmt)
		stmt.AddLabeled("body", p.parseProceduralStmt())
		node.AddChild(p.finishNode(stmt))
	case TokenIf:
		stmt := p.startNode(KindProceduralIfElseStmt)
		p.parseIfElse(stmt, p.parseProceduralStmt)
		node.AddChild(p.finishNode(stmt))
	case TokenMatch:
		stmt := p.startNode(KindProceduralMatchStmt)
		p.parseMatch(stmt, KindProceduralMatchChoice, p.parseProceduralStmt)
		node.AddChild(p.finishNode(stmt))
	case TokenBreak:
		node.AddChild(p.parseKeywordStmt(KindProceduralBreakStmt))
	case TokenContinue:
		node.AddChild(p.parseKeywordStmt(KindProceduralContinueStmt))
	case TokenRandomize:
		node.AddChild(p.parseProceduralRandomizationStmt())
	case TokenCompile:
		if p.peekN(1).Kind == TokenIf {
			node.AddChild(p.parseCompileIf(KindProceduralCompileIf, KindProceduralCompileIfItem, p.parseProceduralStmt))
		} else {
			node.AddChild(p.parseProceduralExprStmt())
		}
	case TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	case TokenID, TokenEscapedID, TokenColonColon:
		node.AddChild(p.choose(KindProceduralStmt,
			alt(1, p.parseProceduralExprStmt),
			alt(9, p.parseProceduralDataDeclaration)))
	default:
		switch {
		case isDataTypeKeyword(tok):
			node.AddChild(p.parseProceduralDataDeclaration())
		case p.grammar.First(KindProceduralExprStmt).Has(tok):
			node.AddChild(p.parseProceduralExprStmt())
		default:
			node.AddChild(p.noViableAlt(KindProceduralStmt))
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseProceduralSequenceBlockStmt() *Node {
	node := p.startNode(KindProceduralSequenceBlockStmt)
	p.optional(node, TokenSequence)
	p.parseBody(node, p.parseProceduralStmt)
	return p.finishNode(node)
}

// isAssignOp reports whether the lookahead is an assignment operator and
// how many tokens spell it. '>>=' may arrive as '>' '>=' or as one token.
func (p *Parser) isAssignOp() (bool, int) {
	tok := p.peek()
	switch tok.Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign, TokenShlAssign, TokenShrAssign, TokenOrAssign, TokenAndAssign:
		return true, 1
	case TokenGT:
		if next := p.peekN(1); next.Kind == TokenGE && adjacent(tok, next) {
			return true, 2
		}
	}
	return false, 0
}

// parseProceduralExprStmt parses an expression statement or an assignment;
// both start with an expression.
func (p *Parser) parseProceduralExprStmt() *Node {
	node := p.startNode(KindProceduralExprStmt)
	expr := p.parseExpression()
	if ok, width := p.isAssignOp(); ok {
		node.AddLabeled("lhs", expr)
		op := p.startNode(KindAssignOp)
		for i := 0; i < width; i++ {
			op.AddChild(p.leaf())
		}
		node.AddLabeled("op", p.finishNode(op))
		node.AddLabeled("rhs", p.parseExpression())
	} else {
		node.AddLabeled("expr", expr)
	}
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseProceduralReturnStmt() *Node {
	node := p.startNode(KindProceduralReturnStmt)
	p.expect(node, TokenReturn)
	if !p.check(TokenSemicolon) {
		node.AddLabeled("value", p.parseExpression())
	}
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

// parseKeywordStmt parses 'keyword ;' statements.
func (p *Parser) parseKeywordStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	node.AddChild(p.leaf())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseProceduralDataDeclaration() *Node {
	node := p.startNode(KindProceduralDataDeclaration)
	node.AddLabeled("type", p.parseDataType())
	node.AddLabeled("inst", p.parseDataInstantiation(KindProceduralDataInstantiation))
	for p.optional(node, TokenComma) {
		node.AddLabeled("inst", p.parseDataInstantiation(KindProceduralDataInstantiation))
	}
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseProceduralRandomizationStmt() *Node {
	node := p.startNode(KindProceduralRandomizationStmt)
	p.expect(node, TokenRandomize)
	node.AddLabeled("target", p.parseHierarchicalId())
	for p.optional(node, TokenComma) {
		node.AddLabeled("target", p.parseHierarchicalId())
	}
	term := p.startNode(KindProceduralRandomizationTerm)
	switch {
	case p.optional(term, TokenWith):
		term.AddLabeled("body", p.parseConstraintSet())
	case p.optional(term, TokenSemicolon):
	default:
		term.AddChild(p.noViableAlt(KindProceduralRandomizationTerm))
	}
	node.AddLabeled("term", p.finishNode(term))
	return p.finishNode(node)
}

// Functions

func (p *Parser) parsePlatformQualifier() *Node {
	node := p.startNode(KindPlatformQualifier)
	if p.match(TokenTarget, TokenSolve) {
		node.AddChild(p.leaf())
	} else {
		node.AddChild(p.noViableAlt(KindPlatformQualifier))
	}
	return p.finishNode(node)
}

// parseFunctionDefinition parses a function declaration or, when a body
// follows the prototype or a platform qualifier is present, a procedural
// function.
func (p *Parser) parseFunctionDefinition() *Node {
	node := p.startNode(KindFunctionDecl)
	if p.match(TokenTarget, TokenSolve) {
		p.retag(node, KindProceduralFunction)
		node.AddLabeled("platform", p.parsePlatformQualifier())
	}
	if p.check(TokenPure) {
		node.AddLabeled("pure", p.leaf())
	}
	p.expect(node, TokenFunction)
	node.AddLabeled("prototype", p.parseFunctionPrototype())
	if node.Kind == KindFunctionDecl && !p.check(TokenLBrace) {
		p.expect(node, TokenSemicolon)
		return p.finishNode(node)
	}
	p.retag(node, KindProceduralFunction)
	p.parseBody(node, p.parseProceduralStmt)
	return p.finishNode(node)
}

func (p *Parser) parseFunctionPrototype() *Node {
	node := p.startNode(KindFunctionPrototype)
	ret := p.startNode(KindFunctionReturnType)
	if !p.optional(ret, TokenVoid) {
		ret.AddChild(p.parseDataType())
	}
	node.AddLabeled("return", p.finishNode(ret))
	node.AddLabeled("name", p.parseIdentifier())
	node.AddLabeled("params", p.parseFunctionParameterListPrototype())
	return p.finishNode(node)
}

func (p *Parser) parseFunctionParameterListPrototype() *Node {
	node := p.startNode(KindFunctionParameterListPrototype)
	p.expect(node, TokenLParen)
	if !p.check(TokenRParen) {
		node.AddLabeled("param", p.parseParameter())
		for p.optional(node, TokenComma) {
			node.AddLabeled("param", p.parseParameter())
		}
	}
	p.expect(node, TokenRParen)
	return p.finishNode(node)
}

// isVarargs reports whether '...' appears in the parameter at the
// lookahead, before the next top-level ',' or ')'.
func (p *Parser) isVarargs() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case TokenLParen, TokenLBracket, TokenLT, TokenLBrace:
			depth++
		case TokenGT, TokenRBracket, TokenRBrace:
			depth--
		case TokenRParen:
			if depth == 0 {
				return false
			}
			depth--
		case TokenComma:
			if depth == 0 {
				return false
			}
		case TokenEllipsis:
			return depth == 0
		case TokenEOF, TokenSemicolon:
			return false
		}
	}
	return false
}

func (p *Parser) parseParameter() *Node {
	if p.isVarargs() {
		return p.parseVarargsParameter()
	}
	return p.parseFunctionParameter()
}

// isCategoryParam reports whether the lookahead starts a 'type' or type
// category parameter rather than a data-typed one.
func (p *Parser) isCategoryParam() bool {
	k := p.peek().Kind
	if k == TokenRef {
		return isTypeCategoryKeyword(p.peekN(1).Kind)
	}
	return k == TokenType || isTypeCategoryKeyword(k)
}

func (p *Parser) parseFunctionParameter() *Node {
	node := p.startNode(KindFunctionParameter)
	switch {
	case p.check(TokenType):
		node.AddLabeled("category", p.leaf())
	case p.isCategoryParam():
		p.optional(node, TokenRef)
		node.AddLabeled("category", p.parseTypeCategory())
	default:
		if p.match(TokenInput, TokenOutput, TokenInout) {
			node.AddLabeled("dir", p.parseSingleKeyword(KindFunctionParameterDir))
		}
		node.AddLabeled("type", p.parseDataType())
		node.AddLabeled("name", p.parseIdentifier())
		if p.optional(node, TokenAssign) {
			node.AddLabeled("default", p.parseExpression())
		}
		return p.finishNode(node)
	}
	node.AddLabeled("name", p.parseIdentifier())
	return p.finishNode(node)
}

func (p *Parser) parseVarargsParameter() *Node {
	node := p.startNode(KindVarargsParameter)
	switch {
	case p.check(TokenType):
		node.AddLabeled("category", p.leaf())
	case p.isCategoryParam():
		p.optional(node, TokenRef)
		node.AddLabeled("category", p.parseTypeCategory())
	default:
		node.AddLabeled("type", p.parseDataType())
	}
	p.expect(node, TokenEllipsis)
	node.AddLabeled("name", p.parseIdentifier())
	return p.finishNode(node)
}

func (p *Parser) parseImportFunction() *Node {
	node := p.startNode(KindImportFunction)
	p.expect(node, TokenImport)
	if p.match(TokenTarget, TokenSolve) {
		node.AddLabeled("platform", p.parsePlatformQualifier())
	}
	if p.isIdentifier() {
		node.AddLabeled("language", p.parseIdentifier())
	}
	p.expect(node, TokenFunction)
	if p.isTypeIdentifierStmt() {
		node.AddLabeled("type", p.parseTypeIdentifier())
	} else {
		node.AddLabeled("prototype", p.parseFunctionPrototype())
	}
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

// isTypeIdentifierStmt reports whether a type identifier followed by ';'
// starts at the lookahead.
func (p *Parser) isTypeIdentifierStmt() bool {
	if !p.isIdentifier() && !p.check(TokenColonColon) {
		return false
	}
	end, ok := p.predicate(func() { p.parseTypeIdentifier() })
	return ok && end < p.end() && p.tokens[end].Kind == TokenSemicolon
}

func (p *Parser) parseTargetTemplateFunction() *Node {
	node := p.startNode(KindTargetTemplateFunction)
	p.expect(node, TokenTarget)
	node.AddLabeled("language", p.parseIdentifier())
	p.expect(node, TokenFunction)
	node.AddLabeled("prototype", p.parseFunctionPrototype())
	p.expect(node, TokenAssign)
	node.AddLabeled("template", p.parseStringLiteral())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseImportClassDecl() *Node {
	node := p.startNode(KindImportClassDecl)
	p.expect(node, TokenImport)
	p.expect(node, TokenClass)
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenColon) {
		ext := p.startNode(KindImportClassExtends)
		ext.AddChild(p.leaf())
		ext.AddLabeled("type", p.parseTypeIdentifier())
		for p.optional(ext, TokenComma) {
			ext.AddLabeled("type", p.parseTypeIdentifier())
		}
		node.AddLabeled("extends", p.finishNode(ext))
	}
	p.parseBody(node, func() *Node {
		decl := p.startNode(KindImportClassFunctionDecl)
		decl.AddLabeled("prototype", p.parseFunctionPrototype())
		p.expect(decl, TokenSemicolon)
		return p.finishNode(decl)
	})
	return p.finishNode(node)
}
