package parser

func (p *Parser) parseConstraintDeclaration() *Node {
	node := p.startNode(KindConstraintDeclaration)
	if p.check(TokenDynamic) {
		node.AddLabeled("dynamic", p.leaf())
		p.expect(node, TokenConstraint)
		node.AddLabeled("name", p.parseIdentifier())
		node.AddLabeled("body", p.parseConstraintBlock())
		return p.finishNode(node)
	}
	p.expect(node, TokenConstraint)
	if p.isIdentifier() && p.peekN(1).Kind == TokenLBrace {
		node.AddLabeled("name", p.parseIdentifier())
		node.AddLabeled("body", p.parseConstraintBlock())
	} else {
		node.AddLabeled("body", p.parseConstraintSet())
	}
	return p.finishNode(node)
}

func (p *Parser) parseConstraintSet() *Node {
	node := p.startNode(KindConstraintSet)
	if p.check(TokenLBrace) {
		node.AddChild(p.parseConstraintBlock())
	} else {
		node.AddChild(p.parseConstraintBodyItem())
	}
	return p.finishNode(node)
}

func (p *Parser) parseConstraintBlock() *Node {
	node := p.startNode(KindConstraintBlock)
	p.parseBody(node, p.parseConstraintBodyItem)
	return p.finishNode(node)
}

func (p *Parser) parseConstraintBodyItem() *Node {
	node := p.startNode(KindConstraintBodyItem)
	switch p.peek().Kind {
	case TokenForeach:
		node.AddChild(p.parseForeachConstraintItem())
	case TokenForall:
		node.AddChild(p.parseForallConstraintItem())
	case TokenIf:
		node.AddChild(p.parseIfConstraintItem())
	case TokenUnique:
		node.AddChild(p.parseUniqueConstraintItem())
	case TokenDefault:
		if p.peekN(1).Kind == TokenDisable {
			node.AddChild(p.parseDefaultDisableConstraintItem())
		} else {
			node.AddChild(p.parseDefaultConstraintItem())
		}
	case TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	default:
		node.AddChild(p.parseExpressionConstraint())
	}
	return p.finishNode(node)
}

// parseExpressionConstraint parses the shared expression prefix of an
// expression constraint and an implication.
func (p *Parser) parseExpressionConstraint() *Node {
	expr := p.parseExpression()
	if p.check(TokenArrow) {
		node := p.wrapNode(KindImplicationConstraintItem, "cond", expr)
		node.AddChild(p.leaf())
		node.AddLabeled("body", p.parseConstraintSet())
		return p.finishNode(node)
	}
	node := p.wrapNode(KindExpressionConstraintItem, "expr", expr)
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

// parseForeachHeader parses '(' [ it ':' ] collection [ '[' index ']' ] ')'
// into node. A trailing '[' identifier ']' before the ')' is the index
// variable, not an element select.
func (p *Parser) parseForeachHeader(node *Node) {
	p.expect(node, TokenLParen)
	if p.isIdentifier() && p.peekN(1).Kind == TokenColon {
		node.AddLabeled("iterator", p.parseIdentifier())
		node.AddChild(p.leaf())
	}
	index := -1
	if end := p.findClose(p.pos, TokenLParen, TokenRParen); end-3 > p.pos &&
		p.tokens[end-1].Kind == TokenRBracket &&
		isIdentKind(p.tokens[end-2].Kind) &&
		p.tokens[end-3].Kind == TokenLBracket {
		index = end - 3
	}
	if index < 0 {
		node.AddLabeled("collection", p.parseExpression())
	} else {
		node.AddLabeled("collection", p.withLimit(index, p.parseExpression))
		p.expect(node, TokenLBracket)
		node.AddLabeled("index", p.parseIdentifier())
		p.expect(node, TokenRBracket)
	}
	p.expect(node, TokenRParen)
}

func (p *Parser) parseForeachConstraintItem() *Node {
	node := p.startNode(KindForeachConstraintItem)
	p.expect(node, TokenForeach)
	p.parseForeachHeader(node)
	node.AddLabeled("body", p.parseConstraintSet())
	return p.finishNode(node)
}

func (p *Parser) parseForallConstraintItem() *Node {
	node := p.startNode(KindForallConstraintItem)
	p.expect(node, TokenForall)
	p.expect(node, TokenLParen)
	node.AddLabeled("iterator", p.parseIdentifier())
	p.expect(node, TokenColon)
	node.AddLabeled("type", p.parseTypeIdentifier())
	if p.optional(node, TokenIn) {
		node.AddLabeled("scope", p.parseRefPath())
	}
	p.expect(node, TokenRParen)
	node.AddLabeled("body", p.parseConstraintSet())
	return p.finishNode(node)
}

func (p *Parser) parseIfConstraintItem() *Node {
	node := p.startNode(KindIfConstraintItem)
	p.expect(node, TokenIf)
	p.expect(node, TokenLParen)
	node.AddLabeled("cond", p.parseExpression())
	p.expect(node, TokenRParen)
	node.AddLabeled("then", p.parseConstraintSet())
	if p.optional(node, TokenElse) {
		node.AddLabeled("else", p.parseConstraintSet())
	}
	return p.finishNode(node)
}

func (p *Parser) parseUniqueConstraintItem() *Node {
	node := p.startNode(KindUniqueConstraintItem)
	p.expect(node, TokenUnique)
	p.expect(node, TokenLBrace)
	node.AddLabeled("items", p.parseHierarchicalIdList())
	p.expect(node, TokenRBrace)
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseDefaultConstraintItem() *Node {
	node := p.startNode(KindDefaultConstraintItem)
	p.expect(node, TokenDefault)
	node.AddLabeled("target", p.parseHierarchicalId())
	p.expect(node, TokenEQ)
	node.AddLabeled("value", p.parseExpression())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseDefaultDisableConstraintItem() *Node {
	node := p.startNode(KindDefaultDisableConstraintItem)
	p.expect(node, TokenDefault)
	p.expect(node, TokenDisable)
	node.AddLabeled("target", p.parseHierarchicalId())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}
