package parser

func (p *Parser) parseCovergroupDeclaration() *Node {
	node := p.startNode(KindCovergroupDeclaration)
	p.expect(node, TokenCovergroup)
	node.AddLabeled("name", p.parseIdentifier())
	if p.optional(node, TokenLParen) {
		node.AddLabeled("port", p.parseCovergroupPort())
		for p.optional(node, TokenComma) {
			node.AddLabeled("port", p.parseCovergroupPort())
		}
		p.expect(node, TokenRParen)
	}
	p.parseBody(node, p.parseCovergroupBodyItem)
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupPort() *Node {
	node := p.startNode(KindCovergroupPort)
	node.AddLabeled("type", p.parseDataType())
	node.AddLabeled("name", p.parseIdentifier())
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupBodyItem() *Node {
	node := p.startNode(KindCovergroupBodyItem)
	switch tok := p.peek().Kind; {
	case tok == TokenOption || tok == TokenTypeOption:
		node.AddChild(p.parseCovergroupOption())
	case tok == TokenCoverpoint:
		node.AddChild(p.parseCovergroupCoverpoint())
	case tok == TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	case isIdentKind(tok) && p.peekN(1).Kind == TokenColon && p.peekN(2).Kind == TokenCross:
		node.AddChild(p.parseCovergroupCross())
	case isIdentKind(tok) || tok == TokenColonColon || isDataTypeKeyword(tok):
		node.AddChild(p.parseCovergroupCoverpoint())
	default:
		node.AddChild(p.noViableAlt(KindCovergroupBodyItem))
	}
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupOption() *Node {
	node := p.startNode(KindCovergroupOption)
	if p.match(TokenOption, TokenTypeOption) {
		node.AddLabeled("scope", p.leaf())
	} else {
		node.AddChild(p.noViableAlt(KindCovergroupOption))
	}
	p.expect(node, TokenDot)
	node.AddLabeled("name", p.parseIdentifier())
	p.expect(node, TokenAssign)
	node.AddLabeled("value", p.parseExpression())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupInstantiation() *Node {
	node := p.startNode(KindCovergroupInstantiation)
	if p.check(TokenCovergroup) && p.peekN(1).Kind == TokenLBrace {
		node.AddChild(p.parseInlineCovergroup())
	} else {
		node.AddChild(p.parseCovergroupTypeInstantiation())
	}
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupTypeInstantiation() *Node {
	node := p.startNode(KindCovergroupTypeInstantiation)
	node.AddLabeled("type", p.parseTagged(KindCovergroupTypeIdentifier))
	node.AddLabeled("name", p.parseIdentifier())
	p.expect(node, TokenLParen)
	node.AddLabeled("ports", p.parseCovergroupPortmapList())
	p.expect(node, TokenRParen)
	node.AddLabeled("options", p.parseCovergroupOptionsOrEmpty())
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupPortmapList() *Node {
	node := p.startNode(KindCovergroupPortmapList)
	switch {
	case p.check(TokenRParen):
	case p.check(TokenDot):
		node.AddChild(p.parseCovergroupPortmap())
		for p.optional(node, TokenComma) {
			node.AddChild(p.parseCovergroupPortmap())
		}
	default:
		node.AddChild(p.parseHierarchicalIdList())
	}
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupPortmap() *Node {
	node := p.startNode(KindCovergroupPortmap)
	p.expect(node, TokenDot)
	node.AddLabeled("name", p.parseIdentifier())
	p.expect(node, TokenLParen)
	node.AddLabeled("value", p.parseHierarchicalId())
	p.expect(node, TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupOptionsOrEmpty() *Node {
	node := p.startNode(KindCovergroupOptionsOrEmpty)
	if p.optional(node, TokenWith) {
		p.parseBody(node, p.parseCovergroupOption)
	} else {
		p.expect(node, TokenSemicolon)
	}
	return p.finishNode(node)
}

func (p *Parser) parseInlineCovergroup() *Node {
	node := p.startNode(KindInlineCovergroup)
	p.expect(node, TokenCovergroup)
	p.parseBody(node, p.parseCovergroupBodyItem)
	node.AddLabeled("name", p.parseIdentifier())
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupCoverpoint() *Node {
	node := p.startNode(KindCovergroupCoverpoint)
	if !p.check(TokenCoverpoint) {
		if !(p.isIdentifier() && p.peekN(1).Kind == TokenColon) {
			node.AddLabeled("type", p.parseDataType())
		}
		node.AddLabeled("name", p.parseIdentifier())
		p.expect(node, TokenColon)
	}
	p.expect(node, TokenCoverpoint)
	node.AddLabeled("target", p.parseExpression())
	if p.optional(node, TokenIff) {
		p.expect(node, TokenLParen)
		node.AddLabeled("iff", p.parseExpression())
		p.expect(node, TokenRParen)
	}
	node.AddLabeled("bins", p.parseBinsOrEmpty())
	return p.finishNode(node)
}

func (p *Parser) parseBinsOrEmpty() *Node {
	node := p.startNode(KindBinsOrEmpty)
	if p.check(TokenLBrace) {
		p.parseBody(node, p.parseCovergroupCoverpointBodyItem)
	} else {
		p.expect(node, TokenSemicolon)
	}
	return p.finishNode(node)
}

func isBinsKeyword(k TokenKind) bool {
	return k == TokenBins || k == TokenIllegalBins || k == TokenIgnoreBins
}

func (p *Parser) parseCovergroupCoverpointBodyItem() *Node {
	node := p.startNode(KindCovergroupCoverpointBodyItem)
	switch tok := p.peek().Kind; {
	case tok == TokenOption || tok == TokenTypeOption:
		node.AddChild(p.parseCovergroupOption())
	case isBinsKeyword(tok):
		node.AddChild(p.parseCovergroupCoverpointBinspec())
	default:
		node.AddChild(p.noViableAlt(KindCovergroupCoverpointBodyItem))
	}
	return p.finishNode(node)
}

func (p *Parser) parseBinsKeyword() *Node {
	node := p.startNode(KindBinsKeyword)
	if isBinsKeyword(p.peek().Kind) {
		node.AddChild(p.leaf())
	} else {
		node.AddChild(p.noViableAlt(KindBinsKeyword))
	}
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupCoverpointBinspec() *Node {
	node := p.startNode(KindCovergroupCoverpointBinspec)
	node.AddLabeled("kind", p.parseBinsKeyword())
	node.AddLabeled("name", p.parseIdentifier())
	if p.optional(node, TokenLBracket) {
		if !p.check(TokenRBracket) {
			node.AddLabeled("count", p.parseExpression())
		}
		p.expect(node, TokenRBracket)
	}
	p.expect(node, TokenAssign)
	node.AddLabeled("bins", p.parseCoverpointBins())
	return p.finishNode(node)
}

func (p *Parser) parseCoverpointBins() *Node {
	node := p.startNode(KindCoverpointBins)
	switch {
	case p.optional(node, TokenLBracket):
		node.AddLabeled("ranges", p.parseOpenRangeList())
		p.expect(node, TokenRBracket)
		if p.optional(node, TokenWith) {
			p.expect(node, TokenLParen)
			node.AddLabeled("filter", p.parseExpression())
			p.expect(node, TokenRParen)
		}
	case p.isIdentifier():
		node.AddLabeled("coverpoint", p.parseIdentifier())
		p.expect(node, TokenWith)
		p.expect(node, TokenLParen)
		node.AddLabeled("filter", p.parseExpression())
		p.expect(node, TokenRParen)
	case p.check(TokenDefault):
		node.AddLabeled("default", p.leaf())
	default:
		node.AddChild(p.noViableAlt(KindCoverpointBins))
	}
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupCross() *Node {
	node := p.startNode(KindCovergroupCross)
	node.AddLabeled("name", p.parseIdentifier())
	p.expect(node, TokenColon)
	p.expect(node, TokenCross)
	node.AddLabeled("coverpoint", p.parseIdentifier())
	for p.optional(node, TokenComma) {
		node.AddLabeled("coverpoint", p.parseIdentifier())
	}
	if p.optional(node, TokenIff) {
		p.expect(node, TokenLParen)
		node.AddLabeled("iff", p.parseExpression())
		p.expect(node, TokenRParen)
	}
	body := p.startNode(KindCrossItemOrNull)
	if p.check(TokenLBrace) {
		p.parseBody(body, p.parseCovergroupCrossBodyItem)
	} else {
		p.expect(body, TokenSemicolon)
	}
	node.AddLabeled("body", p.finishNode(body))
	return p.finishNode(node)
}

func (p *Parser) parseCovergroupCrossBodyItem() *Node {
	node := p.startNode(KindCovergroupCrossBodyItem)
	switch tok := p.peek().Kind; {
	case tok == TokenOption || tok == TokenTypeOption:
		node.AddChild(p.parseCovergroupOption())
	case isBinsKeyword(tok):
		spec := p.startNode(KindCovergroupCrossBinspec)
		spec.AddLabeled("kind", p.parseBinsKeyword())
		spec.AddLabeled("name", p.parseIdentifier())
		p.expect(spec, TokenAssign)
		spec.AddLabeled("cross", p.parseIdentifier())
		p.expect(spec, TokenWith)
		p.expect(spec, TokenLParen)
		spec.AddLabeled("filter", p.parseExpression())
		p.expect(spec, TokenRParen)
		p.expect(spec, TokenSemicolon)
		node.AddChild(p.finishNode(spec))
	default:
		node.AddChild(p.noViableAlt(KindCovergroupCrossBodyItem))
	}
	return p.finishNode(node)
}
