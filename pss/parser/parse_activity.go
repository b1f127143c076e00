package parser

func (p *Parser) parseActivityStmt() *Node {
	node := p.startNode(KindActivityStmt)
	switch tok := p.peek().Kind; tok {
	case TokenAction:
		node.AddChild(p.parseActivityDataField())
	case TokenBind:
		node.AddChild(p.parseActivityBindStmt())
	case TokenConstraint:
		if p.isSchedulingConstraint() {
			node.AddChild(p.parseActivitySchedulingConstraint())
		} else {
			node.AddChild(p.parseActivityConstraintStmt())
		}
	case TokenSemicolon:
		node.AddChild(p.parseStmtTerminator())
	case TokenID, TokenEscapedID, TokenColonColon:
		node.AddChild(p.choose(KindActivityStmt,
			alt(0, p.parseLabeledActivityStmt),
			alt(3, p.parseActionHandleDeclaration)))
	default:
		if p.grammar.First(KindLabeledActivityStmt).Has(tok) {
			node.AddChild(p.parseLabeledActivityStmt())
		} else {
			node.AddChild(p.noViableAlt(KindActivityStmt))
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseLabeledActivityStmt() *Node {
	node := p.startNode(KindLabeledActivityStmt)
	if p.isIdentifier() && p.peekN(1).Kind == TokenColon {
		node.AddLabeled("label", p.parseIdentifier())
		node.AddChild(p.leaf())
	}
	var stmt *Node
	switch p.peek().Kind {
	case TokenDo:
		stmt = p.parseActivityActionTraversalStmt()
	case TokenSequence, TokenLBrace:
		stmt = p.parseActivitySequenceBlockStmt()
	case TokenParallel:
		stmt = p.parseActivityJoinedBlock(KindActivityParallelStmt, TokenParallel)
	case TokenSchedule:
		stmt = p.parseActivityJoinedBlock(KindActivityScheduleStmt, TokenSchedule)
	case TokenRepeat, TokenWhile:
		stmt = p.parseActivityRepeatStmt()
	case TokenForeach:
		stmt = p.parseActivityForeachStmt()
	case TokenSelect:
		stmt = p.parseActivitySelectStmt()
	case TokenIf:
		stmt = p.parseActivityIfElseStmt()
	case TokenMatch:
		stmt = p.parseActivityMatchStmt()
	case TokenReplicate:
		stmt = p.parseActivityReplicateStmt()
	case TokenSuper:
		stmt = p.parseActivitySuperStmt()
	case TokenAtomic:
		stmt = p.parseActivityAtomicBlockStmt()
	case TokenID, TokenEscapedID:
		if p.peekN(1).Kind == TokenLParen {
			stmt = p.parseSymbolCall()
		} else {
			stmt = p.parseActivityActionTraversalStmt()
		}
	default:
		stmt = p.noViableAlt(KindLabeledActivityStmt)
	}
	node.AddLabeled("stmt", stmt)
	return p.finishNode(node)
}

func (p *Parser) parseActivityActionTraversalStmt() *Node {
	node := p.startNode(KindActivityActionTraversalStmt)
	if p.optional(node, TokenDo) {
		node.AddLabeled("type", p.parseTagged(KindActionTypeIdentifier))
	} else {
		node.AddLabeled("target", p.parseIdentifier())
		if p.optional(node, TokenLBracket) {
			node.AddLabeled("index", p.parseExpression())
			p.expect(node, TokenRBracket)
		}
	}
	node.AddLabeled("constraints", p.parseInlineConstraintsOrEmpty())
	return p.finishNode(node)
}

func (p *Parser) parseInlineConstraintsOrEmpty() *Node {
	node := p.startNode(KindInlineConstraintsOrEmpty)
	switch {
	case p.optional(node, TokenWith):
		node.AddLabeled("body", p.parseConstraintSet())
	case p.optional(node, TokenSemicolon):
	default:
		node.AddChild(p.noViableAlt(KindInlineConstraintsOrEmpty))
	}
	return p.finishNode(node)
}

func (p *Parser) parseActivitySequenceBlockStmt() *Node {
	node := p.startNode(KindActivitySequenceBlockStmt)
	p.optional(node, TokenSequence)
	p.parseBody(node, p.parseActivityStmt)
	return p.finishNode(node)
}

// parseActivityJoinedBlock parses parallel and schedule blocks.
func (p *Parser) parseActivityJoinedBlock(kind NodeKind, keyword TokenKind) *Node {
	node := p.startNode(kind)
	p.expect(node, keyword)
	if p.match(TokenJoinBranch, TokenJoinSelect, TokenJoinNone, TokenJoinFirst) {
		node.AddLabeled("join", p.parseActivityJoinSpec())
	}
	p.parseBody(node, p.parseActivityStmt)
	return p.finishNode(node)
}

func (p *Parser) parseActivityJoinSpec() *Node {
	node := p.startNode(KindActivityJoinSpec)
	switch p.peek().Kind {
	case TokenJoinBranch:
		spec := p.startNode(KindActivityJoinBranch)
		spec.AddChild(p.leaf())
		p.expect(spec, TokenLParen)
		spec.AddLabeled("label", p.parseIdentifier())
		for p.optional(spec, TokenComma) {
			spec.AddLabeled("label", p.parseIdentifier())
		}
		p.expect(spec, TokenRParen)
		node.AddChild(p.finishNode(spec))
	case TokenJoinSelect, TokenJoinFirst:
		kind := KindActivityJoinSelect
		if p.check(TokenJoinFirst) {
			kind = KindActivityJoinFirst
		}
		spec := p.startNode(kind)
		spec.AddChild(p.leaf())
		p.expect(spec, TokenLParen)
		spec.AddLabeled("count", p.parseExpression())
		p.expect(spec, TokenRParen)
		node.AddChild(p.finishNode(spec))
	case TokenJoinNone:
		node.AddChild(p.parseSingleKeyword(KindActivityJoinNone))
	default:
		node.AddChild(p.noViableAlt(KindActivityJoinSpec))
	}
	return p.finishNode(node)
}

func (p *Parser) parseActivityRepeatStmt() *Node {
	node := p.startNode(KindActivityRepeatStmt)
	p.parseRepeat(node, p.parseActivityStmt)
	return p.finishNode(node)
}

// parseRepeat parses the three loop forms shared by activities and
// procedural code: while, counted repeat and repeat-while.
func (p *Parser) parseRepeat(node *Node, body func() *Node) {
	if p.optional(node, TokenWhile) {
		p.expect(node, TokenLParen)
		node.AddLabeled("cond", p.parseExpression())
		p.expect(node, TokenRParen)
		node.AddLabeled("body", body())
		return
	}
	p.expect(node, TokenRepeat)
	if !p.check(TokenLParen) {
		node.AddLabeled("body", body())
		p.expect(node, TokenWhile)
		p.expect(node, TokenLParen)
		node.AddLabeled("cond", p.parseExpression())
		p.expect(node, TokenRParen)
		p.expect(node, TokenSemicolon)
		return
	}
	p.expect(node, TokenLParen)
	if p.isIdentifier() && p.peekN(1).Kind == TokenColon {
		node.AddLabeled("iterator", p.parseIdentifier())
		node.AddChild(p.leaf())
	}
	node.AddLabeled("count", p.parseExpression())
	p.expect(node, TokenRParen)
	node.AddLabeled("body", body())
}

func (p *Parser) parseActivityForeachStmt() *Node {
	node := p.startNode(KindActivityForeachStmt)
	p.expect(node, TokenForeach)
	p.parseForeachHeader(node)
	node.AddLabeled("body", p.parseActivityStmt())
	return p.finishNode(node)
}

func (p *Parser) parseActivityAtomicBlockStmt() *Node {
	node := p.startNode(KindActivityAtomicBlockStmt)
	p.expect(node, TokenAtomic)
	p.parseBody(node, p.parseActivityStmt)
	return p.finishNode(node)
}

func (p *Parser) parseActivitySelectStmt() *Node {
	node := p.startNode(KindActivitySelectStmt)
	p.expect(node, TokenSelect)
	p.expect(node, TokenLBrace)
	branches := 0
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress(node)
		node.AddLabeled("branch", p.parseSelectBranch())
		branches++
		progress()
	}
	if branches < 2 && !p.halted {
		node.AddChild(p.errorNode(PredictionFailure, p.grammar.First(KindSelectBranch),
			"select requires at least two branches"))
	}
	p.expect(node, TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseSelectBranch() *Node {
	node := p.startNode(KindSelectBranch)
	switch {
	case p.check(TokenLParen):
		node.AddChild(p.leaf())
		node.AddLabeled("guard", p.parseExpression())
		p.expect(node, TokenRParen)
		if p.optional(node, TokenLBracket) {
			node.AddLabeled("weight", p.parseExpression())
			p.expect(node, TokenRBracket)
		}
		p.expect(node, TokenColon)
	case p.check(TokenLBracket):
		node.AddChild(p.leaf())
		node.AddLabeled("weight", p.parseExpression())
		p.expect(node, TokenRBracket)
		p.expect(node, TokenColon)
	}
	node.AddLabeled("body", p.parseActivityStmt())
	return p.finishNode(node)
}

func (p *Parser) parseActivityIfElseStmt() *Node {
	node := p.startNode(KindActivityIfElseStmt)
	p.parseIfElse(node, p.parseActivityStmt)
	return p.finishNode(node)
}

// parseIfElse parses 'if (cond) then [else else]' with branches of one
// statement kind.
func (p *Parser) parseIfElse(node *Node, stmt func() *Node) {
	p.expect(node, TokenIf)
	p.expect(node, TokenLParen)
	node.AddLabeled("cond", p.parseExpression())
	p.expect(node, TokenRParen)
	node.AddLabeled("then", stmt())
	if p.optional(node, TokenElse) {
		node.AddLabeled("else", stmt())
	}
}

func (p *Parser) parseActivityMatchStmt() *Node {
	node := p.startNode(KindActivityMatchStmt)
	p.parseMatch(node, KindMatchChoice, p.parseActivityStmt)
	return p.finishNode(node)
}

// parseMatch parses 'match (expr) { choice... }' where each choice body is
// parsed by stmt.
func (p *Parser) parseMatch(node *Node, choiceKind NodeKind, stmt func() *Node) {
	p.expect(node, TokenMatch)
	p.expect(node, TokenLParen)
	node.AddLabeled("subject", p.parseExpression())
	p.expect(node, TokenRParen)
	p.parseBody(node, func() *Node {
		return p.parseMatchChoice(choiceKind, stmt)
	})
}

func (p *Parser) parseMatchChoice(kind NodeKind, stmt func() *Node) *Node {
	node := p.startNode(kind)
	switch {
	case p.optional(node, TokenLBracket):
		node.AddLabeled("ranges", p.parseOpenRangeList())
		p.expect(node, TokenRBracket)
	case p.check(TokenDefault):
		node.AddLabeled("default", p.leaf())
	default:
		node.AddChild(p.noViableAlt(kind))
		return p.finishNode(node)
	}
	p.expect(node, TokenColon)
	node.AddLabeled("body", stmt())
	return p.finishNode(node)
}

func (p *Parser) parseActivityReplicateStmt() *Node {
	node := p.startNode(KindActivityReplicateStmt)
	p.expect(node, TokenReplicate)
	p.expect(node, TokenLParen)
	if p.isIdentifier() && p.peekN(1).Kind == TokenColon {
		node.AddLabeled("iterator", p.parseIdentifier())
		node.AddChild(p.leaf())
	}
	node.AddLabeled("count", p.parseExpression())
	p.expect(node, TokenRParen)
	if p.isIdentifier() && p.peekN(1).Kind == TokenLBracket &&
		p.peekN(2).Kind == TokenRBracket && p.peekN(3).Kind == TokenColon {
		node.AddLabeled("label", p.parseIdentifier())
		node.AddChild(p.leaf())
		node.AddChild(p.leaf())
		node.AddChild(p.leaf())
	}
	node.AddLabeled("body", p.parseLabeledActivityStmt())
	return p.finishNode(node)
}

func (p *Parser) parseActivitySuperStmt() *Node {
	node := p.startNode(KindActivitySuperStmt)
	p.expect(node, TokenSuper)
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseActivityBindStmt() *Node {
	node := p.startNode(KindActivityBindStmt)
	p.expect(node, TokenBind)
	node.AddLabeled("target", p.parseHierarchicalId())
	items := p.startNode(KindActivityBindItemOrList)
	if p.optional(items, TokenLBrace) {
		items.AddChild(p.parseHierarchicalIdList())
		p.expect(items, TokenRBrace)
	} else {
		items.AddChild(p.parseHierarchicalId())
	}
	node.AddLabeled("items", p.finishNode(items))
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseActivityConstraintStmt() *Node {
	node := p.startNode(KindActivityConstraintStmt)
	p.expect(node, TokenConstraint)
	node.AddLabeled("body", p.parseConstraintSet())
	return p.finishNode(node)
}

func (p *Parser) parseSymbolCall() *Node {
	node := p.startNode(KindSymbolCall)
	node.AddLabeled("name", p.parseIdentifier())
	p.expect(node, TokenLParen)
	if !p.check(TokenRParen) {
		node.AddLabeled("arg", p.parseExpression())
		for p.optional(node, TokenComma) {
			node.AddLabeled("arg", p.parseExpression())
		}
	}
	p.expect(node, TokenRParen)
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}
