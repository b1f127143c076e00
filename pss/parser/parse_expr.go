package parser

// Binary operator precedence, loosest first. Unary operators bind tighter
// than all of them.
const (
	precNone = iota
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precIn
	precShift
	precAdditive
	precMultiplicative
	precPower
)

func (p *Parser) parseExpression() *Node {
	saved := p.template
	p.template = false
	defer func() { p.template = saved }()

	cond := p.parseBinary(precLogicalOr)
	if !p.check(TokenQuestion) {
		return cond
	}
	node := p.wrapNode(KindConditionalExpression, "cond", cond)
	node.AddChild(p.leaf())
	node.AddLabeled("then", p.parseExpression())
	p.expect(node, TokenColon)
	node.AddLabeled("else", p.parseExpression())
	return p.finishNode(node)
}

// binaryOp returns the precedence of the binary operator at the lookahead
// and how many tokens spell it. '>>' is two adjacent '>' tokens.
func (p *Parser) binaryOp() (prec, width int) {
	tok := p.peek()
	switch tok.Kind {
	case TokenOr:
		return precLogicalOr, 1
	case TokenAnd:
		return precLogicalAnd, 1
	case TokenBitOr:
		return precBitOr, 1
	case TokenBitXor:
		return precBitXor, 1
	case TokenBitAnd:
		return precBitAnd, 1
	case TokenEQ, TokenNE:
		return precEquality, 1
	case TokenLT, TokenLE, TokenGE:
		return precRelational, 1
	case TokenGT:
		if p.template {
			return precNone, 0
		}
		if next := p.peekN(1); adjacent(tok, next) {
			switch next.Kind {
			case TokenGT:
				return precShift, 2
			case TokenGE:
				return precNone, 0
			}
		}
		return precRelational, 1
	case TokenShl, TokenShr:
		return precShift, 1
	case TokenPlus, TokenMinus:
		return precAdditive, 1
	case TokenStar, TokenSlash, TokenPercent:
		return precMultiplicative, 1
	case TokenStarStar:
		return precPower, 1
	}
	return precNone, 0
}

// parseBinary parses operators binding at least as tightly as minPrec.
// All binary operators are left-associative.
func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	for {
		if p.check(TokenIn) && precIn >= minPrec {
			left = p.parseInTail(left)
			continue
		}
		prec, width := p.binaryOp()
		if prec == precNone || prec < minPrec {
			return left
		}
		node := p.wrapNode(KindBinaryExpression, "lhs", left)
		node.AddLabeled("op", p.leaf())
		for i := 1; i < width; i++ {
			node.AddChild(p.leaf())
		}
		node.AddLabeled("rhs", p.parseBinary(prec+1))
		left = p.finishNode(node)
	}
}

// parseInTail parses the set-membership suffix of lhs.
func (p *Parser) parseInTail(lhs *Node) *Node {
	node := p.wrapNode(KindInExpression, "lhs", lhs)
	p.expect(node, TokenIn)
	if p.optional(node, TokenLBracket) {
		node.AddLabeled("ranges", p.parseOpenRangeList())
		p.expect(node, TokenRBracket)
	} else {
		node.AddLabeled("collection", p.parseBinary(precShift))
	}
	return p.finishNode(node)
}

func isUnaryOperator(k TokenKind) bool {
	switch k {
	case TokenPlus, TokenMinus, TokenNot, TokenTilde, TokenBitAnd, TokenBitOr, TokenBitXor:
		return true
	}
	return false
}

func (p *Parser) parseUnary() *Node {
	if !isUnaryOperator(p.peek().Kind) {
		return p.parsePrimary()
	}
	node := p.startNode(KindUnaryExpression)
	node.AddLabeled("op", p.leaf())
	node.AddLabeled("operand", p.parseUnary())
	return p.finishNode(node)
}

func (p *Parser) parsePrimary() *Node {
	switch p.peek().Kind {
	case TokenDecLiteral, TokenOctLiteral, TokenHexLiteral,
		TokenBasedHexLiteral, TokenBasedDecLiteral, TokenBasedBinLiteral, TokenBasedOctLiteral:
		return p.parseNumber()
	case TokenLBrace:
		return p.parseAggregateLiteral()
	case TokenTrue, TokenFalse:
		return p.parseSingleKeyword(KindBoolLiteral)
	case TokenString, TokenTripleString:
		return p.parseStringLiteral()
	case TokenNull:
		return p.parseSingleKeyword(KindNullRef)
	case TokenLParen:
		if p.isCast() {
			return p.parseCastExpression()
		}
		return p.parseParenExpr()
	case TokenID, TokenEscapedID, TokenColonColon, TokenSuper:
		return p.parseRefPath()
	case TokenCompile:
		if p.peekN(1).Kind == TokenHas {
			return p.parseCompileHasExpr()
		}
	}
	return p.errorNode(PredictionFailure, p.grammar.RuleByName("expression").First(), "")
}

func (p *Parser) parseNumber() *Node {
	node := p.startNode(KindNumber)
	if p.check(TokenDecLiteral) && isBasedLiteral(p.peekN(1).Kind) {
		node.AddLabeled("width", p.leaf())
	}
	node.AddLabeled("value", p.leaf())
	return p.finishNode(node)
}

func isBasedLiteral(k TokenKind) bool {
	switch k {
	case TokenBasedHexLiteral, TokenBasedDecLiteral, TokenBasedBinLiteral, TokenBasedOctLiteral:
		return true
	}
	return false
}

func (p *Parser) parseStringLiteral() *Node {
	node := p.startNode(KindStringLiteral)
	if p.match(TokenString, TokenTripleString) {
		node.AddChild(p.leaf())
	} else {
		node.AddChild(p.errorNode(TokenMismatch, NewTokenSet(TokenString, TokenTripleString), ""))
	}
	return p.finishNode(node)
}

func (p *Parser) parseParenExpr() *Node {
	node := p.startNode(KindParenExpr)
	p.expect(node, TokenLParen)
	node.AddLabeled("expr", p.parseExpression())
	p.expect(node, TokenRParen)
	return p.finishNode(node)
}

// startsOperand reports whether k can only begin an operand, never a binary
// operator.
func startsOperand(k TokenKind) bool {
	switch k {
	case TokenID, TokenEscapedID, TokenLParen, TokenLBrace, TokenNot, TokenTilde,
		TokenTrue, TokenFalse, TokenNull, TokenString, TokenTripleString,
		TokenDecLiteral, TokenOctLiteral, TokenHexLiteral,
		TokenBasedHexLiteral, TokenBasedDecLiteral, TokenBasedBinLiteral, TokenBasedOctLiteral:
		return true
	}
	return false
}

// isCast reports whether '(' at the lookahead starts a cast: a built-in
// scalar type in parentheses, or a parenthesized type name followed by a
// token that can only start an operand.
func (p *Parser) isCast() bool {
	switch p.peekN(1).Kind {
	case TokenInt, TokenBit, TokenBool:
		return true
	case TokenID, TokenEscapedID, TokenColonColon:
	default:
		return false
	}
	end, ok := p.predicate(func() {
		p.advance()
		p.parseTypeIdentifier()
		if !p.check(TokenRParen) {
			p.bail(NewTokenSet(TokenRParen))
		}
		p.advance()
	})
	return ok && end < p.end() && startsOperand(p.tokens[end].Kind)
}

func (p *Parser) parseCastExpression() *Node {
	node := p.startNode(KindCastExpression)
	p.expect(node, TokenLParen)
	node.AddLabeled("type", p.parseCastingType())
	p.expect(node, TokenRParen)
	node.AddLabeled("operand", p.parseUnary())
	return p.finishNode(node)
}

func (p *Parser) parseCastingType() *Node {
	node := p.startNode(KindCastingType)
	switch p.peek().Kind {
	case TokenInt, TokenBit:
		node.AddChild(p.parseIntegerType())
	case TokenBool:
		node.AddChild(p.parseSingleKeyword(KindBoolType))
	default:
		node.AddChild(p.parseTypeIdentifier())
	}
	return p.finishNode(node)
}

// isStaticRefPath reports whether the lookahead starts a '::'-qualified
// reference. A '<' after a name is a template argument list only when the
// matching '>' is followed by '::'.
func (p *Parser) isStaticRefPath() bool {
	switch {
	case p.check(TokenColonColon):
		return true
	case !p.isIdentifier():
		return false
	case p.peekN(1).Kind == TokenColonColon:
		return true
	case p.peekN(1).Kind == TokenLT:
		return p.isTemplateScope()
	}
	return false
}

// isTemplateScope reports whether 'name <...> ::' starts at the lookahead.
// The answer is cached per position.
func (p *Parser) isTemplateScope() bool {
	key := memoKey{kind: KindTemplateParamValueList, alt: -2, pos: p.pos, limit: p.limit}
	if p.memo != nil {
		if e, ok := p.memo[key]; ok {
			return e.ok
		}
	}
	end, ok := p.predicate(func() {
		p.advance()
		p.parseTemplateParamValueList()
	})
	scope := ok && end < p.end() && p.tokens[end].Kind == TokenColonColon
	if p.memo != nil {
		p.memo[key] = &memoEntry{ok: scope, end: end}
	}
	return scope
}

// parseTemplateValue parses a shift_expression inside a template argument
// list. A '>' there ends the value, so 'a<b<8>>' closes two lists.
func (p *Parser) parseTemplateValue() *Node {
	saved := p.template
	p.template = true
	defer func() { p.template = saved }()
	return p.parseBinary(precShift)
}

func (p *Parser) parseRefPath() *Node {
	node := p.startNode(KindRefPath)
	switch {
	case p.isStaticRefPath():
		node.AddLabeled("static", p.parseStaticRefPath())
		if p.check(TokenDot) && isIdentKind(p.peekN(1).Kind) {
			node.AddChild(p.leaf())
			node.AddLabeled("path", p.parseHierarchicalId())
		}
	case p.check(TokenSuper):
		node.AddLabeled("super", p.leaf())
		p.expect(node, TokenDot)
		node.AddLabeled("path", p.parseHierarchicalId())
	default:
		node.AddLabeled("path", p.parseHierarchicalId())
	}
	if p.check(TokenLBracket) {
		node.AddLabeled("slice", p.parseBitSlice())
	}
	return p.finishNode(node)
}

func (p *Parser) parseStaticRefPath() *Node {
	node := p.startNode(KindStaticRefPath)
	p.optional(node, TokenColonColon)
	for p.isIdentifier() && (p.peekN(1).Kind == TokenColonColon || p.peekN(1).Kind == TokenLT && p.isTemplateScope()) {
		node.AddLabeled("scope", p.parseTypeIdentifierElem())
		p.expect(node, TokenColonColon)
	}
	node.AddLabeled("member", p.parseMemberPathElem())
	return p.finishNode(node)
}

func (p *Parser) parseBitSlice() *Node {
	node := p.startNode(KindBitSlice)
	p.expect(node, TokenLBracket)
	node.AddLabeled("msb", p.parseExpression())
	p.expect(node, TokenColon)
	node.AddLabeled("lsb", p.parseExpression())
	p.expect(node, TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) parseFunctionParameterList() *Node {
	node := p.startNode(KindFunctionParameterList)
	p.expect(node, TokenLParen)
	if !p.check(TokenRParen) {
		node.AddLabeled("arg", p.parseExpression())
		for p.optional(node, TokenComma) {
			node.AddLabeled("arg", p.parseExpression())
		}
	}
	p.expect(node, TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseAggregateLiteral() *Node {
	node := p.startNode(KindAggregateLiteral)
	switch {
	case p.peekN(1).Kind == TokenRBrace:
		lit := p.startNode(KindEmptyAggregateLiteral)
		p.expect(lit, TokenLBrace)
		p.expect(lit, TokenRBrace)
		node.AddChild(p.finishNode(lit))
	case p.peekN(1).Kind == TokenDot:
		node.AddChild(p.parseStructLiteral())
	default:
		node.AddChild(p.parseValueListOrMap())
	}
	return p.finishNode(node)
}

func (p *Parser) parseStructLiteral() *Node {
	node := p.startNode(KindStructLiteral)
	p.expect(node, TokenLBrace)
	for {
		item := p.startNode(KindStructLiteralItem)
		p.expect(item, TokenDot)
		item.AddLabeled("name", p.parseIdentifier())
		p.expect(item, TokenAssign)
		item.AddLabeled("value", p.parseExpression())
		node.AddLabeled("item", p.finishNode(item))
		if !p.optional(node, TokenComma) {
			break
		}
	}
	p.expect(node, TokenRBrace)
	return p.finishNode(node)
}

// parseValueListOrMap parses a value list, or a map literal when the first
// element is followed by ':'.
func (p *Parser) parseValueListOrMap() *Node {
	node := p.startNode(KindValueListLiteral)
	p.expect(node, TokenLBrace)
	first := p.parseExpression()
	if !p.check(TokenColon) {
		node.AddLabeled("item", first)
		for p.optional(node, TokenComma) {
			node.AddLabeled("item", p.parseExpression())
		}
		p.expect(node, TokenRBrace)
		return p.finishNode(node)
	}
	p.retag(node, KindMapLiteral)
	item := p.wrapNode(KindMapLiteralItem, "key", first)
	node.AddLabeled("item", p.finishMapItem(item))
	for p.optional(node, TokenComma) {
		item := p.startNode(KindMapLiteralItem)
		item.AddLabeled("key", p.parseExpression())
		node.AddLabeled("item", p.finishMapItem(item))
	}
	p.expect(node, TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) finishMapItem(item *Node) *Node {
	p.expect(item, TokenColon)
	item.AddLabeled("value", p.parseExpression())
	return p.finishNode(item)
}

func (p *Parser) parseOpenRangeList() *Node {
	node := p.startNode(KindOpenRangeList)
	node.AddChild(p.parseOpenRangeValue())
	for p.optional(node, TokenComma) {
		node.AddChild(p.parseOpenRangeValue())
	}
	return p.finishNode(node)
}

func (p *Parser) parseOpenRangeValue() *Node {
	node := p.startNode(KindOpenRangeValue)
	node.AddLabeled("low", p.parseExpression())
	if p.optional(node, TokenDotDot) {
		node.AddLabeled("high", p.parseExpression())
	}
	return p.finishNode(node)
}
