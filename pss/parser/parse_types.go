package parser

func (p *Parser) parseDataDeclaration() *Node {
	node := p.startNode(KindDataDeclaration)
	node.AddLabeled("type", p.parseDataType())
	node.AddLabeled("inst", p.parseDataInstantiation(KindDataInstantiation))
	for p.optional(node, TokenComma) {
		node.AddLabeled("inst", p.parseDataInstantiation(KindDataInstantiation))
	}
	p.expect(node, TokenSemicolon)
	return p.finishNode(node)
}

// parseDataInstantiation parses a declared name with optional dimension and
// initializer. kind selects the field or procedural form.
func (p *Parser) parseDataInstantiation(kind NodeKind) *Node {
	node := p.startNode(kind)
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenLBracket) {
		node.AddLabeled("dim", p.parseArrayDim())
	}
	if p.optional(node, TokenAssign) {
		node.AddLabeled("init", p.parseExpression())
	}
	return p.finishNode(node)
}

func (p *Parser) parseArrayDim() *Node {
	node := p.startNode(KindArrayDim)
	p.expect(node, TokenLBracket)
	node.AddLabeled("size", p.parseExpression())
	p.expect(node, TokenRBracket)
	return p.finishNode(node)
}

// isDataTypeKeyword reports whether k starts a built-in data type.
func isDataTypeKeyword(k TokenKind) bool {
	switch k {
	case TokenChandle, TokenInt, TokenBit, TokenStringKw, TokenBool,
		TokenFloat32, TokenFloat64, TokenArray, TokenList, TokenMap, TokenSetKw, TokenRef:
		return true
	}
	return false
}

func (p *Parser) parseDataType() *Node {
	return p.memoized(KindDataType, func() *Node {
		node := p.startNode(KindDataType)
		switch p.peek().Kind {
		case TokenChandle:
			node.AddChild(p.parseSingleKeyword(KindChandleType))
		case TokenInt, TokenBit:
			node.AddChild(p.parseIntegerType())
		case TokenStringKw:
			node.AddChild(p.parseStringType())
		case TokenBool:
			node.AddChild(p.parseSingleKeyword(KindBoolType))
		case TokenFloat32, TokenFloat64:
			node.AddChild(p.parseSingleKeyword(KindFloatType))
		case TokenArray, TokenList, TokenMap, TokenSetKw:
			node.AddChild(p.parseCollectionType())
		case TokenRef:
			node.AddChild(p.parseReferenceType())
		case TokenID, TokenEscapedID, TokenColonColon:
			typ := p.parseTypeIdentifier()
			if p.check(TokenIn) && p.peekN(1).Kind == TokenLBracket {
				node.AddChild(p.parseEnumType(typ))
			} else {
				node.AddChild(typ)
			}
		default:
			node.AddChild(p.noViableAlt(KindDataType))
		}
		return p.finishNode(node)
	})
}

// parseSingleKeyword parses a rule consisting of one keyword.
func (p *Parser) parseSingleKeyword(kind NodeKind) *Node {
	node := p.startNode(kind)
	node.AddChild(p.leaf())
	return p.finishNode(node)
}

func (p *Parser) parseIntegerType() *Node {
	node := p.startNode(KindIntegerType)
	if p.match(TokenInt, TokenBit) {
		node.AddLabeled("atom", p.leaf())
	} else {
		node.AddChild(p.noViableAlt(KindIntegerType))
	}
	if p.optional(node, TokenLBracket) {
		node.AddLabeled("msb", p.parseExpression())
		if p.optional(node, TokenColon) {
			node.AddLabeled("lsb", p.parseExpression())
		}
		p.expect(node, TokenRBracket)
	}
	if p.check(TokenIn) && p.peekN(1).Kind == TokenLBracket {
		node.AddChild(p.leaf())
		node.AddChild(p.leaf())
		node.AddLabeled("domain", p.parseDomainOpenRangeList())
		p.expect(node, TokenRBracket)
	}
	return p.finishNode(node)
}

func (p *Parser) parseDomainOpenRangeList() *Node {
	node := p.startNode(KindDomainOpenRangeList)
	node.AddChild(p.parseDomainOpenRangeValue())
	for p.optional(node, TokenComma) {
		node.AddChild(p.parseDomainOpenRangeValue())
	}
	return p.finishNode(node)
}

func (p *Parser) parseDomainOpenRangeValue() *Node {
	node := p.startNode(KindDomainOpenRangeValue)
	if p.optional(node, TokenDotDot) {
		node.AddLabeled("high", p.parseExpression())
		return p.finishNode(node)
	}
	node.AddLabeled("low", p.parseExpression())
	if p.optional(node, TokenDotDot) && !p.match(TokenComma, TokenRBracket) {
		node.AddLabeled("high", p.parseExpression())
	}
	return p.finishNode(node)
}

func (p *Parser) parseStringType() *Node {
	node := p.startNode(KindStringType)
	p.expect(node, TokenStringKw)
	if p.check(TokenIn) && p.peekN(1).Kind == TokenLBracket {
		node.AddChild(p.leaf())
		node.AddChild(p.leaf())
		node.AddLabeled("value", p.parseStringLiteral())
		for p.optional(node, TokenComma) {
			node.AddLabeled("value", p.parseStringLiteral())
		}
		p.expect(node, TokenRBracket)
	}
	return p.finishNode(node)
}

// parseEnumType wraps an already parsed type identifier followed by an
// 'in [...]' domain.
func (p *Parser) parseEnumType(typ *Node) *Node {
	id := p.wrapNode(KindEnumTypeIdentifier, "", typ)
	id = p.finishNode(id)
	node := p.wrapNode(KindEnumType, "type", id)
	p.expect(node, TokenIn)
	p.expect(node, TokenLBracket)
	node.AddLabeled("domain", p.parseDomainOpenRangeList())
	p.expect(node, TokenRBracket)
	return p.finishNode(node)
}

func (p *Parser) parseCollectionType() *Node {
	node := p.startNode(KindCollectionType)
	kind := p.peek().Kind
	node.AddLabeled("kind", p.leaf())
	p.expect(node, TokenLT)
	switch kind {
	case TokenArray:
		node.AddLabeled("elem", p.parseDataType())
		p.expect(node, TokenComma)
		size := p.startNode(KindArraySizeExpression)
		size.AddChild(p.parseTemplateValue())
		node.AddLabeled("size", p.finishNode(size))
	case TokenMap:
		node.AddLabeled("key", p.parseDataType())
		p.expect(node, TokenComma)
		node.AddLabeled("elem", p.parseDataType())
	default:
		node.AddLabeled("elem", p.parseDataType())
	}
	p.expect(node, TokenGT)
	return p.finishNode(node)
}

func (p *Parser) parseReferenceType() *Node {
	node := p.startNode(KindReferenceType)
	p.expect(node, TokenRef)
	node.AddLabeled("type", p.parseTagged(KindEntityTypeIdentifier))
	return p.finishNode(node)
}

func (p *Parser) parseTypeIdentifier() *Node {
	return p.memoized(KindTypeIdentifier, func() *Node {
		node := p.startNode(KindTypeIdentifier)
		p.optional(node, TokenColonColon)
		node.AddChild(p.parseTypeIdentifierElem())
		for p.check(TokenColonColon) && isIdentKind(p.peekN(1).Kind) {
			node.AddChild(p.leaf())
			node.AddChild(p.parseTypeIdentifierElem())
		}
		return p.finishNode(node)
	})
}

func (p *Parser) parseTypeIdentifierElem() *Node {
	node := p.startNode(KindTypeIdentifierElem)
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenLT) {
		node.AddLabeled("params", p.parseTemplateParamValueList())
	}
	return p.finishNode(node)
}

// parseTagged parses a type identifier inside a wrapper node that records
// what kind of type the context requires.
func (p *Parser) parseTagged(kind NodeKind) *Node {
	node := p.startNode(kind)
	node.AddChild(p.parseTypeIdentifier())
	return p.finishNode(node)
}

// Templates

func (p *Parser) parseTemplateParamDeclList() *Node {
	node := p.startNode(KindTemplateParamDeclList)
	p.expect(node, TokenLT)
	node.AddLabeled("param", p.parseTemplateParamDecl())
	for p.optional(node, TokenComma) {
		node.AddLabeled("param", p.parseTemplateParamDecl())
	}
	p.expect(node, TokenGT)
	return p.finishNode(node)
}

func isTypeCategoryKeyword(k TokenKind) bool {
	switch k {
	case TokenAction, TokenComponent, TokenStruct, TokenBuffer, TokenStream, TokenState, TokenResource:
		return true
	}
	return false
}

func (p *Parser) parseTemplateParamDecl() *Node {
	node := p.startNode(KindTemplateParamDecl)
	switch k := p.peek().Kind; {
	case k == TokenType || isTypeCategoryKeyword(k):
		node.AddChild(p.parseTypeParamDecl())
	default:
		node.AddChild(p.parseValueParamDecl())
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeParamDecl() *Node {
	node := p.startNode(KindTypeParamDecl)
	if p.check(TokenType) {
		node.AddChild(p.parseGenericTypeParamDecl())
	} else {
		node.AddChild(p.parseCategoryTypeParamDecl())
	}
	return p.finishNode(node)
}

func (p *Parser) parseGenericTypeParamDecl() *Node {
	node := p.startNode(KindGenericTypeParamDecl)
	p.expect(node, TokenType)
	node.AddLabeled("name", p.parseIdentifier())
	if p.optional(node, TokenAssign) {
		node.AddLabeled("default", p.parseTypeIdentifier())
	}
	return p.finishNode(node)
}

func (p *Parser) parseCategoryTypeParamDecl() *Node {
	node := p.startNode(KindCategoryTypeParamDecl)
	node.AddLabeled("category", p.parseTypeCategory())
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenColon) {
		restriction := p.startNode(KindTypeRestriction)
		p.expect(restriction, TokenColon)
		restriction.AddLabeled("type", p.parseTypeIdentifier())
		node.AddLabeled("restriction", p.finishNode(restriction))
	}
	if p.optional(node, TokenAssign) {
		node.AddLabeled("default", p.parseTypeIdentifier())
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeCategory() *Node {
	node := p.startNode(KindTypeCategory)
	switch p.peek().Kind {
	case TokenAction, TokenComponent:
		node.AddChild(p.leaf())
	default:
		node.AddChild(p.parseStructKind())
	}
	return p.finishNode(node)
}

func (p *Parser) parseValueParamDecl() *Node {
	node := p.startNode(KindValueParamDecl)
	node.AddLabeled("type", p.parseDataType())
	node.AddLabeled("name", p.parseIdentifier())
	if p.optional(node, TokenAssign) {
		node.AddLabeled("default", p.parseTemplateValue())
	}
	return p.finishNode(node)
}

func (p *Parser) parseTemplateParamValueList() *Node {
	node := p.startNode(KindTemplateParamValueList)
	p.expect(node, TokenLT)
	if !p.check(TokenGT) {
		node.AddLabeled("value", p.parseTemplateParamValue())
		for p.optional(node, TokenComma) {
			node.AddLabeled("value", p.parseTemplateParamValue())
		}
	}
	p.expect(node, TokenGT)
	return p.finishNode(node)
}

// parseTemplateParamValue prefers an expression, which must end at ',' or
// '>', and falls back to a data type.
func (p *Parser) parseTemplateParamValue() *Node {
	node := p.startNode(KindTemplateParamValue)
	if isDataTypeKeyword(p.peek().Kind) {
		node.AddChild(p.parseDataType())
		return p.finishNode(node)
	}
	expr, ok, _ := p.attemptMemo(KindTemplateParamValue, alt(0, func() *Node {
		e := p.parseTemplateValue()
		if !p.match(TokenComma, TokenGT) {
			p.bail(NewTokenSet(TokenComma, TokenGT))
		}
		return e
	}))
	if ok {
		node.AddChild(expr)
	} else {
		node.AddChild(p.parseDataType())
	}
	return p.finishNode(node)
}

// Hierarchical references

func (p *Parser) parseHierarchicalId() *Node {
	return p.memoized(KindHierarchicalId, func() *Node {
		node := p.startNode(KindHierarchicalId)
		node.AddChild(p.parseMemberPathElem())
		for p.check(TokenDot) && isIdentKind(p.peekN(1).Kind) {
			node.AddChild(p.leaf())
			node.AddChild(p.parseMemberPathElem())
		}
		return p.finishNode(node)
	})
}

// parseMemberPathElem parses a name with optional call arguments and index.
// An index that turns out to be a bit slice is left for the caller.
func (p *Parser) parseMemberPathElem() *Node {
	node := p.startNode(KindMemberPathElem)
	node.AddLabeled("name", p.parseIdentifier())
	if p.check(TokenLParen) {
		node.AddLabeled("args", p.parseFunctionParameterList())
	}
	if p.check(TokenLBracket) {
		index, ok := p.try(func() *Node {
			n := &Node{Kind: KindArrayDim}
			n.AddChild(p.leaf())
			n.AddLabeled("index", p.parseExpression())
			if !p.check(TokenRBracket) {
				p.bail(NewTokenSet(TokenRBracket))
			}
			n.AddChild(p.leaf())
			return n
		})
		if ok {
			for i, child := range index.Children {
				if index.labelOf(i) == "index" {
					node.AddLabeled("index", child)
				} else {
					node.AddChild(child)
				}
			}
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseHierarchicalIdList() *Node {
	node := p.startNode(KindHierarchicalIdList)
	node.AddChild(p.parseHierarchicalId())
	for p.optional(node, TokenComma) {
		node.AddChild(p.parseHierarchicalId())
	}
	return p.finishNode(node)
}
