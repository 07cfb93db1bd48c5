package calc

type parser struct {
	input  string
	tokens []token
	pos    int
}

// Parse builds an expression tree using precedence climbing.
//
// Besides plain arithmetic, the grammar accepts the coefficient marker written by
// equation.Substitute: a '*' in operand position is absorbed when it opens an
// expression or group, or directly follows a binary '*'. So "*3+2**4" reads as
// 3 + 2*4, while "2+*3" is still rejected.
func Parse(input string) (Expr, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{input: input, tokens: tokens}
	if p.peek().Type == tokenEOF {
		return nil, &ParseError{Input: input, Offset: 0, Rule: RuleEmpty}
	}

	expr, err := p.parseExpr(1, true)
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.Type != tokenEOF {
		rule := RuleTrailing
		if tok.Type == tokenRParen {
			rule = RuleUnmatchedParen
		}
		return nil, p.errorAt(tok, rule)
	}

	return expr, nil
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.Type != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorAt(tok token, rule Rule) *ParseError {
	return &ParseError{Input: p.input, Offset: tok.Offset, Token: tok.Text, Rule: rule}
}

// parseExpr parses a run of binary operators whose precedence is at least minPrecedence
func (p *parser) parseExpr(minPrecedence int, allowMarker bool) (Expr, error) {
	lhs, err := p.parseUnary(allowMarker)
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Type != tokenOperator || tok.Op.precedence() < minPrecedence {
			return lhs, nil
		}
		p.next()

		nextPrecedence := tok.Op.precedence() + 1
		if tok.Op.rightAssociative() {
			nextPrecedence = tok.Op.precedence()
		}

		rhs, err := p.parseExpr(nextPrecedence, tok.Op == Multiply)
		if err != nil {
			return nil, err
		}

		lhs = BinaryOp{Left: lhs, Op: tok.Op, Right: rhs}
	}
}

func (p *parser) parseUnary(allowMarker bool) (Expr, error) {
	tok := p.peek()
	if tok.Type == tokenOperator {
		switch {
		case tok.Op == Subtract:
			p.next()
			operand, err := p.parseUnary(allowMarker)
			if err != nil {
				return nil, err
			}
			return Negate{Operand: operand}, nil

		case tok.Op == Multiply && allowMarker:
			p.next()
			return p.parseUnary(false)
		}
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.Type {
	case tokenNumber:
		return Literal{Value: tok.Value}, nil

	case tokenLParen:
		inner, err := p.parseExpr(1, true)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.Type != tokenRParen {
			return nil, p.errorAt(closing, RuleCloseParen)
		}
		return inner, nil
	}

	return nil, p.errorAt(tok, RuleOperand)
}
