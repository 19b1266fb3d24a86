package filter

import "fmt"

// parse builds the expression tree for a full token sequence.
//
// Grammar, loosest-binding first (NOT binds tighter than AND, AND tighter
// than OR, binary operators left-associative):
//
//	expr       = orExpr
//	orExpr     = andExpr ("OR" andExpr)*
//	andExpr    = notExpr ("AND" notExpr)*
//	notExpr    = "NOT" notExpr | atom
//	atom       = comparison | "(" expr ")"
//	comparison = (IDENT | STRING) OPERATOR (IDENT | STRING)
func parse(tokens []token) (Expr, error) {
	p := &parser{tokens: tokens}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.typ != tokenEOF {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s %q after expression", tok.typ, tok.val)}
	}
	return expr, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	t := p.tokens[p.pos]
	if t.typ != tokenEOF {
		p.pos++
	}
	return t
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokenAnd {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.peek().typ == tokenNot {
		p.advance()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Not{Inner: inner}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Expr, error) {
	if p.peek().typ == tokenLParen {
		open := p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if tok := p.peek(); tok.typ != tokenRParen {
			return nil, &SyntaxError{Pos: open.pos, Msg: "unbalanced parenthesis"}
		}
		p.advance()
		return &Parens{Inner: inner}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	key := p.peek()
	if key.typ != tokenIdent && key.typ != tokenString {
		return nil, &SyntaxError{Pos: key.pos, Msg: fmt.Sprintf("expected aspect key, got %s", describe(key))}
	}
	p.advance()

	op := p.peek()
	if op.typ != tokenOperator {
		return nil, &SyntaxError{Pos: op.pos, Msg: fmt.Sprintf("expected comparison operator, got %s", describe(op))}
	}
	p.advance()

	val := p.peek()
	if val.typ != tokenIdent && val.typ != tokenString {
		return nil, &SyntaxError{Pos: val.pos, Msg: fmt.Sprintf("expected comparison value, got %s", describe(val))}
	}
	p.advance()

	return &Comparison{Key: key.val, Op: op.op, Value: val.val, Pos: key.pos}, nil
}

func describe(t token) string {
	if t.typ == tokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.typ, t.val)
}
