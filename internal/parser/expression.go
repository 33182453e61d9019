package parser

import (
	"chartlint/internal/ast"
	"chartlint/internal/token"
)

// parseExprList: expr (',' expr)* [','] - несколько элементов дают Tuple.
func (p *Parser) parseExprList() ast.Expr {
	first := p.parseExprOrStar()
	if !p.at(token.Comma) {
		return first
	}
	elts := []ast.Expr{first}
	for p.at(token.Comma) {
		p.advance()
		if p.atOr(token.Newline, token.EOF, token.Semicolon, token.Assign, token.AugAssign,
			token.Colon, token.RParen, token.RBracket, token.RBrace) {
			break
		}
		elts = append(elts, p.parseExprOrStar())
	}
	return &ast.Tuple{Sp: cover(first.Span(), p.lastSpan), Elts: elts}
}

func (p *Parser) parseExprOrStar() ast.Expr {
	if p.at(token.Star) {
		star := p.advance()
		x := p.parseBinary(precBitOr)
		return &ast.Other{Sp: cover(star.Span, x.Span()), What: "starred", Children: []ast.Expr{x}}
	}
	return p.parseExpr()
}

// parseExpr: lambda | ternary | walrus.
func (p *Parser) parseExpr() ast.Expr {
	if p.at(token.KwLambda) {
		return p.parseLambda()
	}
	if p.at(token.KwYield) {
		y := p.advance()
		if p.atOr(token.RParen, token.Newline, token.EOF, token.Semicolon) {
			return &ast.Other{Sp: y.Span, What: "yield"}
		}
		x := p.parseExprList()
		return &ast.Other{Sp: cover(y.Span, x.Span()), What: "yield", Children: []ast.Expr{x}}
	}

	x := p.parseBinary(precOr)
	switch {
	case p.at(token.KwIf):
		p.advance()
		cond := p.parseBinary(precOr)
		p.expect(token.KwElse, "expected 'else' in conditional expression")
		y := p.parseExpr()
		return &ast.Other{Sp: cover(x.Span(), y.Span()), What: "ifexp", Children: []ast.Expr{x, cond, y}}
	case p.at(token.ColonAssign):
		p.advance()
		v := p.parseExpr()
		p.bind(x.Span(), ast.BoundNames(x))
		return &ast.Other{Sp: cover(x.Span(), v.Span()), What: "walrus", Children: []ast.Expr{x, v}}
	}
	return x
}

// parseBinary: precedence climbing по таблице op_table.go.
func (p *Parser) parseBinary(minPrec int) ast.Expr {
	var left ast.Expr
	if p.at(token.KwNot) && minPrec <= precNot {
		not := p.advance()
		x := p.parseBinary(precNot)
		left = &ast.Unary{Sp: cover(not.Span, x.Span()), Op: token.KwNot, X: x}
	} else {
		left = p.parseUnary()
	}

	for !p.bad {
		op := p.peek().Kind
		prec := binaryPrec(op)
		if prec == 0 || prec < minPrec {
			return left
		}
		p.advance()
		switch op {
		case token.KwNot: // not in
			p.expect(token.KwIn, "expected 'in' after 'not'")
		case token.KwIs: // is not
			if p.at(token.KwNot) {
				p.advance()
			}
		}
		right := p.parseBinary(prec + 1)
		left = foldBinary(op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.peek().Kind {
	case token.Minus, token.Plus, token.Tilde:
		op := p.advance()
		x := p.parseUnary()
		return foldUnary(op, x)
	case token.KwAwait:
		p.advance()
		return p.parsePower()
	}
	return p.parsePower()
}

// parsePower: postfix ['**' unary] - правоассоциативно, сильнее унарного минуса слева.
func (p *Parser) parsePower() ast.Expr {
	x := p.parsePostfix()
	if p.at(token.StarStar) {
		p.advance()
		y := p.parseUnary()
		return foldBinary(token.StarStar, x, y)
	}
	return x
}

func (p *Parser) parsePostfix() ast.Expr {
	x := p.parseAtom()
	for !p.bad {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident, "expected attribute name")
			if !ok {
				return x
			}
			x = &ast.Attr{Sp: cover(x.Span(), name.Span), X: x, Name: name.Text}
		case token.LParen:
			x = p.parseCall(x)
		case token.LBracket:
			x = p.parseSubscript(x)
		default:
			return x
		}
	}
	return x
}

func (p *Parser) parseCall(fun ast.Expr) ast.Expr {
	p.advance() // (
	call := &ast.Call{Fun: fun}
	for !p.atOr(token.RParen, token.EOF) && !p.bad {
		switch {
		case p.at(token.Star):
			call.Args = append(call.Args, p.parseExprOrStar())
		case p.at(token.StarStar):
			p.advance()
			v := p.parseExpr()
			call.Kwargs = append(call.Kwargs, ast.Keyword{Value: v})
		default:
			e := p.parseExpr()
			if name, ok := e.(*ast.Name); ok && p.at(token.Assign) {
				p.advance()
				v := p.parseExpr()
				call.Kwargs = append(call.Kwargs, ast.Keyword{Name: name.Ident, NameSpan: name.Sp, Value: v})
			} else if p.atOr(token.KwFor, token.KwAsync) {
				call.Args = append(call.Args, p.parseComprehension("genexp", e))
			} else {
				call.Args = append(call.Args, e)
			}
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RParen, "expected ')' to close call")
	call.Sp = cover(fun.Span(), p.lastSpan)
	return call
}

func (p *Parser) parseSubscript(x ast.Expr) ast.Expr {
	p.advance() // [
	var items []ast.Expr
	for !p.atOr(token.RBracket, token.EOF) && !p.bad {
		items = append(items, p.parseSliceItem())
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RBracket, "expected ']'")
	sp := cover(x.Span(), p.lastSpan)

	var index ast.Expr
	switch len(items) {
	case 0:
		index = &ast.Other{Sp: sp, What: "empty"}
	case 1:
		index = items[0]
	default:
		index = &ast.Tuple{Sp: cover(items[0].Span(), items[len(items)-1].Span()), Elts: items}
	}
	return &ast.Subscript{Sp: sp, X: x, Index: index}
}

// parseSliceItem: expr | [expr] ':' [expr] [':' [expr]]
func (p *Parser) parseSliceItem() ast.Expr {
	start := p.peek().Span
	var parts []ast.Expr
	if !p.at(token.Colon) {
		parts = append(parts, p.parseExpr())
		if !p.at(token.Colon) {
			return parts[0]
		}
	}
	for p.at(token.Colon) {
		p.advance()
		if !p.atOr(token.Colon, token.Comma, token.RBracket) {
			parts = append(parts, p.parseExpr())
		}
	}
	return &ast.Other{Sp: cover(start, p.lastSpan), What: "slice", Children: parts}
}

// parseComprehension разбирает хвост "for t in it [if c]..." после элемента.
func (p *Parser) parseComprehension(what string, elts ...ast.Expr) ast.Expr {
	children := append([]ast.Expr(nil), elts...)
	start := elts[0].Span()
	for p.atOr(token.KwFor, token.KwAsync) && !p.bad {
		if p.at(token.KwAsync) {
			p.advance()
		}
		p.expect(token.KwFor, "expected 'for'")
		targets := p.parseTargets()
		children = append(children, targets...)
		p.bind(cover(targets[0].Span(), p.lastSpan), boundNames(targets))
		p.expect(token.KwIn, "expected 'in' in comprehension")
		children = append(children, p.parseBinary(precOr))
		for p.at(token.KwIf) {
			p.advance()
			children = append(children, p.parseBinary(precOr))
		}
	}
	return &ast.Other{Sp: cover(start, p.lastSpan), What: what, Children: children}
}

// parseLambda пропускает параметры и разбирает тело.
func (p *Parser) parseLambda() ast.Expr {
	kw := p.advance()
	depth := 0
	prev := token.KwLambda
	var params []string
	for !p.atOr(token.Newline, token.EOF) {
		tok := p.peek()
		if tok.Kind == token.Colon && depth == 0 {
			break
		}
		switch tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.Ident:
			if depth == 0 && startsParam(prev) {
				params = append(params, tok.Text)
			}
		}
		prev = tok.Kind
		p.advance()
	}
	p.bind(kw.Span, params)
	p.expect(token.Colon, "expected ':' in lambda")
	body := p.parseExpr()
	return &ast.Other{Sp: cover(kw.Span, body.Span()), What: "lambda", Children: []ast.Expr{body}}
}
