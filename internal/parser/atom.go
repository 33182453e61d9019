package parser

import (
	"strconv"
	"strings"

	"chartlint/internal/ast"
	"chartlint/internal/lexer"
	"chartlint/internal/token"
)

func (p *Parser) parseAtom() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return &ast.Name{Sp: tok.Span, Ident: tok.Text}

	case token.IntLit, token.FloatLit:
		p.advance()
		v, isInt, ok := parseNumber(tok)
		if !ok {
			return &ast.Other{Sp: tok.Span, What: "number"}
		}
		return &ast.Num{Sp: tok.Span, Value: v, IsInt: isInt}

	case token.ImagLit:
		p.advance()
		return &ast.Other{Sp: tok.Span, What: "imag"}

	case token.StringLit, token.BytesLit, token.FStringLit:
		return p.parseStrings()

	case token.NoneLit:
		p.advance()
		return &ast.Const{Sp: tok.Span, Kind: token.NoneLit}

	case token.BoolLit:
		p.advance()
		return &ast.Const{Sp: tok.Span, Kind: token.BoolLit, Value: tok.Text == "True"}

	case token.Ellipsis:
		p.advance()
		return &ast.Other{Sp: tok.Span, What: "ellipsis"}

	case token.LParen:
		return p.parseParen()

	case token.LBracket:
		return p.parseListDisplay()

	case token.LBrace:
		return p.parseBraceDisplay()

	case token.KwLambda:
		return p.parseLambda()
	}

	p.errorHere("unexpected " + tok.Kind.String())
	if !p.atOr(token.Newline, token.EOF, token.RParen, token.RBracket, token.RBrace) {
		p.advance()
	}
	return &ast.Other{Sp: tok.Span, What: "error"}
}

// parseStrings склеивает соседние литералы: "a" "b" == "ab".
func (p *Parser) parseStrings() ast.Expr {
	first := p.peek()
	sp := first.Span
	var b strings.Builder
	foldable := true
	n := 0
	for p.atOr(token.StringLit, token.BytesLit, token.FStringLit) {
		tok := p.advance()
		sp = cover(sp, tok.Span)
		n++
		if tok.Kind != token.StringLit {
			foldable = false
			continue
		}
		v, ok := lexer.Unquote(tok.Text)
		if !ok {
			foldable = false
			continue
		}
		b.WriteString(v)
	}
	if !foldable {
		return &ast.Other{Sp: sp, What: "fstring"}
	}
	return &ast.Str{Sp: sp, Value: b.String(), Folded: n > 1}
}

func (p *Parser) parseParen() ast.Expr {
	open := p.advance()
	if p.at(token.RParen) {
		closing := p.advance()
		return &ast.Tuple{Sp: cover(open.Span, closing.Span)}
	}
	first := p.parseExprOrStar()
	if p.atOr(token.KwFor, token.KwAsync) {
		gen := p.parseComprehension("genexp", first)
		p.expect(token.RParen, "expected ')'")
		return gen
	}
	if !p.at(token.Comma) {
		p.expect(token.RParen, "expected ')'")
		return first
	}
	elts := []ast.Expr{first}
	for p.at(token.Comma) && !p.bad {
		p.advance()
		if p.at(token.RParen) {
			break
		}
		elts = append(elts, p.parseExprOrStar())
	}
	p.expect(token.RParen, "expected ')' to close tuple")
	return &ast.Tuple{Sp: cover(open.Span, p.lastSpan), Elts: elts}
}

func (p *Parser) parseListDisplay() ast.Expr {
	open := p.advance()
	var elts []ast.Expr
	for !p.atOr(token.RBracket, token.EOF) && !p.bad {
		e := p.parseExprOrStar()
		if len(elts) == 0 && p.atOr(token.KwFor, token.KwAsync) {
			comp := p.parseComprehension("listcomp", e)
			p.expect(token.RBracket, "expected ']'")
			return comp
		}
		elts = append(elts, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RBracket, "expected ']' to close list")
	return &ast.List{Sp: cover(open.Span, p.lastSpan), Elts: elts}
}

func (p *Parser) parseBraceDisplay() ast.Expr {
	open := p.advance()
	if p.at(token.RBrace) {
		closing := p.advance()
		return &ast.Dict{Sp: cover(open.Span, closing.Span)}
	}

	dict := &ast.Dict{}
	var set []ast.Expr
	isDict := p.at(token.StarStar)

	for !p.atOr(token.RBrace, token.EOF) && !p.bad {
		if p.at(token.StarStar) {
			p.advance()
			dict.Keys = append(dict.Keys, nil)
			dict.Values = append(dict.Values, p.parseBinary(precBitOr))
			isDict = true
		} else {
			k := p.parseExprOrStar()
			if p.at(token.Colon) {
				isDict = true
				p.advance()
				v := p.parseExpr()
				if len(dict.Values) == 0 && p.atOr(token.KwFor, token.KwAsync) {
					comp := p.parseComprehension("dictcomp", k, v)
					p.expect(token.RBrace, "expected '}'")
					return comp
				}
				dict.Keys = append(dict.Keys, k)
				dict.Values = append(dict.Values, v)
			} else {
				if len(set) == 0 && p.atOr(token.KwFor, token.KwAsync) {
					comp := p.parseComprehension("setcomp", k)
					p.expect(token.RBrace, "expected '}'")
					return comp
				}
				set = append(set, k)
			}
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RBrace, "expected '}'")
	sp := cover(open.Span, p.lastSpan)
	if isDict {
		dict.Sp = sp
		return dict
	}
	return &ast.Other{Sp: sp, What: "set", Children: set}
}

// parseNumber переводит литерал в float64; "1_000" и "0x1F" поддерживаются.
func parseNumber(tok token.Token) (float64, bool, bool) {
	text := strings.ReplaceAll(tok.Text, "_", "")
	if tok.Kind == token.IntLit {
		if len(text) > 1 && text[0] == '0' && (text[1] >= '0' && text[1] <= '9') {
			// "00" допустим в Python только из нулей
			text = strings.TrimLeft(text, "0")
			if text == "" {
				text = "0"
			}
		}
		if v, err := strconv.ParseInt(text, 0, 64); err == nil {
			return float64(v), true, true
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false, false
	}
	return v, false, true
}
