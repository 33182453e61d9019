package parser

import (
	"slices"

	"chartlint/internal/ast"
	"chartlint/internal/diag"
	"chartlint/internal/lexer"
	"chartlint/internal/source"
	"chartlint/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter // nil - синтаксические ошибки молча пропускаются
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	bad      bool        // текущая логическая строка содержит ошибку
	out      *ast.File
}

// ParseFile разбирает весь скрипт. Парсер толерантен: строка с синтаксической
// ошибкой пропускается целиком, разбор продолжается со следующей.
func ParseFile(file *source.File, opts Options) *ast.File {
	p := Parser{
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		file: file,
		opts: opts,
		out:  &ast.File{Source: file},
	}
	for !p.at(token.EOF) {
		p.parseLine()
	}
	return p.out
}

func (p *Parser) peek() token.Token {
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// atLineEnd: конец логической строки или простого оператора.
func (p *Parser) atLineEnd() bool {
	return p.atOr(token.Newline, token.EOF, token.Semicolon)
}

// parseLine разбирает одну логическую строку: простые операторы через ';'
// и заголовки составных операторов с телом на той же строке.
func (p *Parser) parseLine() {
	p.bad = false
	mark := len(p.out.Stmts)
	for {
		switch p.peek().Kind {
		case token.Newline:
			p.advance()
			return
		case token.EOF:
			return
		case token.Semicolon:
			p.advance()
			continue
		}
		if !p.parseSmallStmt() || p.bad {
			// строку с ошибкой выбрасываем целиком
			p.out.Stmts = p.out.Stmts[:mark]
			p.skipLine()
			return
		}
	}
}

// skipLine прокручивает до конца логической строки.
func (p *Parser) skipLine() {
	for !p.atOr(token.Newline, token.EOF) {
		p.advance()
	}
	if p.at(token.Newline) {
		p.advance()
	}
}

func (p *Parser) parseSmallStmt() bool {
	tok := p.peek()
	switch {
	case tok.Kind == token.KwDef, tok.Kind == token.KwClass:
		// сигнатура не содержит вызовов рисования; тело на той же строке разбираем
		p.bind(tok.Span, p.parseSignature())
		return p.parseHeaderTail()

	case tok.Kind == token.KwFor:
		p.advance()
		targets := p.parseTargets()
		p.expect(token.KwIn, "expected 'in' after for targets")
		if !p.bad {
			p.pushExpr(p.parseExprList())
		}
		p.bind(tok.Span.Cover(p.lastSpan), boundNames(targets))
		return p.parseHeaderTail()

	case tok.StartsStatement():
		// import/pass/global/...: до конца строки
		for !p.atOr(token.Newline, token.EOF) {
			p.advance()
		}
		return true

	case tok.Kind == token.At:
		p.advance()
		p.pushExpr(p.parseExpr())
		return p.expectStmtEnd()

	case tok.Kind == token.KwAsync:
		// async def/for/with: дальше обычный оператор
		p.advance()
		return true

	case tok.Kind == token.KwElse, tok.Kind == token.KwTry, tok.Kind == token.KwFinally:
		p.advance()
		return p.parseHeaderTail()

	case tok.Kind == token.KwIf, tok.Kind == token.KwElif, tok.Kind == token.KwWhile,
		tok.Kind == token.KwWith, tok.Kind == token.KwExcept:
		p.advance()
		for !p.atOr(token.Colon, token.Newline, token.EOF) && !p.bad {
			p.pushExpr(p.parseExpr())
			if p.at(token.KwAs) {
				p.advance()
				target := p.parseExpr()
				p.bind(target.Span(), ast.BoundNames(target))
			}
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		return p.parseHeaderTail()

	case tok.Kind == token.KwReturn, tok.Kind == token.KwRaise, tok.Kind == token.KwYield,
		tok.Kind == token.KwAssert:
		p.advance()
		if !p.atLineEnd() {
			p.pushExpr(p.parseExprList())
		}
		if p.at(token.KwFrom) { // raise X from Y
			p.advance()
			p.pushExpr(p.parseExpr())
		}
		return p.expectStmtEnd()
	}
	return p.parseSimpleStmt()
}

// parseSignature пропускает "def name(params) -> T" до ':' на нулевой
// вложенности и возвращает связанные имена: имя функции или класса и
// параметры def.
func (p *Parser) parseSignature() []string {
	kw := p.advance()
	var names []string
	if p.at(token.Ident) {
		names = append(names, p.advance().Text)
	}
	params := kw.Kind == token.KwDef
	depth := 0
	prev := token.Invalid
	for !p.atOr(token.Newline, token.EOF) {
		tok := p.peek()
		switch tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		case token.Colon:
			if depth <= 0 {
				return names
			}
		case token.Ident:
			if params && depth == 1 && startsParam(prev) {
				names = append(names, tok.Text)
			}
		}
		prev = tok.Kind
		p.advance()
	}
	return names
}

// startsParam: после этих токенов в списке параметров идёт имя параметра.
func startsParam(prev token.Kind) bool {
	switch prev {
	case token.LParen, token.Comma, token.Star, token.StarStar, token.KwLambda:
		return true
	}
	return false
}

// parseTargets разбирает "a, (b, c)" перед 'in'; 'in' не съедается как
// оператор сравнения.
func (p *Parser) parseTargets() []ast.Expr {
	var targets []ast.Expr
	for {
		if p.at(token.Star) {
			star := p.advance()
			x := p.parseBinary(precBitOr)
			targets = append(targets, &ast.Other{Sp: cover(star.Span, x.Span()), What: "starred", Children: []ast.Expr{x}})
		} else {
			targets = append(targets, p.parseBinary(precBitOr))
		}
		if p.bad || !p.at(token.Comma) {
			return targets
		}
		p.advance()
	}
}

func boundNames(targets []ast.Expr) []string {
	var names []string
	for _, t := range targets {
		names = append(names, ast.BoundNames(t)...)
	}
	return names
}

// bind записывает имена, связанные не присваиванием.
func (p *Parser) bind(sp source.Span, names []string) {
	if len(names) == 0 {
		return
	}
	p.out.Stmts = append(p.out.Stmts, &ast.Bind{Sp: sp, Names: names})
}

// parseHeaderTail съедает ':' заголовка; тело на той же строке разберёт parseLine.
func (p *Parser) parseHeaderTail() bool {
	if p.at(token.Colon) {
		p.advance()
		return true
	}
	if p.atOr(token.Newline, token.EOF) {
		return true
	}
	p.errorHere("expected ':'")
	return false
}

func (p *Parser) parseSimpleStmt() bool {
	start := p.peek().Span
	first := p.parseExprList()

	switch {
	case p.at(token.Colon):
		// аннотация: x: float = 1.0
		p.advance()
		p.parseExpr()
		if !p.at(token.Assign) {
			return p.expectStmtEnd()
		}
		fallthrough
	case p.at(token.Assign):
		targets := []ast.Expr{first}
		var value ast.Expr
		for p.at(token.Assign) {
			p.advance()
			v := p.parseExprList()
			if p.at(token.Assign) {
				targets = append(targets, v)
				continue
			}
			value = v
		}
		p.out.Stmts = append(p.out.Stmts, &ast.Assign{
			Sp: start.Cover(p.lastSpan), Targets: targets, Value: value, Op: token.Assign,
		})
	case p.at(token.AugAssign):
		p.advance()
		value := p.parseExprList()
		p.out.Stmts = append(p.out.Stmts, &ast.Assign{
			Sp: start.Cover(p.lastSpan), Targets: []ast.Expr{first}, Value: value, Op: token.AugAssign,
		})
	default:
		p.pushExpr(first)
	}
	return p.expectStmtEnd()
}

func (p *Parser) pushExpr(e ast.Expr) {
	if e == nil {
		return
	}
	p.out.Stmts = append(p.out.Stmts, &ast.ExprStmt{Sp: e.Span(), X: e})
}

func (p *Parser) expectStmtEnd() bool {
	if p.atLineEnd() {
		return true
	}
	p.errorHere("unexpected " + p.peek().Kind.String())
	return false
}
