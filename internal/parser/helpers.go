package parser

import (
	"chartlint/internal/diag"
	"chartlint/internal/source"
	"chartlint/internal/token"
)

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Newline {
		p.lastSpan = tok.Span
	}
	return tok
}

// expect: ожидаем конкретный токен. Если нет - репортим и помечаем строку.
func (p *Parser) expect(k token.Kind, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errorHere(msg)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

// diagnosticSpan: лучший span для диагностики: на EOF/Newline указываем
// позицию сразу после последнего токена.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF || peek.Kind == token.Newline {
		return source.Span{File: p.file.ID, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) errorHere(msg string) {
	p.bad = true
	p.report(p.diagnosticSpan(), msg)
}

func (p *Parser) report(sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	p.opts.CurrentErrors++
	if p.opts.Enough() {
		return
	}
	diag.ReportInfo(p.opts.Reporter, diag.SyntaxError, sp, msg).Emit()
}

func cover(a, b source.Span) source.Span {
	return a.Cover(b)
}
