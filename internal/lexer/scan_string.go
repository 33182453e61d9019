package lexer

import (
	"chartlint/internal/token"
)

// atStringPrefix: текущая позиция - кавычка или префикс (r, b, u, f, rb, br, fr, rf) + кавычка.
func (lx *Lexer) atStringPrefix() bool {
	_, ok := lx.prefixLen()
	return ok
}

func (lx *Lexer) prefixLen() (uint32, bool) {
	for n := uint32(0); n <= 2; n++ {
		b := lx.cur.at(n)
		if b == '\'' || b == '"' {
			return n, true
		}
		switch b {
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
		default:
			return 0, false
		}
	}
	return 0, false
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cur.mark()
	n, _ := lx.prefixLen()

	kind := token.StringLit
	for i := uint32(0); i < n; i++ {
		switch lx.cur.next() {
		case 'b', 'B':
			kind = token.BytesLit
		case 'f', 'F':
			kind = token.FStringLit
		}
	}

	quote := lx.cur.next()
	triple := false
	if lx.cur.peek() == quote && lx.cur.at(1) == quote {
		lx.cur.skip(2)
		triple = true
	}

	for {
		if lx.cur.eof() {
			sp := lx.cur.span(start)
			lx.report(sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		b := lx.cur.peek()
		switch {
		case b == '\\':
			// экранирование работает и для raw-строк при поиске конца литерала
			lx.cur.next()
			lx.cur.next()
			continue
		case b == '\n' && !triple:
			sp := lx.cur.span(start)
			lx.report(sp, "unterminated string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		case b == quote:
			if !triple {
				lx.cur.next()
				sp := lx.cur.span(start)
				return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
			}
			if lx.cur.accept(quote, quote, quote) {
				sp := lx.cur.span(start)
				return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
			}
		}
		lx.cur.next()
	}
}
