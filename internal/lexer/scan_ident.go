package lexer

import (
	"chartlint/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cur.mark()

	r, _ := lx.cur.peekRune()
	if !isIdentStartRune(r) {
		lx.cur.nextRune()
		sp := lx.cur.span(start)
		lx.report(sp, "unexpected character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	lx.cur.nextRune()

	for !lx.cur.eof() {
		b := lx.cur.peek()
		if b < 0x80 {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cur.next()
			continue
		}
		r, _ := lx.cur.peekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.cur.nextRune()
	}

	sp := lx.cur.span(start)
	text := lx.text(sp)
	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}
