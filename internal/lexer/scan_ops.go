package lexer

import (
	"chartlint/internal/token"
)

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cur.mark()
	kind := lx.matchOperator()
	sp := lx.cur.span(start)
	if kind == token.Invalid {
		lx.report(sp, "unexpected character")
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) matchOperator() token.Kind {
	// трёхсимвольные
	switch {
	case lx.cur.accept('*', '*', '='), lx.cur.accept('/', '/', '='), lx.cur.accept('<', '<', '='), lx.cur.accept('>', '>', '='):
		return token.AugAssign
	case lx.cur.accept('.', '.', '.'):
		return token.Ellipsis
	}

	// двухсимвольные
	switch {
	case lx.cur.accept('*', '*'):
		return token.StarStar
	case lx.cur.accept('/', '/'):
		return token.SlashSlash
	case lx.cur.accept('<', '<'):
		return token.Shl
	case lx.cur.accept('>', '>'):
		return token.Shr
	case lx.cur.accept('=', '='):
		return token.EqEq
	case lx.cur.accept('!', '='):
		return token.BangEq
	case lx.cur.accept('<', '='):
		return token.LtEq
	case lx.cur.accept('>', '='):
		return token.GtEq
	case lx.cur.accept('-', '>'):
		return token.Arrow
	case lx.cur.accept(':', '='):
		return token.ColonAssign
	}
	if lx.cur.at(1) == '=' {
		switch lx.cur.peek() {
		case '+', '-', '*', '/', '%', '@', '&', '|', '^':
			lx.cur.skip(2)
			return token.AugAssign
		}
	}

	b := lx.cur.next()
	switch b {
	case '+':
		return token.Plus
	case '-':
		return token.Minus
	case '*':
		return token.Star
	case '/':
		return token.Slash
	case '%':
		return token.Percent
	case '@':
		return token.At
	case '~':
		return token.Tilde
	case '&':
		return token.Amp
	case '|':
		return token.Pipe
	case '^':
		return token.Caret
	case '<':
		return token.Lt
	case '>':
		return token.Gt
	case '=':
		return token.Assign
	case ':':
		return token.Colon
	case ';':
		return token.Semicolon
	case ',':
		return token.Comma
	case '.':
		return token.Dot
	case '(':
		lx.depth++
		return token.LParen
	case '[':
		lx.depth++
		return token.LBracket
	case '{':
		lx.depth++
		return token.LBrace
	case ')':
		lx.closeBracket()
		return token.RParen
	case ']':
		lx.closeBracket()
		return token.RBracket
	case '}':
		lx.closeBracket()
		return token.RBrace
	}
	return token.Invalid
}

func (lx *Lexer) closeBracket() {
	if lx.depth > 0 {
		lx.depth--
	}
}
