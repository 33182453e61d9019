package lexer

import (
	"chartlint/internal/token"
)

// Поддержка: 0, 1_000, 0b..., 0o..., 0x..., 1.0, .5, 1., 1e-3, 2j, 1.5e3J.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cur.mark()
	kind := token.IntLit

	if lx.cur.peek() == '0' {
		switch lx.cur.at(1) {
		case 'b', 'B', 'o', 'O', 'x', 'X':
			lx.cur.skip(2)
			for isHex(lx.cur.peek()) || lx.cur.peek() == '_' {
				lx.cur.next()
			}
			return lx.numberToken(start, kind)
		}
	}

	lx.digits()
	if lx.cur.peek() == '.' {
		kind = token.FloatLit
		lx.cur.next()
		lx.digits()
	}

	// экспонента
	if b := lx.cur.peek(); b == 'e' || b == 'E' {
		mark := lx.cur.mark()
		lx.cur.next()
		if lx.cur.peek() == '+' || lx.cur.peek() == '-' {
			lx.cur.next()
		}
		if isDec(lx.cur.peek()) {
			kind = token.FloatLit
			lx.digits()
		} else {
			// "1else" и подобное: 'e' не часть числа
			lx.cur.rewind(mark)
		}
	}

	if b := lx.cur.peek(); b == 'j' || b == 'J' {
		lx.cur.next()
		kind = token.ImagLit
	}
	return lx.numberToken(start, kind)
}

func (lx *Lexer) digits() {
	for isDec(lx.cur.peek()) || lx.cur.peek() == '_' {
		lx.cur.next()
	}
}

func (lx *Lexer) numberToken(start uint32, kind token.Kind) token.Token {
	sp := lx.cur.span(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}
