package lexer

import (
	"chartlint/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\f' коалесцируются в один TriviaSpace
//   - '#' до конца строки -> TriviaComment
//   - '\' + '\n' -> TriviaContinuation
//   - '\n' внутри скобок или на пустой строке -> TriviaNewline
//
// '\n' после значимого токена вне скобок остаётся в потоке как Newline.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cur.eof() {
		start := lx.cur.mark()
		b := lx.cur.peek()

		switch {
		case b == ' ' || b == '\t' || b == '\f' || b == '\r':
			for {
				b2 := lx.cur.peek()
				if b2 != ' ' && b2 != '\t' && b2 != '\f' && b2 != '\r' {
					break
				}
				lx.cur.next()
			}
			lx.pushTrivia(token.TriviaSpace, start)

		case b == '#':
			for !lx.cur.eof() && lx.cur.peek() != '\n' {
				lx.cur.next()
			}
			lx.pushTrivia(token.TriviaComment, start)

		case b == '\\' && lx.cur.at(1) == '\n':
			lx.cur.next()
			lx.cur.next()
			lx.pushTrivia(token.TriviaContinuation, start)

		case b == '\n' && (lx.depth > 0 || !lx.inLine):
			for lx.cur.peek() == '\n' {
				lx.cur.next()
			}
			lx.pushTrivia(token.TriviaNewline, start)

		default:
			return
		}
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start uint32) {
	sp := lx.cur.span(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}
