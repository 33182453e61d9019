package lexer

import (
	"unicode/utf8"

	"chartlint/internal/source"
	"chartlint/internal/token"
)

// Lexer разбивает Python-скрипт на токены. Отступы не токенизируются,
// переводы строк внутри скобок уходят в trivia.
type Lexer struct {
	file   *source.File
	cur    cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
	depth  int            // вложенность (), [], {}
	inLine bool           // на текущей логической строке уже был значимый токен
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file: file,
		cur:  newCursor(file),
		opts: opts,
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// Перед EOF всегда выдаётся Newline, если последняя строка не была закрыта.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cur.eof() {
		if lx.inLine {
			lx.inLine = false
			return token.Token{Kind: token.Newline, Span: lx.emptySpan()}
		}
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cur.peek()
	var tok token.Token

	switch {
	case ch == '\n':
		start := lx.cur.mark()
		lx.cur.next()
		lx.inLine = false
		sp := lx.cur.span(start)
		tok = token.Token{Kind: token.Newline, Span: sp, Text: "\n"}

	case lx.atStringPrefix():
		tok = lx.scanString()

	case isIdentStartByte(ch) || ch >= utf8.RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case isDec(ch) || (ch == '.' && isDec(lx.cur.at(1))):
		tok = lx.scanNumber()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	if tok.Kind != token.Newline {
		lx.inLine = true
	}
	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All лексит весь файл до EOF включительно.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, len(lx.file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cur.off, End: lx.cur.off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
