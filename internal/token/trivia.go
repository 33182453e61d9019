package token

import "chartlint/internal/source"

type TriviaKind uint8

const (
	TriviaSpace        TriviaKind = iota
	TriviaNewline                 // пустая строка или перевод строки внутри скобок
	TriviaComment                 // # ...
	TriviaContinuation            // '\' + newline
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
