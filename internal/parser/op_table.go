package parser

import (
	"chartlint/internal/token"
)

// Таблица приоритетов для бинарных операторов Python.
// Чем больше число, тем выше приоритет.
const (
	precOr         = 1 // or
	precAnd        = 2 // and
	precNot        = 3 // not x (префиксный)
	precComparison = 4 // == != < <= > >= in, not in, is, is not
	precBitOr      = 5 // |
	precBitXor     = 6 // ^
	precBitAnd     = 7 // &
	precShift      = 8 // << >>
	precAdditive   = 9 // + -
	precMult       = 10
)

// binaryPrec возвращает приоритет бинарного оператора (0 - не оператор).
// ** разбирается отдельно в parsePower: он правоассоциативный и сильнее унарного минуса.
func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.KwOr:
		return precOr
	case token.KwAnd:
		return precAnd
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.KwIn, token.KwNot, token.KwIs:
		return precComparison
	case token.Pipe:
		return precBitOr
	case token.Caret:
		return precBitXor
	case token.Amp:
		return precBitAnd
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.SlashSlash, token.Percent, token.At:
		return precMult
	}
	return 0
}
