package token

import (
	"chartlint/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a constant literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NoneLit, BoolLit, IntLit, FloatLit, ImagLit, StringLit, BytesLit, FStringLit:
		return true
	default:
		return false
	}
}

// IsString reports whether the token is any kind of string literal.
func (t Token) IsString() bool {
	return t.Kind == StringLit || t.Kind == BytesLit || t.Kind == FStringLit
}

// IsKeyword reports whether the token is a statement or operator keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwDef && t.Kind <= KwAwait
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// StartsStatement reports whether the keyword opens a compound or simple
// statement the chart parser does not descend into as an expression.
func (t Token) StartsStatement() bool {
	switch t.Kind {
	case KwDef, KwClass, KwImport, KwFrom, KwPass, KwGlobal, KwNonlocal,
		KwBreak, KwContinue, KwDel:
		return true
	default:
		return false
	}
}
