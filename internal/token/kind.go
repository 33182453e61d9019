package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Newline terminates a logical line (never emitted inside brackets).
	Newline

	// Ident represents an identifier token.
	Ident
	KwDef    // def
	KwClass  // class
	KwIf     // if
	KwElif   // elif
	KwElse   // else
	KwFor    // for
	KwWhile  // while
	KwWith   // with
	KwReturn // return
	KwImport // import
	KwFrom   // from
	KwAs     // as
	KwLambda // lambda
	KwNot    // not
	KwAnd    // and
	KwOr     // or
	KwIn     // in
	KwIs     // is
	KwPass   // pass
	KwTry    // try
	KwExcept // except
	KwFinally
	KwRaise
	KwYield
	KwDel
	KwGlobal
	KwNonlocal
	KwAssert
	KwBreak
	KwContinue
	KwAsync
	KwAwait

	// NoneLit represents the 'None' constant.
	NoneLit
	// BoolLit represents 'True' or 'False'.
	BoolLit
	// IntLit represents an integer literal in any base.
	IntLit
	// FloatLit represents a floating point literal.
	FloatLit
	// ImagLit represents an imaginary literal (1j).
	ImagLit
	// StringLit represents a string literal, possibly prefixed (r, u) or triple-quoted.
	StringLit
	// BytesLit represents a bytes literal (b'...').
	BytesLit
	// FStringLit represents an f-string; its value is never folded.
	FStringLit

	Plus         // +
	Minus        // -
	Star         // *
	StarStar     // **
	Slash        // /
	SlashSlash   // //
	Percent      // %
	At           // @
	Tilde        // ~
	Amp          // &
	Pipe         // |
	Caret        // ^
	Shl          // <<
	Shr          // >>
	Assign       // =
	AugAssign    // += -= *= /= //= %= **= @= &= |= ^= <<= >>=
	EqEq         // ==
	BangEq       // !=
	Lt           // <
	LtEq         // <=
	Gt           // >
	GtEq         // >=
	Colon        // :
	ColonAssign  // :=
	Semicolon    // ;
	Comma        // ,
	Dot          // .
	Ellipsis     // ...
	Arrow        // ->
	LParen       // (
	RParen       // )
	LBracket     // [
	RBracket     // ]
	LBrace       // {
	RBrace       // }
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Newline: "Newline", Ident: "Ident",
	KwDef: "def", KwClass: "class", KwIf: "if", KwElif: "elif", KwElse: "else",
	KwFor: "for", KwWhile: "while", KwWith: "with", KwReturn: "return",
	KwImport: "import", KwFrom: "from", KwAs: "as", KwLambda: "lambda",
	KwNot: "not", KwAnd: "and", KwOr: "or", KwIn: "in", KwIs: "is",
	KwPass: "pass", KwTry: "try", KwExcept: "except", KwFinally: "finally",
	KwRaise: "raise", KwYield: "yield", KwDel: "del", KwGlobal: "global",
	KwNonlocal: "nonlocal", KwAssert: "assert", KwBreak: "break",
	KwContinue: "continue", KwAsync: "async", KwAwait: "await",
	NoneLit: "None", BoolLit: "BoolLit", IntLit: "IntLit", FloatLit: "FloatLit",
	ImagLit: "ImagLit", StringLit: "StringLit", BytesLit: "BytesLit", FStringLit: "FStringLit",
	Plus: "+", Minus: "-", Star: "*", StarStar: "**", Slash: "/", SlashSlash: "//",
	Percent: "%", At: "@", Tilde: "~", Amp: "&", Pipe: "|", Caret: "^", Shl: "<<",
	Shr: ">>", Assign: "=", AugAssign: "op=", EqEq: "==", BangEq: "!=", Lt: "<",
	LtEq: "<=", Gt: ">", GtEq: ">=", Colon: ":", ColonAssign: ":=", Semicolon: ";",
	Comma: ",", Dot: ".", Ellipsis: "...", Arrow: "->", LParen: "(", RParen: ")",
	LBracket: "[", RBracket: "]", LBrace: "{", RBrace: "}",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
