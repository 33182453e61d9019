package token

var keywords = map[string]Kind{
	"def":      KwDef,
	"class":    KwClass,
	"if":       KwIf,
	"elif":     KwElif,
	"else":     KwElse,
	"for":      KwFor,
	"while":    KwWhile,
	"with":     KwWith,
	"return":   KwReturn,
	"import":   KwImport,
	"from":     KwFrom,
	"as":       KwAs,
	"lambda":   KwLambda,
	"not":      KwNot,
	"and":      KwAnd,
	"or":       KwOr,
	"in":       KwIn,
	"is":       KwIs,
	"pass":     KwPass,
	"try":      KwTry,
	"except":   KwExcept,
	"finally":  KwFinally,
	"raise":    KwRaise,
	"yield":    KwYield,
	"del":      KwDel,
	"global":   KwGlobal,
	"nonlocal": KwNonlocal,
	"assert":   KwAssert,
	"break":    KwBreak,
	"continue": KwContinue,
	"async":    KwAsync,
	"await":    KwAwait,
	"None":     NoneLit,
	"True":     BoolLit,
	"False":    BoolLit,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые, как и в самом Python.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
