package lexer

import (
	"chartlint/internal/diag"
	"chartlint/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) report(sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportInfo(lx.opts.Reporter, diag.SyntaxError, sp, msg).Emit()
	}
}
