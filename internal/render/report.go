package render

import (
	"errors"
	"fmt"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

// ReportFailure turns a Render error into one RENDER_ERROR warning on file.
// The issue points at the failing script line when the traceback names one.
func ReportFailure(r diag.Reporter, file *source.File, err error) {
	if err == nil {
		return
	}
	sp := source.Span{File: file.ID}
	kind := "environment"
	msg := err.Error()

	var se *ScriptError
	switch {
	case errors.As(err, &se):
		kind = se.Kind.String()
		msg = se.Message
		if se.Line > 0 {
			sp = file.LineSpan(se.Line)
		}
	case errors.Is(err, ErrInterpreterNotFound):
		kind = "interpreter"
	}

	diag.ReportWarning(r, diag.RenderError, sp, fmt.Sprintf("sandboxed render failed: %s", msg)).
		WithAttr("kind", kind).
		WithAttr("exception", msg).
		Emit()
}
