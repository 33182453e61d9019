package fix

import (
	"chartlint/internal/diag"
	"chartlint/internal/source"
)

// Literal describes rewriting one literal of a chart script in place.
// Old pins the text the edit expects at Span; a file edited since the
// analysis is then reported instead of corrupted.
type Literal struct {
	ID    string
	Title string
	Span  source.Span
	Old   string
	New   string
	// Review downgrades the fix to manual-review; Apply skips it unless
	// the caller opts into unsafe fixes.
	Review bool
}

// Fix returns the single-edit quick fix for l. Literal fixes are the
// preferred suggestion of their diagnostic.
func (l Literal) Fix() diag.Fix {
	app := diag.FixApplicabilityAlwaysSafe
	if l.Review {
		app = diag.FixApplicabilityManualReview
	}
	return diag.Fix{
		ID:            l.ID,
		Title:         l.Title,
		Kind:          diag.FixKindQuickFix,
		Applicability: app,
		IsPreferred:   true,
		Edits:         []diag.TextEdit{{Span: l.Span, NewText: l.New, OldText: l.Old}},
	}
}
