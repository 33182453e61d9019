package fix

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

func TestLiteralFix(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("chart.py", []byte("ax.set_xlabel('x', fontsize=8)"))
	span := source.Span{File: fileID, Start: 28, End: 29}

	got := Literal{ID: "fonts-28-29", Title: "raise fontsize to 12", Span: span, Old: "8", New: "12"}.Fix()
	want := diag.Fix{
		ID:            "fonts-28-29",
		Title:         "raise fontsize to 12",
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		IsPreferred:   true,
		Edits:         []diag.TextEdit{{Span: span, NewText: "12", OldText: "8"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fix mismatch (-want +got):\n%s", diff)
	}
}

func TestLiteralReview(t *testing.T) {
	f := Literal{Title: "t", New: "14", Review: true}.Fix()
	if f.Applicability != diag.FixApplicabilityManualReview {
		t.Errorf("expected manual-review, got %v", f.Applicability)
	}
}
