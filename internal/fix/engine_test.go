package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

func loadFile(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.py")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func replaceDiag(file source.FileID, start, end uint32, newText, oldText string) diag.Diagnostic {
	span := source.Span{File: file, Start: start, End: end}
	d := diag.NewError(diag.InlineFontTooSmall, span, "font too small")
	return d.WithFix(Literal{Title: "raise", Span: span, Old: oldText, New: newText}.Fix())
}

func TestCollectSkips(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("chart.py", []byte("x = 8\n"))
	span := source.Span{File: fileID, Start: 4, End: 5}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.InlineFontTooSmall,
		Message: "font too small",
		Primary: span,
		Fixes: []diag.Fix{
			{ID: "fix-duplicate", Title: "raise", Edits: []diag.TextEdit{{Span: span, NewText: "12"}}},
			{ID: "fix-duplicate", Title: "raise again", Edits: []diag.TextEdit{{Span: span, NewText: "12"}}},
			{ID: "empty", Title: "nothing"},
			{ID: "review", Title: "guess", Applicability: diag.FixApplicabilityManualReview, Edits: []diag.TextEdit{{Span: span, NewText: "99"}}},
		},
	}}

	res := &Result{}
	cands := collect(diagnostics, Options{}, res)
	if len(cands) != 1 || cands[0].fix.Title != "raise" {
		t.Fatalf("candidates = %+v", cands)
	}
	reasons := map[string]string{}
	for _, sk := range res.Skipped {
		reasons[sk.Title] = sk.Reason
	}
	want := map[string]string{"raise again": ReasonDupID, "nothing": ReasonNoEdits, "guess": ReasonReview}
	if diff := cmp.Diff(want, reasons); diff != "" {
		t.Errorf("skip reasons (-want +got):\n%s", diff)
	}

	if got := collect(diagnostics, Options{Unsafe: true}, &Result{}); len(got) != 2 {
		t.Errorf("unsafe run must keep the review fix, got %d", len(got))
	}
}

func TestApplyWritesAllEdits(t *testing.T) {
	src := "plt.rcParams['axes.labelsize'] = 8\nax.text(0, 0, 'a', fontsize=9)\n"
	fs, id, path := loadFile(t, src)

	diags := []diag.Diagnostic{
		replaceDiag(id, 33, 34, "14", "8"),
		replaceDiag(id, 63, 64, "16", "9"),
	}
	res, err := Apply(fs, diags, Options{Atomic: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.Files) != 1 || !res.Files[0].Written {
		t.Fatalf("unexpected result %+v", res)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "plt.rcParams['axes.labelsize'] = 14\nax.text(0, 0, 'a', fontsize=16)\n"
	if string(got) != want {
		t.Fatalf("content mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestApplyDryRunLeavesFile(t *testing.T) {
	src := "ax.text(0, 0, 'a', fontsize=9)\n"
	fs, id, path := loadFile(t, src)

	res, err := Apply(fs, []diag.Diagnostic{replaceDiag(id, 28, 29, "12", "9")},
		Options{DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(res.Files) != 1 || res.Files[0].Written {
		t.Fatalf("dry run must not write: %+v", res.Files)
	}
	if string(res.Files[0].Content) != "ax.text(0, 0, 'a', fontsize=12)\n" {
		t.Fatalf("preview = %q", res.Files[0].Content)
	}
	got, _ := os.ReadFile(path)
	if string(got) != src {
		t.Fatalf("file changed during dry run: %q", got)
	}
}

func TestApplyAtomicAbortsOnMismatch(t *testing.T) {
	src := "ax.text(0, 0, 'a', fontsize=9)\nax.set_title('t', fontsize=7)\n"
	fs, id, path := loadFile(t, src)

	diags := []diag.Diagnostic{
		replaceDiag(id, 28, 29, "12", "9"),
		// ожидаемый текст не совпадает
		replaceDiag(id, 58, 59, "12", "5"),
	}
	res, err := Apply(fs, diags, Options{Atomic: true})
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if len(res.Applied) != 0 || len(res.Files) != 0 {
		t.Fatalf("nothing may be applied: %+v", res)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != ReasonStale {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
	got, _ := os.ReadFile(path)
	if string(got) != src {
		t.Fatalf("file must stay untouched, got %q", got)
	}
}

func TestApplyConflictingEdits(t *testing.T) {
	src := "ax.text(0, 0, 'a', fontsize=9)\n"
	fs, id, _ := loadFile(t, src)

	diags := []diag.Diagnostic{
		replaceDiag(id, 28, 29, "12", "9"),
		replaceDiag(id, 28, 29, "13", "9"),
	}
	res, err := Apply(fs, diags, Options{DryRun: true})
	if err != nil {
		t.Fatalf("non-atomic apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 || res.Skipped[0].Reason != ReasonConflict {
		t.Fatalf("expected one applied and one conflicting fix: %+v", res)
	}
	if string(res.Files[0].Content) != "ax.text(0, 0, 'a', fontsize=12)\n" {
		t.Fatalf("content = %q", res.Files[0].Content)
	}
}

func TestApplyNoFixes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.py", []byte("x = 1\n"))
	d := diag.NewWarning(diag.SmallFont, source.Span{File: id}, "small")
	if _, err := Apply(fs, []diag.Diagnostic{d}, Options{}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestSpansConflict(t *testing.T) {
	mk := func(s, e uint32) diag.TextEdit {
		return diag.TextEdit{Span: source.Span{Start: s, End: e}}
	}
	tests := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{mk(0, 2), mk(1, 3), true},
		{mk(0, 2), mk(2, 4), false},
		{mk(1, 1), mk(1, 1), false},
		{mk(1, 1), mk(0, 2), true},
		{mk(2, 2), mk(0, 2), false},
	}
	for i, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("case %d: got %v, want %v", i, got, tt.want)
		}
	}
}

func TestWriteFileAtomicKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.py")
	if err := os.WriteFile(path, []byte("old"), 0o640); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}
	got, _ := os.ReadFile(path)
	if string(got) != "new" {
		t.Errorf("content = %q", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary file left behind: %d entries", len(entries))
	}
}

func TestSpliceKeepsOrderOfEdits(t *testing.T) {
	content := []byte("fontsize=8, labelsize=9")
	edits := []diag.TextEdit{
		{Span: source.Span{Start: 22, End: 23}, NewText: "14"},
		{Span: source.Span{Start: 9, End: 10}, NewText: "12"},
	}
	if got := string(splice(content, edits)); got != "fontsize=12, labelsize=14" {
		t.Errorf("splice = %q", got)
	}
	if edits[0].Span.Start != 22 {
		t.Error("splice must not reorder the caller's slice")
	}
}
