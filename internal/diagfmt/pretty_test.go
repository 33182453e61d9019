package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

const fontScript = "import matplotlib.pyplot as plt\nplt.rcParams['font.size'] = 8\n"

// fontFixture возвращает FileSet и bag с одной RCPARAMS_TOO_SMALL на литерале 8.
func fontFixture(t *testing.T, path string) (*source.FileSet, *diag.Bag, source.Span) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(fontScript))
	off := strings.Index(fontScript, "= 8") + 2
	sp := source.Span{File: id, Start: uint32(off), End: uint32(off + 1)} //nolint:gosec

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.RcParamsTooSmall, sp, "rcParams['font.size'] is 8, minimum is 14").
		WithAttr("current", "8").
		WithAttr("minimum", "14").
		WithAttr("hint", "raise the literal to 14").
		WithNote(fs.Get(id).LineSpan(1), "pyplot imported here").
		WithFix(diag.Fix{
			ID:          "fonts.raise",
			Title:       "Raise to 14",
			IsPreferred: true,
			Edits:       []diag.TextEdit{{Span: sp, NewText: "14", OldText: "8"}},
		}))
	return fs, bag, sp
}

func TestPathModes(t *testing.T) {
	fs, bag, _ := fontFixture(t, "/home/user/charts/fig1/chart.py")
	fs.SetBaseDir("/home/user/charts")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
		absent   string
	}{
		{"absolute", PathModeAbsolute, "/home/user/charts/fig1/chart.py:2:29", ""},
		{"relative", PathModeRelative, "fig1/chart.py:2:29", "/home/user"},
		{"basename", PathModeBasename, "chart.py:2:29", "fig1/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			out := buf.String()
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected %q in:\n%s", tt.contains, out)
			}
			if tt.absent != "" && strings.Contains(out, tt.absent) {
				t.Errorf("unexpected %q in:\n%s", tt.absent, out)
			}
			if !strings.Contains(out, "ERROR RCPARAMS_TOO_SMALL: rcParams['font.size'] is 8, minimum is 14") {
				t.Errorf("header missing:\n%s", out)
			}
		})
	}
}

func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()
	short := fs.AddVirtual("fig/chart.py", []byte("x\n"))
	long := fs.AddVirtual("/very/long/absolute/path/to/some/deeply/nested/report/fig7/chart.py", []byte("x\n"))
	bag := diag.NewBag(10)
	bag.Add(diag.NewWarning(diag.TextNearEdge, source.Span{File: short, Start: 0, End: 1}, "a"))
	bag.Add(diag.NewWarning(diag.TextNearEdge, source.Span{File: long, Start: 0, End: 1}, "b"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto})
	out := buf.String()
	if !strings.Contains(out, "fig/chart.py:1:1: WARNING TEXT_NEAR_EDGE: a") {
		t.Errorf("short path changed:\n%s", out)
	}
	if !strings.Contains(out, "fig7/chart.py:1:1: WARNING TEXT_NEAR_EDGE: b") || strings.Contains(out, "/very/long") {
		t.Errorf("long path not shortened:\n%s", out)
	}
}

func TestPrettySnippet(t *testing.T) {
	fs, bag, _ := fontFixture(t, "chart.py")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()

	for _, want := range []string{
		" 1 | import matplotlib.pyplot as plt\n",
		" 2 | plt.rcParams['font.size'] = 8\n",
		"   | " + strings.Repeat(" ", 28) + "^\n",
		"  hint: raise the literal to 14\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	// без ShowAttrs прочие атрибуты не печатаются
	if strings.Contains(out, "= current") {
		t.Errorf("attrs printed without ShowAttrs:\n%s", out)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs, bag, _ := fontFixture(t, "chart.py")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowFixes: true, ShowAttrs: true})
	out := buf.String()

	for _, want := range []string{
		"note: chart.py:1:1: pyplot imported here",
		"fix #1: Raise to 14 [id=fonts.raise, quickfix, always-safe, preferred]",
		`edit chart.py:2:29 apply="14"`,
		"  = current: 8\n",
		"  = minimum: 14\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "preview:") {
		t.Errorf("preview printed without ShowPreview:\n%s", out)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs, bag, _ := fontFixture(t, "chart.py")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowFixes: true, ShowPreview: true})
	out := buf.String()

	for _, want := range []string{
		"preview:",
		"- plt.rcParams['font.size'] = 8",
		"+ plt.rcParams['font.size'] = 14",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestPrettyEmptyFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("missing/chart.py", nil)
	bag := diag.NewBag(4)
	bag.Add(diag.NewError(diag.FileNotFound, source.Span{File: id}, "cannot read chart script: no such file or directory"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 2})
	want := "missing/chart.py:1:1: ERROR FILE_NOT_FOUND: cannot read chart script: no such file or directory\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
