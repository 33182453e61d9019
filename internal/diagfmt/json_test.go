package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

func decodeOutput(t *testing.T, data []byte) DiagnosticsOutput {
	t.Helper()
	var out DiagnosticsOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, data)
	}
	return out
}

func TestJSONBasic(t *testing.T) {
	fs, bag, sp := fontFixture(t, "chart.py")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	out := decodeOutput(t, buf.Bytes())

	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "RCPARAMS_TOO_SMALL",
			Message:  "rcParams['font.size'] is 8, minimum is 14",
			Location: LocationJSON{
				File:      "chart.py",
				StartByte: sp.Start,
				EndByte:   sp.End,
				StartLine: 2,
				StartCol:  29,
				EndLine:   2,
				EndCol:    30,
			},
			Attrs: map[string]string{"current": "8", "minimum": "14", "hint": "raise the literal to 14"},
		}},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
}

func TestJSONWithNotesAndFixes(t *testing.T) {
	fs, bag, _ := fontFixture(t, "chart.py")
	var buf bytes.Buffer
	opts := JSONOpts{PathMode: PathModeBasename, IncludeNotes: true, IncludeFixes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatal(err)
	}
	d := decodeOutput(t, buf.Bytes()).Diagnostics[0]

	if len(d.Notes) != 1 || d.Notes[0].Message != "pyplot imported here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	fx := d.Fixes[0]
	if fx.ID != "fonts.raise" || fx.Kind != "quickfix" || fx.Applicability != "always-safe" || !fx.IsPreferred {
		t.Errorf("fix meta = %+v", fx)
	}
	if len(fx.Edits) != 1 || fx.Edits[0].NewText != "14" || fx.Edits[0].OldText != "8" {
		t.Errorf("edits = %+v", fx.Edits)
	}
	if fx.Edits[0].BeforeLines != nil {
		t.Error("previews must be opt-in")
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs, bag, _ := fontFixture(t, "chart.py")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "start_line") {
		t.Errorf("positions leaked:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), `"notes"`) || strings.Contains(buf.String(), `"fixes"`) {
		t.Errorf("notes/fixes must be opt-in:\n%s", buf.String())
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.py", []byte("a\nb\nc\n"))
	bag := diag.NewBag(10)
	for i := range 3 {
		off := uint32(i * 2) //nolint:gosec
		bag.Add(diag.NewWarning(diag.TextNearEdge, source.Span{File: id, Start: off, End: off + 1}, "edge"))
	}
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 2}); err != nil {
		t.Fatal(err)
	}
	if out := decodeOutput(t, buf.Bytes()); out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, len = %d", out.Count, len(out.Diagnostics))
	}
	if bag.Len() != 3 {
		t.Fatal("Max must not truncate the bag")
	}
}

func TestJSONPathModes(t *testing.T) {
	fs, bag, _ := fontFixture(t, "/srv/charts/q3/chart.py")
	fs.SetBaseDir("/srv/charts")
	for mode, want := range map[PathMode]string{
		PathModeAbsolute: "/srv/charts/q3/chart.py",
		PathModeRelative: "q3/chart.py",
		PathModeBasename: "chart.py",
	} {
		var buf bytes.Buffer
		if err := JSON(&buf, bag, fs, JSONOpts{PathMode: mode}); err != nil {
			t.Fatal(err)
		}
		if got := decodeOutput(t, buf.Bytes()).Diagnostics[0].Location.File; got != want {
			t.Errorf("mode %s: file = %q, want %q", mode.mode(), got, want)
		}
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs, bag, _ := fontFixture(t, "chart.py")
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true}); err != nil {
		t.Fatal(err)
	}
	edit := decodeOutput(t, buf.Bytes()).Diagnostics[0].Fixes[0].Edits[0]
	if diff := cmp.Diff([]string{"plt.rcParams['font.size'] = 8"}, edit.BeforeLines); diff != "" {
		t.Errorf("before (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"plt.rcParams['font.size'] = 14"}, edit.AfterLines); diff != "" {
		t.Errorf("after (-want +got):\n%s", diff)
	}
}

func TestYAMLMatchesJSON(t *testing.T) {
	fs, bag, _ := fontFixture(t, "chart.py")
	opts := JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true}

	var jbuf, ybuf bytes.Buffer
	if err := JSON(&jbuf, bag, fs, opts); err != nil {
		t.Fatal(err)
	}
	if err := YAML(&ybuf, bag, fs, opts); err != nil {
		t.Fatal(err)
	}
	var fromYAML DiagnosticsOutput
	if err := yaml.Unmarshal(ybuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, ybuf.String())
	}
	if diff := cmp.Diff(decodeOutput(t, jbuf.Bytes()), fromYAML); diff != "" {
		t.Fatalf("yaml differs from json (-json +yaml):\n%s", diff)
	}
	if !strings.Contains(ybuf.String(), "code: RCPARAMS_TOO_SMALL") {
		t.Errorf("unexpected yaml:\n%s", ybuf.String())
	}
}
