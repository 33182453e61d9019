package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chartlint/internal/diag"
	"chartlint/internal/driver"
)

func batchFixture(t *testing.T) *driver.Result {
	t.Helper()
	fs, bag, _ := fontFixture(t, "a/chart.py")
	clean := fs.AddVirtual("b/chart.py", []byte("import matplotlib.pyplot as plt\n"))
	return &driver.Result{
		FileSet: fs,
		Reports: []driver.FileReport{
			{Path: "a/chart.py", FileID: 0, Bag: bag},
			{Path: "b/chart.py", FileID: clean, Bag: diag.NewBag(4), Fixed: 1, Written: true},
		},
		Summary: driver.Summary{
			Files:      2,
			Issues:     1,
			Fixed:      1,
			BySeverity: map[diag.Severity]int{diag.SevError: 1},
		},
	}
}

func TestSummaryLine(t *testing.T) {
	res := batchFixture(t)
	if got, want := SummaryLine(res), "2 files, 1 issue (1 error), 1 fixed"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	res.Summary = driver.Summary{Files: 1, Cached: 1}
	if got, want := SummaryLine(res), "1 file, 0 issues, 0 fixed, 1 cached"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWriteBatchPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBatch(&buf, batchFixture(t), BatchOpts{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"==> a/chart.py (1 issue)\n",
		"a/chart.py:2:29: ERROR RCPARAMS_TOO_SMALL:",
		"==> b/chart.py (ok, 1 fixed)\n",
		"2 files, 1 issue (1 error), 1 fixed\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestWriteBatchShort(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBatch(&buf, batchFixture(t), BatchOpts{Format: FormatShort}); err != nil {
		t.Fatal(err)
	}
	want := "error RCPARAMS_TOO_SMALL a/chart.py:2:29 rcParams['font.size'] is 8, minimum is 14\n" +
		"2 files, 1 issue (1 error), 1 fixed\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestWriteBatchJSON(t *testing.T) {
	var buf bytes.Buffer
	res := batchFixture(t)
	if err := WriteBatch(&buf, res, BatchOpts{Format: FormatJSON, Timings: true}); err != nil {
		t.Fatal(err)
	}
	var got BatchJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	wantSummary := SummaryJSON{Files: 2, Issues: 1, Fixed: 1, BySeverity: map[string]int{"error": 1}, ExitCode: 1}
	if diff := cmp.Diff(wantSummary, got.Summary); diff != "" {
		t.Errorf("summary (-want +got):\n%s", diff)
	}
	if len(got.Files) != 2 || got.Files[0].Path != "a/chart.py" || len(got.Files[0].Diagnostics) != 1 {
		t.Fatalf("files = %+v", got.Files)
	}
	if got.Files[1].Diagnostics == nil || len(got.Files[1].Diagnostics) != 0 || !got.Files[1].Written {
		t.Errorf("clean file = %+v", got.Files[1])
	}
	if got.Timings != nil {
		t.Error("no timer, no timings")
	}
}

func TestWriteBatchYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBatch(&buf, batchFixture(t), BatchOpts{Format: FormatYAML}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"files:\n", "  - path: a/chart.py\n", "summary:\n", "  exit_code: 1\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPretty, "Short": FormatShort, "json": FormatJSON, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml accepted")
	}
}
