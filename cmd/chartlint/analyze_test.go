package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chartlint/internal/diagfmt"
	"chartlint/internal/driver"
)

const overlapScript = "import matplotlib.pyplot as plt\n" +
	"fig, ax = plt.subplots()\n" +
	"ax.text(0.50, 0.50, 'Revenue growth', fontsize=14)\n" +
	"ax.text(0.51, 0.50, 'Cost growth', fontsize=14)\n"

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func baseRequest(a driver.Analysis, paths ...string) *analyzeRequest {
	return &analyzeRequest{
		analyses: a,
		title:    "chartlint test",
		paths:    paths,
		format:   diagfmt.FormatShort,
		jobs:     2,
		ui:       uiModeOff,
	}
}

func TestExecuteOverlapShort(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chart.py", overlapScript)

	var out bytes.Buffer
	exit, err := execute(context.Background(), baseRequest(driver.AnalyzeOverlap, path), &out)
	if err != nil {
		t.Fatal(err)
	}
	if exit != 1 {
		t.Errorf("exit = %d, want 1", exit)
	}
	if !strings.Contains(out.String(), "error TEXT_OVERLAP ") {
		t.Errorf("no overlap in:\n%s", out.String())
	}
	if !strings.HasSuffix(out.String(), "1 file, 1 issue (1 error), 0 fixed\n") {
		t.Errorf("summary missing:\n%s", out.String())
	}
}

func TestExecuteFontsFix(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chart.py", "import matplotlib.pyplot as plt\nplt.rcParams['axes.labelsize'] = 8\n")

	req := baseRequest(driver.AnalyzeFonts, path)
	req.fix = true
	var out bytes.Buffer
	exit, err := execute(context.Background(), req, &out)
	if err != nil {
		t.Fatal(err)
	}
	if exit != 0 {
		t.Errorf("exit = %d:\n%s", exit, out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "= 14\n") {
		t.Errorf("not rewritten:\n%s", data)
	}
	if !strings.Contains(out.String(), "1 fixed") {
		t.Errorf("summary:\n%s", out.String())
	}
}

func TestExecuteAllUsesConfigPattern(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "chartlint.toml", "[discover]\npattern = \"plot.py\"\n")
	writeFile(t, root, "a/plot.py", "import matplotlib.pyplot as plt\nplt.plot([1, 2])\n")
	writeFile(t, root, "b/chart.py", overlapScript)

	req := baseRequest(driver.AnalyzeAll)
	req.all = true
	req.root = root
	req.format = diagfmt.FormatJSON
	var out bytes.Buffer
	exit, err := execute(context.Background(), req, &out)
	if err != nil {
		t.Fatal(err)
	}
	var doc diagfmt.BatchJSON
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out.String())
	}
	if len(doc.Files) != 1 || doc.Files[0].Path != "a/plot.py" {
		t.Fatalf("files = %+v", doc.Files)
	}
	if exit != 0 || doc.Summary.ExitCode != 0 {
		t.Errorf("exit = %d, summary = %+v", exit, doc.Summary)
	}
}

func TestExecuteErrors(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a/chart.py", overlapScript)
	b := writeFile(t, dir, "b/chart.py", overlapScript)

	req := baseRequest(driver.AnalyzeOverlap, a, b)
	req.preview = filepath.Join(dir, "out.png")
	if _, err := execute(context.Background(), req, &bytes.Buffer{}); err == nil {
		t.Error("--preview with two files must fail")
	}

	req = baseRequest(driver.AnalyzeFonts, a)
	req.scale, req.scaleSet = 1.5, true
	if _, err := execute(context.Background(), req, &bytes.Buffer{}); err == nil {
		t.Error("--scale 1.5 must fail")
	}

	req = baseRequest(driver.AnalyzeOverlap)
	if _, err := execute(context.Background(), req, &bytes.Buffer{}); err == nil {
		t.Error("no target must fail")
	}
}

func TestExecutePreview(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chart.py", overlapScript)
	png := filepath.Join(dir, "layout.png")

	req := baseRequest(driver.AnalyzeOverlap, path)
	req.preview = png
	if _, err := execute(context.Background(), req, &bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(png); err != nil || info.Size() == 0 {
		t.Fatalf("preview not written: %v", err)
	}
}

func TestReadUIAndColorModes(t *testing.T) {
	if m, err := readUIMode(" ON "); err != nil || m != uiModeOn {
		t.Errorf("readUIMode = %v, %v", m, err)
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("bad --ui accepted")
	}
	if shouldUseTUI(uiModeOff, 10) || !shouldUseTUI(uiModeOn, 1) {
		t.Error("explicit --ui ignored")
	}
	if c, err := readColorMode("on", nil); err != nil || !c {
		t.Errorf("readColorMode(on) = %v, %v", c, err)
	}
	if c, err := readColorMode("auto", nil); err != nil || c {
		t.Errorf("readColorMode(auto, nil) = %v, %v", c, err)
	}
	if _, err := readColorMode("rainbow", nil); err == nil {
		t.Error("bad --color accepted")
	}
}

func TestRenderVersion(t *testing.T) {
	var buf bytes.Buffer
	renderVersionPretty(&buf, versionInfo{Version: "1.2.3"}, versionOptions{showHash: true})
	if got, want := buf.String(), "chartlint 1.2.3: "+versionTagline+"\ncommit:  unknown\n"; got != want {
		t.Errorf("pretty = %q, want %q", got, want)
	}

	buf.Reset()
	if err := renderVersionJSON(&buf, versionInfo{Version: "1.2.3", BuildDate: "2026-01-02"}, versionOptions{showDate: true}); err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal(buf.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "chartlint" || p.BuildDate != "2026-01-02" || p.GitCommit != "" {
		t.Errorf("payload = %+v", p)
	}
}
