package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"chartlint/internal/diag"
	"chartlint/internal/geom"
)

const overlapScript = "import matplotlib.pyplot as plt\n" +
	"fig, ax = plt.subplots()\n" +
	"ax.text(0.50, 0.50, 'Revenue growth', fontsize=14)\n" +
	"ax.text(0.51, 0.50, 'Cost growth', fontsize=14)\n"

const smallLabelScript = "import matplotlib.pyplot as plt\n" +
	"plt.rcParams['axes.labelsize'] = 8\n" +
	"fig, ax = plt.subplots()\n" +
	"ax.set_xlabel('Year')\n"

func writeScript(t *testing.T, dir, rel, content string) string {
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

func testOptions(a Analysis) Options {
	return Options{
		Analyses:  a,
		Fraction:  1,
		Jobs:      2,
		Estimator: geom.NewEstimator(geom.GoSans()),
	}
}

func golden(res *Result) string {
	var parts []string
	for _, rep := range res.Reports {
		parts = append(parts, diag.FormatLines(rep.Bag.Items(), res.FileSet, true))
	}
	return strings.Join(parts, "\n--\n")
}

func TestRunOverlapScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "chart.py", overlapScript)

	res, err := Run(context.Background(), []string{path}, testOptions(AnalyzeOverlap))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	rep := res.Reports[0]
	if got := rep.Bag.ByCode(diag.TextOverlap); len(got) != 1 || rep.Bag.Len() != 1 {
		t.Fatalf("expected one TEXT_OVERLAP, got:\n%s", golden(res))
	}
	if rep.Static == nil || len(rep.Static.Placed) != 2 {
		t.Fatalf("static report not kept: %+v", rep.Static)
	}
	if res.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", res.ExitCode())
	}
	if res.Summary.Files != 1 || res.Summary.Issues != 1 || res.Summary.BySeverity[diag.SevError] != 1 {
		t.Errorf("summary = %+v", res.Summary)
	}
}

func TestRunMissingFileDoesNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	good := writeScript(t, dir, "a/chart.py", "import matplotlib.pyplot as plt\nplt.plot([1, 2])\n")
	missing := filepath.Join(dir, "b", "chart.py")

	res, err := Run(context.Background(), []string{missing, good}, testOptions(AnalyzeAll))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Reports) != 2 {
		t.Fatalf("reports = %d", len(res.Reports))
	}
	first := res.Reports[0]
	if !first.Missing || first.Bag.Len() != 1 {
		t.Fatalf("missing file report:\n%s", golden(res))
	}
	d := first.Bag.Items()[0]
	if d.Code != diag.FileNotFound || d.Severity != diag.SevError {
		t.Fatalf("unexpected issue %v %v", d.Code, d.Severity)
	}
	if !strings.Contains(d.Message, "no such file") {
		t.Errorf("message = %q", d.Message)
	}
	if res.Reports[1].Bag.Len() != 0 {
		t.Errorf("clean file has issues:\n%s", golden(res))
	}
	if res.ExitCode() != 1 {
		t.Errorf("exit code = %d", res.ExitCode())
	}
}

func TestRunDeterministic(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c", "d"} {
		src := overlapScript + "fig2, ax2 = plt.subplots(2, 3)\n" + "plt.rcParams['font.size'] = 6\n"
		paths = append(paths, writeScript(t, dir, name+"/chart.py", src))
	}
	opts := testOptions(AnalyzeOverlap | AnalyzeReadability | AnalyzeFonts)
	opts.Jobs = 4

	first, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Run(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(golden(first), golden(second)); diff != "" {
		t.Fatalf("runs differ (-first +second):\n%s", diff)
	}
	// kind first, then position
	items := first.Reports[0].Bag.Items()
	for i := 1; i < len(items); i++ {
		if items[i-1].Code > items[i].Code {
			t.Fatalf("issues not ordered by kind: %v before %v", items[i-1].Code, items[i].Code)
		}
	}
}

func TestRunFixWritesAndCounts(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "chart.py", smallLabelScript)
	opts := testOptions(AnalyzeFonts)
	opts.Fix = true

	res, err := Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Fixed != 1 || !res.Reports[0].Written {
		t.Fatalf("summary = %+v written=%v", res.Summary, res.Reports[0].Written)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "plt.rcParams['axes.labelsize'] = 14\n") {
		t.Fatalf("file not rewritten:\n%s", data)
	}
	if res.ExitCode() != 0 {
		t.Errorf("fixed issues must not fail the run, exit = %d", res.ExitCode())
	}

	again, err := Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.Summary.Fixed != 0 || again.Reports[0].Bag.Len() != 0 {
		t.Fatalf("second fix run is not a no-op:\n%s", golden(again))
	}
}

func TestRunFixNeedsFonts(t *testing.T) {
	opts := testOptions(AnalyzeOverlap)
	opts.Fix = true
	if _, err := Run(context.Background(), []string{"chart.py"}, opts); err == nil {
		t.Fatal("expected an error")
	}
	opts = testOptions(AnalyzeFonts)
	opts.Fraction = 1.5
	if _, err := Run(context.Background(), []string{"chart.py"}, opts); err == nil {
		t.Fatal("expected an error for scale 1.5")
	}
}

func TestRunVerboseParseLimits(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "chart.py", "x = compute()\nax.text(x, 0.5, 'label')\n")

	quiet, err := Run(context.Background(), []string{path}, testOptions(AnalyzeOverlap))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(quiet.Reports[0].Bag.ByCode(diag.ParseLimit)); n != 0 {
		t.Fatalf("PARSE_LIMIT without --verbose: %d", n)
	}

	opts := testOptions(AnalyzeOverlap)
	opts.Verbose = true
	loud, err := Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	limits := loud.Reports[0].Bag.ByCode(diag.ParseLimit)
	if len(limits) != 1 || limits[0].Severity != diag.SevInfo {
		t.Fatalf("expected one PARSE_LIMIT info:\n%s", golden(loud))
	}
	if loud.ExitCode() != 0 {
		t.Error("INFO issues must not fail the run")
	}
}

func TestRunCache(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "chart.py", overlapScript)
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions(AnalyzeOverlap | AnalyzeReadability)
	opts.Cache = cache
	opts.Fingerprint = digest('F')

	cold, err := Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if cold.Reports[0].Cached || cold.Metrics.DiskMisses != 1 {
		t.Fatalf("cold run: cached=%v metrics=%s", cold.Reports[0].Cached, cold.Metrics)
	}

	warm, err := Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !warm.Reports[0].Cached || warm.Metrics.DiskHits != 1 {
		t.Fatalf("warm run: cached=%v metrics=%s", warm.Reports[0].Cached, warm.Metrics)
	}
	if diff := cmp.Diff(golden(cold), golden(warm)); diff != "" {
		t.Fatalf("cached report differs:\n%s", diff)
	}

	opts.Fingerprint = digest('G')
	changed, err := Run(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if changed.Reports[0].Cached {
		t.Fatal("a different config fingerprint must miss")
	}
}

func TestRunProgressEvents(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a/chart.py", overlapScript)
	b := writeScript(t, dir, "b/chart.py", "import matplotlib.pyplot as plt\n")

	var mu sync.Mutex
	final := map[string]Status{}
	stages := map[Stage]bool{}
	opts := testOptions(AnalyzeAll)
	opts.Progress = SinkFunc(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Status == StatusDone || ev.Status == StatusError {
			final[ev.File] = ev.Status
		}
		stages[ev.Stage] = true
	})
	if _, err := Run(context.Background(), []string{a, b}, opts); err != nil {
		t.Fatal(err)
	}
	want := map[string]Status{a: StatusError, b: StatusDone}
	if diff := cmp.Diff(want, final); diff != "" {
		t.Fatalf("final statuses (-want +got):\n%s", diff)
	}
	for _, s := range []Stage{StageLoad, StageExtract, StageOverlap, StageReadability, StageFonts} {
		if !stages[s] {
			t.Errorf("no event for stage %s", s)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "chart.py", overlapScript)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, []string{path}, testOptions(AnalyzeOverlap)); err == nil {
		t.Fatal("expected context error")
	}
}
