package render

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

// requireMatplotlib skips the test when python3 or matplotlib is missing.
func requireMatplotlib(t *testing.T) *Sandbox {
	t.Helper()
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	sb := &Sandbox{Timeout: 60 * time.Second}
	if err := sb.Available(context.Background()); err != nil {
		t.Skipf("matplotlib not available: %v", err)
	}
	return sb
}

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.py")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCollectsTaggedTexts(t *testing.T) {
	sb := requireMatplotlib(t)
	path := writeScript(t, "import matplotlib.pyplot as plt\n"+
		"fig, ax = plt.subplots()\n"+
		"ax.text(0.5, 0.5, 'Revenue growth', fontsize=14, transform=ax.transAxes)\n"+
		"ax.text(0.51, 0.5, 'Cost growth', fontsize=14, transform=ax.transAxes)\n"+
		"plt.savefig('out.png')\n"+
		"plt.show()\n")

	out, err := sb.Render(context.Background(), path)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := map[string]uint32{}
	for _, tx := range out.Texts {
		lines[tx.Text] = tx.Line
		if tx.Box.Width() <= 0 || tx.Box.Height() <= 0 {
			t.Errorf("%q: empty box %v", tx.Text, tx.Box)
		}
	}
	if lines["Revenue growth"] != 3 || lines["Cost growth"] != 4 {
		t.Fatalf("text lines = %v", lines)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(path), "out.png")); !os.IsNotExist(err) {
		t.Fatal("savefig must be a no-op inside the sandbox")
	}
}

func TestRenderExceptionBecomesWarning(t *testing.T) {
	sb := requireMatplotlib(t)
	src := "import matplotlib.pyplot as plt\n" +
		"data = []\n" +
		"raise ValueError('no data to plot')\n"
	path := writeScript(t, src)

	_, err := sb.Render(context.Background(), path)
	var se *ScriptError
	if !errors.As(err, &se) || se.Kind != FailureException {
		t.Fatalf("err = %v", err)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(src))
	bag := diag.NewBag(0)
	ReportFailure(diag.BagReporter{Bag: bag}, fs.Get(id), err)

	if bag.Len() != 1 {
		t.Fatalf("expected one issue, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.RenderError || d.Severity != diag.SevWarning {
		t.Fatalf("issue = %s %s", d.Code.ID(), d.Severity)
	}
	if !strings.Contains(d.Message, "ValueError: no data to plot") {
		t.Fatalf("message = %q", d.Message)
	}
	if line := fs.Get(id).Line(d.Primary); line != 3 {
		t.Fatalf("issue on line %d, want 3", line)
	}
}

func TestRenderTimeout(t *testing.T) {
	sb := requireMatplotlib(t)
	sb.Timeout = 3 * time.Second
	path := writeScript(t, "import time\ntime.sleep(30)\n")

	_, err := sb.Render(context.Background(), path)
	var se *ScriptError
	if !errors.As(err, &se) || se.Kind != FailureTimeout {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestMissingInterpreter(t *testing.T) {
	sb := &Sandbox{Python: "python3-does-not-exist-chartlint"}
	_, err := sb.Render(context.Background(), "chart.py")
	if !errors.Is(err, ErrInterpreterNotFound) {
		t.Fatalf("err = %v", err)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.py", []byte("x = 1\n"))
	bag := diag.NewBag(0)
	ReportFailure(diag.BagReporter{Bag: bag}, fs.Get(id), err)
	if kind, _ := bag.Items()[0].Attr("kind"); kind != "interpreter" {
		t.Fatalf("kind = %q", kind)
	}
}

func TestGuardSerializes(t *testing.T) {
	g := NewGuard(1)
	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.With(context.Background(), func() error {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()
	if peak.Load() != 1 {
		t.Fatalf("peak concurrency = %d, want 1", peak.Load())
	}
}

func TestGuardRespectsContext(t *testing.T) {
	g := NewGuard(1)
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer g.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := g.With(ctx, func() error { return nil }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}
