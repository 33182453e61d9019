package readability

import (
	"fmt"
	"strings"
	"testing"

	"chartlint/internal/diag"
	"chartlint/internal/extract"
	"chartlint/internal/fonts"
	"chartlint/internal/source"
)

func check(t *testing.T, src string, fraction float64) (*Report, *diag.Bag, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.py", []byte(src))
	file := fs.Get(id)
	bag := diag.NewBag(0)
	rep, err := Check(extract.Extract(file, extract.Options{}), Options{
		Rule:     fonts.DefaultRule(),
		Fraction: fraction,
	}, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return rep, bag, file
}

func TestMultiPanelGrid(t *testing.T) {
	src := "import matplotlib.pyplot as plt\n" +
		"fig, axes = plt.subplots(2, 3, figsize=(12, 6))\n" +
		"axes[0][0].set_title('A')\n"
	rep, bag, file := check(t, src, 1.0)

	panels := bag.ByCode(diag.MultiPanel)
	if len(panels) != 1 {
		t.Fatalf("expected exactly one MULTI_PANEL, got %d", len(panels))
	}
	d := panels[0]
	if d.Severity != diag.SevError || !strings.Contains(d.Message, "2×3") {
		t.Fatalf("issue = %s %q", d.Severity, d.Message)
	}
	if file.Line(d.Primary) != 2 {
		t.Fatalf("issue on line %d, want 2", file.Line(d.Primary))
	}
	if rep.Panels != 6 {
		t.Fatalf("panels = %d", rep.Panels)
	}
}

func TestSinglePanelIsQuiet(t *testing.T) {
	src := "import matplotlib.pyplot as plt\n" +
		"fig, ax = plt.subplots()\n" +
		"ax.set_title('Revenue', fontsize=18)\n" +
		"ax.set_xlabel('Year', fontsize=14)\n"
	_, bag, _ := check(t, src, 1.0)
	if bag.Len() != 0 {
		t.Fatalf("expected no issues, got %+v", bag.Items())
	}
}

func TestSmallFontsAtScale(t *testing.T) {
	src := "fig, ax = plt.subplots()\n" +
		"ax.set_title('Revenue', fontsize=18)\n" + // 18/1.5 = 12 < 16
		"ax.set_xlabel('Year', fontsize=21)\n" + // 21/1.5 = 14, ok
		"ax.text(0.1, 0.9, 'note', fontsize=10)\n" // 10/1.5 = 6.7 < 8
	rep, bag, file := check(t, src, 0.6)

	small := bag.ByCode(diag.SmallFont)
	critical := bag.ByCode(diag.CriticalSmallFont)
	if len(small) != 1 || len(critical) != 1 || bag.Len() != 2 {
		t.Fatalf("small=%d critical=%d total=%d", len(small), len(critical), bag.Len())
	}
	if file.Line(small[0].Primary) != 2 || small[0].Severity != diag.SevWarning {
		t.Fatalf("small font issue = %+v", small[0])
	}
	if file.Text(small[0].Primary) != "18" {
		t.Fatalf("primary should be the size literal, got %q", file.Text(small[0].Primary))
	}
	if critical[0].Severity != diag.SevCritical || file.Line(critical[0].Primary) != 4 {
		t.Fatalf("critical issue = %+v", critical[0])
	}
	if eff, _ := critical[0].Attr("effective"); eff != "6.7" {
		t.Fatalf("effective = %q", eff)
	}
	if len(rep.Sized) != 3 {
		t.Fatalf("sized = %d", len(rep.Sized))
	}
}

func TestExcessiveText(t *testing.T) {
	var b strings.Builder
	b.WriteString("fig, ax = plt.subplots()\n")
	b.WriteString("ax.tick_params(labelsize=14)\n")
	for i := range 16 {
		fmt.Fprintf(&b, "ax.text(0.%02d, 0.5, 'p%d', fontsize=12)\n", i*6, i)
	}
	rep, bag, _ := check(t, b.String(), 1.0)
	if rep.Texts != 16 {
		t.Fatalf("texts = %d, tick labels must not count", rep.Texts)
	}
	ex := bag.ByCode(diag.ExcessiveText)
	if len(ex) != 1 || ex[0].Severity != diag.SevWarning {
		t.Fatalf("expected one EXCESSIVE_TEXT warning, got %+v", ex)
	}
	if n, _ := ex[0].Attr("count"); n != "16" {
		t.Fatalf("count = %q", n)
	}
}

func TestCheckRejectsBadScale(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.py", []byte("x = 1\n"))
	_, err := Check(extract.Extract(fs.Get(id), extract.Options{}), Options{Rule: fonts.DefaultRule(), Fraction: 2}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}
