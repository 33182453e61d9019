package geom

import (
	"math"
	"testing"

	"chartlint/internal/extract"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnchorInvariants(t *testing.T) {
	const x, y, w, h = 0.4, 0.6, 0.2, 0.05
	tests := []struct {
		ha extract.HAlign
		va extract.VAlign
	}{
		{extract.HALeft, extract.VABaseline},
		{extract.HACenter, extract.VACenter},
		{extract.HARight, extract.VATop},
		{extract.HALeft, extract.VABottom},
	}
	for _, tt := range tests {
		b := Anchor(x, y, w, h, tt.ha, tt.va)
		switch tt.ha {
		case extract.HALeft:
			if b.XMin != x {
				t.Errorf("%v: XMin = %v, want %v", tt.ha, b.XMin, x)
			}
		case extract.HARight:
			if b.XMax != x {
				t.Errorf("%v: XMax = %v, want %v", tt.ha, b.XMax, x)
			}
		case extract.HACenter:
			if cx, _ := b.Center(); !approx(cx, x) {
				t.Errorf("%v: center x = %v, want %v", tt.ha, cx, x)
			}
		}
		switch tt.va {
		case extract.VATop:
			if b.YMax != y {
				t.Errorf("%v: YMax = %v, want %v", tt.va, b.YMax, y)
			}
		case extract.VABottom, extract.VABaseline:
			if b.YMin != y {
				t.Errorf("%v: YMin = %v, want %v", tt.va, b.YMin, y)
			}
		case extract.VACenter:
			if _, cy := b.Center(); !approx(cy, y) {
				t.Errorf("%v: center y = %v, want %v", tt.va, cy, y)
			}
		}
		if !approx(b.Width(), w) || !approx(b.Height(), h) {
			t.Errorf("%v/%v: size %vx%v", tt.ha, tt.va, b.Width(), b.Height())
		}
	}
}

func TestFallbackApproximation(t *testing.T) {
	e := NewEstimator(nil)
	w, h := e.TextSize("abc", 10)
	if !approx(w, 18) {
		t.Fatalf("width = %v, want 18", w)
	}
	if !approx(h, 12) {
		t.Fatalf("height = %v, want 12", h)
	}
	w, _ = e.TextSize("中文", 10)
	if !approx(w, 20) {
		t.Fatalf("wide runes width = %v, want 20", w)
	}
}

func TestTextSizeWithGoSans(t *testing.T) {
	e := NewEstimator(GoSans())

	narrow, _ := e.TextSize("iiii", 12)
	wide, _ := e.TextSize("WWWW", 12)
	if narrow <= 0 || wide <= narrow {
		t.Fatalf("expected W wider than i: %v vs %v", wide, narrow)
	}

	w12, _ := e.TextSize("Revenue", 12)
	w24, _ := e.TextSize("Revenue", 24)
	if !approx(w24, 2*w12) {
		t.Fatalf("width must scale with size: %v vs %v", w24, w12)
	}

	one, h1 := e.TextSize("Revenue", 10)
	multi, h2 := e.TextSize("Rev\nRevenue\nR", 10)
	if !approx(multi, one) {
		t.Fatalf("multi-line width must be the widest line: %v vs %v", multi, one)
	}
	if !approx(h2, 3*h1) || !approx(h1, 12) {
		t.Fatalf("heights %v, %v", h1, h2)
	}

	// в Go Sans нет CJK: ширина как у широкой руны
	cjk, _ := e.TextSize("中", 10)
	if !approx(cjk, 10) {
		t.Fatalf("missing glyph width = %v, want 10", cjk)
	}
}

func TestBoxUsesAxesExtent(t *testing.T) {
	e := NewEstimator(nil)
	fig := extract.Figure{Width: 10, Height: 5}
	te := extract.TextElement{X: 0.5, Y: 0.5, Text: "abcde", FontSize: 10, Positioned: true}
	b := e.Box(te, fig)

	axW, axH := AxesExtent(fig)
	if !approx(axW, 10*72*0.775) || !approx(axH, 5*72*0.77) {
		t.Fatalf("axes extent %v x %v", axW, axH)
	}
	if !approx(b.Width(), 30/axW) || !approx(b.Height(), 12/axH) {
		t.Fatalf("box = %v", b)
	}

	// фигура без размеров - значения matplotlib по умолчанию
	dw, _ := AxesExtent(extract.Figure{})
	if !approx(dw, extract.DefaultFigWidth*72*0.775) {
		t.Fatalf("default extent = %v", dw)
	}
}

func TestIntersects(t *testing.T) {
	a := BBox{0, 0, 1, 1}
	tests := []struct {
		name   string
		b      BBox
		margin float64
		want   bool
	}{
		{"overlap", BBox{0.5, 0.5, 2, 2}, 0, true},
		{"touching edges", BBox{1, 0, 2, 1}, 0, false},
		{"gap inside margin", BBox{1.01, 0, 2, 1}, 0.02, true},
		{"gap beyond margin", BBox{1.05, 0, 2, 1}, 0.02, false},
		{"separated vertically", BBox{0, 1.5, 1, 2}, 0.02, false},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b, tt.margin); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
		if got := tt.b.Intersects(a, tt.margin); got != tt.want {
			t.Errorf("%s (swapped): got %v, want %v", tt.name, got, tt.want)
		}
	}

	in := a.Intersection(BBox{0.5, 0.5, 2, 2})
	if !approx(in.Area(), 0.25) {
		t.Fatalf("intersection area = %v", in.Area())
	}
	if !a.Intersection(BBox{2, 2, 3, 3}).Empty() {
		t.Fatal("disjoint boxes must give an empty intersection")
	}
}
