package geom

import (
	"strings"

	"chartlint/internal/extract"
)

const (
	// PointsPerInch: matplotlib считает в пунктах по 1/72 дюйма.
	PointsPerInch = 72.0
	// LineSpacing is matplotlib's default text.linespacing.
	LineSpacing = 1.2
	// Доля фигуры под осями при subplotpars по умолчанию
	// (left=0.125, right=0.9, bottom=0.11, top=0.88).
	axesWidthFrac  = 0.775
	axesHeightFrac = 0.77
)

// Estimator turns text elements into bounding boxes. Font may be nil, in
// which case every glyph is approximated by FallbackAdvanceEm.
type Estimator struct {
	Font *Font
}

func NewEstimator(f *Font) *Estimator {
	return &Estimator{Font: f}
}

func (e *Estimator) advanceEm(r rune) float64 {
	if e.Font == nil {
		return FallbackAdvanceEm(r)
	}
	return e.Font.AdvanceEm(r)
}

// TextSize returns the extent of text in points: the widest line and
// lines × size × LineSpacing.
func (e *Estimator) TextSize(text string, size float64) (w, h float64) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		var em float64
		for _, r := range line {
			em += e.advanceEm(r)
		}
		w = max(w, em*size)
	}
	h = float64(len(lines)) * size * LineSpacing
	return w, h
}

// AxesExtent returns the size of a single axes in points.
func AxesExtent(fig extract.Figure) (w, h float64) {
	fw, fh := fig.Width, fig.Height
	if fw <= 0 {
		fw = extract.DefaultFigWidth
	}
	if fh <= 0 {
		fh = extract.DefaultFigHeight
	}
	return fw * PointsPerInch * axesWidthFrac, fh * PointsPerInch * axesHeightFrac
}

// Box estimates the axis-fraction box of a positioned text. The declared
// point becomes the corner, edge midpoint or center named by the anchor;
// baseline is treated as bottom.
func (e *Estimator) Box(t extract.TextElement, fig extract.Figure) BBox {
	wPt, hPt := e.TextSize(t.Text, t.FontSize)
	axW, axH := AxesExtent(fig)
	return Anchor(t.X, t.Y, wPt/axW, hPt/axH, t.HAlign, t.VAlign)
}

// Anchor places a w×h box so that (x, y) sits where ha/va say.
func Anchor(x, y, w, h float64, ha extract.HAlign, va extract.VAlign) BBox {
	var b BBox
	switch ha {
	case extract.HARight:
		b.XMin, b.XMax = x-w, x
	case extract.HACenter:
		b.XMin, b.XMax = x-w/2, x+w/2
	default:
		b.XMin, b.XMax = x, x+w
	}
	switch va {
	case extract.VATop:
		b.YMin, b.YMax = y-h, y
	case extract.VACenter:
		b.YMin, b.YMax = y-h/2, y+h/2
	default:
		b.YMin, b.YMax = y, y+h
	}
	return b
}

// FractionOfAxes converts a point length into a fraction of the axes width.
func FractionOfAxes(pt float64, fig extract.Figure) float64 {
	w, _ := AxesExtent(fig)
	return pt / w
}
