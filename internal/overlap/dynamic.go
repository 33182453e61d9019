package overlap

import (
	"fmt"

	"chartlint/internal/diag"
	"chartlint/internal/geom"
	"chartlint/internal/source"
)

// RenderedText is a text artist measured by the renderer. Box is in display
// pixels; Line is 0 when the artist cannot be tied to a source line.
type RenderedText struct {
	Kind string // text, annotation, title, xlabel, ticklabel, legend, ...
	Text string
	Line uint32
	Box  geom.BBox
}

// CheckDynamic compares exact rendered boxes. Only a positive-area
// intersection counts; static may be nil.
func CheckDynamic(file *source.File, texts []RenderedText, static *StaticReport, r diag.Reporter) []Pair {
	confirmed := static.LinePairs()
	var pairs []Pair
	for i := range texts {
		a := &texts[i]
		for j := i + 1; j < len(texts); j++ {
			b := &texts[j]
			if !a.Box.Intersects(b.Box, 0) {
				continue
			}
			area := a.Box.Intersection(b.Box).Area()
			if area <= 0 {
				continue
			}
			pairs = append(pairs, Pair{A: i, B: j})

			msg := fmt.Sprintf("rendered %s %s%s overlaps %s %s%s by %.0f px²",
				a.Kind, quote(a.Text), lineSuffix(a.Line),
				b.Kind, quote(b.Text), lineSuffix(b.Line), area)
			rb := diag.ReportError(r, diag.RenderedOverlap, lineSpan(file, a.Line), msg).
				WithAttr("area_px", fmt.Sprintf("%.1f", area))
			if b.Line != 0 && b.Line != a.Line {
				rb.WithNote(lineSpan(file, b.Line), "overlapping "+b.Kind+" is drawn here")
			}
			if a.Line != 0 && b.Line != 0 && confirmed[linePair(a.Line, b.Line)] {
				rb.WithNote(lineSpan(file, a.Line), "confirms the estimated TEXT_OVERLAP for these lines")
			}
			rb.Emit()
		}
	}
	return pairs
}

func lineSuffix(line uint32) string {
	if line == 0 {
		return ""
	}
	return fmt.Sprintf(" (line %d)", line)
}

// lineSpan: артисты без строки (подписи делений) указывают на начало файла.
func lineSpan(file *source.File, line uint32) source.Span {
	if line == 0 {
		return source.Span{File: file.ID}
	}
	return file.LineSpan(line)
}
