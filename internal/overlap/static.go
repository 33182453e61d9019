package overlap

import (
	"fmt"
	"slices"
	"strings"

	"chartlint/internal/diag"
	"chartlint/internal/extract"
	"chartlint/internal/geom"
)

// Placed is a positioned text with its estimated box.
type Placed struct {
	Text extract.TextElement
	Box  geom.BBox
	Line uint32
}

// Pair indexes two colliding elements, A < B.
type Pair struct {
	A, B int
}

// StaticReport keeps the geometry the static pass worked with.
type StaticReport struct {
	Placed   []Placed
	Shapes   []extract.ShapeElement
	Overlaps []Pair
	Figure   extract.Figure
}

// LinePairs returns the unordered source line pairs of the overlaps.
func (r *StaticReport) LinePairs() map[[2]uint32]bool {
	if r == nil {
		return map[[2]uint32]bool{}
	}
	out := make(map[[2]uint32]bool, len(r.Overlaps))
	for _, p := range r.Overlaps {
		out[linePair(r.Placed[p.A].Line, r.Placed[p.B].Line)] = true
	}
	return out
}

func linePair(a, b uint32) [2]uint32 {
	if a > b {
		a, b = b, a
	}
	return [2]uint32{a, b}
}

// comparable: on a multi-panel figure only texts of the same axes share
// a coordinate space. An element of unknown axes is checked against all.
func comparable(a, b string, panels int) bool {
	return panels <= 1 || a == b || a == extract.UnknownAxes || b == extract.UnknownAxes
}

// CheckStatic estimates boxes for every positioned text of res and reports
// TEXT_OVERLAP, TEXT_NEAR_EDGE and CROWDED_REGION.
func CheckStatic(res *extract.Result, est *geom.Estimator, opts Options, r diag.Reporter) *StaticReport {
	opts = opts.withDefaults()
	rep := &StaticReport{Shapes: res.Shapes, Figure: res.Figure}
	for _, t := range res.Positioned() {
		rep.Placed = append(rep.Placed, Placed{
			Text: t,
			Box:  est.Box(t, res.Figure),
			Line: res.File.Line(t.Span),
		})
	}

	panels := res.Figure.Panels()
	checkPairs(rep, panels, opts, r)
	checkEdges(rep, panels, opts, r)
	checkCrowding(rep, panels, opts, r)
	return rep
}

func checkPairs(rep *StaticReport, panels int, opts Options, r diag.Reporter) {
	for i := range rep.Placed {
		a := &rep.Placed[i]
		for j := i + 1; j < len(rep.Placed); j++ {
			b := &rep.Placed[j]
			if !comparable(a.Text.Axes, b.Text.Axes, panels) {
				continue
			}
			if !a.Box.Intersects(b.Box, opts.Margin) {
				continue
			}
			rep.Overlaps = append(rep.Overlaps, Pair{A: i, B: j})
			msg := fmt.Sprintf("text %s (line %d) overlaps text %s (line %d)",
				quote(a.Text.Text), a.Line, quote(b.Text.Text), b.Line)
			diag.ReportError(r, diag.TextOverlap, a.Text.Span, msg).
				WithNote(b.Text.Span, "overlapping text is drawn here").
				WithAttr("lines", fmt.Sprintf("%d,%d", a.Line, b.Line)).
				WithAttr("hint", "move one of the labels or change its alignment").
				Emit()
		}
	}
}

type edge struct {
	name string
	// vertical: x == at, y ∈ [lo, hi]; иначе y == at, x ∈ [lo, hi]
	vertical bool
	at       float64
	lo, hi   float64
}

func shapeEdges(s extract.ShapeElement) []edge {
	return []edge{
		{"left", true, s.XMin, s.YMin, s.YMax},
		{"right", true, s.XMax, s.YMin, s.YMax},
		{"bottom", false, s.YMin, s.XMin, s.XMax},
		{"top", false, s.YMax, s.XMin, s.XMax},
	}
}

func (e edge) near(cx, cy, margin float64) bool {
	along, across := cy, cx
	if !e.vertical {
		along, across = cx, cy
	}
	d := across - e.at
	return d >= -margin && d <= margin && along >= e.lo && along <= e.hi
}

func checkEdges(rep *StaticReport, panels int, opts Options, r diag.Reporter) {
	for _, p := range rep.Placed {
		cx, cy := p.Box.Center()
		for _, s := range rep.Shapes {
			if !comparable(p.Text.Axes, s.Axes, panels) {
				continue
			}
			for _, e := range shapeEdges(s) {
				if !e.near(cx, cy, opts.EdgeMargin) {
					continue
				}
				msg := fmt.Sprintf("text %s (line %d) sits on the %s edge of %s",
					quote(p.Text.Text), p.Line, e.name, s.Kind)
				diag.ReportWarning(r, diag.TextNearEdge, p.Text.Span, msg).
					WithNote(s.Span, s.Kind+" declared here").
					WithAttr("edge", e.name).
					Emit()
				break // одно предупреждение на пару текст/фигура
			}
		}
	}
}

func checkCrowding(rep *StaticReport, panels int, opts Options, r diag.Reporter) {
	n := opts.Grid
	type cellKey struct {
		axes     string
		row, col int
	}
	cells := make(map[cellKey][]int)
	for i, p := range rep.Placed {
		cx, cy := p.Box.Center()
		if cx < 0 || cx > 1 || cy < 0 || cy > 1 {
			continue
		}
		col := min(int(cx*float64(n)), n-1)
		// строки считаем сверху, как их видит читатель
		row := n - 1 - min(int(cy*float64(n)), n-1)
		axes := ""
		if panels > 1 {
			axes = p.Text.Axes
		}
		k := cellKey{axes, row, col}
		cells[k] = append(cells[k], i)
	}

	keys := make([]cellKey, 0, len(cells))
	for k, members := range cells {
		if len(members) > opts.CrowdThreshold {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b cellKey) int {
		if c := strings.Compare(a.axes, b.axes); c != 0 {
			return c
		}
		if a.row != b.row {
			return a.row - b.row
		}
		return a.col - b.col
	})

	for _, k := range keys {
		members := cells[k]
		first := rep.Placed[members[0]]
		msg := fmt.Sprintf("%d labels crowd grid cell (row %d, col %d) of %d×%d",
			len(members), k.row+1, k.col+1, n, n)
		if k.axes != "" {
			msg += " on " + k.axes
		}
		b := diag.ReportWarning(r, diag.CrowdedRegion, first.Text.Span, msg).
			WithAttr("count", fmt.Sprint(len(members))).
			WithAttr("threshold", fmt.Sprint(opts.CrowdThreshold))
		for _, i := range members[1:] {
			b.WithNote(rep.Placed[i].Text.Span, "also in this cell")
		}
		b.Emit()
	}
}

// quote shortens long labels for messages.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	if r := []rune(s); len(r) > 32 {
		s = string(r[:31]) + "…"
	}
	return fmt.Sprintf("%q", s)
}
