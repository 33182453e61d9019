// Package readability flags charts that will not read well once shrunk onto
// a slide: fonts below the role minimum, multi-panel grids, too much text.
package readability

import (
	"fmt"
	"strconv"

	"chartlint/internal/diag"
	"chartlint/internal/extract"
	"chartlint/internal/fonts"
)

// DefaultMaxTexts is the text budget of one chart.
const DefaultMaxTexts = 15

type Options struct {
	Rule     fonts.Rule
	Fraction float64
	// MaxTexts: больше текстов - EXCESSIVE_TEXT; 0 - значение по умолчанию.
	MaxTexts int
}

// Sized is a text with a literal size and its on-slide size.
type Sized struct {
	Text      extract.TextElement
	Effective float64
	Minimum   float64
	Severity  diag.Severity // SevInfo when legible
}

// Report summarizes one file.
type Report struct {
	Panels int
	Texts  int // text elements counted against MaxTexts
	Sized  []Sized
}

// Check reports MULTI_PANEL, EXCESSIVE_TEXT, SMALL_FONT and
// CRITICAL_SMALL_FONT for res.
func Check(res *extract.Result, opts Options, r diag.Reporter) (*Report, error) {
	if err := fonts.ValidateFraction(opts.Fraction); err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}
	if opts.MaxTexts <= 0 {
		opts.MaxTexts = DefaultMaxTexts
	}

	fig := res.Figure
	rep := &Report{Panels: fig.Panels()}
	if rep.Panels > 1 {
		grid := fmt.Sprintf("%d×%d", max(fig.Rows, 1), max(fig.Cols, 1))
		diag.ReportError(r, diag.MultiPanel, fig.GridSpan,
			fmt.Sprintf("figure declares a %s grid of panels; each panel gets %d%% of the width", grid, 100/max(fig.Cols, 1))).
			WithAttr("grid", grid).
			WithAttr("panels", strconv.Itoa(rep.Panels)).
			Emit()
	}

	for _, t := range res.Texts {
		// tick_params(labelsize=...) задаёт кегль, а не отдельный текст
		if t.Role != extract.RoleTickLabel {
			rep.Texts++
		}
		if !t.HasFontSize {
			continue
		}
		rep.Sized = append(rep.Sized, checkSize(t, opts, r))
	}

	if rep.Texts > opts.MaxTexts {
		first := res.Texts[0].Span
		diag.ReportWarning(r, diag.ExcessiveText, first,
			fmt.Sprintf("%d text elements, more than %d compete for attention", rep.Texts, opts.MaxTexts)).
			WithAttr("count", strconv.Itoa(rep.Texts)).
			WithAttr("max", strconv.Itoa(opts.MaxTexts)).
			Emit()
	}
	return rep, nil
}

func checkSize(t extract.TextElement, opts Options, r diag.Reporter) Sized {
	s := Sized{
		Text:      t,
		Effective: opts.Rule.Effective(t.FontSize, opts.Fraction),
		Minimum:   opts.Rule.Minimum(t.Role),
		Severity:  diag.SevInfo,
	}
	sp := t.SizeSpan
	if sp.Empty() {
		sp = t.Span
	}
	what := describe(t)

	switch {
	case s.Effective < opts.Rule.CriticalFloor:
		s.Severity = diag.SevCritical
		diag.ReportCritical(r, diag.CriticalSmallFont, sp,
			fmt.Sprintf("%s renders at %.1fpt on the slide, below the %gpt floor", what, s.Effective, opts.Rule.CriticalFloor)).
			WithAttr("size", strconv.FormatFloat(t.FontSize, 'f', -1, 64)).
			WithAttr("effective", fmt.Sprintf("%.1f", s.Effective)).
			WithAttr("role", t.Role.String()).
			Emit()
	case s.Effective < s.Minimum:
		s.Severity = diag.SevWarning
		diag.ReportWarning(r, diag.SmallFont, sp,
			fmt.Sprintf("%s renders at %.1fpt on the slide, minimum for %s is %gpt", what, s.Effective, t.Role, s.Minimum)).
			WithAttr("size", strconv.FormatFloat(t.FontSize, 'f', -1, 64)).
			WithAttr("effective", fmt.Sprintf("%.1f", s.Effective)).
			WithAttr("role", t.Role.String()).
			Emit()
	}
	return s
}

func describe(t extract.TextElement) string {
	if t.Text == "" {
		return t.Method + "()"
	}
	text := t.Text
	if r := []rune(text); len(r) > 24 {
		text = string(r[:23]) + "…"
	}
	return fmt.Sprintf("%s(%q)", t.Method, text)
}
