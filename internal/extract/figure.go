package extract

import (
	"slices"
	"strings"

	"chartlint/internal/ast"
	"chartlint/internal/source"
)

// receiverKey names the object a method is called on: "ax", "plt",
// "axes[0]". Plain function calls (from pyplot import *) draw through "plt".
func receiverKey(src *source.File, c *ast.Call) string {
	a, ok := c.Fun.(*ast.Attr)
	if !ok {
		return "plt"
	}
	if d, ok := ast.Dotted(a.X); ok {
		return d
	}
	if src == nil {
		return UnknownAxes
	}
	return strings.Join(strings.Fields(src.Text(a.X.Span())), "")
}

// collectFigure gathers figure-wide facts in a first pass so that limits
// declared after a text call still apply to it, as they do at draw time.
func collectFigure(tree *ast.File, env ast.Env, settings []RCSetting) Figure {
	fig := Figure{
		Width:    DefaultFigWidth,
		Height:   DefaultFigHeight,
		FontSize: DefaultFontSize,
		RC:       make(map[string]float64),
		XLim:     make(map[string]Limits),
		YLim:     make(map[string]Limits),
	}

	// font.size первым: от него считаются именованные размеры
	for _, s := range settings {
		if s.Key != "font.size" {
			continue
		}
		if v, ok := ast.NumberValue(env.Resolve(s.Value)); ok && v > 0 {
			fig.FontSize = v
		}
	}
	for _, s := range settings {
		v := env.Resolve(s.Value)
		if n, ok := ast.NumberValue(v); ok {
			fig.RC[s.Key] = n
			continue
		}
		if name, ok := ast.StringValue(v); ok {
			if n, ok := NamedSize(name, fig.FontSize); ok {
				fig.RC[s.Key] = n
			}
		}
	}

	for _, c := range tree.Calls() {
		switch c.Method() {
		case "figure", "subplots", "subplot_mosaic":
			if kw, ok := c.Kwarg("figsize"); ok {
				if w, h, ok := ast.Pair(env.Resolve(kw.Value)); ok && w > 0 && h > 0 {
					fig.Width, fig.Height, fig.HasFigsize = w, h, true
				}
			}
		case "set_size_inches":
			if w, h, ok := sizeArgs(c, env); ok {
				fig.Width, fig.Height, fig.HasFigsize = w, h, true
			}
		}

		switch c.Method() {
		case "subplots":
			rows := intArg(c, env, 0, "nrows", 1)
			cols := intArg(c, env, 1, "ncols", 1)
			fig.noteGrid(rows, cols, c)
		case "subplot", "add_subplot":
			switch len(c.Args) {
			case 1:
				// subplot(231)
				if n, ok := literalInt(c.Args[0], env); ok && n >= 100 && n < 1000 {
					fig.noteGrid(n/100, n/10%10, c)
				}
			case 3:
				r, okR := literalInt(c.Args[0], env)
				cl, okC := literalInt(c.Args[1], env)
				if okR && okC {
					fig.noteGrid(r, cl, c)
				}
			}
		case "set_xlim", "xlim":
			if l, ok := limitArgs(c, env, "left", "right", "xmin", "xmax"); ok {
				fig.XLim[receiverKey(tree.Source, c)] = l
			}
		case "set_ylim", "ylim":
			if l, ok := limitArgs(c, env, "bottom", "top", "ymin", "ymax"); ok {
				fig.YLim[receiverKey(tree.Source, c)] = l
			}
		}
	}
	return fig
}

func (f *Figure) noteGrid(rows, cols int, c *ast.Call) {
	if rows < 1 || cols < 1 {
		return
	}
	if rows*cols > f.Panels() {
		f.Rows, f.Cols = rows, cols
		if rows*cols > 1 {
			f.GridSpan = c.Span()
		}
	}
}

// limitsFor returns the data limits of an axes receiver. With a single
// panel every receiver draws on the same axes.
func (f Figure) limitsFor(lims map[string]Limits, axes string) Limits {
	if l, ok := lims[axes]; ok {
		return l
	}
	if f.Panels() > 1 {
		return Limits{}
	}
	if l, ok := lims["plt"]; ok {
		return l
	}
	keys := make([]string, 0, len(lims))
	for k := range lims {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if len(keys) > 0 {
		return lims[keys[0]]
	}
	return Limits{}
}

func literalInt(e ast.Expr, env ast.Env) (int, bool) {
	n, ok := env.Resolve(e).(*ast.Num)
	if !ok || !n.IsInt {
		return 0, false
	}
	return int(n.Value), true
}

func intArg(c *ast.Call, env ast.Env, pos int, name string, def int) int {
	if e, ok := c.Arg(pos); ok {
		if v, ok := literalInt(e, env); ok {
			return v
		}
		return def
	}
	if kw, ok := c.Kwarg(name); ok {
		if v, ok := literalInt(kw.Value, env); ok {
			return v
		}
	}
	return def
}

func number(e ast.Expr, env ast.Env) (float64, bool) {
	return ast.NumberValue(env.Resolve(e))
}

// limitArgs: set_xlim(lo, hi), set_xlim((lo, hi)), set_xlim(left=lo, right=hi).
func limitArgs(c *ast.Call, env ast.Env, loName, hiName, loAlt, hiAlt string) (Limits, bool) {
	switch len(c.Args) {
	case 1:
		if lo, hi, ok := ast.Pair(env.Resolve(c.Args[0])); ok {
			return Limits{Lo: lo, Hi: hi, Set: true}, true
		}
		return Limits{}, false
	case 2:
		lo, okLo := number(c.Args[0], env)
		hi, okHi := number(c.Args[1], env)
		if okLo && okHi {
			return Limits{Lo: lo, Hi: hi, Set: true}, true
		}
		return Limits{}, false
	}
	loKw, okLo := c.KwargAny(loName, loAlt)
	hiKw, okHi := c.KwargAny(hiName, hiAlt)
	if !okLo || !okHi {
		return Limits{}, false
	}
	lo, okLo := number(loKw.Value, env)
	hi, okHi := number(hiKw.Value, env)
	if !okLo || !okHi {
		return Limits{}, false
	}
	return Limits{Lo: lo, Hi: hi, Set: true}, true
}

func sizeArgs(c *ast.Call, env ast.Env) (float64, float64, bool) {
	switch len(c.Args) {
	case 1:
		return ast.Pair(env.Resolve(c.Args[0]))
	case 2:
		w, okW := number(c.Args[0], env)
		h, okH := number(c.Args[1], env)
		return w, h, okW && okH
	}
	return 0, 0, false
}
