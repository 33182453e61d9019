// Package extract recovers text labels, shapes and figure facts from the
// drawing calls of a matplotlib script. Only literal (constant-foldable)
// arguments are used; everything computed at run time is skipped.
package extract

import (
	"fmt"
	"strings"

	"chartlint/internal/ast"
	"chartlint/internal/diag"
	"chartlint/internal/parser"
	"chartlint/internal/source"
	"chartlint/internal/token"
)

type Options struct {
	// Reporter получает PARSE_LIMIT и синтаксические ошибки; nil - молча.
	Reporter  diag.Reporter
	MaxErrors uint
}

// Extract parses the file and collects its elements.
func Extract(file *source.File, opts Options) *Result {
	tree := parser.ParseFile(file, parser.Options{Reporter: opts.Reporter, MaxErrors: opts.MaxErrors})
	return FromAST(tree, opts)
}

// FromAST collects elements from an already parsed file.
func FromAST(tree *ast.File, opts Options) *Result {
	env := ast.BuildEnv(tree)
	settings := RCSettings(tree)
	x := extractor{
		opts: opts,
		env:  env,
		res: &Result{
			File:   tree.Source,
			AST:    tree,
			Env:    env,
			Figure: collectFigure(tree, env, settings),
		},
		figures:   figureNames(tree),
		patchAxes: make(map[*ast.Call]string),
	}

	calls := tree.Calls()
	named := patchNames(tree)
	for _, c := range calls {
		if c.Method() != "add_patch" {
			continue
		}
		arg, ok := c.Arg(0)
		if !ok {
			continue
		}
		switch a := arg.(type) {
		case *ast.Call:
			x.patchAxes[a] = receiverKey(tree.Source, c)
		case *ast.Name:
			// rect = Rectangle(...); ax.add_patch(rect)
			if inner := named[a.Ident]; inner != nil {
				x.patchAxes[inner] = receiverKey(tree.Source, c)
			}
		}
	}
	for _, c := range calls {
		x.visit(c)
	}
	return x.res
}

// patchNames maps names assigned exactly once to a call (rect = Rectangle(...))
// to that call. Rebound names map to nil.
func patchNames(tree *ast.File) map[string]*ast.Call {
	out := make(map[string]*ast.Call)
	for _, s := range tree.Stmts {
		switch s := s.(type) {
		case *ast.Assign:
			call, _ := s.Value.(*ast.Call)
			for _, t := range s.Targets {
				for _, name := range ast.BoundNames(t) {
					_, seen := out[name]
					_, plain := t.(*ast.Name)
					if seen || !plain || s.Op != token.Assign {
						out[name] = nil
						continue
					}
					out[name] = call
				}
			}
		case *ast.Bind:
			for _, name := range s.Names {
				out[name] = nil
			}
		}
	}
	return out
}

type coordSystem uint8

const (
	coordData coordSystem = iota
	coordAxes
	coordFigure
	coordOffset
	coordUnknown
)

type extractor struct {
	opts      Options
	env       ast.Env
	res       *Result
	figures   map[string]bool
	patchAxes map[*ast.Call]string
}

// figureNames finds variables bound to figures: fig = plt.figure(),
// fig, ax = plt.subplots().
func figureNames(tree *ast.File) map[string]bool {
	out := make(map[string]bool)
	for _, s := range tree.Stmts {
		a, ok := s.(*ast.Assign)
		if !ok {
			continue
		}
		c, ok := a.Value.(*ast.Call)
		if !ok {
			continue
		}
		for _, t := range a.Targets {
			switch c.Method() {
			case "figure", "gcf":
				if n, ok := t.(*ast.Name); ok {
					out[n.Ident] = true
				}
			case "subplots", "subplot_mosaic":
				if tup, ok := t.(*ast.Tuple); ok && len(tup.Elts) > 0 {
					if n, ok := tup.Elts[0].(*ast.Name); ok {
						out[n.Ident] = true
					}
				}
			}
		}
	}
	return out
}

func (x *extractor) limit(sp source.Span, format string, args ...any) {
	if x.opts.Reporter == nil {
		return
	}
	diag.ReportInfo(x.opts.Reporter, diag.ParseLimit, sp, fmt.Sprintf(format, args...)).Emit()
}

func (x *extractor) visit(c *ast.Call) {
	m := c.Method()
	switch m {
	case "text":
		if x.figures[receiverKey(x.res.File, c)] {
			x.positionedText(c, RoleAnnotation, coordFigure)
		} else {
			x.positionedText(c, RoleAnnotation, coordData)
		}
	case "figtext":
		x.positionedText(c, RoleAnnotation, coordFigure)
	case "annotate":
		x.annotation(c)
	case "set_title", "title":
		x.labelText(c, RoleTitle, "label")
	case "suptitle":
		x.labelText(c, RoleTitle, "t")
	case "set_xlabel", "xlabel":
		x.labelText(c, RoleAxisLabel, "xlabel")
	case "set_ylabel", "ylabel":
		x.labelText(c, RoleAxisLabel, "ylabel")
	case "legend":
		x.sizedText(c, RoleLegend, "legend", false)
	case "tick_params":
		x.sizedText(c, RoleTickLabel, "", true)
	case "xticks", "yticks", "set_xticklabels", "set_yticklabels":
		x.sizedText(c, RoleTickLabel, "", true)
	case "Rectangle", "FancyBboxPatch":
		x.shape(c)
	}
}

// fontSize reads fontsize=/size= or fontdict={'fontsize': ...}.
func (x *extractor) fontSize(c *ast.Call, role Role, names ...string) (float64, source.Span, bool) {
	def := x.res.Figure.DefaultSize(role)
	var val ast.Expr
	if kw, ok := c.KwargAny(names...); ok {
		val = kw.Value
	} else if kw, ok := c.Kwarg("fontdict"); ok {
		if d, ok := kw.Value.(*ast.Dict); ok {
			for i, k := range d.Keys {
				if key, ok := ast.StringValue(k); ok && (key == "fontsize" || key == "size") {
					val = d.Values[i]
				}
			}
		}
	}
	if val == nil {
		return def, source.Span{}, false
	}
	resolved := x.env.Resolve(val)
	if n, ok := ast.NumberValue(resolved); ok && n > 0 {
		return n, resolved.Span(), true
	}
	if s, ok := ast.StringValue(resolved); ok {
		if n, ok := NamedSize(s, x.res.Figure.FontSize); ok {
			return n, resolved.Span(), true
		}
	}
	return def, source.Span{}, false
}

func alignments(c *ast.Call) (HAlign, VAlign) {
	h, v := HALeft, VABaseline
	if kw, ok := c.KwargAny("ha", "horizontalalignment"); ok {
		s, _ := ast.StringValue(kw.Value)
		switch s {
		case "center":
			h = HACenter
		case "right":
			h = HARight
		}
	}
	if kw, ok := c.KwargAny("va", "verticalalignment"); ok {
		s, _ := ast.StringValue(kw.Value)
		switch s {
		case "top":
			v = VATop
		case "center", "center_baseline":
			v = VACenter
		case "bottom":
			v = VABottom
		}
	}
	return h, v
}

// transformCoords: transform=ax.transAxes и подобные.
func transformCoords(c *ast.Call, def coordSystem) coordSystem {
	kw, ok := c.Kwarg("transform")
	if !ok {
		return def
	}
	d, ok := ast.Dotted(kw.Value)
	switch {
	case !ok:
		return coordUnknown
	case strings.HasSuffix(d, "transAxes"):
		return coordAxes
	case strings.HasSuffix(d, "transFigure"):
		return coordFigure
	case strings.HasSuffix(d, "transData"):
		return coordData
	}
	return coordUnknown
}

func annotationCoords(s string) coordSystem {
	switch {
	case s == "data":
		return coordData
	case s == "axes fraction":
		return coordAxes
	case s == "figure fraction", s == "subfigure fraction":
		return coordFigure
	case strings.HasPrefix(s, "offset"):
		return coordOffset
	}
	return coordUnknown
}

func (x *extractor) axesOf(c *ast.Call, cs coordSystem) string {
	if cs == coordFigure {
		return "figure"
	}
	return receiverKey(x.res.File, c)
}

// normalize turns a point in the given coordinate system into axis fractions.
// Figure fractions are used as axis fractions.
func (x *extractor) normalize(px, py float64, cs coordSystem, axes string) (float64, float64, bool) {
	switch cs {
	case coordAxes, coordFigure:
		return px, py, true
	case coordData:
		fig := x.res.Figure
		xl := fig.limitsFor(fig.XLim, axes)
		yl := fig.limitsFor(fig.YLim, axes)
		return xl.Normalize(px), yl.Normalize(py), true
	}
	return 0, 0, false
}

func (x *extractor) stringArg(c *ast.Call, pos int, names ...string) (string, bool, bool) {
	var e ast.Expr
	if a, ok := c.Arg(pos); ok {
		e = a
	} else if kw, ok := c.KwargAny(names...); ok {
		e = kw.Value
	} else {
		return "", false, false
	}
	s, ok := ast.StringValue(x.env.Resolve(e))
	return s, ok, true
}

func (x *extractor) numberArg(c *ast.Call, pos int, name string) (float64, bool) {
	if a, ok := c.Arg(pos); ok {
		return number(a, x.env)
	}
	if kw, ok := c.Kwarg(name); ok {
		return number(kw.Value, x.env)
	}
	return 0, false
}

func (x *extractor) pointArg(c *ast.Call, pos int, name string) (float64, float64, bool, bool) {
	var e ast.Expr
	if a, ok := c.Arg(pos); ok {
		e = a
	} else if kw, ok := c.Kwarg(name); ok {
		e = kw.Value
	} else {
		return 0, 0, false, false
	}
	px, py, ok := ast.Pair(x.env.Resolve(e))
	return px, py, ok, true
}

func (x *extractor) positionedText(c *ast.Call, role Role, def coordSystem) {
	px, okX := x.numberArg(c, 0, "x")
	py, okY := x.numberArg(c, 1, "y")
	text, okS, present := x.stringArg(c, 2, "s")
	if !present {
		return
	}
	if !okX || !okY {
		x.limit(c.Span(), "%s(): position is not a literal, text skipped", c.Method())
		return
	}
	if !okS {
		x.limit(c.Span(), "%s(): text is not a literal string, skipped", c.Method())
		return
	}
	cs := transformCoords(c, def)
	x.addPositioned(c, role, text, px, py, cs)
}

func (x *extractor) annotation(c *ast.Call) {
	text, okS, present := x.stringArg(c, 0, "text", "s")
	if !present {
		return
	}
	if !okS {
		x.limit(c.Span(), "annotate(): text is not a literal string, skipped")
		return
	}

	xyCoords, textCoords := coordData, coordUnknown
	if kw, ok := c.Kwarg("xycoords"); ok {
		s, _ := ast.StringValue(kw.Value)
		xyCoords = annotationCoords(s)
	}
	if kw, ok := c.Kwarg("textcoords"); ok {
		s, _ := ast.StringValue(kw.Value)
		textCoords = annotationCoords(s)
	} else {
		textCoords = xyCoords
	}

	px, py, ok, present := x.pointArg(c, 1, "xy")
	if !present {
		return
	}
	if !ok {
		x.limit(c.Span(), "annotate(): xy is not a literal pair, text skipped")
		return
	}
	cs := xyCoords
	if tx, ty, ok, present := x.pointArg(c, 2, "xytext"); present {
		switch {
		case !ok:
			x.limit(c.Span(), "annotate(): xytext is not a literal pair, text skipped")
			return
		case textCoords != coordOffset:
			px, py, cs = tx, ty, textCoords
		}
		// смещение в пунктах: якорем считаем xy
	}
	x.addPositioned(c, RoleAnnotation, text, px, py, cs)
}

func (x *extractor) addPositioned(c *ast.Call, role Role, text string, px, py float64, cs coordSystem) {
	if text == "" {
		return
	}
	axes := x.axesOf(c, cs)
	nx, ny, ok := x.normalize(px, py, cs, axes)
	if !ok {
		x.limit(c.Span(), "%s(): coordinate system is not supported, text skipped", c.Method())
		return
	}
	size, sizeSpan, hasSize := x.fontSize(c, role, "fontsize", "size")
	h, v := alignments(c)
	x.res.Texts = append(x.res.Texts, TextElement{
		X: nx, Y: ny,
		Text:        text,
		FontSize:    size,
		HasFontSize: hasSize,
		SizeSpan:    sizeSpan,
		HAlign:      h,
		VAlign:      v,
		Role:        role,
		Positioned:  true,
		Axes:        axes,
		Method:      c.Method(),
		Span:        c.Span(),
	})
}

// labelText handles titles and axis labels: no position, only size and count.
func (x *extractor) labelText(c *ast.Call, role Role, kwName string) {
	text, ok, present := x.stringArg(c, 0, kwName)
	if !present {
		return
	}
	if !ok {
		x.limit(c.Span(), "%s(): label is not a literal string, skipped", c.Method())
		return
	}
	if text == "" {
		return
	}
	size, sizeSpan, hasSize := x.fontSize(c, role, "fontsize", "size")
	x.res.Texts = append(x.res.Texts, TextElement{
		Text:        text,
		FontSize:    size,
		HasFontSize: hasSize,
		SizeSpan:    sizeSpan,
		Role:        role,
		Axes:        x.axesOf(c, coordData),
		Method:      c.Method(),
		Span:        c.Span(),
	})
}

// sizedText records legends and tick labels. With requireSize the element
// only exists when the call sets a literal size.
func (x *extractor) sizedText(c *ast.Call, role Role, text string, requireSize bool) {
	size, sizeSpan, hasSize := x.fontSize(c, role, "fontsize", "size", "labelsize")
	if requireSize && !hasSize {
		return
	}
	x.res.Texts = append(x.res.Texts, TextElement{
		Text:        text,
		FontSize:    size,
		HasFontSize: hasSize,
		SizeSpan:    sizeSpan,
		Role:        role,
		Axes:        x.axesOf(c, coordData),
		Method:      c.Method(),
		Span:        c.Span(),
	})
}

// shape: Rectangle((x, y), w, h) и FancyBboxPatch((x, y), w, h).
func (x *extractor) shape(c *ast.Call) {
	px, py, ok, present := x.pointArg(c, 0, "xy")
	if !present {
		return
	}
	w, okW := x.numberArg(c, 1, "width")
	h, okH := x.numberArg(c, 2, "height")
	if !ok || !okW || !okH {
		x.limit(c.Span(), "%s(): geometry is not literal, shape skipped", c.Method())
		return
	}

	cs := transformCoords(c, coordData)
	axes, ok := x.patchAxes[c]
	if !ok {
		axes = UnknownAxes
	}
	if cs == coordFigure {
		axes = "figure"
	}
	x0, y0, ok := x.normalize(px, py, cs, axes)
	if !ok {
		x.limit(c.Span(), "%s(): coordinate system is not supported, shape skipped", c.Method())
		return
	}
	x1, y1, _ := x.normalize(px+w, py+h, cs, axes)

	x.res.Shapes = append(x.res.Shapes, ShapeElement{
		XMin: min(x0, x1), YMin: min(y0, y1),
		XMax: max(x0, x1), YMax: max(y0, y1),
		Kind: c.Method(),
		Axes: axes,
		Span: c.Span(),
	})
}
