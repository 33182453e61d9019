package extract

import (
	"slices"
	"strings"

	"chartlint/internal/ast"
	"chartlint/internal/source"
)

// RCSetting is one assignment to a global style parameter:
//
//	plt.rcParams['axes.labelsize'] = 8
//	plt.rcParams.update({'axes.labelsize': 8})
//	plt.rc('axes', labelsize=8)
type RCSetting struct {
	Key   string
	Value ast.Expr
	Span  source.Span // statement or call that sets it
}

// Получатели plt.rc(...) / rc(...) после from matplotlib import rc.
var rcReceivers = map[string]bool{
	"":                  true,
	"plt":               true,
	"mpl":               true,
	"matplotlib":        true,
	"pyplot":            true,
	"matplotlib.pyplot": true,
}

func isRCParams(e ast.Expr) bool {
	d, ok := ast.Dotted(e)
	return ok && (d == "rcParams" || strings.HasSuffix(d, ".rcParams"))
}

// RCSettings returns every rcParams assignment of the file in source order.
func RCSettings(f *ast.File) []RCSetting {
	var out []RCSetting
	for _, s := range f.Stmts {
		a, ok := s.(*ast.Assign)
		if !ok || a.Value == nil {
			continue
		}
		for _, t := range a.Targets {
			sub, ok := t.(*ast.Subscript)
			if !ok || !isRCParams(sub.X) {
				continue
			}
			key, ok := ast.StringValue(sub.Index)
			if !ok {
				continue
			}
			out = append(out, RCSetting{Key: key, Value: a.Value, Span: a.Span()})
		}
	}

	for _, c := range f.Calls() {
		switch c.Method() {
		case "update", "rc_context":
			if c.Method() == "update" && !isRCParams(receiverExpr(c)) {
				continue
			}
			if c.Method() == "rc_context" && !rcReceivers[c.Receiver()] {
				continue
			}
			for _, arg := range c.Args {
				out = appendDict(out, arg, c.Span())
			}
			for _, kw := range c.Kwargs {
				switch {
				case kw.Name == "" || kw.Name == "rc":
					out = appendDict(out, kw.Value, c.Span())
				case c.Method() == "update":
					// rcParams.update(key=...) допустим только для ключей без точки
					out = append(out, RCSetting{Key: kw.Name, Value: kw.Value, Span: c.Span()})
				}
			}
		case "rc":
			if !rcReceivers[c.Receiver()] {
				continue
			}
			group, ok := c.Arg(0)
			if !ok {
				continue
			}
			for _, g := range rcGroups(group) {
				for _, kw := range c.Kwargs {
					if kw.Name == "" {
						continue
					}
					out = append(out, RCSetting{Key: g + "." + kw.Name, Value: kw.Value, Span: c.Span()})
				}
			}
		}
	}

	slices.SortStableFunc(out, func(a, b RCSetting) int {
		return int(a.Value.Span().Start) - int(b.Value.Span().Start)
	})
	return out
}

func receiverExpr(c *ast.Call) ast.Expr {
	if a, ok := c.Fun.(*ast.Attr); ok {
		return a.X
	}
	return nil
}

func appendDict(out []RCSetting, e ast.Expr, sp source.Span) []RCSetting {
	d, ok := e.(*ast.Dict)
	if !ok {
		return out
	}
	for i, k := range d.Keys {
		key, ok := ast.StringValue(k)
		if !ok {
			continue
		}
		out = append(out, RCSetting{Key: key, Value: d.Values[i], Span: sp})
	}
	return out
}

// rcGroups: rc('xtick', ...) или rc(('xtick', 'ytick'), ...).
func rcGroups(e ast.Expr) []string {
	if s, ok := ast.StringValue(e); ok {
		return []string{s}
	}
	var elts []ast.Expr
	switch n := e.(type) {
	case *ast.Tuple:
		elts = n.Elts
	case *ast.List:
		elts = n.Elts
	}
	var out []string
	for _, el := range elts {
		if s, ok := ast.StringValue(el); ok {
			out = append(out, s)
		}
	}
	return out
}
