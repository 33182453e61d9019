package ast

import (
	"strings"

	"chartlint/internal/source"
	"chartlint/internal/token"
)

// Expr is any expression node.
type Expr interface {
	Span() source.Span
	exprNode()
}

type (
	// Num is a numeric literal (or a folded numeric expression).
	Num struct {
		Sp     source.Span
		Value  float64
		IsInt  bool
		Folded bool
	}

	// Str is a string literal; adjacent literals are concatenated.
	Str struct {
		Sp     source.Span
		Value  string
		Folded bool
	}

	// Const is None, True or False.
	Const struct {
		Sp    source.Span
		Kind  token.Kind // NoneLit | BoolLit
		Value bool
	}

	Name struct {
		Sp    source.Span
		Ident string
	}

	// Attr is X.Name.
	Attr struct {
		Sp   source.Span
		X    Expr
		Name string
	}

	Keyword struct {
		Name     string // "" для **kwargs
		NameSpan source.Span
		Value    Expr
	}

	Call struct {
		Sp     source.Span
		Fun    Expr
		Args   []Expr
		Kwargs []Keyword
	}

	// Subscript is X[Index].
	Subscript struct {
		Sp    source.Span
		X     Expr
		Index Expr
	}

	Tuple struct {
		Sp   source.Span
		Elts []Expr
	}

	List struct {
		Sp   source.Span
		Elts []Expr
	}

	// Dict keeps keys and values in source order; Keys[i] is nil for **spread.
	Dict struct {
		Sp     source.Span
		Keys   []Expr
		Values []Expr
	}

	Unary struct {
		Sp source.Span
		Op token.Kind
		X  Expr
	}

	Binary struct {
		Sp source.Span
		Op token.Kind
		X  Expr
		Y  Expr
	}

	// Other is an expression the analyzers never evaluate.
	Other struct {
		Sp       source.Span
		What     string
		Children []Expr
	}
)

func (e *Num) Span() source.Span       { return e.Sp }
func (e *Str) Span() source.Span       { return e.Sp }
func (e *Const) Span() source.Span     { return e.Sp }
func (e *Name) Span() source.Span      { return e.Sp }
func (e *Attr) Span() source.Span      { return e.Sp }
func (e *Call) Span() source.Span      { return e.Sp }
func (e *Subscript) Span() source.Span { return e.Sp }
func (e *Tuple) Span() source.Span     { return e.Sp }
func (e *List) Span() source.Span      { return e.Sp }
func (e *Dict) Span() source.Span      { return e.Sp }
func (e *Unary) Span() source.Span     { return e.Sp }
func (e *Binary) Span() source.Span    { return e.Sp }
func (e *Other) Span() source.Span     { return e.Sp }

func (*Num) exprNode()       {}
func (*Str) exprNode()       {}
func (*Const) exprNode()     {}
func (*Name) exprNode()      {}
func (*Attr) exprNode()      {}
func (*Call) exprNode()      {}
func (*Subscript) exprNode() {}
func (*Tuple) exprNode()     {}
func (*List) exprNode()      {}
func (*Dict) exprNode()      {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*Other) exprNode()     {}

// Kwarg returns the keyword argument with the given name.
func (c *Call) Kwarg(name string) (Keyword, bool) {
	for _, kw := range c.Kwargs {
		if kw.Name == name {
			return kw, true
		}
	}
	return Keyword{}, false
}

// KwargAny returns the first keyword argument matching one of names.
func (c *Call) KwargAny(names ...string) (Keyword, bool) {
	for _, n := range names {
		if kw, ok := c.Kwarg(n); ok {
			return kw, true
		}
	}
	return Keyword{}, false
}

// Arg returns the i-th positional argument.
func (c *Call) Arg(i int) (Expr, bool) {
	if i < 0 || i >= len(c.Args) {
		return nil, false
	}
	return c.Args[i], true
}

// Method returns the called attribute or function name: "text" for ax.text(...).
func (c *Call) Method() string {
	switch f := c.Fun.(type) {
	case *Name:
		return f.Ident
	case *Attr:
		return f.Name
	}
	return ""
}

// Receiver returns the dotted receiver of a method call ("plt", "ax",
// "mpl.rcParams"), "" for plain functions and "?" when the receiver is not
// a dotted name (fig.add_subplot(111).text).
func (c *Call) Receiver() string {
	a, ok := c.Fun.(*Attr)
	if !ok {
		return ""
	}
	if d, ok := Dotted(a.X); ok {
		return d
	}
	return "?"
}

// Dotted renders Name/Attr chains as "a.b.c".
func Dotted(e Expr) (string, bool) {
	var parts []string
	for {
		switch n := e.(type) {
		case *Name:
			parts = append(parts, n.Ident)
			for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
				parts[i], parts[j] = parts[j], parts[i]
			}
			return strings.Join(parts, "."), true
		case *Attr:
			parts = append(parts, n.Name)
			e = n.X
		default:
			return "", false
		}
	}
}

// Children returns the direct sub-expressions of e in source order.
func Children(e Expr) []Expr {
	switch n := e.(type) {
	case *Attr:
		return []Expr{n.X}
	case *Call:
		out := make([]Expr, 0, 1+len(n.Args)+len(n.Kwargs))
		out = append(out, n.Fun)
		out = append(out, n.Args...)
		for _, kw := range n.Kwargs {
			out = append(out, kw.Value)
		}
		return out
	case *Subscript:
		return []Expr{n.X, n.Index}
	case *Tuple:
		return n.Elts
	case *List:
		return n.Elts
	case *Dict:
		out := make([]Expr, 0, 2*len(n.Values))
		for i := range n.Values {
			if n.Keys[i] != nil {
				out = append(out, n.Keys[i])
			}
			out = append(out, n.Values[i])
		}
		return out
	case *Unary:
		return []Expr{n.X}
	case *Binary:
		return []Expr{n.X, n.Y}
	case *Other:
		return n.Children
	}
	return nil
}

// Inspect traverses e depth-first in source order; f returning false prunes
// the subtree.
func Inspect(e Expr, f func(Expr) bool) {
	if e == nil || !f(e) {
		return
	}
	for _, c := range Children(e) {
		Inspect(c, f)
	}
}
