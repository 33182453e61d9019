package ast

import "chartlint/internal/token"

// NumberValue returns the numeric value of a literal (folded) expression.
func NumberValue(e Expr) (float64, bool) {
	if n, ok := e.(*Num); ok {
		return n.Value, true
	}
	return 0, false
}

// StringValue returns the value of a string literal.
func StringValue(e Expr) (string, bool) {
	if s, ok := e.(*Str); ok {
		return s.Value, true
	}
	return "", false
}

// Pair returns the two numeric elements of a 2-tuple or 2-list literal.
func Pair(e Expr) (a, b float64, ok bool) {
	var elts []Expr
	switch n := e.(type) {
	case *Tuple:
		elts = n.Elts
	case *List:
		elts = n.Elts
	default:
		return 0, 0, false
	}
	if len(elts) != 2 {
		return 0, 0, false
	}
	a, okA := NumberValue(elts[0])
	b, okB := NumberValue(elts[1])
	return a, b, okA && okB
}

// Env maps names bound exactly once at module level to literal values.
type Env map[string]Expr

// Resolve replaces a Name bound in env with its literal value.
func (env Env) Resolve(e Expr) Expr {
	if n, ok := e.(*Name); ok && env != nil {
		if v, ok := env[n.Ident]; ok {
			return v
		}
	}
	return e
}

// BuildEnv collects single-assignment literal constants (FS = 14).
// Names assigned more than once, to non-literals, or bound any other way
// (loop variable, parameter, "as" target) are left out: the parser sees one
// flat scope, so such a name may hold anything at the call site.
func BuildEnv(f *File) Env {
	counts := make(map[string]int)
	values := make(map[string]Expr)
	for _, s := range f.Stmts {
		switch s := s.(type) {
		case *Bind:
			for _, name := range s.Names {
				counts[name] += 2
			}
		case *Assign:
			for _, t := range s.Targets {
				n, ok := t.(*Name)
				if !ok {
					// x, y = ...: распаковку не вычисляем
					for _, name := range BoundNames(t) {
						counts[name] += 2
					}
					continue
				}
				counts[n.Ident]++
				if s.Op == token.Assign && isLiteral(s.Value) {
					values[n.Ident] = s.Value
				} else {
					counts[n.Ident]++ // не литерал или +=: имя непригодно
				}
			}
		}
	}
	env := make(Env, len(values))
	for name, v := range values {
		if counts[name] == 1 {
			env[name] = v
		}
	}
	return env
}

// BoundNames lists the plain names a binding target introduces:
// x, (a, b), [a, *rest]. Attribute and subscript targets bind nothing.
func BoundNames(target Expr) []string {
	switch n := target.(type) {
	case *Name:
		return []string{n.Ident}
	case *Tuple:
		return boundNamesOf(n.Elts)
	case *List:
		return boundNamesOf(n.Elts)
	case *Other:
		if n.What == "starred" {
			return boundNamesOf(n.Children)
		}
	}
	return nil
}

func boundNamesOf(elts []Expr) []string {
	var out []string
	for _, e := range elts {
		out = append(out, BoundNames(e)...)
	}
	return out
}

func isLiteral(e Expr) bool {
	switch n := e.(type) {
	case *Num, *Str, *Const:
		return true
	case *Tuple:
		for _, el := range n.Elts {
			if !isLiteral(el) {
				return false
			}
		}
		return true
	}
	return false
}
