package parser

import (
	"math"
	"strings"

	"chartlint/internal/ast"
	"chartlint/internal/token"
)

// foldUnary сворачивает -N, +N, ~N в литерал.
func foldUnary(op token.Token, x ast.Expr) ast.Expr {
	sp := cover(op.Span, x.Span())
	if n, ok := x.(*ast.Num); ok {
		switch op.Kind {
		case token.Minus:
			return &ast.Num{Sp: sp, Value: -n.Value, IsInt: n.IsInt, Folded: true}
		case token.Plus:
			return &ast.Num{Sp: sp, Value: n.Value, IsInt: n.IsInt, Folded: true}
		case token.Tilde:
			if n.IsInt {
				return &ast.Num{Sp: sp, Value: float64(^int64(n.Value)), IsInt: true, Folded: true}
			}
		}
	}
	return &ast.Unary{Sp: sp, Op: op.Kind, X: x}
}

// foldBinary сворачивает арифметику над числовыми литералами и "a" + "b".
func foldBinary(op token.Kind, x, y ast.Expr) ast.Expr {
	sp := cover(x.Span(), y.Span())
	if a, ok := x.(*ast.Num); ok {
		if b, ok := y.(*ast.Num); ok {
			if v, isInt, ok := evalArith(op, a, b); ok {
				return &ast.Num{Sp: sp, Value: v, IsInt: isInt, Folded: true}
			}
		}
	}
	if a, ok := x.(*ast.Str); ok {
		switch b := y.(type) {
		case *ast.Str:
			if op == token.Plus {
				return &ast.Str{Sp: sp, Value: a.Value + b.Value, Folded: true}
			}
		case *ast.Num:
			if op == token.Star && b.IsInt && b.Value >= 0 && b.Value < 1024 {
				return &ast.Str{Sp: sp, Value: strings.Repeat(a.Value, int(b.Value)), Folded: true}
			}
		}
	}
	return &ast.Binary{Sp: sp, Op: op, X: x, Y: y}
}

func evalArith(op token.Kind, a, b *ast.Num) (float64, bool, bool) {
	bothInt := a.IsInt && b.IsInt
	switch op {
	case token.Plus:
		return a.Value + b.Value, bothInt, true
	case token.Minus:
		return a.Value - b.Value, bothInt, true
	case token.Star:
		return a.Value * b.Value, bothInt, true
	case token.Slash:
		if b.Value == 0 {
			return 0, false, false
		}
		return a.Value / b.Value, false, true
	case token.SlashSlash:
		if b.Value == 0 {
			return 0, false, false
		}
		return math.Floor(a.Value / b.Value), bothInt, true
	case token.Percent:
		if b.Value == 0 {
			return 0, false, false
		}
		// знак результата как у делителя, как в Python
		m := math.Mod(a.Value, b.Value)
		if m != 0 && (m < 0) != (b.Value < 0) {
			m += b.Value
		}
		return m, bothInt, true
	case token.StarStar:
		v := math.Pow(a.Value, b.Value)
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false, false
		}
		return v, bothInt && b.Value >= 0, true
	}
	return 0, false, false
}
