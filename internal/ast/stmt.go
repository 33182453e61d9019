package ast

import (
	"chartlint/internal/source"
	"chartlint/internal/token"
)

// Stmt is a simple statement of one logical line (several with ';').
type Stmt interface {
	Span() source.Span
	stmtNode()
}

type (
	// ExprStmt is a bare expression, also used for headers of compound
	// statements (the condition of if, the iterable of for, with items).
	ExprStmt struct {
		Sp source.Span
		X  Expr
	}

	// Assign is Targets[0] = Targets[1] = ... = Value, or an augmented
	// assignment when Op is token.AugAssign.
	Assign struct {
		Sp      source.Span
		Targets []Expr
		Value   Expr
		Op      token.Kind
	}

	// Bind records names a line binds without an assignment: for targets,
	// def and lambda parameters, "as" clauses, comprehension targets and
	// walrus. Their values are unknown to the analyzers.
	Bind struct {
		Sp    source.Span
		Names []string
	}
)

func (s *ExprStmt) Span() source.Span { return s.Sp }
func (s *Assign) Span() source.Span   { return s.Sp }
func (s *Bind) Span() source.Span     { return s.Sp }

func (*ExprStmt) stmtNode() {}
func (*Assign) stmtNode()   {}
func (*Bind) stmtNode()     {}

// File is the parsed script.
type File struct {
	Source *source.File
	Stmts  []Stmt
}

// Exprs returns every top-level expression of a statement.
func Exprs(s Stmt) []Expr {
	switch n := s.(type) {
	case *ExprStmt:
		return []Expr{n.X}
	case *Assign:
		return append(append([]Expr(nil), n.Targets...), n.Value)
	}
	return nil
}

// Calls returns every call of the file in source order, nested calls included.
func (f *File) Calls() []*Call {
	var out []*Call
	for _, s := range f.Stmts {
		for _, e := range Exprs(s) {
			Inspect(e, func(n Expr) bool {
				if c, ok := n.(*Call); ok {
					out = append(out, c)
				}
				return true
			})
		}
	}
	return out
}
