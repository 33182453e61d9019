package diag

import (
	"chartlint/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Attr is a structured fact attached to an issue (current=8).
type Attr struct {
	Key   string
	Value string
}

// TextEdit replaces Span with NewText. When OldText is set, the edit applies
// only if the current content of Span matches it exactly.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixKind classifies fixes.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRewrite
)

func (k FixKind) String() string {
	if k == FixKindRewrite {
		return "rewrite"
	}
	return "quickfix"
}

// FixApplicability describes how safe it is to apply a fix without review.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	default:
		return "manual-review"
	}
}

type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Attrs    []Attr
	Fixes    []Fix
}

// Attr returns the value of a structured attribute.
func (d Diagnostic) Attr(key string) (string, bool) {
	for _, a := range d.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
