// Package fonts checks declared font sizes against the legibility policy for
// a given embedding scale and raises the ones that fall short.
//
// Two kinds of declarations are checked: global style parameters (rcParams
// assignments, rcParams.update, rc) and inline size keywords of drawing
// calls. Only literal values are considered. Rewrites replace exactly the
// literal and nothing else; the whole file is then written in one atomic
// step, or not at all.
package fonts

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"chartlint/internal/ast"
	"chartlint/internal/diag"
	"chartlint/internal/extract"
	"chartlint/internal/fix"
	"chartlint/internal/parser"
	"chartlint/internal/source"
	"chartlint/internal/trace"
)

// Kind tells global from inline declarations.
type Kind uint8

const (
	KindRCParam Kind = iota
	KindInline
)

func (k Kind) String() string {
	if k == KindInline {
		return "inline"
	}
	return "rcparams"
}

// Violation is one declaration below its required size.
type Violation struct {
	Kind        Kind
	Key         string // rcParams key or keyword name
	Role        extract.Role
	Current     float64
	CurrentText string // literal as written: 8, 'small'
	Minimum     float64
	Replacement float64
	Span        source.Span // the literal
	Call        string      // method of an inline keyword
}

// Code returns the issue kind of the violation.
func (v Violation) Code() diag.Code {
	if v.Kind == KindInline {
		return diag.InlineFontTooSmall
	}
	return diag.RcParamsTooSmall
}

// Options configure one run.
type Options struct {
	Rule     Rule
	Fraction float64
	// Fix writes the raised sizes back to disk.
	Fix      bool
	Reporter diag.Reporter
	// Tree reuses an existing parse of the file; nil parses it again.
	Tree *ast.File
}

// Result is the outcome of one run.
type Result struct {
	State       State
	History     []State
	Violations  []Violation
	Diagnostics []diag.Diagnostic
	Fixed       int
	Unresolved  int
	// Output is the would-be (dry run) or written (fix) content, with the
	// file's original line endings.
	Output  []byte
	Changed bool
	Written bool
}

// Enforce checks one loaded file.
func Enforce(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	if fs == nil {
		return nil, errors.New("fonts: FileSet is nil")
	}
	if err := opts.Rule.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateFraction(opts.Fraction); err != nil {
		return nil, fmt.Errorf("fonts: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, span := trace.Start(ctx, trace.ScopeStage, "fonts")
	file := fs.Get(id)
	tree := opts.Tree
	if tree == nil {
		tree = parser.ParseFile(file, parser.Options{})
	}

	m := newMachine()
	res := &Result{Output: file.Restore(file.Content)}
	res.Violations = scan(tree, opts.Rule, opts.Fraction)

	if len(res.Violations) == 0 {
		if err := m.to(StateDone); err != nil {
			return nil, err
		}
		res.State, res.History = m.state, m.history
		span.Set("violations", "0").End("clean")
		return res, nil
	}
	if err := m.to(StateIssuesFound); err != nil {
		return nil, err
	}

	diags := make([]diag.Diagnostic, len(res.Violations))
	for i, v := range res.Violations {
		diags[i] = violationDiagnostic(file, v)
	}

	applied, err := fix.Apply(fs, diags, fix.Options{Atomic: true, DryRun: true})
	var failure string
	switch {
	case err != nil:
		failure = applyFailure(applied, err)
	case len(applied.Files) == 1:
		res.Output = file.Restore(applied.Files[0].Content)
		res.Changed = string(applied.Files[0].Content) != string(file.Content)
	}

	next := StateReported
	if opts.Fix {
		if failure == "" {
			failure = persist(file, res.Output, res)
		}
		if failure == "" {
			next = StateRewritten
			for i := range diags {
				diags[i] = fixedDiagnostic(diags[i])
			}
			res.Fixed = len(diags)
		} else {
			res.Output = file.Restore(file.Content)
			res.Changed = false
			for i := range diags {
				if unresolved, ok := unresolvedDiagnostic(diags[i], applied, failure); ok {
					diags[i] = unresolved
					res.Unresolved++
				}
			}
		}
	}

	if err := m.to(next); err != nil {
		return nil, err
	}
	if next == StateRewritten {
		if err := m.to(StateDone); err != nil {
			return nil, err
		}
	}

	res.Diagnostics = diags
	if opts.Reporter != nil {
		for _, d := range diags {
			opts.Reporter.Report(d)
		}
	}
	res.State, res.History = m.state, m.history
	span.Set("violations", strconv.Itoa(len(res.Violations))).
		Set("fixed", strconv.Itoa(res.Fixed)).
		End(res.State.String())
	return res, nil
}

// persist writes content unless the file changed on disk since it was
// loaded. It returns a failure reason, "" on success.
func persist(file *source.File, content []byte, res *Result) string {
	if file.Flags.Has(source.FileVirtual) {
		return ""
	}
	changed, err := file.ChangedOnDisk()
	if err != nil {
		return fmt.Sprintf("cannot re-read file: %v", err)
	}
	if changed {
		return "file changed on disk since it was analyzed"
	}
	if err := fix.WriteFileAtomic(file.Path, content); err != nil {
		return err.Error()
	}
	res.Written = true
	return ""
}

func applyFailure(applied *fix.Result, err error) string {
	if applied != nil && len(applied.Skipped) > 0 {
		return applied.Skipped[0].Reason
	}
	return err.Error()
}

// scan collects violations in source order.
func scan(tree *ast.File, rule Rule, fraction float64) []Violation {
	settings := extract.RCSettings(tree)
	base := extract.DefaultFontSize
	for _, s := range settings {
		if s.Key == "font.size" {
			if v, ok := ast.NumberValue(s.Value); ok && v > 0 {
				base = v
			}
		}
	}

	var out []Violation
	seen := make(map[source.Span]bool)
	add := func(v Violation) {
		if seen[v.Span] {
			return
		}
		seen[v.Span] = true
		out = append(out, v)
	}

	rcValues := make(map[source.Span]bool, len(settings))
	for _, s := range settings {
		rcValues[s.Value.Span()] = true
		role, ok := RCRoles[s.Key]
		if !ok {
			continue
		}
		current, ok := literalSize(s.Value, base, s.Key != "font.size")
		if !ok {
			continue
		}
		required := rule.Required(role, fraction)
		if current >= required {
			continue
		}
		add(Violation{
			Kind:        KindRCParam,
			Key:         s.Key,
			Role:        role,
			Current:     current,
			CurrentText: tree.Source.Text(s.Value.Span()),
			Minimum:     required,
			Replacement: required,
			Span:        s.Value.Span(),
		})
	}

	required := rule.Required(extract.RoleDefault, fraction)
	for _, c := range tree.Calls() {
		for _, kw := range sizeKeywords(c) {
			if rcValues[kw.Value.Span()] {
				continue
			}
			current, ok := literalSize(kw.Value, base, true)
			if !ok || current >= required {
				continue
			}
			add(Violation{
				Kind:        KindInline,
				Key:         kw.Name,
				Role:        extract.RoleDefault,
				Current:     current,
				CurrentText: tree.Source.Text(kw.Value.Span()),
				Minimum:     required,
				Replacement: rule.InlineReplacement(current, fraction),
				Span:        kw.Value.Span(),
				Call:        c.Method(),
			})
		}
	}

	slices.SortStableFunc(out, func(a, b Violation) int {
		return int(a.Span.Start) - int(b.Span.Start)
	})
	return out
}

// Методы, у которых size= означает кегль (у scatter это площадь маркера).
var textMethods = map[string]bool{
	"text":            true,
	"annotate":        true,
	"figtext":         true,
	"set_title":       true,
	"title":           true,
	"suptitle":        true,
	"set_xlabel":      true,
	"set_ylabel":      true,
	"xlabel":          true,
	"ylabel":          true,
	"supxlabel":       true,
	"supylabel":       true,
	"xticks":          true,
	"yticks":          true,
	"set_xticklabels": true,
	"set_yticklabels": true,
	"FontProperties":  true,
}

var alwaysSizeKeys = map[string]bool{
	"fontsize":       true,
	"labelsize":      true,
	"title_fontsize": true,
}

// sizeKeywords returns the keywords of c that declare a font size, including
// fontsize/size entries of fontdict= and prop= dict literals.
func sizeKeywords(c *ast.Call) []ast.Keyword {
	var out []ast.Keyword
	isText := textMethods[c.Method()]
	for _, kw := range c.Kwargs {
		switch {
		case alwaysSizeKeys[kw.Name]:
			out = append(out, kw)
		case kw.Name == "size" && isText:
			out = append(out, kw)
		case kw.Name == "fontdict" || kw.Name == "prop":
			d, ok := kw.Value.(*ast.Dict)
			if !ok {
				continue
			}
			for i, k := range d.Keys {
				key, ok := ast.StringValue(k)
				if !ok || (key != "fontsize" && key != "size") {
					continue
				}
				out = append(out, ast.Keyword{Name: key, NameSpan: k.Span(), Value: d.Values[i]})
			}
		}
	}
	return out
}

// literalSize reads a numeric literal or, when named is set, a named size
// ('small') relative to base.
func literalSize(e ast.Expr, base float64, named bool) (float64, bool) {
	if v, ok := ast.NumberValue(e); ok {
		return v, v > 0
	}
	if s, ok := ast.StringValue(e); ok && named {
		return extract.NamedSize(s, base)
	}
	return 0, false
}

func formatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func describeCurrent(v Violation) string {
	if _, err := strconv.ParseFloat(strings.TrimSpace(v.CurrentText), 64); err == nil || v.CurrentText == "" {
		return formatSize(v.Current)
	}
	return fmt.Sprintf("%s (%.1f)", v.CurrentText, v.Current)
}

func violationDiagnostic(file *source.File, v Violation) diag.Diagnostic {
	subject := v.Key
	if v.Kind == KindInline {
		subject = fmt.Sprintf("%s(%s=)", v.Call, v.Key)
	}
	msg := fmt.Sprintf("%s: current=%s, minimum=%s", subject, describeCurrent(v), formatSize(v.Minimum))
	replacement := formatSize(v.Replacement)

	d := diag.NewError(v.Code(), v.Span, msg).
		WithAttr("key", v.Key).
		WithAttr("role", v.Role.String()).
		WithAttr("current", formatSize(v.Current)).
		WithAttr("minimum", formatSize(v.Minimum)).
		WithAttr("replacement", replacement)
	return d.WithFix(fix.Literal{
		ID:    fmt.Sprintf("fonts-%d-%d", v.Span.Start, v.Span.End),
		Title: fmt.Sprintf("raise %s to %s", v.Key, replacement),
		Span:  v.Span,
		Old:   file.Text(v.Span),
		New:   replacement,
	}.Fix())
}

func fixedDiagnostic(d diag.Diagnostic) diag.Diagnostic {
	d.Severity = diag.SevInfo
	d.Message += " (fixed)"
	return d.WithAttr("fixed", "true")
}

// unresolvedDiagnostic turns d into FIX_UNRESOLVED. When the engine named
// the failing fixes, only those change; the others keep their kind since the
// atomic run left them unapplied too.
func unresolvedDiagnostic(d diag.Diagnostic, applied *fix.Result, failure string) (diag.Diagnostic, bool) {
	reason := failure
	if applied != nil && len(applied.Skipped) > 0 {
		reason = ""
		for _, sk := range applied.Skipped {
			if len(d.Fixes) > 0 && sk.ID == d.Fixes[0].ID {
				reason = sk.Reason
				break
			}
		}
		if reason == "" {
			return d, false
		}
	}
	out := diag.NewError(diag.FixUnresolved, d.Primary, fmt.Sprintf("%s; not rewritten: %s", d.Message, reason))
	out.Attrs = append(out.Attrs, d.Attrs...)
	out.Fixes = d.Fixes
	return out.WithAttr("kind", d.Code.ID()).WithAttr("reason", reason), true
}
