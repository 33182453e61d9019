package fix

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

var (
	// ErrNoFixes: nothing was applicable.
	ErrNoFixes = errors.New("no applicable fixes found")
	// ErrAborted is returned by atomic runs when a selected fix could not be
	// applied. Nothing is written then.
	ErrAborted = errors.New("fix aborted: not every fix could be applied")
)

// Skip reasons.
const (
	ReasonNoEdits  = "fix has no edits"
	ReasonDupID    = "duplicate fix id"
	ReasonReview   = "needs manual review"
	ReasonConflict = "overlaps an earlier fix"
	ReasonRange    = "edit span out of range"
	ReasonStale    = "existing text does not match expected content"
)

// Options controls which fixes run and whether files are written.
type Options struct {
	// Unsafe also applies manual-review fixes.
	Unsafe bool
	// Atomic: все выбранные исправления или ни одного.
	Atomic bool
	// DryRun computes new contents without writing them.
	DryRun bool
}

// Applied is a fix whose edits made it into the output.
type Applied struct {
	ID    string
	Title string
	Code  diag.Code
	Edits int
}

// Skipped is a fix left out, with the reason.
type Skipped struct {
	ID     string
	Title  string
	Code   diag.Code
	Reason string
}

// FileChange is the new content of one file. Virtual files and dry runs are
// never written.
type FileChange struct {
	File    source.FileID
	Path    string
	Edits   int
	Content []byte
	Written bool
}

type Result struct {
	Applied []Applied
	Skipped []Skipped
	Files   []FileChange
}

type candidate struct {
	d     *diag.Diagnostic
	fix   diag.Fix
	order int
}

func (c candidate) skip(reason string) Skipped {
	return Skipped{ID: c.fix.ID, Title: c.fix.Title, Code: c.d.Code, Reason: reason}
}

// Apply applies the fixes carried by diagnostics. Every edit is checked
// against the loaded content of its file, so edits compose regardless of
// order; a fix overlapping one accepted before it is skipped as a whole.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts Options) (*Result, error) {
	res := &Result{}
	if fs == nil {
		return res, errors.New("fix: FileSet is nil")
	}

	cands := collect(diagnostics, opts, res)
	if len(cands) == 0 {
		return res, ErrNoFixes
	}

	accepted := make(map[source.FileID][]diag.TextEdit)
	failed := 0
	for _, c := range cands {
		if reason := check(fs, c.fix.Edits, accepted); reason != "" {
			res.Skipped = append(res.Skipped, c.skip(reason))
			failed++
			continue
		}
		for _, e := range c.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		res.Applied = append(res.Applied, Applied{ID: c.fix.ID, Title: c.fix.Title, Code: c.d.Code, Edits: len(c.fix.Edits)})
	}
	if opts.Atomic && failed > 0 {
		res.Applied = nil
		return res, ErrAborted
	}

	ids := make([]source.FileID, 0, len(accepted))
	for id := range accepted {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		file := fs.Get(id)
		change := FileChange{
			File:    id,
			Path:    file.FormatPath("relative", fs.BaseDir()),
			Edits:   len(accepted[id]),
			Content: splice(file.Content, accepted[id]),
		}
		if !opts.DryRun && !file.Flags.Has(source.FileVirtual) {
			if err := WriteFileAtomic(file.Path, change.Content); err != nil {
				return res, err
			}
			change.Written = true
		}
		res.Files = append(res.Files, change)
	}
	return res, nil
}

// collect gathers fixes in source order, preferred fixes first at the same
// span. Fixes without edits, with a repeated ID, or needing review in a safe
// run go to res.Skipped.
func collect(diagnostics []diag.Diagnostic, opts Options, res *Result) []candidate {
	var out []candidate
	seen := make(map[string]bool)
	for i := range diagnostics {
		d := &diagnostics[i]
		for j, f := range d.Fixes {
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, j)
			}
			c := candidate{d: d, fix: f, order: len(out)}
			switch {
			case len(f.Edits) == 0:
				res.Skipped = append(res.Skipped, c.skip(ReasonNoEdits))
			case seen[f.ID]:
				res.Skipped = append(res.Skipped, c.skip(ReasonDupID))
			case f.Applicability != diag.FixApplicabilityAlwaysSafe && !opts.Unsafe:
				res.Skipped = append(res.Skipped, c.skip(ReasonReview))
			default:
				seen[f.ID] = true
				out = append(out, c)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b candidate) int {
		pa, pb := a.d.Primary, b.d.Primary
		if n := cmp.Or(cmp.Compare(pa.File, pb.File), cmp.Compare(pa.Start, pb.Start), cmp.Compare(pa.End, pb.End)); n != 0 {
			return n
		}
		if a.fix.IsPreferred != b.fix.IsPreferred {
			if a.fix.IsPreferred {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.order, b.order)
	})
	return out
}

// check returns why edits cannot go on top of accepted, "" when they can.
func check(fs *source.FileSet, edits []diag.TextEdit, accepted map[source.FileID][]diag.TextEdit) string {
	for i, e := range edits {
		if int(e.Span.File) >= fs.Len() || e.Span.End < e.Span.Start {
			return ReasonRange
		}
		content := fs.Get(e.Span.File).Content
		if int(e.Span.End) > len(content) {
			return ReasonRange
		}
		if e.OldText != "" && string(content[e.Span.Start:e.Span.End]) != e.OldText {
			return ReasonStale
		}
		for _, prev := range accepted[e.Span.File] {
			if spansConflict(prev, e) {
				return ReasonConflict
			}
		}
		for _, other := range edits[:i] {
			if other.Span.File == e.Span.File && spansConflict(other, e) {
				return ReasonConflict
			}
		}
	}
	return ""
}

// splice builds the new content from non-overlapping edits of one file.
// Inserts at the same offset keep their order.
func splice(content []byte, edits []diag.TextEdit) []byte {
	edits = slices.Clone(edits)
	slices.SortStableFunc(edits, func(a, b diag.TextEdit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	var out bytes.Buffer
	out.Grow(len(content))
	last := uint32(0)
	for _, e := range edits {
		out.Write(content[last:e.Span.Start])
		out.WriteString(e.NewText)
		last = e.Span.End
	}
	out.Write(content[last:])
	return out.Bytes()
}

// spansConflict reports whether two edits touch the same bytes. Two inserts
// never conflict; an insert conflicts with a replacement strictly covering
// its offset.
func spansConflict(a, b diag.TextEdit) bool {
	as, ae, bs, be := a.Span.Start, a.Span.End, b.Span.Start, b.Span.End
	switch {
	case as == ae && bs == be:
		return false
	case as == ae:
		return bs <= as && as < be
	case bs == be:
		return as <= bs && bs < ae
	}
	return as < be && bs < ae
}

// WriteFileAtomic replaces path with data through a temporary file in the
// same directory and a rename, keeping the original permissions.
func WriteFileAtomic(path string, data []byte) (err error) {
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
