package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"chartlint/internal/diag"
	"chartlint/internal/driver"
	"chartlint/internal/observ"
)

// BatchOpts configures WriteBatch.
type BatchOpts struct {
	Format Format
	Pretty PrettyOpts
	JSON   JSONOpts
	// Timings appends the phase table (pretty/short) or a timings object
	// (json/yaml).
	Timings bool
}

// FileJSON is one report block.
type FileJSON struct {
	Path        string           `json:"path" yaml:"path"`
	Cached      bool             `json:"cached,omitempty" yaml:"cached,omitempty"`
	Fixed       int              `json:"fixed" yaml:"fixed"`
	Written     bool             `json:"written,omitempty" yaml:"written,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics" yaml:"diagnostics"`
	Counts      map[string]int   `json:"counts,omitempty" yaml:"counts,omitempty"`
}

// SummaryJSON is the aggregate block.
type SummaryJSON struct {
	Files      int            `json:"files" yaml:"files"`
	Issues     int            `json:"issues" yaml:"issues"`
	Fixed      int            `json:"fixed" yaml:"fixed"`
	Cached     int            `json:"cached,omitempty" yaml:"cached,omitempty"`
	BySeverity map[string]int `json:"by_severity,omitempty" yaml:"by_severity,omitempty"`
	ExitCode   int            `json:"exit_code" yaml:"exit_code"`
}

// BatchJSON корневой документ json/yaml вывода.
type BatchJSON struct {
	Files   []FileJSON     `json:"files" yaml:"files"`
	Summary SummaryJSON    `json:"summary" yaml:"summary"`
	Timings *observ.Report `json:"timings,omitempty" yaml:"timings,omitempty"`
}

// severities от самой тяжёлой к самой лёгкой
var severities = []diag.Severity{diag.SevCritical, diag.SevError, diag.SevWarning, diag.SevInfo}

func severityCounts(by map[diag.Severity]int) map[string]int {
	if len(by) == 0 {
		return nil
	}
	out := make(map[string]int, len(by))
	for sev, n := range by {
		if n > 0 {
			out[strings.ToLower(sev.String())] = n
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// BuildBatch assembles the serializable form of a run.
func BuildBatch(res *driver.Result, opts BatchOpts) BatchJSON {
	out := BatchJSON{
		Files: make([]FileJSON, 0, len(res.Reports)),
		Summary: SummaryJSON{
			Files:      res.Summary.Files,
			Issues:     res.Summary.Issues,
			Fixed:      res.Summary.Fixed,
			Cached:     res.Summary.Cached,
			BySeverity: severityCounts(res.Summary.BySeverity),
			ExitCode:   res.ExitCode(),
		},
	}
	for i := range res.Reports {
		rep := &res.Reports[i]
		out.Files = append(out.Files, FileJSON{
			Path:        reportPath(res, rep, opts.JSON.PathMode),
			Cached:      rep.Cached,
			Fixed:       rep.Fixed,
			Written:     rep.Written,
			Diagnostics: BuildDiagnostics(rep.Bag.Items(), res.FileSet, opts.JSON),
			Counts:      severityCounts(rep.Bag.CountBySeverity()),
		})
	}
	if opts.Timings && res.Timer != nil {
		r := res.Timer.Report()
		out.Timings = &r
	}
	return out
}

// WriteBatch renders a whole run in the requested format.
func WriteBatch(w io.Writer, res *driver.Result, opts BatchOpts) error {
	if res == nil {
		return nil
	}
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(BuildBatch(res, opts))
	case FormatYAML:
		return encodeYAML(w, BuildBatch(res, opts))
	case FormatShort:
		for i := range res.Reports {
			if err := Short(w, res.Reports[i].Bag, res.FileSet); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, SummaryLine(res)); err != nil {
			return err
		}
	default:
		writePrettyBatch(w, res, opts.Pretty)
	}
	if opts.Timings && res.Timer != nil {
		_, err := io.WriteString(w, res.Timer.Summary())
		return err
	}
	return nil
}

func writePrettyBatch(w io.Writer, res *driver.Result, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range res.Reports {
		rep := &res.Reports[i]
		var tags []string
		if rep.Bag.Len() == 0 {
			tags = append(tags, "ok")
		} else {
			tags = append(tags, plural(rep.Bag.Len(), "issue"))
		}
		if rep.Fixed > 0 {
			tags = append(tags, fmt.Sprintf("%d fixed", rep.Fixed))
		}
		if rep.Cached {
			tags = append(tags, "cached")
		}
		fmt.Fprintf(w, "%s %s (%s)\n", p.fix.Sprint("==>"), p.path.Sprint(reportPath(res, rep, opts.PathMode)), strings.Join(tags, ", "))
		if rep.Bag.Len() > 0 {
			Pretty(w, rep.Bag, res.FileSet, opts)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, SummaryLine(res))
}

// SummaryLine formats the aggregate counts of a run, e.g.
// "3 files, 4 issues (1 critical, 3 error), 1 fixed".
func SummaryLine(res *driver.Result) string {
	s := res.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s", plural(s.Files, "file"), plural(s.Issues, "issue"))
	var parts []string
	for _, sev := range severities {
		if n := s.BySeverity[sev]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, strings.ToLower(sev.String())))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, ", %d fixed", s.Fixed)
	if s.Cached > 0 {
		fmt.Fprintf(&b, ", %d cached", s.Cached)
	}
	return b.String()
}

func reportPath(res *driver.Result, rep *driver.FileReport, mode PathMode) string {
	if res.FileSet == nil || int(rep.FileID) >= res.FileSet.Len() {
		return rep.Path
	}
	return formatPath(res.FileSet.Get(rep.FileID), res.FileSet, mode)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
