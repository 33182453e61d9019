package driver

import (
	"time"

	"github.com/samber/lo"

	"chartlint/internal/diag"
	"chartlint/internal/fonts"
	"chartlint/internal/observ"
	"chartlint/internal/overlap"
	"chartlint/internal/render"
	"chartlint/internal/source"
)

// FileReport is the analysis report of one script.
type FileReport struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	// Fixed: сколько объявлений размера переписано на диске.
	Fixed   int
	Written bool
	Cached  bool
	Missing bool
	Texts   int

	// Intermediate results, nil when the stage did not run (or the report
	// came from the cache).
	Static   *overlap.StaticReport
	Rendered *render.Output
	Fonts    *fonts.Result

	Elapsed time.Duration
}

// Failed reports whether an ERROR or CRITICAL issue remains.
func (r *FileReport) Failed() bool {
	return r.Bag.Count(diag.SevError) > 0
}

// Summary aggregates a batch.
type Summary struct {
	Files      int
	Issues     int
	Fixed      int
	Cached     int
	BySeverity map[diag.Severity]int
}

// Result is the outcome of Run.
type Result struct {
	FileSet *source.FileSet
	Reports []FileReport
	Summary Summary
	Timer   *observ.Timer
	Metrics MetricsSnapshot
}

// ExitCode is 1 when any ERROR or CRITICAL issue remains, 0 otherwise.
func (r *Result) ExitCode() int {
	if lo.SomeBy(r.Reports, func(rep FileReport) bool { return rep.Failed() }) {
		return 1
	}
	return 0
}

func summarize(reports []FileReport) Summary {
	s := Summary{
		Files:      len(reports),
		BySeverity: make(map[diag.Severity]int, 4),
	}
	for i := range reports {
		rep := &reports[i]
		s.Issues += rep.Bag.Len()
		s.Fixed += rep.Fixed
		if rep.Cached {
			s.Cached++
		}
		for sev, n := range rep.Bag.CountBySeverity() {
			s.BySeverity[sev] += n
		}
	}
	return s
}
