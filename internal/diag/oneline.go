package diag

import (
	"fmt"
	"strings"

	"chartlint/internal/source"
)

// FormatLines renders diagnostics one per line as
//
//	severity CODE path:line:col message
//
// with paths relative to the file set base. The short CLI format and the
// tests use it; callers sort first. Notes follow their diagnostic as
// "note" lines when notes is set. Spans of unknown files are skipped.
func FormatLines(diags []Diagnostic, fs *source.FileSet, notes bool) string {
	if fs == nil {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		code := d.Code.ID()
		if l, ok := formatLine(fs, strings.ToLower(d.Severity.String()), code, d.Primary, d.Message); ok {
			lines = append(lines, l)
		}
		if !notes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := formatLine(fs, "note", code, n.Span, n.Msg); ok {
				lines = append(lines, l)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func formatLine(fs *source.FileSet, sev, code string, span source.Span, msg string) (string, bool) {
	if int(span.File) >= fs.Len() {
		return "", false
	}
	file := fs.Get(span.File)
	pos := file.Position(span.Start)
	path := file.FormatPath("relative", fs.BaseDir())
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return fmt.Sprintf("%s %s %s:%s %s", sev, code, path, pos, SanitizeMessage(msg)), true
}

// SanitizeMessage folds a multi-line message, such as a Python traceback,
// into one line.
func SanitizeMessage(msg string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(msg, "\r", "\n")), " ")
}
