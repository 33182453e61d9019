package source

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
)

// Position maps a byte offset to line and column. The '\n' itself belongs
// to the line it ends.
func (f *File) Position(off uint32) LineCol {
	return position(f.LineIdx, off)
}

// Line is the 1-based line the span starts on.
func (f *File) Line(span Span) uint32 {
	return f.Position(span.Start).Line
}

// Text returns the bytes under span, clamped to the file.
func (f *File) Text(span Span) string {
	n := uint32(len(f.Content)) //nolint:gosec // проверено в Add
	start, end := min(span.Start, n), min(span.End, n)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// lineBounds returns the byte range of 1-based line n without its '\n'.
func (f *File) lineBounds(n uint32) (start, end uint32, ok bool) {
	lines := uint32(len(f.LineIdx)) + 1 //nolint:gosec
	if n == 0 || n > lines {
		return 0, 0, false
	}
	if n > 1 {
		start = f.LineIdx[n-2] + 1
	}
	end = uint32(len(f.Content)) //nolint:gosec
	if n <= uint32(len(f.LineIdx)) { //nolint:gosec
		end = f.LineIdx[n-1]
	}
	return start, end, true
}

// LineText returns line n (1-based) without the newline, "" when out of range.
// A file with mixed endings keeps its \r, which is dropped here too.
func (f *File) LineText(n uint32) string {
	start, end, ok := f.lineBounds(n)
	if !ok {
		return ""
	}
	return strings.TrimSuffix(string(f.Content[start:end]), "\r")
}

// LineSpan covers line n without its indentation. Out-of-range lines give an
// empty span at the end of the file.
func (f *File) LineSpan(n uint32) Span {
	start, end, ok := f.lineBounds(n)
	if !ok {
		eof := uint32(len(f.Content)) //nolint:gosec
		return Span{File: f.ID, Start: eof, End: eof}
	}
	for start < end && (f.Content[start] == ' ' || f.Content[start] == '\t') {
		start++
	}
	if end > start && f.Content[end-1] == '\r' {
		end--
	}
	return Span{File: f.ID, Start: start, End: end}
}

// FormatPath renders the path for reports. mode is one of "absolute",
// "relative" (to baseDir, falling back to absolute outside it), "basename"
// and "auto": long absolute paths shrink to dir/chart.py.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return cleanPath(abs)
		}
	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := relativeTo(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if len(f.Path) >= 48 && filepath.IsAbs(f.Path) {
			return filepath.Base(filepath.Dir(f.Path)) + "/" + filepath.Base(f.Path)
		}
	}
	return f.Path
}

// Restore re-applies what Load stripped, so a rewritten file keeps its BOM
// and line endings.
func (f *File) Restore(content []byte) []byte {
	out := content
	if f.Flags.Has(FileNormalizedCRLF) {
		out = bytes.ReplaceAll(content, []byte("\n"), []byte("\r\n"))
	}
	if f.Flags.Has(FileHadBOM) {
		out = append(bytes.Clone(utf8BOM), out...)
	}
	return out
}

// ChangedOnDisk reports whether the file at f.Path differs from what was
// loaded. Virtual files never change.
func (f *File) ChangedOnDisk() (bool, error) {
	if f.Flags.Has(FileVirtual) {
		return false, nil
	}
	// #nosec G304 -- path was loaded earlier
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return false, err
	}
	content, _ := normalize(raw)
	return sha256.Sum256(content) != f.Hash, nil
}
