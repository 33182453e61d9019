package source

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalize drops a leading BOM and folds \r\n into \n when every line ends
// with \r\n. Mixed endings are kept as they are: Restore could not put them
// back line by line. A lone \r stays.
func normalize(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := bytes.CutPrefix(raw, utf8BOM)
	if hadBOM {
		flags |= FileHadBOM
	}
	crlf := bytes.Count(content, []byte("\r\n"))
	if crlf > 0 && crlf == bytes.Count(content, []byte("\n")) {
		content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// lineIndex returns the offsets of every '\n'.
func lineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte("\n")))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return idx
		}
		off += i
		idx = append(idx, uint32(off)) //nolint:gosec // длина проверена в Add
		off++
	}
}

func position(lineIdx []uint32, off uint32) LineCol {
	// число '\n' строго до off и есть 0-based номер строки
	line, _ := slices.BinarySearch(lineIdx, off)
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1} //nolint:gosec
}

func cleanPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// relativeTo returns target relative to base, or the absolute target when it
// lies outside base.
func relativeTo(target, base string) (string, error) {
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absBase, absTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return cleanPath(absTarget), nil //nolint:nilerr // вне базы: абсолютный путь
	}
	return cleanPath(rel), nil
}
