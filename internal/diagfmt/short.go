package diagfmt

import (
	"io"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

// Short пишет по одной строке на диагностику:
// <severity> <CODE> <path>:<line>:<col> <message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	out := diag.FormatLines(bag.Items(), fs, false)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
