package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"chartlint/internal/diag"
	"chartlint/internal/source"
)

const tabWidth = 4

type palette struct {
	sev   map[diag.Severity]*color.Color
	path  *color.Color
	gut   *color.Color
	caret *color.Color
	note  *color.Color
	fix   *color.Color
	del   *color.Color
	add   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevInfo:     color.New(color.FgCyan),
			diag.SevWarning:  color.New(color.FgYellow, color.Bold),
			diag.SevError:    color.New(color.FgRed, color.Bold),
			diag.SevCritical: color.New(color.FgMagenta, color.Bold),
		},
		path:  color.New(color.Bold),
		gut:   color.New(color.FgBlue),
		caret: color.New(color.FgRed, color.Bold),
		note:  color.New(color.FgCyan),
		fix:   color.New(color.FgGreen),
		del:   color.New(color.FgRed),
		add:   color.New(color.FgGreen),
	}
	all := []*color.Color{p.path, p.gut, p.caret, p.note, p.fix, p.del, p.add}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	loc := location(fs, d.Primary, opts.PathMode)
	sevColor := p.sev[d.Severity]
	if sevColor == nil {
		sevColor = p.sev[diag.SevInfo]
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(loc),
		sevColor.Sprint(d.Severity.String()),
		d.Code.ID(),
		diag.SanitizeMessage(d.Message))

	if file, ok := fileOf(fs, d.Primary); ok && len(file.Content) > 0 {
		writeSnippet(w, file, d.Primary, opts, p)
	}

	if hint, ok := d.Attr("hint"); ok {
		fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("hint:"), hint)
	}
	if opts.ShowAttrs {
		for _, a := range d.Attrs {
			if a.Key == "hint" {
				continue
			}
			fmt.Fprintf(w, "  = %s: %s\n", a.Key, a.Value)
		}
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts.PathMode), n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fx := range d.Fixes {
			writeFix(w, i+1, fx, fs, opts, p)
		}
	}
}

func writeFix(w io.Writer, n int, fx diag.Fix, fs *source.FileSet, opts PrettyOpts, p palette) {
	meta := []string{fx.Kind.String(), fx.Applicability.String()}
	if fx.ID != "" {
		meta = append([]string{"id=" + fx.ID}, meta...)
	}
	if fx.IsPreferred {
		meta = append(meta, "preferred")
	}
	fmt.Fprintf(w, "  %s %s [%s]\n", p.fix.Sprintf("fix #%d:", n), fx.Title, strings.Join(meta, ", "))
	for _, e := range fx.Edits {
		fmt.Fprintf(w, "      edit %s apply=%q\n", location(fs, e.Span, opts.PathMode), e.NewText)
		if !opts.ShowPreview {
			continue
		}
		pv, err := buildEditPreview(fs, e)
		if err != nil {
			fmt.Fprintf(w, "      preview unavailable: %v\n", err)
			continue
		}
		fmt.Fprintln(w, "      preview:")
		for _, line := range pv.before {
			fmt.Fprintf(w, "        %s\n", p.del.Sprint("- "+expandTabs(line)))
		}
		for _, line := range pv.after {
			fmt.Fprintf(w, "        %s\n", p.add.Sprint("+ "+expandTabs(line)))
		}
	}
}

// writeSnippet prints the primary line with its context and a caret line.
func writeSnippet(w io.Writer, file *source.File, sp source.Span, opts PrettyOpts, p palette) {
	start := file.Position(sp.Start)
	ctx, err := safecast.Conv[uint32](max(opts.Context, 0))
	if err != nil {
		ctx = 0
	}
	first := max(start.Line-min(ctx, start.Line-1), 1)
	last := start.Line + ctx
	last = max(min(last, lineCount(file)), start.Line)
	gutter := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		text := expandTabs(file.LineText(ln))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s\n", p.gut.Sprintf("%*d |", gutter, ln), text)
		if ln != start.Line {
			continue
		}
		line := file.LineText(ln)
		col := int(start.Col - 1)
		col = min(col, len(line))
		prefix := runewidth.StringWidth(expandTabs(line[:col]))
		end := len(line)
		if lineEnd := int(sp.End - sp.Start); col+lineEnd < end {
			end = col + lineEnd
		}
		width := max(runewidth.StringWidth(expandTabs(line[col:end])), 1)
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, " %s %s%s\n", p.gut.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", prefix), p.caret.Sprint(marker))
	}
}

func lineCount(f *source.File) uint32 {
	n := len(f.LineIdx)
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	c, err := safecast.Conv[uint32](n)
	if err != nil {
		return ^uint32(0)
	}
	return c
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func fileOf(fs *source.FileSet, sp source.Span) (*source.File, bool) {
	if int(sp.File) >= fs.Len() {
		return nil, false
	}
	return fs.Get(sp.File), true
}

// location formats path:line:col of a span.
func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	file, ok := fileOf(fs, sp)
	if !ok {
		return "<unknown>"
	}
	pos := file.Position(sp.Start)
	return fmt.Sprintf("%s:%d:%d", formatPath(file, fs, mode), pos.Line, pos.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	return f.FormatPath(mode.mode(), fs.BaseDir())
}
