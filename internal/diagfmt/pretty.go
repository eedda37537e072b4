package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/source"
)

const tabWidth = 8

type palette struct {
	sev   map[diag.Severity]*color.Color
	path  *color.Color
	code  *color.Color
	gut   *color.Color
	caret *color.Color
	note  *color.Color
}

// newPalette builds colours that ignore color.NoColor: the caller decides.
func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan),
		},
		path:  mk(color.Bold),
		code:  mk(color.FgMagenta),
		gut:   mk(color.FgBlue),
		caret: mk(color.FgGreen, color.Bold),
		note:  mk(color.FgCyan),
	}
}

// stickyWriter remembers the first write error so the formatting code stays linear.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

// Pretty форматирует диагностики в человекочитаемый вид в порядке bag.Items().
// Для каждой диагностики:
//
//	<path>:<line>:<col>: <sev>: <CODE> <message>
//	   3 | def f(x):
//	     |     ^
//
// Notes печатаются при ShowNotes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	out := &stickyWriter{w: w}
	pal := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		d := &items[i]
		sev := pal.sev[d.Severity]
		if sev == nil {
			sev = pal.sev[diag.SevInfo]
		}

		path, loc, ok := location(d, fs, opts.PathMode)
		if ok {
			out.printf("%s: ", pal.path.Sprintf("%s:%d:%d", path, loc.Line, loc.Col))
		}
		out.printf("%s: %s\n", sev.Sprint(d.Severity.String()), messageWithCode(d, pal))

		if ok && opts.Context {
			writeContext(out, fs.Get(d.Primary.File), loc, opts.Width, pal)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				writeNote(out, fs, n, opts.PathMode, pal)
			}
		}
	}
	return out.err
}

// messageWithCode prefixes the code ID unless the message already starts with it
// (rule messages do).
func messageWithCode(d *diag.Diagnostic, pal palette) string {
	id := d.Code.ID()
	if rest, found := strings.CutPrefix(d.Message, id+" "); found {
		return pal.code.Sprint(id) + " " + rest
	}
	return pal.code.Sprint(id) + " " + d.Message
}

func writeContext(out *stickyWriter, f *source.File, loc source.LineCol, width int, pal palette) {
	line := strings.TrimRight(f.GetLine(loc.Line), "\r\n")
	if line == "" && len(f.Content) == 0 {
		return
	}
	text, caret := expandLine(line, int(loc.Col))
	if width > 0 && runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
		caret = min(caret, max(width-1, 0))
	}
	num := strconv.FormatUint(uint64(loc.Line), 10)
	pad := strings.Repeat(" ", len(num))
	out.printf(" %s %s %s\n", pal.gut.Sprint(num), pal.gut.Sprint("|"), text)
	out.printf(" %s %s %s%s\n", pad, pal.gut.Sprint("|"), strings.Repeat(" ", caret), pal.caret.Sprint("^"))
}

// expandLine разворачивает табы и возвращает экранную колонку байтовой колонки col (1-based).
func expandLine(line string, col int) (string, int) {
	var b strings.Builder
	w, caret := 0, -1
	for i, r := range line {
		if caret < 0 && i >= col-1 {
			caret = w
		}
		if r == '\t' {
			n := tabWidth - w%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			w += n
			continue
		}
		b.WriteRune(r)
		w += runewidth.RuneWidth(r)
	}
	if caret < 0 {
		caret = w
	}
	return b.String(), caret
}

func writeNote(out *stickyWriter, fs *source.FileSet, n diag.Note, mode PathMode, pal palette) {
	if !hasFile(fs, n.Span) {
		out.printf("  %s %s\n", pal.note.Sprint("note:"), n.Msg)
		return
	}
	loc := n.Loc
	if loc.IsZero() {
		loc, _ = fs.Resolve(n.Span)
	}
	out.printf("  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), formatPath(fs, n.Span.File, mode), loc.Line, loc.Col, n.Msg)
}
