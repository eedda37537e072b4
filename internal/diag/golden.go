package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"vipyrdocs/internal/source"
)

// goldenLine is one rendered row: "SEV CODE path:line:col message".
type goldenLine struct {
	sev  string
	code string
	path string
	at   source.LineCol
	msg  string
}

func (g goldenLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", g.sev, g.code, g.path, g.at.Line, g.at.Col, g.msg)
}

func compareGolden(a, b goldenLine) int {
	return cmp.Or(
		strings.Compare(a.path, b.path),
		cmp.Compare(a.at.Line, b.at.Line),
		cmp.Compare(a.at.Col, b.at.Col),
		strings.Compare(a.sev, b.sev),
		strings.Compare(a.code, b.code),
		strings.Compare(a.msg, b.msg),
	)
}

// FormatGoldenDiagnostics renders diags for golden files: one line per
// diagnostic (and per note when includeNotes), sorted by position, with
// paths relative to the FileSet base. Files under site-packages or a .venv
// are left out. Returns "" when nothing remains.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []goldenLine
	for i := range diags {
		d := &diags[i]
		if path, ok := goldenPath(fs, d.Primary.File); ok {
			lines = append(lines, goldenLine{d.Severity.String(), d.Code.ID(), path, d.Location(fs), oneLine(d.Message)})
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			path, ok := goldenPath(fs, n.Span.File)
			if !ok {
				continue
			}
			at := n.Loc
			if at.IsZero() {
				at, _ = fs.Resolve(n.Span)
			}
			lines = append(lines, goldenLine{"note", d.Code.ID(), path, at, oneLine(n.Msg)})
		}
	}
	slices.SortStableFunc(lines, compareGolden)

	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = l.String()
	}
	return strings.Join(rows, "\n")
}

// goldenPath returns the slash path of id, or false for unknown and vendored files.
func goldenPath(fs *source.FileSet, id source.FileID) (string, bool) {
	f, ok := fs.Lookup(id)
	if !ok {
		return "", false
	}
	p := filepath.ToSlash(f.DisplayPath(source.PathRelative, fs.BaseDir()))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	if isVendored(p) {
		return "", false
	}
	return p, true
}

func isVendored(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == "site-packages" || seg == ".venv" {
			return true
		}
	}
	return false
}

// oneLine folds line breaks so a message never spans rows.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.Join(strings.FieldsFunc(msg, func(r rune) bool {
		return r == '\n' || r == '\r'
	}), " "))
}
