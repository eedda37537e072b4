package diagfmt

import (
	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/source"
)

// hasFile reports whether span points into fs; run-level diagnostics
// (source.NoFile) do not.
func hasFile(fs *source.FileSet, span source.Span) bool {
	_, ok := fs.Lookup(span.File)
	return ok
}

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	return fs.Get(id).DisplayPath(mode, fs.BaseDir())
}

// location returns the path and position of d, ok=false for run-level diagnostics.
func location(d *diag.Diagnostic, fs *source.FileSet, mode PathMode) (path string, loc source.LineCol, ok bool) {
	if !hasFile(fs, d.Primary) {
		return "", source.LineCol{}, false
	}
	return formatPath(fs, d.Primary.File, mode), d.Location(fs), true
}

