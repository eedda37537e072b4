package diag

import (
	"vipyrdocs/internal/source"
)

type Note struct {
	Span source.Span
	Loc  source.LineCol
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Loc      source.LineCol
	Notes    []Note
}

// Location returns Loc, resolving Primary through fs when Loc was not set.
func (d *Diagnostic) Location(fs *source.FileSet) source.LineCol {
	if !d.Loc.IsZero() {
		return d.Loc
	}
	if _, ok := fs.Lookup(d.Primary.File); !ok {
		return d.Loc
	}
	start, _ := fs.Resolve(d.Primary)
	return start
}
