package diag

import "vipyrdocs/internal/source"

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// NewAt builds a rule diagnostic anchored at a line/column position.
func NewAt(code Code, loc source.LineCol, msg string) Diagnostic {
	return Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  msg,
		Loc:      loc,
	}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFile rebinds the primary span and notes to a FileSet file.
func (d Diagnostic) WithFile(id source.FileID) Diagnostic {
	d.Primary = d.Primary.WithFile(id)
	if len(d.Notes) > 0 {
		notes := make([]Note, len(d.Notes))
		for i, n := range d.Notes {
			n.Span = n.Span.WithFile(id)
			notes[i] = n
		}
		d.Notes = notes
	}
	return d
}
