package diagfmt

import (
	"encoding/json"
	"io"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/source"
)

// Position points into a checked file. Byte offsets are omitted when the
// diagnostic was built from a line/column only.
type Position struct {
	File      string `json:"file"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	StartByte uint32 `json:"start_byte,omitempty"`
	EndByte   uint32 `json:"end_byte,omitempty"`
}

type NoteEntry struct {
	Message  string    `json:"message"`
	Location *Position `json:"location,omitempty"`
}

// Entry - одна диагностика в JSON-отчёте.
type Entry struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Name     string      `json:"name"`
	Message  string      `json:"message"`
	Location *Position   `json:"location,omitempty"`
	Notes    []NoteEntry `json:"notes,omitempty"`
}

// Report is the document written by --format json. Count is the number of
// entries after JSONOpts.Max; Errors and Warnings count the same entries.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
}

func position(span source.Span, loc source.LineCol, fs *source.FileSet, mode PathMode) *Position {
	if !hasFile(fs, span) {
		return nil
	}
	if loc.IsZero() {
		loc, _ = fs.Resolve(span)
	}
	return &Position{
		File:      formatPath(fs, span.File, mode),
		StartLine: loc.Line,
		StartCol:  loc.Col,
		StartByte: span.Start,
		EndByte:   span.End,
	}
}

// BuildReport keeps bag order. Notes are included with IncludeNotes, and
// always for the timings diagnostic whose note carries the JSON payload.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	rep := Report{Diagnostics: make([]Entry, 0, len(items))}
	for i := range items {
		d := &items[i]
		e := Entry{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Name:     d.Code.Title(),
			Message:  d.Message,
			Location: position(d.Primary, d.Loc, fs, opts.PathMode),
		}
		if opts.IncludeNotes || d.Code == diag.ObsTimings {
			for _, n := range d.Notes {
				e.Notes = append(e.Notes, NoteEntry{Message: n.Msg, Location: position(n.Span, n.Loc, fs, opts.PathMode)})
			}
		}
		switch d.Severity {
		case diag.SevError:
			rep.Errors++
		case diag.SevWarning:
			rep.Warnings++
		}
		rep.Diagnostics = append(rep.Diagnostics, e)
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON writes BuildReport as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
