package rules

import (
	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/docstring"
)

func checkDocstring(c *evalCtx) {
	if c.def.HasDocstring() {
		return
	}
	c.emit(diag.DocstrMissing, c.def.At, diag.MessageArgs{})
	// без docstring остальные правила молчат
	c.stop = true
}

func checkReturns(c *evalCtx) {
	d := c.def
	c.sectionShape(c.doc.Sections(docstring.SectionReturns),
		diag.ReturnsSectionMissing, diag.ReturnsSectionUnexpected, diag.ReturnsSectionDuplicate,
		d.ReturnsValue && !d.IsProperty, d.ReturnAt,
		!d.ReturnsValue)
}

func checkYields(c *evalCtx) {
	d := c.def
	c.sectionShape(c.doc.Sections(docstring.SectionYields),
		diag.YieldsSectionMissing, diag.YieldsSectionUnexpected, diag.YieldsSectionDuplicate,
		d.YieldsValue, d.YieldAt,
		!d.YieldsValue)
}

func checkArgs(c *evalCtx) {
	d := c.def
	public := d.PublicParams()
	secs := c.doc.Sections(docstring.SectionArgs)

	missingAt := d.At
	if len(public) > 0 {
		missingAt = public[0].At
	}
	c.sectionShape(secs,
		diag.ArgsSectionMissing, diag.ArgsSectionUnexpected, diag.ArgsSectionDuplicate,
		len(public) > 0, missingAt,
		len(d.Params) == 0)
	if len(secs) != 1 || len(d.Params) == 0 {
		return
	}
	entries := secs[0].Entries
	documented := entryNames(entries)
	for _, p := range public {
		if !documented[p.Name] {
			c.emit(diag.ArgUndocumented, p.At, diag.MessageArgs{Name: p.Name})
		}
	}
	inSignature := make(map[string]bool, len(d.Params))
	for _, p := range d.Params {
		inSignature[p.Name] = true
	}
	c.unknownEntries(entries, diag.ArgNotInSignature, func(name string) bool { return inSignature[name] })
	c.duplicates(entries, diag.ArgDocumentedTwice)
}

func checkRaises(c *evalCtx) {
	d := c.def
	secs := c.doc.Sections(docstring.SectionRaises)
	c.sectionShape(secs,
		diag.RaisesSectionMissing, diag.RaisesSectionUnexpected, diag.RaisesSectionDuplicate,
		d.RaisesExplicit, d.RaiseAt,
		!d.RaisesExplicit && !d.Reraises)

	var entries []docstring.Entry
	if len(secs) == 1 {
		entries = secs[0].Entries
		documented := entryNames(entries)
		for _, r := range d.Raised {
			if !documented[r.Name] {
				c.emit(diag.ExcUndocumented, r.At, diag.MessageArgs{Name: r.Name})
			}
		}
		if d.RaisesExplicit && !d.Reraises {
			raised := make(map[string]bool, len(d.Raised))
			for _, r := range d.Raised {
				raised[r.Name] = true
			}
			c.unknownEntries(entries, diag.ExcNotRaised, func(name string) bool { return raised[name] })
		}
	}
	if d.Reraises && !d.RaisesExplicit && !anyEntries(secs) {
		c.emit(diag.ReraiseUndocumented, d.ReraiseAt, diag.MessageArgs{})
	}
	if len(secs) == 1 {
		c.duplicates(entries, diag.ExcDocumentedTwice)
	}
}

func checkAttributes(c *evalCtx) {
	d := c.def
	secs := c.doc.Sections(docstring.SectionAttributes)
	c.sectionShape(secs,
		diag.AttrsSectionMissing, diag.AttrsSectionUnexpected, diag.AttrsSectionDuplicate,
		d.HasPublicAttributes, c.docLoc(0, 0),
		!d.HasPublicAttributes && len(d.ClassAttributes) == 0)
	if len(secs) != 1 {
		return
	}
	entries := secs[0].Entries
	documented := entryNames(entries)
	for _, a := range d.Attributes {
		if !documented[a.Name] {
			c.emit(diag.AttrUndocumented, a.At, diag.MessageArgs{Name: a.Name})
		}
	}
	c.unknownEntries(entries, diag.AttrNotDefined, func(name string) bool {
		// приватные атрибуты не собираются, но документировать их можно
		return d.HasAttribute(name) || (name != "" && name[0] == '_')
	})
	c.duplicates(entries, diag.AttrDocumentedTwice)
}

// unknownEntries emits code once per distinct entry name that known rejects.
func (c *evalCtx) unknownEntries(entries []docstring.Entry, code diag.Code, known func(string) bool) {
	reported := make(map[string]bool)
	for _, e := range entries {
		if known(e.Name) || reported[e.Name] {
			continue
		}
		reported[e.Name] = true
		c.emit(code, c.entryLoc(e), diag.MessageArgs{Name: e.Name})
	}
}

func entryNames(entries []docstring.Entry) map[string]bool {
	out := make(map[string]bool, len(entries))
	for _, e := range entries {
		out[e.Name] = true
	}
	return out
}

func anyEntries(secs []docstring.Occurrence) bool {
	for _, s := range secs {
		if len(s.Entries) > 0 {
			return true
		}
	}
	return false
}
