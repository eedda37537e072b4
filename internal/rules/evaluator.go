package rules

import (
	"fortio.org/safecast"

	"vipyrdocs/internal/diag"
	"vipyrdocs/internal/docstring"
	"vipyrdocs/internal/facts"
	"vipyrdocs/internal/source"
)

// Options configure an Evaluator. The zero value enables every rule and uses
// diag.DefaultMoreInfoBase.
type Options struct {
	Disabled     map[diag.Code]bool
	MoreInfoBase string
}

// Evaluator applies the rule table. It holds no mutable state and is safe for
// concurrent use.
type Evaluator struct {
	disabled map[diag.Code]bool
	base     string
}

func NewEvaluator(opts Options) *Evaluator {
	e := &Evaluator{
		disabled: make(map[diag.Code]bool, len(opts.Disabled)),
		base:     opts.MoreInfoBase,
	}
	for c, off := range opts.Disabled {
		if off {
			e.disabled[c] = true
		}
	}
	if e.base == "" {
		e.base = diag.DefaultMoreInfoBase
	}
	return e
}

// Evaluate returns the findings for one definition in rule-table order.
func (e *Evaluator) Evaluate(def *facts.Definition, doc docstring.Parsed) []diag.Diagnostic {
	c := &evalCtx{ev: e, def: def, doc: &doc}
	for i := range families {
		f := &families[i]
		if !f.applies(def.Kind) {
			continue
		}
		f.check(c)
		if c.stop {
			break
		}
	}
	return c.out
}

// Check parses the definition's own docstring and evaluates it.
func (e *Evaluator) Check(def *facts.Definition) []diag.Diagnostic {
	var parsed docstring.Parsed
	if def.Doc != nil {
		parsed = docstring.Parse(def.Doc.Raw)
	}
	return e.Evaluate(def, parsed)
}

type evalCtx struct {
	ev   *Evaluator
	def  *facts.Definition
	doc  *docstring.Parsed
	out  []diag.Diagnostic
	stop bool
}

func (c *evalCtx) emit(code diag.Code, at source.LineCol, args diag.MessageArgs) {
	if c.ev.disabled[code] {
		return
	}
	c.out = append(c.out, diag.NewAt(code, at, code.Render(c.ev.base, args)))
}

// docLoc maps a docstring line offset and raw indentation to a file position.
func (c *evalCtx) docLoc(offset, indent int) source.LineCol {
	at := c.def.Doc.At
	off, errOff := safecast.Conv[uint32](offset)
	col, errCol := safecast.Conv[uint32](indent)
	if errOff != nil || errCol != nil {
		// смещение не представимо: указываем на начало docstring
		return at
	}
	if off == 0 {
		return source.LineCol{Line: at.Line, Col: at.Col + col}
	}
	return source.LineCol{Line: at.Line + off, Col: col + 1}
}

func (c *evalCtx) headingLoc(o docstring.Occurrence) source.LineCol {
	return c.docLoc(o.LineOffset, o.Indent)
}

func (c *evalCtx) entryLoc(e docstring.Entry) source.LineCol {
	return c.docLoc(e.LineOffset, e.Indent)
}

// sectionShape emits the missing / unexpected / duplicate trio of a family.
func (c *evalCtx) sectionShape(secs []docstring.Occurrence, missing, unexpected, duplicate diag.Code,
	wantMissing bool, missingAt source.LineCol, wantUnexpected bool) {
	if wantMissing && len(secs) == 0 {
		c.emit(missing, missingAt, diag.MessageArgs{})
	}
	if wantUnexpected && len(secs) > 0 {
		c.emit(unexpected, c.headingLoc(secs[0]), diag.MessageArgs{})
	}
	if len(secs) >= 2 {
		c.emit(duplicate, c.headingLoc(secs[1]), diag.MessageArgs{Count: len(secs)})
	}
}

// duplicates emits code once per entry name that repeats, at its second
// occurrence.
func (c *evalCtx) duplicates(entries []docstring.Entry, code diag.Code) {
	seen := make(map[string]int, len(entries))
	for _, e := range entries {
		seen[e.Name]++
		if seen[e.Name] == 2 {
			c.emit(code, c.entryLoc(e), diag.MessageArgs{Name: e.Name})
		}
	}
}
