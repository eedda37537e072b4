// Package docstring splits raw docstring text into headed sections.
//
// The parser recognises Google style ("Returns:") and NumPy style
// ("Returns" underlined with dashes) headings from a fixed vocabulary. It
// never fails: anything it does not understand is body text.
package docstring

// Normalised section names.
const (
	SectionArgs       = "args"
	SectionReturns    = "returns"
	SectionYields     = "yields"
	SectionRaises     = "raises"
	SectionAttributes = "attributes"
)

var vocabulary = map[string]string{
	"args":       SectionArgs,
	"arguments":  SectionArgs,
	"parameters": SectionArgs,
	"params":     SectionArgs,
	"returns":    SectionReturns,
	"return":     SectionReturns,
	"yields":     SectionYields,
	"yield":      SectionYields,
	"raises":     SectionRaises,
	"raise":      SectionRaises,
	"attributes": SectionAttributes,
	"attrs":      SectionAttributes,
}

// Entry is one documented name inside a section ("x: the value").
type Entry struct {
	Name       string
	LineOffset int // line index inside the docstring
	Indent     int // leading whitespace bytes on the raw line
}

// Occurrence is one heading and the lines under it.
type Occurrence struct {
	Name       string // normalised, e.g. "returns"
	Heading    string // heading text as written, e.g. "Return:"
	LineOffset int
	Indent     int
	BodyLines  []string
	Entries    []Entry
}

// Parsed is the section structure of one docstring. Occurrences keep source
// order and duplicates are never merged.
type Parsed struct {
	Occurrences []Occurrence
	HasSummary  bool
}

// Sections returns the occurrences of one section name in source order.
func (p *Parsed) Sections(name string) []Occurrence {
	var out []Occurrence
	for _, o := range p.Occurrences {
		if o.Name == name {
			out = append(out, o)
		}
	}
	return out
}

// Count returns how many times a section occurs.
func (p *Parsed) Count(name string) int {
	n := 0
	for _, o := range p.Occurrences {
		if o.Name == name {
			n++
		}
	}
	return n
}

func (p *Parsed) Has(name string) bool {
	return p.Count(name) > 0
}
