package facts

import "vipyrdocs/internal/source"

// Kind classifies a definition.
type Kind uint8

const (
	KindFunction Kind = iota
	KindMethod
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindClass:
		return "class"
	}
	return "unknown"
}

// Named is a name with the position of its first occurrence.
type Named struct {
	Name string
	At   source.LineCol
}

// Doc is the docstring attached to a definition.
type Doc struct {
	Raw string
	// At is the position of the first byte of the docstring text (just past
	// the opening quotes).
	At source.LineCol
}

// Definition holds the facts of one definition. Values are computed once by
// Extract and never changed afterwards.
type Definition struct {
	Kind Kind
	Name string
	At   source.LineCol
	Span source.Span

	Doc *Doc

	ReturnsValue bool
	ReturnAt     source.LineCol // first value-returning return

	YieldsValue bool
	YieldAt     source.LineCol // first value-yielding yield

	RaisesExplicit bool
	RaiseAt        source.LineCol // first explicit raise
	// Raised lists explicitly raised exception names, deduplicated, in source order.
	Raised    []Named
	Reraises  bool
	ReraiseAt source.LineCol // first bare raise

	IsProperty     bool
	IsOverload     bool
	IsFixture      bool
	IsStaticMethod bool

	// Params excludes the bound first parameter of methods.
	Params []Named

	HasPublicAttributes bool
	// Attributes are public `self.X` assignments made in methods, first
	// assignment wins.
	Attributes []Named
	// ClassAttributes are public names assigned directly in the class body.
	ClassAttributes []string
}

// HasDocstring reports whether a non-blank docstring is attached.
func (d *Definition) HasDocstring() bool {
	return d.Doc != nil && !isBlank(d.Doc.Raw)
}

// PublicParams returns the parameters whose names do not start with '_'.
func (d *Definition) PublicParams() []Named {
	out := make([]Named, 0, len(d.Params))
	for _, p := range d.Params {
		if !isPrivate(p.Name) {
			out = append(out, p)
		}
	}
	return out
}

// HasAttribute reports whether name is an instance or class attribute.
func (d *Definition) HasAttribute(name string) bool {
	for _, a := range d.Attributes {
		if a.Name == name {
			return true
		}
	}
	for _, a := range d.ClassAttributes {
		if a == name {
			return true
		}
	}
	return false
}

func isPrivate(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			return false
		}
	}
	return true
}
