package facts

import (
	"strings"

	"vipyrdocs/internal/pyast"
)

var propertyMarkers = []string{"property", "cached_property", "cachedproperty"}

var cachedPropertyMarkers = []string{"cached_property", "cachedproperty"}

func oneOf(name string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}

// matcher describes one decorator family.
type matcher struct {
	names []string // bare name forms
	attrs []string // attribute names accepted in `mod.attr` form
	bases []string // allowed bases for the attribute form, nil means any Name
	// wrapped allows one level of `wrapper(marker)` where the marker is an argument.
	wrapped bool
}

var (
	propertyMatcher = matcher{
		names:   propertyMarkers,
		attrs:   cachedPropertyMarkers,
		wrapped: true,
	}
	overloadMatcher = matcher{
		names: []string{"overload"},
		attrs: []string{"overload"},
		bases: []string{"typing", "typing_extensions"},
	}
	fixtureMatcher = matcher{
		names: []string{"fixture"},
		attrs: []string{"fixture"},
		bases: []string{"pytest"},
	}
	staticMatcher = matcher{
		names: []string{"staticmethod"},
	}
)

// resolve classifies a decorator expression. Call forms recurse into the
// callee, so recursion depth is bounded by the expression depth.
func (m matcher) resolve(e pyast.Expr) bool {
	switch x := e.(type) {
	case *pyast.Name:
		return oneOf(x.ID, m.names)
	case *pyast.Attribute:
		base, ok := x.Value.(*pyast.Name)
		if !ok || !oneOf(x.Attr, m.attrs) {
			return false
		}
		return m.bases == nil || oneOf(base.ID, m.bases)
	case *pyast.Call:
		if m.resolve(x.Func) {
			return true
		}
		if !m.wrapped {
			return false
		}
		// wrapper(cached_property): только один уровень, без вложенных вызовов
		for _, arg := range x.Args {
			switch arg.(type) {
			case *pyast.Name, *pyast.Attribute:
				if m.resolve(arg) {
					return true
				}
			}
		}
	}
	return false
}

func (m matcher) any(decorators []pyast.Expr) bool {
	for _, d := range decorators {
		if m.resolve(d) {
			return true
		}
	}
	return false
}
