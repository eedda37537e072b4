package facts

import (
	"fmt"

	"vipyrdocs/internal/pyast"
	"vipyrdocs/internal/source"
)

// Extract computes the facts of a function or class definition. inClass marks
// functions that sit directly in a class body (methods).
//
// Extract panics when def is not a *pyast.FunctionDef or *pyast.ClassDef.
func Extract(def pyast.Stmt, inClass bool) *Definition {
	switch d := def.(type) {
	case *pyast.FunctionDef:
		return extractFunction(d, inClass)
	case *pyast.ClassDef:
		return extractClass(d)
	}
	panic(fmt.Sprintf("facts: Extract called with %T, want a function or class definition", def))
}

func docOf(body []pyast.Stmt) *Doc {
	c, ok := pyast.Docstring(body)
	if !ok {
		return nil
	}
	at := c.ValueAt
	if at.IsZero() {
		at = c.Pos()
	}
	return &Doc{Raw: c.Value, At: at}
}

func extractFunction(fn *pyast.FunctionDef, inClass bool) *Definition {
	d := &Definition{
		Kind: KindFunction,
		Name: fn.Name,
		At:   fn.Pos(),
		Span: fn.Span(),
		Doc:  docOf(fn.Body),
	}
	if inClass {
		d.Kind = KindMethod
	}
	d.IsProperty = propertyMatcher.any(fn.Decorators)
	d.IsOverload = overloadMatcher.any(fn.Decorators)
	d.IsFixture = fixtureMatcher.any(fn.Decorators)
	d.IsStaticMethod = staticMatcher.any(fn.Decorators)

	params := fn.Params
	if inClass && !d.IsStaticMethod && len(params) > 0 {
		params = params[1:]
	}
	d.Params = make([]Named, 0, len(params))
	for _, p := range params {
		d.Params = append(d.Params, Named{Name: p.Name, At: p.Pos()})
	}

	var seen map[string]bool
	pyast.InspectScope(fn.Body, pyast.VisitFuncs{
		OnStmt: func(s pyast.Stmt) bool {
			switch st := s.(type) {
			case *pyast.Return:
				if st.Value != nil && !pyast.IsNone(st.Value) && !d.ReturnsValue {
					d.ReturnsValue = true
					d.ReturnAt = st.Pos()
				}
			case *pyast.Raise:
				if st.Exc == nil {
					if !d.Reraises {
						d.Reraises = true
						d.ReraiseAt = st.Pos()
					}
					break
				}
				if !d.RaisesExplicit {
					d.RaisesExplicit = true
					d.RaiseAt = st.Pos()
				}
				if name := exceptionName(st.Exc); name != "" && !seen[name] {
					if seen == nil {
						seen = make(map[string]bool)
					}
					seen[name] = true
					d.Raised = append(d.Raised, Named{Name: name, At: st.Pos()})
				}
			}
			return true
		},
		OnExpr: func(e pyast.Expr) bool {
			switch x := e.(type) {
			case *pyast.Lambda:
				return false
			case *pyast.Yield:
				if d.YieldsValue {
					break
				}
				if x.From || x.Value != nil {
					d.YieldsValue = true
					d.YieldAt = x.Pos()
				}
			}
			return true
		},
	})
	return d
}

// exceptionName names the exception of `raise <exc>`: a call gives its
// callee, a name itself, an attribute its attribute name.
func exceptionName(e pyast.Expr) string {
	switch x := e.(type) {
	case *pyast.Call:
		switch f := x.Func.(type) {
		case *pyast.Name:
			return f.ID
		case *pyast.Attribute:
			return f.Attr
		}
	case *pyast.Name:
		return x.ID
	case *pyast.Attribute:
		return x.Attr
	}
	return ""
}

func extractClass(cls *pyast.ClassDef) *Definition {
	d := &Definition{
		Kind: KindClass,
		Name: cls.Name,
		At:   cls.Pos(),
		Span: cls.Span(),
		Doc:  docOf(cls.Body),
	}
	attrs := newNameSet()
	classAttrs := newNameSet()
	collectClassBody(cls.Body, attrs, classAttrs)
	d.Attributes = attrs.items
	for _, a := range classAttrs.items {
		d.ClassAttributes = append(d.ClassAttributes, a.Name)
	}
	d.HasPublicAttributes = len(d.Attributes) > 0
	return d
}

func collectClassBody(body []pyast.Stmt, attrs, classAttrs *nameSet) {
	for _, s := range body {
		switch st := s.(type) {
		case *pyast.FunctionDef:
			collectInstanceAttrs(st, attrs)
		case *pyast.Assign:
			for _, t := range st.Targets {
				forTargets(t, func(e pyast.Expr) {
					if n, ok := e.(*pyast.Name); ok && !isPrivate(n.ID) {
						classAttrs.add(n.ID, n.Pos())
					}
				})
			}
		case *pyast.Compound:
			for _, b := range st.Bodies {
				collectClassBody(b, attrs, classAttrs)
			}
		}
	}
}

// collectInstanceAttrs records public `self.X = ...` assignments made in one
// method, not descending into functions nested inside it.
func collectInstanceAttrs(fn *pyast.FunctionDef, attrs *nameSet) {
	if len(fn.Params) == 0 || staticMatcher.any(fn.Decorators) {
		return
	}
	self := fn.Params[0].Name
	pyast.InspectScope(fn.Body, pyast.VisitFuncs{
		OnStmt: func(s pyast.Stmt) bool {
			a, ok := s.(*pyast.Assign)
			if !ok {
				return true
			}
			for _, t := range a.Targets {
				forTargets(t, func(e pyast.Expr) {
					at, ok := e.(*pyast.Attribute)
					if !ok || isPrivate(at.Attr) {
						return
					}
					if base, ok := at.Value.(*pyast.Name); ok && base.ID == self {
						attrs.add(at.Attr, a.Pos())
					}
				})
			}
			return true
		},
	})
}

// unpacking targets: `a, b = ...`, `[a, *b] = ...`, `(a) = ...`
var unpackKinds = map[string]bool{
	"pattern_list":             true,
	"tuple_pattern":            true,
	"list_pattern":             true,
	"tuple":                    true,
	"list":                     true,
	"list_splat_pattern":       true,
	"parenthesized_expression": true,
}

func forTargets(t pyast.Expr, fn func(pyast.Expr)) {
	if o, ok := t.(*pyast.OtherExpr); ok && unpackKinds[o.Kind] {
		for _, c := range o.Children {
			forTargets(c, fn)
		}
		return
	}
	fn(t)
}

type nameSet struct {
	index map[string]bool
	items []Named
}

func newNameSet() *nameSet {
	return &nameSet{index: make(map[string]bool)}
}

func (s *nameSet) add(name string, at source.LineCol) {
	if s.index[name] {
		return
	}
	s.index[name] = true
	s.items = append(s.items, Named{Name: name, At: at})
}
