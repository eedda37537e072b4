package pyast

// Module is one parsed source unit.
type Module struct {
	Path string
	Body []Stmt
	// HasErrors is set when the parser recovered from syntax errors.
	HasErrors bool
	// ErrorAt lists the positions of recovered syntax errors.
	ErrorAt []Base
}

// Docstring returns the leading string literal of a body, if any.
func Docstring(body []Stmt) (*Constant, bool) {
	if len(body) == 0 {
		return nil, false
	}
	es, ok := body[0].(*ExprStmt)
	if !ok {
		return nil, false
	}
	c, ok := es.Value.(*Constant)
	if !ok || c.Kind != ConstStr {
		return nil, false
	}
	return c, true
}

// Definition is a function or class found by Definitions.
type Definition struct {
	Node Stmt // *FunctionDef or *ClassDef
	// InClass is true when Node sits directly in a class body.
	InClass bool
	// Parent is the enclosing definition, nil at module level.
	Parent Stmt
}

// Definitions returns every function and class definition of the module in
// source order (pre-order: a definition precedes the ones nested inside it).
func Definitions(m *Module) []Definition {
	if m == nil {
		return nil
	}
	var out []Definition
	collectDefinitions(m.Body, nil, false, &out)
	return out
}

func collectDefinitions(body []Stmt, parent Stmt, inClass bool, out *[]Definition) {
	for _, st := range body {
		switch s := st.(type) {
		case *FunctionDef:
			*out = append(*out, Definition{Node: s, InClass: inClass, Parent: parent})
			collectDefinitions(s.Body, s, false, out)
		case *ClassDef:
			*out = append(*out, Definition{Node: s, InClass: inClass, Parent: parent})
			collectDefinitions(s.Body, s, true, out)
		case *Compound:
			// def внутри if/try всё ещё принадлежит текущему классу
			for _, b := range s.Bodies {
				collectDefinitions(b, parent, inClass, out)
			}
		}
	}
}
